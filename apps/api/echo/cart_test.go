package echoapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/sokoni/core"
	"github.com/trezcool/sokoni/core/cart"
	logsvc "github.com/trezcool/sokoni/services/logger"
	dummymkt "github.com/trezcool/sokoni/services/marketplace/dummy"
	inmemkv "github.com/trezcool/sokoni/storage/kv/inmem"
)

func setup(t *testing.T, items ...cart.Item) (*Server, *cart.Store, *dummymkt.Client) {
	t.Helper()

	conf := core.NewConfig()
	conf.Debug = false
	conf.TestMode = true

	logger := logsvc.NewStdLogger(log.New(io.Discard, "", 0))

	kv := inmemkv.New()
	if items != nil {
		data, err := json.Marshal(items)
		require.NoError(t, err)
		require.NoError(t, kv.Write("cart_items", data))
	}
	store := cart.NewStore(kv, logger)
	market := dummymkt.NewClient()

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)

	srv := NewServer(ServerDeps{
		Conf:           conf,
		Logger:         logger,
		Cart:           store,
		Market:         market,
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
	})
	return srv, store, market
}

func request(srv *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		buf.Write(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) CartResponse {
	t.Helper()
	var res CartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func Test_cartApi_retrieve(t *testing.T) {
	srv, _, _ := setup(t,
		cart.Item{ID: "A", Title: "Go", Price: 100, OriginalPrice: 200},
		cart.Item{ID: "B", Title: "SQL", Price: 50},
	)

	rec := request(srv, http.MethodGet, "/v1/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	res := decodeCart(t, rec)
	require.Len(t, res.Items, 2)
	assert.True(t, res.Items[0].Selected)
	assert.True(t, res.Items[1].Selected)
	assert.Equal(t, cart.Totals{Subtotal: 150, Savings: 100, Total: 150}, res.Totals)
}

func Test_cartApi_addItem(t *testing.T) {
	srv, store, _ := setup(t, cart.Item{ID: "A", Title: "Go", Price: 100})

	body := []byte(`{"id":"B","title":"SQL","price":50}`)
	rec := request(srv, http.MethodPost, "/v1/cart/items", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, store.Items(), 2)

	// duplicate add is a no-op, not an error
	rec = request(srv, http.MethodPost, "/v1/cart/items", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, store.Items(), 2)
}

func Test_cartApi_addItemValidation(t *testing.T) {
	srv, store, _ := setup(t, cart.Item{ID: "A", Title: "Go", Price: 100})

	tests := []struct {
		name     string
		body     string
		wantFlds []string
	}{
		{"missing id and title", `{"price":100}`, []string{"id", "title"}},
		{"negative price", `{"id":"B","title":"SQL","price":-1}`, []string{"price"}},
		{"rating out of range", `{"id":"B","title":"SQL","price":1,"rating":7}`, []string{"rating"}},
		{"discount without original price", `{"id":"B","title":"SQL","price":1,"discount":40}`, []string{"discount"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := request(srv, http.MethodPost, "/v1/cart/items", []byte(tt.body))
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var fldErrs map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fldErrs))
			for _, fld := range tt.wantFlds {
				assert.Contains(t, fldErrs, fld)
			}
		})
	}
	assert.Len(t, store.Items(), 1, "invalid payloads must not touch the cart")
}

func Test_cartApi_removeItem(t *testing.T) {
	srv, store, _ := setup(t,
		cart.Item{ID: "A", Title: "Go", Price: 100},
		cart.Item{ID: "B", Title: "SQL", Price: 50},
	)

	rec := request(srv, http.MethodDelete, "/v1/cart/items/A", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Len(t, store.Items(), 1)
	assert.Equal(t, []string{"B"}, store.SelectedIDs())

	// removing an absent id is a silent no-op
	rec = request(srv, http.MethodDelete, "/v1/cart/items/A", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Len(t, store.Items(), 1)
}

func Test_cartApi_toggleSelection(t *testing.T) {
	srv, store, _ := setup(t,
		cart.Item{ID: "A", Title: "Go", Price: 100},
		cart.Item{ID: "B", Title: "SQL", Price: 50},
	)

	rec := request(srv, http.MethodPost, "/v1/cart/selection/A", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"B"}, store.SelectedIDs())

	res := decodeCart(t, rec)
	assert.Equal(t, cart.Totals{Subtotal: 50, Total: 50}, res.Totals)

	// toggling an id not in the cart changes nothing
	rec = request(srv, http.MethodPost, "/v1/cart/selection/ghost", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"B"}, store.SelectedIDs())
}

func Test_cartApi_summary(t *testing.T) {
	srv, _, _ := setup(t,
		cart.Item{ID: "A", Title: "Go", Price: 100, OriginalPrice: 300},
		cart.Item{ID: "B", Title: "SQL", Price: 50},
	)

	rec := request(srv, http.MethodGet, "/v1/cart/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var totals cart.Totals
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &totals))
	assert.Equal(t, cart.Totals{Subtotal: 150, Savings: 200, Total: 150}, totals)
}

func Test_cartApi_suggestions(t *testing.T) {
	srv, _, market := setup(t, cart.Item{ID: "crs-go-101", Title: "Go", Price: 100})

	rec := request(srv, http.MethodGet, "/v1/cart/suggestions", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var res SuggestionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.NotEmpty(t, res.Items)
	assert.Empty(t, res.Message)
	for _, crs := range res.Items {
		assert.NotEqual(t, "crs-go-101", crs.ID, "items already in the cart are not suggested")
	}

	// fetch failures degrade to an empty list with a message
	market.Err = assert.AnError
	rec = request(srv, http.MethodGet, "/v1/cart/suggestions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Empty(t, res.Items)
	assert.NotEmpty(t, res.Message)
}
