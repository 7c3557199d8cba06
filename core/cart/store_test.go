package cart

import (
	"encoding/json"
	"io"
	"log"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/sokoni/core"
	logsvc "github.com/trezcool/sokoni/services/logger"
	inmemkv "github.com/trezcool/sokoni/storage/kv/inmem"
)

func testLogger() core.Logger {
	return logsvc.NewStdLogger(log.New(io.Discard, "", 0))
}

func testItem(id string, price, origPrice int) Item {
	return Item{ID: id, Title: "Course " + id, Price: price, OriginalPrice: origPrice}
}

func setup(t *testing.T, items ...Item) (*Store, *inmemkv.Store) {
	t.Helper()
	kv := inmemkv.New()
	if items != nil {
		data, err := json.Marshal(items)
		require.NoError(t, err)
		require.NoError(t, kv.Write("cart_items", data))
	}
	return NewStore(kv, testLogger()), kv
}

func newTestValidator(t *testing.T) *validator.Validate {
	t.Helper()
	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	return validate
}

// failingKV errors on every call; the store must keep working regardless.
type failingKV struct{}

func (failingKV) Read(string) ([]byte, error) { return nil, errors.New("storage unavailable") }
func (failingKV) Write(string, []byte) error  { return errors.New("storage unavailable") }
func (failingKV) Delete(string) error         { return errors.New("storage unavailable") }

func TestStore_loadFallsBackToSeed(t *testing.T) {
	tests := []struct {
		name  string
		setup func(kv *inmemkv.Store)
	}{
		{"missing key", func(kv *inmemkv.Store) {}},
		{"malformed payload", func(kv *inmemkv.Store) {
			_ = kv.Write("cart_items", []byte("{not json"))
		}},
		{"empty list", func(kv *inmemkv.Store) {
			_ = kv.Write("cart_items", []byte("[]"))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := inmemkv.New()
			tt.setup(kv)
			store := NewStore(kv, testLogger())

			items := store.Items()
			assert.NotEmpty(t, items)
			assert.Equal(t, seedItems(), items)
			// everything starts selected
			assert.Len(t, store.SelectedIDs(), len(items))
		})
	}
}

func TestStore_loadSurvivesStorageErrors(t *testing.T) {
	store := NewStore(failingKV{}, testLogger())
	assert.Equal(t, seedItems(), store.Items())

	// mutations still work; persistence failures are swallowed
	assert.True(t, store.Add(testItem("X", 100, 0)))
	assert.Contains(t, ids(store.Items()), "X")
}

func TestStore_addIsIdempotent(t *testing.T) {
	store, _ := setup(t, testItem("A", 100, 0))

	assert.True(t, store.Add(testItem("B", 200, 0)))
	before := store.Items()

	assert.False(t, store.Add(testItem("B", 999, 0))) // same id, different payload
	assert.Equal(t, before, store.Items())
}

func TestStore_selectionSubsetInvariant(t *testing.T) {
	store, _ := setup(t, testItem("A", 100, 0), testItem("B", 200, 0))

	ops := []func(){
		func() { store.Add(testItem("C", 300, 0)) },
		func() { store.Remove("A") },
		func() { store.Toggle("C") },
		func() { store.Add(testItem("D", 50, 0)) },
		func() { store.Remove("Z") }, // no-op
		func() { store.Remove("B") },
	}
	for _, op := range ops {
		op()
		inCart := make(map[string]bool)
		for _, id := range ids(store.Items()) {
			inCart[id] = true
		}
		for _, id := range store.SelectedIDs() {
			assert.True(t, inCart[id], "selected id %s not in cart", id)
		}
	}
}

func TestStore_reconciliationOnAdd(t *testing.T) {
	store, _ := setup(t, testItem("A", 100, 0), testItem("B", 200, 0))
	store.Toggle("B") // selection: {A}
	require.Equal(t, []string{"A"}, store.SelectedIDs())

	store.Add(testItem("C", 300, 0))

	// existing selection preserved, new entry selected by default
	assert.Equal(t, []string{"A", "C"}, store.SelectedIDs())
	assert.False(t, store.IsSelected("B"))
}

func TestStore_reconciliationOnRemove(t *testing.T) {
	store, _ := setup(t, testItem("A", 100, 0), testItem("B", 200, 0), testItem("C", 300, 0))
	store.Toggle("B") // selection: {A, C}

	store.Remove("B")
	assert.Equal(t, []string{"A", "C"}, ids(store.Items()))
	assert.Equal(t, []string{"A", "C"}, store.SelectedIDs())

	store.Remove("A")
	assert.Equal(t, []string{"C"}, store.SelectedIDs())
}

func TestStore_toggleUnknownIDIsNoop(t *testing.T) {
	store, _ := setup(t, testItem("A", 100, 0))

	assert.False(t, store.Toggle("ghost"))
	assert.Equal(t, []string{"A"}, store.SelectedIDs())
	assert.False(t, store.IsSelected("ghost"))
}

func TestStore_persistenceRoundTrip(t *testing.T) {
	store, kv := setup(t, testItem("A", 100, 0))
	store.Add(testItem("B", 200, 500))
	store.Remove("A")

	// a fresh store over the same kv sees the same cart
	reloaded := NewStore(kv, testLogger())
	assert.ElementsMatch(t, store.Items(), reloaded.Items())
}

func TestStore_buyNowPreSeedsSelection(t *testing.T) {
	kv := inmemkv.New()
	data, err := json.Marshal([]Item{testItem("A", 100, 0), testItem("B", 200, 0)})
	require.NoError(t, err)
	require.NoError(t, kv.Write("cart_items", data))
	require.NoError(t, kv.Write("cart_selected_ids", []byte(`["B"]`)))

	store := NewStore(kv, testLogger())
	assert.Equal(t, []string{"B"}, store.SelectedIDs())

	// the key is single-shot
	_, err = kv.Read("cart_selected_ids")
	assert.ErrorIs(t, err, core.ErrKeyNotFound)

	// a second load starts fully selected again
	fresh := NewStore(kv, testLogger())
	assert.Equal(t, []string{"A", "B"}, fresh.SelectedIDs())
}

func TestNewItem_Validate(t *testing.T) {
	validate := newTestValidator(t)

	tests := []struct {
		name    string
		item    NewItem
		wantErr bool
	}{
		{"valid", NewItem{ID: "A", Title: "Go", Price: 100, Rating: 4.5}, false},
		{"missing id", NewItem{Title: "Go", Price: 100}, true},
		{"negative price", NewItem{ID: "A", Title: "Go", Price: -1}, true},
		{"rating out of range", NewItem{ID: "A", Title: "Go", Rating: 5.5}, true},
		{"original below price", NewItem{ID: "A", Title: "Go", Price: 300, OriginalPrice: 100}, true},
		{"discount without original price", NewItem{ID: "A", Title: "Go", Price: 100, Discount: 40}, true},
		{"cleans whitespace", NewItem{ID: "  A  ", Title: "  Go  ", Price: 100}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate(validate)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.NotContains(t, tt.item.ID, " ")
			}
		})
	}
}

func TestNewItem_Validate_discountNeedsBase(t *testing.T) {
	validate := newTestValidator(t)

	ni := NewItem{ID: "A", Title: "Go", Price: 100, Discount: 40}
	err := ni.Validate(validate)
	require.Error(t, err)

	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Len(t, vErr.Fields, 1)
	assert.Equal(t, "discount", vErr.Fields[0].Field)
}
