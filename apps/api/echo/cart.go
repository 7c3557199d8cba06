package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/sokoni/core"
	"github.com/trezcool/sokoni/core/cart"
	"github.com/trezcool/sokoni/core/catalog"
	"github.com/trezcool/sokoni/services/metrics"
)

const suggestionsFailedMsg = "Could not load suggestions right now."

type cartApi struct {
	store    *cart.Store
	market   MarketService
	metrics  *metrics.Metrics
	validate *validator.Validate
	logger   core.Logger
}

func registerCartAPI(g *echo.Group, deps ServerDeps) {
	api := cartApi{
		store:    deps.Cart,
		market:   deps.Market,
		metrics:  deps.Metrics,
		validate: deps.Validate,
		logger:   deps.Logger,
	}

	cg := g.Group("/cart")
	cg.GET("", api.retrieve)
	cg.GET("/summary", api.summary)
	cg.GET("/suggestions", api.suggestions)
	cg.POST("/items", api.addItem)
	cg.DELETE("/items/:id", api.removeItem)
	cg.POST("/selection/:id", api.toggleSelection)
}

// Handlers

func (api *cartApi) retrieve(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.response())
}

func (api *cartApi) addItem(ctx echo.Context) error {
	var data cart.NewItem
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewItem")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	// duplicate ids are a no-op, not an error
	added := api.store.Add(data.Item())
	if api.metrics != nil && added {
		api.metrics.CartOps.WithLabelValues("add").Inc()
	}

	code := http.StatusOK
	if added {
		code = http.StatusCreated
	}
	return ctx.JSON(code, api.response())
}

func (api *cartApi) removeItem(ctx echo.Context) error {
	removed := api.store.Remove(ctx.Param("id"))
	if api.metrics != nil && removed {
		api.metrics.CartOps.WithLabelValues("remove").Inc()
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *cartApi) toggleSelection(ctx echo.Context) error {
	toggled := api.store.Toggle(ctx.Param("id"))
	if api.metrics != nil && toggled {
		api.metrics.CartOps.WithLabelValues("toggle").Inc()
	}
	return ctx.JSON(http.StatusOK, api.response())
}

func (api *cartApi) summary(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.store.Totals())
}

// suggestions proxies the "frequently bought together" fetch. Failures
// degrade to an empty list with a user-visible message, never a stale one.
func (api *cartApi) suggestions(ctx echo.Context) error {
	ids := make([]string, 0)
	for _, it := range api.store.Items() {
		ids = append(ids, it.ID)
	}

	courses, err := api.market.Recommendations(ctx.Request().Context(), ids)
	if err != nil {
		if api.metrics != nil {
			api.metrics.FetchErrors.Inc()
		}
		api.logger.Error("cart: fetching suggestions", err)
		return ctx.JSON(http.StatusOK, SuggestionsResponse{Items: []catalog.Course{}, Message: suggestionsFailedMsg})
	}
	if courses == nil {
		courses = []catalog.Course{}
	}
	return ctx.JSON(http.StatusOK, SuggestionsResponse{Items: courses})
}

func (api *cartApi) response() CartResponse {
	items := api.store.Items()
	out := make([]CartItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, CartItemResponse{Item: it, Selected: api.store.IsSelected(it.ID)})
	}
	return CartResponse{Items: out, Totals: api.store.Totals()}
}

type (
	CartItemResponse struct {
		cart.Item
		Selected bool `json:"selected"`
	}

	CartResponse struct {
		Items  []CartItemResponse `json:"items"`
		Totals cart.Totals        `json:"totals"`
	}

	SuggestionsResponse struct {
		Items   []catalog.Course `json:"items"`
		Message string           `json:"message,omitempty"`
	}
)
