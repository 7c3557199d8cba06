package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/sokoni/core"
	"github.com/trezcool/sokoni/core/catalog"
	"github.com/trezcool/sokoni/services/metrics"
)

const coursesFailedMsg = "Could not load courses. Please try again."

type catalogApi struct {
	conf    *core.Config
	market  MarketService
	metrics *metrics.Metrics
	logger  core.Logger
}

func registerCatalogAPI(g *echo.Group, deps ServerDeps) {
	api := catalogApi{
		conf:    deps.Conf,
		market:  deps.Market,
		metrics: deps.Metrics,
		logger:  deps.Logger,
	}

	g.GET("/courses", api.browse)
	g.GET("/tags", api.tags)
}

// browse runs one filter-or-search query. Each request carries its own page
// together with the filters that produced it, so a page can never outlive a
// filter change here; session-held state lives in the catalog.Browser.
func (api *catalogApi) browse(ctx echo.Context) error {
	req := new(BrowseRequest)
	if err := ctx.Bind(req); err != nil {
		return errors.Wrap(err, "binding to BrowseRequest")
	}
	req.Clean()

	engine := catalog.NewEngine(api.conf.Catalog.PageSize, api.conf.Catalog.PriceCeiling)
	engine.SetSearchTerm(req.Search)
	engine.SetSort(req.Sort)
	for _, tag := range req.Tags {
		engine.ToggleTag(tag)
	}
	if req.MaxPrice != nil {
		engine.SetMaxPrice(*req.MaxPrice)
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	q := engine.Query(page)

	env, err := api.market.FetchCourses(ctx.Request().Context(), q)
	if err != nil {
		if api.metrics != nil {
			api.metrics.FetchErrors.Inc()
		}
		api.logger.Error("catalog: fetching courses", err, map[string]interface{}{"query": q.Signature()})
		return ctx.JSON(http.StatusOK, BrowseResponse{Items: []catalog.Course{}, Message: coursesFailedMsg})
	}

	if env.Items == nil {
		env.Items = []catalog.Course{}
	}
	return ctx.JSON(http.StatusOK, BrowseResponse{
		Items: env.Items,
		Pagination: catalog.PageState{
			Page:       env.Page,
			PageSize:   env.PageSize,
			TotalCount: env.TotalCount,
			TotalPages: env.TotalPages,
			HasNext:    env.HasNext,
			HasPrev:    env.HasPrev,
		},
	})
}

func (api *catalogApi) tags(ctx echo.Context) error {
	tags, err := api.market.FetchTags(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "fetching tags")
	}
	if tags == nil {
		tags = []catalog.Tag{}
	}
	return ctx.JSON(http.StatusOK, tags)
}

type (
	BrowseRequest struct {
		Search   string   `query:"search"`
		Tags     []string `query:"tag"`
		MaxPrice *int     `query:"max_price"`
		Sort     string   `query:"sort"`
		Page     int      `query:"page"`
	}

	BrowseResponse struct {
		Items      []catalog.Course  `json:"items"`
		Pagination catalog.PageState `json:"pagination"`
		Message    string            `json:"message,omitempty"`
	}
)

func (br *BrowseRequest) Clean() {
	br.Search = core.CleanString(br.Search)
	br.Sort = core.CleanString(br.Sort, true /* lower */)
}
