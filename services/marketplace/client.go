package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/sokoni/core"
	"github.com/trezcool/sokoni/core/catalog"
)

const (
	coursesEndpoint         = "/v1/courses"
	searchEndpoint          = "/v1/courses/search"
	tagsEndpoint            = "/v1/tags"
	recommendationsEndpoint = "/v1/courses/recommendations"
)

// Client talks to the remote course-marketplace REST API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  core.Logger
}

var _ catalog.Fetcher = (*Client)(nil)

func NewClient(conf *core.Config, logger core.Logger) *Client {
	return &Client{
		baseURL: conf.Catalog.BaseURL,
		http:    &http.Client{Timeout: conf.Catalog.FetchTimeout},
		logger:  logger,
	}
}

// FetchCourses issues the normalized query against the listing endpoint, or
// the search endpoint when the query is in search mode.
func (c *Client) FetchCourses(ctx context.Context, q catalog.Query) (catalog.Envelope, error) {
	endpoint := coursesEndpoint
	if q.IsSearch() {
		endpoint = searchEndpoint
	}

	var env catalog.Envelope
	if err := c.get(ctx, endpoint, q.Values(), &env); err != nil {
		return catalog.Envelope{}, err
	}
	return env, nil
}

func (c *Client) FetchTags(ctx context.Context) ([]catalog.Tag, error) {
	var tags []catalog.Tag
	if err := c.get(ctx, tagsEndpoint, nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// Recommendations returns "frequently bought together" suggestions for the
// given cart item ids.
func (c *Client) Recommendations(ctx context.Context, ids []string) ([]catalog.Course, error) {
	v := make(url.Values)
	for _, id := range ids {
		v.Add("Id", id)
	}

	var courses []catalog.Course
	if err := c.get(ctx, recommendationsEndpoint, v, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	u := c.baseURL + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.Wrapf(err, "building request %s", endpoint)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", reqID)

	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "calling %s", endpoint)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode >= http.StatusBadRequest {
		c.logger.Error(
			fmt.Sprintf("marketplace: %s returned %d", endpoint, res.StatusCode),
			map[string]interface{}{"request_id": reqID, "status": strconv.Itoa(res.StatusCode)},
		)
		return errors.Errorf("calling %s: status %d", endpoint, res.StatusCode)
	}

	if err = json.NewDecoder(res.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decoding %s response", endpoint)
	}
	return nil
}
