// Package mealdb is a read-only client for TheMealDB JSON API.
//
// Every operation degrades to an empty result on failure: transport and
// decode errors are logged and never returned to the caller.
package mealdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/robertmeta/dishlyst/model"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultBaseURL is TheMealDB's public v1 API.
	DefaultBaseURL = "https://www.themealdb.com/api/json/v1/1"
	// DefaultRandomCount is how many random recipes the home view asks for.
	DefaultRandomCount = 8
	// DefaultMaxFilterResults caps how many filter summaries are hydrated.
	DefaultMaxFilterResults = 20

	maxResponseBytes = 4 << 20
)

// Source is the recipe lookup surface the rest of the application depends on.
type Source interface {
	SearchByName(ctx context.Context, query string) []model.Recipe
	RandomSample(ctx context.Context, count int) []model.Recipe
	LookupByID(ctx context.Context, id string) *model.Recipe
	ApplyFilters(ctx context.Context, filters model.Filters) []model.Recipe
}

// Client calls TheMealDB.
type Client struct {
	baseURL          string
	httpClient       *http.Client
	maxFilterResults int
}

var _ Source = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client. The default is http.DefaultClient,
// which imposes no timeout of its own.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithMaxFilterResults caps how many summaries ApplyFilters hydrates.
func WithMaxFilterResults(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxFilterResults = n
		}
	}
}

// NewClient creates a client for the given base URL, or DefaultBaseURL if empty.
func NewClient(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:          strings.TrimRight(baseURL, "/"),
		httpClient:       http.DefaultClient,
		maxFilterResults: DefaultMaxFilterResults,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type mealsResponse[T any] struct {
	Meals []T `json:"meals"`
}

// SearchByName returns the recipes whose name matches the query.
// Callers should not send an empty query.
func (c *Client) SearchByName(ctx context.Context, query string) []model.Recipe {
	meals, _ := fetchMeals[model.Recipe](ctx, c, "search.php", url.Values{"s": {query}})
	return meals
}

// RandomSample issues count independent random requests in parallel and
// returns the distinct recipes among them, so it may return fewer than count.
// A failed request contributes nothing.
func (c *Client) RandomSample(ctx context.Context, count int) []model.Recipe {
	if count <= 0 {
		return nil
	}

	results := make([][]model.Recipe, count)
	var g errgroup.Group
	for i := range count {
		g.Go(func() error {
			results[i], _ = fetchMeals[model.Recipe](ctx, c, "random.php", nil)
			return nil
		})
	}
	_ = g.Wait()

	return lo.UniqBy(lo.Flatten(results), func(r model.Recipe) string { return r.ID })
}

// FilterByCategory returns the summaries of every recipe in a category.
func (c *Client) FilterByCategory(ctx context.Context, category string) []model.RecipeSummary {
	meals, _ := fetchMeals[model.RecipeSummary](ctx, c, "filter.php", url.Values{"c": {category}})
	return meals
}

// FilterByArea returns the summaries of every recipe from an area.
func (c *Client) FilterByArea(ctx context.Context, area string) []model.RecipeSummary {
	meals, _ := fetchMeals[model.RecipeSummary](ctx, c, "filter.php", url.Values{"a": {area}})
	return meals
}

// LookupByID returns the full recipe, or nil if it does not exist or the
// request failed.
func (c *Client) LookupByID(ctx context.Context, id string) *model.Recipe {
	meals, _ := fetchMeals[model.Recipe](ctx, c, "lookup.php", url.Values{"i": {id}})
	if len(meals) == 0 {
		return nil
	}
	return &meals[0]
}

// HydrateSummaries looks up the first limit summaries in parallel and returns
// the full recipes in summary order, dropping any that fail to resolve.
func (c *Client) HydrateSummaries(ctx context.Context, summaries []model.RecipeSummary, limit int) []model.Recipe {
	if limit >= 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}

	resolved := make([]*model.Recipe, len(summaries))
	var g errgroup.Group
	for i, s := range summaries {
		g.Go(func() error {
			resolved[i] = c.LookupByID(ctx, s.ID)
			return nil
		})
	}
	_ = g.Wait()

	return lo.FilterMap(resolved, func(r *model.Recipe, _ int) (model.Recipe, bool) {
		if r == nil {
			return model.Recipe{}, false
		}
		return *r, true
	})
}

// ApplyFilters returns full recipes matching the filters. With both a
// category and an area set, recipes are fetched by category and narrowed to
// the exact area, since the API has no combined filter. With neither set the
// result is empty.
func (c *Client) ApplyFilters(ctx context.Context, filters model.Filters) []model.Recipe {
	switch {
	case filters.Category != "" && filters.Area != "":
		recipes := c.HydrateSummaries(ctx, c.FilterByCategory(ctx, filters.Category), c.maxFilterResults)
		return lo.Filter(recipes, func(r model.Recipe, _ int) bool { return r.Area == filters.Area })
	case filters.Category != "":
		return c.HydrateSummaries(ctx, c.FilterByCategory(ctx, filters.Category), c.maxFilterResults)
	case filters.Area != "":
		return c.HydrateSummaries(ctx, c.FilterByArea(ctx, filters.Area), c.maxFilterResults)
	default:
		return nil
	}
}

// fetchMeals performs one GET and decodes its meals array. A null array is an
// empty result, not a failure. Failures are logged and reported as false.
func fetchMeals[T any](ctx context.Context, c *Client, endpoint string, params url.Values) ([]T, bool) {
	reqURL := c.baseURL + "/" + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	body, err := c.get(ctx, reqURL)
	if err != nil {
		slog.ErrorContext(ctx, "recipe source request failed", "url", reqURL, "error", err)
		return nil, false
	}

	var resp mealsResponse[T]
	if err := json.Unmarshal(body, &resp); err != nil {
		slog.ErrorContext(ctx, "failed to decode recipe source response", "url", reqURL, "error", err)
		return nil, false
	}
	return resp.Meals, true
}

func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	slog.DebugContext(ctx, "querying recipe source", "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}
