package mealdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/robertmeta/dishlyst/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI serves a small in-memory recipe catalogue with TheMealDB's routes.
type fakeAPI struct {
	recipes    map[string]model.Recipe
	byCategory map[string][]string
	byArea     map[string][]string
	randomIDs  []string
	failRandom map[int]bool

	randomCalls atomic.Int64
	mu          sync.Mutex
	queries     []string
}

func newFakeAPI() *fakeAPI {
	recipes := []model.Recipe{
		{ID: "1", Name: "Beef Wellington", Category: "Beef", Area: "British"},
		{ID: "2", Name: "Beef Tacos", Category: "Beef", Area: "Mexican"},
		{ID: "3", Name: "Cottage Pie", Category: "Beef", Area: "British"},
		{ID: "4", Name: "Fish Pie", Category: "Seafood", Area: "British"},
	}
	f := &fakeAPI{
		recipes:    map[string]model.Recipe{},
		byCategory: map[string][]string{"Beef": {"1", "2", "3", "404"}, "Seafood": {"4"}},
		byArea:     map[string][]string{"British": {"1", "3", "4"}},
	}
	for _, r := range recipes {
		f.recipes[r.ID] = r
	}
	return f
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.queries = append(f.queries, r.URL.RawQuery)
	f.mu.Unlock()

	q := r.URL.Query()
	switch r.URL.Path {
	case "/search.php":
		data, err := os.ReadFile("testdata/search_arrabiata.json")
		if err != nil || q.Get("s") != "Arrabiata" {
			writeMeals(w, nil)
			return
		}
		_, _ = w.Write(data)
	case "/random.php":
		n := int(f.randomCalls.Add(1)) - 1
		if f.failRandom[n] {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		r := f.recipes[f.randomIDs[n%len(f.randomIDs)]]
		writeMeals(w, []any{r})
	case "/lookup.php":
		r, ok := f.recipes[q.Get("i")]
		if !ok {
			writeMeals(w, nil)
			return
		}
		writeMeals(w, []any{r})
	case "/filter.php":
		ids := f.byCategory[q.Get("c")]
		if q.Has("a") {
			ids = f.byArea[q.Get("a")]
		}
		if ids == nil {
			writeMeals(w, nil)
			return
		}
		var meals []any
		for _, id := range ids {
			meals = append(meals, model.RecipeSummary{ID: id, Name: "summary " + id})
		}
		writeMeals(w, meals)
	default:
		http.NotFound(w, r)
	}
}

// writeMeals writes {"meals": meals}, with a JSON null for a nil slice.
func writeMeals(w http.ResponseWriter, meals []any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"meals": meals})
}

func newTestClient(t *testing.T, api http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", opts...)
}

func TestSearchByName(t *testing.T) {
	c := newTestClient(t, newFakeAPI())

	recipes := c.SearchByName(context.Background(), "Arrabiata")
	require.Len(t, recipes, 1)

	r := recipes[0]
	assert.Equal(t, "52771", r.ID)
	assert.Equal(t, "Spicy Arrabiata Penne", r.Name)
	assert.Equal(t, "Italian", r.Area)
	assert.Equal(t, []string{"Pasta", "Curry"}, r.Tags)
	assert.Empty(t, r.Source, "null fields decode as empty")
	assert.Equal(t, []model.Ingredient{
		{Slot: 1, Name: "penne rigate", Measure: "1 pound"},
		{Slot: 2, Name: "olive oil", Measure: "1/4 cup"},
		{Slot: 3, Name: "garlic", Measure: "3 cloves"},
	}, r.Ingredients)
}

func TestSearchByName_NullMeals(t *testing.T) {
	c := newTestClient(t, newFakeAPI())

	assert.Empty(t, c.SearchByName(context.Background(), "nothing matches"))
}

func TestSearchByName_EscapesQuery(t *testing.T) {
	api := newFakeAPI()
	c := newTestClient(t, api)

	c.SearchByName(context.Background(), "mac & cheese")

	require.Len(t, api.queries, 1)
	assert.Equal(t, "s=mac+%26+cheese", api.queries[0])
}

func TestRandomSample_Dedups(t *testing.T) {
	api := newFakeAPI()
	api.randomIDs = []string{"1", "2", "1", "3", "2", "1", "3", "3"}
	c := newTestClient(t, api)

	recipes := c.RandomSample(context.Background(), 8)

	assert.Equal(t, int64(8), api.randomCalls.Load())
	ids := make([]string, 0, len(recipes))
	for _, r := range recipes {
		ids = append(ids, r.ID)
	}
	assert.ElementsMatch(t, []string{"1", "2", "3"}, ids)
}

func TestRandomSample_FailedRequestsContributeNothing(t *testing.T) {
	api := newFakeAPI()
	api.randomIDs = []string{"1", "2", "3", "4"}
	api.failRandom = map[int]bool{0: true, 1: true, 2: true}
	c := newTestClient(t, api)

	recipes := c.RandomSample(context.Background(), 4)
	assert.Len(t, recipes, 1)
	assert.Empty(t, c.RandomSample(context.Background(), 0))
}

func TestFilterByCategoryAndArea(t *testing.T) {
	c := newTestClient(t, newFakeAPI())
	ctx := context.Background()

	beef := c.FilterByCategory(ctx, "Beef")
	require.Len(t, beef, 4)
	assert.Equal(t, model.RecipeSummary{ID: "1", Name: "summary 1"}, beef[0])

	assert.Len(t, c.FilterByArea(ctx, "British"), 3)
	assert.Empty(t, c.FilterByArea(ctx, "Atlantean"))
}

func TestLookupByID(t *testing.T) {
	c := newTestClient(t, newFakeAPI())
	ctx := context.Background()

	r := c.LookupByID(ctx, "3")
	require.NotNil(t, r)
	assert.Equal(t, "Cottage Pie", r.Name)

	assert.Nil(t, c.LookupByID(ctx, "999"))
}

func TestHydrateSummaries(t *testing.T) {
	c := newTestClient(t, newFakeAPI())
	ctx := context.Background()

	summaries := []model.RecipeSummary{{ID: "3"}, {ID: "404"}, {ID: "1"}, {ID: "2"}}

	recipes := c.HydrateSummaries(ctx, summaries, 3)
	require.Len(t, recipes, 2, "unresolvable summaries are dropped")
	assert.Equal(t, "3", recipes[0].ID, "summary order is kept")
	assert.Equal(t, "1", recipes[1].ID)

	assert.Empty(t, c.HydrateSummaries(ctx, summaries, 0))
}

func TestApplyFilters(t *testing.T) {
	tests := []struct {
		name    string
		filters model.Filters
		want    []string
	}{
		{name: "none", filters: model.Filters{}, want: nil},
		{name: "category only", filters: model.Filters{Category: "Beef"}, want: []string{"1", "2", "3"}},
		{name: "area only", filters: model.Filters{Area: "British"}, want: []string{"1", "3", "4"}},
		{name: "both intersect by area", filters: model.Filters{Category: "Beef", Area: "British"}, want: []string{"1", "3"}},
		{name: "area match is exact", filters: model.Filters{Category: "Beef", Area: "british"}, want: nil},
	}

	c := newTestClient(t, newFakeAPI())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ids []string
			for _, r := range c.ApplyFilters(context.Background(), tt.filters) {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestApplyFilters_RespectsLimit(t *testing.T) {
	c := newTestClient(t, newFakeAPI(), WithMaxFilterResults(2))

	recipes := c.ApplyFilters(context.Background(), model.Filters{Category: "Beef"})
	assert.Len(t, recipes, 2)
}

func TestFailuresDegradeToEmpty(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{name: "server error", handler: func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "down", http.StatusServiceUnavailable)
		}},
		{name: "malformed body", handler: func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"meals": [`)
		}},
		{name: "meals is not a list", handler: func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"meals": "nope"}`)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)
			ctx := context.Background()

			assert.Empty(t, c.SearchByName(ctx, "x"))
			assert.Empty(t, c.RandomSample(ctx, 2))
			assert.Empty(t, c.FilterByCategory(ctx, "Beef"))
			assert.Nil(t, c.LookupByID(ctx, "1"))
			assert.Empty(t, c.ApplyFilters(ctx, model.Filters{Area: "British"}))
		})
	}
}

func TestUnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := NewClient(srv.URL)
	assert.Empty(t, c.SearchByName(context.Background(), "x"))
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	c := NewClient("  ")
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, DefaultMaxFilterResults, c.maxFilterResults)
}

func TestVocabularies(t *testing.T) {
	assert.Len(t, Categories(), 14)
	assert.Contains(t, Categories(), "Goat")
	assert.Len(t, Areas(), 28)
	assert.Equal(t, "American", Areas()[0])
}
