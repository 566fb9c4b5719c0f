package fooddata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bububa/platelens/nutrition"
	"github.com/bububa/platelens/schema"
	"github.com/bububa/platelens/tools"
)

const (
	defaultBaseURL  = "https://api.nal.usda.gov/fdc/v1"
	defaultPageSize = 5
	defaultTimeout  = 10 * time.Second
)

// data categories requested from the search endpoint
var searchDataTypes = []string{"Foundation", "SR Legacy", "Survey (FNDDS)"}

// candidate categories trusted over raw relevance order
var preferredDataTypes = map[string]struct{}{
	"Foundation":     {},
	"Survey (FNDDS)": {},
}

// Input identifies one food to look up. The cooking method, when present, is
// prepended to the query to bias the search toward prepared-food entries.
type Input struct {
	schema.Base
	// FoodName name of the food to search for
	FoodName string `json:"food_name" jsonschema:"title=food_name,description=Name of the food to search for." validate:"required"`
	// CookingMethod optional preparation hint prepended to the query
	CookingMethod string `json:"cooking_method,omitempty" jsonschema:"title=cooking_method,description=Optional preparation hint prepended to the query."`
	// WeightGrams portion weight the returned record is scaled to
	WeightGrams float64 `json:"weight_grams,omitempty" jsonschema:"title=weight_grams,description=Portion weight in grams the returned record is scaled to."`
}

func NewInput(foodName, cookingMethod string, weightGrams float64) *Input {
	return &Input{
		FoodName:      foodName,
		CookingMethod: cookingMethod,
		WeightGrams:   weightGrams,
	}
}

func (s Input) String() string {
	return schema.Stringify(s)
}

// Output carries the lookup result. Found is false on an ordinary miss, which
// is an expected signal rather than an error.
type Output struct {
	schema.Base
	// Found whether the database returned a usable record
	Found bool `json:"found"`
	// Record portion-scaled nutrition record, valid only when Found
	Record nutrition.Record `json:"record,omitempty"`
}

func (s Output) String() string {
	return schema.Stringify(s)
}

type Config struct {
	tools.Config
	apiKey     string
	baseURL    string
	pageSize   int
	httpClient *http.Client
	cache      *Cache
	logger     *zap.SugaredLogger
}

// FoodData looks up nutrition facts in the USDA FoodData Central search API.
type FoodData struct {
	Config
}

var _ tools.Tool[Input, Output] = (*FoodData)(nil)

func New(opts ...Option) *FoodData {
	ret := new(FoodData)
	for _, opt := range opts {
		opt(&ret.Config)
	}
	if ret.Title() == "" {
		ret.SetTitle("FoodDataSearch")
	}
	if ret.baseURL == "" {
		ret.baseURL = defaultBaseURL
	}
	if ret.pageSize == 0 {
		ret.pageSize = defaultPageSize
	}
	if ret.httpClient == nil {
		ret.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if ret.cache == nil {
		ret.cache = NewCache()
	}
	if ret.logger == nil {
		ret.logger = zap.NewNop().Sugar()
	}
	return ret
}

// Cache returns the tool's cache, mainly for stats inspection.
func (t *FoodData) Cache() *Cache {
	return t.cache
}

// Run resolves one food against the database. Ordinary not-found and any
// transport or decoding failure both surface as Found=false: lookup problems
// must never abort the pipeline, the caller advances to the next tier.
func (t *FoodData) Run(ctx context.Context, input *Input) (*Output, error) {
	if fn := t.StartHook(); fn != nil {
		fn(ctx, t, input)
	}
	out := new(Output)
	query := strings.TrimSpace(strings.TrimSpace(input.CookingMethod) + " " + strings.TrimSpace(input.FoodName))
	rec, found, err := t.lookup(ctx, query)
	if err == nil && !found && strings.TrimSpace(input.CookingMethod) != "" {
		// Descriptive terms often over-constrain the index: retry once with
		// the bare food name. Two explicit calls, never a loop.
		bare := strings.TrimSpace(input.FoodName)
		t.logger.Infow("detailed search empty, retrying with bare name", "query", query, "retry", bare)
		rec, found, err = t.lookup(ctx, bare)
	}
	if err != nil {
		t.logger.Warnw("food data search failed", "query", query, "error", err)
		if fn := t.ErrorHook(); fn != nil {
			fn(ctx, t, input, err)
		}
		return out, nil
	}
	if !found {
		t.logger.Infow("no food data found", "query", query)
		if fn := t.EndHook(); fn != nil {
			fn(ctx, t, input, out)
		}
		return out, nil
	}
	out.Found = true
	if input.WeightGrams > 0 {
		out.Record = rec.ScaleTo(input.WeightGrams)
	} else {
		out.Record = rec
	}
	if fn := t.EndHook(); fn != nil {
		fn(ctx, t, input, out)
	}
	return out, nil
}

// lookup checks the cache, then the search endpoint, caching the base record
// on success.
func (t *FoodData) lookup(ctx context.Context, query string) (nutrition.Record, bool, error) {
	if rec, ok := t.cache.Get(query); ok {
		return rec, true, nil
	}
	candidates, err := t.search(ctx, query)
	if err != nil {
		return nutrition.Record{}, false, err
	}
	if len(candidates) == 0 {
		return nutrition.Record{}, false, nil
	}
	best := selectCandidate(candidates)
	rec := buildRecord(best, query)
	t.cache.Put(query, rec)
	t.logger.Infow("food data found", "query", query, "food", rec.FoodName, "calories", rec.Calories)
	return rec, true, nil
}

func (t *FoodData) search(ctx context.Context, query string) ([]foodCandidate, error) {
	values := url.Values{}
	values.Set("query", query)
	values.Set("api_key", t.apiKey)
	values.Set("pageSize", strconv.Itoa(t.pageSize))
	for _, dt := range searchDataTypes {
		values.Add("dataType", dt)
	}
	values.Set("sortBy", "dataType.keyword")
	searchURL := fmt.Sprintf("%s/foods/search?%s", t.baseURL, values.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error querying food database: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("non-200 response from food database: %d", httpResp.StatusCode)
	}
	var searchResp searchResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&searchResp); err != nil {
		return nil, err
	}
	return searchResp.Foods, nil
}

// selectCandidate prefers Foundation and Survey entries, which are the
// curated and mixed-dish categories. When none qualifies the database's
// relevance order is trusted and the first candidate wins.
func selectCandidate(candidates []foodCandidate) foodCandidate {
	for _, c := range candidates {
		if _, ok := preferredDataTypes[c.DataType]; ok {
			return c
		}
	}
	return candidates[0]
}

// buildRecord extracts the normalized nutrient set from a candidate. Source
// rows are inconsistently tagged, so each slot matches on the standardized
// nutrient number or a case-insensitive name substring, whichever is present.
func buildRecord(c foodCandidate, fallbackName string) nutrition.Record {
	rec := nutrition.Record{
		FoodName:    c.Description,
		ServingSize: c.ServingSize,
		ServingUnit: c.ServingSizeUnit,
		Source:      nutrition.SourceUSDA,
	}
	if rec.FoodName == "" {
		rec.FoodName = fallbackName
	}
	if rec.ServingUnit == "" {
		rec.ServingUnit = "g"
	}
	for _, n := range c.FoodNutrients {
		name := strings.ToLower(n.NutrientName)
		switch {
		case n.NutrientNumber == nutrientEnergy || strings.Contains(name, "energy") || strings.Contains(name, "calorie"):
			// only kcal rows count, kJ duplicates are skipped
			if unit := strings.ToLower(n.UnitName); unit == "kcal" || unit == "calories" {
				rec.Calories = n.Value
			}
		case n.NutrientNumber == nutrientProtein || strings.Contains(name, "protein"):
			rec.Protein = n.Value
		case n.NutrientNumber == nutrientFat || strings.Contains(name, "fat") || strings.Contains(name, "lipid"):
			rec.Fat = n.Value
		case n.NutrientNumber == nutrientCarbohydrates || strings.Contains(name, "carbohydrate"):
			rec.Carbohydrates = n.Value
		case n.NutrientNumber == nutrientFiber || strings.Contains(name, "fiber"):
			rec.Fiber = n.Value
		case n.NutrientNumber == nutrientSodium || strings.Contains(name, "sodium"):
			rec.Sodium = n.Value
		case n.NutrientNumber == nutrientCalcium || strings.Contains(name, "calcium"):
			rec.Calcium = n.Value
		case n.NutrientNumber == nutrientIron || strings.Contains(name, "iron"):
			rec.Iron = n.Value
		}
	}
	return rec
}
