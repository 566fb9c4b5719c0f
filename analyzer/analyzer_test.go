package analyzer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bububa/platelens/correct"
	"github.com/bububa/platelens/estimate"
	"github.com/bububa/platelens/identify"
	"github.com/bububa/platelens/nutrition"
	"github.com/bububa/platelens/schema"
	"github.com/bububa/platelens/tools/fooddata"
)

// scriptedLLM routes replies by prompt shape: the vision call returns the
// identification reply, text calls return the merge or estimation reply.
type scriptedLLM struct {
	identifyReply string
	mergeReply    string
	estimateReply string
}

func (s *scriptedLLM) GenerateText(ctx context.Context, prompt string) (string, error) {
	if strings.Contains(prompt, "User Corrections:") {
		return s.mergeReply, nil
	}
	return s.estimateReply, nil
}

func (s *scriptedLLM) GenerateVision(ctx context.Context, img schema.Image, prompt string) (string, error) {
	return s.identifyReply, nil
}

const chickenIdentifyReply = `{
  "food_items": [
    {
      "name": "Grilled Chicken Breast",
      "cooking_method": "Grilled",
      "estimated_quantity": "1 piece",
      "estimated_weight_grams": 150,
      "description": "Skinless grilled chicken breast",
      "confidence_score": 90
    }
  ],
  "reasoning": "Identified by shape and char marks",
  "meal_context": "Lunch"
}`

type usdaFixture map[string]float64

func startUSDAServer(t *testing.T, caloriesPer100g usdaFixture) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := strings.ToLower(r.URL.Query().Get("query"))
		var foods []map[string]any
		for name, calories := range caloriesPer100g {
			if strings.Contains(query, name) {
				foods = append(foods, map[string]any{
					"description": name,
					"dataType":    "Foundation",
					"foodNutrients": []map[string]any{
						{"nutrientNumber": "1008", "nutrientName": "Energy", "value": calories, "unitName": "kcal"},
					},
				})
			}
		}
		json.NewEncoder(w).Encode(map[string]any{"foods": foods})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func fooddataTool(baseURL string) *fooddata.FoodData {
	return fooddata.New(fooddata.WithBaseURL(baseURL))
}

func newTestAnalyzer(llm *scriptedLLM, baseURL string) *Analyzer {
	return New(
		identify.New(llm),
		correct.New(llm),
		fooddataTool(baseURL),
		estimate.New(llm),
	)
}

func TestAnalyzeUSDAHit(t *testing.T) {
	srv := startUSDAServer(t, usdaFixture{"chicken breast": 165})
	llm := &scriptedLLM{identifyReply: chickenIdentifyReply}
	report := newTestAnalyzer(llm, srv.URL).Analyze(context.Background(), schema.Image{}, "")
	if !report.Success {
		t.Fatalf("Expect success, but got failure: %s", report.Error)
	}
	if len(report.FoodItems) != 1 {
		t.Fatalf("Expect 1 item, but got %d", len(report.FoodItems))
	}
	item := report.FoodItems[0]
	if item.DataSource != nutrition.SourceUSDA {
		t.Errorf("Expect data source USDA, but got %s", item.DataSource)
	}
	if item.Nutrition.Calories != 247.5 {
		t.Errorf("Expect calories 247.5, but got %v", item.Nutrition.Calories)
	}
	if item.USDAReference == nil || item.USDAReference.FoodName != "chicken breast" {
		t.Errorf("Expect a USDA reference, but got %+v", item.USDAReference)
	}
	if report.TotalNutrition.Calories != 247.5 {
		t.Errorf("Expect total calories 247.5, but got %v", report.TotalNutrition.Calories)
	}
	counts := report.DataSources.NutritionDataSources
	if counts.USDAItems != 1 || counts.TotalItems != 1 {
		t.Errorf("Expect 1 USDA item of 1, but got %+v", counts)
	}
	if report.DataSources.AccuracyScore != 100 {
		t.Errorf("Expect accuracy 100, but got %v", report.DataSources.AccuracyScore)
	}
	if report.DataSources.FoodIdentification != "Google Gemini AI" {
		t.Errorf("Unexpected identification label: %q", report.DataSources.FoodIdentification)
	}
	if report.Analysis.MealContext != "Lunch" {
		t.Errorf("Expect meal context Lunch, but got %q", report.Analysis.MealContext)
	}
}

func TestAnalyzeModelEstimateOnLookupMiss(t *testing.T) {
	srv := startUSDAServer(t, usdaFixture{})
	llm := &scriptedLLM{
		identifyReply: chickenIdentifyReply,
		estimateReply: `{
  "calories": 240,
  "protein": 44,
  "fat": 5,
  "carbohydrates": 0,
  "fiber": 0,
  "sodium": 110,
  "estimation_confidence": "medium",
  "estimation_notes": "Typical grilled chicken breast"
}`,
	}
	report := newTestAnalyzer(llm, srv.URL).Analyze(context.Background(), schema.Image{}, "")
	if !report.Success {
		t.Fatalf("Expect success, but got failure: %s", report.Error)
	}
	item := report.FoodItems[0]
	if item.DataSource != nutrition.SourceGemini {
		t.Errorf("Expect the model estimate tier, but got %s", item.DataSource)
	}
	if item.EstimationConfidence != nutrition.ConfidenceMedium {
		t.Errorf("Expect medium confidence, but got %s", item.EstimationConfidence)
	}
	if item.Nutrition.Calories != 240 {
		t.Errorf("Expect calories 240, but got %v", item.Nutrition.Calories)
	}
	counts := report.DataSources.NutritionDataSources
	if counts.GeminiEstimated != 1 || counts.USDAItems != 0 {
		t.Errorf("Expect 1 model-estimated item, but got %+v", counts)
	}
	if report.DataSources.AccuracyScore != 70 {
		t.Errorf("Expect accuracy 70, but got %v", report.DataSources.AccuracyScore)
	}
}

func TestAnalyzeCategoryFallback(t *testing.T) {
	srv := startUSDAServer(t, usdaFixture{})
	llm := &scriptedLLM{
		identifyReply: chickenIdentifyReply,
		estimateReply: "I cannot help with that.",
	}
	report := newTestAnalyzer(llm, srv.URL).Analyze(context.Background(), schema.Image{}, "")
	if !report.Success {
		t.Fatalf("Expect success, but got failure: %s", report.Error)
	}
	item := report.FoodItems[0]
	if item.DataSource != nutrition.SourceCategory {
		t.Errorf("Expect the category tier, but got %s", item.DataSource)
	}
	// poultry defaults, 165 per 100g at 150g
	if item.Nutrition.Calories != 247.5 {
		t.Errorf("Expect calories 247.5, but got %v", item.Nutrition.Calories)
	}
	counts := report.DataSources.NutritionDataSources
	if counts.DefaultEstimated != 1 {
		t.Errorf("Expect 1 default-estimated item, but got %+v", counts)
	}
	if report.DataSources.AccuracyScore != 40 {
		t.Errorf("Expect accuracy 40, but got %v", report.DataSources.AccuracyScore)
	}
}

func TestAnalyzeWithCorrections(t *testing.T) {
	srv := startUSDAServer(t, usdaFixture{"chicken breast": 165, "cucumber raita": 60})
	llm := &scriptedLLM{
		identifyReply: chickenIdentifyReply,
		mergeReply:    "no structured reply",
	}
	report := newTestAnalyzer(llm, srv.URL).Analyze(context.Background(), schema.Image{}, "missing: Cucumber Raita")
	if !report.Success {
		t.Fatalf("Expect success, but got failure: %s", report.Error)
	}
	if len(report.FoodItems) != 2 {
		t.Fatalf("Expect 2 items, but got %d", len(report.FoodItems))
	}
	raita := report.FoodItems[1]
	if raita.Name != "Cucumber Raita" {
		t.Errorf("Expect Cucumber Raita appended, but got %q", raita.Name)
	}
	if !raita.UserAdded {
		t.Error("Expect the appended item flagged user_added")
	}
	if report.UserCorrections != "missing: Cucumber Raita" {
		t.Errorf("Expect the corrections echoed, but got %q", report.UserCorrections)
	}
	if !report.Analysis.UserCorrectionsApplied {
		t.Error("Expect the corrections flag set")
	}
	if report.Analysis.UserCorrectedItems != 1 {
		t.Errorf("Expect 1 user-corrected item, but got %d", report.Analysis.UserCorrectedItems)
	}
	counts := report.DataSources.NutritionDataSources
	if counts.USDAItems != 2 || counts.UserCorrected != 1 {
		t.Errorf("Unexpected counts: %+v", counts)
	}
	if report.DataSources.AccuracyScore != 100 {
		t.Errorf("Expect accuracy capped at 100, but got %v", report.DataSources.AccuracyScore)
	}
	if countInsight(report.HealthInsights, "Analysis enhanced with 1 user corrections") != 1 {
		t.Errorf("Expect the user correction insight, but got %v", report.HealthInsights)
	}
}

func TestAnalyzeIdentificationFailureFailsReport(t *testing.T) {
	srv := startUSDAServer(t, usdaFixture{})
	llm := &scriptedLLM{identifyReply: "There is no food in this image."}
	report := newTestAnalyzer(llm, srv.URL).Analyze(context.Background(), schema.Image{}, "")
	if report.Success {
		t.Fatal("Expect a failure report")
	}
	if report.Error == "" {
		t.Error("Expect an error message")
	}
	if report.FoodItems != nil || report.TotalNutrition != nil {
		t.Error("Expect no partial results on failure")
	}
}

func TestAnalyzeFileMissingImage(t *testing.T) {
	srv := startUSDAServer(t, usdaFixture{})
	llm := &scriptedLLM{identifyReply: chickenIdentifyReply}
	path := filepath.Join(t.TempDir(), "nope.jpg")
	report := newTestAnalyzer(llm, srv.URL).AnalyzeFile(context.Background(), path, "")
	if report.Success {
		t.Fatal("Expect a failure report")
	}
	if report.Error != "Image file not found" {
		t.Errorf("Unexpected error message: %q", report.Error)
	}
}
