package analyzer

import (
	"encoding/json"

	"github.com/bububa/platelens/nutrition"
)

// identificationLabel names the vision backend in the report.
const identificationLabel = "Google Gemini AI"

// USDAReference records which database entry a USDA-sourced item resolved to.
type USDAReference struct {
	FoodName    string  `json:"food_name"`
	ServingSize float64 `json:"serving_size"`
	ServingUnit string  `json:"serving_unit"`
}

// DetailedItem is one resolved food in the final report.
type DetailedItem struct {
	Name                 string               `json:"name"`
	CookingMethod        string               `json:"cooking_method,omitempty"`
	EstimatedWeightGrams float64              `json:"estimated_weight_grams"`
	EstimatedQuantity    string               `json:"estimated_quantity,omitempty"`
	Description          string               `json:"description,omitempty"`
	ConfidenceScore      float64              `json:"confidence_score"`
	DataSource           nutrition.Source     `json:"data_source"`
	EstimationConfidence nutrition.Confidence `json:"estimation_confidence,omitempty"`
	EstimationNotes      string               `json:"estimation_notes,omitempty"`
	USDAReference        *USDAReference       `json:"usda_reference,omitempty"`
	Nutrition            nutrition.Record     `json:"nutrition"`
	UserCorrected        bool                 `json:"user_corrected,omitempty"`
	UserAdded            bool                 `json:"user_added,omitempty"`
	CorrectionNotes      string               `json:"correction_notes,omitempty"`
}

// TotalNutrition is the meal-wide sum over every resolved item.
type TotalNutrition struct {
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Fat           float64 `json:"fat"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fiber         float64 `json:"fiber"`
	Sodium        float64 `json:"sodium"`
}

func (t *TotalNutrition) add(rec nutrition.Record) {
	t.Calories += rec.Calories
	t.Protein += rec.Protein
	t.Fat += rec.Fat
	t.Carbohydrates += rec.Carbohydrates
	t.Fiber += rec.Fiber
	t.Sodium += rec.Sodium
}

func (t *TotalNutrition) round() {
	t.Calories = nutrition.Round2(t.Calories)
	t.Protein = nutrition.Round2(t.Protein)
	t.Fat = nutrition.Round2(t.Fat)
	t.Carbohydrates = nutrition.Round2(t.Carbohydrates)
	t.Fiber = nutrition.Round2(t.Fiber)
	t.Sodium = nutrition.Round2(t.Sodium)
}

// SourceCounts tallies how many items each resolution tier answered.
type SourceCounts struct {
	USDAItems        int `json:"usda_items"`
	GeminiEstimated  int `json:"gemini_estimated"`
	DefaultEstimated int `json:"default_estimated"`
	UserCorrected    int `json:"user_corrected"`
	TotalItems       int `json:"total_items"`
}

type AccuracyBreakdown struct {
	USDAAccuracy    float64 `json:"usda_accuracy"`
	UserEnhancement float64 `json:"user_enhancement"`
}

type DataSources struct {
	FoodIdentification   string            `json:"food_identification"`
	NutritionDataSources SourceCounts      `json:"nutrition_data_sources"`
	AccuracyScore        float64           `json:"accuracy_score"`
	AccuracyBreakdown    AccuracyBreakdown `json:"accuracy_breakdown"`
}

type AnalysisSummary struct {
	Reasoning              string `json:"reasoning"`
	MealContext            string `json:"meal_context"`
	TotalItemsIdentified   int    `json:"total_items_identified"`
	UserCorrectionsApplied bool   `json:"user_corrections_applied"`
	UserCorrectedItems     int    `json:"user_corrected_items"`
}

// Report is the final analysis result. On failure only Success and Error are
// populated.
type Report struct {
	Success         bool             `json:"success"`
	Error           string           `json:"error,omitempty"`
	UserCorrections string           `json:"user_corrections,omitempty"`
	Analysis        *AnalysisSummary `json:"analysis,omitempty"`
	FoodItems       []DetailedItem   `json:"food_items,omitempty"`
	TotalNutrition  *TotalNutrition  `json:"total_nutrition,omitempty"`
	HealthInsights  []string         `json:"health_insights,omitempty"`
	DataSources     *DataSources     `json:"data_sources,omitempty"`
}

func (r Report) String() string {
	bs, _ := json.MarshalIndent(r, "", "  ")
	return string(bs)
}
