package nutrition

import "math"

// Source identifies which resolution tier produced a record, ranked by trust:
// database lookup > model estimation > category defaults.
type Source string

const (
	SourceUSDA     Source = "USDA"
	SourceGemini   Source = "Gemini AI Estimation"
	SourceCategory Source = "Category Estimate"
)

// Confidence is the self-rated quality of an estimated record.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Record holds nutrient amounts for one food portion. Amounts are always for
// the specific portion weight of the associated item, never per-100g.
type Record struct {
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Fat           float64 `json:"fat"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fiber         float64 `json:"fiber"`
	Sodium        float64 `json:"sodium"`
	Calcium       float64 `json:"calcium,omitempty"`
	Iron          float64 `json:"iron,omitempty"`

	FoodName     string  `json:"food_name,omitempty"`
	ServingSize  float64 `json:"serving_size,omitempty"`
	ServingUnit  string  `json:"serving_unit,omitempty"`
	PortionGrams float64 `json:"portion_size_grams,omitempty"`

	Source     Source     `json:"data_source,omitempty"`
	Confidence Confidence `json:"estimation_confidence,omitempty"`
	Notes      string     `json:"estimation_notes,omitempty"`
}

// Round2 rounds to 2 decimal places, the precision used for all per-item
// nutrient amounts.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ScaleTo returns a copy of the record scaled to the given portion weight.
// A zero or absent serving size means the amounts are per-100g, the implicit
// basis of legacy database entries.
func (r Record) ScaleTo(weightGrams float64) Record {
	base := r.ServingSize
	if base == 0 {
		base = 100
	}
	m := weightGrams / base
	out := r
	out.Calories = Round2(r.Calories * m)
	out.Protein = Round2(r.Protein * m)
	out.Fat = Round2(r.Fat * m)
	out.Carbohydrates = Round2(r.Carbohydrates * m)
	out.Fiber = Round2(r.Fiber * m)
	out.Sodium = Round2(r.Sodium * m)
	out.Calcium = Round2(r.Calcium * m)
	out.Iron = Round2(r.Iron * m)
	out.PortionGrams = weightGrams
	return out
}
