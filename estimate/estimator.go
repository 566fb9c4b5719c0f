package estimate

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/bububa/platelens/components"
	"github.com/bububa/platelens/nutrition"
	"github.com/bububa/platelens/schema"
)

const estimatePrompt = `As a professional nutritionist, estimate the nutritional content for this food item:

Food: %s
Cooking Method: %s
Description: %s
Portion Size: %g grams

Provide a realistic estimate of the nutritional values for this specific portion size.

Respond in PURE JSON format only:

{
  "calories": 250,
  "protein": 15.5,
  "fat": 12.0,
  "carbohydrates": 20.0,
  "fiber": 3.5,
  "sodium": 300.0,
  "estimation_confidence": "high/medium/low",
  "estimation_notes": "Brief explanation of how you estimated these values"
}

Important: Provide values for the exact portion size of %g grams, not per 100g.`

// modelEstimate is the model's reply shape. The four macro fields are
// pointers so an omitted field is distinguishable from a literal zero: a
// reply missing any of them is rejected as incomplete.
type modelEstimate struct {
	Calories      *float64 `json:"calories"`
	Protein       *float64 `json:"protein"`
	Fat           *float64 `json:"fat"`
	Carbohydrates *float64 `json:"carbohydrates"`
	Fiber         float64  `json:"fiber"`
	Sodium        float64  `json:"sodium"`
	Confidence    string   `json:"estimation_confidence"`
	Notes         string   `json:"estimation_notes"`
}

// Request describes one food needing a nutrition estimate.
type Request struct {
	FoodName      string
	CookingMethod string
	Description   string
	WeightGrams   float64
}

// Estimator produces nutrition records for foods the database cannot
// resolve. The model is asked first; on any failure the fixed category table
// answers instead, so Estimate always returns a usable record.
type Estimator struct {
	llm    components.LLM
	logger *zap.SugaredLogger
}

type Option func(*Estimator)

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(e *Estimator) {
		e.logger = logger
	}
}

func New(llm components.LLM, opts ...Option) *Estimator {
	ret := &Estimator{llm: llm}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.logger == nil {
		ret.logger = zap.NewNop().Sugar()
	}
	return ret
}

// Estimate returns a record for the exact portion size. The record's Source
// reflects where the numbers effectively came from: a model estimate that
// rates itself low lands in the category tier.
func (e *Estimator) Estimate(ctx context.Context, req Request) nutrition.Record {
	rec, err := e.modelEstimate(ctx, req)
	if err != nil {
		e.logger.Warnw("model nutrition estimation failed, using category defaults", "food", req.FoodName, "error", err)
		return nutrition.EstimateByCategory(req.FoodName, req.WeightGrams)
	}
	e.logger.Infow("model nutrition estimation successful", "food", req.FoodName, "confidence", rec.Confidence)
	return rec
}

func (e *Estimator) modelEstimate(ctx context.Context, req Request) (nutrition.Record, error) {
	prompt := fmt.Sprintf(estimatePrompt, req.FoodName, req.CookingMethod, req.Description, req.WeightGrams, req.WeightGrams)
	raw, err := e.llm.GenerateText(ctx, prompt)
	if err != nil {
		return nutrition.Record{}, err
	}
	bs, err := schema.ExtractJSONObject(raw)
	if err != nil {
		return nutrition.Record{}, err
	}
	var est modelEstimate
	if err := json.Unmarshal(bs, &est); err != nil {
		return nutrition.Record{}, err
	}
	if est.Calories == nil || est.Protein == nil || est.Fat == nil || est.Carbohydrates == nil {
		return nutrition.Record{}, fmt.Errorf("incomplete nutrition estimate for %s", req.FoodName)
	}
	confidence := nutrition.Confidence(est.Confidence)
	switch confidence {
	case nutrition.ConfidenceHigh, nutrition.ConfidenceMedium, nutrition.ConfidenceLow:
	default:
		confidence = nutrition.ConfidenceLow
	}
	source := nutrition.SourceGemini
	if confidence == nutrition.ConfidenceLow {
		// A self-rated low estimate is no better than the category table
		// and is reported in that tier.
		source = nutrition.SourceCategory
	}
	return nutrition.Record{
		FoodName:      req.FoodName,
		Calories:      nutrition.Round2(*est.Calories),
		Protein:       nutrition.Round2(*est.Protein),
		Fat:           nutrition.Round2(*est.Fat),
		Carbohydrates: nutrition.Round2(*est.Carbohydrates),
		Fiber:         nutrition.Round2(est.Fiber),
		Sodium:        nutrition.Round2(est.Sodium),
		ServingSize:   req.WeightGrams,
		ServingUnit:   "g",
		PortionGrams:  req.WeightGrams,
		Source:        source,
		Confidence:    confidence,
		Notes:         est.Notes,
	}, nil
}
