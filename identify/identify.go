package identify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bububa/platelens/components"
	"github.com/bububa/platelens/schema"
)

// FoodItem is one food visible in the photo, as reported by the vision model.
type FoodItem struct {
	// Name specific food name
	Name string `json:"name" jsonschema:"title=name,description=Specific food name." validate:"required"`
	// CookingMethod preparation method such as Fried or Grilled
	CookingMethod string `json:"cooking_method,omitempty" jsonschema:"title=cooking_method,description=Preparation method such as Fried or Grilled."`
	// EstimatedQuantity human readable portion, e.g. 1 cup or 2 pieces
	EstimatedQuantity string `json:"estimated_quantity,omitempty" jsonschema:"title=estimated_quantity,description=Human readable portion such as 1 cup or 2 pieces."`
	// EstimatedWeightGrams portion weight converted to grams
	EstimatedWeightGrams float64 `json:"estimated_weight_grams" jsonschema:"title=estimated_weight_grams,description=Portion weight converted to grams."`
	// Description detailed description including ingredients
	Description string `json:"description,omitempty" jsonschema:"title=description,description=Detailed description including ingredients."`
	// ConfidenceScore identification confidence, 0 to 100
	ConfidenceScore float64 `json:"confidence_score" jsonschema:"title=confidence_score,description=Identification confidence from 0 to 100."`
	// ConfidenceReasoning reason for the confidence score
	ConfidenceReasoning string `json:"confidence_reasoning,omitempty" jsonschema:"title=confidence_reasoning,description=Reason for the confidence score."`
	// HiddenCalories oils, sauces or dressings not obvious in the photo
	HiddenCalories string `json:"hidden_calories,omitempty" jsonschema:"title=hidden_calories,description=Oils, sauces or dressings not obvious in the photo."`
	// UserAdded whether the item came from a user correction, not the photo
	UserAdded bool `json:"user_added,omitempty"`
	// UserCorrected whether a user correction touched this item
	UserCorrected bool `json:"user_corrected,omitempty"`
	// CorrectionNotes what the user's correction changed
	CorrectionNotes string `json:"correction_notes,omitempty"`
}

// Analysis is the identification result for a whole meal photo.
type Analysis struct {
	schema.Base
	// FoodItems all identified foods
	FoodItems []FoodItem `json:"food_items" jsonschema:"title=food_items,description=All identified foods."`
	// Reasoning how the items and portions were identified
	Reasoning string `json:"reasoning,omitempty" jsonschema:"title=reasoning,description=How the items and portions were identified."`
	// MealContext meal description such as Breakfast or Lunch
	MealContext string `json:"meal_context,omitempty" jsonschema:"title=meal_context,description=Meal description such as Breakfast or Lunch."`
	// UserCorrectionsApplied whether user corrections were merged in
	UserCorrectionsApplied bool `json:"user_corrections_applied,omitempty"`
}

func (a Analysis) String() string {
	bs, _ := json.MarshalIndent(a, "", "  ")
	return string(bs)
}

// Identifier turns a meal photo into an Analysis via a vision model.
type Identifier struct {
	llm      components.LLM
	validate *validator.Validate
	logger   *zap.SugaredLogger
}

type Option func(*Identifier)

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(i *Identifier) {
		i.logger = logger
	}
}

func New(llm components.LLM, opts ...Option) *Identifier {
	ret := &Identifier{
		llm:      llm,
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.logger == nil {
		ret.logger = zap.NewNop().Sugar()
	}
	return ret
}

// Identify sends the photo to the vision model and parses the reply. The
// model wraps its JSON in prose more often than not, so the reply is scanned
// for the widest object span instead of being decoded verbatim.
func (i *Identifier) Identify(ctx context.Context, img schema.Image, corrections string) (*Analysis, error) {
	prompt := buildPrompt(strings.TrimSpace(corrections))
	raw, err := i.llm.GenerateVision(ctx, img, prompt)
	if err != nil {
		return nil, fmt.Errorf("vision analysis failed: %w", err)
	}
	i.logger.Debugw("vision raw response", "text", raw)
	bs, err := schema.ExtractJSONObject(raw)
	if err != nil {
		return nil, fmt.Errorf("vision analysis failed: %w", err)
	}
	ret := new(Analysis)
	if err := json.Unmarshal(bs, ret); err != nil {
		return nil, fmt.Errorf("vision analysis failed: %w", err)
	}
	i.normalize(ret)
	// keep the source photo with the analysis so later stages can reach it
	ret.SetAttachement(&schema.Attachement{Images: []schema.Image{img}})
	i.logger.Infow("identified food items", "count", len(ret.FoodItems), "meal_context", ret.MealContext)
	return ret, nil
}

// normalize drops items that fail validation and clamps out-of-range values
// so downstream stages never see a zero-weight or out-of-scale confidence.
func (i *Identifier) normalize(a *Analysis) {
	items := a.FoodItems[:0]
	for _, item := range a.FoodItems {
		if err := i.validate.Struct(item); err != nil {
			i.logger.Warnw("dropping invalid food item", "item", item.Name, "error", err)
			continue
		}
		if item.EstimatedWeightGrams <= 0 {
			item.EstimatedWeightGrams = 100
		}
		if item.ConfidenceScore == 0 {
			item.ConfidenceScore = 50
		} else if item.ConfidenceScore > 100 {
			item.ConfidenceScore = 100
		}
		items = append(items, item)
	}
	a.FoodItems = items
}
