package correct

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bububa/platelens/components"
	"github.com/bububa/platelens/identify"
	"github.com/bububa/platelens/schema"
)

const mergePrompt = `
Original AI Analysis:
%s

User Corrections:
%s

Please update the food analysis based on the user's corrections. The user might be correcting:
- Quantities (e.g., "2 chapatis" instead of "1")
- Missing items
- Portion sizes
- Preparation methods
- Additional ingredients

Return the updated analysis in the EXACT same JSON format as the original, but with corrections applied.

Important:
- Maintain the same JSON structure
- Only modify what the user corrected
- Keep the same field names and structure
- If user mentions specific quantities, adjust the estimated_weight_grams accordingly
- If user mentions additional items, add them to the food_items list
`

// Applier merges free-text user corrections into an identification result.
// The model merge is best effort: any failure keeps the incoming analysis,
// then the manual pattern pass runs over whichever version survived.
type Applier struct {
	llm    components.LLM
	logger *zap.SugaredLogger
}

type Option func(*Applier)

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(a *Applier) {
		a.logger = logger
	}
}

func New(llm components.LLM, opts ...Option) *Applier {
	ret := &Applier{llm: llm}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.logger == nil {
		ret.logger = zap.NewNop().Sugar()
	}
	return ret
}

// Apply returns the analysis with corrections folded in. Blank corrections
// return the input untouched, without marking anything as corrected.
func (a *Applier) Apply(ctx context.Context, analysis *identify.Analysis, corrections string) *identify.Analysis {
	corrections = strings.TrimSpace(corrections)
	if corrections == "" {
		return analysis
	}
	merged := a.modelMerge(ctx, analysis, corrections)
	applyPatterns(merged, corrections)
	merged.UserCorrectionsApplied = true
	return merged
}

// modelMerge asks the model to rewrite the analysis per the corrections. The
// original is returned on any failure so a flaky model can only ever cost the
// merge, never the analysis.
func (a *Applier) modelMerge(ctx context.Context, analysis *identify.Analysis, corrections string) *identify.Analysis {
	prompt := fmt.Sprintf(mergePrompt, analysis.String(), corrections)
	raw, err := a.llm.GenerateText(ctx, prompt)
	if err != nil {
		a.logger.Warnw("correction merge failed, keeping original analysis", "error", err)
		return analysis
	}
	bs, err := schema.ExtractJSONObject(raw)
	if err != nil {
		a.logger.Warnw("correction merge reply held no JSON, keeping original analysis", "error", err)
		return analysis
	}
	merged := new(identify.Analysis)
	if err := json.Unmarshal(bs, merged); err != nil {
		a.logger.Warnw("correction merge reply unparseable, keeping original analysis", "error", err)
		return analysis
	}
	if len(merged.FoodItems) == 0 {
		a.logger.Warnw("correction merge dropped every item, keeping original analysis")
		return analysis
	}
	a.logger.Infow("applied user corrections", "items", len(merged.FoodItems))
	return merged
}
