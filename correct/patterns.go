package correct

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bububa/platelens/identify"
)

// Common correction phrasings handled without a model round trip. Each
// pattern flags or appends items, it never rewrites weights: weight changes
// belong to the model merge.
var (
	quantityPattern     = regexp.MustCompile(`(?i)(\d+)\s+(chapatis?|rotis?|breads?)`)
	portionPattern      = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(cups?|tablespoons?|teaspoons?|grams?|g)\b`)
	substitutionPattern = regexp.MustCompile(`(?i)actually\s+(\d+)\s+instead\s+of\s+(\d+)`)
	additionPattern     = regexp.MustCompile(`(?i)\badd\s+(.+)`)
	missingPattern      = regexp.MustCompile(`(?i)missing:\s*(.+)`)
)

// applyPatterns runs the manual pass over the analysis in place.
func applyPatterns(analysis *identify.Analysis, corrections string) {
	lower := strings.ToLower(corrections)

	if m := quantityPattern.FindStringSubmatch(lower); m != nil {
		stem := strings.TrimSuffix(m[2], "s")
		for idx := range analysis.FoodItems {
			item := &analysis.FoodItems[idx]
			if strings.Contains(strings.ToLower(item.Name), stem) {
				item.UserCorrected = true
				item.CorrectionNotes = fmt.Sprintf("User corrected quantity to %s items", m[1])
				break
			}
		}
	}

	if m := portionPattern.FindStringSubmatch(lower); m != nil && len(analysis.FoodItems) > 0 {
		item := &analysis.FoodItems[0]
		item.UserCorrected = true
		item.CorrectionNotes = fmt.Sprintf("User specified portion: %s %s", m[1], m[2])
	}

	if m := substitutionPattern.FindStringSubmatch(lower); m != nil && len(analysis.FoodItems) > 0 {
		item := &analysis.FoodItems[0]
		item.UserCorrected = true
		item.CorrectionNotes = fmt.Sprintf("User corrected count from %s to %s", m[2], m[1])
	}

	if m := additionPattern.FindStringSubmatch(corrections); m != nil {
		appendUserItem(analysis, strings.TrimSpace(m[1]))
	}

	if m := missingPattern.FindStringSubmatch(corrections); m != nil {
		appendUserItem(analysis, strings.TrimSpace(m[1]))
	}
}

func appendUserItem(analysis *identify.Analysis, name string) {
	if name == "" {
		return
	}
	analysis.FoodItems = append(analysis.FoodItems, identify.FoodItem{
		Name:                 name,
		EstimatedWeightGrams: 100,
		Description:          fmt.Sprintf("Added based on user input: %s", name),
		ConfidenceScore:      100,
		UserAdded:            true,
	})
}
