package analyzer

import (
	"fmt"
	"strings"
)

var (
	vegetableWords = []string{"vegetable", "salad", "broccoli", "spinach"}
	fruitWords     = []string{"fruit", "apple", "banana", "orange"}
	friedWords     = []string{"fried", "battered", "crispy"}
)

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// healthInsights derives the advisory strings for the report. Rule order is
// fixed: calorie band, macro balance, fiber, food keywords, then the user
// correction note.
func healthInsights(items []DetailedItem, total TotalNutrition) []string {
	var insights []string

	switch {
	case total.Calories < 300:
		insights = append(insights, "Light meal - good for weight management")
	case total.Calories < 600:
		insights = append(insights, "Moderate calorie intake - balanced meal")
	case total.Calories < 900:
		insights = append(insights, "High-calorie meal - consider portion control")
	default:
		insights = append(insights, "Very high calorie meal - monitor intake")
	}

	if total.Calories > 0 {
		proteinPct := total.Protein * 4 / total.Calories * 100
		carbsPct := total.Carbohydrates * 4 / total.Calories * 100
		fatPct := total.Fat * 9 / total.Calories * 100

		if proteinPct > 25 {
			insights = append(insights, "High protein content - great for muscle maintenance")
		} else if proteinPct < 15 {
			insights = append(insights, "Consider adding more protein sources to your meal")
		}
		if carbsPct > 60 {
			insights = append(insights, "Carbohydrate-rich meal - provides good energy")
		}
		if fatPct > 35 {
			insights = append(insights, "Higher fat content - enjoy in moderation")
		}
	}

	switch {
	case total.Fiber >= 10:
		insights = append(insights, "Excellent fiber content - great for digestion")
	case total.Fiber >= 5:
		insights = append(insights, "Good fiber content")
	default:
		insights = append(insights, "Consider adding more fiber-rich foods")
	}

	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, strings.ToLower(item.Name))
	}
	joined := strings.Join(names, " ")

	if containsAny(joined, vegetableWords) {
		insights = append(insights, "Contains vegetables - excellent for vitamins and fiber")
	}
	if containsAny(joined, fruitWords) {
		insights = append(insights, "Includes fruits - good source of natural vitamins")
	}
	if containsAny(joined, friedWords) {
		insights = append(insights, "Contains fried items - consider baked alternatives for health")
	}

	corrected := 0
	for _, item := range items {
		if item.UserCorrected || item.UserAdded {
			corrected++
		}
	}
	if corrected > 0 {
		insights = append(insights, fmt.Sprintf("Analysis enhanced with %d user corrections for better accuracy", corrected))
	}

	return insights
}
