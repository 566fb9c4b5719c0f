package nutrition

import (
	"fmt"
	"strings"
)

// Category is a coarse food bucket used for last-resort estimates.
type Category string

const (
	CategoryVegetable Category = "vegetable"
	CategoryFruit     Category = "fruit"
	CategoryMeat      Category = "meat"
	CategoryPoultry   Category = "poultry"
	CategoryFish      Category = "fish"
	CategoryGrain     Category = "grain"
	CategoryDairy     Category = "dairy"
	CategoryDefault   Category = "default"
)

type macros struct {
	calories      float64
	protein       float64
	fat           float64
	carbohydrates float64
	fiber         float64
}

// per-100g category averages
var categoryTable = map[Category]macros{
	CategoryVegetable: {calories: 25, protein: 2, fat: 0, carbohydrates: 5, fiber: 2},
	CategoryFruit:     {calories: 60, protein: 1, fat: 0, carbohydrates: 15, fiber: 2},
	CategoryMeat:      {calories: 200, protein: 25, fat: 10, carbohydrates: 0, fiber: 0},
	CategoryPoultry:   {calories: 165, protein: 20, fat: 8, carbohydrates: 0, fiber: 0},
	CategoryFish:      {calories: 150, protein: 22, fat: 5, carbohydrates: 0, fiber: 0},
	CategoryGrain:     {calories: 130, protein: 5, fat: 1, carbohydrates: 25, fiber: 3},
	CategoryDairy:     {calories: 60, protein: 3, fat: 3, carbohydrates: 5, fiber: 0},
	CategoryDefault:   {calories: 100, protein: 5, fat: 5, carbohydrates: 10, fiber: 1},
}

// classification keywords in priority order, first hit wins
var categoryKeywords = []struct {
	category Category
	words    []string
}{
	{CategoryVegetable, []string{"vegetable", "salad", "broccoli", "spinach", "carrot", "lettuce"}},
	{CategoryFruit, []string{"fruit", "apple", "banana", "orange", "berry"}},
	{CategoryMeat, []string{"beef", "pork", "lamb", "steak"}},
	{CategoryPoultry, []string{"chicken", "turkey"}},
	{CategoryFish, []string{"fish", "salmon", "tuna", "shrimp"}},
	{CategoryGrain, []string{"rice", "pasta", "bread", "grain", "cereal"}},
	{CategoryDairy, []string{"milk", "cheese", "yogurt", "dairy"}},
}

// Classify buckets a food name by case-insensitive keyword containment.
func Classify(name string) Category {
	lower := strings.ToLower(name)
	for _, entry := range categoryKeywords {
		for _, word := range entry.words {
			if strings.Contains(lower, word) {
				return entry.category
			}
		}
	}
	return CategoryDefault
}

// EstimateByCategory builds a portion-scaled record from fixed per-100g
// category averages. This is the lowest-trust tier, used only after both the
// database lookup and the model estimator have failed, so the confidence is
// always low.
func EstimateByCategory(name string, weightGrams float64) Record {
	category := Classify(name)
	m := categoryTable[category]
	rec := Record{
		Calories:      m.calories,
		Protein:       m.protein,
		Fat:           m.fat,
		Carbohydrates: m.carbohydrates,
		Fiber:         m.fiber,
	}
	out := rec.ScaleTo(weightGrams)
	out.Source = SourceCategory
	out.Confidence = ConfidenceLow
	out.Notes = fmt.Sprintf("Estimated based on %s category averages", category)
	return out
}
