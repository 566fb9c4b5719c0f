package identify

import "fmt"

const basePrompt = `You are a professional nutritionist AI. Analyze this food image and:

1. Identify ALL visible food items with specific names (e.g., "Grilled Chicken Breast" instead of just "Chicken").
2. Estimate the QUANTITY/VOLUME first (e.g., "1 cup", "2 slices", "1 fist-sized portion").
3. Convert that estimated volume to GRAMS.
4. Note preparation methods (Fried, Grilled, Steamed, Raw, etc.).
5. Identify any sauces, dressings, or toppings which add hidden calories.

Respond in PURE JSON format:

{
  "food_items": [
    {
      "name": "specific food name",
      "cooking_method": "Fried/Grilled/Baked/Raw/etc",
      "estimated_quantity": "e.g., 1 cup, 2 pieces",
      "estimated_weight_grams": 150,
      "description": "detailed description including ingredients",
      "confidence_score": 85,
      "confidence_reasoning": "Reason for the score",
      "hidden_calories": "Mention any oils, sauces, or dressings"
    }
  ],
  "reasoning": "How you identified each food item and estimated portion sizes",
  "meal_context": "Description of the complete meal (e.g., Breakfast, Lunch, Snack)"
}`

const correctionPreamble = `
IMPORTANT USER CORRECTIONS: %s

Please carefully consider these user corrections when analyzing the image. The user may have additional information about:
- Exact quantities (e.g., "there are 2 chapatis" instead of 1)
- Specific ingredients not clearly visible
- Preparation methods
- Portion sizes

Adjust your analysis accordingly and provide more accurate results based on this additional information.
`

// buildPrompt returns the identification prompt, prefixed with the user's
// corrections when any were given.
func buildPrompt(corrections string) string {
	if corrections == "" {
		return basePrompt
	}
	return fmt.Sprintf(correctionPreamble, corrections) + basePrompt
}
