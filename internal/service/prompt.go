package service

import (
	"fmt"
	"strings"

	"github.com/eathaven/backend/internal/model"
)

const resultShape = `{
  "ingredients": ["Ingredient1", "Ingredient2", "Ingredient3"],
  "ingredientCount": 12,
  "daysEstimate": 3,
  "recipes": [
    {
      "type": "free",
      "title": "Recipe name",
      "description": "Short description",
      "ingredients": ["Ingredient1", "Ingredient2"],
      "price": 0
    },
    {
      "type": "budget",
      "title": "Recipe name",
      "description": "Short description",
      "missing": [
        {"item": "Ingredient", "price": 2.99}
      ],
      "price": 8.50
    },
    {
      "type": "premium",
      "title": "Recipe name",
      "description": "Short description",
      "missing": [
        {"item": "Ingredient", "price": 5.99}
      ],
      "price": 18.50
    }
  ]
}`

// BuildAnalysisPrompt creates the instruction sent alongside the fridge photo
func BuildAnalysisPrompt(req *model.AnalysisRequest) string {
	diet := strings.TrimSpace(req.Diet)
	if diet == "" {
		diet = "no restrictions"
	}

	var b strings.Builder
	b.WriteString("Analyze this photo of a refrigerator's contents and suggest 3 recipes.\n\n")
	fmt.Fprintf(&b, "Budget: %s EUR\n", req.Budget.String())
	fmt.Fprintf(&b, "People: %s\n", req.People.String())
	fmt.Fprintf(&b, "Diet: %s\n\n", diet)
	fmt.Fprintf(&b, "Create EXACTLY %d recipes:\n", len(model.RecipeTypes))
	fmt.Fprintf(&b, "1. %q (type %q) - uses ONLY the visible ingredients, 0 EUR extra cost\n", "FridgeMatch", model.RecipeFree)
	fmt.Fprintf(&b, "2. %q (type %q) - a few missing ingredients, small supplement cost (5-10 EUR)\n", "Budget Cook", model.RecipeBudget)
	fmt.Fprintf(&b, "3. %q (type %q) - premium version, larger supplement cost (15-25 EUR)\n\n", "Craving Time", model.RecipePremium)
	b.WriteString("Scale quantities for the number of people and respect the diet.\n")
	b.WriteString("Respond with JSON only, no markdown fencing, no text before or after, as a single object in exactly this format:\n")
	b.WriteString(resultShape)

	return b.String()
}
