package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RecipeType identifies one of the three suggested recipe tiers
type RecipeType string

const (
	RecipeFree    RecipeType = "free"
	RecipeBudget  RecipeType = "budget"
	RecipePremium RecipeType = "premium"
)

// RecipeTypes lists the tiers in the order they are requested from the model
var RecipeTypes = []RecipeType{RecipeFree, RecipeBudget, RecipePremium}

// AnalysisRequest is the body posted by the frontend
type AnalysisRequest struct {
	Image  string `json:"image" binding:"required"`
	Budget Amount `json:"budget"`
	People Amount `json:"people"`
	Diet   string `json:"diet"`
}

// AnalysisResult is the payload the model is asked to produce. The handler
// returns the model's bytes verbatim; this type is only used to inspect them.
type AnalysisResult struct {
	Ingredients     []string `json:"ingredients"`
	IngredientCount int      `json:"ingredientCount"`
	DaysEstimate    int      `json:"daysEstimate"`
	Recipes         []Recipe `json:"recipes"`
}

// Recipe is a single suggestion
type Recipe struct {
	Type        RecipeType      `json:"type"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Ingredients []string        `json:"ingredients,omitempty"`
	Missing     []MissingItem   `json:"missing,omitempty"`
	Price       decimal.Decimal `json:"price"`
}

// MissingItem is an ingredient that has to be bought for a recipe
type MissingItem struct {
	Item  string          `json:"item"`
	Price decimal.Decimal `json:"price"`
}

// Amount is a decimal that also accepts numeric strings and empty values,
// since form fields often arrive as strings.
type Amount struct {
	decimal.Decimal
}

// NewAmount builds an Amount from a float
func NewAmount(v float64) Amount {
	return Amount{decimal.NewFromFloat(v)}
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		a.Decimal = decimal.Zero
		return nil
	}

	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid number %s", s)
	}
	a.Decimal = d
	return nil
}
