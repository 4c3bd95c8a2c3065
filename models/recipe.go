package models

import "time"

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

type Recipe struct {
	ID               int64              `json:"id"`
	Title            string             `json:"title"`
	Slug             string             `json:"slug"`
	Image            string             `json:"image"`
	Description      string             `json:"description"`
	Instructions     string             `json:"instructions"`
	PrepTime         int                `json:"prep_time"`
	CookTime         int                `json:"cook_time"`
	Servings         int                `json:"servings"`
	Difficulty       string             `json:"difficulty"`
	IsActive         bool               `json:"is_active"`
	CreatedAt        time.Time          `json:"created_at"`
	FeaturedProducts []Product          `json:"featured_products,omitempty"`
	Ingredients      []RecipeIngredient `json:"ingredients,omitempty"`
}

type RecipeIngredient struct {
	Product  Product `json:"product"`
	Quantity string  `json:"quantity"`
	Notes    string  `json:"notes"`
}

// TotalTime is prep plus cook minutes; negative values count as zero.
func (r *Recipe) TotalTime() int {
	return TotalTime(r.PrepTime, r.CookTime)
}

func TotalTime(prep, cook int) int {
	if prep < 0 {
		prep = 0
	}
	if cook < 0 {
		cook = 0
	}
	return prep + cook
}

func DifficultyLabel(d string) string {
	switch d {
	case DifficultyEasy:
		return "Easy"
	case DifficultyHard:
		return "Hard"
	default:
		return "Medium"
	}
}
