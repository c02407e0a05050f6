package models

// FoodItem is a catalog entry from the Edamam food database. It is not
// persisted; ingredients keep the FoodID and a nutrient snapshot instead.
type FoodItem struct {
	FoodID    string    `json:"food_id"`
	Label     string    `json:"label"`
	Category  string    `json:"category,omitempty"`
	Image     string    `json:"image,omitempty"`
	Nutrients Nutrients `json:"nutrients,omitempty"` // per 100g
	Measures  []Measure `json:"measures,omitempty"`
}

// Measure is a unit Edamam accepts for a food, e.g. "Gram" or "Cup".
type Measure struct {
	URI    string  `json:"uri"`
	Label  string  `json:"label"`
	Weight float64 `json:"weight"`
}
