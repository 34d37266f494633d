package domain

// Meal types accepted by /meals/add, in display order.
var MealTypes = []string{"breakfast", "lunch", "dinner", "snack"}

// ValidMealType returns true if t is a known meal type.
// The server is authoritative; this only drives the TUI picker.
func ValidMealType(t string) bool {
	for _, m := range MealTypes {
		if m == t {
			return true
		}
	}
	return false
}

// FoodItem is a single line of a meal record.
type FoodItem struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// AddMealRequest is the payload for POST /meals/add.
type AddMealRequest struct {
	UserID    int64      `json:"user_id"`
	MealType  string     `json:"meal_type"`
	FoodItems []FoodItem `json:"food_items"`
	Date      string     `json:"date"` // YYYY-MM-DD
}

// MealResult is the analysis returned after adding a meal.
type MealResult struct {
	ID            int64  `json:"id"`
	MealType      string `json:"meal_type"`
	HealthScore   int    `json:"health_score"`
	TotalCalories int    `json:"total_calories"`
	Analysis      string `json:"analysis,omitempty"`
}

// Meal is a stored meal record.
type Meal struct {
	ID            int64      `json:"id"`
	MealType      string     `json:"meal_type"`
	FoodItems     []FoodItem `json:"food_items"`
	HealthScore   int        `json:"health_score"`
	TotalCalories int        `json:"total_calories"`
	Analysis      string     `json:"analysis,omitempty"`
}

// TodayMeals is the payload of GET /meals/today.
type TodayMeals struct {
	Date           string `json:"date"`
	Meals          []Meal `json:"meals"`
	TotalCalories  int    `json:"total_calories"`
	AvgHealthScore int    `json:"avg_health_score"`
	MealCount      int    `json:"meal_count"`
}
