package types

import (
	"time"

	"github.com/google/uuid"
)

// UserResponse is the public view of an account.
type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
}

type AuthResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user,omitempty"`
}

// CheckupResponse is the outcome of a risk check.
type CheckupResponse struct {
	Result     string  `json:"result"`
	Label      string  `json:"label"`
	Percent    float64 `json:"percent"`
	ColorClass string  `json:"color_class"`
}

// PredictionEntry is one row of a user's prediction history.
type PredictionEntry struct {
	ID            uuid.UUID `json:"id"`
	Prediction    string    `json:"prediction"`
	Label         string    `json:"label"`
	Percent       float64   `json:"percent"`
	Glucose       float64   `json:"glucose"`
	BloodPressure float64   `json:"blood_pressure"`
	BMI           float64   `json:"bmi"`
	Age           int       `json:"age"`
	Timestamp     time.Time `json:"timestamp"`
}

type MoodResponse struct {
	MoodMessage string `json:"mood_message"`
	WellnessTip string `json:"wellness_tip"`
}

type PreferencesResponse struct {
	PrefMessage string    `json:"pref_message"`
	MealTip     string    `json:"meal_tip"`
	Plan        *MealPlan `json:"plan,omitempty"`
}

// MealPlan is the day's meals after allergen substitution.
type MealPlan struct {
	Date    string `json:"date"`
	Morning string `json:"morning"`
	Lunch   string `json:"lunch"`
	Evening string `json:"evening"`
	Dinner  string `json:"dinner"`
	Juice   string `json:"juice"`
	Note    string `json:"note,omitempty"`
}

type DashboardResponse struct {
	Name            string            `json:"name"`
	SelectedDiet    string            `json:"selected_diet"`
	SelectedAllergy string            `json:"selected_allergy"`
	Plan            *MealPlan         `json:"plan,omitempty"`
	Predictions     []PredictionEntry `json:"predictions"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}
