package types

// SignupRequest represents the request body for creating an account
type SignupRequest struct {
	Username string `json:"username" form:"username" binding:"required,max=50"`
	Name     string `json:"name" form:"name" binding:"required,max=100"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// CheckupRequest carries the eight clinical measurements of a risk check.
type CheckupRequest struct {
	Pregnancies              Measurement `json:"Pregnancies" form:"Pregnancies"`
	Glucose                  Measurement `json:"Glucose" form:"Glucose"`
	BloodPressure            Measurement `json:"BloodPressure" form:"BloodPressure"`
	SkinThickness            Measurement `json:"SkinThickness" form:"SkinThickness"`
	Insulin                  Measurement `json:"Insulin" form:"Insulin"`
	BMI                      Measurement `json:"BMI" form:"BMI"`
	DiabetesPedigreeFunction Measurement `json:"DiabetesPedigreeFunction" form:"DiabetesPedigreeFunction"`
	Age                      Measurement `json:"Age" form:"Age"`
}

// NamedMeasurement pairs a measurement with its field name.
type NamedMeasurement struct {
	Name  string
	Value Measurement
}

// Measurements returns the fields in model feature order.
func (r *CheckupRequest) Measurements() []NamedMeasurement {
	return []NamedMeasurement{
		{"Pregnancies", r.Pregnancies},
		{"Glucose", r.Glucose},
		{"BloodPressure", r.BloodPressure},
		{"SkinThickness", r.SkinThickness},
		{"Insulin", r.Insulin},
		{"BMI", r.BMI},
		{"DiabetesPedigreeFunction", r.DiabetesPedigreeFunction},
		{"Age", r.Age},
	}
}

// NewCheckupRequest builds a request from eight values in model feature order.
func NewCheckupRequest(values [8]float64) *CheckupRequest {
	return &CheckupRequest{
		Pregnancies:              NewMeasurement(values[0]),
		Glucose:                  NewMeasurement(values[1]),
		BloodPressure:            NewMeasurement(values[2]),
		SkinThickness:            NewMeasurement(values[3]),
		Insulin:                  NewMeasurement(values[4]),
		BMI:                      NewMeasurement(values[5]),
		DiabetesPedigreeFunction: NewMeasurement(values[6]),
		Age:                      NewMeasurement(values[7]),
	}
}

// MoodRequest represents a mood log entry
type MoodRequest struct {
	Mood  string `json:"mood" form:"mood"`
	Notes string `json:"notes" form:"notes"`
}

// PreferencesRequest represents the dietary preferences form
type PreferencesRequest struct {
	Diet    string `json:"diet" form:"diet" binding:"omitempty,oneof=veg nonveg"`
	Allergy string `json:"allergy" form:"allergy"`
}

// ChatRequest represents a chat message from the user
type ChatRequest struct {
	Message string `json:"message" form:"message"`
}
