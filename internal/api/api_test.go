package api_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/sugarsense/backend/internal/api"
	"github.com/sugarsense/backend/internal/artifact"
	"github.com/sugarsense/backend/internal/metrics"
	"github.com/sugarsense/backend/internal/models"
	"github.com/sugarsense/backend/internal/service"
	"github.com/sugarsense/backend/internal/testhelpers/mocks"
	"github.com/sugarsense/backend/internal/types"
)

const testToken = "valid-token"

type testAPI struct {
	router      *gin.Engine
	auth        *mocks.MockAuthService
	predictions *mocks.MockPredictionService
	wellness    *mocks.MockWellnessService
	chat        *mocks.MockChatService
	user        *models.User
	claims      *types.TokenClaims
}

func setupAPI(t *testing.T) *testAPI {
	gin.SetMode(gin.TestMode)

	user := &models.User{ID: uuid.New(), Username: "olivia", Name: "Olivia", Email: "olivia@example.com"}
	claims := &types.TokenClaims{UserID: user.ID, Username: user.Username}

	a := &testAPI{
		router:      gin.New(),
		auth:        &mocks.MockAuthService{},
		predictions: &mocks.MockPredictionService{},
		wellness:    &mocks.MockWellnessService{},
		chat:        &mocks.MockChatService{},
		user:        user,
		claims:      claims,
	}
	a.auth.On("ValidateToken", testToken).Return(claims, nil).Maybe()
	a.auth.On("ValidateToken", mock.Anything).Return(nil, service.ErrInvalidToken).Maybe()
	a.auth.On("GetUserByID", mock.Anything, user.ID).Return(user, nil).Maybe()

	api.RegisterRoutes(a.router, api.Dependencies{
		Auth:        a.auth,
		Predictions: a.predictions,
		Wellness:    a.wellness,
		Chat:        a.chat,
		Metrics:     metrics.New(),
	})
	return a
}

func (a *testAPI) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func checkupBody() map[string]interface{} {
	return map[string]interface{}{
		"Pregnancies":              2,
		"Glucose":                  150,
		"BloodPressure":            80,
		"SkinThickness":            30,
		"Insulin":                  100,
		"BMI":                      32.5,
		"DiabetesPedigreeFunction": 0.5,
		"Age":                      45,
	}
}

func TestHealthAndMetrics(t *testing.T) {
	a := setupAPI(t)

	w := a.do(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])

	w = a.do(http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSignup(t *testing.T) {
	a := setupAPI(t)

	a.auth.On("Signup", mock.Anything, mock.MatchedBy(func(req *types.SignupRequest) bool {
		return req.Email == "olivia@example.com"
	})).Return(a.user, "new-token", nil).Once()
	a.auth.On("Signup", mock.Anything, mock.MatchedBy(func(req *types.SignupRequest) bool {
		return req.Email == "taken@example.com"
	})).Return(nil, "", service.ErrEmailTaken).Once()

	w := a.do(http.MethodPost, "/api/v1/auth/signup", map[string]string{
		"username": "olivia", "name": "Olivia", "email": "olivia@example.com", "password": "secret1",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, "new-token", body["token"])
	assert.Equal(t, "olivia", body["user"].(map[string]interface{})["username"])

	w = a.do(http.MethodPost, "/api/v1/auth/signup", map[string]string{
		"username": "other", "name": "Other", "email": "taken@example.com", "password": "secret1",
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = a.do(http.MethodPost, "/api/v1/auth/signup", map[string]string{"email": "not-an-email"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	a.auth.AssertExpectations(t)
}

func TestLogin(t *testing.T) {
	a := setupAPI(t)
	a.auth.On("Login", mock.Anything, "olivia@example.com", "secret1").Return(a.user, "login-token", nil)
	a.auth.On("Login", mock.Anything, "olivia@example.com", "wrong").Return(nil, "", service.ErrInvalidCredentials)

	w := a.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "olivia@example.com", "password": "secret1"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "login-token", decode(t, w)["token"])

	w = a.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "olivia@example.com", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout(t *testing.T) {
	a := setupAPI(t)
	a.auth.On("Logout", mock.Anything, a.claims).Return(nil).Once()

	w := a.do(http.MethodPost, "/api/v1/auth/logout", nil, testToken)
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodPost, "/api/v1/auth/logout", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	a.auth.AssertExpectations(t)
}

func TestCheckup(t *testing.T) {
	a := setupAPI(t)
	a.predictions.On("Checkup", mock.Anything, a.user.ID, mock.AnythingOfType("*types.CheckupRequest")).Return(&service.PredictionResult{
		Label:      service.LabelHigh,
		Percent:    55.5,
		ColorClass: "high",
		Summary:    service.Summary(55.5, service.LabelHigh),
	}, nil).Once()

	w := a.do(http.MethodPost, "/api/v1/checkup", checkupBody(), testToken)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Risk of Diabetes: 55.50% – High Risk", body["result"])
	assert.Equal(t, service.LabelHigh, body["label"])
	assert.Equal(t, 55.5, body["percent"])
	assert.Equal(t, "high", body["color_class"])
}

func TestCheckupErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "missing field",
			err:     &service.InputError{Field: "Glucose", Message: "Glucose is required"},
			status:  http.StatusBadRequest,
			message: "Glucose is required",
		},
		{
			name:    "no model",
			err:     fmt.Errorf("%w: no model loaded", artifact.ErrArtifactMissing),
			status:  http.StatusServiceUnavailable,
			message: "prediction model unavailable",
		},
		{
			name:    "storage failure",
			err:     errors.New("failed to save prediction: disk full"),
			status:  http.StatusInternalServerError,
			message: "An error occurred. Please check your inputs.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := setupAPI(t)
			a.predictions.On("Checkup", mock.Anything, a.user.ID, mock.Anything).Return(nil, tt.err).Once()

			w := a.do(http.MethodPost, "/api/v1/checkup", checkupBody(), testToken)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.message, decode(t, w)["error"])
		})
	}
}

func TestCheckupRequiresAuth(t *testing.T) {
	a := setupAPI(t)

	w := a.do(http.MethodPost, "/api/v1/checkup", checkupBody(), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(http.MethodPost, "/api/v1/checkup", checkupBody(), "forged")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	a.predictions.AssertNotCalled(t, "Checkup", mock.Anything, mock.Anything, mock.Anything)
}

func TestHistory(t *testing.T) {
	a := setupAPI(t)
	records := []models.PredictionHistory{
		{ID: uuid.New(), UserID: a.user.ID, Prediction: service.Summary(20, service.LabelVeryLow), Label: service.LabelVeryLow, Percent: 20, Glucose: 100, Age: 30, Timestamp: time.Now()},
	}
	a.predictions.On("History", mock.Anything, a.user.ID).Return(records, nil)

	w := a.do(http.MethodGet, "/api/v1/history", nil, testToken)
	require.Equal(t, http.StatusOK, w.Code)
	history := decode(t, w)["history"].([]interface{})
	require.Len(t, history, 1)
	assert.Equal(t, service.LabelVeryLow, history[0].(map[string]interface{})["label"])

	w = a.do(http.MethodGet, "/api/v1/history/pdf", nil, testToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "prediction_history.pdf")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

func TestDashboard(t *testing.T) {
	a := setupAPI(t)
	a.wellness.On("Dashboard", mock.Anything, a.user).Return(&types.DashboardResponse{
		Name:         a.user.Name,
		SelectedDiet: "veg",
		Predictions:  []types.PredictionEntry{},
	}, nil)

	w := a.do(http.MethodGet, "/api/v1/dashboard", nil, testToken)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Olivia", body["name"])
	assert.Equal(t, "veg", body["selected_diet"])
}

func TestLogMood(t *testing.T) {
	a := setupAPI(t)
	a.wellness.On("LogMood", mock.Anything, a.user.ID, "Happy", "").Return(&types.MoodResponse{
		MoodMessage: "Mood 'Happy' logged successfully!",
		WellnessTip: service.MoodTip("Happy"),
	}, nil)
	a.wellness.On("LogMood", mock.Anything, a.user.ID, "", "").Return(nil, service.ErrMoodRequired)

	w := a.do(http.MethodPost, "/api/v1/dashboard/mood", map[string]string{"mood": "Happy"}, testToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Mood 'Happy' logged successfully!", decode(t, w)["mood_message"])

	w = a.do(http.MethodPost, "/api/v1/dashboard/mood", map[string]string{}, testToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Mood is required", decode(t, w)["error"])
}

func TestSavePreferences(t *testing.T) {
	a := setupAPI(t)
	a.wellness.On("SavePreferences", mock.Anything, a.user.ID, "nonveg", "nuts").Return(&types.PreferencesResponse{
		PrefMessage: "Preferences saved!",
		MealTip:     "Morning: Boiled safe alternatives & multigrain toast",
	}, nil).Once()

	w := a.do(http.MethodPost, "/api/v1/dashboard/preferences", map[string]string{"diet": "nonveg", "allergy": "nuts"}, testToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Preferences saved!", decode(t, w)["pref_message"])

	w = a.do(http.MethodPost, "/api/v1/dashboard/preferences", map[string]string{"diet": "carnivore"}, testToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	a.wellness.AssertExpectations(t)
}

func TestChat(t *testing.T) {
	a := setupAPI(t)
	a.chat.On("Reply", mock.Anything, a.user, "What is a low-GI breakfast?").Return("Try steel-cut oats.").Once()

	w := a.do(http.MethodPost, "/api/v1/chat", map[string]string{"message": "What is a low-GI breakfast?"}, testToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Try steel-cut oats.", decode(t, w)["reply"])

	w = a.do(http.MethodPost, "/api/v1/chat", map[string]string{}, testToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.ReplyUnableToProcess, decode(t, w)["reply"])
	a.chat.AssertExpectations(t)
}
