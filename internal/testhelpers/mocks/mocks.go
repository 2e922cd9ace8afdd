package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/sugarsense/backend/internal/models"
	"github.com/sugarsense/backend/internal/service"
	"github.com/sugarsense/backend/internal/types"
)

// MockAuthService is a mock implementation of the auth service
type MockAuthService struct {
	mock.Mock
}

var _ service.IAuthService = (*MockAuthService)(nil)

// Signup mocks the Signup method
func (m *MockAuthService) Signup(ctx context.Context, req *types.SignupRequest) (*models.User, string, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

// Login mocks the Login method
func (m *MockAuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

// Logout mocks the Logout method
func (m *MockAuthService) Logout(ctx context.Context, claims *types.TokenClaims) error {
	args := m.Called(ctx, claims)
	return args.Error(0)
}

// ValidateToken mocks the ValidateToken method
func (m *MockAuthService) ValidateToken(token string) (*types.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TokenClaims), args.Error(1)
}

// GenerateToken mocks the GenerateToken method
func (m *MockAuthService) GenerateToken(claims *types.TokenClaims) (string, error) {
	args := m.Called(claims)
	return args.String(0), args.Error(1)
}

// GetUserByID mocks the GetUserByID method
func (m *MockAuthService) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockPredictionService is a mock implementation of the prediction service
type MockPredictionService struct {
	mock.Mock
}

var _ service.IPredictionService = (*MockPredictionService)(nil)

func (m *MockPredictionService) Checkup(ctx context.Context, userID uuid.UUID, req *types.CheckupRequest) (*service.PredictionResult, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PredictionResult), args.Error(1)
}

func (m *MockPredictionService) History(ctx context.Context, userID uuid.UUID) ([]models.PredictionHistory, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PredictionHistory), args.Error(1)
}

func (m *MockPredictionService) Latest(ctx context.Context, userID uuid.UUID) (*models.PredictionHistory, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PredictionHistory), args.Error(1)
}

// MockWellnessService is a mock implementation of the dashboard service
type MockWellnessService struct {
	mock.Mock
}

var _ service.IWellnessService = (*MockWellnessService)(nil)

func (m *MockWellnessService) LogMood(ctx context.Context, userID uuid.UUID, mood, notes string) (*types.MoodResponse, error) {
	args := m.Called(ctx, userID, mood, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.MoodResponse), args.Error(1)
}

func (m *MockWellnessService) SavePreferences(ctx context.Context, userID uuid.UUID, diet, allergy string) (*types.PreferencesResponse, error) {
	args := m.Called(ctx, userID, diet, allergy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.PreferencesResponse), args.Error(1)
}

func (m *MockWellnessService) Dashboard(ctx context.Context, user *models.User) (*types.DashboardResponse, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.DashboardResponse), args.Error(1)
}

// MockChatService is a mock implementation of the chat assistant
type MockChatService struct {
	mock.Mock
}

var _ service.IChatService = (*MockChatService)(nil)

func (m *MockChatService) Reply(ctx context.Context, user *models.User, message string) string {
	args := m.Called(ctx, user, message)
	return args.String(0)
}

// MockLLMClient is a mock implementation of the language model client
type MockLLMClient struct {
	mock.Mock
}

var _ service.LLMClient = (*MockLLMClient)(nil)

func (m *MockLLMClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}
