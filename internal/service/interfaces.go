package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sugarsense/backend/internal/models"
	"github.com/sugarsense/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Signup(ctx context.Context, req *types.SignupRequest) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	Logout(ctx context.Context, claims *types.TokenClaims) error
	ValidateToken(token string) (*types.TokenClaims, error)
	GenerateToken(claims *types.TokenClaims) (string, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

// IPredictionService defines the interface for risk checkups and their history
type IPredictionService interface {
	Checkup(ctx context.Context, userID uuid.UUID, req *types.CheckupRequest) (*PredictionResult, error)
	History(ctx context.Context, userID uuid.UUID) ([]models.PredictionHistory, error)
	Latest(ctx context.Context, userID uuid.UUID) (*models.PredictionHistory, error)
}

// IWellnessService defines the interface for dashboard operations
type IWellnessService interface {
	LogMood(ctx context.Context, userID uuid.UUID, mood, notes string) (*types.MoodResponse, error)
	SavePreferences(ctx context.Context, userID uuid.UUID, diet, allergy string) (*types.PreferencesResponse, error)
	Dashboard(ctx context.Context, user *models.User) (*types.DashboardResponse, error)
}

// IChatService defines the interface for the chat assistant
type IChatService interface {
	Reply(ctx context.Context, user *models.User, message string) string
}
