package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sugarsense/backend/internal/models"
	"github.com/sugarsense/backend/internal/types"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TokenTTL is how long an issued token stays valid.
const TokenTTL = 24 * time.Hour

type AuthService struct {
	db        *gorm.DB
	jwtSecret string
	blocklist TokenBlocklist
	log       logrus.FieldLogger
}

var _ IAuthService = (*AuthService)(nil)

// NewAuthService creates an auth service. A nil blocklist disables logout revocation.
func NewAuthService(db *gorm.DB, jwtSecret string, blocklist TokenBlocklist) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: jwtSecret,
		blocklist: blocklist,
		log:       logrus.WithField("component", "auth"),
	}
}

// Signup creates an account and returns it with a fresh token.
func (s *AuthService) Signup(ctx context.Context, req *types.SignupRequest) (*models.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, "", ErrEmailTaken
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, "", fmt.Errorf("failed to check username: %w", err)
	}
	if count > 0 {
		return nil, "", ErrUsernameTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.GenerateToken(&types.TokenClaims{UserID: user.ID, Username: user.Username})
	if err != nil {
		return nil, "", err
	}

	s.log.WithField("user_id", user.ID).Info("User signed up")
	return user, token, nil
}

// Login checks the credentials and returns the user with a fresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.GenerateToken(&types.TokenClaims{UserID: user.ID, Username: user.Username})
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// Logout revokes the token the claims were parsed from until it would expire anyway.
func (s *AuthService) Logout(ctx context.Context, claims *types.TokenClaims) error {
	if s.blocklist == nil || claims == nil || claims.ID == "" {
		return nil
	}
	if err := s.blocklist.Revoke(ctx, claims.ID, claims.ExpiresOr(time.Now().Add(TokenTTL))); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// GenerateToken signs claims with HS256, filling in the id and validity window.
func (s *AuthService) GenerateToken(claims *types.TokenClaims) (string, error) {
	now := time.Now()
	claims.ID = uuid.NewString()
	claims.Subject = claims.UserID.String()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(TokenTTL))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a token, rejecting revoked ones.
func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}

	if s.blocklist != nil && claims.ID != "" {
		revoked, err := s.blocklist.IsRevoked(context.Background(), claims.ID)
		if err != nil {
			s.log.WithError(err).Warn("Token blocklist lookup failed")
		} else if revoked {
			return nil, ErrTokenRevoked
		}
	}
	return claims, nil
}

// GetUserByID loads a user.
func (s *AuthService) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}
