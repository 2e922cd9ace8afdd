package testhelpers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sugarsense/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the password of every user created by CreateUser.
const TestPassword = "password123"

// CreateUser inserts a user with the given username. The email is derived from it.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		Name:         "Test " + username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}
