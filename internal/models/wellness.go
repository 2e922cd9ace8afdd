package models

import (
	"time"

	"github.com/google/uuid"
)

type EmotionLog struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Mood      string    `gorm:"size:50;not null" json:"mood"`
	Notes     string    `gorm:"type:text" json:"notes"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
}

// UserPreferences holds one user's diet choice and comma separated allergy list.
type UserPreferences struct {
	ID         uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID     uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex" json:"user_id"`
	Preference string    `gorm:"size:20;not null" json:"preference"`
	Allergies  string    `gorm:"type:text" json:"allergies"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DailyPlan is the meal plan generated for a user on one calendar day (Date is YYYY-MM-DD).
type DailyPlan struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_daily_plan_user_date" json:"user_id"`
	Date      string    `gorm:"size:10;not null;uniqueIndex:idx_daily_plan_user_date" json:"date"`
	Morning   string    `gorm:"type:text" json:"morning"`
	Lunch     string    `gorm:"type:text" json:"lunch"`
	Evening   string    `gorm:"type:text" json:"evening"`
	Dinner    string    `gorm:"type:text" json:"dinner"`
	Juice     string    `gorm:"type:text" json:"juice"`
	CreatedAt time.Time `json:"created_at"`
}
