package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sugarsense/backend/internal/models"
	"github.com/sugarsense/backend/internal/types"
	"gorm.io/gorm"
)

const planDateLayout = "2006-01-02"

// WellnessService handles the dashboard: mood logging, preferences and meal plans.
type WellnessService struct {
	db          *gorm.DB
	predictions PredictionRepository
	now         func() time.Time
	log         logrus.FieldLogger
}

var _ IWellnessService = (*WellnessService)(nil)

func NewWellnessService(db *gorm.DB, predictions PredictionRepository) *WellnessService {
	return &WellnessService{
		db:          db,
		predictions: predictions,
		now:         time.Now,
		log:         logrus.WithField("component", "wellness"),
	}
}

// LogMood stores a mood entry and returns the matching tip.
func (s *WellnessService) LogMood(ctx context.Context, userID uuid.UUID, mood, notes string) (*types.MoodResponse, error) {
	mood = strings.TrimSpace(mood)
	if mood == "" {
		return nil, ErrMoodRequired
	}

	entry := &models.EmotionLog{
		ID:        uuid.New(),
		UserID:    userID,
		Mood:      mood,
		Notes:     notes,
		Timestamp: s.now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to log mood: %w", err)
	}

	return &types.MoodResponse{
		MoodMessage: fmt.Sprintf("Mood '%s' logged successfully!", mood),
		WellnessTip: MoodTip(mood),
	}, nil
}

// LatestMood returns the user's most recent mood, or "" when none was logged.
func (s *WellnessService) LatestMood(ctx context.Context, userID uuid.UUID) (string, error) {
	var entry models.EmotionLog
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load mood: %w", err)
	}
	return entry.Mood, nil
}

// Preferences returns the user's saved preferences, or nil when none are saved.
func (s *WellnessService) Preferences(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error) {
	var pref models.UserPreferences
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}
	return &pref, nil
}

// SavePreferences upserts the user's preferences and replaces today's meal plan.
func (s *WellnessService) SavePreferences(ctx context.Context, userID uuid.UUID, diet, allergy string) (*types.PreferencesResponse, error) {
	if diet == "" {
		diet = DietVeg
	}
	allergy = strings.TrimSpace(allergy)

	risk, err := s.riskLevel(ctx, userID)
	if err != nil {
		return nil, err
	}
	plan := BuildMealPlan(diet, allergy, risk)
	plan.Date = s.now().Format(planDateLayout)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pref models.UserPreferences
		err := tx.Where("user_id = ?", userID).First(&pref).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			pref = models.UserPreferences{
				ID:         uuid.New(),
				UserID:     userID,
				Preference: diet,
				Allergies:  allergy,
			}
			if err := tx.Create(&pref).Error; err != nil {
				return fmt.Errorf("failed to create preferences: %w", err)
			}
		case err != nil:
			return fmt.Errorf("failed to load preferences: %w", err)
		default:
			pref.Preference = diet
			pref.Allergies = allergy
			if err := tx.Save(&pref).Error; err != nil {
				return fmt.Errorf("failed to update preferences: %w", err)
			}
		}

		if err := tx.Where("user_id = ? AND date = ?", userID, plan.Date).Delete(&models.DailyPlan{}).Error; err != nil {
			return fmt.Errorf("failed to clear daily plan: %w", err)
		}
		daily := &models.DailyPlan{
			ID:      uuid.New(),
			UserID:  userID,
			Date:    plan.Date,
			Morning: plan.Morning,
			Lunch:   plan.Lunch,
			Evening: plan.Evening,
			Dinner:  plan.Dinner,
			Juice:   plan.Juice,
		}
		if err := tx.Create(daily).Error; err != nil {
			return fmt.Errorf("failed to save daily plan: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "diet": diet, "risk": risk}).Info("Preferences saved")
	return &types.PreferencesResponse{
		PrefMessage: "Preferences saved!",
		MealTip:     formatMealTip(plan),
		Plan:        plan,
	}, nil
}

// TodayPlan returns the plan stored for today, or nil.
func (s *WellnessService) TodayPlan(ctx context.Context, userID uuid.UUID) (*types.MealPlan, error) {
	var daily models.DailyPlan
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, s.now().Format(planDateLayout)).
		First(&daily).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load daily plan: %w", err)
	}
	return &types.MealPlan{
		Date:    daily.Date,
		Morning: daily.Morning,
		Lunch:   daily.Lunch,
		Evening: daily.Evening,
		Dinner:  daily.Dinner,
		Juice:   daily.Juice,
	}, nil
}

// Dashboard gathers what the dashboard page shows for a user.
func (s *WellnessService) Dashboard(ctx context.Context, user *models.User) (*types.DashboardResponse, error) {
	resp := &types.DashboardResponse{Name: user.Name, SelectedDiet: DietVeg}

	pref, err := s.Preferences(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if pref != nil {
		if pref.Preference != "" {
			resp.SelectedDiet = pref.Preference
		}
		resp.SelectedAllergy = pref.Allergies
	}

	if resp.Plan, err = s.TodayPlan(ctx, user.ID); err != nil {
		return nil, err
	}

	records, err := s.predictions.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	resp.Predictions = ToEntries(records)
	return resp, nil
}

// riskLevel returns the meal plan risk level derived from the user's latest prediction.
func (s *WellnessService) riskLevel(ctx context.Context, userID uuid.UUID) (string, error) {
	latest, err := s.predictions.Latest(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load latest prediction: %w", err)
	}
	if latest == nil {
		return RiskLevelForLabel(""), nil
	}
	return RiskLevelForLabel(latest.Label), nil
}

func formatMealTip(plan *types.MealPlan) string {
	tip := fmt.Sprintf("Morning: %s | Lunch: %s | Evening: %s | Dinner: %s | Juice: %s",
		plan.Morning, plan.Lunch, plan.Evening, plan.Dinner, plan.Juice)
	if plan.Note != "" {
		tip += " | " + plan.Note
	}
	return tip
}
