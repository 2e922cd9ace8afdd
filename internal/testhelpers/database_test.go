package testhelpers

import (
	"testing"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sugarsense/backend/internal/database"
	"github.com/sugarsense/backend/internal/models"
	"gorm.io/gorm"
)

func exerciseSchema(t *testing.T, db *gorm.DB) {
	user := CreateUser(t, db, "schema")

	record := models.PredictionHistory{
		ID:            uuid.New(),
		UserID:        user.ID,
		Prediction:    "Risk of Diabetes: 12.00% – Very Low",
		Label:         "Very Low",
		Percent:       12,
		Glucose:       110,
		BloodPressure: 70,
		BMI:           24.5,
		Age:           33,
		Features:      pgvector.NewVector([]float32{1, 110, 70, 20, 80, 24.5, 0.3, 33}),
		Timestamp:     time.Now(),
	}
	require.NoError(t, db.Create(&record).Error)

	var loaded models.PredictionHistory
	require.NoError(t, db.First(&loaded, "id = ?", record.ID).Error)
	assert.Equal(t, "Very Low", loaded.Label)
	assert.Equal(t, 24.5, loaded.BMI)
	assert.Equal(t, record.Features.Slice(), loaded.Features.Slice())

	prefs := models.UserPreferences{ID: uuid.New(), UserID: user.ID, Preference: "veg", Allergies: "nuts"}
	require.NoError(t, db.Create(&prefs).Error)
	dup := models.UserPreferences{ID: uuid.New(), UserID: user.ID, Preference: "nonveg"}
	assert.Error(t, db.Create(&dup).Error)
}

func TestSetupSQLiteDB(t *testing.T) {
	exerciseSchema(t, SetupSQLiteDB(t))
}

func TestSetupPostgresDB(t *testing.T) {
	exerciseSchema(t, SetupPostgresDB(t))
}

func TestRollbackLast(t *testing.T) {
	t.Run("sqlite", func(t *testing.T) {
		_, err := database.RollbackLast(SetupSQLiteDB(t), MigrationsDir())
		assert.Error(t, err)
	})

	t.Run("postgres", func(t *testing.T) {
		db := SetupPostgresDB(t)

		name, err := database.RollbackLast(db, MigrationsDir())
		require.NoError(t, err)
		assert.Equal(t, "001_init.sql", name)
		assert.False(t, db.Migrator().HasTable("users"))

		require.NoError(t, database.RunMigrations(db, MigrationsDir()))
		assert.True(t, db.Migrator().HasTable("users"))
	})
}
