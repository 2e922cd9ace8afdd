package models

import (
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
)

// PredictionHistory is one stored risk prediction. Rows are append-only.
type PredictionHistory struct {
	ID            uuid.UUID       `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID        uuid.UUID       `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Prediction    string          `gorm:"size:100;not null" json:"prediction"`
	Label         string          `gorm:"size:20;not null" json:"label"`
	Percent       float64         `gorm:"not null" json:"percent"`
	Glucose       float64         `json:"glucose"`
	BloodPressure float64         `json:"blood_pressure"`
	BMI           float64         `gorm:"column:bmi" json:"bmi"`
	Age           int             `json:"age"`
	Features      pgvector.Vector `gorm:"type:vector(8)" json:"-"`
	Timestamp     time.Time       `gorm:"not null;index" json:"timestamp"`
}

func (PredictionHistory) TableName() string {
	return "prediction_history"
}
