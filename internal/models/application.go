package models

import (
	"time"

	"github.com/google/uuid"
)

// Application carries a denormalized copy of the evaluation outcome so that
// listing endpoints never have to join through evaluation_jobs.
type Application struct {
	ID                uint              `gorm:"primaryKey" json:"id"`
	UserID            uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	JobID             *uint             `json:"job_id,omitempty"`
	JobTitle          string            `gorm:"type:text;not null" json:"job_title"`
	CVDocumentID      uuid.UUID         `gorm:"type:uuid;not null" json:"cv_document_id"`
	ProjectDocumentID uuid.UUID         `gorm:"type:uuid;not null" json:"project_document_id"`
	Status            Status            `gorm:"type:text;not null;default:'queued'" json:"status"`
	EvaluationResult  *EvaluationResult `gorm:"type:jsonb;serializer:json" json:"evaluation_result,omitempty"`
	CreatedAt         time.Time         `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time         `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	User            User     `gorm:"foreignKey:UserID" json:"-"`
	Job             *Job     `gorm:"foreignKey:JobID" json:"-"`
	CVDocument      Document `gorm:"foreignKey:CVDocumentID" json:"-"`
	ProjectDocument Document `gorm:"foreignKey:ProjectDocumentID" json:"-"`
}

func (Application) TableName() string {
	return "applications"
}
