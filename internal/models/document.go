package models

import (
	"time"

	"github.com/google/uuid"
)

type DocumentType string

const (
	DocTypeCandidateCV      DocumentType = "candidate_cv"
	DocTypeCandidateProject DocumentType = "candidate_project"
	DocTypeSystemJobDesc    DocumentType = "system_job_desc"
	DocTypeSystemRubric     DocumentType = "system_rubric"
)

type Document struct {
	ID           uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OwnerID      uuid.UUID    `gorm:"type:uuid;not null;index" json:"owner_id"`
	DocType      DocumentType `gorm:"type:text;not null" json:"doc_type"`
	Checksum     string       `gorm:"type:text;not null" json:"checksum"`
	FilePath     string       `gorm:"type:text;not null" json:"file_path"`
	OriginalName string       `gorm:"type:text" json:"original_name"`
	CreatedAt    time.Time    `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	Owner User `gorm:"foreignKey:OwnerID" json:"-"`
}

func (Document) TableName() string {
	return "documents"
}
