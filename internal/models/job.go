package models

import "time"

type Job struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	JobCode      string    `gorm:"type:text;uniqueIndex;not null" json:"job_code"`
	Title        string    `gorm:"type:text;not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	Requirements string    `gorm:"type:text" json:"requirements"`
	SalaryRange  string    `gorm:"type:text" json:"salary_range,omitempty"`
	Location     string    `gorm:"type:text" json:"location,omitempty"`
	CreatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Job) TableName() string {
	return "jobs"
}
