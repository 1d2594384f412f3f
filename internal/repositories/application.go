package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"talentscreen/job-screening/internal/models"
)

type ApplicationRepository interface {
	Create(app *models.Application) error
	FindByID(id uint) (*models.Application, error)
	ListByUser(userID uuid.UUID) ([]models.Application, error)
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// Create implements ApplicationRepository.
func (r *applicationRepository) Create(app *models.Application) error {
	if err := r.db.Create(app).Error; err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

// FindByID implements ApplicationRepository.
func (r *applicationRepository) FindByID(id uint) (*models.Application, error) {
	var app models.Application
	if err := r.db.Where("id = ?", id).First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("application not found")
		}
		return nil, fmt.Errorf("failed to find application: %w", err)
	}
	return &app, nil
}

// ListByUser implements ApplicationRepository.
func (r *applicationRepository) ListByUser(userID uuid.UUID) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}
