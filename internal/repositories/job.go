package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"talentscreen/job-screening/internal/models"
)

// ErrDuplicateJobCode signals a job_code uniqueness conflict.
var ErrDuplicateJobCode = errors.New("job code already exists")

type JobRepository interface {
	Create(job *models.Job) error
	FindByID(id uint) (*models.Job, error)
	List() ([]models.Job, error)
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

// Create implements JobRepository.
func (r *jobRepository) Create(job *models.Job) error {
	if err := r.db.Create(job).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateJobCode
		}
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

// FindByID implements JobRepository.
func (r *jobRepository) FindByID(id uint) (*models.Job, error) {
	var job models.Job
	if err := r.db.Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("job not found")
		}
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	return &job, nil
}

// List implements JobRepository.
func (r *jobRepository) List() ([]models.Job, error) {
	var jobs []models.Job
	if err := r.db.Order("title ASC").Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}
