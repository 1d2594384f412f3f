package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"talentscreen/job-screening/internal/models"
)

type EvaluationRepository interface {
	Create(job *models.EvaluationJob) error
	FindByID(id uuid.UUID) (*models.EvaluationJob, error)
	// FindOwnedByID resolves a job only when its application belongs to
	// userID.
	FindOwnedByID(id, userID uuid.UUID) (*models.EvaluationJob, error)
	// Save persists the job's mutable lifecycle fields in one row update, so
	// a concurrent reader never observes a terminal status without its
	// result or error.
	Save(job *models.EvaluationJob) error
	// SaveCompleted persists the completed job together with the owning
	// application's denormalized status and result in a single transaction.
	SaveCompleted(job *models.EvaluationJob, app *models.Application) error
	FindPendingJobs(limit int) ([]models.EvaluationJob, error)
}

type evaluationRepository struct {
	db *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) EvaluationRepository {
	return &evaluationRepository{db: db}
}

func (r *evaluationRepository) Create(job *models.EvaluationJob) error {
	if err := r.db.Create(job).Error; err != nil {
		return fmt.Errorf("failed to create evaluation job: %w", err)
	}
	return nil
}

func (r *evaluationRepository) FindByID(id uuid.UUID) (*models.EvaluationJob, error) {
	var job models.EvaluationJob
	err := r.db.
		Preload("Application").
		Preload("Application.Job").
		Preload("Application.CVDocument").
		Preload("Application.ProjectDocument").
		Where("id = ?", id).
		First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("evaluation job not found")
		}
		return nil, fmt.Errorf("failed to find evaluation job: %w", err)
	}
	return &job, nil
}

func (r *evaluationRepository) FindOwnedByID(id, userID uuid.UUID) (*models.EvaluationJob, error) {
	var job models.EvaluationJob
	err := r.db.
		Joins("JOIN applications ON applications.id = evaluation_jobs.application_id").
		Where("evaluation_jobs.id = ? AND applications.user_id = ?", id, userID).
		First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("evaluation job not found")
		}
		return nil, fmt.Errorf("failed to find evaluation job: %w", err)
	}
	return &job, nil
}

func (r *evaluationRepository) Save(job *models.EvaluationJob) error {
	job.UpdatedAt = time.Now()

	result := r.db.Model(&models.EvaluationJob{}).
		Where("id = ?", job.ID).
		Select("status", "progress_log", "result", "error", "updated_at").
		Updates(job)

	if result.Error != nil {
		return fmt.Errorf("failed to save evaluation job: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("evaluation job not found")
	}
	return nil
}

func (r *evaluationRepository) SaveCompleted(job *models.EvaluationJob, app *models.Application) error {
	now := time.Now()
	job.UpdatedAt = now
	app.UpdatedAt = now

	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.EvaluationJob{}).
			Where("id = ?", job.ID).
			Select("status", "progress_log", "result", "error", "updated_at").
			Updates(job)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("evaluation job not found")
		}

		result = tx.Model(&models.Application{}).
			Where("id = ?", app.ID).
			Select("status", "evaluation_result", "updated_at").
			Updates(app)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("application not found")
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save completed evaluation: %w", err)
	}
	return nil
}

func (r *evaluationRepository) FindPendingJobs(limit int) ([]models.EvaluationJob, error) {
	var jobs []models.EvaluationJob
	err := r.db.
		Where("status = ?", models.StatusQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find pending jobs: %w", err)
	}
	return jobs, nil
}
