package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"talentscreen/job-screening/internal/models"
	"talentscreen/job-screening/internal/repositories"
)

// TaskRunEvaluation is the task name the executor registers its handler
// under.
const TaskRunEvaluation = "run_evaluation"

// RetryScheduler re-submits a task after the backoff delay. The worker
// implements it; the executor only holds the interface.
type RetryScheduler interface {
	ScheduleRetry(task string, unitID uuid.UUID, attempt int)
}

// TaskExecutor runs one evaluation attempt out-of-band: it loads the unit,
// transitions it through the state machine, invokes the pipeline and decides
// retry vs terminal failure.
type TaskExecutor interface {
	Execute(ctx context.Context, unitID uuid.UUID, attempt int) error
}

type taskExecutor struct {
	evalRepo    repositories.EvaluationRepository
	pipeline    EvaluationPipeline
	scheduler   RetryScheduler
	classify    Classifier
	maxAttempts int
}

func NewTaskExecutor(
	evalRepo repositories.EvaluationRepository,
	pipeline EvaluationPipeline,
	scheduler RetryScheduler,
	classify Classifier,
	maxAttempts int,
) TaskExecutor {
	return &taskExecutor{
		evalRepo:    evalRepo,
		pipeline:    pipeline,
		scheduler:   scheduler,
		classify:    classify,
		maxAttempts: maxAttempts,
	}
}

// Execute implements TaskExecutor.
func (e *taskExecutor) Execute(ctx context.Context, unitID uuid.UUID, attempt int) error {
	job, err := e.evalRepo.FindByID(unitID)
	if err != nil {
		return fmt.Errorf("failed to load evaluation job: %w", err)
	}

	// Duplicate delivery of an in-flight unit is a no-op. A failed unit
	// passes through here on retry: the terminal state is re-opened and the
	// progress log keeps the failed -> processing history.
	if !job.MarkProcessing() {
		log.Printf("⚠️  Job %s already processing, skipping duplicate delivery\n", unitID)
		return nil
	}
	if err := e.evalRepo.Save(job); err != nil {
		return fmt.Errorf("failed to persist processing state: %w", err)
	}

	log.Printf("🔄 Attempt %d/%d for evaluation job %s\n", attempt, e.maxAttempts, unitID)

	app := &job.Application
	result, err := e.pipeline.Run(ctx, PipelineInput{
		CVPath:      app.CVDocument.FilePath,
		ProjectPath: app.ProjectDocument.FilePath,
		JobTitle:    app.JobTitle,
		JobContext:  jobContextOf(app),
	})
	if err != nil {
		return e.handleFailure(job, attempt, err)
	}

	job.MarkCompleted(result)
	app.Status = models.StatusCompleted
	app.EvaluationResult = result
	if err := e.evalRepo.SaveCompleted(job, app); err != nil {
		return fmt.Errorf("failed to persist completed state: %w", err)
	}

	log.Printf("✅ Evaluation job %s completed\n", unitID)
	return nil
}

func (e *taskExecutor) handleFailure(job *models.EvaluationJob, attempt int, cause error) error {
	job.MarkFailed(cause.Error())
	if err := e.evalRepo.Save(job); err != nil {
		return fmt.Errorf("failed to persist failed state: %w", err)
	}

	if e.classify(cause) == FailureTransient && attempt < e.maxAttempts {
		log.Printf("⚠️  Transient failure on job %s (attempt %d), scheduling retry: %v\n",
			job.ID, attempt, cause)
		e.scheduler.ScheduleRetry(TaskRunEvaluation, job.ID, attempt+1)
		return nil
	}

	log.Printf("❌ Evaluation job %s failed permanently after attempt %d: %v\n",
		job.ID, attempt, cause)
	return cause
}

func jobContextOf(app *models.Application) string {
	if app.Job == nil {
		return ""
	}
	return fmt.Sprintf("%s\n\n%s", app.Job.Description, app.Job.Requirements)
}
