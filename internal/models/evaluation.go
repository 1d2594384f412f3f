package models

import (
	"time"

	"github.com/google/uuid"
)

// ProgressEntry is one record in an evaluation job's append-only progress
// log. Entries are never truncated or reordered.
type ProgressEntry struct {
	Stage     string    `json:"stage"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// EvaluationResult is the structured output of one pipeline run. It is
// produced atomically: either the whole struct is present or nothing is.
// Scores are bounded to [0,100]; out-of-range values from a misbehaving
// generation backend are clamped at parse time.
type EvaluationResult struct {
	CVMatchRate     float64            `json:"cv_match_rate"`
	CVFeedback      string             `json:"cv_feedback"`
	ProjectScore    float64            `json:"project_score"`
	ProjectFeedback string             `json:"project_feedback"`
	OverallSummary  string             `json:"overall_summary"`
	ParameterScores map[string]float64 `json:"parameter_scores,omitempty"`
}

// EvaluationJob is the durable record tracking one evaluation's lifecycle:
// queued -> processing -> {completed, failed}. The executor is the only
// writer once the job leaves queued.
type EvaluationJob struct {
	ID            uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ApplicationID uint              `gorm:"not null;index" json:"application_id"`
	Status        Status            `gorm:"type:text;not null;default:'queued'" json:"status"`
	ProgressLog   []ProgressEntry   `gorm:"type:jsonb;serializer:json" json:"progress_log"`
	Result        *EvaluationResult `gorm:"type:jsonb;serializer:json" json:"result,omitempty"`
	Error         *string           `gorm:"type:text" json:"error,omitempty"`
	CreatedAt     time.Time         `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	Application Application `gorm:"foreignKey:ApplicationID" json:"-"`
}

func (EvaluationJob) TableName() string {
	return "evaluation_jobs"
}

func (j *EvaluationJob) appendLog(stage, message string) {
	j.ProgressLog = append(j.ProgressLog, ProgressEntry{
		Stage:     stage,
		Message:   message,
		Timestamp: time.Now(),
	})
}

// MarkProcessing transitions the job to processing and reports whether the
// transition happened. A job already in processing is left untouched, which
// guards duplicate dispatch of the same unit. Re-entry from failed is
// allowed: a retry attempt re-opens the job and the final status reflects
// only the last attempt.
func (j *EvaluationJob) MarkProcessing() bool {
	if j.Status == StatusProcessing {
		return false
	}
	j.Status = StatusProcessing
	j.appendLog("processing", "Job started")
	return true
}

// MarkCompleted records the terminal success state. Result and Error are
// mutually exclusive; a reader must never see completed with a nil result.
func (j *EvaluationJob) MarkCompleted(result *EvaluationResult) {
	j.Status = StatusCompleted
	j.Result = result
	j.Error = nil
	j.appendLog("completed", "Job finished")
}

// MarkFailed records the terminal failure state with the causing message.
func (j *EvaluationJob) MarkFailed(errMsg string) {
	j.Status = StatusFailed
	j.Error = &errMsg
	j.Result = nil
	j.appendLog("failed", errMsg)
}

// StartedAt is the timestamp of the first progress entry, falling back to
// the creation time for jobs that never started.
func (j *EvaluationJob) StartedAt() time.Time {
	if len(j.ProgressLog) > 0 {
		return j.ProgressLog[0].Timestamp
	}
	return j.CreatedAt
}
