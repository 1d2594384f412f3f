package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentscreen/job-screening/internal/models"
)

func TestEvaluationJob_MarkProcessing(t *testing.T) {
	job := &models.EvaluationJob{Status: models.StatusQueued}

	require.True(t, job.MarkProcessing())
	assert.Equal(t, models.StatusProcessing, job.Status)
	require.Len(t, job.ProgressLog, 1)
	assert.Equal(t, "processing", job.ProgressLog[0].Stage)
	assert.Equal(t, "Job started", job.ProgressLog[0].Message)

	// Second call is a no-op: status unchanged, at most one log entry.
	assert.False(t, job.MarkProcessing())
	assert.Equal(t, models.StatusProcessing, job.Status)
	assert.Len(t, job.ProgressLog, 1)
}

func TestEvaluationJob_MarkProcessingReopensFailed(t *testing.T) {
	job := &models.EvaluationJob{Status: models.StatusQueued}
	job.MarkProcessing()
	job.MarkFailed("rate_limit exceeded")

	// A retry attempt re-opens the terminal failed state; the progress log
	// keeps the full failed -> processing history.
	require.True(t, job.MarkProcessing())
	assert.Equal(t, models.StatusProcessing, job.Status)

	stages := progressStages(job)
	assert.Equal(t, []string{"processing", "failed", "processing"}, stages)
}

func TestEvaluationJob_MarkCompleted(t *testing.T) {
	job := &models.EvaluationJob{Status: models.StatusQueued}
	job.MarkProcessing()

	result := &models.EvaluationResult{
		CVMatchRate:     82.5,
		CVFeedback:      "Strong backend profile.",
		ProjectScore:    90,
		ProjectFeedback: "Solid error handling.",
		OverallSummary:  "Hire.",
	}
	job.MarkCompleted(result)

	assert.Equal(t, models.StatusCompleted, job.Status)
	assert.Equal(t, result, job.Result)
	assert.Nil(t, job.Error)
	assert.Equal(t, []string{"processing", "completed"}, progressStages(job))
}

func TestEvaluationJob_MarkFailed(t *testing.T) {
	job := &models.EvaluationJob{Status: models.StatusQueued}
	job.MarkProcessing()
	job.MarkFailed("pipeline stage cv: boom")

	assert.Equal(t, models.StatusFailed, job.Status)
	require.NotNil(t, job.Error)
	assert.Equal(t, "pipeline stage cv: boom", *job.Error)
	assert.Nil(t, job.Result)

	last := job.ProgressLog[len(job.ProgressLog)-1]
	assert.Equal(t, "failed", last.Stage)
	assert.Equal(t, "pipeline stage cv: boom", last.Message)
}

func TestEvaluationJob_ProgressLogIsAppendOnly(t *testing.T) {
	job := &models.EvaluationJob{Status: models.StatusQueued}

	job.MarkProcessing()
	job.MarkFailed("rate_limit exceeded")
	job.MarkProcessing()
	job.MarkFailed("rate_limit exceeded")
	job.MarkProcessing()
	job.MarkCompleted(&models.EvaluationResult{CVMatchRate: 70, ProjectScore: 60, OverallSummary: "Maybe."})

	stages := progressStages(job)
	assert.Equal(t, []string{"processing", "failed", "processing", "failed", "processing", "completed"}, stages)

	// Entries are strictly ordered by append order.
	for i := 1; i < len(job.ProgressLog); i++ {
		assert.False(t, job.ProgressLog[i].Timestamp.Before(job.ProgressLog[i-1].Timestamp))
	}
}

func TestEvaluationJob_StartedAt(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	job := &models.EvaluationJob{Status: models.StatusQueued, CreatedAt: created}

	// Without progress entries the creation time stands in.
	assert.Equal(t, created, job.StartedAt())

	job.MarkProcessing()
	assert.Equal(t, job.ProgressLog[0].Timestamp, job.StartedAt())
}

func TestStatus_Terminal(t *testing.T) {
	tests := []struct {
		status models.Status
		want   bool
	}{
		{models.StatusQueued, false},
		{models.StatusProcessing, false},
		{models.StatusCompleted, true},
		{models.StatusFailed, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.Terminal())
		})
	}
}

func progressStages(job *models.EvaluationJob) []string {
	stages := make([]string, 0, len(job.ProgressLog))
	for _, entry := range job.ProgressLog {
		stages = append(stages, entry.Stage)
	}
	return stages
}
