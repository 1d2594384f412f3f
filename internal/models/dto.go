package models

import "time"

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type RegisterResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type UploadResponse struct {
	CVDocumentID      string `json:"cv_document_id"`
	ProjectDocumentID string `json:"project_document_id"`
}

type EvaluateRequest struct {
	JobTitle          string `json:"job_title"`
	JobID             *uint  `json:"job_id,omitempty"`
	CVDocumentID      string `json:"cv_document_id"`
	ProjectDocumentID string `json:"project_document_id"`
}

type EvaluateResponse struct {
	ID       string    `json:"id"`
	Status   string    `json:"status"`
	QueuedAt time.Time `json:"queued_at"`
}

// StatusResponse is the polling view of an evaluation job. Result is present
// iff the job completed, Error iff it failed, FinishedAt iff the status is
// terminal.
type StatusResponse struct {
	ID         string            `json:"id"`
	Status     string            `json:"status"`
	Result     *EvaluationResult `json:"result,omitempty"`
	Error      *string           `json:"error,omitempty"`
	QueuedAt   time.Time         `json:"queued_at"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt *time.Time        `json:"finished_at,omitempty"`
}

type JobCreateRequest struct {
	JobCode      string `json:"job_code"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Requirements string `json:"requirements"`
	SalaryRange  string `json:"salary_range,omitempty"`
	Location     string `json:"location,omitempty"`
}
