package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentscreen/job-screening/internal/handlers"
	"talentscreen/job-screening/internal/middleware"
	"talentscreen/job-screening/internal/models"
)

type memDocRepo struct {
	docs map[uuid.UUID]*models.Document
}

func (r *memDocRepo) Create(doc *models.Document) error {
	r.docs[doc.ID] = doc
	return nil
}

func (r *memDocRepo) FindByID(id uuid.UUID) (*models.Document, error) {
	if doc, ok := r.docs[id]; ok {
		return doc, nil
	}
	return nil, fmt.Errorf("document not found")
}

func (r *memDocRepo) FindOwnedByID(id, ownerID uuid.UUID) (*models.Document, error) {
	doc, ok := r.docs[id]
	if !ok || doc.OwnerID != ownerID {
		return nil, fmt.Errorf("document not found")
	}
	return doc, nil
}

type memAppRepo struct {
	apps   map[uint]*models.Application
	nextID uint
}

func (r *memAppRepo) Create(app *models.Application) error {
	r.nextID++
	app.ID = r.nextID
	r.apps[app.ID] = app
	return nil
}

func (r *memAppRepo) FindByID(id uint) (*models.Application, error) {
	if app, ok := r.apps[id]; ok {
		return app, nil
	}
	return nil, fmt.Errorf("application not found")
}

func (r *memAppRepo) ListByUser(userID uuid.UUID) ([]models.Application, error) {
	var apps []models.Application
	for _, app := range r.apps {
		if app.UserID == userID {
			apps = append(apps, *app)
		}
	}
	return apps, nil
}

type memJobRepo struct {
	jobs map[uint]*models.Job
}

func (r *memJobRepo) Create(job *models.Job) error {
	r.jobs[job.ID] = job
	return nil
}

func (r *memJobRepo) FindByID(id uint) (*models.Job, error) {
	if job, ok := r.jobs[id]; ok {
		return job, nil
	}
	return nil, fmt.Errorf("job not found")
}

func (r *memJobRepo) List() ([]models.Job, error) {
	var jobs []models.Job
	for _, job := range r.jobs {
		jobs = append(jobs, *job)
	}
	return jobs, nil
}

type memEvalRepo struct {
	jobs map[uuid.UUID]*models.EvaluationJob
	apps *memAppRepo
}

func (r *memEvalRepo) Create(job *models.EvaluationJob) error {
	r.jobs[job.ID] = job
	return nil
}

func (r *memEvalRepo) FindByID(id uuid.UUID) (*models.EvaluationJob, error) {
	if job, ok := r.jobs[id]; ok {
		return job, nil
	}
	return nil, fmt.Errorf("evaluation job not found")
}

func (r *memEvalRepo) FindOwnedByID(id, userID uuid.UUID) (*models.EvaluationJob, error) {
	job, ok := r.jobs[id]
	if !ok {
		return nil, fmt.Errorf("evaluation job not found")
	}
	app, ok := r.apps.apps[job.ApplicationID]
	if !ok || app.UserID != userID {
		return nil, fmt.Errorf("evaluation job not found")
	}
	return job, nil
}

func (r *memEvalRepo) Save(job *models.EvaluationJob) error {
	if _, ok := r.jobs[job.ID]; !ok {
		return fmt.Errorf("evaluation job not found")
	}
	r.jobs[job.ID] = job
	return nil
}

func (r *memEvalRepo) SaveCompleted(job *models.EvaluationJob, app *models.Application) error {
	if err := r.Save(job); err != nil {
		return err
	}
	r.apps.apps[app.ID] = app
	return nil
}

func (r *memEvalRepo) FindPendingJobs(limit int) ([]models.EvaluationJob, error) {
	return nil, nil
}

type memQueue struct {
	enqueued []uuid.UUID
}

func (q *memQueue) Enqueue(task string, unitID uuid.UUID) {
	q.enqueued = append(q.enqueued, unitID)
}

type evaluateFixture struct {
	app      *fiber.App
	userID   uuid.UUID
	docRepo  *memDocRepo
	appRepo  *memAppRepo
	jobRepo  *memJobRepo
	evalRepo *memEvalRepo
	queue    *memQueue
}

// newEvaluateFixture wires the handler behind a stub auth middleware that
// injects a fixed user id, the way RequireAuth would after token validation.
func newEvaluateFixture() *evaluateFixture {
	userID := uuid.New()

	docRepo := &memDocRepo{docs: make(map[uuid.UUID]*models.Document)}
	appRepo := &memAppRepo{apps: make(map[uint]*models.Application)}
	jobRepo := &memJobRepo{jobs: make(map[uint]*models.Job)}
	evalRepo := &memEvalRepo{jobs: make(map[uuid.UUID]*models.EvaluationJob), apps: appRepo}
	queue := &memQueue{}

	handler := handlers.NewEvaluateHandler(evalRepo, appRepo, docRepo, jobRepo, queue)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(middleware.LocalsUserID, userID)
		return c.Next()
	})
	app.Post("/evaluate", handler.HandleEvaluate)

	return &evaluateFixture{
		app:      app,
		userID:   userID,
		docRepo:  docRepo,
		appRepo:  appRepo,
		jobRepo:  jobRepo,
		evalRepo: evalRepo,
		queue:    queue,
	}
}

func (fx *evaluateFixture) addDocument(ownerID uuid.UUID, docType models.DocumentType) uuid.UUID {
	doc := &models.Document{
		ID:       uuid.New(),
		OwnerID:  ownerID,
		DocType:  docType,
		FilePath: "/uploads/" + string(docType) + ".pdf",
	}
	fx.docRepo.docs[doc.ID] = doc
	return doc.ID
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) *http.Response {
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	var out T
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestEvaluateHandler_AcceptsValidSubmission(t *testing.T) {
	fx := newEvaluateFixture()
	cvID := fx.addDocument(fx.userID, models.DocTypeCandidateCV)
	projectID := fx.addDocument(fx.userID, models.DocTypeCandidateProject)

	resp := postJSON(t, fx.app, "/evaluate", models.EvaluateRequest{
		JobTitle:          "Backend Engineer",
		CVDocumentID:      cvID.String(),
		ProjectDocumentID: projectID.String(),
	})
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	out := decodeJSON[models.EvaluateResponse](t, resp)
	assert.Equal(t, "queued", out.Status)

	jobID, err := uuid.Parse(out.ID)
	require.NoError(t, err)

	// The durable unit exists in queued with an empty progress log before any
	// worker touches it.
	job, err := fx.evalRepo.FindByID(jobID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusQueued, job.Status)
	assert.Empty(t, job.ProgressLog)
	assert.Nil(t, job.Result)
	assert.Nil(t, job.Error)

	app, err := fx.appRepo.FindByID(job.ApplicationID)
	require.NoError(t, err)
	assert.Equal(t, fx.userID, app.UserID)
	assert.Equal(t, cvID, app.CVDocumentID)
	assert.Equal(t, projectID, app.ProjectDocumentID)
	assert.Equal(t, models.StatusQueued, app.Status)

	assert.Equal(t, []uuid.UUID{jobID}, fx.queue.enqueued)
}

func TestEvaluateHandler_RejectsDocTypeMismatch(t *testing.T) {
	fx := newEvaluateFixture()
	cvID := fx.addDocument(fx.userID, models.DocTypeCandidateCV)
	projectID := fx.addDocument(fx.userID, models.DocTypeCandidateProject)

	// CV and project ids swapped.
	resp := postJSON(t, fx.app, "/evaluate", models.EvaluateRequest{
		JobTitle:          "Backend Engineer",
		CVDocumentID:      projectID.String(),
		ProjectDocumentID: cvID.String(),
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Validation failed before any record was created.
	assert.Empty(t, fx.appRepo.apps)
	assert.Empty(t, fx.evalRepo.jobs)
	assert.Empty(t, fx.queue.enqueued)
}

func TestEvaluateHandler_RejectsMissingDocument(t *testing.T) {
	fx := newEvaluateFixture()
	cvID := fx.addDocument(fx.userID, models.DocTypeCandidateCV)

	resp := postJSON(t, fx.app, "/evaluate", models.EvaluateRequest{
		JobTitle:          "Backend Engineer",
		CVDocumentID:      cvID.String(),
		ProjectDocumentID: uuid.NewString(),
	})
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Empty(t, fx.evalRepo.jobs)
}

func TestEvaluateHandler_RejectsForeignDocument(t *testing.T) {
	fx := newEvaluateFixture()
	otherUser := uuid.New()
	cvID := fx.addDocument(otherUser, models.DocTypeCandidateCV)
	projectID := fx.addDocument(fx.userID, models.DocTypeCandidateProject)

	resp := postJSON(t, fx.app, "/evaluate", models.EvaluateRequest{
		JobTitle:          "Backend Engineer",
		CVDocumentID:      cvID.String(),
		ProjectDocumentID: projectID.String(),
	})
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestEvaluateHandler_RejectsMissingJobTitle(t *testing.T) {
	fx := newEvaluateFixture()
	cvID := fx.addDocument(fx.userID, models.DocTypeCandidateCV)
	projectID := fx.addDocument(fx.userID, models.DocTypeCandidateProject)

	resp := postJSON(t, fx.app, "/evaluate", models.EvaluateRequest{
		CVDocumentID:      cvID.String(),
		ProjectDocumentID: projectID.String(),
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestEvaluateHandler_RejectsMalformedDocumentID(t *testing.T) {
	fx := newEvaluateFixture()

	resp := postJSON(t, fx.app, "/evaluate", models.EvaluateRequest{
		JobTitle:          "Backend Engineer",
		CVDocumentID:      "not-a-uuid",
		ProjectDocumentID: uuid.NewString(),
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestEvaluateHandler_RejectsUnknownJob(t *testing.T) {
	fx := newEvaluateFixture()
	cvID := fx.addDocument(fx.userID, models.DocTypeCandidateCV)
	projectID := fx.addDocument(fx.userID, models.DocTypeCandidateProject)

	jobID := uint(42)
	resp := postJSON(t, fx.app, "/evaluate", models.EvaluateRequest{
		JobTitle:          "Backend Engineer",
		JobID:             &jobID,
		CVDocumentID:      cvID.String(),
		ProjectDocumentID: projectID.String(),
	})
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Empty(t, fx.evalRepo.jobs)
}
