package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"talentscreen/job-screening/internal/repositories"
)

// TaskHandler executes one attempt of a named task.
type TaskHandler func(ctx context.Context, unitID uuid.UUID, attempt int) error

// TaskQueue is the submission interface handed to the HTTP layer. Handlers
// enqueue; they never invoke the pipeline inline.
type TaskQueue interface {
	Enqueue(task string, unitID uuid.UUID)
}

// Worker owns the in-process task queue: handlers register by task name,
// submissions and retries flow through a buffered channel, and a poller
// re-enqueues queued rows as an at-least-once redelivery net.
type Worker interface {
	TaskQueue
	RetryScheduler
	Register(task string, handler TaskHandler)
	Start(ctx context.Context)
	Stop()
}

type queuedTask struct {
	Name    string
	UnitID  uuid.UUID
	Attempt int
}

type worker struct {
	evalRepo    repositories.EvaluationRepository
	handlers    map[string]TaskHandler
	jobQueue    chan queuedTask
	concurrency int
	retryDelay  time.Duration
	wg          sync.WaitGroup
	stopChan    chan struct{}
	stopOnce    sync.Once
}

func NewWorker(
	evalRepo repositories.EvaluationRepository,
	concurrency int,
	retryDelay time.Duration,
) Worker {
	return &worker{
		evalRepo:    evalRepo,
		handlers:    make(map[string]TaskHandler),
		jobQueue:    make(chan queuedTask, 100),
		concurrency: concurrency,
		retryDelay:  retryDelay,
		stopChan:    make(chan struct{}),
	}
}

// Register implements Worker. Handlers must be registered before Start; the
// map is not guarded for concurrent mutation.
func (w *worker) Register(task string, handler TaskHandler) {
	w.handlers[task] = handler
}

// Enqueue implements TaskQueue.
func (w *worker) Enqueue(task string, unitID uuid.UUID) {
	w.submit(queuedTask{Name: task, UnitID: unitID, Attempt: 1})
}

// ScheduleRetry implements RetryScheduler: the task re-enters the queue
// after the fixed backoff delay, carrying its attempt number.
func (w *worker) ScheduleRetry(task string, unitID uuid.UUID, attempt int) {
	log.Printf("⏳ Scheduling retry for job %s (attempt %d) in %s\n", unitID, attempt, w.retryDelay)
	timer := time.AfterFunc(w.retryDelay, func() {
		w.submit(queuedTask{Name: task, UnitID: unitID, Attempt: attempt})
	})

	go func() {
		<-w.stopChan
		timer.Stop()
	}()
}

func (w *worker) submit(task queuedTask) {
	select {
	case w.jobQueue <- task:
		log.Printf("📥 Task %s enqueued for job %s (attempt %d)\n", task.Name, task.UnitID, task.Attempt)
	case <-w.stopChan:
		log.Printf("⚠️  Worker stopped, cannot enqueue job %s\n", task.UnitID)
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processTasks(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPendingJobs(ctx)
}

// Stop implements Worker.
func (w *worker) Stop() {
	log.Println("🛑 Stopping worker...")
	w.stopOnce.Do(func() {
		close(w.stopChan)
	})
	w.wg.Wait()
	log.Println("✅ Worker stopped")
}

func (w *worker) processTasks(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case task := <-w.jobQueue:
			handler, ok := w.handlers[task.Name]
			if !ok {
				log.Printf("⚠️  Worker #%d: no handler registered for task %q\n", workerID, task.Name)
				continue
			}

			log.Printf("👷 Worker #%d processing job %s (attempt %d)\n", workerID, task.UnitID, task.Attempt)
			if err := handler(ctx, task.UnitID, task.Attempt); err != nil {
				log.Printf("❌ Worker #%d failed to process job %s: %v\n", workerID, task.UnitID, err)
			}
		}
	}
}

// pollPendingJobs re-enqueues rows still in queued, covering submissions
// that raced a restart or a full queue. MarkProcessing's no-op guard bounds
// the duplicate deliveries this produces.
func (w *worker) pollPendingJobs(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ticker.C:
			pendingJobs, err := w.evalRepo.FindPendingJobs(10)
			if err != nil {
				log.Printf("⚠️  Failed to fetch pending jobs: %v\n", err)
				continue
			}

			for _, job := range pendingJobs {
				w.Enqueue(TaskRunEvaluation, job.ID)
			}
		}
	}
}
