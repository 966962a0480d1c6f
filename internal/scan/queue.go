package scan

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/larderhq/larder-api/internal/domain"
)

// Queue is the in-memory scan job queue. Enqueue never blocks; a single
// consumer goroutine drains pending ids in strict FIFO order and drives the
// pipeline one job at a time. Job records are retained for the process
// lifetime.
type Queue struct {
	pipeline *Pipeline
	logger   *slog.Logger

	mu      sync.Mutex
	cond    *sync.Cond
	jobs    map[int64]*domain.Job
	pending []int64
	nextID  int64
	closed  bool

	done chan struct{}
}

// NewQueue creates a stopped queue; call Start to begin consuming.
func NewQueue(pipeline *Pipeline, logger *slog.Logger) *Queue {
	q := &Queue{
		pipeline: pipeline,
		logger:   logger.With(slog.String("component", "scan_queue")),
		jobs:     make(map[int64]*domain.Job),
		done:     make(chan struct{}),
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Start launches the sequential consumer goroutine.
func (q *Queue) Start(ctx context.Context) {
	go q.run(ctx)
}

// Enqueue validates the request, records a pending job and wakes the
// consumer. It never blocks on pipeline work; the returned id is strictly
// increasing across the process lifetime.
func (q *Queue) Enqueue(op domain.ScanOp, barcode string) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return 0, fmt.Errorf("scan queue is shut down")
	}

	job, err := domain.NewScanJob(q.nextID+1, op, barcode)
	if err != nil {
		return 0, err
	}
	q.nextID++

	q.jobs[job.ID] = job
	q.pending = append(q.pending, job.ID)
	q.cond.Signal()

	q.logger.Info("scan job enqueued",
		slog.Int64("job_id", job.ID),
		slog.String("op", string(op)),
		slog.String("barcode", barcode))
	return job.ID, nil
}

// Get returns a snapshot of a job, or nil when the id is unknown.
func (q *Queue) Get(id int64) *domain.Job {
	q.mu.Lock()
	defer q.mu.Unlock()

	job, ok := q.jobs[id]
	if !ok {
		return nil
	}
	snapshot := job.Snapshot()
	return &snapshot
}

// Stop prevents further enqueues and waits for the consumer to drain what
// is already pending, or for ctx to expire.
func (q *Queue) Stop(ctx context.Context) error {
	q.mu.Lock()
	q.closed = true
	q.cond.Signal()
	q.mu.Unlock()

	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scan queue did not drain before shutdown deadline: %w", ctx.Err())
	}
}

// run is the sequential consumer. At most one job is running at any
// instant; the pipeline's error never escapes past the job record.
func (q *Queue) run(ctx context.Context) {
	defer close(q.done)

	for {
		q.mu.Lock()
		for len(q.pending) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.pending) == 0 && q.closed {
			q.mu.Unlock()
			return
		}

		id := q.pending[0]
		q.pending = q.pending[1:]
		job := q.jobs[id]
		job.Status = domain.JobStatusRunning
		q.mu.Unlock()

		q.logger.Info("scan job started", slog.Int64("job_id", id))
		outcome, err := q.execute(ctx, job)

		q.mu.Lock()
		if err != nil {
			job.Status = domain.JobStatusError
			job.Error = err.Error()
			q.mu.Unlock()
			q.logger.Error("scan job failed",
				slog.Int64("job_id", id),
				slog.Any("error", err))
			continue
		}
		job.Status = domain.JobStatusDone
		job.Result = outcome
		q.mu.Unlock()
		q.logger.Info("scan job completed", slog.Int64("job_id", id))
	}
}

// execute runs the pipeline for one job, converting panics into the job's
// error result so the consumer loop survives.
func (q *Queue) execute(ctx context.Context, job *domain.Job) (outcome *domain.ScanOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			outcome = nil
			err = fmt.Errorf("scan pipeline panicked: %v", r)
		}
	}()

	logf := func(line string) {
		q.mu.Lock()
		job.AppendLog(line)
		q.mu.Unlock()
	}
	return q.pipeline.Execute(ctx, job.Op, job.Barcode, logf)
}
