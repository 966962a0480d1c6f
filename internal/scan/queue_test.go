package scan

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/larderhq/larder-api/internal/domain"
	"github.com/larderhq/larder-api/internal/grocy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// orderedCatalog records the order barcodes arrive in.
type orderedCatalog struct {
	*fakeCatalog
	mu     sync.Mutex
	order  []string
	panics map[string]bool
}

func (o *orderedCatalog) GetProductByBarcode(ctx context.Context, barcode string) (*grocy.BarcodeProduct, error) {
	o.mu.Lock()
	o.order = append(o.order, barcode)
	shouldPanic := o.panics[barcode]
	o.mu.Unlock()
	if shouldPanic {
		panic("backend exploded")
	}
	return o.fakeCatalog.GetProductByBarcode(ctx, barcode)
}

func newTestQueue(catalog Catalog) *Queue {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	pipeline := NewPipeline(catalog, &fakeNutrition{}, &fakeLLM{}, logger)
	return NewQueue(pipeline, logger)
}

func waitForStatus(t *testing.T, q *Queue, id int64, status domain.JobStatus) *domain.Job {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if job := q.Get(id); job != nil && job.Status == status {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %d never reached status %s", id, status)
	return nil
}

func TestQueue_IDsAreStrictlyIncreasing(t *testing.T) {
	q := newTestQueue(newFakeCatalog())

	var last int64
	for i := 0; i < 10; i++ {
		id, err := q.Enqueue(domain.ScanOpAdd, "012345")
		require.NoError(t, err)
		assert.Greater(t, id, last)
		last = id
	}
}

func TestQueue_RejectsInvalidSubmissions(t *testing.T) {
	q := newTestQueue(newFakeCatalog())

	_, err := q.Enqueue(domain.ScanOpAdd, "")
	assert.ErrorIs(t, err, domain.ErrEmptyBarcode)

	_, err = q.Enqueue(domain.ScanOp("eat"), "012345")
	assert.ErrorIs(t, err, domain.ErrInvalidScanOp)
}

func TestQueue_ProcessesInSubmissionOrder(t *testing.T) {
	catalog := &orderedCatalog{fakeCatalog: newFakeCatalog()}
	for _, barcode := range []string{"111", "222", "333"} {
		catalog.productsByBarcode[barcode] = &grocy.BarcodeProduct{
			Product: grocy.Product{ID: 1, Name: "P"},
		}
	}

	q := newTestQueue(catalog)

	var ids []int64
	for _, barcode := range []string{"111", "222", "333"} {
		id, err := q.Enqueue(domain.ScanOpAdd, barcode)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	q.Start(context.Background())

	for _, id := range ids {
		waitForStatus(t, q, id, domain.JobStatusDone)
	}
	assert.Equal(t, []string{"111", "222", "333"}, catalog.order)
}

func TestQueue_ErrorStaysOnTheJob(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.productsByBarcode["ok"] = &grocy.BarcodeProduct{
		Product: grocy.Product{ID: 1, Name: "P"},
	}

	q := newTestQueue(catalog)
	q.Start(context.Background())

	failing, err := q.Enqueue(domain.ScanOpRemove, "unknown")
	require.NoError(t, err)
	following, err := q.Enqueue(domain.ScanOpAdd, "ok")
	require.NoError(t, err)

	failed := waitForStatus(t, q, failing, domain.JobStatusError)
	assert.Contains(t, failed.Error, "no product exists for this barcode")
	assert.Nil(t, failed.Result)

	// The consumer outlives the failure and completes the next job.
	done := waitForStatus(t, q, following, domain.JobStatusDone)
	require.NotNil(t, done.Result)
	assert.Equal(t, 1.0, done.Result.AddedAmount)
}

func TestQueue_PanicBecomesJobError(t *testing.T) {
	catalog := &orderedCatalog{
		fakeCatalog: newFakeCatalog(),
		panics:      map[string]bool{"boom": true},
	}
	catalog.productsByBarcode["ok"] = &grocy.BarcodeProduct{
		Product: grocy.Product{ID: 1, Name: "P"},
	}

	q := newTestQueue(catalog)
	q.Start(context.Background())

	panicking, err := q.Enqueue(domain.ScanOpAdd, "boom")
	require.NoError(t, err)
	following, err := q.Enqueue(domain.ScanOpAdd, "ok")
	require.NoError(t, err)

	failed := waitForStatus(t, q, panicking, domain.JobStatusError)
	assert.Contains(t, failed.Error, "panicked")
	waitForStatus(t, q, following, domain.JobStatusDone)
}

func TestQueue_GetUnknownJob(t *testing.T) {
	q := newTestQueue(newFakeCatalog())
	assert.Nil(t, q.Get(99))
}

func TestQueue_JobRecordCarriesLogs(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.productsByBarcode["012345"] = &grocy.BarcodeProduct{
		Product: grocy.Product{ID: 33, Name: "Acme Oats"},
	}

	q := newTestQueue(catalog)
	q.Start(context.Background())

	id, err := q.Enqueue(domain.ScanOpAdd, "012345")
	require.NoError(t, err)

	job := waitForStatus(t, q, id, domain.JobStatusDone)
	assert.NotEmpty(t, job.Logs)
	assert.Contains(t, job.Logs[0], "012345")
}

func TestQueue_StopDrainsPending(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.productsByBarcode["012345"] = &grocy.BarcodeProduct{
		Product: grocy.Product{ID: 33, Name: "Acme Oats"},
	}

	q := newTestQueue(catalog)
	id, err := q.Enqueue(domain.ScanOpAdd, "012345")
	require.NoError(t, err)
	q.Start(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, q.Stop(ctx))

	job := q.Get(id)
	require.NotNil(t, job)
	assert.Equal(t, domain.JobStatusDone, job.Status)

	_, err = q.Enqueue(domain.ScanOpAdd, "012345")
	assert.Error(t, err)
}
