package batch

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"enrich-engine/internal/domain"
	"enrich-engine/internal/events"
	"enrich-engine/internal/ingest"
	"enrich-engine/internal/scrape/types"
	"enrich-engine/internal/store"

	"github.com/google/uuid"
)

const (
	StateRunning  = "running"
	StateDone     = "done"
	StateFailed   = "failed"
	StateCanceled = "canceled"
)

var (
	ErrBatchNotFound = store.ErrBatchNotFound
	ErrBatchRunning  = errors.New("batch is still running")
)

// Store keeps finished outputs. *store.DB satisfies it.
type Store interface {
	SaveBatch(ctx context.Context, b store.Batch) error
	GetBatch(ctx context.Context, id string) (store.Batch, error)
	DeleteBatch(ctx context.Context, id string) error
}

type Publisher interface {
	Publish(evt string)
}

// Request describes one uploaded table to enrich.
type Request struct {
	Filename      string
	Table         *ingest.Table
	Column        int
	CompanyColumn string
	Limit         int
	RequestID     string
}

type job struct {
	mu     sync.Mutex    // serializes progress updates from workers
	status *atomic.Value // types.BatchStatus
	cancel context.CancelFunc
	done   chan struct{}
}

// Manager runs batches in the background and tracks their status.
type Manager struct {
	runner *Runner
	store  Store
	pub    Publisher
	log    types.Logger

	mu   sync.Mutex
	jobs map[string]*job
}

func NewManager(runner *Runner, st Store, pub Publisher, logger types.Logger) *Manager {
	return &Manager{
		runner: runner,
		store:  st,
		pub:    pub,
		log:    types.OrDefault(logger),
		jobs:   make(map[string]*job),
	}
}

// SetRunner swaps the runner used by batches started from now on, e.g.
// after a config reload. Running batches keep theirs.
func (m *Manager) SetRunner(r *Runner) {
	m.mu.Lock()
	m.runner = r
	m.mu.Unlock()
}

// Start validates the request and launches the batch. The batch outlives
// the request that started it; parent only carries values.
func (m *Manager) Start(parent context.Context, req Request) (types.BatchStatus, error) {
	if req.Table == nil {
		return types.BatchStatus{}, errors.New("start batch: nil table")
	}
	inputs := req.Table.Companies(req.Column, req.Limit)

	id := uuid.NewString()
	ctx, cancel := context.WithCancel(context.WithoutCancel(parent))

	st := types.BatchStatus{
		ID:            id,
		Filename:      req.Filename,
		CompanyColumn: req.CompanyColumn,
		State:         StateRunning,
		Total:         len(inputs),
		StartedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	j := &job{status: &atomic.Value{}, cancel: cancel, done: make(chan struct{})}
	j.status.Store(st)

	m.mu.Lock()
	m.jobs[id] = j
	runner := m.runner
	m.mu.Unlock()

	m.publish(req.RequestID, events.TypeBatchStarted, st)
	m.log.Printf("[batch] start id=%s file=%q column=%q companies=%d", id, req.Filename, req.CompanyColumn, len(inputs))

	go m.run(ctx, runner, j, req, inputs)
	return st, nil
}

func (m *Manager) run(ctx context.Context, runner *Runner, j *job, req Request, inputs []domain.CompanyInput) {
	defer close(j.done)
	defer j.cancel()

	results, runErr := runner.Run(ctx, inputs, func(p Progress) {
		j.mu.Lock()
		st := j.status.Load().(types.BatchStatus)
		if p.Done > st.Processed {
			st.Processed = p.Done
		}
		if p.Result.Found() {
			st.EmailsFound++
		}
		j.status.Store(st)
		j.mu.Unlock()
		m.publish(req.RequestID, events.TypeBatchProgress, p)
	})

	st := j.status.Load().(types.BatchStatus)
	sum := ingest.Summarize(results)
	st.Processed = sum.TotalCompanies
	st.EmailsFound = sum.EmailsFound
	st.SuccessRate = sum.SuccessRate
	st.FinishedAt = time.Now().UTC().Format(time.RFC3339)

	err := runErr
	if err == nil {
		err = m.save(st, req, inputs, results)
	}

	switch {
	case errors.Is(runErr, context.Canceled):
		st.State = StateCanceled
		st.LastError = runErr.Error()
	case err != nil:
		st.State = StateFailed
		st.LastError = err.Error()
	default:
		st.State = StateDone
	}
	j.status.Store(st)

	m.log.Printf("[batch] %s id=%s found=%d/%d rate=%.1f", st.State, st.ID, st.EmailsFound, st.Processed, st.SuccessRate)
	m.publish(req.RequestID, events.TypeBatchDone, st)
}

func (m *Manager) save(st types.BatchStatus, req Request, inputs []domain.CompanyInput, results []domain.EnrichmentResult) error {
	out, err := ingest.EncodeCSV(req.Table, inputs, results)
	if err != nil {
		return err
	}
	if m.store == nil {
		return errors.New("no batch store configured")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return m.store.SaveBatch(ctx, store.Batch{
		ID:            st.ID,
		Filename:      st.Filename,
		CompanyColumn: st.CompanyColumn,
		Total:         st.Processed,
		EmailsFound:   st.EmailsFound,
		CSV:           out,
	})
}

// Status reports a batch started by this process, or a stored batch from
// an earlier run.
func (m *Manager) Status(ctx context.Context, id string) (types.BatchStatus, error) {
	if j := m.get(id); j != nil {
		return j.status.Load().(types.BatchStatus), nil
	}
	if m.store == nil {
		return types.BatchStatus{}, ErrBatchNotFound
	}
	b, err := m.store.GetBatch(ctx, id)
	if err != nil {
		return types.BatchStatus{}, err
	}
	return types.BatchStatus{
		ID:            b.ID,
		Filename:      b.Filename,
		CompanyColumn: b.CompanyColumn,
		State:         StateDone,
		Total:         b.Total,
		Processed:     b.Total,
		EmailsFound:   b.EmailsFound,
		SuccessRate:   ingest.SuccessRate(b.EmailsFound, b.Total),
		StartedAt:     b.CreatedAt,
		FinishedAt:    b.CreatedAt,
	}, nil
}

// Wait blocks until batch id finishes or ctx ends.
func (m *Manager) Wait(ctx context.Context, id string) (types.BatchStatus, error) {
	j := m.get(id)
	if j == nil {
		return types.BatchStatus{}, ErrBatchNotFound
	}
	select {
	case <-ctx.Done():
		return j.status.Load().(types.BatchStatus), ctx.Err()
	case <-j.done:
		return j.status.Load().(types.BatchStatus), nil
	}
}

// Cancel stops a running batch. Finished batches are left alone.
func (m *Manager) Cancel(id string) error {
	j := m.get(id)
	if j == nil {
		return ErrBatchNotFound
	}
	j.cancel()
	return nil
}

// Delete cancels batch id if it is still running and drops its stored
// output.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	j, known := m.jobs[id]
	delete(m.jobs, id)
	m.mu.Unlock()

	if known {
		j.cancel()
		<-j.done
	}
	if m.store == nil {
		if known {
			return nil
		}
		return ErrBatchNotFound
	}
	err := m.store.DeleteBatch(ctx, id)
	if known && errors.Is(err, ErrBatchNotFound) {
		// canceled batches are never stored
		return nil
	}
	return err
}

// Download returns the CSV output of a finished batch.
func (m *Manager) Download(ctx context.Context, id string) (store.Batch, error) {
	if j := m.get(id); j != nil {
		if st := j.status.Load().(types.BatchStatus); st.State == StateRunning {
			return store.Batch{}, fmt.Errorf("download %s: %w", id, ErrBatchRunning)
		}
	}
	if m.store == nil {
		return store.Batch{}, ErrBatchNotFound
	}
	return m.store.GetBatch(ctx, id)
}

// Forget drops finished in-memory entries older than maxAge.
func (m *Manager) Forget(maxAge time.Duration) int {
	limit := time.Now().UTC().Add(-maxAge)
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, j := range m.jobs {
		st := j.status.Load().(types.BatchStatus)
		if st.State == StateRunning || st.FinishedAt == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, st.FinishedAt)
		if err == nil && t.Before(limit) {
			delete(m.jobs, id)
			n++
		}
	}
	return n
}

// Active lists batches known to this process, newest first.
func (m *Manager) Active() []types.BatchStatus {
	m.mu.Lock()
	out := make([]types.BatchStatus, 0, len(m.jobs))
	for _, j := range m.jobs {
		out = append(out, j.status.Load().(types.BatchStatus))
	}
	m.mu.Unlock()

	sort.Slice(out, func(a, b int) bool {
		if out[a].StartedAt != out[b].StartedAt {
			return out[a].StartedAt > out[b].StartedAt
		}
		return out[a].ID < out[b].ID
	})
	return out
}

func (m *Manager) get(id string) *job {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.jobs[id]
}

func (m *Manager) publish(reqID, typ string, data any) {
	if m.pub == nil {
		return
	}
	m.pub.Publish(events.MakeEvent(reqID, typ, 1, data))
}
