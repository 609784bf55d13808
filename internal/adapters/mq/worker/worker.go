// Package worker runs the refresh pipeline: it pulls refresh requests off the
// queue, fetches the sheet, rebuilds the aggregate and publishes it.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/beerlog/beerboard/internal/adapters/mq/queue"
	"github.com/beerlog/beerboard/internal/adapters/repository"
	"github.com/beerlog/beerboard/internal/adapters/sheets"
	"github.com/beerlog/beerboard/internal/domain/aggregate"
	"github.com/beerlog/beerboard/internal/domain/entry"
	"github.com/beerlog/beerboard/pkg/logger"
	"github.com/beerlog/beerboard/pkg/metrics"
)

// Request is what the refresher reads off the queue.
type Request = queue.Request

// Source yields the raw sheet, header row first.
type Source interface {
	Fetch(ctx context.Context) ([][]string, error)
	Name() string
}

// Queue defines how the refresher receives requests.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Request
}

// Worker processes refresh requests.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown stops the worker after the refresh in flight, if any.
	Shutdown(ctx context.Context) error
}

// Result describes the outcome of one refresh.
type Result struct {
	RequestID string
	Reason    string
	Outcome   string
	Rows      int
	Entries   int
	Duration  time.Duration
	At        time.Time
	Err       error
}

// Refresher is the single writer of the snapshot store.
type Refresher struct {
	queue  Queue
	source Source
	store  repository.Store
	name   string

	dir       entry.Directory
	startDate string
	now       func() time.Time

	mu   sync.RWMutex
	last Result

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewRefresher creates a refresher reading from q and publishing into store.
func NewRefresher(q Queue, source Source, store repository.Store, opts ...Option) *Refresher {
	r := &Refresher{
		queue:     q,
		source:    source,
		store:     store,
		name:      "refresher",
		startDate: aggregate.DefaultStartDate,
		now:       time.Now,
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.name != "refresher" {
		r.logger = r.logger.Named(r.name)
	}
	return r
}

// Run starts the worker loop.
func (r *Refresher) Run(ctx context.Context) {
	defer close(r.done)

	requests := r.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.shutdown:
			return
		case req, ok := <-requests:
			if !ok {
				return
			}
			if err := r.Refresh(ctx, req); err != nil {
				r.logger.Error(ctx, "refresh failed",
					logger.String("request_id", req.ID),
					logger.String("reason", req.Reason),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown stops the worker loop.
func (r *Refresher) Shutdown(ctx context.Context) error {
	r.shutdownOnce.Do(func() { close(r.shutdown) })

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		r.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Refresh runs one fetch, aggregate and publish cycle. A failed fetch keeps
// the previous snapshot; rows identical to the published ones are not
// aggregated again.
func (r *Refresher) Refresh(ctx context.Context, req Request) error {
	start := r.now()
	res := Result{RequestID: req.ID, Reason: req.Reason, At: start}
	defer func() {
		res.Duration = r.now().Sub(start)
		metrics.RecordRefresh(req.Reason, res.Outcome)
		metrics.RecordRefreshLatency(float64(res.Duration.Milliseconds()))
		r.mu.Lock()
		r.last = res
		r.mu.Unlock()
	}()

	rows, err := r.source.Fetch(ctx)
	if err != nil {
		res.Outcome = fetchOutcome(ctx, err)
		res.Err = err
		return fmt.Errorf("fetch from %s: %w", r.source.Name(), err)
	}
	res.Rows = len(rows)

	hash := Fingerprint(rows)
	if cur, err := r.store.Current(ctx); err == nil && cur.Hash == hash {
		res.Outcome = metrics.OutcomeUnchanged
		res.Entries = len(cur.Data.Entries)
		r.logger.Debug(ctx, "sheet unchanged",
			logger.String("request_id", req.ID),
			logger.Int("rows", len(rows)),
		)
		return nil
	}

	aggStart := time.Now()
	data := aggregate.Build(rows,
		aggregate.WithDirectory(r.dir),
		aggregate.WithStartDate(r.startDate),
	)
	metrics.RecordAggregateLatency(float64(time.Since(aggStart).Milliseconds()))
	if err := aggregate.Check(data); err != nil {
		r.logger.Warn(ctx, "aggregate failed consistency check", logger.Error(err))
	}
	res.Entries = len(data.Entries)

	snap := &repository.Snapshot{
		ID:        req.ID,
		FetchedAt: start,
		Rows:      len(rows),
		Hash:      hash,
		Data:      data,
	}
	if err := r.store.Replace(ctx, snap); err != nil {
		res.Outcome = metrics.OutcomeCancelled
		res.Err = err
		return fmt.Errorf("publish snapshot: %w", err)
	}

	res.Outcome = metrics.OutcomeSuccess
	r.logger.Info(ctx, "snapshot published",
		logger.String("request_id", req.ID),
		logger.String("reason", req.Reason),
		logger.Int("rows", len(rows)),
		logger.Int("entries", len(data.Entries)),
		logger.Int("members", len(data.Players)),
	)
	return nil
}

// Last returns the result of the most recent refresh.
func (r *Refresher) Last() Result {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}

// Fingerprint hashes the table cell by cell. Cell and row separators keep
// ["ab"] and ["a","b"] apart.
func Fingerprint(rows [][]string) uint64 {
	h := xxhash.New()
	for _, row := range rows {
		for _, cell := range row {
			_, _ = h.WriteString(cell)
			_, _ = h.WriteString("\x1f")
		}
		_, _ = h.WriteString("\x1e")
	}
	return h.Sum64()
}

func fetchOutcome(ctx context.Context, err error) string {
	switch {
	case ctx.Err() != nil || errors.Is(err, context.Canceled):
		return metrics.OutcomeCancelled
	case errors.Is(err, sheets.ErrUnavailable):
		return metrics.OutcomeUnavailable
	default:
		return metrics.OutcomeFetchError
	}
}
