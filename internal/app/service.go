// Package service wires the refresh pipeline and the snapshot store into the
// dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/beerlog/beerboard/internal/adapters/mq/queue"
	"github.com/beerlog/beerboard/internal/adapters/mq/worker"
	"github.com/beerlog/beerboard/internal/adapters/repository"
	"github.com/beerlog/beerboard/internal/domain/aggregate"
	"github.com/beerlog/beerboard/internal/domain/analytics"
	"github.com/beerlog/beerboard/internal/domain/entry"
	"github.com/beerlog/beerboard/internal/domain/model"
	"github.com/beerlog/beerboard/pkg/logger"
	"github.com/beerlog/beerboard/pkg/metrics"
)

const (
	defaultQueueSize       = 8
	defaultRefreshInterval = 5 * time.Minute
	shutdownTimeout        = 5 * time.Second
)

// Service owns the snapshot lifecycle: it schedules refreshes and hands the
// published aggregate to readers.
type Service struct {
	mu sync.RWMutex

	// Core components
	source    worker.Source
	store     *repository.MemoryStore
	queue     *queue.InMemoryQueue
	refresher *worker.Refresher

	// Configuration
	queueSize       int
	refreshInterval time.Duration
	seasonDays      int
	startDate       string
	dir             entry.Directory
	now             func() time.Time

	// State
	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		queueSize:       defaultQueueSize,
		refreshInterval: defaultRefreshInterval,
		seasonDays:      analytics.DefaultSeasonDays,
		startDate:       aggregate.DefaultStartDate,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the store, queue and refresher, queues the startup refresh
// and starts the refresh ticker.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.source == nil {
		return ErrNoSource
	}

	s.logger.Info(ctx, "starting dashboard service...")

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.store = repository.NewMemoryStore(runCtx, repository.WithClock(s.now))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.refresher = worker.NewRefresher(s.queue, s.source, s.store,
		worker.WithDirectory(s.dir),
		worker.WithStartDate(s.startDate),
		worker.WithClock(s.now),
	)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.refresher.Run(runCtx)
	}()

	s.enqueue(runCtx, model.RefreshStartup)

	if s.refreshInterval > 0 {
		s.wg.Add(1)
		go s.tick(runCtx)
	}

	s.started = true
	s.logger.Info(ctx, "dashboard service started",
		logger.String("source", s.source.Name()),
		logger.Int("queueSize", s.queueSize),
		logger.Duration("refreshInterval", s.refreshInterval),
		logger.Int("seasonDays", s.seasonDays),
	)
	return nil
}

func (s *Service) tick(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, ok := s.enqueue(ctx, model.RefreshInterval); !ok {
				s.logger.Debug(ctx, "interval refresh skipped, one is already pending")
			}
		}
	}
}

func (s *Service) enqueue(ctx context.Context, reason string) (string, bool) {
	req := model.RefreshRequest{ID: uuid.NewString(), Reason: reason, RequestedAt: s.now()}
	return req.ID, s.queue.Enqueue(ctx, req)
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping dashboard service...")

	s.cancel()
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := s.refresher.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn(ctx, "refresher shutdown", logger.Error(err))
	}
	s.wg.Wait()

	_ = s.queue.Close()
	_ = s.store.Close()

	s.started = false
	s.logger.Info(ctx, "dashboard service stopped")
}

// Revalidate queues a manual refresh and returns its request id. A refresh
// that is already pending makes the call fail with ErrBackpressure.
func (s *Service) Revalidate(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return "", ErrNotStarted
	}
	id, ok := s.enqueue(ctx, model.RefreshManual)
	if !ok {
		return "", ErrBackpressure
	}
	s.logger.Info(ctx, "manual refresh queued", logger.String("request_id", id))
	return id, nil
}

// Current returns the published snapshot.
func (s *Service) Current(ctx context.Context) (*repository.Snapshot, error) {
	s.mu.RLock()
	store := s.store
	s.mu.RUnlock()

	if store == nil {
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, ErrNotStarted)
	}
	snap, err := store.Current(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNoSnapshot) {
			return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
		}
		return nil, err
	}
	return snap, nil
}

// Snapshot returns the published aggregate.
func (s *Service) Snapshot(ctx context.Context) (*model.DashboardData, error) {
	snap, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Data, nil
}

// SeasonDays returns the season length used for per-day averages.
func (s *Service) SeasonDays() int { return s.seasonDays }

// Now returns the service clock.
func (s *Service) Now() time.Time { return s.now() }

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":                s.started,
		"queueSize":              s.queueSize,
		"refreshIntervalSeconds": int(s.refreshInterval.Seconds()),
		"seasonDays":             s.seasonDays,
		"startDate":              s.startDate,
	}
	if s.source != nil {
		stats["source"] = s.source.Name()
		if b, ok := s.source.(interface{ State() string }); ok {
			stats["breakerState"] = b.State()
		}
	}
	if !s.started {
		return stats
	}

	queueLen := s.queue.Len(ctx)
	stats["queueLength"] = queueLen
	metrics.UpdateQueueSize(queueLen)

	if snap, err := s.store.Current(ctx); err == nil {
		age := s.now().Sub(snap.FetchedAt)
		stats["snapshotId"] = snap.ID
		stats["snapshotFetchedAt"] = snap.FetchedAt.UTC().Format(time.RFC3339)
		stats["snapshotAgeSeconds"] = int(age.Seconds())
		stats["rows"] = snap.Rows
		stats["entries"] = len(snap.Data.Entries)
		stats["members"] = len(snap.Data.Players)
		metrics.UpdateSnapshotAge(age.Seconds())
	}

	if last := s.refresher.Last(); last.RequestID != "" {
		refresh := map[string]interface{}{
			"id":         last.RequestID,
			"reason":     last.Reason,
			"outcome":    last.Outcome,
			"at":         last.At.UTC().Format(time.RFC3339),
			"durationMs": last.Duration.Milliseconds(),
		}
		if last.Err != nil {
			refresh["error"] = last.Err.Error()
		}
		stats["lastRefresh"] = refresh
	}
	return stats
}
