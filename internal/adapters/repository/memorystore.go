package repository

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/beerlog/beerboard/pkg/metrics"
)

const defaultMetricsUpdateInterval = 5 * time.Second

// MemoryStore keeps the current snapshot behind an atomic pointer. Readers
// never block and always see a complete snapshot; Replace swaps it wholesale.
type MemoryStore struct {
	current               atomic.Pointer[Snapshot]
	metricsUpdateInterval time.Duration
	now                   func() time.Time

	wg       sync.WaitGroup
	stopOnce sync.Once
	stopChan chan struct{}
}

// NewMemoryStore constructs an empty store and starts its metrics updater,
// which runs until ctx is done or Close is called.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		metricsUpdateInterval: defaultMetricsUpdateInterval,
		now:                   time.Now,
		stopChan:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.startMetricsUpdater(ctx)
	return s
}

// Replace implements Store.Replace.
func (s *MemoryStore) Replace(ctx context.Context, snap *Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if snap == nil || snap.Data == nil {
		return fmt.Errorf("%w: missing data", ErrInvalidSnapshot)
	}
	s.current.Store(snap)

	d := snap.Data
	metrics.RecordSnapshot(snap.Rows, len(d.Entries), len(d.PlayersStats), d.TotalBeers, snap.FetchedAt.Unix())
	metrics.UpdateSnapshotAge(0)
	return nil
}

// Current implements Store.Current.
func (s *MemoryStore) Current(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	return snap, nil
}

// Age implements Store.Age.
func (s *MemoryStore) Age(ctx context.Context) (time.Duration, error) {
	snap, err := s.Current(ctx)
	if err != nil {
		return 0, err
	}
	return s.now().Sub(snap.FetchedAt), nil
}

// Close stops the metrics updater.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

func (s *MemoryStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.updateMetrics()
			}
		}
	}()
}

func (s *MemoryStore) updateMetrics() {
	snap := s.current.Load()
	if snap == nil {
		return
	}
	metrics.UpdateSnapshotAge(s.now().Sub(snap.FetchedAt).Seconds())
}
