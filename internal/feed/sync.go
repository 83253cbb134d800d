package feed

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ywebstudio/newslist/internal/docstore"
	"github.com/ywebstudio/newslist/pkg/models"
)

// fetcher is the slice of the document store the syncer needs.
type fetcher interface {
	FetchCollection(ctx context.Context, name string) ([]docstore.Record, error)
}

// Syncer keeps the Cache in step with the remote news collection: one
// full load at startup, then a full re-fetch on a fixed period with
// new-item detection by id-set difference.
type Syncer struct {
	cache    *Cache
	store    fetcher
	interval time.Duration
	logger   *slog.Logger

	// notify is called with the fresh snapshot whenever the cache is
	// replaced by a poll. Invoked from the polling goroutine.
	notify func([]models.NewsItem)

	loading  atomic.Bool
	inFlight atomic.Bool
	wg       sync.WaitGroup
}

// NewSyncer creates a Syncer polling on the given interval. notify may
// be nil.
func NewSyncer(cache *Cache, store fetcher, interval time.Duration, logger *slog.Logger, notify func([]models.NewsItem)) *Syncer {
	return &Syncer{
		cache:    cache,
		store:    store,
		interval: interval,
		logger:   logger,
		notify:   notify,
	}
}

// Loading reports whether an initial load is in progress.
func (s *Syncer) Loading() bool {
	return s.loading.Load()
}

// LoadAll fetches the complete news collection and replaces the cache
// wholesale. On error the previous cache is left intact.
func (s *Syncer) LoadAll(ctx context.Context) ([]models.NewsItem, error) {
	s.loading.Store(true)
	defer s.loading.Store(false)

	items, err := s.fetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading news: %w", err)
	}

	s.cache.Replace(items)
	return s.cache.Snapshot(), nil
}

// Start launches the polling loop. The loop exits when ctx is
// cancelled; call Wait afterwards to block until it is done.
func (s *Syncer) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.poll(ctx)
			}
		}
	}()
}

// Wait blocks until the polling goroutine has exited.
func (s *Syncer) Wait() {
	s.wg.Wait()
}

// poll re-fetches the collection and replaces the cache only when the
// result contains at least one unseen id. A tick that fires while the
// previous poll is still in flight is skipped.
func (s *Syncer) poll(ctx context.Context) {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.logger.Debug("poll skipped, previous fetch still in flight")
		return
	}
	defer s.inFlight.Store(false)

	items, err := s.fetchAll(ctx)
	if err != nil {
		// Keep the previous snapshot; the next tick will retry.
		s.logger.Warn("news poll failed", "error", err)
		return
	}

	if !s.cache.HasNew(items) {
		return
	}

	s.cache.Replace(items)
	s.logger.Info("news updated", "items", s.cache.Len())

	if s.notify != nil {
		s.notify(s.cache.Snapshot())
	}
}

func (s *Syncer) fetchAll(ctx context.Context) ([]models.NewsItem, error) {
	records, err := s.store.FetchCollection(ctx, docstore.CollectionNews)
	if err != nil {
		return nil, err
	}

	items := make([]models.NewsItem, 0, len(records))
	for _, r := range records {
		items = append(items, docstore.ToNewsItem(r))
	}
	return items, nil
}
