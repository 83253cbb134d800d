package feed

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/ywebstudio/newslist/internal/docstore"
	"github.com/ywebstudio/newslist/pkg/models"
)

type fakeStore struct {
	mu      sync.Mutex
	records []docstore.Record
	err     error
	fetches int
}

func (f *fakeStore) FetchCollection(_ context.Context, name string) ([]docstore.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func (f *fakeStore) set(records []docstore.Record, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = records
	f.err = err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newsRecord(id string, secs int64) docstore.Record {
	return docstore.Record{"_id": id, "title": "t " + id, "createdAt": secs}
}

func TestLoadAllSortsAndReplaces(t *testing.T) {
	store := &fakeStore{records: []docstore.Record{
		newsRecord("a", 100),
		newsRecord("b", 300),
		newsRecord("c", 200),
	}}
	cache := NewCache()
	s := NewSyncer(cache, store, time.Minute, discardLogger(), nil)

	snap, err := s.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(snap) != 3 || snap[0].ID != "b" || snap[2].ID != "a" {
		t.Fatalf("unexpected snapshot: %v", ids(snap))
	}
	if s.Loading() {
		t.Error("loading flag still set after LoadAll returned")
	}
}

func TestLoadAllErrorKeepsPreviousCache(t *testing.T) {
	store := &fakeStore{records: []docstore.Record{newsRecord("a", 1)}}
	cache := NewCache()
	s := NewSyncer(cache, store, time.Minute, discardLogger(), nil)

	if _, err := s.LoadAll(context.Background()); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	store.set(nil, errors.New("network down"))
	if _, err := s.LoadAll(context.Background()); err == nil {
		t.Fatal("expected error from failing store")
	}
	if cache.Len() != 1 {
		t.Fatalf("failed load should keep the old cache, len = %d", cache.Len())
	}
}

func TestPollReplacesOnlyOnNewIDs(t *testing.T) {
	store := &fakeStore{records: []docstore.Record{
		newsRecord("a", 1),
		newsRecord("b", 2),
		newsRecord("c", 3),
	}}
	cache := NewCache()

	var notified [][]models.NewsItem
	s := NewSyncer(cache, store, time.Minute, discardLogger(), func(snap []models.NewsItem) {
		notified = append(notified, snap)
	})

	if _, err := s.LoadAll(context.Background()); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	// Same ids, reordered and edited: cache untouched, no notification.
	store.set([]docstore.Record{
		newsRecord("c", 9),
		newsRecord("b", 2),
		newsRecord("a", 1),
	}, nil)
	s.poll(context.Background())
	if len(notified) != 0 {
		t.Fatal("poll without new ids should not notify")
	}
	if cache.Snapshot()[0].ID != "c" || !cache.Snapshot()[0].CreatedAt.Equal(at(3)) {
		t.Fatal("poll without new ids should leave the cache untouched")
	}

	// One new id: cache replaced, notification delivered.
	store.set([]docstore.Record{
		newsRecord("a", 1),
		newsRecord("b", 2),
		newsRecord("c", 3),
		newsRecord("d", 4),
	}, nil)
	s.poll(context.Background())
	if len(notified) != 1 {
		t.Fatalf("expected one notification, got %d", len(notified))
	}
	if cache.Len() != 4 || cache.Snapshot()[0].ID != "d" {
		t.Fatalf("cache not replaced with the new snapshot: %v", ids(cache.Snapshot()))
	}
}

func TestPollErrorKeepsCacheAndStaysQuiet(t *testing.T) {
	store := &fakeStore{records: []docstore.Record{newsRecord("a", 1)}}
	cache := NewCache()

	notifications := 0
	s := NewSyncer(cache, store, time.Minute, discardLogger(), func([]models.NewsItem) {
		notifications++
	})

	if _, err := s.LoadAll(context.Background()); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	store.set(nil, errors.New("store down"))
	s.poll(context.Background())

	if cache.Len() != 1 {
		t.Fatal("failed poll should keep the previous cache")
	}
	if notifications != 0 {
		t.Fatal("failed poll should not notify")
	}
}

func TestPollSkipsWhileInFlight(t *testing.T) {
	store := &fakeStore{records: []docstore.Record{newsRecord("a", 1)}}
	s := NewSyncer(NewCache(), store, time.Minute, discardLogger(), nil)

	s.inFlight.Store(true)
	s.poll(context.Background())
	if store.fetches != 0 {
		t.Fatal("overlapping poll was not skipped")
	}

	s.inFlight.Store(false)
	s.poll(context.Background())
	if store.fetches != 1 {
		t.Fatalf("expected exactly one fetch after the guard cleared, got %d", store.fetches)
	}
}

func TestStartStopsOnCancel(t *testing.T) {
	store := &fakeStore{records: []docstore.Record{newsRecord("a", 1)}}
	s := NewSyncer(NewCache(), store, 10*time.Millisecond, discardLogger(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)

	time.Sleep(35 * time.Millisecond)
	cancel()
	s.Wait()

	store.mu.Lock()
	fetches := store.fetches
	store.mu.Unlock()
	if fetches == 0 {
		t.Fatal("polling loop never fetched")
	}
}
