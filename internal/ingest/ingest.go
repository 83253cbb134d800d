// Package ingest pulls partner RSS feeds into the news collection.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/ywebstudio/newslist/internal/docstore"
	"github.com/ywebstudio/newslist/pkg/models"
)

type partnerStore interface {
	FetchCollection(ctx context.Context, name string) ([]docstore.Record, error)
	FindByField(ctx context.Context, collection, field string, value any) ([]docstore.Record, error)
	InsertDocument(ctx context.Context, collection, id string, fields map[string]any) error
}

// Ingestor fetches partner feeds and stores articles that are not yet
// in the news collection.
type Ingestor struct {
	store   partnerStore
	parser  *gofeed.Parser
	limiter *rate.Limiter
	logger  *slog.Logger
	workers int
}

// New creates an Ingestor. workers bounds how many feeds are fetched
// concurrently.
func New(store partnerStore, logger *slog.Logger, workers int) *Ingestor {
	if workers < 1 {
		workers = 1
	}
	return &Ingestor{
		store:   store,
		parser:  gofeed.NewParser(),
		limiter: rate.NewLimiter(rate.Every(time.Second), workers),
		logger:  logger,
		workers: workers,
	}
}

// Run fetches every partner feed once and returns how many new
// articles were stored. A failing feed is logged and skipped so one
// partner cannot block the rest.
func (in *Ingestor) Run(ctx context.Context) (int, error) {
	records, err := in.store.FetchCollection(ctx, docstore.CollectionPartners)
	if err != nil {
		return 0, fmt.Errorf("fetching partners: %w", err)
	}

	var (
		mu    sync.Mutex
		total int
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(in.workers)

	for _, rec := range records {
		partner := docstore.ToPartner(rec)
		if partner.FeedURL == "" {
			continue
		}
		g.Go(func() error {
			count, err := in.ingestPartner(ctx, partner)
			if err != nil {
				in.logger.Warn("partner feed failed",
					"partner", partner.Name, "url", partner.FeedURL, "error", err)
				return nil
			}
			mu.Lock()
			total += count
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return total, err
	}
	return total, nil
}

func (in *Ingestor) ingestPartner(ctx context.Context, partner models.Partner) (int, error) {
	if err := in.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	feed, err := in.parser.ParseURLWithContext(partner.FeedURL, ctx)
	if err != nil {
		return 0, fmt.Errorf("parsing feed %s: %w", partner.FeedURL, err)
	}

	stored := 0
	for _, item := range feed.Items {
		if item.Link == "" {
			continue
		}
		existing, err := in.store.FindByField(ctx, docstore.CollectionNews, "link", item.Link)
		if err != nil {
			return stored, fmt.Errorf("checking for existing article: %w", err)
		}
		if len(existing) > 0 {
			continue
		}

		id := uuid.NewString()
		if err := in.store.InsertDocument(ctx, docstore.CollectionNews, id, in.convertItem(item, partner)); err != nil {
			return stored, fmt.Errorf("storing article: %w", err)
		}
		stored++
	}

	in.logger.Info("partner feed ingested",
		"partner", partner.Name, "items", len(feed.Items), "new", stored)
	return stored, nil
}

func (in *Ingestor) convertItem(item *gofeed.Item, partner models.Partner) map[string]any {
	createdAt := time.Now()
	if item.PublishedParsed != nil {
		createdAt = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		createdAt = *item.UpdatedParsed
	}

	content := item.Content
	if content == "" {
		content = item.Description
	}

	var images []string
	if item.Image != nil && item.Image.URL != "" {
		images = append(images, item.Image.URL)
	}
	for _, enc := range item.Enclosures {
		if enc == nil {
			continue
		}
		if enc.Type == "image/jpeg" || enc.Type == "image/png" {
			images = append(images, enc.URL)
		}
	}

	return map[string]any{
		"title":      item.Title,
		"content":    content,
		"link":       item.Link,
		"categoryId": partner.CategoryID,
		"channelId":  partner.ChannelID,
		"createdAt":  createdAt,
		"imageUrls":  images,
	}
}
