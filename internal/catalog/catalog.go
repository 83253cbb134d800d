// Package catalog loads the session's reference data: the ordered
// category list and the channel directory. Both are fetched once at
// startup and treated as static for the session.
package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/ywebstudio/newslist/internal/docstore"
	"github.com/ywebstudio/newslist/pkg/models"
)

// fetcher is the slice of the document store the catalog needs.
type fetcher interface {
	FetchCollection(ctx context.Context, name string) ([]docstore.Record, error)
}

// LoadCategories fetches all categories sorted by their numeric order,
// ascending. Ties keep fetch order.
func LoadCategories(ctx context.Context, store fetcher) ([]models.Category, error) {
	records, err := store.FetchCollection(ctx, docstore.CollectionCategories)
	if err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}

	cats := make([]models.Category, 0, len(records))
	for _, r := range records {
		cats = append(cats, docstore.ToCategory(r))
	}

	sort.SliceStable(cats, func(i, j int) bool {
		return cats[i].Order < cats[j].Order
	})
	return cats, nil
}

// LoadChannels fetches all channels as an id-keyed lookup map.
func LoadChannels(ctx context.Context, store fetcher) (map[string]models.Channel, error) {
	records, err := store.FetchCollection(ctx, docstore.CollectionChannels)
	if err != nil {
		return nil, fmt.Errorf("loading channels: %w", err)
	}

	channels := make(map[string]models.Channel, len(records))
	for _, r := range records {
		ch := docstore.ToChannel(r)
		channels[ch.ID] = ch
	}
	return channels, nil
}

// SortedChannels returns the directory's channels ordered for display:
// by numeric order, then by name.
func SortedChannels(channels map[string]models.Channel) []models.Channel {
	out := make([]models.Channel, 0, len(channels))
	for _, ch := range channels {
		out = append(out, ch)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Name < out[j].Name
	})
	return out
}
