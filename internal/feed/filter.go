package feed

import (
	"strings"

	"github.com/ywebstudio/newslist/pkg/models"
)

// Visible derives the displayed list from the cached news, the user's
// selected category ids, and the live search term. It is a pure
// function: same inputs, same output, input never mutated.
//
// An empty selected set means "no filter, show all". An item with an
// empty CategoryID passes only when no filter is active or when "" was
// explicitly selected; "select all" does not include it implicitly.
// The search term is matched case-insensitively against the title, and
// the cache's newest-first order is preserved throughout.
func Visible(news []models.NewsItem, selected map[string]struct{}, searchTerm string) []models.NewsItem {
	term := strings.ToLower(strings.TrimSpace(searchTerm))

	out := make([]models.NewsItem, 0, len(news))
	for _, item := range news {
		if len(selected) > 0 {
			if _, ok := selected[item.CategoryID]; !ok {
				continue
			}
		}
		if term != "" && !strings.Contains(strings.ToLower(item.Title), term) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// SelectionSet converts a stored id list into the set shape the filter
// takes.
func SelectionSet(ids []string) map[string]struct{} {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
