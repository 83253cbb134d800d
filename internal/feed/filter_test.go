package feed

import (
	"reflect"
	"testing"

	"github.com/ywebstudio/newslist/pkg/models"
)

func ids(items []models.NewsItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func sampleNews() []models.NewsItem {
	// Already in cache order (newest first).
	return []models.NewsItem{
		{ID: "2", Title: "Election results", CategoryID: "tech", CreatedAt: at(200)},
		{ID: "1", Title: "Match report", CategoryID: "sports", CreatedAt: at(100)},
		{ID: "3", Title: "Uncategorized note", CategoryID: "", CreatedAt: at(50)},
	}
}

func TestVisibleEmptyFilterIsIdentity(t *testing.T) {
	news := sampleNews()
	got := Visible(news, nil, "")
	if !reflect.DeepEqual(ids(got), ids(news)) {
		t.Fatalf("empty filter should return cache order unchanged, got %v", ids(got))
	}
}

func TestVisibleCategoryFilter(t *testing.T) {
	news := sampleNews()
	got := Visible(news, SelectionSet([]string{"tech"}), "")
	if !reflect.DeepEqual(ids(got), []string{"2"}) {
		t.Fatalf("tech filter = %v, want [2]", ids(got))
	}
	for _, it := range got {
		if it.CategoryID != "tech" {
			t.Errorf("item %s leaked through category filter", it.ID)
		}
	}
}

func TestVisibleEmptyCategoryIDExcludedByActiveFilter(t *testing.T) {
	news := sampleNews()

	got := Visible(news, SelectionSet([]string{"sports", "tech"}), "")
	for _, it := range got {
		if it.ID == "3" {
			t.Fatal("item with empty categoryId passed an active filter")
		}
	}

	// Explicitly selecting "" matches it like any other value.
	got = Visible(news, SelectionSet([]string{""}), "")
	if !reflect.DeepEqual(ids(got), []string{"3"}) {
		t.Fatalf("explicit empty-string selection = %v, want [3]", ids(got))
	}
}

func TestVisibleSearchCaseInsensitive(t *testing.T) {
	news := sampleNews()

	got := Visible(news, nil, "ELECTION")
	if !reflect.DeepEqual(ids(got), []string{"2"}) {
		t.Fatalf("search = %v, want [2]", ids(got))
	}

	// Whitespace-only terms are treated as empty.
	got = Visible(news, nil, "   ")
	if len(got) != len(news) {
		t.Fatalf("blank search should show all, got %d items", len(got))
	}
}

func TestVisibleSearchIntersectsCategoryFilter(t *testing.T) {
	news := []models.NewsItem{
		{ID: "a", Title: "Budget vote", CategoryID: "politics"},
		{ID: "b", Title: "Budget phones", CategoryID: "tech"},
		{ID: "c", Title: "Transfer news", CategoryID: "sports"},
	}
	got := Visible(news, SelectionSet([]string{"tech"}), "budget")
	if !reflect.DeepEqual(ids(got), []string{"b"}) {
		t.Fatalf("intersection = %v, want [b]", ids(got))
	}
}

func TestVisibleIsPure(t *testing.T) {
	news := sampleNews()
	sel := SelectionSet([]string{"sports"})

	first := Visible(news, sel, "match")
	second := Visible(news, sel, "match")
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical inputs produced different outputs")
	}
	if !reflect.DeepEqual(ids(news), []string{"2", "1", "3"}) {
		t.Fatal("Visible mutated its input")
	}
}

func TestVisiblePreservesRelativeOrder(t *testing.T) {
	news := sampleNews()
	got := Visible(news, SelectionSet([]string{"tech", "sports"}), "")
	if !reflect.DeepEqual(ids(got), []string{"2", "1"}) {
		t.Fatalf("relative order broken: %v", ids(got))
	}
}
