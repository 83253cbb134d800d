package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ywebstudio/newslist/pkg/models"
)

func TestShareLink(t *testing.T) {
	e := New(t.TempDir(), "https://yournewsapp.com/")

	got := e.ShareLink(models.NewsItem{ID: "abc123"})
	want := "https://yournewsapp.com/news/abc123"
	if got != want {
		t.Fatalf("share link = %q, want %q", got, want)
	}
}

func TestExportHTMLWritesDocument(t *testing.T) {
	dir := t.TempDir()
	e := New(dir, "https://yournewsapp.com")

	item := models.NewsItem{
		ID:        "n1",
		Title:     "City Council Vote <Tonight>",
		Content:   "First paragraph.\n\nSecond paragraph.",
		CreatedAt: time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC),
		ImageURLs: []string{"https://cdn.example.com/a.jpg"},
	}

	path, err := e.ExportHTML(item, "Local News")
	if err != nil {
		t.Fatalf("ExportHTML: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("export written to %s, want directory %s", path, dir)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	doc := string(data)

	for _, want := range []string{
		"City Council Vote &lt;Tonight&gt;",
		"Local News",
		"05.03.24",
		"<p>First paragraph.</p>",
		"<p>Second paragraph.</p>",
		"https://cdn.example.com/a.jpg",
		"https://yournewsapp.com/news/n1",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("exported document missing %q", want)
		}
	}
}

func TestExportHTMLCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "exports")
	e := New(dir, "https://yournewsapp.com")

	if _, err := e.ExportHTML(models.NewsItem{ID: "n1", Title: "t"}, ""); err != nil {
		t.Fatalf("ExportHTML: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("export directory not created: %v", err)
	}
}

func TestMarkdownConvertsHTML(t *testing.T) {
	e := New(t.TempDir(), "https://yournewsapp.com")

	got := e.Markdown(models.NewsItem{Content: "<p>Hello <strong>world</strong></p>"})
	if !strings.Contains(got, "**world**") {
		t.Fatalf("markdown conversion = %q, want bold world", got)
	}
}

func TestMarkdownPassesPlainText(t *testing.T) {
	e := New(t.TempDir(), "https://yournewsapp.com")

	const content = "Just a plain sentence."
	if got := e.Markdown(models.NewsItem{Content: content}); got != content {
		t.Fatalf("plain content changed: %q", got)
	}
}
