// Package export builds shareable documents from news items.
package export

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"

	"github.com/ywebstudio/newslist/pkg/models"
)

// Exporter writes share-ready documents for single news items.
type Exporter struct {
	dir       string
	baseURL   string
	converter *md.Converter
}

// New creates an Exporter writing into dir. baseURL is the public site
// used for share links.
func New(dir, baseURL string) *Exporter {
	return &Exporter{
		dir:       dir,
		baseURL:   strings.TrimRight(baseURL, "/"),
		converter: md.NewConverter("", true, nil),
	}
}

// ShareLink returns the canonical public link for a news item.
func (e *Exporter) ShareLink(item models.NewsItem) string {
	return fmt.Sprintf("%s/news/%s", e.baseURL, item.ID)
}

// ExportHTML renders the item as a standalone HTML document, writes it
// under the export directory with a timestamped name, and returns the
// path for the platform share step.
func (e *Exporter) ExportHTML(item models.NewsItem, channelName string) (string, error) {
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	name := fmt.Sprintf("NewsList_%d.html", time.Now().UnixMilli())
	path := filepath.Join(e.dir, name)

	if err := os.WriteFile(path, []byte(e.renderHTML(item, channelName)), 0644); err != nil {
		return "", fmt.Errorf("writing export file: %w", err)
	}
	return path, nil
}

// Markdown converts the item's content to markdown for terminal
// display. Content that is not HTML passes through unchanged.
func (e *Exporter) Markdown(item models.NewsItem) string {
	if !strings.Contains(item.Content, "<") {
		return item.Content
	}
	out, err := e.converter.ConvertString(item.Content)
	if err != nil {
		return item.Content
	}
	return out
}

func (e *Exporter) renderHTML(item models.NewsItem, channelName string) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\">")
	b.WriteString("<title>" + html.EscapeString(item.Title) + "</title></head>\n<body>\n")
	b.WriteString("<h1>" + html.EscapeString(item.Title) + "</h1>\n")

	var meta []string
	if channelName != "" {
		meta = append(meta, html.EscapeString(channelName))
	}
	if !item.CreatedAt.IsZero() {
		meta = append(meta, item.CreatedAt.Format("02.01.06"))
	}
	if len(meta) > 0 {
		b.WriteString("<p><em>" + strings.Join(meta, " | ") + "</em></p>\n")
	}

	if strings.Contains(item.Content, "<") {
		// Content already carries markup.
		b.WriteString(item.Content + "\n")
	} else {
		for _, para := range strings.Split(item.Content, "\n\n") {
			if strings.TrimSpace(para) == "" {
				continue
			}
			b.WriteString("<p>" + html.EscapeString(para) + "</p>\n")
		}
	}

	for _, url := range item.ImageURLs {
		b.WriteString("<p><img src=\"" + html.EscapeString(url) + "\" alt=\"\"></p>\n")
	}
	if item.YoutubeURL != "" {
		b.WriteString("<p><a href=\"" + html.EscapeString(item.YoutubeURL) + "\">Video</a></p>\n")
	}

	b.WriteString("<p><a href=\"" + html.EscapeString(e.ShareLink(item)) + "\">" +
		html.EscapeString(e.ShareLink(item)) + "</a></p>\n")
	b.WriteString("</body>\n</html>\n")

	return b.String()
}
