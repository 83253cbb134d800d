package tui

import (
	"github.com/charmbracelet/bubbles/list"

	"github.com/ywebstudio/newslist/pkg/models"
)

type newsItem struct {
	news    models.NewsItem
	channel string
}

func (i newsItem) Title() string {
	return i.news.Title
}

func (i newsItem) Description() string {
	date := ""
	if !i.news.CreatedAt.IsZero() {
		date = i.news.CreatedAt.Format("02.01.06")
	}
	if i.channel == "" {
		return date
	}
	if date == "" {
		return i.channel
	}
	return i.channel + " | " + date
}

func (i newsItem) FilterValue() string {
	return i.news.Title
}

var _ list.Item = newsItem{}
