// Package tui implements the terminal client on top of the feed,
// interest, and catalog packages.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/ywebstudio/newslist/internal/catalog"
	"github.com/ywebstudio/newslist/internal/docstore"
	"github.com/ywebstudio/newslist/internal/export"
	"github.com/ywebstudio/newslist/internal/feed"
	"github.com/ywebstudio/newslist/internal/interest"
	"github.com/ywebstudio/newslist/pkg/models"
)

type View int

const (
	ViewNewsList View = iota
	ViewNewsDetail
	ViewInterestPrompt
	ViewCategoryPicker
	ViewChannels
	ViewHelp
)

type Model struct {
	store     docstore.Store
	cache     *feed.Cache
	syncer    *feed.Syncer
	interests *interest.Manager
	exporter  *export.Exporter

	view       View
	categories []models.Category
	channels   map[string]models.Channel

	list      list.Model
	search    textinput.Model
	searching bool

	selected      map[string]struct{}
	channelFilter string

	pickerCursor int
	picks        map[string]bool

	channelCursor int

	detailContent string
	width         int
	height        int
	err           error
	statusMsg     string
}

// NewsUpdatedMsg is sent from outside the program when the background
// sync replaces the cache with fresh items.
type NewsUpdatedMsg struct {
	Items []models.NewsItem
}

type newsLoadedMsg struct {
	items []models.NewsItem
}

type catalogLoadedMsg struct {
	categories []models.Category
	channels   map[string]models.Channel
}

type interestLoadedMsg struct{}

type errorMsg struct {
	err error
}

type statusMsg string

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	promptTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("86")).
				MarginBottom(1)

	pickedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))
)

func New(store docstore.Store, cache *feed.Cache, syncer *feed.Syncer, interests *interest.Manager, exporter *export.Exporter) Model {
	delegate := list.NewDefaultDelegate()
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "NewsList"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle

	search := textinput.New()
	search.Placeholder = "search titles..."
	search.CharLimit = 100

	return Model{
		store:     store,
		cache:     cache,
		syncer:    syncer,
		interests: interests,
		exporter:  exporter,
		view:      ViewNewsList,
		list:      l,
		search:    search,
		channels:  map[string]models.Channel{},
		statusMsg: "Loading news...",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		loadNews(m.syncer),
		loadCatalog(m.store),
		loadInterests(m.interests),
		tea.EnterAltScreen,
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case newsLoadedMsg:
		m.err = nil
		m.applyFilters()
		m.statusMsg = fmt.Sprintf("Loaded %d articles", len(msg.items))
		return m, nil

	case NewsUpdatedMsg:
		m.applyFilters()
		m.statusMsg = fmt.Sprintf("Feed updated, %d articles", len(msg.Items))
		return m, nil

	case catalogLoadedMsg:
		m.categories = msg.categories
		m.channels = msg.channels
		m.applyFilters()
		return m, nil

	case interestLoadedMsg:
		m.selected = feed.SelectionSet(m.interests.Selected())
		m.applyFilters()
		if m.interests.ShouldPrompt() {
			m.openPicker(true)
		}
		return m, nil

	case errorMsg:
		m.err = msg.err
		return m, nil

	case statusMsg:
		m.statusMsg = string(msg)
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.view {
	case ViewNewsList:
		return m.handleListKeys(msg)
	case ViewNewsDetail:
		return m.handleDetailKeys(msg)
	case ViewInterestPrompt, ViewCategoryPicker:
		return m.handlePickerKeys(msg)
	case ViewChannels:
		return m.handleChannelKeys(msg)
	case ViewHelp:
		return m.handleHelpKeys(msg)
	}
	return m, nil
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.String() {
		case "esc":
			m.searching = false
			m.search.Blur()
			m.search.SetValue("")
			m.applyFilters()
			return m, nil
		case "enter":
			m.searching = false
			m.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.applyFilters()
		return m, cmd
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "enter":
		if i, ok := m.list.SelectedItem().(newsItem); ok {
			m.view = ViewNewsDetail
			m.detailContent = m.renderArticle(i.news)
			m.statusMsg = ""
			return m, nil
		}

	case "/":
		m.searching = true
		m.search.Focus()
		return m, textinput.Blink

	case "c":
		m.openPicker(false)
		return m, nil

	case "t":
		m.view = ViewChannels
		m.channelCursor = 0
		return m, nil

	case "r":
		return m, tea.Batch(
			loadNews(m.syncer),
			func() tea.Msg { return statusMsg("Refreshing...") },
		)

	case "esc":
		if m.channelFilter != "" || m.search.Value() != "" {
			m.channelFilter = ""
			m.search.SetValue("")
			m.applyFilters()
			m.statusMsg = "Filters cleared"
			return m, nil
		}

	case "?":
		m.view = ViewHelp
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "esc", "backspace":
		m.view = ViewNewsList
		return m, nil

	case "p":
		if i, ok := m.list.SelectedItem().(newsItem); ok {
			return m, exportArticle(m.exporter, i.news, m.channelName(i.news.ChannelID))
		}

	case "y":
		if i, ok := m.list.SelectedItem().(newsItem); ok {
			m.statusMsg = "Share link: " + m.exporter.ShareLink(i.news)
			return m, nil
		}

	case "?":
		m.view = ViewHelp
		return m, nil
	}

	return m, nil
}

func (m Model) handlePickerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	prompt := m.view == ViewInterestPrompt

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.pickerCursor > 0 {
			m.pickerCursor--
		}
		return m, nil

	case "down", "j":
		if m.pickerCursor < len(m.categories)-1 {
			m.pickerCursor++
		}
		return m, nil

	case " ":
		if m.pickerCursor < len(m.categories) {
			id := m.categories[m.pickerCursor].ID
			m.picks[id] = !m.picks[id]
		}
		return m, nil

	case "enter":
		ids := m.pickedIDs()
		ctx := context.Background()
		if prompt {
			if err := m.interests.Confirm(ctx, ids); err != nil {
				if errors.Is(err, interest.ErrEmptySelection) {
					m.statusMsg = "Pick at least one category"
					return m, nil
				}
				m.statusMsg = "Selection applied, but could not be saved"
			}
		} else {
			if err := m.interests.Update(ctx, ids); err != nil {
				m.statusMsg = "Selection applied, but could not be saved"
			}
		}
		m.selected = feed.SelectionSet(m.interests.Selected())
		m.view = ViewNewsList
		m.applyFilters()
		return m, nil

	case "esc", "q":
		// The first-run prompt stays until a choice is made.
		if !prompt {
			m.view = ViewNewsList
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleChannelKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	channels := catalog.SortedChannels(m.channels)

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.channelCursor > 0 {
			m.channelCursor--
		}
		return m, nil

	case "down", "j":
		if m.channelCursor < len(channels)-1 {
			m.channelCursor++
		}
		return m, nil

	case "enter":
		if m.channelCursor < len(channels) {
			m.channelFilter = channels[m.channelCursor].ID
			m.view = ViewNewsList
			m.applyFilters()
			m.statusMsg = "Showing " + channels[m.channelCursor].Name
		}
		return m, nil

	case "esc", "t":
		m.view = ViewNewsList
		return m, nil
	}

	return m, nil
}

func (m Model) handleHelpKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "?", "q":
		m.view = ViewNewsList
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	switch m.view {
	case ViewNewsList:
		return m.renderList()
	case ViewNewsDetail:
		return m.renderDetail()
	case ViewInterestPrompt:
		return m.renderPicker("Choose your interests", "space: toggle • enter: confirm")
	case ViewCategoryPicker:
		return m.renderPicker("Filter by category", "space: toggle • enter: apply • esc: cancel")
	case ViewChannels:
		return m.renderChannels()
	case ViewHelp:
		return m.renderHelp()
	}
	return ""
}

func (m Model) renderList() string {
	var s strings.Builder

	if m.searching || m.search.Value() != "" {
		s.WriteString(m.search.View())
		s.WriteString("\n")
	}

	s.WriteString(m.list.View())
	s.WriteString("\n")

	if m.syncer.Loading() {
		s.WriteString(statusStyle.Render("Loading news..."))
	} else if m.err != nil {
		s.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	} else if m.statusMsg != "" {
		s.WriteString(statusStyle.Render(m.statusMsg))
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("enter: read • /: search • c: categories • t: channels • r: refresh • ?: help • q: quit"))

	return s.String()
}

func (m Model) renderDetail() string {
	var s strings.Builder

	s.WriteString(m.detailContent)
	s.WriteString("\n\n")

	if m.err != nil {
		s.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		s.WriteString("\n")
	} else if m.statusMsg != "" {
		s.WriteString(statusStyle.Render(m.statusMsg))
		s.WriteString("\n")
	}

	s.WriteString(helpStyle.Render("p: export • y: share link • esc: back • ?: help • q: quit"))

	return s.String()
}

func (m Model) renderPicker(title, keys string) string {
	var s strings.Builder

	s.WriteString(promptTitleStyle.Render(title))
	s.WriteString("\n")

	if len(m.categories) == 0 {
		s.WriteString(helpStyle.Render("No categories available yet"))
		s.WriteString("\n")
	}

	for i, cat := range m.categories {
		cursor := "  "
		if i == m.pickerCursor {
			cursor = cursorStyle.Render("> ")
		}
		line := "[ ] " + cat.Name
		if m.picks[cat.ID] {
			line = pickedStyle.Render("[x] " + cat.Name)
		}
		s.WriteString(cursor + line + "\n")
	}

	s.WriteString("\n")
	if m.statusMsg != "" {
		s.WriteString(statusStyle.Render(m.statusMsg))
		s.WriteString("\n")
	}
	s.WriteString(helpStyle.Render(keys))

	return s.String()
}

func (m Model) renderChannels() string {
	var s strings.Builder

	s.WriteString(promptTitleStyle.Render("Channels"))
	s.WriteString("\n")

	channels := catalog.SortedChannels(m.channels)
	for i, ch := range channels {
		cursor := "  "
		if i == m.channelCursor {
			cursor = cursorStyle.Render("> ")
		}
		line := ch.Name
		if ch.Description != "" {
			line += helpStyle.Render(" - " + ch.Description)
		}
		s.WriteString(cursor + line + "\n")
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("enter: show channel news • esc: back • q: quit"))

	return s.String()
}

func (m Model) renderHelp() string {
	help := `
NewsList - Keyboard Shortcuts

News List:
  ↑/↓, j/k     Navigate articles
  enter        Read article
  /            Search titles
  c            Pick category filters
  t            Browse channels
  r            Refresh from the server
  esc          Clear active filters
  q, ctrl+c    Quit

Article Detail:
  p            Export article for sharing
  y            Show share link
  esc          Back to list
  q, ctrl+c    Quit

General:
  ?            Show/hide this help
`
	return help + "\n" + helpStyle.Render("Press ? or esc to close help")
}

// applyFilters recomputes the visible list from the cache and the
// active category, channel, and search filters.
func (m *Model) applyFilters() {
	visible := feed.Visible(m.cache.Snapshot(), m.selected, m.search.Value())

	if m.channelFilter != "" {
		kept := visible[:0:0]
		for _, n := range visible {
			if n.ChannelID == m.channelFilter {
				kept = append(kept, n)
			}
		}
		visible = kept
	}

	items := make([]list.Item, len(visible))
	for i, n := range visible {
		items[i] = newsItem{news: n, channel: m.channelName(n.ChannelID)}
	}
	m.list.SetItems(items)
}

func (m *Model) openPicker(prompt bool) {
	m.picks = make(map[string]bool)
	for id := range m.selected {
		m.picks[id] = true
	}
	m.pickerCursor = 0
	m.statusMsg = ""
	if prompt {
		m.view = ViewInterestPrompt
	} else {
		m.view = ViewCategoryPicker
	}
}

func (m Model) pickedIDs() []string {
	var ids []string
	for _, cat := range m.categories {
		if m.picks[cat.ID] {
			ids = append(ids, cat.ID)
		}
	}
	return ids
}

func (m Model) channelName(id string) string {
	if ch, ok := m.channels[id]; ok {
		return ch.Name
	}
	return ""
}

func (m Model) renderArticle(item models.NewsItem) string {
	var md strings.Builder

	md.WriteString("# " + item.Title + "\n\n")

	var meta []string
	if name := m.channelName(item.ChannelID); name != "" {
		meta = append(meta, name)
	}
	if !item.CreatedAt.IsZero() {
		meta = append(meta, item.CreatedAt.Format("Jan 2, 2006"))
	}
	if len(meta) > 0 {
		md.WriteString("*" + strings.Join(meta, " | ") + "*\n\n")
	}

	md.WriteString(m.exporter.Markdown(item))

	if item.YoutubeURL != "" {
		md.WriteString("\n\n[Video](" + item.YoutubeURL + ")")
	}

	width := m.width
	if width < 20 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-2),
	)
	if err != nil {
		return md.String()
	}
	out, err := renderer.Render(md.String())
	if err != nil {
		return md.String()
	}
	return out
}

func loadNews(syncer *feed.Syncer) tea.Cmd {
	return func() tea.Msg {
		items, err := syncer.LoadAll(context.Background())
		if err != nil {
			return errorMsg{err}
		}
		return newsLoadedMsg{items}
	}
}

func loadCatalog(store docstore.Store) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		categories, err := catalog.LoadCategories(ctx, store)
		if err != nil {
			return errorMsg{err}
		}
		channels, err := catalog.LoadChannels(ctx, store)
		if err != nil {
			return errorMsg{err}
		}
		return catalogLoadedMsg{categories: categories, channels: channels}
	}
}

func loadInterests(interests *interest.Manager) tea.Cmd {
	return func() tea.Msg {
		if err := interests.Load(context.Background()); err != nil {
			return errorMsg{err}
		}
		return interestLoadedMsg{}
	}
}

func exportArticle(exporter *export.Exporter, item models.NewsItem, channelName string) tea.Cmd {
	return func() tea.Msg {
		path, err := exporter.ExportHTML(item, channelName)
		if err != nil {
			return errorMsg{err}
		}
		return statusMsg("Exported to " + path)
	}
}
