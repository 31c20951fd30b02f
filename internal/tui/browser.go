package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/gridpager/internal/grid"
	"github.com/rshade/gridpager/internal/render"
)

// PageLoadedMsg reports the end of a page load started by the browser.
type PageLoadedMsg struct {
	Err error
}

// BrowserModel is the Bubble Tea model paging through a grid. The grid renders
// into Buffer; the model only decides which page to load.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View.
type BrowserModel[T any] struct {
	ctx    context.Context
	title  string
	grid   *grid.Grid[T]
	buffer *render.Buffer

	keys KeyMap
	help help.Model

	loading  bool
	err      error
	width    int
	quitting bool
}

// NewBrowserModel creates a browser over g, which must render into buf.
func NewBrowserModel[T any](ctx context.Context, title string, g *grid.Grid[T], buf *render.Buffer) BrowserModel[T] {
	return BrowserModel[T]{
		ctx:     ctx,
		title:   title,
		grid:    g,
		buffer:  buf,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		loading: true,
	}
}

// Init loads the grid's current page.
func (m BrowserModel[T]) Init() tea.Cmd {
	return m.changePage(m.grid.State().CurrentPage)
}

// Update handles key presses, resizes and load results.
func (m BrowserModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case PageLoadedMsg:
		if errors.Is(msg.Err, grid.ErrSuperseded) {
			return m, nil
		}
		m.loading = false
		m.err = msg.Err
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m BrowserModel[T]) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	window := m.grid.Window()

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Prev):
		return m.click(grid.LinkEvent(window.Prev()))
	case key.Matches(msg, m.keys.Next):
		return m.click(grid.LinkEvent(window.Next()))
	case key.Matches(msg, m.keys.First):
		return m.load(1)
	case key.Matches(msg, m.keys.Last):
		return m.load(window.TotalPages)
	case key.Matches(msg, m.keys.Reload):
		return m.load(window.Current)
	}
	return m, nil
}

// click dispatches a pager click the way a rendered link would.
func (m BrowserModel[T]) click(ev grid.ClickEvent) (tea.Model, tea.Cmd) {
	if _, ok, _ := ev.Target(); !ok {
		return m, nil
	}
	m.loading = true
	g, ctx := m.grid, m.ctx
	return m, func() tea.Msg {
		return PageLoadedMsg{Err: g.HandleClick(ctx, ev)}
	}
}

func (m BrowserModel[T]) load(page int) (tea.Model, tea.Cmd) {
	m.loading = true
	return m, m.changePage(page)
}

func (m BrowserModel[T]) changePage(page int) tea.Cmd {
	g, ctx := m.grid, m.ctx
	return func() tea.Msg {
		return PageLoadedMsg{Err: g.ChangePage(ctx, page)}
	}
}

// View renders the title, the grid buffer, the summary and help.
func (m BrowserModel[T]) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(m.title))
	b.WriteString("\n\n")

	if content := m.buffer.HTML(); content != "" {
		b.WriteString(content)
		b.WriteString("\n\n")
	}

	switch {
	case m.err != nil:
		b.WriteString(ErrorStyle.Render("error: " + m.err.Error()))
	case m.loading:
		b.WriteString(SummaryStyle.Render("Loading…"))
	default:
		b.WriteString(SummaryStyle.Render(Summary(m.grid.Meta())))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// Loading reports whether a page load is in flight.
func (m BrowserModel[T]) Loading() bool {
	return m.loading
}

// Err returns the error of the last load.
func (m BrowserModel[T]) Err() error {
	return m.err
}
