package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/gridpager/internal/grid"
	"github.com/rshade/gridpager/internal/pagination"
	"github.com/rshade/gridpager/internal/render"
	"github.com/rshade/gridpager/internal/source"
)

func TestTextPager_Plain(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		want    string
	}{
		{"middle", 5, 7, "\n‹ 1 … 2 3 4 [5] 6 7 ›"},
		{"single page", 1, 1, "\n‹ [1] ›"},
		{"both ellipses", 10, 20, "\n‹ 1 … 7 8 9 [10] 11 12 13 … 20 ›"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TextPager{Plain: true}.RenderPager(pagination.NewWindow(tt.current, tt.total))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTextPager_Styled(t *testing.T) {
	got, err := TextPager{}.RenderPager(pagination.NewWindow(2, 3))
	require.NoError(t, err)
	assert.Contains(t, got, "2")
	assert.Contains(t, got, "›")
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "Showing 17-32 of 1,250 records (page 2 of 79)", Summary(pagination.Meta{
		CurrentPage: 2, TotalPages: 79, TotalItems: 1250, FirstItem: 17, LastItem: 32,
	}))
	assert.Equal(t, "No records (page 1 of 1)", Summary(pagination.Meta{CurrentPage: 1, TotalPages: 1}))
}

func newBrowser(t *testing.T, n int) (BrowserModel[int], *grid.Grid[int]) {
	t.Helper()

	records := make([]int, n)
	for i := range records {
		records[i] = i + 1
	}
	item, err := render.TextItem[int]("{{.}}\n")
	require.NoError(t, err)

	buf := &render.Buffer{}
	g, err := grid.New[int](buf, grid.Options[int]{
		Source:     source.Slice(records),
		PageSize:   10,
		RenderItem: item,
		Pager:      TextPager{Plain: true},
	})
	require.NoError(t, err)

	m := NewBrowserModel(context.Background(), "Numbers", g, buf)
	return step(t, m, m.Init()), g
}

// step runs cmd synchronously and feeds its message back into m.
func step(t *testing.T, m BrowserModel[int], cmd tea.Cmd) BrowserModel[int] {
	t.Helper()
	require.NotNil(t, cmd)
	updated, _ := m.Update(cmd())
	return updated.(BrowserModel[int])
}

func press(m BrowserModel[int], msg tea.KeyMsg) (BrowserModel[int], tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(BrowserModel[int]), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBrowser_Navigation(t *testing.T) {
	m, g := newBrowser(t, 30)
	assert.False(t, m.Loading())
	assert.Equal(t, 1, g.State().CurrentPage)
	assert.Contains(t, m.View(), "Showing 1-10 of 30 records (page 1 of 3)")

	// Previous is disabled on the first page.
	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Nil(t, cmd)

	m, cmd = press(m, tea.KeyMsg{Type: tea.KeyRight})
	assert.True(t, m.Loading())
	m = step(t, m, cmd)
	assert.Equal(t, 2, g.State().CurrentPage)
	assert.Contains(t, m.View(), "11\n")

	m, cmd = press(m, runes("G"))
	m = step(t, m, cmd)
	assert.Equal(t, 3, g.State().CurrentPage)
	assert.Contains(t, m.View(), "[3] ›")

	// Next is disabled on the last page.
	m, cmd = press(m, runes("l"))
	assert.Nil(t, cmd)

	m, cmd = press(m, runes("h"))
	m = step(t, m, cmd)
	assert.Equal(t, 2, g.State().CurrentPage)

	m, cmd = press(m, runes("g"))
	m = step(t, m, cmd)
	assert.Equal(t, 1, g.State().CurrentPage)

	m, cmd = press(m, runes("r"))
	m = step(t, m, cmd)
	assert.Equal(t, 1, g.State().CurrentPage)
	assert.NoError(t, m.Err())
}

func TestBrowser_HelpAndQuit(t *testing.T) {
	m, _ := newBrowser(t, 5)

	short := m.View()
	m, cmd := press(m, runes("?"))
	assert.Nil(t, cmd)
	assert.NotEqual(t, short, m.View())
	assert.Contains(t, m.View(), "last page")

	m, cmd = press(m, runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestBrowser_LoadResults(t *testing.T) {
	m, _ := newBrowser(t, 5)

	m.loading = true
	updated, _ := m.Update(PageLoadedMsg{Err: grid.ErrSuperseded})
	m = updated.(BrowserModel[int])
	assert.True(t, m.Loading())

	boom := errors.New("upstream down")
	updated, _ = m.Update(PageLoadedMsg{Err: boom})
	m = updated.(BrowserModel[int])
	assert.False(t, m.Loading())
	assert.Contains(t, m.View(), "error: upstream down")

	updated, _ = m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	assert.IsType(t, BrowserModel[int]{}, updated)
}
