package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/folio/internal/util"
	"github.com/mithrel/folio/pkg/api"
)

// Options configures the post browser.
type Options struct {
	Headers bool
	// View renders the post shown when a row is opened.
	View func(p api.Post) string
	// Delete removes a post; nil disables the d key.
	Delete func(ctx context.Context, slug string) error
}

// RenderTable opens an interactive Bubble Tea table to browse posts.
func RenderTable(ctx context.Context, posts []api.Post, opts Options) error {
	m := newModel(ctx, posts, opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

type model struct {
	ctx     context.Context
	opts    Options
	table   table.Model
	all     []api.Post
	posts   []api.Post
	query   string
	cat     string
	post    *postModal
	filter  *filterModal
	width   int
	height  int
	status  string
	lastDur time.Duration
}

func newModel(ctx context.Context, posts []api.Post, opts Options) model {
	m := model{
		ctx:  ctx,
		opts: opts,
		all:  posts,
	}
	m.table = table.New(table.WithColumns(m.columnsFor(24, 40, 16, 18)), table.WithFocused(true))
	m.applyFilter()
	m.applyStyles()
	return m
}

// applyFilter recomputes the visible posts from the query and category.
func (m *model) applyFilter() {
	base := make([]api.Post, 0, len(m.all))
	for _, p := range m.all {
		if m.cat == "" || strings.EqualFold(p.Category, m.cat) {
			base = append(base, p)
		}
	}
	if m.query == "" {
		m.posts = base
	} else {
		keys := make([]string, len(base))
		for i, p := range base {
			keys[i] = p.Title + " " + p.Slug
		}
		m.posts = m.posts[:0:0]
		for _, i := range util.MatchIndexes(m.query, keys) {
			m.posts = append(m.posts, base[i])
		}
	}
	m.updateRows()
	if c := m.table.Cursor(); c >= len(m.posts) {
		m.table.SetCursor(max(0, len(m.posts)-1))
	}
}

func (m *model) updateRows() {
	rows := make([]table.Row, 0, len(m.posts))
	for _, p := range m.posts {
		rows = append(rows, table.Row{
			p.Slug,
			p.DisplayTitle(),
			p.DisplayCategory(),
			p.DisplayDate(),
		})
	}
	m.table.SetRows(rows)
}

func (m model) selected() (api.Post, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.posts) {
		return api.Post{}, false
	}
	return m.posts[idx], true
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
		m.applyLayout()
		if m.post != nil {
			m.post.resizeForTerm(ws.Width, ws.Height)
		}
		if m.filter != nil {
			m.filter.resizeForTerm(ws.Width, ws.Height)
		}
		return m, nil
	}
	if res, ok := msg.(deleteResultMsg); ok {
		m.lastDur = res.dur
		if res.err != nil {
			m.status = fmt.Sprintf("Delete failed: %v", res.err)
			return m, nil
		}
		m.all = removeSlug(m.all, res.slug)
		m.applyFilter()
		m.status = fmt.Sprintf("Deleted %s", res.slug)
		return m, nil
	}

	if m.post != nil {
		if k, ok := msg.(tea.KeyMsg); ok {
			switch k.String() {
			case "esc", "q", "enter":
				m.post = nil
				return m, nil
			case "ctrl+c":
				return m, tea.Quit
			}
		}
		var cmd tea.Cmd
		m.post, cmd = m.post.update(msg)
		return m, cmd
	}

	if m.filter != nil {
		if k, ok := msg.(tea.KeyMsg); ok {
			switch k.String() {
			case "esc", "ctrl+q":
				m.filter = nil
				return m, nil
			case "ctrl+c":
				return m, tea.Quit
			case "enter":
				m.query, m.cat = m.filter.values()
				m.filter = nil
				m.applyFilter()
				m.status = fmt.Sprintf("%d of %d posts", len(m.posts), len(m.all))
				return m, nil
			}
		}
		var cmd tea.Cmd
		m.filter, cmd = m.filter.update(msg)
		return m, cmd
	}

	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "q", "esc", "ctrl+c", "ctrl+q":
			return m, tea.Quit
		case "enter":
			if p, ok := m.selected(); ok {
				content := p.Content
				if m.opts.View != nil {
					content = m.opts.View(p)
				}
				m.post = newPostModal(p.Slug, content, m.width, m.height)
			}
			return m, nil
		case "/":
			m.filter = newFilterModal(m.query, m.cat, m.width, m.height)
			return m, nil
		case "d":
			if m.opts.Delete == nil {
				return m, nil
			}
			if p, ok := m.selected(); ok {
				m.status = fmt.Sprintf("Deleting %s…", p.Slug)
				return m, deleteCmd(m.ctx, m.opts.Delete, p.Slug)
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func removeSlug(posts []api.Post, slug string) []api.Post {
	out := posts[:0:0]
	for _, p := range posts {
		if p.Slug != slug {
			out = append(out, p)
		}
	}
	return out
}

func (m model) renderFooter() string {
	left := "↑/↓ navigate • enter=open • /=filter • q=exit"
	if m.opts.Delete != nil {
		left = "↑/↓ navigate • enter=open • /=filter • d=delete • q=exit"
	}

	var right string
	if m.status != "" {
		if m.lastDur > 0 {
			right = fmt.Sprintf("%s (%s) • ", m.status, m.lastDur.Round(time.Millisecond))
		} else {
			right = m.status + " • "
		}
	}
	right += fmt.Sprintf("%d posts ", len(m.posts))

	space := max(1, m.table.Width()-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", space) + right
}

func (m model) View() string {
	base := m.table.View() + "\n" + m.renderFooter() + "\n"
	if len(m.all) == 0 {
		base = "(no posts)\n"
	}
	var fg string
	switch {
	case m.post != nil:
		fg = m.post.View()
	case m.filter != nil:
		fg = m.filter.View()
	default:
		return base
	}
	return composeModal(base, fg, m.width, m.height)
}

func (m *model) applyLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.table.SetHeight(max(6, m.height-1))
	m.table.SetWidth(m.width)
	avail := m.width - 8
	if avail < 40 {
		return
	}
	slugW := min(32, avail/4)
	dateW := 18
	catW := 16
	titleW := max(8, avail-slugW-dateW-catW)
	m.table.SetColumns(m.columnsFor(slugW, titleW, catW, dateW))
}

func (m *model) applyStyles() {
	s := table.DefaultStyles()
	if m.opts.Headers {
		s.Header = s.Header.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			BorderBottom(true).
			Bold(true)
	} else {
		s.Header = s.Header.
			BorderBottom(false).
			Bold(false)
	}
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	m.table.SetStyles(s)
}

// columnsFor returns columns with or without titles based on the headers option.
func (m *model) columnsFor(slugW, titleW, catW, dateW int) []table.Column {
	titles := []string{"", "", "", ""}
	if m.opts.Headers {
		titles = []string{"Slug", "Title", "Category", "Date"}
	}
	return []table.Column{
		{Title: titles[0], Width: slugW},
		{Title: titles[1], Width: titleW},
		{Title: titles[2], Width: catW},
		{Title: titles[3], Width: dateW},
	}
}
