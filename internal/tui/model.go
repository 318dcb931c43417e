package tui

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/michaelscutari/catifs/internal/db"
	"github.com/michaelscutari/catifs/internal/entry"
	"github.com/michaelscutari/catifs/internal/rollup"

	tea "github.com/charmbracelet/bubbletea"
)

// SortColumn represents the current sort field.
type SortColumn int

const (
	SortBySize SortColumn = iota
	SortByDisk
	SortByName
	SortByFiles
)

func (s SortColumn) String() string {
	switch s {
	case SortByDisk:
		return rollup.SortByDisk
	case SortByName:
		return rollup.SortByName
	case SortByFiles:
		return rollup.SortByFiles
	default:
		return rollup.SortBySize
	}
}

const listLimit = 1000

// Model is the catalog browser. Rollups are built once when the browser
// starts; every directory listing afterwards is a single catalog query.
type Model struct {
	ctx     context.Context
	store   *db.Store
	rollups rollup.Rollups
	summary *entry.Summary

	currentPath string
	allRows     []rollup.Row
	rows        []rollup.Row
	cursor      int
	sort        SortColumn
	filter      string
	filtering   bool

	// Attributes of the selected row, shown in the details pane.
	showDetails bool
	attrs       []entry.AttributeEntry
	attrsPath   string

	width  int
	height int
	err    error
}

// NewModel creates a browser over an open catalog.
func NewModel(ctx context.Context, store *db.Store) *Model {
	return &Model{
		ctx:         ctx,
		store:       store,
		currentPath: "/",
		sort:        SortBySize,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.loadCatalog
}

type catalogLoadedMsg struct {
	summary *entry.Summary
	rollups rollup.Rollups
	rows    []rollup.Row
	err     error
}

type listingLoadedMsg struct {
	path string
	rows []rollup.Row
	err  error
}

type attrsLoadedMsg struct {
	path  string
	attrs []entry.AttributeEntry
	err   error
}

func (m *Model) loadCatalog() tea.Msg {
	summary, err := m.store.Summary(m.ctx)
	if err != nil {
		return catalogLoadedMsg{err: err}
	}
	rollups, err := rollup.NewBuilder(m.store).Build(m.ctx)
	if err != nil {
		return catalogLoadedMsg{err: err}
	}
	rows, err := rollup.List(m.ctx, m.store, rollups, "/", m.sort.String(), listLimit)
	if err != nil {
		return catalogLoadedMsg{err: err}
	}
	return catalogLoadedMsg{summary: summary, rollups: rollups, rows: rows}
}

func (m *Model) loadListing(path string) tea.Cmd {
	rollups, sortBy := m.rollups, m.sort.String()
	return func() tea.Msg {
		rows, err := rollup.List(m.ctx, m.store, rollups, path, sortBy, listLimit)
		return listingLoadedMsg{path: path, rows: rows, err: err}
	}
}

func (m *Model) loadAttrs(path string) tea.Cmd {
	return func() tea.Msg {
		attrs, err := m.store.ListAttrs(m.ctx, path)
		return attrsLoadedMsg{path: path, attrs: attrs, err: err}
	}
}

func (m *Model) selected() (rollup.Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return rollup.Row{}, false
	}
	return m.rows[m.cursor], true
}

// current returns the totals of the directory being listed.
func (m *Model) current() *entry.Rollup {
	if m.rollups == nil {
		return nil
	}
	return m.rollups.Get(m.currentPath)
}

func (m *Model) catalogName() string {
	return filepath.Base(m.store.Path())
}

func (m *Model) helpLine() string {
	if m.filtering {
		return "Type to filter | Enter: apply | Esc: clear | q: quit"
	}
	return "↑/↓ move | Enter: open | Backspace: up | s/d/n/f: sort | /: filter | i: details | q: quit"
}

func (m *Model) setRows(path string, rows []rollup.Row) {
	m.currentPath = path
	m.allRows = rows
	m.filter = ""
	m.filtering = false
	m.applyFilter()
}

func (m *Model) applyFilter() {
	m.rows = m.allRows
	if m.filter != "" {
		needle := strings.ToLower(m.filter)
		m.rows = make([]rollup.Row, 0, len(m.allRows))
		for _, r := range m.allRows {
			if strings.Contains(strings.ToLower(r.Name), needle) {
				m.rows = append(m.rows, r)
			}
		}
	}
	m.cursor = 0
}
