package tui

import (
	"github.com/michaelscutari/catifs/internal/entry"
	"github.com/michaelscutari/catifs/internal/pathutil"

	tea "github.com/charmbracelet/bubbletea"
)

const pageSize = 10

var sortKeys = map[string]SortColumn{
	"s": SortBySize,
	"d": SortByDisk,
	"n": SortByName,
	"f": SortByFiles,
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.filtering {
			return m, m.filterKey(msg)
		}
		return m, m.browseKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case catalogLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.summary = msg.summary
		m.rollups = msg.rollups
		m.setRows("/", msg.rows)
		return m, m.refreshDetails()

	case listingLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.setRows(msg.path, msg.rows)
		return m, m.refreshDetails()

	case attrsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.attrsPath, m.attrs = msg.path, msg.attrs
	}
	return m, nil
}

func (m *Model) filterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "enter":
		m.filtering = false
	case "esc":
		m.filtering = false
		m.filter = ""
		m.applyFilter()
	case "backspace":
		if runes := []rune(m.filter); len(runes) > 0 {
			m.filter = string(runes[:len(runes)-1])
			m.applyFilter()
		}
	default:
		if msg.Type == tea.KeyRunes {
			m.filter += msg.String()
			m.applyFilter()
		}
	}
	return m.refreshDetails()
}

func (m *Model) browseKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if by, ok := sortKeys[key]; ok {
		m.sort = by
		return m.loadListing(m.currentPath)
	}

	switch key {
	case "q", "ctrl+c":
		return tea.Quit
	case "up", "k":
		return m.moveCursor(-1)
	case "down", "j":
		return m.moveCursor(1)
	case "pgup":
		return m.moveCursor(-pageSize)
	case "pgdown":
		return m.moveCursor(pageSize)
	case "home", "g":
		return m.moveCursor(-len(m.rows))
	case "end", "G":
		return m.moveCursor(len(m.rows))
	case "enter", "l", "right":
		return m.open()
	case "backspace", "h", "left":
		return m.up()
	case "/":
		m.filtering = true
	case "i":
		m.showDetails = !m.showDetails
		return m.refreshDetails()
	}
	return nil
}

func (m *Model) moveCursor(delta int) tea.Cmd {
	m.cursor = max(0, min(len(m.rows)-1, m.cursor+delta))
	return m.refreshDetails()
}

func (m *Model) open() tea.Cmd {
	sel, ok := m.selected()
	if !ok || sel.Kind != entry.KindDir {
		return nil
	}
	return m.loadListing(sel.Path)
}

func (m *Model) up() tea.Cmd {
	if m.summary == nil || m.currentPath == "/" {
		return nil
	}
	return m.loadListing(pathutil.ParentCatalog(m.currentPath))
}

// refreshDetails loads the attributes of the selection when the details
// pane is open and they are not loaded yet.
func (m *Model) refreshDetails() tea.Cmd {
	if !m.showDetails {
		return nil
	}
	sel, ok := m.selected()
	if !ok || sel.Path == m.attrsPath {
		return nil
	}
	m.attrs, m.attrsPath = nil, ""
	return m.loadAttrs(sel.Path)
}
