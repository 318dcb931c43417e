package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/michaelscutari/catifs/internal/entry"
	"github.com/michaelscutari/catifs/internal/rollup"
)

// column is one right-aligned numeric column of the listing.
type column struct {
	label string
	sort  SortColumn
	value func(r *rollup.Row) string
	width int
}

const (
	colGap       = 2
	minNameWidth = 10
	barBlocks    = 10
	barWidth     = barBlocks + 6 // blocks, two spaces, "100%"
)

func (m *Model) columns() []column {
	return []column{
		{label: "APPARENT", sort: SortBySize, value: func(r *rollup.Row) string { return FormatSize(r.TotalSize) }},
		{label: "DISK", sort: SortByDisk, value: func(r *rollup.Row) string { return FormatSize(r.TotalBlocks) }},
		{label: "FILES", sort: SortByFiles, value: func(r *rollup.Row) string { return FormatCount(r.TotalFiles) }},
		{label: "DIRS", sort: -1, value: func(r *rollup.Row) string { return FormatCount(r.TotalDirs) }},
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err)
	}
	if m.summary == nil {
		return "Building rollups..."
	}

	var top, bottom []string
	top = append(top,
		titleStyle.Render("catifs - Catalog Browser"),
		statsStyle.Render(m.catalogLine()),
		breadcrumbStyle.Render("Path: "+truncateMiddle(m.currentPath, max(10, m.width-6))),
		statusStyle.Render(m.statusLine()),
	)
	if m.filtering {
		top = append(top, filterStyle.Render("Filter: "+m.filter+"_"))
	} else if m.filter != "" {
		top = append(top, filterStyle.Render("Filter: "+m.filter))
	}

	cols := m.columns()
	first, last := m.visibleRange(len(top) + 1 + m.footerHeight())
	nameWidth := m.fitColumns(cols, first, last)
	top = append(top, headerStyle.Render(m.headerLine(cols, nameWidth)))

	if cur := m.current(); cur != nil {
		bottom = append(bottom, statsStyle.Render(fmt.Sprintf(
			"Apparent: %s | Disk: %s | %s files | %s subdirs | %s links",
			FormatSize(cur.TotalSize), FormatSize(cur.TotalBlocks),
			FormatCount(cur.TotalFiles), FormatCount(cur.TotalDirs), FormatCount(cur.TotalLinks))))
	}
	if m.showDetails {
		bottom = append(bottom, m.detailLines()...)
	}
	help := m.helpLine()
	if len(m.rows) > 0 {
		help = fmt.Sprintf("%s [%d/%d]", help, m.cursor+1, len(m.rows))
	}
	bottom = append(bottom, helpStyle.Render(help))

	var b strings.Builder
	for _, line := range top {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	for i := first; i < last; i++ {
		b.WriteString(m.rowLine(cols, &m.rows[i], i == m.cursor, nameWidth))
		b.WriteByte('\n')
	}
	for i := last - first; i < m.listHeight(len(top)+m.footerHeight()); i++ {
		b.WriteByte('\n')
	}
	b.WriteString(strings.Join(bottom, "\n"))
	return b.String()
}

func (m *Model) catalogLine() string {
	return fmt.Sprintf("Catalog: %s | Apparent: %s | Disk: %s | Files: %s | Dirs: %s | Links: %s",
		m.catalogName(),
		FormatSize(m.summary.TotalSize),
		FormatSize(m.rollups.Get("/").TotalBlocks),
		FormatCount(m.summary.Files),
		FormatCount(m.summary.Dirs),
		FormatCount(m.summary.Symlinks),
	)
}

func (m *Model) statusLine() string {
	status := "Items: " + FormatCount(int64(len(m.rows)))
	if sel, ok := m.selected(); ok {
		status += fmt.Sprintf(" | Sel: %s (%s/%s)",
			sel.Name, FormatSize(sel.TotalSize), FormatSize(sel.TotalBlocks))
	}
	return status
}

func (m *Model) footerHeight() int {
	n := 3 // blank line, directory totals, help
	if m.showDetails {
		n += 2
	}
	return n
}

func (m *Model) listHeight(reserved int) int {
	return max(5, m.height-reserved)
}

// visibleRange returns the slice of rows that fits on screen and keeps the
// cursor visible.
func (m *Model) visibleRange(reserved int) (int, int) {
	height := m.listHeight(reserved)
	first := 0
	if m.cursor >= height {
		first = m.cursor - height + 1
	}
	return first, min(len(m.rows), first+height)
}

// fitColumns sizes every column to its widest visible value and returns
// the width left for names.
func (m *Model) fitColumns(cols []column, first, last int) int {
	used := barWidth + colGap
	for i := range cols {
		c := &cols[i]
		c.width = len(m.label(c))
		for j := first; j < last; j++ {
			c.width = max(c.width, len(c.value(&m.rows[j])))
		}
		used += c.width + colGap
	}
	return max(minNameWidth, m.width-used-colGap)
}

func (m *Model) label(c *column) string {
	if c.sort == m.sort {
		return c.label + "v"
	}
	return c.label
}

func (m *Model) headerLine(cols []column, nameWidth int) string {
	var b strings.Builder
	for i := range cols {
		fmt.Fprintf(&b, "%*s%*s", cols[i].width, m.label(&cols[i]), colGap, "")
	}
	name := "NAME"
	if m.sort == SortByName {
		name += "^"
	}
	fmt.Fprintf(&b, "%*s%-*s%*s%*s", colGap, "", nameWidth, truncateRight(name, nameWidth), colGap, "", barWidth, m.barLabel())
	return b.String()
}

func (m *Model) rowLine(cols []column, r *rollup.Row, selected bool, nameWidth int) string {
	var b strings.Builder
	for i := range cols {
		fmt.Fprintf(&b, "%*s%*s", cols[i].width, cols[i].value(r), colGap, "")
	}

	name, style := r.Name, fileStyle
	switch r.Kind {
	case entry.KindDir:
		name, style = name+"/", dirStyle
	case entry.KindSymlink:
		name, style = name+"@", symlinkStyle
	}
	name = truncateRight(name, nameWidth)
	b.WriteString(strings.Repeat(" ", colGap))
	b.WriteString(style.Render(name))
	b.WriteString(strings.Repeat(" ", nameWidth-len(name)+colGap))
	b.WriteString(m.bar(r))

	if selected {
		return selectedStyle.Render(b.String())
	}
	return b.String()
}

func (m *Model) barLabel() string {
	switch m.sort {
	case SortByDisk:
		return "DISK%"
	case SortByFiles:
		return "FILE%"
	default:
		return "SIZE%"
	}
}

// bar renders the row's share of the current directory for the active
// sort measure.
func (m *Model) bar(r *rollup.Row) string {
	var part, whole int64
	if cur := m.current(); cur != nil {
		switch m.sort {
		case SortByDisk:
			part, whole = r.TotalBlocks, cur.TotalBlocks
		case SortByFiles:
			part, whole = r.TotalFiles, cur.TotalFiles
		default:
			part, whole = r.TotalSize, cur.TotalSize
		}
	}

	pct := 0.0
	if part > 0 && whole > 0 {
		pct = math.Min(100, float64(part)/float64(whole)*100)
	}
	filled := int(math.Round(pct / 100 * barBlocks))
	if filled == 0 && part > 0 {
		filled = 1
	}
	return barFilledStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", barBlocks-filled)) +
		fmt.Sprintf("  %3d%%", int(math.Round(pct)))
}

// detailLines describes the selected row's catalog metadata and attributes.
func (m *Model) detailLines() []string {
	sel, ok := m.selected()
	if !ok {
		return []string{statsStyle.Render("No selection"), ""}
	}
	e := &sel.Entry
	meta := fmt.Sprintf("%s  inode %d  dev %d  uid:gid %d:%d  links %d  mtime %s",
		e.FileMode(), e.Inode, e.Device, e.UID, e.GID, e.LinkCount,
		e.Mtime().Format(time.DateTime))

	attrs := "No attributes"
	if m.attrsPath != sel.Path {
		attrs = "Loading attributes..."
	} else if len(m.attrs) > 0 {
		pairs := make([]string, 0, len(m.attrs))
		for _, a := range m.attrs {
			pairs = append(pairs, a.Name+"="+a.Value)
		}
		attrs = "Attributes: " + strings.Join(pairs, ", ")
	}
	return []string{
		detailStyle.Render(truncateRight(meta, max(minNameWidth, m.width))),
		detailStyle.Render(truncateRight(attrs, max(minNameWidth, m.width))),
	}
}

func truncateRight(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

func truncateMiddle(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	head := (maxLen - 3) / 2
	tail := maxLen - 3 - head
	return s[:head] + "..." + s[len(s)-tail:]
}
