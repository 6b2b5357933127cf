package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ownlyhq/ownly/pkg/locfilter"
	"github.com/ownlyhq/ownly/pkg/model"
)

// FilterAppliedMsg is emitted when the user commits a location selection.
// An empty ID means "All Locations" (no filter).
type FilterAppliedMsg struct {
	ID model.LocationID
}

// FilterClosedMsg is emitted when the sheet is dismissed without applying.
type FilterClosedMsg struct{}

// sheetRow is one visible line in the sheet: either the synthetic
// "All Locations" row (node == nil) or a location node from the
// pruned forest.
type sheetRow struct {
	node *model.LocationNode
}

// FilterSheet is the location filter overlay. It owns a locfilter.Session
// for the lifetime of one opening; closing the sheet discards the session,
// so search text and un-applied selection changes never persist.
type FilterSheet struct {
	theme  Theme
	width  int
	height int

	locations []model.Location
	counts    map[model.LocationID]int
	roots     []*model.LocationNode

	session *locfilter.Session
	rows    []sheetRow

	cursor         int
	viewportOffset int
	searchMode     bool
}

// NewFilterSheet opens a sheet seeded from the currently applied location.
func NewFilterSheet(theme Theme, locations []model.Location, counts map[model.LocationID]int, applied model.LocationID) FilterSheet {
	roots, _ := model.BuildLocationForest(locations)
	s := FilterSheet{
		theme:     theme,
		width:     80,
		height:    20,
		locations: locations,
		counts:    counts,
		roots:     roots,
		session:   locfilter.NewSession(applied, locations),
	}
	s.rebuildRows()
	s.cursorToSelected()
	return s
}

// SetSize sets the available width and height for rendering.
func (s *FilterSheet) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.ensureCursorVisible()
}

// Session exposes the underlying filter session for tests and the root model.
func (s *FilterSheet) Session() *locfilter.Session { return s.session }

// Rows returns the number of visible rows including "All Locations".
func (s *FilterSheet) Rows() int { return len(s.rows) }

// Cursor returns the current cursor index into the visible rows.
func (s *FilterSheet) Cursor() int { return s.cursor }

// CursorLocation returns the location under the cursor, or "" for the
// "All Locations" row.
func (s *FilterSheet) CursorLocation() model.LocationID {
	if s.cursor < 0 || s.cursor >= len(s.rows) {
		return ""
	}
	row := s.rows[s.cursor]
	if row.node == nil {
		return ""
	}
	return row.node.ID
}

// InSearchMode reports whether the search input is capturing keystrokes.
func (s *FilterSheet) InSearchMode() bool { return s.searchMode }

// rebuildRows flattens the pruned forest into the visible row list.
// Children are walked only under effectively expanded nodes, so the
// row list already respects both manual toggles and search expansion.
func (s *FilterSheet) rebuildRows() {
	visible := s.session.VisibleTree(s.roots)

	rows := make([]sheetRow, 0, len(s.locations)+1)
	rows = append(rows, sheetRow{node: nil}) // All Locations

	var walk func(nodes []*model.LocationNode)
	walk = func(nodes []*model.LocationNode) {
		for _, n := range nodes {
			rows = append(rows, sheetRow{node: n})
			if len(n.Children) > 0 && s.session.Expanded(n.ID) {
				walk(n.Children)
			}
		}
	}
	walk(visible)

	s.rows = rows
	if s.cursor >= len(s.rows) {
		s.cursor = len(s.rows) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
	s.ensureCursorVisible()
}

// cursorToSelected moves the cursor onto the currently selected row if it is
// visible, so the sheet opens focused on the active filter.
func (s *FilterSheet) cursorToSelected() {
	selected := s.session.Selected()
	if selected == "" {
		s.cursor = 0
		return
	}
	for i, row := range s.rows {
		if row.node != nil && row.node.ID == selected {
			s.cursor = i
			break
		}
	}
	s.ensureCursorVisible()
}

// Update handles key input. It returns the updated sheet, an optional
// command, and whether the sheet should stay open.
func (s FilterSheet) Update(msg tea.Msg) (FilterSheet, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil, true
	}

	if s.searchMode {
		return s.updateSearch(keyMsg)
	}

	switch keyMsg.String() {
	case "j", "down":
		s.moveCursor(1)

	case "k", "up":
		s.moveCursor(-1)

	case "g", "home":
		s.cursor = 0
		s.ensureCursorVisible()

	case "G", "end":
		s.cursor = len(s.rows) - 1
		s.ensureCursorVisible()

	case " ", "tab":
		if id := s.CursorLocation(); id != "" {
			s.session.ToggleExpand(id)
			s.rebuildRows()
		}

	case "enter", "a":
		s.session.Select(s.CursorLocation())
		applied := s.session.Apply()
		return s, func() tea.Msg { return FilterAppliedMsg{ID: applied} }, false

	case "x":
		s.session.ClearSelection()
		s.cursor = 0
		s.ensureCursorVisible()

	case "/":
		s.searchMode = true

	case "esc", "q":
		return s, func() tea.Msg { return FilterClosedMsg{} }, false
	}

	return s, nil, true
}

// updateSearch handles keys while the search input is active.
func (s FilterSheet) updateSearch(msg tea.KeyMsg) (FilterSheet, tea.Cmd, bool) {
	switch msg.Type {
	case tea.KeyEsc:
		// Cancel the search entirely.
		s.searchMode = false
		s.session.SetQuery("")
		s.rebuildRows()

	case tea.KeyEnter:
		// Keep the query, return focus to the tree.
		s.searchMode = false

	case tea.KeyBackspace:
		q := s.session.Query()
		if q != "" {
			runes := []rune(q)
			s.session.SetQuery(string(runes[:len(runes)-1]))
			s.rebuildRows()
		}

	case tea.KeySpace:
		s.session.SetQuery(s.session.Query() + " ")
		s.rebuildRows()

	case tea.KeyRunes:
		s.session.SetQuery(s.session.Query() + string(msg.Runes))
		s.rebuildRows()
	}

	return s, nil, true
}

func (s *FilterSheet) moveCursor(delta int) {
	s.cursor += delta
	if s.cursor < 0 {
		s.cursor = 0
	}
	if s.cursor >= len(s.rows) {
		s.cursor = len(s.rows) - 1
	}
	s.ensureCursorVisible()
}

// effectiveVisibleCount is the number of rows that fit between the header
// and the footer.
func (s *FilterSheet) effectiveVisibleCount() int {
	reserved := 4 // header, search bar, footer, spacing
	n := s.height - reserved
	if n < 1 {
		n = 1
	}
	return n
}

func (s *FilterSheet) visibleRange() (int, int) {
	count := s.effectiveVisibleCount()
	start := s.viewportOffset
	if start < 0 {
		start = 0
	}
	end := start + count
	if end > len(s.rows) {
		end = len(s.rows)
	}
	return start, end
}

func (s *FilterSheet) ensureCursorVisible() {
	count := s.effectiveVisibleCount()
	if s.cursor < s.viewportOffset {
		s.viewportOffset = s.cursor
	}
	if s.cursor >= s.viewportOffset+count {
		s.viewportOffset = s.cursor - count + 1
	}
	if s.viewportOffset < 0 {
		s.viewportOffset = 0
	}
}

// View renders the sheet.
func (s FilterSheet) View() string {
	var sb strings.Builder

	sb.WriteString(s.theme.Header.Render("Filter by Location"))
	sb.WriteString("\n")

	sb.WriteString(s.renderSearchBar())
	sb.WriteString("\n")

	if len(s.locations) == 0 {
		sb.WriteString(s.theme.MutedText.Render("No locations yet."))
		sb.WriteString("\n")
		sb.WriteString(s.theme.MutedText.Render("Add locations in the app to filter by them."))
		return sb.String()
	}

	start, end := s.visibleRange()
	for i := start; i < end; i++ {
		line := s.renderRow(s.rows[i], i == s.cursor)
		if i == s.cursor {
			line = s.theme.Selected.Render(line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	sb.WriteString(s.renderFooter(start, end))
	return sb.String()
}

func (s FilterSheet) renderSearchBar() string {
	q := s.session.Query()
	if s.searchMode {
		return s.theme.PrimaryBold.Render("/") + s.theme.Base.Render(q) + s.theme.PrimaryBold.Render("▎")
	}
	if s.session.HasSearch() {
		label := fmt.Sprintf("/%s  (%d matches)", q, s.session.MatchCount())
		return s.theme.SecondaryText.Render(label)
	}
	return s.theme.MutedText.Render("Press / to search")
}

func (s FilterSheet) renderFooter(start, end int) string {
	var parts []string
	if len(s.rows) > s.effectiveVisibleCount() {
		parts = append(parts, fmt.Sprintf("%d-%d of %d", start+1, end, len(s.rows)))
	}
	parts = append(parts, "enter apply · space expand · x all · esc close")
	return s.theme.MutedText.Render(strings.Join(parts, "  "))
}

// renderRow renders a single row: [branch prefix] [expand] [icon] [name] [✓] [count]
func (s FilterSheet) renderRow(row sheetRow, isSelected bool) string {
	if row.node == nil {
		return s.renderAllLocationsRow()
	}

	node := row.node
	var sb strings.Builder

	sb.WriteString(s.buildBranchPrefix(node))

	switch {
	case len(node.Children) == 0:
		sb.WriteString(s.theme.MutedText.Render("·"))
	case s.session.Expanded(node.ID):
		sb.WriteString(s.theme.SecondaryText.Render("▾"))
	default:
		sb.WriteString(s.theme.SecondaryText.Render("▸"))
	}
	sb.WriteString(" ")

	if node.Icon != "" {
		sb.WriteString(node.Icon)
		sb.WriteString(" ")
	}

	name := truncate(node.Name, s.nameWidth(node))
	if s.session.Matches(node.ID) {
		name = highlightMatch(name, s.session.Query(), func(v string) string { return s.theme.MatchText.Render(v) })
		sb.WriteString(name)
	} else if s.session.HasSearch() {
		// Ancestors kept only for context are dimmed.
		sb.WriteString(s.theme.MutedText.Render(name))
	} else {
		sb.WriteString(s.theme.LocationText.Render(name))
	}

	if s.session.Selected() == node.ID {
		sb.WriteString(" ")
		sb.WriteString(s.theme.CheckMark.Render("✓"))
	}

	if n := s.counts[node.ID]; n > 0 {
		sb.WriteString(" ")
		sb.WriteString(s.theme.CountBadge.Render(fmt.Sprintf("(%d)", n)))
	}

	return sb.String()
}

func (s FilterSheet) renderAllLocationsRow() string {
	var sb strings.Builder
	sb.WriteString(s.theme.Base.Render("All Locations"))
	if s.session.Selected() == "" {
		sb.WriteString(" ")
		sb.WriteString(s.theme.CheckMark.Render("✓"))
	}
	total := 0
	for _, n := range s.counts {
		total += n
	}
	if total > 0 {
		sb.WriteString(" ")
		sb.WriteString(s.theme.CountBadge.Render(fmt.Sprintf("(%d)", total)))
	}
	return sb.String()
}

// buildBranchPrefix draws the tree guide characters for a node based on its
// ancestor chain: "│   " under ancestors with siblings below, "    "
// otherwise, then "├── " or "└── " for the node itself.
func (s FilterSheet) buildBranchPrefix(node *model.LocationNode) string {
	if node.Depth == 0 {
		return ""
	}

	ancestors := make([]*model.LocationNode, 0, node.Depth)
	for p := node.Parent; p != nil; p = p.Parent {
		ancestors = append([]*model.LocationNode{p}, ancestors...)
	}

	var sb strings.Builder
	for _, a := range ancestors[1:] {
		if hasVisibleSiblingBelow(a) {
			sb.WriteString("│   ")
		} else {
			sb.WriteString("    ")
		}
	}
	if hasVisibleSiblingBelow(node) {
		sb.WriteString("├── ")
	} else {
		sb.WriteString("└── ")
	}
	return s.theme.MutedText.Render(sb.String())
}

func hasVisibleSiblingBelow(node *model.LocationNode) bool {
	if node.Parent == nil {
		return false
	}
	siblings := node.Parent.Children
	for i, sib := range siblings {
		if sib.ID == node.ID {
			return i < len(siblings)-1
		}
	}
	return false
}

func (s FilterSheet) nameWidth(node *model.LocationNode) int {
	w := s.width - 4*node.Depth - 12
	if w < 10 {
		w = 10
	}
	return w
}
