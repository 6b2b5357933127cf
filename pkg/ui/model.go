package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/ownlyhq/ownly/internal/datasource"
	"github.com/ownlyhq/ownly/pkg/config"
	"github.com/ownlyhq/ownly/pkg/debug"
	"github.com/ownlyhq/ownly/pkg/locfilter"
	"github.com/ownlyhq/ownly/pkg/model"
)

// InventoryReloadedMsg carries a freshly loaded inventory into the model,
// either from a manual reload or a file-change notification.
type InventoryReloadedMsg struct {
	Inventory *datasource.Inventory
	Err       error
}

// FileChangedMsg signals that the watched source file changed on disk.
type FileChangedMsg struct{}

// StatusClearMsg clears the transient status line.
type StatusClearMsg struct{}

// statusVisibleFor is how long a transient status stays on screen.
const statusVisibleFor = 3 * time.Second

func clearStatusAfter() tea.Cmd {
	return tea.Tick(statusVisibleFor, func(time.Time) tea.Msg {
		return StatusClearMsg{}
	})
}

// SortMode orders the visible item list.
type SortMode int

const (
	SortUpdated SortMode = iota
	SortName
	SortValue
)

func (s SortMode) String() string {
	switch s {
	case SortName:
		return "name"
	case SortValue:
		return "value"
	default:
		return "updated"
	}
}

func sortModeFromString(s string) SortMode {
	switch s {
	case "name":
		return SortName
	case "value":
		return SortValue
	default:
		return SortUpdated
	}
}

// InventoryModel is the root bubbletea model: the item list, the location
// filter sheet overlay, and the markdown detail pane.
type InventoryModel struct {
	theme  Theme
	width  int
	height int

	inventory *datasource.Inventory
	locations []model.Location
	items     []model.Item
	byID      map[model.LocationID]model.Location
	nodeByID  map[model.LocationID]*model.LocationNode
	counts    map[model.LocationID]int

	appliedFilter model.LocationID // "" = All Locations
	visibleItems  []model.Item

	cursor         int
	viewportOffset int
	sortMode       SortMode
	showValues     bool
	headless       bool

	spin      spinner.Model
	reloading bool

	sheet     FilterSheet
	sheetOpen bool

	detailOpen     bool
	detailViewport viewport.Model

	status string
	err    error

	// reload hooks, wired by cmd/ownly
	reloadFn func() (*datasource.Inventory, error)
	changes  <-chan struct{}
}

// NewModel builds the root model from a loaded inventory and config.
func NewModel(inv *datasource.Inventory, cfg config.Config, theme Theme) InventoryModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.SecondaryText

	m := InventoryModel{
		theme:      theme,
		width:      80,
		height:     24,
		sortMode:   sortModeFromString(cfg.UI.DefaultSort),
		showValues: cfg.UI.ShowValues,
		headless:   cfg.UI.Headless,
		spin:       sp,
	}
	m.setInventory(inv)
	return m
}

// SetReloadFn wires the function used to reload the inventory from disk.
func (m *InventoryModel) SetReloadFn(fn func() (*datasource.Inventory, error)) {
	m.reloadFn = fn
}

// SetChangeChannel wires the watcher's change channel for live reload.
func (m *InventoryModel) SetChangeChannel(ch <-chan struct{}) {
	m.changes = ch
}

// AppliedFilter returns the committed location filter ("" = all).
func (m InventoryModel) AppliedFilter() model.LocationID { return m.appliedFilter }

// VisibleItems returns the items after filtering and sorting.
func (m InventoryModel) VisibleItems() []model.Item { return m.visibleItems }

// SheetOpen reports whether the location filter sheet is showing.
func (m InventoryModel) SheetOpen() bool { return m.sheetOpen }

// Err returns the last load error, if any.
func (m InventoryModel) Err() error { return m.err }

func (m *InventoryModel) setInventory(inv *datasource.Inventory) {
	m.inventory = inv
	if inv == nil {
		m.locations = nil
		m.items = nil
	} else {
		m.locations = inv.Locations
		m.items = inv.Items
	}
	m.byID = model.IndexLocations(m.locations)
	_, m.nodeByID = model.BuildLocationForest(m.locations)
	m.counts = model.CountItemsByLocation(m.items)

	// A filter pointing at a location that no longer exists falls back to all.
	if m.appliedFilter != "" {
		if _, ok := m.byID[m.appliedFilter]; !ok {
			m.appliedFilter = ""
		}
	}
	m.applyFilter()
}

// applyFilter recomputes the visible item list. Filtering is descendant
// inclusive: an applied location shows its own items plus everything stored
// anywhere beneath it.
func (m *InventoryModel) applyFilter() {
	if m.appliedFilter == "" {
		m.visibleItems = append([]model.Item(nil), m.items...)
	} else {
		ids := locfilter.DescendantsOf(m.appliedFilter, m.nodeByID)
		m.visibleItems = m.visibleItems[:0]
		for _, it := range m.items {
			if ids.Has(it.LocationID) {
				m.visibleItems = append(m.visibleItems, it)
			}
		}
	}
	m.sortVisible()

	if m.cursor >= len(m.visibleItems) {
		m.cursor = len(m.visibleItems) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureCursorVisible()
}

func (m *InventoryModel) sortVisible() {
	items := m.visibleItems
	switch m.sortMode {
	case SortName:
		sort.SliceStable(items, func(i, j int) bool {
			return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
		})
	case SortValue:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].ValueCents > items[j].ValueCents
		})
	default:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].UpdatedAt.After(items[j].UpdatedAt)
		})
	}
}

// Init starts listening for file changes when a watcher is wired.
func (m InventoryModel) Init() tea.Cmd {
	return m.waitForChange()
}

func (m InventoryModel) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	ch := m.changes
	return func() tea.Msg {
		_, ok := <-ch
		if !ok {
			return nil
		}
		return FileChangedMsg{}
	}
}

func (m InventoryModel) reloadCmd() tea.Cmd {
	if m.reloadFn == nil {
		return nil
	}
	fn := m.reloadFn
	return func() tea.Msg {
		start := time.Now()
		inv, err := fn()
		debug.LogTiming("reload", time.Since(start))
		return InventoryReloadedMsg{Inventory: inv, Err: err}
	}
}

// Update is the bubbletea message loop.
func (m InventoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.sheet.SetSize(msg.Width, msg.Height)
		if m.detailOpen {
			m.detailViewport.Width = msg.Width
			m.detailViewport.Height = msg.Height - 2
		}
		m.ensureCursorVisible()
		return m, nil

	case FileChangedMsg:
		debug.Log("ui: source file changed, reloading")
		m.reloading = true
		return m, tea.Batch(m.reloadCmd(), m.spin.Tick, m.waitForChange())

	case spinner.TickMsg:
		if !m.reloading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case InventoryReloadedMsg:
		m.reloading = false
		if msg.Err != nil {
			m.err = msg.Err
			m.status = "reload failed: " + msg.Err.Error()
			return m, nil
		}
		m.err = nil
		m.setInventory(msg.Inventory)
		m.status = "reloaded"
		return m, clearStatusAfter()

	case FilterAppliedMsg:
		m.sheetOpen = false
		m.appliedFilter = msg.ID
		m.applyFilter()
		if msg.ID == "" {
			m.status = "filter cleared"
		} else {
			m.status = "filtering: " + model.PathString(msg.ID, m.byID)
		}
		return m, clearStatusAfter()

	case FilterClosedMsg:
		m.sheetOpen = false
		return m, nil

	case StatusClearMsg:
		m.status = ""
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m InventoryModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.sheetOpen {
		sheet, cmd, open := m.sheet.Update(msg)
		m.sheet = sheet
		m.sheetOpen = open
		return m, cmd
	}

	if m.detailOpen {
		switch msg.String() {
		case "esc", "q", "enter", "v":
			m.detailOpen = false
		default:
			// Viewport handles scrolling (j/k, pgup/pgdn, arrows).
			var cmd tea.Cmd
			m.detailViewport, cmd = m.detailViewport.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "j", "down":
		m.moveCursor(1)

	case "k", "up":
		m.moveCursor(-1)

	case "g", "home":
		m.cursor = 0
		m.ensureCursorVisible()

	case "G", "end":
		m.cursor = len(m.visibleItems) - 1
		if m.cursor < 0 {
			m.cursor = 0
		}
		m.ensureCursorVisible()

	case "f":
		m.sheet = NewFilterSheet(m.theme, m.locations, m.counts, m.appliedFilter)
		m.sheet.SetSize(m.width, m.height)
		m.sheetOpen = true

	case "F":
		m.appliedFilter = ""
		m.applyFilter()
		m.status = "filter cleared"
		return m, clearStatusAfter()

	case "s":
		m.sortMode = (m.sortMode + 1) % 3
		m.applyFilter()
		m.status = "sort: " + m.sortMode.String()
		return m, clearStatusAfter()

	case "c":
		if item, ok := m.selectedItem(); ok {
			path := model.PathString(item.LocationID, m.byID)
			if path == "" {
				path = item.Name
			} else {
				path = path + " / " + item.Name
			}
			if err := clipboard.WriteAll(path); err != nil {
				m.status = "clipboard unavailable"
			} else {
				m.status = "copied: " + path
			}
			return m, clearStatusAfter()
		}

	case "enter", "v":
		if item, ok := m.selectedItem(); ok {
			vpHeight := m.height - 2
			if vpHeight < 5 {
				vpHeight = 5
			}
			m.detailViewport = viewport.New(m.width, vpHeight)
			m.detailViewport.SetContent(m.renderDetail(item))
			m.detailOpen = true
		}

	case "r":
		if cmd := m.reloadCmd(); cmd != nil {
			m.reloading = true
			return m, tea.Batch(cmd, m.spin.Tick)
		}
	}

	return m, nil
}

func (m *InventoryModel) selectedItem() (model.Item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visibleItems) {
		return model.Item{}, false
	}
	return m.visibleItems[m.cursor], true
}

func (m *InventoryModel) moveCursor(delta int) {
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.visibleItems) {
		m.cursor = len(m.visibleItems) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureCursorVisible()
}

func (m *InventoryModel) effectiveVisibleCount() int {
	reserved := 4 // header, column row, status, footer
	n := m.height - reserved
	if n < 1 {
		n = 1
	}
	return n
}

func (m *InventoryModel) visibleRange() (int, int) {
	count := m.effectiveVisibleCount()
	start := m.viewportOffset
	if start < 0 {
		start = 0
	}
	end := start + count
	if end > len(m.visibleItems) {
		end = len(m.visibleItems)
	}
	return start, end
}

func (m *InventoryModel) ensureCursorVisible() {
	count := m.effectiveVisibleCount()
	if m.cursor < m.viewportOffset {
		m.viewportOffset = m.cursor
	}
	if m.cursor >= m.viewportOffset+count {
		m.viewportOffset = m.cursor - count + 1
	}
	if m.viewportOffset < 0 {
		m.viewportOffset = 0
	}
}

// renderDetail renders an item's notes as markdown through glamour, with a
// small header of the item's facts. Falls back to raw text if the renderer
// fails (e.g. odd TERM settings).
func (m *InventoryModel) renderDetail(item model.Item) string {
	var md strings.Builder
	fmt.Fprintf(&md, "# %s\n\n", item.Name)
	if path := model.PathString(item.LocationID, m.byID); path != "" {
		fmt.Fprintf(&md, "**Location:** %s\n\n", path)
	}
	if item.Quantity > 1 {
		fmt.Fprintf(&md, "**Quantity:** %d\n\n", item.Quantity)
	}
	if item.ValueCents != 0 {
		fmt.Fprintf(&md, "**Value:** %s\n\n", FormatValue(item.ValueCents))
	}
	if item.Notes != "" {
		md.WriteString(item.Notes)
		md.WriteString("\n")
	}

	width := m.width - 4
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md.String()
	}
	out, err := r.Render(md.String())
	if err != nil {
		return md.String()
	}
	return out
}

// View renders the whole screen.
func (m InventoryModel) View() string {
	if m.sheetOpen {
		return m.sheet.View()
	}
	if m.detailOpen {
		return m.detailViewport.View() + "\n" + m.theme.MutedText.Render("j/k scroll · esc back")
	}

	var sb strings.Builder
	sb.WriteString(m.renderHeader())
	sb.WriteString("\n")

	if len(m.visibleItems) == 0 {
		sb.WriteString(m.renderEmptyState())
	} else {
		start, end := m.visibleRange()
		for i := start; i < end; i++ {
			line := m.renderItemRow(m.visibleItems[i])
			if i == m.cursor {
				line = m.theme.Selected.Render(line)
			}
			sb.WriteString(line)
			sb.WriteString("\n")
		}
		if len(m.visibleItems) > m.effectiveVisibleCount() {
			sb.WriteString(m.theme.MutedText.Render(
				fmt.Sprintf(" %d-%d of %d", start+1, end, len(m.visibleItems))))
			sb.WriteString("\n")
		}
	}

	sb.WriteString(m.renderFooter())
	return sb.String()
}

func (m InventoryModel) renderHeader() string {
	title := "ownly"
	if m.inventory != nil {
		title = fmt.Sprintf("ownly · %s", m.inventory.SourcePath)
	}

	var header string
	if m.headless {
		header = m.theme.SecondaryText.Render(title)
	} else {
		header = m.theme.Header.Render(title)
	}

	if m.appliedFilter != "" {
		path := model.PathString(m.appliedFilter, m.byID)
		header += " " + m.theme.CheckMark.Render("▸ "+path)
	}
	return header
}

func (m InventoryModel) renderEmptyState() string {
	var sb strings.Builder
	if m.appliedFilter != "" {
		sb.WriteString(m.theme.MutedText.Render("No items in this location."))
		sb.WriteString("\n")
		sb.WriteString(m.theme.MutedText.Render("Press F to clear the filter."))
	} else {
		sb.WriteString(m.theme.MutedText.Render("No items yet."))
	}
	sb.WriteString("\n")
	return sb.String()
}

func (m InventoryModel) renderItemRow(item model.Item) string {
	nameWidth := m.width / 2
	if nameWidth < 20 {
		nameWidth = 20
	}

	var sb strings.Builder
	sb.WriteString(padRight(truncate(item.Name, nameWidth), nameWidth))
	sb.WriteString("  ")

	loc := model.PathString(item.LocationID, m.byID)
	if loc == "" {
		loc = "(no location)"
	}
	sb.WriteString(m.theme.LocationText.Render(padRight(truncate(loc, 24), 24)))

	if m.showValues {
		if v := FormatValue(item.ValueCents); v != "" {
			sb.WriteString("  ")
			sb.WriteString(m.theme.ValueText.Render(v))
		}
	}

	sb.WriteString("  ")
	sb.WriteString(m.theme.MutedText.Render(FormatTimeRel(item.UpdatedAt)))
	return sb.String()
}

func (m InventoryModel) renderFooter() string {
	if m.reloading {
		return m.spin.View() + m.theme.SecondaryText.Render(" reloading")
	}
	if m.status != "" {
		return m.theme.StatusText.Render(m.status)
	}
	help := "j/k move · f filter · F clear · enter notes · c copy path · s sort · r reload · q quit"
	return m.theme.MutedText.Render(help)
}
