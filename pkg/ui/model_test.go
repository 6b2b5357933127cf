package ui_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ownlyhq/ownly/internal/datasource"
	"github.com/ownlyhq/ownly/pkg/config"
	"github.com/ownlyhq/ownly/pkg/model"
	"github.com/ownlyhq/ownly/pkg/ui"
)

func testInventory() *datasource.Inventory {
	now := time.Now()
	return &datasource.Inventory{
		Locations: sheetLocations(),
		Items: []model.Item{
			{ID: "i1", Name: "Drill", LocationID: "garage", ValueCents: 12999, UpdatedAt: now.Add(-time.Hour)},
			{ID: "i2", Name: "Screwdriver set", LocationID: "shelf-a", ValueCents: 2500, UpdatedAt: now.Add(-2 * time.Hour)},
			{ID: "i3", Name: "Blender", LocationID: "kitchen", ValueCents: 8900, UpdatedAt: now.Add(-3 * time.Hour)},
			{ID: "i4", Name: "Monitor", LocationID: "office", ValueCents: 34900, UpdatedAt: now},
		},
		SourcePath: "/tmp/.ownly/ownly.db",
		SourceType: datasource.SourceTypeSQLite,
	}
}

func newTestModel() ui.InventoryModel {
	return ui.NewModel(testInventory(), config.DefaultConfig(), ui.TestTheme())
}

func updateModel(t *testing.T, m ui.InventoryModel, msg tea.Msg) ui.InventoryModel {
	t.Helper()
	updated, _ := m.Update(msg)
	out, ok := updated.(ui.InventoryModel)
	if !ok {
		t.Fatalf("Update returned %T, want InventoryModel", updated)
	}
	return out
}

func TestModelShowsAllItemsUnfiltered(t *testing.T) {
	m := newTestModel()
	if got := len(m.VisibleItems()); got != 4 {
		t.Errorf("expected 4 items with no filter, got %d", got)
	}
	if m.AppliedFilter() != "" {
		t.Errorf("filter should start empty, got %q", m.AppliedFilter())
	}
}

func TestModelFilterIncludesDescendants(t *testing.T) {
	m := newTestModel()
	m = updateModel(t, m, ui.FilterAppliedMsg{ID: "garage"})

	items := m.VisibleItems()
	if len(items) != 2 {
		t.Fatalf("garage filter should show garage + shelf items, got %d", len(items))
	}
	for _, it := range items {
		if it.LocationID != "garage" && it.LocationID != "shelf-a" {
			t.Errorf("unexpected item %q at %q", it.Name, it.LocationID)
		}
	}
}

func TestModelClearFilterWithF(t *testing.T) {
	m := newTestModel()
	m = updateModel(t, m, ui.FilterAppliedMsg{ID: "kitchen"})
	if len(m.VisibleItems()) != 1 {
		t.Fatalf("setup: kitchen filter should show 1 item")
	}

	m = updateModel(t, m, keyRunes("F"))
	if m.AppliedFilter() != "" {
		t.Errorf("F should clear the filter, got %q", m.AppliedFilter())
	}
	if len(m.VisibleItems()) != 4 {
		t.Errorf("all items should return, got %d", len(m.VisibleItems()))
	}
}

func TestModelOpensSheetWithF(t *testing.T) {
	m := newTestModel()
	if m.SheetOpen() {
		t.Fatal("sheet should start closed")
	}
	m = updateModel(t, m, keyRunes("f"))
	if !m.SheetOpen() {
		t.Error("f should open the filter sheet")
	}
}

func TestModelSheetFlowAppliesFilter(t *testing.T) {
	m := newTestModel()
	m = updateModel(t, m, keyRunes("f"))

	// Navigate: Home, expand, Garage, apply.
	m = updateModel(t, m, keyRunes("j"))
	m = updateModel(t, m, tea.KeyMsg{Type: tea.KeySpace})
	m = updateModel(t, m, keyRunes("j"))
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(ui.InventoryModel)
	if cmd == nil {
		t.Fatal("enter in the sheet should emit a command")
	}
	m = updateModel(t, m, cmd())

	if m.SheetOpen() {
		t.Error("sheet should be closed after apply")
	}
	if m.AppliedFilter() != "garage" {
		t.Errorf("applied filter %q, want garage", m.AppliedFilter())
	}
}

func TestModelReopeningSheetForgetsSearch(t *testing.T) {
	m := newTestModel()
	m = updateModel(t, m, keyRunes("f"))
	m = updateModel(t, m, keyRunes("/"))
	m = updateModel(t, m, keyRunes("shelf"))
	m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEsc}) // leave search
	m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEsc}) // close sheet
	m = updateModel(t, m, ui.FilterClosedMsg{})

	m = updateModel(t, m, keyRunes("f"))
	if !m.SheetOpen() {
		t.Fatal("sheet should reopen")
	}
	view := m.View()
	if strings.Contains(view, "shelf") && strings.Contains(view, "matches") {
		t.Error("search state leaked across sheet openings")
	}
}

func TestModelSortCycling(t *testing.T) {
	m := newTestModel()

	// Default sort is updated desc: Monitor first.
	if m.VisibleItems()[0].Name != "Monitor" {
		t.Fatalf("default sort broken, first item %q", m.VisibleItems()[0].Name)
	}

	m = updateModel(t, m, keyRunes("s")) // name
	if m.VisibleItems()[0].Name != "Blender" {
		t.Errorf("name sort: first item %q, want Blender", m.VisibleItems()[0].Name)
	}

	m = updateModel(t, m, keyRunes("s")) // value desc
	if m.VisibleItems()[0].Name != "Monitor" {
		t.Errorf("value sort: first item %q, want Monitor", m.VisibleItems()[0].Name)
	}
}

func TestModelReloadReplacesInventory(t *testing.T) {
	m := newTestModel()

	fresh := testInventory()
	fresh.Items = fresh.Items[:1]
	m = updateModel(t, m, ui.InventoryReloadedMsg{Inventory: fresh})

	if len(m.VisibleItems()) != 1 {
		t.Errorf("reload should replace items, got %d", len(m.VisibleItems()))
	}
	if m.Err() != nil {
		t.Errorf("unexpected error: %v", m.Err())
	}
}

func TestModelReloadErrorKeepsOldData(t *testing.T) {
	m := newTestModel()
	m = updateModel(t, m, ui.InventoryReloadedMsg{Err: errors.New("disk gone")})

	if len(m.VisibleItems()) != 4 {
		t.Errorf("failed reload should keep old items, got %d", len(m.VisibleItems()))
	}
	if m.Err() == nil {
		t.Error("error should be surfaced")
	}
}

func TestModelReloadDropsStaleFilter(t *testing.T) {
	m := newTestModel()
	m = updateModel(t, m, ui.FilterAppliedMsg{ID: "office"})

	fresh := testInventory()
	fresh.Locations = fresh.Locations[:4] // drop office
	fresh.Items = fresh.Items[:3]
	m = updateModel(t, m, ui.InventoryReloadedMsg{Inventory: fresh})

	if m.AppliedFilter() != "" {
		t.Errorf("filter on a vanished location should reset, got %q", m.AppliedFilter())
	}
}

func TestModelViewShowsFilterPath(t *testing.T) {
	m := newTestModel()
	m = updateModel(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m = updateModel(t, m, ui.FilterAppliedMsg{ID: "shelf-a"})

	view := m.View()
	if !strings.Contains(view, "Home / Garage / Shelf A") {
		t.Errorf("header should show the filter path, got:\n%s", view)
	}
}

func TestModelEmptyFilterState(t *testing.T) {
	inv := testInventory()
	inv.Items = nil
	m := ui.NewModel(inv, config.DefaultConfig(), ui.TestTheme())
	m = updateModel(t, m, ui.FilterAppliedMsg{ID: "kitchen"})

	view := m.View()
	if !strings.Contains(view, "No items in this location.") {
		t.Errorf("expected filtered empty state, got:\n%s", view)
	}
}

func TestModelQuitKeys(t *testing.T) {
	m := newTestModel()
	_, cmd := m.Update(keyRunes("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
}

func TestModelStatusClears(t *testing.T) {
	m := newTestModel()

	updated, cmd := m.Update(keyRunes("s"))
	m = updated.(ui.InventoryModel)
	if cmd == nil {
		t.Fatal("changing sort should schedule a status clear")
	}
	if !strings.Contains(m.View(), "sort:") {
		t.Fatal("sort status should be visible after pressing s")
	}

	m = updateModel(t, m, ui.StatusClearMsg{})
	if strings.Contains(m.View(), "sort:") {
		t.Error("status should be gone after StatusClearMsg")
	}
}
