package locfilter

import (
	"testing"

	"github.com/ownlyhq/ownly/pkg/model"
)

// Opening with an applied selection pre-expands the selection's ancestry.
func TestSessionSeedsExpansionFromApplied(t *testing.T) {
	s := NewSession("3", testLocations())

	if !s.Expanded("1") || !s.Expanded("2") {
		t.Error("ancestors of applied selection should start expanded")
	}
	if s.Expanded("3") {
		t.Error("the applied selection itself is not in its own ancestor set")
	}
	if s.Selected() != "3" {
		t.Errorf("selected = %q, want applied id", s.Selected())
	}
	if s.Query() != "" {
		t.Errorf("query = %q, want empty on open", s.Query())
	}
}

func TestSessionSeedsEmptyForAllLocations(t *testing.T) {
	s := NewSession("", testLocations())

	for _, id := range []model.LocationID{"1", "2", "3", "4"} {
		if s.Expanded(id) {
			t.Errorf("node %s expanded on open with no applied selection", id)
		}
	}
}

// Search expands the ancestors of every match; the match itself is not
// auto-expanded.
func TestSessionSearchExpandsAncestorsOfMatches(t *testing.T) {
	s := NewSession("", testLocations())

	s.SetQuery("gar")
	if !s.Expanded("1") {
		t.Error("ancestor of match should be search-expanded")
	}
	if s.Expanded("2") {
		t.Error("match itself should not be in the expansion set")
	}
	if !s.Matches("2") {
		t.Error("Garage should be a direct match")
	}

	s.SetQuery("shelf")
	if !s.Expanded("1") || !s.Expanded("2") {
		t.Error("full ancestor chain of leaf match should be expanded")
	}
}

// Manual toggles survive a search starting and clearing.
func TestSessionManualExpansionSurvivesSearch(t *testing.T) {
	s := NewSession("", testLocations())

	s.ToggleExpand("4")
	s.SetQuery("gar")
	if !s.Expanded("4") {
		t.Error("manual expansion lost when search started")
	}
	s.SetQuery("")
	if !s.Expanded("4") {
		t.Error("manual expansion lost when search cleared")
	}
}

// While a query is active, a manual collapse cannot override search-forced
// expansion; once the query clears, the manual state shows through.
func TestSessionSearchExpansionWinsOverManualCollapse(t *testing.T) {
	s := NewSession("3", testLocations()) // manual = {1, 2}

	s.SetQuery("shelf") // search = {1, 2}
	s.ToggleExpand("2") // manual collapse of 2
	if !s.Expanded("2") {
		t.Error("search-forced expansion should win while query is active")
	}

	s.SetQuery("")
	if s.Expanded("2") {
		t.Error("manual collapse should show through once search clears")
	}
}

func TestSessionToggleFlipsMembership(t *testing.T) {
	s := NewSession("", testLocations())

	s.ToggleExpand("1")
	if !s.Expanded("1") {
		t.Error("first toggle should expand")
	}
	s.ToggleExpand("1")
	if s.Expanded("1") {
		t.Error("second toggle should collapse")
	}
}

// Selecting, then clearing to "All Locations", applies as the nil filter.
func TestSessionSelectThenClearAppliesNil(t *testing.T) {
	s := NewSession("", testLocations())

	s.Select("2")
	if s.Selected() != "2" {
		t.Fatalf("selected = %q, want 2", s.Selected())
	}
	s.ClearSelection()
	if got := s.Apply(); got != "" {
		t.Errorf("apply after clear = %q, want empty (All Locations)", got)
	}
}

// Closing without applying is modeled by dropping the session; a fresh open
// with the same applied id reproduces the same initial state regardless of
// what happened in the previous session.
func TestSessionReopenResetsState(t *testing.T) {
	first := NewSession("3", testLocations())
	first.SetQuery("office")
	first.ToggleExpand("4")
	first.Select("4")

	second := NewSession("3", testLocations())
	if second.Selected() != "3" {
		t.Errorf("reopened selected = %q, want 3", second.Selected())
	}
	if !second.Expanded("1") || !second.Expanded("2") {
		t.Error("reopened session should re-seed expansion from applied id")
	}
	if second.Expanded("4") {
		t.Error("previous session's manual toggle leaked into reopen")
	}
	if second.Query() != "" {
		t.Error("previous session's query leaked into reopen")
	}
}

func TestSessionVisibleTreeFollowsQuery(t *testing.T) {
	locs := testLocations()
	roots, _ := model.BuildLocationForest(locs)
	s := NewSession("", locs)

	if got := s.VisibleTree(roots); len(collectIDs(got)) != 4 {
		t.Errorf("no query: visible tree has %d nodes, want 4", len(collectIDs(got)))
	}

	s.SetQuery("gar")
	got := s.VisibleTree(roots)
	if findNode(got, "2") == nil || findNode(got, "1") == nil {
		t.Error("visible tree should keep match and its ancestor")
	}
	if findNode(got, "4") != nil {
		t.Error("visible tree should prune unrelated root")
	}
}
