package locfilter

import (
	"strings"

	"github.com/ownlyhq/ownly/pkg/model"
)

// Session holds the ephemeral state behind one opening of the filter sheet:
// the in-progress selection, the search query, and the expansion sets. It is
// constructed when the sheet opens and discarded when it closes; nothing
// here persists, so a reopen always starts from the applied selection alone.
//
// Expansion is the union of two sets. Manual toggles live in manualExpanded
// and survive search changes; searchExpanded is recomputed from the current
// query's matches and overlays the manual set. While a query is active a
// search-forced expansion cannot be collapsed manually; that asymmetry is
// inherent to the union.
type Session struct {
	locations []model.Location
	byID      map[model.LocationID]model.Location

	selected       model.LocationID // "" = All Locations
	query          string
	manualExpanded IDSet
	searchExpanded IDSet
	matches        IDSet
}

// NewSession starts a filter session seeded from the currently applied
// location. The ancestors of the applied location are pre-expanded so the
// active selection is visible without user effort.
func NewSession(applied model.LocationID, locations []model.Location) *Session {
	byID := model.IndexLocations(locations)
	return &Session{
		locations:      locations,
		byID:           byID,
		selected:       applied,
		manualExpanded: AncestorsOf(applied, byID),
		searchExpanded: make(IDSet),
		matches:        make(IDSet),
	}
}

// SetQuery updates the search query and recomputes the match set and the
// search-driven expansion set (ancestors of every match). Manual expansion
// is untouched.
func (s *Session) SetQuery(q string) {
	s.query = q
	s.matches = MatchingIDs(s.locations, q)
	s.searchExpanded = AllAncestorsOf(s.matches, s.byID)
}

// Query returns the current search query.
func (s *Session) Query() string { return s.query }

// HasSearch reports whether a search is active (non-empty trimmed query).
func (s *Session) HasSearch() bool {
	return strings.TrimSpace(s.query) != ""
}

// Matches reports whether the location is a direct search match.
func (s *Session) Matches(id model.LocationID) bool { return s.matches.Has(id) }

// MatchCount returns the number of direct search matches.
func (s *Session) MatchCount() int { return len(s.matches) }

// ToggleExpand flips the manual expansion state of a location. Search-driven
// expansion is unaffected.
func (s *Session) ToggleExpand(id model.LocationID) {
	if s.manualExpanded.Has(id) {
		delete(s.manualExpanded, id)
	} else {
		s.manualExpanded.Add(id)
	}
}

// Expanded reports the effective expansion state: manual union search.
func (s *Session) Expanded(id model.LocationID) bool {
	return s.manualExpanded.Has(id) || s.searchExpanded.Has(id)
}

// Select sets the in-progress selection. An empty ID means "All Locations".
func (s *Session) Select(id model.LocationID) { s.selected = id }

// ClearSelection resets the in-progress selection to "All Locations".
func (s *Session) ClearSelection() { s.selected = "" }

// Selected returns the in-progress selection.
func (s *Session) Selected() model.LocationID { return s.selected }

// Apply returns the selection for the caller to commit. The session is done
// after this; the caller discards it.
func (s *Session) Apply() model.LocationID { return s.selected }

// VisibleTree returns the forest pruned to the current query.
func (s *Session) VisibleTree(roots []*model.LocationNode) []*model.LocationNode {
	return FilterTree(roots, s.query)
}
