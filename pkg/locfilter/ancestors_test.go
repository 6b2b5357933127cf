package locfilter

import (
	"testing"

	"github.com/ownlyhq/ownly/pkg/model"
)

// testLocations is the Home > Garage > Shelf fixture used across the
// package tests, plus an unrelated root.
func testLocations() []model.Location {
	return []model.Location{
		{ID: "1", Name: "Home"},
		{ID: "2", Name: "Garage", ParentID: "1"},
		{ID: "3", Name: "Shelf", ParentID: "2"},
		{ID: "4", Name: "Office"},
	}
}

func idSetOf(ids ...model.LocationID) IDSet {
	s := make(IDSet)
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func sameIDSet(a, b IDSet) bool {
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if !b.Has(id) {
			return false
		}
	}
	return true
}

func TestAncestorsOfLeaf(t *testing.T) {
	byID := model.IndexLocations(testLocations())

	got := AncestorsOf("3", byID)
	if !sameIDSet(got, idSetOf("1", "2")) {
		t.Errorf("ancestors of Shelf = %v, want {1, 2}", got)
	}
}

func TestAncestorsOfRoot(t *testing.T) {
	byID := model.IndexLocations(testLocations())

	if got := AncestorsOf("1", byID); len(got) != 0 {
		t.Errorf("ancestors of root = %v, want empty", got)
	}
}

func TestAncestorsOfEmptyAndUnknown(t *testing.T) {
	byID := model.IndexLocations(testLocations())

	if got := AncestorsOf("", byID); len(got) != 0 {
		t.Errorf("ancestors of empty id = %v, want empty", got)
	}
	if got := AncestorsOf("nope", byID); len(got) != 0 {
		t.Errorf("ancestors of unknown id = %v, want empty", got)
	}
}

// A ParentID that resolves to nothing ends the walk silently instead of
// erroring.
func TestAncestorsOfOrphanedParent(t *testing.T) {
	locs := []model.Location{
		{ID: "a", Name: "Attic", ParentID: "gone"},
		{ID: "b", Name: "Box", ParentID: "a"},
	}
	byID := model.IndexLocations(locs)

	if got := AncestorsOf("b", byID); !sameIDSet(got, idSetOf("a")) {
		t.Errorf("ancestors of b = %v, want {a}", got)
	}
}

// Cyclic parent data (a bug upstream) must not loop forever.
func TestAncestorsOfCycleTerminates(t *testing.T) {
	locs := []model.Location{
		{ID: "x", Name: "X", ParentID: "y"},
		{ID: "y", Name: "Y", ParentID: "x"},
	}
	byID := model.IndexLocations(locs)

	got := AncestorsOf("x", byID)
	if !got.Has("y") {
		t.Errorf("ancestors of x = %v, want y present", got)
	}
	if len(got) > 2 {
		t.Errorf("cycle walk produced %d ancestors, want <= 2", len(got))
	}
}

func TestAllAncestorsOf(t *testing.T) {
	byID := model.IndexLocations(testLocations())

	got := AllAncestorsOf(idSetOf("3", "4"), byID)
	if !sameIDSet(got, idSetOf("1", "2")) {
		t.Errorf("all ancestors of {3, 4} = %v, want {1, 2}", got)
	}
}

func TestDescendantsOf(t *testing.T) {
	_, nodeByID := model.BuildLocationForest(testLocations())

	got := DescendantsOf("1", nodeByID)
	if !sameIDSet(got, idSetOf("1", "2", "3")) {
		t.Errorf("descendants of Home = %v, want {1, 2, 3}", got)
	}

	if got := DescendantsOf("3", nodeByID); !sameIDSet(got, idSetOf("3")) {
		t.Errorf("descendants of leaf = %v, want {3}", got)
	}

	if got := DescendantsOf("nope", nodeByID); len(got) != 0 {
		t.Errorf("descendants of unknown = %v, want empty", got)
	}
}
