// Package locfilter implements the location filter: search matching over
// location names, ancestor resolution, ancestor-preserving tree pruning, and
// the ephemeral selection/expansion session behind the filter sheet.
//
// Everything here is a pure transformation over data already loaded by the
// datasource; the package does no I/O of its own.
package locfilter

import "github.com/ownlyhq/ownly/pkg/model"

// IDSet is a set of location IDs.
type IDSet map[model.LocationID]struct{}

// Has reports set membership.
func (s IDSet) Has(id model.LocationID) bool {
	_, ok := s[id]
	return ok
}

// Add inserts an ID into the set.
func (s IDSet) Add(id model.LocationID) { s[id] = struct{}{} }

// AncestorsOf walks parent pointers from id toward the root and returns the
// set of ancestor IDs. The location itself is not in its own ancestor set.
//
// An empty id, an unknown id, or a ParentID that does not resolve ends the
// walk silently. A visited set bounds the walk on malformed (cyclic) data.
func AncestorsOf(id model.LocationID, byID map[model.LocationID]model.Location) IDSet {
	ancestors := make(IDSet)
	if id == "" {
		return ancestors
	}
	loc, ok := byID[id]
	if !ok {
		return ancestors
	}
	for loc.ParentID != "" {
		if ancestors.Has(loc.ParentID) {
			break // cycle in parent data
		}
		parent, ok := byID[loc.ParentID]
		if !ok {
			break // orphaned reference: treat as root
		}
		ancestors.Add(parent.ID)
		loc = parent
	}
	return ancestors
}

// AllAncestorsOf unions AncestorsOf over every ID in ids.
func AllAncestorsOf(ids IDSet, byID map[model.LocationID]model.Location) IDSet {
	all := make(IDSet)
	for id := range ids {
		for ancestor := range AncestorsOf(id, byID) {
			all.Add(ancestor)
		}
	}
	return all
}

// DescendantsOf returns id plus every location beneath it in the forest.
// This is the caller-side half of descendant-inclusive selection: applying a
// location filter means "this location and everything under it".
func DescendantsOf(id model.LocationID, nodeByID map[model.LocationID]*model.LocationNode) IDSet {
	ids := make(IDSet)
	node, ok := nodeByID[id]
	if !ok {
		return ids
	}
	var walk func(n *model.LocationNode)
	walk = func(n *model.LocationNode) {
		if n == nil || ids.Has(n.ID) {
			return
		}
		ids.Add(n.ID)
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(node)
	return ids
}
