// Package model defines the core inventory domain types: locations, the
// location forest, and items.
package model

import "sort"

// LocationID is an opaque identifier for a storage location. The empty
// string means "no location" (and, for filters, "All Locations").
type LocationID string

// Location is a user-defined storage place. Locations form a forest via
// ParentID; an empty ParentID marks a root.
type Location struct {
	ID        LocationID `json:"id"`
	Name      string     `json:"name"`
	ParentID  LocationID `json:"parent_id,omitempty"`
	Icon      string     `json:"icon,omitempty"`
	ItemCount int        `json:"item_count"`
}

// LocationNode is a Location projected into the tree, with an explicit
// children list and a back-reference for upward navigation.
type LocationNode struct {
	Location
	Children []*LocationNode
	Depth    int
	Parent   *LocationNode
}

// IndexLocations builds an ID lookup over a flat location list.
func IndexLocations(locations []Location) map[LocationID]Location {
	byID := make(map[LocationID]Location, len(locations))
	for _, loc := range locations {
		byID[loc.ID] = loc
	}
	return byID
}

// BuildLocationForest constructs the tree projection of a flat location
// list. It returns the root nodes and an ID -> node lookup.
//
// A location whose ParentID does not resolve is treated as a root rather
// than dropped. Cycles in the parent data (a bug upstream) are broken by a
// visited set: the second visit of an ID on the current path gets an empty
// children list.
func BuildLocationForest(locations []Location) ([]*LocationNode, map[LocationID]*LocationNode) {
	nodeByID := make(map[LocationID]*LocationNode, len(locations))
	if len(locations) == 0 {
		return nil, nodeByID
	}

	byID := IndexLocations(locations)
	childrenOf := make(map[LocationID][]Location)
	for _, loc := range locations {
		if loc.ParentID != "" {
			childrenOf[loc.ParentID] = append(childrenOf[loc.ParentID], loc)
		}
	}

	var rootLocs []Location
	for _, loc := range locations {
		if loc.ParentID == "" {
			rootLocs = append(rootLocs, loc)
			continue
		}
		if _, exists := byID[loc.ParentID]; !exists {
			// Orphaned parent reference: promote to root.
			rootLocs = append(rootLocs, loc)
		}
	}

	visited := make(map[LocationID]bool)
	var build func(loc Location, depth int, parent *LocationNode) *LocationNode
	build = func(loc Location, depth int, parent *LocationNode) *LocationNode {
		if visited[loc.ID] {
			return &LocationNode{Location: loc, Depth: depth, Parent: parent}
		}
		visited[loc.ID] = true
		defer func() { visited[loc.ID] = false }()

		node := &LocationNode{Location: loc, Depth: depth, Parent: parent}
		nodeByID[loc.ID] = node
		for _, child := range childrenOf[loc.ID] {
			if childNode := build(child, depth+1, node); childNode != nil {
				node.Children = append(node.Children, childNode)
			}
		}
		sortSiblings(node.Children)
		return node
	}

	var roots []*LocationNode
	for _, loc := range rootLocs {
		if node := build(loc, 0, nil); node != nil {
			roots = append(roots, node)
		}
	}
	sortSiblings(roots)

	return roots, nodeByID
}

// sortSiblings orders sibling nodes by name with ID as the tiebreak, so the
// forest shape is stable across loads regardless of source ordering.
func sortSiblings(nodes []*LocationNode) {
	if len(nodes) <= 1 {
		return
	}
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Name != nodes[j].Name {
			return nodes[i].Name < nodes[j].Name
		}
		return nodes[i].ID < nodes[j].ID
	})
}

// PathString renders the ancestry of a location as "Home / Garage / Shelf".
// Unresolvable parent references end the walk silently. Returns "" for an
// unknown ID.
func PathString(id LocationID, byID map[LocationID]Location) string {
	loc, ok := byID[id]
	if !ok {
		return ""
	}
	path := loc.Name
	seen := map[LocationID]bool{id: true}
	for loc.ParentID != "" {
		parent, ok := byID[loc.ParentID]
		if !ok || seen[parent.ID] {
			break
		}
		seen[parent.ID] = true
		path = parent.Name + " / " + path
		loc = parent
	}
	return path
}
