package locfilter

import (
	"strings"

	"github.com/ownlyhq/ownly/pkg/model"
)

// FilterTree prunes a location forest to the nodes relevant to query.
//
// With an empty trimmed query the input is returned unchanged. Otherwise a
// node survives when its own name matches (same substring rule as
// MatchingIDs) or at least one of its children survives, so every match
// stays visible along with its full ancestor chain, while non-matching
// subtrees disappear entirely. Sibling order is preserved.
//
// The input forest is never mutated: surviving nodes are fresh copies with
// recomputed Children and Parent links.
func FilterTree(nodes []*model.LocationNode, query string) []*model.LocationNode {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nodes
	}
	return filterNodes(nodes, nil, q)
}

func filterNodes(nodes []*model.LocationNode, parent *model.LocationNode, q string) []*model.LocationNode {
	var kept []*model.LocationNode
	for _, node := range nodes {
		if node == nil {
			continue
		}
		copied := &model.LocationNode{
			Location: node.Location,
			Depth:    node.Depth,
			Parent:   parent,
		}
		copied.Children = filterNodes(node.Children, copied, q)
		if nameMatches(node.Name, q) || len(copied.Children) > 0 {
			kept = append(kept, copied)
		}
	}
	return kept
}
