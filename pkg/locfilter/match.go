package locfilter

import (
	"strings"

	"github.com/ownlyhq/ownly/pkg/model"
)

// MatchingIDs returns the IDs of every location whose name contains the
// trimmed query as a case-insensitive substring. An empty trimmed query
// means "no search active" and returns the empty set.
func MatchingIDs(locations []model.Location, query string) IDSet {
	matches := make(IDSet)
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return matches
	}
	for _, loc := range locations {
		if strings.Contains(strings.ToLower(loc.Name), q) {
			matches.Add(loc.ID)
		}
	}
	return matches
}

// nameMatches applies the same match rule to a single name.
func nameMatches(name, trimmedLowerQuery string) bool {
	return strings.Contains(strings.ToLower(name), trimmedLowerQuery)
}
