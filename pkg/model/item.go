package model

import "time"

// Item is a cataloged belonging. ValueCents holds the estimated value in
// cents to avoid floating-point money.
type Item struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	LocationID LocationID `json:"location_id,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	ValueCents int64      `json:"value_cents,omitempty"`
	Quantity   int        `json:"quantity"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// CountItemsByLocation returns the number of items directly assigned to each
// location (not aggregated from descendants).
func CountItemsByLocation(items []Item) map[LocationID]int {
	counts := make(map[LocationID]int)
	for _, item := range items {
		if item.LocationID != "" {
			counts[item.LocationID]++
		}
	}
	return counts
}
