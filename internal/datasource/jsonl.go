package datasource

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/ownlyhq/ownly/pkg/model"
)

// jsonlRecord is one line of an inventory JSONL file. Kind selects which
// fields are meaningful.
type jsonlRecord struct {
	Kind       string    `json:"kind"` // "location" or "item"
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ParentID   string    `json:"parent_id"`
	Icon       string    `json:"icon"`
	LocationID string    `json:"location_id"`
	Notes      string    `json:"notes"`
	ValueCents int64     `json:"value_cents"`
	Quantity   int       `json:"quantity"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ReadJSONL parses an inventory JSONL file: one JSON object per line, each
// tagged with "kind":"location" or "kind":"item". Blank and malformed lines
// are skipped; a file with no parseable records at all is an error.
func ReadJSONL(path string) ([]model.Location, []model.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open jsonl: %w", err)
	}
	defer f.Close()

	var (
		locations []model.Location
		items     []model.Item
		malformed int
	)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec jsonlRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil || rec.ID == "" {
			malformed++
			continue
		}
		switch rec.Kind {
		case "location":
			locations = append(locations, model.Location{
				ID:       model.LocationID(rec.ID),
				Name:     rec.Name,
				ParentID: model.LocationID(rec.ParentID),
				Icon:     rec.Icon,
			})
		case "item":
			qty := rec.Quantity
			if qty <= 0 {
				qty = 1
			}
			items = append(items, model.Item{
				ID:         rec.ID,
				Name:       rec.Name,
				LocationID: model.LocationID(rec.LocationID),
				Notes:      rec.Notes,
				ValueCents: rec.ValueCents,
				Quantity:   qty,
				CreatedAt:  rec.CreatedAt,
				UpdatedAt:  rec.UpdatedAt,
			})
		default:
			malformed++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("read jsonl: %w", err)
	}
	if len(locations) == 0 && len(items) == 0 && malformed > 0 {
		return nil, nil, fmt.Errorf("no parseable records in %s (%d malformed lines)", path, malformed)
	}
	return locations, items, nil
}
