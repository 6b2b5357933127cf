package datasource

import (
	"database/sql"
	"fmt"

	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	"github.com/ownlyhq/ownly/pkg/debug"
	"github.com/ownlyhq/ownly/pkg/model"
)

// SQLiteReader provides read access to an ownly SQLite database.
type SQLiteReader struct {
	db   *sql.DB
	path string
}

// NewSQLiteReader opens a SQLite database for reading.
func NewSQLiteReader(source DataSource) (*SQLiteReader, error) {
	if source.Type != SourceTypeSQLite {
		return nil, fmt.Errorf("source is not SQLite: %s", source.Type)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000&_journal_mode=WAL", source.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	// Read-performance pragmas; failures are non-fatal.
	pragmas := []string{
		"PRAGMA cache_size = -64000",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		_, _ = db.Exec(pragma)
	}

	return &SQLiteReader{db: db, path: source.Path}, nil
}

// Close closes the database connection.
func (r *SQLiteReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadInventory reads locations and items concurrently.
func (r *SQLiteReader) LoadInventory() ([]model.Location, []model.Item, error) {
	defer debug.LogEnterExit("sqlite.LoadInventory")()

	var (
		locations []model.Location
		items     []model.Item
	)

	var g errgroup.Group
	g.Go(func() error {
		var err error
		locations, err = r.LoadLocations()
		return err
	})
	g.Go(func() error {
		var err error
		items, err = r.LoadItems()
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return locations, items, nil
}

// LoadLocations reads all locations from the database.
func (r *SQLiteReader) LoadLocations() ([]model.Location, error) {
	rows, err := r.db.Query(`
		SELECT id, name, parent_id, icon
		FROM locations
		ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query locations: %w", err)
	}
	defer rows.Close()

	var locations []model.Location
	for rows.Next() {
		var loc model.Location
		var parentID, icon sql.NullString
		if err := rows.Scan(&loc.ID, &loc.Name, &parentID, &icon); err != nil {
			continue
		}
		if parentID.Valid {
			loc.ParentID = model.LocationID(parentID.String)
		}
		if icon.Valid {
			loc.Icon = icon.String
		}
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locations: %w", err)
	}
	return locations, nil
}

// LoadItems reads all items from the database.
func (r *SQLiteReader) LoadItems() ([]model.Item, error) {
	rows, err := r.db.Query(`
		SELECT id, name, location_id, notes, value_cents, quantity, created_at, updated_at
		FROM items
		ORDER BY updated_at DESC
	`)
	if err != nil {
		// Older schemas lack the value/quantity columns.
		return r.loadItemsSimple()
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		var locationID, notes sql.NullString
		var valueCents, quantity sql.NullInt64
		var createdAt, updatedAt sql.NullTime
		err := rows.Scan(&item.ID, &item.Name, &locationID, &notes,
			&valueCents, &quantity, &createdAt, &updatedAt)
		if err != nil {
			continue
		}
		if locationID.Valid {
			item.LocationID = model.LocationID(locationID.String)
		}
		if notes.Valid {
			item.Notes = notes.String
		}
		if valueCents.Valid {
			item.ValueCents = valueCents.Int64
		}
		item.Quantity = 1
		if quantity.Valid && quantity.Int64 > 0 {
			item.Quantity = int(quantity.Int64)
		}
		if createdAt.Valid {
			item.CreatedAt = createdAt.Time
		}
		if updatedAt.Valid {
			item.UpdatedAt = updatedAt.Time
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}
	return items, nil
}

// loadItemsSimple is a fallback for databases with fewer columns.
func (r *SQLiteReader) loadItemsSimple() ([]model.Item, error) {
	rows, err := r.db.Query(`SELECT id, name, location_id FROM items`)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		var locationID sql.NullString
		if err := rows.Scan(&item.ID, &item.Name, &locationID); err != nil {
			continue
		}
		if locationID.Valid {
			item.LocationID = model.LocationID(locationID.String)
		}
		item.Quantity = 1
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}
	return items, nil
}

// Counts returns the number of locations and items without loading rows.
func (r *SQLiteReader) Counts() (locations, items int, err error) {
	if err = r.db.QueryRow("SELECT COUNT(*) FROM locations").Scan(&locations); err != nil {
		return 0, 0, fmt.Errorf("count locations: %w", err)
	}
	if err = r.db.QueryRow("SELECT COUNT(*) FROM items").Scan(&items); err != nil {
		return 0, 0, fmt.Errorf("count items: %w", err)
	}
	return locations, items, nil
}
