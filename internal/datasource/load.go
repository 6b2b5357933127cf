package datasource

import (
	"errors"
	"fmt"

	"github.com/ownlyhq/ownly/pkg/debug"
	"github.com/ownlyhq/ownly/pkg/model"
)

// ErrNoSources means no valid inventory source was found.
var ErrNoSources = errors.New("no inventory sources found")

// Inventory bundles one loaded inventory snapshot with its provenance.
type Inventory struct {
	Locations  []model.Location
	Items      []model.Item
	SourcePath string
	SourceType SourceType
}

// LoadInventory discovers sources under dir (or the default .ownly
// directory) and loads the freshest valid one. Direct item counts are
// stamped onto each location before returning.
func LoadInventory(dir string) (*Inventory, error) {
	ownlyDir, err := ResolveDir(dir)
	if err != nil {
		return nil, err
	}

	sources, err := DiscoverSources(DiscoveryOptions{
		OwnlyDir:               ownlyDir,
		ValidateAfterDiscovery: true,
		Logger: func(msg string) {
			debug.Log("datasource: %s", msg)
		},
	})
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoSources, ownlyDir)
	}

	source := sources[0]
	inv, err := loadFrom(source)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", source.Path, err)
	}

	counts := model.CountItemsByLocation(inv.Items)
	for i := range inv.Locations {
		inv.Locations[i].ItemCount = counts[inv.Locations[i].ID]
	}

	debug.Log("datasource: loaded %d locations, %d items from %s",
		len(inv.Locations), len(inv.Items), source.Path)
	return inv, nil
}

func loadFrom(source DataSource) (*Inventory, error) {
	switch source.Type {
	case SourceTypeSQLite:
		r, err := NewSQLiteReader(source)
		if err != nil {
			return nil, err
		}
		defer r.Close()
		locations, items, err := r.LoadInventory()
		if err != nil {
			return nil, err
		}
		return &Inventory{
			Locations:  locations,
			Items:      items,
			SourcePath: source.Path,
			SourceType: source.Type,
		}, nil
	case SourceTypeJSONL:
		locations, items, err := ReadJSONL(source.Path)
		if err != nil {
			return nil, err
		}
		return &Inventory{
			Locations:  locations,
			Items:      items,
			SourcePath: source.Path,
			SourceType: source.Type,
		}, nil
	default:
		return nil, fmt.Errorf("unknown source type: %s", source.Type)
	}
}
