// Package datasource discovers and loads inventory data for ownly. It
// selects the freshest valid source from a SQLite database or JSONL files
// inside the .ownly directory.
package datasource

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// SourceType identifies the type of inventory source.
type SourceType string

const (
	// SourceTypeSQLite is a SQLite database (ownly.db).
	SourceTypeSQLite SourceType = "sqlite"
	// SourceTypeJSONL is a line-delimited JSON file.
	SourceTypeJSONL SourceType = "jsonl"
)

// Priority values for source types (higher = more authoritative).
const (
	PrioritySQLite = 100
	PriorityJSONL  = 50
)

// DataSource represents a potential source of inventory data.
type DataSource struct {
	Type            SourceType `json:"type"`
	Path            string     `json:"path"`
	Priority        int        `json:"priority"`
	ModTime         time.Time  `json:"mod_time"`
	Valid           bool       `json:"valid"`
	ValidationError string     `json:"validation_error,omitempty"`
	LocationCount   int        `json:"location_count"`
	ItemCount       int        `json:"item_count"`
	Size            int64      `json:"size"`
}

// String returns a human-readable description of the source.
func (s DataSource) String() string {
	status := "valid"
	if !s.Valid {
		status = fmt.Sprintf("invalid: %s", s.ValidationError)
	}
	return fmt.Sprintf("%s (%s, priority=%d, mod=%s, locations=%d, items=%d, %s)",
		s.Path, s.Type, s.Priority, s.ModTime.Format(time.RFC3339),
		s.LocationCount, s.ItemCount, status)
}

// DiscoveryOptions configures source discovery behavior.
type DiscoveryOptions struct {
	// OwnlyDir is the .ownly directory path (auto-detected if empty).
	OwnlyDir string
	// RepoPath is the project root (cwd if empty).
	RepoPath string
	// ValidateAfterDiscovery runs validation on each discovered source.
	ValidateAfterDiscovery bool
	// IncludeInvalid keeps sources that failed validation in the results.
	IncludeInvalid bool
	// Logger receives discovery log messages; nil disables logging.
	Logger func(msg string)
}

// ResolveDir returns the .ownly directory to use: explicit dir, then the
// OWNLY_DIR environment variable, then <root>/.ownly.
func ResolveDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	if envDir := os.Getenv("OWNLY_DIR"); envDir != "" {
		return envDir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return filepath.Join(cwd, ".ownly"), nil
}

// DiscoverSources finds all potential inventory sources in the ownly
// directory, sorted freshest-first with priority as the tiebreak.
func DiscoverSources(opts DiscoveryOptions) ([]DataSource, error) {
	logf := opts.Logger
	if logf == nil {
		logf = func(string) {}
	}

	ownlyDir := opts.OwnlyDir
	if ownlyDir == "" {
		var err error
		if opts.RepoPath != "" {
			ownlyDir = filepath.Join(opts.RepoPath, ".ownly")
		} else if ownlyDir, err = ResolveDir(""); err != nil {
			return nil, err
		}
	}

	logf(fmt.Sprintf("Discovering sources in: %s", ownlyDir))

	var sources []DataSource

	// SQLite database.
	dbPath := filepath.Join(ownlyDir, "ownly.db")
	if info, err := os.Stat(dbPath); err == nil {
		sources = append(sources, DataSource{
			Type:     SourceTypeSQLite,
			Path:     dbPath,
			Priority: PrioritySQLite,
			ModTime:  info.ModTime(),
			Size:     info.Size(),
		})
		logf(fmt.Sprintf("Found SQLite: %s", dbPath))
	}

	// JSONL files.
	entries, err := os.ReadDir(ownlyDir)
	if err != nil && len(sources) == 0 {
		return nil, fmt.Errorf("failed to read ownly directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".jsonl") {
			continue
		}
		// Skip backups and merge artifacts.
		if strings.Contains(e.Name(), ".backup") || strings.Contains(e.Name(), ".orig") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(ownlyDir, e.Name())
		sources = append(sources, DataSource{
			Type:     SourceTypeJSONL,
			Path:     path,
			Priority: PriorityJSONL,
			ModTime:  info.ModTime(),
			Size:     info.Size(),
		})
		logf(fmt.Sprintf("Found JSONL: %s", path))
	}

	if opts.ValidateAfterDiscovery {
		for i := range sources {
			if err := ValidateSource(&sources[i]); err != nil {
				logf(fmt.Sprintf("Validation failed for %s: %v", sources[i].Path, err))
			}
		}
		if !opts.IncludeInvalid {
			valid := sources[:0]
			for _, s := range sources {
				if s.Valid {
					valid = append(valid, s)
				}
			}
			sources = valid
		}
	}

	sort.Slice(sources, func(i, j int) bool {
		if sources[i].ModTime.Equal(sources[j].ModTime) {
			return sources[i].Priority > sources[j].Priority
		}
		return sources[i].ModTime.After(sources[j].ModTime)
	})

	logf(fmt.Sprintf("Discovered %d sources", len(sources)))
	return sources, nil
}

// ValidateSource checks that a source can actually be loaded and records
// location/item counts. Sets Valid and ValidationError on the source.
func ValidateSource(s *DataSource) error {
	fail := func(err error) error {
		s.Valid = false
		s.ValidationError = err.Error()
		return err
	}

	switch s.Type {
	case SourceTypeSQLite:
		r, err := NewSQLiteReader(*s)
		if err != nil {
			return fail(err)
		}
		defer r.Close()
		locCount, itemCount, err := r.Counts()
		if err != nil {
			return fail(err)
		}
		s.LocationCount = locCount
		s.ItemCount = itemCount
	case SourceTypeJSONL:
		locs, items, err := ReadJSONL(s.Path)
		if err != nil {
			return fail(err)
		}
		s.LocationCount = len(locs)
		s.ItemCount = len(items)
	default:
		return fail(fmt.Errorf("unknown source type: %s", s.Type))
	}

	s.Valid = true
	s.ValidationError = ""
	return nil
}
