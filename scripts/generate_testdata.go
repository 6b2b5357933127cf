//go:build ignore

// generate_testdata.go creates sample inventory datasets for manual testing
// and benchmarking.
// Usage: go run scripts/generate_testdata.go
//
// Creates:
//
//	testdata/sample/small/items.jsonl   (5 locations, 50 items)
//	testdata/sample/medium/items.jsonl  (40 locations, 500 items)
//	testdata/sample/large/items.jsonl   (200 locations, 5000 items)
package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"
)

type datasetSpec struct {
	name      string
	locations int
	items     int
}

var datasets = []datasetSpec{
	{"small", 5, 50},
	{"medium", 40, 500},
	{"large", 200, 5000},
}

var roomNames = []string{
	"Garage", "Kitchen", "Office", "Attic", "Basement", "Bedroom",
	"Closet", "Shed", "Pantry", "Workshop",
}

var containerNames = []string{
	"Shelf", "Bin", "Box", "Drawer", "Cabinet", "Rack", "Crate",
}

var itemNames = []string{
	"Drill", "Hammer", "Blender", "Monitor", "Keyboard", "Lamp",
	"Extension cord", "Paint can", "Tent", "Sleeping bag", "Router",
	"Soldering iron", "Tape measure", "Ski boots", "Coffee grinder",
}

func main() {
	rng := rand.New(rand.NewSource(42))

	for _, ds := range datasets {
		dir := filepath.Join("testdata", "sample", ds.name)
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create %s: %v\n", dir, err)
			os.Exit(1)
		}
		path := filepath.Join(dir, "items.jsonl")
		if err := writeDataset(path, ds, rng); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s (%d locations, %d items)\n", path, ds.locations, ds.items)
	}
}

func writeDataset(path string, ds datasetSpec, rng *rand.Rand) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	// Roughly a third of locations are rooms (roots); the rest are
	// containers nested under a random earlier location, which keeps the
	// parent graph acyclic.
	ids := make([]string, 0, ds.locations)
	for i := 0; i < ds.locations; i++ {
		id := fmt.Sprintf("loc-%03d", i)
		if i < (ds.locations+2)/3 {
			name := roomNames[i%len(roomNames)]
			fmt.Fprintf(f, `{"kind":"location","id":"%s","name":"%s %d"}`+"\n", id, name, i)
		} else {
			parent := ids[rng.Intn(len(ids))]
			name := containerNames[rng.Intn(len(containerNames))]
			fmt.Fprintf(f, `{"kind":"location","id":"%s","name":"%s %d","parent_id":"%s"}`+"\n",
				id, name, i, parent)
		}
		ids = append(ids, id)
	}

	now := time.Now().UTC()
	for i := 0; i < ds.items; i++ {
		loc := ids[rng.Intn(len(ids))]
		name := itemNames[rng.Intn(len(itemNames))]
		updated := now.Add(-time.Duration(rng.Intn(90*24)) * time.Hour)
		fmt.Fprintf(f,
			`{"kind":"item","id":"item-%05d","name":"%s","location_id":"%s","value_cents":%d,"quantity":%d,"updated_at":"%s"}`+"\n",
			i, name, loc, rng.Intn(50000), 1+rng.Intn(4), updated.Format(time.RFC3339))
	}
	return nil
}
