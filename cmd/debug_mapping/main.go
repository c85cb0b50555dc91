package main

import (
	"context"
	"fmt"
	"log"
	"sort"

	"autosync/core/autogestor"
	"autosync/core/config"
	"autosync/core/transport"
	"autosync/feature/vehicles"
)

// Lists feed attribute values that have no taxonomy id, with how many
// vehicles carry each, so the mapping file can be extended.
func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal(err)
	}

	tables, err := vehicles.LoadTables(cfg.Mapping.File)
	if err != nil {
		log.Fatal(err)
	}

	source := autogestor.NewClient(cfg.Source, transport.NewClient(cfg.Transport, nil), cfg.Transport.SourceMaxAttempts, nil)

	fmt.Println("Loading feed...")
	feed, err := source.FetchVehicles(context.Background())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Loaded %d vehicles\n", len(feed))

	unmapped := map[string]map[string]int{
		"brand":        {},
		"transmission": {},
		"color":        {},
		"fuel":         {},
		"doors":        {},
	}
	for _, v := range feed {
		if _, ok := tables.Category(v.Brand); !ok {
			unmapped["brand"][v.Brand]++
		}
		if _, ok := tables.Transmission(v.Transmission); !ok {
			unmapped["transmission"][v.Transmission]++
		}
		if _, ok := tables.Color(v.Color); !ok {
			unmapped["color"][v.Color]++
		}
		if _, ok := tables.Fuel(v.Fuel); !ok {
			unmapped["fuel"][v.Fuel]++
		}
		if _, ok := tables.DoorTag(int(v.Doors)); !ok {
			unmapped["doors"][fmt.Sprint(int(v.Doors))]++
		}
	}

	for _, table := range []string{"brand", "transmission", "color", "fuel", "doors"} {
		values := unmapped[table]
		fmt.Printf("\n=== %s: %d unmapped ===\n", table, len(values))
		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("  %q x%d\n", k, values[k])
		}
	}
}
