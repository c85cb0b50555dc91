package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"autosync/core/autogestor"
	"autosync/core/config"
	"autosync/core/transport"
	"autosync/core/woocommerce"
	"autosync/feature/vehicles"
)

// Prints how one vehicle normalizes and how it compares to every catalog
// product carrying its SKU. Usage: debug_vehicle <sku>
func main() {
	if len(os.Args) != 2 {
		log.Fatal("usage: debug_vehicle <sku>")
	}
	sku := os.Args[1]

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	tables, err := vehicles.LoadTables(cfg.Mapping.File)
	if err != nil {
		log.Fatal(err)
	}
	profile, err := vehicles.ProfileByName(cfg.Sync.Profile)
	if err != nil {
		log.Fatal(err)
	}
	normalizer := vehicles.NewNormalizer(tables, profile)

	source := autogestor.NewClient(cfg.Source, transport.NewClient(cfg.Transport, nil), cfg.Transport.SourceMaxAttempts, nil)
	catalog := woocommerce.NewClient(cfg.Woo,
		transport.NewClient(cfg.Transport, nil, transport.WithBasicAuth(cfg.Woo.Key, cfg.Woo.Secret)), nil)
	ctx := context.Background()

	fmt.Println("=== Source ===")
	feed, err := source.FetchVehicles(ctx)
	if err != nil {
		log.Fatal(err)
	}
	var payload *vehicles.Payload
	for _, v := range feed {
		if v.SKU() != sku {
			continue
		}
		p, err := normalizer.Normalize(v)
		if err != nil {
			fmt.Printf("Vehicle %s does not normalize: %v\n", sku, err)
			break
		}
		payload = &p
		printJSON(p.CreateInput())
		break
	}
	if payload == nil {
		fmt.Printf("NOT FOUND in feed of %d vehicles\n", len(feed))
	}

	fmt.Println("\n=== Catalog ===")
	products, err := catalog.FindBySKU(ctx, sku)
	if err != nil {
		log.Fatal(err)
	}
	if len(products) == 0 {
		fmt.Println("NOT FOUND in catalog")
	}
	for i, product := range products {
		fmt.Printf("Product id=%d name=%q price=%s\n", product.ID, product.Name, product.RegularPrice)
		if i > 0 {
			fmt.Println("  duplicate, would be deleted")
			continue
		}
		if payload == nil {
			continue
		}
		mismatch := vehicles.Compare(*payload, product, profile)
		if len(mismatch) == 0 {
			fmt.Println("  equivalent")
		}
		for _, m := range mismatch {
			fmt.Printf("  mismatch: %s\n", m)
		}
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatal(err)
	}
}
