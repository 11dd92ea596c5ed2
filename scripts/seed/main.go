package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/CuongMinh72/bakery-sys/internal/app"
	"github.com/CuongMinh72/bakery-sys/internal/bakery"
	"github.com/CuongMinh72/bakery-sys/internal/catalog"
	"github.com/CuongMinh72/bakery-sys/internal/store"
)

func main() {
	reset := flag.Bool("reset", false, "replace every collection with the default catalog and empty ledgers")
	flag.Parse()

	ctx := context.Background()
	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := app.NewLogger(cfg)
	backends, err := app.OpenBackends(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("open backends: %v", err)
	}
	defer backends.Close()

	fmt.Println("→ Loading current state...")
	st := bakery.NewState()
	if !*reset {
		st, err = store.LoadState(ctx, backends.Adapter, store.LoadOptions{})
		if err != nil {
			log.Fatalf("load state: %v", err)
		}
	}

	fmt.Println("→ Seeding default catalog...")
	seeded := catalog.DefaultCatalog().Apply(st)
	if len(seeded) == 0 && !*reset {
		fmt.Println("✓ Catalog already populated, nothing to do")
		return
	}
	if err := store.SaveAll(ctx, backends.Adapter, st); err != nil {
		log.Fatalf("save state: %v", err)
	}
	fmt.Printf("✓ Seeded %d products, %d materials into %s store\n",
		len(st.Products), len(st.Materials), cfg.StoreBackend)
}
