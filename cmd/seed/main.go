package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"video-unlock-service/internal/config"
	pg "video-unlock-service/internal/infra/db/postgres"
	"video-unlock-service/internal/usecase"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	if err := pg.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	contentRepo := pg.NewContentRepo(pool)
	catalogUC := usecase.NewCatalogUseCase(contentRepo)

	// If content already exists, do nothing
	items, err := catalogUC.List(ctx)
	if err != nil {
		log.Fatalf("list contents: %v", err)
	}
	if len(items) > 0 {
		fmt.Printf("%d content items already present. No changes.\n", len(items))
		for _, it := range items {
			fmt.Printf("  - %s (price=%.2f)\n", it.Title, it.Price)
		}
		return
	}

	// Seed a few sample items for testing the purchase flow
	seed := []struct {
		Title string
		Price float64
	}{
		{"Sample Video 1", 9.00},
		{"Sample Video 2", 9.00},
		{"Sample Video 3", 9.00},
	}

	for _, s := range seed {
		it, err := catalogUC.Create(ctx, s.Title, s.Price)
		if err != nil {
			log.Fatalf("create content %q: %v", s.Title, err)
		}
		fmt.Printf("seeded: %s (id=%s, price=%.2f)\n", it.Title, it.ID, it.Price)
	}

	fmt.Println("Seeding complete.")
}
