package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"skincare-advisor/internal/config"
	"skincare-advisor/internal/db"
	"skincare-advisor/internal/domain"
	"skincare-advisor/internal/repository"
)

func main() {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Fatalf("db pool: %v", err)
	}
	defer pool.Close()

	if err := db.Ping(ctx, pool); err != nil {
		log.Fatalf("db ping: %v", err)
	}
	if err := db.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("db schema: %v", err)
	}

	repo := repository.NewPgCatalogRepository(pool)
	products := repository.DefaultCatalog()
	for _, p := range products {
		if err := repo.Upsert(ctx, p); err != nil {
			log.Fatalf("upsert %s: %v", p.ID, err)
		}
	}
	fmt.Printf("Catalogo cargado: %d productos\n", len(products))

	// Verificacion: cada categoria esencial devuelve al menos un producto.
	var b domain.FeatureVectorBuilder
	probe := b.Set(domain.FeatureOily).Set(domain.FeatureAcne).Build()
	failed := 0
	for _, category := range domain.EssentialCategories {
		got, err := repo.Nearest(ctx, category, probe, 3)
		if err != nil || len(got) == 0 {
			fmt.Printf("❌ FAIL [%s] productos=%d err=%v\n", category, len(got), err)
			failed++
			continue
		}
		fmt.Printf("✅ PASS [%s] mejor=%s score=%.3f\n", category, got[0].Name, got[0].Score)
	}
	if failed > 0 {
		os.Exit(1)
	}
}
