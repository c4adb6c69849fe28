package main

import (
	"context"
	"log"

	"asinlookup/internal/cache"
	"asinlookup/internal/config"
	"asinlookup/internal/db"
	"asinlookup/internal/ebay"
	"asinlookup/internal/images"
	"asinlookup/internal/lookup"
	"asinlookup/internal/observability"
	"asinlookup/internal/provider"
	"asinlookup/internal/repository"
	"asinlookup/internal/server"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	observability.Start(cfg.MetricsPort)

	sqlDB, err := db.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	if err := db.Migrate(sqlDB); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to open pgx pool: %v", err)
	}

	productRepo := &repository.ProductRepository{DB: pool}
	accountRepo := &repository.AccountRepository{DB: sqlDB}
	categoryRepo := &repository.CategoryRepository{DB: sqlDB}

	var store lookup.Store = productRepo
	var productCache *cache.ProductCache
	if cfg.RedisURL != "" {
		client, err := cache.Connect(cfg.RedisURL)
		if err != nil {
			log.Printf("redis unavailable, serving without cache: %v", err)
		} else {
			productCache = cache.NewProductCache(productRepo, client)
			store = productCache
		}
	}

	var uploader images.Uploader
	if cfg.ImgBBKey != "" {
		uploader = images.NewImgBB(cfg.ImgBBKey)
	} else {
		log.Printf("IMGBB_API_KEY not set, processed images use local URLs")
	}

	processor := images.NewProcessor(cfg.ProcessedDir, cfg.OverlayDir, uploader)
	generator := ebay.NewGenerator(processor, cfg.BaseURL, ebay.NewRefiner(cfg.OpenAIKey))
	fetcher := provider.New(cfg.ProviderURL)

	svc := lookup.NewService(store, fetcher, generator, cfg.CacheTTL, cfg.BatchWorkers)

	srv := &server.Server{
		Lookup:     svc,
		Products:   productRepo,
		Accounts:   accountRepo,
		Categories: categoryRepo,
		Cache:      productCache,
	}

	r := srv.Router(cfg.ProcessedDir, cfg.OverlayDir)
	log.Printf("ASIN lookup API listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
