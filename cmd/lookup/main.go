package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"strings"

	"asinlookup/internal/config"
	"asinlookup/internal/db"
	"asinlookup/internal/ebay"
	"asinlookup/internal/images"
	"asinlookup/internal/lookup"
	"asinlookup/internal/provider"
	"asinlookup/internal/repository"
)

// go run cmd/lookup/main.go -asins="B08N5WRWNW,B07FZ8S74R"
// go run cmd/lookup/main.go -asins="B08N5WRWNW" -regenerate
func main() {
	asinsArg := flag.String("asins", "", "comma-separated ASINs to look up")
	regenerate := flag.Bool("regenerate", false, "force listing content regeneration")
	flag.Parse()

	if *asinsArg == "" {
		log.Fatal("usage: lookup -asins=ASIN[,ASIN...]")
	}

	cfg := config.Load()
	ctx := context.Background()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to open pgx pool: %v", err)
	}

	var uploader images.Uploader
	if cfg.ImgBBKey != "" {
		uploader = images.NewImgBB(cfg.ImgBBKey)
	}

	processor := images.NewProcessor(cfg.ProcessedDir, cfg.OverlayDir, uploader)
	generator := ebay.NewGenerator(processor, cfg.BaseURL, ebay.NewRefiner(cfg.OpenAIKey))
	fetcher := provider.New(cfg.ProviderURL)
	store := &repository.ProductRepository{DB: pool}

	svc := lookup.NewService(store, fetcher, generator, cfg.CacheTTL, cfg.BatchWorkers)

	asins := strings.Split(*asinsArg, ",")
	for i := range asins {
		asins[i] = strings.TrimSpace(asins[i])
	}

	if len(asins) == 1 {
		product, err := svc.Lookup(ctx, asins[0], *regenerate)
		if err != nil {
			log.Fatalf("lookup %s: %v", asins[0], err)
		}
		printJSON(product)
		return
	}

	products, err := svc.LookupBatch(ctx, asins)
	if err != nil {
		log.Fatalf("batch lookup: %v", err)
	}
	printJSON(products)
}

func printJSON(v interface{}) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(out))
}
