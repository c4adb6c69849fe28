package lookup

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"asinlookup/internal/model"
	"asinlookup/internal/observability"
)

const MaxBatchSize = 20

var (
	ErrInvalidASIN   = errors.New("lookup: ASIN must be 10 alphanumeric characters")
	ErrNotFound      = errors.New("lookup: product not found")
	ErrEmptyBatch    = errors.New("lookup: batch must not be empty")
	ErrBatchTooLarge = fmt.Errorf("lookup: batch limited to %d ASINs", MaxBatchSize)

	// ErrNoRecord is returned by Store implementations when no record
	// exists for the key.
	ErrNoRecord = errors.New("lookup: no record for ASIN")
)

// Store is the key-value surface the orchestrator needs. Upsert writes the
// fetched and derived fields only; collaborator-owned fields (account,
// category, template values, spreadsheet) must be left untouched by the
// implementation.
type Store interface {
	GetByASIN(ctx context.Context, asin string) (*model.Product, error)
	Upsert(ctx context.Context, p *model.Product) (*model.Product, error)
	UpdateEbay(ctx context.Context, asin string, ebay model.EbayContent) (*model.Product, error)
}

// Fetcher resolves an ASIN against the upstream catalog. Any error is
// treated as "not found": a single bounded attempt, no retries.
type Fetcher interface {
	Fetch(ctx context.Context, asin string) (*model.Product, error)
}

// ContentGenerator derives the listing sub-record from fetched fields.
type ContentGenerator interface {
	Generate(ctx context.Context, p *model.Product) (model.EbayContent, error)
}

// Service decides per ASIN whether to serve the cached record, re-fetch
// from the provider, and/or (re)generate listing content.
type Service struct {
	store     Store
	fetcher   Fetcher
	generator ContentGenerator
	ttl       time.Duration
	workers   int
	now       func() time.Time
}

func NewService(store Store, fetcher Fetcher, generator ContentGenerator, ttlSeconds, workers int) *Service {
	if workers <= 0 {
		workers = MaxBatchSize
	}
	return &Service{
		store:     store,
		fetcher:   fetcher,
		generator: generator,
		ttl:       time.Duration(ttlSeconds) * time.Second,
		workers:   workers,
		now:       time.Now,
	}
}

// Lookup runs the single-ASIN state machine. regenerate forces content
// regeneration on a fresh record without forcing a provider re-fetch.
func (s *Service) Lookup(ctx context.Context, asin string, regenerate bool) (*model.Product, error) {
	asin, ok := model.NormalizeASIN(asin)
	if !ok {
		return nil, ErrInvalidASIN
	}

	observability.Lookups.Inc()

	cached, err := s.store.GetByASIN(ctx, asin)
	if err != nil && !errors.Is(err, ErrNoRecord) {
		return nil, fmt.Errorf("lookup: store read for %s: %w", asin, err)
	}

	if cached != nil && !IsStale(cached, s.ttl, s.now()) {
		if HasContent(cached) && !regenerate {
			observability.CacheHits.Inc()
			return cached, nil
		}
		return s.regenerateContent(ctx, cached)
	}

	return s.refresh(ctx, asin)
}

// refresh handles the Absent and Stale states: full provider fetch,
// content generation and upsert.
func (s *Service) refresh(ctx context.Context, asin string) (*model.Product, error) {
	fetched, err := s.fetcher.Fetch(ctx, asin)
	if err != nil {
		return nil, ErrNotFound
	}

	ebay, err := s.generator.Generate(ctx, fetched)
	if err != nil {
		// Generation failure must never block persisting the fetch.
		log.Printf("lookup: content generation failed for %s: %v", asin, err)
		ebay = model.EbayContent{}
	}
	fetched.Ebay = ebay

	saved, err := s.store.Upsert(ctx, fetched)
	if err != nil {
		return nil, fmt.Errorf("lookup: upsert %s: %w", asin, err)
	}
	return saved, nil
}

// regenerateContent handles Fresh-Incomplete (and forced regeneration on
// Fresh-Complete): content only, no provider re-fetch.
func (s *Service) regenerateContent(ctx context.Context, cached *model.Product) (*model.Product, error) {
	ebay, err := s.generator.Generate(ctx, cached)
	if err != nil {
		// Keep the record as-is rather than clobbering existing content.
		log.Printf("lookup: content generation failed for %s: %v", cached.ASIN, err)
		return cached, nil
	}

	saved, err := s.store.UpdateEbay(ctx, cached.ASIN, ebay)
	if err != nil {
		return nil, fmt.Errorf("lookup: update content %s: %w", cached.ASIN, err)
	}
	return saved, nil
}

// LookupBatch applies the state machine to each ASIN in parallel, at most
// workers at a time, and keeps results in input order. Unresolvable ASINs
// yield placeholder records so the response length always matches the
// request. Store failures abort the whole batch.
func (s *Service) LookupBatch(ctx context.Context, asins []string) ([]*model.Product, error) {
	if len(asins) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(asins) > MaxBatchSize {
		return nil, ErrBatchTooLarge
	}

	results := make([]*model.Product, len(asins))
	errs := make([]error, len(asins))
	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup

	for i, asin := range asins {
		wg.Add(1)
		go func(i int, asin string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			p, err := s.Lookup(ctx, asin, false)
			switch {
			case err == nil:
				results[i] = p
			case errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidASIN):
				results[i] = model.Placeholder(asin)
			default:
				errs[i] = err
			}
		}(i, asin)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
