package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"asinlookup/internal/model"
	"asinlookup/internal/observability"
)

// ErrNotFound covers both "no item for this ASIN" and an unreachable
// provider. The orchestrator treats the two the same; the distinction is
// only logged.
var ErrNotFound = errors.New("provider: product not found")

var httpClient = &http.Client{Timeout: 30 * time.Second}

type Client struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  httpClient,
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 5),
	}
}

// Fetch retrieves and normalizes one ASIN from the catalog API. The caller
// is expected to pass an already validated, uppercased ASIN.
func (c *Client) Fetch(ctx context.Context, asin string) (*model.Product, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, ErrNotFound
	}

	reqURL := fmt.Sprintf("%s?asin=%s", c.baseURL, url.QueryEscape(asin))
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, ErrNotFound
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept", "application/json")

	observability.ProviderFetches.Inc()

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("provider: fetch %s failed: %v", asin, err)
		observability.ProviderNotFound.Inc()
		return nil, ErrNotFound
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("provider: fetch %s status %d", asin, resp.StatusCode)
		observability.ProviderNotFound.Inc()
		return nil, ErrNotFound
	}

	var result ItemsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Printf("provider: decode %s failed: %v", asin, err)
		observability.ProviderNotFound.Inc()
		return nil, ErrNotFound
	}

	if len(result.ItemsResult.Items) == 0 {
		log.Printf("provider: no item for %s", asin)
		observability.ProviderNotFound.Inc()
		return nil, ErrNotFound
	}

	return normalize(asin, &result.ItemsResult.Items[0]), nil
}

func normalize(asin string, item *Item) *model.Product {
	title := "Unknown"
	if item.ItemInfo != nil && item.ItemInfo.Title != nil && item.ItemInfo.Title.DisplayValue != "" {
		title = item.ItemInfo.Title.DisplayValue
	}

	brand := "Unbranded"
	if item.ItemInfo != nil && item.ItemInfo.ByLineInfo != nil {
		if b := item.ItemInfo.ByLineInfo.Brand; b != nil && b.DisplayValue != "" {
			brand = b.DisplayValue
		} else if m := item.ItemInfo.ByLineInfo.Manufacturer; m != nil && m.DisplayValue != "" {
			brand = m.DisplayValue
		}
	}

	if strings.Contains(strings.ToLower(title), strings.ToLower(brand)) {
		re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(brand))
		title = strings.TrimSpace(re.ReplaceAllString(title, ""))
	}

	price := "Price not available"
	if item.Offers != nil && len(item.Offers.Listings) > 0 && item.Offers.Listings[0].Price != nil {
		if p := item.Offers.Listings[0].Price.DisplayAmount; p != "" {
			price = p
		}
	}
	// Keep only the amount when the display string carries extra text.
	price = strings.SplitN(price, " ", 2)[0]

	description := ""
	if item.ItemInfo != nil && item.ItemInfo.Features != nil {
		description = strings.Join(item.ItemInfo.Features.DisplayValues, "\n")
	}

	var rating *float64
	reviewCount := 0
	if item.CustomerReviews != nil {
		if item.CustomerReviews.StarRating != nil {
			v := item.CustomerReviews.StarRating.Value
			rating = &v
		}
		reviewCount = item.CustomerReviews.Count
	}

	return &model.Product{
		ASIN:        strings.ToUpper(asin),
		Title:       title,
		Description: description,
		Images:      collectImages(item.Images),
		Brand:       brand,
		Price:       price,
		Rating:      rating,
		ReviewCount: reviewCount,
		Source:      "amazon-helper",
	}
}

// collectImages keeps provider order (primary, variants, alternates) and
// drops duplicates by exact URL.
func collectImages(imgs *Images) []string {
	all := []string{}
	if imgs == nil {
		return all
	}

	add := func(set *ImageSet) {
		if set == nil || set.Large == nil || set.Large.URL == "" {
			return
		}
		for _, u := range all {
			if u == set.Large.URL {
				return
			}
		}
		all = append(all, set.Large.URL)
	}

	add(imgs.Primary)
	for i := range imgs.Variants {
		add(&imgs.Variants[i])
	}
	for i := range imgs.Alternate {
		add(&imgs.Alternate[i])
	}
	return all
}
