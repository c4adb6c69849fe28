package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

const fixtureResponse = `{
	"ItemsResult": {
		"Items": [{
			"ASIN": "B08N5WRWNW",
			"ItemInfo": {
				"Title": {"DisplayValue": "Acme SuperWidget 3000 by Acme"},
				"ByLineInfo": {"Brand": {"DisplayValue": "Acme"}},
				"Features": {"DisplayValues": ["First feature", "Second feature"]}
			},
			"Offers": {"Listings": [{"Price": {"DisplayAmount": "$19.99 with discount"}}]},
			"CustomerReviews": {"StarRating": {"Value": 4.5}, "Count": 1234},
			"Images": {
				"Primary": {"Large": {"URL": "https://img.test/X.jpg"}},
				"Variants": [
					{"Large": {"URL": "https://img.test/Y.jpg"}},
					{"Large": {"URL": "https://img.test/X.jpg"}}
				],
				"Alternate": [{"Large": {"URL": "https://img.test/Z.jpg"}}]
			}
		}]
	}
}`

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	return New(server.URL), server
}

func TestFetchNormalizesProduct(t *testing.T) {
	c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("asin"); got != "B08N5WRWNW" {
			t.Errorf("asin query = %q, want B08N5WRWNW", got)
		}
		w.Write([]byte(fixtureResponse))
	})
	defer server.Close()

	p, err := c.Fetch(context.Background(), "B08N5WRWNW")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if p.Brand != "Acme" {
		t.Errorf("Brand = %q, want Acme", p.Brand)
	}
	// Brand must be stripped from the title, all occurrences.
	if want := "SuperWidget 3000 by"; p.Title != want {
		t.Errorf("Title = %q, want %q", p.Title, want)
	}
	if p.Price != "$19.99" {
		t.Errorf("Price = %q, want first token only", p.Price)
	}
	if want := "First feature\nSecond feature"; p.Description != want {
		t.Errorf("Description = %q, want %q", p.Description, want)
	}
	if p.Rating == nil || *p.Rating != 4.5 {
		t.Errorf("Rating = %v, want 4.5", p.Rating)
	}
	if p.ReviewCount != 1234 {
		t.Errorf("ReviewCount = %d, want 1234", p.ReviewCount)
	}

	want := []string{"https://img.test/X.jpg", "https://img.test/Y.jpg", "https://img.test/Z.jpg"}
	if !reflect.DeepEqual(p.Images, want) {
		t.Errorf("Images = %v, want deduplicated %v", p.Images, want)
	}
}

func TestFetchUppercasesASIN(t *testing.T) {
	c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fixtureResponse))
	})
	defer server.Close()

	p, err := c.Fetch(context.Background(), "B08N5WRWNW")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if p.ASIN != "B08N5WRWNW" {
		t.Errorf("ASIN = %q", p.ASIN)
	}
	if p.Source != "amazon-helper" {
		t.Errorf("Source = %q, want amazon-helper", p.Source)
	}
}

func TestFetchNoItems(t *testing.T) {
	c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ItemsResult": {"Items": []}}`))
	})
	defer server.Close()

	_, err := c.Fetch(context.Background(), "B000000000")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestFetchServerErrorIsNotFound(t *testing.T) {
	c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer server.Close()

	_, err := c.Fetch(context.Background(), "B000000000")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestFetchUnreachableIsNotFound(t *testing.T) {
	server := httptest.NewServer(nil)
	c := New(server.URL)
	server.Close() // connection refused from here on

	_, err := c.Fetch(context.Background(), "B000000000")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestFetchMalformedResponseIsNotFound(t *testing.T) {
	c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ItemsResult": `))
	})
	defer server.Close()

	_, err := c.Fetch(context.Background(), "B000000000")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestNormalizeDefaults(t *testing.T) {
	p := normalize("B000000000", &Item{})
	if p.Title != "Unknown" {
		t.Errorf("Title = %q, want Unknown", p.Title)
	}
	if p.Brand != "Unbranded" {
		t.Errorf("Brand = %q, want Unbranded", p.Brand)
	}
	if p.Price != "Price" {
		// "Price not available" keeps its first token only, same as any
		// other display amount.
		t.Errorf("Price = %q", p.Price)
	}
	if p.Rating != nil {
		t.Errorf("Rating = %v, want nil", *p.Rating)
	}
	if len(p.Images) != 0 {
		t.Errorf("Images = %v, want empty", p.Images)
	}
}

func TestNormalizeManufacturerFallback(t *testing.T) {
	p := normalize("B000000000", &Item{
		ItemInfo: &ItemInfo{
			Title:      &DisplayValue{DisplayValue: "Widget"},
			ByLineInfo: &ByLineInfo{Manufacturer: &DisplayValue{DisplayValue: "MakerCo"}},
		},
	})
	if p.Brand != "MakerCo" {
		t.Errorf("Brand = %q, want manufacturer fallback", p.Brand)
	}
}
