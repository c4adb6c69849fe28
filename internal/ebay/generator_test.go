package ebay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"asinlookup/internal/images"
	"asinlookup/internal/model"
)

func TestListingTitle(t *testing.T) {
	tests := []struct {
		title, brand, want string
	}{
		{"Acme SuperWidget 3000 by Acme", "Acme", "SuperWidget 3000 by"},
		{"acme SuperWidget", "ACME", "SuperWidget"},
		{"Widget   with    gaps", "", "Widget with gaps"},
		{"BrandX - Widget", "BrandX", "Widget"},
		{strings.Repeat("a", 120), "", strings.Repeat("a", 80)},
	}

	for _, tt := range tests {
		if got := listingTitle(tt.title, tt.brand); got != tt.want {
			t.Errorf("listingTitle(%q, %q) = %q, want %q", tt.title, tt.brand, got, tt.want)
		}
	}
}

func TestListingTitleMultibyte(t *testing.T) {
	// A title whose 80th character is multibyte must not be cut mid-rune.
	got := listingTitle(strings.Repeat("a", 79)+"émodèle", "")
	if !utf8.ValidString(got) {
		t.Fatalf("listingTitle produced invalid UTF-8: %q", got)
	}
	if n := len([]rune(got)); n != 80 {
		t.Errorf("rune length = %d, want 80", n)
	}
	if want := strings.Repeat("a", 79) + "é"; got != want {
		t.Errorf("listingTitle = %q, want %q", got, want)
	}
}

func TestStripTerms(t *testing.T) {
	got := stripTerms("Lifetime Warranty from Acme. Full REFUND on Amazon.", "Acme")
	for _, banned := range []string{"Warranty", "warranty", "REFUND", "refund", "Amazon", "amazon", "Acme"} {
		if strings.Contains(got, banned) {
			t.Errorf("stripTerms left %q in %q", banned, got)
		}
	}
}

func TestExtractBullets(t *testing.T) {
	text := "First useful sentence here. tiny. Second useful sentence!\n" +
		"Third useful sentence? Fourth useful sentence. Fifth useful sentence. " +
		"Sixth useful sentence. Seventh never makes the cut."

	bullets := extractBullets(text)
	if len(bullets) != 6 {
		t.Fatalf("bullets = %d, want 6", len(bullets))
	}
	if bullets[0] != "First useful sentence here" {
		t.Errorf("bullets[0] = %q", bullets[0])
	}
	for _, b := range bullets {
		if len(b) <= 10 {
			t.Errorf("short fragment %q survived the filter", b)
		}
	}
}

func TestImageSlotURLs(t *testing.T) {
	if got := imageSlotURLs(nil); got != nil {
		t.Errorf("imageSlotURLs(nil) = %v, want nil", got)
	}

	one := imageSlotURLs([]string{"a"})
	if want := []string{"a", "a", "a", "a"}; !reflect.DeepEqual(one, want) {
		t.Errorf("one image slots = %v, want first repeated", one)
	}

	full := imageSlotURLs([]string{"a", "b", "c", "d"})
	if want := []string{"a", "b", "c", "d"}; !reflect.DeepEqual(full, want) {
		t.Errorf("four image slots = %v, want %v", full, want)
	}
}

func TestGenerate(t *testing.T) {
	// Unreachable image host: the processor degrades every slot to its
	// original URL, keeping the test offline.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	processor := images.NewProcessor(t.TempDir(), t.TempDir(), nil)
	g := NewGenerator(processor, "http://localhost:8000", nil)

	p := &model.Product{
		ASIN:        "B08N5WRWNW",
		Title:       "Acme SuperWidget 3000",
		Brand:       "Acme",
		Description: "Built from aircraft-grade aluminum. Charges fully in two hours. Comes with a lifetime warranty.",
		Images:      []string{server.URL + "/1.jpg", server.URL + "/2.jpg"},
	}

	content, err := g.Generate(context.Background(), p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if content.Title != "SuperWidget 3000" {
		t.Errorf("Title = %q, want brand stripped", content.Title)
	}
	if content.Image != p.Images[0] {
		t.Errorf("Image = %q, want original first URL", content.Image)
	}
	if want := p.Images[0] + " | " + p.Images[1]; content.ImageLinks != want {
		t.Errorf("ImageLinks = %q, want %q", content.ImageLinks, want)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content.Description))
	if err != nil {
		t.Fatalf("parse description: %v", err)
	}

	if got := doc.Find("h1").Text(); got != "SuperWidget 3000" {
		t.Errorf("h1 = %q, want brand-stripped title", got)
	}
	if n := doc.Find("img").Length(); n != 4 {
		t.Errorf("img tags = %d, want 4 (first image repeated into empty slots)", n)
	}
	if got, _ := doc.Find("img").First().Attr("src"); got != p.Images[0] {
		t.Errorf("first img src = %q, want %q", got, p.Images[0])
	}

	bullets := doc.Find("li")
	if n := bullets.Length(); n == 0 || n > 6 {
		t.Fatalf("li tags = %d, want 1..6", n)
	}
	bullets.Each(func(_ int, s *goquery.Selection) {
		lower := strings.ToLower(s.Text())
		if strings.Contains(lower, "warranty") || strings.Contains(lower, "acme") {
			t.Errorf("bullet %q contains banned copy", s.Text())
		}
	})
}

func TestGenerateNoImages(t *testing.T) {
	processor := images.NewProcessor(t.TempDir(), t.TempDir(), nil)
	g := NewGenerator(processor, "http://localhost:8000", nil)

	content, err := g.Generate(context.Background(), &model.Product{
		ASIN:  "B08N5WRWNW",
		Title: "Bare Widget Listing",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if content.Image != "" || content.ImageLinks != "" {
		t.Errorf("Image/ImageLinks = %q/%q, want empty", content.Image, content.ImageLinks)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content.Description))
	if err != nil {
		t.Fatalf("parse description: %v", err)
	}
	if n := doc.Find("img").Length(); n != 0 {
		t.Errorf("img tags = %d, want 0", n)
	}
	// Title stands in for the missing description as bullet source.
	if n := doc.Find("li").Length(); n != 1 {
		t.Errorf("li tags = %d, want 1", n)
	}
}
