package ebay

import (
	"context"
	"fmt"
	"html"
	"log"
	"regexp"
	"strings"

	"asinlookup/internal/images"
	"asinlookup/internal/model"
	"asinlookup/internal/observability"
)

const (
	maxTitleLength = 80
	maxBullets     = 6
	minSentenceLen = 10
	imageSlots     = 4
	linkDelimiter  = " | "
)

// Terms that must never appear in listing copy (marketplace policy).
var bannedTerms = []string{
	"warranty",
	"guarantee",
	"guaranteed",
	"return",
	"refund",
	"replacement",
	"amazon",
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// Generator derives listing title, description and images from normalized
// product fields. Persistence is the caller's concern.
type Generator struct {
	processor *images.Processor
	refiner   *Refiner // nil keeps the deterministic pipeline only
	baseURL   string
}

func NewGenerator(processor *images.Processor, baseURL string, refiner *Refiner) *Generator {
	return &Generator{processor: processor, refiner: refiner, baseURL: baseURL}
}

func (g *Generator) Generate(ctx context.Context, p *model.Product) (model.EbayContent, error) {
	title := listingTitle(p.Title, p.Brand)

	if g.refiner != nil {
		refined, err := g.refiner.Title(ctx, title, p.Brand)
		if err != nil {
			log.Printf("ebay: AI title refinement failed for %s, keeping fallback: %v", p.ASIN, err)
		} else if refined != "" {
			title = truncate(refined, maxTitleLength)
		}
	}

	processed := g.processor.Process(ctx, p.Images, p.ASIN, g.baseURL)

	image := ""
	if len(processed) > 0 {
		image = processed[0]
	} else if len(p.Images) > 0 {
		image = p.Images[0]
	}

	content := model.EbayContent{
		Title:       title,
		Description: listingDescription(p, processed),
		Image:       image,
		ImageLinks:  strings.Join(processed, linkDelimiter),
	}

	observability.ContentGenerated.Inc()
	return content, nil
}

// listingTitle strips every occurrence of the brand, collapses whitespace
// and trims stray separators left behind.
func listingTitle(title, brand string) string {
	if brand != "" {
		re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(brand))
		title = re.ReplaceAllString(title, "")
	}
	title = whitespaceRe.ReplaceAllString(title, " ")
	title = strings.Trim(title, " -")
	return truncate(title, maxTitleLength)
}

// truncate limits to n characters, never splitting a multibyte rune.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// listingDescription runs the copy pipeline: term filtering, sentence
// extraction, bullet truncation and image slotting into the fixed layout.
func listingDescription(p *model.Product, processed []string) string {
	source := p.Description
	if source == "" {
		source = p.Title
	}
	source = stripTerms(source, p.Brand)

	bullets := extractBullets(source)
	slots := imageSlotURLs(processed)

	var sb strings.Builder
	sb.WriteString(`<div style="font-family:Arial,Helvetica,sans-serif;max-width:900px;margin:0 auto;">`)

	// Header band
	sb.WriteString(`<div style="background:#1e3a5f;color:#fff;padding:24px;text-align:center;">`)
	sb.WriteString(`<h1 style="margin:0;font-size:26px;">` + html.EscapeString(listingTitle(p.Title, p.Brand)) + `</h1>`)
	sb.WriteString(`</div>`)

	// Two-column layout: gallery left, highlights right
	sb.WriteString(`<div style="display:flex;flex-wrap:wrap;padding:16px;">`)
	sb.WriteString(`<div style="flex:1;min-width:300px;text-align:center;">`)
	for _, u := range slots {
		sb.WriteString(fmt.Sprintf(`<img src="%s" style="max-width:100%%;margin-bottom:8px;" alt="product image"/>`, html.EscapeString(u)))
	}
	sb.WriteString(`</div>`)
	sb.WriteString(`<div style="flex:1;min-width:300px;padding-left:16px;">`)
	sb.WriteString(`<h2 style="color:#1e3a5f;">Product Highlights</h2>`)
	sb.WriteString(`<ul style="line-height:1.8;">`)
	for _, b := range bullets {
		sb.WriteString(`<li>` + html.EscapeString(b) + `</li>`)
	}
	sb.WriteString(`</ul>`)
	sb.WriteString(`</div>`)
	sb.WriteString(`</div>`)

	// Trust badges
	sb.WriteString(`<div style="display:flex;justify-content:space-around;background:#f4f6f8;padding:16px;text-align:center;">`)
	sb.WriteString(`<div>&#10004; Fast Shipping</div>`)
	sb.WriteString(`<div>&#10004; USA Seller</div>`)
	sb.WriteString(`<div>&#10004; Secure Checkout</div>`)
	sb.WriteString(`</div>`)

	// Footer call-to-action
	sb.WriteString(`<div style="background:#1e3a5f;color:#fff;padding:16px;text-align:center;">`)
	sb.WriteString(`<p style="margin:0;font-size:18px;">Add to cart today &mdash; ships fast!</p>`)
	sb.WriteString(`</div>`)

	sb.WriteString(`</div>`)
	return sb.String()
}

// stripTerms removes the brand and every banned term, case-insensitively.
func stripTerms(text, brand string) string {
	terms := bannedTerms
	if brand != "" {
		terms = append([]string{brand}, bannedTerms...)
	}
	for _, t := range terms {
		re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(t))
		text = re.ReplaceAllString(text, "")
	}
	return text
}

// extractBullets splits the text into sentences and keeps the first six
// non-trivial ones.
func extractBullets(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	})

	bullets := []string{}
	for _, part := range parts {
		s := strings.TrimSpace(whitespaceRe.ReplaceAllString(part, " "))
		if len(s) <= minSentenceLen {
			continue
		}
		bullets = append(bullets, s)
		if len(bullets) == maxBullets {
			break
		}
	}
	return bullets
}

// imageSlotURLs fills the four layout slots, repeating the first image
// when fewer are available.
func imageSlotURLs(processed []string) []string {
	if len(processed) == 0 {
		return nil
	}
	slots := make([]string, 0, imageSlots)
	for i := 0; i < imageSlots; i++ {
		if i < len(processed) {
			slots = append(slots, processed[i])
		} else {
			slots = append(slots, processed[0])
		}
	}
	return slots
}
