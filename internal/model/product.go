package model

import (
	"regexp"
	"strings"
	"time"
)

var asinPattern = regexp.MustCompile(`^[A-Z0-9]{10}$`)

// NormalizeASIN uppercases an ASIN and reports whether it is a valid
// 10-character identifier.
func NormalizeASIN(asin string) (string, bool) {
	asin = strings.ToUpper(strings.TrimSpace(asin))
	return asin, asinPattern.MatchString(asin)
}

type Product struct {
	ASIN        string   `json:"asin"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Brand       string   `json:"brand"`
	Price       string   `json:"price"`
	Rating      *float64 `json:"rating"`
	ReviewCount int      `json:"reviewCount"`
	Source      string   `json:"source"` // "amazon-helper", "manual" or "api"

	Ebay EbayContent `json:"ebay"`

	// Collaborator-owned fields. The lookup pipeline copies these through
	// untouched and never inspects them.
	AccountID      *string           `json:"accountId,omitempty"`
	CategoryID     *string           `json:"categoryId,omitempty"`
	TemplateValues map[string]string `json:"templateValues,omitempty"`
	Spreadsheet    *Spreadsheet      `json:"spreadsheet,omitempty"`

	LastUpdated time.Time `json:"last_updated"`
}

type EbayContent struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	ImageLinks  string `json:"imageLinks"`
	Price       string `json:"price"`
	ItemID      string `json:"itemId"`
}

// Spreadsheet is the per-product editor payload. Opaque to the pipeline.
type Spreadsheet struct {
	Columns []SpreadsheetColumn `json:"columns"`
	Rows    []SpreadsheetRow    `json:"rows"`
}

type SpreadsheetColumn struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Width int    `json:"width"`
}

type SpreadsheetRow struct {
	ID    string            `json:"id"`
	Cells map[string]string `json:"cells"`
}

// Placeholder keeps batch responses positionally aligned with the request
// when an ASIN cannot be resolved.
func Placeholder(asin string) *Product {
	return &Product{
		ASIN:   strings.ToUpper(asin),
		Title:  "Not found",
		Images: []string{},
		Source: "amazon-helper",
	}
}
