package lookup

import (
	"time"

	"asinlookup/internal/model"
)

// IsStale reports whether a cached record must be re-fetched. A record
// aged exactly ttl is still fresh; staleness requires strictly more.
func IsStale(p *model.Product, ttl time.Duration, now time.Time) bool {
	return now.Sub(p.LastUpdated) > ttl
}

// HasContent reports whether derived listing content has been generated
// for the record.
func HasContent(p *model.Product) bool {
	return p.Ebay.Title != ""
}
