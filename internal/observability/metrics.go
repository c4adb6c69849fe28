package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Lookups = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "asin_lookups_total",
			Help: "Total ASIN lookups handled",
		},
	)
	CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "asin_cache_hits_total",
			Help: "Lookups served from a fresh cached record",
		},
	)
	ProviderFetches = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "provider_fetches_total",
			Help: "Outbound catalog API requests",
		},
	)
	ProviderNotFound = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "provider_not_found_total",
			Help: "Catalog requests that yielded no item (including network failures)",
		},
	)
	ContentGenerated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ebay_content_generated_total",
			Help: "Listing content generations",
		},
	)
	ImagesProcessed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "images_processed_total",
			Help: "Images composited with the badge overlay",
		},
	)
	UploadFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "image_upload_failures_total",
			Help: "Image host uploads that fell back to a local URL",
		},
	)
)

func Start(port string) {
	prometheus.MustRegister(
		Lookups,
		CacheHits,
		ProviderFetches,
		ProviderNotFound,
		ContentGenerated,
		ImagesProcessed,
		UploadFailures,
	)
	http.Handle("/metrics", promhttp.Handler())
	go http.ListenAndServe(":"+port, nil)
}
