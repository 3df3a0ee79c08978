package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// PricingComputeTotal counts pricing computations by consumer surface.
	PricingComputeTotal *prometheus.CounterVec
	// PricingLineItems records line-item counts per computation.
	PricingLineItems prometheus.Histogram
	// SearchTotal counts product searches by outcome.
	SearchTotal *prometheus.CounterVec
	// SearchDuration records matcher latency in milliseconds.
	SearchDuration prometheus.Histogram
	// SearchResults records how many candidates each search returned.
	SearchResults prometheus.Histogram
	// CatalogCacheTotal counts catalog cache lookups by result.
	CatalogCacheTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		PricingComputeTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pricing_compute_total",
			Help:      "Count of pricing computations by consuming surface.",
		}, []string{"surface"})
		PricingLineItems = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pricing_line_items",
			Help:      "Distribution of line-item counts per pricing computation.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100},
		})
		SearchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "product_search_total",
			Help:      "Count of product searches by outcome.",
		}, []string{"outcome"})
		SearchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "product_search_duration_ms",
			Help:      "Product matcher latency in milliseconds.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
		})
		SearchResults = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "product_search_results",
			Help:      "Number of candidates returned per search.",
			Buckets:   []float64{0, 1, 2, 4, 8},
		})
		CatalogCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_cache_total",
			Help:      "Catalog cache lookups by result.",
		}, []string{"result"})

		reg.MustRegister(
			PricingComputeTotal,
			PricingLineItems,
			SearchTotal,
			SearchDuration,
			SearchResults,
			CatalogCacheTotal,
		)
	})
}
