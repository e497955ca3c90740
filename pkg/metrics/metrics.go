// Package metrics exposes the Prometheus registry used by the explorer.
// Metrics are defined next to the code that records them (api, cache, client,
// fetch, pagination) and registered via promauto on the default registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the registerer every explorer metric is registered with.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the gatherer scraped by Handler.
var Gatherer = prometheus.DefaultGatherer

// Handler serves the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{
		Registry:          Registry,
		EnableOpenMetrics: true,
	})
}

// Metrics Documentation
//
// HTTP Metrics (internal/api):
//   - explorer_http_requests_total{route, status} (Counter): Requests served
//   - explorer_http_request_duration_seconds{route} (Histogram): Handler latency
//
// Cache Metrics (pkg/cache):
//   - explorer_cache_hits_total{layer="memory|redis"} (Counter): Cache hits by layer
//   - explorer_cache_misses_total (Counter): Cache misses
//   - explorer_cache_not_modified_total (Counter): 304 Not Modified answers
//   - explorer_cache_errors_total{operation} (Counter): Cache operation errors
//
// Client Metrics (pkg/client):
//   - explorer_client_requests_total{endpoint, status} (Counter)
//   - explorer_client_request_duration_seconds{endpoint} (Histogram)
//   - explorer_client_errors_total{class} (Counter): transport, upstream, decode
//
// Controller Metrics (pkg/fetch):
//   - explorer_fetch_total{outcome} (Counter): success, error, superseded
//
// Crawler Metrics (pkg/pagination):
//   - explorer_crawl_pages_total{outcome} (Counter)
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(explorer_cache_hits_total[5m])) /
//   (sum(rate(explorer_cache_hits_total[5m])) + sum(rate(explorer_cache_misses_total[5m])))
//
//   # Invalid parameter rate
//   sum(rate(explorer_http_requests_total{status="400"}[5m]))
//
//   # P95 handler latency
//   histogram_quantile(0.95, rate(explorer_http_request_duration_seconds_bucket[5m]))
//
//   # Superseded fetches
//   rate(explorer_fetch_total{outcome="superseded"}[5m])
