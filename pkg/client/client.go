// Package client provides a typed HTTP client for the Block And Play explorer
// API with error classification, optional response caching and metrics.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/blockandplay/explorer/pkg/cache"
	"github.com/blockandplay/explorer/pkg/model"
	"github.com/blockandplay/explorer/pkg/pagination"
)

// Prometheus metrics for client operations.
var (
	clientRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "explorer_client_requests_total",
		Help: "Total explorer API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	clientRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "explorer_client_request_duration_seconds",
		Help:    "Explorer API request duration in seconds by endpoint",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
	}, []string{"endpoint"})

	clientErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "explorer_client_errors_total",
		Help: "Total explorer API errors by class",
	}, []string{"class"})
)

// maxErrorBody bounds how much of an error body is read.
const maxErrorBody = 64 << 10

// Client is the explorer API client.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	cache      *cache.Manager
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL of the explorer API, e.g. "http://localhost:8080".
	BaseURL string

	// UserAgent sent with every request.
	UserAgent string

	// Timeout per request. Ignored when HTTPClient is set.
	Timeout time.Duration

	// HTTPClient overrides the default client (for testing).
	HTTPClient *http.Client

	// Cache enables conditional requests backed by a response cache. Optional.
	Cache *cache.Manager

	// Retry controls automatic retries. The default performs no retries.
	Retry RetryConfig
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:   baseURL,
		UserAgent: "bap-explorer-client/1.0",
		Timeout:   10 * time.Second,
		Retry:     NoRetry(),
	}
}

// New creates a new explorer client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url must be http or https (got %q)", cfg.BaseURL)
	}
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    base,
		cache:      cfg.Cache,
		config:     cfg,
		logger:     log.With().Str("component", "explorer-client").Logger(),
	}, nil
}

// Do performs a GET on path with query and decodes the JSON body into out.
// out may be nil to discard the body.
func (c *Client) Do(ctx context.Context, path string, query url.Values, out any) error {
	return c.get(ctx, path, path, query, out)
}

// get is Do with a bounded metrics label for parameterised paths.
func (c *Client) get(ctx context.Context, endpoint, path string, query url.Values, out any) error {
	startTime := time.Now()
	defer func() {
		clientRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	target := *c.baseURL
	target.Path = strings.TrimRight(target.Path, "/") + path
	target.RawQuery = query.Encode()

	key := cache.CacheKey{Endpoint: path, QueryParams: query}
	var cached *cache.CacheEntry
	if c.cache != nil {
		entry, err := c.cache.Get(ctx, key)
		switch {
		case err == nil:
			cached = entry
		case !errors.Is(err, cache.ErrCacheMiss):
			c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Cache get error")
		}
	}

	var body []byte
	err := retryWithBackoff(ctx, c.config.Retry, c.logger, func() error {
		b, err := c.roundTrip(ctx, endpoint, target.String(), key, cached)
		body = b
		return err
	})
	if err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := decodeStrict(body, out); err != nil {
		clientErrorsTotal.WithLabelValues(string(ErrorClassDecode)).Inc()
		return &Error{
			Class:      ErrorClassDecode,
			StatusCode: http.StatusOK,
			Message:    "decode " + endpoint,
			Err:        err,
		}
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, endpoint, target string, key cache.CacheKey, cached *cache.CacheEntry) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &Error{Class: ErrorClassTransport, Message: "create request", Err: err}
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	if cache.ShouldMakeConditionalRequest(cached) {
		cache.AddConditionalHeaders(req, cached)
		c.logger.Debug().
			Str("endpoint", endpoint).
			Str("etag", cached.ETag).
			Msg("Making conditional request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		clientErrorsTotal.WithLabelValues(string(ErrorClassTransport)).Inc()
		clientRequestsTotal.WithLabelValues(endpoint, "transport_error").Inc()
		c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("HTTP request failed")
		return nil, &Error{Class: ErrorClassTransport, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	status := strconv.Itoa(resp.StatusCode)

	switch {
	case resp.StatusCode == http.StatusNotModified && cached != nil:
		clientRequestsTotal.WithLabelValues(endpoint, status).Inc()
		cache.NotModifiedResponses.Inc()
		c.logger.Debug().Str("endpoint", endpoint).Msg("304 Not Modified - using cache")

		if err := c.cache.UpdateTTL(ctx, key, cache.ExpiresFromHeaders(resp.Header)); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to update cache TTL")
		}
		return cached.Data, nil

	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		entry, err := cache.ResponseToEntry(resp)
		if err != nil {
			clientErrorsTotal.WithLabelValues(string(ErrorClassTransport)).Inc()
			return nil, &Error{Class: ErrorClassTransport, StatusCode: resp.StatusCode, Message: "read body", Err: err}
		}
		clientRequestsTotal.WithLabelValues(endpoint, status).Inc()

		if c.cache != nil && resp.StatusCode == http.StatusOK {
			if err := c.cache.Set(ctx, key, entry); err != nil {
				c.logger.Warn().Err(err).Msg("Failed to cache response")
			} else {
				c.logger.Debug().
					Str("endpoint", endpoint).
					Dur("ttl", entry.TTL()).
					Msg("Cached response")
			}
		}
		return entry.Data, nil

	default:
		clientErrorsTotal.WithLabelValues(string(ErrorClassUpstream)).Inc()
		clientRequestsTotal.WithLabelValues(endpoint, status).Inc()

		upstream := &Error{Class: ErrorClassUpstream, StatusCode: resp.StatusCode, Message: resp.Status}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var envelope model.ErrorResponse
		if json.Unmarshal(raw, &envelope) == nil && envelope.Error != "" {
			upstream.Message = envelope.Error
			upstream.Code = envelope.Code
		}

		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Str("code", upstream.Code).
			Msg("Explorer request error")
		return nil, upstream
	}
}

// decodeStrict decodes exactly one JSON value whose fields all belong to out,
// so a body of the wrong shape is a decode failure rather than a zero value.
func decodeStrict(body []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON value")
	}
	return nil
}

func pageValues(params pagination.Params) url.Values {
	q := url.Values{}
	if params.Page != 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit != 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	return q
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

// Blocks lists blocks from the chain tip downwards.
func (c *Client) Blocks(ctx context.Context, params pagination.Params) (model.BlocksResponse, error) {
	var out model.BlocksResponse
	err := c.get(ctx, "/api/blocks", "/api/blocks", pageValues(params), &out)
	return out, err
}

// Block looks up a block by height.
func (c *Client) Block(ctx context.Context, id string) (model.Block, error) {
	var out model.BlockResponse
	err := c.get(ctx, "/api/blocks/:id", "/api/blocks/"+url.PathEscape(id), nil, &out)
	return out.Block, err
}

// Transactions lists transactions, newest first.
func (c *Client) Transactions(ctx context.Context, params pagination.Params) (model.TransactionsResponse, error) {
	var out model.TransactionsResponse
	err := c.get(ctx, "/api/transactions", "/api/transactions", pageValues(params), &out)
	return out, err
}

// Transaction looks up a transaction by hash.
func (c *Client) Transaction(ctx context.Context, hash string) (model.Transaction, error) {
	var out model.TransactionResponse
	err := c.get(ctx, "/api/transactions/:hash", "/api/transactions/"+url.PathEscape(hash), nil, &out)
	return out.Transaction, err
}

// Pools lists validator pools, optionally filtered by status.
func (c *Client) Pools(ctx context.Context, params pagination.Params, status string) (model.PoolsResponse, error) {
	q := pageValues(params)
	setIf(q, "status", status)
	var out model.PoolsResponse
	err := c.get(ctx, "/api/pools", "/api/pools", q, &out)
	return out, err
}

// Penalties lists penalties, optionally filtered by type.
func (c *Client) Penalties(ctx context.Context, params pagination.Params, penaltyType string) (model.PenaltiesResponse, error) {
	q := pageValues(params)
	setIf(q, "type", penaltyType)
	var out model.PenaltiesResponse
	err := c.get(ctx, "/api/penalties", "/api/penalties", q, &out)
	return out, err
}

// NFXList lists the NFX catalog.
func (c *Client) NFXList(ctx context.Context, params pagination.Params) (model.NFXListResponse, error) {
	var out model.NFXListResponse
	err := c.get(ctx, "/api/nfx", "/api/nfx", pageValues(params), &out)
	return out, err
}

// NFX fetches the full detail of one NFX.
func (c *Client) NFX(ctx context.Context, id string) (model.NFXDetail, error) {
	var out model.NFXResponse
	err := c.get(ctx, "/api/nfx/:id", "/api/nfx/"+url.PathEscape(id), nil, &out)
	return out.NFX, err
}

// Token fetches a token and its recent transfers. An empty address selects
// the network's default token.
func (c *Client) Token(ctx context.Context, address string) (model.TokenDetail, error) {
	q := url.Values{}
	setIf(q, "address", address)
	var out model.TokenDetail
	err := c.get(ctx, "/api/tokens", "/api/tokens", q, &out)
	return out, err
}

// Contract fetches a contract and its methods. An empty address selects the
// network's NFT contract.
func (c *Client) Contract(ctx context.Context, address string) (model.ContractDetail, error) {
	q := url.Values{}
	setIf(q, "address", address)
	var out model.ContractDetail
	err := c.get(ctx, "/api/contracts", "/api/contracts", q, &out)
	return out, err
}

// NFTs searches NFTs. searchType is one of model.SearchTokenID,
// model.SearchOwner or model.SearchContract, or empty to match any field.
func (c *Client) NFTs(ctx context.Context, searchType, query string, params pagination.Params) (model.NFTsResponse, error) {
	q := pageValues(params)
	setIf(q, "type", searchType)
	setIf(q, "query", query)
	var out model.NFTsResponse
	err := c.get(ctx, "/api/nfts", "/api/nfts", q, &out)
	return out, err
}

// History returns the event history of an asset in chronological order.
func (c *Client) History(ctx context.Context, assetID string) ([]model.HistoryEvent, error) {
	q := url.Values{}
	q.Set("assetId", assetID)
	var out model.HistoryResponse
	err := c.get(ctx, "/api/history", "/api/history", q, &out)
	return out.Events, err
}

// Metrics fetches the network metrics summary.
func (c *Client) Metrics(ctx context.Context) (model.NetworkMetrics, error) {
	var out model.NetworkMetrics
	err := c.get(ctx, "/api/metrics", "/api/metrics", nil, &out)
	return out, err
}

// Network fetches static network information.
func (c *Client) Network(ctx context.Context) (model.NetworkInfo, error) {
	var out model.NetworkInfo
	err := c.get(ctx, "/api/network", "/api/network", nil, &out)
	return out, err
}

// GetCache returns the cache manager, nil when caching is off.
func (c *Client) GetCache() *cache.Manager {
	return c.cache
}
