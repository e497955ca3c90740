package cache

import (
	"maps"
	"net/url"
	"slices"
	"strings"
)

// CacheKey identifies a cached explorer response.
type CacheKey struct {
	// Endpoint is the request path (e.g. "/api/blocks").
	Endpoint string

	// PathParams are route parameters (e.g. {"id": "nfx-7"}).
	PathParams map[string]string

	// QueryParams are the query parameters (e.g. {"page": "2"}).
	QueryParams url.Values

	// Network scopes the key when several networks share one Redis.
	Network string
}

// String renders the key as colon-separated segments with parameters in
// sorted order, so equal requests map to one key regardless of map order:
//
//	bap:testnet:api/pools:limit=12:page=1:status=active
func (k CacheKey) String() string {
	var b strings.Builder
	b.WriteString("bap")

	if k.Network != "" {
		b.WriteString(":" + k.Network)
	}
	if endpoint := strings.Trim(k.Endpoint, "/"); endpoint != "" {
		b.WriteString(":" + endpoint)
	}

	for _, name := range slices.Sorted(maps.Keys(k.PathParams)) {
		writeParam(&b, name, k.PathParams[name])
	}
	// All values are kept so ?type=a&type=b and ?type=a differ.
	for _, name := range slices.Sorted(maps.Keys(k.QueryParams)) {
		writeParam(&b, name, strings.Join(k.QueryParams[name], ","))
	}

	return b.String()
}

func writeParam(b *strings.Builder, name, value string) {
	b.WriteByte(':')
	b.WriteString(name)
	b.WriteByte('=')
	b.WriteString(value)
}
