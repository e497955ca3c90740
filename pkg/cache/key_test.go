package cache

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheKey_String(t *testing.T) {
	tests := []struct {
		name string
		key  CacheKey
		want string
	}{
		{
			name: "simple endpoint no params",
			key:  CacheKey{Endpoint: "/api/metrics"},
			want: "bap:api/metrics",
		},
		{
			name: "endpoint with path params",
			key: CacheKey{
				Endpoint:   "/api/nfx/:id",
				PathParams: map[string]string{"id": "nfx-7"},
			},
			want: "bap:api/nfx/:id:id=nfx-7",
		},
		{
			name: "query params sorted",
			key: CacheKey{
				Endpoint: "/api/pools",
				QueryParams: url.Values{
					"status": []string{"active"},
					"limit":  []string{"12"},
					"page":   []string{"1"},
				},
			},
			want: "bap:api/pools:limit=12:page=1:status=active",
		},
		{
			name: "multi-valued query param",
			key: CacheKey{
				Endpoint:    "/api/penalties",
				QueryParams: url.Values{"type": []string{"slash", "jail"}},
			},
			want: "bap:api/penalties:type=slash,jail",
		},
		{
			name: "network scoped",
			key: CacheKey{
				Endpoint:    "/api/blocks",
				QueryParams: url.Values{"page": []string{"2"}},
				Network:     "testnet",
			},
			want: "bap:testnet:api/blocks:page=2",
		},
		{
			name: "deterministic ordering with multiple path params",
			key: CacheKey{
				Endpoint: "/api/some/endpoint/",
				PathParams: map[string]string{
					"param_z": "value_z",
					"param_a": "value_a",
					"param_m": "value_m",
				},
			},
			want: "bap:api/some/endpoint:param_a=value_a:param_m=value_m:param_z=value_z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.key.String())
		})
	}
}

func TestCacheKey_Determinism(t *testing.T) {
	key := CacheKey{
		Endpoint:   "/api/transactions",
		PathParams: map[string]string{"hash": "0xabc", "kind": "detail"},
		QueryParams: url.Values{
			"page":  []string{"3"},
			"limit": []string{"20"},
		},
	}

	first := key.String()
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, key.String())
	}
}
