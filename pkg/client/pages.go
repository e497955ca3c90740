package client

import (
	"context"

	"github.com/blockandplay/explorer/pkg/model"
	"github.com/blockandplay/explorer/pkg/pagination"
)

// Page fetchers adapt the list endpoints to pagination.PageFetcher so a
// pagination.BatchFetcher can crawl them.

// BlockPages walks /api/blocks.
func (c *Client) BlockPages() pagination.PageFetcher[model.Block] {
	return pagination.PageFetcherFunc[model.Block](func(ctx context.Context, p pagination.Params) (pagination.Page[model.Block], error) {
		r, err := c.Blocks(ctx, p)
		return pagination.Page[model.Block]{Items: r.Blocks, Total: r.Total}, err
	})
}

// TransactionPages walks /api/transactions.
func (c *Client) TransactionPages() pagination.PageFetcher[model.Transaction] {
	return pagination.PageFetcherFunc[model.Transaction](func(ctx context.Context, p pagination.Params) (pagination.Page[model.Transaction], error) {
		r, err := c.Transactions(ctx, p)
		return pagination.Page[model.Transaction]{Items: r.Transactions, Total: r.Total}, err
	})
}

// PoolPages walks /api/pools with an optional status filter.
func (c *Client) PoolPages(status string) pagination.PageFetcher[model.Pool] {
	return pagination.PageFetcherFunc[model.Pool](func(ctx context.Context, p pagination.Params) (pagination.Page[model.Pool], error) {
		r, err := c.Pools(ctx, p, status)
		return pagination.Page[model.Pool]{Items: r.Pools, Total: r.Total}, err
	})
}

// PenaltyPages walks /api/penalties with an optional type filter.
func (c *Client) PenaltyPages(penaltyType string) pagination.PageFetcher[model.Penalty] {
	return pagination.PageFetcherFunc[model.Penalty](func(ctx context.Context, p pagination.Params) (pagination.Page[model.Penalty], error) {
		r, err := c.Penalties(ctx, p, penaltyType)
		return pagination.Page[model.Penalty]{Items: r.Penalties, Total: r.Total}, err
	})
}

// NFXPages walks /api/nfx.
func (c *Client) NFXPages() pagination.PageFetcher[model.NFX] {
	return pagination.PageFetcherFunc[model.NFX](func(ctx context.Context, p pagination.Params) (pagination.Page[model.NFX], error) {
		r, err := c.NFXList(ctx, p)
		return pagination.Page[model.NFX]{Items: r.NFX, Total: r.Total}, err
	})
}

// NFTPages walks /api/nfts for one search.
func (c *Client) NFTPages(searchType, query string) pagination.PageFetcher[model.NFT] {
	return pagination.PageFetcherFunc[model.NFT](func(ctx context.Context, p pagination.Params) (pagination.Page[model.NFT], error) {
		r, err := c.NFTs(ctx, searchType, query, p)
		return pagination.Page[model.NFT]{Items: r.NFTs, Total: r.Total}, err
	})
}
