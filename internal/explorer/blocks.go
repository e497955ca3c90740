package explorer

import (
	"strconv"
	"strings"
	"time"

	"github.com/blockandplay/explorer/internal/synth"
	"github.com/blockandplay/explorer/pkg/model"
	"github.com/blockandplay/explorer/pkg/pagination"
)

// Blocks lists blocks from the tip downwards. Total is the current height.
func (s *Service) Blocks(params pagination.Params) (pagination.Page[model.Block], error) {
	return page(pagination.Descending(s.chain.CurrentHeight, params, s.blockAt))
}

// Block resolves a block by its height given as a decimal string.
func (s *Service) Block(id string) (model.Block, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.Block{}, invalidf("block identifier is required")
	}
	height, err := strconv.ParseInt(id, 10, 64)
	if err != nil || height < 1 {
		return model.Block{}, invalidf("invalid block identifier %q", id)
	}
	return s.BlockAt(height)
}

// BlockAt resolves a block by height.
func (s *Service) BlockAt(height int64) (model.Block, error) {
	if height < 1 {
		return model.Block{}, invalidf("block height must be >= 1 (got %d)", height)
	}
	if height > s.chain.CurrentHeight {
		return model.Block{}, notFoundf("block %d is above current height %d", height, s.chain.CurrentHeight)
	}
	return s.blockAt(height), nil
}

func (s *Service) blockAt(height int64) model.Block {
	g := synth.Newf("block:%d", height)
	return model.Block{
		Height:       height,
		Hash:         g.Hash(),
		Timestamp:    s.blockTime(height),
		Transactions: g.Range(1, 50),
		Validator:    g.Address(),
		Size:         g.Range(10, 109),
	}
}

func (s *Service) blockTime(height int64) time.Time {
	behind := s.chain.CurrentHeight - height
	return s.anchor().Add(-time.Duration(behind) * s.chain.BlockInterval)
}
