package explorer

import (
	"fmt"

	"github.com/blockandplay/explorer/internal/synth"
	"github.com/blockandplay/explorer/pkg/model"
)

// Metrics summarizes the network at the current height.
func (s *Service) Metrics() model.NetworkMetrics {
	g := synth.Newf("metrics:%s:%d", s.network, s.chain.CurrentHeight)
	return model.NetworkMetrics{
		Network:           s.network,
		BlockHeight:       s.chain.CurrentHeight,
		TotalTransactions: int64(s.chain.TransactionTotal),
		ActiveValidators:  s.chain.ActiveValidators,
		NetworkHashRate:   fmt.Sprintf("%.1f TH/s", 0.8+g.Float64()),
		AverageBlockTime:  fmt.Sprintf("%.1fs", s.chain.BlockInterval.Seconds()),
		TotalPenalties:    s.chain.PenaltySpace,
	}
}

// Network returns the network label and contract addresses.
func (s *Service) Network() model.NetworkInfo {
	return model.NetworkInfo{
		Network: s.network,
		ChainID: s.chainID,
		Contracts: map[string]string{
			"nft":   s.contracts.NFT,
			"token": s.contracts.Token,
			"nfx":   s.contracts.NFX,
		},
	}
}
