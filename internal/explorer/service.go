// Package explorer implements the ordered resource sources behind the list and
// detail endpoints. Every item is synthesized deterministically from its key
// and the chain anchor time, so repeated requests return identical payloads.
package explorer

import (
	"errors"
	"regexp"
	"time"

	"github.com/rs/zerolog"

	"github.com/blockandplay/explorer/internal/config"
	"github.com/blockandplay/explorer/pkg/logging"
	"github.com/blockandplay/explorer/pkg/pagination"
)

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// Service serves list and detail lookups for every resource kind.
type Service struct {
	network   string
	chainID   int64
	chain     config.ChainConfig
	contracts config.ContractsConfig
	logger    zerolog.Logger
}

// NewService creates a service from the startup configuration.
func NewService(cfg *config.Config) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if cfg.Chain.CurrentHeight < 1 {
		return nil, errors.New("chain current height must be >= 1")
	}
	if cfg.Chain.AnchorTime.IsZero() {
		return nil, errors.New("chain anchor time is required")
	}

	return &Service{
		network:   cfg.Network,
		chainID:   cfg.ChainID,
		chain:     cfg.Chain,
		contracts: cfg.Contracts,
		logger:    logging.NewLogger("explorer"),
	}, nil
}

// CurrentHeight returns the tip of the block source.
func (s *Service) CurrentHeight() int64 {
	return s.chain.CurrentHeight
}

func (s *Service) anchor() time.Time {
	return s.chain.AnchorTime.UTC()
}

// page is shared by every list operation.
func page[T any](p pagination.Page[T], err error) (pagination.Page[T], error) {
	if err != nil {
		return pagination.Page[T]{}, err
	}
	if p.Items == nil {
		p.Items = []T{}
	}
	return p, nil
}
