package explorer

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/blockandplay/explorer/internal/synth"
	"github.com/blockandplay/explorer/pkg/model"
	"github.com/blockandplay/explorer/pkg/pagination"
)

var txHashPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

// Weighted three to one to one, like a healthy mempool.
var txStatuses = []model.TxStatus{model.TxSuccess, model.TxSuccess, model.TxSuccess, model.TxFailed, model.TxPending}

// Transactions lists the most recent transactions first.
func (s *Service) Transactions(params pagination.Params) (pagination.Page[model.Transaction], error) {
	return page(pagination.Bounded(s.chain.TransactionTotal, params, s.transactionAt))
}

// Transaction resolves a transaction by hash. The body is seeded by the hash,
// so a hash taken from a list page resolves to the same sender, receiver,
// value and status.
func (s *Service) Transaction(hash string) (model.Transaction, error) {
	hash = strings.TrimSpace(hash)
	if hash == "" {
		return model.Transaction{}, invalidf("transaction hash is required")
	}
	if !txHashPattern.MatchString(hash) {
		return model.Transaction{}, invalidf("invalid transaction hash %q", hash)
	}
	return s.transaction(strings.ToLower(hash), s.anchor()), nil
}

func (s *Service) transactionAt(index int) model.Transaction {
	hash := synth.Newf("tx-index:%d", index).Hash()
	return s.transaction(hash, s.anchor().Add(-time.Duration(index)*s.chain.TransactionInterval))
}

func (s *Service) transaction(hash string, ts time.Time) model.Transaction {
	g := synth.New("tx:" + hash)
	return model.Transaction{
		Hash:        hash,
		From:        g.Address(),
		To:          g.Address(),
		Value:       fmt.Sprintf("%.4f BAP", g.Float64()*100),
		BlockHeight: int64(g.Range(1, int(s.chain.CurrentHeight))),
		Timestamp:   ts,
		Status:      synth.Pick(g, txStatuses),
		Fee:         fmt.Sprintf("%.6f BAP", g.Float64()*0.01),
	}
}
