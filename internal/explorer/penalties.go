package explorer

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/blockandplay/explorer/internal/synth"
	"github.com/blockandplay/explorer/pkg/model"
	"github.com/blockandplay/explorer/pkg/pagination"
)

var penaltyTypes = []string{model.PenaltySlash, model.PenaltyJail, model.PenaltyDowntime}

var penaltyReasons = map[string]string{
	model.PenaltySlash:    "Double signing detected",
	model.PenaltyJail:     "Missed consecutive blocks",
	model.PenaltyDowntime: "Extended node downtime",
}

// Penalties lists penalties by recency. Items are generated one index at a
// time and tested against the type filter, bounded by the attempt cap.
// Generation is unbounded and Total reports the configured penalty space as an
// estimate. With exact totals the space becomes a hard bound and Total counts
// the matches in it.
func (s *Service) Penalties(params pagination.Params, penaltyType string) (pagination.Page[model.Penalty], error) {
	if penaltyType != "" && !pagination.OneOf(penaltyType, penaltyTypes...) {
		return pagination.Page[model.Penalty]{}, invalidf("unknown penalty type %q", penaltyType)
	}

	spec := pagination.GenerateSpec[model.Penalty]{
		At:          s.penaltyAt,
		Keep:        pagination.Equals(func(p model.Penalty) string { return p.Type }, penaltyType),
		MaxAttempts:    s.chain.PenaltyMaxAttempts,
		EstimatedTotal: s.chain.PenaltySpace,
		Policy:         pagination.TotalEstimate,
	}
	if s.chain.PenaltyExactTotal {
		spec.Size = s.chain.PenaltySpace
		spec.Policy = pagination.TotalExact
	}
	return page(pagination.Generate(spec, params))
}

func (s *Service) penaltyAt(index int) model.Penalty {
	g := synth.Newf("penalty:%d", index)
	kind := synth.Pick(g, penaltyTypes)

	amount := "N/A"
	if kind == model.PenaltySlash {
		amount = fmt.Sprintf("%.2f BAP", g.Float64()*10_000)
	}

	return model.Penalty{
		ID:          "penalty-" + strings.TrimPrefix(g.Hex(7), "0x"),
		Validator:   g.Address(),
		Type:        kind,
		Reason:      penaltyReasons[kind],
		Amount:      amount,
		BlockHeight: int64(g.Range(1, int(s.chain.CurrentHeight))),
		Timestamp:   s.anchor().Add(-stepsBack(index, s.chain.PenaltyInterval)),
	}
}

// stepsBack is index*step, saturating instead of wrapping for far indices.
func stepsBack(index int, step time.Duration) time.Duration {
	if step > 0 && int64(index) > math.MaxInt64/int64(step) {
		return math.MaxInt64
	}
	return time.Duration(index) * step
}
