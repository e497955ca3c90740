package explorer

import (
	"fmt"

	"github.com/blockandplay/explorer/internal/synth"
	"github.com/blockandplay/explorer/pkg/model"
	"github.com/blockandplay/explorer/pkg/pagination"
)

// Pools lists the validation pool catalog. The status filter runs over the
// whole catalog before windowing, so Total counts matching pools.
func (s *Service) Pools(params pagination.Params, status string) (pagination.Page[model.Pool], error) {
	if status != "" && !pagination.OneOf(status, model.PoolActive, model.PoolInactive) {
		return pagination.Page[model.Pool]{}, invalidf("unknown pool status %q", status)
	}
	keep := pagination.Equals(func(p model.Pool) string { return p.Status }, status)
	return page(pagination.BoundedFiltered(s.chain.PoolCatalog, params, poolAt, keep))
}

func poolAt(index int) model.Pool {
	g := synth.Newf("pool:%d", index)
	active := g.Float64() > 0.3

	p := model.Pool{
		ID:         g.Hash(),
		Name:       fmt.Sprintf("Validation Pool %d", index+1),
		TotalStake: fmt.Sprintf("%.2f BAP", g.Float64()*1_000_000+100_000),
		Validators: g.Range(5, 54),
		Commission: fmt.Sprintf("%.2f%%", g.Float64()*10),
		Status:     model.PoolInactive,
	}
	if active {
		p.Status = model.PoolActive
		p.Performance = g.Range(80, 99)
	} else {
		p.Performance = g.Intn(50)
	}
	return p
}
