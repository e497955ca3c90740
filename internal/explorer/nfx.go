package explorer

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/blockandplay/explorer/internal/synth"
	"github.com/blockandplay/explorer/pkg/model"
	"github.com/blockandplay/explorer/pkg/pagination"
)

var nfxIDPattern = regexp.MustCompile(`^nfx-([1-9][0-9]*)$`)

var (
	nfxNames = []string{
		"Innovation District", "Creative Hub", "Tech Valley", "Art Quarter", "Business Center",
		"Gaming Arena", "Media Plaza", "Science Park", "Cultural Space", "Commerce Zone",
	}
	nfxBrandings = []string{
		"Technology", "Arts & Culture", "Business", "Gaming", "Education",
		"Finance", "Entertainment", "Health", "Sports", "Science",
	}
	nfxEventTypes      = []string{"Created", "Asset Deposited", "Partner Added", "Governance Vote", "Value Update"}
	nfxAssetTypes      = []string{"NFT", "Token", "Contract", "Data"}
	nfxSubspaceStatus  = []string{"Active", "Pending", "Inactive"}
	nfxGovernanceNotes = []string{
		"Approved expansion to new sectors",
		"Updated branding guidelines",
		"New partner requirements established",
	}
)

const (
	nfxEventCount = 10
	day           = 24 * time.Hour
)

// NFXList lists the NFX catalog in id order, starting at nfx-1.
func (s *Service) NFXList(params pagination.Params) (pagination.Page[model.NFX], error) {
	return page(pagination.Bounded(s.chain.NFXCatalog, params, func(i int) model.NFX {
		base, _ := nfxBase(i + 1)
		return base
	}))
}

// NFX resolves the composite detail of nfx-<n>.
func (s *Service) NFX(id string) (model.NFXDetail, error) {
	n, err := ParseNFXID(id)
	if err != nil {
		return model.NFXDetail{}, err
	}
	if n > s.chain.NFXCatalog {
		return model.NFXDetail{}, notFoundf("nfx %q is outside the catalog of %d", id, s.chain.NFXCatalog)
	}
	return s.nfxDetail(n), nil
}

// ParseNFXID extracts n from an identifier of the form nfx-<n>.
func ParseNFXID(id string) (int, error) {
	m := nfxIDPattern.FindStringSubmatch(id)
	if m == nil {
		return 0, invalidf("invalid NFX id %q", id)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, invalidf("invalid NFX id %q", id)
	}
	return n, nil
}

// nfxBase draws the fields shared by list and detail. The returned generator
// continues the same sequence for the detail-only fields.
func nfxBase(n int) (model.NFX, *synth.Rand) {
	g := synth.Newf("nfx:%d", n)
	base := model.NFX{
		ID:          fmt.Sprintf("nfx-%d", n),
		Name:        fmt.Sprintf("%s #%d", nfxNames[n%len(nfxNames)], n),
		Owner:       g.Address(),
		Size:        g.Range(100, 10_099),
		Reputation:  g.Intn(100),
		Value:       g.Range(10_000, 1_009_999),
		Branding:    nfxBrandings[n%len(nfxBrandings)],
		Premium:     g.Chance(0.3),
		AssetsCount: g.Range(1, 24),
		Partners:    g.Range(3, 12),
		Subspaces:   g.Range(2, 9),
	}
	return base, g
}

func (s *Service) nfxDetail(n int) model.NFXDetail {
	base, g := nfxBase(n)
	anchor := s.anchor()

	d := model.NFXDetail{
		NFX:          base,
		CreatedAt:    anchor.Add(-time.Duration(g.Float64() * float64(365*day))).Truncate(time.Second),
		LastActivity: anchor.Add(-time.Duration(g.Float64() * float64(7*day))).Truncate(time.Second),
		Description: fmt.Sprintf("This is a %s-focused NFX (Non-Fungible eXpanding Island) that serves as a digital space "+
			"for collaboration, trading, and community building within the Block And Play ecosystem.", base.Branding),
		Statistics: model.NFXStatistics{
			TotalVisits:       g.Range(1_000, 100_999),
			ActiveUsers:       g.Range(50, 1_049),
			DailyTransactions: g.Range(10, 509),
			AverageValue:      g.Range(1_000, 50_999),
		},
		Governance: model.NFXGovernance{
			VotingPower: g.Intn(10_000),
			Proposals:   g.Intn(20),
			Decisions:   append([]string(nil), nfxGovernanceNotes...),
		},
	}

	d.Events = make([]model.NFXEvent, 0, nfxEventCount)
	for i := 0; i < nfxEventCount; i++ {
		ev := model.NFXEvent{
			ID:          fmt.Sprintf("event-%d", i),
			Type:        nfxEventTypes[i%len(nfxEventTypes)],
			Description: fmt.Sprintf("Event %d description for this NFX", i+1),
			Timestamp:   anchor.Add(-time.Duration(i) * day),
		}
		if g.Chance(0.5) {
			v := g.Intn(10_000)
			ev.Value = &v
		}
		d.Events = append(d.Events, ev)
	}

	d.DepositedAssets = make([]model.DepositedAsset, 0, base.AssetsCount)
	for i := 0; i < base.AssetsCount; i++ {
		d.DepositedAssets = append(d.DepositedAssets, model.DepositedAsset{
			ID:    fmt.Sprintf("asset-%d", i),
			Type:  nfxAssetTypes[i%len(nfxAssetTypes)],
			Name:  fmt.Sprintf("Asset %d", i+1),
			Value: g.Intn(50_000),
		})
	}

	d.PartnersList = make([]model.Partner, 0, base.Partners)
	for i := 0; i < base.Partners; i++ {
		d.PartnersList = append(d.PartnersList, model.Partner{
			Address:      g.Address(),
			Name:         fmt.Sprintf("Partner %d", i+1),
			Contribution: g.Intn(100_000),
		})
	}

	d.SubspacesList = make([]model.Subspace, 0, base.Subspaces)
	for i := 0; i < base.Subspaces; i++ {
		d.SubspacesList = append(d.SubspacesList, model.Subspace{
			ID:     fmt.Sprintf("subspace-%d", i),
			Name:   fmt.Sprintf("Subspace %d", i+1),
			Size:   g.Range(50, 1_049),
			Status: nfxSubspaceStatus[i%len(nfxSubspaceStatus)],
		})
	}

	s.logger.Debug().
		Str("nfx", base.ID).
		Int("assets", len(d.DepositedAssets)).
		Int("partners", len(d.PartnersList)).
		Int("subspaces", len(d.SubspacesList)).
		Msg("Assembled NFX detail")

	return d
}
