package explorer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/blockandplay/explorer/internal/synth"
	"github.com/blockandplay/explorer/pkg/model"
	"github.com/blockandplay/explorer/pkg/pagination"
)

const (
	tokenTransferCount = 5
	maxAssetIDLength   = 128
)

var historySteps = []string{"transferred", "transferred", "evolved"}

// Token resolves a token by contract address. An empty address means the
// configured token contract.
func (s *Service) Token(address string) (model.TokenDetail, error) {
	addr, err := s.resolveAddress(address, s.contracts.Token)
	if err != nil {
		return model.TokenDetail{}, err
	}

	g := synth.New("token:" + addr)
	detail := model.TokenDetail{
		Token: model.Token{
			ID:          "1",
			Symbol:      "BAP",
			Name:        "Block And Play Token",
			Address:     addr,
			TotalSupply: "1000000000",
			Decimals:    18,
			Holders:     g.Range(100, 4_999),
		},
		Transfers: make([]model.TokenTransfer, 0, tokenTransferCount),
	}
	for i := 0; i < tokenTransferCount; i++ {
		detail.Transfers = append(detail.Transfers, model.TokenTransfer{
			ID:        strconv.Itoa(i + 1),
			From:      g.Address(),
			To:        g.Address(),
			Amount:    strconv.Itoa(g.Range(1, 10_000)),
			Timestamp: s.anchor().Add(-time.Duration(i) * time.Hour),
			TxHash:    g.Hash(),
		})
	}
	return detail, nil
}

// Contract resolves a contract by address. An empty address means the
// configured NFT contract.
func (s *Service) Contract(address string) (model.ContractDetail, error) {
	addr, err := s.resolveAddress(address, s.contracts.NFT)
	if err != nil {
		return model.ContractDetail{}, err
	}

	g := synth.New("contract:" + addr)
	c := model.Contract{
		ID:               "1",
		Address:          addr,
		Verified:         true,
		TransactionCount: g.Range(100, 9_999),
		Creator:          g.Address(),
	}

	switch {
	case strings.EqualFold(addr, s.contracts.NFT):
		c.Name, c.Type = "BAP NFT Contract", model.ContractNFT
		c.DeployedAt = s.anchor().Add(-30 * day)
	case strings.EqualFold(addr, s.contracts.Token):
		c.Name, c.Type = "BAP Token Contract", model.ContractToken
		c.DeployedAt = s.anchor().Add(-30 * day)
	case strings.EqualFold(addr, s.contracts.NFX):
		c.Name, c.Type = "NFX Registry", model.ContractOther
		c.DeployedAt = s.anchor().Add(-30 * day)
	default:
		c.Type = synth.Pick(g, []string{model.ContractNFT, model.ContractToken, model.ContractGame, model.ContractOther})
		c.Name = fmt.Sprintf("%s Contract %s", c.Type, addr[2:8])
		c.Verified = g.Chance(0.7)
		c.DeployedAt = s.anchor().Add(-time.Duration(g.Range(1, 365)) * day)
	}

	return model.ContractDetail{Contract: c, Methods: contractMethods(c.Type)}, nil
}

func contractMethods(kind string) []model.ContractMethod {
	read := func(name string, inputs []string, outputs ...string) model.ContractMethod {
		return model.ContractMethod{Name: name, Type: "read", Inputs: inputs, Outputs: outputs}
	}
	write := func(name string, inputs ...string) model.ContractMethod {
		return model.ContractMethod{Name: name, Type: "write", Inputs: inputs, Outputs: []string{}}
	}

	switch kind {
	case model.ContractToken:
		return []model.ContractMethod{
			write("transfer", "address to", "uint256 amount"),
			read("balanceOf", []string{"address owner"}, "uint256"),
			read("totalSupply", []string{}, "uint256"),
		}
	case model.ContractNFT:
		return []model.ContractMethod{
			write("mint", "address to", "uint256 tokenId"),
			read("balanceOf", []string{"address owner"}, "uint256"),
			read("ownerOf", []string{"uint256 tokenId"}, "address"),
		}
	default:
		return []model.ContractMethod{
			write("mint", "address to", "uint256 tokenId"),
			read("balanceOf", []string{"address owner"}, "uint256"),
		}
	}
}

// NFTs searches the NFT supply of the configured NFT contract. The filter
// runs before windowing.
func (s *Service) NFTs(q NFTQuery, params pagination.Params) (pagination.Page[model.NFT], error) {
	keep, err := nftPredicate(q)
	if err != nil {
		return pagination.Page[model.NFT]{}, err
	}
	return page(pagination.BoundedFiltered(s.chain.NFTSupply, params, s.nftAt, keep))
}

func nftPredicate(q NFTQuery) (pagination.Predicate[model.NFT], error) {
	query := strings.TrimSpace(q.Query)

	switch q.Type {
	case "":
		if query == "" {
			return nil, nil
		}
		return func(n model.NFT) bool {
			return n.TokenID == query || strings.EqualFold(n.Owner, query) || strings.EqualFold(n.Contract, query)
		}, nil
	case model.SearchTokenID, model.SearchOwner, model.SearchContract:
	default:
		return nil, invalidf("unknown search type %q", q.Type)
	}

	if query == "" {
		return nil, invalidf("query is required for search type %q", q.Type)
	}

	switch q.Type {
	case model.SearchTokenID:
		return func(n model.NFT) bool { return n.TokenID == query }, nil
	case model.SearchOwner:
		return func(n model.NFT) bool { return strings.EqualFold(n.Owner, query) }, nil
	default:
		return func(n model.NFT) bool { return strings.EqualFold(n.Contract, query) }, nil
	}
}

func (s *Service) nftAt(index int) model.NFT {
	tokenID := strconv.Itoa(index + 1)
	g := synth.New("nft:" + tokenID)

	n := model.NFT{
		ID:       tokenID,
		Name:     "BAP NFT #" + tokenID,
		Owner:    g.Address(),
		TokenID:  tokenID,
		Contract: s.contracts.NFT,
		Metadata: model.NFTMetadata{Description: "Block And Play collectible #" + tokenID},
	}
	if g.Chance(0.5) {
		n.Metadata.Image = fmt.Sprintf("ipfs://%s/%s.png", strings.TrimPrefix(g.Hex(16), "0x"), tokenID)
	}
	return n
}

// History returns the life of an asset in chronological order: a mint, a few
// transfers or evolutions, and sometimes a burn.
func (s *Service) History(assetID string) ([]model.HistoryEvent, error) {
	assetID = strings.TrimSpace(assetID)
	if assetID == "" {
		return nil, invalidf("assetId is required")
	}
	if len(assetID) > maxAssetIDLength {
		return nil, invalidf("assetId exceeds %d characters", maxAssetIDLength)
	}

	g := synth.New("history:" + assetID)
	steps := g.Range(1, 4)
	burned := g.Chance(0.1)

	count := 1 + steps
	if burned {
		count++
	}

	events := make([]model.HistoryEvent, 0, count)
	holder := g.Address()
	at := func(i int) time.Time {
		return s.anchor().Add(-time.Duration((count-i)*5) * day)
	}

	events = append(events, model.HistoryEvent{
		EventType: "minted",
		To:        holder,
	})
	for i := 0; i < steps; i++ {
		ev := model.HistoryEvent{EventType: synth.Pick(g, historySteps)}
		if ev.EventType == "transferred" {
			next := g.Address()
			ev.From, ev.To = holder, next
			holder = next
		}
		events = append(events, ev)
	}
	if burned {
		events = append(events, model.HistoryEvent{EventType: "burned", From: holder})
	}

	for i := range events {
		events[i].ID = strconv.Itoa(i + 1)
		events[i].AssetID = assetID
		events[i].Timestamp = at(i)
		events[i].TxHash = g.Hash()
	}
	return events, nil
}

func (s *Service) resolveAddress(address, fallback string) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return fallback, nil
	}
	if !addressPattern.MatchString(address) {
		return "", invalidf("invalid address %q", address)
	}
	return address, nil
}
