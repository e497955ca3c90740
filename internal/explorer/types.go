package explorer

// NFTQuery narrows an NFT search.
type NFTQuery struct {
	Type  string
	Query string
}
