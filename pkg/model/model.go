// Package model defines the wire types shared by the explorer API and its
// client. Field names and JSON tags form the public contract.
package model

import "time"

// Block is a chain block, ordered by height.
type Block struct {
	Height       int64     `json:"height"`
	Hash         string    `json:"hash"`
	Timestamp    time.Time `json:"timestamp"`
	Transactions int       `json:"transactions"`
	Validator    string    `json:"validator"`
	Size         int       `json:"size"`
}

// TxStatus is the execution status of a transaction.
type TxStatus string

const (
	TxSuccess TxStatus = "success"
	TxFailed  TxStatus = "failed"
	TxPending TxStatus = "pending"
)

// Transaction is a chain transaction, ordered by recency.
type Transaction struct {
	Hash        string    `json:"hash"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	Value       string    `json:"value"`
	BlockHeight int64     `json:"blockHeight"`
	Timestamp   time.Time `json:"timestamp"`
	Status      TxStatus  `json:"status"`
	Fee         string    `json:"fee"`
}

// Pool status filter values.
const (
	PoolActive   = "active"
	PoolInactive = "inactive"
)

// Pool is a validation pool, ordered by catalog index.
type Pool struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	TotalStake  string `json:"totalStake"`
	Validators  int    `json:"validators"`
	Commission  string `json:"commission"`
	Status      string `json:"status"`
	Performance int    `json:"performance"`
}

// Penalty type filter values.
const (
	PenaltySlash    = "slash"
	PenaltyJail     = "jail"
	PenaltyDowntime = "downtime"
)

// Penalty is a validator penalty, ordered by recency.
type Penalty struct {
	ID          string    `json:"id"`
	Validator   string    `json:"validator"`
	Type        string    `json:"type"`
	Reason      string    `json:"reason"`
	Amount      string    `json:"amount"`
	BlockHeight int64     `json:"blockHeight"`
	Timestamp   time.Time `json:"timestamp"`
}

// NFX is the list representation of a Non-Fungible eXpanding Island.
type NFX struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Owner       string `json:"owner"`
	Size        int    `json:"size"`
	Reputation  int    `json:"reputation"`
	Value       int    `json:"value"`
	Branding    string `json:"branding"`
	Premium     bool   `json:"premium"`
	AssetsCount int    `json:"assetsCount"`
	Partners    int    `json:"partners"`
	Subspaces   int    `json:"subspaces"`
}

// NFXStatistics aggregates activity of one NFX.
type NFXStatistics struct {
	TotalVisits       int `json:"totalVisits"`
	ActiveUsers       int `json:"activeUsers"`
	DailyTransactions int `json:"dailyTransactions"`
	AverageValue      int `json:"averageValue"`
}

// NFXGovernance summarizes on-island governance.
type NFXGovernance struct {
	VotingPower int      `json:"votingPower"`
	Proposals   int      `json:"proposals"`
	Decisions   []string `json:"decisions"`
}

// NFXEvent is one entry of the activity feed.
type NFXEvent struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	Value       *int      `json:"value,omitempty"`
}

// DepositedAsset is an asset held by an NFX.
type DepositedAsset struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Partner contributes to an NFX.
type Partner struct {
	Address      string `json:"address"`
	Name         string `json:"name"`
	Contribution int    `json:"contribution"`
}

// Subspace is a partition of an NFX.
type Subspace struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Size   int    `json:"size"`
	Status string `json:"status"`
}

// NFXDetail is the composite detail record. The nested collections are built
// together and never updated in place.
type NFXDetail struct {
	NFX

	CreatedAt       time.Time        `json:"createdAt"`
	LastActivity    time.Time        `json:"lastActivity"`
	Description     string           `json:"description"`
	Statistics      NFXStatistics    `json:"statistics"`
	Governance      NFXGovernance    `json:"governance"`
	Events          []NFXEvent       `json:"events"`
	DepositedAssets []DepositedAsset `json:"depositedAssets"`
	PartnersList    []Partner        `json:"partnersList"`
	SubspacesList   []Subspace       `json:"subspacesList"`
}

// Token describes a fungible token contract.
type Token struct {
	ID          string `json:"id"`
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	TotalSupply string `json:"totalSupply"`
	Decimals    int    `json:"decimals"`
	Holders     int    `json:"holders"`
}

// TokenTransfer is a transfer of a token.
type TokenTransfer struct {
	ID        string    `json:"id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Amount    string    `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
	TxHash    string    `json:"txHash"`
}

// TokenDetail is a token with its recent transfers.
type TokenDetail struct {
	Token     Token           `json:"token"`
	Transfers []TokenTransfer `json:"transfers"`
}

// Contract types.
const (
	ContractNFT   = "NFT"
	ContractToken = "Token"
	ContractGame  = "Game"
	ContractOther = "Other"
)

// Contract describes a deployed contract.
type Contract struct {
	ID               string    `json:"id"`
	Address          string    `json:"address"`
	Name             string    `json:"name"`
	Type             string    `json:"type"`
	Verified         bool      `json:"verified"`
	DeployedAt       time.Time `json:"deployedAt"`
	TransactionCount int       `json:"transactionCount"`
	Creator          string    `json:"creator"`
}

// ContractMethod is one ABI entry.
type ContractMethod struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Inputs  []string `json:"inputs"`
	Outputs []string `json:"outputs"`
}

// ContractDetail is a contract with its methods.
type ContractDetail struct {
	Contract Contract         `json:"contract"`
	Methods  []ContractMethod `json:"methods"`
}

// NFTMetadata is the optional off-chain metadata of an NFT.
type NFTMetadata struct {
	Image       string `json:"image,omitempty"`
	Description string `json:"description,omitempty"`
}

// NFT is a non-fungible token of the configured NFT contract.
type NFT struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Owner    string      `json:"owner"`
	TokenID  string      `json:"tokenId"`
	Contract string      `json:"contract"`
	Metadata NFTMetadata `json:"metadata"`
}

// NFT search types.
const (
	SearchTokenID  = "tokenId"
	SearchOwner    = "owner"
	SearchContract = "contract"
)

// HistoryEvent is one step in the life of an asset.
type HistoryEvent struct {
	ID        string    `json:"id"`
	AssetID   string    `json:"assetId"`
	EventType string    `json:"eventType"`
	From      string    `json:"from,omitempty"`
	To        string    `json:"to,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	TxHash    string    `json:"txHash"`
}

// NetworkMetrics summarizes chain activity.
type NetworkMetrics struct {
	Network           string `json:"network"`
	BlockHeight       int64  `json:"blockHeight"`
	TotalTransactions int64  `json:"totalTransactions"`
	ActiveValidators  int    `json:"activeValidators"`
	NetworkHashRate   string `json:"networkHashRate"`
	AverageBlockTime  string `json:"averageBlockTime"`
	TotalPenalties    int    `json:"totalPenalties"`
}

// NetworkInfo exposes the immutable network configuration.
type NetworkInfo struct {
	Network   string            `json:"network"`
	ChainID   int64             `json:"chainId"`
	Contracts map[string]string `json:"contracts"`
}

// Error codes carried by ErrorResponse.
const (
	CodeInvalidParameter = "invalid_parameter"
	CodeNotFound         = "not_found"
	CodeInternal         = "internal"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// BlocksResponse is the body of GET /api/blocks.
type BlocksResponse struct {
	Blocks []Block `json:"blocks"`
	Total  int     `json:"total"`
}

// BlockResponse is the body of a block lookup.
type BlockResponse struct {
	Block Block `json:"block"`
}

// TransactionsResponse is the body of GET /api/transactions.
type TransactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
	Total        int           `json:"total"`
}

// TransactionResponse is the body of a transaction lookup.
type TransactionResponse struct {
	Transaction Transaction `json:"transaction"`
}

// PoolsResponse is the body of GET /api/pools.
type PoolsResponse struct {
	Pools []Pool `json:"pools"`
	Total int    `json:"total"`
}

// PenaltiesResponse is the body of GET /api/penalties.
type PenaltiesResponse struct {
	Penalties []Penalty `json:"penalties"`
	Total     int       `json:"total"`
}

// NFXListResponse is the body of GET /api/nfx.
type NFXListResponse struct {
	NFX   []NFX `json:"nfx"`
	Total int   `json:"total"`
}

// NFXResponse is the body of GET /api/nfx/:id.
type NFXResponse struct {
	NFX NFXDetail `json:"nfx"`
}

// NFTsResponse is the body of GET /api/nfts.
type NFTsResponse struct {
	NFTs  []NFT `json:"nfts"`
	Total int   `json:"total"`
}

// HistoryResponse is the body of GET /api/history.
type HistoryResponse struct {
	Events []HistoryEvent `json:"events"`
	Total  int            `json:"total"`
}
