package models

import (
	"time"

	"github.com/uptrace/bun"
)

// ChainClaim records the permanent, first-wins binding of a distribution
// to one chain's minted token. unique(distribution_id) makes a racing
// duplicate insert fail instead of double-recording.
type ChainClaim struct {
	bun.BaseModel   `bun:"table:chain_claims"`
	ID              int64     `bun:"id,pk,autoincrement" json:"id"`
	DistributionID  int64     `bun:"distribution_id,unique" json:"distribution_id"`
	WalletAddress   string    `bun:"wallet_address" json:"wallet_address"`
	Chain           string    `bun:"chain" json:"chain"`
	ContractAddress string    `bun:"contract_address" json:"contract_address"`
	TokenID         int64     `bun:"token_id" json:"token_id"`
	TxHash          string    `bun:"tx_hash" json:"tx_hash"`
	ClaimedAt       time.Time `bun:"claimed_at,default:current_timestamp" json:"claimed_at"`
}
