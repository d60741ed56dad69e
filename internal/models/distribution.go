package models

import (
	"time"

	"github.com/uptrace/bun"
)

// DistributionRecord binds a consumed pool entry to a wallet. Rows are
// immutable once written except for `recovered`, which marks manually
// voided distributions.
type DistributionRecord struct {
	bun.BaseModel `bun:"table:distribution_log"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	WalletAddress string    `bun:"wallet_address" json:"wallet_address"`
	EntryID       int64     `bun:"entry_id" json:"entry_id"`
	ProjectID     string    `bun:"project_id" json:"project_id"`
	Rarity        Rarity    `bun:"rarity" json:"rarity"`
	ImageCID      string    `bun:"image_cid" json:"image_cid"`
	MetadataCID   string    `bun:"metadata_cid" json:"metadata_cid"`
	AssignedChain *string   `bun:"assigned_chain" json:"assigned_chain,omitempty"`
	Recovered     bool      `bun:"recovered,default:false" json:"recovered"`
	BurnedAt      *time.Time `bun:"burned_at" json:"burned_at,omitempty"`
	DistributedAt time.Time `bun:"distributed_at,default:current_timestamp" json:"distributed_at"`
}

const (
	EntryStatusOffchain = "offchain"
	EntryStatusOnchain  = "onchain"
)

// OwnedEntry is the read-model row returned by the ownership view.
type OwnedEntry struct {
	DistributionID int64   `json:"distribution_id"`
	EntryID        int64   `json:"entry_id"`
	ProjectID      string  `json:"project_id"`
	Rarity         Rarity  `json:"rarity"`
	ImageCID       string  `json:"image_cid"`
	MetadataCID    string  `json:"metadata_cid"`
	AssignedChain  *string `json:"assigned_chain,omitempty"`
	Status         string  `json:"status"`
	Chain          string  `json:"chain,omitempty"`
	TokenID        int64   `json:"token_id,omitempty"`
	Staked         bool    `json:"staked"`
}
