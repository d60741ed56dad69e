package models

import (
	"time"

	"github.com/uptrace/bun"
)

// BurnRule is static configuration seeded by cmd/migrate:
// FromCount entries of FromRarity burn into one entry of ToRarity.
type BurnRule struct {
	bun.BaseModel `bun:"table:burn_rule"`
	ID            int64  `bun:"id,pk,autoincrement" json:"id"`
	FromRarity    Rarity `bun:"from_rarity" json:"from_rarity"`
	FromCount     int    `bun:"from_count" json:"from_count"`
	ToRarity      Rarity `bun:"to_rarity" json:"to_rarity"`
	Active        bool   `bun:"active,default:true" json:"active"`
}

var DefaultBurnRules = []BurnRule{
	{FromRarity: RarityCommon, FromCount: 5, ToRarity: RarityPlatinum, Active: true},
	{FromRarity: RarityRare, FromCount: 3, ToRarity: RarityPlatinum, Active: true},
	{FromRarity: RarityLegendary, FromCount: 2, ToRarity: RarityPlatinum, Active: true},
	{FromRarity: RarityPlatinum, FromCount: 5, ToRarity: RaritySilver, Active: true},
	{FromRarity: RaritySilver, FromCount: 5, ToRarity: RarityGold, Active: true},
}

// BurnRecord is written atomically with the consumption of the burned
// entries and the distribution of the upgraded one.
type BurnRecord struct {
	bun.BaseModel  `bun:"table:burn_log"`
	ID             int64     `bun:"id,pk,autoincrement" json:"id"`
	TxID           string    `bun:"tx_id" json:"tx_id"`
	WalletAddress  string    `bun:"wallet_address" json:"wallet_address"`
	BurnedEntryIDs []int64   `bun:"burned_entry_ids,array" json:"burned_entry_ids"`
	ResultID       int64     `bun:"result_id" json:"result_id"`
	RuleID         int64     `bun:"rule_id" json:"rule_id"`
	CreatedAt      time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
}
