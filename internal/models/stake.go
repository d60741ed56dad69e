package models

import (
	"time"

	"github.com/uptrace/bun"
)

// StakeRecord tracks one distributed entry locked for yield. `active`
// flips to false on unstake; an active entry refuses burn and chain-claim.
type StakeRecord struct {
	bun.BaseModel `bun:"table:stake_records"`
	ID            int64      `bun:"id,pk,autoincrement" json:"id"`
	WalletAddress string     `bun:"wallet_address" json:"wallet_address"`
	EntryID       int64      `bun:"entry_id" json:"entry_id"`
	Rarity        Rarity     `bun:"rarity" json:"rarity"`
	DailyReward   float64    `bun:"daily_reward" json:"daily_reward"`
	Active        bool       `bun:"active,default:true" json:"active"`
	StakedAt      time.Time  `bun:"staked_at,default:current_timestamp" json:"staked_at"`
	UnstakedAt    *time.Time `bun:"unstaked_at" json:"unstaked_at,omitempty"`
}

// TokenStake is a staked NEFT position accruing at a flat APR.
type TokenStake struct {
	bun.BaseModel `bun:"table:token_stakes"`
	ID            int64      `bun:"id,pk,autoincrement" json:"id"`
	WalletAddress string     `bun:"wallet_address" json:"wallet_address"`
	Amount        float64    `bun:"amount" json:"amount"`
	APRRate       float64    `bun:"apr_rate" json:"apr_rate"`
	DailyReward   float64    `bun:"daily_reward" json:"daily_reward"`
	Active        bool       `bun:"active,default:true" json:"active"`
	StakedAt      time.Time  `bun:"staked_at,default:current_timestamp" json:"staked_at"`
	UnstakedAt    *time.Time `bun:"unstaked_at" json:"unstaked_at,omitempty"`
}

type StakingSummary struct {
	StakedNFTCount     int     `json:"staked_nft_count"`
	StakedTokenAmount  float64 `json:"staked_token_amount"`
	DailyNFTRewards    float64 `json:"daily_nft_rewards"`
	DailyTokenRewards  float64 `json:"daily_token_rewards"`
	PendingNFTRewards  float64 `json:"pending_nft_rewards"`
	PendingTokenReward float64 `json:"pending_token_rewards"`
}
