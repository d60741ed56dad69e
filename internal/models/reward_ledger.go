package models

import (
	"time"

	"github.com/uptrace/bun"
)

// DailyRewardLedgerRow holds one accounting day per wallet. The accrual
// job writes the *Earned columns once per (wallet, day); claim operations
// only ever increment the *Claimed columns. Pending for a bucket is
// sum(earned) - sum(claimed) across all rows and never goes negative.
type DailyRewardLedgerRow struct {
	bun.BaseModel `bun:"table:daily_reward_ledger"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	WalletAddress string    `bun:"wallet_address" json:"wallet_address"`
	Day           time.Time `bun:"day" json:"day"`
	NFTEarned     float64   `bun:"nft_earned" json:"nft_earned"`
	NFTClaimed    float64   `bun:"nft_claimed" json:"nft_claimed"`
	TokenEarned   float64   `bun:"token_earned" json:"token_earned"`
	TokenClaimed  float64   `bun:"token_claimed" json:"token_claimed"`
	Accrued       bool      `bun:"accrued,default:false" json:"accrued"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
}

type RewardSummary struct {
	WalletAddress string  `json:"wallet_address"`
	NFTEarned     float64 `json:"nft_earned"`
	NFTClaimed    float64 `json:"nft_claimed"`
	TokenEarned   float64 `json:"token_earned"`
	TokenClaimed  float64 `json:"token_claimed"`
}

func (s *RewardSummary) PendingNFT() float64 {
	if p := s.NFTEarned - s.NFTClaimed; p > 0 {
		return p
	}
	return 0
}

func (s *RewardSummary) PendingToken() float64 {
	if p := s.TokenEarned - s.TokenClaimed; p > 0 {
		return p
	}
	return 0
}
