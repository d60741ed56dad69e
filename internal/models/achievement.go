package models

import (
	"time"

	"github.com/uptrace/bun"
)

type AchievementStatus string

const (
	AchievementLocked     AchievementStatus = "locked"
	AchievementInProgress AchievementStatus = "in_progress"
	AchievementCompleted  AchievementStatus = "completed"
	AchievementClaimed    AchievementStatus = "claimed"
)

// rank of each status along the forward-only transition chain
var achievementStatusRank = map[AchievementStatus]int{
	AchievementLocked:     0,
	AchievementInProgress: 1,
	AchievementCompleted:  2,
	AchievementClaimed:    3,
}

func (s AchievementStatus) Valid() bool {
	_, ok := achievementStatusRank[s]
	return ok
}

// CanTransitionTo permits only forward steps of exactly one.
func (s AchievementStatus) CanTransitionTo(next AchievementStatus) bool {
	a, ok := achievementStatusRank[s]
	b, ok2 := achievementStatusRank[next]
	return ok && ok2 && b == a+1
}

// AchievementDef is the static catalog entry for one achievement key.
type AchievementDef struct {
	bun.BaseModel `bun:"table:achievement_defs"`
	Key           string  `bun:"key,pk" json:"key"`
	Title         string  `bun:"title" json:"title"`
	Category      string  `bun:"category" json:"category"`
	RequiredCount int     `bun:"required_count" json:"required_count"`
	NeftReward    float64 `bun:"neft_reward" json:"neft_reward"`
	XPReward      int     `bun:"xp_reward" json:"xp_reward"`
}

const (
	AchievementCategoryBurn    = "burn"
	AchievementCategoryStake   = "stake"
	AchievementCategoryQuest   = "quest"
	AchievementCategoryCheckin = "checkin"
)

var DefaultAchievements = []AchievementDef{
	{Key: "burn-1", Title: "NFT Burner", Category: AchievementCategoryBurn, RequiredCount: 1, NeftReward: 5, XPReward: 100},
	{Key: "burn-2", Title: "NFT Incinerator", Category: AchievementCategoryBurn, RequiredCount: 10, NeftReward: 10, XPReward: 250},
	{Key: "burn-3", Title: "NFT Demolisher", Category: AchievementCategoryBurn, RequiredCount: 25, NeftReward: 20, XPReward: 500},
	{Key: "burn-4", Title: "NFT Obliterator", Category: AchievementCategoryBurn, RequiredCount: 50, NeftReward: 50, XPReward: 1000},
	{Key: "stake-1", Title: "First Stake", Category: AchievementCategoryStake, RequiredCount: 1, NeftReward: 5, XPReward: 100},
	{Key: "stake-2", Title: "Stake Builder", Category: AchievementCategoryStake, RequiredCount: 10, NeftReward: 10, XPReward: 250},
	{Key: "stake-3", Title: "Stake Master", Category: AchievementCategoryStake, RequiredCount: 50, NeftReward: 20, XPReward: 500},
	{Key: "quest-1", Title: "Quest Novice", Category: AchievementCategoryQuest, RequiredCount: 1, NeftReward: 5, XPReward: 100},
	{Key: "quest-2", Title: "Quest Explorer", Category: AchievementCategoryQuest, RequiredCount: 10, NeftReward: 10, XPReward: 250},
	{Key: "quest-3", Title: "Quest Master", Category: AchievementCategoryQuest, RequiredCount: 25, NeftReward: 20, XPReward: 500},
	{Key: "quest-4", Title: "Quest Legend", Category: AchievementCategoryQuest, RequiredCount: 50, NeftReward: 50, XPReward: 1000},
	{Key: "checkin-3days", Title: "3-Day Streak", Category: AchievementCategoryCheckin, RequiredCount: 3, NeftReward: 5, XPReward: 100},
	{Key: "checkin-7days", Title: "7-Day Streak", Category: AchievementCategoryCheckin, RequiredCount: 7, NeftReward: 10, XPReward: 250},
	{Key: "checkin-30days", Title: "30-Day Streak", Category: AchievementCategoryCheckin, RequiredCount: 30, NeftReward: 30, XPReward: 500},
}

// AchievementState is the per-(wallet, key) progression row.
type AchievementState struct {
	bun.BaseModel `bun:"table:achievement_state"`
	ID            int64             `bun:"id,pk,autoincrement" json:"id"`
	WalletAddress string            `bun:"wallet_address" json:"wallet_address"`
	Key           string            `bun:"key" json:"key"`
	Progress      int               `bun:"progress,default:0" json:"progress"`
	RequiredCount int               `bun:"required_count" json:"required_count"`
	Status        AchievementStatus `bun:"status" json:"status"`
	CompletedAt   *time.Time        `bun:"completed_at" json:"completed_at,omitempty"`
	ClaimedAt     *time.Time        `bun:"claimed_at" json:"claimed_at,omitempty"`
	CreatedAt     time.Time         `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time         `bun:"updated_at" json:"updated_at"`
}

// Advance clamps progress to [0, RequiredCount] and fires the completed
// transition at most once. Advancing a completed or claimed achievement
// does nothing. It reports whether the row changed.
func (a *AchievementState) Advance(delta int, now time.Time) bool {
	if delta <= 0 {
		return false
	}
	if a.Status == AchievementCompleted || a.Status == AchievementClaimed {
		return false
	}

	next := a.Progress + delta
	if next > a.RequiredCount {
		next = a.RequiredCount
	}
	if next == a.Progress && a.Status != AchievementLocked {
		return false
	}

	a.Progress = next
	a.Status = AchievementInProgress
	if a.Progress >= a.RequiredCount && a.CompletedAt == nil {
		a.Status = AchievementCompleted
		a.CompletedAt = &now
	}
	a.UpdatedAt = now
	return true
}
