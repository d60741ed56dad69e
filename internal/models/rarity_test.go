package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRarityLadderOrder(t *testing.T) {
	require.Len(t, RarityLadder, 6)
	assert.Equal(t, RarityCommon, RarityLadder[0])
	assert.Equal(t, RarityGold, RarityLadder[len(RarityLadder)-1])

	// tiers are strictly increasing along the ladder
	for i := 1; i < len(RarityLadder); i++ {
		assert.Greater(t, RarityLadder[i].Tier(), RarityLadder[i-1].Tier())
	}
}

func TestToRarity(t *testing.T) {
	assert.Equal(t, RarityCommon, ToRarity("Common"))
	assert.Equal(t, RarityPlatinum, ToRarity("  PLATINUM "))
	assert.False(t, ToRarity("mythic").Valid())
	assert.False(t, ToRarity("").Valid())
}

func TestRarityNextLower(t *testing.T) {
	assert.Equal(t, Rarity(""), RarityCommon.NextLower())
	assert.Equal(t, RarityCommon, RarityRare.NextLower())
	assert.Equal(t, RarityLegendary, RarityPlatinum.NextLower())
	assert.Equal(t, RaritySilver, RarityGold.NextLower())
}

func TestDailyStakeRewardCoversLadder(t *testing.T) {
	for _, r := range RarityLadder {
		reward, ok := DailyStakeReward[r]
		require.True(t, ok, "missing stake rate for %s", r)
		assert.Greater(t, reward, 0.0)
	}

	// higher tiers always yield more
	for i := 1; i < len(RarityLadder); i++ {
		assert.Greater(t, DailyStakeReward[RarityLadder[i]], DailyStakeReward[RarityLadder[i-1]])
	}
}

func TestDefaultBurnRulesTargetHigherTiers(t *testing.T) {
	for _, rule := range DefaultBurnRules {
		assert.True(t, rule.FromRarity.Valid())
		assert.True(t, rule.ToRarity.Valid())
		assert.Greater(t, rule.ToRarity.Tier(), rule.FromRarity.Tier(), "rule %s -> %s must upgrade", rule.FromRarity, rule.ToRarity)
		assert.Greater(t, rule.FromCount, 0)
	}
}
