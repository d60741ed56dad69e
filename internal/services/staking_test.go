package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenDailyReward(t *testing.T) {
	// 1000 NEFT at 20% APR accrues 1000*0.20/365 per day
	assert.InDelta(t, 0.547945, TokenDailyReward(1000, 20), 1e-6)
	assert.InDelta(t, 0.0054794, TokenDailyReward(10, 20), 1e-6)
	assert.Equal(t, 0.0, TokenDailyReward(0, 20))
	assert.Equal(t, 0.0, TokenDailyReward(1000, 0))
}

func TestTokenDailyRewardScalesLinearly(t *testing.T) {
	base := TokenDailyReward(100, 20)
	assert.InDelta(t, base*10, TokenDailyReward(1000, 20), 1e-9)
	assert.InDelta(t, base*2, TokenDailyReward(100, 40), 1e-9)
}
