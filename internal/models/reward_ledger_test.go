package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRewardSummaryPending(t *testing.T) {
	s := &RewardSummary{
		NFTEarned:    12.5,
		NFTClaimed:   4.5,
		TokenEarned:  3,
		TokenClaimed: 3,
	}

	assert.InDelta(t, 8.0, s.PendingNFT(), 1e-9)
	assert.Equal(t, 0.0, s.PendingToken())
}

func TestRewardSummaryPendingNeverNegative(t *testing.T) {
	// claimed can exceed earned transiently when summaries are rebuilt
	// mid-claim; pending must still floor at zero
	s := &RewardSummary{
		NFTEarned:    1,
		NFTClaimed:   2,
		TokenEarned:  0,
		TokenClaimed: 5,
	}

	assert.Equal(t, 0.0, s.PendingNFT())
	assert.Equal(t, 0.0, s.PendingToken())
}
