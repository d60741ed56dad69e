package services

import (
	"testing"

	"neftit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBurnRecordForStoresPoolEntryIDs(t *testing.T) {
	rule := &models.BurnRule{ID: 3, FromRarity: models.RarityLegendary, FromCount: 2, ToRarity: models.RarityPlatinum}
	burned := []*models.DistributionRecord{
		{ID: 101, EntryID: 9001, WalletAddress: "0xabc", Rarity: models.RarityLegendary},
		{ID: 102, EntryID: 9002, WalletAddress: "0xabc", Rarity: models.RarityLegendary},
	}

	record := burnRecordFor("0xabc", rule, burned, 555)

	// the log binds pool entries, not the distribution row ids
	require.Equal(t, []int64{9001, 9002}, record.BurnedEntryIDs)
	assert.Equal(t, int64(555), record.ResultID)
	assert.Equal(t, rule.ID, record.RuleID)
	assert.Equal(t, "0xabc", record.WalletAddress)
	assert.NotEmpty(t, record.TxID)
}
