package services

import (
	"testing"

	"neftit/internal/models"

	"github.com/mroth/weightedrand/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGachaSingleChoice(t *testing.T) {
	service, err := NewServiceGacha([]weightedrand.Choice[models.Rarity, int]{
		weightedrand.NewChoice(models.RarityCommon, 1),
	})
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		assert.Equal(t, models.RarityCommon, service.Pick())
	}
}

func TestGachaRespectsWeights(t *testing.T) {
	service, err := NewServiceGacha([]weightedrand.Choice[models.Rarity, int]{
		weightedrand.NewChoice(models.RarityCommon, 99),
		weightedrand.NewChoice(models.RarityGold, 1),
	})
	require.NoError(t, err)

	counts := map[models.Rarity]int{}
	for i := 0; i < 10000; i++ {
		counts[service.Pick()]++
	}

	assert.Greater(t, counts[models.RarityCommon], counts[models.RarityGold])
	// 1% weight should land well under a tenth of the draws
	assert.Less(t, counts[models.RarityGold], 1000)
}

func TestGachaRejectsNoChoices(t *testing.T) {
	_, err := NewServiceGacha([]weightedrand.Choice[models.Rarity, int]{})
	assert.Error(t, err)
}
