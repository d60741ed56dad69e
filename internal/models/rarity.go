package models

import "strings"

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityLegendary Rarity = "legendary"
	RarityPlatinum  Rarity = "platinum"
	RaritySilver    Rarity = "silver"
	RarityGold      Rarity = "gold"
)

// tier ladder, lowest first
var RarityLadder = []Rarity{
	RarityCommon,
	RarityRare,
	RarityLegendary,
	RarityPlatinum,
	RaritySilver,
	RarityGold,
}

// daily NEFT yield per staked entry
var DailyStakeReward = map[Rarity]float64{
	RarityCommon:    0.1,
	RarityRare:      0.4,
	RarityLegendary: 1.0,
	RarityPlatinum:  2.5,
	RaritySilver:    8,
	RarityGold:      30,
}

func ToRarity(s string) Rarity {
	return Rarity(strings.ToLower(strings.TrimSpace(s)))
}

func (r Rarity) Valid() bool {
	for _, v := range RarityLadder {
		if v == r {
			return true
		}
	}
	return false
}

func (r Rarity) Tier() int {
	for i, v := range RarityLadder {
		if v == r {
			return i + 1
		}
	}
	return 0
}

// NextLower returns the tier directly below r, or "" when r is the lowest.
func (r Rarity) NextLower() Rarity {
	for i, v := range RarityLadder {
		if v == r && i > 0 {
			return RarityLadder[i-1]
		}
	}
	return ""
}

func (r Rarity) String() string {
	return string(r)
}
