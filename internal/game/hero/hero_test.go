package hero_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/avalight/herobook/internal/game/hero"
)

func TestDistributionFor_AllSumsMapped(t *testing.T) {
	for sum := 2; sum <= 12; sum++ {
		d := hero.DistributionFor(sum)
		assert.Greater(t, d.Strength, 0, "sum %d must map to a real entry", sum)
		assert.Greater(t, d.Dexterity, 0, "sum %d must map to a real entry", sum)
	}
}

func TestDistributionFor_Extremes(t *testing.T) {
	low := hero.DistributionFor(2)
	assert.Equal(t, hero.Stats{Strength: 22, Dexterity: 8, Charisma: 8, Reaction: 5, Luck: 9}, low)

	high := hero.DistributionFor(12)
	assert.Equal(t, hero.Stats{Strength: 20, Dexterity: 11, Charisma: 5, Reaction: 5, Luck: 9}, high)
}

func TestDistributionFor_UnmappedFallsBackToSeven(t *testing.T) {
	seven := hero.DistributionFor(7)
	assert.Equal(t, seven, hero.DistributionFor(0))
	assert.Equal(t, seven, hero.DistributionFor(13))
	assert.Equal(t, seven, hero.DistributionFor(-4))
}

func TestStats_Map(t *testing.T) {
	s := hero.Stats{Strength: 20, Dexterity: 9, Charisma: 7, Reaction: 5, Luck: 9}
	m := s.Map()
	require.Len(t, m, 5)
	assert.Equal(t, 20, m[hero.StatStrength])
	assert.Equal(t, 9, m[hero.StatDexterity])
	assert.Equal(t, 7, m[hero.StatCharisma])
	assert.Equal(t, 5, m[hero.StatReaction])
	assert.Equal(t, 9, m[hero.StatLuck])
}

func TestNewState_StartsZeroed(t *testing.T) {
	s := hero.NewState()
	assert.Equal(t, hero.DefaultStats(), s.Stats)
	assert.Equal(t, 0, s.MaxStrength)
	assert.Equal(t, hero.ModeNormal, s.Mode)
	for _, id := range s.Inventory {
		assert.Empty(t, id)
	}
	for _, id := range s.Spellbook {
		assert.Empty(t, id)
	}
	assert.Empty(t, s.Equipment)
	assert.Empty(t, s.Taken)
}

func TestApplyDistribution_SetsMaxStrengthOnce(t *testing.T) {
	s := hero.NewState()
	s.ApplyDistribution(hero.DistributionFor(7))
	assert.Equal(t, 20, s.Stats.Strength)
	assert.Equal(t, 20, s.MaxStrength)

	// A second roll overwrites stats but never MaxStrength.
	s.ApplyDistribution(hero.DistributionFor(9))
	assert.Equal(t, 24, s.Stats.Strength)
	assert.Equal(t, 20, s.MaxStrength)
}

func TestEquipSlotByIndex(t *testing.T) {
	tests := []struct {
		idx  int
		want hero.EquipSlot
		ok   bool
	}{
		{1, hero.SlotSheath, true},
		{2, hero.SlotWorn, true},
		{3, hero.SlotClothing, true},
		{0, "", false},
		{4, "", false},
		{-1, "", false},
	}
	for _, tc := range tests {
		got, ok := hero.EquipSlotByIndex(tc.idx)
		assert.Equal(t, tc.ok, ok, "index %d", tc.idx)
		assert.Equal(t, tc.want, got, "index %d", tc.idx)
	}
}

func TestFirstEmptyInventorySlot(t *testing.T) {
	s := hero.NewState()
	idx, ok := s.FirstEmptyInventorySlot()
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	s.Inventory[0] = "Item_rope"
	s.Inventory[1] = "Item_torch"
	idx, ok = s.FirstEmptyInventorySlot()
	require.True(t, ok)
	assert.Equal(t, 2, idx)

	for i := range s.Inventory {
		s.Inventory[i] = "Item_filler"
	}
	_, ok = s.FirstEmptyInventorySlot()
	assert.False(t, ok)
}

func TestSetStrength_ClampsAtZeroAndCap(t *testing.T) {
	s := hero.NewState()
	s.ApplyDistribution(hero.DistributionFor(7)) // Strength 20, cap 20

	s.SetStrength(-5)
	assert.Equal(t, 0, s.Stats.Strength)

	s.SetStrength(35)
	assert.Equal(t, 20, s.Stats.Strength)

	s.SetStrength(12)
	assert.Equal(t, 12, s.Stats.Strength)
}

func TestSetStrength_Property_NeverNegativeNeverAboveCap(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := hero.NewState()
		s.ApplyDistribution(hero.DistributionFor(rapid.IntRange(2, 12).Draw(rt, "sum")))
		v := rapid.IntRange(-100, 100).Draw(rt, "strength")
		s.SetStrength(v)
		assert.GreaterOrEqual(rt, s.Stats.Strength, 0)
		assert.LessOrEqual(rt, s.Stats.Strength, s.MaxStrength)
	})
}
