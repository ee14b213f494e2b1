package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avalight/herobook/internal/game/hero"
	"github.com/avalight/herobook/internal/storage"
)

func sampleState() *hero.State {
	st := hero.NewState()
	st.ApplyDistribution(hero.DistributionFor(7))
	st.Page = "-005"
	st.Inventory[0] = "Item_apple"
	st.Inventory[3] = "Item_rope"
	st.Equipment[hero.SlotSheath] = "Item_sword"
	st.Spellbook[0] = "Spell_fireball"
	st.MarkTaken("Item_apple")
	st.MarkTaken("Item_rope")
	st.MarkTaken("Item_sword")
	st.MarkTaken("Spell_fireball")
	return st
}

func TestSnapshotRoundTrip(t *testing.T) {
	st := sampleState()
	snap := storage.SnapshotFromState(st, "save-1")

	assert.Equal(t, storage.SnapshotVersion, snap.Version)
	assert.Equal(t, "save-1", snap.SaveID)
	assert.False(t, snap.SavedAt.IsZero())
	assert.NotContains(t, snap.Stats, "musicVolume",
		"audio preferences never ride along in the snapshot")

	restored, err := snap.RestoreState()
	require.NoError(t, err)
	assert.Equal(t, st.Stats, restored.Stats)
	assert.Equal(t, st.MaxStrength, restored.MaxStrength)
	assert.Equal(t, st.Page, restored.Page)
	assert.Equal(t, st.Inventory, restored.Inventory)
	assert.Equal(t, st.Spellbook, restored.Spellbook)
	assert.Equal(t, st.Equipment, restored.Equipment)
	assert.Equal(t, st.Taken, restored.Taken)
	assert.Equal(t, hero.ModeNormal, restored.Mode, "battles never survive a restore")
}

func TestSnapshot_RestoreRejectsCorruptRecords(t *testing.T) {
	good := storage.SnapshotFromState(sampleState(), "save-1")

	wrongVersion := good
	wrongVersion.Version = 99
	_, err := wrongVersion.RestoreState()
	assert.Error(t, err)

	shortInventory := good
	shortInventory.Inventory = []string{"Item_apple"}
	_, err = shortInventory.RestoreState()
	assert.Error(t, err)

	shortSpellbook := good
	shortSpellbook.Spellbook = nil
	_, err = shortSpellbook.RestoreState()
	assert.Error(t, err)
}

func TestMemoryStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	_, err := store.Load(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrSnapshotNotFound)

	snap := storage.SnapshotFromState(sampleState(), "save-1")
	require.NoError(t, store.Save(ctx, snap))

	got, err := store.Load(ctx, "save-1")
	require.NoError(t, err)
	assert.Equal(t, snap, got)
}

func TestMemoryStore_SaveIsIdempotentOverwrite(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	first := storage.SnapshotFromState(sampleState(), "save-1")
	require.NoError(t, store.Save(ctx, first))
	require.NoError(t, store.Save(ctx, first))

	st := sampleState()
	st.Page = "-042"
	second := storage.SnapshotFromState(st, "save-1")
	require.NoError(t, store.Save(ctx, second))

	got, err := store.Load(ctx, "save-1")
	require.NoError(t, err)
	assert.Equal(t, "-042", got.Page)
}
