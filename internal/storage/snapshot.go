// Package storage defines the versioned player-state snapshot and the Store
// contract for persisting it. Persistence is best-effort: a failing store
// degrades the session to in-memory play, never to a crash.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avalight/herobook/internal/game/hero"
)

// SnapshotVersion is the current snapshot format version.
const SnapshotVersion = 1

// ErrSnapshotNotFound is returned when no snapshot exists for a save id.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshot is the atomic, versioned persistence record for one session.
// Volume and audio preferences are deliberately absent: they persist
// independently and save/load must never overwrite them.
type Snapshot struct {
	Version     int               `json:"version"`
	SaveID      string            `json:"saveId"`
	SavedAt     time.Time         `json:"savedAt"`
	Page        string            `json:"page"`
	Stats       map[string]int    `json:"stats"`
	Inventory   []string          `json:"inventory"`
	Equipment   map[string]string `json:"equipment"`
	Spellbook   []string          `json:"spellbook"`
	Taken       map[string]bool   `json:"taken"`
	MaxStrength int               `json:"maxStrength"`
}

// Store persists snapshots atomically by save id.
//
// Implementations MUST make Save an idempotent overwrite: calling it
// repeatedly with the same id is always safe.
type Store interface {
	// Save overwrites the snapshot for snap.SaveID.
	Save(ctx context.Context, snap Snapshot) error
	// Load returns the snapshot for the given save id, or
	// ErrSnapshotNotFound.
	Load(ctx context.Context, saveID string) (Snapshot, error)
}

// SnapshotFromState captures the full player aggregate.
//
// Postcondition: the returned Snapshot carries the current format version
// and a fresh timestamp.
func SnapshotFromState(st *hero.State, saveID string) Snapshot {
	stats := make(map[string]int, 5)
	for name, v := range st.Stats.Map() {
		stats[string(name)] = v
	}
	equipment := make(map[string]string, len(st.Equipment))
	for slot, id := range st.Equipment {
		equipment[string(slot)] = id
	}
	taken := make(map[string]bool, len(st.Taken))
	for id := range st.Taken {
		taken[id] = true
	}
	return Snapshot{
		Version:     SnapshotVersion,
		SaveID:      saveID,
		SavedAt:     time.Now().UTC(),
		Page:        st.Page,
		Stats:       stats,
		Inventory:   append([]string(nil), st.Inventory[:]...),
		Equipment:   equipment,
		Spellbook:   append([]string(nil), st.Spellbook[:]...),
		Taken:       taken,
		MaxStrength: st.MaxStrength,
	}
}

// RestoreState rebuilds a player State from the snapshot.
//
// Postcondition: returns an error for unknown versions or malformed
// container sizes; callers treat any error as "start fresh", never as fatal.
func (s Snapshot) RestoreState() (*hero.State, error) {
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", s.Version)
	}
	if len(s.Inventory) != hero.InventorySlots {
		return nil, fmt.Errorf("inventory has %d slots, want %d", len(s.Inventory), hero.InventorySlots)
	}
	if len(s.Spellbook) != hero.SpellbookSlots {
		return nil, fmt.Errorf("spellbook has %d slots, want %d", len(s.Spellbook), hero.SpellbookSlots)
	}

	st := hero.NewState()
	st.Page = s.Page
	st.MaxStrength = s.MaxStrength
	st.Stats = hero.Stats{
		Strength:  s.Stats[string(hero.StatStrength)],
		Dexterity: s.Stats[string(hero.StatDexterity)],
		Charisma:  s.Stats[string(hero.StatCharisma)],
		Reaction:  s.Stats[string(hero.StatReaction)],
		Luck:      s.Stats[string(hero.StatLuck)],
	}
	copy(st.Inventory[:], s.Inventory)
	copy(st.Spellbook[:], s.Spellbook)
	for _, slot := range hero.EquipSlots() {
		if id := s.Equipment[string(slot)]; id != "" {
			st.Equipment[slot] = id
		}
	}
	for id, taken := range s.Taken {
		if taken {
			st.Taken[id] = true
		}
	}
	return st, nil
}
