// Package inventory implements the slot-assignment, one-time-pickup, and
// consumption rules for the backpack, equipment, and spellbook.
package inventory

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/avalight/herobook/internal/game/hero"
	"github.com/avalight/herobook/internal/game/item"
)

// Rule violations. All are expected, non-fatal, and surfaced as structured
// failures to the caller.
var (
	ErrAlreadyTaken       = errors.New("item already taken")
	ErrEmptyItemID        = errors.New("empty item id")
	ErrInventoryFull      = errors.New("inventory full")
	ErrSpellbookFull      = errors.New("spellbook full")
	ErrEmptySlot          = errors.New("slot is empty")
	ErrInvalidSlot        = errors.New("invalid slot")
	ErrNotFood            = errors.New("item is not food")
	ErrCatalogUnavailable = errors.New("item catalog not loaded")
)

// PlacementKind says where a taken item landed.
type PlacementKind string

const (
	PlacedInventory PlacementKind = "inventory"
	PlacedEquipment PlacementKind = "equipment"
	PlacedSpellbook PlacementKind = "spellbook"
)

// Placement describes the outcome of a successful Take.
type Placement struct {
	Kind PlacementKind
	// Slot is the 1-based slot index within the target container.
	Slot int
	// Displaced is the item id overwritten in an equipment slot, if any.
	// Displaced items are discarded, not returned to the backpack.
	Displaced string
}

// Manager applies inventory rules to a player State against the item catalog.
type Manager struct {
	logger *zap.Logger
}

// NewManager creates a Manager logging rule decisions to logger.
//
// Precondition: logger must be non-nil.
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{logger: logger}
}

// Take acquires itemID for the player, routing it by classification:
// spells to the spellbook, equip items to their keyed slot (overwriting),
// everything else to the first empty backpack slot.
//
// Postcondition: the taken ledger is marked only on success; a full backpack
// leaves the ledger untouched so the item can be retried once space frees up.
func (m *Manager) Take(st *hero.State, cat *item.Catalog, itemID string) (Placement, error) {
	if itemID == "" {
		return Placement{}, ErrEmptyItemID
	}
	if st.HasTaken(itemID) {
		return Placement{}, fmt.Errorf("%w: %q", ErrAlreadyTaken, itemID)
	}
	if cat == nil {
		return Placement{}, ErrCatalogUnavailable
	}

	if cat.IsSpell(itemID) {
		idx, ok := st.FirstEmptySpellSlot()
		if !ok {
			return Placement{}, fmt.Errorf("%w: cannot learn %q", ErrSpellbookFull, itemID)
		}
		st.Spellbook[idx] = itemID
		st.MarkTaken(itemID)
		m.logger.Debug("spell learned", zap.String("item", itemID), zap.Int("slot", idx+1))
		return Placement{Kind: PlacedSpellbook, Slot: idx + 1}, nil
	}

	if def, ok := cat.Item(itemID); ok && def.Type == item.TypeEquip {
		if wireIdx, valid := def.EquipSlotIndex(); valid {
			slot, _ := hero.EquipSlotByIndex(wireIdx)
			displaced := st.Equipment[slot]
			st.Equipment[slot] = itemID
			st.MarkTaken(itemID)
			m.logger.Debug("item equipped",
				zap.String("item", itemID),
				zap.String("slot", string(slot)),
				zap.String("displaced", displaced),
			)
			return Placement{Kind: PlacedEquipment, Slot: wireIdx, Displaced: displaced}, nil
		}
	}

	idx, ok := st.FirstEmptyInventorySlot()
	if !ok {
		// Ledger deliberately NOT marked: a full backpack may free up later
		// and the pickup can be retried.
		return Placement{}, fmt.Errorf("%w: cannot take %q", ErrInventoryFull, itemID)
	}
	st.Inventory[idx] = itemID
	st.MarkTaken(itemID)
	m.logger.Debug("item taken", zap.String("item", itemID), zap.Int("slot", idx+1))
	return Placement{Kind: PlacedInventory, Slot: idx + 1}, nil
}

// Delete clears the 1-based backpack slot. The taken ledger is not touched,
// so a deleted item can never be re-taken.
//
// Postcondition: on success the slot is empty.
func (m *Manager) Delete(st *hero.State, slot int) (string, error) {
	if slot < 1 || slot > hero.InventorySlots {
		return "", fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}
	id := st.Inventory[slot-1]
	if id == "" {
		return "", fmt.Errorf("%w: %d", ErrEmptySlot, slot)
	}
	st.Inventory[slot-1] = ""
	m.logger.Debug("item deleted", zap.String("item", id), zap.Int("slot", slot))
	return id, nil
}

// Consume eats the food item in the 1-based backpack slot, restoring
// Strength up to MaxStrength and clearing the slot.
//
// Postcondition: Strength never exceeds MaxStrength; the slot is empty on
// success.
func (m *Manager) Consume(st *hero.State, cat *item.Catalog, slot int) (int, error) {
	if slot < 1 || slot > hero.InventorySlots {
		return 0, fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}
	id := st.Inventory[slot-1]
	if id == "" {
		return 0, fmt.Errorf("%w: %d", ErrEmptySlot, slot)
	}
	if cat == nil {
		return 0, ErrCatalogUnavailable
	}
	def, ok := cat.Item(id)
	if !ok || def.Type != item.TypeFood {
		return 0, fmt.Errorf("%w: %q", ErrNotFood, id)
	}

	delta := def.RestoreAmount()
	st.SetStrength(st.Stats.Strength + delta)
	st.Inventory[slot-1] = ""
	m.logger.Debug("food consumed",
		zap.String("item", id),
		zap.Int("slot", slot),
		zap.Int("restored", delta),
		zap.Int("strength", st.Stats.Strength),
	)
	return delta, nil
}
