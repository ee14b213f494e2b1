package engine

import (
	"github.com/avalight/herobook/internal/game/hero"
	"github.com/avalight/herobook/internal/game/item"
)

// StatsView is the read-only stat snapshot pushed to the UI.
type StatsView struct {
	Strength    int `json:"strength"`
	Dexterity   int `json:"dexterity"`
	Charisma    int `json:"charisma"`
	Reaction    int `json:"reaction"`
	Luck        int `json:"luck"`
	MaxStrength int `json:"maxStrength"`
}

// SlotView is one container slot in the inventory view model. Slot indices
// are 1-based, matching the wire format of the delete/usage directives.
type SlotView struct {
	Slot   int    `json:"slot"`
	ItemID string `json:"itemId,omitempty"`
	Label  string `json:"label,omitempty"`
	Type   string `json:"type,omitempty"`
	Option string `json:"option,omitempty"`
}

// InventoryView is the full container view model: 7 backpack slots, the 3
// equipment slots keyed 1-3, and the 6 spellbook slots.
type InventoryView struct {
	Backpack    []SlotView `json:"backpack"`
	Equipment   []SlotView `json:"equipment"`
	Spellbook   []SlotView `json:"spellbook"`
	MaxStrength int        `json:"maxStrength"`
}

func statsView(st *hero.State) StatsView {
	return StatsView{
		Strength:    st.Stats.Strength,
		Dexterity:   st.Stats.Dexterity,
		Charisma:    st.Stats.Charisma,
		Reaction:    st.Stats.Reaction,
		Luck:        st.Stats.Luck,
		MaxStrength: st.MaxStrength,
	}
}

func slotView(slot int, itemID string, cat *item.Catalog) SlotView {
	v := SlotView{Slot: slot, ItemID: itemID}
	if itemID == "" || cat == nil {
		return v
	}
	v.Label = cat.Label(itemID)
	if def, ok := cat.Item(itemID); ok {
		v.Type = string(def.Type)
		v.Option = def.Option
	}
	return v
}

func inventoryView(st *hero.State, cat *item.Catalog) InventoryView {
	view := InventoryView{MaxStrength: st.MaxStrength}
	for i, id := range st.Inventory {
		view.Backpack = append(view.Backpack, slotView(i+1, id, cat))
	}
	for i, slot := range hero.EquipSlots() {
		view.Equipment = append(view.Equipment, slotView(i+1, st.Equipment[slot], cat))
	}
	for i, id := range st.Spellbook {
		view.Spellbook = append(view.Spellbook, slotView(i+1, id, cat))
	}
	return view
}
