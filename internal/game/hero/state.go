package hero

// Fixed container sizes.
const (
	// InventorySlots is the number of ordered backpack slots.
	InventorySlots = 7
	// SpellbookSlots is the number of ordered spellbook slots.
	SpellbookSlots = 6
)

// Mode gates which directives and UI affordances are active.
type Mode string

const (
	// ModeNormal is regular page reading.
	ModeNormal Mode = "normal"
	// ModeBattle is active turn-based combat.
	ModeBattle Mode = "battle"
)

// EquipSlot identifies one of the three keyed equipment slots. The external
// wire format addresses them by index 1-3; conversion happens once at the
// API boundary.
type EquipSlot string

const (
	SlotSheath   EquipSlot = "sheath"
	SlotWorn     EquipSlot = "worn"
	SlotClothing EquipSlot = "clothing"
)

// EquipSlots lists the keyed slots in wire-index order (1, 2, 3).
func EquipSlots() []EquipSlot {
	return []EquipSlot{SlotSheath, SlotWorn, SlotClothing}
}

// EquipSlotByIndex converts a 1-based wire index to a slot key.
//
// Postcondition: ok is false for any index outside 1-3.
func EquipSlotByIndex(idx int) (EquipSlot, bool) {
	slots := EquipSlots()
	if idx < 1 || idx > len(slots) {
		return "", false
	}
	return slots[idx-1], true
}

// State is the mutable player aggregate. The engine owns it exclusively:
// every mutation happens inside a core operation, and UI layers only ever
// see copies or view models.
type State struct {
	// Stats are the five attributes; Strength doubles as current hit points.
	Stats Stats
	// MaxStrength caps Strength. Set exactly once, on the first stats roll
	// after being zero; never decreased automatically.
	MaxStrength int
	// Inventory is the ordered backpack; empty string means an empty slot.
	Inventory [InventorySlots]string
	// Equipment holds at most one item id per keyed slot.
	Equipment map[EquipSlot]string
	// Spellbook holds spell item ids only.
	Spellbook [SpellbookSlots]string
	// Taken records every item id ever successfully acquired this session.
	// Survives inventory deletion; reset only on full session reset.
	Taken map[string]bool
	// Page is the currently displayed page id.
	Page string
	// Mode transitions exactly on battle entry/exit.
	Mode Mode
}

// NewState returns a fresh session state: zeroed stats, empty containers,
// normal mode.
func NewState() *State {
	return &State{
		Stats:     DefaultStats(),
		Equipment: make(map[EquipSlot]string),
		Taken:     make(map[string]bool),
		Mode:      ModeNormal,
	}
}

// ApplyDistribution overwrites all five stats with d. If MaxStrength is
// unset (0) it is set to the new Strength value; this is the only automatic
// MaxStrength assignment.
//
// Postcondition: s.Stats == d; MaxStrength > 0 afterwards when d.Strength > 0.
func (s *State) ApplyDistribution(d Stats) {
	s.Stats = d
	if s.MaxStrength == 0 {
		s.MaxStrength = d.Strength
	}
}

// HasTaken reports whether itemID is recorded in the taken ledger.
func (s *State) HasTaken(itemID string) bool {
	return s.Taken[itemID]
}

// MarkTaken records itemID in the taken ledger.
//
// Postcondition: HasTaken(itemID) is true for the rest of the session.
func (s *State) MarkTaken(itemID string) {
	s.Taken[itemID] = true
}

// FirstEmptyInventorySlot returns the lowest-indexed free backpack slot
// (0-based) and whether one exists.
func (s *State) FirstEmptyInventorySlot() (int, bool) {
	for i, id := range s.Inventory {
		if id == "" {
			return i, true
		}
	}
	return 0, false
}

// FirstEmptySpellSlot returns the lowest-indexed free spellbook slot
// (0-based) and whether one exists.
func (s *State) FirstEmptySpellSlot() (int, bool) {
	for i, id := range s.Spellbook {
		if id == "" {
			return i, true
		}
	}
	return 0, false
}

// SetStrength overwrites current Strength, flooring at 0 and capping at
// MaxStrength when a cap is set.
//
// Postcondition: 0 <= Stats.Strength <= max(MaxStrength, v).
func (s *State) SetStrength(v int) {
	if v < 0 {
		v = 0
	}
	if s.MaxStrength > 0 && v > s.MaxStrength {
		v = s.MaxStrength
	}
	s.Stats.Strength = v
}
