// Package item holds the read-only item catalog and classification rules.
package item

import (
	"strconv"
	"strings"
)

// Type tags an item's behavior class in the catalog.
type Type string

const (
	// TypeFood restores Strength when consumed; Option is the restore amount.
	TypeFood Type = "food"
	// TypeEquip occupies a keyed equipment slot; Option is the slot index 1-3.
	TypeEquip Type = "equip"
	// TypeSpell routes to the spellbook.
	TypeSpell Type = "spell"
	// TypeOther is a plain backpack item.
	TypeOther Type = "other"
)

// spellPrefix is the reserved naming pattern: any id starting with it is a
// spell regardless of catalog type.
const spellPrefix = "spell_"

// Def is one catalog entry, keyed by item id.
type Def struct {
	ID     string
	Label  string
	Type   Type
	Option string
}

// RestoreAmount returns the food restore value parsed from Option, floored
// at 0. Unparseable options count as 0.
func (d Def) RestoreAmount() int {
	n, err := strconv.Atoi(strings.TrimSpace(d.Option))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// EquipSlotIndex returns the 1-based equipment slot index from Option and
// whether it is valid (1-3).
func (d Def) EquipSlotIndex() (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(d.Option))
	if err != nil || n < 1 || n > 3 {
		return 0, false
	}
	return n, true
}

// IsSpellID reports whether id matches the reserved spell naming pattern.
func IsSpellID(id string) bool {
	return strings.HasPrefix(strings.ToLower(id), spellPrefix)
}

// Catalog maps item ids to their definitions. It is read-only to the engine
// once loaded; a reload swaps the whole catalog.
type Catalog struct {
	defs map[string]*Def
}

// NewCatalog returns an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{defs: make(map[string]*Def)}
}

// Register adds d to the catalog, overwriting any previous entry for the
// same id. Later entries win so that patch files can shadow base content.
//
// Precondition: d.ID must be non-empty.
func (c *Catalog) Register(d *Def) {
	c.defs[d.ID] = d
}

// Item returns the Def for the given id and whether it was found.
func (c *Catalog) Item(id string) (*Def, bool) {
	d, ok := c.defs[id]
	return d, ok
}

// Len returns the number of registered definitions.
func (c *Catalog) Len() int {
	return len(c.defs)
}

// IsSpell reports whether the item routes to the spellbook: either the id
// matches the reserved prefix or the catalog declares type "spell".
func (c *Catalog) IsSpell(id string) bool {
	if IsSpellID(id) {
		return true
	}
	if d, ok := c.defs[id]; ok {
		return d.Type == TypeSpell
	}
	return false
}

// Label returns the display label for id, falling back to the id itself for
// uncataloged items.
func (c *Catalog) Label(id string) string {
	if d, ok := c.defs[id]; ok && d.Label != "" {
		return d.Label
	}
	return id
}
