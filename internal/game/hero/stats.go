// Package hero holds the player state aggregate for the gamebook engine:
// stats, inventory, equipment, spellbook, the taken-item ledger, and the
// session mode flag. The engine is the only writer; UI layers consume
// read-only view models.
package hero

// Stat identifies one of the five named attributes.
type Stat string

// The five attributes. Strength doubles as current hit points during battle.
const (
	StatStrength  Stat = "Strength"
	StatDexterity Stat = "Dexterity"
	StatCharisma  Stat = "Charisma"
	StatReaction  Stat = "Reaction"
	StatLuck      Stat = "Luck"
)

// StatNames lists all attributes in display order.
func StatNames() []Stat {
	return []Stat{StatStrength, StatDexterity, StatCharisma, StatReaction, StatLuck}
}

// Stats is a complete attribute assignment.
//
// Invariant: all values are >= 0.
type Stats struct {
	Strength  int
	Dexterity int
	Charisma  int
	Reaction  int
	Luck      int
}

// DefaultStats returns the zeroed pre-roll attribute set. Stats stay zero
// until the stats directive is executed for the session.
func DefaultStats() Stats {
	return Stats{}
}

// Map returns the stats keyed by attribute name.
//
// Postcondition: len(result) == 5.
func (s Stats) Map() map[Stat]int {
	return map[Stat]int{
		StatStrength:  s.Strength,
		StatDexterity: s.Dexterity,
		StatCharisma:  s.Charisma,
		StatReaction:  s.Reaction,
		StatLuck:      s.Luck,
	}
}

// distributionBySum maps a two-dice sum (2-12) to a complete attribute
// distribution. Values match the original book's roll table.
var distributionBySum = map[int]Stats{
	2:  {Strength: 22, Dexterity: 8, Charisma: 8, Reaction: 5, Luck: 9},
	3:  {Strength: 20, Dexterity: 10, Charisma: 6, Reaction: 5, Luck: 9},
	4:  {Strength: 16, Dexterity: 12, Charisma: 5, Reaction: 5, Luck: 9},
	5:  {Strength: 18, Dexterity: 9, Charisma: 8, Reaction: 5, Luck: 9},
	6:  {Strength: 20, Dexterity: 11, Charisma: 6, Reaction: 5, Luck: 9},
	7:  {Strength: 20, Dexterity: 9, Charisma: 7, Reaction: 5, Luck: 9},
	8:  {Strength: 16, Dexterity: 10, Charisma: 7, Reaction: 5, Luck: 9},
	9:  {Strength: 24, Dexterity: 8, Charisma: 7, Reaction: 5, Luck: 9},
	10: {Strength: 22, Dexterity: 9, Charisma: 6, Reaction: 5, Luck: 9},
	11: {Strength: 18, Dexterity: 10, Charisma: 7, Reaction: 5, Luck: 9},
	12: {Strength: 20, Dexterity: 11, Charisma: 5, Reaction: 5, Luck: 9},
}

// DistributionFor returns the attribute distribution for a two-dice sum.
// Sums outside 2-12 cannot occur with two dice; an unmapped sum falls back
// to the sum-7 entry.
//
// Postcondition: returned Stats always come from the fixed table.
func DistributionFor(sum int) Stats {
	if d, ok := distributionBySum[sum]; ok {
		return d
	}
	return distributionBySum[7]
}
