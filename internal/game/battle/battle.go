// Package battle implements the turn-based combat state machine: enemy spec
// parsing, target selection, attack resolution, flee checks, and terminal
// outcome handling.
package battle

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Battle limits.
const (
	// MaxEnemies is the most enemies a single battle can hold.
	MaxEnemies = 3
	// LogLines is the fixed size of the battle log; every turn rewrites all
	// five lines.
	LogLines = 5
)

var (
	// ErrInvalidSpec is returned for a malformed enemy specification; the
	// battle is not entered and no state changes.
	ErrInvalidSpec = errors.New("invalid battle spec")
	// ErrFinished is returned when a turn or target change is attempted
	// after the outcome is decided.
	ErrFinished = errors.New("battle already finished")
	// ErrTargetLocked is returned when switching targets with a single
	// enemy remaining.
	ErrTargetLocked = errors.New("target locked")
	// ErrInvalidTarget is returned for out-of-range or dead targets.
	ErrInvalidTarget = errors.New("invalid target")
)

// Enemy is one combatant on the opposing side.
type Enemy struct {
	// Strength is remaining hit points, floored at 0.
	Strength int
	// Dexterity drives the dexterity-advantage check each turn.
	Dexterity int
	// Alive is false once the enemy is defeated or has fled.
	Alive bool
	// Fled distinguishes a flight from a defeat; a fled enemy is removed
	// from battle but does not count as defeated.
	Fled bool
}

// Outcome is the end-of-turn battle status.
type Outcome int

const (
	// OutcomeContinue means the battle goes on.
	OutcomeContinue Outcome = iota
	// OutcomeVictory means no enemies remain and the player stands.
	OutcomeVictory
	// OutcomeDefeat means the player fell with enemies remaining.
	OutcomeDefeat
)

// String returns "continue", "victory", or "defeat".
func (o Outcome) String() string {
	switch o {
	case OutcomeVictory:
		return "victory"
	case OutcomeDefeat:
		return "defeat"
	default:
		return "continue"
	}
}

// Battle is the ephemeral combat aggregate: created by the battle directive,
// destroyed when the player acknowledges the end-of-battle outcome.
type Battle struct {
	// Enemies in spec order; at most MaxEnemies.
	Enemies []*Enemy
	// Target is the 0-based index of the current target.
	Target int
	// Turn counts resolved player turns, starting at 0.
	Turn int
	// Log holds the fixed five-line battle log, rewritten every turn.
	Log [LogLines]string
	// Finished is the terminal flag; once set it never clears and further
	// turns are rejected.
	Finished bool
	// Won records the terminal outcome when Finished.
	Won bool
	// ClickableEnd marks the final log line as the sole clickable element
	// used to conclude the battle. There is no auto-close timer.
	ClickableEnd bool
	// PlayerStrength and PlayerDexterity are snapshotted from the player
	// on entry. PlayerStrength tracks in-battle hit points.
	PlayerStrength  int
	PlayerDexterity int
	// WinPage and LosePage are the navigation targets for finalization.
	WinPage  string
	LosePage string
}

// ParseSpec parses a bracketed, pipe-separated enemy list: "[s1,d1|s2,d2]".
//
// Postcondition: returns 1-3 enemies, all alive, or ErrInvalidSpec.
func ParseSpec(spec string) ([]*Enemy, error) {
	spec = strings.TrimSpace(spec)
	if len(spec) < 2 || spec[0] != '[' || spec[len(spec)-1] != ']' {
		return nil, fmt.Errorf("%w: %q is not bracketed", ErrInvalidSpec, spec)
	}
	inner := spec[1 : len(spec)-1]
	if strings.TrimSpace(inner) == "" {
		return nil, fmt.Errorf("%w: empty enemy list", ErrInvalidSpec)
	}

	parts := strings.Split(inner, "|")
	if len(parts) > MaxEnemies {
		return nil, fmt.Errorf("%w: %d enemies exceeds the limit of %d", ErrInvalidSpec, len(parts), MaxEnemies)
	}

	enemies := make([]*Enemy, 0, len(parts))
	for _, p := range parts {
		fields := strings.Split(p, ",")
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: enemy %q is not a strength,dexterity pair", ErrInvalidSpec, p)
		}
		str, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			return nil, fmt.Errorf("%w: bad strength in %q", ErrInvalidSpec, p)
		}
		dex, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			return nil, fmt.Errorf("%w: bad dexterity in %q", ErrInvalidSpec, p)
		}
		enemies = append(enemies, &Enemy{Strength: str, Dexterity: dex, Alive: true})
	}
	return enemies, nil
}

// New creates a Battle from an enemy spec, snapshotting the player's
// Strength and Dexterity.
//
// Postcondition: all enemies alive, first enemy targeted, turn counter 0,
// log blank, not finished. Returns ErrInvalidSpec with no battle created
// when the spec string is malformed.
func New(spec, winPage, losePage string, playerStrength, playerDexterity int) (*Battle, error) {
	enemies, err := ParseSpec(spec)
	if err != nil {
		return nil, err
	}
	return &Battle{
		Enemies:         enemies,
		Target:          0,
		WinPage:         winPage,
		LosePage:        losePage,
		PlayerStrength:  playerStrength,
		PlayerDexterity: playerDexterity,
	}, nil
}

// AliveCount returns the number of enemies still in the battle.
func (b *Battle) AliveCount() int {
	n := 0
	for _, e := range b.Enemies {
		if e.Alive {
			n++
		}
	}
	return n
}

// CurrentTarget returns the targeted enemy, or nil when none remain.
func (b *Battle) CurrentTarget() *Enemy {
	if b.Target < 0 || b.Target >= len(b.Enemies) {
		return nil
	}
	return b.Enemies[b.Target]
}

// SelectTarget changes the current target to the 0-based index idx. Only
// alive enemies are selectable, and selection is locked entirely when
// exactly one enemy remains.
//
// Postcondition: on success CurrentTarget() is alive.
func (b *Battle) SelectTarget(idx int) error {
	if b.Finished {
		return ErrFinished
	}
	if b.AliveCount() <= 1 {
		return ErrTargetLocked
	}
	if idx < 0 || idx >= len(b.Enemies) {
		return fmt.Errorf("%w: index %d", ErrInvalidTarget, idx)
	}
	if !b.Enemies[idx].Alive {
		return fmt.Errorf("%w: enemy %d is out of the battle", ErrInvalidTarget, idx)
	}
	b.Target = idx
	return nil
}

// retarget advances to the lowest-indexed alive enemy when the current
// target has died or fled.
func (b *Battle) retarget() {
	if t := b.CurrentTarget(); t != nil && t.Alive {
		return
	}
	for i, e := range b.Enemies {
		if e.Alive {
			b.Target = i
			return
		}
	}
}
