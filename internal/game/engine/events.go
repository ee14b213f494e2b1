package engine

import "github.com/avalight/herobook/internal/game/hero"

// Event is a side effect emitted by a dispatched action. Events are returned
// as ordered data so the core stays callable without any UI attached; an
// adapter translates them into whatever the presentation layer understands.
type Event interface {
	event()
}

// Navigate requests that the UI display the given page.
type Navigate struct {
	Page string
}

// ModeChanged announces a normal/battle transition.
type ModeChanged struct {
	Mode hero.Mode
}

// StatsChanged pushes the refreshed stat view model after a mutation.
type StatsChanged struct {
	Stats StatsView
}

// InventoryChanged pushes the refreshed inventory view model after a
// mutation.
type InventoryChanged struct {
	View InventoryView
}

// CueKind names a fire-and-forget audio/visual cue. The state machine never
// waits for a cue to finish.
type CueKind string

const (
	CueTake         CueKind = "take"
	CueCheckSuccess CueKind = "check-success"
	CueCheckFailure CueKind = "check-failure"
	CueBattleHit    CueKind = "battle-hit"
	CueBattleWin    CueKind = "battle-win"
	CueBattleLose   CueKind = "battle-lose"
)

// Cue asks the feedback layer to play a sound or effect.
type Cue struct {
	Kind CueKind
}

// FrameTarget says which combatant a tale frame depicts taking damage.
type FrameTarget string

const (
	FrameHero  FrameTarget = "hero"
	FrameEnemy FrameTarget = "enemy"
)

// TaleFrame selects a battle animation frame: who took the damage, and
// whether this is the terminal victory/defeat frame.
type TaleFrame struct {
	Target   FrameTarget
	Terminal bool
}

func (Navigate) event()         {}
func (ModeChanged) event()      {}
func (StatsChanged) event()     {}
func (InventoryChanged) event() {}
func (Cue) event()              {}
func (TaleFrame) event()        {}
