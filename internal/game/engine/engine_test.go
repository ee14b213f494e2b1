package engine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/avalight/herobook/internal/game/battle"
	"github.com/avalight/herobook/internal/game/directive"
	"github.com/avalight/herobook/internal/game/engine"
	"github.com/avalight/herobook/internal/game/hero"
	"github.com/avalight/herobook/internal/game/inventory"
	"github.com/avalight/herobook/internal/game/item"
	"github.com/avalight/herobook/internal/storage"
)

// scriptedSource replays a fixed sequence of die faces. Each Intn call
// consumes the next face, so a test controls every roll exactly.
type scriptedSource struct {
	faces []int
	pos   int
}

func (s *scriptedSource) Intn(n int) int {
	if s.pos >= len(s.faces) {
		panic("scriptedSource exhausted")
	}
	face := s.faces[s.pos]
	s.pos++
	return (face - 1) % n
}

func newEngine(t *testing.T, faces ...int) (*engine.Engine, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	e := engine.New(zaptest.NewLogger(t), &scriptedSource{faces: faces}, store, "test-save")
	return e, store
}

func foodCatalog() *item.Catalog {
	cat := item.NewCatalog()
	cat.Register(&item.Def{ID: "Item_apple", Label: "Apple", Type: item.TypeFood, Option: "4"})
	cat.Register(&item.Def{ID: "Item_rope", Label: "Rope", Type: item.TypeOther})
	cat.Register(&item.Def{ID: "Item_torch", Label: "Torch", Type: item.TypeOther})
	return cat
}

func eventTypes(events []engine.Event) []string {
	var kinds []string
	for _, ev := range events {
		switch v := ev.(type) {
		case engine.Navigate:
			kinds = append(kinds, "navigate:"+v.Page)
		case engine.ModeChanged:
			kinds = append(kinds, "mode:"+string(v.Mode))
		case engine.StatsChanged:
			kinds = append(kinds, "stats")
		case engine.InventoryChanged:
			kinds = append(kinds, "inventory")
		case engine.Cue:
			kinds = append(kinds, "cue:"+string(v.Kind))
		case engine.TaleFrame:
			k := "frame:" + string(v.Target)
			if v.Terminal {
				k += ":terminal"
			}
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Scenario A: a stats roll summing 7 applies the table entry and sets
// MaxStrength once.
func TestRunAction_StatsRoll(t *testing.T) {
	e, _ := newEngine(t, 3, 4)

	res, err := e.RunAction("stats", "")
	require.NoError(t, err)
	assert.True(t, res.OK)
	require.NotNil(t, res.Roll)
	assert.Equal(t, 7, res.Roll.Sum())

	st := e.State()
	assert.Equal(t, hero.Stats{Strength: 20, Dexterity: 9, Charisma: 7, Reaction: 5, Luck: 9}, st.Stats)
	assert.Equal(t, 20, st.MaxStrength)
	assert.Contains(t, eventTypes(res.Events), "stats")
}

func TestRunAction_StatsWithFallbackNavigates(t *testing.T) {
	e, _ := newEngine(t, 3, 4)

	res, err := e.RunAction("stats", "-003")
	require.NoError(t, err)
	kinds := eventTypes(res.Events)
	assert.Equal(t, "navigate:-003", kinds[len(kinds)-1], "navigation follows the roll")
}

func TestRunAction_SecondStatsRollKeepsMaxStrength(t *testing.T) {
	e, _ := newEngine(t, 3, 4, 1, 1)

	_, err := e.RunAction("stats", "")
	require.NoError(t, err)
	require.Equal(t, 20, e.State().MaxStrength)

	_, err = e.RunAction("stats", "")
	require.NoError(t, err)
	assert.Equal(t, 22, e.State().Stats.Strength, "sum 2 entry applied")
	assert.Equal(t, 20, e.State().MaxStrength, "max strength set exactly once")
}

// Scenario B: luck;-013;-012 with Luck 9 and a rolled sum of 9 succeeds,
// decrements Luck, and navigates to the success page.
func TestRunAction_LuckSuccess(t *testing.T) {
	e, _ := newEngine(t, 4, 5)
	e.State().Stats.Luck = 9

	res, err := e.RunAction("luck;-013;-012", "")
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, 8, e.State().Stats.Luck)
	kinds := eventTypes(res.Events)
	assert.Contains(t, kinds, "cue:check-success")
	assert.Contains(t, kinds, "navigate:-013")
}

func TestRunAction_LuckFailureFloorsAtZero(t *testing.T) {
	e, _ := newEngine(t, 6, 6)
	e.State().Stats.Luck = 0

	res, err := e.RunAction("luck;-013;-012", "")
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, 0, e.State().Stats.Luck, "luck floors at zero")
	kinds := eventTypes(res.Events)
	assert.Contains(t, kinds, "cue:check-failure")
	assert.Contains(t, kinds, "navigate:-012")
}

// Scenario C: reac:6;-015;-016 with Reaction 5 fails, increments Reaction,
// and navigates to the failure page.
func TestRunAction_ReactionFailure(t *testing.T) {
	e, _ := newEngine(t)
	e.State().Stats.Reaction = 5

	res, err := e.RunAction("reac:6;-015;-016", "")
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, 6, res.Value)
	assert.Equal(t, 6, e.State().Stats.Reaction)
	assert.Contains(t, eventTypes(res.Events), "navigate:-016")
}

func TestRunAction_ReactionUnparseableThresholdDefaultsToZero(t *testing.T) {
	e, _ := newEngine(t)
	e.State().Stats.Reaction = 0

	res, err := e.RunAction("reac:abc;-015;-016", "")
	require.NoError(t, err)
	assert.True(t, res.OK, "0 >= 0 succeeds")
	assert.Equal(t, 0, res.Value)
	assert.Contains(t, eventTypes(res.Events), "navigate:-015")
}

// Scenario D: taking a food item lands it in the first empty backpack slot
// and a second take is an already-taken no-op.
func TestRunAction_TakeIdempotent(t *testing.T) {
	e, _ := newEngine(t)
	e.SetCatalog(foodCatalog())
	st := e.State()
	st.Inventory[0] = "Item_rope"
	st.Inventory[1] = "Item_torch"
	st.MarkTaken("Item_rope")
	st.MarkTaken("Item_torch")

	res, err := e.RunAction("take:Item_apple", "")
	require.NoError(t, err)
	assert.True(t, res.OK)
	require.NotNil(t, res.Placement)
	assert.Equal(t, inventory.PlacedInventory, res.Placement.Kind)
	assert.Equal(t, 3, res.Placement.Slot)
	assert.True(t, st.HasTaken("Item_apple"))
	kinds := eventTypes(res.Events)
	assert.Contains(t, kinds, "cue:take")
	assert.Contains(t, kinds, "inventory")

	res, err = e.RunAction("take:Item_apple", "")
	assert.ErrorIs(t, err, inventory.ErrAlreadyTaken)
	assert.False(t, res.OK)
	assert.Equal(t, "Item_apple", st.Inventory[2], "placement untouched")
}

func TestRunAction_TakeWithoutItemIDRejected(t *testing.T) {
	e, _ := newEngine(t)
	e.SetCatalog(foodCatalog())

	res, err := e.RunAction("take;", "")
	assert.ErrorIs(t, err, inventory.ErrEmptyItemID)
	assert.False(t, res.OK)
	assert.Empty(t, res.Events, "no cue, no placement")
	assert.False(t, e.State().HasTaken(""))

	// The deferred path before catalog load rejects it the same way.
	e2, _ := newEngine(t)
	_, err = e2.RunAction("take;", "")
	assert.ErrorIs(t, err, inventory.ErrEmptyItemID)
	retried := e2.SetCatalog(foodCatalog())
	assert.Empty(t, retried, "nothing was queued for retry")
}

func TestRunAction_TakeBeforeCatalogDefersOnce(t *testing.T) {
	e, _ := newEngine(t)

	res, err := e.RunAction("take:Item_apple", "")
	require.NoError(t, err)
	assert.True(t, res.Pending)
	assert.False(t, e.State().HasTaken("Item_apple"), "no mutation while pending")

	// Repeated pending takes of the same id collapse to one retry.
	res, err = e.RunAction("take:Item_apple", "")
	require.NoError(t, err)
	assert.True(t, res.Pending)

	retried := e.SetCatalog(foodCatalog())
	require.Len(t, retried, 1)
	assert.True(t, retried[0].OK)
	assert.True(t, e.State().HasTaken("Item_apple"))
	assert.Equal(t, "Item_apple", e.State().Inventory[0])
}

func TestRunAction_DeleteAndUsage(t *testing.T) {
	e, _ := newEngine(t)
	e.SetCatalog(foodCatalog())
	st := e.State()
	st.MaxStrength = 20
	st.Stats.Strength = 18
	st.Inventory[0] = "Item_apple"
	st.Inventory[1] = "Item_rope"

	res, err := e.RunAction("usage:1", "")
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, 4, res.Value)
	assert.Equal(t, 20, st.Stats.Strength, "restore capped at max strength")
	assert.Empty(t, st.Inventory[0])

	res, err = e.RunAction("delete:2", "")
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Empty(t, st.Inventory[1])

	_, err = e.RunAction("delete:2", "")
	assert.ErrorIs(t, err, inventory.ErrEmptySlot)
	_, err = e.RunAction("usage:2", "")
	assert.ErrorIs(t, err, inventory.ErrEmptySlot)
	_, err = e.RunAction("usage:99", "")
	assert.ErrorIs(t, err, inventory.ErrInvalidSlot)
}

func TestRunAction_ParseAndUnknownFailures(t *testing.T) {
	e, _ := newEngine(t)

	_, err := e.RunAction(";;;", "")
	assert.ErrorIs(t, err, directive.ErrInvalid)

	_, err = e.RunAction("teleport:-001", "")
	assert.ErrorIs(t, err, directive.ErrUnknown)
}

// Scenario E: battle:[8,7];-020;-021 with player 16/10. The player has the
// quicker hand, a lunge roll of 3 hits for 5, and the enemy drops to 3.
func TestBattle_ScenarioLunge(t *testing.T) {
	// Faces: lunge roll 3, then flee roll 3 (3 < 3 is false, enemy stays).
	e, _ := newEngine(t, 3, 3)
	st := e.State()
	st.MaxStrength = 16
	st.Stats.Strength = 16
	st.Stats.Dexterity = 10

	res, err := e.RunAction("battle:[8,7];-020;-021", "")
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, hero.ModeBattle, st.Mode)
	assert.Contains(t, eventTypes(res.Events), "mode:battle")

	b := e.Battle()
	require.NotNil(t, b)
	require.Len(t, b.Enemies, 1)
	assert.Equal(t, 16, b.PlayerStrength)

	err = e.SelectBattleTarget(1)
	assert.ErrorIs(t, err, battle.ErrTargetLocked, "single enemy locks targeting")

	turn, err := e.BattleTurn(battle.MoveLunge)
	require.NoError(t, err)
	assert.True(t, turn.OK)
	assert.Equal(t, 5, turn.Value)
	assert.Equal(t, 3, b.Enemies[0].Strength)
	kinds := eventTypes(turn.Events)
	assert.Contains(t, kinds, "cue:battle-hit")
	assert.Contains(t, kinds, "frame:enemy")
}

func TestBattle_DamageTakenSyncsStrength(t *testing.T) {
	// Pirouette roll 1 misses (needs >= 3 with advantage); enemy strength 8
	// deals floor(8/4)=2. Flee roll 6: 8 < 6 is false, enemy stays.
	e, _ := newEngine(t, 1, 6)
	st := e.State()
	st.MaxStrength = 16
	st.Stats.Strength = 16
	st.Stats.Dexterity = 10

	_, err := e.RunAction("battle:[8,7];-020;-021", "")
	require.NoError(t, err)

	turn, err := e.BattleTurn(battle.MovePirouette)
	require.NoError(t, err)
	assert.False(t, turn.OK)
	assert.Equal(t, 14, st.Stats.Strength, "damage taken syncs immediately")
	kinds := eventTypes(turn.Events)
	assert.Contains(t, kinds, "frame:hero")
	assert.Contains(t, kinds, "stats")
}

func TestBattle_WinFlowAndFinish(t *testing.T) {
	// Enemy 4,2: lunge roll 1 hits for 1+floor(16/4)=5, enemy dies. No flee
	// roll for a dead target.
	e, store := newEngine(t, 1)
	st := e.State()
	st.MaxStrength = 16
	st.Stats.Strength = 16
	st.Stats.Dexterity = 10

	_, err := e.RunAction("battle:[4,2];-020;-021", "")
	require.NoError(t, err)

	turn, err := e.BattleTurn(battle.MoveLunge)
	require.NoError(t, err)
	require.Equal(t, battle.OutcomeVictory, turn.Turn.Outcome)
	kinds := eventTypes(turn.Events)
	assert.Contains(t, kinds, "cue:battle-win")
	assert.Contains(t, kinds, "frame:enemy:terminal")

	// The outcome is terminal: further turns are rejected, so the win cue
	// cannot fire twice.
	_, err = e.BattleTurn(battle.MoveLunge)
	assert.ErrorIs(t, err, battle.ErrFinished)

	res, err := e.FinishBattle()
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Nil(t, e.Battle())
	assert.Equal(t, hero.ModeNormal, st.Mode)
	kinds = eventTypes(res.Events)
	assert.Contains(t, kinds, "mode:normal")
	assert.Contains(t, kinds, "navigate:-020")

	snap, err := store.Load(context.Background(), "test-save")
	require.NoError(t, err)
	assert.Equal(t, "-020", snap.Page, "finish persists the destination page")
}

func TestBattle_FinishRequiresDecidedOutcome(t *testing.T) {
	e, _ := newEngine(t)
	st := e.State()
	st.Stats.Strength = 16
	st.Stats.Dexterity = 10

	_, err := e.FinishBattle()
	assert.ErrorIs(t, err, engine.ErrNoBattle)

	_, err = e.RunAction("battle:[8,7];-020;-021", "")
	require.NoError(t, err)
	_, err = e.FinishBattle()
	assert.Error(t, err, "undecided battle cannot be finalized")

	_, err = e.RunAction("battle:[8,7];-020;-021", "")
	assert.ErrorIs(t, err, engine.ErrBattleActive)
}

func TestBattle_InvalidSpecLeavesStateUnchanged(t *testing.T) {
	e, _ := newEngine(t)

	_, err := e.RunAction("battle:[1,2|3,4|5,6|7,8];-020;-021", "")
	assert.ErrorIs(t, err, battle.ErrInvalidSpec)
	assert.Equal(t, hero.ModeNormal, e.State().Mode)
	assert.Nil(t, e.Battle())
}

func TestRestore_CorruptSnapshotFallsBackToDefaults(t *testing.T) {
	store := storage.NewMemoryStore()
	bad := storage.Snapshot{Version: 99, SaveID: "test-save"}
	require.NoError(t, store.Save(context.Background(), bad))

	e := engine.New(zaptest.NewLogger(t), &scriptedSource{}, store, "test-save")
	e.Restore(context.Background())

	st := e.State()
	assert.Equal(t, hero.DefaultStats(), st.Stats)
	assert.Equal(t, hero.ModeNormal, st.Mode)
}

func TestRestore_RoundTrip(t *testing.T) {
	store := storage.NewMemoryStore()

	first := engine.New(zaptest.NewLogger(t), &scriptedSource{faces: []int{3, 4}}, store, "test-save")
	_, err := first.RunAction("stats", "")
	require.NoError(t, err)
	first.SetPage("-007")

	second := engine.New(zaptest.NewLogger(t), &scriptedSource{}, store, "test-save")
	second.Restore(context.Background())
	assert.Equal(t, first.State().Stats, second.State().Stats)
	assert.Equal(t, "-007", second.State().Page)
}

func TestSaveFailureIsNonFatal(t *testing.T) {
	e := engine.New(zaptest.NewLogger(t), &scriptedSource{faces: []int{3, 4}}, failingStore{}, "test-save")

	res, err := e.RunAction("stats", "")
	require.NoError(t, err)
	assert.True(t, res.OK, "storage failure degrades to in-memory play")
	assert.Equal(t, 20, e.State().Stats.Strength)
}

type failingStore struct{}

func (failingStore) Save(context.Context, storage.Snapshot) error {
	return errors.New("disk on fire")
}

func (failingStore) Load(context.Context, string) (storage.Snapshot, error) {
	return storage.Snapshot{}, errors.New("disk on fire")
}
