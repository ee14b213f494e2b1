// Package engine dispatches parsed action directives against the player
// state, the item catalog, and the battle state machine. It is the single
// writer of game state: the UI sends directive text in and receives a result
// plus an ordered list of side-effect events back.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/avalight/herobook/internal/game/battle"
	"github.com/avalight/herobook/internal/game/dice"
	"github.com/avalight/herobook/internal/game/directive"
	"github.com/avalight/herobook/internal/game/hero"
	"github.com/avalight/herobook/internal/game/inventory"
	"github.com/avalight/herobook/internal/game/item"
	"github.com/avalight/herobook/internal/storage"
)

// ErrNoBattle is returned by battle operations outside an active battle.
var ErrNoBattle = errors.New("no active battle")

// ErrBattleActive rejects a battle directive while one is already running.
var ErrBattleActive = errors.New("battle already active")

const saveTimeout = 5 * time.Second

// Result is the structured outcome of a dispatched action. Expected
// failures carry OK=false and the sentinel error alongside; the engine never
// panics across this boundary for expected conditions.
type Result struct {
	// Directive is the parsed directive that produced this result.
	Directive directive.Directive
	OK        bool
	// Pending is set when a take arrived before the catalog and was
	// deferred for a single retry on catalog load.
	Pending bool
	// Roll carries the two-dice roll for stats and luck checks.
	Roll *dice.TwoDice
	// Value carries the operation's number: the reac threshold, or the
	// strength restored by usage.
	Value int
	// Placement says where a taken item landed.
	Placement *inventory.Placement
	// Turn carries the full turn record for battle moves.
	Turn *battle.TurnResult
	// Events are the ordered side effects for the UI to apply.
	Events []Event
}

// Engine owns the player state and coordinates the parser, inventory rules,
// battle state machine, and snapshot store.
//
// Invariant: the engine is the only writer of State; callers read view
// models. All operations are synchronous and run to completion.
type Engine struct {
	logger   *zap.Logger
	roller   *dice.Roller
	registry *directive.Registry
	inv      *inventory.Manager

	state   *hero.State
	catalog *item.Catalog
	battle  *battle.Battle

	store  storage.Store
	saveID string

	// pendingTakes holds item ids whose take arrived before the catalog.
	// Each is retried exactly once when the catalog is set.
	pendingTakes []string
}

// New creates an Engine with a fresh player state.
//
// Precondition: logger, src, and store must be non-nil; saveID must be a
// stable identifier for the session's snapshot.
func New(logger *zap.Logger, src dice.Source, store storage.Store, saveID string) *Engine {
	return &Engine{
		logger:   logger,
		roller:   dice.NewLoggedRoller(src, logger),
		registry: directive.DefaultRegistry(),
		inv:      inventory.NewManager(logger),
		state:    hero.NewState(),
		store:    store,
		saveID:   saveID,
	}
}

// State exposes the player state for read-only inspection.
func (e *Engine) State() *hero.State { return e.state }

// Battle exposes the active battle, or nil outside battle mode.
func (e *Engine) Battle() *battle.Battle { return e.battle }

// SaveID returns the session's snapshot identifier.
func (e *Engine) SaveID() string { return e.saveID }

// StatsView returns the current stat view model.
func (e *Engine) StatsView() StatsView { return statsView(e.state) }

// InventoryView returns the current inventory view model.
func (e *Engine) InventoryView() InventoryView { return inventoryView(e.state, e.catalog) }

// SetCatalog installs the item catalog and retries any takes that were
// deferred while it was missing. Each deferred take re-runs the full
// classification exactly once; the ledger is never double-marked because
// Take itself is idempotent per item id.
//
// Postcondition: the pending list is empty.
func (e *Engine) SetCatalog(cat *item.Catalog) []*Result {
	e.catalog = cat
	if len(e.pendingTakes) == 0 {
		return nil
	}
	pending := e.pendingTakes
	e.pendingTakes = nil

	results := make([]*Result, 0, len(pending))
	for _, id := range pending {
		res, err := e.takeItem(directive.Directive{Name: directive.NameTake, Args: []string{id}})
		if err != nil {
			e.logger.Warn("deferred take failed",
				zap.String("item", id),
				zap.Error(err),
			)
		}
		results = append(results, res)
	}
	return results
}

// Restore loads the session snapshot from the store and replaces the player
// state with it. A missing or corrupt snapshot falls back to fresh defaults
// and is never fatal.
func (e *Engine) Restore(ctx context.Context) {
	snap, err := e.store.Load(ctx, e.saveID)
	if err != nil {
		if !errors.Is(err, storage.ErrSnapshotNotFound) {
			e.logger.Warn("loading snapshot failed, starting fresh",
				zap.String("save_id", e.saveID),
				zap.Error(err),
			)
		}
		e.state = hero.NewState()
		return
	}
	st, err := snap.RestoreState()
	if err != nil {
		e.logger.Warn("snapshot corrupt, starting fresh",
			zap.String("save_id", e.saveID),
			zap.Error(err),
		)
		e.state = hero.NewState()
		return
	}
	e.state = st
	e.logger.Info("session restored",
		zap.String("save_id", e.saveID),
		zap.String("page", st.Page),
	)
}

// RunAction parses and dispatches one directive. fallbackPage is the page a
// lone stats link navigates to after the roll; empty means no navigation.
//
// Postcondition: expected failures return a sentinel error and never panic;
// the returned Result carries the ordered side-effect events.
func (e *Engine) RunAction(text, fallbackPage string) (*Result, error) {
	d, err := directive.Parse(text)
	if err != nil {
		e.logger.Warn("unparseable directive", zap.String("text", text))
		return nil, err
	}
	if _, err := e.registry.Resolve(d); err != nil {
		e.logger.Warn("directive rejected",
			zap.String("name", d.Name),
			zap.Error(err),
		)
		return nil, err
	}

	switch d.Name {
	case directive.NameStats:
		return e.rollStats(d, fallbackPage)
	case directive.NameLuck:
		return e.checkLuck(d)
	case directive.NameReac:
		return e.checkReaction(d)
	case directive.NameTake:
		return e.takeItem(d)
	case directive.NameDelete:
		return e.deleteItem(d)
	case directive.NameUsage:
		return e.consumeItem(d)
	case directive.NameBattle:
		return e.enterBattle(d)
	default:
		// Resolve guarantees membership in the closed set.
		return nil, directive.ErrUnknown
	}
}

// rollStats rolls 2d6 and overwrites the five stats from the distribution
// table. MaxStrength is set on the first roll only. When the stats link was
// the sole link on a token, navigation to the fallback page follows the roll.
func (e *Engine) rollStats(d directive.Directive, fallbackPage string) (*Result, error) {
	roll := e.roller.RollTwoDice()
	dist := hero.DistributionFor(roll.Sum())
	e.state.ApplyDistribution(dist)
	e.saveNow()

	e.logger.Info("stats rolled",
		zap.Int("sum", roll.Sum()),
		zap.Int("strength", e.state.Stats.Strength),
		zap.Int("max_strength", e.state.MaxStrength),
	)

	res := &Result{Directive: d, OK: true, Roll: &roll}
	res.Events = append(res.Events, StatsChanged{Stats: statsView(e.state)})
	if fallbackPage != "" {
		res.Events = append(res.Events, Navigate{Page: fallbackPage})
	}
	return res, nil
}

// checkLuck rolls 2d6 against current Luck: success iff sum <= Luck. Luck
// always drops by one, floored at 0, win or lose.
func (e *Engine) checkLuck(d directive.Directive) (*Result, error) {
	successPage, failPage := d.Arg(0), d.Arg(1)

	roll := e.roller.RollTwoDice()
	success := roll.Sum() <= e.state.Stats.Luck
	if e.state.Stats.Luck > 0 {
		e.state.Stats.Luck--
	}
	e.saveNow()

	e.logger.Info("luck check",
		zap.Int("sum", roll.Sum()),
		zap.Int("luck", e.state.Stats.Luck),
		zap.Bool("success", success),
	)

	res := &Result{Directive: d, OK: success, Roll: &roll}
	res.Events = append(res.Events, e.checkEvents(success, successPage, failPage)...)
	return res, nil
}

// checkReaction compares current Reaction against the threshold argument
// (default 0 when unparseable). Reaction always grows by one, win or lose.
func (e *Engine) checkReaction(d directive.Directive) (*Result, error) {
	threshold, err := strconv.Atoi(d.Arg(0))
	if err != nil {
		threshold = 0
	}
	successPage, failPage := d.Arg(1), d.Arg(2)

	success := e.state.Stats.Reaction >= threshold
	e.state.Stats.Reaction++
	e.saveNow()

	e.logger.Info("reaction check",
		zap.Int("threshold", threshold),
		zap.Int("reaction", e.state.Stats.Reaction),
		zap.Bool("success", success),
	)

	res := &Result{Directive: d, OK: success, Value: threshold}
	res.Events = append(res.Events, e.checkEvents(success, successPage, failPage)...)
	return res, nil
}

func (e *Engine) checkEvents(success bool, successPage, failPage string) []Event {
	events := []Event{StatsChanged{Stats: statsView(e.state)}}
	page := failPage
	cue := CueCheckFailure
	if success {
		page = successPage
		cue = CueCheckSuccess
	}
	events = append(events, Cue{Kind: cue})
	if page != "" {
		events = append(events, Navigate{Page: page})
	}
	return events
}

// takeItem acquires the item, deferring when the catalog has not arrived
// yet. A deferred take is recorded once and retried once on catalog load.
func (e *Engine) takeItem(d directive.Directive) (*Result, error) {
	itemID := d.Arg(0)
	if itemID == "" {
		return &Result{Directive: d}, inventory.ErrEmptyItemID
	}

	if e.catalog == nil {
		if e.state.HasTaken(itemID) {
			return &Result{Directive: d}, fmt.Errorf("%w: %q", inventory.ErrAlreadyTaken, itemID)
		}
		e.deferTake(itemID)
		e.logger.Debug("take deferred until catalog load", zap.String("item", itemID))
		return &Result{Directive: d, Pending: true}, nil
	}

	placement, err := e.inv.Take(e.state, e.catalog, itemID)
	if err != nil {
		e.logger.Warn("take rejected",
			zap.String("item", itemID),
			zap.Error(err),
		)
		return &Result{Directive: d}, err
	}
	e.saveNow()

	res := &Result{Directive: d, OK: true, Placement: &placement}
	res.Events = append(res.Events,
		Cue{Kind: CueTake},
		InventoryChanged{View: inventoryView(e.state, e.catalog)},
	)
	return res, nil
}

func (e *Engine) deferTake(itemID string) {
	for _, id := range e.pendingTakes {
		if id == itemID {
			return
		}
	}
	e.pendingTakes = append(e.pendingTakes, itemID)
}

// deleteItem clears a 1-based backpack slot. The taken ledger is untouched.
func (e *Engine) deleteItem(d directive.Directive) (*Result, error) {
	slot, err := strconv.Atoi(d.Arg(0))
	if err != nil {
		return &Result{Directive: d}, fmt.Errorf("%w: %q", inventory.ErrInvalidSlot, d.Arg(0))
	}

	if _, err := e.inv.Delete(e.state, slot); err != nil {
		return &Result{Directive: d}, err
	}
	e.saveNow()

	res := &Result{Directive: d, OK: true}
	res.Events = append(res.Events, InventoryChanged{View: inventoryView(e.state, e.catalog)})
	return res, nil
}

// consumeItem eats the food item in a 1-based backpack slot, restoring
// Strength up to MaxStrength.
func (e *Engine) consumeItem(d directive.Directive) (*Result, error) {
	slot, err := strconv.Atoi(d.Arg(0))
	if err != nil {
		return &Result{Directive: d}, fmt.Errorf("%w: %q", inventory.ErrInvalidSlot, d.Arg(0))
	}

	restored, err := e.inv.Consume(e.state, e.catalog, slot)
	if err != nil {
		return &Result{Directive: d}, err
	}
	e.saveNow()

	res := &Result{Directive: d, OK: true, Value: restored}
	res.Events = append(res.Events,
		StatsChanged{Stats: statsView(e.state)},
		InventoryChanged{View: inventoryView(e.state, e.catalog)},
	)
	return res, nil
}

// enterBattle parses the enemy spec and starts a battle, snapshotting the
// player's Strength and Dexterity. A malformed spec leaves everything
// unchanged.
func (e *Engine) enterBattle(d directive.Directive) (*Result, error) {
	if e.battle != nil {
		return &Result{Directive: d}, ErrBattleActive
	}

	b, err := battle.New(d.Arg(0), d.Arg(1), d.Arg(2),
		e.state.Stats.Strength, e.state.Stats.Dexterity)
	if err != nil {
		e.logger.Warn("battle refused",
			zap.String("spec", d.Arg(0)),
			zap.Error(err),
		)
		return &Result{Directive: d}, err
	}

	e.battle = b
	e.state.Mode = hero.ModeBattle
	e.logger.Info("battle started",
		zap.Int("enemies", len(b.Enemies)),
		zap.Int("player_strength", b.PlayerStrength),
		zap.Int("player_dexterity", b.PlayerDexterity),
	)

	res := &Result{Directive: d, OK: true}
	res.Events = append(res.Events, ModeChanged{Mode: hero.ModeBattle})
	return res, nil
}

// BattleTurn resolves one player move. Damage taken is synced into the
// persistent Strength stat immediately so mid-fight consumers observe
// consistent values. The outcome cue fires exactly once because further
// turns after the outcome are rejected with ErrFinished.
func (e *Engine) BattleTurn(move battle.Move) (*Result, error) {
	d := directive.Directive{Name: directive.NameBattle}
	if e.battle == nil {
		return &Result{Directive: d}, ErrNoBattle
	}

	turn, err := e.battle.ResolveTurn(move, e.roller.Source())
	if err != nil {
		return &Result{Directive: d}, err
	}

	res := &Result{Directive: d, OK: turn.Hit, Value: turn.Damage, Turn: turn}
	if turn.DamageToPlayer {
		e.state.SetStrength(turn.PlayerStrength)
		e.saveNow()
		res.Events = append(res.Events,
			TaleFrame{Target: FrameHero},
			StatsChanged{Stats: statsView(e.state)},
		)
	} else {
		res.Events = append(res.Events,
			Cue{Kind: CueBattleHit},
			TaleFrame{Target: FrameEnemy},
		)
	}

	switch turn.Outcome {
	case battle.OutcomeVictory:
		res.Events = append(res.Events, Cue{Kind: CueBattleWin}, TaleFrame{Target: FrameEnemy, Terminal: true})
	case battle.OutcomeDefeat:
		res.Events = append(res.Events, Cue{Kind: CueBattleLose}, TaleFrame{Target: FrameHero, Terminal: true})
	}

	e.logger.Debug("battle turn resolved",
		zap.Int("turn", turn.Turn),
		zap.String("move", turn.Move.String()),
		zap.Bool("hit", turn.Hit),
		zap.String("outcome", turn.Outcome.String()),
	)
	return res, nil
}

// SelectBattleTarget switches the current target. The slot index is 1-based
// to match the wire format; switching is locked when one enemy remains.
func (e *Engine) SelectBattleTarget(idx int) error {
	if e.battle == nil {
		return ErrNoBattle
	}
	return e.battle.SelectTarget(idx - 1)
}

// FinishBattle acknowledges the end-of-battle line: the battle is destroyed,
// mode returns to normal, and navigation to the stored win or lose page is
// requested.
//
// Precondition: the battle outcome must be decided.
func (e *Engine) FinishBattle() (*Result, error) {
	d := directive.Directive{Name: directive.NameBattle}
	if e.battle == nil {
		return &Result{Directive: d}, ErrNoBattle
	}
	if !e.battle.Finished {
		return &Result{Directive: d}, fmt.Errorf("battle not yet decided")
	}

	page := e.battle.LosePage
	if e.battle.Won {
		page = e.battle.WinPage
	}
	won := e.battle.Won

	e.battle = nil
	e.state.Mode = hero.ModeNormal
	e.state.Page = page
	e.saveNow()

	e.logger.Info("battle finished",
		zap.Bool("won", won),
		zap.String("page", page),
	)

	res := &Result{Directive: d, OK: won}
	res.Events = append(res.Events,
		ModeChanged{Mode: hero.ModeNormal},
		Navigate{Page: page},
	)
	return res, nil
}

// SetPage records the current page for the snapshot.
func (e *Engine) SetPage(page string) {
	e.state.Page = page
	e.saveNow()
}

// saveNow writes the snapshot synchronously. Storage failure degrades to
// in-memory play with a logged warning; nothing here is fatal.
func (e *Engine) saveNow() {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	snap := storage.SnapshotFromState(e.state, e.saveID)
	if err := e.store.Save(ctx, snap); err != nil {
		e.logger.Warn("persistence unavailable, continuing in-memory",
			zap.String("save_id", e.saveID),
			zap.Error(err),
		)
	}
}
