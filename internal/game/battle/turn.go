package battle

import (
	"fmt"

	"github.com/avalight/herobook/internal/game/dice"
)

// Move is one of the two available player attacks.
type Move int

const (
	// MoveLunge succeeds on low rolls: r <= 4 with the quicker hand, r <= 3
	// otherwise.
	MoveLunge Move = iota
	// MovePirouette succeeds on high rolls: r >= 3 with the quicker hand,
	// r >= 4 otherwise.
	MovePirouette
)

// String returns "lunge" or "pirouette".
func (m Move) String() string {
	if m == MovePirouette {
		return "pirouette"
	}
	return "lunge"
}

// TurnResult records everything that happened in one resolved player turn.
type TurnResult struct {
	Move      Move
	Turn      int
	Roll      int
	Threshold int
	Hit       bool
	// Damage dealt this turn: to the target on a hit, to the player on a
	// miss.
	Damage         int
	DamageToPlayer bool
	// PlayerStrength is the player's in-battle hit points after the
	// exchange; callers sync it into the persistent Strength stat.
	PlayerStrength int
	TargetDefeated bool
	TargetFled     bool
	FleeRoll       int
	Outcome        Outcome
	Log            [LogLines]string
}

// ResolveTurn plays one player turn with the given move.
//
// The dexterity-advantage flag is re-derived every turn (the target may have
// changed), damage and hit points floor at 0, the flee check applies only to
// a target still alive after the exchange, and a decided outcome is terminal.
//
// Postcondition: returns ErrFinished after the outcome is decided;
// ErrInvalidTarget when no enemy remains to fight; otherwise a TurnResult
// with all five log lines rewritten.
func (b *Battle) ResolveTurn(move Move, src dice.Source) (*TurnResult, error) {
	if b.Finished {
		return nil, ErrFinished
	}
	b.retarget()
	target := b.CurrentTarget()
	if target == nil || !target.Alive {
		return nil, fmt.Errorf("%w: no enemy remains", ErrInvalidTarget)
	}

	b.Turn++
	res := &TurnResult{Move: move, Turn: b.Turn}

	dexAdv := b.PlayerDexterity > target.Dexterity
	dexDis := b.PlayerDexterity < target.Dexterity

	res.Roll = dice.RollDie(src)
	switch move {
	case MovePirouette:
		res.Threshold = 4
		if dexAdv {
			res.Threshold = 3
		}
		res.Hit = res.Roll >= res.Threshold
	default:
		res.Threshold = 3
		if dexAdv {
			res.Threshold = 4
		}
		res.Hit = res.Roll <= res.Threshold
	}

	if res.Hit {
		res.Damage = b.PlayerStrength / 4
		if dexAdv {
			res.Damage++
		}
		target.Strength -= res.Damage
		if target.Strength <= 0 {
			target.Strength = 0
			target.Alive = false
			res.TargetDefeated = true
		}
	} else {
		res.Damage = target.Strength / 4
		res.DamageToPlayer = true
		b.PlayerStrength -= res.Damage
		if b.PlayerStrength < 0 {
			b.PlayerStrength = 0
		}
	}
	res.PlayerStrength = b.PlayerStrength

	// Flee check only for a target still standing after the exchange.
	if target.Alive {
		res.FleeRoll = dice.RollDie(src)
		if target.Strength < res.FleeRoll {
			target.Alive = false
			target.Fled = true
			res.TargetFled = true
		}
	}

	b.retarget()

	res.Outcome = b.resolveOutcome()
	b.writeLog(res, dexAdv, dexDis)
	res.Log = b.Log
	return res, nil
}

// resolveOutcome applies the terminal rules: victory when no enemies remain
// and the player stands, defeat when the player fell with enemies remaining.
// Once decided the finished flag never clears.
func (b *Battle) resolveOutcome() Outcome {
	alive := b.AliveCount()
	switch {
	case alive == 0 && b.PlayerStrength > 0:
		b.Finished = true
		b.Won = true
		b.ClickableEnd = true
		return OutcomeVictory
	case b.PlayerStrength <= 0 && alive > 0:
		b.Finished = true
		b.Won = false
		b.ClickableEnd = true
		return OutcomeDefeat
	default:
		return OutcomeContinue
	}
}

// writeLog rewrites the fixed five-line log for the turn just resolved:
// turn number, advantage phrase, hit/miss with numbers, defeated-or-fled
// phrase (defeat takes priority), and the outcome phrase.
func (b *Battle) writeLog(res *TurnResult, dexAdv, dexDis bool) {
	b.Log[0] = fmt.Sprintf("Turn %d", res.Turn)

	switch {
	case dexAdv:
		b.Log[1] = "You have the quicker hand."
	case dexDis:
		b.Log[1] = "Your foe has the quicker hand."
	default:
		b.Log[1] = "You are evenly matched."
	}

	cmp := "≤"
	if res.Move == MovePirouette {
		cmp = "≥"
	}
	if res.Hit {
		b.Log[2] = fmt.Sprintf("Your %s lands for %d damage (rolled %d, needed %s %d).",
			res.Move, res.Damage, res.Roll, cmp, res.Threshold)
	} else {
		b.Log[2] = fmt.Sprintf("Your %s misses; you take %d damage (rolled %d, needed %s %d).",
			res.Move, res.Damage, res.Roll, cmp, res.Threshold)
	}

	switch {
	case res.TargetDefeated:
		b.Log[3] = "Your foe falls."
	case res.TargetFled:
		b.Log[3] = fmt.Sprintf("Your foe flees the battle (rolled %d).", res.FleeRoll)
	default:
		b.Log[3] = "Your foe stands firm."
	}

	switch res.Outcome {
	case OutcomeVictory:
		b.Log[4] = "Victory is yours."
	case OutcomeDefeat:
		b.Log[4] = "You have been defeated."
	default:
		b.Log[4] = "The battle continues."
	}
}
