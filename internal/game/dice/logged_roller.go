package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged dice rolling.
// All rolls are logged at debug level with the range and result.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// RandomInt returns a uniform integer in [min, max] and logs the draw.
//
// Precondition: max >= min.
func (r *Roller) RandomInt(min, max int) int {
	v := RandomInt(r.src, min, max)
	r.logger.Debug("random int",
		zap.Int("min", min),
		zap.Int("max", max),
		zap.Int("value", v),
	)
	return v
}

// RollDie rolls one six-sided die and logs the result.
//
// Postcondition: return value is in [1, 6].
func (r *Roller) RollDie() int {
	v := RollDie(r.src)
	r.logger.Debug("die roll", zap.Int("value", v))
	return v
}

// RollTwoDice rolls two six-sided dice and logs both values and the sum.
//
// Postcondition: Sum() is in [2, 12].
func (r *Roller) RollTwoDice() TwoDice {
	t := RollTwoDice(r.src)
	r.logger.Debug("two dice roll",
		zap.Int("first", t.First),
		zap.Int("second", t.Second),
		zap.Int("sum", t.Sum()),
	)
	return t
}

// Source exposes the underlying Source for components that roll directly.
func (r *Roller) Source() Source {
	return r.src
}
