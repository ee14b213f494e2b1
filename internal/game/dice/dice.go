package dice

import "fmt"

// TwoDice holds the result of rolling two six-sided dice.
//
// Postcondition: Sum == First + Second; each die is in [1, 6].
type TwoDice struct {
	First  int
	Second int
}

// Sum returns the combined value of both dice.
//
// Postcondition: return value is in [2, 12].
func (t TwoDice) Sum() int {
	return t.First + t.Second
}

// String returns a human-readable audit string in the format:
//
//	"2d6 → [4 5] = 9"
func (t TwoDice) String() string {
	return fmt.Sprintf("2d6 → [%d %d] = %d", t.First, t.Second, t.Sum())
}

// RandomInt returns a uniformly distributed integer in [min, max] inclusive.
//
// Precondition: src must be non-nil; max >= min.
// Panics with "dice: RandomInt called with max < min" on a reversed range.
func RandomInt(src Source, min, max int) int {
	if max < min {
		panic("dice: RandomInt called with max < min")
	}
	return min + src.Intn(max-min+1)
}

// RollDie rolls one six-sided die.
//
// Postcondition: return value is in [1, 6].
func RollDie(src Source) int {
	return RandomInt(src, 1, 6)
}

// RollTwoDice rolls two six-sided dice and returns both individual values.
//
// Postcondition: each die is in [1, 6]; Sum() is in [2, 12].
func RollTwoDice(src Source) TwoDice {
	return TwoDice{
		First:  RollDie(src),
		Second: RollDie(src),
	}
}
