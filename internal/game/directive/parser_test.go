package directive

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParse_BareIdentifier(t *testing.T) {
	d, err := Parse("stats")
	require.NoError(t, err)
	assert.Equal(t, "stats", d.Name)
	assert.Empty(t, d.Args)
}

func TestParse_BareIdentifierLowercases(t *testing.T) {
	d, err := Parse("STATS")
	require.NoError(t, err)
	assert.Equal(t, "stats", d.Name)
}

func TestParse_ColonFirstArg(t *testing.T) {
	d, err := Parse("take:Item_apple")
	require.NoError(t, err)
	assert.Equal(t, "take", d.Name)
	assert.Equal(t, []string{"Item_apple"}, d.Args)
}

func TestParse_SemicolonArgs(t *testing.T) {
	d, err := Parse("luck;-013;-012")
	require.NoError(t, err)
	assert.Equal(t, "luck", d.Name)
	assert.Equal(t, []string{"-013", "-012"}, d.Args)
}

func TestParse_ColonAndSemicolons(t *testing.T) {
	d, err := Parse("reac:6;-015;-016")
	require.NoError(t, err)
	assert.Equal(t, "reac", d.Name)
	assert.Equal(t, []string{"6", "-015", "-016"}, d.Args)
}

func TestParse_BattleSpec(t *testing.T) {
	d, err := Parse("battle:[8,7|6,9];-020;-021")
	require.NoError(t, err)
	assert.Equal(t, "battle", d.Name)
	assert.Equal(t, []string{"[8,7|6,9]", "-020", "-021"}, d.Args)
}

func TestParse_TrimsArguments(t *testing.T) {
	d, err := Parse("luck; -013 ; -012 ")
	require.NoError(t, err)
	assert.Equal(t, []string{"-013", "-012"}, d.Args)
}

func TestParse_UppercaseNameWithArgs(t *testing.T) {
	d, err := Parse("Take:Item_sword")
	require.NoError(t, err)
	assert.Equal(t, "take", d.Name)
	assert.Equal(t, []string{"Item_sword"}, d.Args)
}

func TestParse_Invalid(t *testing.T) {
	for _, text := range []string{
		"",
		"   ",
		"1take:Item_apple",
		":foo;bar",
		"na me;x",
		"take=Item_apple",
		";-013;-012",
	} {
		_, err := Parse(text)
		assert.ErrorIs(t, err, ErrInvalid, "input %q must fail", text)
	}
}

func TestParse_Property_NameAlwaysLowercase(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		name := rapid.StringMatching(`[A-Za-z_][A-Za-z0-9_]{0,10}`).Draw(rt, "name")
		d, err := Parse(name)
		require.NoError(rt, err)
		assert.Equal(rt, strings.ToLower(name), d.Name)
	})
}

func TestParse_Property_ArgsAreTrimmed(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		name := rapid.StringMatching(`[a-z]{2,8}`).Draw(rt, "name")
		args := rapid.SliceOfN(rapid.StringMatching(`[A-Za-z0-9_-]{1,8}`), 1, 4).Draw(rt, "args")
		d, err := Parse(name + ";" + strings.Join(args, " ; "))
		require.NoError(rt, err)
		assert.Equal(rt, args, d.Args)
	})
}
