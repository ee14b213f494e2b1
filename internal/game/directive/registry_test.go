package directive_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avalight/herobook/internal/game/directive"
)

func TestDefaultRegistry_KnowsAllBuiltins(t *testing.T) {
	r := directive.DefaultRegistry()
	for _, name := range []string{
		directive.NameStats,
		directive.NameLuck,
		directive.NameReac,
		directive.NameTake,
		directive.NameDelete,
		directive.NameUsage,
		directive.NameBattle,
	} {
		d := directive.Directive{Name: name, Args: []string{"a", "b", "c"}}
		spec, err := r.Resolve(d)
		require.NoError(t, err, "builtin %q must resolve", name)
		assert.Equal(t, name, spec.Name)
	}
	assert.Len(t, r.Specs(), 7)
}

func TestRegistry_Resolve_Unknown(t *testing.T) {
	r := directive.DefaultRegistry()
	_, err := r.Resolve(directive.Directive{Name: "teleport"})
	assert.ErrorIs(t, err, directive.ErrUnknown)
}

func TestRegistry_Resolve_TooFewArgs(t *testing.T) {
	r := directive.DefaultRegistry()
	_, err := r.Resolve(directive.Directive{Name: directive.NameLuck, Args: []string{"-013"}})
	assert.ErrorIs(t, err, directive.ErrInvalid)

	_, err = r.Resolve(directive.Directive{Name: directive.NameBattle, Args: []string{"[8,7]", "-020"}})
	assert.ErrorIs(t, err, directive.ErrInvalid)
}

func TestRegistry_Resolve_StatsNeedsNoArgs(t *testing.T) {
	r := directive.DefaultRegistry()
	_, err := r.Resolve(directive.Directive{Name: directive.NameStats})
	assert.NoError(t, err)
}

func TestNewRegistry_RejectsDuplicates(t *testing.T) {
	_, err := directive.NewRegistry([]directive.Spec{
		{Name: "take"},
		{Name: "take"},
	})
	assert.Error(t, err)
}
