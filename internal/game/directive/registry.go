package directive

import (
	"errors"
	"fmt"
)

// ErrUnknown is returned when text parses but no handler is registered for
// the name.
var ErrUnknown = errors.New("unknown directive")

// Directive names recognized by the engine. The set is closed; the registry
// is validated against it at startup.
const (
	NameStats  = "stats"
	NameLuck   = "luck"
	NameReac   = "reac"
	NameTake   = "take"
	NameDelete = "delete"
	NameUsage  = "usage"
	NameBattle = "battle"
)

// Spec declares the argument contract for one directive name.
type Spec struct {
	// Name is the canonical lower-case directive name.
	Name string
	// MinArgs is the number of arguments the handler requires.
	MinArgs int
	// Help is a short description of the directive's effect.
	Help string
}

// Registry maps directive names to their specs.
type Registry struct {
	specs map[string]*Spec
}

// NewRegistry creates a Registry populated with the given specs.
//
// Precondition: no two specs may share a name.
// Postcondition: returns a Registry or an error on name collisions.
func NewRegistry(specs []Spec) (*Registry, error) {
	r := &Registry{specs: make(map[string]*Spec, len(specs))}
	for i := range specs {
		s := &specs[i]
		if _, exists := r.specs[s.Name]; exists {
			return nil, fmt.Errorf("duplicate directive name: %q", s.Name)
		}
		r.specs[s.Name] = s
	}
	return r, nil
}

// DefaultRegistry creates a Registry with the closed built-in directive set.
//
// Postcondition: every name the engine dispatches is present.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(BuiltinSpecs())
	if err != nil {
		panic(fmt.Sprintf("building default registry: %v", err))
	}
	return r
}

// BuiltinSpecs returns the closed set of recognized directives.
func BuiltinSpecs() []Spec {
	return []Spec{
		{Name: NameStats, MinArgs: 0, Help: "Roll two dice and apply the matching attribute distribution"},
		{Name: NameLuck, MinArgs: 2, Help: "Luck check: luck;successPage;failPage"},
		{Name: NameReac, MinArgs: 3, Help: "Reaction check: reac:threshold;successPage;failPage"},
		{Name: NameTake, MinArgs: 1, Help: "Acquire an item: take:itemId"},
		{Name: NameDelete, MinArgs: 1, Help: "Remove an inventory item: delete:slot (1-based)"},
		{Name: NameUsage, MinArgs: 1, Help: "Consume a food item: usage:slot (1-based)"},
		{Name: NameBattle, MinArgs: 3, Help: "Enter battle: battle:[s,d|...];winPage;losePage"},
	}
}

// Resolve looks up a directive spec by name and validates the argument count.
//
// Postcondition: returns ErrUnknown for unregistered names and ErrInvalid
// when fewer than MinArgs arguments were supplied.
func (r *Registry) Resolve(d Directive) (*Spec, error) {
	s, ok := r.specs[d.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, d.Name)
	}
	if len(d.Args) < s.MinArgs {
		return nil, fmt.Errorf("%w: %q needs %d arguments, got %d",
			ErrInvalid, d.Name, s.MinArgs, len(d.Args))
	}
	return s, nil
}

// Specs returns all registered specs in no particular order.
func (r *Registry) Specs() []*Spec {
	out := make([]*Spec, 0, len(r.specs))
	for _, s := range r.specs {
		out = append(out, s)
	}
	return out
}
