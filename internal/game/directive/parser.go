// Package directive provides the parser and registry for the compact action
// mini-language embedded in story content.
package directive

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalid is returned for directive text that does not match the grammar.
// Callers log and ignore; the page link is treated as inert.
var ErrInvalid = errors.New("invalid directive")

// Directive holds a parsed instruction: a lower-cased name and its ordered
// arguments.
type Directive struct {
	Name string
	Args []string
}

// Arg returns the i-th argument or the empty string when absent.
func (d Directive) Arg(i int) string {
	if i < 0 || i >= len(d.Args) {
		return ""
	}
	return d.Args[i]
}

var (
	bareIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	headExpr  = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)(?::(.*))?$`)
)

// Parse tokenizes trimmed directive text.
//
// Grammar: a bare identifier becomes a directive with no arguments; otherwise
// the text splits on ';', the first part must be "name" or "name:firstArg",
// and the remaining parts become arguments 1..n, each trimmed. Any other
// shape fails with ErrInvalid.
//
// Postcondition: on success the Name is lower-cased and non-empty.
func Parse(text string) (Directive, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Directive{}, fmt.Errorf("%w: empty text", ErrInvalid)
	}

	if bareIdent.MatchString(text) {
		return Directive{Name: strings.ToLower(text)}, nil
	}

	parts := strings.Split(text, ";")
	head := strings.TrimSpace(parts[0])
	m := headExpr.FindStringSubmatch(head)
	if m == nil {
		return Directive{}, fmt.Errorf("%w: malformed head %q", ErrInvalid, head)
	}

	d := Directive{Name: strings.ToLower(m[1])}
	if m[2] != "" {
		d.Args = append(d.Args, strings.TrimSpace(m[2]))
	}
	for _, p := range parts[1:] {
		d.Args = append(d.Args, strings.TrimSpace(p))
	}
	return d, nil
}
