//go:generate go run ../../../tools/generate_tokens.go tokens.json token_gen.go

package token

import (
	"fmt"
	"strconv"
)

type Pos int

const NoPos Pos = 0

func (p Pos) IsValid() bool { return p != NoPos }

type Token struct {
	Type Type
	Pos  Pos
	End  Pos
	Text string

	// Value is set for Number tokens.
	Value float64
	// Rune is set for Other tokens.
	Rune rune
}

// Is reports whether t is the single character r.
func (t *Token) Is(r rune) bool {
	return t != nil && t.Type == Other && t.Rune == r
}

func (t *Token) String() string {
	switch t.Type {
	case EOF, Def, Extern:
		return t.Type.String()
	case Identifier:
		return fmt.Sprintf("identifier(%q)", t.Text)
	case Number:
		return "number(" + strconv.FormatFloat(t.Value, 'f', -1, 64) + ")"
	case Other:
		return fmt.Sprintf("other(%q)", t.Rune)
	default:
		return Invalid.String()
	}
}
