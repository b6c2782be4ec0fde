package token

type Precedence int

const (
	PrecedenceNone           Precedence = -1
	PrecedenceLowest         Precedence = 0
	PrecedenceComparison     Precedence = 10
	PrecedenceAdditive       Precedence = 20
	PrecedenceMultiplicative Precedence = 30
)

// Precedence returns the binding power of t as a binary operator, or
// PrecedenceNone if t is not one.
func (t *Token) Precedence() Precedence {
	if t == nil || t.Type != Other {
		return PrecedenceNone
	}
	switch t.Rune {
	case '<':
		return PrecedenceComparison
	case '+', '-':
		return PrecedenceAdditive
	case '*':
		return PrecedenceMultiplicative
	default:
		return PrecedenceNone
	}
}
