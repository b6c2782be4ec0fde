// Code generated by generate_tokens.go

package token

type Type int

const (
	Invalid Type = iota
	EOF
	Identifier
	Number
	Other
	Def
	Extern
)

func (t Type) String() string {
	if t < 0 || t > Extern {
		t = Invalid
	}
	return names[t]
}

var names = []string{"<invalid>", "<EOF>", "<identifier>", "<number>", "<other>", "def", "extern"}

func Lookup(ident string) Type {
	switch ident {
	case "def":
		return Def
	case "extern":
		return Extern
	default:
		return Identifier
	}
}
