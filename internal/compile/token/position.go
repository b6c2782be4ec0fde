package token

import (
	"fmt"
	"sort"
)

type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

func (p Position) IsValid() bool { return p.Line > 0 }

func (p Position) String() string {
	s := p.Filename
	if p.IsValid() {
		if s != "" {
			s += ":"
		}
		s += fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	if s == "" {
		s = "-"
	}
	return s
}

// File resolves positions within a single source text.
type File struct {
	name  string
	size  int
	lines []int
}

func NewFile(name string, src []rune) *File {
	f := &File{name: name, size: len(src), lines: []int{0}}
	for i, r := range src {
		if r == '\n' {
			f.lines = append(f.lines, i+1)
		}
	}
	return f
}

func (f *File) Name() string { return f.name }

func (f *File) Position(p Pos) Position {
	if !p.IsValid() {
		return Position{Filename: f.name}
	}
	off := int(p) - 1
	if off > f.size {
		off = f.size
	}
	line := sort.Search(len(f.lines), func(i int) bool { return f.lines[i] > off }) - 1
	return Position{
		Filename: f.name,
		Offset:   off,
		Line:     line + 1,
		Column:   off - f.lines[line] + 1,
	}
}
