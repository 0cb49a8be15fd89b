package protocol

import (
	"fmt"

	"go.lsp.dev/uri"
)

// Position is a zero-based line and character offset inside a text document.
type Position struct {
	Line      uint32 `json:"line"`
	Character uint32 `json:"character"`
}

func (p Position) Fields() []Field {
	return []Field{
		{Name: "line", Value: p.Line},
		{Name: "character", Value: p.Character},
	}
}

func (p Position) Equal(other Position) bool { return Equal(p, other) }
func (p Position) HashCode() int32           { return Hash(p) }
func (p Position) String() string            { return Format(p) }

// Compare orders positions by line, then character.
func (p Position) Compare(other Position) int {
	switch {
	case p.Line < other.Line:
		return -1
	case p.Line > other.Line:
		return 1
	case p.Character < other.Character:
		return -1
	case p.Character > other.Character:
		return 1
	}
	return 0
}

// Range is the half-open span [Start, End) of a text document.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

func (r Range) Fields() []Field {
	return []Field{
		{Name: "start", Value: r.Start},
		{Name: "end", Value: r.End},
	}
}

func (r Range) Equal(other Range) bool { return Equal(r, other) }
func (r Range) HashCode() int32        { return Hash(r) }
func (r Range) String() string         { return Format(r) }

// Contains reports whether inner lies within r, bounds included.
func (r Range) Contains(inner Range) bool {
	return r.Start.Compare(inner.Start) <= 0 && inner.End.Compare(r.End) <= 0
}

// ContainsPosition reports whether p lies within r, bounds included.
func (r Range) ContainsPosition(p Position) bool {
	return r.Start.Compare(p) <= 0 && p.Compare(r.End) <= 0
}

// TextDocumentIdentifier names a text document by its URI. The zero value is
// the absent identifier.
type TextDocumentIdentifier struct {
	URI uri.URI `json:"uri"`
}

func (d TextDocumentIdentifier) Fields() []Field {
	return []Field{{Name: "uri", Value: d.URI}}
}

func (d TextDocumentIdentifier) Equal(other TextDocumentIdentifier) bool { return Equal(d, other) }
func (d TextDocumentIdentifier) HashCode() int32                         { return Hash(d) }
func (d TextDocumentIdentifier) String() string                          { return Format(d) }

func (d TextDocumentIdentifier) IsZero() bool { return d.URI == "" }

// SelectionRange is one step of a selection hierarchy. Parent, when set,
// must contain Range.
type SelectionRange struct {
	Range  Range           `json:"range"`
	Parent *SelectionRange `json:"parent,omitempty"`
}

func (s SelectionRange) Fields() []Field {
	return []Field{
		{Name: "range", Value: s.Range},
		{Name: "parent", Value: s.Parent},
	}
}

func (s SelectionRange) Equal(other SelectionRange) bool { return Equal(s, other) }
func (s SelectionRange) HashCode() int32                 { return Hash(s) }
func (s SelectionRange) String() string                  { return Format(s) }

// Chain returns the ranges from s outwards.
func (s SelectionRange) Chain() []Range {
	var out []Range
	for cur := &s; cur != nil; cur = cur.Parent {
		out = append(out, cur.Range)
	}
	return out
}

// Validate checks that every parent contains its child.
func (s SelectionRange) Validate() error {
	for cur := &s; cur.Parent != nil; cur = cur.Parent {
		if !cur.Parent.Range.Contains(cur.Range) {
			return fmt.Errorf("%w: %s not in %s", ErrInvalidRange, cur.Range, cur.Parent.Range)
		}
	}
	return nil
}
