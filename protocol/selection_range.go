package protocol

import (
	"go.uber.org/multierr"
	"golang.org/x/exp/slices"
)

const (
	fieldTextDocument = "textDocument"
	fieldPositions    = "positions"
)

// SelectionRangeParams is the parameter literal of a textDocument/selectionRange
// request. Both fields are always set: values only come out of
// NewSelectionRangeParams, SelectionRangeParamsDraft.Build or UnmarshalJSON.
// The zero value is not a valid request.
//
// The order of Positions is significant, the response carries one selection
// range per position in the same order.
type SelectionRangeParams struct {
	textDocument TextDocumentIdentifier
	positions    []Position
}

// NewSelectionRangeParams returns params for doc and positions. A zero doc or a
// nil positions slice is rejected with an *InvalidArgumentError; an empty,
// non-nil slice is accepted.
func NewSelectionRangeParams(doc TextDocumentIdentifier, positions []Position) (*SelectionRangeParams, error) {
	if doc.IsZero() {
		return nil, missing(fieldTextDocument)
	}
	if positions == nil {
		return nil, missing(fieldPositions)
	}
	return &SelectionRangeParams{
		textDocument: doc,
		positions:    slices.Clone(positions),
	}, nil
}

// TextDocument is the text document.
func (p *SelectionRangeParams) TextDocument() TextDocumentIdentifier {
	return p.textDocument
}

// Positions are the positions inside the text document. The returned slice is a copy.
func (p *SelectionRangeParams) Positions() []Position {
	return slices.Clone(p.positions)
}

func (p *SelectionRangeParams) SetTextDocument(doc TextDocumentIdentifier) error {
	if doc.IsZero() {
		return missing(fieldTextDocument)
	}
	p.textDocument = doc
	return nil
}

func (p *SelectionRangeParams) SetPositions(positions []Position) error {
	if positions == nil {
		return missing(fieldPositions)
	}
	p.positions = slices.Clone(positions)
	return nil
}

func (p *SelectionRangeParams) Fields() []Field {
	return []Field{
		{Name: fieldTextDocument, Value: p.textDocument},
		{Name: fieldPositions, Value: p.positions},
	}
}

func (p *SelectionRangeParams) Equal(other *SelectionRangeParams) bool {
	if p == nil || other == nil {
		return p == other
	}
	return Equal(p, other)
}

func (p *SelectionRangeParams) HashCode() int32 { return Hash(p) }
func (p *SelectionRangeParams) String() string  { return Format(p) }

// Draft returns a draft holding a copy of p, for call sites that edit a
// request before sending it again.
func (p *SelectionRangeParams) Draft() *SelectionRangeParamsDraft {
	doc := p.textDocument
	return &SelectionRangeParamsDraft{
		TextDocument: &doc,
		Positions:    slices.Clone(p.positions),
	}
}

// SelectionRangeParamsDraft collects the fields of a SelectionRangeParams
// before they are all known. A draft is never a valid request by itself.
type SelectionRangeParamsDraft struct {
	TextDocument *TextDocumentIdentifier
	Positions    []Position
}

func (d *SelectionRangeParamsDraft) WithTextDocument(doc TextDocumentIdentifier) *SelectionRangeParamsDraft {
	d.TextDocument = &doc
	return d
}

func (d *SelectionRangeParamsDraft) WithPositions(positions []Position) *SelectionRangeParamsDraft {
	d.Positions = slices.Clone(positions)
	return d
}

func (d *SelectionRangeParamsDraft) AddPosition(pos Position) *SelectionRangeParamsDraft {
	if d.Positions == nil {
		d.Positions = make([]Position, 0, 1)
	}
	d.Positions = append(d.Positions, pos)
	return d
}

// Build validates the draft. Every missing field is reported.
func (d *SelectionRangeParamsDraft) Build() (*SelectionRangeParams, error) {
	var err error
	if d.TextDocument == nil || d.TextDocument.IsZero() {
		err = multierr.Append(err, missing(fieldTextDocument))
	}
	if d.Positions == nil {
		err = multierr.Append(err, missing(fieldPositions))
	}
	if err != nil {
		return nil, err
	}
	return NewSelectionRangeParams(*d.TextDocument, d.Positions)
}
