package protocol

import (
	lsp "go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

// FromLSP converts go.lsp.dev/protocol params, applying the same checks as
// NewSelectionRangeParams.
func FromLSP(p *lsp.SelectionRangeParams) (*SelectionRangeParams, error) {
	if p == nil {
		return nil, missing(fieldTextDocument)
	}
	var positions []Position
	if p.Positions != nil {
		positions = make([]Position, len(p.Positions))
		for i, pos := range p.Positions {
			positions[i] = positionFromLSP(pos)
		}
	}
	doc := TextDocumentIdentifier{URI: uri.URI(string(p.TextDocument.URI))}
	return NewSelectionRangeParams(doc, positions)
}

// ToLSP converts p to its go.lsp.dev/protocol counterpart.
func (p *SelectionRangeParams) ToLSP() *lsp.SelectionRangeParams {
	positions := make([]lsp.Position, len(p.positions))
	for i, pos := range p.positions {
		positions[i] = positionToLSP(pos)
	}
	return &lsp.SelectionRangeParams{
		TextDocument: lsp.TextDocumentIdentifier{URI: lsp.DocumentURI(string(p.textDocument.URI))},
		Positions:    positions,
	}
}

// SelectionRangesFromLSP converts a go.lsp.dev/protocol result.
func SelectionRangesFromLSP(in []lsp.SelectionRange) []SelectionRange {
	if in == nil {
		return nil
	}
	out := make([]SelectionRange, len(in))
	for i := range in {
		out[i] = *selectionRangeFromLSP(&in[i])
	}
	return out
}

func selectionRangeFromLSP(in *lsp.SelectionRange) *SelectionRange {
	if in == nil {
		return nil
	}
	return &SelectionRange{
		Range: Range{
			Start: positionFromLSP(in.Range.Start),
			End:   positionFromLSP(in.Range.End),
		},
		Parent: selectionRangeFromLSP(in.Parent),
	}
}

func positionFromLSP(p lsp.Position) Position {
	return Position{Line: p.Line, Character: p.Character}
}

func positionToLSP(p Position) lsp.Position {
	return lsp.Position{Line: p.Line, Character: p.Character}
}
