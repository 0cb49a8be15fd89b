package protocol

import (
	"fmt"

	"github.com/segmentio/encoding/json"
	"go.lsp.dev/uri"
)

type selectionRangeParamsJSON struct {
	TextDocument *TextDocumentIdentifier `json:"textDocument"`
	Positions    []Position              `json:"positions"`
}

func (p *SelectionRangeParams) MarshalJSON() ([]byte, error) {
	positions := p.positions
	if positions == nil {
		positions = []Position{}
	}
	return json.Marshal(selectionRangeParamsJSON{
		TextDocument: &p.textDocument,
		Positions:    positions,
	})
}

// UnmarshalJSON decodes p from a request payload. A missing or null field is
// an error and leaves p untouched.
func (p *SelectionRangeParams) UnmarshalJSON(data []byte) error {
	var raw selectionRangeParamsJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	draft := SelectionRangeParamsDraft{
		TextDocument: raw.TextDocument,
		Positions:    raw.Positions,
	}
	decoded, err := draft.Build()
	if err != nil {
		return err
	}
	*p = *decoded
	return nil
}

// DecodeSelectionRangeParams decodes a textDocument/selectionRange payload.
func DecodeSelectionRangeParams(data []byte) (*SelectionRangeParams, error) {
	p := new(SelectionRangeParams)
	if err := p.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("protocol: decode selection range params: %w", err)
	}
	return p, nil
}

type positionJSON struct {
	Line      *uint32 `json:"line"`
	Character *uint32 `json:"character"`
}

// UnmarshalJSON requires both offsets; a missing or null offset is an error
// rather than a silent zero.
func (p *Position) UnmarshalJSON(data []byte) error {
	var raw positionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Line == nil {
		return missing("line")
	}
	if raw.Character == nil {
		return missing("character")
	}
	p.Line, p.Character = *raw.Line, *raw.Character
	return nil
}

type rangeJSON struct {
	Start *Position `json:"start"`
	End   *Position `json:"end"`
}

func (r *Range) UnmarshalJSON(data []byte) error {
	var raw rangeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Start == nil {
		return missing("start")
	}
	if raw.End == nil {
		return missing("end")
	}
	r.Start, r.End = *raw.Start, *raw.End
	return nil
}

type textDocumentIdentifierJSON struct {
	URI *uri.URI `json:"uri"`
}

func (d *TextDocumentIdentifier) UnmarshalJSON(data []byte) error {
	var raw textDocumentIdentifierJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.URI == nil {
		return missing("uri")
	}
	d.URI = *raw.URI
	return nil
}

type selectionRangeJSON struct {
	Range  *Range          `json:"range"`
	Parent *SelectionRange `json:"parent,omitempty"`
}

func (s *SelectionRange) UnmarshalJSON(data []byte) error {
	var raw selectionRangeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Range == nil {
		return missing("range")
	}
	s.Range = *raw.Range
	s.Parent = raw.Parent
	return nil
}

// DecodeSelectionRanges decodes the result of a textDocument/selectionRange
// request. A null result decodes to nil.
func DecodeSelectionRanges(data []byte) ([]SelectionRange, error) {
	var out []SelectionRange
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("protocol: decode selection ranges: %w", err)
	}
	return out, nil
}
