package editor

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/neovim/go-client/nvim"
	"github.com/rs/zerolog"
	"go.lsp.dev/uri"

	"github.com/ThreeFx/selrange/protocol"
)

var ErrUnnamedBuffer = errors.New("editor: current buffer has no name")

// Nvim is the part of the Neovim API the session uses.
type Nvim interface {
	CurrentBuffer() (nvim.Buffer, error)
	BufferName(buffer nvim.Buffer) (string, error)
	BufferLines(buffer nvim.Buffer, start, end int, strict bool) ([][]byte, error)
	BufferOption(buffer nvim.Buffer, name string, result interface{}) error
	Windows() ([]nvim.Window, error)
	WindowBuffer(window nvim.Window) (nvim.Buffer, error)
	WindowCursor(window nvim.Window) ([2]int, error)
}

// Session reads the state of one Neovim instance.
type Session struct {
	nv     Nvim
	closer func() error
	logger zerolog.Logger
}

// Dial connects to the Neovim listening on socket.
func Dial(socket string, logger zerolog.Logger) (*Session, error) {
	n, err := nvim.Dial(socket)
	if err != nil {
		return nil, fmt.Errorf("editor: dial %s: %w", socket, err)
	}
	s := NewSession(n, logger)
	s.closer = n.Close
	return s, nil
}

func NewSession(nv Nvim, logger zerolog.Logger) *Session {
	return &Session{nv: nv, logger: logger}
}

func (s *Session) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

// Buffer is the current buffer and the document it holds.
type Buffer struct {
	ID       nvim.Buffer
	Document protocol.TextDocumentIdentifier
}

func (s *Session) CurrentBuffer() (Buffer, error) {
	b, err := s.nv.CurrentBuffer()
	if err != nil {
		return Buffer{}, err
	}
	name, err := s.nv.BufferName(b)
	if err != nil {
		return Buffer{}, err
	}
	if name == "" {
		return Buffer{}, ErrUnnamedBuffer
	}
	if !filepath.IsAbs(name) {
		if name, err = filepath.Abs(name); err != nil {
			return Buffer{}, err
		}
	}
	return Buffer{ID: b, Document: protocol.TextDocumentIdentifier{URI: uri.File(name)}}, nil
}

// CursorParams builds selection range params for the current buffer with one
// position per window showing it, in window order. The buffer is returned
// alongside so callers can read its text.
func (s *Session) CursorParams() (Buffer, *protocol.SelectionRangeParams, error) {
	buf, err := s.CurrentBuffer()
	if err != nil {
		return Buffer{}, nil, err
	}
	lines, err := s.nv.BufferLines(buf.ID, 0, -1, false)
	if err != nil {
		return Buffer{}, nil, err
	}
	windows, err := s.nv.Windows()
	if err != nil {
		return Buffer{}, nil, err
	}

	draft := new(protocol.SelectionRangeParamsDraft).
		WithTextDocument(buf.Document).
		WithPositions([]protocol.Position{})
	for _, w := range windows {
		wb, err := s.nv.WindowBuffer(w)
		if err != nil {
			return Buffer{}, nil, err
		}
		if wb != buf.ID {
			continue
		}
		cursor, err := s.nv.WindowCursor(w)
		if err != nil {
			return Buffer{}, nil, err
		}
		pos := cursorPosition(lines, cursor)
		s.logger.Debug().Int("window", int(w)).Uint32("line", pos.Line).Uint32("character", pos.Character).Msg("cursor")
		draft.AddPosition(pos)
	}
	params, err := draft.Build()
	if err != nil {
		return Buffer{}, nil, err
	}
	return buf, params, nil
}

// BufferText returns the buffer contents joined with newlines.
func (s *Session) BufferText(b nvim.Buffer) (string, error) {
	lines, err := s.nv.BufferLines(b, 0, -1, false)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, l := range lines {
		sb.Write(l)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

func (s *Session) FileType(b nvim.Buffer) (string, error) {
	var ft string
	if err := s.nv.BufferOption(b, "filetype", &ft); err != nil {
		return "", err
	}
	return ft, nil
}

// cursorPosition converts a Neovim cursor (1-based row, byte column) into an
// LSP position (0-based line, UTF-16 column).
func cursorPosition(lines [][]byte, cursor [2]int) protocol.Position {
	row, col := cursor[0]-1, cursor[1]
	if row < 0 {
		row = 0
	}
	pos := protocol.Position{Line: uint32(row)}
	if row >= len(lines) {
		return pos
	}
	line := lines[row]
	if col > len(line) {
		col = len(line)
	}
	var units uint32
	for prefix := line[:col]; len(prefix) > 0; {
		r, size := utf8.DecodeRune(prefix)
		if r >= 0x10000 {
			units += 2
		} else {
			units++
		}
		prefix = prefix[size:]
	}
	pos.Character = units
	return pos
}
