package rpc

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/segmentio/encoding/json"
	"go.lsp.dev/jsonrpc2"
	lsp "go.lsp.dev/protocol"

	"github.com/ThreeFx/selrange/protocol"
)

var (
	ErrNoSelectionRangeProvider = errors.New("rpc: server does not provide selection ranges")
	ErrResultCount              = errors.New("rpc: selection range count does not match positions")
)

// Client is the editor side of a language server connection.
type Client struct {
	conn   jsonrpc2.Conn
	logger zerolog.Logger
}

// NewClient starts reading from stream. Requests coming from the server are
// answered by a minimal handler; notifications are logged.
func NewClient(ctx context.Context, stream jsonrpc2.Stream, logger zerolog.Logger) *Client {
	c := &Client{
		conn:   jsonrpc2.NewConn(stream),
		logger: logger,
	}
	c.conn.Go(ctx, c.handle)
	return c
}

func (c *Client) handle(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	switch req.Method() {
	case methodLogMessage, methodShowMessage:
		var params struct {
			Type    int    `json:"type"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(req.Params(), &params); err != nil {
			c.logger.Warn().Err(err).Str("method", req.Method()).Msg("bad server message")
		} else {
			c.logger.Info().Int("type", params.Type).Msg(params.Message)
		}
		return reply(ctx, nil, nil)
	case methodPublishDiagnostics, methodProgress:
		c.logger.Trace().Str("method", req.Method()).Msg("ignored notification")
		return reply(ctx, nil, nil)
	case methodWorkDoneProgress, methodRegisterCapability:
		return reply(ctx, nil, nil)
	case methodWorkspaceConfig:
		var params struct {
			Items []json.RawMessage `json:"items"`
		}
		if err := json.Unmarshal(req.Params(), &params); err != nil {
			return reply(ctx, nil, jsonrpc2.NewError(jsonrpc2.InvalidParams, err.Error()))
		}
		return reply(ctx, make([]interface{}, len(params.Items)), nil)
	}

	if _, ok := req.(*jsonrpc2.Call); ok {
		c.logger.Debug().Str("method", req.Method()).Msg("unhandled server request")
		return reply(ctx, nil, jsonrpc2.NewError(jsonrpc2.MethodNotFound, fmt.Sprintf("%q: method not found", req.Method())))
	}
	c.logger.Debug().Str("method", req.Method()).Msg("unhandled notification")
	return reply(ctx, nil, nil)
}

type initializeParams struct {
	ProcessID    int                `json:"processId"`
	RootURI      *string            `json:"rootUri"`
	ClientInfo   clientInfo         `json:"clientInfo"`
	Capabilities clientCapabilities `json:"capabilities"`
}

type clientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

type clientCapabilities struct {
	TextDocument struct {
		SelectionRange struct {
			DynamicRegistration bool `json:"dynamicRegistration"`
		} `json:"selectionRange"`
	} `json:"textDocument"`
}

// Initialize performs the initialize/initialized handshake and checks that the
// server advertises selection range support.
func (c *Client) Initialize(ctx context.Context, rootURI string) error {
	params := initializeParams{
		ProcessID:  os.Getpid(),
		ClientInfo: clientInfo{Name: "selrange"},
	}
	if rootURI != "" {
		params.RootURI = &rootURI
	}

	var result struct {
		Capabilities struct {
			SelectionRangeProvider json.RawMessage `json:"selectionRangeProvider"`
		} `json:"capabilities"`
	}
	c.logger.Debug().Str("method", MethodInitialize).Str("root", rootURI).Msg("call")
	if _, err := c.conn.Call(ctx, MethodInitialize, params, &result); err != nil {
		return fmt.Errorf("rpc: initialize: %w", err)
	}
	if err := c.conn.Notify(ctx, MethodInitialized, struct{}{}); err != nil {
		return fmt.Errorf("rpc: initialized: %w", err)
	}

	switch string(result.Capabilities.SelectionRangeProvider) {
	case "", "null", "false":
		return ErrNoSelectionRangeProvider
	}
	return nil
}

// DidOpen announces the buffer contents for doc.
func (c *Client) DidOpen(ctx context.Context, doc protocol.TextDocumentIdentifier, languageID, text string) error {
	params := lsp.DidOpenTextDocumentParams{
		TextDocument: lsp.TextDocumentItem{
			URI:        lsp.DocumentURI(string(doc.URI)),
			LanguageID: lsp.LanguageIdentifier(languageID),
			Version:    1,
			Text:       text,
		},
	}
	c.logger.Debug().Str("method", MethodDidOpen).Str("uri", string(doc.URI)).Msg("notify")
	if err := c.conn.Notify(ctx, MethodDidOpen, params); err != nil {
		return fmt.Errorf("rpc: didOpen: %w", err)
	}
	return nil
}

// DidClose tells the server the client no longer holds doc open.
func (c *Client) DidClose(ctx context.Context, doc protocol.TextDocumentIdentifier) error {
	params := lsp.DidCloseTextDocumentParams{
		TextDocument: lsp.TextDocumentIdentifier{URI: lsp.DocumentURI(string(doc.URI))},
	}
	c.logger.Debug().Str("method", MethodDidClose).Str("uri", string(doc.URI)).Msg("notify")
	if err := c.conn.Notify(ctx, MethodDidClose, params); err != nil {
		return fmt.Errorf("rpc: didClose: %w", err)
	}
	return nil
}

// SelectionRange sends a textDocument/selectionRange request. The result holds
// one range per position, in the same order.
func (c *Client) SelectionRange(ctx context.Context, params *protocol.SelectionRangeParams) ([]protocol.SelectionRange, error) {
	c.logger.Debug().Str("method", MethodSelectionRange).Stringer("params", params).Msg("call")

	var raw json.RawMessage
	if _, err := c.conn.Call(ctx, MethodSelectionRange, params, &raw); err != nil {
		return nil, fmt.Errorf("rpc: selectionRange: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	ranges, err := protocol.DecodeSelectionRanges(raw)
	if err != nil {
		return nil, err
	}
	if ranges == nil {
		return nil, nil
	}
	if want := len(params.Positions()); len(ranges) != want {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrResultCount, len(ranges), want)
	}
	for i, r := range ranges {
		if err := r.Validate(); err != nil {
			c.logger.Warn().Err(err).Int("index", i).Msg("server returned an inconsistent selection range")
		}
	}
	return ranges, nil
}

// Shutdown asks the server to shut down, sends exit and closes the connection.
func (c *Client) Shutdown(ctx context.Context) error {
	c.logger.Debug().Str("method", MethodShutdown).Msg("call")
	if _, err := c.conn.Call(ctx, MethodShutdown, nil, nil); err != nil {
		return fmt.Errorf("rpc: shutdown: %w", err)
	}
	if err := c.conn.Notify(ctx, MethodExit, nil); err != nil {
		return fmt.Errorf("rpc: exit: %w", err)
	}
	return c.Close()
}

func (c *Client) Close() error {
	err := c.conn.Close()
	<-c.conn.Done()
	return err
}
