package rpc

import (
	"errors"
	"testing"

	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/jsonrpc2"

	"github.com/ThreeFx/selrange/protocol"
)

func newCall(t *testing.T, method, params string) *jsonrpc2.Call {
	t.Helper()
	call, err := jsonrpc2.NewCall(jsonrpc2.NewNumberID(1), method, json.RawMessage(params))
	require.NoError(t, err)
	return call
}

func TestDecodeSelectionRangeParams(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		params   string
		wantCode jsonrpc2.Code
		wantMsg  string
	}{
		{
			name:   "valid",
			method: MethodSelectionRange,
			params: `{"textDocument":{"uri":"file:///a.ts"},"positions":[{"line":0,"character":2}]}`,
		},
		{
			name:     "missing document",
			method:   MethodSelectionRange,
			params:   `{"positions":[{"line":0,"character":2}]}`,
			wantCode: jsonrpc2.InvalidParams,
			wantMsg:  "textDocument",
		},
		{
			name:     "missing positions",
			method:   MethodSelectionRange,
			params:   `{"textDocument":{"uri":"file:///a.ts"}}`,
			wantCode: jsonrpc2.InvalidParams,
			wantMsg:  "positions",
		},
		{
			name:     "wrong shape",
			method:   MethodSelectionRange,
			params:   `[1,2,3]`,
			wantCode: jsonrpc2.ParseError,
		},
		{
			name:     "other method",
			method:   "textDocument/hover",
			params:   `{}`,
			wantCode: jsonrpc2.InvalidRequest,
			wantMsg:  "textDocument/hover",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := DecodeSelectionRangeParams(newCall(t, tt.method, tt.params))
			if tt.wantCode == 0 {
				require.NoError(t, err)
				assert.Equal(t, []protocol.Position{{Line: 0, Character: 2}}, p.Positions())
				return
			}
			require.Error(t, err)
			assert.Nil(t, p)

			var rpcErr *jsonrpc2.Error
			require.True(t, errors.As(err, &rpcErr))
			assert.Equal(t, tt.wantCode, rpcErr.Code)
			assert.Contains(t, rpcErr.Message, tt.wantMsg)
		})
	}
}
