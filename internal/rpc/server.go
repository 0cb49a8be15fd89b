package rpc

import (
	"errors"
	"fmt"

	"go.lsp.dev/jsonrpc2"

	"github.com/ThreeFx/selrange/protocol"
)

// DecodeSelectionRangeParams decodes the params of a textDocument/selectionRange
// request for a handler. Invalid params are reported as a JSON-RPC
// InvalidParams error naming the offending field, ready to be passed to a
// jsonrpc2.Replier.
func DecodeSelectionRangeParams(req jsonrpc2.Request) (*protocol.SelectionRangeParams, error) {
	if req.Method() != MethodSelectionRange {
		return nil, jsonrpc2.NewError(jsonrpc2.InvalidRequest, fmt.Sprintf("unexpected method %q", req.Method()))
	}
	p, err := protocol.DecodeSelectionRangeParams(req.Params())
	if err != nil {
		if errors.Is(err, protocol.ErrInvalidArgument) {
			return nil, jsonrpc2.NewError(jsonrpc2.InvalidParams, err.Error())
		}
		return nil, jsonrpc2.NewError(jsonrpc2.ParseError, err.Error())
	}
	return p, nil
}
