package server

import (
	"errors"

	"github.com/signadot/hyperlambda/event"
	"github.com/signadot/hyperlambda/parse"
	"github.com/signadot/hyperlambda/system/eventd/api"

	"go.lsp.dev/jsonrpc2"
)

// ErrListenerRunning indicates StartTCP was called twice.
var ErrListenerRunning = errors.New("TCP listener already running")

// rpcError gives err the JSON-RPC error code of its kind.
func rpcError(err error) error {
	if err == nil {
		return nil
	}
	var rpcErr *jsonrpc2.Error
	if errors.As(err, &rpcErr) {
		return err
	}
	var se *event.SecurityError
	var le *event.LambdaError
	switch {
	case errors.As(err, &se):
		return api.NewError(api.ErrCodeSecurity, err.Error())
	case errors.Is(err, parse.ErrParse):
		return api.NewError(api.ErrCodeParse, err.Error())
	case errors.As(err, &le):
		return api.NewError(api.ErrCodeLambda, err.Error())
	}
	return api.NewError(jsonrpc2.InternalError, err.Error())
}
