// Package api defines the JSON-RPC 2.0 methods of the event server.
//
// Trees travel as hyperlambda text.
package api

import (
	"go.lsp.dev/jsonrpc2"
)

const (
	MethodRaise       = "raise"
	MethodListEvents  = "list-events"
	MethodGetEvent    = "get-event"
	MethodSetEvent    = "set-event"
	MethodRemoveEvent = "remove-event"
)

// Error codes beyond the JSON-RPC 2.0 ones.
const (
	ErrCodeLambda   jsonrpc2.Code = -32001
	ErrCodeSecurity jsonrpc2.Code = -32002
	ErrCodeParse    jsonrpc2.Code = -32003
)

func NewError(code jsonrpc2.Code, msg string) *jsonrpc2.Error {
	return jsonrpc2.NewError(code, msg)
}

// RaiseParams invokes Event with the nodes in Args as arguments and Value,
// given as text with an optional type, as the argument value.
type RaiseParams struct {
	Event  string `json:"event"`
	Args   string `json:"args,omitempty"`
	Value  string `json:"value,omitempty"`
	Type   string `json:"type,omitempty"`
	Ticket string `json:"ticket,omitempty"`
}

// RaiseResult holds the arguments after the invocation.
type RaiseResult struct {
	Value  string `json:"value,omitempty"`
	Type   string `json:"type,omitempty"`
	Result string `json:"result,omitempty"`
}

type ListEventsParams struct {
	Filter []string `json:"filter,omitempty"`
}

type ListEventsResult struct {
	Keywords []string `json:"keywords,omitempty"`
	Natives  []string `json:"natives,omitempty"`
	Lambdas  []string `json:"lambdas,omitempty"`
}

type GetEventParams struct {
	Event string `json:"event"`
}

type GetEventResult struct {
	Bodies    []string `json:"bodies"`
	Protected bool     `json:"protected,omitempty"`
}

// SetEventParams declares Event with Body. An empty body removes the
// event.
type SetEventParams struct {
	Event     string `json:"event"`
	Body      string `json:"body"`
	Protected bool   `json:"protected,omitempty"`
}

type SetEventResult struct{}

type RemoveEventParams struct {
	Event string `json:"event"`
}

type RemoveEventResult struct {
	Removed bool `json:"removed"`
}
