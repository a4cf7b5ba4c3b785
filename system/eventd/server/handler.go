package server

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/signadot/hyperlambda/debug"
	"github.com/signadot/hyperlambda/encode"
	"github.com/signadot/hyperlambda/event"
	"github.com/signadot/hyperlambda/ir"
	"github.com/signadot/hyperlambda/parse"
	"github.com/signadot/hyperlambda/system/eventd/api"

	"go.lsp.dev/jsonrpc2"
)

// Handler returns the JSON-RPC handler of s.
func (s *Server) Handler() jsonrpc2.Handler {
	return func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		if debug.Event() {
			debug.Logf("rpc %s %s", req.Method(), string(req.Params()))
		}
		res, err := s.dispatch(ctx, req)
		if err != nil {
			s.Spec.Log.Debug("request failed", "method", req.Method(), "error", err)
		}
		return reply(ctx, res, rpcError(err))
	}
}

func (s *Server) dispatch(ctx context.Context, req jsonrpc2.Request) (any, error) {
	switch req.Method() {
	case api.MethodRaise:
		var p api.RaiseParams
		if err := unmarshal(req, &p); err != nil {
			return nil, err
		}
		return s.raise(ctx, &p)
	case api.MethodListEvents:
		var p api.ListEventsParams
		if err := unmarshal(req, &p); err != nil {
			return nil, err
		}
		return s.listEvents(&p), nil
	case api.MethodGetEvent:
		var p api.GetEventParams
		if err := unmarshal(req, &p); err != nil {
			return nil, err
		}
		return s.getEvent(&p)
	case api.MethodSetEvent:
		var p api.SetEventParams
		if err := unmarshal(req, &p); err != nil {
			return nil, err
		}
		return s.setEvent(&p)
	case api.MethodRemoveEvent:
		var p api.RemoveEventParams
		if err := unmarshal(req, &p); err != nil {
			return nil, err
		}
		return s.removeEvent(&p)
	}
	return nil, jsonrpc2.NewError(jsonrpc2.MethodNotFound, fmt.Sprintf("method %q not found", req.Method()))
}

func unmarshal(req jsonrpc2.Request, p any) error {
	params := req.Params()
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, p); err != nil {
		return jsonrpc2.NewError(jsonrpc2.InvalidParams, err.Error())
	}
	return nil
}

func requireEvent(name string) error {
	if name == "" {
		return jsonrpc2.NewError(jsonrpc2.InvalidParams, "missing event name")
	}
	return nil
}

// raise runs the event on a context forked from the server context, bounded
// by the configured timeout and canceled with the request.
func (s *Server) raise(ctx context.Context, p *api.RaiseParams) (*api.RaiseResult, error) {
	if err := requireEvent(p.Event); err != nil {
		return nil, err
	}
	args, err := parse.Parse([]byte(p.Args))
	if err != nil {
		return nil, err
	}
	args.Name = p.Event
	if p.Value != "" || p.Type != "" {
		v, err := ir.ParseTyped(p.Type, p.Value)
		if err != nil {
			return nil, jsonrpc2.NewError(jsonrpc2.InvalidParams, err.Error())
		}
		args.Value = v
	}
	if t := s.Spec.Config.Timeout; t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}
	ec := s.Spec.Context.ForkContext(ctx)
	if p.Ticket != "" {
		ec.Ticket = p.Ticket
	}
	if _, err := ec.Raise(p.Event, args); err != nil {
		return nil, err
	}
	res := &api.RaiseResult{
		Type:   ir.TypeName(args.Value),
		Result: encode.MustString(args.Children...),
	}
	if args.Value != nil {
		res.Value, err = ir.ToString(args.Value)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (s *Server) listEvents(p *api.ListEventsParams) *api.ListEventsResult {
	reg := s.Spec.Context.Registry
	return &api.ListEventsResult{
		Keywords: filter(reg.Keywords(), p.Filter),
		Natives:  reg.NativeNames(p.Filter...),
		Lambdas:  reg.LambdaNames(p.Filter...),
	}
}

func filter(names, filters []string) []string {
	if len(filters) == 0 {
		return names
	}
	var res []string
	for _, n := range names {
		if slices.ContainsFunc(filters, func(f string) bool { return strings.Contains(n, f) }) {
			res = append(res, n)
		}
	}
	return res
}

func (s *Server) getEvent(p *api.GetEventParams) (*api.GetEventResult, error) {
	if err := requireEvent(p.Event); err != nil {
		return nil, err
	}
	reg := s.Spec.Context.Registry
	res := &api.GetEventResult{Bodies: []string{}}
	for _, b := range reg.Lambda(p.Event) {
		res.Bodies = append(res.Bodies, encode.MustString(b.Children...))
	}
	if prot, ok := reg.Protection(p.Event); ok && len(res.Bodies) != 0 {
		res.Protected = prot.Closed()
	}
	return res, nil
}

func (s *Server) setEvent(p *api.SetEventParams) (*api.SetEventResult, error) {
	if err := requireEvent(p.Event); err != nil {
		return nil, err
	}
	body, err := parse.Parse([]byte(p.Body))
	if err != nil {
		return nil, err
	}
	reg := s.Spec.Context.Registry
	if body.Len() == 0 {
		if _, err := reg.RemoveLambda(p.Event); err != nil {
			return nil, err
		}
		return &api.SetEventResult{}, nil
	}
	prot := event.LambdaOpen
	if p.Protected {
		prot = event.LambdaClosed
	}
	if err := reg.SetLambda(p.Event, []*ir.Node{body}, prot); err != nil {
		return nil, err
	}
	return &api.SetEventResult{}, nil
}

func (s *Server) removeEvent(p *api.RemoveEventParams) (*api.RemoveEventResult, error) {
	if err := requireEvent(p.Event); err != nil {
		return nil, err
	}
	removed, err := s.Spec.Context.Registry.RemoveLambda(p.Event)
	if err != nil {
		return nil, err
	}
	return &api.RemoveEventResult{Removed: removed}, nil
}
