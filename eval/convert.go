package eval

import (
	"encoding/base64"
	"unicode/utf8"

	"github.com/signadot/hyperlambda/event"
	"github.com/signadot/hyperlambda/exp"
	"github.com/signadot/hyperlambda/ir"

	"github.com/google/uuid"
)

// valueSymbol is a native event computing a new value from the value of
// its invocation.
type valueSymbol struct {
	name
	f func(v any) (any, error)
}

func (s valueSymbol) Handle(_ *event.Context, args *ir.Node) error {
	v, err := exp.Value(args)
	if err != nil {
		return event.WrapError(args, err)
	}
	res, err := s.f(v)
	if err != nil {
		return event.WrapError(args, err)
	}
	setResult(args, res)
	return nil
}

var (
	toStringSym = &valueSymbol{name: "to-string", f: func(v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		return ir.ToString(v)
	}}
	toIntSym = &valueSymbol{name: "to-int", f: func(v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		return ir.Convert[int](v)
	}}
	b64EncSym = &valueSymbol{name: "b64-encode", f: func(v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		if b, ok := v.([]byte); ok {
			return base64.StdEncoding.EncodeToString(b), nil
		}
		s, err := ir.ToString(v)
		if err != nil {
			return nil, err
		}
		return base64.StdEncoding.EncodeToString([]byte(s)), nil
	}}
	b64DecSym = &valueSymbol{name: "b64-decode", f: func(v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		s, err := ir.ToString(v)
		if err != nil {
			return nil, err
		}
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, err
		}
		if utf8.Valid(b) {
			return string(b), nil
		}
		return b, nil
	}}
	newGUIDSym = &valueSymbol{name: "new-guid", f: func(any) (any, error) {
		return uuid.New(), nil
	}}
)

// ToString converts its value to text; nodes are encoded as hyperlambda.
func ToString() Symbol { return toStringSym }

// ToInt converts its value to an int.
func ToInt() Symbol { return toIntSym }

// B64Enc encodes its value, text or blob, as standard base64.
func B64Enc() Symbol { return b64EncSym }

// B64Dec decodes standard base64 into text, or a blob when the bytes are
// not UTF-8.
func B64Dec() Symbol { return b64DecSym }

// NewGUID sets its value to a new random guid.
func NewGUID() Symbol { return newGUIDSym }
