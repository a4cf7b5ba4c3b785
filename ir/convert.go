package ir

import (
	"fmt"
	"reflect"
	"strings"
	"sync/atomic"
)

// Decoder parses hyperlambda text into a parent-less node holding the top
// level nodes as children.
type Decoder func(string) (*Node, error)

// Encoder writes nodes as hyperlambda text.
type Encoder func([]*Node) (string, error)

var (
	decoder atomic.Pointer[Decoder]
	encoder atomic.Pointer[Encoder]
)

func SetDecoder(d Decoder) { decoder.Store(&d) }
func SetEncoder(e Encoder) { encoder.Store(&e) }

func decodeString(s string) (*Node, error) {
	d := decoder.Load()
	if d == nil {
		return nil, ErrNoCodec
	}
	return (*d)(s)
}

func encodeNodes(ns []*Node) (string, error) {
	e := encoder.Load()
	if e == nil {
		return "", ErrNoCodec
	}
	return (*e)(ns)
}

// ToString converts any value to its text form. Nodes are encoded as
// hyperlambda.
func ToString(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	}
	if t := typeOfGo(reflect.TypeOf(v)); t != nil {
		return t.Format(v)
	}
	return fmt.Sprint(v), nil
}

// MustString is ToString for callers which cannot act on an error.
func MustString(v any) string {
	s, err := ToString(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}

// ToNode converts v to a node. Living nodes are returned as is, strings are
// parsed into a parent-less node holding the parsed nodes as children.
func ToNode(v any) (*Node, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case *Node:
		return x, nil
	case Ref:
		return x.N, nil
	case string:
		return decodeString(x)
	}
	s, err := ToString(v)
	if err != nil {
		return nil, err
	}
	return decodeString(s)
}

var (
	stringType = reflect.TypeFor[string]()
	nodeType   = reflect.TypeFor[*Node]()
	boolType   = reflect.TypeFor[bool]()
)

// Convert converts v to T. A nil v gives the zero T.
func Convert[T any](v any) (T, error) {
	var zero T
	if v == nil {
		return zero, nil
	}
	if t, ok := v.(T); ok {
		return t, nil
	}
	r, err := ConvertTo(v, reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}
	t, ok := r.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %T to %T", ErrConvert, v, zero)
	}
	return t, nil
}

// ConvertTo converts v to a value of the Go type rt.
func ConvertTo(v any, rt reflect.Type) (any, error) {
	if v == nil {
		return reflect.Zero(rt).Interface(), nil
	}
	if reflect.TypeOf(v) == rt {
		return v, nil
	}
	switch rt {
	case stringType:
		return ToString(v)
	case nodeType:
		return ToNode(v)
	case boolType:
		if s, ok := v.(string); ok {
			return ParseTyped("bool", s)
		}
		return Truth(v), nil
	}
	if rt.Kind() == reflect.Interface && reflect.TypeOf(v).Implements(rt) {
		return v, nil
	}
	rv := reflect.ValueOf(v)
	if isNumeric(rv.Kind()) && isNumeric(rt.Kind()) {
		return rv.Convert(rt).Interface(), nil
	}
	t := typeOfGo(rt)
	if t == nil {
		return nil, fmt.Errorf("%w: no type registered for %s", ErrConvert, rt)
	}
	s, err := ToString(v)
	if err != nil {
		return nil, err
	}
	res, err := t.Parse(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %q to %s: %w", ErrConvert, s, t.Name, err)
	}
	return res, nil
}

// ConvertNamed converts v to the type registered under name.
func ConvertNamed(v any, name string) (any, error) {
	if name == "" || name == "string" {
		return ToString(v)
	}
	typeMu.RLock()
	rt, ok := goTypes[name]
	typeMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	return ConvertTo(v, rt)
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// Get converts the value of n to T.
func Get[T any](n *Node) (T, error) {
	return Convert[T](n.Value)
}

// GetOr converts the value of n to T, returning def when the value is nil or
// does not convert.
func GetOr[T any](n *Node, def T) T {
	if n == nil || n.Value == nil {
		return def
	}
	t, err := Convert[T](n.Value)
	if err != nil {
		return def
	}
	return t
}

// ChildValue returns the converted value of the first child named name.
func ChildValue[T any](n *Node, name string, def T) T {
	return GetOr(n.Child(name), def)
}

// Concat combines values the way multiple source results are combined: one
// value is returned untouched, several are concatenated as strings, with
// lines separating nodes so the result stays valid hyperlambda.
func Concat(vs []any) (any, error) {
	switch len(vs) {
	case 0:
		return nil, nil
	case 1:
		return vs[0], nil
	}
	var b strings.Builder
	prevNode := false
	for i, v := range vs {
		isNode := isNodeValue(v)
		if i > 0 && (isNode || prevNode) {
			b.WriteString("\r\n")
		}
		s, err := ToString(v)
		if err != nil {
			return nil, err
		}
		b.WriteString(s)
		prevNode = isNode
	}
	return b.String(), nil
}

func isNodeValue(v any) bool {
	switch v.(type) {
	case *Node, Ref:
		return true
	}
	return false
}
