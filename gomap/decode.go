// Package gomap maps lambda nodes to Go values and back.
package gomap

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/signadot/hyperlambda/ir"
	"github.com/signadot/hyperlambda/parse"
)

var (
	ErrTarget       = errors.New("decode target must be a non-nil pointer")
	ErrUnknownField = errors.New("unknown field")
)

// FromNoder is implemented by types which decode themselves.
type FromNoder interface {
	FromNode(*ir.Node) error
}

// Load parses hyperlambda in d and decodes the result into p.
func Load(d []byte, p any) error {
	node, err := parse.Parse(d)
	if err != nil {
		return err
	}
	return Decode(node, p)
}

// Decode fills the value p points to from n. Structs and maps are filled
// from the children of n by name, slices from the children in order, and
// everything else from the value of n through the ir converters.
func Decode(n *ir.Node, p any) error {
	val := reflect.ValueOf(p)
	if val.Kind() != reflect.Pointer || val.IsNil() {
		return ErrTarget
	}
	return decode(n, val.Elem())
}

var (
	fromNoderType = reflect.TypeFor[FromNoder]()
	anyType       = reflect.TypeFor[any]()
	nodeType      = reflect.TypeFor[*ir.Node]()
)

func decode(n *ir.Node, v reflect.Value) error {
	if v.CanAddr() && v.Addr().Type().Implements(fromNoderType) {
		return v.Addr().Interface().(FromNoder).FromNode(n)
	}
	if v.Type() == nodeType {
		v.Set(reflect.ValueOf(n.Clone()))
		return nil
	}
	if v.Type() == anyType {
		if x := ToAny(n); x != nil {
			v.Set(reflect.ValueOf(x))
		}
		return nil
	}
	if isValueType(v.Type()) {
		return decodeValue(n, v)
	}
	switch v.Kind() {
	case reflect.Pointer:
		if n.Value == nil && n.Len() == 0 {
			return nil
		}
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		return decode(n, v.Elem())
	case reflect.Struct:
		return decodeStruct(n, v)
	case reflect.Slice:
		s := reflect.MakeSlice(v.Type(), n.Len(), n.Len())
		for i, c := range n.Children {
			if err := decode(c, s.Index(i)); err != nil {
				return err
			}
		}
		v.Set(s)
		return nil
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("%w: %s at %s", ir.ErrConvert, v.Type(), n.Path())
		}
		if v.IsNil() {
			v.Set(reflect.MakeMap(v.Type()))
		}
		for _, c := range n.Children {
			e := reflect.New(v.Type().Elem()).Elem()
			if err := decode(c, e); err != nil {
				return err
			}
			v.SetMapIndex(reflect.ValueOf(c.Name).Convert(v.Type().Key()), e)
		}
		return nil
	}
	return decodeValue(n, v)
}

func decodeStruct(n *ir.Node, v reflect.Value) error {
	fs := fields(v.Type())
	for _, c := range n.Children {
		if c.Name == "" || c.Name[0] == '_' {
			continue
		}
		found := false
		for _, f := range fs {
			if f.name != c.Name {
				continue
			}
			if err := decode(c, v.Field(f.index)); err != nil {
				return err
			}
			found = true
			break
		}
		if !found {
			return fmt.Errorf("%w %q at %s for %s", ErrUnknownField, c.Name, c.Path(), v.Type())
		}
	}
	return nil
}

// isValueType tells if values of ty are held in a node value rather than
// in children.
func isValueType(ty reflect.Type) bool {
	return ir.TypeOf(ty) != nil
}

func decodeValue(n *ir.Node, v reflect.Value) error {
	if n.Value == nil {
		v.SetZero()
		return nil
	}
	x, err := ir.ConvertTo(n.Value, v.Type())
	if err != nil {
		x, err = convertKind(n.Value, v.Type())
	}
	if err != nil {
		return fmt.Errorf("%s: %w", n.Path(), err)
	}
	v.Set(reflect.ValueOf(x))
	return nil
}

// convertKind converts values to named types through the basic type of
// their kind.
func convertKind(x any, ty reflect.Type) (any, error) {
	var base reflect.Type
	switch ty.Kind() {
	case reflect.String:
		base = reflect.TypeFor[string]()
	case reflect.Bool:
		base = reflect.TypeFor[bool]()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		base = reflect.TypeFor[int64]()
	case reflect.Float32, reflect.Float64:
		base = reflect.TypeFor[float64]()
	default:
		return nil, fmt.Errorf("%w: %T to %s", ir.ErrConvert, x, ty)
	}
	b, err := ir.ConvertTo(x, base)
	if err != nil {
		return nil, err
	}
	return reflect.ValueOf(b).Convert(ty).Interface(), nil
}

// ToAny returns n as plain Go values: the value of a leaf, a []any for
// children without names and a map[string]any otherwise.
func ToAny(n *ir.Node) any {
	if n.Len() == 0 {
		return n.Value
	}
	named := false
	for _, c := range n.Children {
		if c.Name != "" {
			named = true
			break
		}
	}
	if !named {
		res := make([]any, n.Len())
		for i, c := range n.Children {
			res[i] = ToAny(c)
		}
		return res
	}
	res := make(map[string]any, n.Len())
	for _, c := range n.Children {
		res[c.Name] = ToAny(c)
	}
	return res
}
