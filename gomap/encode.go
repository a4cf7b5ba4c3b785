package gomap

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"

	"github.com/signadot/hyperlambda/ir"
)

// ToNoder is implemented by types which encode themselves.
type ToNoder interface {
	ToNode() (*ir.Node, error)
}

// Encode returns a node named name holding v, the inverse of Decode.
func Encode(name string, v any) (*ir.Node, error) {
	n := ir.New(name, nil)
	if err := encode(n, reflect.ValueOf(v)); err != nil {
		return nil, err
	}
	return n, nil
}

func encode(n *ir.Node, v reflect.Value) error {
	if !v.IsValid() {
		return nil
	}
	if v.Type().Implements(reflect.TypeFor[ToNoder]()) {
		if v.Kind() == reflect.Pointer && v.IsNil() {
			return nil
		}
		res, err := v.Interface().(ToNoder).ToNode()
		if err != nil {
			return err
		}
		n.Value = res.Value
		n.AddNodes(res.CloneChildren()...)
		return nil
	}
	if v.Type() == nodeType {
		if !v.IsNil() {
			n.AddNodes(v.Interface().(*ir.Node).CloneChildren()...)
		}
		return nil
	}
	if isValueType(v.Type()) {
		n.Value = v.Interface()
		return nil
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return encode(n, v.Elem())
	case reflect.Struct:
		for _, f := range fields(v.Type()) {
			fv := v.Field(f.index)
			if f.omitEmpty && fv.IsZero() {
				continue
			}
			if err := encode(n.Add(f.name, nil), fv); err != nil {
				return err
			}
		}
		return nil
	case reflect.Slice, reflect.Array:
		for i := range v.Len() {
			if err := encode(n.Add("", nil), v.Index(i)); err != nil {
				return err
			}
		}
		return nil
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("%w: %s", ir.ErrConvert, v.Type())
		}
		keys := v.MapKeys()
		slices.SortFunc(keys, func(a, b reflect.Value) int {
			return cmp.Compare(a.String(), b.String())
		})
		for _, k := range keys {
			if err := encode(n.Add(k.String(), nil), v.MapIndex(k)); err != nil {
				return err
			}
		}
		return nil
	case reflect.String:
		n.Value = v.String()
	case reflect.Bool:
		n.Value = v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32:
		n.Value = int(v.Int())
	case reflect.Int64:
		n.Value = v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n.Value = int64(v.Uint())
	case reflect.Float32, reflect.Float64:
		n.Value = v.Float()
	default:
		return fmt.Errorf("%w: cannot encode %s", ir.ErrConvert, v.Type())
	}
	return nil
}
