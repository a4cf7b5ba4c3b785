package eval

import (
	"bytes"
	"encoding/json"
	"math"
	"reflect"
	"slices"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
	"github.com/signadot/hyperlambda/ir"
)

// ToJSONAny converts the content of node to plain data: a node with named
// children becomes an ordered map, one whose children are all anonymous a
// list, and a node without children its value.
func ToJSONAny(node *ir.Node) any {
	if node.Len() == 0 {
		return plain(node.Value)
	}
	anonymous := !slices.ContainsFunc(node.Children, func(c *ir.Node) bool {
		return c.Name != ""
	})
	if anonymous {
		res := make([]any, node.Len())
		for i, c := range node.Children {
			res[i] = ToJSONAny(c)
		}
		return res
	}
	res := make(yaml.MapSlice, node.Len())
	for i, c := range node.Children {
		res[i] = yaml.MapItem{Key: c.Name, Value: ToJSONAny(c)}
	}
	return res
}

// plain converts a node value to a value of the JSON data model. Values
// without a JSON counterpart become their text form.
func plain(v any) any {
	switch x := v.(type) {
	case nil, string, bool, int, int64, float64:
		return x
	case float32:
		return float64(x)
	case *apd.Decimal:
		f, err := x.Float64()
		if err != nil {
			return x.String()
		}
		return f
	case ir.Ref:
		return ToJSONAny(x.N)
	case *ir.Node:
		return ToJSONAny(x)
	case uuid.UUID:
		return x.String()
	case time.Time:
		return x.Format(time.RFC3339Nano)
	}
	return ir.MustString(v)
}

// scalar converts a decoded scalar to a node value. Integers become int
// when they fit.
func scalar(v any) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := rv.Int()
		if i >= math.MinInt && i <= math.MaxInt {
			return int(i)
		}
		return i
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u <= math.MaxInt {
			return int(u)
		}
		return float64(u)
	case reflect.Float32:
		return rv.Float()
	}
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return scalar(i)
		}
		f, _ := n.Float64()
		return f
	}
	return v
}

// FromAny converts plain data to a node: maps become named children, lists
// anonymous children and anything else the value of the node.
func FromAny(v any) (*ir.Node, error) {
	n := ir.New("", nil)
	if err := fill(n, v); err != nil {
		return nil, err
	}
	return n, nil
}

func fill(n *ir.Node, v any) error {
	switch x := v.(type) {
	case yaml.MapSlice:
		for _, item := range x {
			k, err := ir.ToString(item.Key)
			if err != nil {
				return err
			}
			if err := fill(n.Add(k, nil), item.Value); err != nil {
				return err
			}
		}
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			if err := fill(n.Add(k, nil), x[k]); err != nil {
				return err
			}
		}
	case []any:
		for _, e := range x {
			if err := fill(n.Add("", nil), e); err != nil {
				return err
			}
		}
	default:
		n.Value = scalar(x)
	}
	return nil
}

// MarshalJSON writes the content of node as JSON, keeping the order of its
// children.
func MarshalJSON(node *ir.Node) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := writeJSON(buf, ToJSONAny(node)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v any) error {
	switch x := v.(type) {
	case yaml.MapSlice:
		buf.WriteByte('{')
		for i, item := range x {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(item.Key)
			if err != nil {
				return err
			}
			buf.Write(k)
			buf.WriteByte(':')
			if err := writeJSON(buf, item.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case []any:
		buf.WriteByte('[')
		for i, e := range x {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	}
	d, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(d)
	return nil
}

// unmarshal decodes JSON or YAML text keeping the order of map keys.
func unmarshal(d []byte) (any, error) {
	var v any
	if err := yaml.UnmarshalWithOptions(d, &v, yaml.UseOrderedMap()); err != nil {
		return nil, err
	}
	return v, nil
}
