package ir

import (
	"encoding/base64"
	"fmt"
	"reflect"
	"strconv"
	"sync"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/google/uuid"
)

// Type describes how a value type is written in hyperlambda text.
type Type struct {
	Name   string
	Parse  func(string) (any, error)
	Format func(any) (string, error)
}

var (
	typeMu  sync.RWMutex
	byName  = map[string]*Type{}
	byGo    = map[reflect.Type]*Type{}
	goTypes = map[string]reflect.Type{}
)

// RegisterType associates t with the Go type of sample. Registering the same
// name twice replaces the earlier entry.
func RegisterType(t *Type, sample any) {
	typeMu.Lock()
	defer typeMu.Unlock()
	rt := reflect.TypeOf(sample)
	byName[t.Name] = t
	byGo[rt] = t
	if _, present := goTypes[t.Name]; !present {
		goTypes[t.Name] = rt
	}
}

// LookupType returns the type registered under name or nil.
func LookupType(name string) *Type {
	typeMu.RLock()
	defer typeMu.RUnlock()
	return byName[name]
}

// TypeOf returns the type registered for the Go type rt or nil.
func TypeOf(rt reflect.Type) *Type {
	return typeOfGo(rt)
}

func typeOfGo(rt reflect.Type) *Type {
	typeMu.RLock()
	defer typeMu.RUnlock()
	return byGo[rt]
}

// TypeName returns the text type name of v; strings and nil have the empty
// type name.
func TypeName(v any) string {
	switch v.(type) {
	case nil, string:
		return ""
	}
	t := typeOfGo(reflect.TypeOf(v))
	if t == nil {
		return ""
	}
	return t.Name
}

// Types returns the registered type names.
func Types() []string {
	typeMu.RLock()
	defer typeMu.RUnlock()
	res := make([]string, 0, len(byName))
	for k := range byName {
		res = append(res, k)
	}
	return res
}

// ParseTyped converts the text s of type name into a value.
func ParseTyped(name, s string) (any, error) {
	if name == "" || name == "string" {
		return s, nil
	}
	t := LookupType(name)
	if t == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	v, err := t.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q: %w", ErrConvert, name, s, err)
	}
	return v, nil
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseDate(s string) (any, error) {
	var err error
	for _, l := range dateLayouts {
		var t time.Time
		t, err = time.Parse(l, s)
		if err == nil {
			return t, nil
		}
	}
	return nil, err
}

func init() {
	RegisterType(&Type{
		Name:   "string",
		Parse:  func(s string) (any, error) { return s, nil },
		Format: func(v any) (string, error) { return v.(string), nil },
	}, "")
	RegisterType(&Type{
		Name: "int",
		Parse: func(s string) (any, error) {
			return strconv.Atoi(s)
		},
		Format: func(v any) (string, error) { return strconv.Itoa(v.(int)), nil },
	}, int(0))
	RegisterType(&Type{
		Name: "long",
		Parse: func(s string) (any, error) {
			return strconv.ParseInt(s, 10, 64)
		},
		Format: func(v any) (string, error) { return strconv.FormatInt(v.(int64), 10), nil },
	}, int64(0))
	RegisterType(&Type{
		Name: "double",
		Parse: func(s string) (any, error) {
			return strconv.ParseFloat(s, 64)
		},
		Format: func(v any) (string, error) {
			return strconv.FormatFloat(v.(float64), 'g', -1, 64), nil
		},
	}, float64(0))
	RegisterType(&Type{
		Name: "float",
		Parse: func(s string) (any, error) {
			f, err := strconv.ParseFloat(s, 32)
			return float32(f), err
		},
		Format: func(v any) (string, error) {
			return strconv.FormatFloat(float64(v.(float32)), 'g', -1, 32), nil
		},
	}, float32(0))
	RegisterType(&Type{
		Name: "decimal",
		Parse: func(s string) (any, error) {
			d, _, err := apd.NewFromString(s)
			return d, err
		},
		Format: func(v any) (string, error) { return v.(*apd.Decimal).String(), nil },
	}, &apd.Decimal{})
	RegisterType(&Type{
		Name: "bool",
		Parse: func(s string) (any, error) {
			return strconv.ParseBool(s)
		},
		Format: func(v any) (string, error) { return strconv.FormatBool(v.(bool)), nil },
	}, false)
	RegisterType(&Type{
		Name:  "date",
		Parse: parseDate,
		Format: func(v any) (string, error) {
			return v.(time.Time).Format(time.RFC3339Nano), nil
		},
	}, time.Time{})
	RegisterType(&Type{
		Name: "time",
		Parse: func(s string) (any, error) {
			return time.ParseDuration(s)
		},
		Format: func(v any) (string, error) { return v.(time.Duration).String(), nil },
	}, time.Duration(0))
	RegisterType(&Type{
		Name: "guid",
		Parse: func(s string) (any, error) {
			return uuid.Parse(s)
		},
		Format: func(v any) (string, error) { return v.(uuid.UUID).String(), nil },
	}, uuid.UUID{})
	RegisterType(&Type{
		Name: "blob",
		Parse: func(s string) (any, error) {
			return base64.StdEncoding.DecodeString(s)
		},
		Format: func(v any) (string, error) {
			return base64.StdEncoding.EncodeToString(v.([]byte)), nil
		},
	}, []byte(nil))
	RegisterType(&Type{
		Name:   "node",
		Parse:  parseNodeValue,
		Format: func(v any) (string, error) { return formatNodeValue(v.(*Node)) },
	}, &Node{})
	// a Ref is written like an owned node and reads back as one
	RegisterType(&Type{
		Name:   "node",
		Parse:  parseNodeValue,
		Format: func(v any) (string, error) { return formatNodeValue(v.(Ref).N) },
	}, Ref{})
}

func parseNodeValue(s string) (any, error) {
	n, err := ToNode(s)
	if err != nil {
		return nil, err
	}
	if len(n.Children) == 1 {
		return n.Children[0].Untie(), nil
	}
	return n, nil
}

func formatNodeValue(n *Node) (string, error) {
	if n == nil {
		return "", nil
	}
	if n.Name == "" && n.Value == nil {
		return encodeNodes(n.Children)
	}
	return encodeNodes([]*Node{n})
}
