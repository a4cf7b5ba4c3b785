package ir

import (
	"bytes"
	"cmp"
	"reflect"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/google/uuid"
)

// Compare orders a and b. ok is false when a and b have different runtime
// types, in which case they are not equal and have no order. nil sorts before
// everything.
func Compare(a, b any) (res int, ok bool) {
	switch {
	case a == nil && b == nil:
		return 0, true
	case a == nil:
		return -1, true
	case b == nil:
		return 1, true
	}
	if ar, isRef := a.(Ref); isRef {
		a = ar.N
	}
	if br, isRef := b.(Ref); isRef {
		b = br.N
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return 0, false
	}
	switch x := a.(type) {
	case string:
		return strings.Compare(x, b.(string)), true
	case bool:
		y := b.(bool)
		switch {
		case x == y:
			return 0, true
		case !x:
			return -1, true
		default:
			return 1, true
		}
	case int:
		return cmp.Compare(x, b.(int)), true
	case int64:
		return cmp.Compare(x, b.(int64)), true
	case float64:
		return cmp.Compare(x, b.(float64)), true
	case float32:
		return cmp.Compare(x, b.(float32)), true
	case *apd.Decimal:
		return x.Cmp(b.(*apd.Decimal)), true
	case time.Time:
		return x.Compare(b.(time.Time)), true
	case time.Duration:
		return cmp.Compare(x, b.(time.Duration)), true
	case uuid.UUID:
		y := b.(uuid.UUID)
		return bytes.Compare(x[:], y[:]), true
	case []byte:
		return bytes.Compare(x, b.([]byte)), true
	case *Node:
		y := b.(*Node)
		if x == y {
			return 0, true
		}
		return strings.Compare(MustString(x), MustString(y)), true
	}
	if reflect.TypeOf(a).Comparable() && a == b {
		return 0, true
	}
	return strings.Compare(MustString(a), MustString(b)), true
}

// Equal reports whether a and b have the same type and compare equal.
func Equal(a, b any) bool {
	c, ok := Compare(a, b)
	return ok && c == 0
}
