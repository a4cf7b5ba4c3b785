package gomap

import (
	"reflect"
	"strings"
	"unicode"
)

// field describes how a struct field maps to a child node, from its "hl"
// tag:
//
//	Addr string `hl:"addr"`
//	Dir  string `hl:"dir,omitempty"`
//	tmp  string `hl:"-"`
//
// Without a tag, the child is named after the field in kebab case.
type field struct {
	name      string
	index     int
	omitEmpty bool
}

func fields(ty reflect.Type) []field {
	var res []field
	for i := range ty.NumField() {
		f := ty.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("hl")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		if name == "" {
			name = kebab(f.Name)
		}
		res = append(res, field{
			name:      name,
			index:     i,
			omitEmpty: opts == "omitempty",
		})
	}
	return res
}

func kebab(s string) string {
	var b strings.Builder
	rs := []rune(s)
	for i, r := range rs {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(rs[i-1]) || i+1 < len(rs) && unicode.IsLower(rs[i+1])) {
				b.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
