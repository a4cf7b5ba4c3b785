package encode

import (
	"strings"

	"github.com/signadot/hyperlambda/ir"

	"github.com/fatih/color"
)

type Colorable struct {
	// Type is a value type name, "" for names and plain strings.
	Type string
	Attr ColorAttr
}

type ColorAttr int

const (
	NameColor ColorAttr = iota
	SepColor
	TypeColor
	ValueColor
	QuotedColor
)

type Colors struct {
	Default func(string, ...any) string
	Map     map[Colorable]func(string, ...any) string
}

func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map:     map[Colorable]func(string, ...any) string{},
	}
	for _, t := range ir.Types() {
		able := Colorable{Type: t, Attr: TypeColor}
		colors.Map[able] = color.RGB(74, 92, 138).SprintfFunc()
		able.Attr = SepColor
		colors.Map[able] = color.RGB(255, 0, 196).SprintfFunc()
		able.Attr = ValueColor
		colors.Map[able] = color.RGB(128, 216, 236).SprintfFunc()
	}
	able := Colorable{Attr: NameColor}
	colors.Map[able] = color.RGB(128, 168, 196).SprintfFunc()
	able.Attr = SepColor
	colors.Map[able] = color.RGB(196, 128, 128).SprintfFunc()
	able.Attr = ValueColor
	colors.Map[able] = color.RGB(8, 196, 16).SprintfFunc()
	able.Attr = QuotedColor
	colors.Map[able] = color.RGB(88, 158, 86).SprintfFunc()

	able.Type = "bool"
	able.Attr = ValueColor
	colors.Map[able] = color.CyanString
	able.Type = "x"
	colors.Map[able] = color.RGB(198, 198, 46).SprintfFunc()
	able.Type = "node"
	colors.Map[able] = color.RGB(196, 168, 128).SprintfFunc()
	for k, f := range colors.Map {
		colors.Map[k] = func(v string, _ ...any) string {
			return f(strings.ReplaceAll(v, "%", "%%"))
		}
	}
	return colors
}

func colorDefault(v string, _ ...any) string { return v }

func (c *Colors) Color(t string, a ColorAttr, s string) string {
	return c.Get(t, a)(s)
}

func (c *Colors) Get(t string, a ColorAttr) func(string, ...any) string {
	f := c.Map[Colorable{Type: t, Attr: a}]
	if f == nil {
		return c.Default
	}
	return f
}
