package encode

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/signadot/hyperlambda/ir"
	"github.com/signadot/hyperlambda/token"
)

var ErrEncoding = errors.New("encoding error")

func init() {
	ir.SetEncoder(func(nodes []*ir.Node) (string, error) {
		var b strings.Builder
		if err := EncodeNodes(nodes, &b); err != nil {
			return "", err
		}
		return strings.TrimRight(b.String(), "\n"), nil
	})
}

type EncState struct {
	depth, indent int
	crlf          bool

	Color func(string, ColorAttr, string) string
}

func (es *EncState) color(t string, a ColorAttr, s string) string {
	if es.Color == nil {
		return s
	}
	return es.Color(t, a, s)
}

// Encode writes node and its descendants, one node per line.
func Encode(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	return EncodeNodes([]*ir.Node{node}, w, opts...)
}

// EncodeNodes writes nodes as sibling top level nodes.
func EncodeNodes(nodes []*ir.Node, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{indent: 2}
	for _, opt := range opts {
		opt(es)
	}
	for _, n := range nodes {
		if err := encode(n, w, es); err != nil {
			return err
		}
	}
	return nil
}

func encode(node *ir.Node, w io.Writer, es *EncState) error {
	line, err := encodeLine(node, es)
	if err != nil {
		return err
	}
	nl := "\n"
	if es.crlf {
		nl = "\r\n"
	}
	indent := strings.Repeat(" ", es.indent*es.depth)
	if _, err := io.WriteString(w, indent+line+nl); err != nil {
		return err
	}
	es.depth++
	defer func() { es.depth-- }()
	for _, c := range node.Children {
		if err := encode(c, w, es); err != nil {
			return err
		}
	}
	return nil
}

func encodeLine(node *ir.Node, es *EncState) (string, error) {
	var b strings.Builder
	name := node.Name
	switch {
	case name == "" && node.Value == nil:
		b.WriteString(es.color("", QuotedColor, `""`))
	case name == "":
	case token.NeedsQuote(name):
		b.WriteString(es.color("", QuotedColor, token.Quote(name)))
	default:
		b.WriteString(es.color("", NameColor, name))
	}
	if node.Value == nil {
		return b.String(), nil
	}
	b.WriteString(es.color("", SepColor, ":"))
	if s, ok := node.Value.(string); ok {
		if token.NeedsQuote(s) {
			b.WriteString(es.color("", QuotedColor, token.QuoteAuto(s)))
		} else {
			b.WriteString(es.color("", ValueColor, s))
		}
		return b.String(), nil
	}
	tn := ir.TypeName(node.Value)
	s, err := ir.ToString(node.Value)
	if err != nil {
		return "", fmt.Errorf("%w: value of %q: %w", ErrEncoding, node.Name, err)
	}
	if tn == "" {
		// no registered type: written as its string form
		b.WriteString(es.color("", QuotedColor, token.QuoteAuto(s)))
		return b.String(), nil
	}
	b.WriteString(es.color(tn, TypeColor, tn))
	b.WriteString(es.color(tn, SepColor, ":"))
	if token.NeedsQuoteTail(s) {
		s = token.QuoteAuto(s)
	}
	b.WriteString(es.color(tn, ValueColor, s))
	return b.String(), nil
}
