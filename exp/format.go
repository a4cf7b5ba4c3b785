package exp

import (
	"strconv"
	"strings"

	"github.com/signadot/hyperlambda/ir"
)

// Format replaces the {N} placeholders of s with the value of the Nth
// empty-named child of holder. Expression values are evaluated from their
// own node and their results concatenated; string values with children are
// formatted recursively.
func Format(s string, holder *ir.Node) (string, error) {
	if holder == nil {
		return s, nil
	}
	i := 0
	for _, c := range holder.Children {
		if c.Name != "" {
			continue
		}
		ph := "{" + strconv.Itoa(i) + "}"
		i++
		if !strings.Contains(s, ph) {
			continue
		}
		v, err := formatValue(c)
		if err != nil {
			return "", err
		}
		s = strings.ReplaceAll(s, ph, v)
	}
	return s, nil
}

// FormatNode returns the value of n as a string, formatted with its
// children when it is a string.
func FormatNode(n *ir.Node) (string, error) {
	s, err := ir.ToString(n.Value)
	if err != nil {
		return "", err
	}
	if _, ok := n.Value.(string); !ok {
		return s, nil
	}
	return Format(s, n)
}

// HasFormat reports whether n holds a string with placeholders to fill
// from its children.
func HasFormat(n *ir.Node) bool {
	s, ok := n.Value.(string)
	return ok && n.Len() > 0 && placeholder.MatchString(s)
}

func formatValue(c *ir.Node) (string, error) {
	switch v := c.Value.(type) {
	case *Expression:
		m, err := v.Evaluate(c)
		if err != nil {
			return "", err
		}
		vals, err := m.Values()
		if err != nil {
			return "", err
		}
		var b strings.Builder
		for _, x := range vals {
			s, err := ir.ToString(x)
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		}
		return b.String(), nil
	case string:
		return FormatNode(c)
	}
	return ir.ToString(c.Value)
}
