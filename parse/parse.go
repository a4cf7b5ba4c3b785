package parse

import (
	"fmt"

	"github.com/signadot/hyperlambda/ir"
	"github.com/signadot/hyperlambda/token"
)

func init() {
	ir.SetDecoder(func(s string) (*ir.Node, error) {
		return Parse([]byte(s))
	})
}

// Parse parses d and returns a parent-less, nameless node whose children
// are the top level nodes of d.
func Parse(d []byte, opts ...ParseOption) (*ir.Node, error) {
	pOpts := &parseOpts{}
	for _, f := range opts {
		f(pOpts)
	}
	toks, err := token.Tokenize(nil, d)
	if err != nil {
		return nil, err
	}
	root := ir.New("", nil)
	// stack[i] is the last node parsed at depth i
	var stack []*ir.Node
	for len(toks) > 0 {
		end := 1
		for end < len(toks) && toks[end].Type != token.TIndent {
			end++
		}
		line := toks[:end]
		toks = toks[end:]

		indent := len(line[0].Bytes)
		if indent%2 != 0 || indent/2 > len(stack) {
			return nil, posErr(fmt.Errorf("%w: %d spaces", ErrIndent, indent), line[0].Pos)
		}
		depth := indent / 2
		n, err := parseLine(line[1:], pOpts)
		if err != nil {
			return nil, posErr(err, line[0].Pos)
		}
		parent := root
		if depth > 0 {
			parent = stack[depth-1]
		}
		parent.AddNode(n)
		stack = append(stack[:depth], n)
		if pOpts.positions != nil {
			pOpts.positions[n] = line[0].Pos
		}
	}
	return root, nil
}

// MustParse is Parse for literal documents known to be well formed.
func MustParse(s string) *ir.Node {
	n, err := Parse([]byte(s))
	if err != nil {
		panic(err)
	}
	return n
}

// parseLine builds the node of one line from the tokens following its
// indentation.
func parseLine(toks []token.Token, opts *parseOpts) (*ir.Node, error) {
	if len(toks) == 0 {
		return nil, ErrLine
	}
	n := ir.New("", nil)
	i := 0
	if toks[0].Type != token.TColon {
		name, err := toks[0].Text()
		if err != nil {
			return nil, err
		}
		n.Name = name
		i++
	}
	if i == len(toks) {
		return n, nil
	}
	if toks[i].Type != token.TColon {
		return nil, fmt.Errorf("%w: expected ':' after name %q", ErrLine, n.Name)
	}
	i++

	// segments between and after the remaining colons
	var (
		segs   []*token.Token
		colons int
	)
	segs = append(segs, nil)
	for ; i < len(toks); i++ {
		t := &toks[i]
		if t.Type == token.TColon {
			colons++
			segs = append(segs, nil)
			continue
		}
		if segs[colons] != nil {
			return nil, fmt.Errorf("%w: unexpected %s", ErrLine, t.Type)
		}
		segs[colons] = t
	}
	if colons > 1 {
		return nil, fmt.Errorf("%w: too many separators", ErrLine)
	}
	if colons == 0 {
		v, err := segText(segs[0])
		if err != nil {
			return nil, err
		}
		n.Value = v
		return n, nil
	}
	v, err := typedValue(segs[0], segs[1], opts)
	if err != nil {
		return nil, fmt.Errorf("%w: node %q: %w", ErrParse, n.Name, err)
	}
	n.Value = v
	return n, nil
}

func segText(t *token.Token) (string, error) {
	if t == nil {
		return "", nil
	}
	return t.Text()
}

func typedValue(typ, val *token.Token, opts *parseOpts) (any, error) {
	vs, err := segText(val)
	if err != nil {
		return nil, err
	}
	if typ == nil {
		return vs, nil
	}
	ts, err := typ.Text()
	if err != nil {
		return nil, err
	}
	if !typ.IsQuoted() && ir.LookupType(ts) != nil {
		return ir.ParseTyped(ts, vs)
	}
	if opts.strict {
		return nil, fmt.Errorf("%w: %q", ir.ErrUnknownType, ts)
	}
	// not a type: the line holds a string containing a colon
	return ts + ":" + vs, nil
}
