package exp

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/signadot/hyperlambda/debug"
	"github.com/signadot/hyperlambda/ir"
	"github.com/signadot/hyperlambda/token"
)

func init() {
	ir.RegisterType(&ir.Type{
		Name: "x",
		Parse: func(s string) (any, error) {
			return Parse(s)
		},
		Format: func(v any) (string, error) {
			return v.(*Expression).String(), nil
		},
	}, &Expression{})
}

// Kind is the presentation of an expression's results.
type Kind int

const (
	KindNode Kind = iota
	KindValue
	KindName
	KindCount
	KindPath
)

var kindNames = map[string]Kind{
	"node":  KindNode,
	"value": KindValue,
	"name":  KindName,
	"count": KindCount,
	"path":  KindPath,
}

func (k Kind) String() string {
	for s, v := range kindNames {
		if v == k {
			return s
		}
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Expression is a compiled expression. It is immutable and may be
// evaluated any number of times, from any node, concurrently.
type Expression struct {
	src  string
	kind Kind
	cast string
	// nil when the expression has formatting placeholders, in which case
	// it is compiled at each evaluation
	root *group
}

var placeholder = regexp.MustCompile(`\{[0-9]+\}`)

// Parse compiles s.
func Parse(s string) (*Expression, error) {
	e := &Expression{src: s}
	if placeholder.MatchString(s) {
		// check the type suffix now, the iterators once formatted
		_, kind, cast, err := compile(placeholder.ReplaceAllString(s, "_"))
		if err != nil {
			return nil, err
		}
		e.kind, e.cast = kind, cast
		return e, nil
	}
	root, kind, cast, err := compile(s)
	if err != nil {
		return nil, err
	}
	e.root, e.kind, e.cast = root, kind, cast
	return e, nil
}

func MustParse(s string) *Expression {
	e, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return e
}

func (e *Expression) String() string { return e.src }
func (e *Expression) Kind() Kind     { return e.kind }
func (e *Expression) Cast() string   { return e.cast }

// Lazy reports whether e has formatting placeholders.
func (e *Expression) Lazy() bool { return e.root == nil }

// Evaluate evaluates e starting from n, formatting with the children of n.
func (e *Expression) Evaluate(n *ir.Node) (*Match, error) {
	return e.Eval(n, n)
}

// Eval evaluates e starting from start. Formatting placeholders are
// resolved with the empty-named children of holder.
func (e *Expression) Eval(start, holder *ir.Node) (*Match, error) {
	root := e.root
	if root == nil {
		src, err := Format(e.src, holder)
		if err != nil {
			return nil, err
		}
		root, _, _, err = compile(src)
		if err != nil {
			return nil, err
		}
	}
	nodes := root.eval([]*ir.Node{start})
	if debug.Expr() {
		debug.Logf("expr %s from %q: %d matches", e.src, start.Name, len(nodes))
	}
	return &Match{Kind: e.kind, Cast: e.cast, Nodes: nodes}, nil
}

// segment is a run of adjacent non operator tokens.
type segment struct {
	text   string
	quoted bool
}

func compile(src string) (*group, Kind, string, error) {
	kind, cast := KindNode, ""
	root := newGroup(nil)
	if strings.TrimSpace(src) == "" {
		return root, kind, cast, nil
	}
	toks, err := token.TokenizeExpr(src)
	if err != nil {
		return nil, 0, "", &Error{Expr: src, Err: err}
	}
	if t := toks[0].Type; t != token.TSlash && t != token.TQuestion {
		return nil, 0, "", syntaxErr(src, "expected '/' or '?' at start")
	}
	cur := root
	var prev token.TokenType = -1
	for i := 0; i < len(toks); i++ {
		t := &toks[i]
		if t.IsOp() {
			// a separator directly followed by another separator or an
			// operator selects children with an empty name
			if prev == token.TSlash && emptyNameFollows(t.Type) {
				cur.add(namedIter(""))
			}
			switch t.Type {
			case token.TQuestion:
				seg, _, err := readSegment(toks[i+1:])
				if err != nil {
					return nil, 0, "", &Error{Expr: src, Err: err}
				}
				kind, cast, err = parseKind(src, seg.text)
				if err != nil {
					return nil, 0, "", err
				}
				return finish(src, cur, kind, cast)
			case token.TLParen:
				g := newGroup(cur)
				cur.add(g)
				cur = g
			case token.TRParen:
				if cur.parent == nil {
					return nil, 0, "", syntaxErr(src, "unmatched ')'")
				}
				cur = cur.parent
			case token.TPipe:
				cur.addLogical(opOr)
			case token.TAmp:
				cur.addLogical(opAnd)
			case token.TCaret:
				cur.addLogical(opXor)
			case token.TBang:
				cur.addLogical(opNot)
			}
			prev = t.Type
			continue
		}
		seg, n, err := readSegment(toks[i:])
		if err != nil {
			return nil, 0, "", &Error{Expr: src, Err: err}
		}
		i += n - 1
		it, err := newIterator(src, seg)
		if err != nil {
			return nil, 0, "", err
		}
		cur.add(it)
		prev = token.TLiteral
	}
	return finish(src, cur, kind, cast)
}

func emptyNameFollows(t token.TokenType) bool {
	switch t {
	case token.TSlash, token.TPipe, token.TAmp, token.TCaret, token.TBang, token.TRParen:
		return true
	}
	return false
}

func finish(src string, cur *group, kind Kind, cast string) (*group, Kind, string, error) {
	if cur.parent != nil {
		return nil, 0, "", syntaxErr(src, "unclosed '('")
	}
	return cur, kind, cast, nil
}

// readSegment joins the leading non operator tokens of toks.
func readSegment(toks []token.Token) (segment, int, error) {
	var (
		b   strings.Builder
		seg segment
		n   int
	)
	for n < len(toks) && !toks[n].IsOp() {
		s, err := toks[n].Text()
		if err != nil {
			return seg, 0, err
		}
		b.WriteString(s)
		n++
	}
	seg.text = b.String()
	seg.quoted = n == 1 && toks[0].IsQuoted()
	return seg, n, nil
}

func parseKind(src, s string) (Kind, string, error) {
	name, cast, _ := strings.Cut(s, ".")
	k, ok := kindNames[name]
	if !ok {
		return 0, "", syntaxErr(src, "unknown type %q", s)
	}
	if cast != "" && ir.LookupType(cast) == nil {
		return 0, "", syntaxErr(src, "unknown conversion %q", cast)
	}
	return k, cast, nil
}

func newIterator(src string, seg segment) (iterator, error) {
	s := seg.text
	if seg.quoted {
		return namedIter(s), nil
	}
	switch s {
	case "..":
		return rootIter(), nil
	case ".":
		return parentIter(), nil
	case "*":
		return childrenIter(), nil
	case "**":
		return descendantsIter(), nil
	case "#":
		return refIter(), nil
	case "<":
		return shiftLeftIter(), nil
	case ">":
		return shiftRightIter(), nil
	case "":
		return namedIter(""), nil
	}
	switch {
	case s[0] == '\\':
		return namedIter(s[1:]), nil
	case s[0] == '=':
		return valueIterator(src, s[1:])
	case s[0] == '[':
		return rangeIterator(src, s)
	case strings.HasPrefix(s, ".."):
		return namedAncestorIter(s[2:]), nil
	case s[0] == '%':
		m, err := strconv.Atoi(s[1:])
		if err != nil || m <= 0 {
			return nil, syntaxErr(src, "bad modulo %q", s)
		}
		return moduloIter(m), nil
	case s[0] == '-' || s[0] == '+':
		off := 1
		if len(s) > 1 {
			var err error
			off, err = strconv.Atoi(s[1:])
			if err != nil {
				return nil, syntaxErr(src, "bad sibling offset %q", s)
			}
		}
		if s[0] == '-' {
			off = -off
		}
		return siblingIter(off), nil
	case s[0] == '~':
		return containsIter(s[1:]), nil
	case isNumber(s):
		i, err := strconv.Atoi(s)
		if err != nil {
			return nil, syntaxErr(src, "bad index %q", s)
		}
		return numberedIter(i), nil
	}
	return namedIter(s), nil
}

func isNumber(s string) bool {
	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

// valueIterator handles "=value", "=:type:value" and "=/regex/flags".
func valueIterator(src, s string) (iterator, error) {
	if typ, rest, ok := strings.Cut(strings.TrimPrefix(s, ":"), ":"); ok && s != "" && s[0] == ':' {
		v, err := ir.ParseTyped(typ, rest)
		if err != nil {
			return nil, &Error{Expr: src, Err: err}
		}
		return valuedIter(v, typ != "" && typ != "string"), nil
	}
	if len(s) > 1 && s[0] == '/' {
		if end := strings.LastIndexByte(s, '/'); end > 0 {
			re, err := compileRegex(s[1:end], s[end+1:])
			if err != nil {
				return nil, &Error{Expr: src, Err: err}
			}
			return valuedRegexIter(re), nil
		}
	}
	return valuedIter(s, false), nil
}

func compileRegex(pat, flags string) (*regexp.Regexp, error) {
	var fl strings.Builder
	for _, f := range flags {
		switch f {
		case 'i', 'm', 's':
			fl.WriteRune(f)
		}
	}
	if fl.Len() > 0 {
		pat = "(?" + fl.String() + ")" + pat
	}
	return regexp.Compile(pat)
}

func rangeIterator(src, s string) (iterator, error) {
	if !strings.HasSuffix(s, "]") {
		return nil, syntaxErr(src, "range %q has no ']'", s)
	}
	a, b, ok := strings.Cut(s[1:len(s)-1], ",")
	if !ok {
		return nil, syntaxErr(src, "range %q needs ','", s)
	}
	r := rangeIter{from: -1, to: -1}
	var err error
	if a = strings.TrimSpace(a); a != "" {
		if r.from, err = strconv.Atoi(a); err != nil {
			return nil, syntaxErr(src, "bad range start %q", a)
		}
	}
	if b = strings.TrimSpace(b); b != "" {
		if r.to, err = strconv.Atoi(b); err != nil {
			return nil, syntaxErr(src, "bad range end %q", b)
		}
		if r.to <= r.from {
			return nil, syntaxErr(src, "range end must be larger than start")
		}
	}
	return r, nil
}
