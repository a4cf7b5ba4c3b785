package libdiff

import (
	"fmt"
	"strings"

	"github.com/signadot/hyperlambda/ir"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Diff returns the operations turning the children of from into the
// children of to, or nil when they are the same.
func Diff(from, to *ir.Node) *ir.Node {
	d := DiffChildren(from.Children, to.Children)
	if d == nil {
		return nil
	}
	d.Name = "diff"
	return d
}

// DiffChildren diffs two lists of sibling nodes by index.
//
// Each node is summarized by its name, type and value. The summary
// sequences are diffed, nodes with equal summaries are diffed recursively,
// and a deleted node directly followed by an inserted one becomes a change
// when they have the same name or a replacement otherwise.
func DiffChildren(from, to []*ir.Node) *ir.Node {
	m := map[string]rune{}
	fromRunes := summarize(m, from)
	toRunes := summarize(m, to)
	diffs := diffpatch.New().DiffMainRunes(fromRunes, toRunes, false)

	res := ir.New(childrenKey, nil)
	fi, ti := 0, 0
	dels, ins := 0, 0
	flush := func() {
		n := min(dels, ins)
		for j := range n {
			if op := MakeDiff(from[fi+j], to[ti+j], ti+j); op != nil {
				res.AddNode(op)
			}
		}
		for j := n; j < dels; j++ {
			res.AddNode(MakeDiff(from[fi+j], nil, ti+n))
		}
		for j := n; j < ins; j++ {
			res.AddNode(MakeDiff(nil, to[ti+j], ti+j))
		}
		fi += dels
		ti += ins
		dels, ins = 0, 0
	}
	for i := range diffs {
		diff := &diffs[i]
		k := len([]rune(diff.Text))
		switch diff.Type {
		case diffpatch.DiffDelete:
			dels += k
		case diffpatch.DiffInsert:
			ins += k
		case diffpatch.DiffEqual:
			flush()
			for range k {
				if op := MakeDiff(from[fi], to[ti], ti); op != nil {
					res.AddNode(op)
				}
				fi++
				ti++
			}
		}
	}
	flush()
	if res.Len() == 0 {
		return nil
	}
	return res
}

func summarize(m map[string]rune, nodes []*ir.Node) []rune {
	rs := make([]rune, len(nodes))
	for i, n := range nodes {
		sum := summary(n)
		r, ok := m[sum]
		if !ok {
			r = rune(len(m))
			m[sum] = r
		}
		rs[i] = r
	}
	return rs
}

func summary(n *ir.Node) string {
	var v string
	switch x := n.Value.(type) {
	case nil:
		v = "null"
	case ir.Ref:
		v = fmt.Sprintf("ref-%p", x.N)
	case string:
		if multiLine(x) {
			v = "s/m"
		} else {
			v = "s-" + x
		}
	default:
		v = ir.TypeName(x) + "-" + ir.MustString(x)
	}
	return n.Name + "\x00" + v
}

func multiLine(s string) bool {
	return strings.Contains(s, "\n")
}
