package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Path returns an absolute expression selecting n: the root iterator
// followed by the child index at every level.
func (n *Node) Path() string {
	idx := n.indexPath()
	var b strings.Builder
	b.WriteString("/..")
	for _, i := range idx {
		b.WriteByte('/')
		b.WriteString(strconv.Itoa(i))
	}
	return b.String()
}

// GetPath resolves a path as produced by Path against the tree of n.
func (n *Node) GetPath(p string) (*Node, error) {
	rest, ok := strings.CutPrefix(p, "/..")
	if !ok {
		return nil, fmt.Errorf("%w: %q should start with \"/..\"", ErrPath, p)
	}
	res := n.Root()
	if rest == "" {
		return res, nil
	}
	if rest[0] != '/' {
		return nil, fmt.Errorf("%w: expected '/' in %q", ErrPath, p)
	}
	for _, frag := range strings.Split(rest[1:], "/") {
		i, err := strconv.Atoi(frag)
		if err != nil {
			return nil, fmt.Errorf("%w: index %q: %w", ErrPath, frag, err)
		}
		if i < 0 || i >= len(res.Children) {
			return nil, fmt.Errorf("%w: index out of bounds %d (len %d)", ErrPath, i, len(res.Children))
		}
		res = res.Children[i]
	}
	return res, nil
}
