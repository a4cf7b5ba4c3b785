package exp

import (
	"fmt"

	"github.com/signadot/hyperlambda/ir"
)

// Match is the result of evaluating an expression: the matched nodes in
// order and how they are presented.
type Match struct {
	Kind  Kind
	Cast  string
	Nodes []*ir.Node
}

// Count is the number of matched nodes.
func (m *Match) Count() int {
	return len(m.Nodes)
}

// Values presents the matched nodes according to the kind of the match.
// Node matches are presented as references to the living nodes and a count
// match yields a single integer.
func (m *Match) Values() ([]any, error) {
	if m.Kind == KindCount {
		return []any{len(m.Nodes)}, nil
	}
	res := make([]any, 0, len(m.Nodes))
	for i := range m.Nodes {
		v, err := m.Entity(i).Value()
		if err != nil {
			return nil, err
		}
		res = append(res, v)
	}
	return res, nil
}

// Entity returns the i-th matched node as a settable entity.
func (m *Match) Entity(i int) Entity {
	return Entity{Node: m.Nodes[i], Kind: m.Kind, Cast: m.Cast}
}

// Entity is one matched node, read and written through the match kind.
type Entity struct {
	Node *ir.Node
	Kind Kind
	Cast string
}

func (e Entity) Value() (any, error) {
	var v any
	switch e.Kind {
	case KindNode:
		return ir.Ref{N: e.Node}, nil
	case KindValue:
		v = e.Node.Value
	case KindName:
		v = e.Node.Name
	case KindCount:
		return 1, nil
	case KindPath:
		v = e.Node.Path()
	}
	if e.Cast == "" || v == nil {
		return v, nil
	}
	return ir.ConvertNamed(v, e.Cast)
}

// Set assigns v to the matched slot. Setting a node match to nil removes
// the node; any other value gives the node the name, value and children of
// a copy of the node described by v.
func (e Entity) Set(v any) error {
	switch e.Kind {
	case KindValue:
		if e.Cast != "" && v != nil {
			cv, err := ir.ConvertNamed(v, e.Cast)
			if err != nil {
				return err
			}
			v = cv
		}
		e.Node.Value = v
		return nil
	case KindName:
		s, err := ir.ToString(v)
		if err != nil {
			return err
		}
		e.Node.Name = s
		return nil
	case KindNode:
		if v == nil {
			e.Node.Untie()
			return nil
		}
		src, err := SourceNode(v)
		if err != nil {
			return err
		}
		e.Node.Become(src)
		return nil
	}
	return fmt.Errorf("%w: cannot assign to %s", ErrReadOnly, e.Kind)
}

// SourceNode converts v into a single detached node. Living nodes are
// copied and strings are parsed; a string must describe exactly one node.
func SourceNode(v any) (*ir.Node, error) {
	switch x := v.(type) {
	case *ir.Node:
		return x.Clone(), nil
	case ir.Ref:
		return x.N.Clone(), nil
	}
	n, err := ir.ToNode(v)
	if err != nil {
		return nil, err
	}
	if n.Len() != 1 {
		return nil, fmt.Errorf("%w: expected a single node, got %d", ErrSource, n.Len())
	}
	return n.Children[0].Untie(), nil
}

// SourceNodes converts v into detached nodes to add somewhere. Living
// nodes are copied, strings are parsed into their top level nodes, and any
// other value becomes an anonymous node holding it.
func SourceNodes(v any) ([]*ir.Node, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case *ir.Node:
		return []*ir.Node{x.Clone()}, nil
	case ir.Ref:
		return []*ir.Node{x.N.Clone()}, nil
	case string:
		n, err := ir.ToNode(x)
		if err != nil {
			return nil, err
		}
		res := make([]*ir.Node, 0, n.Len())
		for n.Len() > 0 {
			res = append(res, n.Children[0].Untie())
		}
		return res, nil
	}
	return []*ir.Node{ir.New("", v)}, nil
}
