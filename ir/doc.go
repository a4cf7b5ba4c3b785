// Package ir provides the node tree which is both the data and the code of
// hyperlambda programs.
//
// # Overview
//
// Every program, every argument passed to an event and every piece of data is
// a tree of [Node] values. A node has a name, a dynamically typed value, an
// ordered list of children and a back link to its parent. The parent link is
// not an ownership edge: it is used to resolve relative expressions and to
// find the root of a tree, and it is never serialized.
//
// # Values
//
// A node value is one of
//
//   - nil
//   - string, bool, int, int64, float32, float64
//   - *apd.Decimal
//   - time.Time and time.Duration
//   - uuid.UUID
//   - []byte
//   - *Node, an owned nested tree which is cloned along with its holder
//   - [Ref], a non-owning reference to a living node, which is aliased by
//     [Node.Clone]
//   - any other type registered with [RegisterType], for instance the
//     compiled expressions of package exp
//
// Each value type has a text type name (int, long, decimal, date, ...) which
// the text codec writes between the name and the value of a node.
//
// # Conversion
//
// [Convert] and [Get] convert values through the type registry. Strings
// convert to nodes by parsing them as hyperlambda, and nodes convert to strings
// by encoding them. The text codec is installed by packages parse and encode
// through [SetDecoder] and [SetEncoder].
//
// # Structure
//
// Re-parenting a node with [Node.AddNode] or [Node.Insert] un-ties it from its
// previous parent, so a node belongs to at most one parent at a time. Child
// order is insertion order. [Node.Clone] produces a deep, parent-less copy.
package ir
