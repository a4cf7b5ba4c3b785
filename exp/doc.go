// Package exp compiles and evaluates lambda expressions.
//
// An expression is a chain of iterators separated by '/', evaluated
// starting from the node holding the expression:
//
//	..        the root of the tree
//	.         the parent
//	..name    the nearest ancestor named name
//	-N +N     the Nth previous or next sibling, N defaults to 1
//	*         all children
//	**        the node and all its descendants
//	N         the child at index N
//	name      children named name; \name and "name" escape iterator syntax
//	~text     children whose name contains text
//	=value    children whose value is value, =:type:value compares typed
//	          values and ="/re/flags" matches a regular expression
//	#         the node referenced by a node value
//	[a,b]     the results with index in [a,b)
//	%N        every Nth result
//	< >       the previous or next node in document order
//
// Chains combine with the operators '|' (union), '&' (intersection), '^'
// (symmetric difference) and '!' (difference), left to right, and may be
// grouped with parentheses; each operand of a group starts from the result
// preceding the group. Combined results are in document order with no
// duplicates.
//
// A trailing "?node", "?value", "?name", "?count" or "?path" selects how
// results are presented, and "?value.T" converts values to the registered
// type T. Placeholders {N} are replaced by the values of the empty-named
// children of the holding node before the expression is compiled.
//
// Importing the package registers the "x" value type, so "set:x:/-?value"
// reads as a node whose value is an expression.
package exp
