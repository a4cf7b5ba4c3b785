// Package libdiff computes, applies and reverses differences between
// lambda trees.
//
// A diff is a node whose children are operations on a list of sibling
// nodes, applied in order:
//
//	insert:int:1
//	  b:2
//	delete:int:3
//	  c
//	replace:int:3
//	  from
//	    d
//	  to
//	    e
//	change:int:4
//	  value
//	    from:1
//	    to:2
//	  children
//	    ...
//
// The index of an operation is the position it applies at in the list
// being patched, after all previous operations have been applied. Multi-line
// string values are changed by a text patch held in a text child instead of
// a value child.
package libdiff
