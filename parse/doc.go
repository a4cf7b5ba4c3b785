// Package parse reads hyperlambda text into node trees.
//
// Each line holds one node, written as
//
//	name
//	name:value
//	name:type:value
//
// and indented two spaces per level below its parent. The middle segment is
// a type only when it names a registered value type; otherwise the line
// holds a plain string which may contain colons.
//
// Importing the package installs [Parse] as the decoder used by ir to
// convert strings into nodes.
package parse
