// Package event holds the registry of named events and the context through
// which they are raised.
//
// An event name resolves, in order, to a keyword, to the supers overriding
// it, or to its native handlers followed by its lambda handlers. Lambda
// handlers are trees executed by the context's Evaluator on a detached root
// holding the arguments, so that "/.." inside a handler is its own
// invocation. Protection levels keep closed events from being redeclared,
// overridden or removed by lambda code.
package event
