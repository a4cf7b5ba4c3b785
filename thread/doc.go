// Package thread provides the primitives behind fork, wait, lock and sleep:
// keyed re-entrant locks, groups of goroutines joined with a timeout, and
// cancellable sleeps.
package thread
