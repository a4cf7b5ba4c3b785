package event

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/signadot/hyperlambda/debug"
	"github.com/signadot/hyperlambda/ir"
)

// Protection controls whether lambda code may redeclare, override or remove
// an event.
type Protection int

const (
	NativeOpen Protection = iota
	NativeClosed
	LambdaOpen
	LambdaClosed
)

func (p Protection) Closed() bool {
	return p == NativeClosed || p == LambdaClosed
}

func (p Protection) String() string {
	switch p {
	case NativeOpen:
		return "native-open"
	case NativeClosed:
		return "native-closed"
	case LambdaOpen:
		return "lambda-open"
	case LambdaClosed:
		return "lambda-closed"
	}
	return fmt.Sprintf("Protection(%d)", int(p))
}

// Func is a native handler or keyword. args is the invocation node: its
// value and children are the arguments, and results are left there.
type Func func(ctx *Context, args *ir.Node) error

type native struct {
	f    Func
	prot Protection
}

type lambda struct {
	body *ir.Node
	prot Protection
}

// Change describes a lambda handler update. Bodies is nil when the handlers
// of Name were removed.
type Change struct {
	Name   string
	Bodies []*ir.Node
	Prot   Protection
}

// Registry maps event names to handlers. It is safe for concurrent use and
// is shared by a context and all contexts forked from it.
type Registry struct {
	mu        sync.RWMutex
	keywords  map[string]Func
	natives   map[string][]native
	lambdas   map[string][]lambda
	overrides map[string][]string
	watchers  []func(Change)
}

func NewRegistry() *Registry {
	return &Registry{
		keywords:  map[string]Func{},
		natives:   map[string][]native{},
		lambdas:   map[string][]lambda{},
		overrides: map[string][]string{},
	}
}

// Keyword registers an interpreter keyword. Keywords are resolved before
// any event and can be neither overridden nor redeclared.
func (r *Registry) Keyword(name string, f Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keywords[name] = f
}

// Native adds a Go handler for name. prot must be NativeOpen or
// NativeClosed.
func (r *Registry) Native(name string, f Func, prot Protection) {
	if prot != NativeClosed {
		prot = NativeOpen
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.natives[name] = append(r.natives[name], native{f: f, prot: prot})
}

// Watch registers f to be called after every change of lambda handlers.
func (r *Registry) Watch(f func(Change)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watchers = append(r.watchers, f)
}

// closedLocked reports why name may not be changed by lambda code, if so.
func (r *Registry) closedLocked(name string) string {
	if _, ok := r.keywords[name]; ok {
		return "keywords cannot be changed"
	}
	for _, n := range r.natives[name] {
		if n.prot.Closed() {
			return "native handler is closed"
		}
	}
	for _, l := range r.lambdas[name] {
		if l.prot.Closed() {
			return "lambda handler is closed"
		}
	}
	return ""
}

// SetLambda replaces the lambda handlers of name with copies of bodies.
// prot must be LambdaOpen or LambdaClosed.
func (r *Registry) SetLambda(name string, bodies []*ir.Node, prot Protection) error {
	if prot != LambdaClosed {
		prot = LambdaOpen
	}
	r.mu.Lock()
	if msg := r.closedLocked(name); msg != "" {
		r.mu.Unlock()
		return &SecurityError{Msg: msg, Name: name}
	}
	ls := make([]lambda, len(bodies))
	stored := make([]*ir.Node, len(bodies))
	for i, b := range bodies {
		ls[i] = lambda{body: b.Clone(), prot: prot}
		stored[i] = ls[i].body
	}
	r.lambdas[name] = ls
	ws := slices.Clone(r.watchers)
	r.mu.Unlock()
	if debug.Event() {
		debug.Logf("set event %q (%d bodies, %s)", name, len(bodies), prot)
	}
	notify(ws, Change{Name: name, Bodies: stored, Prot: prot})
	return nil
}

// RemoveLambda deletes the lambda handlers of name. It reports whether
// there were any.
func (r *Registry) RemoveLambda(name string) (bool, error) {
	r.mu.Lock()
	ls, ok := r.lambdas[name]
	if !ok {
		r.mu.Unlock()
		return false, nil
	}
	for _, l := range ls {
		if l.prot.Closed() {
			r.mu.Unlock()
			return false, &SecurityError{Msg: "lambda handler is closed", Name: name}
		}
	}
	delete(r.lambdas, name)
	ws := slices.Clone(r.watchers)
	r.mu.Unlock()
	notify(ws, Change{Name: name})
	return true, nil
}

func notify(ws []func(Change), c Change) {
	for _, w := range ws {
		w(c)
	}
}

// Override makes raising base invoke super instead. Registering the same
// pair twice invokes super twice.
func (r *Registry) Override(base, super string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if msg := r.closedLocked(base); msg != "" {
		return &SecurityError{Msg: msg, Name: base}
	}
	r.overrides[base] = append(r.overrides[base], super)
	return nil
}

// RemoveOverride removes one registration of the pair base, super wherever
// it is in the list of supers of base.
func (r *Registry) RemoveOverride(base, super string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if msg := r.closedLocked(base); msg != "" {
		return &SecurityError{Msg: msg, Name: base}
	}
	supers := r.overrides[base]
	i := slices.Index(supers, super)
	if i == -1 {
		return nil
	}
	supers = slices.Delete(slices.Clone(supers), i, i+1)
	if len(supers) == 0 {
		delete(r.overrides, base)
	} else {
		r.overrides[base] = supers
	}
	return nil
}

// Supers returns the events overriding base, in registration order.
func (r *Registry) Supers(base string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.overrides[base])
}

// Overrides returns a copy of the override map.
func (r *Registry) Overrides() map[string][]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make(map[string][]string, len(r.overrides))
	for k, v := range r.overrides {
		res[k] = slices.Clone(v)
	}
	return res
}

// IsKeyword reports whether name is a keyword.
func (r *Registry) IsKeyword(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.keywords[name]
	return ok
}

func (r *Registry) keyword(name string) Func {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.keywords[name]
}

// handlers returns the natives and lambda bodies of name. Bodies are shared
// with the registry and must not be modified.
func (r *Registry) handlers(name string) ([]Func, []*ir.Node) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var fs []Func
	for _, n := range r.natives[name] {
		fs = append(fs, n.f)
	}
	var bs []*ir.Node
	for _, l := range r.lambdas[name] {
		bs = append(bs, l.body)
	}
	return fs, bs
}

// Lambda returns copies of the lambda handler bodies of name.
func (r *Registry) Lambda(name string) []*ir.Node {
	_, bs := r.handlers(name)
	res := make([]*ir.Node, len(bs))
	for i, b := range bs {
		res[i] = b.Clone()
	}
	return res
}

// Protection returns the strictest protection of the handlers of name and
// whether there are any.
func (r *Registry) Protection(name string) (Protection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.keywords[name]; ok {
		return NativeClosed, true
	}
	var (
		res   Protection
		found bool
	)
	see := func(p Protection) {
		if !found || (p.Closed() && !res.Closed()) {
			res = p
		}
		found = true
	}
	for _, n := range r.natives[name] {
		see(n.prot)
	}
	for _, l := range r.lambdas[name] {
		see(l.prot)
	}
	return res, found
}

// Names returns the sorted names of native and lambda events containing
// any of filters, or all of them when there is no filter.
func (r *Registry) Names(filters ...string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := map[string]bool{}
	for k := range r.natives {
		set[k] = true
	}
	for k := range r.lambdas {
		set[k] = true
	}
	return filterNames(set, filters)
}

// NativeNames returns the sorted names of events with native handlers.
func (r *Registry) NativeNames(filters ...string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := map[string]bool{}
	for k := range r.natives {
		set[k] = true
	}
	return filterNames(set, filters)
}

// LambdaNames returns the sorted names of events with lambda handlers.
func (r *Registry) LambdaNames(filters ...string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := map[string]bool{}
	for k := range r.lambdas {
		set[k] = true
	}
	return filterNames(set, filters)
}

// Keywords returns the sorted keyword names.
func (r *Registry) Keywords() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.keywords))
}

func filterNames(set map[string]bool, filters []string) []string {
	var res []string
	for k := range set {
		if len(filters) == 0 || slices.ContainsFunc(filters, func(f string) bool {
			return strings.Contains(k, f)
		}) {
			res = append(res, k)
		}
	}
	slices.Sort(res)
	return res
}
