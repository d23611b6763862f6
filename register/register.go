// Package register implements the host evaluator's global name scope
// (spec.md §4.3): a registry mapping names to Pattern constructors and
// combinators, plus registered sound names that resolve to a no-arg
// pattern setting value.s = name. It does not itself embed a scripting
// language — it hands the host's expression evaluator a lookup table and
// verifies whatever comes back is a Pattern.
package register

import (
	"fmt"
	"sync"

	"strudel-go/pattern"
)

// Func is what the global scope binds a name to: a callable taking
// already-evaluated arguments and returning a Pattern. Hosts
// embedding a real scripting language (Lua, a tiny Scheme, JS via a Go VM)
// adapt their call convention into this shape at the binding site.
type Func func(args []pattern.Pattern) (pattern.Pattern, error)

// Scope is a global name table: constructors/combinators from §4.1 plus
// dynamically registered sound names.
type Scope struct {
	mu       sync.RWMutex
	funcs    map[string]Func
	sounds   map[string]bool
	reifier  func(string) (pattern.Pattern, error)
}

// NewScope builds a scope pre-populated with the core combinator set.
func NewScope() *Scope {
	s := &Scope{funcs: map[string]Func{}, sounds: map[string]bool{}}
	s.registerCore()
	return s
}

// SetStringReifier installs the hook that turns a bare string literal
// seen by the host evaluator into a parsed mini-notation pattern
// (spec.md §6(c)).
func (s *Scope) SetStringReifier(f func(string) (pattern.Pattern, error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reifier = f
}

// Reify runs the registered string reifier, or returns an error if none
// is installed.
func (s *Scope) Reify(src string) (pattern.Pattern, error) {
	s.mu.RLock()
	r := s.reifier
	s.mu.RUnlock()
	if r == nil {
		return pattern.Silence, fmt.Errorf("register: no string reifier installed")
	}
	return r(src)
}

// RegisterSound adds name as a recognized sample/FX name: calling it with
// no arguments in host source yields pure({s: name}).
func (s *Scope) RegisterSound(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sounds[name] = true
}

// RegisterFunc binds name to an arbitrary combinator. Overwrites any
// existing binding for name, mirroring the core set's own layout (later
// registrations shadow earlier ones, e.g. a host customizing a builtin).
func (s *Scope) RegisterFunc(name string, f Func) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.funcs[name] = f
}

// Lookup resolves name to a callable. Sound names resolve to a Func that
// ignores its arguments and returns pure({s: name}).
func (s *Scope) Lookup(name string) (Func, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if f, ok := s.funcs[name]; ok {
		return f, true
	}
	if s.sounds[name] {
		return func([]pattern.Pattern) (pattern.Pattern, error) {
			return pattern.Pure(pattern.MapValue(map[string]pattern.Value{"s": pattern.StringValue(name)})), nil
		}, true
	}
	return nil, false
}

// Evaluate resolves name and calls it with args, verifying a Pattern
// comes back — the core of spec.md §4.3's evaluate() contract. Hosts that
// embed a real expression language call Lookup/Reify directly from their
// own AST walker instead; Evaluate is the convenience path for the common
// "a single named combinator call" case. The CLI does not use it: its
// commands lower mini-notation with mini.Eval.
func (s *Scope) Evaluate(name string, args []pattern.Pattern) (pattern.Pattern, error) {
	f, ok := s.Lookup(name)
	if !ok {
		return pattern.Silence, fmt.Errorf("register: unknown name %q", name)
	}
	p, err := f(args)
	if err != nil {
		pattern.Report(pattern.Diagnostic{Kind: pattern.KindEvalError, Message: err.Error()})
		return pattern.Silence, err
	}
	return p, nil
}
