// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sigtest

import "golang.org/x/exp/slices"

// DefaultHooksName labels the hooks bundle every hook registry is
// created with.
const DefaultHooksName = "default"

// Hooks observes a run's lifecycle transitions.  Every callback is
// optional; a missing callback is replaced by the runner's default
// behavior for the respective transition if there is any.  Context is
// passed through to each callback unaltered.
//
// Callbacks must not call assertions, i.e. a case is never aborted
// from within a hook.
type Hooks struct {
	Name string

	BeforeSet func(set *TestSet, ctx any)
	AfterSet  func(set *TestSet, ctx any)

	BeforeTest  func(set *TestSet, tc *TestCase, ctx any)
	AfterTest   func(set *TestSet, tc *TestCase, ctx any)
	OnStartTest func(set *TestSet, tc *TestCase, ctx any)
	OnEndTest   func(set *TestSet, tc *TestCase, ctx any)

	// OnError is called with the message of each recorded failure.
	OnError func(msg string, ctx any)

	// OnTestResult is called with a case's reconciled result.
	OnTestResult func(set *TestSet, tc *TestCase, ctx any)

	Context any
}

// HookRegistry holds at most one hooks bundle per name.  Most recently
// registered bundles come first.
type HookRegistry struct {
	hooks []*Hooks
	dflt  *Hooks
}

// NewHookRegistry returns a hook registry with the default hooks
// installed.
func NewHookRegistry() *HookRegistry {
	r := &HookRegistry{dflt: DefaultHooks()}
	r.hooks = []*Hooks{r.dflt}
	return r
}

// Default returns the registry's default hooks.
func (r *HookRegistry) Default() *Hooks { return r.dflt }

// Lookup returns the hooks bundle registered under given name.
func (r *HookRegistry) Lookup(name string) (*Hooks, bool) {
	idx := r.index(name)
	if idx < 0 {
		return nil, false
	}
	return r.hooks[idx], true
}

// InitOrGet returns the hooks bundle registered under given name and
// creates an empty one if there is none.
func (r *HookRegistry) InitOrGet(name string) *Hooks {
	if h, ok := r.Lookup(name); ok {
		return h
	}
	h := &Hooks{Name: name}
	r.hooks = slices.Insert(r.hooks, 0, h)
	return h
}

// Register prepends given bundle replacing a different bundle of the
// same name.  A bundle named DefaultHooksName becomes the registry's
// default hooks.
func (r *HookRegistry) Register(h *Hooks) {
	if idx := r.index(h.Name); idx >= 0 {
		r.hooks = slices.Delete(r.hooks, idx, idx+1)
	}
	r.hooks = slices.Insert(r.hooks, 0, h)
	if h.Name == DefaultHooksName {
		r.dflt = h
	}
}

// All returns the registered bundles, most recently registered first.
func (r *HookRegistry) All() []*Hooks { return slices.Clone(r.hooks) }

func (r *HookRegistry) index(name string) int {
	return slices.IndexFunc(r.hooks, func(h *Hooks) bool {
		return h.Name == name
	})
}

// resolve returns the hooks observing given set's run: explicit run
// hooks take precedence over the set's hooks which take precedence
// over the default hooks.
func (r *HookRegistry) resolve(override *Hooks, set *TestSet) *Hooks {
	switch {
	case override != nil:
		return override
	case set.Hooks != nil:
		return set.Hooks
	default:
		return r.dflt
	}
}
