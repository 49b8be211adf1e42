// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sigtest

// caseAborted is the panic value which unwinds a case's setup, body or
// teardown to the runner after a non-passing result was recorded.
type caseAborted struct{}

// RunContext is the state of a run which assertions report to: the
// executing set and case, the hooks observing them and whether an
// abort is currently recoverable.
type RunContext struct {
	set   *TestSet
	tc    *TestCase
	hooks *Hooks

	// armed is true while a case's code executes under the runner's
	// recover.
	armed bool

	// catching counts nested ExpectException calls which silence the
	// OnError hook.
	catching int
}

// Set returns the executing set or nil.
func (rc *RunContext) Set() *TestSet {
	if rc == nil {
		return nil
	}
	return rc.set
}

// Case returns the executing case or nil.
func (rc *RunContext) Case() *TestCase {
	if rc == nil {
		return nil
	}
	return rc.tc
}

func (rc *RunContext) idle() bool { return rc == nil || rc.tc == nil }

// enter makes given case the executing case of given set.
func (rc *RunContext) enter(set *TestSet, tc *TestCase) {
	rc.set, rc.tc = set, tc
	set.current = tc
}

// leave clears the executing case.
func (rc *RunContext) leave() {
	if rc.set != nil {
		rc.set.current = nil
	}
	rc.tc = nil
}

// record stores given result at the executing case.  The first
// non-passing result of a case wins; a pass never overwrites a failure
// or skip.  A non-passing result aborts the executing code if the
// runner recovers it.  Without an executing case record is a no-op.
func (rc *RunContext) record(s State, msg string) {
	if rc.idle() {
		return
	}
	if rc.tc.Result.State != Pass {
		rc.abort(s)
		return
	}
	rc.tc.record(s, msg)
	if s == Fail && rc.catching == 0 && rc.hooks != nil &&
		rc.hooks.OnError != nil {
		rc.hooks.OnError(msg, rc.hooks.Context)
	}
	rc.abort(s)
}

func (rc *RunContext) abort(s State) {
	if s != Pass && rc.armed {
		panic(caseAborted{})
	}
}

// exec runs given function under the abort checkpoint and reports if
// it completed without an abort.  Panics other than an abort are
// propagated.
func (rc *RunContext) exec(fn func()) (completed bool) {
	if fn == nil {
		return true
	}
	armed := rc.armed
	rc.armed = true
	defer func() {
		rc.armed = armed
		if r := recover(); r != nil {
			if _, ok := r.(caseAborted); !ok {
				panic(r)
			}
			completed = false
		}
	}()
	fn()
	return true
}

// catch runs given function reporting if it panicked or aborted with a
// failure.  A failure recorded by fn is withdrawn while a skip is
// propagated.
func (rc *RunContext) catch(fn func()) (thrown bool) {
	if fn == nil {
		return false
	}
	before := rc.tc.Result
	rc.catching++
	defer func() {
		rc.catching--
		r := recover()
		if _, aborted := r.(caseAborted); r != nil && !aborted {
			thrown = true
			return
		}
		switch rc.tc.Result.State {
		case Skip:
			if r != nil {
				panic(r)
			}
		case Fail:
			if before.State == Pass {
				rc.tc.Result = before
				thrown = true
			}
		}
	}()
	fn()
	return false
}
