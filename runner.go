// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sigtest

import (
	"fmt"
	"strings"

	"github.com/slukits/ints"
	"golang.org/x/exp/slices"
)

// Summary aggregates the counters of a run over all sets.
type Summary struct {
	Sets, Total, Passed, Failed, Skipped int

	failed *ints.Set
}

// SetFailed reports if the set with given registration index had a
// failing case.
func (s Summary) SetFailed(idx int) bool {
	return s.failed != nil && s.failed.Has(idx)
}

// FailedSets returns the ascending registration indices of the sets
// with a failing case.
func (s Summary) FailedSets() []int {
	if s.failed == nil {
		return nil
	}
	return s.failed.ToSlice()
}

func (s Summary) String() string {
	return fmt.Sprintf("Tests run: %d, Passed: %d, Failed: %d, Skipped: %d",
		s.Total, s.Passed, s.Failed, s.Skipped)
}

func (s *Summary) add(idx int, set *TestSet) {
	s.Sets++
	s.Passed += set.Passed
	s.Failed += set.Failed
	s.Skipped += set.Skipped
	s.Total += set.Passed + set.Failed + set.Skipped
	if set.Failures() {
		s.failed.Add(idx)
	}
}

// RunObserver may be implemented by the Context of a hooks bundle to
// be notified once after all sets it observed were run, e.g. to
// complete a report spanning several sets.
type RunObserver interface {
	AfterRun(Summary)
}

func appendUnique(hh []*Hooks, h *Hooks) []*Hooks {
	if slices.Contains(hh, h) {
		return hh
	}
	return append(hh, h)
}

// finish notifies the run observers among given hooks' contexts.
func finish(hh []*Hooks, s Summary) {
	for _, h := range hh {
		if o, ok := h.Context.(RunObserver); ok {
			o.AfterRun(s)
		}
	}
}

// Summary returns the aggregated counters of the last run.
func (r *Registry) Summary() Summary { return r.summary }

// Run runs the cases of all sets in registration order and writes the
// aggregate line of the run.  Given hooks observe every set if not
// nil; otherwise a set is observed by its own hooks or the default
// hooks.  Run returns ExitSuccess if no case failed and ExitFailure
// otherwise.
//
// A case body panicking with anything else than an assertion's abort
// crashes the run.
func (r *Registry) Run(override *Hooks) int {
	rc := &RunContext{}
	r.rc, r.summary = rc, Summary{failed: &ints.Set{}}
	defer func() { r.rc = nil }()

	var used []*Hooks
	for idx, set := range r.sets {
		h := r.hooks.resolve(override, set)
		runSet(rc, set, h, runDirect)
		r.summary.add(idx, set)
		used = appendUnique(used, h)
	}
	finish(used, r.summary)
	fmt.Fprintln(r.out, r.summary.String())
	r.writeFailedSets()

	if r.summary.Failed > 0 {
		return ExitFailure
	}
	return ExitSuccess
}

// writeFailedSets names the sets with a failing case below the
// aggregate line.
func (r *Registry) writeFailedSets() {
	idx := r.summary.FailedSets()
	if len(idx) == 0 {
		return
	}
	names := make([]string, 0, len(idx))
	for _, i := range idx {
		names = append(names, r.sets[i].Name)
	}
	fmt.Fprintf(r.out, "Failed sets: %s\n", strings.Join(names, ", "))
}

// caseRunner runs a case's protocol through given function.
type caseRunner func(tc *TestCase, protocol func())

func runDirect(_ *TestCase, protocol func()) { protocol() }

func runSet(rc *RunContext, set *TestSet, h *Hooks, run caseRunner) {
	set.resetCounters()
	rc.set, rc.hooks = set, h
	defer func() { rc.set, rc.hooks = nil, nil }()

	if h.BeforeSet != nil {
		h.BeforeSet(set, h.Context)
	} else {
		banner(set)
	}

	a := NewAssert(rc)
	for _, tc := range set.cases {
		tc := tc
		run(tc, func() { runCase(rc, a, set, tc, h) })
	}

	if h.AfterSet != nil {
		h.AfterSet(set, h.Context)
	} else {
		summary(set)
	}
	if set.Cleanup != nil {
		set.Cleanup()
	}
}

// runCase executes given case's protocol.  Setup, body and teardown
// run under the abort checkpoint; an aborted setup skips the body.
func runCase(rc *RunContext, a *Assert, set *TestSet, tc *TestCase, h *Hooks) {
	tc.reset()
	rc.enter(set, tc)
	defer rc.leave()

	if h.BeforeTest != nil {
		h.BeforeTest(set, tc, h.Context)
	}
	ready := rc.exec(set.Setup)
	if h.OnStartTest != nil {
		h.OnStartTest(set, tc, h.Context)
	}
	if ready {
		rc.exec(func() { tc.Func(a) })
	}
	if h.OnEndTest != nil {
		h.OnEndTest(set, tc, h.Context)
	}
	rc.exec(set.Teardown)
	if h.AfterTest != nil {
		h.AfterTest(set, tc, h.Context)
	}

	tc.reconcile()
	if h.OnTestResult != nil {
		h.OnTestResult(set, tc, h.Context)
	} else {
		resultLine(set, tc)
	}
	set.tally(tc)
}

// Main runs the registry with given hooks, closes it and exits the
// process with the run's exit code.
func (r *Registry) Main(override *Hooks) {
	code := r.Run(override)
	if err := r.Close(); err != nil {
		fmt.Fprintf(r.stderr, "close: %v\n", err)
	}
	r.exit(code)
}
