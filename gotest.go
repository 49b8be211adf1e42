// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sigtest

import (
	"testing"

	"github.com/slukits/ints"
)

// RunT runs the registry's sets as sub-tests of given test and their
// cases as sub-tests of the respective set's sub-test.  A case which
// fails after reconciliation errors its sub-test, a skipped case skips
// it.  Hooks are resolved as by Run, e.g.:
//
//	func TestParser(t *testing.T) {
//	    r := sigtest.NewRegistry()
//	    r.Suite(&Parser{})
//	    r.RunT(t, nil)
//	}
func (r *Registry) RunT(t *testing.T, override *Hooks) {
	t.Helper()
	rc := &RunContext{}
	r.rc, r.summary = rc, Summary{failed: &ints.Set{}}
	defer func() { r.rc = nil }()

	var used []*Hooks
	for idx, set := range r.sets {
		set, h := set, r.hooks.resolve(override, set)
		used = appendUnique(used, h)
		t.Run(set.Name, func(t *testing.T) {
			runSet(rc, set, h, func(tc *TestCase, protocol func()) {
				t.Run(tc.Name, func(t *testing.T) {
					protocol()
					switch tc.Result.State {
					case Fail:
						t.Error(tc.Result.Message)
					case Skip:
						t.Skip(tc.Result.Message)
					}
				})
			})
		})
		r.summary.add(idx, set)
	}
	finish(used, r.summary)
}
