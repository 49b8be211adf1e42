// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sigtest

import "time"

// defaultState is the context of the default hooks.
type defaultState struct {
	set       *TestSet
	setStart  time.Time
	caseStart time.Time
	now       func() time.Time
}

// DefaultHooks returns a new text reporting hooks bundle: a banner
// before and a summary after each set, a progress line per case with
// its elapsed time and a debug line per failure.
func DefaultHooks() *Hooks {
	st := &defaultState{now: time.Now}
	return &Hooks{
		Name:         DefaultHooksName,
		Context:      st,
		BeforeSet:    defaultBeforeSet,
		AfterSet:     defaultAfterSet,
		OnStartTest:  defaultOnStartTest,
		OnError:      defaultOnError,
		OnTestResult: defaultOnTestResult,
	}
}

func defaultBeforeSet(set *TestSet, ctx any) {
	st := ctx.(*defaultState)
	st.set, st.setStart = set, st.now()
	banner(set)
}

func defaultAfterSet(set *TestSet, ctx any) {
	st := ctx.(*defaultState)
	summary(set)
	set.Logger().Debugf("Set %s took %s", set.Name, st.now().Sub(st.setStart))
	st.set = nil
}

func defaultOnStartTest(set *TestSet, tc *TestCase, ctx any) {
	st := ctx.(*defaultState)
	st.caseStart = st.now()
	set.Logger().Log("Running: %s ", tc.Name)
}

func defaultOnError(msg string, ctx any) {
	st := ctx.(*defaultState)
	if st.set == nil {
		return
	}
	st.set.Logger().Debugf("Assertion failed: %s", msg)
}

func defaultOnTestResult(set *TestSet, tc *TestCase, ctx any) {
	st := ctx.(*defaultState)
	elapsed := st.now().Sub(st.caseStart)
	if tc.Result.Message == "" {
		set.Logger().Writef("[%s] (%s)", tc.Result.State, elapsed)
		return
	}
	set.Logger().Writef("[%s] (%s) %s",
		tc.Result.State, elapsed, tc.Result.Message)
}

// banner is written before a set's cases are run if the active hooks
// don't observe the set's start.
func banner(set *TestSet) {
	set.Logger().Writef("=== Test set: %s, registered %d tests",
		set.Name, set.Count)
}

// summary is written after a set's cases are run if the active hooks
// don't observe the set's end.
func summary(set *TestSet) {
	set.Logger().Writef("=== %s: %d run, %d passed, %d failed, %d skipped",
		set.Name, set.Passed+set.Failed+set.Skipped,
		set.Passed, set.Failed, set.Skipped)
}

// resultLine is written for a case's reconciled result if the active
// hooks don't observe results.
func resultLine(set *TestSet, tc *TestCase) {
	if tc.Result.Message == "" {
		set.Logger().Writef("[%s]", tc.Result.State)
		return
	}
	set.Logger().Writef("[%s] %s", tc.Result.State, tc.Result.Message)
}
