// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sigtest

// State is the terminal state of a test case.
type State int

const (
	// Pass is the initial state of every registered case and remains
	// its state unless an assertion reports otherwise.
	Pass State = iota

	// Fail is recorded by a failing assertion, an explicit Fail or
	// Throw, or an expectation mismatch.
	Fail

	// Skip is recorded by an explicit Skip and is never overridden by
	// a case's expectation flags.
	Skip
)

func (s State) String() string {
	switch s {
	case Pass:
		return "PASS"
	case Fail:
		return "FAIL"
	case Skip:
		return "SKIP"
	default:
		return "UNKNOWN"
	}
}

// Func is the body of a test case.  The provided Assert instance is
// bound to the case's run and must not be used outside of it.
type Func func(*Assert)

// Result is a test case's outcome.  An empty Message means there is
// none.
type Result struct {
	State   State
	Message string
}

// TestCase is a registered test case.  A case is owned by exactly one
// TestSet and run in the order it was registered.
type TestCase struct {
	Name        string
	Func        Func
	ExpectFail  bool
	ExpectThrow bool
	Result      Result
}

// Expects reports if given case is considered successful iff its body
// fails or throws.
func (tc *TestCase) Expects() bool {
	return tc.ExpectFail || tc.ExpectThrow
}

// record sets given case's result.  The previous message is replaced
// even if the new one is empty.
func (tc *TestCase) record(s State, msg string) {
	tc.Result.State = s
	tc.Result.Message = msg
}

// reset puts a case back into its registration state, i.e. a case may
// be run more than once by the same process.
func (tc *TestCase) reset() {
	tc.Result = Result{State: Pass}
}

const (
	expectFailPassed  = "Expected test to fail but it passed"
	expectThrowPassed = "Expected test to throw but it didn't"
	expectedFailure   = "Expected failure occurred"
	expectedThrow     = "Expected throw occurred"
)

// reconcile applies given case's expectation flags to its raw result:
// a raw failure becomes a pass with a confirmatory message while a raw
// pass becomes a failure.  A skip is never rewritten.
func (tc *TestCase) reconcile() {
	if !tc.Expects() || tc.Result.State == Skip {
		return
	}
	switch tc.Result.State {
	case Fail:
		confirm := expectedFailure
		if !tc.ExpectFail {
			confirm = expectedThrow
		}
		if tc.Result.Message != "" {
			confirm += ": " + tc.Result.Message
		}
		tc.record(Pass, confirm)
	case Pass:
		if tc.ExpectFail {
			tc.record(Fail, expectFailPassed)
			return
		}
		tc.record(Fail, expectThrowPassed)
	}
}
