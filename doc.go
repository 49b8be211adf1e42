// Package sigtest is a small unit testing runtime: test sets and their
// cases are registered, typically from init functions, into a
// [Registry] which then runs them strictly sequentially and reports
// every lifecycle transition to a pluggable [Hooks] bundle.
//
//	import "github.com/slukits/sigtest"
//
//	func init() {
//	    sigtest.Testset("stack", nil, nil)
//	    sigtest.Testcase("pushed value is popped", func(a *sigtest.Assert) {
//	        s := NewStack()
//	        s.Push(42)
//	        a.AreEqual(42, s.Pop(), sigtest.Int)
//	    })
//	    sigtest.FailTestcase("pop on empty stack", func(a *sigtest.Assert) {
//	        a.IsNotNull(NewStack().Pop())
//	    })
//	}
//
// A case's body receives an [Assert] instance bound to the run
// executing the case.  The first failing (or skipping) assertion
// records its message and ends the body, i.e. the remaining statements
// are not executed.  Hence a case's message always reflects its first
// non-passing assertion.  A case registered as expected to fail
// (FailTestcase) or to throw (TestcaseThrows) passes iff its body
// fails and fails iff its body passes while a skipped case stays
// skipped in any case.
//
// Each case of a set runs the same protocol:
//
//	BeforeTest → setup → OnStartTest → body → OnEndTest → teardown →
//	AfterTest → reconciliation of expectations → OnTestResult
//
// and each set is framed by BeforeSet and AfterSet followed by the
// set's cleanup.  The hooks observing a set are the hooks passed to the
// run, the set's own hooks or the registry's default hooks in that
// order of precedence.  That lets a compiled test binary switch its
// report format (see package hooks) without recompiling its sources.
//
// A run returns ExitSuccess if no case failed, ExitFailure otherwise
// while registration errors, e.g. a nil case body, terminate the
// process with ExitFatal before any case runs.  Note that a case body
// panicking for another reason than an assertion is not caught, i.e.
// it crashes the run.
//
// Structs embedding [Suite] may be registered as a set whose cases are
// the struct's methods (see [Registry.Suite]) and [Registry.RunT] runs a
// registry from within go test.
package sigtest
