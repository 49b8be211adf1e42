// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sigtest_test

import (
	"strings"
	"testing"

	"github.com/slukits/sigtest"
)

// result runs given body as the only case of a fresh registry and
// returns the case's result.
func result(body sigtest.Func) sigtest.Result {
	r, _ := fixture()
	tc := r.Case("probe", body)
	r.Run(silent())
	return tc.Result
}

type assertion struct {
	name string
	body sigtest.Func
	exp  sigtest.Result
}

func run(t *testing.T, tt []assertion) {
	t.Helper()
	for _, a := range tt {
		t.Run(a.name, func(t *testing.T) {
			if got := result(a.body); got != a.exp {
				t.Errorf("expected %+v; got %+v", a.exp, got)
			}
		})
	}
}

var passed = sigtest.Result{State: sigtest.Pass}

func failed(msg string) sigtest.Result {
	return sigtest.Result{State: sigtest.Fail, Message: msg}
}

func Test_boolean_and_nil_assertions(t *testing.T) {
	var nilPtr *int
	var nilMap map[string]int
	run(t, []assertion{
		{"true", func(a *sigtest.Assert) { a.IsTrue(true) }, passed},
		{"true fails", func(a *sigtest.Assert) { a.IsTrue(false) },
			failed(sigtest.TrueErr)},
		{"true custom message", func(a *sigtest.Assert) {
			a.IsTrue(false, "want %d", 42)
		}, failed("want 42")},
		{"false", func(a *sigtest.Assert) { a.IsFalse(false) }, passed},
		{"false fails", func(a *sigtest.Assert) { a.IsFalse(true) },
			failed(sigtest.FalseErr)},
		{"null", func(a *sigtest.Assert) { a.IsNull(nil) }, passed},
		{"null pointer", func(a *sigtest.Assert) { a.IsNull(nilPtr) }, passed},
		{"null map", func(a *sigtest.Assert) { a.IsNull(nilMap) }, passed},
		{"null fails", func(a *sigtest.Assert) { a.IsNull(42, "not nil") },
			failed("not nil")},
		{"not null", func(a *sigtest.Assert) { a.IsNotNull(&struct{}{}) },
			passed},
		{"not null fails", func(a *sigtest.Assert) { a.IsNotNull(nilPtr) },
			failed("Expected a non-nil value, but was nil")},
	})
}

func Test_equality_assertions_compare_by_kind(t *testing.T) {
	x, y := 1, 1
	run(t, []assertion{
		{"int", func(a *sigtest.Assert) { a.AreEqual(4, 2+2, sigtest.Int) },
			passed},
		{"int fails", func(a *sigtest.Assert) { a.AreEqual(4, 5, sigtest.Int) },
			failed("Expected 4, but was 5")},
		{"int fails with context", func(a *sigtest.Assert) {
			a.AreEqual(4, 5, sigtest.Int, "sum of %s", "2+2")
		}, failed("Expected 4, but was 5 [sum of 2+2]")},
		{"int mixed widths", func(a *sigtest.Assert) {
			a.AreEqual(int8(7), uint64(7), sigtest.Int)
		}, passed},
		{"int negative vs unsigned", func(a *sigtest.Assert) {
			a.AreNotEqual(-1, uint(1<<63), sigtest.Int)
		}, passed},
		{"char", func(a *sigtest.Assert) { a.AreEqual('a', byte('a'), sigtest.Char) },
			passed},
		{"char fails", func(a *sigtest.Assert) { a.AreEqual('a', 'b', sigtest.Char) },
			failed("Expected a, but was b")},
		{"ptr", func(a *sigtest.Assert) { a.AreEqual(&x, &x, sigtest.Ptr) },
			passed},
		{"ptr differs", func(a *sigtest.Assert) { a.AreNotEqual(&x, &y, sigtest.Ptr) },
			passed},
		{"ptr nil", func(a *sigtest.Assert) { a.AreEqual(nil, nil, sigtest.Ptr) },
			passed},
		{"not equal fails", func(a *sigtest.Assert) { a.AreNotEqual(3, 3, sigtest.Int) },
			failed("Expected a value other than 3, but was 3")},
		{"wrong operand type", func(a *sigtest.Assert) {
			a.AreEqual("4", 4, sigtest.Int)
		}, failed("Int kind expects integer operands, got string and int")},
	})
}

func Test_float_equality_tolerates_machine_epsilon(t *testing.T) {
	run(t, []assertion{
		{"float within epsilon", func(a *sigtest.Assert) {
			a.AreEqual(float32(1), float32(1+sigtest.Float32Epsilon/2), sigtest.Float)
		}, passed},
		{"float beyond epsilon", func(a *sigtest.Assert) {
			a.AreEqual(float32(1), float32(1.001), sigtest.Float)
		}, failed("Expected 1.00000, but was 1.00100")},
		{"double within epsilon", func(a *sigtest.Assert) {
			a.AreEqual(0.1+0.2, 0.3, sigtest.Double)
		}, passed},
		{"double beyond epsilon", func(a *sigtest.Assert) {
			a.AreEqual(1.0, 1.00001, sigtest.Double)
		}, failed("Expected 1.00000, but was 1.00001")},
		{"double not equal", func(a *sigtest.Assert) {
			a.AreNotEqual(1.0, 1+sigtest.Float64Epsilon*4, sigtest.Double)
		}, passed},
	})
}

func Test_the_string_kind_always_fails_generic_equality(t *testing.T) {
	for _, tt := range []struct {
		name string
		body sigtest.Func
	}{
		{"equal", func(a *sigtest.Assert) { a.AreEqual("foo", "foo", sigtest.String) }},
		{"not equal", func(a *sigtest.Assert) { a.AreNotEqual("foo", "bar", sigtest.String) }},
	} {
		got := result(tt.body)
		if got.State != sigtest.Fail {
			t.Errorf("%s: expected fail; got %v", tt.name, got.State)
		}
		if !strings.Contains(got.Message, "StringEqual") {
			t.Errorf("%s: expected hint to StringEqual; got %q",
				tt.name, got.Message)
		}
	}
}

func Test_string_equality(t *testing.T) {
	run(t, []assertion{
		{"case insensitive", func(a *sigtest.Assert) {
			a.StringEqual("Foo", "fOO", false)
		}, passed},
		{"case sensitive fails", func(a *sigtest.Assert) {
			a.StringEqual("Foo", "fOO", true)
		}, failed("Expected Foo, but was fOO")},
		{"truncated operands", func(a *sigtest.Assert) {
			a.StringEqual("abcdefghijklmnopqrstuvwxyz", "z", true, "alphabet")
		}, failed("Expected abcdefghijklmnopqrs, but was z [alphabet]")},
	})
	if got := sigtest.Truncate("äöüäöüäöüäöüäöüäöüäöü"); len([]rune(got)) != 19 {
		t.Errorf("expected truncation to 19 characters; got %q", got)
	}
}

func Test_range_assertions(t *testing.T) {
	run(t, []assertion{
		{"float inclusive", func(a *sigtest.Assert) { a.FloatWithin(7, 6, 7) },
			passed},
		{"float out of range", func(a *sigtest.Assert) { a.FloatWithin(5, 6, 7) },
			failed("Expected 5.00000 to be within [6.00000, 7.00000]")},
		{"int inclusive", func(a *sigtest.Assert) { a.IntWithin(-1, -1, 1) },
			passed},
		{"int out of range", func(a *sigtest.Assert) { a.IntWithin(2, -1, 1, "too big") },
			failed("too big")},
	})
}

func Test_deep_equal_reports_a_diff(t *testing.T) {
	type point struct{ x, y int }
	if got := result(func(a *sigtest.Assert) {
		a.DeepEqual([]point{{1, 2}}, []point{{1, 2}})
	}); got != passed {
		t.Errorf("expected pass; got %+v", got)
	}
	got := result(func(a *sigtest.Assert) {
		a.DeepEqual(map[string]int{"a": 1}, map[string]int{"a": 2})
	})
	if got.State != sigtest.Fail || !strings.Contains(got.Message, "-exp +act") {
		t.Errorf("expected failure with diff; got %+v", got)
	}
}

func Test_explicit_outcomes(t *testing.T) {
	run(t, []assertion{
		{"fail", func(a *sigtest.Assert) { a.Fail("boom") }, failed("boom")},
		{"throw", func(a *sigtest.Assert) { a.Throw() },
			failed(sigtest.ThrowErr)},
		{"skip", func(a *sigtest.Assert) { a.Skip() },
			sigtest.Result{State: sigtest.Skip}},
		{"skip formatted", func(a *sigtest.Assert) { a.Skip("no %s", "db") },
			sigtest.Result{State: sigtest.Skip, Message: "no db"}},
	})
}

func Test_expect_exception(t *testing.T) {
	run(t, []assertion{
		{"panic", func(a *sigtest.Assert) {
			a.ExpectException(func() { panic("oops") })
		}, passed},
		{"assertion abort", func(a *sigtest.Assert) {
			a.ExpectException(func() { a.Throw("inner") })
			a.IsTrue(true)
		}, passed},
		{"nothing thrown", func(a *sigtest.Assert) {
			a.ExpectException(func() {})
		}, failed(sigtest.ExceptionErr)},
		{"skip propagates", func(a *sigtest.Assert) {
			a.ExpectException(func() { a.Skip("inner skip") })
			a.Fail("unreachable")
		}, sigtest.Result{State: sigtest.Skip, Message: "inner skip"}},
	})
}

func Test_assertions_without_executing_case_are_ignored(t *testing.T) {
	r, _ := fixture()
	a := r.Assert()
	a.Fail("nobody listens")
	a.Skip()
	a.AreEqual(1, 2, sigtest.Int)
	a.DeepEqual(1, 2)
	a.ExpectException(func() {})
}
