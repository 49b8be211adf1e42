// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sigtest

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/exp/constraints"
)

// Assert evaluates assertions on behalf of the case which is executed
// by the run it is bound to.  A passing assertion records nothing
// noteworthy while the first non-passing one records its message and
// ends the case's body, setup or teardown.  An Assert instance whose
// run has no executing case ignores every call.
//
// Each assertion takes optional message arguments: a format string
// followed by its arguments or any values which are concatenated as by
// fmt.Sprint.  A given message replaces the assertion's default
// message except for the equality assertions which append it in
// brackets.
type Assert struct {
	ctx func() *RunContext
}

// NewAssert binds an Assert instance to given run context.
func NewAssert(rc *RunContext) *Assert {
	return &Assert{ctx: func() *RunContext { return rc }}
}

// NewAssertFunc returns an Assert instance reporting to the run context
// given function returns at the time of each assertion.
func NewAssertFunc(ctx func() *RunContext) *Assert { return &Assert{ctx: ctx} }

// Context returns the run context the instance currently reports to.
func (a *Assert) Context() *RunContext { return a.ctx() }

const (
	trueErr       = "Expected true, but was false"
	falseErr      = "Expected false, but was true"
	nullErr       = "Expected nil, but was %v"
	notNullErr    = "Expected a non-nil value, but was nil"
	equalErr      = "Expected %s, but was %s"
	notEqualErr   = "Expected a value other than %s, but was %s"
	stringKindErr = "%s does not support the String kind, use StringEqual"
	withinErr     = "Expected %s to be within [%s, %s]"
	deepEqualErr  = "Expected equal values (-exp +act):\n%s"
	failErr       = "Explicit fail triggered"
	throwErr      = "Explicit throw triggered"
	exceptionErr  = "Expected exception, but none was thrown"
)

func (a *Assert) pass() { a.Context().record(Pass, "") }

func (a *Assert) fail(def string, msg []any) {
	a.Context().record(Fail, message(def, msg))
}

// message formats given user message arguments or returns given
// default if there are none.
func message(def string, msg []any) string {
	if len(msg) == 0 {
		return def
	}
	if format, ok := msg[0].(string); ok {
		return fmt.Sprintf(format, msg[1:]...)
	}
	return fmt.Sprint(msg...)
}

// bracketed appends given user message in brackets to given message.
func bracketed(m string, msg []any) string {
	user := message("", msg)
	if user == "" {
		return m
	}
	return m + " [" + user + "]"
}

// IsTrue fails if given condition is false.
func (a *Assert) IsTrue(cond bool, msg ...any) {
	if cond {
		a.pass()
		return
	}
	a.fail(trueErr, msg)
}

// IsFalse fails if given condition is true.
func (a *Assert) IsFalse(cond bool, msg ...any) {
	if !cond {
		a.pass()
		return
	}
	a.fail(falseErr, msg)
}

// IsNull fails unless given value is nil or a nil pointer, map, slice,
// channel, function or interface.
func (a *Assert) IsNull(v any, msg ...any) {
	if isNil(v) {
		a.pass()
		return
	}
	a.fail(fmt.Sprintf(nullErr, v), msg)
}

// IsNotNull fails if IsNull would pass.
func (a *Assert) IsNotNull(v any, msg ...any) {
	if !isNil(v) {
		a.pass()
		return
	}
	a.fail(notNullErr, msg)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map,
		reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// AreEqual fails if given operands are not equal according to given
// kind or if they are not of a type the kind supports.  The String
// kind always fails.
func (a *Assert) AreEqual(exp, act any, k Kind, msg ...any) {
	if a.Context().idle() {
		return
	}
	if k == String {
		a.Context().record(Fail, bracketed(
			fmt.Sprintf(stringKindErr, "AreEqual"), msg))
		return
	}
	e, v, err := operands(k, exp, act)
	if err != nil {
		a.Context().record(Fail, bracketed(err.Error(), msg))
		return
	}
	if equal(k, e, v) {
		a.pass()
		return
	}
	a.Context().record(Fail, bracketed(
		fmt.Sprintf(equalErr, e.rendered, v.rendered), msg))
}

// AreNotEqual fails if given operands are equal according to given
// kind or if they are not of a type the kind supports.  The String
// kind always fails.
func (a *Assert) AreNotEqual(exp, act any, k Kind, msg ...any) {
	if a.Context().idle() {
		return
	}
	if k == String {
		a.Context().record(Fail, bracketed(
			fmt.Sprintf(stringKindErr, "AreNotEqual"), msg))
		return
	}
	e, v, err := operands(k, exp, act)
	if err != nil {
		a.Context().record(Fail, bracketed(err.Error(), msg))
		return
	}
	if !equal(k, e, v) {
		a.pass()
		return
	}
	a.Context().record(Fail, bracketed(
		fmt.Sprintf(notEqualErr, e.rendered, v.rendered), msg))
}

// StringEqual fails if given strings differ, ignoring case unless
// caseSensitive is set.
func (a *Assert) StringEqual(
	exp, act string, caseSensitive bool, msg ...any,
) {
	eq := strings.EqualFold(exp, act)
	if caseSensitive {
		eq = exp == act
	}
	if eq {
		a.pass()
		return
	}
	a.Context().record(Fail, bracketed(fmt.Sprintf(
		equalErr, truncate(exp), truncate(act)), msg))
}

func within[N constraints.Integer | constraints.Float](v, min, max N) bool {
	return min <= v && v <= max
}

// FloatWithin fails unless min <= value <= max.
func (a *Assert) FloatWithin(value, min, max float64, msg ...any) {
	if within(value, min, max) {
		a.pass()
		return
	}
	a.fail(fmt.Sprintf(withinErr, fmt.Sprintf("%.5f", value),
		fmt.Sprintf("%.5f", min), fmt.Sprintf("%.5f", max)), msg)
}

// IntWithin fails unless min <= value <= max.
func (a *Assert) IntWithin(value, min, max int, msg ...any) {
	if within(value, min, max) {
		a.pass()
		return
	}
	a.fail(fmt.Sprintf(withinErr, fmt.Sprint(value),
		fmt.Sprint(min), fmt.Sprint(max)), msg)
}

// DeepEqual fails with a diff if given values are not structurally
// equal.  Unexported fields are compared too.
func (a *Assert) DeepEqual(exp, act any, msg ...any) {
	if a.Context().idle() {
		return
	}
	diff := cmp.Diff(exp, act, cmp.Exporter(func(reflect.Type) bool {
		return true
	}))
	if diff == "" {
		a.pass()
		return
	}
	a.fail(fmt.Sprintf(deepEqualErr, diff), msg)
}

// Fail fails the case unconditionally.
func (a *Assert) Fail(msg ...any) { a.fail(failErr, msg) }

// Skip skips the case unconditionally.  A skipped case stays skipped
// whatever its expectations.
func (a *Assert) Skip(msg ...any) {
	a.Context().record(Skip, message("", msg))
}

// Throw fails the case unconditionally; a case registered to throw
// passes by it.
func (a *Assert) Throw(msg ...any) { a.fail(throwErr, msg) }

// ExpectException fails unless given function panics or fails an
// assertion.  A skip inside given function skips the case.
func (a *Assert) ExpectException(fn func(), msg ...any) {
	if a.Context().idle() {
		return
	}
	if a.Context().catch(fn) {
		a.pass()
		return
	}
	a.fail(exceptionErr, msg)
}
