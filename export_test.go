// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sigtest

import (
	"io"
	"time"
)

// TrueErr default message for failed 'IsTrue'-assertion.
const TrueErr = trueErr

// FalseErr default message for failed 'IsFalse'-assertion.
const FalseErr = falseErr

// ThrowErr default message for failed 'Throw'-assertion.
const ThrowErr = throwErr

// ExceptionErr default message for failed 'ExpectException'-assertion.
const ExceptionErr = exceptionErr

const (
	ExpectFailPassed  = expectFailPassed
	ExpectThrowPassed = expectThrowPassed
	ExpectedFailure   = expectedFailure
	ExpectedThrow     = expectedThrow
)

// Fatal replaces the error output and process exit of given registry.
func Fatal(r *Registry, w io.Writer, exit func(int)) {
	r.stderr, r.exit = w, exit
}

// Clock replaces the time source of given default hooks.
func Clock(h *Hooks, now func() time.Time) {
	h.Context.(*defaultState).now = now
}

// Truncate exposes the truncation of rendered string operands.
var Truncate = truncate
