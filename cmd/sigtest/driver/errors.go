// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package driver

import (
	"errors"
	"fmt"
)

// Exit codes of the driver which are the exit codes of a test binary.
const (
	ExitSuccess     = 0
	ExitTestFailure = 1
	ExitRuntime     = 2
)

// RuntimeError reports that tests could not be built or run, e.g. a
// missing source file, a compile error or a fatal registration error.
type RuntimeError struct {
	Err error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error: %v", e.Err)
}

func (e *RuntimeError) Unwrap() error { return e.Err }

// NewRuntimeError wraps given error into a RuntimeError.
func NewRuntimeError(err error) *RuntimeError {
	return &RuntimeError{Err: err}
}

// IsRuntimeError reports if given error is or wraps a RuntimeError.
func IsRuntimeError(err error) bool {
	var rErr *RuntimeError
	return err != nil && errors.As(err, &rErr)
}

// TestFailureError reports a test binary which ran to its end with at
// least one failing case.
type TestFailureError struct {
	Message string
}

func (e *TestFailureError) Error() string {
	return fmt.Sprintf("test failure: %s", e.Message)
}

// NewTestFailureError creates a TestFailureError with given message.
func NewTestFailureError(msg string) *TestFailureError {
	return &TestFailureError{Message: msg}
}

// IsTestFailureError reports if given error is or wraps a
// TestFailureError.
func IsTestFailureError(err error) bool {
	var tErr *TestFailureError
	return err != nil && errors.As(err, &tErr)
}

// ExitCode maps given error to the driver's exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case IsTestFailureError(err):
		return ExitTestFailure
	default:
		return ExitRuntime
	}
}
