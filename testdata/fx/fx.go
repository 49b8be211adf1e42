// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package fx provides sigtest fixture suites.
//
// Each fixture suite embeds a FixtureLog which its methods append to.
// The log can be evaluated after the suite's set was run.
package fx

import (
	"errors"
	"fmt"
	"strings"

	"github.com/slukits/sigtest"
)

// FixtureLog collects what a fixture suite's methods log.
type FixtureLog struct {
	Logs []string
}

func (fl *FixtureLog) log(args ...any) {
	fl.Logs = append(fl.Logs, fmt.Sprint(args...))
}

// String joins the logged entries by a space.
func (fl *FixtureLog) String() string { return strings.Join(fl.Logs, " ") }

// Indexing declares its cases in an order which differs from their
// alphabetical order, i.e. the order methods are reported by
// reflection.
type Indexing struct {
	FixtureLog
	sigtest.Suite
}

func (s *Indexing) Zulu(a *sigtest.Assert) { s.log("Zulu") }
func (s *Indexing) Alpha(a *sigtest.Assert) { s.log("Alpha") }
func (s *Indexing) Mike(a *sigtest.Assert) { s.log("Mike") }
func (s *Indexing) Bravo(a *sigtest.Assert) { s.log("Bravo") }

// not a case since unexported.
func (s *Indexing) yankee(a *sigtest.Assert) { s.log("yankee") }

// NoCase is not a case since it doesn't take an *Assert.
func (s *Indexing) NoCase(n int) { s.log("NoCase") }

// IndexingOrder is the order Indexing's cases are declared in.
var IndexingOrder = []string{"Zulu", "Alpha", "Mike", "Bravo"}

// Lifecycle logs its special methods and cases.
type Lifecycle struct {
	FixtureLog
	sigtest.Suite
	Set *sigtest.TestSet
}

func (s *Lifecycle) Init(set *sigtest.TestSet) error {
	s.Set = set
	s.log("init")
	return nil
}

func (s *Lifecycle) SetUp() { s.log("setup") }

func (s *Lifecycle) TearDown() { s.log("teardown") }

func (s *Lifecycle) First_case(a *sigtest.Assert) { s.log("first") }

func (s *Lifecycle) Second_case(a *sigtest.Assert) {
	s.log("second")
	a.Fail("second failed")
	s.log("unreachable")
}

func (s *Lifecycle) Finalize() { s.log("finalize") }

// LifecycleLogs is what a run of Lifecycle logs after its
// registration logged "init".
var LifecycleLogs = []string{
	"init",
	"setup", "first", "teardown",
	"setup", "second", "teardown",
	"finalize",
}

// Expectations has cases registered to fail or to throw by their
// method name's suffix.
type Expectations struct {
	sigtest.Suite
}

func (s *Expectations) Failing_as_expected_fails(a *sigtest.Assert) {
	a.IsTrue(false, "x")
}

func (s *Expectations) Passing_unexpectedly_fails(a *sigtest.Assert) {
	a.IsTrue(true)
}

func (s *Expectations) Throwing_as_expected_throws(a *sigtest.Assert) {
	a.Throw()
}

func (s *Expectations) Skipping_throws(a *sigtest.Assert) {
	a.Skip("not now")
}

// ErrInit is returned by InitFails' Init method.
var ErrInit = errors.New("fx: init failed")

// InitFails fails its configuration.
type InitFails struct{ sigtest.Suite }

func (s *InitFails) Init(*sigtest.TestSet) error { return ErrInit }

func (s *InitFails) Never_registered(a *sigtest.Assert) {}

// BadSetUp has a SetUp method with an unexpected signature.
type BadSetUp struct{ sigtest.Suite }

func (s *BadSetUp) SetUp(a *sigtest.Assert) {}
