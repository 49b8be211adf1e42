// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sigtest

import (
	"io"
	"os"

	"golang.org/x/exp/slices"
)

// DefaultSetName names the set which is created if a case is
// registered before any set.
const DefaultSetName = "default"

// ConfigFunc configures a freshly created set, e.g. by setting its
// output.  A returned error is fatal.
type ConfigFunc func(*TestSet) error

// TestSet owns an ordered list of test cases sharing setup, teardown,
// output and hooks.
type TestSet struct {
	Name string

	// Setup and Teardown run before and after each case of the set.
	Setup, Teardown func()

	// Cleanup runs once after all cases of the set.
	Cleanup func()

	// Hooks observe the set's run unless a run is given explicit
	// hooks.
	Hooks *Hooks

	// Count is the number of registered cases while Passed, Failed and
	// Skipped count the processed cases of the last run.
	Count, Passed, Failed, Skipped int

	cases   []*TestCase
	out     io.Writer
	log     *Logger
	current *TestCase
}

func newSet(name string, lvl Level) *TestSet {
	s := &TestSet{Name: name}
	s.SetOutput(nil)
	s.log.SetLevel(lvl)
	return s
}

// Cases returns the set's cases in registration order.
func (s *TestSet) Cases() []*TestCase { return slices.Clone(s.cases) }

// Current returns the case which is currently executed or nil if no
// case of this set is executing.
func (s *TestSet) Current() *TestCase { return s.current }

// Output returns the writer the set's logger writes to.
func (s *TestSet) Output() io.Writer { return s.out }

// SetOutput binds the set's logger to given writer keeping the
// logger's level.  A nil writer binds to os.Stdout.
func (s *TestSet) SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	lvl := LevelInfo
	if s.log != nil {
		lvl = s.log.Level()
	}
	s.out, s.log = w, NewLogger(w)
	s.log.SetLevel(lvl)
}

// Logger returns the logger bound to the set's output.
func (s *TestSet) Logger() *Logger { return s.log }

// Failures reports if the last run of the set had a failing case.
func (s *TestSet) Failures() bool { return s.Failed > 0 }

func (s *TestSet) add(tc *TestCase) {
	s.cases = append(s.cases, tc)
	s.Count++
}

func (s *TestSet) resetCounters() {
	s.Passed, s.Failed, s.Skipped = 0, 0, 0
}

func (s *TestSet) tally(tc *TestCase) {
	switch tc.Result.State {
	case Pass:
		s.Passed++
	case Fail:
		s.Failed++
	case Skip:
		s.Skipped++
	}
}

// close closes the set's output unless it is the standard output or
// error stream and rebinds the set to os.Stdout.
func (s *TestSet) close() error {
	if s.out == os.Stdout || s.out == os.Stderr {
		return nil
	}
	c, ok := s.out.(io.Closer)
	s.SetOutput(nil)
	if !ok {
		return nil
	}
	return c.Close()
}
