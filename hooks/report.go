// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package hooks provides sigtest hooks bundles reporting a run as JSON,
// as JUnit XML or as a table and selects a bundle by name, e.g. from
// the environment a test binary is started in.
package hooks

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/slukits/sigtest"
)

// record is the reported outcome of a case.
type record struct {
	name     string
	state    sigtest.State
	message  string
	duration time.Duration
}

// setReport collects the records of a set's cases.
type setReport struct {
	name      string
	timestamp time.Time
	duration  time.Duration
	records   []record
	passed    int
	failed    int
	skipped   int
}

func (s *setReport) add(r record) {
	s.records = append(s.records, r)
	switch r.state {
	case sigtest.Pass:
		s.passed++
	case sigtest.Fail:
		s.failed++
	case sigtest.Skip:
		s.skipped++
	}
}

// collector is the shared state of the reporting hooks: it measures
// set and case durations and collects a report per set.
type collector struct {
	runID     string
	out       io.Writer
	now       func() time.Time
	caseStart time.Time
	current   *setReport
	sets      []*setReport
}

func newCollector(w io.Writer) *collector {
	return &collector{runID: uuid.NewString(), out: w, now: time.Now}
}

// writer returns the collector's writer or given set's output if it
// has none.
func (c *collector) writer(set *sigtest.TestSet) io.Writer {
	if c.out != nil {
		return c.out
	}
	return set.Output()
}

func (c *collector) beforeSet(set *sigtest.TestSet) {
	c.current = &setReport{name: set.Name, timestamp: c.now()}
}

func (c *collector) onStartTest() { c.caseStart = c.now() }

func (c *collector) onTestResult(tc *sigtest.TestCase) {
	c.current.add(record{
		name:     tc.Name,
		state:    tc.Result.State,
		message:  tc.Result.Message,
		duration: c.now().Sub(c.caseStart),
	})
}

// afterSet completes and returns the report of the set which just
// ran.
func (c *collector) afterSet() *setReport {
	rpt := c.current
	rpt.duration = c.now().Sub(rpt.timestamp)
	c.sets = append(c.sets, rpt)
	c.current = nil
	return rpt
}

// AfterRun starts a new run: the collected reports are dropped and
// later sets are reported under a new run id.
func (c *collector) AfterRun(sigtest.Summary) { c.reset() }

func (c *collector) reset() {
	c.runID, c.sets, c.current = uuid.NewString(), nil, nil
}

// bundle returns a hooks bundle with given name and context whose
// callbacks feed given collector.
func (c *collector) bundle(
	name string, ctx any, afterSet func(*sigtest.TestSet, *setReport),
) *sigtest.Hooks {
	return &sigtest.Hooks{
		Name:    name,
		Context: ctx,
		BeforeSet: func(set *sigtest.TestSet, _ any) {
			c.beforeSet(set)
		},
		OnStartTest: func(*sigtest.TestSet, *sigtest.TestCase, any) {
			c.onStartTest()
		},
		OnTestResult: func(_ *sigtest.TestSet, tc *sigtest.TestCase, _ any) {
			c.onTestResult(tc)
		},
		AfterSet: func(set *sigtest.TestSet, _ any) {
			afterSet(set, c.afterSet())
		},
	}
}

// status maps a state to its reported lower case label.
func status(s sigtest.State) string {
	switch s {
	case sigtest.Pass:
		return "passed"
	case sigtest.Fail:
		return "failed"
	case sigtest.Skip:
		return "skipped"
	}
	return "unknown"
}
