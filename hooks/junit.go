// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hooks

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/slukits/sigtest"
)

// JUnitName labels the hooks bundle returned by JUnit.
const JUnitName = "junit"

type junitSuites struct {
	XMLName  xml.Name     `xml:"testsuites"`
	ID       string       `xml:"id,attr"`
	Name     string       `xml:"name,attr"`
	Tests    int          `xml:"tests,attr"`
	Failures int          `xml:"failures,attr"`
	Skipped  int          `xml:"skipped,attr"`
	Time     string       `xml:"time,attr"`
	Suites   []junitSuite `xml:"testsuite"`
}

type junitSuite struct {
	Name      string      `xml:"name,attr"`
	Tests     int         `xml:"tests,attr"`
	Failures  int         `xml:"failures,attr"`
	Skipped   int         `xml:"skipped,attr"`
	Time      string      `xml:"time,attr"`
	Timestamp string      `xml:"timestamp,attr"`
	Cases     []junitCase `xml:"testcase"`
}

type junitCase struct {
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      string        `xml:"time,attr"`
	Failure   *junitMessage `xml:"failure,omitempty"`
	Skipped   *junitMessage `xml:"skipped,omitempty"`
}

type junitMessage struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}

func newJUnitSuite(rpt *setReport) junitSuite {
	s := junitSuite{
		Name:      rpt.name,
		Tests:     len(rpt.records),
		Failures:  rpt.failed,
		Skipped:   rpt.skipped,
		Time:      seconds(rpt.duration),
		Timestamp: rpt.timestamp.UTC().Format(time.RFC3339),
	}
	for _, r := range rpt.records {
		c := junitCase{Name: r.name, ClassName: rpt.name,
			Time: seconds(r.duration)}
		switch r.state {
		case sigtest.Fail:
			c.Failure = &junitMessage{Message: r.message,
				Type: "AssertionFailure", Content: r.message}
		case sigtest.Skip:
			c.Skipped = &junitMessage{Message: r.message}
		}
		s.Cases = append(s.Cases, c)
	}
	return s
}

// junitReport is the context of the JUnit hooks; it writes the
// document of all observed sets once the run is done.
type junitReport struct {
	*collector
	name string
	dflt io.Writer
}

// AfterRun writes the JUnit document of the sets observed during the
// run and resets the collector for the next run.  The document's
// totals count only the observed sets.
func (j *junitReport) AfterRun(sigtest.Summary) {
	defer j.reset()
	if len(j.sets) == 0 || (j.out == nil && j.dflt == nil) {
		return
	}
	doc := junitSuites{ID: j.runID, Name: j.name}
	var total time.Duration
	for _, rpt := range j.sets {
		total += rpt.duration
		doc.Tests += len(rpt.records)
		doc.Failures += rpt.failed
		doc.Skipped += rpt.skipped
		doc.Suites = append(doc.Suites, newJUnitSuite(rpt))
	}
	doc.Time = seconds(total)
	if err := j.write(doc); err != nil {
		fmt.Fprintf(os.Stderr, "junit report: %v\n", err)
	}
}

func (j *junitReport) write(doc junitSuites) error {
	w := j.out
	if w == nil {
		w = j.dflt
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// JUnit returns a hooks bundle which collects the results of every set
// it observes and writes a single JUnit XML document named after given
// run name to given writer after the run.  If w is nil the document
// is written to the output of the last observed set.
func JUnit(name string, w io.Writer) *sigtest.Hooks {
	j := &junitReport{collector: newCollector(w), name: name}
	return j.bundle(JUnitName, j, func(set *sigtest.TestSet, _ *setReport) {
		j.dflt = set.Output()
	})
}
