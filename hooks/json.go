// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hooks

import (
	"encoding/json"
	"io"
	"time"

	"github.com/slukits/sigtest"
)

// JSONName labels the hooks bundle returned by JSON.
const JSONName = "json"

type jsonCase struct {
	Test       string `json:"test"`
	Status     string `json:"status"`
	DurationUS int64  `json:"duration_us"`
	Message    string `json:"message,omitempty"`
}

type jsonSummary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

type jsonSet struct {
	RunID     string      `json:"run_id"`
	TestSet   string      `json:"test_set"`
	Timestamp string      `json:"timestamp"`
	Tests     []jsonCase  `json:"tests"`
	Summary   jsonSummary `json:"summary"`
}

func newJSONSet(runID string, rpt *setReport) jsonSet {
	js := jsonSet{
		RunID:     runID,
		TestSet:   rpt.name,
		Timestamp: rpt.timestamp.UTC().Format(time.RFC3339),
		Tests:     make([]jsonCase, 0, len(rpt.records)),
		Summary: jsonSummary{
			Total:   len(rpt.records),
			Passed:  rpt.passed,
			Failed:  rpt.failed,
			Skipped: rpt.skipped,
		},
	}
	for _, r := range rpt.records {
		js.Tests = append(js.Tests, jsonCase{
			Test:       r.name,
			Status:     status(r.state),
			DurationUS: r.duration.Microseconds(),
			Message:    r.message,
		})
	}
	return js
}

// JSON returns a hooks bundle writing an indented JSON object per set
// to given writer or to the set's output if w is nil.  All objects of
// one run share the same run id.
func JSON(w io.Writer) *sigtest.Hooks {
	c := newCollector(w)
	return c.bundle(JSONName, c, func(set *sigtest.TestSet, rpt *setReport) {
		enc := json.NewEncoder(c.writer(set))
		enc.SetIndent("", "  ")
		if err := enc.Encode(newJSONSet(c.runID, rpt)); err != nil {
			set.Logger().Levelf(sigtest.LevelError, "json report: %v", err)
		}
	})
}
