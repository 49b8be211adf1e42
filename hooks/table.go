// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hooks

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/slukits/sigtest"
)

// TableName labels the hooks bundle returned by Table.
const TableName = "table"

// Table returns a hooks bundle rendering a table per set listing each
// case's status, duration and message with the set's counters as
// footer.  The table is written to given writer or to the set's output
// if w is nil.  A colored table is styled by the set's outcome.
func Table(w io.Writer, colored bool) *sigtest.Hooks {
	c := newCollector(w)
	return c.bundle(TableName, c, func(set *sigtest.TestSet, rpt *setReport) {
		renderTable(c.writer(set), rpt, colored)
	})
}

func renderTable(w io.Writer, rpt *setReport, colored bool) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(rpt.name)
	t.AppendHeader(table.Row{"#", "Test", "Status", "Duration", "Message"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "#", Align: text.AlignRight},
		{Name: "Test", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Message", WidthMax: 80, WidthMaxEnforcer: text.WrapSoft},
	})

	for i, r := range rpt.records {
		t.AppendRow(table.Row{
			i + 1, r.name, r.state.String(), duration(r.duration), r.message,
		})
	}

	if colored {
		switch {
		case rpt.failed > 0:
			t.SetStyle(table.StyleColoredBlackOnRedWhite)
		case rpt.skipped > 0:
			t.SetStyle(table.StyleColoredBlackOnYellowWhite)
		default:
			t.SetStyle(table.StyleColoredBlackOnGreenWhite)
		}
	}

	t.AppendFooter(table.Row{
		"", "TOTAL", outcome(rpt), duration(rpt.duration),
		fmt.Sprintf("%d run, %d passed, %d failed, %d skipped",
			len(rpt.records), rpt.passed, rpt.failed, rpt.skipped),
	})
	t.Render()
}

// outcome is the overall state of a reported set.
func outcome(rpt *setReport) string {
	switch {
	case rpt.failed > 0:
		return sigtest.Fail.String()
	case rpt.skipped > 0:
		return sigtest.Skip.String()
	default:
		return sigtest.Pass.String()
	}
}

func duration(d time.Duration) string {
	return d.Round(time.Microsecond).String()
}
