// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/katalvlaran/shelterflow/core"
	"github.com/katalvlaran/shelterflow/eligibility"
	"github.com/katalvlaran/shelterflow/metrics"
	"github.com/katalvlaran/shelterflow/scenario"
)

// flowRow is the JSON form of one allocation entry.
type flowRow struct {
	Hotspot  string  `json:"hotspot"`
	Shelter  string  `json:"shelter"`
	Gender   string  `json:"gender"`
	Flow     int64   `json:"flow"`
	Distance float64 `json:"distance"`
}

func flows(inst *core.Instance, a *core.Allocation) []flowRow {
	entries := a.Entries()
	out := make([]flowRow, len(entries))
	for i, e := range entries {
		out[i] = flowRow{
			Hotspot:  inst.Hotspot(e.Hotspot).ID,
			Shelter:  inst.Shelter(e.Shelter).ID,
			Gender:   e.Gender.String(),
			Flow:     e.Flow,
			Distance: inst.Dist(e.Hotspot, e.Shelter),
		}
	}

	return out
}

func formatMean(v *float64) string {
	if v == nil {
		return "n/a"
	}

	return fmt.Sprintf("%.3f", *v)
}

func printMetrics(w io.Writer, m metrics.Metrics) {
	fmt.Fprintf(w, "  Served:          %d of %d\n", m.Served, m.Demand)
	fmt.Fprintf(w, "  Unsheltered:     %d\n", m.Unsheltered)
	fmt.Fprintf(w, "  Total distance:  %.3f\n", m.TotalDistance)
	fmt.Fprintf(w, "  Mean distance:   %s\n", formatMean(m.MeanDistance))
	for _, g := range eligibility.Genders {
		gm := m.Gender(g)
		fmt.Fprintf(w, "  %-6s served %d/%d, unsheltered %d, mean distance %s\n",
			g, gm.Served, gm.Demand, gm.Unsheltered, formatMean(gm.MeanDistance))
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  SHELTER\tUSED\tCAPACITY\tUTILIZATION")
	for _, s := range m.Shelters {
		fmt.Fprintf(tw, "  %s\t%d\t%d\t%.1f%%\n", s.ID, s.Used, s.Capacity, s.Utilization)
	}
	tw.Flush()

	printUnsheltered(w, m)
}

// topUnsheltered is how many unsheltered locations the text report lists.
const topUnsheltered = 10

func printUnsheltered(w io.Writer, m metrics.Metrics) {
	top := m.TopUnsheltered(topUnsheltered)
	if len(top) == 0 {
		return
	}
	fmt.Fprintf(w, "\n  Top %d unsheltered locations\n", len(top))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  HOTSPOT\tGENDER\tDEMAND\tSERVED\tUNSHELTERED")
	for _, hu := range top {
		fmt.Fprintf(tw, "  %s\t%s\t%d\t%d\t%d\n", hu.ID, hu.Gender, hu.Demand, hu.Served, hu.Unsheltered)
	}
	tw.Flush()
}

func printFlows(w io.Writer, inst *core.Instance, a *core.Allocation) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  HOTSPOT\tSHELTER\tGENDER\tFLOW\tDISTANCE")
	for _, f := range flows(inst, a) {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%d\t%.3f\n", f.Hotspot, f.Shelter, f.Gender, f.Flow, f.Distance)
	}
	tw.Flush()
}

func printSummary(w io.Writer, s metrics.Summary) {
	stat := func(name string, st metrics.Stat) {
		if st.N == 0 {
			fmt.Fprintf(w, "  %-15s n/a\n", name+":")
			return
		}
		fmt.Fprintf(w, "  %-15s mean %.3f, sd %.3f, range [%.3f, %.3f]\n", name+":", st.Mean, st.StdDev, st.Min, st.Max)
	}
	stat("Unsheltered", s.Unsheltered)
	stat("Total distance", s.TotalDistance)
	stat("Mean distance", s.MeanDistance)
	for _, g := range eligibility.Genders {
		stat(g.String()+" mean", s.ByGender[g].MeanDistance)
	}
}

func printComparison(w io.Writer, c *scenario.Comparison) {
	title := c.Scenario
	if c.Period != "" {
		title += " / " + c.Period
	}
	fmt.Fprintf(w, "Comparison %s (run %s)\n", title, c.RunID)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  ENGINE\tUNSHELTERED\tTOTAL DISTANCE\tMEAN DISTANCE\tSTATUS")
	for _, r := range c.Rows {
		status := r.Status
		if r.Summary != nil {
			status = fmt.Sprintf("mean of %d trials", r.Summary.Trials)
		}
		fmt.Fprintf(tw, "  %s\t%.2f\t%.3f\t%s\t%s\n",
			r.Engine, r.Unsheltered(), r.TotalDistance(), formatMean(r.MeanDistance()), status)
	}
	tw.Flush()
}
