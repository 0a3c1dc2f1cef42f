package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/wildtel/collarcsv/internal/core"
)

// WriteSummary renders the run totals for one conversion.
func WriteSummary(w io.Writer, res *core.ConversionResult) {
	s := res.Summarize()

	fmt.Fprintf(w, "Converted %d of %d rows from %s in %s\n",
		s.Emitted, s.TotalRows, res.Source, res.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "  emitted:  %d\n", s.Emitted)
	fmt.Fprintf(w, "  filtered: %d (before start date)\n", s.Filtered)
	fmt.Fprintf(w, "  skipped:  %d\n", s.Skipped)
	if s.Blank > 0 {
		fmt.Fprintf(w, "  blank:    %d\n", s.Blank)
	}
	if s.Nudged > 0 {
		fmt.Fprintf(w, "  nudged timestamps: %d\n", s.Nudged)
	}

	if len(s.ByReason) == 0 {
		return
	}
	fmt.Fprintln(w, "  row diagnostics:")
	for _, reason := range sortedReasons(s.ByReason) {
		m := core.MessageFor(reason)
		fmt.Fprintf(w, "    %s %s: %d\n", m.Code, m.Message, s.ByReason[reason])
	}
}

// WriteCollars renders per-collar statistics as an aligned table.
func WriteCollars(w io.Writer, collars []CollarStats) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SERIAL\tFIXES\tFIRST FIX\tLAST FIX\tMEAN INTERVAL\tMEDIAN INTERVAL")
	for _, c := range collars {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n",
			c.Serial,
			c.Fixes,
			c.FirstFix.Format(core.OutputTimeLayout),
			c.LastFix.Format(core.OutputTimeLayout),
			c.MeanInterval.Round(time.Second),
			c.MedianInterval.Round(time.Second),
		)
	}
	tw.Flush()
}

func sortedReasons(byReason map[core.ReasonCode]int) []core.ReasonCode {
	reasons := make([]core.ReasonCode, 0, len(byReason))
	for r := range byReason {
		reasons = append(reasons, r)
	}
	sort.Slice(reasons, func(i, j int) bool {
		return core.MessageFor(reasons[i]).Code < core.MessageFor(reasons[j]).Code
	})
	return reasons
}
