package outwriter

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/huangsam/forecast/internal/contract"
	"github.com/huangsam/forecast/internal/parquet"
	"github.com/huangsam/forecast/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Trajectory tables longer than this show only the head and tail.
const (
	maxTrajectoryRows = 40
	trajectoryEdge    = maxTrajectoryRows / 2
)

// WriteRunResults outputs simulated trajectories, dispatching based on the output format configured.
func WriteRunResults(out schema.RunOutput, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRunJSON(w, out)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRunCSV(w, out, cfg.Separator)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		rows := parquet.ConvertResults(out.Items)
		if err := parquet.WriteTrajectoriesParquet(rows, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		_, _ = fmt.Fprintf(os.Stderr, "💾 Wrote %d samples to %s\n", len(rows), cfg.OutputFile)
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRunTable(w, out, cfg, duration)
		}, "Wrote table")
	}
	return nil
}

// writeRunTable writes the summary table followed by one trajectory table per item.
func writeRunTable(w io.Writer, out schema.RunOutput, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatter(cfg.Precision)
	nameWidth := GetMaxTableNameWidth(cfg)

	summary := tablewriter.NewWriter(w)
	summary.Header([]string{"Item", "Initial", "Final", "Change", "Min", "Max", "Samples", "Trend"})
	summary.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range out.Items {
		s := schema.Summarize(r)
		trend := contract.GetPlainLabel(s.Change)
		if cfg.UseColors {
			trend = contract.GetColorLabel(s.Change)
		}
		data = append(data, []string{
			contract.TruncateText(s.Item, nameWidth),
			fmtFloat(s.Initial),
			fmtFloat(s.Final),
			fmtFloat(s.Change),
			fmtFloat(s.Min),
			fmtFloat(s.Max),
			strconv.Itoa(s.Samples),
			trend,
		})
	}
	if err := summary.Bulk(data); err != nil {
		return err
	}
	if err := summary.Render(); err != nil {
		return err
	}

	for _, r := range out.Items {
		_, _ = fmt.Fprintf(w, "\n%s\n", header("📈", r.Item, cfg.UseEmojis))
		if err := writeTrajectoryTable(w, r, fmtFloat); err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintf(w, "Simulated %d item(s) from %s to %s in %v.\n",
		len(out.Items), formatInstant(out.Start), formatInstant(out.End), duration)
	return nil
}

// writeTrajectoryTable prints one item's samples, eliding the middle of long runs.
func writeTrajectoryTable(w io.Writer, r *schema.Result, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "Instant", "Value"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	row := func(i int) []string {
		return []string{strconv.Itoa(i), formatInstant(r.Instants[i]), fmtFloat(r.Values[i])}
	}

	var data [][]string
	n := r.Len()
	if n <= maxTrajectoryRows {
		for i := range n {
			data = append(data, row(i))
		}
	} else {
		for i := range trajectoryEdge {
			data = append(data, row(i))
		}
		data = append(data, []string{"...", fmt.Sprintf("(%d more)", n-2*trajectoryEdge), "..."})
		for i := n - trajectoryEdge; i < n; i++ {
			data = append(data, row(i))
		}
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
