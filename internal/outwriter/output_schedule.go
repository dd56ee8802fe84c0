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

// WriteScheduleResults outputs materialized schedules, dispatching based on the output format configured.
func WriteScheduleResults(out []schema.ScheduleOutput, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, out)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScheduleCSV(w, out, cfg.Separator)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		rows := parquet.ConvertSchedules(out)
		if err := parquet.WriteOccurrencesParquet(rows, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		_, _ = fmt.Fprintf(os.Stderr, "💾 Wrote %d occurrences to %s\n", len(rows), cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScheduleTable(w, out, cfg, duration)
		}, "Wrote table")
	}
	return nil
}

// writeScheduleTable prints one table per schedule with the offset of each instant from the start.
func writeScheduleTable(w io.Writer, out []schema.ScheduleOutput, cfg *contract.Config, duration time.Duration) error {
	for _, sc := range out {
		_, _ = fmt.Fprintf(w, "%s\n", header("🗓️ ", fmt.Sprintf("%s (%s): %d occurrence(s)", sc.Spec, sc.Kind, len(sc.Occurrences)), cfg.UseEmojis))

		table := tablewriter.NewWriter(w)
		table.Header([]string{"#", "Instant", "Weekday", "Since Start"})
		table.Configure(func(c *tablewriter.Config) {
			c.Row.Alignment.Global = tw.AlignRight
		})

		data := make([][]string, 0, len(sc.Occurrences))
		for i, t := range sc.Occurrences {
			data = append(data, []string{
				strconv.Itoa(i),
				formatInstant(t),
				t.Weekday().String()[:3],
				t.Sub(sc.Start).String(),
			})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintf(w, "Generated %d schedule(s) in %v.\n", len(out), duration)
	return nil
}

// writeScheduleCSV writes one instant per line. With several schedules, each
// line is prefixed with its spec.
func writeScheduleCSV(w io.Writer, out []schema.ScheduleOutput, sep string) error {
	dw := newDelimitedWriter(w, sep)
	multi := len(out) > 1
	for _, sc := range out {
		for _, t := range sc.Occurrences {
			if multi {
				dw.Write(sc.Spec, formatInstant(t))
			} else {
				dw.Write(formatInstant(t))
			}
		}
	}
	return dw.Flush()
}
