package outwriter

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/forecast/internal/contract"
	"github.com/huangsam/forecast/internal/parquet"
	"github.com/huangsam/forecast/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteUntilResult outputs a time-to-target outcome, dispatching based on the output format configured.
func WriteUntilResult(out schema.UntilOutput, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, out)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeUntilCSV(w, out, cfg.Separator)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteReachParquet(parquet.ConvertUntil(out), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		_, _ = fmt.Fprintf(os.Stderr, "💾 Wrote time-to-target result to %s\n", cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeUntilTable(w, out, cfg, duration)
		}, "Wrote table")
	}
	return nil
}

// writeUntilTable prints the outcome as a two-column key/value table.
func writeUntilTable(w io.Writer, out schema.UntilOutput, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatter(cfg.Precision)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Field", "Value"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignLeft
	})

	data := [][]string{
		{"Item", out.Item},
		{"Initial", fmtFloat(out.Initial)},
		{"Target", fmtFloat(out.Target)},
		{"Final", fmtFloat(out.Final)},
		{"Anchor", formatInstant(out.Anchor)},
		{"Reached", formatInstant(out.Reached)},
		{"Elapsed", out.Elapsed.String()},
		{"Days", fmtFloat(out.Days)},
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w, "Target search completed in %v.\n", duration)
	return nil
}

// writeUntilCSV writes a header line and one record for the outcome.
func writeUntilCSV(w io.Writer, out schema.UntilOutput, sep string) error {
	dw := newDelimitedWriter(w, sep)
	dw.Write("item", "initial", "target", "final", "reached", "elapsed_seconds", "days")
	dw.Write(
		out.Item,
		contract.FormatExact(out.Initial),
		contract.FormatExact(out.Target),
		contract.FormatExact(out.Final),
		formatInstant(out.Reached),
		contract.FormatExact(out.Elapsed.Seconds()),
		contract.FormatExact(out.Days),
	)
	return dw.Flush()
}
