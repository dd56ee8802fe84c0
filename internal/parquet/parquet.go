// Package parquet provides data structures and functions for exporting forecast
// trajectories and run history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/forecast/schema"
	"github.com/parquet-go/parquet-go"
)

// Run represents a single recorded simulation run.
// This struct maps to the forecast_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// StartedAt is the wall-clock time the run began
	StartedAt time.Time `parquet:"started_at,snappy"`

	// FinishedAt is the wall-clock time the run completed (nullable)
	FinishedAt *time.Time `parquet:"finished_at,optional,snappy"`

	// RunDurationMs is the wall-clock duration in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	Scenario string `parquet:"scenario,snappy,dict"`
	ItemName string `parquet:"item_name,snappy,dict"`

	// SimStart and SimEnd bound the simulated window
	SimStart time.Time `parquet:"sim_start,snappy"`
	SimEnd   time.Time `parquet:"sim_end,snappy"`

	// FinalValue is the item value after the last tick (nullable for unfinished runs)
	FinalValue *float64 `parquet:"final_value,optional,snappy"`

	SampleCount int32 `parquet:"sample_count,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// Sample is one recorded trajectory point of a run.
// This struct maps to the forecast_samples database table.
type Sample struct {
	RunID   int64     `parquet:"run_id,snappy"`
	Seq     int32     `parquet:"seq,snappy"`
	Instant time.Time `parquet:"instant,snappy"`
	Value   float64   `parquet:"value,snappy"`
}

// TrajectoryPoint is one row of a trajectory written by `run --output parquet`.
type TrajectoryPoint struct {
	Item    string    `parquet:"item,snappy,dict"`
	Instant time.Time `parquet:"instant,snappy"`
	Value   float64   `parquet:"value,snappy"`
}

// Occurrence is one instant of a materialized schedule.
type Occurrence struct {
	Spec    string    `parquet:"spec,snappy,dict"`
	Seq     int32     `parquet:"seq,snappy"`
	Instant time.Time `parquet:"instant,snappy"`
}

// Reach is the outcome of a time-to-target search.
type Reach struct {
	Item       string    `parquet:"item,snappy"`
	Initial    float64   `parquet:"initial,snappy"`
	Target     float64   `parquet:"target,snappy"`
	Anchor     time.Time `parquet:"anchor,snappy"`
	Reached    time.Time `parquet:"reached,snappy"`
	ElapsedSec float64   `parquet:"elapsed_sec,snappy"`
	Final      float64   `parquet:"final,snappy"`
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteSamplesParquet writes a slice of Sample structs to a Parquet file.
func WriteSamplesParquet(data []Sample, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteTrajectoriesParquet writes trajectory points to a Parquet file.
func WriteTrajectoriesParquet(data []TrajectoryPoint, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteOccurrencesParquet writes schedule occurrences to a Parquet file.
func WriteOccurrencesParquet(data []Occurrence, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteReachParquet writes a single time-to-target outcome to a Parquet file.
func WriteReachParquet(data Reach, outputPath string) error {
	return writeParquet([]Reach{data}, outputPath)
}

// writeParquet creates outputPath and writes all rows with a schema inferred from T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	// Close flushes the footer, so its error matters
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:         record.RunID,
			StartedAt:     record.StartedAt,
			FinishedAt:    record.FinishedAt,
			RunDurationMs: record.RunDurationMs,
			Scenario:      record.Scenario,
			ItemName:      record.ItemName,
			SimStart:      record.SimStart,
			SimEnd:        record.SimEnd,
			FinalValue:    record.FinalValue,
			SampleCount:   record.SampleCount,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertSampleRecords converts schema.SampleRecord to Sample for Parquet export.
func ConvertSampleRecords(records []schema.SampleRecord) []Sample {
	result := make([]Sample, len(records))
	for i, record := range records {
		result[i] = Sample{
			RunID:   record.RunID,
			Seq:     record.Seq,
			Instant: record.Instant,
			Value:   record.Value,
		}
	}
	return result
}

// ConvertResults flattens trajectories into rows, item by item.
func ConvertResults(results []*schema.Result) []TrajectoryPoint {
	var n int
	for _, r := range results {
		n += r.Len()
	}
	out := make([]TrajectoryPoint, 0, n)
	for _, r := range results {
		for i := range r.Values {
			out = append(out, TrajectoryPoint{Item: r.Item, Instant: r.Instants[i], Value: r.Values[i]})
		}
	}
	return out
}

// ConvertSchedules flattens materialized schedules into rows, numbering each schedule from 0.
func ConvertSchedules(schedules []schema.ScheduleOutput) []Occurrence {
	var out []Occurrence
	for _, sc := range schedules {
		for i, t := range sc.Occurrences {
			out = append(out, Occurrence{Spec: sc.Spec, Seq: int32(i), Instant: t})
		}
	}
	return out
}

// ConvertUntil converts a time-to-target outcome for Parquet export.
func ConvertUntil(u schema.UntilOutput) Reach {
	return Reach{
		Item:       u.Item,
		Initial:    u.Initial,
		Target:     u.Target,
		Anchor:     u.Anchor,
		Reached:    u.Reached,
		ElapsedSec: u.Elapsed.Seconds(),
		Final:      u.Final,
	}
}
