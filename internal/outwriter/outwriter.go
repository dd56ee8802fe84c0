// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/forecast/internal/contract"
	"github.com/huangsam/forecast/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteRun prints simulated trajectories using the configured output format.
func (ow *OutWriter) WriteRun(out schema.RunOutput, cfg *contract.Config, duration time.Duration) error {
	return WriteRunResults(out, cfg, duration)
}

// WriteUntil prints a time-to-target outcome using the configured output format.
func (ow *OutWriter) WriteUntil(out schema.UntilOutput, cfg *contract.Config, duration time.Duration) error {
	return WriteUntilResult(out, cfg, duration)
}

// WriteSchedules prints materialized schedules using the configured output format.
func (ow *OutWriter) WriteSchedules(out []schema.ScheduleOutput, cfg *contract.Config, duration time.Duration) error {
	return WriteScheduleResults(out, cfg, duration)
}
