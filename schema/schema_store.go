package schema

import "time"

// RunMeta describes a run when it is registered with the history store.
type RunMeta struct {
	Scenario string
	Item     string
	SimStart time.Time
	SimEnd   time.Time
}

// RunRecord represents a row from the forecast_runs table.
type RunRecord struct {
	RunID         int64
	StartedAt     time.Time
	FinishedAt    *time.Time
	RunDurationMs *int32
	Scenario      string
	ItemName      string
	SimStart      time.Time
	SimEnd        time.Time
	FinalValue    *float64
	SampleCount   int32
	ConfigParams  *string
}

// SampleRecord represents a row from the forecast_samples table.
type SampleRecord struct {
	RunID   int64
	Seq     int32
	Instant time.Time
	Value   float64
}
