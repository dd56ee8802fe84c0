package schema

import "time"

// RunOutput is the outcome of running one or more items of a scenario.
type RunOutput struct {
	Scenario string    `json:"scenario"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Items    []*Result `json:"-"`
}

// ItemSummary condenses one trajectory for tables and JSON.
type ItemSummary struct {
	Item    string    `json:"item"`
	Initial float64   `json:"initial"`
	Final   float64   `json:"final"`
	Change  float64   `json:"change"`
	Min     float64   `json:"min"`
	Max     float64   `json:"max"`
	Samples int       `json:"samples"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

// ItemTrajectory is the JSON form of one trajectory.
type ItemTrajectory struct {
	ItemSummary
	Trajectory []Sample `json:"trajectory"`
}

// Summarize builds the summary of one trajectory.
func Summarize(r *Result) ItemSummary {
	var initial float64
	if r.Len() > 0 {
		initial = r.Values[0]
	}
	return ItemSummary{
		Item:    r.Item,
		Initial: initial,
		Final:   r.Final(),
		Change:  r.Final() - initial,
		Min:     r.Min(),
		Max:     r.Max(),
		Samples: r.Len(),
		Start:   r.Start(),
		End:     r.End(),
	}
}

// UntilOutput is the outcome of a time-to-target search.
type UntilOutput struct {
	Scenario string        `json:"scenario"`
	Item     string        `json:"item"`
	Initial  float64       `json:"initial"`
	Target   float64       `json:"target"`
	Anchor   time.Time     `json:"anchor"`
	Reached  time.Time     `json:"reached"`
	Elapsed  time.Duration `json:"elapsed_ns"`
	Days     float64       `json:"days"`
	Final    float64       `json:"final"`
}

// ScheduleOutput is a materialized schedule.
type ScheduleOutput struct {
	Spec         string      `json:"spec"`
	Kind         string      `json:"kind"`
	Start        time.Time   `json:"start"`
	End          time.Time   `json:"end"`
	IncludeStart bool        `json:"include_start"`
	Occurrences  []time.Time `json:"occurrences"`
}

// RunDocument is the JSON form of a RunOutput.
type RunDocument struct {
	Scenario string           `json:"scenario"`
	Start    time.Time        `json:"start"`
	End      time.Time        `json:"end"`
	Items    []ItemTrajectory `json:"items"`
}

// Document converts the run into its JSON form.
func (o RunOutput) Document() RunDocument {
	doc := RunDocument{
		Scenario: o.Scenario,
		Start:    o.Start,
		End:      o.End,
		Items:    make([]ItemTrajectory, 0, len(o.Items)),
	}
	for _, r := range o.Items {
		doc.Items = append(doc.Items, ItemTrajectory{ItemSummary: Summarize(r), Trajectory: r.Samples()})
	}
	return doc
}
