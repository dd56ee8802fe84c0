// Package schema has the data models shared by all parts of forecast.
package schema

import "time"

// Sample is one (instant, value) point of a trajectory.
type Sample struct {
	Instant time.Time `json:"instant"`
	Value   float64   `json:"value"`
}

// Result is the trajectory recorded by one run: parallel instants and values,
// one pair per simulated tick. It is append-only while the run is in progress.
type Result struct {
	Item     string
	Instants []time.Time
	Values   []float64
}

// NewResult returns an empty trajectory for the named item.
func NewResult(item string) *Result {
	return &Result{Item: item}
}

// Add appends a sample.
func (r *Result) Add(t time.Time, v float64) {
	r.Instants = append(r.Instants, t)
	r.Values = append(r.Values, v)
}

// Len returns the number of samples.
func (r *Result) Len() int {
	return len(r.Values)
}

// Final returns the last recorded value, or 0 for an empty trajectory.
func (r *Result) Final() float64 {
	if len(r.Values) == 0 {
		return 0
	}
	return r.Values[len(r.Values)-1]
}

// Start returns the first instant, or the zero time for an empty trajectory.
func (r *Result) Start() time.Time {
	if len(r.Instants) == 0 {
		return time.Time{}
	}
	return r.Instants[0]
}

// End returns the last instant, or the zero time for an empty trajectory.
func (r *Result) End() time.Time {
	if len(r.Instants) == 0 {
		return time.Time{}
	}
	return r.Instants[len(r.Instants)-1]
}

// PlotAxes returns copies of the x (instants) and y (values) axes.
func (r *Result) PlotAxes() ([]time.Time, []float64) {
	return append([]time.Time(nil), r.Instants...), append([]float64(nil), r.Values...)
}

// Samples returns the trajectory as a slice of points.
func (r *Result) Samples() []Sample {
	out := make([]Sample, len(r.Values))
	for i := range r.Values {
		out[i] = Sample{Instant: r.Instants[i], Value: r.Values[i]}
	}
	return out
}

// Min returns the smallest recorded value, or 0 for an empty trajectory.
func (r *Result) Min() float64 {
	if len(r.Values) == 0 {
		return 0
	}
	lo := r.Values[0]
	for _, v := range r.Values[1:] {
		lo = min(lo, v)
	}
	return lo
}

// Max returns the largest recorded value, or 0 for an empty trajectory.
func (r *Result) Max() float64 {
	if len(r.Values) == 0 {
		return 0
	}
	hi := r.Values[0]
	for _, v := range r.Values[1:] {
		hi = max(hi, v)
	}
	return hi
}
