package schema_test

import (
	"testing"
	"time"

	"github.com/huangsam/forecast/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func TestResult_Empty(t *testing.T) {
	r := schema.NewResult("empty")
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 0.0, r.Final())
	assert.Equal(t, 0.0, r.Min())
	assert.Equal(t, 0.0, r.Max())
	assert.True(t, r.Start().IsZero())
	assert.True(t, r.End().IsZero())
	assert.Empty(t, r.Samples())
}

func TestResult_AddAndStats(t *testing.T) {
	r := schema.NewResult("x")
	r.Add(t0, 3)
	r.Add(t0.AddDate(0, 0, 1), -1)
	r.Add(t0.AddDate(0, 0, 2), 7)

	assert.Equal(t, 3, r.Len())
	assert.Equal(t, 7.0, r.Final())
	assert.Equal(t, -1.0, r.Min())
	assert.Equal(t, 7.0, r.Max())
	assert.Equal(t, t0, r.Start())
	assert.Equal(t, t0.AddDate(0, 0, 2), r.End())

	samples := r.Samples()
	require.Len(t, samples, 3)
	assert.Equal(t, schema.Sample{Instant: t0.AddDate(0, 0, 1), Value: -1}, samples[1])
}

func TestResult_PlotAxesAreCopies(t *testing.T) {
	r := schema.NewResult("x")
	r.Add(t0, 1)

	xs, ys := r.PlotAxes()
	xs[0] = time.Time{}
	ys[0] = 99

	assert.Equal(t, t0, r.Instants[0])
	assert.Equal(t, 1.0, r.Values[0])
}
