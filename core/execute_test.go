package core

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/forecast/core/schedule"
	"github.com/huangsam/forecast/internal/contract"
	"github.com/huangsam/forecast/internal/iocache"
	"github.com/huangsam/forecast/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const budgetScenario = `
name: budget
items:
  - name: savings
    value: 100
    patterns:
      - operator: add
        schedule: 1d
        impact: 10
  - name: debt
    value: 500
    patterns:
      - operator: subtract
        schedule: 1d
        impact: 20
`

func budgetConfig(t *testing.T) *contract.Config {
	t.Helper()
	sc, err := contract.ParseScenario([]byte(budgetScenario))
	require.NoError(t, err)
	return &contract.Config{
		ScenarioPath: "budget.yaml",
		Scenario:     sc,
		StartTime:    mayStart,
		EndTime:      mayEnd,
		MaxHorizon:   schedule.Months(12),
		Precision:    2,
		Output:       schema.TextOut,
		Separator:    ";",
	}
}

// noTracking returns a manager without a history store.
func noTracking() *iocache.MockStoreManager {
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetHistoryStore").Return(nil)
	return mgr
}

func TestGetRunResults_AllItems(t *testing.T) {
	cfg := budgetConfig(t)
	out, err := GetRunResults(WithSuppressHeader(context.Background()), cfg, noTracking())
	require.NoError(t, err)

	assert.Equal(t, "budget", out.Scenario)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "savings", out.Items[0].Item)
	assert.Equal(t, 190.0, out.Items[0].Final())
	assert.Equal(t, 10, out.Items[0].Len())
	assert.Equal(t, 320.0, out.Items[1].Final())
}

func TestGetRunResults_SingleItem(t *testing.T) {
	cfg := budgetConfig(t)
	cfg.Item = "debt"
	out, err := GetRunResults(WithSuppressHeader(context.Background()), cfg, nil)
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "debt", out.Items[0].Item)
}

func TestGetRunResults_Errors(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())

	cfg := budgetConfig(t)
	cfg.Scenario = nil
	_, err := GetRunResults(ctx, cfg, nil)
	assert.ErrorIs(t, err, ErrScenarioRequired)

	cfg = budgetConfig(t)
	cfg.EndTime = time.Time{}
	_, err = GetRunResults(ctx, cfg, nil)
	assert.ErrorIs(t, err, ErrTimeRangeRequired)

	cfg = budgetConfig(t)
	cfg.Item = "missing"
	_, err = GetRunResults(ctx, cfg, nil)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestGetRunResults_RecordsHistory(t *testing.T) {
	cfg := budgetConfig(t)
	cfg.Item = "savings"

	store := &iocache.MockHistoryStore{}
	store.On("BeginRun", mock.Anything, mock.MatchedBy(func(m schema.RunMeta) bool {
		return m.Scenario == "budget" && m.Item == "savings" && m.SimStart.Equal(mayStart)
	}), mock.Anything).Return(int64(7), nil)
	store.On("RecordSamples", int64(7), mock.MatchedBy(func(s []schema.Sample) bool {
		return len(s) == 10 && s[9].Value == 190
	})).Return(nil)
	store.On("EndRun", int64(7), mock.Anything, 190.0, 10).Return(nil)

	mgr := &iocache.MockStoreManager{}
	mgr.On("GetHistoryStore").Return(store)

	_, err := GetRunResults(WithSuppressHeader(context.Background()), cfg, mgr)
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestGetRunResults_TrackingFailureIsNotFatal(t *testing.T) {
	cfg := budgetConfig(t)
	cfg.Item = "savings"

	store := &iocache.MockHistoryStore{}
	store.On("BeginRun", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), errors.New("db down"))
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetHistoryStore").Return(store)

	out, err := GetRunResults(WithSuppressHeader(context.Background()), cfg, mgr)
	require.NoError(t, err)
	assert.Equal(t, 190.0, out.Items[0].Final())
	store.AssertNotCalled(t, "RecordSamples", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "EndRun", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetRunResults_FailedRunIsClosed(t *testing.T) {
	sc, err := contract.ParseScenario([]byte(`
name: broken
items:
  - name: ratio
    value: 100
    patterns:
      - operator: divide
        schedule: 1d
        impact: 0
        children:
          - operator: add
            schedule: 1w
            impact: 1
`))
	require.NoError(t, err)
	cfg := budgetConfig(t)
	cfg.Scenario = sc

	store := &iocache.MockHistoryStore{}
	store.On("BeginRun", mock.Anything, mock.Anything, mock.Anything).Return(int64(3), nil)
	store.On("EndRun", int64(3), mock.Anything, 100.0, 0).Return(nil)
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetHistoryStore").Return(store)

	_, err = GetRunResults(WithSuppressHeader(context.Background()), cfg, mgr)
	assert.ErrorIs(t, err, ErrDivisionByZero)
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "RecordSamples", mock.Anything, mock.Anything)
}

func TestGetUntilResult_FailedSearchIsClosed(t *testing.T) {
	cfg := budgetConfig(t)
	cfg.Item = "debt"
	cfg.Target = 1000
	cfg.HasTarget = true

	store := &iocache.MockHistoryStore{}
	store.On("BeginRun", mock.Anything, mock.MatchedBy(func(m schema.RunMeta) bool {
		return m.Item == "debt"
	}), mock.Anything).Return(int64(9), nil)
	store.On("EndRun", int64(9), mock.Anything, 500.0, 0).Return(nil)
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetHistoryStore").Return(store)

	_, err := GetUntilResult(WithSuppressHeader(context.Background()), cfg, mgr)
	assert.ErrorIs(t, err, ErrUnreachableTarget)
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "RecordSamples", mock.Anything, mock.Anything)
}

func TestGetUntilResult(t *testing.T) {
	cfg := budgetConfig(t)
	cfg.Target = 150
	cfg.HasTarget = true

	out, err := GetUntilResult(WithSuppressHeader(context.Background()), cfg, noTracking())
	require.NoError(t, err)
	assert.Equal(t, "savings", out.Item)
	assert.Equal(t, 120*time.Hour, out.Elapsed)
	assert.Equal(t, 5.0, out.Days)
	assert.Equal(t, UntilAnchor.AddDate(0, 0, 5), out.Reached)
	assert.Equal(t, 150.0, out.Final)
	assert.Equal(t, 100.0, out.Initial)
}

func TestGetUntilResult_Errors(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())

	cfg := budgetConfig(t)
	_, err := GetUntilResult(ctx, cfg, nil)
	assert.ErrorIs(t, err, ErrTargetRequired)

	cfg.Item = "debt"
	cfg.Target = 1000
	cfg.HasTarget = true
	_, err = GetUntilResult(ctx, cfg, nil)
	assert.ErrorIs(t, err, ErrUnreachableTarget)
}

func TestGetScheduleResults(t *testing.T) {
	cfg := budgetConfig(t)
	cfg.ScheduleSpecs = []string{"2d", "1d|2d", "0 0 * * *", "monthly"}

	out, err := GetScheduleResults(WithSuppressHeader(context.Background()), cfg)
	require.NoError(t, err)
	require.Len(t, out, 4)

	assert.Equal(t, "interval", out[0].Kind)
	assert.Equal(t, []time.Time{day(2024, 5, 3), day(2024, 5, 5), day(2024, 5, 7), day(2024, 5, 9)}, out[0].Occurrences)

	assert.Equal(t, "alternating", out[1].Kind)
	assert.Equal(t, []time.Time{day(2024, 5, 2), day(2024, 5, 4), day(2024, 5, 5), day(2024, 5, 7), day(2024, 5, 8), day(2024, 5, 10)}, out[1].Occurrences)

	assert.Equal(t, "cron", out[2].Kind)
	assert.Len(t, out[2].Occurrences, 9)

	assert.Equal(t, "monthly", out[3].Kind)
	assert.Empty(t, out[3].Occurrences)
}

func TestGetScheduleResults_Dates(t *testing.T) {
	cfg := budgetConfig(t)
	cfg.ScheduleSpecs = []string{"2024-5-9", "2024-5-2", "2024-6-1"}

	out, err := GetScheduleResults(WithSuppressHeader(context.Background()), cfg)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "dates", out[0].Kind)
	assert.Equal(t, []time.Time{day(2024, 5, 9), day(2024, 5, 2)}, out[0].Occurrences)
}

func TestGetScheduleResults_Errors(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())

	cfg := budgetConfig(t)
	_, err := GetScheduleResults(ctx, cfg)
	assert.ErrorIs(t, err, ErrSpecRequired)

	cfg.ScheduleSpecs = []string{"3x"}
	_, err = GetScheduleResults(ctx, cfg)
	assert.ErrorIs(t, err, schedule.ErrInvalidIntervalFormat)

	cfg.ScheduleSpecs = []string{"61 * * * *"}
	_, err = GetScheduleResults(ctx, cfg)
	assert.ErrorIs(t, err, schedule.ErrInvalidCronExpression)
}

func TestExecuteRun_WritesJSON(t *testing.T) {
	cfg := budgetConfig(t)
	cfg.Output = schema.JSONOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "run.json")

	require.NoError(t, ExecuteRun(context.Background(), cfg, noTracking()))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	var doc schema.RunDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Items, 2)
	assert.Equal(t, 190.0, doc.Items[0].Final)
}

func TestExecuteUntilAndSchedule_WriteCSV(t *testing.T) {
	dir := t.TempDir()

	cfg := budgetConfig(t)
	cfg.Output = schema.CSVOut
	cfg.Target = 150
	cfg.HasTarget = true
	cfg.OutputFile = filepath.Join(dir, "until.csv")
	require.NoError(t, ExecuteUntil(context.Background(), cfg, noTracking()))
	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "savings;100;150;150;2025-01-06 00:00:00;432000;5")

	cfg.ScheduleSpecs = []string{"3d"}
	cfg.OutputFile = filepath.Join(dir, "schedule.csv")
	require.NoError(t, ExecuteSchedule(context.Background(), cfg, nil))
	data, err = os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-04 00:00:00\n2024-05-07 00:00:00\n2024-05-10 00:00:00\n", string(data))
}

func TestShowHeader(t *testing.T) {
	cfg := budgetConfig(t)
	assert.True(t, showHeader(context.Background(), cfg))
	assert.False(t, showHeader(WithSuppressHeader(context.Background()), cfg))

	cfg.Output = schema.CSVOut
	assert.False(t, showHeader(context.Background(), cfg))
}
