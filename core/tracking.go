package core

import (
	"fmt"
	"time"

	"github.com/huangsam/forecast/internal/contract"
	"github.com/huangsam/forecast/schema"
)

// runTracker records one run with the history store. Tracking failures are logged
// and never fail the run.
type runTracker struct {
	store contract.HistoryStore
	item  string
	runID int64
}

// beginRunTracking registers a run if a history store is configured.
func beginRunTracking(cfg *contract.Config, mgr contract.StoreManager, item string, simStart, simEnd time.Time) *runTracker {
	tr := &runTracker{item: item}
	if mgr == nil {
		return tr
	}
	store := mgr.GetHistoryStore()
	if store == nil {
		return tr
	}

	meta := schema.RunMeta{
		Scenario: cfg.Scenario.Name,
		Item:     item,
		SimStart: simStart,
		SimEnd:   simEnd,
	}
	configParams := map[string]any{
		"scenario_path": cfg.ScenarioPath,
		"item":          item,
		"start":         simStart.Format(time.RFC3339),
		"end":           simEnd.Format(time.RFC3339),
	}
	if cfg.HasTarget {
		configParams["target"] = cfg.Target
		configParams["max_horizon"] = cfg.MaxHorizon.String()
	}

	runID, err := store.BeginRun(time.Now(), meta, configParams)
	if err != nil {
		logTrackingError("BeginRun", item, err)
		return tr
	}
	tr.store = store
	tr.runID = runID
	return tr
}

// finish stores the samples and closes the run.
func (tr *runTracker) finish(samples []schema.Sample, final float64) {
	if tr.store == nil || tr.runID <= 0 {
		return
	}
	if err := tr.store.RecordSamples(tr.runID, samples); err != nil {
		logTrackingError("RecordSamples", tr.item, err)
	}
	if err := tr.store.EndRun(tr.runID, time.Now(), final, len(samples)); err != nil {
		logTrackingError("EndRun", tr.item, err)
	}
}

// fail closes a run that stopped with an error so it is not left open. No samples
// are stored; final is the value the item was left at.
func (tr *runTracker) fail(final float64) {
	if tr.store == nil || tr.runID <= 0 {
		return
	}
	if err := tr.store.EndRun(tr.runID, time.Now(), final, 0); err != nil {
		logTrackingError("EndRun", tr.item, err)
	}
}

// logTrackingError logs history tracking errors to stderr without disrupting the run.
func logTrackingError(operation, item string, err error) {
	contract.LogWarn(fmt.Sprintf("Run tracking failed for %s on %s", operation, item), err)
}
