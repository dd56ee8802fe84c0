package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/forecast/core/schedule"
	"github.com/huangsam/forecast/internal/contract"
	"github.com/huangsam/forecast/internal/outwriter"
	"github.com/huangsam/forecast/schema"
)

// ExecutorFunc defines the function signature for executing the different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// ExecuteRun simulates the scenario over the configured window and prints the trajectories.
// It serves as the main entry point for the 'run' command.
func ExecuteRun(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	out, err := GetRunResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteRun(out, cfg, time.Since(start))
}

// ExecuteUntil searches for the time an item needs to reach the target and prints it.
// It serves as the main entry point for the 'until' command.
func ExecuteUntil(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	out, err := GetUntilResult(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteUntil(out, cfg, time.Since(start))
}

// ExecuteSchedule materializes the requested schedule specs and prints them.
// It serves as the main entry point for the 'schedule' command.
func ExecuteSchedule(ctx context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	start := time.Now()
	out, err := GetScheduleResults(ctx, cfg)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteSchedules(out, cfg, time.Since(start))
}

// GetRunResults runs the selected items (all of them unless cfg.Item is set) and
// records each run with the history store.
func GetRunResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.RunOutput, error) {
	if cfg.Scenario == nil {
		return schema.RunOutput{}, ErrScenarioRequired
	}
	if cfg.StartTime.IsZero() || cfg.EndTime.IsZero() {
		return schema.RunOutput{}, ErrTimeRangeRequired
	}

	items, err := selectItems(cfg)
	if err != nil {
		return schema.RunOutput{}, err
	}

	if showHeader(ctx, cfg) {
		printRunHeader(cfg, items)
	}

	out := schema.RunOutput{
		Scenario: cfg.Scenario.Name,
		Start:    cfg.StartTime,
		End:      cfg.EndTime,
		Items:    make([]*schema.Result, 0, len(items)),
	}
	for _, it := range items {
		tr := beginRunTracking(cfg, mgr, it.Name(), cfg.StartTime, cfg.EndTime)
		res, err := it.Run(cfg.StartTime, cfg.EndTime)
		if err != nil {
			tr.fail(it.Value())
			return schema.RunOutput{}, fmt.Errorf("item '%s': %w", it.Name(), err)
		}
		tr.finish(res.Samples(), res.Final())
		out.Items = append(out.Items, res)
	}
	return out, nil
}

// GetUntilResult runs the time-to-target search for one item. Without cfg.Item the
// first item of the scenario is used.
func GetUntilResult(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.UntilOutput, error) {
	if cfg.Scenario == nil {
		return schema.UntilOutput{}, ErrScenarioRequired
	}
	if !cfg.HasTarget {
		return schema.UntilOutput{}, ErrTargetRequired
	}

	items, err := selectItems(cfg)
	if err != nil {
		return schema.UntilOutput{}, err
	}
	it := items[0]

	if showHeader(ctx, cfg) {
		printUntilHeader(cfg, it)
	}

	horizon := cfg.MaxHorizon
	if horizon.IsZero() {
		horizon = DefaultMaxHorizon
	}
	tr := beginRunTracking(cfg, mgr, it.Name(), UntilAnchor, horizon.AddTo(UntilAnchor))
	elapsed, err := it.UntilWithin(cfg.Target, horizon)
	if err != nil {
		tr.fail(it.Value())
		return schema.UntilOutput{}, fmt.Errorf("item '%s': %w", it.Name(), err)
	}
	reached := UntilAnchor.Add(elapsed)
	tr.finish([]schema.Sample{{Instant: reached, Value: it.Value()}}, it.Value())

	return schema.UntilOutput{
		Scenario: cfg.Scenario.Name,
		Item:     it.Name(),
		Initial:  it.Initial(),
		Target:   cfg.Target,
		Anchor:   UntilAnchor,
		Reached:  reached,
		Elapsed:  elapsed,
		Days:     elapsed.Hours() / 24,
		Final:    it.Value(),
	}, nil
}

// GetScheduleResults materializes every configured spec over the configured window.
// When every spec is a date, they form a single explicit-date schedule. A spec of
// intervals joined by '|' alternates between them.
func GetScheduleResults(ctx context.Context, cfg *contract.Config) ([]schema.ScheduleOutput, error) {
	if len(cfg.ScheduleSpecs) == 0 {
		return nil, ErrSpecRequired
	}
	if cfg.StartTime.IsZero() || cfg.EndTime.IsZero() {
		return nil, ErrTimeRangeRequired
	}

	specs, labels := parseScheduleSpecs(cfg.ScheduleSpecs)
	if showHeader(ctx, cfg) {
		printScheduleHeader(cfg, len(specs))
	}

	out := make([]schema.ScheduleOutput, 0, len(specs))
	for i, spec := range specs {
		if err := spec.Validate(); err != nil {
			return nil, fmt.Errorf("spec '%s': %w", labels[i], err)
		}
		times, err := schedule.Generate(spec, cfg.StartTime, cfg.EndTime, cfg.IncludeStart)
		if err != nil {
			return nil, fmt.Errorf("spec '%s': %w", labels[i], err)
		}
		out = append(out, schema.ScheduleOutput{
			Spec:         labels[i],
			Kind:         spec.Kind().String(),
			Start:        cfg.StartTime,
			End:          cfg.EndTime,
			IncludeStart: cfg.IncludeStart,
			Occurrences:  times,
		})
	}
	return out, nil
}

// parseScheduleSpecs turns command-line specs into schedule specs and display labels.
func parseScheduleSpecs(raw []string) ([]schedule.Spec, []string) {
	allDates := true
	for _, s := range raw {
		if _, err := schedule.ParseDate(s); err != nil {
			allDates = false
			break
		}
	}
	if allDates {
		return []schedule.Spec{schedule.ParseList(raw)}, []string{strings.Join(raw, ",")}
	}

	specs := make([]schedule.Spec, 0, len(raw))
	for _, s := range raw {
		if strings.Contains(s, "|") {
			var parts []string
			for part := range strings.SplitSeq(s, "|") {
				parts = append(parts, strings.TrimSpace(part))
			}
			specs = append(specs, schedule.Alternating(parts...))
			continue
		}
		specs = append(specs, schedule.Parse(s))
	}
	return specs, append([]string(nil), raw...)
}

// selectItems builds the scenario and returns the item named by cfg.Item, or every item.
func selectItems(cfg *contract.Config) ([]*Item, error) {
	coll, err := BuildCollection(cfg.Scenario)
	if err != nil {
		return nil, fmt.Errorf("scenario '%s': %w", cfg.Scenario.Name, err)
	}
	if cfg.Item == "" {
		return coll.Items(), nil
	}
	it, err := coll.Find(cfg.Item)
	if err != nil {
		return nil, err
	}
	return []*Item{it}, nil
}

// showHeader reports whether a run header goes to stdout. Only the text output
// gets one so CSV and JSON stay machine-readable.
func showHeader(ctx context.Context, cfg *contract.Config) bool {
	return !shouldSuppressHeader(ctx) && cfg.Output == schema.TextOut && cfg.OutputFile == ""
}

func printRunHeader(cfg *contract.Config, items []*Item) {
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name()
	}
	if cfg.UseEmojis {
		fmt.Printf("🔎 Scenario: %s (Items: %s)\n", cfg.Scenario.Name, strings.Join(names, ", "))
		fmt.Printf("📅 Range: %s → %s\n", cfg.StartTime.Format(contract.DateTimeFormat), cfg.EndTime.Format(contract.DateTimeFormat))
		return
	}
	fmt.Printf("Scenario: %s (Items: %s)\n", cfg.Scenario.Name, strings.Join(names, ", "))
	fmt.Printf("Range: %s -> %s\n", cfg.StartTime.Format(contract.DateTimeFormat), cfg.EndTime.Format(contract.DateTimeFormat))
}

func printUntilHeader(cfg *contract.Config, it *Item) {
	if cfg.UseEmojis {
		fmt.Printf("🔎 Scenario: %s (Item: %s)\n", cfg.Scenario.Name, it.Name())
		fmt.Printf("🎯 Target: %s (Horizon: %s)\n", contract.FormatExact(cfg.Target), cfg.MaxHorizon)
		return
	}
	fmt.Printf("Scenario: %s (Item: %s)\n", cfg.Scenario.Name, it.Name())
	fmt.Printf("Target: %s (Horizon: %s)\n", contract.FormatExact(cfg.Target), cfg.MaxHorizon)
}

func printScheduleHeader(cfg *contract.Config, n int) {
	prefix := "Range"
	if cfg.UseEmojis {
		prefix = "📅 Range"
	}
	fmt.Printf("%s: %s → %s (%d spec(s))\n", prefix,
		cfg.StartTime.Format(contract.DateTimeFormat), cfg.EndTime.Format(contract.DateTimeFormat), n)
}
