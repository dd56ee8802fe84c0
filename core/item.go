package core

import (
	"fmt"
	"time"

	"github.com/huangsam/forecast/core/schedule"
	"github.com/huangsam/forecast/schema"
)

// UntilAnchor is the synthetic instant every Until search starts from.
var UntilAnchor = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// DefaultMaxHorizon bounds Until when no explicit horizon is given.
var DefaultMaxHorizon = schedule.Months(100 * 12)

// initialWindowSteps is the first Until horizon, in clock steps. It doubles on demand.
const initialWindowSteps = 64

// node is the run state of one pattern inside an item's arena.
type node struct {
	def      Pattern
	impact   float64
	times    []time.Time
	cursor   int
	ready    bool
	children []int
}

// Item is the value-bearing simulation subject. It owns an arena of pattern nodes;
// roots mutate the value, children mutate their parent's impact.
type Item struct {
	name        string
	initial     float64
	value       float64
	nodes       []node
	roots       []int
	granularity schedule.Duration
	step        schedule.Duration
	iterations  int
}

// NewItem creates an item starting at value.
func NewItem(name string, value float64) *Item {
	return &Item{name: name, initial: value, value: value}
}

// Name returns the item name.
func (it *Item) Name() string { return it.name }

// Value returns the current value.
func (it *Item) Value() float64 { return it.value }

// Initial returns the value every run starts from.
func (it *Item) Initial() float64 { return it.initial }

// Iterations returns how many times Iterate has been called.
func (it *Item) Iterations() int { return it.iterations }

// Patterns returns copies of the attached root pattern definitions.
func (it *Item) Patterns() []Pattern {
	out := make([]Pattern, len(it.roots))
	for i, r := range it.roots {
		out[i] = it.nodes[r].def
	}
	return out
}

// AddPattern validates p and attaches a private copy of its tree as a new root.
// The derived granularity becomes a step common to every root schedule.
func (it *Item) AddPattern(p Pattern) error {
	if err := p.Validate(); err != nil {
		return err
	}
	g, err := rootGranularity(p)
	if err != nil {
		return err
	}
	it.roots = append(it.roots, it.attach(p))
	if len(it.roots) == 1 {
		it.granularity = g
	} else {
		it.granularity = schedule.Common(it.granularity, g)
	}
	return nil
}

// rootGranularity is the step that observes every occurrence of p from any run start.
// An offset or start date moves the schedule off the run's own grid, so their units
// count as well.
func rootGranularity(p Pattern) (schedule.Duration, error) {
	g, err := p.Schedule.Granularity()
	if err != nil {
		return schedule.Duration{}, err
	}
	units := []schedule.Duration{g, p.Offset.Unit()}
	if !p.StartDate.IsZero() {
		units = append(units, schedule.Day)
	}
	return schedule.Common(units...), nil
}

// AddPatterns attaches each pattern in order, stopping at the first invalid one.
func (it *Item) AddPatterns(patterns ...Pattern) error {
	for i, p := range patterns {
		if err := it.AddPattern(p); err != nil {
			return fmt.Errorf("pattern %d: %w", i, err)
		}
	}
	return nil
}

// attach copies p and its descendants into the arena and returns p's index.
func (it *Item) attach(p Pattern) int {
	idx := len(it.nodes)
	it.nodes = append(it.nodes, node{def: p, impact: p.Impact})
	kids := make([]int, 0, len(p.Children))
	for _, child := range p.Children {
		kids = append(kids, it.attach(child))
	}
	it.nodes[idx].children = kids
	return idx
}

// Granularity returns the clock step: an explicit finer step if one was set,
// otherwise the finest root schedule granularity, or one day with no patterns.
func (it *Item) Granularity() schedule.Duration {
	switch {
	case !it.step.IsZero() && (len(it.roots) == 0 || !it.granularity.Finer(it.step)):
		return it.step
	case len(it.roots) == 0:
		return schedule.Day
	default:
		return it.granularity
	}
}

// SetGranularity forces a finer clock step. Coarser steps than the derived one
// would skip occurrences and are rejected.
func (it *Item) SetGranularity(d schedule.Duration) error {
	if d.IsZero() {
		return fmt.Errorf("%w: zero step", ErrInvalidGranularity)
	}
	if len(it.roots) > 0 && it.granularity.Finer(d) {
		return fmt.Errorf("%w: %s is coarser than %s", ErrInvalidGranularity, d, it.granularity)
	}
	it.step = d
	return nil
}

// Schedule returns the occurrences materialized for root pattern i by the last run.
func (it *Item) Schedule(i int) ([]time.Time, error) {
	if i < 0 || i >= len(it.roots) {
		return nil, fmt.Errorf("pattern %d: %w", i, ErrLocationOutOfRange)
	}
	n := it.nodes[it.roots[i]]
	if !n.ready {
		return nil, ErrScheduleNotSet
	}
	return append([]time.Time(nil), n.times...), nil
}

// Run resets the value and steps a clock from start to end inclusive, applying every due
// root pattern in attachment order at each tick. On failure the previous value is kept.
func (it *Item) Run(start, end time.Time) (*schema.Result, error) {
	if err := it.precheck(); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidTimeRange, start.Format(time.DateOnly), end.Format(time.DateOnly))
	}

	prev := it.value
	it.value = it.initial
	for _, r := range it.roots {
		if err := it.setup(r, start, end, false); err != nil {
			it.value = prev
			return nil, err
		}
	}

	result := schema.NewResult(it.name)
	step := it.Granularity()
	for i := 0; ; i++ {
		tick := step.AddTimesTo(start, i)
		if tick.After(end) {
			break
		}
		if err := it.tick(tick); err != nil {
			it.value = prev
			return nil, fmt.Errorf("at %s: %w", tick.Format(time.DateTime), err)
		}
		result.Add(tick, it.value)
	}
	return result, nil
}

// Until returns the simulated time it takes from UntilAnchor to reach target,
// searching at most DefaultMaxHorizon ahead.
func (it *Item) Until(target float64) (time.Duration, error) {
	return it.UntilWithin(target, DefaultMaxHorizon)
}

// UntilWithin is Until with an explicit search horizon. The target is reached when the
// value crosses it in the direction of target relative to the initial value.
func (it *Item) UntilWithin(target float64, maxHorizon schedule.Duration) (time.Duration, error) {
	if err := it.precheck(); err != nil {
		return 0, err
	}
	if maxHorizon.IsZero() {
		maxHorizon = DefaultMaxHorizon
	}
	if !maxHorizon.Fits(UntilAnchor) {
		return 0, fmt.Errorf("%w: %s", ErrHorizonTooLong, maxHorizon)
	}

	prev := it.value
	it.value = it.initial
	rising := target >= it.initial
	reached := func() bool {
		if rising {
			return it.value >= target
		}
		return it.value <= target
	}

	step := it.Granularity()
	limit := maxHorizon.AddTo(UntilAnchor)
	windowSteps := initialWindowSteps
	var horizon time.Time
	grow := func(iterative bool) error {
		horizon = step.AddTimesTo(UntilAnchor, windowSteps)
		if horizon.After(limit) {
			horizon = limit
		}
		for _, r := range it.roots {
			if err := it.setup(r, UntilAnchor, horizon, iterative); err != nil {
				return err
			}
		}
		return nil
	}
	if err := grow(false); err != nil {
		it.value = prev
		return 0, err
	}

	for i := 0; ; i++ {
		tick := step.AddTimesTo(UntilAnchor, i)
		if tick.After(limit) {
			it.value = prev
			return 0, fmt.Errorf("%w: %g not reached within %s", ErrUnreachableTarget, target, maxHorizon)
		}
		if tick.After(horizon) {
			windowSteps *= 2
			if err := grow(true); err != nil {
				it.value = prev
				return 0, err
			}
		}
		if err := it.tick(tick); err != nil {
			it.value = prev
			return 0, fmt.Errorf("at %s: %w", tick.Format(time.DateTime), err)
		}
		if reached() {
			return tick.Sub(UntilAnchor), nil
		}
	}
}

// Iterate applies every root pattern once, ignoring schedules.
func (it *Item) Iterate() error {
	if len(it.roots) == 0 {
		return ErrNoPatternsAttached
	}
	for _, r := range it.roots {
		n := &it.nodes[r]
		v, err := n.def.Operator.Apply(it.value, n.impact)
		if err != nil {
			return err
		}
		it.value = v
	}
	it.iterations++
	return nil
}

// precheck rejects runs that could only fail inside the clock loop.
func (it *Item) precheck() error {
	if len(it.roots) == 0 {
		return ErrNoPatternsAttached
	}
	for i := range it.nodes {
		n := &it.nodes[i]
		if n.def.Operator == OpDivide && n.def.Impact == 0 && len(n.children) == 0 {
			return fmt.Errorf("pattern %s: %w", n.def, ErrDivisionByZero)
		}
	}
	return nil
}

// setup materializes the schedule of node idx and its descendants for [start, end].
// A non-iterative setup also rewinds cursors and restores impacts.
func (it *Item) setup(idx int, start, end time.Time, iterative bool) error {
	n := &it.nodes[idx]
	s, e := n.def.bounds(start, end)
	times, err := schedule.Generate(n.def.Schedule, s, e, n.def.IncludeStart)
	if err != nil {
		return err
	}
	n.times = times
	n.ready = true
	if !iterative {
		n.cursor = 0
		n.impact = n.def.Impact
	}
	for _, c := range n.children {
		if err := it.setup(c, s, e, iterative); err != nil {
			return err
		}
	}
	return nil
}

// tick evaluates every root pattern at current in attachment order.
func (it *Item) tick(current time.Time) error {
	for _, r := range it.roots {
		due, err := it.scheduled(r, current)
		if err != nil {
			return err
		}
		if !due {
			continue
		}
		n := &it.nodes[r]
		v, err := n.def.Operator.Apply(it.value, n.impact)
		if err != nil {
			return fmt.Errorf("pattern %s: %w", n.def, err)
		}
		it.value = v
	}
	return nil
}

// scheduled catches up the node's children, then consumes at most one occurrence at or
// before current.
func (it *Item) scheduled(idx int, current time.Time) (bool, error) {
	n := &it.nodes[idx]
	if !n.ready {
		return false, ErrScheduleNotSet
	}
	for _, c := range n.children {
		if err := it.catchUp(c, idx, current); err != nil {
			return false, err
		}
	}
	if n.cursor < len(n.times) && !n.times[n.cursor].After(current) {
		n.cursor++
		return true, nil
	}
	return false, nil
}

// catchUp applies every unconsumed occurrence of child strictly before current to the
// parent's impact. Each occurrence first catches up the child's own children to it.
func (it *Item) catchUp(child, parent int, current time.Time) error {
	c := &it.nodes[child]
	if !c.ready {
		return ErrScheduleNotSet
	}
	for c.cursor < len(c.times) && c.times[c.cursor].Before(current) {
		at := c.times[c.cursor]
		for _, gc := range c.children {
			if err := it.catchUp(gc, child, at); err != nil {
				return err
			}
		}
		c.cursor++
		p := &it.nodes[parent]
		v, err := c.def.Operator.Apply(p.impact, c.impact)
		if err != nil {
			return fmt.Errorf("nested pattern %s: %w", c.def, err)
		}
		p.impact = v
	}
	return nil
}
