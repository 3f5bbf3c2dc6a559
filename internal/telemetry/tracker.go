// ABOUTME: Cumulative token/cost tracker with budget-threshold alerts
// ABOUTME: Wraps the per-model pricing table to back print mode's MaxBudgetUSD cutoff

package telemetry

import "sync"

// Alert is a budget-threshold crossing surfaced to the caller.
type Alert struct {
	Type    string // "warning" or "limit"
	Message string
}

// Summary is a point-in-time snapshot of tracked usage.
type Summary struct {
	TotalInputTokens  int
	TotalOutputTokens int
	TotalCostUSD      float64
	CallCount         int
	BudgetUSD         float64
	BudgetUsedPct     float64
	Alerts            []Alert
}

// Tracker accumulates token usage and cost across calls to possibly many
// models, and raises a one-shot warning alert at warnAtPct of budget and a
// limit alert once budget is exceeded. A zero budget disables all alerts.
type Tracker struct {
	mu       sync.Mutex
	budget   float64
	warnPct  int
	input    int
	output   int
	costUSD  float64
	calls    int
	warned   bool
	limited  bool
	alerts   []Alert
	onAlert  func(Alert)
}

// NewTracker creates a Tracker with the given budget (0 disables alerts)
// and warning threshold percentage.
func NewTracker(budgetUSD float64, warnAtPct int) *Tracker {
	return &Tracker{budget: budgetUSD, warnPct: warnAtPct}
}

// SetAlertCallback registers a function invoked synchronously whenever
// Record raises a new alert. The callback must not call back into Record
// (it may call Summary without deadlocking).
func (t *Tracker) SetAlertCallback(fn func(Alert)) {
	t.mu.Lock()
	t.onAlert = fn
	t.mu.Unlock()
}

// Record adds one call's token usage to the running totals and returns any
// alerts newly crossed by this call (empty when no budget is set).
func (t *Tracker) Record(modelID string, inputTokens, outputTokens int) []Alert {
	cost := EstimateCost(modelID, inputTokens, outputTokens)

	t.mu.Lock()
	t.input += inputTokens
	t.output += outputTokens
	t.costUSD += cost
	t.calls++

	var newAlerts []Alert
	if t.budget > 0 {
		pct := (t.costUSD / t.budget) * 100
		if pct >= 100 && !t.limited {
			t.limited = true
			a := Alert{Type: "limit", Message: "budget exceeded"}
			newAlerts = append(newAlerts, a)
			t.alerts = append(t.alerts, a)
		} else if pct >= float64(t.warnPct) && !t.warned {
			t.warned = true
			a := Alert{Type: "warning", Message: "budget warning threshold reached"}
			newAlerts = append(newAlerts, a)
			t.alerts = append(t.alerts, a)
		}
	}
	cb := t.onAlert
	t.mu.Unlock()

	if cb != nil {
		for _, a := range newAlerts {
			cb(a)
		}
	}

	return newAlerts
}

// Summary returns a snapshot of accumulated usage and alerts raised so far.
func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	var usedPct float64
	if t.budget > 0 {
		usedPct = (t.costUSD / t.budget) * 100
	}

	alerts := make([]Alert, len(t.alerts))
	copy(alerts, t.alerts)

	return Summary{
		TotalInputTokens:  t.input,
		TotalOutputTokens: t.output,
		TotalCostUSD:      t.costUSD,
		CallCount:         t.calls,
		BudgetUSD:         t.budget,
		BudgetUsedPct:     usedPct,
		Alerts:            alerts,
	}
}

// Reset clears accumulated usage and alert state but preserves the budget.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.input = 0
	t.output = 0
	t.costUSD = 0
	t.calls = 0
	t.warned = false
	t.limited = false
	t.alerts = nil
}
