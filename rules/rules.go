// Package rules implements the due-status engine: for every configured
// clinical test or care process it decides, per patient, whether the test
// is due. Three rule shapes exist; all of them resolve missing input to
// "not due".
package rules

import (
	"github.com/rs/zerolog"

	"github.com/bromptonhealth/dmrecall/tabular"
	"github.com/bromptonhealth/dmrecall/temporal"
)

// Shape selects how a rule decides due status.
type Shape int

const (
	// FixedInterval marks a test due when the last test date is at least
	// the configured interval in the past.
	FixedInterval Shape = iota
	// ValueConditional shortens the required interval as the last
	// measured value worsens, via the rule's band ladder.
	ValueConditional
	// MonthLabelDeadline reads a month-year label as the next due date
	// and marks the test due once that date has passed.
	MonthLabelDeadline
)

// Interval is a calendar-aware duration expressed in years and months.
// Comparisons use whole elapsed months, so leap years cannot introduce
// fractional drift at the boundary.
type Interval struct {
	Years  int
	Months int
}

// WholeMonths returns the interval length in months.
func (iv Interval) WholeMonths() int {
	return iv.Years*12 + iv.Months
}

// Band maps a measured-value range onto a recall interval. Bands are
// evaluated in order; a band matches when the value is below Max
// (strictly when MaxExclusive is set, otherwise inclusively).
type Band struct {
	Max          float64
	MaxExclusive bool
	Interval     Interval
}

// Rule configures one test. DueColumn is the boolean output column the
// engine writes; Interval is the fixed-shape interval and the band
// ladder's catch-all.
type Rule struct {
	Test        string
	Shape       Shape
	DateColumn  string
	ValueColumn string
	Bands       []Band
	Interval    Interval
	DueColumn   string
}

// intervalFor resolves the recall interval for a measured value against
// the band ladder, falling back to the rule's own interval.
func (r Rule) intervalFor(value float64) Interval {
	for _, band := range r.Bands {
		if band.MaxExclusive {
			if value < band.Max {
				return band.Interval
			}
		} else if value <= band.Max {
			return band.Interval
		}
	}
	return r.Interval
}

// ThresholdRule builds the generalized value-conditional rule: a value at
// or below the threshold halves the default timeframe, anything above it
// keeps the full timeframe.
func ThresholdRule(test, dateColumn, valueColumn string, threshold float64, timeframe Interval, dueColumn string) Rule {
	half := Interval{Months: timeframe.WholeMonths() / 2}
	return Rule{
		Test:        test,
		Shape:       ValueConditional,
		DateColumn:  dateColumn,
		ValueColumn: valueColumn,
		Bands:       []Band{{Max: threshold, Interval: half}},
		Interval:    timeframe,
		DueColumn:   dueColumn,
	}
}

// Engine evaluates a rule configuration over patient rows. The
// configuration is the single source of truth: nothing about an
// individual test lives outside its Rule entry.
type Engine struct {
	config Config
	log    zerolog.Logger
}

// NewEngine creates an engine for the given configuration.
func NewEngine(config Config, log zerolog.Logger) *Engine {
	return &Engine{
		config: config,
		log:    log.With().Str("component", "rule_engine").Logger(),
	}
}

// Config returns the engine's rule configuration.
func (e *Engine) Config() Config {
	return e.config
}

// Evaluate writes one boolean due column per configured rule. Rules whose
// source columns are absent from the table are skipped with a warning;
// their due column is not created, so downstream selection ignores them
// rather than reading a wrong flag.
func (e *Engine) Evaluate(t *tabular.Table, today tabular.Date) {
	for _, rule := range e.config.Rules {
		if !t.HasColumn(rule.DateColumn) {
			e.log.Warn().
				Str("test", rule.Test).
				Str("column", rule.DateColumn).
				Msg("Source date column absent, due status not evaluated")
			continue
		}
		if rule.Shape == ValueConditional && !t.HasColumn(rule.ValueColumn) {
			e.log.Warn().
				Str("test", rule.Test).
				Str("column", rule.ValueColumn).
				Msg("Source value column absent, due status not evaluated")
			continue
		}

		t.AddColumn(rule.DueColumn)
		due := 0
		for _, row := range t.Rows {
			isDue := evaluateRow(rule, row, today)
			row[rule.DueColumn] = isDue
			if isDue {
				due++
			}
		}
		e.log.Debug().
			Str("test", rule.Test).
			Int("due", due).
			Int("patients", t.Len()).
			Msg("Evaluated due status")
	}
}

func evaluateRow(rule Rule, row tabular.Row, today tabular.Date) bool {
	switch rule.Shape {
	case FixedInterval:
		last, ok := row.Date(rule.DateColumn)
		if !ok {
			return false
		}
		return tabular.MonthsBetween(last, today) >= rule.Interval.WholeMonths()

	case ValueConditional:
		last, ok := row.Date(rule.DateColumn)
		if !ok {
			return false
		}
		value, ok := row.Float(rule.ValueColumn)
		if !ok {
			return false
		}
		return tabular.MonthsBetween(last, today) >= rule.intervalFor(value).WholeMonths()

	case MonthLabelDeadline:
		deadline, ok := monthLabelCell(row[rule.DateColumn])
		if !ok {
			return false
		}
		return deadline.Before(today)
	}
	return false
}

// monthLabelCell reads a review-due cell that is either raw label text or
// an already-converted date.
func monthLabelCell(v any) (tabular.Date, bool) {
	switch x := v.(type) {
	case tabular.Date:
		return x, !x.IsZero()
	case string:
		return temporal.ParseMonthLabel(x)
	}
	return tabular.Date{}, false
}
