// Package cohort slices the annotated patient table into the subsets the
// recall workflows act on.
package cohort

import (
	"github.com/rs/zerolog"

	"github.com/bromptonhealth/dmrecall/normalize"
	"github.com/bromptonhealth/dmrecall/rules"
	"github.com/bromptonhealth/dmrecall/tabular"
)

// Mode selects how due flags combine across the selected tests.
type Mode int

const (
	// Any includes a patient due for at least one selected test. Used for
	// outreach lists.
	Any Mode = iota
	// All includes a patient only when due for every selected test. Used
	// for stricter pre-assessment cohorts.
	All
)

// Filter returns the patients matching the selected tests under the given
// combination mode. An empty selection yields an empty cohort, never the
// full register; selected names without a configured rule, or whose due
// column was not evaluated, are ignored.
func Filter(t *tabular.Table, selected []string, mode Mode, config rules.Config, log zerolog.Logger) *tabular.Table {
	columns := make([]string, 0, len(selected))
	for _, test := range selected {
		dueColumn, ok := config.DueColumn(test)
		if !ok {
			log.Debug().Str("test", test).Msg("Unknown test selection ignored")
			continue
		}
		if !t.HasColumn(dueColumn) {
			log.Debug().Str("test", test).Str("column", dueColumn).Msg("Due column not evaluated, selection ignored")
			continue
		}
		columns = append(columns, dueColumn)
	}

	if len(columns) == 0 {
		return tabular.NewTable(t.Columns)
	}

	return t.Filter(func(row tabular.Row) bool {
		for _, column := range columns {
			due, _ := row.Bool(column)
			if mode == Any && due {
				return true
			}
			if mode == All && !due {
				return false
			}
		}
		return mode == All
	})
}

// REWIND program flag columns after header normalization.
const (
	rewindEligibleColumn = "eligible_for_rewind"
	rewindStartedColumn  = "rewind_-_started"
)

// Rewind returns patients eligible for the REWIND program who have not
// yet started it.
func Rewind(t *tabular.Table) *tabular.Table {
	if !t.HasColumn(rewindEligibleColumn) || !t.HasColumn(rewindStartedColumn) {
		return tabular.NewTable(t.Columns)
	}
	return t.Filter(func(row tabular.Row) bool {
		eligible, ok := row.String(rewindEligibleColumn)
		if !ok || eligible != "Yes" {
			return false
		}
		started, ok := row.Float(rewindStartedColumn)
		return ok && started == 0
	})
}

// NumericRange returns patients whose value in the named measurement
// column lies within [min, max]. Rows without a value are excluded.
func NumericRange(t *tabular.Table, column string, min, max float64) *tabular.Table {
	if !t.HasColumn(column) {
		return tabular.NewTable(t.Columns)
	}
	return t.Filter(func(row tabular.Row) bool {
		v, ok := row.Float(column)
		return ok && v >= min && v <= max
	})
}

// FindByNHSNumber returns the rows whose normalized identifier matches
// the given NHS number.
func FindByNHSNumber(t *tabular.Table, nhsNumber int64) *tabular.Table {
	return t.Filter(func(row tabular.Row) bool {
		id, ok := row.Int64(normalize.NHSNumberColumn)
		return ok && id == nhsNumber
	})
}
