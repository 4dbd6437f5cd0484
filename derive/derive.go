// Package derive computes per-patient attributes from the converted
// dashboard table: age in whole years and diagnosis duration in whole
// months. Both are recomputed from the evaluation date on every load.
package derive

import (
	"github.com/rs/zerolog"

	"github.com/bromptonhealth/dmrecall/tabular"
)

const (
	// AgeColumn holds the derived age in whole years.
	AgeColumn = "age"
	// DiagnosisMonthsColumn holds the derived diagnosis duration. Months
	// is the canonical unit for this quantity throughout the module.
	DiagnosisMonthsColumn = "length_of_diagnosis_months"

	dobColumn       = "dob"
	diagnosisColumn = "first_dm_diagnosis"
)

// Age returns whole years from dob to today using the birthday rule. The
// caller guards against a missing dob.
func Age(dob, today tabular.Date) int {
	return tabular.YearsBetween(dob, today)
}

// DiagnosisMonths returns whole months from the first diagnosis to today,
// decrementing when the day of month has not yet been reached.
func DiagnosisMonths(firstDiagnosis, today tabular.Date) int {
	return tabular.MonthsBetween(firstDiagnosis, today)
}

// Apply annotates the table with the derived attribute columns. Rows with
// a missing source date get a missing attribute; absent source columns
// skip the computation entirely.
func Apply(t *tabular.Table, today tabular.Date, log zerolog.Logger) {
	if t.HasColumn(dobColumn) {
		t.AddColumn(AgeColumn)
		for _, row := range t.Rows {
			if dob, ok := row.Date(dobColumn); ok {
				row[AgeColumn] = int64(Age(dob, today))
			} else {
				row[AgeColumn] = nil
			}
		}
	} else {
		log.Warn().Str("column", dobColumn).Msg("Date of birth column absent, age not derived")
	}

	if t.HasColumn(diagnosisColumn) {
		t.AddColumn(DiagnosisMonthsColumn)
		for _, row := range t.Rows {
			if first, ok := row.Date(diagnosisColumn); ok {
				row[DiagnosisMonthsColumn] = int64(DiagnosisMonths(first, today))
			} else {
				row[DiagnosisMonthsColumn] = nil
			}
		}
	} else {
		log.Warn().Str("column", diagnosisColumn).Msg("First diagnosis column absent, duration not derived")
	}
}
