// Package normalize maps raw extract headers onto the canonical snake_case
// schema and cleans patient identifiers ahead of any join.
package normalize

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"

	"github.com/bromptonhealth/dmrecall/tabular"
)

// NHSNumberColumn is the canonical identifier column used as the join key
// across every table in the system.
const NHSNumberColumn = "nhs_number"

// administrativeColumns are report/scheduling artifacts carried by the
// dashboard export that have no clinical meaning here. Expressed in
// canonical form; dropped after header normalization when present.
var administrativeColumns = []string{
	"column1", "column2", "column3", "column4", "column5",
	"column6", "column7", "column8", "column9",
	"group_consultations",
	"hypo_mon_denom",
	"month_of_birth",
	"efi_score",
	"frailty",
	"qof_invites_done",
	"qof_dm006d", "qof_dm006_achieved",
	"qof_dm012d", "qof_dm012_achieved",
	"qof_dm014d", "qof_dm014_achieved",
	"qof_bp_done",
	"qof_dm019d", "qof_dm019_achieved",
	"qof_hba1c_done",
	"qof_dm020d", "qof_dm020_achieved",
	"qof_dm021d", "qof_dm021_achieved",
	"qof_dm022d", "qof_dm022_achieved",
	"qof_dm023d", "qof_dm023_achieved",
	"hba1c_trend",
	"diag_l6y_hba1c_<=53",
	"type_1", "type_2",
	"both_types_recorded",
	"no_type_recorded",
	"outstanding_es_count",
	"outstanding_qof_count",
	"total_outstanding",
	"next_appt_with",
	"number_future_appts",
	"covid-19_high_risk",
	"glp-1_or_insulin",
	"unnamed:_110", "unnamed:_111", "unnamed:_112", "unnamed:_113",
	"unnamed:_114", "unnamed:_115", "unnamed:_116", "unnamed:_117",
}

// identifierHeaderVariants are the spellings of the NHS number column
// seen across dataset revisions and external sources, checked in order.
var identifierHeaderVariants = []string{
	NHSNumberColumn,
	"NHS number", "NHS Number", "NHS_number", "NHS_Number",
	"NHSNo", "NHS No", "NHS_No",
}

// FindIdentifierColumn locates the NHS number column in a table whose
// headers have not necessarily been normalized.
func FindIdentifierColumn(t *tabular.Table) (string, bool) {
	for _, variant := range identifierHeaderVariants {
		if t.HasColumn(variant) {
			return variant, true
		}
	}
	return "", false
}

// CanonicalName lowers the header and replaces spaces with underscores.
// No other characters are altered.
func CanonicalName(header string) string {
	return strings.ReplaceAll(strings.ToLower(header), " ", "_")
}

// Columns rewrites every header to its canonical name and removes the
// known administrative columns. Unknown extra columns are preserved;
// absence of a to-drop column is not an error.
func Columns(t *tabular.Table, log zerolog.Logger) *tabular.Table {
	renames := make(map[string]string, len(t.Columns))
	for _, col := range t.Columns {
		renames[col] = CanonicalName(col)
	}

	out := tabular.NewTable(nil)
	kept := make([]string, 0, len(t.Columns))
	dropped := 0
	for _, col := range t.Columns {
		canonical := renames[col]
		if slices.Contains(administrativeColumns, canonical) {
			dropped++
			continue
		}
		kept = append(kept, canonical)
		out.AddColumn(canonical)
	}

	for _, row := range t.Rows {
		dup := make(tabular.Row, len(kept))
		for raw, canonical := range renames {
			if !out.HasColumn(canonical) {
				continue
			}
			dup[canonical] = row[raw]
		}
		out.Append(dup)
	}

	log.Debug().
		Int("columns", len(kept)).
		Int("dropped", dropped).
		Msg("Normalized column headers")
	return out
}

// Identifiers parses the named identifier column into integers, stripping
// internal spaces and the trailing ".0" spreadsheet float artifact. Cells
// that still fail to parse become missing identifiers; the load never
// fails and never coerces to zero.
func Identifiers(t *tabular.Table, column string, log zerolog.Logger) {
	if !t.HasColumn(column) {
		log.Warn().Str("column", column).Msg("Identifier column absent, skipping cleanup")
		return
	}

	invalid := 0
	for _, row := range t.Rows {
		id, ok := CleanIdentifier(row[column])
		if !ok {
			if row[column] != nil {
				invalid++
			}
			row[column] = nil
			continue
		}
		row[column] = id
	}
	if invalid > 0 {
		log.Warn().
			Str("column", column).
			Int("rows", invalid).
			Msg("Identifier values failed to parse and were set to missing")
	}
}

// CleanIdentifier normalizes a single identifier cell to an int64.
func CleanIdentifier(v any) (int64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case int64:
		return x, true
	case int:
		return int64(x), true
	case float64:
		if x != float64(int64(x)) {
			return 0, false
		}
		return int64(x), true
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(x), " ", "")
		s = strings.TrimSuffix(s, ".0")
		if s == "" {
			return 0, false
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
