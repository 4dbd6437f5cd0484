// Package outreach assembles the contact list for a selected cohort: an
// inner join of cohort against the SMS contact table on NHS number, minus
// any patient already actioned in an external tracker.
package outreach

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/rs/zerolog"

	"github.com/bromptonhealth/dmrecall/normalize"
	"github.com/bromptonhealth/dmrecall/tabular"
)

// Extract returns the SMS contact rows for cohort members, in SMS table
// column order. Cohort members without a contact row are silently
// excluded. When actioned is non-nil, patients whose identifier appears
// in it are removed; a nil actioned table skips the exclusion entirely.
// The inputs are not mutated, so repeated extraction over the same tables
// yields the same result.
func Extract(cohort, sms, actioned *tabular.Table, log zerolog.Logger) *tabular.Table {
	out := tabular.NewTable(sms.Columns)

	smsColumn, ok := normalize.FindIdentifierColumn(sms)
	if !ok {
		log.Warn().Msg("SMS table has no identifier column, nothing to extract")
		return out
	}

	cohortIDs := identifierSet(cohort, log)
	excluded := mapset.NewSet[int64]()
	if actioned != nil {
		excluded = identifierSet(actioned, log)
	}

	matched := 0
	suppressed := 0
	for _, row := range sms.Rows {
		id, ok := rowIdentifier(row, smsColumn)
		if !ok {
			continue
		}
		if !cohortIDs.Contains(id) {
			continue
		}
		if excluded.Contains(id) {
			suppressed++
			continue
		}
		matched++
		out.Append(row)
	}

	log.Info().
		Int("cohort", cohort.Len()).
		Int("matched", matched).
		Int("suppressed", suppressed).
		Msg("Extracted outreach contact list")
	return out
}

// identifierSet collects the normalized identifiers of a table, locating
// the identifier column among its known header variants. Rows whose
// identifier cannot be normalized are left out of joins.
func identifierSet(t *tabular.Table, log zerolog.Logger) mapset.Set[int64] {
	ids := mapset.NewSet[int64]()
	column, ok := normalize.FindIdentifierColumn(t)
	if !ok {
		log.Warn().Msg("No identifier column found, table excluded from join")
		return ids
	}
	skipped := 0
	for _, row := range t.Rows {
		id, ok := rowIdentifier(row, column)
		if !ok {
			if row[column] != nil {
				skipped++
			}
			continue
		}
		ids.Add(id)
	}
	if skipped > 0 {
		log.Warn().
			Str("column", column).
			Int("rows", skipped).
			Msg("Rows with unusable identifiers excluded from join")
	}
	return ids
}

// rowIdentifier coerces a row's identifier cell to the common integer
// representation used on both sides of every join.
func rowIdentifier(row tabular.Row, column string) (int64, bool) {
	return normalize.CleanIdentifier(row[column])
}
