// Package tracker abstracts the external "already actioned" record
// sources. The pipeline only ever sees a table with an identifier column;
// a source that cannot deliver one degrades to an empty exclusion set.
package tracker

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/bromptonhealth/dmrecall/normalize"
	"github.com/bromptonhealth/dmrecall/tabular"
)

// ActionedSource fetches the externally tracked actioned-patient table.
type ActionedSource interface {
	FetchActioned(ctx context.Context) (*tabular.Table, error)
}

// FetchActioned applies the degraded-mode contract around a source: a nil
// source, a failed fetch or a nil result all yield an empty table with a
// warning. Cohort computation never aborts because a tracker is down.
func FetchActioned(ctx context.Context, source ActionedSource, log zerolog.Logger) *tabular.Table {
	if source == nil {
		return tabular.NewTable(nil)
	}
	t, err := source.FetchActioned(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Actioned source unavailable, continuing without exclusions")
		return tabular.NewTable(nil)
	}
	if t == nil {
		return tabular.NewTable(nil)
	}
	return t
}

// NormalizeIdentifiers locates the identifier column among its known
// header variants, renames it to the canonical name and parses the values
// to integers. Tables without an identifier column come back empty: they
// cannot take part in exclusion joins.
func NormalizeIdentifiers(t *tabular.Table, log zerolog.Logger) *tabular.Table {
	column, ok := normalize.FindIdentifierColumn(t)
	if !ok {
		log.Warn().Msg("Actioned table has no recognizable identifier column, ignoring it")
		return tabular.NewTable(nil)
	}
	t.RenameColumn(column, normalize.NHSNumberColumn)
	normalize.Identifiers(t, normalize.NHSNumberColumn, log)
	return t
}
