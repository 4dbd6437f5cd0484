// Package pipeline wires the load stages together: normalize headers and
// identifiers, convert temporal fields, derive attributes and evaluate
// due status. Each run is a pure function over the uploaded snapshot; the
// only state is an explicit content-addressed cache.
package pipeline

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/bromptonhealth/dmrecall/config"
	"github.com/bromptonhealth/dmrecall/derive"
	"github.com/bromptonhealth/dmrecall/normalize"
	"github.com/bromptonhealth/dmrecall/outreach"
	"github.com/bromptonhealth/dmrecall/rules"
	"github.com/bromptonhealth/dmrecall/tabular"
	"github.com/bromptonhealth/dmrecall/temporal"
	"github.com/bromptonhealth/dmrecall/tracker"
	"github.com/bromptonhealth/dmrecall/tracker/notion"
	"github.com/bromptonhealth/dmrecall/tracker/sheets"
)

// LoaderConfig configures a Loader.
type LoaderConfig struct {
	// Rules is the versioned register configuration driving the rule
	// engine.
	Rules rules.Config
	// CacheSize is the number of processed uploads to keep. Zero
	// disables caching.
	CacheSize int
	// Now supplies the evaluation clock; defaults to time.Now. Derived
	// attributes and due flags are always computed against this clock,
	// never persisted.
	Now func() time.Time
}

// Loader runs the dashboard processing pipeline.
type Loader struct {
	engine *rules.Engine
	cache  *resultCache
	now    func() time.Time
	log    zerolog.Logger
}

// NewLoader creates a loader for the given configuration.
func NewLoader(cfg LoaderConfig, log zerolog.Logger) (*Loader, error) {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	cache, err := newResultCache(cfg.CacheSize, log)
	if err != nil {
		return nil, err
	}
	return &Loader{
		engine: rules.NewEngine(cfg.Rules, log),
		cache:  cache,
		now:    cfg.Now,
		log:    log.With().Str("component", "pipeline").Logger(),
	}, nil
}

// Today returns the evaluation date for the current run.
func (l *Loader) Today() tabular.Date {
	return tabular.NewDate(l.now())
}

// LoadDashboard reads the raw dashboard export and returns the fully
// annotated patient table. Results are cached against the exact file
// content, the rule configuration version and the evaluation date, so a
// different upload under the same name can never serve stale columns.
func (l *Loader) LoadDashboard(r io.Reader) (*tabular.Table, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read dashboard upload: %w", err)
	}

	today := l.Today()
	key := l.cache.key(content, l.engine.Config().Version, today)
	if cached, ok := l.cache.get(key); ok {
		return cached, nil
	}

	table, err := l.process(content, today)
	if err != nil {
		return nil, err
	}
	l.cache.put(key, table)
	return table, nil
}

func (l *Loader) process(content []byte, today tabular.Date) (*tabular.Table, error) {
	raw, err := tabular.ReadCSV(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse dashboard export: %w", err)
	}

	table := normalize.Columns(raw, l.log)
	normalize.Identifiers(table, normalize.NHSNumberColumn, l.log)
	temporal.ConvertDates(table, temporal.DateColumns, l.log)
	derive.Apply(table, today, l.log)
	l.engine.Evaluate(table, today)

	l.log.Info().
		Int("patients", table.Len()).
		Int("columns", len(table.Columns)).
		Msg("Loaded dashboard export")
	return table, nil
}

// LoadSMS reads the SMS contact export verbatim, applying only
// identifier-type normalization ahead of joins. The column shape is kept
// intact for the eventual download.
func (l *Loader) LoadSMS(r io.Reader) (*tabular.Table, error) {
	table, err := tabular.ReadCSV(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SMS export: %w", err)
	}
	if column, ok := normalize.FindIdentifierColumn(table); ok {
		normalize.Identifiers(table, column, l.log)
	} else {
		l.log.Warn().Msg("SMS export has no recognizable identifier column")
	}
	return table, nil
}

// Outreach builds the contact list for a cohort against the SMS table,
// excluding patients present in the actioned table. A nil actioned table
// skips the exclusion.
func (l *Loader) Outreach(cohort, sms, actioned *tabular.Table) *tabular.Table {
	return outreach.Extract(cohort, sms, actioned, l.log)
}

// NewActionedSource builds the actioned-data source for the configured
// tracker: Notion when credentials are present, otherwise the spreadsheet
// service, otherwise nil (no exclusions).
func NewActionedSource(cfg config.Config, log zerolog.Logger) tracker.ActionedSource {
	switch {
	case cfg.HasNotion():
		return notion.NewClient(notion.Config{
			Token:      cfg.NotionToken,
			DatabaseID: cfg.NotionDatabaseID,
			Timeout:    cfg.HTTPTimeout,
		}, log)
	case cfg.HasSheet():
		return sheets.NewService(sheets.Config{
			SheetURL: cfg.SheetURL,
			Timeout:  cfg.HTTPTimeout,
		}, log)
	}
	return nil
}

// ExportFilename suggests the download filename for a recall workflow.
// The caller performs the actual file I/O.
func ExportFilename(workflow string) string {
	switch workflow {
	case "online_preassessment":
		return "online_preassessment_sms.csv"
	case "hca_selfbook":
		return "hca_selfbook_sms.csv"
	case "rewind":
		return "dm_rewind_sms.csv"
	default:
		return "filtered_data_sms.csv"
	}
}
