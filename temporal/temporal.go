// Package temporal converts free-text clinical event fields into calendar
// dates. Anything that cannot be read as a date degrades to a missing
// value; due status is never inferred from bad data.
package temporal

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bromptonhealth/dmrecall/tabular"
)

// sentinelDates are day-first placeholder strings used by the source
// system to mean "no date was ever recorded". They normalize to missing,
// never to a real 1900s date.
var sentinelDates = []string{"00/01/1900", "01/01/1900"}

// dateLayouts are tried in order. Day-first is the primary extract
// format; ISO and timestamped variants appear in older revisions.
var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02/01/2006 15:04",
	"02/01/2006 15:04:05",
	"02-01-2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// monthLabelLayout reads short month-year labels such as "Jan-25",
// interpreted in the 2000s as the first day of that month.
const monthLabelLayout = "Jan-06"

// DateColumns is the default set of clinical event fields expected to
// hold dates after header normalization.
var DateColumns = []string{
	"dob",
	"first_dm_diagnosis",
	"annual_review_done",
	"hba1c",
	"bp",
	"cholesterol",
	"bmi",
	"egfr",
	"urine_acr",
	"smoking",
	"foot_risk",
	"mh_screen_-_dds_or_phq",
	"patient_goals",
	"care_plan",
	"education",
	"hypo_monitoring",
	"9_kcp_complete",
	"3_levels_to_target",
	"retinal_screening",
	"care_planning_consultation",
	"statin_date",
}

// ConvertDates rewrites each listed field from text to a tabular.Date.
// Fields absent from the table are skipped; sentinel values and
// unparsable text become missing.
func ConvertDates(t *tabular.Table, fields []string, log zerolog.Logger) {
	for _, field := range fields {
		if !t.HasColumn(field) {
			log.Debug().Str("column", field).Msg("Date column absent, skipping conversion")
			continue
		}
		unparsed := 0
		for _, row := range t.Rows {
			s, ok := row[field].(string)
			if !ok {
				if _, isDate := row[field].(tabular.Date); !isDate {
					row[field] = nil
				}
				continue
			}
			d, ok := ParseDate(s)
			if !ok {
				if strings.TrimSpace(s) != "" && !isSentinel(s) {
					unparsed++
				}
				row[field] = nil
				continue
			}
			row[field] = d
		}
		if unparsed > 0 {
			log.Warn().
				Str("column", field).
				Int("rows", unparsed).
				Msg("Unparsable date values treated as missing")
		}
	}
}

// ParseDate reads a single free-text date cell. Sentinels and empty
// strings report false.
func ParseDate(s string) (tabular.Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" || isSentinel(s) {
		return tabular.Date{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return tabular.NewDate(t), true
		}
	}
	return tabular.Date{}, false
}

// ParseMonthLabel reads a "Jan-25" style review-due label as the first
// day of that month. Empty or malformed labels report false, which the
// rule engine resolves as "not due".
func ParseMonthLabel(s string) (tabular.Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return tabular.Date{}, false
	}
	t, err := time.Parse(monthLabelLayout, s)
	if err != nil {
		return tabular.Date{}, false
	}
	return tabular.NewDate(t), true
}

func isSentinel(s string) bool {
	for _, sentinel := range sentinelDates {
		if s == sentinel {
			return true
		}
	}
	return false
}
