package rules

// Config is a versioned rule table for a register. The version takes part
// in pipeline cache keys so that a configuration change invalidates any
// cached evaluation of the same upload.
type Config struct {
	Version string
	Rules   []Rule
}

// DueColumn resolves a test's selection name to its due column. Unknown
// names report false; callers ignore them rather than failing.
func (c Config) DueColumn(test string) (string, bool) {
	for _, rule := range c.Rules {
		if rule.Test == test {
			return rule.DueColumn, true
		}
	}
	return "", false
}

// Tests returns the selection names in configuration order.
func (c Config) Tests() []string {
	names := make([]string, 0, len(c.Rules))
	for _, rule := range c.Rules {
		names = append(names, rule.Test)
	}
	return names
}

// Recall intervals used by the diabetes register configuration. Point
// tests recall annually; the care-process batch runs on the practice's
// fifteen-month cycle.
var (
	annual        = Interval{Years: 1}
	fifteenMonths = Interval{Years: 1, Months: 3}
	sixMonths     = Interval{Months: 6}
	threeMonths   = Interval{Months: 3}
)

// DiabetesRegister returns the standard rule configuration for the
// primary-care diabetes register.
//
// HbA1c and eGFR recall on value-conditional ladders (NICE monitoring
// guidance): HbA1c below 53 mmol/mol annually, 53-75 six-monthly, above
// 75 three-monthly; eGFR at or below 30 six-monthly, otherwise annually.
func DiabetesRegister() Config {
	return Config{
		Version: "diabetes-register/v3",
		Rules: []Rule{
			{
				Test:        "HbA1c",
				Shape:       ValueConditional,
				DateColumn:  "hba1c",
				ValueColumn: "hba1c_value",
				Bands: []Band{
					{Max: 53, MaxExclusive: true, Interval: annual},
					{Max: 75, Interval: sixMonths},
				},
				Interval:  threeMonths,
				DueColumn: "hba1c_due",
			},
			{
				Test:        "eGFR",
				Shape:       ValueConditional,
				DateColumn:  "egfr",
				ValueColumn: "latest_egfr",
				Bands: []Band{
					{Max: 30, Interval: sixMonths},
				},
				Interval:  annual,
				DueColumn: "egfr_due",
			},
			{
				Test:       "Lipids",
				Shape:      FixedInterval,
				DateColumn: "cholesterol",
				Interval:   annual,
				DueColumn:  "lipids_due",
			},
			{
				Test:       "Urine ACR",
				Shape:      FixedInterval,
				DateColumn: "urine_acr",
				Interval:   annual,
				DueColumn:  "urine_acr_due",
			},
			{
				Test:       "BP",
				Shape:      FixedInterval,
				DateColumn: "bp",
				Interval:   annual,
				DueColumn:  "bp_due",
			},
			{
				Test:       "Annual Review Done",
				Shape:      FixedInterval,
				DateColumn: "annual_review_done",
				Interval:   fifteenMonths,
				DueColumn:  "annual_review_due",
			},
			{
				Test:       "Smoking",
				Shape:      FixedInterval,
				DateColumn: "smoking",
				Interval:   fifteenMonths,
				DueColumn:  "smoking_due",
			},
			{
				Test:       "Foot Check",
				Shape:      FixedInterval,
				DateColumn: "foot_risk",
				Interval:   fifteenMonths,
				DueColumn:  "foot_due",
			},
			{
				Test:       "Retinal Screening",
				Shape:      FixedInterval,
				DateColumn: "retinal_screening",
				Interval:   fifteenMonths,
				DueColumn:  "retinal_screening_due",
			},
			{
				Test:       "MH Screen - DDS or PHQ",
				Shape:      FixedInterval,
				DateColumn: "mh_screen_-_dds_or_phq",
				Interval:   fifteenMonths,
				DueColumn:  "mh_screen_due",
			},
			{
				Test:       "Patient goals",
				Shape:      FixedInterval,
				DateColumn: "patient_goals",
				Interval:   fifteenMonths,
				DueColumn:  "patient_goals_due",
			},
			{
				Test:       "Care plan",
				Shape:      FixedInterval,
				DateColumn: "care_plan",
				Interval:   fifteenMonths,
				DueColumn:  "care_plan_due",
			},
			{
				Test:       "Education",
				Shape:      FixedInterval,
				DateColumn: "education",
				Interval:   fifteenMonths,
				DueColumn:  "education_due",
			},
			{
				Test:       "Review Booked",
				Shape:      MonthLabelDeadline,
				DateColumn: "review_due",
				DueColumn:  "review_overdue",
			},
		},
	}
}
