package normalize

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bromptonhealth/dmrecall/tabular"
)

func TestCanonicalName(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"NHS Number", "nhs_number"},
		{"HbA1c value", "hba1c_value"},
		{"First DM Diagnosis", "first_dm_diagnosis"},
		{"MH Screen - DDS or PHQ", "mh_screen_-_dds_or_phq"},
		{"already_canonical", "already_canonical"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanonicalName(tt.header))
	}
}

func TestColumnsDropsAdministrative(t *testing.T) {
	table := tabular.NewTable([]string{"NHS Number", "QoF BP Done", "HbA1c value", "Frailty"})
	table.Append(tabular.Row{
		"NHS Number":  "123",
		"QoF BP Done": "1",
		"HbA1c value": "58",
		"Frailty":     "mild",
	})

	out := Columns(table, zerolog.Nop())

	assert.Equal(t, []string{"nhs_number", "hba1c_value"}, out.Columns)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, "58", out.Rows[0]["hba1c_value"])
	_, present := out.Rows[0]["qof_bp_done"]
	assert.False(t, present)
}

func TestColumnsPreservesUnknownColumns(t *testing.T) {
	table := tabular.NewTable([]string{"Practice Notes"})
	table.Append(tabular.Row{"Practice Notes": "keep me"})

	out := Columns(table, zerolog.Nop())

	assert.Equal(t, []string{"practice_notes"}, out.Columns)
	assert.Equal(t, "keep me", out.Rows[0]["practice_notes"])
}

func TestCleanIdentifier(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  int64
		ok    bool
	}{
		{"plain digits", "1234567890", 1234567890, true},
		{"internal spaces", "123 456 7890", 1234567890, true},
		{"trailing float artifact", "1234567890.0", 1234567890, true},
		{"spaces and artifact", " 123 456 7890.0 ", 1234567890, true},
		{"already integer", int64(42), 42, true},
		{"whole float", float64(1234567890), 1234567890, true},
		{"fractional float", 123.4, 0, false},
		{"garbage", "n/a", 0, false},
		{"empty", "", 0, false},
		{"nil", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CleanIdentifier(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestIdentifiersNeverCoerceToZero(t *testing.T) {
	table := tabular.NewTable([]string{"nhs_number"})
	table.Append(tabular.Row{"nhs_number": "123 456 7890"})
	table.Append(tabular.Row{"nhs_number": "not a number"})
	table.Append(tabular.Row{"nhs_number": nil})

	Identifiers(table, "nhs_number", zerolog.Nop())

	assert.Equal(t, int64(1234567890), table.Rows[0]["nhs_number"])
	assert.Nil(t, table.Rows[1]["nhs_number"])
	assert.Nil(t, table.Rows[2]["nhs_number"])
}

func TestIdentifiersAbsentColumn(t *testing.T) {
	table := tabular.NewTable([]string{"name"})
	table.Append(tabular.Row{"name": "Smith"})

	// Must not panic or alter the table.
	Identifiers(table, "nhs_number", zerolog.Nop())
	assert.Equal(t, "Smith", table.Rows[0]["name"])
}

func TestFindIdentifierColumn(t *testing.T) {
	table := tabular.NewTable([]string{"Name", "NHS No"})
	column, ok := FindIdentifierColumn(table)
	require.True(t, ok)
	assert.Equal(t, "NHS No", column)

	_, ok = FindIdentifierColumn(tabular.NewTable([]string{"Name"}))
	assert.False(t, ok)
}
