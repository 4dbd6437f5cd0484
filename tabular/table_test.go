package tabular

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowAccessors(t *testing.T) {
	row := Row{
		"name":   "Smith",
		"value":  "58.5",
		"count":  int64(3),
		"due":    true,
		"seen":   DateOf(2025, time.January, 5),
		"empty":  "",
		"absent": nil,
	}

	s, ok := row.String("name")
	assert.True(t, ok)
	assert.Equal(t, "Smith", s)

	f, ok := row.Float("value")
	assert.True(t, ok)
	assert.Equal(t, 58.5, f)

	n, ok := row.Int64("count")
	assert.True(t, ok)
	assert.Equal(t, int64(3), n)

	b, ok := row.Bool("due")
	assert.True(t, ok)
	assert.True(t, b)

	d, ok := row.Date("seen")
	assert.True(t, ok)
	assert.Equal(t, "05/01/2025", d.String())

	_, ok = row.Float("empty")
	assert.False(t, ok)
	_, ok = row.Float("absent")
	assert.False(t, ok)
	_, ok = row.Float("missing")
	assert.False(t, ok)
}

func TestRenameColumn(t *testing.T) {
	table := NewTable([]string{"NHS number", "Name"})
	table.Append(Row{"NHS number": "123", "Name": "Smith"})

	table.RenameColumn("NHS number", "nhs_number")

	assert.Equal(t, []string{"nhs_number", "Name"}, table.Columns)
	v, ok := table.Rows[0].String("nhs_number")
	assert.True(t, ok)
	assert.Equal(t, "123", v)
	_, present := table.Rows[0]["NHS number"]
	assert.False(t, present)
}

func TestCloneIsIndependent(t *testing.T) {
	table := NewTable([]string{"a"})
	table.Append(Row{"a": "1"})

	clone := table.Clone()
	clone.Rows[0]["a"] = "changed"
	clone.AddColumn("b")

	assert.Equal(t, "1", table.Rows[0]["a"])
	assert.Equal(t, []string{"a"}, table.Columns)
}

func TestReadCSV(t *testing.T) {
	input := "NHS Number,Name,HbA1c value\n123,Smith,58\n456,Jones,\n"
	table, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"NHS Number", "Name", "HbA1c value"}, table.Columns)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, "123", table.Rows[0]["NHS Number"])
	assert.Nil(t, table.Rows[1]["HbA1c value"])
}

func TestReadCSVShortRecord(t *testing.T) {
	table, err := ReadCSV(strings.NewReader("a,b,c\n1,2\n"))
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, "2", table.Rows[0]["b"])
	assert.Nil(t, table.Rows[0]["c"])
}

func TestReadCSVEmptyInput(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestWriteCSVPreservesColumnOrder(t *testing.T) {
	table := NewTable([]string{"nhs_number", "name", "due"})
	table.Append(Row{"nhs_number": int64(1234567890), "name": "Smith", "due": true})

	var buf bytes.Buffer
	require.NoError(t, table.WriteCSV(&buf))

	assert.Equal(t, "nhs_number,name,due\n1234567890,Smith,true\n", buf.String())
}

func TestFormatCell(t *testing.T) {
	assert.Equal(t, "", FormatCell(nil))
	assert.Equal(t, "1.5", FormatCell(1.5))
	assert.Equal(t, "a; b", FormatCell([]string{"a", "b"}))
	assert.Equal(t, "05/01/2025", FormatCell(DateOf(2025, time.January, 5)))
}
