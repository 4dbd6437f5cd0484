package tracker

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bromptonhealth/dmrecall/tabular"
)

type stubSource struct {
	table *tabular.Table
	err   error
}

func (s stubSource) FetchActioned(_ context.Context) (*tabular.Table, error) {
	return s.table, s.err
}

func TestFetchActionedDegradedMode(t *testing.T) {
	ctx := context.Background()
	log := zerolog.Nop()

	out := FetchActioned(ctx, nil, log)
	require.NotNil(t, out)
	assert.Equal(t, 0, out.Len())

	out = FetchActioned(ctx, stubSource{err: errors.New("tracker down")}, log)
	require.NotNil(t, out)
	assert.Equal(t, 0, out.Len())

	out = FetchActioned(ctx, stubSource{}, log)
	require.NotNil(t, out)
	assert.Equal(t, 0, out.Len())
}

func TestFetchActionedPassesThrough(t *testing.T) {
	table := tabular.NewTable([]string{"nhs_number"})
	table.Append(tabular.Row{"nhs_number": int64(123)})

	out := FetchActioned(context.Background(), stubSource{table: table}, zerolog.Nop())
	assert.Equal(t, 1, out.Len())
}

func TestNormalizeIdentifiers(t *testing.T) {
	table := tabular.NewTable([]string{"NHS Number", "Status"})
	table.Append(tabular.Row{"NHS Number": "123 456 7890.0", "Status": "Booked"})
	table.Append(tabular.Row{"NHS Number": "pending", "Status": "Called"})

	out := NormalizeIdentifiers(table, zerolog.Nop())

	assert.Equal(t, []string{"nhs_number", "Status"}, out.Columns)
	id, ok := out.Rows[0].Int64("nhs_number")
	require.True(t, ok)
	assert.Equal(t, int64(1234567890), id)
	assert.Nil(t, out.Rows[1]["nhs_number"])
}

func TestNormalizeIdentifiersNoColumn(t *testing.T) {
	table := tabular.NewTable([]string{"Status"})
	table.Append(tabular.Row{"Status": "Booked"})

	out := NormalizeIdentifiers(table, zerolog.Nop())
	assert.Equal(t, 0, out.Len())
}
