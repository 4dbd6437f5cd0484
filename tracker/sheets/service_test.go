package sheets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"share link",
			"https://docs.google.com/spreadsheets/d/abc123/edit?usp=sharing",
			"https://docs.google.com/spreadsheets/d/abc123/export?format=csv&gid=0",
		},
		{
			"bare document link",
			"https://docs.google.com/spreadsheets/d/abc123",
			"https://docs.google.com/spreadsheets/d/abc123/export?format=csv&gid=0",
		},
		{
			"other url passed through",
			"https://example.org/actioned.csv",
			"https://example.org/actioned.csv",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exportURL(tt.input))
		})
	}
}

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("NHS Number,Status\n123 456 7890,Booked\n"))
	}))
	defer server.Close()

	service := NewService(Config{SheetURL: server.URL, Timeout: 5 * time.Second}, zerolog.Nop())

	table, err := service.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, "123 456 7890", table.Rows[0]["NHS Number"])
}

func TestFetchActionedNormalizesIdentifiers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("NHS No,Status\n123 456 7890.0,Booked\n"))
	}))
	defer server.Close()

	service := NewService(Config{SheetURL: server.URL}, zerolog.Nop())

	table, err := service.FetchActioned(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	id, ok := table.Rows[0].Int64("nhs_number")
	require.True(t, ok)
	assert.Equal(t, int64(1234567890), id)
}

func TestFetchNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	service := NewService(Config{SheetURL: server.URL}, zerolog.Nop())

	_, err := service.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
