// Package sheets reads the first worksheet of an externally maintained
// spreadsheet as an actioned-patient table, either over HTTP from a
// shared sheet URL or from an uploaded workbook file.
package sheets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"

	"github.com/bromptonhealth/dmrecall/tabular"
	"github.com/bromptonhealth/dmrecall/tracker"
)

// shareURLPattern matches a Google Sheets share link; the document key is
// captured to build the first-worksheet CSV export URL.
var shareURLPattern = regexp.MustCompile(`^(https://docs\.google\.com/spreadsheets/d/[^/]+)(/.*)?$`)

// Config holds the spreadsheet location and fetch settings.
type Config struct {
	SheetURL string
	Timeout  time.Duration
}

// Service fetches spreadsheet records over HTTP.
type Service struct {
	sheetURL   string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewService creates a spreadsheet read service for the configured URL.
func NewService(config Config, log zerolog.Logger) *Service {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.Logger = nil
	retryClient.HTTPClient = &http.Client{Timeout: config.Timeout}

	return &Service{
		sheetURL:   config.SheetURL,
		httpClient: retryClient.StandardClient(),
		log:        log.With().Str("component", "sheets_service").Logger(),
	}
}

// Fetch downloads the first worksheet as a delimited table. Share links
// are rewritten to their CSV export form; any other URL is fetched as-is
// and must serve delimited text.
func (s *Service) Fetch(ctx context.Context) (*tabular.Table, error) {
	uri := exportURL(s.sheetURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("spreadsheet fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("spreadsheet fetch returned status %d: %s", resp.StatusCode, string(body))
	}

	table, err := tabular.ReadCSV(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse worksheet: %w", err)
	}

	s.log.Debug().
		Int("records", table.Len()).
		Msg("Fetched spreadsheet records")
	return table, nil
}

// FetchActioned implements tracker.ActionedSource.
func (s *Service) FetchActioned(ctx context.Context) (*tabular.Table, error) {
	table, err := s.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return tracker.NormalizeIdentifiers(table, s.log), nil
}

// exportURL rewrites a share link to the first worksheet's CSV export.
func exportURL(sheetURL string) string {
	if m := shareURLPattern.FindStringSubmatch(sheetURL); m != nil {
		return m[1] + "/export?format=csv&gid=0"
	}
	return sheetURL
}
