package sheets

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/bromptonhealth/dmrecall/tabular"
)

// ReadWorkbook reads the first worksheet of an uploaded .xlsx workbook as
// a table. The first row is the header; blank cells become missing
// values. Identifier normalization is left to the caller, matching the
// HTTP fetch path.
func ReadWorkbook(r io.Reader, log zerolog.Logger) (*tabular.Table, error) {
	workbook, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer workbook.Close()

	sheetList := workbook.GetSheetList()
	if len(sheetList) == 0 {
		return nil, fmt.Errorf("workbook has no worksheets")
	}
	sheet := sheetList[0]

	rows, err := workbook.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("worksheet %q has no header row", sheet)
	}

	header := rows[0]
	table := tabular.NewTable(header)
	for _, record := range rows[1:] {
		row := make(tabular.Row, len(header))
		for i, name := range header {
			if i >= len(record) {
				row[name] = nil
				continue
			}
			cell := strings.TrimSpace(record[i])
			if cell == "" {
				row[name] = nil
			} else {
				row[name] = cell
			}
		}
		table.Append(row)
	}

	log.Debug().
		Str("worksheet", sheet).
		Int("records", table.Len()).
		Msg("Read workbook records")
	return table, nil
}
