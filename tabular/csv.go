package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ReadCSV parses a delimited table from r. The first record is the header
// row; cell values are kept as raw strings for the downstream conversion
// stages. Short records are padded with missing cells, long records keep
// their extra cells under synthetic headers.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty input: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	table := NewTable(header)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		row := make(Row, len(header))
		for i, cell := range record {
			name := ""
			if i < len(header) {
				name = header[i]
			} else {
				name = fmt.Sprintf("extra_%d", i)
				table.AddColumn(name)
			}
			cell = strings.TrimSpace(cell)
			if cell == "" {
				row[name] = nil
			} else {
				row[name] = cell
			}
		}
		table.Append(row)
	}
	return table, nil
}

// WriteCSV renders the table to w in column order. The caller owns the
// writer; this function performs no other I/O.
func (t *Table) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Columns); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, col := range t.Columns {
			record[i] = FormatCell(row[col])
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
