package csvimport

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// TokenizeXLSX reads the first sheet of an XLSX payload into the same
// RawTable the CSV tokenizer produces, so spreadsheet uploads run through
// the identical mapping and ingestion pipeline.
func TokenizeXLSX(r io.Reader) (RawTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return RawTable{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return RawTable{}, fmt.Errorf("xlsx has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return RawTable{}, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return RawTable{}, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	table := RawTable{Headers: headers}
	for _, cells := range rows[1:] {
		row := make([]string, len(headers))
		empty := true
		for i := range headers {
			if i < len(cells) {
				row[i] = strings.TrimSpace(cells[i])
			}
			if row[i] != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
