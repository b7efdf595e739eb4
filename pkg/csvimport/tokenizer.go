package csvimport

import (
	"strings"
)

// RawTable is the tokenizer output: a header row plus data rows aligned to
// the headers by index. Missing trailing cells are empty strings.
type RawTable struct {
	Headers []string
	Rows    [][]string
}

func (t RawTable) Empty() bool {
	return len(t.Headers) == 0
}

// Tokenize parses comma-delimited text into a RawTable.
//
// Quoting is a simple in-field toggle: a double quote flips the "in quotes"
// state and is not emitted; commas inside quotes do not split. An
// unterminated quote consumes the rest of the line into one field. This is
// deliberately not RFC 4180: doubled-quote escapes are not recognized,
// matching the dashboard importers this replaces.
//
// Blank lines are discarded. Rows whose every cell is empty after trimming
// never existed as data and are dropped without being counted.
func Tokenize(text string) RawTable {
	text = strings.TrimPrefix(text, "\uFEFF")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return RawTable{}
	}

	headers := splitLine(lines[0])
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}
	if len(headers) > 0 {
		// The BOM can survive into the first header when the payload was
		// decoded before it reached us.
		headers[0] = strings.TrimPrefix(headers[0], "\uFEFF")
	}

	table := RawTable{Headers: headers}
	for _, line := range lines[1:] {
		cells := splitLine(line)
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
	return table
}

func splitLine(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	fields = append(fields, current.String())
	return fields
}
