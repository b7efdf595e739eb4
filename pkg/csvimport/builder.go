package csvimport

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Record is one candidate entity built from a raw row. Values holds coerced
// field values keyed by profile field key: string for text/email/phone,
// float64 for number, int64 for integer, and a YYYY-MM-DD string for date.
// A field that failed coercion or resolved empty is absent, never a zero or
// sentinel value. The optional note travels on the record itself so the
// ingestor never has to reconstruct a row-index correspondence.
type Record struct {
	Values map[string]any
	Meta   map[string]string
	Note   string
}

func (r Record) Text(key string) string {
	v, _ := r.Values[key].(string)
	return v
}

func (r Record) Number(key string) (float64, bool) {
	v, ok := r.Values[key].(float64)
	return v, ok
}

func (r Record) Int(key string) (int64, bool) {
	v, ok := r.Values[key].(int64)
	return v, ok
}

func (r Record) Date(key string) (string, bool) {
	v, ok := r.Values[key].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (r Record) Has(key string) bool {
	_, ok := r.Values[key]
	return ok
}

// BuildResult carries the surviving candidates plus the count of rows
// discarded by the required-field gate.
type BuildResult struct {
	Records []Record
	Skipped int
}

// BuildRecords materializes one Record per raw row under the confirmed
// mapping. When several headers map to the same field, the first header's
// value wins. Rows whose required fields resolve empty after fallbacks are
// counted as skipped, not failed.
func BuildRecords(table RawTable, m Mapping, p *Profile) BuildResult {
	var result BuildResult

	for _, row := range table.Rows {
		rec := Record{Values: make(map[string]any)}

		for i, header := range table.Headers {
			fieldKey, ok := m[header]
			if !ok {
				continue
			}
			field, ok := p.Field(fieldKey)
			if !ok {
				continue
			}
			if rec.Has(field.Key) || (field.Kind == KindNote && rec.Note != "") {
				continue
			}
			if field.Kind == KindHandle {
				if _, set := rec.Meta[field.Key]; set {
					continue
				}
			}
			raw := ""
			if i < len(row) {
				raw = row[i]
			}
			coerce(&rec, field, raw)
		}

		for target, source := range p.Fallbacks {
			if strings.TrimSpace(rec.Text(target)) == "" {
				if v := strings.TrimSpace(rec.Text(source)); v != "" {
					rec.Values[target] = v
				}
			}
		}

		if !requiredSatisfied(rec, p) {
			result.Skipped++
			continue
		}
		result.Records = append(result.Records, rec)
	}

	return result
}

func requiredSatisfied(rec Record, p *Profile) bool {
	for _, f := range p.RequiredFields() {
		if strings.TrimSpace(rec.Text(f.Key)) == "" {
			return false
		}
	}
	return true
}

func coerce(rec *Record, field FieldSpec, raw string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return
	}

	switch field.Kind {
	case KindText:
		rec.Values[field.Key] = raw
	case KindEmail:
		rec.Values[field.Key] = strings.ToLower(raw)
	case KindPhone:
		if v := normalizePhone(raw); v != "" {
			rec.Values[field.Key] = v
		}
	case KindNumber:
		if v, ok := parseNumber(raw); ok {
			rec.Values[field.Key] = v
		}
	case KindInteger:
		if v, ok := parseNumber(raw); ok {
			rec.Values[field.Key] = int64(v)
		}
	case KindDate:
		if v, ok := parseDate(raw); ok {
			rec.Values[field.Key] = v
		}
	case KindHandle:
		if rec.Meta == nil {
			rec.Meta = make(map[string]string)
		}
		rec.Meta[field.Key] = strings.TrimPrefix(raw, "@")
	case KindNote:
		rec.Note = raw
	}
}

// parseNumber strips currency noise ($ and ,) and parses the rest. The
// result is always finite: NaN and infinities count as a parse failure.
func parseNumber(raw string) (float64, bool) {
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(raw)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
	"01-02-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

func parseDate(raw string) (string, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

func normalizePhone(raw string) string {
	var b strings.Builder
	for i, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			continue
		}
		if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}
