package csvimport

import (
	"strings"

	"github.com/velocity-exotics/crm-platform/pkg/serrors"
)

// MatchKind tags how a header was bound during auto-mapping.
type MatchKind int

const (
	MatchNone MatchKind = iota
	MatchExact
	MatchPartial
)

func (k MatchKind) String() string {
	switch k {
	case MatchExact:
		return "exact"
	case MatchPartial:
		return "partial"
	default:
		return "none"
	}
}

// ColumnMatch is the proposed binding for one source header.
type ColumnMatch struct {
	Header   string
	FieldKey string
	Kind     MatchKind
}

// Mapping binds source headers to profile field keys. Unbound headers are
// simply absent. The operator may overwrite any entry before the import is
// committed; overrides are authoritative and not re-checked against aliases.
type Mapping map[string]string

var (
	ErrIdentityNotMapped = serrors.NewError(
		"IMPORT_IDENTITY_NOT_MAPPED",
		"required identity column is not mapped",
		"assign a source column to the identity field before importing",
	)
	ErrContactMethodNotMapped = serrors.NewError(
		"IMPORT_CONTACT_METHOD_NOT_MAPPED",
		"no contact method column is mapped",
		"map at least one of the required alternative fields",
	)
)

// normalizeHeader lowercases and collapses runs of underscores, hyphens and
// whitespace into single spaces, so "Company_Name" and "company name" compare
// equal.
func normalizeHeader(h string) string {
	var b strings.Builder
	lastSpace := false
	for _, r := range strings.ToLower(strings.TrimSpace(h)) {
		if r == '_' || r == '-' || r == ' ' || r == '\t' {
			if !lastSpace {
				b.WriteByte(' ')
			}
			lastSpace = true
			continue
		}
		lastSpace = false
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

func stripSpaces(s string) string {
	return strings.ReplaceAll(s, " ", "")
}

// AutoMap proposes a binding for every header using two passes: an exact
// alias comparison first (including a whitespace-free comparison, so
// "Company Name" matches "companyname"), then bidirectional substring
// containment for whatever is still unbound. Fields are tried in profile
// table order and headers in source order, so the result is deterministic.
func AutoMap(headers []string, p *Profile) []ColumnMatch {
	matches := make([]ColumnMatch, len(headers))
	for i, h := range headers {
		matches[i] = ColumnMatch{Header: h, Kind: MatchNone}
	}

	for i, h := range headers {
		norm := normalizeHeader(h)
		if norm == "" {
			continue
		}
		if key, ok := exactMatch(norm, p); ok {
			matches[i].FieldKey = key
			matches[i].Kind = MatchExact
		}
	}

	for i := range matches {
		if matches[i].Kind != MatchNone {
			continue
		}
		norm := normalizeHeader(matches[i].Header)
		if norm == "" {
			continue
		}
		if key, ok := partialMatch(norm, p); ok {
			matches[i].FieldKey = key
			matches[i].Kind = MatchPartial
		}
	}

	return matches
}

func exactMatch(norm string, p *Profile) (string, bool) {
	stripped := stripSpaces(norm)
	for _, f := range p.Fields {
		for _, alias := range f.Aliases {
			a := normalizeHeader(alias)
			if norm == a || stripped == stripSpaces(a) {
				return f.Key, true
			}
		}
	}
	return "", false
}

func partialMatch(norm string, p *Profile) (string, bool) {
	for _, f := range p.Fields {
		for _, alias := range f.Aliases {
			a := normalizeHeader(alias)
			if a == "" {
				continue
			}
			if strings.Contains(norm, a) || strings.Contains(a, norm) {
				return f.Key, true
			}
		}
	}
	return "", false
}

// BuildMapping collapses proposed matches into the header-keyed mapping. A
// header name appearing twice keeps only the last binding; the raw columns
// stay positionally intact but the mapping is by header string.
func BuildMapping(matches []ColumnMatch) Mapping {
	m := make(Mapping, len(matches))
	for _, match := range matches {
		if match.Kind == MatchNone || match.FieldKey == "" {
			continue
		}
		m[match.Header] = match.FieldKey
	}
	return m
}

// Validate enforces the pre-import mapping contract: every required field
// must be bound, and at least one of the profile's alternative fields when
// declared. Runs before any store call.
func (m Mapping) Validate(p *Profile) error {
	mapped := make(map[string]struct{}, len(m))
	for _, key := range m {
		mapped[key] = struct{}{}
	}

	for _, f := range p.RequiredFields() {
		if _, ok := mapped[f.Key]; !ok {
			return ErrIdentityNotMapped
		}
	}

	if len(p.RequireAnyOf) > 0 {
		found := false
		for _, key := range p.RequireAnyOf {
			if _, ok := mapped[key]; ok {
				found = true
				break
			}
		}
		if !found {
			return ErrContactMethodNotMapped
		}
	}
	return nil
}
