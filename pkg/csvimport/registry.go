package csvimport

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind selects the coercion applied to a field's raw cell value.
type Kind string

const (
	KindText    Kind = "text"
	KindEmail   Kind = "email"
	KindPhone   Kind = "phone"
	KindNumber  Kind = "number"
	KindInteger Kind = "integer"
	KindDate    Kind = "date"
	KindHandle  Kind = "handle"
	KindNote    Kind = "note"
)

// FieldSpec is one entry in a profile's versioned field table.
type FieldSpec struct {
	Key      string   `yaml:"key"`
	Kind     Kind     `yaml:"kind"`
	Required bool     `yaml:"required"`
	Aliases  []string `yaml:"aliases"`
}

// Profile is the import configuration for one destination entity. Field
// order is significant: the mapper resolves ties in table order, so the
// proposed mapping is deterministic for a given profile version.
type Profile struct {
	Name    string      `yaml:"name"`
	Version int         `yaml:"version"`
	Fields  []FieldSpec `yaml:"fields"`

	// RequireAnyOf demands that at least one of the listed field keys is
	// mapped before an import may start (contacts need email or phone).
	RequireAnyOf []string `yaml:"require_any_of"`

	// Fallbacks copies the source field's resolved value into the target
	// field when the target ends up empty (lead contact name falls back to
	// the company name).
	Fallbacks map[string]string `yaml:"fallbacks"`
}

// LoadProfile parses and validates an embedded profile table.
func LoadProfile(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse import profile: %w", err)
	}
	if strings.TrimSpace(p.Name) == "" {
		return nil, fmt.Errorf("import profile has no name")
	}
	if len(p.Fields) == 0 {
		return nil, fmt.Errorf("import profile %q has no fields", p.Name)
	}
	seen := make(map[string]struct{}, len(p.Fields))
	for _, f := range p.Fields {
		if strings.TrimSpace(f.Key) == "" {
			return nil, fmt.Errorf("import profile %q has a field without a key", p.Name)
		}
		if _, dup := seen[f.Key]; dup {
			return nil, fmt.Errorf("import profile %q declares field %q twice", p.Name, f.Key)
		}
		seen[f.Key] = struct{}{}
		switch f.Kind {
		case KindText, KindEmail, KindPhone, KindNumber, KindInteger, KindDate, KindHandle, KindNote:
		default:
			return nil, fmt.Errorf("import profile %q field %q has unknown kind %q", p.Name, f.Key, f.Kind)
		}
	}
	for _, key := range p.RequireAnyOf {
		if _, ok := seen[key]; !ok {
			return nil, fmt.Errorf("import profile %q require_any_of references unknown field %q", p.Name, key)
		}
	}
	for target, source := range p.Fallbacks {
		if _, ok := seen[target]; !ok {
			return nil, fmt.Errorf("import profile %q fallback targets unknown field %q", p.Name, target)
		}
		if _, ok := seen[source]; !ok {
			return nil, fmt.Errorf("import profile %q fallback reads unknown field %q", p.Name, source)
		}
	}
	return &p, nil
}

// MustLoadProfile is for embedded profiles validated at program start.
func MustLoadProfile(data []byte) *Profile {
	p, err := LoadProfile(data)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Profile) Field(key string) (FieldSpec, bool) {
	for _, f := range p.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// RequiredFields returns the identity fields in table order.
func (p *Profile) RequiredFields() []FieldSpec {
	var out []FieldSpec
	for _, f := range p.Fields {
		if f.Required {
			out = append(out, f)
		}
	}
	return out
}
