package csvimport

import (
	"testing"
)

func buildFromCSV(t *testing.T, text string) BuildResult {
	t.Helper()
	p := testProfile(t)
	table := Tokenize(text)
	m := BuildMapping(AutoMap(table.Headers, p))
	if err := m.Validate(p); err != nil {
		t.Fatalf("mapping invalid: %v", err)
	}
	return BuildRecords(table, m, p)
}

func TestBuildRecords_ScenarioA(t *testing.T) {
	// Row with empty company is skipped, not failed.
	result := buildFromCSV(t, "Company Name,Contact Name,Email\nAcme Rentals,Jane Doe,jane@acme.com\n,Bob,\n")

	if len(result.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(result.Records))
	}
	if result.Skipped != 1 {
		t.Fatalf("expected 1 skipped, got %d", result.Skipped)
	}
	rec := result.Records[0]
	if rec.Text("company_name") != "Acme Rentals" {
		t.Fatalf("company: %q", rec.Text("company_name"))
	}
	if rec.Text("contact_email") != "jane@acme.com" {
		t.Fatalf("email: %q", rec.Text("contact_email"))
	}
}

func TestBuildRecords_CurrencyStripped(t *testing.T) {
	result := buildFromCSV(t, "Company,Estimated Value\nAcme,\"$1,500\"\n")
	v, ok := result.Records[0].Number("estimated_value")
	if !ok || v != 1500 {
		t.Fatalf("estimated_value: got %v (%v), want 1500", v, ok)
	}
}

func TestBuildRecords_NumericNeverNaN(t *testing.T) {
	for _, raw := range []string{"NaN", "Inf", "-Inf", "Infinity", "abc", "$", ",", ""} {
		result := buildFromCSV(t, "Company,Estimated Value\nAcme,\""+raw+"\"\n")
		if len(result.Records) != 1 {
			t.Fatalf("%q: record lost", raw)
		}
		if result.Records[0].Has("estimated_value") {
			v, _ := result.Records[0].Number("estimated_value")
			t.Fatalf("%q: expected unset field, got %v", raw, v)
		}
	}
}

func TestBuildRecords_IntegerTruncated(t *testing.T) {
	result := buildFromCSV(t, "Company,Fleet Size\nAcme,12.9\n")
	v, ok := result.Records[0].Int("fleet_size")
	if !ok || v != 12 {
		t.Fatalf("fleet_size: got %v (%v), want 12", v, ok)
	}
}

func TestBuildRecords_DateNormalized(t *testing.T) {
	cases := map[string]string{
		"2026-03-15":  "2026-03-15",
		"03/15/2026":  "2026-03-15",
		"3/5/2026":    "2026-03-05",
		"Mar 5, 2026": "2026-03-05",
	}
	for raw, want := range cases {
		result := buildFromCSV(t, "Company,Follow Up Date\nAcme,\""+raw+"\"\n")
		got, ok := result.Records[0].Date("next_follow_up")
		if !ok || got != want {
			t.Errorf("%q: got %q (%v), want %q", raw, got, ok, want)
		}
	}

	result := buildFromCSV(t, "Company,Follow Up Date\nAcme,not a date\n")
	if result.Records[0].Has("next_follow_up") {
		t.Error("invalid date should leave field unset")
	}
}

func TestBuildRecords_PhoneNormalized(t *testing.T) {
	result := buildFromCSV(t, "Company,Phone\nAcme,+1 (555) 123-4567\n")
	if got := result.Records[0].Text("contact_phone"); got != "+15551234567" {
		t.Fatalf("phone: %q", got)
	}

	result = buildFromCSV(t, "Company,Phone\nAcme,555-123-4567 ext+9\n")
	if got := result.Records[0].Text("contact_phone"); got != "55512345679" {
		t.Fatalf("non-leading plus must be dropped: %q", got)
	}
}

func TestBuildRecords_EmailLowercased(t *testing.T) {
	result := buildFromCSV(t, "Company,Email\nAcme,Jane.Doe@ACME.com\n")
	if got := result.Records[0].Text("contact_email"); got != "jane.doe@acme.com" {
		t.Fatalf("email: %q", got)
	}
}

func TestBuildRecords_EmptyTextOmitted(t *testing.T) {
	result := buildFromCSV(t, "Company,Contact Name\nAcme,  \n")
	rec := result.Records[0]
	// Fallback fills contact_name from company_name, so it is set here, but
	// from the fallback source rather than the blank cell.
	if got := rec.Text("contact_name"); got != "Acme" {
		t.Fatalf("contact_name fallback: %q", got)
	}
}

func TestBuildRecords_ContactNameFallsBackToCompany(t *testing.T) {
	result := buildFromCSV(t, "Company,Email\nAcme Rentals,jane@acme.com\n")
	if got := result.Records[0].Text("contact_name"); got != "Acme Rentals" {
		t.Fatalf("fallback: %q", got)
	}
}

func TestBuildRecords_InstagramHandle(t *testing.T) {
	result := buildFromCSV(t, "Company,Instagram\nAcme,@acme_rentals\n")
	rec := result.Records[0]
	if got := rec.Meta["instagram"]; got != "acme_rentals" {
		t.Fatalf("handle: %q", got)
	}
	if rec.Has("instagram") {
		t.Fatal("handle must live in the meta bag, not in values")
	}
}

func TestBuildRecords_NoteTravelsWithRecord(t *testing.T) {
	result := buildFromCSV(t, "Company,Notes\nAcme,Call after summer\nBeta,\n")
	if got := result.Records[0].Note; got != "Call after summer" {
		t.Fatalf("note: %q", got)
	}
	if got := result.Records[1].Note; got != "" {
		t.Fatalf("empty note cell must stay empty, got %q", got)
	}
}

func TestBuildRecords_FirstMappedHeaderWins(t *testing.T) {
	p := testProfile(t)
	table := Tokenize("Company,Business\nAcme,Beta Corp\n")
	m := Mapping{"Company": "company_name", "Business": "company_name"}
	result := BuildRecords(table, m, p)
	if got := result.Records[0].Text("company_name"); got != "Acme" {
		t.Fatalf("expected first header's value, got %q", got)
	}
}

func TestBuildRecords_GateSoundness(t *testing.T) {
	result := buildFromCSV(t, "Company,Email\nAcme,a@b.com\n,x@y.com\nBeta,\n  ,\n")
	if len(result.Records) != 2 {
		t.Fatalf("records: %d", len(result.Records))
	}
	for _, rec := range result.Records {
		if rec.Text("company_name") == "" {
			t.Fatal("record with empty identity survived the gate")
		}
	}
	// ",x@y.com" is a counted skip; "  ," is all-empty and never counted.
	if result.Skipped != 1 {
		t.Fatalf("skipped: %d", result.Skipped)
	}
}
