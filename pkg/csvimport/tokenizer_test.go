package csvimport

import (
	"reflect"
	"testing"
)

func TestTokenize_Basic(t *testing.T) {
	table := Tokenize("Company Name,Contact Name,Email\nAcme Rentals,Jane Doe,jane@acme.com\n")

	want := []string{"Company Name", "Contact Name", "Email"}
	if !reflect.DeepEqual(table.Headers, want) {
		t.Fatalf("headers: got %v, want %v", table.Headers, want)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(table.Rows))
	}
	if !reflect.DeepEqual(table.Rows[0], []string{"Acme Rentals", "Jane Doe", "jane@acme.com"}) {
		t.Fatalf("unexpected row: %v", table.Rows[0])
	}
}

func TestTokenize_Idempotent(t *testing.T) {
	text := "a,b,c\n1,2,3\n\"x, y\",z,\n"
	first := Tokenize(text)
	second := Tokenize(text)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("tokenizing twice diverged: %v vs %v", first, second)
	}
}

func TestTokenize_BOMInvariance(t *testing.T) {
	text := "Company,Email\nAcme,a@b.com\n"
	plain := Tokenize(text)
	bommed := Tokenize("\uFEFF" + text)
	if !reflect.DeepEqual(plain, bommed) {
		t.Fatalf("BOM changed parse: %v vs %v", plain, bommed)
	}
	if plain.Headers[0] != "Company" {
		t.Fatalf("unexpected first header: %q", plain.Headers[0])
	}
}

func TestTokenize_QuotedComma(t *testing.T) {
	table := Tokenize("a,b\n\"x, y\",z\n")
	if got := table.Rows[0][0]; got != "x, y" {
		t.Fatalf("quoted field: got %q, want %q", got, "x, y")
	}
	if got := table.Rows[0][1]; got != "z" {
		t.Fatalf("second field: got %q, want %q", got, "z")
	}
}

func TestTokenize_UnterminatedQuoteConsumesLine(t *testing.T) {
	table := Tokenize("a,b\n\"x, y,z\n")
	if len(table.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(table.Rows))
	}
	if got := table.Rows[0][0]; got != "x, y,z" {
		t.Fatalf("got %q, want rest of line in one field", got)
	}
}

func TestTokenize_CRLFAndBlankLines(t *testing.T) {
	table := Tokenize("a,b\r\n\r\n1,2\r\n\n3,4\n")
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
	if table.Rows[0][1] != "2" || table.Rows[1][0] != "3" {
		t.Fatalf("unexpected rows: %v", table.Rows)
	}
}

func TestTokenize_ShortRowPadded(t *testing.T) {
	table := Tokenize("a,b,c\n1\n")
	if !reflect.DeepEqual(table.Rows[0], []string{"1", "", ""}) {
		t.Fatalf("short row not padded: %v", table.Rows[0])
	}
}

func TestTokenize_AllEmptyRowDropped(t *testing.T) {
	table := Tokenize("a,b\n,\n , \n1,2\n")
	if len(table.Rows) != 1 {
		t.Fatalf("empty rows must be dropped, got %d rows", len(table.Rows))
	}
}

func TestTokenize_DuplicateHeadersKeptPositionally(t *testing.T) {
	table := Tokenize("email,email\nfirst@a.com,second@a.com\n")
	if len(table.Headers) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(table.Headers))
	}
	if table.Rows[0][0] != "first@a.com" || table.Rows[0][1] != "second@a.com" {
		t.Fatalf("duplicate header columns collapsed: %v", table.Rows[0])
	}
}

func TestDecode_UTF16LE(t *testing.T) {
	// "a,b\n1,2" in UTF-16LE with BOM.
	data := []byte{0xFF, 0xFE}
	for _, r := range "a,b\n1,2" {
		data = append(data, byte(r), 0)
	}
	table, err := DecodeAndTokenize(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if table.Headers[0] != "a" || table.Rows[0][1] != "2" {
		t.Fatalf("unexpected table: %+v", table)
	}
}

func TestDecode_Latin1Fallback(t *testing.T) {
	// 0xE9 is é in latin-1 and invalid as standalone UTF-8.
	text, err := Decode([]byte{'c', 'a', 'f', 0xE9})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if text != "café" {
		t.Fatalf("got %q, want %q", text, "café")
	}
}
