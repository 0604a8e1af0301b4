package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func sampleRow() Row {
	return NewRow(
		"/home/dev/myrepo", "myrepo", "Acme", "Acme Website",
		"Bug fixes: authentication", "bug-fix, security",
		1_700_000_000_000, 1_700_000_600_000, 3,
	)
}

func TestNewRow_Durations(t *testing.T) {
	r := sampleRow() // 10 minutes
	if r.DurationMinutes != 10 {
		t.Errorf("got %d minutes", r.DurationMinutes)
	}
	if r.DurationHours != 0.17 {
		t.Errorf("got %v hours", r.DurationHours)
	}
	if r.MessageCount != 3 {
		t.Errorf("got %d messages", r.MessageCount)
	}
}

func TestNewRow_ZeroDuration(t *testing.T) {
	r := NewRow("/r", "r", "c", "p", "d", "general", 1000, 1000, 1)
	if r.DurationHours != 0 || r.DurationMinutes != 0 {
		t.Errorf("got %v hours, %d minutes", r.DurationHours, r.DurationMinutes)
	}
}

func TestWriteDelimited_CSVRoundTrip(t *testing.T) {
	r := sampleRow()
	r.Description = `has "quotes", commas, and` + "\na newline"

	var buf bytes.Buffer
	if err := writeDelimited([]Row{r}, &buf, ','); err != nil {
		t.Fatal(err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("produced CSV does not parse: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want header + 1", len(records))
	}

	// Newlines are collapsed to spaces; quotes and commas round-trip
	want := `has "quotes", commas, and a newline`
	if got := records[1][5]; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got := records[1][0]; got != r.StartDate {
		t.Errorf("got start date %q", got)
	}
	if got := records[1][12]; got != "/home/dev/myrepo" {
		t.Errorf("got path %q", got)
	}
}

func TestWriteDelimited_TSV(t *testing.T) {
	var buf bytes.Buffer
	if err := writeDelimited([]Row{sampleRow()}, &buf, '\t'); err != nil {
		t.Fatal(err)
	}

	reader := csv.NewReader(&buf)
	reader.Comma = '\t'
	records, err := reader.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || len(records[1]) != 13 {
		t.Fatalf("got %d records, %d fields", len(records), len(records[1]))
	}
}

func TestWriteJSON_EmptyRows(t *testing.T) {
	var buf bytes.Buffer
	if err := writeJSON(nil, &buf); err != nil {
		t.Fatal(err)
	}

	var rows []Row
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("produced JSON does not parse: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows", len(rows))
	}
}

func TestWrite_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.json")
	if err := Write([]Row{sampleRow()}, FormatJSON, path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var rows []Row
	if err := json.Unmarshal(data, &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Client != "Acme" {
		t.Errorf("got %+v", rows)
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(nil, "xml", filepath.Join(t.TempDir(), "out.xml"))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestValidFormat(t *testing.T) {
	for _, f := range []string{FormatCSV, FormatTSV, FormatJSON, FormatSQLite} {
		if !ValidFormat(f) {
			t.Errorf("%s should be valid", f)
		}
	}
	if ValidFormat("xlsx") {
		t.Error("xlsx should not be valid")
	}
}
