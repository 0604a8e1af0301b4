package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// Formats supported by Write.
const (
	FormatCSV    = "csv"
	FormatTSV    = "tsv"
	FormatJSON   = "json"
	FormatSQLite = "sqlite"
)

var header = []string{
	"start_date", "end_date", "client", "project", "repository",
	"description", "start_timestamp", "end_timestamp", "duration_hours",
	"duration_minutes", "message_count", "topics", "project_path",
}

// ValidFormat reports whether format names a supported output format.
func ValidFormat(format string) bool {
	switch format {
	case FormatCSV, FormatTSV, FormatJSON, FormatSQLite:
		return true
	}
	return false
}

// Write encodes rows in the given format to the file at path, creating
// parent directories as needed. The sqlite format appends to an existing
// database; the others replace the file.
func Write(rows []Row, format, path string) error {
	if format == FormatSQLite {
		return writeSQLite(rows, path)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer f.Close()

	switch format {
	case FormatCSV:
		return writeDelimited(rows, f, ',')
	case FormatTSV:
		return writeDelimited(rows, f, '\t')
	case FormatJSON:
		return writeJSON(rows, f)
	}
	return fmt.Errorf("unknown format %q", format)
}

// writeDelimited emits header + rows through encoding/csv, which handles
// quoting of embedded delimiters and quotes.
func writeDelimited(rows []Row, w io.Writer, delim rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = delim

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, r := range rows {
		record := []string{
			r.StartDate,
			r.EndDate,
			r.Client,
			r.Project,
			r.Repository,
			flatten(r.Description),
			strconv.FormatInt(r.StartTimestamp, 10),
			strconv.FormatInt(r.EndTimestamp, 10),
			strconv.FormatFloat(r.DurationHours, 'f', 2, 64),
			strconv.FormatInt(r.DurationMinutes, 10),
			strconv.Itoa(r.MessageCount),
			r.Topics,
			r.ProjectPath,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func writeJSON(rows []Row, w io.Writer) error {
	if rows == nil {
		rows = []Row{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
