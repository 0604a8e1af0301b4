package eventlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Filter bounds which events a parse run accepts. Zero values disable the
// corresponding bound.
type Filter struct {
	From      int64 // inclusive lower bound, epoch ms
	To        int64 // inclusive upper bound, epoch ms
	Watermark int64 // exclusive lower bound (incremental mode)
	Verbose   bool  // report skipped lines
}

// ParseFile reads the event log at path and returns all accepted events.
// A path ending in .zst is decompressed transparently. A missing or
// unreadable log is an error; malformed lines inside it are not.
func ParseFile(path string, f Filter) ([]Event, error) {
	src, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer src.Close()

	var r io.Reader = src
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(src)
		if err != nil {
			return nil, fmt.Errorf("create zstd decoder: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	return Parse(r, f)
}

// Parse reads JSONL events from a reader. Each line is an independent JSON
// object; lines that fail to decode or lack a timestamp or project are
// skipped rather than failing the run. Output order is file order, which is
// not guaranteed to be chronological.
func Parse(r io.Reader, f Filter) ([]Event, error) {
	var events []Event
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 10*1024*1024) // 10MB max line

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var ev Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			if f.Verbose {
				log.Printf("warning: line %d: %v", lineNum, err)
			}
			continue
		}

		if ev.Timestamp == 0 || ev.Project == "" {
			if f.Verbose {
				log.Printf("warning: line %d: missing timestamp or project", lineNum)
			}
			continue
		}

		if f.From != 0 && ev.Timestamp < f.From {
			continue
		}
		if f.To != 0 && ev.Timestamp > f.To {
			continue
		}
		if f.Watermark != 0 && ev.Timestamp <= f.Watermark {
			continue
		}

		events = append(events, ev)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan log: %w", err)
	}

	return events, nil
}
