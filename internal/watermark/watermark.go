package watermark

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// GlobalKey is the scope key used for ad-hoc exports and as the sentinel
// under which a legacy single-timestamp state file is preserved.
const GlobalKey = "_all"

// ProfileKey returns the namespaced scope key for a named export profile,
// so its watermark is independent of the ad-hoc scope and other profiles.
func ProfileKey(name string) string {
	return "profile:" + name
}

// Store tracks the last successful export time per scope key in a JSON
// state file. The legacy schema held a single timestamp; it is read
// transparently and migrated to the keyed form on first write.
type Store struct {
	path string
}

// stateFile mirrors the on-disk document. LastExportTime is either a bare
// number (legacy) or an object keyed by scope.
type stateFile struct {
	LastExportTime json.RawMessage `json:"lastExportTime"`
}

// New returns a store backed by last-export.json inside stateDir.
func New(stateDir string) *Store {
	return &Store{path: filepath.Join(stateDir, "last-export.json")}
}

// Read returns the watermark for scopeKey and whether one exists. A keyed
// state file resolves the key directly, falling back to the global sentinel;
// a legacy scalar file answers every key with its single value. Read or
// parse failures are non-fatal and reported as "no watermark".
func (s *Store) Read(scopeKey string) (int64, bool) {
	keyed, legacy, ok := s.load()
	if !ok {
		return 0, false
	}

	if keyed != nil {
		if ts, ok := keyed[scopeKey]; ok {
			return ts, true
		}
		if ts, ok := keyed[GlobalKey]; ok {
			return ts, true
		}
		return 0, false
	}

	if legacy != 0 {
		return legacy, true
	}
	return 0, false
}

// Write records ts as the watermark for scopeKey, preserving every other
// key. A legacy scalar file is migrated in memory first, its value kept
// under the global sentinel key. Failures are warnings, not errors: an
// export must not fail because its watermark could not be saved.
func (s *Store) Write(scopeKey string, ts int64) {
	keyed, legacy, ok := s.load()
	if !ok || keyed == nil {
		keyed = make(map[string]int64)
		if ok && legacy != 0 {
			keyed[GlobalKey] = legacy
		}
	}

	keyed[scopeKey] = ts

	if err := s.save(keyed); err != nil {
		log.Printf("warning: could not save watermark: %v", err)
	}
}

// load reads the state file. Returns the keyed map (nil when the file holds
// the legacy scalar), the legacy value, and whether usable state was read.
func (s *Store) load() (map[string]int64, int64, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("warning: could not read watermark state: %v", err)
		}
		return nil, 0, false
	}

	var state stateFile
	if err := json.Unmarshal(data, &state); err != nil {
		log.Printf("warning: could not parse watermark state: %v", err)
		return nil, 0, false
	}
	if len(state.LastExportTime) == 0 {
		return nil, 0, false
	}

	var keyed map[string]int64
	if err := json.Unmarshal(state.LastExportTime, &keyed); err == nil {
		return keyed, 0, true
	}

	var legacy int64
	if err := json.Unmarshal(state.LastExportTime, &legacy); err == nil {
		return nil, legacy, true
	}

	log.Printf("warning: unrecognized watermark state in %s", s.path)
	return nil, 0, false
}

func (s *Store) save(keyed map[string]int64) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	raw, err := json.Marshal(keyed)
	if err != nil {
		return fmt.Errorf("marshal watermarks: %w", err)
	}
	data, err := json.MarshalIndent(stateFile{LastExportTime: raw}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	return os.WriteFile(s.path, data, 0o644)
}
