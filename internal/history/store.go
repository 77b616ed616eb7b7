package history

import (
	"bufio"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/lusush/lusush/internal/errs"
)

// Record is the on-disk, line-oriented representation of one history
// entry. Spec §6 leaves the exact on-disk layout undocumented beyond
// "round-trips (command, timestamp, exit_code)" and "line-oriented for
// crash-resistant appending" — this is the format this implementation
// publishes: one JSON object per line, opened in append mode and
// fsync'd after every write so a crash mid-write only ever loses the
// single in-flight line, never corrupts earlier ones.
type Record struct {
	Command    string `json:"command"`
	Timestamp  int64  `json:"timestamp"`
	ExitCode   int    `json:"exit_code"`
	WorkingDir string `json:"working_dir,omitempty"`
}

// DefaultFileName is the default history file name (placed under
// $HOME), per spec §6.
const DefaultFileName = ".lusush_history"

// Store persists Records to a line-oriented, append-only file.
type Store struct {
	path string
	f    *os.File
}

// Open opens (creating if needed) the history file at path for
// appending.
func Open(path string) (*Store, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o600)
	if err != nil {
		return nil, errs.New(errs.DisplayFailed, "open history file %s: %v", path, err).At("history.Open")
	}
	return &Store{path: path, f: f}, nil
}

// Close closes the underlying file.
func (s *Store) Close() error {
	return s.f.Close()
}

// Append writes one record and fsyncs before returning, so a crash
// never leaves a partially-written line ahead of a confirmed append.
func (s *Store) Append(r Record) error {
	line, err := json.Marshal(r)
	if err != nil {
		return errs.New(errs.InvalidParameter, "marshal history record: %v", err).At("history.Append")
	}
	line = append(line, '\n')
	if _, err := s.f.Write(line); err != nil {
		return errs.New(errs.DisplayFailed, "write history file: %v", err).At("history.Append")
	}
	return s.f.Sync()
}

// Load reads every well-formed record from path in file order. If a
// trailing line fails to unmarshal (the common crash case: a partial
// write), Load stops there and returns every record before it along
// with a nil error and corrupted=true, matching spec §7's "history is
// rebuilt empty with a warning, preserving the in-memory tail" recovery
// policy — here as "preserve everything before the first bad line".
func Load(path string, log *slog.Logger) ([]Record, bool, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errs.New(errs.DisplayFailed, "open history file %s: %v", path, err).At("history.Load")
	}
	defer f.Close()

	var records []Record
	corrupted := false
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var r Record
		if err := json.Unmarshal(line, &r); err != nil {
			corrupted = true
			if log != nil {
				log.Warn("discarding unparseable history tail", "path", path, "records_kept", len(records))
			}
			break
		}
		records = append(records, r)
	}
	return records, corrupted, nil
}
