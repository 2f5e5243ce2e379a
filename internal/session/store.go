package session

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"amznas/internal/fileutil"
	"amznas/internal/logging"
	"amznas/internal/services"
)

// Header is the session document header.
type Header struct {
	Spkr string `yaml:"spkr"`
	Lang string `yaml:"lang"`
}

// ChannelMean is one per-channel mean record stored with a _zero_ entry.
// Mean is a plain float64; decoder-specific numeric types are converted
// before they reach the document.
type ChannelMean struct {
	Idx    int     `yaml:"idx"`
	Type   string  `yaml:"type"`
	Mean   float64 `yaml:"mean"`
	Status string  `yaml:"status"`
}

// Entry records one acquisition in the session document. Channels is present
// only for baseline (_zero_) entries.
type Entry struct {
	Item       string        `yaml:"item"`
	Token      int           `yaml:"token"`
	Researcher string        `yaml:"researcher"`
	Fname      string        `yaml:"fname"`
	Channels   []ChannelMean `yaml:"channels,omitempty"`
}

// Record is the in-memory form of the session metadata document. Entries are
// appended in chronological order and never removed or reordered; the
// document is the source of truth for previously computed baselines.
type Record struct {
	Session Header  `yaml:"session"`
	Acq     []Entry `yaml:"acq"`
}

// Append validates entry and adds it to the record. Prior entries are never
// mutated. Entries within one document are keyed only by (item, token).
func (r *Record) Append(entry Entry) error {
	switch {
	case strings.TrimSpace(entry.Item) == "":
		return services.Wrap(services.ErrInvalidEntry, "session", "append", "item label is required", nil)
	case entry.Token < 0:
		return services.Wrap(services.ErrInvalidEntry, "session", "append",
			fmt.Sprintf("token %d is negative", entry.Token), nil)
	case strings.TrimSpace(entry.Researcher) == "":
		return services.Wrap(services.ErrInvalidEntry, "session", "append", "researcher code is required", nil)
	case strings.TrimSpace(entry.Fname) == "":
		return services.Wrap(services.ErrInvalidEntry, "session", "append", "recording filename is required", nil)
	}
	r.Acq = append(r.Acq, entry)
	return nil
}

// Find returns the first entry with the given item and token.
func (r *Record) Find(item string, token int) (*Entry, bool) {
	for i := range r.Acq {
		if r.Acq[i].Item == item && r.Acq[i].Token == token {
			return &r.Acq[i], true
		}
	}
	return nil, false
}

// Store owns the session metadata document for one session. The whole record
// is held in memory between Load and Persist; the load-append-persist
// sequence is expected to run inside the session lock.
type Store struct {
	sess   Session
	logger *slog.Logger
}

// NewStore returns a store for the session's metadata document.
func NewStore(sess Session, logger *slog.Logger) *Store {
	return &Store{
		sess:   sess,
		logger: logging.NewComponentLogger(logger, "session"),
	}
}

// Load reads the session document. A missing document is not an error: the
// first use of a session starts from a freshly initialized empty record.
func (s *Store) Load() (*Record, error) {
	data, err := os.ReadFile(s.sess.DocumentPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Record{
				Session: Header{Spkr: string(s.sess.Spkr), Lang: string(s.sess.Lang)},
				Acq:     []Entry{},
			}, nil
		}
		return nil, fmt.Errorf("read session document: %w", err)
	}

	var record Record
	if err := yaml.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("parse session document: %w", err)
	}
	return &record, nil
}

// Persist serializes the full record and atomically replaces the document, so
// a reader never observes a partial write. Serialized entry order matches
// append order.
func (s *Store) Persist(record *Record) error {
	data, err := yaml.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal session document: %w", err)
	}
	if err := fileutil.WriteFileAtomic(s.sess.DocumentPath(), data, 0o644); err != nil {
		return fmt.Errorf("persist session document: %w", err)
	}
	s.logger.Debug("persisted session document",
		logging.String(logging.FieldSession, s.sess.Name()),
		logging.Int("entries", len(record.Acq)))
	return nil
}
