package session

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"amznas/internal/ident"
)

// ZeroItem is the reserved stimulus label marking a baseline measurement
// acquisition rather than a stimulus trial.
const ZeroItem = "_zero_"

const lockFileName = ".session.lock"

// Session identifies the set of acquisitions for one
// (language, speaker, calendar date) triple.
type Session struct {
	DataDir string
	Lang    ident.Code
	Spkr    ident.Code
	Date    string // YYYYMMDD
}

// New returns the session rooted under dataDir for the given identifiers.
func New(dataDir string, lang, spkr ident.Code, date string) Session {
	return Session{DataDir: dataDir, Lang: lang, Spkr: spkr, Date: date}
}

// Dir returns the session directory: datadir/lang/spkr/YYYYMMDD.
func (s Session) Dir() string {
	return filepath.Join(s.DataDir, string(s.Lang), string(s.Spkr), s.Date)
}

// Ensure creates the session directory if needed. Directories are created
// lazily on the first acquisition of the day and never deleted here.
func (s Session) Ensure() error {
	if err := os.MkdirAll(s.Dir(), 0o755); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	return nil
}

// DocumentPath returns the path of the session metadata document.
func (s Session) DocumentPath() string {
	return filepath.Join(s.Dir(), fmt.Sprintf("%s_%s_%s_session.yaml", s.Lang, s.Spkr, s.Date))
}

// Name returns the session's display name, lang_spkr_YYYYMMDD.
func (s Session) Name() string {
	return fmt.Sprintf("%s_%s_%s", s.Lang, s.Spkr, s.Date)
}

// Lock guards the allocate-then-record-then-persist sequence against a second
// process working in the same session. Token numbers are computed from a
// directory scan, so two unlocked writers could allocate the same token and
// silently overwrite each other.
type Lock struct {
	fl *flock.Flock
}

// AcquireLock takes the session's advisory lock. The session directory must
// already exist. Fails immediately rather than blocking when another process
// holds the lock.
func (s Session) AcquireLock() (*Lock, error) {
	fl := flock.New(filepath.Join(s.Dir(), lockFileName))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire session lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("session %s is in use by another process", s.Name())
	}
	return &Lock{fl: fl}, nil
}

// Release drops the advisory lock. The lock file itself is left in place.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}
