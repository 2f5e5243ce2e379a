package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"amznas/internal/ident"
	"amznas/internal/services"
)

// Key identifies one acquisition within a session, minus the token number.
type Key struct {
	Lang       ident.Code
	Spkr       ident.Code
	Researcher ident.Code
	// Timestamp is the acquisition timestamp, YYYYMMDD optionally extended
	// with a THHMMSS suffix. Only the date portion participates in token
	// matching.
	Timestamp string
	Item      string
}

func (k Key) datePart() string {
	date, _, _ := strings.Cut(k.Timestamp, "T")
	return date
}

// filePattern matches acquisition filenames for this key with the token
// number captured, ignoring any time-of-day suffix on the timestamp.
// Matching is case-insensitive: the recorder's filesystems are
// case-insensitive, so items differing only in letter case share one token
// sequence. That conflation is a documented property of the corpus, not
// something to fix here.
func (k Key) filePattern() (*regexp.Regexp, error) {
	expr := fmt.Sprintf(`(?i)^%s_%s_%s_%s[^_]*_%s_(\d+)\.wav$`,
		regexp.QuoteMeta(string(k.Lang)),
		regexp.QuoteMeta(string(k.Spkr)),
		regexp.QuoteMeta(string(k.Researcher)),
		regexp.QuoteMeta(k.datePart()),
		regexp.QuoteMeta(k.Item),
	)
	return regexp.Compile(expr)
}

// NextToken scans the session directory and returns the next unused token
// number for the key's item: max(existing)+1, or 0 when no acquisition
// matches. A missing directory counts as an empty session.
func NextToken(dir string, key Key) (int, error) {
	pattern, err := key.filePattern()
	if err != nil {
		return 0, fmt.Errorf("token pattern: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("scan session directory: %w", err)
	}

	next := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := pattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n+1 > next {
			next = n + 1
		}
	}
	return next, nil
}

// FindWavs returns the acquisition files matching key and token, tolerating
// any time-of-day suffix in the stored filename. Paths are returned sorted.
func FindWavs(dir string, key Key, token int) ([]string, error) {
	expr := fmt.Sprintf(`(?i)^%s_%s_%s_%s[^_]*_%s_%d\.wav$`,
		regexp.QuoteMeta(string(key.Lang)),
		regexp.QuoteMeta(string(key.Spkr)),
		regexp.QuoteMeta(string(key.Researcher)),
		regexp.QuoteMeta(key.datePart()),
		regexp.QuoteMeta(key.Item),
		token,
	)
	pattern, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("lookup pattern: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan session directory: %w", err)
	}

	var matches []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if pattern.MatchString(entry.Name()) {
			matches = append(matches, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(matches)
	return matches, nil
}

// TokenRef selects a token within a session: the next unused number, an
// explicit token, or a position counted back from the end of the sequence.
type TokenRef struct {
	kind    tokenRefKind
	ordinal int
}

type tokenRefKind int

const (
	refNextAvailable tokenRefKind = iota
	refExact
	refFromEnd
)

// NextAvailable allocates a new token number.
func NextAvailable() TokenRef { return TokenRef{kind: refNextAvailable} }

// Exact addresses the given token number directly.
func Exact(n int) TokenRef { return TokenRef{kind: refExact, ordinal: n} }

// FromEnd addresses the kth most recent token: FromEnd(1) is the last
// recorded token, FromEnd(2) the one before it.
func FromEnd(k int) TokenRef { return TokenRef{kind: refFromEnd, ordinal: k} }

// Resolve turns the reference into a concrete token number by scanning dir.
// Exact and FromEnd references must name a token whose file exists;
// otherwise the resolution fails with the token-not-found marker and the
// caller aborts rather than falling back to token 0.
func (r TokenRef) Resolve(dir string, key Key) (int, error) {
	switch r.kind {
	case refNextAvailable:
		return NextToken(dir, key)
	case refExact:
		if r.ordinal < 0 {
			return 0, services.Wrap(services.ErrTokenNotFound, "session", "resolve",
				fmt.Sprintf("token %d is negative", r.ordinal), nil)
		}
		return r.requireExisting(dir, key, r.ordinal)
	case refFromEnd:
		if r.ordinal < 1 {
			return 0, services.Wrap(services.ErrTokenNotFound, "session", "resolve",
				fmt.Sprintf("relative index %d must be at least 1", r.ordinal), nil)
		}
		next, err := NextToken(dir, key)
		if err != nil {
			return 0, err
		}
		token := next - r.ordinal
		if token < 0 {
			return 0, services.Wrap(services.ErrTokenNotFound, "session", "resolve",
				fmt.Sprintf("no token %d back for item %q", r.ordinal, key.Item), nil)
		}
		return r.requireExisting(dir, key, token)
	default:
		return 0, services.Wrap(services.ErrTokenNotFound, "session", "resolve", "unknown token reference", nil)
	}
}

func (r TokenRef) requireExisting(dir string, key Key, token int) (int, error) {
	matches, err := FindWavs(dir, key, token)
	if err != nil {
		return 0, err
	}
	if len(matches) == 0 {
		return 0, services.Wrap(services.ErrTokenNotFound, "session", "resolve",
			fmt.Sprintf("no acquisition file for item %q token %d", key.Item, token), nil)
	}
	return token, nil
}
