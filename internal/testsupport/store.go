package testsupport

import (
	"testing"

	"amznas/internal/logging"
	"amznas/internal/session"
)

// SeedDocument appends the given entries to a session's document and persists
// it, creating the session directory when needed.
func SeedDocument(t testing.TB, sess session.Session, entries ...session.Entry) {
	t.Helper()

	if err := sess.Ensure(); err != nil {
		t.Fatalf("ensure session dir: %v", err)
	}
	store := session.NewStore(sess, logging.NewNop())
	record, err := store.Load()
	if err != nil {
		t.Fatalf("load session document: %v", err)
	}
	for _, entry := range entries {
		if err := record.Append(entry); err != nil {
			t.Fatalf("append entry: %v", err)
		}
	}
	if err := store.Persist(record); err != nil {
		t.Fatalf("persist session document: %v", err)
	}
}

// BaselineEntry builds a _zero_ entry with automean channel records, one per
// mean in channel order, using the default four-channel role layout.
func BaselineEntry(token int, fname string, means ...float64) session.Entry {
	types := []string{"audio", "orfl", "no_label", "nsfl"}
	channels := make([]session.ChannelMean, 0, len(means))
	for i, mean := range means {
		chType := "no_label"
		if i < len(types) {
			chType = types[i]
		}
		channels = append(channels, session.ChannelMean{
			Idx:    i,
			Type:   chType,
			Mean:   mean,
			Status: "automean",
		})
	}
	return session.Entry{
		Item:       session.ZeroItem,
		Token:      token,
		Researcher: "res",
		Fname:      fname,
		Channels:   channels,
	}
}
