// Package session implements the per-speaker, per-day bookkeeping for
// acquisition files: canonical path construction, monotonic token allocation
// by scanning the session directory, and the YAML session metadata document.
//
// The filesystem is the ledger by design: token numbers are derived from the
// files actually present, so a field laptop needs no database and the
// directory can be copied or merged with ordinary tools. Callers go through
// the Store for the metadata document; nothing else writes it.
package session
