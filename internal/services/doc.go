// Package services defines shared utilities consumed by the acquisition
// workflow and external integrations.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that tag failures with a
//     consistent classification (fatal vs recoverable-with-warning).
//   - Thin abstractions that make command execution for external tools
//     (the hardware recorder, the waveform viewer) testable.
package services
