// Package device renders the EGG-D800 device-configuration sidecar written
// next to each acquisition. This subsystem only produces the document; the
// hardware recorder consumes it and nothing here parses it back.
package device

import (
	"fmt"
	"os"

	"amznas/internal/ident"
)

// Settings capture the acquisition parameters written to the sidecar.
type Settings struct {
	// Version is the hardware revision, "1" or "2"; the revisions expose the
	// four acquisition channels under different bitmask layouts.
	Version    string
	Lx         bool
	SampleRate int
	MicGain    int
	LxGain     int
	NxGain     int
	NxPreamp   int
}

// DefaultSettings returns the field-standard gain configuration for the
// given hardware revision.
func DefaultSettings(version string, lx bool, sampleRate int) Settings {
	if sampleRate <= 0 {
		sampleRate = 120000
	}
	return Settings{
		Version:    version,
		Lx:         lx,
		SampleRate: sampleRate,
		MicGain:    4,
		LxGain:     2,
		NxGain:     4,
		NxPreamp:   0,
	}
}

// ChannelSelection returns the device channel bitmask for the hardware
// revision.
func (s Settings) ChannelSelection() string {
	if s.Version == "1" {
		return "00001111"
	}
	return "00111001"
}

func (s Settings) lxString() string {
	if s.Lx {
		return "011"
	}
	return "0"
}

// Sidecar renders the INI document for one acquisition.
func Sidecar(s Settings, spkr ident.Code, item string, token int, utterance string) string {
	return fmt.Sprintf(`[Device]
ChannelSelection = %s
Lx = %s
SampleRate = %d
MICGAIN = %d
LXGAIN = %d
NXGAIN = %d
NXPREAMP = %d

[Subject]
ID = %s
Surname =
Firstname =
UtteranceID = %s_%d
Utterance = %s
`,
		s.ChannelSelection(), s.lxString(), s.SampleRate,
		s.MicGain, s.LxGain, s.NxGain, s.NxPreamp,
		spkr, item, token, utterance)
}

// WriteSidecar renders and writes the sidecar document. Sidecars are written
// once per acquisition and never rewritten.
func WriteSidecar(path string, s Settings, spkr ident.Code, item string, token int, utterance string) error {
	if err := os.WriteFile(path, []byte(Sidecar(s, spkr, item, token, utterance)), 0o644); err != nil {
		return fmt.Errorf("write device sidecar: %w", err)
	}
	return nil
}
