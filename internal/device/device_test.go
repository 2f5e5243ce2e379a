package device_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"amznas/internal/device"
)

func TestChannelSelectionByRevision(t *testing.T) {
	v1 := device.DefaultSettings("1", false, 0)
	if v1.ChannelSelection() != "00001111" {
		t.Errorf("v1 bitmask = %q", v1.ChannelSelection())
	}
	v2 := device.DefaultSettings("2", false, 0)
	if v2.ChannelSelection() != "00111001" {
		t.Errorf("v2 bitmask = %q", v2.ChannelSelection())
	}
}

func TestSidecarContents(t *testing.T) {
	s := device.DefaultSettings("2", true, 120000)
	doc := device.Sidecar(s, "spk", "stim1", 2, "kasa 'house'")

	for _, fragment := range []string{
		"[Device]",
		"ChannelSelection = 00111001",
		"Lx = 011",
		"SampleRate = 120000",
		"MICGAIN = 4",
		"LXGAIN = 2",
		"NXGAIN = 4",
		"NXPREAMP = 0",
		"[Subject]",
		"ID = spk",
		"UtteranceID = stim1_2",
		"Utterance = kasa 'house'",
	} {
		if !strings.Contains(doc, fragment) {
			t.Errorf("sidecar missing %q:\n%s", fragment, doc)
		}
	}
}

func TestSidecarLxDisabled(t *testing.T) {
	s := device.DefaultSettings("2", false, 120000)
	doc := device.Sidecar(s, "spk", "stim1", 0, "")
	if !strings.Contains(doc, "Lx = 0\n") {
		t.Errorf("expected Lx = 0:\n%s", doc)
	}
}

func TestWriteSidecar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acq.ini")
	s := device.DefaultSettings("1", false, 48000)
	if err := device.WriteSidecar(path, s, "spk", "_zero_", 0, ""); err != nil {
		t.Fatalf("WriteSidecar failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "UtteranceID = _zero__0") {
		t.Errorf("unexpected sidecar contents:\n%s", data)
	}
}
