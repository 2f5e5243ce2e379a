package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"amznas/internal/wavio"
)

// TouchWav creates an empty file with an acquisition filename. Token scanning
// only looks at names, so an empty body suffices.
func TouchWav(t testing.TB, dir, name string) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("touch %s: %v", path, err)
	}
	return path
}

// WriteClip encodes a clip whose every frame repeats the given per-channel
// values; the mean of each channel equals its value exactly.
func WriteClip(t testing.TB, path string, rate, frames int, channelValues ...float64) {
	t.Helper()

	samples := make([][]float64, frames)
	for i := range samples {
		samples[i] = append([]float64(nil), channelValues...)
	}
	clip := &wavio.Clip{
		Rate:     rate,
		Channels: len(channelValues),
		BitDepth: 16,
		Samples:  samples,
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := wavio.WriteFile(path, clip); err != nil {
		t.Fatalf("write clip %s: %v", path, err)
	}
}
