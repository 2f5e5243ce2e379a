// Package wavio decodes PCM WAV acquisitions into a frames-by-channels
// sample matrix, and encodes matrices back for tests and external viewers.
// Sample values stay in raw converter units; nothing here rescales amplitude.
package wavio

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Clip is a decoded multi-channel recording.
type Clip struct {
	Rate     int
	Channels int
	BitDepth int
	// Samples is frames x channels.
	Samples [][]float64
}

// Frames returns the number of sample frames in the clip.
func (c *Clip) Frames() int { return len(c.Samples) }

// ReadFile decodes a PCM WAV file into a Clip.
func ReadFile(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open recording: %w", err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%s is not a valid WAV file", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if buf.Format == nil || buf.Format.NumChannels <= 0 {
		return nil, fmt.Errorf("decode %s: missing format information", path)
	}

	channels := buf.Format.NumChannels
	frames := len(buf.Data) / channels
	samples := make([][]float64, frames)
	for i := 0; i < frames; i++ {
		frame := make([]float64, channels)
		for c := 0; c < channels; c++ {
			frame[c] = float64(buf.Data[i*channels+c])
		}
		samples[i] = frame
	}

	return &Clip{
		Rate:     buf.Format.SampleRate,
		Channels: channels,
		BitDepth: int(decoder.BitDepth),
		Samples:  samples,
	}, nil
}

// WriteFile encodes the clip as PCM WAV. Fractional sample values are
// truncated toward zero; the clip is expected to carry integer-valued
// amplitudes.
func WriteFile(path string, clip *Clip) error {
	if clip == nil || clip.Channels <= 0 {
		return fmt.Errorf("write %s: empty clip", path)
	}
	bitDepth := clip.BitDepth
	if bitDepth == 0 {
		bitDepth = 16
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	encoder := wav.NewEncoder(f, clip.Rate, bitDepth, clip.Channels, 1)
	data := make([]int, 0, len(clip.Samples)*clip.Channels)
	for _, frame := range clip.Samples {
		for c := 0; c < clip.Channels; c++ {
			data = append(data, int(frame[c]))
		}
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: clip.Channels, SampleRate: clip.Rate},
		SourceBitDepth: bitDepth,
		Data:           data,
	}
	if err := encoder.Write(buf); err != nil {
		encoder.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("finalize %s: %w", path, err)
	}
	return f.Close()
}
