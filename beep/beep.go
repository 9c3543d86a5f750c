// Package beep plays short cue tones when the hotkey engages or releases.
package beep

import (
	"math"
	"sync/atomic"
)

var disabled atomic.Bool

// Disable silences every cue for the rest of the process.
func Disable() { disabled.Store(true) }

// Enabled reports whether cues are played.
func Enabled() bool { return !disabled.Load() }

const sampleRate = 44100

type tone struct {
	freq   float64
	volume float64
	decay  float64
	dur    float64
	// repeat after gap seconds when gap > 0
	gap float64
}

var (
	// high pitch, short
	engageTone = tone{freq: 1200, volume: 0.5, decay: 60, dur: 0.03}
	// medium pitch, slightly longer
	releaseTone = tone{freq: 900, volume: 0.5, decay: 40, dur: 0.05}
	// low double beep
	errorTone = tone{freq: 350, volume: 0.6, decay: 30, dur: 0.08, gap: 0.05}
)

// pcm renders t as mono signed 16-bit samples.
func (t tone) pcm() []int16 {
	n := int(float64(sampleRate) * t.dur)
	one := make([]int16, n)
	for i := range one {
		s := float64(i) / sampleRate
		env := math.Exp(-s * t.decay)
		one[i] = int16(math.Sin(2*math.Pi*t.freq*s) * 32767 * t.volume * env)
	}
	if t.gap <= 0 {
		return one
	}
	gap := int(float64(sampleRate) * t.gap)
	out := make([]int16, 0, 2*n+gap)
	out = append(out, one...)
	out = append(out, make([]int16, gap)...)
	return append(out, one...)
}

// stereo duplicates every sample into interleaved L/R frames.
func stereo(mono []int16) []int16 {
	out := make([]int16, len(mono)*2)
	for i, s := range mono {
		out[i*2] = s
		out[i*2+1] = s
	}
	return out
}

// le16 packs samples little-endian.
func le16(samples []int16) []byte {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		buf[i*2] = byte(s)
		buf[i*2+1] = byte(s >> 8)
	}
	return buf
}

// PlayEngage is the cue for a hotkey press.
func PlayEngage() {
	if Enabled() {
		play(engageTone)
	}
}

// PlayRelease is the cue for a hotkey release.
func PlayRelease() {
	if Enabled() {
		play(releaseTone)
	}
}

// PlayError signals a tap failure, such as a refused re-arm.
func PlayError() {
	if Enabled() {
		play(errorTone)
	}
}
