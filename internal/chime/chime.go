// Package chime synthesizes the soft bells that ring as lights reach the
// top of the tree and start over.
package chime

import (
	"math"
)

const (
	SampleRate   = 44100
	ChannelCount = 2
	BellSeconds  = 1.4
)

// Pentatonic scale, A4 upwards.
var scale = []float64{440.00, 493.88, 554.37, 659.25, 739.99, 880.00}

// Player plays a stereo float32 LE buffer. Implementations must not block.
type Player interface {
	Play(samples []byte, volume float64)
}

// Chime rings the next bell of the scale when lanes wrap, at most once per
// minimum interval.
type Chime struct {
	player      Player
	volume      float64
	minInterval uint32
	sinceLast   uint32
	note        int
	bells       [][]byte
}

// New pre-renders one bell per scale note. A nil player gives a silent Chime.
func New(p Player, volume float64, minIntervalMs int) *Chime {
	c := &Chime{
		player:      p,
		volume:      clampF(volume, 0, 1),
		minInterval: uint32(max(minIntervalMs, 0)),
	}
	c.sinceLast = c.minInterval
	if p == nil {
		return c
	}
	c.bells = make([][]byte, len(scale))
	for i, f := range scale {
		c.bells[i] = Bell(f, BellSeconds)
	}
	return c
}

// Tick advances the throttle by dtMs and rings if any lane wrapped.
// It reports whether a bell was played.
func (c *Chime) Tick(dtMs uint32, wrapped int) bool {
	if c.sinceLast < c.minInterval {
		c.sinceLast += dtMs
	}
	if c.player == nil || wrapped <= 0 || c.volume == 0 || c.sinceLast < c.minInterval {
		return false
	}
	c.player.Play(c.bells[c.note], c.volume)
	c.note = (c.note + 1) % len(c.bells)
	c.sinceLast = 0
	return true
}

// Bell renders an FM bell at freq for dur seconds.
func Bell(freq, dur float64) []byte {
	n := int(dur * SampleRate)
	buf := makeBuf(n)
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		p := float64(i) / float64(n)
		env := adsr(p, 0.005, 0.25, 0.35, 0.6)
		// Inharmonic 3.5 ratio with a decaying index gives the metallic strike.
		idx := 2.4 * math.Exp(-t*6.0)
		s := fm(t, freq, 3.5, idx)*0.6 + math.Sin(2*math.Pi*freq*2*t)*0.15*math.Exp(-t*3.0)
		putStereoF32(buf, i, softSat(s*env*0.8))
	}
	return buf
}

// putStereoF32 writes a [-1,1] sample as float32 LE to both stereo channels at frame i.
func putStereoF32(buf []byte, i int, sample float64) {
	v := math.Float32bits(float32(sample))
	buf[i*8] = byte(v)
	buf[i*8+1] = byte(v >> 8)
	buf[i*8+2] = byte(v >> 16)
	buf[i*8+3] = byte(v >> 24)
	buf[i*8+4] = byte(v)
	buf[i*8+5] = byte(v >> 8)
	buf[i*8+6] = byte(v >> 16)
	buf[i*8+7] = byte(v >> 24)
}

// softSat applies gentle tanh-like saturation, no hard clipping.
func softSat(x float64) float64 {
	if x > 1.0 {
		return 1.0 - 0.5/(x)
	}
	if x < -1.0 {
		return -1.0 + 0.5/(-x)
	}
	return x - x*x*x/3.0
}

// adsr returns an envelope at normalized progress [0,1].
// attack/decay/release are fractions of the total duration.
func adsr(progress, attack, decay, sustain, release float64) float64 {
	switch {
	case progress < attack:
		return progress / attack
	case progress < attack+decay:
		return 1.0 - (progress-attack)/decay*(1.0-sustain)
	case progress < 1.0-release:
		return sustain
	default:
		return sustain * (1.0 - (progress-(1.0-release))/release)
	}
}

// fm returns an FM-synthesized sample.
func fm(t, carrier, modRatio, modIdx float64) float64 {
	mod := math.Sin(2 * math.Pi * carrier * modRatio * t)
	return math.Sin(2*math.Pi*carrier*t + modIdx*mod)
}

func makeBuf(n int) []byte { return make([]byte, n*8) }

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
