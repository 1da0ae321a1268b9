package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// toneGenerator plays a sine sweep from one frequency to another with a short
// linear attack and release so cues do not click.
type toneGenerator struct {
	sr       beep.SampleRate
	from, to float64
	amp      float64
	total    int
	attack   int
	release  int
	pos      int
	phase    float64
}

func newTone(sr beep.SampleRate, from, to float64, d time.Duration, amp float64) *toneGenerator {
	total := sr.N(d)
	edge := min(sr.N(8*time.Millisecond), total/4)
	return &toneGenerator{
		sr:      sr,
		from:    from,
		to:      to,
		amp:     amp,
		total:   total,
		attack:  edge,
		release: edge,
	}
}

func (g *toneGenerator) envelope() float64 {
	switch {
	case g.attack > 0 && g.pos < g.attack:
		return float64(g.pos) / float64(g.attack)
	case g.release > 0 && g.pos >= g.total-g.release:
		return float64(g.total-g.pos) / float64(g.release)
	}
	return 1
}

func (g *toneGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if g.pos >= g.total {
			return i, i > 0
		}
		t := float64(g.pos) / float64(g.total)
		freq := g.from + (g.to-g.from)*t
		sample := g.amp * g.envelope() * math.Sin(2*math.Pi*g.phase)

		samples[i][0] = sample
		samples[i][1] = sample

		g.phase += freq / float64(g.sr)
		g.phase -= math.Floor(g.phase)
		g.pos++
	}
	return len(samples), true
}

func (g *toneGenerator) Err() error { return nil }

// crashGenerator is filtered noise over a low rumble with exponential decay.
type crashGenerator struct {
	sr    beep.SampleRate
	total int
	pos   int
	seed  uint32
	last  float64
}

func newCrash(sr beep.SampleRate, d time.Duration) *crashGenerator {
	return &crashGenerator{sr: sr, total: sr.N(d), seed: 0x2545f491}
}

func (g *crashGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if g.pos >= g.total {
			return i, i > 0
		}
		t := float64(g.pos) / float64(g.sr)
		env := math.Exp(-t * 7)

		// xorshift noise, one-pole low-pass for a duller crunch
		g.seed ^= g.seed << 13
		g.seed ^= g.seed >> 17
		g.seed ^= g.seed << 5
		noise := float64(g.seed)/float64(math.MaxUint32)*2 - 1
		g.last += 0.3 * (noise - g.last)

		rumble := math.Sin(2 * math.Pi * 70 * t)
		sample := env * (0.35*g.last + 0.25*rumble)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *crashGenerator) Err() error { return nil }
