package audio

import (
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/vladimirvolkov/endlessdrop/internal/game"
)

// drain streams s to exhaustion and returns the sample count and peak.
func drain(t *testing.T, s beep.Streamer) (int, float64) {
	t.Helper()
	buf := make([][2]float64, 512)
	total, peak := 0, 0.0
	for i := 0; i < 1000; i++ {
		n, ok := s.Stream(buf)
		for _, smp := range buf[:n] {
			peak = max(peak, smp[0], -smp[0])
		}
		total += n
		if !ok {
			return total, peak
		}
	}
	t.Fatal("streamer never finished")
	return 0, 0
}

func TestToneLengthAndLevel(t *testing.T) {
	sr := beep.SampleRate(44100)
	n, peak := drain(t, newTone(sr, 440, 880, 100*time.Millisecond, 0.3))
	if n != sr.N(100*time.Millisecond) {
		t.Fatalf("tone length %d, want %d", n, sr.N(100*time.Millisecond))
	}
	if peak > 0.3+1e-9 || peak < 0.2 {
		t.Fatalf("tone peak %v", peak)
	}
}

func TestCrashStaysInRange(t *testing.T) {
	sr := beep.SampleRate(44100)
	n, peak := drain(t, newCrash(sr, 450*time.Millisecond))
	if n != sr.N(450*time.Millisecond) {
		t.Fatalf("crash length %d", n)
	}
	if peak > 1 || peak == 0 {
		t.Fatalf("crash peak %v", peak)
	}
}

func TestEveryCueStreams(t *testing.T) {
	for c := CuePerfect; c <= CueGo; c++ {
		s := Streamer(c, sampleRate)
		if s == nil {
			t.Fatalf("cue %d has no streamer", c)
		}
		if n, _ := drain(t, s); n == 0 {
			t.Fatalf("cue %d is silent", c)
		}
	}
	if Streamer(CueNone, sampleRate) != nil {
		t.Fatal("CueNone produced a streamer")
	}
}

func TestCueFor(t *testing.T) {
	tests := []struct {
		ev   game.Event
		want Cue
	}{
		{game.Event{Kind: game.EventPerfect}, CuePerfect},
		{game.Event{Kind: game.EventPass}, CuePass},
		{game.Event{Kind: game.EventPass, Subtype: "perfect"}, CueNone},
		{game.Event{Kind: game.EventBonus, Subtype: "gem"}, CueCoin},
		{game.Event{Kind: game.EventBonus, Subtype: "slowmo"}, CueBonus},
		{game.Event{Kind: game.EventShield}, CueShield},
		{game.Event{Kind: game.EventCollision}, CueCrash},
		{game.Event{Kind: game.EventMiss}, CueCrash},
		{game.Event{Kind: game.EventCountdown, Value: 2}, CueTick},
		{game.Event{Kind: game.EventCountdown, Value: 0}, CueGo},
		{game.Event{Kind: game.EventScore}, CueNone},
	}
	for _, tt := range tests {
		if got := CueFor(tt.ev); got != tt.want {
			t.Errorf("CueFor(%v %q) = %d, want %d", tt.ev.Kind, tt.ev.Subtype, got, tt.want)
		}
	}
}

func TestSoundManagerSilentBeforeInit(t *testing.T) {
	sm := NewSoundManager()
	sm.SetVolume(0.5)
	sm.Emit(game.Event{Kind: game.EventPerfect})
	sm.Cleanup()
	if sm.mixer.Len() != 0 {
		t.Fatal("cue queued without an audio device")
	}
}
