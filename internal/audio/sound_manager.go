package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/vladimirvolkov/endlessdrop/internal/game"
)

const sampleRate = beep.SampleRate(44100)

type Cue int

const (
	CueNone Cue = iota
	CuePerfect
	CuePass
	CueCoin
	CueBonus
	CueShield
	CueCrash
	CueTick
	CueGo
)

// CueFor maps a session event onto the sound that accompanies it.
func CueFor(ev game.Event) Cue {
	switch ev.Kind {
	case game.EventPerfect:
		return CuePerfect
	case game.EventPass:
		if ev.Subtype == "perfect" {
			// the perfect already rang for this ring
			return CueNone
		}
		return CuePass
	case game.EventBonus:
		if ev.Subtype == game.BonusGem.String() {
			return CueCoin
		}
		return CueBonus
	case game.EventShield:
		return CueShield
	case game.EventCollision, game.EventMiss:
		return CueCrash
	case game.EventCountdown:
		if ev.Value == 0 {
			return CueGo
		}
		return CueTick
	}
	return CueNone
}

// Streamer builds a fresh one-shot streamer for c, or nil for CueNone.
func Streamer(c Cue, sr beep.SampleRate) beep.Streamer {
	ms := time.Millisecond
	switch c {
	case CuePerfect:
		return beep.Seq(newTone(sr, 880, 880, 70*ms, 0.3), newTone(sr, 1320, 1760, 140*ms, 0.3))
	case CuePass:
		return newTone(sr, 520, 620, 60*ms, 0.2)
	case CueCoin:
		return beep.Seq(newTone(sr, 988, 988, 50*ms, 0.25), newTone(sr, 1319, 1319, 120*ms, 0.25))
	case CueBonus:
		return newTone(sr, 440, 1320, 250*ms, 0.25)
	case CueShield:
		return beep.Seq(newTone(sr, 660, 330, 120*ms, 0.3), newTone(sr, 440, 880, 120*ms, 0.25))
	case CueCrash:
		return newCrash(sr, 450*ms)
	case CueTick:
		return newTone(sr, 700, 700, 90*ms, 0.25)
	case CueGo:
		return newTone(sr, 880, 1760, 300*ms, 0.3)
	}
	return nil
}

// SoundManager plays cues for session events. It is a game.Sink; Emit only
// queues a streamer on the mixer and never waits for playback.
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      *effects.Volume
	initialized bool
	enabled     bool
}

func NewSoundManager() *SoundManager {
	mixer := &beep.Mixer{}
	return &SoundManager{
		mixer:   mixer,
		volume:  &effects.Volume{Streamer: mixer, Base: 2},
		enabled: true,
	}
}

// Initialize opens the audio device.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(sm.volume)
	sm.initialized = true
	return nil
}

// Cleanup silences everything queued. beep has no speaker close, so the
// device stays open with an empty mixer.
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	sm.initialized = false
}

func (sm *SoundManager) SetEnabled(on bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.enabled = on
}

// SetVolume takes a linear level in [0, 1].
func (sm *SoundManager) SetVolume(level float64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if !sm.initialized {
		sm.applyVolume(level)
		return
	}
	speaker.Lock()
	sm.applyVolume(level)
	speaker.Unlock()
}

func (sm *SoundManager) applyVolume(level float64) {
	switch {
	case level <= 0:
		sm.volume.Silent = true
	case level >= 1:
		sm.volume.Silent = false
		sm.volume.Volume = 0
	default:
		sm.volume.Silent = false
		// Base 2: -1 halves the amplitude
		sm.volume.Volume = (level - 1) * 4
	}
}

func (sm *SoundManager) Play(c Cue) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized || !sm.enabled {
		return
	}
	s := Streamer(c, sampleRate)
	if s == nil {
		return
	}
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}

func (sm *SoundManager) Emit(ev game.Event) {
	if c := CueFor(ev); c != CueNone {
		sm.Play(c)
	}
}
