package game

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
)

var ErrBadTransition = errors.New("bad phase transition")

// Session owns one player's run: the ball, both pools, the run state and the
// lifecycle. It is not safe for concurrent use; exactly one goroutine drives
// Update and the lifecycle methods.
type Session struct {
	tuning     Tuning
	ball       *Ball
	controls   Controls
	rings      *RingPool
	bonuses    *BonusPool
	classifier Classifier
	difficulty *Difficulty
	effects    *Effects
	biomes     *Biomes
	sink       Sink

	phase      Phase
	phaseTimer float32
	countdown  int
	tick       uint32
	run        RunState
	summary    *RunSummary
}

// NewSession validates the tuning and builds a session in the MENU phase.
// sink may be nil.
func NewSession(t Tuning, sink Sink, seed int64) (*Session, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	classifier, err := NewClassifier(t)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(seed))
	return &Session{
		tuning:     t,
		ball:       NewBall(t),
		controls:   NewControls(t),
		rings:      NewRingPool(t, rng),
		bonuses:    NewBonusPool(t, rng),
		classifier: classifier,
		difficulty: NewDifficulty(t.DifficultyEvery),
		effects:    NewEffects(t),
		biomes:     NewBiomes(t.BiomeScores),
		sink:       sink,
		phase:      PhaseMenu,
	}, nil
}

func (s *Session) emit(e Event) {
	if s.sink == nil {
		return
	}
	e.Tick = s.tick
	e.Phase = s.phase
	e.Run = s.run
	e.FX = feedbackFor(e)
	s.sink.Emit(e)
}

func (s *Session) setPhase(p Phase) {
	s.phase = p
	s.emit(Event{Kind: EventPhase})
}

func badTransition(op string, from Phase) error {
	return fmt.Errorf("%w: %s from %s", ErrBadTransition, op, from)
}

// Play starts a run from the menu.
func (s *Session) Play() error {
	if s.phase != PhaseMenu {
		return badTransition("play", s.phase)
	}
	s.reset()
	s.startCountdown()
	return nil
}

func (s *Session) Pause() error {
	if s.phase != PhasePlaying {
		return badTransition("pause", s.phase)
	}
	s.setPhase(PhasePaused)
	return nil
}

func (s *Session) Resume() error {
	if s.phase != PhasePaused {
		return badTransition("resume", s.phase)
	}
	s.setPhase(PhasePlaying)
	return nil
}

// Restart resets the run and goes straight back into the countdown.
func (s *Session) Restart() error {
	if s.phase != PhaseGameOver && s.phase != PhasePaused {
		return badTransition("restart", s.phase)
	}
	s.reset()
	s.startCountdown()
	return nil
}

// Quit abandons the current run and returns to the menu.
func (s *Session) Quit() error {
	if s.phase == PhaseMenu {
		return badTransition("quit", s.phase)
	}
	s.reset()
	s.setPhase(PhaseMenu)
	return nil
}

func (s *Session) reset() {
	s.ball.Reset()
	s.rings.Reset()
	s.bonuses.Reset()
	s.difficulty.Reset()
	s.effects.Reset()
	s.biomes.Reset()
	s.run = RunState{}
	s.summary = nil
	s.phaseTimer = 0
	s.countdown = 0
}

func (s *Session) startCountdown() {
	s.countdown = CountdownSteps
	s.phaseTimer = CountdownStep
	s.setPhase(PhaseCountdown)
	s.emit(Event{Kind: EventCountdown, Value: s.countdown})
}

// Update advances the session by one frame of dt real seconds. Only the
// COUNTDOWN and PLAYING phases consume time.
func (s *Session) Update(dt float32, in Input) {
	s.tick++
	switch s.phase {
	case PhaseCountdown:
		s.tickCountdown(dt)
	case PhasePlaying:
		s.tickPlaying(dt, in)
	}
}

func (s *Session) tickCountdown(dt float32) {
	s.phaseTimer -= dt
	for s.phase == PhaseCountdown && s.phaseTimer <= 0 {
		switch {
		case s.countdown > 1:
			s.countdown--
			s.phaseTimer += CountdownStep
			s.emit(Event{Kind: EventCountdown, Value: s.countdown})
		case s.countdown == 1:
			s.countdown = 0
			s.phaseTimer += GoHoldSecs
			s.emit(Event{Kind: EventCountdown, Value: 0, Subtype: "go"})
		default:
			s.phaseTimer = 0
			s.setPhase(PhasePlaying)
		}
	}
}

func (s *Session) tickPlaying(dt float32, in Input) {
	before := s.run
	scaled := dt * s.effects.TimeScale()

	s.controls.ApplyInput(s.ball, in)
	s.ball.Integrate(scaled)

	y := s.ball.Pos.Y
	s.rings.SpawnIfDue(y)
	s.rings.RecycleOutOfRange(y)
	s.bonuses.SpawnIfDue(y)
	s.bonuses.RecycleOutOfRange(y)

	s.handleHit(s.classifier.Classify(s.ball.Pos, s.rings.Rings()))
	if s.phase != PhasePlaying {
		return
	}

	for _, pk := range s.bonuses.Collect(s.ball.Pos) {
		s.handlePickup(pk)
	}
	s.effects.Tick(dt)

	if idx, changed := s.biomes.Update(s.run.Score); changed {
		log.Printf("RUN: biome -> %s at score %d", BiomeFor(idx).Name, s.run.Score)
		s.emit(Event{Kind: EventBiome, Value: idx, Subtype: BiomeFor(idx).Name})
	}
	if s.run != before {
		s.emit(Event{Kind: EventScore, Value: s.run.Score, Combo: s.run.Combo})
	}
}

func (s *Session) handleHit(hit Hit) {
	switch hit.Kind {
	case HitPerfect:
		s.run.Combo++
		s.run.MaxCombo = max(s.run.MaxCombo, s.run.Combo)
		s.run.Perfects++
		s.run.Score += s.tuning.PerfectPoints + s.tuning.ComboPoints*(s.run.Combo-1)
		s.emit(Event{Kind: EventPerfect, Pos: hit.Pos, Combo: s.run.Combo})

	case HitPass:
		ring := s.rings.Ring(hit.Slot)
		s.run.Score += s.tuning.PassPoints
		s.run.RingsPassed++
		if s.difficulty.RingCleared(s.rings) {
			log.Printf("RUN: difficulty up, spacing %.2f", s.rings.Spacing())
		}
		subtype := ""
		if ring.Perfect {
			subtype = "perfect"
		} else if s.run.Combo > 0 {
			s.run.Combo = 0
		}
		s.emit(Event{Kind: EventPass, Pos: hit.Pos, Subtype: subtype, Combo: s.run.Combo})

	case HitCollision, HitMiss:
		if s.effects.UseShield() {
			s.rings.Ring(hit.Slot).Absorbed = true
			log.Printf("SHIELD: absorbed %s at y=%.2f, %d left", hit.Kind, hit.Pos.Y, s.effects.Shields)
			s.emit(Event{Kind: EventShield, Pos: hit.Pos, Subtype: hit.Kind.String(), Value: s.effects.Shields})
			return
		}
		kind := EventCollision
		if hit.Kind == HitMiss {
			kind = EventMiss
		}
		s.emit(Event{Kind: kind, Pos: hit.Pos})
		s.gameOver()
	}
}

func (s *Session) handlePickup(pk Pickup) {
	switch pk.Kind {
	case BonusGem:
		s.run.Gems++
		s.emit(Event{Kind: EventBonus, Pos: pk.Pos, Subtype: pk.Kind.String(), Value: s.run.Gems})
	case BonusShield:
		s.effects.Activate(pk.Kind)
		s.emit(Event{Kind: EventBonus, Pos: pk.Pos, Subtype: pk.Kind.String(), Value: s.effects.Shields})
	case BonusSlowMo:
		s.effects.Activate(pk.Kind)
		ms := int(s.effects.SlowMoLeft * 1000)
		s.emit(Event{Kind: EventBonus, Pos: pk.Pos, Subtype: pk.Kind.String(), Value: ms})
	}
}

func (s *Session) gameOver() {
	sum := s.run.Summary()
	s.summary = &sum
	log.Printf("RUN: game over score=%d gems=%d maxCombo=%d rings=%d", sum.Score, sum.Gems, sum.MaxCombo, sum.RingsPassed)
	s.setPhase(PhaseGameOver)
	s.emit(Event{Kind: EventGameOver, Pos: s.ball.Pos, Summary: &sum})
}

func (s *Session) Phase() Phase       { return s.phase }
func (s *Session) Tick() uint32       { return s.tick }
func (s *Session) Run() RunState      { return s.run }
func (s *Session) Ball() *Ball        { return s.ball }
func (s *Session) Controls() Controls { return s.controls }
func (s *Session) Shields() int       { return s.effects.Shields }
func (s *Session) Spacing() float32   { return s.rings.Spacing() }
func (s *Session) Biome() int         { return s.biomes.Current() }
func (s *Session) Countdown() int     { return s.countdown }

// Summary returns the final stats once the run has ended.
func (s *Session) Summary() (RunSummary, bool) {
	if s.summary == nil {
		return RunSummary{}, false
	}
	return *s.summary, true
}

// Snapshot fills dst with the current view, reusing its slices.
func (s *Session) Snapshot(dst *Snapshot) {
	dst.Tick = s.tick
	dst.Phase = s.phase
	dst.PhaseTimer = s.phaseTimer
	dst.Countdown = s.countdown
	dst.Ball = s.ball.View()
	dst.Rings = s.rings.appendViews(dst.Rings[:0])
	dst.Bonuses = s.bonuses.appendViews(dst.Bonuses[:0])
	dst.Run = s.run
	dst.Shields = s.effects.Shields
	dst.SlowMo = s.effects.SlowMoLeft
	dst.Biome = s.biomes.Current()
	dst.Spacing = s.rings.Spacing()
}
