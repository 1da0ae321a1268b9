package game

// Effects tracks active power-ups for the run.
type Effects struct {
	Shields    int
	SlowMoLeft float32

	slowScale float32
	slowSecs  float32
}

func NewEffects(t Tuning) *Effects {
	return &Effects{slowScale: t.SlowMoScale, slowSecs: t.SlowMoSecs}
}

// Activate applies a collected power-up. Gems are not effects and are ignored.
func (e *Effects) Activate(kind BonusKind) {
	switch kind {
	case BonusShield:
		e.Shields++
	case BonusSlowMo:
		e.SlowMoLeft = e.slowSecs
	}
}

// UseShield consumes one charge if any is left.
func (e *Effects) UseShield() bool {
	if e.Shields <= 0 {
		return false
	}
	e.Shields--
	return true
}

// TimeScale is the factor applied to the frame dt before simulation.
func (e *Effects) TimeScale() float32 {
	if e.SlowMoLeft > 0 {
		return e.slowScale
	}
	return 1
}

// Tick drains timed effects by real (unscaled) seconds.
func (e *Effects) Tick(dt float32) {
	if e.SlowMoLeft > 0 {
		e.SlowMoLeft = max(0, e.SlowMoLeft-dt)
	}
}

func (e *Effects) Reset() {
	e.Shields = 0
	e.SlowMoLeft = 0
}
