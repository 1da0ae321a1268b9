package game

// Difficulty tightens ring spacing after every `every` ring clears.
type Difficulty struct {
	every  int
	clears int
	steps  int
}

func NewDifficulty(every int) *Difficulty {
	if every < 1 {
		every = 1
	}
	return &Difficulty{every: every}
}

// RingCleared counts one clear and steps the spawner when the cadence is met.
// Reports whether spacing was tightened.
func (d *Difficulty) RingCleared(p *RingPool) bool {
	d.clears++
	if d.clears < d.every {
		return false
	}
	d.clears = 0
	before := p.Spacing()
	p.IncreaseDifficulty()
	if p.Spacing() == before {
		return false
	}
	d.steps++
	return true
}

func (d *Difficulty) Steps() int { return d.steps }

func (d *Difficulty) Reset() {
	d.clears = 0
	d.steps = 0
}
