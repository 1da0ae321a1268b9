package game

import (
	"log"
	"math/rand"
)

// Ring is one pooled obstacle slot. Active is the only source of truth for
// whether the slot is in play; the one-shot flags are cleared on release.
type Ring struct {
	Pos     Vec3
	Active  bool
	Passed  bool
	Perfect bool
	Missed  bool
	// Absorbed marks a ring whose hit was eaten by a shield; the classifier
	// ignores it for the rest of its activation.
	Absorbed bool
}

func (r *Ring) clear() {
	*r = Ring{}
}

// RingPool is the fixed-capacity obstacle arena plus its spawner state.
type RingPool struct {
	rings []Ring
	rng   *rand.Rand

	spawnDistance  float32
	minSpacing     float32
	maxSpacing     float32
	spacingStep    float32
	xMin, xMax     float32
	trailingMargin float32

	spacing    float32
	lastSpawnY float32
}

func NewRingPool(t Tuning, rng *rand.Rand) *RingPool {
	p := &RingPool{
		rings:          make([]Ring, t.RingPoolSize),
		rng:            rng,
		spawnDistance:  t.SpawnDistance,
		minSpacing:     t.MinSpacing,
		maxSpacing:     t.MaxSpacing,
		spacingStep:    t.SpacingStep,
		xMin:           t.SpawnXMin,
		xMax:           t.SpawnXMax,
		trailingMargin: t.TrailingMargin,
	}
	p.Reset()
	return p
}

// Acquire returns the first free slot in index order. An exhausted pool grows
// by one slot instead of failing the run.
func (p *RingPool) Acquire() int {
	for i := range p.rings {
		if !p.rings[i].Active {
			return i
		}
	}
	p.rings = append(p.rings, Ring{})
	log.Printf("POOL: ring pool exhausted, growing to %d", len(p.rings))
	return len(p.rings) - 1
}

// Release returns a slot to the pool with every flag cleared.
func (p *RingPool) Release(slot int) {
	if slot < 0 || slot >= len(p.rings) {
		return
	}
	p.rings[slot].clear()
}

// Place activates a slot at (x, y) and returns it.
func (p *RingPool) Place(x, y float32) int {
	slot := p.Acquire()
	r := &p.rings[slot]
	r.clear()
	r.Pos = Vec3{X: x, Y: y}
	r.Active = true
	return slot
}

// SpawnIfDue places one ring spawnDistance below the player once the gap to
// the previous ring exceeds the current spacing.
func (p *RingPool) SpawnIfDue(playerY float32) (int, bool) {
	targetY := playerY - p.spawnDistance
	if p.lastSpawnY-targetY <= p.spacing {
		return -1, false
	}
	x := p.xMin + p.rng.Float32()*(p.xMax-p.xMin)
	slot := p.Place(x, targetY)
	p.lastSpawnY = targetY
	return slot, true
}

// RecycleOutOfRange releases rings that trail above the player by more than
// the margin. Returns how many were released.
func (p *RingPool) RecycleOutOfRange(playerY float32) int {
	n := 0
	for i := range p.rings {
		r := &p.rings[i]
		if r.Active && r.Pos.Y > playerY+p.trailingMargin {
			r.clear()
			n++
		}
	}
	return n
}

func (p *RingPool) IncreaseDifficulty() {
	p.spacing = max(p.minSpacing, p.spacing-p.spacingStep)
}

func (p *RingPool) Spacing() float32 { return p.spacing }

func (p *RingPool) LastSpawnY() float32 { return p.lastSpawnY }

// Rings exposes the arena in slot order. Callers may update flags but must
// not retain the slice across Acquire, which can grow it.
func (p *RingPool) Rings() []Ring { return p.rings }

func (p *RingPool) Ring(slot int) *Ring { return &p.rings[slot] }

func (p *RingPool) ActiveCount() int {
	n := 0
	for i := range p.rings {
		if p.rings[i].Active {
			n++
		}
	}
	return n
}

func (p *RingPool) Reset() {
	for i := range p.rings {
		p.rings[i].clear()
	}
	p.lastSpawnY = 0
	p.spacing = p.maxSpacing
}

func (p *RingPool) appendViews(dst []RingView) []RingView {
	for i := range p.rings {
		r := &p.rings[i]
		if !r.Active {
			continue
		}
		dst = append(dst, RingView{Slot: i, X: r.Pos.X, Y: r.Pos.Y, Passed: r.Passed, Perfect: r.Perfect})
	}
	return dst
}
