package game

import (
	"log"
	"math"
	"math/rand"
)

type BonusKind uint8

const (
	BonusGem BonusKind = iota
	BonusShield
	BonusSlowMo
)

func (k BonusKind) String() string {
	switch k {
	case BonusGem:
		return "gem"
	case BonusShield:
		return "shield"
	case BonusSlowMo:
		return "slowmo"
	}
	return "unknown"
}

type BonusItem struct {
	Kind   BonusKind
	Pos    Vec3
	Active bool
}

// Pickup is returned for every item the ball collected this frame.
type Pickup struct {
	Slot int
	Kind BonusKind
	Pos  Vec3
}

// BonusPool mirrors RingPool for collectibles.
type BonusPool struct {
	items []BonusItem
	rng   *rand.Rand

	spawnDistance  float32
	spacing        float32
	xMin, xMax     float32
	trailingMargin float32
	pickupRadius   float32
	weights        [3]int
	totalWeight    int

	lastSpawnY float32
	collected  []Pickup
}

func NewBonusPool(t Tuning, rng *rand.Rand) *BonusPool {
	p := &BonusPool{
		items:          make([]BonusItem, t.BonusPoolSize),
		rng:            rng,
		spawnDistance:  t.SpawnDistance,
		spacing:        t.BonusSpacing,
		xMin:           t.SpawnXMin,
		xMax:           t.SpawnXMax,
		trailingMargin: t.TrailingMargin,
		pickupRadius:   t.PickupRadius,
		weights:        [3]int{t.GemWeight, t.ShieldWeight, t.SlowMoWeight},
	}
	p.totalWeight = t.GemWeight + t.ShieldWeight + t.SlowMoWeight
	p.Reset()
	return p
}

func (p *BonusPool) Acquire() int {
	for i := range p.items {
		if !p.items[i].Active {
			return i
		}
	}
	p.items = append(p.items, BonusItem{})
	log.Printf("POOL: bonus pool exhausted, growing to %d", len(p.items))
	return len(p.items) - 1
}

func (p *BonusPool) Release(slot int) {
	if slot < 0 || slot >= len(p.items) {
		return
	}
	p.items[slot] = BonusItem{}
}

func (p *BonusPool) Place(kind BonusKind, x, y float32) int {
	slot := p.Acquire()
	p.items[slot] = BonusItem{Kind: kind, Pos: Vec3{X: x, Y: y}, Active: true}
	return slot
}

func (p *BonusPool) pickKind() BonusKind {
	roll := p.rng.Intn(p.totalWeight)
	for k, w := range p.weights {
		if roll < w {
			return BonusKind(k)
		}
		roll -= w
	}
	return BonusGem
}

func (p *BonusPool) SpawnIfDue(playerY float32) (int, bool) {
	targetY := playerY - p.spawnDistance
	if p.lastSpawnY-targetY <= p.spacing {
		return -1, false
	}
	x := p.xMin + p.rng.Float32()*(p.xMax-p.xMin)
	slot := p.Place(p.pickKind(), x, targetY)
	p.lastSpawnY = targetY
	return slot, true
}

func (p *BonusPool) RecycleOutOfRange(playerY float32) int {
	n := 0
	for i := range p.items {
		it := &p.items[i]
		if it.Active && it.Pos.Y > playerY+p.trailingMargin {
			*it = BonusItem{}
			n++
		}
	}
	return n
}

// Collect releases every item within pickup range of pos and returns them in
// slot order. The returned slice is reused by the next call.
func (p *BonusPool) Collect(pos Vec3) []Pickup {
	p.collected = p.collected[:0]
	r2 := float64(p.pickupRadius) * float64(p.pickupRadius)
	for i := range p.items {
		it := &p.items[i]
		if !it.Active {
			continue
		}
		dx := float64(pos.X - it.Pos.X)
		dy := float64(pos.Y - it.Pos.Y)
		dz := float64(pos.Z - it.Pos.Z)
		if dx*dx+dy*dy+dz*dz >= r2 {
			continue
		}
		p.collected = append(p.collected, Pickup{Slot: i, Kind: it.Kind, Pos: it.Pos})
		*it = BonusItem{}
	}
	return p.collected
}

func (p *BonusPool) Items() []BonusItem { return p.items }

func (p *BonusPool) ActiveCount() int {
	n := 0
	for i := range p.items {
		if p.items[i].Active {
			n++
		}
	}
	return n
}

// Reset offsets the first bonus half a spacing from the first ring so the two
// streams do not start stacked.
func (p *BonusPool) Reset() {
	for i := range p.items {
		p.items[i] = BonusItem{}
	}
	p.lastSpawnY = -float32(math.Floor(float64(p.spacing) / 2))
	p.collected = p.collected[:0]
}

func (p *BonusPool) appendViews(dst []BonusView) []BonusView {
	for i := range p.items {
		it := &p.items[i]
		if !it.Active {
			continue
		}
		dst = append(dst, BonusView{Slot: i, Kind: it.Kind, X: it.Pos.X, Y: it.Pos.Y})
	}
	return dst
}
