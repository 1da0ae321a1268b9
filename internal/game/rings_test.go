package game

import (
	"math/rand"
	"testing"
)

func newTestRingPool() *RingPool {
	return NewRingPool(DefaultTuning(), rand.New(rand.NewSource(1)))
}

func TestRingPoolSpawnCadence(t *testing.T) {
	p := newTestRingPool()

	slot, ok := p.SpawnIfDue(0)
	if !ok {
		t.Fatal("expected first ring to spawn at y=0")
	}
	r := p.Ring(slot)
	if r.Pos.Y != -15 {
		t.Fatalf("ring y = %v, want -15", r.Pos.Y)
	}
	if r.Pos.X < -2 || r.Pos.X > 2 {
		t.Fatalf("ring x = %v outside spawn band", r.Pos.X)
	}

	if _, ok := p.SpawnIfDue(0); ok {
		t.Fatal("spawned twice at the same depth")
	}
	if _, ok := p.SpawnIfDue(-11.5); ok {
		t.Fatal("spawned before spacing was exceeded")
	}
	if _, ok := p.SpawnIfDue(-12.5); !ok {
		t.Fatal("expected spawn once gap exceeds spacing")
	}
	if got := p.LastSpawnY(); got != -27.5 {
		t.Fatalf("lastSpawnY = %v, want -27.5", got)
	}
	if n := p.ActiveCount(); n != 2 {
		t.Fatalf("active = %d, want 2", n)
	}
}

func TestRingPoolRecycle(t *testing.T) {
	p := newTestRingPool()
	p.Place(0, -15)
	p.Place(0, -30)

	if n := p.RecycleOutOfRange(-24); n != 0 {
		t.Fatalf("recycled %d rings still within margin", n)
	}
	if n := p.RecycleOutOfRange(-26); n != 1 {
		t.Fatalf("recycled %d, want 1", n)
	}
	if n := p.ActiveCount(); n != 1 {
		t.Fatalf("active = %d, want 1", n)
	}
}

func TestRingPoolReleaseClearsFlags(t *testing.T) {
	p := newTestRingPool()
	slot := p.Place(1, -5)
	r := p.Ring(slot)
	r.Passed, r.Perfect, r.Missed, r.Absorbed = true, true, true, true

	p.Release(slot)
	again := p.Place(0, -8)
	if again != slot {
		t.Fatalf("reused slot %d, want %d", again, slot)
	}
	r = p.Ring(again)
	if r.Passed || r.Perfect || r.Missed || r.Absorbed {
		t.Fatalf("flags survived release: %+v", *r)
	}
}

func TestRingPoolGrowsWhenExhausted(t *testing.T) {
	p := newTestRingPool()
	for i := 0; i < 20; i++ {
		p.Place(0, float32(-i))
	}
	slot := p.Place(0, -100)
	if slot != 20 {
		t.Fatalf("slot = %d, want 20", slot)
	}
	if n := p.ActiveCount(); n != 21 {
		t.Fatalf("active = %d, want 21", n)
	}
}

func TestDifficultyStepsPerClear(t *testing.T) {
	p := newTestRingPool()
	d := NewDifficulty(1)

	for i := 0; i < 8; i++ {
		if !d.RingCleared(p) {
			t.Fatalf("clear %d did not tighten spacing", i)
		}
	}
	if got := p.Spacing(); got != 8 {
		t.Fatalf("spacing = %v, want 8", got)
	}
	if d.RingCleared(p) {
		t.Fatal("spacing tightened below the minimum")
	}
	if p.Spacing() != 8 || d.Steps() != 8 {
		t.Fatalf("spacing %v steps %d, want 8 and 8", p.Spacing(), d.Steps())
	}

	p.Reset()
	d.Reset()
	if p.Spacing() != 12 || d.Steps() != 0 {
		t.Fatalf("reset left spacing %v steps %d", p.Spacing(), d.Steps())
	}
}

func TestDifficultyCadence(t *testing.T) {
	p := newTestRingPool()
	d := NewDifficulty(3)
	d.RingCleared(p)
	d.RingCleared(p)
	if p.Spacing() != 12 {
		t.Fatalf("spacing moved early: %v", p.Spacing())
	}
	if !d.RingCleared(p) || p.Spacing() != 11.5 {
		t.Fatalf("third clear: spacing %v, want 11.5", p.Spacing())
	}
}
