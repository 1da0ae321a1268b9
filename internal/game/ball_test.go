package game

import "testing"

func TestBallFallsMonotonically(t *testing.T) {
	b := NewBall(DefaultTuning())
	if b.VY != -5 {
		t.Fatalf("initial VY = %v, want -5", b.VY)
	}
	prevY, prevVY := b.Pos.Y, b.VY
	for i := 0; i < 600; i++ {
		b.Integrate(DT)
		if b.Pos.Y >= prevY {
			t.Fatalf("frame %d: y %v did not decrease from %v", i, b.Pos.Y, prevY)
		}
		if b.VY > prevVY {
			t.Fatalf("frame %d: VY %v rose above %v", i, b.VY, prevVY)
		}
		prevY, prevVY = b.Pos.Y, b.VY
	}
}

func TestBallFallSpeedCapped(t *testing.T) {
	b := NewBall(DefaultTuning())
	for i := 0; i < 1000; i++ {
		b.Integrate(0.1)
	}
	if b.VY != -20 {
		t.Fatalf("VY = %v, want capped at -20", b.VY)
	}
}

func TestBallIntegrateIgnoresNonPositiveDT(t *testing.T) {
	b := NewBall(DefaultTuning())
	b.Integrate(0)
	b.Integrate(-1)
	if b.Pos.Y != 0 || b.VY != -5 {
		t.Fatalf("got y=%v vy=%v, want untouched", b.Pos.Y, b.VY)
	}
}

func TestBallHorizontalClamp(t *testing.T) {
	b := NewBall(DefaultTuning())
	b.ApplyHorizontalDelta(1000, 0.015)
	if b.Pos.X != 2.5 {
		t.Fatalf("x = %v, want 2.5", b.Pos.X)
	}
	b.ApplyHorizontalDelta(-5000, 0.015)
	if b.Pos.X != -2.5 {
		t.Fatalf("x = %v, want -2.5", b.Pos.X)
	}
}

func TestControlsTiltDeadzone(t *testing.T) {
	c := NewControls(DefaultTuning())
	b := NewBall(DefaultTuning())

	c.ApplyInput(b, Input{Tilt: 1.5, HasTilt: true})
	if b.Pos.X != 0 {
		t.Fatalf("tilt inside deadzone moved ball to %v", b.Pos.X)
	}

	c.ApplyInput(b, Input{Tilt: 10, HasTilt: false})
	if b.Pos.X != 0 {
		t.Fatalf("tilt without tilt mode moved ball to %v", b.Pos.X)
	}

	c.ApplyInput(b, Input{Tilt: 10, HasTilt: true})
	want := float32(10) * 1.2 * 0.015
	if d := absF(b.Pos.X - want); d > 1e-6 {
		t.Fatalf("x = %v, want %v", b.Pos.X, want)
	}
}

func TestControlsPointerDrag(t *testing.T) {
	c := NewControls(DefaultTuning())
	b := NewBall(DefaultTuning())

	if d := c.PointerMove(b, 100); d != 0 {
		t.Fatalf("move without pointer down returned %v", d)
	}
	c.PointerDown(b, 100)
	if d := c.PointerMove(b, 140); d != 40 {
		t.Fatalf("delta = %v, want 40", d)
	}
	want := float32(40) * 0.015
	if absF(b.Pos.X-want) > 1e-6 {
		t.Fatalf("x = %v, want %v", b.Pos.X, want)
	}
	c.PointerUp(b)
	if d := c.PointerMove(b, 200); d != 0 {
		t.Fatalf("move after pointer up returned %v", d)
	}
}
