package game

func clampF(val, min, max float32) float32 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

func absF(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// Ball is the player body: a single-axis kinematic faller with a clamped
// horizontal position.
type Ball struct {
	Pos Vec3
	VY  float32

	gravity     float32
	initialFall float32
	maxFall     float32
	xMin, xMax  float32

	// drag-in-progress state, owned by the input mapping in player.go
	dragging bool
	lastX    float32
}

func NewBall(t Tuning) *Ball {
	b := &Ball{
		gravity:     t.Gravity,
		initialFall: t.InitialFall,
		maxFall:     t.MaxFallSpeed,
		xMin:        t.XMin,
		xMax:        t.XMax,
	}
	b.Reset()
	return b
}

// Integrate advances the fall by dt seconds. Fall speed is capped at maxFall.
func (b *Ball) Integrate(dt float32) {
	if dt <= 0 {
		return
	}
	b.VY += b.gravity * dt
	if b.VY < b.maxFall {
		b.VY = b.maxFall
	}
	b.Pos.Y += b.VY * dt
}

// ApplyHorizontalDelta moves the ball sideways and keeps it inside the lane.
func (b *Ball) ApplyHorizontalDelta(delta, sensitivity float32) {
	b.Pos.X = clampF(b.Pos.X+delta*sensitivity, b.xMin, b.xMax)
}

func (b *Ball) Reset() {
	b.Pos = Vec3{}
	b.VY = b.initialFall
	b.dragging = false
	b.lastX = 0
}

func (b *Ball) View() BallView {
	return BallView{Pos: b.Pos, VY: b.VY}
}
