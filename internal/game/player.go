package game

// Controls maps raw pointer and tilt input onto the ball's horizontal delta.
type Controls struct {
	Sensitivity     float32
	TiltSensitivity float32
	TiltDeadzone    float32
}

func NewControls(t Tuning) Controls {
	return Controls{
		Sensitivity:     t.DragSensitivity,
		TiltSensitivity: t.TiltSensitivity,
		TiltDeadzone:    t.TiltDeadzone,
	}
}

// ApplyInput feeds one frame of input to the ball. Drag and tilt stack when
// a client sends both.
func (c Controls) ApplyInput(b *Ball, in Input) {
	if in.Drag != 0 {
		b.ApplyHorizontalDelta(in.Drag, c.Sensitivity)
	}
	if in.HasTilt && absF(in.Tilt) > c.TiltDeadzone {
		b.ApplyHorizontalDelta(in.Tilt*c.TiltSensitivity, c.Sensitivity)
	}
}

// PointerDown starts a drag at screen x.
func (c Controls) PointerDown(b *Ball, x float32) {
	b.dragging = true
	b.lastX = x
}

// PointerMove returns the pixel delta since the last pointer position and
// applies it. Moves without a preceding PointerDown are ignored.
func (c Controls) PointerMove(b *Ball, x float32) float32 {
	if !b.dragging {
		return 0
	}
	delta := x - b.lastX
	b.lastX = x
	b.ApplyHorizontalDelta(delta, c.Sensitivity)
	return delta
}

func (c Controls) PointerUp(b *Ball) {
	b.dragging = false
}
