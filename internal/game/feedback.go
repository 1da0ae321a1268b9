package game

type FeedbackKind uint8

const (
	FXBurst FeedbackKind = iota + 1
	FXSparkle
	FXWave
	FXShake
	FXFlash
)

// Feedback is a particle/camera trigger for the rendering collaborator.
type Feedback struct {
	Kind  FeedbackKind `json:"kind"`
	Count int          `json:"count,omitempty"`
	Color uint32       `json:"color,omitempty"`
	Scale float32      `json:"scale,omitempty"`
	Up    bool         `json:"up,omitempty"`
}

const (
	colorPerfect = 0x00d9ff
	colorGem     = 0xffd700
	colorShield  = 0x66ccff
)

// feedbackFor picks the visual trigger that accompanies an event, if any.
func feedbackFor(e Event) *Feedback {
	switch e.Kind {
	case EventPerfect:
		return &Feedback{Kind: FXBurst, Count: 30, Color: colorPerfect, Scale: 2}
	case EventBonus:
		if e.Subtype == BonusGem.String() {
			return &Feedback{Kind: FXSparkle, Count: 15, Color: colorGem, Scale: 1}
		}
		return &Feedback{Kind: FXBurst, Count: 20, Color: colorShield, Scale: 1}
	case EventBiome:
		return &Feedback{Kind: FXWave, Color: BiomeFor(e.Value).AmbientColor, Up: true}
	case EventShield:
		return &Feedback{Kind: FXFlash, Color: colorShield}
	case EventGameOver:
		return &Feedback{Kind: FXShake, Scale: 1}
	}
	return nil
}
