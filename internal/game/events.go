package game

type EventKind uint8

const (
	EventPerfect EventKind = iota + 1
	EventPass
	EventCollision
	EventMiss
	EventBonus     // Subtype is the BonusKind name; Value is gems, shields or slowmo ms
	EventShield    // a shield absorbed a collision or miss
	EventScore     // HUD: score, gems or combo changed
	EventBiome     // Value is the new biome index
	EventPhase     // lifecycle transition, Phase is the new phase
	EventCountdown // Value is 3, 2, 1, then 0 for GO
	EventGameOver  // Summary holds the final run stats
)

var eventNames = map[EventKind]string{
	EventPerfect:   "perfect",
	EventPass:      "pass",
	EventCollision: "collision",
	EventMiss:      "miss",
	EventBonus:     "bonus",
	EventShield:    "shield",
	EventScore:     "score",
	EventBiome:     "biome",
	EventPhase:     "phase",
	EventCountdown: "countdown",
	EventGameOver:  "gameover",
}

func (k EventKind) String() string {
	if n, ok := eventNames[k]; ok {
		return n
	}
	return "unknown"
}

type Event struct {
	Kind    EventKind   `json:"kind"`
	Tick    uint32      `json:"tick"`
	Pos     Vec3        `json:"pos"`
	Subtype string      `json:"subtype,omitempty"`
	Value   int         `json:"value,omitempty"`
	Combo   int         `json:"combo,omitempty"`
	Phase   Phase       `json:"phase"`
	Run     RunState    `json:"run"`
	Summary *RunSummary `json:"summary,omitempty"`
	FX      *Feedback   `json:"fx,omitempty"`
}

// Sink consumes session events. Emit runs on the frame path and must not block.
type Sink interface {
	Emit(Event)
}

type SinkFunc func(Event)

func (f SinkFunc) Emit(e Event) { f(e) }

// MultiSink fans an event out to every non-nil sink in order.
type MultiSink []Sink

func (m MultiSink) Emit(e Event) {
	for _, s := range m {
		if s != nil {
			s.Emit(e)
		}
	}
}

// EventBuffer collects events during a tick so the owner can drain them
// after the frame finishes.
type EventBuffer struct {
	events []Event
}

func (b *EventBuffer) Emit(e Event) {
	b.events = append(b.events, e)
}

// Drain returns the buffered events and resets the buffer. The returned slice
// is only valid until the next Emit.
func (b *EventBuffer) Drain() []Event {
	out := b.events
	b.events = b.events[:0]
	return out
}

func (b *EventBuffer) Len() int { return len(b.events) }
