package game

// Frame clock used by hosted rooms
const (
	TickRate       = 60
	DT             = 1.0 / float32(TickRate)
	BroadcastEvery = 2 // send a state frame every N ticks

	CountdownSteps = 3
	CountdownStep  = float32(1.0) // seconds per 3-2-1 step
	GoHoldSecs     = float32(0.5) // "GO!" stays up this long before play starts
)

type Phase uint8

const (
	PhaseMenu Phase = iota
	PhaseCountdown
	PhasePlaying
	PhasePaused
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseMenu:
		return "MENU"
	case PhaseCountdown:
		return "COUNTDOWN"
	case PhasePlaying:
		return "PLAYING"
	case PhasePaused:
		return "PAUSED"
	case PhaseGameOver:
		return "GAME_OVER"
	}
	return "UNKNOWN"
}

type Vec3 struct {
	X float32 `json:"x" msgpack:"x"`
	Y float32 `json:"y" msgpack:"y"`
	Z float32 `json:"z" msgpack:"z"`
}

// RunState is the score side of a run. Score and Gems never decrease within a run.
type RunState struct {
	Score       int `json:"score" msgpack:"score"`
	Gems        int `json:"gems" msgpack:"gems"`
	Combo       int `json:"combo" msgpack:"combo"`
	MaxCombo    int `json:"maxCombo" msgpack:"maxCombo"`
	RingsPassed int `json:"ringsPassed" msgpack:"ringsPassed"`
	Perfects    int `json:"perfects" msgpack:"perfects"`
}

// RunSummary is what the storage collaborator receives when a run ends.
type RunSummary struct {
	Score       int `json:"score" toml:"score"`
	Gems        int `json:"gems" toml:"gems"`
	MaxCombo    int `json:"maxCombo" toml:"max_combo"`
	RingsPassed int `json:"ringsPassed" toml:"rings_passed"`
	Perfects    int `json:"perfects" toml:"perfects"`
}

func (r RunState) Summary() RunSummary {
	return RunSummary{
		Score:       r.Score,
		Gems:        r.Gems,
		MaxCombo:    r.MaxCombo,
		RingsPassed: r.RingsPassed,
		Perfects:    r.Perfects,
	}
}

type BallView struct {
	Pos Vec3    `json:"pos" msgpack:"pos"`
	VY  float32 `json:"vy" msgpack:"vy"`
}

type RingView struct {
	Slot    int     `json:"slot" msgpack:"slot"`
	X       float32 `json:"x" msgpack:"x"`
	Y       float32 `json:"y" msgpack:"y"`
	Passed  bool    `json:"passed" msgpack:"passed"`
	Perfect bool    `json:"perfect" msgpack:"perfect"`
}

type BonusView struct {
	Slot int       `json:"slot" msgpack:"slot"`
	Kind BonusKind `json:"kind" msgpack:"kind"`
	X    float32   `json:"x" msgpack:"x"`
	Y    float32   `json:"y" msgpack:"y"`
}

// Snapshot is the renderer-facing view of a session. Slices are reused
// between calls to Session.Snapshot.
type Snapshot struct {
	Tick       uint32      `json:"tick" msgpack:"tick"`
	Phase      Phase       `json:"phase" msgpack:"phase"`
	PhaseTimer float32     `json:"phaseTimer" msgpack:"phaseTimer"`
	Countdown  int         `json:"countdown" msgpack:"countdown"`
	Ball       BallView    `json:"ball" msgpack:"ball"`
	Rings      []RingView  `json:"rings" msgpack:"rings"`
	Bonuses    []BonusView `json:"bonuses" msgpack:"bonuses"`
	Run        RunState    `json:"run" msgpack:"run"`
	Shields    int         `json:"shields" msgpack:"shields"`
	SlowMo     float32     `json:"slowMo" msgpack:"slowMo"`
	Biome      int         `json:"biome" msgpack:"biome"`
	Spacing    float32     `json:"spacing" msgpack:"spacing"`
}

// Input is the externally captured control state for one frame.
type Input struct {
	Drag    float32 `json:"drag"`    // pointer delta in pixels since last frame
	Tilt    float32 `json:"tilt"`    // device tilt in degrees (gamma)
	HasTilt bool    `json:"hasTilt"` // tilt mode enabled on the client
}
