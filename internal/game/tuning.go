package game

import (
	"errors"
	"fmt"
)

var ErrInvalidTuning = errors.New("invalid tuning")

// Tuning holds every gameplay knob. Zero value is not usable; start from DefaultTuning.
type Tuning struct {
	// Ball
	Gravity         float32 `toml:"gravity"`
	InitialFall     float32 `toml:"initial_fall"`
	MaxFallSpeed    float32 `toml:"max_fall_speed"`
	XMin            float32 `toml:"x_min"`
	XMax            float32 `toml:"x_max"`
	DragSensitivity float32 `toml:"drag_sensitivity"`
	TiltSensitivity float32 `toml:"tilt_sensitivity"`
	TiltDeadzone    float32 `toml:"tilt_deadzone"`

	// Rings
	RingPoolSize   int     `toml:"ring_pool_size"`
	SpawnDistance  float32 `toml:"spawn_distance"`
	MinSpacing     float32 `toml:"min_spacing"`
	MaxSpacing     float32 `toml:"max_spacing"`
	SpacingStep    float32 `toml:"spacing_step"`
	SpawnXMin      float32 `toml:"spawn_x_min"`
	SpawnXMax      float32 `toml:"spawn_x_max"`
	TrailingMargin float32 `toml:"trailing_margin"`

	// Classifier radii
	PerfectRadius  float32 `toml:"perfect_radius"`
	InnerRadius    float32 `toml:"inner_radius"`
	OuterRadius    float32 `toml:"outer_radius"`
	PlaneThreshold float32 `toml:"plane_threshold"`
	MissThreshold  float32 `toml:"miss_threshold"`

	// Bonuses
	BonusPoolSize int     `toml:"bonus_pool_size"`
	BonusSpacing  float32 `toml:"bonus_spacing"`
	PickupRadius  float32 `toml:"pickup_radius"`
	GemWeight     int     `toml:"gem_weight"`
	ShieldWeight  int     `toml:"shield_weight"`
	SlowMoWeight  int     `toml:"slowmo_weight"`
	SlowMoScale   float32 `toml:"slowmo_scale"`
	SlowMoSecs    float32 `toml:"slowmo_secs"`

	// Scoring and progression
	PassPoints      int   `toml:"pass_points"`
	PerfectPoints   int   `toml:"perfect_points"`
	ComboPoints     int   `toml:"combo_points"`
	DifficultyEvery int   `toml:"difficulty_every"`
	BiomeScores     []int `toml:"biome_scores"`
}

func DefaultTuning() Tuning {
	return Tuning{
		Gravity:         -2,
		InitialFall:     -5,
		MaxFallSpeed:    -20,
		XMin:            -2.5,
		XMax:            2.5,
		DragSensitivity: 0.015,
		TiltSensitivity: 1.2,
		TiltDeadzone:    2,

		RingPoolSize:   20,
		SpawnDistance:  15,
		MinSpacing:     8,
		MaxSpacing:     12,
		SpacingStep:    0.5,
		SpawnXMin:      -2,
		SpawnXMax:      2,
		TrailingMargin: 10,

		PerfectRadius:  0.2,
		InnerRadius:    1.2,
		OuterRadius:    1.7,
		PlaneThreshold: 0.5,
		MissThreshold:  1.0,

		BonusPoolSize: 8,
		BonusSpacing:  9,
		PickupRadius:  0.8,
		GemWeight:     80,
		ShieldWeight:  10,
		SlowMoWeight:  10,
		SlowMoScale:   0.5,
		SlowMoSecs:    5,

		PassPoints:      10,
		PerfectPoints:   25,
		ComboPoints:     5,
		DifficultyEvery: 1,
		BiomeScores:     []int{500, 1000},
	}
}

// Validate rejects configurations the simulation cannot run with.
func (t Tuning) Validate() error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidTuning, fmt.Sprintf(format, args...))
	}
	switch {
	case t.PerfectRadius <= 0:
		return bad("perfect_radius %.3f must be positive", t.PerfectRadius)
	case t.PerfectRadius >= t.InnerRadius:
		return bad("perfect_radius %.3f must be below inner_radius %.3f", t.PerfectRadius, t.InnerRadius)
	case t.InnerRadius >= t.OuterRadius:
		return bad("inner_radius %.3f must be below outer_radius %.3f", t.InnerRadius, t.OuterRadius)
	case t.PlaneThreshold <= 0 || t.MissThreshold <= 0:
		return bad("plane_threshold and miss_threshold must be positive")
	case t.Gravity > 0 || t.MaxFallSpeed >= 0 || t.InitialFall > 0:
		return bad("gravity, initial_fall and max_fall_speed must point down")
	case t.Gravity == 0 && t.InitialFall == 0:
		return bad("gravity and initial_fall are both zero, the ball would never fall")
	case t.SpawnDistance <= 0:
		return bad("spawn_distance %.3f must be positive", t.SpawnDistance)
	case t.XMin >= t.XMax:
		return bad("x_min %.3f must be below x_max %.3f", t.XMin, t.XMax)
	case t.SpawnXMin > t.SpawnXMax:
		return bad("spawn_x_min %.3f above spawn_x_max %.3f", t.SpawnXMin, t.SpawnXMax)
	case t.MinSpacing <= 0 || t.MinSpacing > t.MaxSpacing:
		return bad("spacing range [%.3f, %.3f] is empty", t.MinSpacing, t.MaxSpacing)
	case t.SpacingStep < 0:
		return bad("spacing_step %.3f is negative", t.SpacingStep)
	case t.RingPoolSize < 1 || t.BonusPoolSize < 1:
		return bad("pool sizes must be at least 1")
	case t.BonusSpacing <= 0 || t.PickupRadius <= 0 || t.TrailingMargin <= 0:
		return bad("bonus_spacing, pickup_radius and trailing_margin must be positive")
	case t.GemWeight < 0 || t.ShieldWeight < 0 || t.SlowMoWeight < 0:
		return bad("bonus weights must not be negative")
	case t.GemWeight+t.ShieldWeight+t.SlowMoWeight == 0:
		return bad("at least one bonus weight must be positive")
	case t.SlowMoScale <= 0 || t.SlowMoScale > 1:
		return bad("slowmo_scale %.3f outside (0, 1]", t.SlowMoScale)
	case t.SlowMoSecs < 0:
		return bad("slowmo_secs %.3f is negative", t.SlowMoSecs)
	case t.PassPoints < 0 || t.PerfectPoints < 0 || t.ComboPoints < 0:
		return bad("pass_points, perfect_points and combo_points must not be negative")
	case t.DifficultyEvery < 1:
		return bad("difficulty_every %d must be at least 1", t.DifficultyEvery)
	}
	for i := 1; i < len(t.BiomeScores); i++ {
		if t.BiomeScores[i] <= t.BiomeScores[i-1] {
			return bad("biome_scores must be strictly increasing")
		}
	}
	return nil
}
