package game

import (
	"fmt"
	"math"
)

type HitKind uint8

const (
	HitNone HitKind = iota
	HitPerfect
	HitPass
	HitCollision
	HitMiss
)

func (k HitKind) String() string {
	switch k {
	case HitNone:
		return "none"
	case HitPerfect:
		return "perfect"
	case HitPass:
		return "pass"
	case HitCollision:
		return "collision"
	case HitMiss:
		return "miss"
	}
	return "unknown"
}

// Hit is the classifier's single result for a frame.
type Hit struct {
	Kind HitKind
	Slot int
	Pos  Vec3
	// Distance is the horizontal distance from the ring axis; unset for misses.
	Distance float32
}

// Classifier decides how the ball relates to each ring. The ring is modelled
// as a thin horizontal plane: the planar tests only run while the ball is
// within PlaneThreshold of it vertically.
type Classifier struct {
	PerfectRadius  float32
	InnerRadius    float32
	OuterRadius    float32
	PlaneThreshold float32
	MissThreshold  float32
}

func NewClassifier(t Tuning) (Classifier, error) {
	c := Classifier{
		PerfectRadius:  t.PerfectRadius,
		InnerRadius:    t.InnerRadius,
		OuterRadius:    t.OuterRadius,
		PlaneThreshold: t.PlaneThreshold,
		MissThreshold:  t.MissThreshold,
	}
	if !(c.PerfectRadius < c.InnerRadius && c.InnerRadius < c.OuterRadius) {
		return Classifier{}, fmt.Errorf("%w: radii must satisfy perfect %.3f < inner %.3f < outer %.3f",
			ErrInvalidTuning, c.PerfectRadius, c.InnerRadius, c.OuterRadius)
	}
	return c, nil
}

// Classify scans active rings in slot order and returns the first qualifying
// hit. One-shot flags on the ring are set as a side effect so each ring yields
// at most one perfect, one pass and one miss per activation.
func (c Classifier) Classify(ball Vec3, rings []Ring) Hit {
	for i := range rings {
		r := &rings[i]
		if !r.Active || r.Absorbed {
			continue
		}

		if absF(ball.Y-r.Pos.Y) < c.PlaneThreshold {
			dx := float64(ball.X - r.Pos.X)
			dz := float64(ball.Z - r.Pos.Z)
			dist := float32(math.Sqrt(dx*dx + dz*dz))

			if dist < c.PerfectRadius && !r.Perfect {
				r.Perfect = true
				return Hit{Kind: HitPerfect, Slot: i, Pos: r.Pos, Distance: dist}
			}
			if dist < c.InnerRadius {
				if !r.Passed {
					r.Passed = true
					return Hit{Kind: HitPass, Slot: i, Pos: r.Pos, Distance: dist}
				}
			} else if dist <= c.OuterRadius {
				return Hit{Kind: HitCollision, Slot: i, Pos: r.Pos, Distance: dist}
			}
		}

		// The ball falls toward -y, so a ring more than MissThreshold above it
		// has been left behind. A ring that already scored a perfect was engaged.
		if r.Pos.Y > ball.Y+c.MissThreshold && !r.Passed && !r.Perfect && !r.Missed {
			r.Missed = true
			return Hit{Kind: HitMiss, Slot: i, Pos: r.Pos}
		}
	}
	return Hit{Kind: HitNone, Slot: -1}
}
