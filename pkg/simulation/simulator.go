package simulation

import (
	"math/rand/v2"

	"github.com/mpapenbr/rally-manager-go/pkg/model"
)

const (
	// slowest effective segment speed in km/h (worst case crawl)
	minSegmentSpeed = 60.0
	// reliability is clamped to this range when used as finish probability
	minFinishProb = 0.05
	maxFinishProb = 0.99
)

// Outcome is the raw simulation result for one car.
type Outcome struct {
	TimeMinutes float64 `json:"timeMinutes"`
	Dnf         bool    `json:"dnf"`
}

// Simulator computes race outcomes for single cars. The random source
// is injected so runs can be reproduced with a fixed seed.
type Simulator struct {
	rnd *rand.Rand
}

type Option func(s *Simulator)

func WithRand(rnd *rand.Rand) Option {
	return func(s *Simulator) {
		s.rnd = rnd
	}
}

func WithSeed(seed uint64) Option {
	return func(s *Simulator) {
		s.rnd = rand.New(rand.NewPCG(seed, seed+1))
	}
}

func NewSimulator(opts ...Option) *Simulator {
	ret := &Simulator{
		rnd: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Simulate computes the finishing time in minutes for car over
// distanceKm on the given profile. Attributes are clamped rather than
// rejected, so malformed but in-range values degrade gracefully.
// Draw order is fixed (segments, reliability, finish jitter) to keep
// results reproducible under a fixed seed.
func (s *Simulator) Simulate(
	car *model.Car,
	distanceKm float64,
	profile Profile,
) Outcome {
	handlingScale := 0.5 + (clamp(float64(car.Handling), 50, 100)-50)/100.0
	// faster accelerating cars sustain a slightly better average pace
	accelScale := clamp(1.0+(6.0-car.Accel0100S)*0.02, 0.90, 1.05)

	minutes := 0.0
	for _, seg := range profile.Segments {
		variation := s.uniform(0.92, 1.08)
		segmentSpeed := car.TopSpeedKmh * handlingScale * accelScale *
			seg.SpeedFactor * seg.HandlingFactor * variation
		if segmentSpeed < minSegmentSpeed {
			segmentSpeed = minSegmentSpeed
		}
		hours := distanceKm * seg.Fraction / segmentSpeed
		minutes += hours * 60.0
	}

	finishProb := clamp(car.Reliability, minFinishProb, maxFinishProb)
	dnf := s.rnd.Float64() > finishProb
	if !dnf {
		minutes *= s.uniform(0.98, 1.05)
	}

	return Outcome{TimeMinutes: minutes, Dnf: dnf}
}

func (s *Simulator) uniform(low, high float64) float64 {
	return low + s.rnd.Float64()*(high-low)
}

func clamp(v, low, high float64) float64 {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
