package loop

import (
	"time"
)

const DefaultStep = 16 * time.Millisecond

type System struct {
	Name string
	Func func(dt time.Duration)
}

func (s *System) Run(dt time.Duration) {
	s.Func(dt)
}

// RunAll runs the systems in order with the same dt
func RunAll(systems []System, dt time.Duration) {
	for i := range systems {
		systems[i].Run(dt)
	}
}

// FixedStep runs its systems at a fixed timestep regardless of how frame time arrives.
// At most MaxSteps steps run per Advance, any time beyond that is dropped.
type FixedStep struct {
	Step     time.Duration
	MaxSteps int
	Systems  []System

	accumulator time.Duration
}

func NewFixedStep(step time.Duration, systems ...System) *FixedStep {
	if step <= 0 {
		step = DefaultStep
	}
	return &FixedStep{
		Step:     step,
		MaxSteps: 5,
		Systems:  systems,
	}
}

// Advance adds a frame's worth of time and returns how many steps ran.
func (f *FixedStep) Advance(dt time.Duration) int {
	f.accumulator += dt

	steps := 0
	for f.accumulator >= f.Step {
		if f.MaxSteps > 0 && steps >= f.MaxSteps {
			f.accumulator = 0
			break
		}
		RunAll(f.Systems, f.Step)
		f.accumulator -= f.Step
		steps++
	}
	return steps
}

// Alpha is how far the simulation is into the next step, in [0, 1)
func (f *FixedStep) Alpha() float64 {
	return float64(f.accumulator) / float64(f.Step)
}
