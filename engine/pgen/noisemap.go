package pgen

import (
	"math"

	"github.com/ojrac/opensimplex-go"
	"github.com/zyedidia/generic"
)

// Octave is one frequency band of a NoiseMap. Scale is its relative weight.
type Octave struct {
	Freq, Scale float64
}

// NoiseMap sums octaves of normalized simplex noise into a height in [0, 1].
type NoiseMap struct {
	seed     int64
	noise    opensimplex.Noise
	octaves  []Octave
	exponent float64
}

// NewNoiseMap copies the octaves and rescales them so their weights add up to 1.
// Negative weights count as 0. If no octave has weight, they all share it equally.
func NewNoiseMap(seed int64, octaves []Octave, exponent float64) *NoiseMap {
	scaled := make([]Octave, len(octaves))
	total := 0.0
	for i, o := range octaves {
		o.Scale = generic.Max(o.Scale, 0)
		scaled[i] = o
		total += o.Scale
	}
	for i := range scaled {
		if total > 0 {
			scaled[i].Scale /= total
		} else {
			scaled[i].Scale = 1 / float64(len(scaled))
		}
	}

	return &NoiseMap{
		seed:     seed,
		noise:    opensimplex.NewNormalized(seed),
		octaves:  scaled,
		exponent: exponent,
	}
}

func (n *NoiseMap) Octaves() []Octave {
	return n.octaves
}

func (n *NoiseMap) Get(x, y int) float64 {
	ret := 0.0
	for _, o := range n.octaves {
		ret += o.Scale * n.noise.Eval2(o.Freq*float64(x), o.Freq*float64(y))
	}

	return math.Pow(generic.Clamp(ret, 0, 1), n.exponent)
}
