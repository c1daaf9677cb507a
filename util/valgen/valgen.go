// Package valgen has helpers using closures to generate operand values.
package valgen

import "math/rand"

// A Gen returns the next value. Generators that need randomness draw from
// the given source so that a run is reproducible from its seed.
type Gen func(rng *rand.Rand) uint64

// MakeConstGen always returns constant.
func MakeConstGen(constant uint64) Gen {
	return func(*rand.Rand) uint64 {
		return constant
	}
}

// MakeIncreasingGen returns start+1, start+2, ...
func MakeIncreasingGen(start uint64) Gen {
	current := start
	return func(*rand.Rand) uint64 {
		current++
		return current
	}
}

// MakeSequenceGen returns the values in order and then repeats the last one.
func MakeSequenceGen(values ...uint64) Gen {
	if len(values) == 0 {
		panic("empty sequence")
	}

	i := 0
	return func(*rand.Rand) uint64 {
		v := values[i]
		if i < len(values)-1 {
			i++
		}
		return v
	}
}

// MakeUniformGen samples uniformly from [0, 2^width).
func MakeUniformGen(width int) Gen {
	if width < 1 || width > 63 {
		panic("uniform generator width must be within [1, 63]")
	}

	bound := int64(1) << uint(width)
	return func(rng *rand.Rand) uint64 {
		return uint64(rng.Int63n(bound))
	}
}

// Fill draws n values from g.
func Fill(g Gen, rng *rand.Rand, n int) []uint64 {
	values := make([]uint64, n)
	for i := range values {
		values[i] = g(rng)
	}

	return values
}
