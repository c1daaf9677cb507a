package inputmanager

import (
	"github.com/sarchlab/systolictb/config"
	"github.com/sarchlab/systolictb/tb"
	"github.com/sarchlab/systolictb/util/valgen"
)

// BenchBuilder can create input manager benches.
type BenchBuilder struct {
	params      config.Parameters
	resetPolicy tb.ResetPolicy
	operandGen  valgen.Gen
	laneGen     valgen.Gen
}

// MakeBenchBuilder returns a builder that resets once and then enables
// random lanes.
func MakeBenchBuilder() BenchBuilder {
	return BenchBuilder{
		params:      config.DefaultParameters(),
		resetPolicy: tb.FirstOnly(),
	}
}

// WithParameters sets the array dimension and the operand width.
func (b BenchBuilder) WithParameters(p config.Parameters) BenchBuilder {
	b.params = p
	return b
}

// WithResetPolicy sets which inputs reset the buffers.
func (b BenchBuilder) WithResetPolicy(p tb.ResetPolicy) BenchBuilder {
	b.resetPolicy = p
	return b
}

// WithOperandGen sets the generator of the new elements.
func (b BenchBuilder) WithOperandGen(g valgen.Gen) BenchBuilder {
	b.operandGen = g
	return b
}

// WithLaneGen sets the generator of the lane enables. Only the lowest bit is
// used.
func (b BenchBuilder) WithLaneGen(g valgen.Gen) BenchBuilder {
	b.laneGen = g
	return b
}

// Build creates a bench.
func (b BenchBuilder) Build(name string) *Bench {
	if b.operandGen == nil {
		b.operandGen = valgen.MakeUniformGen(b.params.OpWidth)
	}

	if b.laneGen == nil {
		b.laneGen = valgen.MakeUniformGen(1)
	}

	return &Bench{
		name:        name,
		params:      b.params,
		resetPolicy: b.resetPolicy,
		operandGen:  b.operandGen,
		laneGen:     b.laneGen,
	}
}
