package mac

import (
	"github.com/sarchlab/systolictb/config"
	"github.com/sarchlab/systolictb/tb"
	"github.com/sarchlab/systolictb/util/valgen"
)

// DefaultResetPeriod is how often the default bench resets the MAC.
const DefaultResetPeriod = 8

// BenchBuilder can create MAC benches.
type BenchBuilder struct {
	params      config.Parameters
	resetPolicy tb.ResetPolicy
	operandGen  valgen.Gen
	enableGen   valgen.Gen
}

// MakeBenchBuilder returns a builder that resets every DefaultResetPeriod
// inputs and samples operands and enables uniformly.
func MakeBenchBuilder() BenchBuilder {
	return BenchBuilder{
		params:      config.DefaultParameters(),
		resetPolicy: tb.EveryK(DefaultResetPeriod),
	}
}

// WithParameters sets the operand and accumulator widths.
func (b BenchBuilder) WithParameters(p config.Parameters) BenchBuilder {
	b.params = p
	return b
}

// WithResetPolicy sets which inputs reset the MAC.
func (b BenchBuilder) WithResetPolicy(p tb.ResetPolicy) BenchBuilder {
	b.resetPolicy = p
	return b
}

// WithOperandGen sets the generator of a and b.
func (b BenchBuilder) WithOperandGen(g valgen.Gen) BenchBuilder {
	b.operandGen = g
	return b
}

// WithEnableGen sets the generator of ena. Only the lowest bit is used.
func (b BenchBuilder) WithEnableGen(g valgen.Gen) BenchBuilder {
	b.enableGen = g
	return b
}

// Build creates a bench.
func (b BenchBuilder) Build(name string) *Bench {
	if b.operandGen == nil {
		b.operandGen = valgen.MakeUniformGen(b.params.OpWidth)
	}

	if b.enableGen == nil {
		b.enableGen = valgen.MakeUniformGen(1)
	}

	return &Bench{
		name:        name,
		params:      b.params,
		resetPolicy: b.resetPolicy,
		operandGen:  b.operandGen,
		enableGen:   b.enableGen,
	}
}
