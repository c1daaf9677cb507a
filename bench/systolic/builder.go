package systolic

import (
	"github.com/sarchlab/systolictb/config"
	"github.com/sarchlab/systolictb/tb"
	"github.com/sarchlab/systolictb/util/valgen"
)

// BenchBuilder can create systolic benches.
type BenchBuilder struct {
	params      config.Parameters
	resetPolicy tb.ResetPolicy
	operandGen  valgen.Gen
}

// MakeBenchBuilder returns a builder that alternates resets and products of
// uniformly sampled matrices.
func MakeBenchBuilder() BenchBuilder {
	return BenchBuilder{
		params:      config.DefaultParameters(),
		resetPolicy: tb.Alternating(),
	}
}

// WithParameters sets the array dimension and the widths.
func (b BenchBuilder) WithParameters(p config.Parameters) BenchBuilder {
	b.params = p
	return b
}

// WithResetPolicy sets which inputs reset the array.
func (b BenchBuilder) WithResetPolicy(p tb.ResetPolicy) BenchBuilder {
	b.resetPolicy = p
	return b
}

// WithOperandGen sets the generator of the matrix elements.
func (b BenchBuilder) WithOperandGen(g valgen.Gen) BenchBuilder {
	b.operandGen = g
	return b
}

// Build creates a bench.
func (b BenchBuilder) Build(name string) *Bench {
	if b.operandGen == nil {
		b.operandGen = valgen.MakeUniformGen(b.params.OpWidth)
	}

	return &Bench{
		name:        name,
		params:      b.params,
		resetPolicy: b.resetPolicy,
		operandGen:  b.operandGen,
	}
}
