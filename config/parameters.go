// Package config holds the parameters of a verification run. Values are
// fixed when a harness is built and never change during the run.
package config

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Parameters describe the circuit under test.
type Parameters struct {
	// N is the array dimension.
	N int `yaml:"n"`
	// OpWidth is the operand width in bits.
	OpWidth int `yaml:"op_width"`
	// AccWidth is the accumulator width in bits.
	AccWidth int `yaml:"acc_width"`
}

// DefaultParameters returns N=2, OpWidth=8, AccWidth=32.
func DefaultParameters() Parameters {
	return Parameters{N: 2, OpWidth: 8, AccWidth: 32}
}

// Validate checks that the parameters are consistent.
func (p Parameters) Validate() error {
	switch {
	case p.N < 1:
		return NewError("n", fmt.Sprintf("%d is below 1", p.N))
	case p.OpWidth < 1 || p.OpWidth > 32:
		return NewError("op_width",
			fmt.Sprintf("%d is outside [1, 32]", p.OpWidth))
	case p.AccWidth > 64:
		return NewError("acc_width",
			fmt.Sprintf("%d is above 64", p.AccWidth))
	case p.AccWidth < 2*p.OpWidth:
		return NewError("acc_width",
			fmt.Sprintf("%d cannot hold a %d-bit product",
				p.AccWidth, 2*p.OpWidth))
	}

	return nil
}

// MaxOperand returns the largest operand value, 2^OpWidth - 1.
func (p Parameters) MaxOperand() uint64 {
	return (uint64(1) << uint(p.OpWidth)) - 1
}

// CheckOperands returns an op_width error for the first value that does not
// fit in OpWidth bits.
func (p Parameters) CheckOperands(values ...uint64) error {
	for i, v := range values {
		if v > p.MaxOperand() {
			return NewError("op_width", fmt.Sprintf(
				"operand %d is %d, above %d", i, v, p.MaxOperand()))
		}
	}

	return nil
}

// Run describes one verification run.
type Run struct {
	Bench      string     `yaml:"bench"`
	Params     Parameters `yaml:"params"`
	NChecks    int        `yaml:"n_checks"`
	Seed       int64      `yaml:"seed"`
	Cycles     int        `yaml:"cycles"`
	FreqGHz    float64    `yaml:"freq_ghz"`
	ResetEvery int        `yaml:"reset_every"`
	LogFile    string     `yaml:"log_file"`
	ReportFile string     `yaml:"report_file"`
	RecordFile string     `yaml:"record_file"`
	Monitor    bool       `yaml:"monitor"`
}

// DefaultRun returns the settings used when nothing else is given. A zero
// Cycles lets the runner pick a cycle count that covers every check.
func DefaultRun() Run {
	return Run{
		Bench:   "systolic",
		Params:  DefaultParameters(),
		NChecks: 20,
		Seed:    1,
		FreqGHz: 1,
	}
}

// Validate checks the run and its parameters.
func (r Run) Validate() error {
	if err := r.Params.Validate(); err != nil {
		return err
	}

	switch {
	case r.NChecks < 0:
		return NewError("n_checks", fmt.Sprintf("%d is negative", r.NChecks))
	case r.Cycles < 0:
		return NewError("cycles", fmt.Sprintf("%d is negative", r.Cycles))
	case r.FreqGHz <= 0:
		return NewError("freq_ghz", fmt.Sprintf("%v is not positive", r.FreqGHz))
	case r.ResetEvery < 0:
		return NewError("reset_every",
			fmt.Sprintf("%d is negative", r.ResetEvery))
	}

	return nil
}

// Load reads a YAML run description. Fields missing from the file keep their
// default values.
func Load(path string) (Run, error) {
	run := DefaultRun()

	data, err := os.ReadFile(path)
	if err != nil {
		return run, errors.Wrapf(err, "failed to read %s", path)
	}

	if err := yaml.Unmarshal(data, &run); err != nil {
		return run, errors.Wrapf(err, "failed to parse %s", path)
	}

	if err := run.Validate(); err != nil {
		return run, errors.Wrapf(err, "invalid run in %s", path)
	}

	return run, nil
}
