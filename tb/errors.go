package tb

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/sarchlab/systolictb/config"
)

// UnresolvedError reports a snapshot field that could not be scored because
// its signal held unknown bits, for example when scoring starts before the
// circuit produced a valid output.
type UnresolvedError struct {
	Bench   string
	Seq     uint64
	Cycle   uint64
	Signals []string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf(
		"%s: transaction %d at cycle %d: unresolved signal(s) %s",
		e.Bench, e.Seq, e.Cycle, strings.Join(e.Signals, ", "))
}

// Operand is one named value shown in a mismatch report.
type Operand struct {
	Name  string
	Value string
}

// MismatchError reports an observed output that differs from the golden
// model.
type MismatchError struct {
	Bench    string
	Seq      uint64
	Cycle    uint64
	Op       Op
	Operands []Operand
	Expected string
	Actual   string
}

func (e *MismatchError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s: transaction %d at cycle %d (%s) mismatch\n",
		e.Bench, e.Seq, e.Cycle, e.Op.Name())
	for _, o := range e.Operands {
		fmt.Fprintf(&b, "  %s: %s\n", o.Name, o.Value)
	}
	fmt.Fprintf(&b, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&b, "  Actual:   %s", e.Actual)

	return b.String()
}

// Unresolved returns an *UnresolvedError for the transaction.
func Unresolved[S any](
	bench string,
	t Transaction[S],
	signals ...string,
) *UnresolvedError {
	return &UnresolvedError{
		Bench:   bench,
		Seq:     t.Seq,
		Cycle:   t.Cycle,
		Signals: signals,
	}
}

// Mismatch returns a *MismatchError for the transaction.
func Mismatch[S any](
	bench string,
	t Transaction[S],
	op Op,
	expected, actual any,
	operands ...Operand,
) *MismatchError {
	return &MismatchError{
		Bench:    bench,
		Seq:      t.Seq,
		Cycle:    t.Cycle,
		Op:       op,
		Operands: operands,
		Expected: fmt.Sprint(expected),
		Actual:   fmt.Sprint(actual),
	}
}

// Kind names the failure category of an error.
type Kind int

const (
	KindOther Kind = iota
	KindConfig
	KindUnresolved
	KindMismatch
)

// Name returns the name of the kind.
func (k Kind) Name() string {
	switch k {
	case KindOther:
		return "Other"
	case KindConfig:
		return "Configuration"
	case KindUnresolved:
		return "Unresolved signal"
	case KindMismatch:
		return "Verification mismatch"
	default:
		panic("invalid kind")
	}
}

// KindOf classifies err.
func KindOf(err error) Kind {
	var (
		cfg        *config.Error
		unresolved *UnresolvedError
		mismatch   *MismatchError
	)

	switch {
	case err == nil:
		return KindOther
	case errors.As(err, &cfg):
		return KindConfig
	case errors.As(err, &unresolved):
		return KindUnresolved
	case errors.As(err, &mismatch):
		return KindMismatch
	default:
		return KindOther
	}
}

// IsFatal reports whether err belongs to one of the three failure kinds
// that terminate a run.
func IsFatal(err error) bool {
	return KindOf(err) != KindOther
}
