package systolic

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/systolictb/config"
	"github.com/sarchlab/systolictb/golden"
	"github.com/sarchlab/systolictb/rtl"
	"github.com/sarchlab/systolictb/tb"
	"github.com/sarchlab/systolictb/util/valgen"
	"github.com/sarchlab/systolictb/vsim"
)

// scoredResults records the result matrix after every scored transaction.
type scoredResults struct {
	c []golden.Matrix
}

func (r *scoredResults) Func(ctx sim.HookCtx) {
	if ctx.Pos != tb.HookPosTransactionScored {
		return
	}

	t := ctx.Item.(tb.Transaction[Snapshot])
	c, _ := t.After.C.Get()
	r.c = append(r.c, c)
}

// cycle returns the values in order, over and over.
func cycle(values ...uint64) valgen.Gen {
	i := 0
	return func(*rand.Rand) uint64 {
		v := values[i%len(values)]
		i++

		return v
	}
}

var _ = Describe("Systolic verification", func() {
	var (
		params    config.Parameters
		circuit   *rtl.SystolicMultiplier
		simulator *vsim.Simulator
		results   *scoredResults
	)

	harness := func(bench *Bench, nChecks int) *tb.Harness[Snapshot, Input] {
		simulator = vsim.Builder{}.WithCircuit(circuit).Build("Sim")

		h, err := tb.MakeHarnessBuilder[Snapshot, Input]().
			WithBench(bench).
			WithSimulator(simulator).
			WithParameters(params).
			WithChecks(nChecks).
			WithSeed(5).
			WithHook(results).
			Build("Harness")
		Expect(err).NotTo(HaveOccurred())

		return h
	}

	BeforeEach(func() {
		params = config.DefaultParameters()
		circuit = rtl.MakeSystolicBuilder().Build("Array")
		results = &scoredResults{}
	})

	AfterEach(func() {
		simulator.Stop()
	})

	It("should multiply a 2x2 example after a reset", func() {
		bench := MakeBenchBuilder().
			WithOperandGen(cycle(2, 3, 1, 2, 1, 2, 4, 1)).
			Build("SystolicBench")
		h := harness(bench, 2)

		Expect(h.RunCycles(1 + 1 + rtl.StatesPerN*2 + 1)).To(Succeed())

		Expect(results.c).To(Equal([]golden.Matrix{
			{{0, 0}, {0, 0}},
			{{14, 7}, {9, 4}},
		}))
	})

	It("should pass random products", func() {
		params.N = 3
		circuit = rtl.MakeSystolicBuilder().WithN(3).Build("Array")
		bench := MakeBenchBuilder().WithParameters(params).Build("SystolicBench")
		h := harness(bench, 20)

		Expect(h.RunCycles(20*(rtl.StatesPerN*3+1) + 2)).To(Succeed())
		h.Stop()

		report := h.Report()
		Expect(report.OK()).To(BeTrue())
		Expect(report.Ops[tb.OpReset]).To(Equal(10))
		Expect(report.Ops[tb.OpCompute]).To(BeNumerically(">=", 10))
		Expect(report.PendingInputs).To(BeZero())
	})

	It("should pass back-to-back products without resets", func() {
		bench := MakeBenchBuilder().
			WithResetPolicy(tb.FirstOnly()).
			Build("SystolicBench")
		h := harness(bench, 6)

		Expect(h.RunCycles(2 + 1 + 5*rtl.StatesPerN*2)).To(Succeed())
		Expect(h.Report().Scored).To(Equal(6))
	})

	It("should reject operands that do not fit before driving", func() {
		bench := MakeBenchBuilder().
			WithOperandGen(valgen.MakeConstGen(256)).
			Build("SystolicBench")
		h := harness(bench, 2)

		err := h.RunCycles(4)

		var cfgErr *config.Error
		Expect(errors.As(err, &cfgErr)).To(BeTrue())
		Expect(cfgErr.Field).To(Equal("op_width"))
		Expect(h.Report().Generated).To(BeZero())
		Expect(h.Report().Driven).To(BeZero())
	})

	It("should catch a wrong result", func() {
		circuit = rtl.MakeSystolicBuilder().
			WithFault(func(cycle, value uint64) uint64 {
				if value == 9 {
					return 10
				}

				return value
			}).
			Build("Array")
		bench := MakeBenchBuilder().
			WithOperandGen(cycle(2, 3, 1, 2, 1, 2, 4, 1)).
			Build("SystolicBench")
		h := harness(bench, 2)

		err := h.RunCycles(10)

		var mismatch *tb.MismatchError
		Expect(errors.As(err, &mismatch)).To(BeTrue())
		Expect(mismatch.Seq).To(Equal(uint64(1)))
		Expect(mismatch.Expected).To(Equal("[[14 7] [9 4]]"))
		Expect(mismatch.Actual).To(Equal("[[14 7] [10 4]]"))
	})

	It("should not score products of an array that was never reset", func() {
		bench := MakeBenchBuilder().
			WithResetPolicy(func(int) bool { return false }).
			Build("SystolicBench")
		h := harness(bench, 2)

		err := h.RunCycles(10)

		Expect(tb.KindOf(err)).To(Equal(tb.KindUnresolved))
	})
})
