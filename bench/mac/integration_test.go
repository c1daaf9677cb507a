package mac

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/systolictb/config"
	"github.com/sarchlab/systolictb/rtl"
	"github.com/sarchlab/systolictb/tb"
	"github.com/sarchlab/systolictb/util/valgen"
	"github.com/sarchlab/systolictb/vsim"
)

// scoredOutputs records the accumulator after every scored transaction.
type scoredOutputs struct {
	c []uint64
}

func (r *scoredOutputs) Func(ctx sim.HookCtx) {
	if ctx.Pos != tb.HookPosTransactionScored {
		return
	}

	t := ctx.Item.(tb.Transaction[Snapshot])
	c, _ := t.After.C.Get()
	r.c = append(r.c, c)
}

// alternating returns a, b, a, b, ...
func alternating(a, b uint64) valgen.Gen {
	next := a
	return func(*rand.Rand) uint64 {
		v := next
		if next == a {
			next = b
		} else {
			next = a
		}

		return v
	}
}

var _ = Describe("MAC verification", func() {
	var (
		circuit   *rtl.Mac
		simulator *vsim.Simulator
		outputs   *scoredOutputs
	)

	harness := func(bench *Bench, nChecks int) *tb.Harness[Snapshot, Input] {
		simulator = vsim.Builder{}.WithCircuit(circuit).Build("Sim")

		h, err := tb.MakeHarnessBuilder[Snapshot, Input]().
			WithBench(bench).
			WithSimulator(simulator).
			WithChecks(nChecks).
			WithSeed(11).
			WithHook(outputs).
			Build("Harness")
		Expect(err).NotTo(HaveOccurred())

		return h
	}

	BeforeEach(func() {
		circuit = rtl.MakeMacBuilder().Build("MAC")
		outputs = &scoredOutputs{}
	})

	AfterEach(func() {
		simulator.Stop()
	})

	It("should accumulate 3*2 four times after a reset", func() {
		bench := MakeBenchBuilder().
			WithResetPolicy(tb.FirstOnly()).
			WithOperandGen(alternating(3, 2)).
			WithEnableGen(valgen.MakeConstGen(1)).
			Build("MACBench")
		h := harness(bench, 5)

		Expect(h.RunCycles(7)).To(Succeed())

		Expect(outputs.c).To(Equal([]uint64{0, 6, 12, 18, 24}))
	})

	It("should pass random inputs", func() {
		h := harness(MakeBenchBuilder().Build("MACBench"), 100)

		Expect(h.RunCycles(102)).To(Succeed())
		h.Stop()

		report := h.Report()
		Expect(report.OK()).To(BeTrue())
		Expect(report.Driven).To(Equal(100))
		Expect(report.Scored).To(BeNumerically(">=", 100))
		Expect(report.Ops[tb.OpReset]).To(BeNumerically(">=", 100/DefaultResetPeriod))
		Expect(report.Ops[tb.OpHold]).To(BeNumerically(">", 0))
		Expect(report.Ops[tb.OpCompute]).To(BeNumerically(">", 0))
	})

	It("should pass with wrapping accumulators", func() {
		p := config.Parameters{N: 1, OpWidth: 8, AccWidth: 16}
		circuit = rtl.MakeMacBuilder().WithAccWidth(16).Build("MAC")
		bench := MakeBenchBuilder().
			WithParameters(p).
			WithResetPolicy(tb.FirstOnly()).
			WithOperandGen(valgen.MakeConstGen(255)).
			WithEnableGen(valgen.MakeConstGen(1)).
			Build("MACBench")
		h := harness(bench, 10)

		Expect(h.RunCycles(12)).To(Succeed())
		Expect(outputs.c[2]).To(Equal(uint64(2 * 65025 % 65536)))
	})

	It("should catch a wrong accumulator", func() {
		circuit = rtl.MakeMacBuilder().
			WithFault(func(cycle, value uint64) uint64 {
				if value == 12 {
					return 13
				}

				return value
			}).
			Build("MAC")
		bench := MakeBenchBuilder().
			WithResetPolicy(tb.FirstOnly()).
			WithOperandGen(alternating(3, 2)).
			WithEnableGen(valgen.MakeConstGen(1)).
			Build("MACBench")
		h := harness(bench, 5)

		err := h.RunCycles(7)

		var mismatch *tb.MismatchError
		Expect(errors.As(err, &mismatch)).To(BeTrue())
		Expect(mismatch.Seq).To(Equal(uint64(2)))
		Expect(mismatch.Op).To(Equal(tb.OpCompute))
		Expect(mismatch.Expected).To(Equal("12"))
		Expect(mismatch.Actual).To(Equal("13"))
		Expect(outputs.c).To(Equal([]uint64{0, 6}))
	})

	It("should refuse to score before the accumulator is resolved", func() {
		bench := MakeBenchBuilder().
			WithResetPolicy(func(int) bool { return false }).
			WithEnableGen(valgen.MakeConstGen(1)).
			Build("MACBench")
		h := harness(bench, 3)

		err := h.RunCycles(5)

		var unresolved *tb.UnresolvedError
		Expect(errors.As(err, &unresolved)).To(BeTrue())
		Expect(unresolved.Seq).To(BeZero())
		Expect(unresolved.Signals).To(ContainElement("c"))
		Expect(outputs.c).To(BeEmpty())
	})
})
