package rtl

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/systolictb/signal"
)

var _ = Describe("SystolicMultiplier", func() {
	var (
		m *SystolicMultiplier
		b bank
	)

	reset := func() {
		b["reset"] = signal.Bool(true)
		m.Tick(b)
		b["reset"] = signal.Bool(false)
	}

	multiply := func(a, x []uint64) {
		b.pack("a", a, 8)
		b.pack("b", x, 8)
		for i := 0; i < StatesPerN*m.n; i++ {
			m.Tick(b)
		}
	}

	BeforeEach(func() {
		m = MakeSystolicBuilder().Build("Array")
		b = newBank(m)
	})

	It("should publish zeros on reset", func() {
		reset()

		Expect(b.array("c", 4, 32)).To(Equal([]uint64{0, 0, 0, 0}))
		Expect(b.array(AccumulatorSignal, 4, 32)).
			To(Equal([]uint64{0, 0, 0, 0}))
	})

	It("should multiply 2x2 matrices", func() {
		reset()
		multiply([]uint64{2, 3, 1, 2}, []uint64{1, 2, 4, 1})

		Expect(b.array("c", 4, 32)).To(Equal([]uint64{14, 7, 9, 4}))
	})

	It("should start every product from cleared accumulators", func() {
		reset()
		multiply([]uint64{2, 3, 1, 2}, []uint64{1, 2, 4, 1})
		multiply([]uint64{1, 0, 0, 1}, []uint64{5, 6, 7, 8})

		Expect(b.array("c", 4, 32)).To(Equal([]uint64{5, 6, 7, 8}))
	})

	It("should keep the previous result while a product runs", func() {
		reset()
		multiply([]uint64{2, 3, 1, 2}, []uint64{1, 2, 4, 1})

		b.pack("a", []uint64{0, 0, 0, 0}, 8)
		m.Tick(b)

		Expect(b.array("c", 4, 32)).To(Equal([]uint64{14, 7, 9, 4}))
	})

	It("should multiply 3x3 matrices", func() {
		m = MakeSystolicBuilder().WithN(3).Build("Array")
		b = newBank(m)

		reset()
		multiply(
			[]uint64{1, 2, 3, 4, 5, 6, 7, 8, 9},
			[]uint64{9, 8, 7, 6, 5, 4, 3, 2, 1},
		)

		Expect(b.array("c", 9, 32)).To(Equal([]uint64{
			30, 24, 18,
			84, 69, 54,
			138, 114, 90,
		}))
	})

	It("should go unknown on unknown operands", func() {
		reset()

		v, _ := signal.PackArray([]uint64{2, 3, 1, 2}, 8)
		b["a"] = v.WithUnknownBit(9)
		b.pack("b", []uint64{1, 2, 4, 1}, 8)
		m.Tick(b)

		Expect(b["c"].IsResolvable()).To(BeFalse())
		Expect(b[AccumulatorSignal].IsResolvable()).To(BeFalse())
	})
})
