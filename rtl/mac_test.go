package rtl

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/systolictb/signal"
)

var _ = Describe("MacUnit", func() {
	It("should accumulate and wrap", func() {
		u := NewMacUnit(8)

		u.Step(10, 10, false)
		Expect(u.Acc()).To(Equal(uint64(100)))

		u.Step(10, 20, false)
		Expect(u.Acc()).To(Equal(uint64(300 % 256)))

		u.Step(2, 3, true)
		Expect(u.Acc()).To(Equal(uint64(6)))

		u.Reset()
		Expect(u.Acc()).To(BeZero())
	})

	It("should keep 64-bit accumulators exact", func() {
		u := NewMacUnit(64)

		u.Step(1<<32-1, 1<<32-1, false)
		Expect(u.Acc()).To(Equal(uint64(1<<32-1) * uint64(1<<32-1)))
	})
})

var _ = Describe("Mac", func() {
	var (
		m *Mac
		b bank
	)

	drive := func(reset, ena bool, x, y uint64) {
		b["reset"] = signal.Bool(reset)
		b["ena"] = signal.Bool(ena)
		b["a"] = signal.MustUint64(x, 8)
		b["b"] = signal.MustUint64(y, 8)
		m.Tick(b)
	}

	BeforeEach(func() {
		m = MakeMacBuilder().Build("MAC")
		b = newBank(m)
	})

	It("should stay unknown until reset", func() {
		m.Tick(b)
		Expect(b["c"].IsResolvable()).To(BeFalse())

		drive(false, true, 3, 2)
		Expect(b["c"].IsResolvable()).To(BeFalse())
	})

	It("should multiply and accumulate", func() {
		drive(true, false, 0, 0)
		Expect(b.value("c")).To(BeZero())

		for _, want := range []uint64{6, 12, 18, 24} {
			drive(false, true, 3, 2)
			Expect(b.value("c")).To(Equal(want))
		}
	})

	It("should hold while disabled", func() {
		drive(true, false, 0, 0)
		drive(false, true, 7, 7)
		drive(false, false, 100, 100)

		Expect(b.value("c")).To(Equal(uint64(49)))
	})

	It("should give reset priority over enable", func() {
		drive(true, false, 0, 0)
		drive(false, true, 7, 7)
		drive(true, true, 7, 7)

		Expect(b.value("c")).To(BeZero())
	})

	It("should propagate unknown operands", func() {
		drive(true, false, 0, 0)
		b["ena"] = signal.Bool(true)
		b["a"] = signal.MustUint64(3, 8).WithUnknownBit(0)
		b["b"] = signal.MustUint64(2, 8)
		m.Tick(b)

		Expect(b["c"].IsResolvable()).To(BeFalse())
	})

	It("should apply the fault when publishing", func() {
		m = MakeMacBuilder().
			WithFault(func(cycle, value uint64) uint64 { return value + 1 }).
			Build("MAC")
		b = newBank(m)

		drive(true, false, 0, 0)
		Expect(b.value("c")).To(Equal(uint64(1)))
	})

	It("should declare the configured widths", func() {
		m = MakeMacBuilder().WithOpWidth(4).WithAccWidth(16).Build("MAC")

		widths := map[string]int{}
		for _, d := range m.Decls() {
			widths[d.Name] = d.Width
		}

		Expect(widths).To(Equal(map[string]int{
			"reset": 1, "ena": 1, "a": 4, "b": 4, "c": 16,
		}))
	})

	It("should panic on invalid widths", func() {
		Expect(func() { MakeMacBuilder().WithOpWidth(0).Build("MAC") }).
			To(Panic())
		Expect(func() { MakeMacBuilder().WithAccWidth(65).Build("MAC") }).
			To(Panic())
	})
})
