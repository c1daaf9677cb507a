package tb

// A ResetPolicy decides whether the i-th generated input resets the circuit.
type ResetPolicy func(i int) bool

// EveryK resets on inputs 0, k, 2k, ...
func EveryK(k int) ResetPolicy {
	if k < 1 {
		panic("reset period must be at least 1")
	}

	return func(i int) bool {
		return i%k == 0
	}
}

// Alternating resets on every even input.
func Alternating() ResetPolicy {
	return EveryK(2)
}

// FirstOnly resets on the first input only.
func FirstOnly() ResetPolicy {
	return func(i int) bool {
		return i == 0
	}
}
