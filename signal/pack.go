package signal

import (
	"math/big"

	"github.com/pkg/errors"
)

// PackArray packs a flattened row-major array into one vector. Element i
// occupies bits [i*width, (i+1)*width), element 0 least significant.
func PackArray(values []uint64, width int) (Vector, error) {
	if len(values) == 0 {
		return Vector{}, errors.New("cannot pack an empty array")
	}

	packed := new(big.Int)
	for i, value := range values {
		x := new(big.Int).SetUint64(value)
		if x.BitLen() > width {
			return Vector{}, errors.Wrapf(ErrValueTooWide,
				"element %d: %d needs %d bits, limit is %d",
				i, value, x.BitLen(), width)
		}

		packed.Or(packed, x.Lsh(x, uint(i*width)))
	}

	return FromBig(packed, len(values)*width)
}

// UnpackArray is the inverse of PackArray. It returns false when any bit of
// the vector is unknown.
func UnpackArray(v Vector, count, width int) ([]uint64, bool) {
	if count*width > v.Width() {
		panic("vector too narrow for the requested array")
	}

	if width > 64 {
		panic("element width above 64 bits")
	}

	if !v.IsResolvable() {
		return nil, false
	}

	values := make([]uint64, count)
	for i := 0; i < count; i++ {
		x, _ := v.Slice(i*width, width).Uint64()
		values[i] = x
	}

	return values, true
}
