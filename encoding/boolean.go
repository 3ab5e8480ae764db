package encoding

import (
	"fmt"

	"github.com/arloliu/structmeta/errs"
)

// PackedBoolSize returns the number of bytes needed to bit-pack count booleans.
func PackedBoolSize(count int) int {
	return (count + 7) / 8
}

// PackBools bit-packs values LSB-first: value i is stored in byte i/8 at bit
// i%8. Unused high bits of the last byte are zero.
func PackBools(values []bool) []byte {
	out := make([]byte, PackedBoolSize(len(values)))
	for i, v := range values {
		if v {
			out[i>>3] |= 1 << (uint(i) & 7)
		}
	}

	return out
}

// BitAt returns the boolean stored at bit index i of a buffer written by PackBools.
func BitAt(data []byte, i int) bool {
	return data[i>>3]&(1<<(uint(i)&7)) != 0
}

// UnpackBools reads count booleans from data.
func UnpackBools(data []byte, count int) ([]bool, error) {
	if len(data) < PackedBoolSize(count) {
		return nil, fmt.Errorf("%w: %d bytes cannot hold %d booleans", errs.ErrCorruptBuffer, len(data), count)
	}

	out := make([]bool, count)
	for i := range out {
		out[i] = BitAt(data, i)
	}

	return out, nil
}
