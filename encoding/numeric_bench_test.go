package encoding

import (
	"testing"

	"github.com/arloliu/structmeta/endian"
)

var benchmarkSizes = []struct {
	name string
	size int
}{
	{"10_rows", 10},
	{"100_rows", 100},
	{"1000_rows", 1000},
	{"10000_rows", 10000},
}

func generateFloat32Values(n int) []float32 {
	values := make([]float32, n)
	for i := range values {
		values[i] = 3 + float32(i)*0.1
	}

	return values
}

func BenchmarkEncodeNumeric(b *testing.B) {
	engine := endian.GetLittleEndianEngine()
	for _, size := range benchmarkSizes {
		b.Run(size.name, func(b *testing.B) {
			values := generateFloat32Values(size.size)
			b.ReportAllocs()
			for b.Loop() {
				_ = EncodeNumeric(engine, values)
			}
		})
	}
}

func BenchmarkNumericEncoder_WriteSlice(b *testing.B) {
	engine := endian.GetLittleEndianEngine()
	for _, size := range benchmarkSizes {
		b.Run(size.name, func(b *testing.B) {
			values := generateFloat32Values(size.size)
			enc := NewNumericEncoder[float32](engine)
			defer enc.Finish()

			b.ReportAllocs()
			for b.Loop() {
				enc.Reset()
				enc.WriteSlice(values)
			}
		})
	}
}

func BenchmarkDecodeNumeric(b *testing.B) {
	engine := endian.GetLittleEndianEngine()
	for _, size := range benchmarkSizes {
		b.Run(size.name, func(b *testing.B) {
			data := EncodeNumeric(engine, generateFloat32Values(size.size))
			b.ReportAllocs()
			for b.Loop() {
				_, _ = DecodeNumeric[float32](engine, data)
			}
		})
	}
}

func BenchmarkPackBools(b *testing.B) {
	values := make([]bool, 4096)
	for i := range values {
		values[i] = i%3 == 0
	}

	b.ReportAllocs()
	for b.Loop() {
		_ = PackBools(values)
	}
}
