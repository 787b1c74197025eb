package synth

import (
	"fmt"
	"math"
	"math/cmplx"
)

// FFT is a forward radix-2 transform with precomputed tables, used by the
// engine's spectrum diagnostic.
type FFT struct {
	bitReverseTable []int
	wTable          []complex128
	scratch         []complex128
}

// NewFFT ...
func NewFFT(length int) *FFT {
	return &FFT{
		bitReverseTable: makeBitReverseTable(length),
		wTable:          makeWTable(length),
		scratch:         make([]complex128, length),
	}
}

func makeBitReverseTable(n int) []int {
	array := make([]int, n)
	for i := 0; i < n; i++ {
		array[i] = bitReverse(i, n)
	}
	return array
}

func bitReverse(k, n int) int {
	m := 0
	for ; n > 1; n = n >> 1 {
		m = m<<1 + k&1
		k = k >> 1
	}
	return m
}

func makeWTable(n int) []complex128 {
	array := make([]complex128, n)
	w := -2.0 * math.Pi / float64(n)
	for i := 0; i < n; i++ {
		array[i] = cmplx.Exp(complex(0, w*float64(i)))
	}
	return array
}

// Calc transforms x in place. It panics if len(x) differs from the length
// the FFT was built for.
func (fft *FFT) Calc(x []complex128) {
	n := len(x)
	if n != len(fft.bitReverseTable) {
		panic(fmt.Sprintf("synth: FFT input length %d, want %d", n, len(fft.bitReverseTable)))
	}
	for i := 0; i < n; i++ {
		rev := fft.bitReverseTable[i]
		if i < rev {
			x[i], x[rev] = x[rev], x[i]
		}
	}
	for m := 1; m < n; m = m << 1 {
		step := m << 1
		for k := 0; k < m; k++ {
			w := fft.wTable[n/step*k]
			for i := k; i < n; i += step {
				j := i + m
				tmp := x[j] * w
				x[j] = x[i] - tmp
				x[i] = x[i] + tmp
			}
		}
	}
}

// CalcAbs replaces x with the magnitudes of its transform.
func (fft *FFT) CalcAbs(x []float64) {
	n := len(x)
	cx := fft.scratch[:n]
	for i := 0; i < n; i++ {
		cx[i] = complex(x[i], 0)
	}
	fft.Calc(cx)
	for i := 0; i < n; i++ {
		x[i] = cmplx.Abs(cx[i])
	}
}
