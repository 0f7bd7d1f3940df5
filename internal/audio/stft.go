package audio

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// hann returns a periodic Hann window of length n.
func hann(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n)))
	}
	return w
}

// reflectPad mirrors pad samples of x onto both ends.
func reflectPad(x []float64, pad int) []float64 {
	if pad <= 0 {
		return x
	}
	if pad >= len(x) {
		pad = len(x) - 1
		if pad < 0 {
			return x
		}
	}
	out := make([]float64, 0, len(x)+2*pad)
	for i := pad; i > 0; i-- {
		out = append(out, x[i])
	}
	out = append(out, x...)
	for i := len(x) - 2; i >= len(x)-1-pad; i-- {
		out = append(out, x[i])
	}
	return out
}

// stftPower computes centered short-time power spectra: one row per frame,
// nfft/2+1 bins each. Frames are aligned the way a centered torch-style STFT
// aligns them (reflect padding of nfft/2 on both ends).
func stftPower(x []float64, nfft, hop int, window []float64, fft *fourier.FFT) [][]float64 {
	padded := reflectPad(x, nfft/2)
	if len(padded) < nfft {
		return nil
	}
	frames := 1 + (len(padded)-nfft)/hop
	spec := make([][]float64, frames)
	buf := make([]float64, nfft)
	for i := 0; i < frames; i++ {
		start := i * hop
		for k := 0; k < nfft; k++ {
			buf[k] = padded[start+k] * window[k]
		}
		coeffs := fft.Coefficients(nil, buf)
		row := make([]float64, len(coeffs))
		for f, c := range coeffs {
			mag := cmplx.Abs(c)
			row[f] = mag * mag
		}
		spec[i] = row
	}
	return spec
}
