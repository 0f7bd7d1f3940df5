package audio

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Whisper-style spectrogram parameters at 16 kHz.
const (
	melFFTSize = 400
	melHopSize = 160
)

// Features is the fixed-rank feature tensor for one recording: a log-mel
// spectrogram with Mels rows and Frames columns, flattened row-major. The
// tokenizer treats it as shape [1][Mels][Frames].
type Features struct {
	Data   []float32
	Mels   int
	Frames int
}

// LogMel computes a log-mel spectrogram with the dynamic-range conditioning
// the tokenizer was trained against: log10 clamped at 1e-10, floored eight
// decades below the peak, then mapped through (x+4)/4.
func LogMel(samples []float32, sampleRate, nMels int) Features {
	x := make([]float64, len(samples))
	for i, s := range samples {
		x[i] = float64(s)
	}

	window := hann(melFFTSize)
	fft := fourier.NewFFT(melFFTSize)
	power := stftPower(x, melFFTSize, melHopSize, window, fft)
	if len(power) > 1 {
		// the final frame covers only padding
		power = power[:len(power)-1]
	}
	if len(power) == 0 {
		return Features{Mels: nMels}
	}

	filters := melFilterbank(nMels, melFFTSize, sampleRate)
	frames := len(power)

	spec := make([]float64, nMels*frames)
	peak := math.Inf(-1)
	for m, filter := range filters {
		for t, row := range power {
			sum := 0.0
			for f, w := range filter {
				if w != 0 {
					sum += w * row[f]
				}
			}
			v := math.Log10(math.Max(sum, 1e-10))
			spec[m*frames+t] = v
			if v > peak {
				peak = v
			}
		}
	}

	floor := peak - 8
	data := make([]float32, len(spec))
	for i, v := range spec {
		if v < floor {
			v = floor
		}
		data[i] = float32((v + 4) / 4)
	}
	return Features{Data: data, Mels: nMels, Frames: frames}
}

// melFilterbank builds Slaney-normalized triangular mel filters over
// nfft/2+1 linear frequency bins.
func melFilterbank(nMels, nfft, sampleRate int) [][]float64 {
	bins := nfft/2 + 1
	fftFreqs := make([]float64, bins)
	for i := range fftFreqs {
		fftFreqs[i] = float64(i) * float64(sampleRate) / float64(nfft)
	}

	minMel := hzToMel(0)
	maxMel := hzToMel(float64(sampleRate) / 2)
	melPoints := make([]float64, nMels+2)
	for i := range melPoints {
		mel := minMel + (maxMel-minMel)*float64(i)/float64(nMels+1)
		melPoints[i] = melToHz(mel)
	}

	filters := make([][]float64, nMels)
	for m := 0; m < nMels; m++ {
		lower, center, upper := melPoints[m], melPoints[m+1], melPoints[m+2]
		filter := make([]float64, bins)
		norm := 2.0 / (upper - lower)
		for f, freq := range fftFreqs {
			var w float64
			switch {
			case freq <= lower || freq >= upper:
				w = 0
			case freq <= center:
				w = (freq - lower) / (center - lower)
			default:
				w = (upper - freq) / (upper - center)
			}
			filter[f] = w * norm
		}
		filters[m] = filter
	}
	return filters
}

// hzToMel and melToHz implement the Slaney mel scale: linear below 1 kHz,
// logarithmic above.
func hzToMel(hz float64) float64 {
	const (
		breakHz  = 1000.0
		breakMel = 15.0
	)
	if hz < breakHz {
		return hz * 3 / 200
	}
	return breakMel + math.Log(hz/breakHz)/(math.Log(6.4)/27)
}

func melToHz(mel float64) float64 {
	const (
		breakHz  = 1000.0
		breakMel = 15.0
	)
	if mel < breakMel {
		return mel * 200 / 3
	}
	return breakHz * math.Exp((mel-breakMel)*(math.Log(6.4)/27))
}
