package analysis

import (
	"math"
	"testing"
)

func TestPadPowerOfTwo(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{1, 1},
		{2, 2},
		{3, 4},
		{500, 512},
	}

	for _, tt := range tests {
		padded := PadPowerOfTwo(make([]float64, tt.in))
		if len(padded) != tt.want {
			t.Errorf("pad(%d) length = %d, want %d", tt.in, len(padded), tt.want)
		}
	}
}

func TestPowerSpectrumPureTone(t *testing.T) {
	const n = 256
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * 8 * float64(i) / n) // bin 8
	}

	ps := PowerSpectrum(data)

	maxIdx := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > ps[maxIdx] {
			maxIdx = i
		}
	}
	if maxIdx != 8 {
		t.Errorf("peak at bin %d, want 8", maxIdx)
	}
}

func TestDominantFrequency(t *testing.T) {
	const (
		dt   = 0.01
		freq = 2.0
		n    = 512
	)

	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * freq * float64(i) * dt)
	}

	got := DominantFrequency(data, dt)
	resolution := 1.0 / (float64(n) * dt)
	if math.Abs(got-freq) > resolution {
		t.Errorf("dominant frequency = %v, want %v within %v", got, freq, resolution)
	}
}

func TestDominantFrequencyDegenerate(t *testing.T) {
	if got := DominantFrequency([]float64{1, 2}, 0.01); got != 0 {
		t.Errorf("short series: got %v, want 0", got)
	}
	if got := DominantFrequency(make([]float64, 64), 0); got != 0 {
		t.Errorf("zero dt: got %v, want 0", got)
	}
}
