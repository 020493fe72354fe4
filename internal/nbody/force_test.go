package nbody

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestNewEvaluatorValidation(t *testing.T) {
	tests := []struct {
		name      string
		mass      float64
		g         float64
		softening float64
		wantErr   error
	}{
		{"valid", 1.0, 1.0, 0.1, nil},
		{"zero mass ok", 0.0, 1.0, 0.1, nil},
		{"zero g ok", 1.0, 0.0, 0.1, nil},
		{"negative mass", -1.0, 1.0, 0.1, ErrNegativeConstant},
		{"negative g", 1.0, -1.0, 0.1, ErrNegativeConstant},
		{"zero softening", 1.0, 1.0, 0.0, ErrSoftening},
		{"negative softening", 1.0, 1.0, -0.1, ErrSoftening},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEvaluator(tt.mass, tt.g, tt.softening, 1)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewEvaluator() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEvaluatorNewtonThirdLaw(t *testing.T) {
	eval, err := NewEvaluator(2.0, 1.0, 0.1, 1)
	if err != nil {
		t.Fatal(err)
	}

	pos := []Vec3{{X: -0.3, Y: 0.7, Z: 0.1}, {X: 0.9, Y: -0.2, Z: 0.5}}
	acc := make([]Vec3, 2)
	eval.Evaluate(pos, acc)

	if acc[0].X != -acc[1].X || acc[0].Y != -acc[1].Y || acc[0].Z != -acc[1].Z {
		t.Errorf("accelerations not exactly antisymmetric: %v vs %v", acc[0], acc[1])
	}
	if acc[0].Norm() == 0 {
		t.Error("expected non-zero acceleration for separated bodies")
	}
}

func TestEvaluatorCoincidentBodies(t *testing.T) {
	// Exactly coincident bodies hit the d² == 0 self-exclusion: no force,
	// but the pair still contributes -G·m²/ε to the potential.
	eval, err := NewEvaluator(1.0, 1.0, 0.5, 1)
	if err != nil {
		t.Fatal(err)
	}

	p := Vec3{X: 1.0, Y: 2.0, Z: 3.0}
	pos := []Vec3{p, p}
	acc := make([]Vec3, 2)
	pe := eval.Evaluate(pos, acc)

	for i, a := range acc {
		if a != (Vec3{}) {
			t.Errorf("body %d: expected zero acceleration, got %v", i, a)
		}
	}

	want := -1.0 / 0.5
	if math.Abs(pe-want) > 1e-15 {
		t.Errorf("potential = %v, want %v", pe, want)
	}
	if math.IsNaN(pe) || math.IsInf(pe, 0) {
		t.Errorf("potential not finite: %v", pe)
	}
}

func TestEvaluatorSingleBody(t *testing.T) {
	eval, err := NewEvaluator(1.0, 1.0, 0.1, 1)
	if err != nil {
		t.Fatal(err)
	}

	pos := []Vec3{{X: 4.0}}
	acc := make([]Vec3, 1)
	pe := eval.Evaluate(pos, acc)

	if acc[0] != (Vec3{}) {
		t.Errorf("expected zero acceleration, got %v", acc[0])
	}
	if pe != 0 {
		t.Errorf("expected zero potential, got %v", pe)
	}
}

func TestEvaluatorPotentialPairing(t *testing.T) {
	// Potential accumulates once per unordered pair with the linear
	// softening offset r + ε, not the squared form of the force kernel.
	const (
		m   = 2.0
		g   = 1.5
		eps = 0.1
	)

	eval, err := NewEvaluator(m, g, eps, 1)
	if err != nil {
		t.Fatal(err)
	}

	pos := []Vec3{{}, {X: 1}, {X: 0.5, Y: 2}}
	acc := make([]Vec3, 3)
	pe := eval.Evaluate(pos, acc)

	want := 0.0
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			r := pos[j].Sub(pos[i]).Norm()
			want -= g * m * m / (r + eps)
		}
	}

	if math.Abs(pe-want) > 1e-12 {
		t.Errorf("potential = %v, want %v", pe, want)
	}
}

func TestEvaluatorAccelerationKernel(t *testing.T) {
	// Two bodies on the x-axis: the softened kernel has a closed form.
	const (
		m   = 3.0
		g   = 2.0
		eps = 0.1
		d   = 1.5
	)

	eval, err := NewEvaluator(m, g, eps, 1)
	if err != nil {
		t.Fatal(err)
	}

	pos := []Vec3{{}, {X: d}}
	acc := make([]Vec3, 2)
	eval.Evaluate(pos, acc)

	want := g * m * d / math.Pow(d*d+eps*eps, 1.5)
	if math.Abs(acc[0].X-want) > 1e-12 {
		t.Errorf("acc[0].X = %v, want %v", acc[0].X, want)
	}
	if acc[0].Y != 0 || acc[0].Z != 0 {
		t.Errorf("expected acceleration along x only, got %v", acc[0])
	}
}

func TestEvaluatorParallelMatchesSerial(t *testing.T) {
	const n = 120

	rng := rand.New(rand.NewSource(99))
	pos := make([]Vec3, n)
	for i := range pos {
		pos[i] = Vec3{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()}
	}

	serial, err := NewEvaluator(0.2, 1.0, 0.1, 1)
	if err != nil {
		t.Fatal(err)
	}
	parallel, err := NewEvaluator(0.2, 1.0, 0.1, 4)
	if err != nil {
		t.Fatal(err)
	}

	accSerial := make([]Vec3, n)
	accParallel := make([]Vec3, n)
	peSerial := serial.Evaluate(pos, accSerial)
	peParallel := parallel.Evaluate(pos, accParallel)

	// Per-body sums are chunk-local and identical; only the potential
	// combine order differs, within rounding.
	for i := range accSerial {
		if accSerial[i] != accParallel[i] {
			t.Fatalf("body %d: serial %v != parallel %v", i, accSerial[i], accParallel[i])
		}
	}
	if math.Abs(peSerial-peParallel) > 1e-9*math.Abs(peSerial) {
		t.Errorf("potential mismatch: serial %v, parallel %v", peSerial, peParallel)
	}
}

func BenchmarkEvaluate64(b *testing.B)  { benchmarkEvaluate(b, 64, 1) }
func BenchmarkEvaluate256(b *testing.B) { benchmarkEvaluate(b, 256, 1) }
func BenchmarkEvaluate256Parallel(b *testing.B) {
	benchmarkEvaluate(b, 256, 4)
}

func benchmarkEvaluate(b *testing.B, n, workers int) {
	rng := rand.New(rand.NewSource(1))
	pos := make([]Vec3, n)
	for i := range pos {
		pos[i] = Vec3{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()}
	}

	eval, err := NewEvaluator(0.2, 1.0, 0.1, workers)
	if err != nil {
		b.Fatal(err)
	}
	acc := make([]Vec3, n)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		eval.Evaluate(pos, acc)
	}
}
