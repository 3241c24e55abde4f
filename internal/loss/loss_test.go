package loss

import (
	"math"
	"testing"

	"github.com/zredjet/bugcurvefit/internal/model"
	"github.com/zredjet/bugcurvefit/internal/series"
)

// noiseless builds a series sampled exactly from the exponential curve with
// the given parameters, without rounding.
func noiseless(t *testing.T, a, b float64) *series.Series {
	t.Helper()
	times := make([]float64, 8)
	counts := make([]float64, 8)
	for i := range times {
		tt := float64(i + 1)
		times[i] = tt
		counts[i] = a * (1 - math.Exp(-b*tt))
	}
	s, err := series.New(times, counts)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func countSeries(t *testing.T) *series.Series {
	t.Helper()
	s, err := series.New(
		[]float64{1, 2, 3, 4, 5, 6},
		[]float64{9, 16, 22, 26, 29, 31},
	)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestByName(t *testing.T) {
	cases := []struct {
		arg  string
		want string
	}{
		{"sse", "sse"},
		{"", "sse"},
		{"mle", "mle"},
	}
	for _, c := range cases {
		l, err := ByName(c.arg)
		if err != nil {
			t.Fatalf("ByName(%q): %v", c.arg, err)
		}
		if l.Name() != c.want {
			t.Errorf("ByName(%q) = %s, want %s", c.arg, l.Name(), c.want)
		}
	}
	if _, err := ByName("huber"); err == nil {
		t.Error("expected error for unknown loss")
	}
}

func TestSSEZeroAtGeneratingParams(t *testing.T) {
	d := noiseless(t, 40, 0.25)
	got := SSE{}.Eval(model.GoelOkumoto{}, d, []float64{40, 0.25})
	if got > 1e-18 {
		t.Errorf("SSE at the generating parameters = %g, want ~0", got)
	}

	off := SSE{}.Eval(model.GoelOkumoto{}, d, []float64{45, 0.25})
	if off <= got {
		t.Error("perturbed parameters should score worse")
	}
}

func TestSSESupportsAnySeries(t *testing.T) {
	d := noiseless(t, 40, 0.25) // fractional counts
	if !(SSE{}).Supports(d) {
		t.Error("least squares should accept any series")
	}
}

func TestSSEAuxVarianceNormalization(t *testing.T) {
	d := countSeries(t)
	m := model.DetectionCorrection{Base: model.GoelOkumoto{}}
	p := []float64{40, 0.4, 1}

	aux := make([]float64, d.Len())
	for i, tt := range d.T {
		aux[i] = m.EvalAux(0, tt, p) + 1
	}
	d.Aux = []series.Aux{{Name: "repaired", Kind: series.AuxCounts, Y: aux}}

	primary := SSE{}.Eval(model.GoelOkumoto{}, d, p[:2])
	var raw float64
	for i, tt := range d.T {
		r := aux[i] - m.EvalAux(0, tt, p)
		raw += r * r
	}
	want := primary + raw*variance(d.Y)/variance(aux)

	if got := (SSE{}).Eval(m, d, p); math.Abs(got-want) > 1e-9*want {
		t.Errorf("combined loss = %g, want variance-weighted %g", got, want)
	}
}

func variance(xs []float64) float64 {
	var mean float64
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return ss / float64(len(xs)-1)
}

func TestMLESupports(t *testing.T) {
	if !(MLE{}).Supports(countSeries(t)) {
		t.Error("integer increments should satisfy the Poisson assumption")
	}
	if (MLE{}).Supports(noiseless(t, 40, 0.25)) {
		t.Error("fractional increments should fail the Poisson assumption")
	}
}

func TestMLEPrefersGeneratingParams(t *testing.T) {
	// Increments of countSeries are 9,7,6,4,3,2 — close to the exponential
	// curve a=40, b=0.25. The likelihood at those parameters must beat
	// clearly wrong ones.
	d := countSeries(t)
	m := model.GoelOkumoto{}

	good := MLE{}.LogLikelihood(m, d, []float64{40, 0.25})
	worse := MLE{}.LogLikelihood(m, d, []float64{40, 1.5})
	if good <= worse {
		t.Errorf("lnL(good) = %g should exceed lnL(bad) = %g", good, worse)
	}

	if (MLE{}).Eval(m, d, []float64{40, 0.25}) != -good {
		t.Error("Eval must be the negative log-likelihood")
	}
}

func TestMLEHandlesZeroIntensity(t *testing.T) {
	// A flat model predicts zero increments everywhere; the intensity floor
	// must keep the likelihood finite.
	d := countSeries(t)
	ll := MLE{}.LogLikelihood(model.GoelOkumoto{}, d, []float64{40, 1e-300})
	if math.IsNaN(ll) || math.IsInf(ll, 0) {
		t.Errorf("log-likelihood not finite: %g", ll)
	}
}

func TestLnFactorial(t *testing.T) {
	cases := []struct {
		y    float64
		want float64
	}{
		{0, 0},
		{1, 0},
		{2, math.Log(2)},
		{5, math.Log(120)},
		{10, math.Log(3628800)},
	}
	for _, c := range cases {
		if got := lnFactorial(c.y); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("lnFactorial(%g) = %g, want %g", c.y, got, c.want)
		}
	}

	// Stirling branch must agree with direct summation to high relative
	// accuracy just past the cutoff.
	direct := 0.0
	for i := 2.0; i <= 25; i++ {
		direct += math.Log(i)
	}
	if got := lnFactorial(25); math.Abs(got-direct)/direct > 1e-6 {
		t.Errorf("lnFactorial(25) = %g, want %g", got, direct)
	}
}

func TestAIC(t *testing.T) {
	if got := AIC(-100, 3); got != 206 {
		t.Errorf("AIC = %g, want 206", got)
	}
}

func TestAICc(t *testing.T) {
	// n=10, k=2: correction term 2·2·3/7.
	want := AIC(-100, 2) + 12.0/7
	if got := AICc(-100, 2, 10); math.Abs(got-want) > 1e-12 {
		t.Errorf("AICc = %g, want %g", got, want)
	}
	if got := AICc(-100, 2, 10); got <= AIC(-100, 2) {
		t.Error("AICc must exceed AIC for finite samples")
	}
}

func TestAICcInvalidSentinel(t *testing.T) {
	for _, n := range []int{1, 2, 3} {
		if !math.IsNaN(AICc(-100, 2, n)) {
			t.Errorf("AICc with n=%d should be NaN", n)
		}
	}
	if math.IsNaN(AICc(-100, 2, 4)) {
		t.Error("AICc with n=k+2 should be defined")
	}
}

func TestGaussianLogLikPerfectFitFinite(t *testing.T) {
	ll := gaussianLogLik(0, 10)
	if math.IsInf(ll, 0) || math.IsNaN(ll) {
		t.Errorf("perfect fit should have finite likelihood, got %g", ll)
	}
	if gaussianLogLik(100, 10) >= ll {
		t.Error("worse fit should have lower likelihood")
	}
}
