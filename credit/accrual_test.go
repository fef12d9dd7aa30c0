package credit

import (
	"math"
	"testing"
)

// flatGrids returns an n-point uniform grid on [lo, hi] with cumulative hazard
// and discount rates for constant forward rates lambda and r.
func flatGrids(lo, hi, lambda, r float64, n int) (grid, ht, rt []float64) {
	grid = make([]float64, n)
	ht = make([]float64, n)
	rt = make([]float64, n)
	for i := 0; i < n; i++ {
		t := lo + (hi-lo)*float64(i)/float64(n-1)
		grid[i] = t
		ht[i] = lambda * t
		rt[i] = r * t
	}
	return grid, ht, rt
}

func TestEpsilonMatchesDefinition(t *testing.T) {
	t.Parallel()

	for _, x := range []float64{-2, -0.5, -1e-3, 1e-3, 0.5, 2} {
		want := math.Expm1(x) / x
		if got := epsilon(x); math.Abs(got-want) > 1e-14 {
			t.Fatalf("epsilon(%g) = %.16f, want %.16f", x, got, want)
		}
	}
	// Continuous across the series switch.
	if math.Abs(epsilon(1.0000001e-10)-epsilon(0.9999999e-10)) > 1e-12 {
		t.Fatal("epsilon discontinuous at branch threshold")
	}
	if got := epsilon(0); got != 1 {
		t.Fatalf("epsilon(0) = %g, want 1", got)
	}
}

func TestEpsilonPMatchesDefinition(t *testing.T) {
	t.Parallel()

	for _, x := range []float64{-2, -0.5, -1e-3, 1e-3, 0.5, 2} {
		want := (math.Expm1(x) - x) / (x * x)
		if got := epsilonP(x); math.Abs(got-want) > 1e-12 {
			t.Fatalf("epsilonP(%g) = %.16f, want %.16f", x, got, want)
		}
	}
	if got := epsilonP(0); got != 0.5 {
		t.Fatalf("epsilonP(0) = %g, want 0.5", got)
	}
}

func TestProtectionIntegralFlatClosedForm(t *testing.T) {
	t.Parallel()

	// Constant hazard lambda and rate r on [0, T]:
	// int_0^T lambda e^-(lambda+r)t dt = lambda/(lambda+r) (1 - e^-(lambda+r)T).
	lambda, r, T := 0.02, 0.05, 5.0
	want := lambda / (lambda + r) * (1 - math.Exp(-(lambda+r)*T))

	// The per-segment closed form telescopes exactly, so the grid does not
	// matter.
	for _, n := range []int{2, 7, 101} {
		_, ht, rt := flatGrids(0, T, lambda, r, n)
		if got := protectionIntegral(ht, rt, 1e-5); math.Abs(got-want) > 1e-13 {
			t.Fatalf("protectionIntegral (n=%d) = %.15f, want %.15f", n, got, want)
		}
	}
}

func TestProtectionIntegralTaylorBranchContinuity(t *testing.T) {
	t.Parallel()

	// Segment increments just inside the guard threshold: the Taylor branch and
	// the direct division must agree.
	lambda, r := 2e-7, 3e-7
	_, ht, rt := flatGrids(0, 4, lambda, r, 9)

	direct := protectionIntegral(ht, rt, 0) // always divide
	taylor := protectionIntegral(ht, rt, 1) // always expand
	if math.Abs(direct-taylor) > 1e-15 {
		t.Fatalf("branch mismatch: direct %.18f vs taylor %.18f", direct, taylor)
	}
}

func TestAccrualIntegralOGFixGridInvariance(t *testing.T) {
	t.Parallel()

	// The OG form is exact for piecewise-flat hazard and discount rates, so
	// refining the grid must not change the value.
	lambda, r := 0.03, 0.04
	start := 1.0

	gridCoarse, htCoarse, rtCoarse := flatGrids(1, 1.25, lambda, r, 2)
	gridFine, htFine, rtFine := flatGrids(1, 1.25, lambda, r, 500)

	coarse := accrualIntegral(OGFix, gridCoarse, htCoarse, rtCoarse, start, 1e-5)
	fine := accrualIntegral(OGFix, gridFine, htFine, rtFine, start, 1e-5)
	if math.Abs(coarse-fine) > 1e-12 {
		t.Fatalf("OGFix not grid invariant: coarse %.18f vs fine %.18f", coarse, fine)
	}
}

func TestAccrualIntegralVariantsAgreeAwayFromZero(t *testing.T) {
	t.Parallel()

	// Away from the guard region all three closed forms evaluate the same
	// segment integral; they may only differ in grouping noise.
	lambda, r := 0.03, 0.04
	grid, ht, rt := flatGrids(2, 2.25, lambda, r, 12)

	og := accrualIntegral(OGFix, grid, ht, rt, 2, 1e-5)
	for _, f := range []AccrualOnDefaultFormula{OriginalISDA, MarkitFix} {
		got := accrualIntegral(f, grid, ht, rt, 2, 1e-5)
		if math.Abs(got-og) > 1e-14 {
			t.Fatalf("%s = %.18f, want OGFix value %.18f", f, got, og)
		}
	}
}

func TestAccrualIntegralAccumulatedWeightAcrossSegments(t *testing.T) {
	t.Parallel()

	// An interior curve knot splitting the accrual window must not reset the
	// accrual weight: later segments are weighted by their distance from the
	// accrual start, not from the segment boundary.
	lambda, r := 0.03, 0.04
	grid := []float64{1, 1.02, 1.11, 1.25}
	ht := make([]float64, len(grid))
	rt := make([]float64, len(grid))
	for i, tm := range grid {
		ht[i] = lambda * tm
		rt[i] = r * tm
	}

	og := accrualIntegral(OGFix, grid, ht, rt, 1, 1e-5)
	for _, f := range []AccrualOnDefaultFormula{OriginalISDA, MarkitFix} {
		got := accrualIntegral(f, grid, ht, rt, 1, 1e-5)
		if math.Abs(got-og) > 1e-14 {
			t.Fatalf("%s = %.18f on a split window, want OGFix value %.18f", f, got, og)
		}
	}
}

func TestAccrualIntegralMarkitFixSingleSegment(t *testing.T) {
	t.Parallel()

	// On a single segment starting at the accrual start, the segment-local
	// Markit weight coincides with the full OG weight (t0 = 0).
	lambda, r := 0.05, 0.03
	grid, ht, rt := flatGrids(0.5, 0.75, lambda, r, 2)

	markit := accrualIntegral(MarkitFix, grid, ht, rt, 0.5, 1e-5)
	og := accrualIntegral(OGFix, grid, ht, rt, 0.5, 1e-5)
	if math.Abs(markit-og) > 1e-15 {
		t.Fatalf("MarkitFix %.18f vs OGFix %.18f on a single segment", markit, og)
	}
}

func TestAccrualIntegralGuardAgreesNearThreshold(t *testing.T) {
	t.Parallel()

	// With the combined rate just above the default threshold, forcing either
	// branch must give near-identical values: the guard trades a tiny
	// truncation error for stability, not a different result.
	lambda, r := 3e-4, 1e-4
	grid, ht, rt := flatGrids(1, 1.25, lambda, r, 6)

	for _, f := range []AccrualOnDefaultFormula{MarkitFix, OGFix} {
		direct := accrualIntegral(f, grid, ht, rt, 1, 0)
		taylor := accrualIntegral(f, grid, ht, rt, 1, 1)
		if math.Abs(direct-taylor) > 1e-9 {
			t.Fatalf("%s branch mismatch: direct %.15f vs taylor %.15f", f, direct, taylor)
		}
	}
}

func TestFormulaString(t *testing.T) {
	t.Parallel()

	cases := map[AccrualOnDefaultFormula]string{
		OriginalISDA:               "ORIGINAL_ISDA",
		MarkitFix:                  "MARKIT_FIX",
		OGFix:                      "OG_FIX",
		AccrualOnDefaultFormula(9): "UNKNOWN",
	}
	for f, want := range cases {
		if got := f.String(); got != want {
			t.Fatalf("String() = %q, want %q", got, want)
		}
	}
}
