package credit

import (
	"math"

	"github.com/meenmo/cdslib/utils"
)

// AccrualOnDefaultFormula selects the closed-form approximation used for the
// expected present value of premium accrued up to the default time within an
// accrual period. All three approximate the same continuous-time integral
//
//	int_a^b (t-a)/(b-a) h(t) Z(t) S(t) dt
//
// and differ in how they treat the combined hazard-plus-discount rate as it
// approaches zero.
type AccrualOnDefaultFormula int

const (
	// OriginalISDA is the historical formula: the raw combined rate sits in
	// the denominator with no stabilisation, so it loses accuracy as the
	// combined rate approaches zero.
	OriginalISDA AccrualOnDefaultFormula = iota
	// MarkitFix substitutes a second-order Taylor expansion of the segment
	// integral below the configured threshold.
	MarkitFix
	// OGFix stabilises the same threshold region with the epsilon expansions.
	OGFix
)

func (f AccrualOnDefaultFormula) String() string {
	switch f {
	case OriginalISDA:
		return "ORIGINAL_ISDA"
	case MarkitFix:
		return "MARKIT_FIX"
	case OGFix:
		return "OG_FIX"
	default:
		return "UNKNOWN"
	}
}

// epsilon returns (exp(x) - 1) / x, switching to its Taylor expansion for
// small |x| to avoid cancellation.
func epsilon(x float64) float64 {
	if math.Abs(x) > 1e-10 {
		return math.Expm1(x) / x
	}
	return 1 + x*(0.5+x*(1.0/6.0+x/24.0))
}

// epsilonP returns (exp(x) - 1 - x) / x^2 with the same small-|x| treatment.
func epsilonP(x float64) float64 {
	if math.Abs(x) > 1e-7 {
		return (math.Expm1(x) - x) / (x * x)
	}
	return 0.5 + x*(1.0/6.0+x*(1.0/24.0+x/120.0))
}

// protectionIntegral sums the per-segment closed form of
// int h(t) Z(t) S(t) dt given cumulative hazards ht and cumulative discount
// rates rt at the grid points. thresh guards the near-cancelling denominator.
func protectionIntegral(ht, rt []float64, thresh float64) float64 {
	b0 := math.Exp(-ht[0] - rt[0])
	pv := 0.0
	for i := 1; i < len(ht); i++ {
		b1 := math.Exp(-ht[i] - rt[i])
		dht := ht[i] - ht[i-1]
		drt := rt[i] - rt[i-1]
		dhrt := dht + drt
		var dPV float64
		if math.Abs(dhrt) < thresh {
			dPV = dht * b0 * epsilon(-dhrt)
		} else {
			dPV = (b0 - b1) * dht / dhrt
		}
		pv += dPV
		b0 = b1
	}
	return pv
}

// accrualIntegral computes int (t - start) h(t) Z(t) S(t) dt over the
// integration grid, per the selected formula. grid, ht, and rt are parallel
// slices; start is the accrual period's nominal start time. Every segment
// carries the accumulated weight t0 = grid[i-1] - start, so the value is the
// same integral whichever curve knots happen to split the window; the variants
// differ only in how they treat a near-zero combined rate.
func accrualIntegral(f AccrualOnDefaultFormula, grid, ht, rt []float64, start, thresh float64) float64 {
	b0 := math.Exp(-ht[0] - rt[0])
	t0 := grid[0] - start
	pv := 0.0
	for i := 1; i < len(grid); i++ {
		b1 := math.Exp(-ht[i] - rt[i])
		dt := grid[i] - grid[i-1]
		dht := ht[i] - ht[i-1]
		drt := rt[i] - rt[i-1]
		dhrt := dht + drt
		t1 := grid[i] - start

		var tPV float64
		switch f {
		case MarkitFix:
			if math.Abs(dhrt) < thresh {
				// Second-order Taylor expansion of the segment integral.
				tPV = dht * b0 * (t0*(1-dhrt*(0.5-dhrt/6)) + dt*(0.5-dhrt*(1.0/3.0-dhrt/8)))
			} else {
				tPV = dht / dhrt * (t0*(b0-b1) + dt*((b0-b1)/dhrt-b1))
			}
		case OGFix:
			if math.Abs(dhrt) < thresh {
				tPV = dht * b0 * (t0*epsilon(-dhrt) + dt*epsilonP(-dhrt))
			} else {
				tPV = dht / dhrt * (t0*b0 - t1*b1 + dt/dhrt*(b0-b1))
			}
		default: // OriginalISDA
			// The 1e-50 keeps the historical direct division finite when the
			// combined rate is exactly zero, matching the original ISDA code.
			d := dhrt + 1e-50
			tPV = dht / d * (t0*b0 - t1*b1 + dt/d*(b0-b1))
		}
		pv += tPV
		t0 = t1
		b0 = b1
	}
	return pv
}

// accrualOnDefaultPV values the accrued-premium-at-default contribution of one
// period, per unit coupon, on the full curve pair.
func accrualOnDefaultPV(f AccrualOnDefaultFormula, per accrualPeriod, hz *HazardCurve, disc DiscountCurve, protStart, thresh float64) float64 {
	lo := per.startTime
	if protStart > lo {
		lo = protStart
	}
	hi := per.effEnd
	if hi <= lo {
		return 0
	}
	grid := utils.MergeKnots(disc.NodeTimes(), hz.NodeTimes(), lo, hi)
	ht := make([]float64, len(grid))
	rt := make([]float64, len(grid))
	for i, t := range grid {
		ht[i] = hz.CumulativeHazard(t)
		rt[i] = -math.Log(disc.DF(t))
	}
	span := per.effEnd - per.startTime
	return per.yearFrac * accrualIntegral(f, grid, ht, rt, per.startTime, thresh) / span
}
