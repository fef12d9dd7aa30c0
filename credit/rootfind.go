package credit

import (
	"math"

	"github.com/meenmo/cdslib/credit/config"
)

// solveKnotRate finds the hazard rate h with |f(h)| below the configured
// tolerance. It brackets a sign change around the initial guess, then runs
// Newton-Raphson with a central finite-difference derivative, falling back to
// bisection whenever a Newton step leaves the bracket or the derivative is too
// small to make progress.
//
// The returned *ConvergenceError has its Pillar left at zero; the calibrator
// fills it in.
func solveKnotRate(f func(float64) float64, guess float64, cfg config.Config) (float64, *ConvergenceError) {
	fg := f(guess)
	if math.Abs(fg) < cfg.ConvergenceTolerance {
		return guess, nil
	}

	// Widen a bracket around the guess. The PV residual is monotone in the
	// last knot's hazard for ordinary inputs, so alternating expansion finds
	// a sign change quickly; negative rates stay admissible because the
	// Ignore policy allows arbitrageable curves.
	lo, hi := guess, guess
	flo, fhi := fg, fg
	step := math.Max(0.25*math.Abs(guess), 0.0025)
	for i := 0; i < cfg.MaxBracketExpansions && flo*fhi > 0; i++ {
		hi += step
		fhi = f(hi)
		if flo*fhi <= 0 {
			break
		}
		lo -= step
		flo = f(lo)
		step *= cfg.BracketExpansion
	}
	if flo*fhi > 0 {
		return guess, &ConvergenceError{Iterations: cfg.MaxBracketExpansions, Residual: fg}
	}

	x, fx := guess, fg
	if x < lo || x > hi {
		x = 0.5 * (lo + hi)
		fx = f(x)
	}

	e := cfg.FiniteDifferenceStep
	for iter := 0; iter < cfg.MaxSolverIterations; iter++ {
		if math.Abs(fx) < cfg.ConvergenceTolerance {
			return x, nil
		}

		// Keep the bracket valid before choosing the next point.
		if fx*flo > 0 {
			lo, flo = x, fx
		} else {
			hi, fhi = x, fx
		}

		deriv := (f(x+e) - f(x-e)) / (2 * e)
		var next float64
		if math.Abs(deriv) < cfg.DerivativeThreshold {
			next = 0.5 * (lo + hi)
		} else {
			next = x - fx/deriv
			if next <= lo || next >= hi {
				next = 0.5 * (lo + hi)
			}
		}
		x = next
		fx = f(x)
	}
	return x, &ConvergenceError{Iterations: cfg.MaxSolverIterations, Residual: fx}
}
