package credit

import (
	"fmt"
	"math"

	"github.com/meenmo/cdslib/utils"
)

// HazardCurve is a piecewise-flat forward hazard (default intensity) curve.
//
// Knot times are strictly increasing and positive. rates[i] is the constant
// forward hazard on the segment (times[i-1], times[i]] (with times[-1] taken as
// zero); beyond the last knot the last rate is held flat. Survival probability
// at t is exp(-H(t)) where H is the cumulative hazard integral.
//
// The cumulative hazard at each knot is maintained incrementally as segments
// are appended, so queries and functional updates never re-integrate from
// zero. Curves are immutable; WithNode and WithLastRate return new curves.
type HazardCurve struct {
	times []float64
	rates []float64
	cum   []float64 // cumulative hazard at times[i]
}

// NewHazardCurve builds a curve from knot times and segment forward hazard rates.
func NewHazardCurve(times, rates []float64) (*HazardCurve, error) {
	if len(times) != len(rates) {
		return nil, fmt.Errorf("NewHazardCurve: %d times vs %d rates", len(times), len(rates))
	}
	c := &HazardCurve{}
	for i := range times {
		next, err := c.WithNode(times[i], rates[i])
		if err != nil {
			return nil, err
		}
		c = next
	}
	return c, nil
}

// WithNode returns a new curve with one additional trailing knot at time t
// with segment forward hazard h. t must exceed the last knot time.
func (c *HazardCurve) WithNode(t, h float64) (*HazardCurve, error) {
	if t <= 0 {
		return nil, fmt.Errorf("HazardCurve.WithNode: knot time %g not positive", t)
	}
	n := len(c.times)
	if n > 0 && t <= c.times[n-1] {
		return nil, fmt.Errorf("HazardCurve.WithNode: knot time %g not after last knot %g", t, c.times[n-1])
	}
	prev := 0.0
	prevCum := 0.0
	if n > 0 {
		prev = c.times[n-1]
		prevCum = c.cum[n-1]
	}
	out := &HazardCurve{
		times: append(append(make([]float64, 0, n+1), c.times...), t),
		rates: append(append(make([]float64, 0, n+1), c.rates...), h),
		cum:   append(append(make([]float64, 0, n+1), c.cum...), prevCum+h*(t-prev)),
	}
	return out, nil
}

// WithLastRate returns a new curve with the last segment's forward hazard
// replaced by h. Used while root-finding for the newest pillar.
func (c *HazardCurve) WithLastRate(h float64) *HazardCurve {
	n := len(c.times)
	if n == 0 {
		return c
	}
	out := &HazardCurve{
		times: c.times,
		rates: append(append(make([]float64, 0, n), c.rates[:n-1]...), h),
		cum:   append(append(make([]float64, 0, n), c.cum[:n-1]...), 0),
	}
	prev := 0.0
	prevCum := 0.0
	if n > 1 {
		prev = c.times[n-2]
		prevCum = c.cum[n-2]
	}
	out.cum[n-1] = prevCum + h*(c.times[n-1]-prev)
	return out
}

// CumulativeHazard returns H(t), the integral of the forward hazard from 0 to t.
func (c *HazardCurve) CumulativeHazard(t float64) float64 {
	n := len(c.times)
	if n == 0 || t <= 0 {
		return 0
	}
	i := utils.SegmentIndex(c.times, t)
	if i >= n {
		return c.cum[n-1] + c.rates[n-1]*(t-c.times[n-1])
	}
	if c.times[i] == t {
		return c.cum[i]
	}
	if i == 0 {
		return c.rates[0] * t
	}
	return c.cum[i-1] + c.rates[i]*(t-c.times[i-1])
}

// SurvivalProbability returns exp(-H(t)).
func (c *HazardCurve) SurvivalProbability(t float64) float64 {
	return math.Exp(-c.CumulativeHazard(t))
}

// HazardRate returns the forward hazard rate at t (piecewise constant, flat
// beyond the last knot).
func (c *HazardCurve) HazardRate(t float64) float64 {
	n := len(c.times)
	if n == 0 {
		return 0
	}
	i := utils.SegmentIndex(c.times, t)
	if i >= n {
		return c.rates[n-1]
	}
	return c.rates[i]
}

// NumKnots returns the number of curve knots.
func (c *HazardCurve) NumKnots() int {
	return len(c.times)
}

// KnotTime returns the i-th knot time.
func (c *HazardCurve) KnotTime(i int) float64 {
	return c.times[i]
}

// KnotHazardRate returns the forward hazard rate on the segment ending at the
// i-th knot. This is the quantity the bootstrap solves for per pillar.
func (c *HazardCurve) KnotHazardRate(i int) float64 {
	return c.rates[i]
}

// NodeTimes returns the knot times. Callers must not mutate the result.
func (c *HazardCurve) NodeTimes() []float64 {
	return c.times
}
