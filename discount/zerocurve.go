// Package discount provides the discount-curve collaborator consumed by the
// credit pricing kernel. The curve is supplied fully built; nothing in this
// package bootstraps from market instruments.
package discount

import (
	"fmt"
	"math"
	"sort"
)

// ZeroCurve maps a time (in years, ACT/365F from the valuation date) to a
// discount factor. Internally it stores the cumulative quantity rt = zero * t
// and interpolates it linearly between nodes, which is equivalent to log-linear
// discount factors (piecewise-constant forward rates). Beyond the last node the
// last forward rate is held flat; before the first node the first zero rate is
// held flat.
//
// Immutable after construction.
type ZeroCurve struct {
	times []float64
	rt    []float64 // -log(DF) at each node
}

// NewZeroCurve builds a curve from continuously compounded zero rates.
// Times must be strictly increasing and positive.
func NewZeroCurve(times, zeroRates []float64) (*ZeroCurve, error) {
	if len(times) == 0 {
		return nil, fmt.Errorf("NewZeroCurve: no nodes")
	}
	if len(times) != len(zeroRates) {
		return nil, fmt.Errorf("NewZeroCurve: %d times vs %d rates", len(times), len(zeroRates))
	}
	rt := make([]float64, len(times))
	for i, t := range times {
		if t <= 0 {
			return nil, fmt.Errorf("NewZeroCurve: node time %g not positive", t)
		}
		if i > 0 && t <= times[i-1] {
			return nil, fmt.Errorf("NewZeroCurve: node times not increasing at index %d", i)
		}
		rt[i] = zeroRates[i] * t
	}
	return &ZeroCurve{times: append([]float64(nil), times...), rt: rt}, nil
}

// NewZeroCurveFromDFs builds a curve from discount factors at the given times.
func NewZeroCurveFromDFs(times, dfs []float64) (*ZeroCurve, error) {
	if len(times) != len(dfs) {
		return nil, fmt.Errorf("NewZeroCurveFromDFs: %d times vs %d DFs", len(times), len(dfs))
	}
	rates := make([]float64, len(dfs))
	for i, df := range dfs {
		if df <= 0 {
			return nil, fmt.Errorf("NewZeroCurveFromDFs: DF %g not positive", df)
		}
		if times[i] <= 0 {
			return nil, fmt.Errorf("NewZeroCurveFromDFs: node time %g not positive", times[i])
		}
		rates[i] = -math.Log(df) / times[i]
	}
	return NewZeroCurve(times, rates)
}

// NewFlatZeroCurve builds a single-node curve with a constant zero rate.
func NewFlatZeroCurve(rate float64) *ZeroCurve {
	c, _ := NewZeroCurve([]float64{1.0}, []float64{rate})
	return c
}

// RT returns -log(DF(t)), the cumulative discount rate.
func (c *ZeroCurve) RT(t float64) float64 {
	if t <= 0 {
		return 0
	}
	n := len(c.times)
	if t <= c.times[0] {
		// Flat zero rate before the first node.
		return c.rt[0] * t / c.times[0]
	}
	if t >= c.times[n-1] {
		if n == 1 {
			return c.rt[0] * t / c.times[0]
		}
		// Flat forward beyond the last node.
		slope := (c.rt[n-1] - c.rt[n-2]) / (c.times[n-1] - c.times[n-2])
		return c.rt[n-1] + slope*(t-c.times[n-1])
	}
	i := sort.SearchFloat64s(c.times, t)
	t1, t2 := c.times[i-1], c.times[i]
	w := (t - t1) / (t2 - t1)
	return c.rt[i-1] + w*(c.rt[i]-c.rt[i-1])
}

// DF returns the discount factor at time t (in years).
func (c *ZeroCurve) DF(t float64) float64 {
	return math.Exp(-c.RT(t))
}

// ZeroRate returns the continuously compounded zero rate at time t.
func (c *ZeroCurve) ZeroRate(t float64) float64 {
	if t <= 0 {
		return c.rt[0] / c.times[0]
	}
	return c.RT(t) / t
}

// ForwardRate returns the instantaneous forward rate on the segment containing t.
func (c *ZeroCurve) ForwardRate(t float64) float64 {
	n := len(c.times)
	if n == 1 {
		return c.rt[0] / c.times[0]
	}
	if t <= c.times[0] {
		return c.rt[0] / c.times[0]
	}
	i := sort.SearchFloat64s(c.times, t)
	if i >= n {
		i = n - 1
	}
	return (c.rt[i] - c.rt[i-1]) / (c.times[i] - c.times[i-1])
}

// NodeTimes returns the curve's node times. Callers must not mutate the result.
func (c *ZeroCurve) NodeTimes() []float64 {
	return c.times
}

// NumNodes returns the number of curve nodes.
func (c *ZeroCurve) NumNodes() int {
	return len(c.times)
}
