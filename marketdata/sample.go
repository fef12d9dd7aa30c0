// Package marketdata bundles static market fixtures used by tests, examples,
// and the command-line tools.
package marketdata

import "github.com/meenmo/cdslib/discount"

// SampleUSDZeroTenors are the node times (years, ACT/365F) of the sample USD
// discount curve.
var SampleUSDZeroTenors = []float64{
	1.0 / 12, 0.25, 0.5, 1, 2, 3, 4, 5, 7, 10, 15, 20, 30,
}

// SampleUSDZeroRates are continuously compounded zero rates at the tenors
// above, bootstrapped upstream from deposits and par swaps.
var SampleUSDZeroRates = []float64{
	0.00445, 0.00949, 0.01234, 0.01776, 0.01935, 0.02084,
	0.02233, 0.02361, 0.02579, 0.02804, 0.03014, 0.03103, 0.03163,
}

// SampleCDSTenorsMonths are the quoted pillar tenors of the sample spread
// curve.
var SampleCDSTenorsMonths = []int{6, 12, 36, 60, 84, 120}

// SampleCDSParSpreads are par spreads (decimal) for the tenors above.
var SampleCDSParSpreads = []float64{0.027, 0.017, 0.012, 0.009, 0.008, 0.005}

// SampleRecoveryRate is the recovery assumption paired with the sample spreads.
const SampleRecoveryRate = 0.4

// SampleDiscountCurve builds the sample USD discount curve.
func SampleDiscountCurve() *discount.ZeroCurve {
	c, err := discount.NewZeroCurve(SampleUSDZeroTenors, SampleUSDZeroRates)
	if err != nil {
		panic(err) // static data, cannot fail
	}
	return c
}
