package main

import (
	"fmt"
	"time"

	"github.com/meenmo/cdslib/credit"
	cdsconv "github.com/meenmo/cdslib/instruments/cds"
	"github.com/meenmo/cdslib/marketdata"
)

func main() {
	tradeDate := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	disc := marketdata.SampleDiscountCurve()

	pillars, err := cdsconv.SpotPillars(tradeDate, marketdata.SampleCDSTenorsMonths, marketdata.SampleRecoveryRate)
	if err != nil {
		panic(err)
	}

	builder := credit.NewFastCreditCurveBuilder(credit.OGFix, credit.ArbitrageIgnore)
	curve, err := builder.Calibrate(pillars, marketdata.SampleCDSParSpreads, disc)
	if err != nil {
		panic(err)
	}

	fmt.Println("Tenor  Maturity    Hazard     Survival")
	for i := 0; i < curve.NumKnots(); i++ {
		t := curve.KnotTime(i)
		fmt.Printf("%4dM  %s  %.6f  %.6f\n",
			marketdata.SampleCDSTenorsMonths[i],
			pillars[i].Maturity().Format("2006-01-02"),
			curve.KnotHazardRate(i),
			curve.SurvivalProbability(t))
	}

	// Value a 5Y contract paying a 100bp standardized coupon off the curve.
	target, err := cdsconv.SpotCDS(tradeDate, 60, marketdata.SampleRecoveryRate)
	if err != nil {
		panic(err)
	}
	pricer := credit.NewPricer(credit.OGFix)
	pv, err := pricer.PresentValue(target, curve, disc, 0.01, credit.CleanPrice)
	if err != nil {
		panic(err)
	}
	spread, err := pricer.ParSpread(target, curve, disc)
	if err != nil {
		panic(err)
	}

	fmt.Printf("\n5Y @ 100bp clean PV: %.6f\n", pv)
	fmt.Printf("5Y par spread:       %.4f%%\n", spread*100)
}
