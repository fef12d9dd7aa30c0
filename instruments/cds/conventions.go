// Package cds provides standard CDS contract conventions, mirroring the
// standardized (SNAC-style) terms used for index and single-name pillars:
// quarterly premiums on roll dates, ACT/360 accrual, T+1 protection, accrued
// paid on default, protection from start of day.
package cds

import (
	"time"

	"github.com/meenmo/cdslib/calendar"
	"github.com/meenmo/cdslib/credit"
)

// StandardParams returns the standard contract terms for a given trade date,
// maturity and recovery assumption. The accrual start defaults to the roll
// date preceding the trade date (set inside credit.NewCDS).
func StandardParams(tradeDate, maturity time.Time, recovery float64) credit.CDSParams {
	return credit.CDSParams{
		TradeDate:             tradeDate,
		Maturity:              maturity,
		StepInDays:            1,
		PaymentIntervalMonths: 3,
		Calendar:              calendar.WKD,
		AccrualDayCount:       "ACT/360",
		RecoveryRate:          recovery,
		PayAccruedOnDefault:   true,
		ProtectStart:          true,
	}
}

// SpotMaturity returns the standard (unadjusted) maturity for a tenor quoted
// on the trade date: the first roll date on or after trade + tenor.
func SpotMaturity(tradeDate time.Time, tenorMonths int) time.Time {
	base := tradeDate.AddDate(0, tenorMonths, 0)
	return calendar.NextIMMDate(base.AddDate(0, 0, -1))
}

// SpotCDS builds a standard contract for a quoted tenor.
func SpotCDS(tradeDate time.Time, tenorMonths int, recovery float64) (*credit.CDS, error) {
	return credit.NewCDS(StandardParams(tradeDate, SpotMaturity(tradeDate, tenorMonths), recovery))
}

// SpotPillars builds the standard calibration pillars for a set of quoted
// tenors, in the given order.
func SpotPillars(tradeDate time.Time, tenorsMonths []int, recovery float64) ([]*credit.CDS, error) {
	out := make([]*credit.CDS, 0, len(tenorsMonths))
	for _, m := range tenorsMonths {
		c, err := SpotCDS(tradeDate, m, recovery)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
