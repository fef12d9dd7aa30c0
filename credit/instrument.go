package credit

import (
	"fmt"
	"time"

	"github.com/meenmo/cdslib/calendar"
	"github.com/meenmo/cdslib/utils"
)

// curveDayCount is the time basis of the credit and discount curve axes.
// Following the standard model (and the discount-curve convention used across
// this library), the curve time axis uses ACT/365F regardless of the premium
// accrual basis.
const curveDayCount = "ACT/365F"

const oneDay = 1.0 / 365.0

// CDSParams describes a single CDS contract to NewCDS.
type CDSParams struct {
	// TradeDate anchors the curve time axis (t = 0).
	TradeDate time.Time
	// Maturity is the (unadjusted) protection end date, typically a roll date.
	Maturity time.Time
	// AccrualStart is the first premium accrual date. Zero value means the
	// previous CDS roll date before the trade date.
	AccrualStart time.Time
	// StepInDays is the calendar-day lag until protection becomes effective
	// (standard contracts use T+1).
	StepInDays int
	// PaymentIntervalMonths is the premium payment frequency (default 3).
	PaymentIntervalMonths int
	// Calendar adjusts accrual and payment dates (default WKD).
	Calendar calendar.CalendarID
	// AccrualDayCount is the premium accrual basis (default ACT/360).
	AccrualDayCount string
	// RecoveryRate is the assumed recovery R in [0, 1).
	RecoveryRate float64
	// PayAccruedOnDefault adds the accrued-premium-at-default contribution to
	// the premium leg.
	PayAccruedOnDefault bool
	// ProtectStart extends protection by one day on each side (protection from
	// start of the step-in day through end of the maturity day).
	ProtectStart bool
}

// accrualPeriod is one premium period with date bounds resolved to curve time.
type accrualPeriod struct {
	startDate time.Time
	endDate   time.Time
	payDate   time.Time

	yearFrac  float64 // premium accrual fraction (ACT/360 by default)
	startTime float64 // curve time of accrual start (negative for seasoned periods)
	endTime   float64
	payTime   float64
	effEnd    float64 // survival query / integration upper bound
}

// CDS is an immutable calibration (or valuation) instrument. Construct with
// NewCDS; all schedule and time quantities are resolved once at construction
// so pricing is pure arithmetic on the curve time axis.
type CDS struct {
	params  CDSParams
	periods []accrualPeriod

	protStart  float64
	protEnd    float64
	stepinTime float64
	accruedYF  float64 // premium accrued between accrual start and step-in
	lgd        float64
}

// NewCDS resolves a contract description into a priced-ready instrument.
func NewCDS(p CDSParams) (*CDS, error) {
	if p.TradeDate.IsZero() {
		return nil, fmt.Errorf("NewCDS: TradeDate is required: %w", ErrInvalidInput)
	}
	if p.Maturity.IsZero() || !p.Maturity.After(p.TradeDate) {
		return nil, fmt.Errorf("NewCDS: Maturity must be after TradeDate: %w", ErrInvalidInput)
	}
	if p.RecoveryRate < 0 || p.RecoveryRate >= 1 {
		return nil, fmt.Errorf("NewCDS: RecoveryRate %g outside [0,1): %w", p.RecoveryRate, ErrInvalidInput)
	}
	if p.PaymentIntervalMonths == 0 {
		p.PaymentIntervalMonths = 3
	}
	if p.PaymentIntervalMonths < 0 {
		return nil, fmt.Errorf("NewCDS: PaymentIntervalMonths %d not positive: %w", p.PaymentIntervalMonths, ErrInvalidInput)
	}
	if p.Calendar == "" {
		p.Calendar = calendar.WKD
	}
	if p.AccrualDayCount == "" {
		p.AccrualDayCount = "ACT/360"
	}
	if p.AccrualStart.IsZero() {
		p.AccrualStart = calendar.PrevIMMDate(p.TradeDate)
	}
	if !p.Maturity.After(p.AccrualStart) {
		return nil, fmt.Errorf("NewCDS: Maturity not after AccrualStart: %w", ErrInvalidInput)
	}

	c := &CDS{params: p, lgd: 1 - p.RecoveryRate}

	stepin := p.TradeDate.AddDate(0, 0, p.StepInDays)
	c.stepinTime = utils.YearFraction(p.TradeDate, stepin, curveDayCount)

	matTime := utils.YearFraction(p.TradeDate, p.Maturity, curveDayCount)
	c.protStart = c.stepinTime
	c.protEnd = matTime
	if p.ProtectStart {
		c.protStart -= oneDay
		c.protEnd += oneDay
	}
	if c.protStart < 0 {
		c.protStart = 0
	}

	c.periods = buildPremiumSchedule(p, c.protEnd)

	// Accrued premium at step-in: locate the period containing the step-in
	// date and accrue from its start.
	for _, per := range c.periods {
		if !per.startDate.After(stepin) && per.endDate.After(stepin) {
			c.accruedYF = utils.YearFraction(per.startDate, stepin, p.AccrualDayCount)
			break
		}
	}

	return c, nil
}

// buildPremiumSchedule rolls period boundaries forward from the accrual start,
// closing the final (possibly stub) period exactly at maturity. Boundary and
// payment dates are business-day adjusted except the final accrual end, which
// stays on the unadjusted maturity and earns one extra accrual day per the
// standard contract terms.
func buildPremiumSchedule(p CDSParams, protEnd float64) []accrualPeriod {
	bounds := []time.Time{p.AccrualStart}
	cur := p.AccrualStart
	for {
		cur = utils.AddMonth(cur, p.PaymentIntervalMonths)
		if !cur.Before(p.Maturity) {
			break
		}
		bounds = append(bounds, cur)
	}
	bounds = append(bounds, p.Maturity)

	periods := make([]accrualPeriod, 0, len(bounds)-1)
	for i := 0; i < len(bounds)-1; i++ {
		final := i == len(bounds)-2

		start := calendar.Adjust(p.Calendar, bounds[i])
		var end, pay time.Time
		var yf float64
		if final {
			end = p.Maturity
			pay = calendar.Adjust(p.Calendar, p.Maturity)
			yf = utils.YearFraction(start, end.AddDate(0, 0, 1), p.AccrualDayCount)
		} else {
			end = calendar.Adjust(p.Calendar, bounds[i+1])
			pay = end
			yf = utils.YearFraction(start, end, p.AccrualDayCount)
		}

		per := accrualPeriod{
			startDate: start,
			endDate:   end,
			payDate:   pay,
			yearFrac:  yf,
			startTime: utils.YearFraction(p.TradeDate, start, curveDayCount),
			endTime:   utils.YearFraction(p.TradeDate, end, curveDayCount),
			payTime:   utils.YearFraction(p.TradeDate, pay, curveDayCount),
		}
		per.effEnd = per.endTime
		if final && p.ProtectStart {
			per.effEnd = protEnd
		}
		periods = append(periods, per)
	}
	return periods
}

// ProtectionStart returns the protection start in curve years.
func (c *CDS) ProtectionStart() float64 { return c.protStart }

// ProtectionEnd returns the protection end in curve years. This is the knot
// time the instrument anchors during calibration.
func (c *CDS) ProtectionEnd() float64 { return c.protEnd }

// RecoveryRate returns the assumed recovery rate.
func (c *CDS) RecoveryRate() float64 { return c.params.RecoveryRate }

// LGD returns 1 - RecoveryRate.
func (c *CDS) LGD() float64 { return c.lgd }

// PayAccruedOnDefault reports whether the premium leg includes the
// accrued-at-default contribution.
func (c *CDS) PayAccruedOnDefault() bool { return c.params.PayAccruedOnDefault }

// AccruedYearFraction returns the premium accrual fraction between the accrual
// start and the step-in date (the clean/dirty adjustment per unit coupon).
func (c *CDS) AccruedYearFraction() float64 { return c.accruedYF }

// Maturity returns the contract's unadjusted protection end date.
func (c *CDS) Maturity() time.Time { return c.params.Maturity }

// NumPeriods returns the number of premium accrual periods.
func (c *CDS) NumPeriods() int { return len(c.periods) }
