package credit

// DiscountCurve provides discount factors on the ACT/365F year-fraction axis.
// NodeTimes exposes the curve's knot times so the pricing kernel can build
// integration grids spanning both discount and credit curve segments.
//
// The curve is supplied fully built and is never mutated by this package.
type DiscountCurve interface {
	DF(t float64) float64
	NodeTimes() []float64
}

// PriceType selects whether premium-leg values include the premium accrued
// between the last coupon date and the step-in date.
type PriceType int

const (
	// CleanPrice excludes accrued premium (market quotation convention).
	CleanPrice PriceType = iota
	// DirtyPrice includes accrued premium (cash-settlement convention).
	DirtyPrice
)

// Quote is a market quote for a single calibration pillar. Exactly one of
// ParSpread, QuotedSpread, or PointsUpfront.
type Quote interface {
	quote()
}

// ParSpread is the running spread making the CDS worth zero at inception.
// Expressed as a decimal (0.01 == 100bp).
type ParSpread float64

// QuotedSpread is a market spread quoted against a standardized coupon.
// Converting it to an upfront value requires a single-pillar flat-curve
// calibration at the quoted spread.
type QuotedSpread struct {
	Coupon float64
	Spread float64
}

// PointsUpfront is the upfront payment (as a fraction of notional) exchanged
// alongside a standardized running coupon.
type PointsUpfront struct {
	Coupon  float64
	Upfront float64
}

func (ParSpread) quote()     {}
func (QuotedSpread) quote()  {}
func (PointsUpfront) quote() {}
