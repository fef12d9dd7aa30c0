package credit

import (
	"fmt"

	"github.com/meenmo/cdslib/credit/config"
)

// CreditCurveBuilder calibrates a hazard curve to a term structure of
// market-quoted CDS pillars against a discount curve. One knot is produced per
// pillar, anchored at the pillar's protection end time; solved knots are never
// revisited while later pillars are processed.
//
// Implemented by SimpleCreditCurveBuilder and FastCreditCurveBuilder, which
// share the numerically sensitive closed forms and must agree to near machine
// precision.
type CreditCurveBuilder interface {
	// Calibrate bootstraps from par spreads (target PV zero per pillar).
	Calibrate(pillars []*CDS, parSpreads []float64, disc DiscountCurve) (*HazardCurve, error)
	// CalibrateUpfront bootstraps from standardized coupons and points-upfront.
	CalibrateUpfront(pillars []*CDS, coupons, upfronts []float64, disc DiscountCurve) (*HazardCurve, error)
	// CalibrateQuoted bootstraps from per-pillar quotes of mixed representation.
	CalibrateQuoted(pillars []*CDS, quotes []Quote, disc DiscountCurve) (*HazardCurve, error)
	// CalibrateSingle bootstraps a one-knot (flat) curve from a single pillar.
	CalibrateSingle(pillar *CDS, q Quote, disc DiscountCurve) (*HazardCurve, error)
}

// validatePillars runs all input checks before any numeric work: no solving
// starts if the term structure is malformed.
func validatePillars(pillars []*CDS, disc DiscountCurve) error {
	if disc == nil {
		return fmt.Errorf("credit: discount curve: %w", ErrNilCurve)
	}
	if len(pillars) == 0 {
		return fmt.Errorf("credit: no calibration pillars: %w", ErrInvalidInput)
	}
	prevEnd := 0.0
	for i, p := range pillars {
		if p == nil {
			return fmt.Errorf("credit: nil pillar %d: %w", i, ErrInvalidInput)
		}
		if p.protEnd <= prevEnd {
			return fmt.Errorf("credit: pillar %d maturity not after pillar %d: %w", i, i-1, ErrInvalidInput)
		}
		if i > 0 && p.params.AccrualStart.After(pillars[i-1].params.Maturity) {
			return fmt.Errorf("credit: pillar %d accrual start after pillar %d maturity: %w", i, i-1, ErrInvalidInput)
		}
		prevEnd = p.protEnd
	}
	return nil
}

func validateQuoteArrays(pillars []*CDS, coupons, upfronts []float64) error {
	if len(coupons) != len(pillars) {
		return fmt.Errorf("credit: %d pillars vs %d coupons: %w", len(pillars), len(coupons), ErrInvalidInput)
	}
	if len(upfronts) != len(coupons) {
		return fmt.Errorf("credit: %d coupons vs %d upfronts: %w", len(coupons), len(upfronts), ErrInvalidInput)
	}
	return nil
}

// seedRate picks the trial hazard rate for a new knot: the previous knot's
// rate, or for the first pillar a flat-rate approximation from the quote and
// the recovery rate.
func seedRate(i int, prevRate float64, p *CDS, coupon, upfront float64) float64 {
	if i > 0 {
		return prevRate
	}
	guess := (coupon + upfront/p.protEnd) / p.lgd
	if guess <= 0 {
		guess = 1e-4
	}
	return guess
}

// bootstrap is the pillar-by-pillar state machine shared by both builders:
// seed, solve, validate against the arbitrage policy, commit. residual(i, c)
// evaluates pillar i's PV minus its target under the trial curve c.
func bootstrap(pillars []*CDS, coupons, upfronts []float64, arb ArbitrageHandling,
	residual func(i int, trial *HazardCurve) float64) (*HazardCurve, error) {

	cfg := config.GetConfig()
	curve := &HazardCurve{}
	prevRate := 0.0
	for i, p := range pillars {
		guess := seedRate(i, prevRate, p, coupons[i], upfronts[i])
		trial, err := curve.WithNode(p.protEnd, guess)
		if err != nil {
			return nil, fmt.Errorf("credit: pillar %d: %v: %w", i, err, ErrInvalidInput)
		}

		f := func(h float64) float64 {
			return residual(i, trial.WithLastRate(h))
		}
		h, cerr := solveKnotRate(f, guess, cfg)
		if cerr != nil {
			cerr.Pillar = i
			return nil, cerr
		}

		h, err = arb.applyKnot(i, h)
		if err != nil {
			return nil, err
		}
		curve = trial.WithLastRate(h)
		prevRate = h
	}
	return curve, nil
}

// normalizeQuotes reduces mixed quote representations to (coupon, upfront)
// pairs. Quoted spreads are converted through a single-pillar flat-curve
// calibration at the quoted spread, using the caller's own builder so the
// fast and simple paths stay self-consistent.
func normalizeQuotes(b CreditCurveBuilder, formula AccrualOnDefaultFormula,
	pillars []*CDS, quotes []Quote, disc DiscountCurve) ([]float64, []float64, error) {

	if len(quotes) != len(pillars) {
		return nil, nil, fmt.Errorf("credit: %d pillars vs %d quotes: %w", len(pillars), len(quotes), ErrInvalidInput)
	}
	coupons := make([]float64, len(quotes))
	upfronts := make([]float64, len(quotes))
	for i, q := range quotes {
		switch v := q.(type) {
		case ParSpread:
			coupons[i] = float64(v)
		case PointsUpfront:
			coupons[i] = v.Coupon
			upfronts[i] = v.Upfront
		case QuotedSpread:
			flat, err := b.Calibrate([]*CDS{pillars[i]}, []float64{v.Spread}, disc)
			if err != nil {
				return nil, nil, err
			}
			puf, err := NewPricer(formula).PresentValue(pillars[i], flat, disc, v.Coupon, CleanPrice)
			if err != nil {
				return nil, nil, err
			}
			coupons[i] = v.Coupon
			upfronts[i] = puf
		default:
			return nil, nil, fmt.Errorf("credit: pillar %d has unknown quote type %T: %w", i, q, ErrInvalidInput)
		}
	}
	return coupons, upfronts, nil
}

// SimpleCreditCurveBuilder is the canonical calibrator: every root-finder
// iteration reprices the pillar from scratch through the generic pricing
// kernel. Clear, and the reference the fast path is validated against.
type SimpleCreditCurveBuilder struct {
	Formula   AccrualOnDefaultFormula
	Arbitrage ArbitrageHandling
}

// NewSimpleCreditCurveBuilder returns a simple builder with the given formula
// and arbitrage policy.
func NewSimpleCreditCurveBuilder(f AccrualOnDefaultFormula, a ArbitrageHandling) *SimpleCreditCurveBuilder {
	return &SimpleCreditCurveBuilder{Formula: f, Arbitrage: a}
}

func (b *SimpleCreditCurveBuilder) Calibrate(pillars []*CDS, parSpreads []float64, disc DiscountCurve) (*HazardCurve, error) {
	return b.CalibrateUpfront(pillars, parSpreads, make([]float64, len(parSpreads)), disc)
}

func (b *SimpleCreditCurveBuilder) CalibrateUpfront(pillars []*CDS, coupons, upfronts []float64, disc DiscountCurve) (*HazardCurve, error) {
	if err := validatePillars(pillars, disc); err != nil {
		return nil, err
	}
	if err := validateQuoteArrays(pillars, coupons, upfronts); err != nil {
		return nil, err
	}
	cfg := config.GetConfig()
	residual := func(i int, trial *HazardCurve) float64 {
		p := pillars[i]
		return protectionLegPV(p, trial, disc, cfg) -
			coupons[i]*riskyAnnuity(b.Formula, p, trial, disc, CleanPrice, cfg) -
			upfronts[i]
	}
	return bootstrap(pillars, coupons, upfronts, b.Arbitrage, residual)
}

func (b *SimpleCreditCurveBuilder) CalibrateQuoted(pillars []*CDS, quotes []Quote, disc DiscountCurve) (*HazardCurve, error) {
	if err := validatePillars(pillars, disc); err != nil {
		return nil, err
	}
	coupons, upfronts, err := normalizeQuotes(b, b.Formula, pillars, quotes, disc)
	if err != nil {
		return nil, err
	}
	return b.CalibrateUpfront(pillars, coupons, upfronts, disc)
}

func (b *SimpleCreditCurveBuilder) CalibrateSingle(pillar *CDS, q Quote, disc DiscountCurve) (*HazardCurve, error) {
	return b.CalibrateQuoted([]*CDS{pillar}, []Quote{q}, disc)
}
