package credit

import (
	"fmt"
	"math"

	"github.com/meenmo/cdslib/credit/config"
	"github.com/meenmo/cdslib/utils"
)

// Pricer values a CDS against a hazard curve and a discount curve. It is a
// pure function of its arguments: no state is shared across calls, so one
// Pricer may be reused across root-finder iterations and across goroutines.
type Pricer struct {
	Formula AccrualOnDefaultFormula
}

// NewPricer returns a pricer using the given accrual-on-default formula.
func NewPricer(formula AccrualOnDefaultFormula) *Pricer {
	return &Pricer{Formula: formula}
}

func checkPricingInputs(cds *CDS, hz *HazardCurve, disc DiscountCurve) error {
	if cds == nil {
		return fmt.Errorf("credit: nil instrument: %w", ErrInvalidInput)
	}
	if hz == nil || hz.NumKnots() == 0 {
		return fmt.Errorf("credit: hazard curve: %w", ErrNilCurve)
	}
	if disc == nil {
		return fmt.Errorf("credit: discount curve: %w", ErrNilCurve)
	}
	return nil
}

// ProtectionLegPV returns the protection leg PV per unit notional, including
// the loss-given-default weighting, as of the trade date.
func (p *Pricer) ProtectionLegPV(cds *CDS, hz *HazardCurve, disc DiscountCurve) (float64, error) {
	if err := checkPricingInputs(cds, hz, disc); err != nil {
		return 0, err
	}
	return protectionLegPV(cds, hz, disc, config.GetConfig()), nil
}

// RiskyAnnuity returns the premium leg PV per unit coupon (the RPV01),
// including the accrual-on-default contribution when the contract pays it.
func (p *Pricer) RiskyAnnuity(cds *CDS, hz *HazardCurve, disc DiscountCurve, pt PriceType) (float64, error) {
	if err := checkPricingInputs(cds, hz, disc); err != nil {
		return 0, err
	}
	return riskyAnnuity(p.Formula, cds, hz, disc, pt, config.GetConfig()), nil
}

// PresentValue returns the CDS PV per unit notional from the protection
// buyer's perspective: protection leg minus coupon times the risky annuity.
func (p *Pricer) PresentValue(cds *CDS, hz *HazardCurve, disc DiscountCurve, coupon float64, pt PriceType) (float64, error) {
	if err := checkPricingInputs(cds, hz, disc); err != nil {
		return 0, err
	}
	cfg := config.GetConfig()
	return protectionLegPV(cds, hz, disc, cfg) - coupon*riskyAnnuity(p.Formula, cds, hz, disc, pt, cfg), nil
}

// ParSpread returns the running spread that prices the CDS to zero clean PV.
func (p *Pricer) ParSpread(cds *CDS, hz *HazardCurve, disc DiscountCurve) (float64, error) {
	if err := checkPricingInputs(cds, hz, disc); err != nil {
		return 0, err
	}
	cfg := config.GetConfig()
	annuity := riskyAnnuity(p.Formula, cds, hz, disc, CleanPrice, cfg)
	if math.Abs(annuity) < cfg.DerivativeThreshold {
		return 0, fmt.Errorf("Pricer.ParSpread: risky annuity is zero")
	}
	return protectionLegPV(cds, hz, disc, cfg) / annuity, nil
}

// AccruedPremium returns the premium accrued between the accrual start and the
// step-in date for the given coupon, per unit notional.
func (p *Pricer) AccruedPremium(cds *CDS, coupon float64) float64 {
	return cds.accruedYF * coupon
}

// PresentValueSensitivity returns dPV/dh for the hazard rate of the curve's
// last knot, by central finite difference. This is the derivative the
// calibration root finder consumes.
func (p *Pricer) PresentValueSensitivity(cds *CDS, hz *HazardCurve, disc DiscountCurve, coupon float64, pt PriceType) (float64, error) {
	if err := checkPricingInputs(cds, hz, disc); err != nil {
		return 0, err
	}
	cfg := config.GetConfig()
	h := hz.KnotHazardRate(hz.NumKnots() - 1)
	e := cfg.FiniteDifferenceStep

	pv := func(rate float64) float64 {
		c := hz.WithLastRate(rate)
		return protectionLegPV(cds, c, disc, cfg) - coupon*riskyAnnuity(p.Formula, cds, c, disc, pt, cfg)
	}
	return (pv(h+e) - pv(h-e)) / (2 * e), nil
}

// protectionLegPV is the unvalidated kernel shared by the pricer and the
// simple calibrator.
func protectionLegPV(cds *CDS, hz *HazardCurve, disc DiscountCurve, cfg config.Config) float64 {
	if cds.protEnd <= cds.protStart {
		return 0
	}
	grid := utils.MergeKnots(disc.NodeTimes(), hz.NodeTimes(), cds.protStart, cds.protEnd)
	ht := make([]float64, len(grid))
	rt := make([]float64, len(grid))
	for i, t := range grid {
		ht[i] = hz.CumulativeHazard(t)
		rt[i] = -math.Log(disc.DF(t))
	}
	return cds.lgd * protectionIntegral(ht, rt, cfg.ProtectionTaylorThreshold)
}

// riskyAnnuity is the unvalidated premium-leg kernel per unit coupon.
func riskyAnnuity(f AccrualOnDefaultFormula, cds *CDS, hz *HazardCurve, disc DiscountCurve, pt PriceType, cfg config.Config) float64 {
	pv := 0.0
	for _, per := range cds.periods {
		if per.payTime <= 0 {
			continue
		}
		pv += per.yearFrac * disc.DF(per.payTime) * hz.SurvivalProbability(per.effEnd)
	}
	if cds.params.PayAccruedOnDefault {
		for _, per := range cds.periods {
			pv += accrualOnDefaultPV(f, per, hz, disc, cds.protStart, cfg.AccrualTaylorThreshold)
		}
	}
	if pt == CleanPrice {
		pv -= cds.accruedYF
	}
	return pv
}
