package credit_test

import (
	"errors"
	"math"
	"testing"

	"github.com/meenmo/cdslib/credit"
	"github.com/meenmo/cdslib/discount"
)

func testCDS(t *testing.T) *credit.CDS {
	t.Helper()
	cds, err := credit.NewCDS(standardParams(date(2026, 8, 20), date(2031, 9, 20)))
	if err != nil {
		t.Fatalf("NewCDS error: %v", err)
	}
	return cds
}

func flatHazard(t *testing.T, h float64) *credit.HazardCurve {
	t.Helper()
	c, err := credit.NewHazardCurve([]float64{5}, []float64{h})
	if err != nil {
		t.Fatalf("NewHazardCurve error: %v", err)
	}
	return c
}

func TestPricerParSpreadZeroesCleanPV(t *testing.T) {
	t.Parallel()

	cds := testCDS(t)
	hz := flatHazard(t, 0.02)
	disc := discount.NewFlatZeroCurve(0.03)
	pricer := credit.NewPricer(credit.OGFix)

	spread, err := pricer.ParSpread(cds, hz, disc)
	if err != nil {
		t.Fatalf("ParSpread error: %v", err)
	}
	pv, err := pricer.PresentValue(cds, hz, disc, spread, credit.CleanPrice)
	if err != nil {
		t.Fatalf("PresentValue error: %v", err)
	}
	if math.Abs(pv) > 1e-14 {
		t.Fatalf("clean PV at par spread = %.3e, want 0", pv)
	}
}

func TestPricerDirtyCleanDifferenceIsAccrued(t *testing.T) {
	t.Parallel()

	cds := testCDS(t)
	hz := flatHazard(t, 0.015)
	disc := discount.NewFlatZeroCurve(0.02)
	pricer := credit.NewPricer(credit.MarkitFix)
	coupon := 0.01

	clean, err := pricer.PresentValue(cds, hz, disc, coupon, credit.CleanPrice)
	if err != nil {
		t.Fatalf("PresentValue(clean) error: %v", err)
	}
	dirty, err := pricer.PresentValue(cds, hz, disc, coupon, credit.DirtyPrice)
	if err != nil {
		t.Fatalf("PresentValue(dirty) error: %v", err)
	}
	// The dirty annuity carries the accrued premium, so the dirty PV is lower
	// (the protection buyer pays it) by exactly the accrued amount.
	want := pricer.AccruedPremium(cds, coupon)
	if math.Abs((clean-dirty)-want) > 1e-14 {
		t.Fatalf("clean - dirty = %.15f, want accrued %.15f", clean-dirty, want)
	}
}

func TestPricerProtectionLegBounds(t *testing.T) {
	t.Parallel()

	cds := testCDS(t)
	hz := flatHazard(t, 0.02)
	disc := discount.NewFlatZeroCurve(0.03)
	pricer := credit.NewPricer(credit.OGFix)

	pv, err := pricer.ProtectionLegPV(cds, hz, disc)
	if err != nil {
		t.Fatalf("ProtectionLegPV error: %v", err)
	}
	if pv <= 0 || pv >= cds.LGD() {
		t.Fatalf("protection leg PV %.6f outside (0, LGD=%.2f)", pv, cds.LGD())
	}

	// Higher hazard, more valuable protection.
	pvHigh, err := pricer.ProtectionLegPV(cds, flatHazard(t, 0.05), disc)
	if err != nil {
		t.Fatalf("ProtectionLegPV error: %v", err)
	}
	if pvHigh <= pv {
		t.Fatalf("protection PV not increasing in hazard: %.6f vs %.6f", pvHigh, pv)
	}
}

func TestPricerRiskyAnnuityBounds(t *testing.T) {
	t.Parallel()

	cds := testCDS(t)
	hz := flatHazard(t, 0.02)
	disc := discount.NewFlatZeroCurve(0.03)
	pricer := credit.NewPricer(credit.OGFix)

	annuity, err := pricer.RiskyAnnuity(cds, hz, disc, credit.DirtyPrice)
	if err != nil {
		t.Fatalf("RiskyAnnuity error: %v", err)
	}
	// Roughly 5 years of quarterly risky DV01 per unit coupon.
	if annuity <= 3 || annuity >= 6 {
		t.Fatalf("risky annuity %.4f outside plausible range", annuity)
	}

	// Riskier curve, smaller annuity.
	annuityHigh, err := pricer.RiskyAnnuity(cds, flatHazard(t, 0.10), disc, credit.DirtyPrice)
	if err != nil {
		t.Fatalf("RiskyAnnuity error: %v", err)
	}
	if annuityHigh >= annuity {
		t.Fatalf("annuity not decreasing in hazard: %.4f vs %.4f", annuityHigh, annuity)
	}
}

func TestPricerSensitivityPositiveForBuyer(t *testing.T) {
	t.Parallel()

	cds := testCDS(t)
	hz := flatHazard(t, 0.02)
	disc := discount.NewFlatZeroCurve(0.03)
	pricer := credit.NewPricer(credit.OGFix)

	dv, err := pricer.PresentValueSensitivity(cds, hz, disc, 0.01, credit.CleanPrice)
	if err != nil {
		t.Fatalf("PresentValueSensitivity error: %v", err)
	}
	// The protection buyer gains as default risk rises.
	if dv <= 0 {
		t.Fatalf("dPV/dh = %.6f, want positive", dv)
	}
}

func TestPricerInputValidation(t *testing.T) {
	t.Parallel()

	cds := testCDS(t)
	hz := flatHazard(t, 0.02)
	disc := discount.NewFlatZeroCurve(0.03)
	pricer := credit.NewPricer(credit.OGFix)

	if _, err := pricer.PresentValue(nil, hz, disc, 0.01, credit.CleanPrice); !errors.Is(err, credit.ErrInvalidInput) {
		t.Fatalf("nil instrument: got %v, want ErrInvalidInput", err)
	}
	if _, err := pricer.PresentValue(cds, nil, disc, 0.01, credit.CleanPrice); !errors.Is(err, credit.ErrNilCurve) {
		t.Fatalf("nil hazard curve: got %v, want ErrNilCurve", err)
	}
	if _, err := pricer.ProtectionLegPV(cds, hz, nil); !errors.Is(err, credit.ErrNilCurve) {
		t.Fatalf("nil discount curve: got %v, want ErrNilCurve", err)
	}
}
