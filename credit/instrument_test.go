package credit_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/meenmo/cdslib/credit"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func standardParams(tradeDate, maturity time.Time) credit.CDSParams {
	return credit.CDSParams{
		TradeDate:             tradeDate,
		Maturity:              maturity,
		StepInDays:            1,
		PaymentIntervalMonths: 3,
		AccrualDayCount:       "ACT/360",
		RecoveryRate:          0.4,
		PayAccruedOnDefault:   true,
		ProtectStart:          true,
	}
}

func TestNewCDSStandardSchedule(t *testing.T) {
	t.Parallel()

	// Trade 2026-08-20 (Thu); accrual starts on the preceding roll date
	// 2026-06-20, maturity 2031-09-20: 21 quarterly periods.
	cds, err := credit.NewCDS(standardParams(date(2026, 8, 20), date(2031, 9, 20)))
	if err != nil {
		t.Fatalf("NewCDS error: %v", err)
	}
	if got := cds.NumPeriods(); got != 21 {
		t.Fatalf("NumPeriods = %d, want 21", got)
	}

	// Protection: step-in T+1 is 2026-08-21 (t = 1/365), pushed back one day by
	// ProtectStart, so protection runs from the trade date itself.
	if got := cds.ProtectionStart(); math.Abs(got) > 1e-14 {
		t.Fatalf("ProtectionStart = %.15f, want 0", got)
	}
	wantEnd := (1857.0 + 1.0) / 365.0 // days to 2031-09-20, plus one protected day
	if got := cds.ProtectionEnd(); math.Abs(got-wantEnd) > 1e-14 {
		t.Fatalf("ProtectionEnd = %.15f, want %.15f", got, wantEnd)
	}

	// Accrued at step-in: first period starts on the adjusted roll date
	// 2026-06-22 (the 20th is a Saturday), so 60 days of ACT/360 accrual.
	if got := cds.AccruedYearFraction(); math.Abs(got-60.0/360.0) > 1e-14 {
		t.Fatalf("AccruedYearFraction = %.15f, want %.15f", got, 60.0/360.0)
	}

	if got := cds.LGD(); math.Abs(got-0.6) > 1e-15 {
		t.Fatalf("LGD = %g, want 0.6", got)
	}
}

func TestNewCDSShortMaturity(t *testing.T) {
	t.Parallel()

	// 2026-08-20 to 2026-12-20: accrual from 2026-06-20 gives two quarterly
	// periods (Jun-Sep, Sep-Dec).
	cds, err := credit.NewCDS(standardParams(date(2026, 8, 20), date(2026, 12, 20)))
	if err != nil {
		t.Fatalf("NewCDS error: %v", err)
	}
	if got := cds.NumPeriods(); got != 2 {
		t.Fatalf("NumPeriods = %d, want 2", got)
	}
}

func TestNewCDSWithoutProtectStart(t *testing.T) {
	t.Parallel()

	p := standardParams(date(2026, 8, 20), date(2027, 9, 20))
	p.ProtectStart = false
	cds, err := credit.NewCDS(p)
	if err != nil {
		t.Fatalf("NewCDS error: %v", err)
	}
	if got := cds.ProtectionStart(); math.Abs(got-1.0/365.0) > 1e-14 {
		t.Fatalf("ProtectionStart = %.15f, want %.15f", got, 1.0/365.0)
	}
	if got := cds.ProtectionEnd(); math.Abs(got-396.0/365.0) > 1e-14 {
		t.Fatalf("ProtectionEnd = %.15f, want %.15f", got, 396.0/365.0)
	}
}

func TestNewCDSValidation(t *testing.T) {
	t.Parallel()

	base := standardParams(date(2026, 8, 20), date(2031, 9, 20))

	zeroTrade := base
	zeroTrade.TradeDate = time.Time{}
	if _, err := credit.NewCDS(zeroTrade); !errors.Is(err, credit.ErrInvalidInput) {
		t.Fatalf("zero trade date: got %v, want ErrInvalidInput", err)
	}

	badMaturity := base
	badMaturity.Maturity = date(2026, 8, 20)
	if _, err := credit.NewCDS(badMaturity); !errors.Is(err, credit.ErrInvalidInput) {
		t.Fatalf("maturity at trade date: got %v, want ErrInvalidInput", err)
	}

	badRecovery := base
	badRecovery.RecoveryRate = 1.0
	if _, err := credit.NewCDS(badRecovery); !errors.Is(err, credit.ErrInvalidInput) {
		t.Fatalf("recovery 1.0: got %v, want ErrInvalidInput", err)
	}

	badInterval := base
	badInterval.PaymentIntervalMonths = -3
	if _, err := credit.NewCDS(badInterval); !errors.Is(err, credit.ErrInvalidInput) {
		t.Fatalf("negative interval: got %v, want ErrInvalidInput", err)
	}
}
