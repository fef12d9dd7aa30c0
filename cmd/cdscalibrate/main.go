// Command cdscalibrate bootstraps a credit curve from a YAML market file and
// prints the calibrated knots.
//
// Example market file:
//
//	trade_date: 2026-08-20
//	recovery_rate: 0.4
//	formula: og_fix
//	arbitrage: ignore
//	discount:
//	  tenor_years: [0.5, 1, 2, 5, 10]
//	  zero_rates: [0.012, 0.015, 0.018, 0.022, 0.026]
//	pillars:
//	  - {tenor_months: 12, quote_type: par_spread, spread: 0.017}
//	  - {tenor_months: 60, quote_type: points_upfront, coupon: 0.01, upfront: -0.004}
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/meenmo/cdslib/credit"
	"github.com/meenmo/cdslib/discount"
	cdsconv "github.com/meenmo/cdslib/instruments/cds"
)

type marketFile struct {
	TradeDate    string  `yaml:"trade_date"`
	RecoveryRate float64 `yaml:"recovery_rate"`
	Formula      string  `yaml:"formula"`   // original_isda | markit_fix | og_fix
	Arbitrage    string  `yaml:"arbitrage"` // ignore | zero_hazard_rate | fail
	Discount     struct {
		TenorYears []float64 `yaml:"tenor_years"`
		ZeroRates  []float64 `yaml:"zero_rates"`
	} `yaml:"discount"`
	Pillars []pillarQuote `yaml:"pillars"`
}

type pillarQuote struct {
	TenorMonths int     `yaml:"tenor_months"`
	QuoteType   string  `yaml:"quote_type"` // par_spread | quoted_spread | points_upfront
	Spread      float64 `yaml:"spread"`
	Coupon      float64 `yaml:"coupon"`
	Upfront     float64 `yaml:"upfront"`
}

func main() {
	inputPath := flag.String("input", "", "YAML market file path")
	builderName := flag.String("builder", "fast", "Calibrator: fast or simple")
	verbose := flag.Bool("v", false, "Debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: "15:04:05",
		}),
	))

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: cdscalibrate -input <market.yaml> [-builder fast|simple]")
		os.Exit(2)
	}

	if err := run(*inputPath, *builderName); err != nil {
		slog.Error("calibration failed", "err", err)
		os.Exit(1)
	}
}

func run(path, builderName string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %q: %w", path, err)
	}
	var mkt marketFile
	if err := yaml.Unmarshal(raw, &mkt); err != nil {
		return fmt.Errorf("parse %q: %w", path, err)
	}

	tradeDate, err := time.Parse("2006-01-02", mkt.TradeDate)
	if err != nil {
		return fmt.Errorf("invalid trade_date %q: %w", mkt.TradeDate, err)
	}
	formula, err := parseFormula(mkt.Formula)
	if err != nil {
		return err
	}
	arb, err := parseArbitrage(mkt.Arbitrage)
	if err != nil {
		return err
	}

	disc, err := discount.NewZeroCurve(mkt.Discount.TenorYears, mkt.Discount.ZeroRates)
	if err != nil {
		return err
	}

	pillars := make([]*credit.CDS, 0, len(mkt.Pillars))
	quotes := make([]credit.Quote, 0, len(mkt.Pillars))
	for i, p := range mkt.Pillars {
		c, err := cdsconv.SpotCDS(tradeDate, p.TenorMonths, mkt.RecoveryRate)
		if err != nil {
			return fmt.Errorf("pillar %d: %w", i, err)
		}
		q, err := parseQuote(p)
		if err != nil {
			return fmt.Errorf("pillar %d: %w", i, err)
		}
		pillars = append(pillars, c)
		quotes = append(quotes, q)
	}

	var builder credit.CreditCurveBuilder
	switch builderName {
	case "fast":
		builder = credit.NewFastCreditCurveBuilder(formula, arb)
	case "simple":
		builder = credit.NewSimpleCreditCurveBuilder(formula, arb)
	default:
		return fmt.Errorf("unknown builder %q (want fast or simple)", builderName)
	}

	slog.Info("calibrating credit curve",
		"pillars", len(pillars),
		"formula", formula.String(),
		"arbitrage", arb.String(),
		"builder", builderName,
	)

	start := time.Now()
	curve, err := builder.CalibrateQuoted(pillars, quotes, disc)
	if err != nil {
		return err
	}
	slog.Debug("calibration done", "elapsed", time.Since(start))

	// Cross-check against the other implementation; the two paths must agree
	// to near machine precision.
	var other credit.CreditCurveBuilder
	if builderName == "fast" {
		other = credit.NewSimpleCreditCurveBuilder(formula, arb)
	} else {
		other = credit.NewFastCreditCurveBuilder(formula, arb)
	}
	if check, err := other.CalibrateQuoted(pillars, quotes, disc); err == nil {
		maxDiff := 0.0
		for i := 0; i < curve.NumKnots(); i++ {
			d := math.Abs(curve.KnotHazardRate(i) - check.KnotHazardRate(i))
			if d > maxDiff {
				maxDiff = d
			}
		}
		slog.Info("cross-implementation check", "max_rate_diff", maxDiff)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("#", "Tenor", "Maturity", "Knot (yrs)", "Hazard rate", "Survival")
	for i := 0; i < curve.NumKnots(); i++ {
		t := curve.KnotTime(i)
		table.Append(
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%dM", mkt.Pillars[i].TenorMonths),
			pillars[i].Maturity().Format("2006-01-02"),
			fmt.Sprintf("%.4f", t),
			fmt.Sprintf("%.6f", curve.KnotHazardRate(i)),
			fmt.Sprintf("%.6f", curve.SurvivalProbability(t)),
		)
	}
	return table.Render()
}

func parseFormula(s string) (credit.AccrualOnDefaultFormula, error) {
	switch s {
	case "", "og_fix":
		return credit.OGFix, nil
	case "original_isda":
		return credit.OriginalISDA, nil
	case "markit_fix":
		return credit.MarkitFix, nil
	default:
		return 0, fmt.Errorf("unknown formula %q", s)
	}
}

func parseArbitrage(s string) (credit.ArbitrageHandling, error) {
	switch s {
	case "", "ignore":
		return credit.ArbitrageIgnore, nil
	case "zero_hazard_rate":
		return credit.ArbitrageZeroHazardRate, nil
	case "fail":
		return credit.ArbitrageFail, nil
	default:
		return 0, fmt.Errorf("unknown arbitrage policy %q", s)
	}
}

func parseQuote(p pillarQuote) (credit.Quote, error) {
	switch p.QuoteType {
	case "par_spread":
		return credit.ParSpread(p.Spread), nil
	case "quoted_spread":
		return credit.QuotedSpread{Coupon: p.Coupon, Spread: p.Spread}, nil
	case "points_upfront":
		return credit.PointsUpfront{Coupon: p.Coupon, Upfront: p.Upfront}, nil
	default:
		return nil, fmt.Errorf("unknown quote_type %q", p.QuoteType)
	}
}
