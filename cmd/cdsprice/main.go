package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/meenmo/cdslib/credit"
	"github.com/meenmo/cdslib/discount"
	cdsconv "github.com/meenmo/cdslib/instruments/cds"
)

type priceInput struct {
	TaskID       string  `json:"task_id,omitempty"`
	TradeDate    string  `json:"trade_date"`
	RecoveryRate float64 `json:"recovery_rate"`
	Formula      string  `json:"formula,omitempty"` // original_isda | markit_fix | og_fix

	// Contract to value.
	TenorMonths int     `json:"tenor_months"`
	Coupon      float64 `json:"coupon"`

	// Market the credit curve is bootstrapped from.
	CurveTenorsMonths []int     `json:"curve_tenors_months"`
	CurveParSpreads   []float64 `json:"curve_par_spreads"`
	DiscountTenors    []float64 `json:"discount_tenor_years"`
	DiscountRates     []float64 `json:"discount_zero_rates"`
}

type priceOutput struct {
	TaskID          string  `json:"task_id,omitempty"`
	TradeDate       string  `json:"trade_date"`
	Maturity        string  `json:"maturity"`
	CleanPV         float64 `json:"clean_pv"`
	DirtyPV         float64 `json:"dirty_pv"`
	ProtectionLegPV float64 `json:"protection_leg_pv"`
	RiskyAnnuity    float64 `json:"risky_annuity"`
	ParSpread       float64 `json:"par_spread"`
	AccruedPremium  float64 `json:"accrued_premium"`
	Error           string  `json:"error,omitempty"`
}

func main() {
	inputPath := flag.String("input", "", "JSON input path (reads stdin if omitted)")
	help := flag.Bool("h", false, "Show help")
	flag.BoolVar(help, "help", false, "Show help")
	flag.Parse()

	if *help {
		fmt.Fprintln(os.Stderr, "Usage: cdsprice -input <path>")
		fmt.Fprintln(os.Stderr, "Bootstrap a credit curve from par spreads and value a standard CDS.")
		return
	}

	path := strings.TrimSpace(*inputPath)
	if path == "" {
		if stat, err := os.Stdin.Stat(); err == nil && (stat.Mode()&os.ModeCharDevice) != 0 {
			fmt.Fprintln(os.Stderr, "Usage: cdsprice -input <path>")
			os.Exit(2)
		}
	}

	raw, err := readInput(path)
	if err != nil {
		exitError(fmt.Sprintf("read input: %v", err))
	}

	inputs, isArray, err := parseInputs(raw)
	if err != nil {
		exitError(fmt.Sprintf("parse JSON: %v", err))
	}

	hadError := false
	outputs := make([]priceOutput, 0, len(inputs))
	for _, in := range inputs {
		out, err := process(in)
		if err != nil {
			hadError = true
			outputs = append(outputs, priceOutput{TaskID: in.TaskID, Error: err.Error()})
			continue
		}
		outputs = append(outputs, *out)
	}

	if isArray {
		b, _ := json.Marshal(outputs)
		fmt.Println(string(b))
	} else {
		b, _ := json.Marshal(outputs[0])
		fmt.Println(string(b))
	}

	if hadError {
		os.Exit(1)
	}
}

func process(in priceInput) (*priceOutput, error) {
	tradeDate, err := time.Parse("2006-01-02", in.TradeDate)
	if err != nil {
		return nil, fmt.Errorf("invalid trade_date: %v", err)
	}
	formula, err := parseFormula(in.Formula)
	if err != nil {
		return nil, err
	}

	disc, err := discount.NewZeroCurve(in.DiscountTenors, in.DiscountRates)
	if err != nil {
		return nil, err
	}

	pillars, err := cdsconv.SpotPillars(tradeDate, in.CurveTenorsMonths, in.RecoveryRate)
	if err != nil {
		return nil, err
	}
	builder := credit.NewFastCreditCurveBuilder(formula, credit.ArbitrageIgnore)
	curve, err := builder.Calibrate(pillars, in.CurveParSpreads, disc)
	if err != nil {
		return nil, err
	}

	target, err := cdsconv.SpotCDS(tradeDate, in.TenorMonths, in.RecoveryRate)
	if err != nil {
		return nil, err
	}

	pricer := credit.NewPricer(formula)
	cleanPV, err := pricer.PresentValue(target, curve, disc, in.Coupon, credit.CleanPrice)
	if err != nil {
		return nil, err
	}
	dirtyPV, err := pricer.PresentValue(target, curve, disc, in.Coupon, credit.DirtyPrice)
	if err != nil {
		return nil, err
	}
	protPV, err := pricer.ProtectionLegPV(target, curve, disc)
	if err != nil {
		return nil, err
	}
	annuity, err := pricer.RiskyAnnuity(target, curve, disc, credit.CleanPrice)
	if err != nil {
		return nil, err
	}
	parSpread, err := pricer.ParSpread(target, curve, disc)
	if err != nil {
		return nil, err
	}

	return &priceOutput{
		TaskID:          in.TaskID,
		TradeDate:       in.TradeDate,
		Maturity:        target.Maturity().Format("2006-01-02"),
		CleanPV:         cleanPV,
		DirtyPV:         dirtyPV,
		ProtectionLegPV: protPV,
		RiskyAnnuity:    annuity,
		ParSpread:       parSpread,
		AccruedPremium:  pricer.AccruedPremium(target, in.Coupon),
	}, nil
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

func readInput(path string) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	return io.ReadAll(os.Stdin)
}

func parseInputs(raw []byte) ([]priceInput, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, false, fmt.Errorf("empty input")
	}
	if trimmed[0] == '[' {
		var inputs []priceInput
		if err := json.Unmarshal(trimmed, &inputs); err != nil {
			return nil, true, err
		}
		if len(inputs) == 0 {
			return nil, true, fmt.Errorf("empty input array")
		}
		return inputs, true, nil
	}
	var input priceInput
	if err := json.Unmarshal(trimmed, &input); err != nil {
		return nil, false, err
	}
	return []priceInput{input}, false, nil
}

func exitError(msg string) {
	b, _ := json.Marshal(priceOutput{Error: msg})
	fmt.Println(string(b))
	os.Exit(1)
}
