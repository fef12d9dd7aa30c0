package credit

import (
	"math"

	"github.com/meenmo/cdslib/credit/config"
	"github.com/meenmo/cdslib/utils"
)

// FastCreditCurveBuilder implements the same contract as
// SimpleCreditCurveBuilder but precomputes, per pillar, everything that does
// not depend on the unknown hazard rate: discount factors at payment dates,
// accrual products, and the integration grids with their cumulative discount
// rates. Root-finder iterations then only re-evaluate survival probabilities.
//
// The grids and closed forms are shared with the simple path, so both produce
// the same hazard rates to near machine precision.
type FastCreditCurveBuilder struct {
	Formula   AccrualOnDefaultFormula
	Arbitrage ArbitrageHandling
}

// NewFastCreditCurveBuilder returns a fast builder with the given formula and
// arbitrage policy.
func NewFastCreditCurveBuilder(f AccrualOnDefaultFormula, a ArbitrageHandling) *FastCreditCurveBuilder {
	return &FastCreditCurveBuilder{Formula: f, Arbitrage: a}
}

// accCache holds one accrual period's hazard-independent integration state.
type accCache struct {
	grid  []float64
	rt    []float64
	ht    []float64 // scratch, reused across iterations
	start float64
	scale float64 // yearFrac / accrual span
}

// pillarPricer caches the hazard-independent parts of one pillar's PV.
type pillarPricer struct {
	lgd       float64
	coupon    float64
	upfront   float64
	accruedYF float64
	payAcc    bool

	premWeight []float64 // yearFrac * DF(payTime), future periods only
	premEffEnd []float64

	accs []accCache

	protGrid []float64
	protRT   []float64
	protHT   []float64 // scratch

	cfg config.Config
}

// newPillarPricer precomputes pillar state. knotTimes are the credit knot
// times present while this pillar is solved (pillars up to and including this
// one), so the grids match what the generic kernel would build.
func newPillarPricer(p *CDS, coupon, upfront float64, disc DiscountCurve, knotTimes []float64, cfg config.Config) *pillarPricer {
	pp := &pillarPricer{
		lgd:       p.lgd,
		coupon:    coupon,
		upfront:   upfront,
		accruedYF: p.accruedYF,
		payAcc:    p.params.PayAccruedOnDefault,
		cfg:       cfg,
	}

	for _, per := range p.periods {
		if per.payTime <= 0 {
			continue
		}
		pp.premWeight = append(pp.premWeight, per.yearFrac*disc.DF(per.payTime))
		pp.premEffEnd = append(pp.premEffEnd, per.effEnd)
	}

	if pp.payAcc {
		for _, per := range p.periods {
			lo := per.startTime
			if p.protStart > lo {
				lo = p.protStart
			}
			if per.effEnd <= lo {
				continue
			}
			grid := utils.MergeKnots(disc.NodeTimes(), knotTimes, lo, per.effEnd)
			rt := make([]float64, len(grid))
			for i, t := range grid {
				rt[i] = -math.Log(disc.DF(t))
			}
			pp.accs = append(pp.accs, accCache{
				grid:  grid,
				rt:    rt,
				ht:    make([]float64, len(grid)),
				start: per.startTime,
				scale: per.yearFrac / (per.effEnd - per.startTime),
			})
		}
	}

	pp.protGrid = utils.MergeKnots(disc.NodeTimes(), knotTimes, p.protStart, p.protEnd)
	pp.protRT = make([]float64, len(pp.protGrid))
	pp.protHT = make([]float64, len(pp.protGrid))
	for i, t := range pp.protGrid {
		pp.protRT[i] = -math.Log(disc.DF(t))
	}
	return pp
}

// residual returns PV(trial) - upfront for the cached pillar.
func (pp *pillarPricer) residual(trial *HazardCurve, f AccrualOnDefaultFormula) float64 {
	for i, t := range pp.protGrid {
		pp.protHT[i] = trial.CumulativeHazard(t)
	}
	prot := pp.lgd * protectionIntegral(pp.protHT, pp.protRT, pp.cfg.ProtectionTaylorThreshold)

	annuity := 0.0
	for i := range pp.premWeight {
		annuity += pp.premWeight[i] * trial.SurvivalProbability(pp.premEffEnd[i])
	}
	if pp.payAcc {
		for j := range pp.accs {
			a := &pp.accs[j]
			for i, t := range a.grid {
				a.ht[i] = trial.CumulativeHazard(t)
			}
			annuity += a.scale * accrualIntegral(f, a.grid, a.ht, a.rt, a.start, pp.cfg.AccrualTaylorThreshold)
		}
	}
	annuity -= pp.accruedYF

	return prot - pp.coupon*annuity - pp.upfront
}

func (b *FastCreditCurveBuilder) Calibrate(pillars []*CDS, parSpreads []float64, disc DiscountCurve) (*HazardCurve, error) {
	return b.CalibrateUpfront(pillars, parSpreads, make([]float64, len(parSpreads)), disc)
}

func (b *FastCreditCurveBuilder) CalibrateUpfront(pillars []*CDS, coupons, upfronts []float64, disc DiscountCurve) (*HazardCurve, error) {
	if err := validatePillars(pillars, disc); err != nil {
		return nil, err
	}
	if err := validateQuoteArrays(pillars, coupons, upfronts); err != nil {
		return nil, err
	}
	cfg := config.GetConfig()

	knotTimes := make([]float64, len(pillars))
	for i, p := range pillars {
		knotTimes[i] = p.protEnd
	}

	// One cached pricer per pillar, constructed lazily as the bootstrap
	// reaches it so its grid sees exactly the knots committed so far plus its
	// own.
	pricers := make([]*pillarPricer, len(pillars))
	residual := func(i int, trial *HazardCurve) float64 {
		if pricers[i] == nil {
			pricers[i] = newPillarPricer(pillars[i], coupons[i], upfronts[i], disc, knotTimes[:i+1], cfg)
		}
		return pricers[i].residual(trial, b.Formula)
	}
	return bootstrap(pillars, coupons, upfronts, b.Arbitrage, residual)
}

func (b *FastCreditCurveBuilder) CalibrateQuoted(pillars []*CDS, quotes []Quote, disc DiscountCurve) (*HazardCurve, error) {
	if err := validatePillars(pillars, disc); err != nil {
		return nil, err
	}
	coupons, upfronts, err := normalizeQuotes(b, b.Formula, pillars, quotes, disc)
	if err != nil {
		return nil, err
	}
	return b.CalibrateUpfront(pillars, coupons, upfronts, disc)
}

func (b *FastCreditCurveBuilder) CalibrateSingle(pillar *CDS, q Quote, disc DiscountCurve) (*HazardCurve, error) {
	return b.CalibrateQuoted([]*CDS{pillar}, []Quote{q}, disc)
}
