package credit

// ArbitrageHandling governs what happens when a solved knot implies a negative
// forward hazard rate, i.e. survival probability increasing with time.
type ArbitrageHandling int

const (
	// ArbitrageIgnore accepts the solved rate unconditionally.
	ArbitrageIgnore ArbitrageHandling = iota
	// ArbitrageZeroHazardRate clamps a negative forward hazard to zero, so
	// the new knot's survival probability equals the previous knot's.
	ArbitrageZeroHazardRate
	// ArbitrageFail raises an ArbitrageError identifying the offending pillar.
	ArbitrageFail
)

func (a ArbitrageHandling) String() string {
	switch a {
	case ArbitrageIgnore:
		return "IGNORE"
	case ArbitrageZeroHazardRate:
		return "ZERO_HAZARD_RATE"
	case ArbitrageFail:
		return "FAIL"
	default:
		return "UNKNOWN"
	}
}

// applyKnot validates the solved forward hazard for pillar i, returning the
// (possibly clamped) rate to commit.
func (a ArbitrageHandling) applyKnot(pillar int, forward float64) (float64, error) {
	if forward >= 0 || a == ArbitrageIgnore {
		return forward, nil
	}
	if a == ArbitrageZeroHazardRate {
		return 0, nil
	}
	return 0, &ArbitrageError{Pillar: pillar, ForwardRate: forward}
}
