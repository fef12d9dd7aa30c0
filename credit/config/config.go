package config

// Config holds solver and formula parameters for credit curve calibration.
// These were previously hardcoded magic numbers throughout the codebase.
type Config struct {
	// ConvergenceTolerance is the absolute PV tolerance (per unit notional)
	// for Newton-Raphson convergence during bootstrap. Must sit above the
	// evaluation noise of the PV closed forms (~1e-13 for long or inverted
	// term structures) or the solver reports spurious failures.
	ConvergenceTolerance float64

	// MaxSolverIterations is the iteration budget per pillar. Exceeding it is
	// a hard calibration failure, not a retry.
	MaxSolverIterations int

	// DerivativeThreshold is the minimum derivative magnitude. Below this,
	// Newton iteration falls back to bisection to avoid division by near-zero.
	DerivativeThreshold float64

	// FiniteDifferenceStep is the hazard-rate bump used for the central
	// finite-difference PV sensitivity.
	FiniteDifferenceStep float64

	// BracketExpansion is the multiplicative step used when widening the
	// hazard-rate bracket around the initial guess.
	BracketExpansion float64

	// MaxBracketExpansions bounds the bracket-widening loop.
	MaxBracketExpansions int

	// AccrualTaylorThreshold is the |dh+dr| level below which the MarkitFix
	// and OGFix accrual-on-default formulae switch from the closed form to the
	// Taylor-series expansion. Validated against the flat-hazard reference
	// vectors in the accrual tests.
	AccrualTaylorThreshold float64

	// ProtectionTaylorThreshold plays the same role for the protection leg
	// closed form.
	ProtectionTaylorThreshold float64
}

// DefaultConfig provides production-ready default values.
var DefaultConfig = Config{
	ConvergenceTolerance:      1e-12,
	MaxSolverIterations:       100,
	DerivativeThreshold:       1e-15,
	FiniteDifferenceStep:      1e-7,
	BracketExpansion:          2.0,
	MaxBracketExpansions:      60,
	AccrualTaylorThreshold:    1e-5,
	ProtectionTaylorThreshold: 1e-5,
}

// cfg is the active configuration. Defaults to DefaultConfig.
var cfg = DefaultConfig

// SetConfig replaces the active configuration.
func SetConfig(c Config) {
	cfg = c
}

// GetConfig returns the active configuration.
func GetConfig() Config {
	return cfg
}
