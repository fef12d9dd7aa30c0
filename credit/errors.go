package credit

import (
	"errors"
	"fmt"
)

var (
	// ErrNilCurve is returned when a required curve argument is nil.
	ErrNilCurve = errors.New("nil curve")

	// ErrInvalidInput wraps all input-validation failures detected before any
	// numeric work starts (pillar ordering, array lengths, recovery bounds).
	ErrInvalidInput = errors.New("invalid calibration input")
)

// ConvergenceError reports a root-finding failure for a single pillar. It is
// fatal for the whole calibration call; there is no partial-success mode.
type ConvergenceError struct {
	Pillar     int
	Iterations int
	Residual   float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("calibration did not converge at pillar %d after %d iterations (residual %.3e)",
		e.Pillar, e.Iterations, e.Residual)
}

// ArbitrageError reports a solved knot implying non-monotonic survival
// probability under the ArbitrageFail policy.
type ArbitrageError struct {
	Pillar      int
	ForwardRate float64
}

func (e *ArbitrageError) Error() string {
	return fmt.Sprintf("negative forward hazard rate %.6e at pillar %d: curve is not arbitrage-free",
		e.ForwardRate, e.Pillar)
}
