package noise

import (
	"fmt"
	"sort"

	"github.com/kegliz/qplay/qc/circuit"
)

// InvalidProbabilityError reports a NoiseRule probability argument outside
// [0, 1] or a disjoint-probability tuple summing to more than 1.
type InvalidProbabilityError struct {
	Gate string
	Arg  []float64
}

func (e *InvalidProbabilityError) Error() string {
	return fmt.Sprintf("noise: not a valid probability argument %v for gate %q", e.Arg, e.Gate)
}

// NotPureNoiseChannelError reports a NoiseRule.Before/After key that names
// a gate the oracle doesn't classify as a pure, non-measuring noise
// channel.
type NotPureNoiseChannelError struct{ Gate string }

func (e *NotPureNoiseChannelError) Error() string {
	return fmt.Sprintf("noise: not a pure noise channel: %q", e.Gate)
}

// TickNoiseFlipResultError reports a tick_noise rule with a non-zero
// flip_result, which spec §6 forbids structurally.
type TickNoiseFlipResultError struct{}

func (e *TickNoiseFlipResultError) Error() string {
	return "noise: tick_noise must not set flip_result"
}

// NoRuleError reports an operation for which no noise rule (and no
// explicit pass-through) could be resolved.
type NoRuleError struct{ Op circuit.Instruction }

func (e *NoRuleError) Error() string {
	return fmt.Sprintf("noise: no noise (or lack of noise) specified for %q", e.Op.Name)
}

// EmptyMiddleError reports that NoisyCircuitSkippingMPPBoundaries carved a
// prefix and suffix of annotation/MPP instructions out of a circuit with
// nothing left in between to instrument.
type EmptyMiddleError struct{}

func (e *EmptyMiddleError) Error() string {
	return "noise: skip_mpp_boundaries left no middle section to instrument"
}

// QubitCollisionError reports a moment in which a qubit was touched by
// more than one collapsing/Clifford operation without the
// allow_multiple_uses_of_a_qubit_in_one_tick override.
type QubitCollisionError struct {
	Qubits []int
	Moment []circuit.Instruction
}

func (e *QubitCollisionError) Error() string {
	qs := append([]int(nil), e.Qubits...)
	sort.Ints(qs)
	return fmt.Sprintf("noise: qubits operated on multiple times without a TICK in between: %v in moment of %d ops", qs, len(e.Moment))
}
