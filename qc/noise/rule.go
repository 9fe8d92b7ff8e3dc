// Package noise implements the Noise Engine (spec §4.2): it rewrites a
// noiseless circuit into a noisy one by inserting calibrated noise channels
// around every operation, according to a configurable NoiseModel.
package noise

import (
	"sort"

	"github.com/kegliz/qplay/qc/gate"
)

// Probs is a disjoint-probability argument to a noise channel: a single
// value for most channels, or several disjoint probabilities for
// PAULI_CHANNEL_1/2.
type Probs []float64

// P builds a single-probability argument.
func P(p float64) Probs { return Probs{p} }

// NoiseRule pairs a set of noise channels to insert before and after an
// operation with an optional classical-result-flip probability for
// measurements. Keys of Before/After are noise-channel gate names; values
// are that channel's argument.
type NoiseRule struct {
	Before     map[string]Probs
	After      map[string]Probs
	FlipResult float64
}

// NewNoiseRule validates before/after against oracle (every key must be a
// pure, non-measuring noise channel, with an argument count and probability
// sum the oracle's gate data allows) and flip_result against [0, 1].
func NewNoiseRule(oracle gate.Oracle, before, after map[string]Probs, flipResult float64) (*NoiseRule, error) {
	if flipResult < 0 || flipResult > 1 {
		return nil, &InvalidProbabilityError{Gate: "flip_result", Arg: []float64{flipResult}}
	}
	for name, p := range before {
		if err := validateChannelArg(oracle, name, p); err != nil {
			return nil, err
		}
	}
	for name, p := range after {
		if err := validateChannelArg(oracle, name, p); err != nil {
			return nil, err
		}
	}
	return &NoiseRule{Before: cloneProbs(before), After: cloneProbs(after), FlipResult: flipResult}, nil
}

func validateChannelArg(oracle gate.Oracle, name string, p Probs) error {
	data, err := oracle.Lookup(name)
	if err != nil {
		return err
	}
	if !data.IsNoisyGate || data.ProducesMeasurements {
		return &NotPureNoiseChannelError{Gate: name}
	}
	if data.NumParensArgumentsRange == (gate.ArgRange{Min: 0, Max: 2}) {
		if len(p) != 1 || p[0] < 0 || p[0] > 1 {
			return &InvalidProbabilityError{Gate: name, Arg: p}
		}
		return nil
	}
	if !data.NumParensArgumentsRange.Contains(len(p)) {
		return &InvalidProbabilityError{Gate: name, Arg: p}
	}
	sum := 0.0
	for _, v := range p {
		sum += v
	}
	if sum < 0 || sum > 1 {
		return &InvalidProbabilityError{Gate: name, Arg: p}
	}
	return nil
}

func cloneProbs(m map[string]Probs) map[string]Probs {
	if m == nil {
		return nil
	}
	out := make(map[string]Probs, len(m))
	for k, v := range m {
		out[k] = append(Probs(nil), v...)
	}
	return out
}

// sortedRuleNames returns the keys of a Before/After map in a deterministic
// order, used wherever the engine must iterate a rule's channels.
func sortedRuleNames(m map[string]Probs) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func depolarize1Rule(oracle gate.Oracle, p float64) (*NoiseRule, error) {
	return NewNoiseRule(oracle, nil, map[string]Probs{"DEPOLARIZE1": P(p)}, 0)
}

func depolarize2Rule(oracle gate.Oracle, p float64) (*NoiseRule, error) {
	return NewNoiseRule(oracle, nil, map[string]Probs{"DEPOLARIZE2": P(p)}, 0)
}

func flipResultRule(flipP float64) *NoiseRule {
	return &NoiseRule{FlipResult: flipP}
}
