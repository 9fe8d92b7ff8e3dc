package noise

import "github.com/kegliz/qplay/qc/gate"

// NoiseModel is the full calibration spec §4.2 describes: idle noise, a
// tick-boundary rule, per-gate and per-measurement-basis overrides, and the
// two "any Clifford" fallbacks. It is immutable after construction and safe
// to share across goroutines — NoisyCircuit never mutates it, keeping all
// per-call bookkeeping on a private noiseBuilder instead.
type NoiseModel struct {
	Oracle gate.Oracle

	IdleDepolarization                     float64
	TickNoise                               *NoiseRule
	AdditionalDepolarizationWaitingForMOrR  float64
	GateRules                               map[string]*NoiseRule
	MeasureRules                            map[string]*NoiseRule
	AnyMeasurementRule                      *NoiseRule
	AnyClifford1QRule                       *NoiseRule
	AnyClifford2QRule                       *NoiseRule
	AllowMultipleUsesOfAQubitInOneTick      bool
}

// Option configures a NoiseModel under construction.
type Option func(*NoiseModel) error

// WithIdleDepolarization sets the DEPOLARIZE1 probability applied to every
// qubit left idle within a moment.
func WithIdleDepolarization(p float64) Option {
	return func(m *NoiseModel) error { m.IdleDepolarization = p; return nil }
}

// WithTickNoise sets the rule applied once per TICK boundary to every
// system qubit not immune. rule must not set FlipResult.
func WithTickNoise(rule *NoiseRule) Option {
	return func(m *NoiseModel) error {
		if rule != nil && rule.FlipResult != 0 {
			return &TickNoiseFlipResultError{}
		}
		m.TickNoise = rule
		return nil
	}
}

// WithAdditionalDepolarizationWaitingForMOrR sets the extra DEPOLARIZE1
// probability applied (per the documented idle-set reuse, see engine.go)
// whenever some qubit in the moment resets or measures while others remain
// unresolved.
func WithAdditionalDepolarizationWaitingForMOrR(p float64) Option {
	return func(m *NoiseModel) error { m.AdditionalDepolarizationWaitingForMOrR = p; return nil }
}

// WithGateRule overrides the rule used for every occurrence of the named
// gate, taking priority over any "any Clifford"/measurement fallback.
func WithGateRule(name string, rule *NoiseRule) Option {
	return func(m *NoiseModel) error {
		if m.GateRules == nil {
			m.GateRules = map[string]*NoiseRule{}
		}
		m.GateRules[name] = rule
		return nil
	}
}

// WithMeasureRule overrides the rule used for measurements in the given
// Pauli basis ("X", "Y", "Z", or a product basis like "XX").
func WithMeasureRule(basis string, rule *NoiseRule) Option {
	return func(m *NoiseModel) error {
		if m.MeasureRules == nil {
			m.MeasureRules = map[string]*NoiseRule{}
		}
		m.MeasureRules[basis] = rule
		return nil
	}
}

// WithAnyMeasurementRule sets the fallback rule applied to any measuring
// operation with no more specific rule.
func WithAnyMeasurementRule(rule *NoiseRule) Option {
	return func(m *NoiseModel) error { m.AnyMeasurementRule = rule; return nil }
}

// WithAnyClifford1QRule sets the fallback rule applied to any single-qubit
// unitary with no more specific gate rule.
func WithAnyClifford1QRule(rule *NoiseRule) Option {
	return func(m *NoiseModel) error { m.AnyClifford1QRule = rule; return nil }
}

// WithAnyClifford2QRule sets the fallback rule applied to any two-qubit
// unitary with no more specific gate rule.
func WithAnyClifford2QRule(rule *NoiseRule) Option {
	return func(m *NoiseModel) error { m.AnyClifford2QRule = rule; return nil }
}

// WithAllowMultipleUsesOfAQubitInOneTick disables the collision check that
// otherwise rejects a moment touching the same qubit twice.
func WithAllowMultipleUsesOfAQubitInOneTick() Option {
	return func(m *NoiseModel) error { m.AllowMultipleUsesOfAQubitInOneTick = true; return nil }
}

// NewNoiseModel builds a NoiseModel against oracle, applying opts in order.
func NewNoiseModel(oracle gate.Oracle, opts ...Option) (*NoiseModel, error) {
	m := &NoiseModel{Oracle: oracle, GateRules: map[string]*NoiseRule{}, MeasureRules: map[string]*NoiseRule{}}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Si1000 builds the "SI1000" superconducting-inspired preset from a single
// parameter p, scaling idle noise, two-qubit gate noise, reset/measurement
// noise and flip probabilities off of it the way the original preset does.
func Si1000(oracle gate.Oracle, p float64) (*NoiseModel, error) {
	cliff1, err := depolarize1Rule(oracle, p/10)
	if err != nil {
		return nil, err
	}
	cliff2, err := depolarize2Rule(oracle, p)
	if err != nil {
		return nil, err
	}
	measureRule, err := NewNoiseRule(oracle, map[string]Probs{"X_ERROR": P(2 * p)}, nil, 5*p)
	if err != nil {
		return nil, err
	}
	resetRule, err := NewNoiseRule(oracle, nil, map[string]Probs{"X_ERROR": P(2 * p)}, 0)
	if err != nil {
		return nil, err
	}

	return NewNoiseModel(
		oracle,
		WithIdleDepolarization(p/10),
		WithAnyClifford1QRule(cliff1),
		WithAnyClifford2QRule(cliff2),
		WithAnyMeasurementRule(measureRule),
		WithGateRule("R", resetRule),
		WithGateRule("RX", resetRule),
		WithGateRule("RY", resetRule),
		WithAdditionalDepolarizationWaitingForMOrR(2*p),
	)
}

// UniformDepolarizing applies depolarizing probability p after every
// unitary gate (DEPOLARIZE1 after single-qubit gates; DEPOLARIZE2 after
// two-qubit gates, or DEPOLARIZE1 on each of their qubits when
// singleQubitOnly is true) and to every idle qubit, and gives every
// measurement a flip_result of p. Measurements get no depolarizing channel
// of their own, and resets get no noise.
func UniformDepolarizing(oracle gate.Oracle, p float64, singleQubitOnly bool) (*NoiseModel, error) {
	cliff1, err := depolarize1Rule(oracle, p)
	if err != nil {
		return nil, err
	}
	measureRule, err := NewNoiseRule(oracle, nil, nil, p)
	if err != nil {
		return nil, err
	}
	cliff2 := cliff1
	if !singleQubitOnly {
		cliff2, err = depolarize2Rule(oracle, p)
		if err != nil {
			return nil, err
		}
	}
	opts := []Option{
		WithIdleDepolarization(p),
		WithAnyClifford1QRule(cliff1),
		WithAnyClifford2QRule(cliff2),
		WithAnyMeasurementRule(measureRule),
	}
	return NewNoiseModel(oracle, opts...)
}
