package noise

import (
	"fmt"
	"sort"

	"github.com/kegliz/qplay/qc/circuit"
	"github.com/kegliz/qplay/qc/moment"
	"github.com/kegliz/qplay/qc/qubitset"
)

// NoisyCircuit rewrites circ into a noisy circuit per spec §4.2. If
// systemQubits is nil, it defaults to every qubit index from 0 up to the
// largest one used anywhere in circ (circ.NumQubits()). If immuneQubits is
// nil, no qubit is immune. All per-call state
// (the PAULI_CHANNEL dedup flag) lives on a private builder, so the same
// *NoiseModel can drive concurrent calls safely.
func (m *NoiseModel) NoisyCircuit(circ circuit.Circuit, systemQubits, immuneQubits qubitset.Set) (circuit.Circuit, error) {
	return m.noisyCircuit(circ, systemQubits, immuneQubits)
}

// NoisyCircuitSkippingMPPBoundaries behaves like NoisyCircuit, except that
// the longest leading and trailing run of annotation-or-MPP instructions is
// carved out and left untouched, and only the middle section between them
// is noise-instrumented. This matches the "skip_mpp_boundaries" variant
// used when a circuit is sandwiched between hand-placed boundary
// measurements that must not themselves receive idle/moment noise. It
// fails with *EmptyMiddleError if nothing is left once both carve-outs are
// removed.
func (m *NoiseModel) NoisyCircuitSkippingMPPBoundaries(circ circuit.Circuit, systemQubits, immuneQubits qubitset.Set) (circuit.Circuit, error) {
	prefixEnd, suffixStart := mppBoundaryCarveOut(circ)
	if prefixEnd >= suffixStart {
		return nil, &EmptyMiddleError{}
	}

	b, err := m.newNoiseBuilder(circ[prefixEnd:suffixStart], systemQubits, immuneQubits)
	if err != nil {
		return nil, err
	}
	noisyMiddle, err := b.run(circ[prefixEnd:suffixStart])
	if err != nil {
		return nil, err
	}

	var result circuit.Circuit
	result = append(result, circ[:prefixEnd].Copy()...)
	result = append(result, noisyMiddle...)
	result = append(result, circ[suffixStart:].Copy()...)
	return result, nil
}

// mppBoundaryCarveOut finds the longest prefix and (independently) the
// longest suffix of circ made up entirely of annotation-or-MPP
// instructions, then backs the suffix boundary off past any TICKs at its
// own front so a moment-closing TICK stays attached to the middle section
// rather than to the carved-out suffix.
func mppBoundaryCarveOut(circ circuit.Circuit) (prefixEnd, suffixStart int) {
	n := len(circ)
	for prefixEnd < n && isAnnotationOrMPP(circ[prefixEnd]) {
		prefixEnd++
	}
	suffixStart = n
	for suffixStart > prefixEnd && isAnnotationOrMPP(circ[suffixStart-1]) {
		suffixStart--
	}
	for suffixStart < n {
		in, ok := circ[suffixStart].(circuit.Instruction)
		if !ok || in.Name != "TICK" {
			break
		}
		suffixStart++
	}
	return prefixEnd, suffixStart
}

func isAnnotationOrMPP(e circuit.Element) bool {
	in, ok := e.(circuit.Instruction)
	if !ok {
		return false
	}
	return moment.IsAnnotation(in.Name) || in.Name == "MPP"
}

func (m *NoiseModel) noisyCircuit(circ circuit.Circuit, systemQubits, immuneQubits qubitset.Set) (circuit.Circuit, error) {
	b, err := m.newNoiseBuilder(circ, systemQubits, immuneQubits)
	if err != nil {
		return nil, err
	}
	return b.run(circ)
}

func (m *NoiseModel) newNoiseBuilder(circ circuit.Circuit, systemQubits, immuneQubits qubitset.Set) (*noiseBuilder, error) {
	if systemQubits == nil {
		n := circ.NumQubits()
		systemQubits = qubitset.Set{}
		for q := 0; q < n; q++ {
			systemQubits.Add(q)
		}
	}
	if immuneQubits == nil {
		immuneQubits = qubitset.Set{}
	}
	return &noiseBuilder{model: m, systemQubits: systemQubits, immuneQubits: immuneQubits}, nil
}

// noiseBuilder carries the per-call state of one NoisyCircuit invocation:
// the dedup flag for bare PAULI_CHANNEL_1/2 passthrough, which the original
// scopes to a single top-level call, not to the NoiseModel itself.
type noiseBuilder struct {
	model             *NoiseModel
	systemQubits      qubitset.Set
	immuneQubits      qubitset.Set
	addedPauliChannel bool
}

func lastIsRepeatBlock(c circuit.Circuit) bool {
	if len(c) == 0 {
		return false
	}
	_, ok := c[len(c)-1].(*circuit.RepeatBlock)
	return ok
}

func (b *noiseBuilder) run(circ circuit.Circuit) (circuit.Circuit, error) {
	items := moment.Split(circ, b.model.Oracle, b.immuneQubits)

	var result circuit.Circuit
	for i, it := range items {
		if i > 0 && !lastIsRepeatBlock(result) {
			result = result.Append("TICK", nil)
		}
		if it.IsRepeat() {
			noisyBody, err := b.run(it.Repeat.Body)
			if err != nil {
				return nil, err
			}
			noisyBody = noisyBody.Append("TICK", nil)
			result = result.AppendRepeat(noisyBody, it.Repeat.Repetitions)
			continue
		}
		frag, err := b.appendNoisyMoment(it.Ops)
		if err != nil {
			return nil, err
		}
		result = append(result, frag...)
	}
	return result, nil
}

func isBarePauli(name string) bool {
	return name == "I" || name == "X" || name == "Y" || name == "Z"
}

func isBarePauliChannel(name string) bool {
	return name == "PAULI_CHANNEL_1" || name == "PAULI_CHANNEL_2"
}

// groupKey identifies one (channel name, argument) group of noise ops
// accumulated across a whole moment, so that e.g. every DEPOLARIZE1(0.001)
// inserted before distinct gates in the same moment ends up as one
// instruction with all of their targets instead of many tiny ones.
type groupKey struct {
	Name string
	Arg  []float64
	enc  string
}

func makeGroupKey(name string, arg []float64) groupKey {
	enc := name
	for _, a := range arg {
		enc += fmt.Sprintf("|%v", a)
	}
	return groupKey{Name: name, Arg: arg, enc: enc}
}

type groupedOps struct {
	order []groupKey
	byEnc map[string]circuit.Circuit
}

func newGroupedOps() *groupedOps { return &groupedOps{byEnc: map[string]circuit.Circuit{}} }

func (g *groupedOps) add(name string, arg []float64, targets []int) {
	k := makeGroupKey(name, arg)
	if _, ok := g.byEnc[k.enc]; !ok {
		g.order = append(g.order, k)
	}
	gts := make([]circuit.GateTarget, len(targets))
	for i, q := range targets {
		gts[i] = circuit.Qubit(q)
	}
	g.byEnc[k.enc] = g.byEnc[k.enc].Append(name, gts, arg...)
}

func (g *groupedOps) flush() circuit.Circuit {
	keys := append([]groupKey(nil), g.order...)
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Name != keys[j].Name {
			return keys[i].Name < keys[j].Name
		}
		for k := 0; k < len(keys[i].Arg) && k < len(keys[j].Arg); k++ {
			if keys[i].Arg[k] != keys[j].Arg[k] {
				return keys[i].Arg[k] < keys[j].Arg[k]
			}
		}
		return len(keys[i].Arg) < len(keys[j].Arg)
	})
	var out circuit.Circuit
	for _, k := range keys {
		out = append(out, g.byEnc[k.enc]...)
	}
	return out
}

// appendNoisyMoment implements the per-moment rewrite: every operation gets
// its before-noise grouped ahead of the moment, its after-noise grouped
// behind it, and the moment itself (the "grow" set) is emitted in between
// in its original order. Idle noise for qubits untouched by the moment is
// appended last.
func (b *noiseBuilder) appendNoisyMoment(ops []circuit.Instruction) (circuit.Circuit, error) {
	skipPauliTargets := qubitset.Set{}
	for _, op := range ops {
		data, err := b.model.Oracle.Lookup(op.Name)
		if err != nil {
			return nil, err
		}
		if data.IsUnitary && data.IsSingleQubitGate && !isBarePauli(op.Name) {
			for _, t := range op.Targets {
				skipPauliTargets.Add(t.QubitValue())
			}
		}
	}

	before := newGroupedOps()
	after := newGroupedOps()
	var grow circuit.Circuit

	for _, op := range ops {
		rule, err := b.ruleFor(op)
		if err != nil {
			return nil, err
		}
		if rule == nil {
			if isBarePauliChannel(op.Name) {
				if !b.addedPauliChannel {
					grow = append(grow, op)
					b.addedPauliChannel = true
				}
				continue
			}
			grow = append(grow, op)
			continue
		}

		if isBarePauli(op.Name) {
			var newTargets, skipped []circuit.GateTarget
			for _, t := range op.Targets {
				if skipPauliTargets.Contains(t.QubitValue()) {
					skipped = append(skipped, t)
				} else {
					newTargets = append(newTargets, t)
					skipPauliTargets.Add(t.QubitValue())
				}
			}
			if len(skipped) > 0 {
				grow = append(grow, circuit.NewInstruction(op.Name, skipped, op.Args...))
			}
			if len(newTargets) > 0 {
				newOp := circuit.NewInstruction(op.Name, newTargets, op.Args...)
				if err := b.appendNoisyVersionOf(rule, newOp, &grow, before, after); err != nil {
					return nil, err
				}
			}
			continue
		}

		if err := b.appendNoisyVersionOf(rule, op, &grow, before, after); err != nil {
			return nil, err
		}
	}

	var result circuit.Circuit
	result = append(result, before.flush()...)
	result = append(result, grow...)
	result = append(result, after.flush()...)

	idle, err := b.appendIdleError(ops)
	if err != nil {
		return nil, err
	}
	result = append(result, idle...)
	return result, nil
}

func (b *noiseBuilder) appendNoisyVersionOf(rule *NoiseRule, op circuit.Instruction, grow *circuit.Circuit, before, after *groupedOps) error {
	for _, t := range op.Targets {
		if !(t.IsQubitTarget() || t.IsPauliTarget()) {
			continue
		}
		if b.immuneQubits.Contains(t.QubitValue()) {
			*grow = append(*grow, op)
			return nil
		}
	}

	args := op.Args
	if rule.FlipResult != 0 {
		data, err := b.model.Oracle.Lookup(op.Name)
		if err != nil {
			return err
		}
		if !data.ProducesMeasurements {
			return fmt.Errorf("noise: flip_result rule applied to non-measuring gate %q", op.Name)
		}
		if len(args) != 0 {
			return fmt.Errorf("noise: %q already carries an argument, can't apply flip_result", op.Name)
		}
		args = []float64{rule.FlipResult}
	}
	*grow = append(*grow, circuit.NewInstruction(op.Name, op.Targets, args...))

	rawTargets := op.QubitTargets()
	for _, name := range sortedRuleNames(rule.Before) {
		before.add(name, rule.Before[name], rawTargets)
	}
	for _, name := range sortedRuleNames(rule.After) {
		after.add(name, rule.After[name], rawTargets)
	}
	return nil
}

// measureBasisOf returns the Pauli-product basis string of a measuring
// operation (e.g. "Z" for M, "XX" for MXX, computed from targets for MPP).
func measureBasisOf(op circuit.Instruction) (string, bool) {
	switch op.Name {
	case "M", "MZ", "MR":
		return "Z", true
	case "MX", "MRX":
		return "X", true
	case "MY", "MRY":
		return "Y", true
	case "MZZ":
		return "ZZ", true
	case "MXX":
		return "XX", true
	case "MYY":
		return "YY", true
	case "MPP":
		basis := make([]byte, 0, len(op.Targets))
		for k := 0; k < len(op.Targets); k += 2 {
			basis = append(basis, op.Targets[k].PauliBasis())
		}
		return string(basis), true
	default:
		return "", false
	}
}

func measureResetNames(name string) (measureName, resetName string, ok bool) {
	switch name {
	case "MR":
		return "M", "R", true
	case "MRX":
		return "MX", "RX", true
	case "MRY":
		return "MY", "RY", true
	default:
		return "", "", false
	}
}

// ruleFor resolves the noise rule for op, in the priority order spec §4.2
// documents: classical control and bare PAULI_CHANNEL ops get no rule
// (handled upstream of their own noise, never re-noised); gate_rules; the
// matching any_clifford rule; measure_rules; any_measurement_rule; and
// finally, for measure-and-reset composites, a rule synthesized from the
// equivalent split M + R rules.
func (b *noiseBuilder) ruleFor(op circuit.Instruction) (*NoiseRule, error) {
	if moment.OccursInClassicalControlSystem(op, b.model.Oracle) {
		return nil, nil
	}
	if isBarePauliChannel(op.Name) {
		return nil, nil
	}
	if r, ok := b.model.GateRules[op.Name]; ok {
		return r, nil
	}

	data, err := b.model.Oracle.Lookup(op.Name)
	if err != nil {
		return nil, err
	}

	if b.model.AnyClifford1QRule != nil && data.IsUnitary && data.IsSingleQubitGate {
		return b.model.AnyClifford1QRule, nil
	}
	if b.model.AnyClifford2QRule != nil && data.IsUnitary && data.IsTwoQubitGate {
		return b.model.AnyClifford2QRule, nil
	}

	if basis, ok := measureBasisOf(op); ok {
		if r, ok2 := b.model.MeasureRules[basis]; ok2 {
			return r, nil
		}
	}
	if b.model.AnyMeasurementRule != nil && data.ProducesMeasurements && !data.IsReset {
		return b.model.AnyMeasurementRule, nil
	}

	if data.IsReset && data.ProducesMeasurements {
		measureName, resetName, ok := measureResetNames(op.Name)
		if !ok {
			return nil, &NoRuleError{Op: op}
		}
		resetRule, err := b.ruleFor(circuit.NewInstruction(resetName, op.Targets))
		if err != nil {
			return nil, err
		}
		measureRule, err := b.ruleFor(circuit.NewInstruction(measureName, op.Targets))
		if err != nil {
			return nil, err
		}
		// Matches the reference behavior precisely: the synthesized rule's
		// before/after noise comes entirely from the reset half, and only
		// flip_result comes from the measurement half. A split M rule's own
		// before/after noise is not applied to MR/MRX/MRY.
		synth := &NoiseRule{}
		if resetRule != nil {
			synth.Before, synth.After = resetRule.Before, resetRule.After
		}
		if measureRule != nil {
			synth.FlipResult = measureRule.FlipResult
		}
		return synth, nil
	}

	if data.IsReset {
		return nil, nil
	}

	return nil, &NoRuleError{Op: op}
}

// appendIdleError classifies every qubit touched by ops (collapsing,
// Clifford-unitary, or bare-Pauli), checks for same-moment qubit reuse,
// and appends idle/tick/wait-for-reset-or-measurement noise for the
// remaining system qubits.
func (b *noiseBuilder) appendIdleError(ops []circuit.Instruction) (circuit.Circuit, error) {
	collapseQubits := qubitset.Set{}
	cliffordQubits := qubitset.Set{}
	usage := map[int]int{}

	addUsage := func(set qubitset.Set, qs []int) {
		for _, q := range qs {
			set.Add(q)
			usage[q]++
		}
	}

	var pauliQubits []int
	for _, op := range ops {
		if moment.OccursInClassicalControlSystem(op, b.model.Oracle) {
			continue
		}
		data, err := b.model.Oracle.Lookup(op.Name)
		if err != nil {
			return nil, err
		}
		switch {
		case data.IsReset || data.ProducesMeasurements:
			addUsage(collapseQubits, op.QubitTargets())
		case isBarePauli(op.Name):
			pauliQubits = append(pauliQubits, op.QubitTargets()...)
		case data.IsUnitary:
			addUsage(cliffordQubits, op.QubitTargets())
		case isBarePauliChannel(op.Name):
			continue
		default:
			return nil, fmt.Errorf("noise: unexpected op in idle classification: %q", op.Name)
		}
	}
	for _, q := range pauliQubits {
		if usage[q] == 0 {
			usage[q] = 1
		}
	}

	if !b.model.AllowMultipleUsesOfAQubitInOneTick {
		var collided []int
		for q, n := range usage {
			if n > 1 {
				collided = append(collided, q)
			}
		}
		if len(collided) > 0 {
			sort.Ints(collided)
			return nil, &QubitCollisionError{Qubits: collided, Moment: ops}
		}
	}

	busy := qubitset.Union(collapseQubits, cliffordQubits, qubitset.New(pauliQubits...))
	idle := b.systemQubits.Sub(busy).Sub(b.immuneQubits)
	waitingForMOrR := b.systemQubits.Sub(collapseQubits).Sub(b.immuneQubits)

	var out circuit.Circuit
	if len(idle) > 0 && b.model.IdleDepolarization > 0 {
		out = appendToQubits(out, "DEPOLARIZE1", idle.Sorted(), b.model.IdleDepolarization)
	}
	// The extra wait-for-reset-or-measurement noise is gated on whether any
	// qubit is still waiting, but — matching the original's own behavior —
	// it is applied to the idle set, not the (generally larger) waiting set.
	if len(collapseQubits) > 0 && len(waitingForMOrR) > 0 && b.model.AdditionalDepolarizationWaitingForMOrR > 0 {
		out = appendToQubits(out, "DEPOLARIZE1", idle.Sorted(), b.model.AdditionalDepolarizationWaitingForMOrR)
	}

	if b.model.TickNoise != nil {
		tickTargets := b.systemQubits.Sub(b.immuneQubits).Sorted()
		for _, name := range sortedRuleNames(b.model.TickNoise.Before) {
			out = appendToQubits(out, name, tickTargets, b.model.TickNoise.Before[name]...)
		}
		for _, name := range sortedRuleNames(b.model.TickNoise.After) {
			out = appendToQubits(out, name, tickTargets, b.model.TickNoise.After[name]...)
		}
	}
	return out, nil
}

func appendToQubits(c circuit.Circuit, name string, qubits []int, args ...float64) circuit.Circuit {
	if len(qubits) == 0 {
		return c
	}
	targets := make([]circuit.GateTarget, len(qubits))
	for i, q := range qubits {
		targets[i] = circuit.Qubit(q)
	}
	return c.Append(name, targets, args...)
}
