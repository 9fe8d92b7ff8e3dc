// Package moment implements the Moment Splitter (spec §4.1): it partitions
// a flat circuit into the moments bounded by TICKs, splitting composite
// operations (joint Pauli-product measurements, classically-controlled
// two-qubit gates, immune-qubit targets) into per-target sub-instructions
// along the way.
package moment

import (
	"github.com/kegliz/qplay/qc/circuit"
	"github.com/kegliz/qplay/qc/gate"
	"github.com/kegliz/qplay/qc/qubitset"
)

// annotationOps carries metadata rather than physical action; it passes
// through the splitter unchanged and is never itself split.
var annotationOps = map[string]bool{
	"TICK":              true,
	"DETECTOR":          true,
	"OBSERVABLE_INCLUDE": true,
	"QUBIT_COORDS":      true,
	"SHIFT_COORDS":      true,
	"MPAD":              true,
}

// IsAnnotation reports whether name is one of the annotation instructions
// that the splitter (and the noise engine) treat as pure metadata.
func IsAnnotation(name string) bool { return annotationOps[name] }

// Item is one element of the split moment stream: either a passthrough
// repeat block or the split instructions making up one moment.
type Item struct {
	Repeat *circuit.RepeatBlock // non-nil for a passthrough repeat block
	Ops    []circuit.Instruction
}

// IsRepeat reports whether this item is a passthrough repeat block.
func (it Item) IsRepeat() bool { return it.Repeat != nil }

// Split partitions circ into the lazily-described sequence of spec §4.1,
// materialized eagerly per the design notes (the splitter's sequence is
// bounded and non-restartable, so there's no benefit to deferring work).
func Split(circ circuit.Circuit, oracle gate.Oracle, immuneQubits qubitset.Set) []Item {
	var items []Item
	var cur []circuit.Instruction

	flush := func() {
		if cur != nil {
			items = append(items, Item{Ops: cur})
		}
		cur = nil
	}

	for _, e := range circ {
		switch v := e.(type) {
		case *circuit.RepeatBlock:
			flush()
			items = append(items, Item{Repeat: v})
		case circuit.Instruction:
			if v.Name == "TICK" {
				flush()
				cur = []circuit.Instruction{}
				continue
			}
			if cur == nil {
				cur = []circuit.Instruction{}
			}
			cur = append(cur, splitIfNeeded(v, oracle, immuneQubits)...)
		}
	}
	if cur != nil {
		items = append(items, Item{Ops: cur})
	}
	return items
}

// OccursInClassicalControlSystem reports whether op is an annotation, or a
// two-qubit unitary every one of whose target pairs has at least one
// classical (measurement-record or sweep-bit) target — i.e. it only
// updates classical state and never touches the quantum device.
func OccursInClassicalControlSystem(op circuit.Instruction, oracle gate.Oracle) bool {
	if IsAnnotation(op.Name) {
		return true
	}
	data, err := oracle.Lookup(op.Name)
	if err != nil {
		return false
	}
	if data.IsUnitary && data.IsTwoQubitGate {
		for k := 0; k+1 < len(op.Targets); k += 2 {
			a, b := op.Targets[k], op.Targets[k+1]
			if !(a.IsClassicalTarget() || b.IsClassicalTarget()) {
				return false
			}
		}
		return true
	}
	return false
}

func splitIfNeeded(op circuit.Instruction, oracle gate.Oracle, immune qubitset.Set) []circuit.Instruction {
	if IsAnnotation(op.Name) {
		return []circuit.Instruction{op}
	}

	data, err := oracle.Lookup(op.Name)
	if err != nil {
		panic(err)
	}

	switch {
	case data.IsUnitary && data.IsTwoQubitGate:
		return splitTwoQubitUnitary(op, immune)
	case op.Name == "MPP":
		return splitMPP(op)
	case data.IsNoisyGate && !data.ProducesMeasurements:
		return []circuit.Instruction{op}
	case data.IsSingleQubitGate:
		return splitSingleQubit(op, immune)
	case data.IsTwoQubitGate:
		return splitTwoQubitNonUnitary(op, immune)
	default:
		panic("moment: don't know how to split instruction " + op.Name)
	}
}

func splitSingleQubit(op circuit.Instruction, immune qubitset.Set) []circuit.Instruction {
	if len(immune) == 0 {
		return []circuit.Instruction{op}
	}
	out := make([]circuit.Instruction, 0, len(op.Targets))
	for _, t := range op.Targets {
		out = append(out, circuit.NewInstruction(op.Name, []circuit.GateTarget{t}, op.Args...))
	}
	return out
}

func splitTwoQubitNonUnitary(op circuit.Instruction, immune qubitset.Set) []circuit.Instruction {
	if len(immune) == 0 {
		return []circuit.Instruction{op}
	}
	out := make([]circuit.Instruction, 0, len(op.Targets)/2)
	for k := 0; k+1 < len(op.Targets); k += 2 {
		out = append(out, circuit.NewInstruction(op.Name, op.Targets[k:k+2], op.Args...))
	}
	return out
}

func splitTwoQubitUnitary(op circuit.Instruction, immune qubitset.Set) []circuit.Instruction {
	needsSplit := len(immune) > 0
	if !needsSplit {
		for _, t := range op.Targets {
			if t.IsMeasurementRecordTarget() || t.IsSweepBitTarget() {
				needsSplit = true
				break
			}
		}
	}
	if !needsSplit {
		return []circuit.Instruction{op}
	}
	out := make([]circuit.Instruction, 0, len(op.Targets)/2)
	for k := 0; k+1 < len(op.Targets); k += 2 {
		out = append(out, circuit.NewInstruction(op.Name, op.Targets[k:k+2], op.Args...))
	}
	return out
}

// splitMPP splits a joint Pauli-product measurement into one instruction
// per Pauli-product factor, where a factor is a run of targets ending just
// before the next non-combiner target.
func splitMPP(op circuit.Instruction) []circuit.Instruction {
	var out []circuit.Instruction
	k := 0
	start := 0
	for k < len(op.Targets) {
		if k+1 == len(op.Targets) || !op.Targets[k+1].IsCombiner() {
			out = append(out, circuit.NewInstruction(op.Name, op.Targets[start:k+1], op.Args...))
			k++
			start = k
		} else {
			k += 2
		}
	}
	return out
}
