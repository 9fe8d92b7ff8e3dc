// Package circuit implements the QASM-like intermediate representation
// the rest of the toolkit operates over: gate targets, instructions,
// repeat blocks and the flat circuit that holds them.
package circuit

import "fmt"

// TargetKind distinguishes the different flavors a GateTarget can take.
type TargetKind int

const (
	// TargetQubit is a plain qubit index.
	TargetQubit TargetKind = iota
	// TargetPauliX/Y/Z are Pauli-basis qubit targets, as used by MPP and
	// two-qubit Clifford interactions.
	TargetPauliX
	TargetPauliY
	TargetPauliZ
	// TargetRec is a measurement-record back-reference (rec[-k]).
	TargetRec
	// TargetSweepBit is a reference to a classical sweep bit.
	TargetSweepBit
	// TargetCombiner ("*") joins adjacent Pauli factors in a joint
	// multi-Pauli measurement.
	TargetCombiner
)

// GateTarget is a single tagged target value, as described in spec §3.
type GateTarget struct {
	Kind  TargetKind
	Value int // qubit index (Qubit/Pauli*) or sweep-bit index (SweepBit)
	Rec   int // negative measurement-record offset, valid for TargetRec
}

// Qubit builds a plain qubit target.
func Qubit(q int) GateTarget { return GateTarget{Kind: TargetQubit, Value: q} }

// PauliTarget builds a Pauli-basis qubit target for the given basis.
func PauliTarget(basis byte, q int) GateTarget {
	switch basis {
	case 'X':
		return GateTarget{Kind: TargetPauliX, Value: q}
	case 'Y':
		return GateTarget{Kind: TargetPauliY, Value: q}
	case 'Z':
		return GateTarget{Kind: TargetPauliZ, Value: q}
	default:
		panic(fmt.Sprintf("circuit: unknown Pauli basis %q", basis))
	}
}

// RecTarget builds a measurement-record back-reference. offset must be
// negative, matching stim's rec[-k] convention.
func RecTarget(offset int) GateTarget {
	if offset >= 0 {
		panic("circuit: measurement record offset must be negative")
	}
	return GateTarget{Kind: TargetRec, Rec: offset}
}

// SweepBitTarget builds a reference to classical sweep bit index bit.
func SweepBitTarget(bit int) GateTarget {
	return GateTarget{Kind: TargetSweepBit, Value: bit}
}

// Combiner builds the "*" token that joins Pauli-product factors.
func Combiner() GateTarget { return GateTarget{Kind: TargetCombiner} }

func (t GateTarget) IsQubitTarget() bool            { return t.Kind == TargetQubit }
func (t GateTarget) IsXTarget() bool                { return t.Kind == TargetPauliX }
func (t GateTarget) IsYTarget() bool                { return t.Kind == TargetPauliY }
func (t GateTarget) IsZTarget() bool                { return t.Kind == TargetPauliZ }
func (t GateTarget) IsPauliTarget() bool            { return t.IsXTarget() || t.IsYTarget() || t.IsZTarget() }
func (t GateTarget) IsCombiner() bool               { return t.Kind == TargetCombiner }
func (t GateTarget) IsMeasurementRecordTarget() bool { return t.Kind == TargetRec }
func (t GateTarget) IsSweepBitTarget() bool         { return t.Kind == TargetSweepBit }

// IsClassicalTarget reports whether t refers to classical data (a
// measurement record or a sweep bit) rather than a physical qubit.
func (t GateTarget) IsClassicalTarget() bool {
	return t.IsMeasurementRecordTarget() || t.IsSweepBitTarget()
}

// QubitValue returns the qubit index carried by a qubit or Pauli target.
// It panics for classical or combiner targets, which carry no qubit.
func (t GateTarget) QubitValue() int {
	switch t.Kind {
	case TargetQubit, TargetPauliX, TargetPauliY, TargetPauliZ:
		return t.Value
	default:
		panic("circuit: target has no qubit value")
	}
}

// PauliBasis returns the basis letter ('X', 'Y' or 'Z') of a Pauli target.
func (t GateTarget) PauliBasis() byte {
	switch t.Kind {
	case TargetPauliX:
		return 'X'
	case TargetPauliY:
		return 'Y'
	case TargetPauliZ:
		return 'Z'
	default:
		panic("circuit: target is not a Pauli target")
	}
}
