package layer

import (
	"sort"

	"github.com/kegliz/qplay/qc/circuit"
	"github.com/kegliz/qplay/qc/qubitset"
)

// EmptyLayer is the placeholder a builder opens after a TICK; it is
// replaced by whatever feed operation comes next, and is always vacuous.
type EmptyLayer struct{}

func NewEmptyLayer() *EmptyLayer { return &EmptyLayer{} }

func (*EmptyLayer) isLayer()                       {}
func (*EmptyLayer) Touched() qubitset.Set          { return qubitset.Set{} }
func (*EmptyLayer) Copy() Layer                    { return &EmptyLayer{} }
func (*EmptyLayer) IsVacuous() bool                { return true }
func (*EmptyLayer) RequiresTickBefore() bool       { return false }
func (*EmptyLayer) ImpliesEventualTickAfter() bool { return false }
func (e *EmptyLayer) ToZBasis() []Layer            { return []Layer{e} }
func (*EmptyLayer) AppendInto(*circuit.Circuit)    {}

// FuseWithNext always drops the empty layer, keeping next (if any).
func (*EmptyLayer) FuseWithNext(next Layer) ([]Layer, bool) {
	if next == nil {
		return []Layer{}, true
	}
	return []Layer{next}, true
}

// QubitCoordAnnotationLayer records QUBIT_COORDS(...) q declarations.
type QubitCoordAnnotationLayer struct {
	Coords map[int][]float64
}

func NewQubitCoordAnnotationLayer() *QubitCoordAnnotationLayer {
	return &QubitCoordAnnotationLayer{Coords: map[int][]float64{}}
}

func (*QubitCoordAnnotationLayer) isLayer() {}

func (q *QubitCoordAnnotationLayer) Touched() qubitset.Set {
	out := qubitset.Set{}
	for k := range q.Coords {
		out.Add(k)
	}
	return out
}

func (q *QubitCoordAnnotationLayer) Copy() Layer {
	out := NewQubitCoordAnnotationLayer()
	for k, v := range q.Coords {
		out.Coords[k] = append([]float64(nil), v...)
	}
	return out
}

func (q *QubitCoordAnnotationLayer) IsVacuous() bool                { return len(q.Coords) == 0 }
func (*QubitCoordAnnotationLayer) RequiresTickBefore() bool         { return false }
func (*QubitCoordAnnotationLayer) ImpliesEventualTickAfter() bool   { return false }
func (q *QubitCoordAnnotationLayer) ToZBasis() []Layer              { return []Layer{q} }

func (q *QubitCoordAnnotationLayer) AppendInto(c *circuit.Circuit) {
	qubits := make([]int, 0, len(q.Coords))
	for k := range q.Coords {
		qubits = append(qubits, k)
	}
	sort.Ints(qubits)
	for _, qb := range qubits {
		*c = c.Append("QUBIT_COORDS", []circuit.GateTarget{circuit.Qubit(qb)}, q.Coords[qb]...)
	}
}

// ShiftCoordAnnotationLayer records a SHIFT_COORDS(...) global coordinate
// offset, accumulated additively as passes merge consecutive shifts.
type ShiftCoordAnnotationLayer struct {
	Offset []float64
}

func NewShiftCoordAnnotationLayer() *ShiftCoordAnnotationLayer {
	return &ShiftCoordAnnotationLayer{}
}

func (*ShiftCoordAnnotationLayer) isLayer() {}

func (s *ShiftCoordAnnotationLayer) OffsetBy(args []float64) {
	for len(s.Offset) < len(args) {
		s.Offset = append(s.Offset, 0)
	}
	for i, a := range args {
		s.Offset[i] += a
	}
}

func (*ShiftCoordAnnotationLayer) Touched() qubitset.Set { return qubitset.Set{} }

func (s *ShiftCoordAnnotationLayer) Copy() Layer {
	return &ShiftCoordAnnotationLayer{Offset: append([]float64(nil), s.Offset...)}
}

func (s *ShiftCoordAnnotationLayer) IsVacuous() bool {
	for _, v := range s.Offset {
		if v != 0 {
			return false
		}
	}
	return true
}

func (*ShiftCoordAnnotationLayer) RequiresTickBefore() bool       { return false }
func (*ShiftCoordAnnotationLayer) ImpliesEventualTickAfter() bool { return false }
func (s *ShiftCoordAnnotationLayer) ToZBasis() []Layer            { return []Layer{s} }

func (s *ShiftCoordAnnotationLayer) AppendInto(c *circuit.Circuit) {
	if s.IsVacuous() {
		return
	}
	*c = c.Append("SHIFT_COORDS", nil, s.Offset...)
}

// DetObsAnnotationLayer holds a run of DETECTOR/OBSERVABLE_INCLUDE
// instructions, kept verbatim except for the record-offset bookkeeping
// rewriters apply when a measurement layer slides past them.
type DetObsAnnotationLayer struct {
	Entries []circuit.Instruction
}

func NewDetObsAnnotationLayer() *DetObsAnnotationLayer { return &DetObsAnnotationLayer{} }

func (*DetObsAnnotationLayer) isLayer()              {}
func (*DetObsAnnotationLayer) Touched() qubitset.Set { return qubitset.Set{} }

func (d *DetObsAnnotationLayer) Copy() Layer {
	out := &DetObsAnnotationLayer{}
	for _, e := range d.Entries {
		out.Entries = append(out.Entries, e.Copy())
	}
	return out
}

func (d *DetObsAnnotationLayer) IsVacuous() bool                { return len(d.Entries) == 0 }
func (*DetObsAnnotationLayer) RequiresTickBefore() bool         { return false }
func (*DetObsAnnotationLayer) ImpliesEventualTickAfter() bool   { return false }
func (d *DetObsAnnotationLayer) ToZBasis() []Layer              { return []Layer{d} }

func (d *DetObsAnnotationLayer) AppendInto(c *circuit.Circuit) {
	for _, e := range d.Entries {
		*c = append(*c, e.Copy())
	}
}

// ShiftRecOffsets adds delta to every measurement-record target in this
// layer's entries, used when a measurement layer slides past it and
// changes how far back its rec[-k] references must reach.
func (d *DetObsAnnotationLayer) ShiftRecOffsets(delta int) {
	for i, e := range d.Entries {
		targets := make([]circuit.GateTarget, len(e.Targets))
		for j, t := range e.Targets {
			if t.IsMeasurementRecordTarget() {
				targets[j] = circuit.RecTarget(t.Rec + delta)
			} else {
				targets[j] = t
			}
		}
		d.Entries[i] = circuit.NewInstruction(e.Name, targets, e.Args...)
	}
}
