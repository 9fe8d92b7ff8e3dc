package layer

import (
	"sort"

	"github.com/kegliz/qplay/qc/circuit"
	"github.com/kegliz/qplay/qc/qubitset"
)

// basisFixName names the single-qubit rotation that converts
// between the computational (Z) basis and the named basis, used by
// ToZBasis on the collapsing layers below. X is self-inverse under H; Y
// uses SQRT_X_DAG/SQRT_X, an inverse pair under this package's generator
// table.
func basisFixName(basis byte, forMeasurementBefore bool) (string, bool) {
	switch basis {
	case 'Z':
		return "", false
	case 'X':
		return "H", true
	case 'Y':
		if forMeasurementBefore {
			return "SQRT_X", true
		}
		return "SQRT_X_DAG", true
	default:
		return "", false
	}
}

// ResetLayer holds one reset operation per qubit, each in its own basis.
type ResetLayer struct {
	Targets map[int]byte
}

func NewResetLayer() *ResetLayer { return &ResetLayer{Targets: map[int]byte{}} }

func (*ResetLayer) isLayer() {}

func (r *ResetLayer) Touched() qubitset.Set {
	out := qubitset.Set{}
	for q := range r.Targets {
		out.Add(q)
	}
	return out
}

func (r *ResetLayer) Copy() Layer {
	out := NewResetLayer()
	for q, b := range r.Targets {
		out.Targets[q] = b
	}
	return out
}

func (r *ResetLayer) IsVacuous() bool              { return len(r.Targets) == 0 }
func (*ResetLayer) RequiresTickBefore() bool       { return true }
func (*ResetLayer) ImpliesEventualTickAfter() bool { return true }

func (r *ResetLayer) ToZBasis() []Layer {
	z := NewResetLayer()
	fix := NewRotationLayer()
	for q, b := range r.Targets {
		z.Targets[q] = 'Z'
		if name, ok := basisFixName(b, false); ok {
			fix.AppendNamedRotation(name, q)
		}
	}
	if fix.IsVacuous() {
		return []Layer{z}
	}
	return []Layer{z, fix}
}

func (r *ResetLayer) AppendInto(c *circuit.Circuit) {
	appendByBasis(c, r.Targets, map[byte]string{'X': "RX", 'Y': "RY", 'Z': "R"})
}

func appendByBasis(c *circuit.Circuit, targets map[int]byte, names map[byte]string) {
	byBasis := map[byte][]int{}
	for q, b := range targets {
		byBasis[b] = append(byBasis[b], q)
	}
	for _, b := range [3]byte{'X', 'Y', 'Z'} {
		qs := byBasis[b]
		if len(qs) == 0 {
			continue
		}
		sort.Ints(qs)
		gts := make([]circuit.GateTarget, len(qs))
		for i, q := range qs {
			gts[i] = circuit.Qubit(q)
		}
		*c = c.Append(names[b], gts)
	}
}

// MeasureLayer holds one single-qubit measurement per qubit, each its own
// basis and its own flip_result argument.
type MeasureLayer struct {
	Bases      []byte
	Targets    []int
	FlipResult []float64 // parallel to Targets; 0 when no flip_result arg
}

func NewMeasureLayer() *MeasureLayer { return &MeasureLayer{} }

func (*MeasureLayer) isLayer() {}

func (m *MeasureLayer) Touched() qubitset.Set {
	return qubitset.New(m.Targets...)
}

func (m *MeasureLayer) Copy() Layer {
	return &MeasureLayer{
		Bases:      append([]byte(nil), m.Bases...),
		Targets:    append([]int(nil), m.Targets...),
		FlipResult: append([]float64(nil), m.FlipResult...),
	}
}

func (m *MeasureLayer) IsVacuous() bool              { return len(m.Targets) == 0 }
func (*MeasureLayer) RequiresTickBefore() bool       { return true }
func (*MeasureLayer) ImpliesEventualTickAfter() bool { return true }

// Append adds one more measured qubit to the layer.
func (m *MeasureLayer) Append(basis byte, qubit int, flipResult float64) {
	m.Bases = append(m.Bases, basis)
	m.Targets = append(m.Targets, qubit)
	m.FlipResult = append(m.FlipResult, flipResult)
}

func (m *MeasureLayer) ToZBasis() []Layer {
	z := NewMeasureLayer()
	fix := NewRotationLayer()
	for i, q := range m.Targets {
		z.Append('Z', q, m.FlipResult[i])
		if name, ok := basisFixName(m.Bases[i], true); ok {
			fix.PrependNamedRotation(name, q)
		}
	}
	if fix.IsVacuous() {
		return []Layer{z}
	}
	return []Layer{fix, z}
}

func (m *MeasureLayer) AppendInto(c *circuit.Circuit) {
	byBasis := map[byte][]int{}
	flipByBasis := map[byte][]float64{}
	for i, b := range m.Bases {
		byBasis[b] = append(byBasis[b], m.Targets[i])
		flipByBasis[b] = append(flipByBasis[b], m.FlipResult[i])
	}
	names := map[byte]string{'X': "MX", 'Y': "MY", 'Z': "M"}
	for _, b := range [3]byte{'X', 'Y', 'Z'} {
		qs := byBasis[b]
		if len(qs) == 0 {
			continue
		}
		flips := flipByBasis[b]
		allSameFlip := true
		for _, f := range flips {
			if f != flips[0] {
				allSameFlip = false
				break
			}
		}
		if allSameFlip {
			gts := make([]circuit.GateTarget, len(qs))
			for i, q := range qs {
				gts[i] = circuit.Qubit(q)
			}
			if flips[0] != 0 {
				*c = c.Append(names[b], gts, flips[0])
			} else {
				*c = c.Append(names[b], gts)
			}
			continue
		}
		for i, q := range qs {
			if flips[i] != 0 {
				*c = c.Append(names[b], []circuit.GateTarget{circuit.Qubit(q)}, flips[i])
			} else {
				*c = c.Append(names[b], []circuit.GateTarget{circuit.Qubit(q)})
			}
		}
	}
}

// MppLayer holds a joint Pauli-product measurement per factor. Each entry
// of Products is the ordered, combiner-free list of Pauli-basis qubit
// targets making up one product.
type MppLayer struct {
	Products   [][]circuit.GateTarget
	FlipResult []float64
}

func NewMppLayer() *MppLayer { return &MppLayer{} }

func (*MppLayer) isLayer() {}

func (m *MppLayer) Touched() qubitset.Set {
	out := qubitset.Set{}
	for _, prod := range m.Products {
		for _, t := range prod {
			out.Add(t.QubitValue())
		}
	}
	return out
}

func (m *MppLayer) Copy() Layer {
	out := &MppLayer{FlipResult: append([]float64(nil), m.FlipResult...)}
	for _, prod := range m.Products {
		out.Products = append(out.Products, append([]circuit.GateTarget(nil), prod...))
	}
	return out
}

func (m *MppLayer) IsVacuous() bool              { return len(m.Products) == 0 }
func (*MppLayer) RequiresTickBefore() bool       { return true }
func (*MppLayer) ImpliesEventualTickAfter() bool { return true }

// AppendProduct adds one Pauli-product factor.
func (m *MppLayer) AppendProduct(targets []circuit.GateTarget, flipResult float64) {
	m.Products = append(m.Products, append([]circuit.GateTarget(nil), targets...))
	m.FlipResult = append(m.FlipResult, flipResult)
}

// ToZBasis converts weight-1 factors (a lone X/Y/Z target) the same way a
// MeasureLayer would; weight-2-and-up joint Pauli products require a
// multi-qubit entangling decomposition this simplified algebra doesn't
// carry, so those factors pass through unconverted.
func (m *MppLayer) ToZBasis() []Layer {
	z := &MppLayer{}
	fix := NewRotationLayer()
	for i, prod := range m.Products {
		if len(prod) == 1 && !prod[0].IsQubitTarget() {
			q := prod[0].QubitValue()
			z.AppendProduct([]circuit.GateTarget{circuit.PauliTarget('Z', q)}, m.FlipResult[i])
			if name, ok := basisFixName(prod[0].PauliBasis(), true); ok {
				fix.PrependNamedRotation(name, q)
			}
			continue
		}
		z.Products = append(z.Products, append([]circuit.GateTarget(nil), prod...))
		z.FlipResult = append(z.FlipResult, m.FlipResult[i])
	}
	if fix.IsVacuous() {
		return []Layer{z}
	}
	return []Layer{fix, z}
}

func (m *MppLayer) AppendInto(c *circuit.Circuit) {
	for i, prod := range m.Products {
		var targets []circuit.GateTarget
		for j, t := range prod {
			if j > 0 {
				targets = append(targets, circuit.Combiner())
			}
			targets = append(targets, t)
		}
		if m.FlipResult[i] != 0 {
			*c = c.Append("MPP", targets, m.FlipResult[i])
		} else {
			*c = c.Append("MPP", targets)
		}
	}
}
