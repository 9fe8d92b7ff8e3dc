package layer

import (
	"sort"

	"github.com/kegliz/qplay/qc/circuit"
	"github.com/kegliz/qplay/qc/qubitset"
)

// pairGateNames maps a (basis1, basis2) control/target Pauli pair to the
// stim two-qubit gate name that implements it.
var pairGateNames = map[[2]byte]string{
	{'Z', 'X'}: "CX", {'Z', 'Y'}: "CY", {'Z', 'Z'}: "CZ",
	{'X', 'X'}: "XCX", {'X', 'Y'}: "XCY", {'X', 'Z'}: "XCZ",
	{'Y', 'X'}: "YCX", {'Y', 'Y'}: "YCY", {'Y', 'Z'}: "YCZ",
}

var nameToPair = func() map[string][2]byte {
	out := map[string][2]byte{}
	for k, v := range pairGateNames {
		out[v] = k
	}
	return out
}()

// InteractLayer holds parallel two-qubit controlled-Pauli interactions:
// pair i is Targets1[i] (basis Bases1[i]) interacting with Targets2[i]
// (basis Bases2[i]).
type InteractLayer struct {
	Targets1, Targets2 []int
	Bases1, Bases2     []byte
}

func NewInteractLayer() *InteractLayer { return &InteractLayer{} }

func (*InteractLayer) isLayer() {}

func (i *InteractLayer) Touched() qubitset.Set {
	return qubitset.New(append(append([]int(nil), i.Targets1...), i.Targets2...)...)
}

func (i *InteractLayer) Copy() Layer {
	return &InteractLayer{
		Targets1: append([]int(nil), i.Targets1...),
		Targets2: append([]int(nil), i.Targets2...),
		Bases1:   append([]byte(nil), i.Bases1...),
		Bases2:   append([]byte(nil), i.Bases2...),
	}
}

func (i *InteractLayer) IsVacuous() bool              { return len(i.Targets1) == 0 }
func (*InteractLayer) RequiresTickBefore() bool       { return false }
func (*InteractLayer) ImpliesEventualTickAfter() bool { return false }
func (i *InteractLayer) ToZBasis() []Layer            { return []Layer{i} }

// Append adds one interacting pair.
func (i *InteractLayer) Append(basis1 byte, q1 int, basis2 byte, q2 int) {
	i.Bases1 = append(i.Bases1, basis1)
	i.Targets1 = append(i.Targets1, q1)
	i.Bases2 = append(i.Bases2, basis2)
	i.Targets2 = append(i.Targets2, q2)
}

func (i *InteractLayer) AppendInto(c *circuit.Circuit) {
	byName := map[string][][2]int{}
	var order []string
	for k := range i.Targets1 {
		key := [2]byte{i.Bases1[k], i.Bases2[k]}
		name, ok := pairGateNames[key]
		if !ok {
			continue
		}
		if _, seen := byName[name]; !seen {
			order = append(order, name)
		}
		byName[name] = append(byName[name], [2]int{i.Targets1[k], i.Targets2[k]})
	}
	sort.Strings(order)
	for _, name := range order {
		pairs := byName[name]
		targets := make([]circuit.GateTarget, 0, 2*len(pairs))
		for _, p := range pairs {
			targets = append(targets, circuit.Qubit(p[0]), circuit.Qubit(p[1]))
		}
		*c = c.Append(name, targets)
	}
}

// FeedbackLayer holds classically-controlled Pauli flips: a rec[-k] (or
// sweep bit) target controlling a Pauli flip of a physical qubit, always
// normalized classical-control-first.
type FeedbackLayer struct {
	Controls []circuit.GateTarget // rec or sweep-bit targets
	Targets  []int
	Basis    []byte // which Pauli flip: 'X', 'Y', or 'Z'
}

func NewFeedbackLayer() *FeedbackLayer { return &FeedbackLayer{} }

func (*FeedbackLayer) isLayer() {}

func (f *FeedbackLayer) Touched() qubitset.Set { return qubitset.New(f.Targets...) }

func (f *FeedbackLayer) Copy() Layer {
	return &FeedbackLayer{
		Controls: append([]circuit.GateTarget(nil), f.Controls...),
		Targets:  append([]int(nil), f.Targets...),
		Basis:    append([]byte(nil), f.Basis...),
	}
}

func (f *FeedbackLayer) IsVacuous() bool              { return len(f.Targets) == 0 }
func (*FeedbackLayer) RequiresTickBefore() bool       { return false }
func (*FeedbackLayer) ImpliesEventualTickAfter() bool { return false }
func (f *FeedbackLayer) ToZBasis() []Layer            { return []Layer{f} }

func (f *FeedbackLayer) Append(control circuit.GateTarget, basis byte, qubit int) {
	f.Controls = append(f.Controls, control)
	f.Basis = append(f.Basis, basis)
	f.Targets = append(f.Targets, qubit)
}

func (f *FeedbackLayer) AppendInto(c *circuit.Circuit) {
	names := map[byte]string{'X': "CX", 'Y': "CY", 'Z': "CZ"}
	for i := range f.Targets {
		*c = c.Append(names[f.Basis[i]], []circuit.GateTarget{f.Controls[i], circuit.Qubit(f.Targets[i])})
	}
}

// SwapLayer holds parallel SWAP pairs.
type SwapLayer struct{ Targets1, Targets2 []int }

func NewSwapLayer() *SwapLayer { return &SwapLayer{} }

func (*SwapLayer) isLayer() {}
func (s *SwapLayer) Touched() qubitset.Set {
	return qubitset.New(append(append([]int(nil), s.Targets1...), s.Targets2...)...)
}
func (s *SwapLayer) Copy() Layer {
	return &SwapLayer{Targets1: append([]int(nil), s.Targets1...), Targets2: append([]int(nil), s.Targets2...)}
}
func (s *SwapLayer) IsVacuous() bool              { return len(s.Targets1) == 0 }
func (*SwapLayer) RequiresTickBefore() bool       { return false }
func (*SwapLayer) ImpliesEventualTickAfter() bool { return false }
func (s *SwapLayer) ToZBasis() []Layer            { return []Layer{s} }
func (s *SwapLayer) AppendInto(c *circuit.Circuit) {
	targets := make([]circuit.GateTarget, 0, 2*len(s.Targets1))
	for i := range s.Targets1 {
		targets = append(targets, circuit.Qubit(s.Targets1[i]), circuit.Qubit(s.Targets2[i]))
	}
	if len(targets) > 0 {
		*c = c.Append("SWAP", targets)
	}
}

// ISwapLayer holds parallel ISWAP (or ISWAP_DAG) pairs.
type ISwapLayer struct {
	Targets1, Targets2 []int
	Dagger             bool
}

func NewISwapLayer() *ISwapLayer { return &ISwapLayer{} }

func (*ISwapLayer) isLayer() {}
func (s *ISwapLayer) Touched() qubitset.Set {
	return qubitset.New(append(append([]int(nil), s.Targets1...), s.Targets2...)...)
}
func (s *ISwapLayer) Copy() Layer {
	return &ISwapLayer{Targets1: append([]int(nil), s.Targets1...), Targets2: append([]int(nil), s.Targets2...), Dagger: s.Dagger}
}
func (s *ISwapLayer) IsVacuous() bool              { return len(s.Targets1) == 0 }
func (*ISwapLayer) RequiresTickBefore() bool       { return false }
func (*ISwapLayer) ImpliesEventualTickAfter() bool { return false }
func (s *ISwapLayer) ToZBasis() []Layer            { return []Layer{s} }
func (s *ISwapLayer) AppendInto(c *circuit.Circuit) {
	targets := make([]circuit.GateTarget, 0, 2*len(s.Targets1))
	for i := range s.Targets1 {
		targets = append(targets, circuit.Qubit(s.Targets1[i]), circuit.Qubit(s.Targets2[i]))
	}
	if len(targets) == 0 {
		return
	}
	name := "ISWAP"
	if s.Dagger {
		name = "ISWAP_DAG"
	}
	*c = c.Append(name, targets)
}

// InteractSwapLayer models CXSWAP/SWAPCX: a controlled-Pauli interaction
// immediately followed by a swap of the same two qubits.
type InteractSwapLayer struct {
	Interact *InteractLayer
	Swap     *SwapLayer
}

func NewInteractSwapLayer() *InteractSwapLayer {
	return &InteractSwapLayer{Interact: NewInteractLayer(), Swap: NewSwapLayer()}
}

func (*InteractSwapLayer) isLayer() {}
func (s *InteractSwapLayer) Touched() qubitset.Set { return s.Interact.Touched() }
func (s *InteractSwapLayer) Copy() Layer {
	return &InteractSwapLayer{Interact: s.Interact.Copy().(*InteractLayer), Swap: s.Swap.Copy().(*SwapLayer)}
}
func (s *InteractSwapLayer) IsVacuous() bool              { return s.Interact.IsVacuous() }
func (*InteractSwapLayer) RequiresTickBefore() bool       { return false }
func (*InteractSwapLayer) ImpliesEventualTickAfter() bool { return false }
func (s *InteractSwapLayer) ToZBasis() []Layer            { return []Layer{s} }

// Append adds one (control-basis, target-basis) pair wired for CXSWAP
// (Z-then-X) or SWAPCX (X-then-Z).
func (s *InteractSwapLayer) Append(basis1 byte, q1 int, basis2 byte, q2 int) {
	s.Interact.Append(basis1, q1, basis2, q2)
	s.Swap.Targets1 = append(s.Swap.Targets1, q1)
	s.Swap.Targets2 = append(s.Swap.Targets2, q2)
}

func (s *InteractSwapLayer) AppendInto(c *circuit.Circuit) {
	for k := range s.Interact.Targets1 {
		key := [2]byte{s.Interact.Bases1[k], s.Interact.Bases2[k]}
		q1, q2 := s.Interact.Targets1[k], s.Interact.Targets2[k]
		switch key {
		case [2]byte{'Z', 'X'}:
			*c = c.Append("CXSWAP", []circuit.GateTarget{circuit.Qubit(q1), circuit.Qubit(q2)})
		case [2]byte{'X', 'Z'}:
			*c = c.Append("SWAPCX", []circuit.GateTarget{circuit.Qubit(q1), circuit.Qubit(q2)})
		}
	}
}

// SqrtPPLayer holds parallel two-qubit Pauli-product square-root gates
// (SQRT_XX, SQRT_YY, SQRT_ZZ, and their _DAG forms).
type SqrtPPLayer struct {
	Targets1, Targets2 []int
	Basis              []byte
	Dagger             []bool
}

func NewSqrtPPLayer() *SqrtPPLayer { return &SqrtPPLayer{} }

func (*SqrtPPLayer) isLayer() {}
func (s *SqrtPPLayer) Touched() qubitset.Set {
	return qubitset.New(append(append([]int(nil), s.Targets1...), s.Targets2...)...)
}
func (s *SqrtPPLayer) Copy() Layer {
	return &SqrtPPLayer{
		Targets1: append([]int(nil), s.Targets1...),
		Targets2: append([]int(nil), s.Targets2...),
		Basis:    append([]byte(nil), s.Basis...),
		Dagger:   append([]bool(nil), s.Dagger...),
	}
}
func (s *SqrtPPLayer) IsVacuous() bool              { return len(s.Targets1) == 0 }
func (*SqrtPPLayer) RequiresTickBefore() bool       { return false }
func (*SqrtPPLayer) ImpliesEventualTickAfter() bool { return false }
func (s *SqrtPPLayer) ToZBasis() []Layer            { return []Layer{s} }

func (s *SqrtPPLayer) Append(basis byte, q1, q2 int, dagger bool) {
	s.Basis = append(s.Basis, basis)
	s.Targets1 = append(s.Targets1, q1)
	s.Targets2 = append(s.Targets2, q2)
	s.Dagger = append(s.Dagger, dagger)
}

func (s *SqrtPPLayer) AppendInto(c *circuit.Circuit) {
	names := map[byte]string{'X': "SQRT_XX", 'Y': "SQRT_YY", 'Z': "SQRT_ZZ"}
	for i := range s.Targets1 {
		name := names[s.Basis[i]]
		if s.Dagger[i] {
			name += "_DAG"
		}
		*c = c.Append(name, []circuit.GateTarget{circuit.Qubit(s.Targets1[i]), circuit.Qubit(s.Targets2[i])})
	}
}

// NoiseLayer wraps raw noise-channel instructions (the literal output of
// the noise engine) that pass through the layer model unmodified.
type NoiseLayer struct {
	Ops []circuit.Instruction
}

func NewNoiseLayer() *NoiseLayer { return &NoiseLayer{} }

func (*NoiseLayer) isLayer() {}

func (n *NoiseLayer) Touched() qubitset.Set {
	out := qubitset.Set{}
	for _, op := range n.Ops {
		out.AddAll(qubitset.New(op.QubitTargets()...))
	}
	return out
}

func (n *NoiseLayer) Copy() Layer {
	out := &NoiseLayer{}
	for _, op := range n.Ops {
		out.Ops = append(out.Ops, op.Copy())
	}
	return out
}

func (n *NoiseLayer) IsVacuous() bool              { return len(n.Ops) == 0 }
func (*NoiseLayer) RequiresTickBefore() bool       { return false }
func (*NoiseLayer) ImpliesEventualTickAfter() bool { return false }
func (n *NoiseLayer) ToZBasis() []Layer            { return []Layer{n} }

func (n *NoiseLayer) AppendInto(c *circuit.Circuit) {
	for _, op := range n.Ops {
		*c = append(*c, op.Copy())
	}
}
