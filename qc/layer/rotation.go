package layer

import (
	"sort"

	"github.com/kegliz/qplay/qc/circuit"
	"github.com/kegliz/qplay/qc/qubitset"
)

// RotationLayer holds, per qubit, the net single-qubit Clifford rotation
// accumulated from the named rotations fed into it. Composition is right
// (append) or left (prepend) depending on whether a later rewriter is
// pushing new rotations in front of or behind the existing ones.
type RotationLayer struct {
	Targets map[int]pauliMap
}

// NewRotationLayer returns an empty rotation layer.
func NewRotationLayer() *RotationLayer {
	return &RotationLayer{Targets: map[int]pauliMap{}}
}

func (*RotationLayer) isLayer() {}

// AppendNamedRotation composes name onto qubit's existing net rotation as
// the later-applied operation.
func (r *RotationLayer) AppendNamedRotation(name string, qubit int) {
	gen, ok := generators[name]
	if !ok {
		return
	}
	cur, ok := r.Targets[qubit]
	if !ok {
		cur = identityMap()
	}
	r.Targets[qubit] = composeMaps(cur, gen)
}

// PrependNamedRotation composes name onto qubit's existing net rotation as
// the earlier-applied operation.
func (r *RotationLayer) PrependNamedRotation(name string, qubit int) {
	gen, ok := generators[name]
	if !ok {
		return
	}
	cur, ok := r.Targets[qubit]
	if !ok {
		cur = identityMap()
	}
	r.Targets[qubit] = composeMaps(gen, cur)
}

// QubitIsIdentity reports whether qubit q carries no net rotation (either
// absent or explicitly identity).
func (r *RotationLayer) QubitIsIdentity(q int) bool {
	m, ok := r.Targets[q]
	return !ok || isIdentityMap(m)
}

// AdoptQubitRotation composes q's rotation from src onto r's own (as the
// later-applied operation) and clears it from src, used by rewriters that
// slide a single qubit's rotation into an earlier or later rotation layer.
func (r *RotationLayer) AdoptQubitRotation(q int, src *RotationLayer) {
	m, ok := src.Targets[q]
	if !ok {
		return
	}
	cur, ok := r.Targets[q]
	if !ok {
		cur = identityMap()
	}
	r.Targets[q] = composeMaps(cur, m)
	delete(src.Targets, q)
}

// AdoptQubitRotationBefore is AdoptQubitRotation's mirror for sliding a
// rotation into a later layer: src's rotation on q is composed as the
// earlier-applied operation.
func (r *RotationLayer) AdoptQubitRotationBefore(q int, src *RotationLayer) {
	m, ok := src.Targets[q]
	if !ok {
		return
	}
	cur, ok := r.Targets[q]
	if !ok {
		cur = identityMap()
	}
	r.Targets[q] = composeMaps(m, cur)
	delete(src.Targets, q)
}

func (r *RotationLayer) Touched() qubitset.Set {
	out := qubitset.Set{}
	for q := range r.Targets {
		out.Add(q)
	}
	return out
}

func (r *RotationLayer) Copy() Layer {
	out := NewRotationLayer()
	for q, m := range r.Targets {
		cp := make(pauliMap, len(m))
		for k, v := range m {
			cp[k] = v
		}
		out.Targets[q] = cp
	}
	return out
}

// IsVacuous is true when every qubit carries an identity net rotation (or
// there are none at all).
func (r *RotationLayer) IsVacuous() bool {
	for _, m := range r.Targets {
		if !isIdentityMap(m) {
			return false
		}
	}
	return true
}

func (r *RotationLayer) RequiresTickBefore() bool        { return false }
func (r *RotationLayer) ImpliesEventualTickAfter() bool  { return false }

func (r *RotationLayer) ToZBasis() []Layer { return []Layer{r} }

// Inverse returns the per-qubit inverse of every named rotation in r.
func (r *RotationLayer) Inverse() *RotationLayer {
	out := NewRotationLayer()
	for q, m := range r.Targets {
		out.Targets[q] = inverseMap(m)
	}
	return out
}

func inverseMap(m pauliMap) pauliMap {
	out := make(pauliMap, 3)
	for _, p := range [3]byte{'X', 'Y', 'Z'} {
		sp := m[p]
		out[sp.P] = signedPauli{P: p, Sign: sp.Sign}
	}
	return out
}

// FuseWithNext composes this rotation layer with the next one, qubit by
// qubit, if next is also a rotation layer. A result whose every qubit is
// back to identity vanishes, matching spec §4.3.
func (r *RotationLayer) FuseWithNext(next Layer) ([]Layer, bool) {
	other, ok := next.(*RotationLayer)
	if !ok {
		return nil, false
	}
	merged := r.Copy().(*RotationLayer)
	for q, m := range other.Targets {
		cur, ok := merged.Targets[q]
		if !ok {
			cur = identityMap()
		}
		merged.Targets[q] = composeMaps(cur, m)
	}
	if merged.IsVacuous() {
		return []Layer{}, true
	}
	return []Layer{merged}, true
}

func (r *RotationLayer) AppendInto(c *circuit.Circuit) {
	qubits := make([]int, 0, len(r.Targets))
	for q := range r.Targets {
		if !isIdentityMap(r.Targets[q]) {
			qubits = append(qubits, q)
		}
	}
	sort.Ints(qubits)

	byStep := map[int]map[string][]int{}
	maxStep := 0
	for _, q := range qubits {
		word := decomposeToNames(r.Targets[q])
		for step, name := range word {
			if byStep[step] == nil {
				byStep[step] = map[string][]int{}
			}
			byStep[step][name] = append(byStep[step][name], q)
			if step+1 > maxStep {
				maxStep = step + 1
			}
		}
	}
	for step := 0; step < maxStep; step++ {
		names := make([]string, 0, len(byStep[step]))
		for name := range byStep[step] {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			qs := byStep[step][name]
			sort.Ints(qs)
			targets := make([]circuit.GateTarget, len(qs))
			for i, q := range qs {
				targets[i] = circuit.Qubit(q)
			}
			*c = c.Append(name, targets)
		}
	}
}
