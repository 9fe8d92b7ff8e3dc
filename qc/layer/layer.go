// Package layer implements the Layer Model (spec §4.3): the tagged union
// of typed operations a flat circuit is converted into, each one bounded
// to a single moment. Every variant is a closed member of the Layer
// interface below, so a type switch over Layer is always exhaustive.
package layer

import (
	"github.com/kegliz/qplay/qc/circuit"
	"github.com/kegliz/qplay/qc/qubitset"
)

// Layer is one moment's worth of structured operation.
type Layer interface {
	isLayer()

	// Touched returns every qubit this layer reads or writes.
	Touched() qubitset.Set

	// Copy returns an independent deep copy.
	Copy() Layer

	// IsVacuous reports whether this layer has no effect and can be
	// dropped outright.
	IsVacuous() bool

	// RequiresTickBefore reports whether a TICK must separate this layer
	// from whatever precedes it (set by collapsing operations: reset,
	// measurement, MPP).
	RequiresTickBefore() bool

	// ImpliesEventualTickAfter reports whether a TICK must eventually
	// separate this layer from whatever follows (also collapsing ops).
	ImpliesEventualTickAfter() bool

	// ToZBasis rewrites X/Y-basis measure/reset layers (and single-Pauli
	// MPP factors) into Z-basis ones surrounded by the appropriate
	// basis-change rotations, and a loop layer returns a new loop whose
	// body has been converted the same way. Every other layer returns
	// itself, unchanged, as a single-element slice.
	ToZBasis() []Layer

	// AppendInto serializes this layer's effect onto the end of c.
	AppendInto(c *circuit.Circuit)
}

// Fuser is implemented by layer kinds that know how to merge with the
// following layer (spec §4.3's locally_optimized). next is nil when self
// is the last layer in the circuit. ok is false when no fusion rule
// applies and the caller should leave both layers as they are.
type Fuser interface {
	FuseWithNext(next Layer) (fused []Layer, ok bool)
}
