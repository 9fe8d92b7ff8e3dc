// Package layercircuit implements the Layer Circuit Builder and the
// rewriter passes of spec §4.4-4.5: converting a flat circuit into a
// sequence of layer.Layer values, and then algebraically simplifying that
// sequence.
package layercircuit

import (
	"fmt"

	"github.com/kegliz/qplay/qc/circuit"
	"github.com/kegliz/qplay/qc/gate"
	"github.com/kegliz/qplay/qc/layer"
	"github.com/kegliz/qplay/qc/qubitset"
)

// LayerCircuit is an ordered sequence of layers.
type LayerCircuit struct {
	Layers []layer.Layer
}

// Touched returns every qubit touched by any layer.
func (lc *LayerCircuit) Touched() qubitset.Set {
	out := qubitset.Set{}
	for _, l := range lc.Layers {
		out.AddAll(l.Touched())
	}
	return out
}

// Copy returns an independent deep copy.
func (lc *LayerCircuit) Copy() *LayerCircuit {
	out := &LayerCircuit{Layers: make([]layer.Layer, len(lc.Layers))}
	for i, l := range lc.Layers {
		out.Layers[i] = l.Copy()
	}
	return out
}

// ToZBasis rewrites every X/Y-basis collapsing layer into a Z-basis one
// surrounded by the appropriate rotation.
func (lc *LayerCircuit) ToZBasis() *LayerCircuit {
	out := &LayerCircuit{}
	for _, l := range lc.Layers {
		out.Layers = append(out.Layers, l.ToZBasis()...)
	}
	return out
}

// feed returns the last layer if it is already of kind T, replaces a
// trailing EmptyLayer with a fresh T, or appends a new T — mirroring the
// original builder's _feed dispatch.
func feed[T layer.Layer](lc *LayerCircuit, make func() T) T {
	if len(lc.Layers) == 0 {
		v := make()
		lc.Layers = append(lc.Layers, v)
		return v
	}
	last := lc.Layers[len(lc.Layers)-1]
	if _, ok := last.(*layer.EmptyLayer); ok {
		v := make()
		lc.Layers[len(lc.Layers)-1] = v
		return v
	}
	if v, ok := last.(T); ok {
		return v
	}
	v := make()
	lc.Layers = append(lc.Layers, v)
	return v
}

// FromCircuit walks a flat circuit and dispatches each instruction to the
// layer it belongs to, per spec §4.4.
func FromCircuit(circ circuit.Circuit, oracle gate.Oracle) (*LayerCircuit, error) {
	lc := &LayerCircuit{}
	for _, e := range circ {
		switch v := e.(type) {
		case *circuit.RepeatBlock:
			body, err := FromCircuit(v.Body, oracle)
			if err != nil {
				return nil, err
			}
			lc.Layers = append(lc.Layers, layer.NewLoopLayer(body.Layers, v.Repetitions))
		case circuit.Instruction:
			if err := feedInstruction(lc, v, oracle); err != nil {
				return nil, err
			}
		}
	}
	return lc, nil
}

func feedInstruction(lc *LayerCircuit, in circuit.Instruction, oracle gate.Oracle) error {
	switch in.Name {
	case "R":
		feedReset(lc, 'Z', in)
		return nil
	case "RX":
		feedReset(lc, 'X', in)
		return nil
	case "RY":
		feedReset(lc, 'Y', in)
		return nil

	case "M", "MZ":
		feedMeasure(lc, 'Z', in)
		return nil
	case "MX":
		feedMeasure(lc, 'X', in)
		return nil
	case "MY":
		feedMeasure(lc, 'Y', in)
		return nil

	case "MR":
		feedMeasure(lc, 'Z', in)
		feedReset(lc, 'Z', in)
		return nil
	case "MRX":
		feedMeasure(lc, 'X', in)
		feedReset(lc, 'X', in)
		return nil
	case "MRY":
		feedMeasure(lc, 'Y', in)
		feedReset(lc, 'Y', in)
		return nil

	case "XCX":
		feedInteract(lc, 'X', 'X', in)
		return nil
	case "XCY":
		feedInteract(lc, 'X', 'Y', in)
		return nil
	case "XCZ":
		feedInteract(lc, 'X', 'Z', in)
		return nil
	case "YCX":
		feedInteract(lc, 'Y', 'X', in)
		return nil
	case "YCY":
		feedInteract(lc, 'Y', 'Y', in)
		return nil
	case "YCZ":
		feedInteract(lc, 'Y', 'Z', in)
		return nil
	case "CX":
		feedInteract(lc, 'Z', 'X', in)
		return nil
	case "CY":
		feedInteract(lc, 'Z', 'Y', in)
		return nil
	case "CZ":
		feedInteract(lc, 'Z', 'Z', in)
		return nil

	case "QUBIT_COORDS":
		return feedQubitCoords(lc, in)
	case "SHIFT_COORDS":
		feedShiftCoords(lc, in)
		return nil
	case "DETECTOR", "OBSERVABLE_INCLUDE":
		l := feed(lc, layer.NewDetObsAnnotationLayer)
		l.Entries = append(l.Entries, in.Copy())
		return nil

	case "ISWAP":
		feedISwap(lc, in, false)
		return nil
	case "ISWAP_DAG":
		feedISwap(lc, in, true)
		return nil
	case "MPP":
		feedMPP(lc, in)
		return nil
	case "SWAP":
		feedSwap(lc, in)
		return nil
	case "CXSWAP":
		feedInteractSwap(lc, in, 'Z', 'X')
		return nil
	case "SWAPCX":
		feedInteractSwap(lc, in, 'X', 'Z')
		return nil

	case "TICK":
		lc.Layers = append(lc.Layers, layer.NewEmptyLayer())
		return nil

	case "SQRT_XX", "SQRT_XX_DAG":
		feedSqrtPP(lc, 'X', in)
		return nil
	case "SQRT_YY", "SQRT_YY_DAG":
		feedSqrtPP(lc, 'Y', in)
		return nil
	case "SQRT_ZZ", "SQRT_ZZ_DAG":
		feedSqrtPP(lc, 'Z', in)
		return nil

	case "DEPOLARIZE1", "DEPOLARIZE2", "X_ERROR", "Y_ERROR", "Z_ERROR", "PAULI_CHANNEL_1", "PAULI_CHANNEL_2":
		l := feed(lc, layer.NewNoiseLayer)
		l.Ops = append(l.Ops, in.Copy())
		return nil
	}

	data, err := oracle.Lookup(in.Name)
	if err != nil {
		return err
	}
	if data.IsUnitary && data.IsSingleQubitGate {
		l := feed(lc, layer.NewRotationLayer)
		for _, t := range in.Targets {
			l.AppendNamedRotation(in.Name, t.QubitValue())
		}
		return nil
	}
	return fmt.Errorf("layercircuit: don't know how to feed instruction %q", in.Name)
}

func feedReset(lc *LayerCircuit, basis byte, in circuit.Instruction) {
	l := feed(lc, layer.NewResetLayer)
	for _, t := range in.Targets {
		l.Targets[t.QubitValue()] = basis
	}
}

func feedMeasure(lc *LayerCircuit, basis byte, in circuit.Instruction) {
	l := feed(lc, layer.NewMeasureLayer)
	flip := 0.0
	if len(in.Args) == 1 {
		flip = in.Args[0]
	}
	for _, t := range in.Targets {
		l.Append(basis, t.QubitValue(), flip)
	}
}

func feedQubitCoords(lc *LayerCircuit, in circuit.Instruction) error {
	l := feed(lc, layer.NewQubitCoordAnnotationLayer)
	for _, t := range in.Targets {
		q := t.QubitValue()
		if _, dup := l.Coords[q]; dup {
			return fmt.Errorf("layercircuit: qubit coords specified twice for %d", q)
		}
		l.Coords[q] = append([]float64(nil), in.Args...)
	}
	return nil
}

func feedShiftCoords(lc *LayerCircuit, in circuit.Instruction) {
	feed(lc, layer.NewShiftCoordAnnotationLayer).OffsetBy(in.Args)
}

func feedInteract(lc *LayerCircuit, basis1, basis2 byte, in circuit.Instruction) {
	isFeedback := false
	for _, t := range in.Targets {
		if t.IsClassicalTarget() {
			isFeedback = true
			break
		}
	}
	if isFeedback {
		l := feed(lc, layer.NewFeedbackLayer)
		for k := 0; k+1 < len(in.Targets); k += 2 {
			c, t := in.Targets[k], in.Targets[k+1]
			basis := basis2
			if c.IsClassicalTarget() {
				l.Append(c, basis, t.QubitValue())
				continue
			}
			c, t = t, c
			basis = basis1
			l.Append(c, basis, t.QubitValue())
		}
		return
	}
	l := feed(lc, layer.NewInteractLayer)
	for k := 0; k+1 < len(in.Targets); k += 2 {
		l.Append(basis1, in.Targets[k].QubitValue(), basis2, in.Targets[k+1].QubitValue())
	}
}

func feedISwap(lc *LayerCircuit, in circuit.Instruction, dagger bool) {
	l := feed(lc, layer.NewISwapLayer)
	l.Dagger = dagger
	for k := 0; k+1 < len(in.Targets); k += 2 {
		l.Targets1 = append(l.Targets1, in.Targets[k].QubitValue())
		l.Targets2 = append(l.Targets2, in.Targets[k+1].QubitValue())
	}
}

func feedMPP(lc *LayerCircuit, in circuit.Instruction) {
	l := feed(lc, layer.NewMppLayer)
	flip := 0.0
	if len(in.Args) == 1 {
		flip = in.Args[0]
	}
	start, end := 0, 1
	for start < len(in.Targets) {
		for end < len(in.Targets) && in.Targets[end].IsCombiner() {
			end += 2
		}
		var prod []circuit.GateTarget
		for k := start; k < end; k += 2 {
			prod = append(prod, in.Targets[k])
		}
		l.AppendProduct(prod, flip)
		start = end
		end = start + 1
	}
}

func feedSwap(lc *LayerCircuit, in circuit.Instruction) {
	l := feed(lc, layer.NewSwapLayer)
	for k := 0; k+1 < len(in.Targets); k += 2 {
		l.Targets1 = append(l.Targets1, in.Targets[k].QubitValue())
		l.Targets2 = append(l.Targets2, in.Targets[k+1].QubitValue())
	}
}

func feedInteractSwap(lc *LayerCircuit, in circuit.Instruction, basis1, basis2 byte) {
	l := feed(lc, layer.NewInteractSwapLayer)
	for k := 0; k+1 < len(in.Targets); k += 2 {
		l.Append(basis1, in.Targets[k].QubitValue(), basis2, in.Targets[k+1].QubitValue())
	}
}

func feedSqrtPP(lc *LayerCircuit, basis byte, in circuit.Instruction) {
	l := feed(lc, layer.NewSqrtPPLayer)
	dagger := len(in.Name) > 4 && in.Name[len(in.Name)-4:] == "_DAG"
	for k := 0; k+1 < len(in.Targets); k += 2 {
		l.Append(basis, in.Targets[k].QubitValue(), in.Targets[k+1].QubitValue(), dagger)
	}
}
