package layercircuit

import (
	"fmt"

	"github.com/kegliz/qplay/qc/layer"
	"github.com/kegliz/qplay/qc/qubitset"
)

// WithoutEmptyLayers drops every vacuous EmptyLayer placeholder.
func (lc *LayerCircuit) WithoutEmptyLayers() *LayerCircuit {
	out := &LayerCircuit{}
	for _, l := range lc.Layers {
		if _, ok := l.(*layer.EmptyLayer); ok {
			continue
		}
		out.Layers = append(out.Layers, l)
	}
	return out
}

// WithQubitCoordsAtStart hoists every QubitCoordAnnotationLayer to the
// front of the circuit, folding any ShiftCoordAnnotationLayer offsets it
// passes into the hoisted coordinates along the way. It fails if the same
// qubit receives coordinates twice, or if coordinates declared after a loop
// would have to cross that loop to reach the front.
func (lc *LayerCircuit) WithQubitCoordsAtStart() (*LayerCircuit, error) {
	merged := layer.NewQubitCoordAnnotationLayer()
	shift := make([]float64, 0)
	var rest []layer.Layer
	seenLoop := false
	for _, l := range lc.Layers {
		switch v := l.(type) {
		case *layer.QubitCoordAnnotationLayer:
			if seenLoop && !v.IsVacuous() {
				return nil, fmt.Errorf("layercircuit: qubit coords cannot cross a loop boundary")
			}
			for q, coord := range v.Coords {
				if _, dup := merged.Coords[q]; dup {
					return nil, fmt.Errorf("layercircuit: qubit %d given coordinates twice", q)
				}
				adjusted := append([]float64(nil), coord...)
				for i := 0; i < len(shift) && i < len(adjusted); i++ {
					adjusted[i] += shift[i]
				}
				merged.Coords[q] = adjusted
			}
		case *layer.ShiftCoordAnnotationLayer:
			for len(shift) < len(v.Offset) {
				shift = append(shift, 0)
			}
			for i, a := range v.Offset {
				shift[i] += a
			}
			rest = append(rest, l)
		case *layer.LoopLayer:
			seenLoop = true
			rest = append(rest, l)
		default:
			rest = append(rest, l)
		}
	}
	out := &LayerCircuit{}
	if !merged.IsVacuous() {
		out.Layers = append(out.Layers, merged)
	}
	out.Layers = append(out.Layers, rest...)
	return out, nil
}

// WithLocallyOptimizedLayers performs one left-to-right pass fusing every
// pair of adjacent layers that know how to fuse with their successor (the
// layer.Fuser interface), repeating at each position until no further local
// fusion applies, then dropping trailing vacuous layers.
func (lc *LayerCircuit) WithLocallyOptimizedLayers() *LayerCircuit {
	var out []layer.Layer
	for _, l := range lc.Layers {
		out = append(out, l)
		for len(out) >= 2 {
			a, ok := out[len(out)-2].(layer.Fuser)
			if !ok {
				break
			}
			fused, ok := a.FuseWithNext(out[len(out)-1])
			if !ok {
				break
			}
			out = append(out[:len(out)-2], fused...)
		}
	}
	for len(out) > 0 && out[len(out)-1].IsVacuous() {
		if _, ok := out[len(out)-1].(*layer.LoopLayer); ok {
			break
		}
		out = out[:len(out)-1]
	}
	return &LayerCircuit{Layers: out}
}

// nextTouchIsReset reports whether, scanning forward from index i+1, the
// first layer touching qubit q is a ResetLayer.
func nextTouchIsReset(layers []layer.Layer, i, q int) bool {
	for j := i + 1; j < len(layers); j++ {
		if !layers[j].Touched().Contains(q) {
			continue
		}
		_, ok := layers[j].(*layer.ResetLayer)
		return ok
	}
	return false
}

// WithRotationsBeforeResetsRemoved deletes a per-qubit rotation wherever the
// next layer touching that qubit is a reset — the rotation's effect is
// overwritten before it can be observed.
func (lc *LayerCircuit) WithRotationsBeforeResetsRemoved() *LayerCircuit {
	out := &LayerCircuit{}
	for i, l := range lc.Layers {
		r, ok := l.(*layer.RotationLayer)
		if !ok {
			out.Layers = append(out.Layers, l)
			continue
		}
		clone := layer.NewRotationLayer()
		for q, m := range r.Targets {
			if nextTouchIsReset(lc.Layers, i, q) {
				continue
			}
			clone.Targets[q] = m
		}
		out.Layers = append(out.Layers, clone)
	}
	return out
}

// WithRotationsRolledFromEndOfLoopToStartOfLoop checks whether a loop
// body's last non-annotation layer is a RotationLayer R; if so it rotates
// the body so it starts with R instead, and surrounds the loop with R⁻¹
// before and R after — a conjugation that leaves the loop's overall effect
// unchanged but lets the now-leading R merge with whatever precedes the
// loop, and lets the trailing R merge with whatever follows it.
func (lc *LayerCircuit) WithRotationsRolledFromEndOfLoopToStartOfLoop() *LayerCircuit {
	out := &LayerCircuit{}
	for _, l := range lc.Layers {
		loop, ok := l.(*layer.LoopLayer)
		if !ok {
			out.Layers = append(out.Layers, l)
			continue
		}
		last := -1
		for i := len(loop.Body) - 1; i >= 0; i-- {
			switch loop.Body[i].(type) {
			case *layer.QubitCoordAnnotationLayer, *layer.ShiftCoordAnnotationLayer, *layer.DetObsAnnotationLayer, *layer.EmptyLayer:
				continue
			default:
				last = i
			}
			break
		}
		r, ok := anyLast(loop, last)
		if !ok {
			out.Layers = append(out.Layers, l)
			continue
		}
		newBody := make([]layer.Layer, 0, len(loop.Body))
		newBody = append(newBody, r.Copy())
		newBody = append(newBody, copyLayers(loop.Body[:last])...)
		newBody = append(newBody, copyLayers(loop.Body[last+1:])...)
		out.Layers = append(out.Layers, r.Inverse())
		out.Layers = append(out.Layers, layer.NewLoopLayer(newBody, loop.Repetitions))
		out.Layers = append(out.Layers, r.Copy())
	}
	return out
}

func anyLast(loop *layer.LoopLayer, idx int) (*layer.RotationLayer, bool) {
	if idx < 0 {
		return nil, false
	}
	r, ok := loop.Body[idx].(*layer.RotationLayer)
	return r, ok
}

// WithIrrelevantTailLayersRemoved drops trailing layers whose effect can
// never be observed: resets, interactions, feedback, rotations, swaps and
// empties carry no information forward once nothing downstream reads them.
func (lc *LayerCircuit) WithIrrelevantTailLayersRemoved() *LayerCircuit {
	end := len(lc.Layers)
	for end > 0 {
		switch lc.Layers[end-1].(type) {
		case *layer.ResetLayer, *layer.InteractLayer, *layer.FeedbackLayer,
			*layer.RotationLayer, *layer.SwapLayer, *layer.ISwapLayer,
			*layer.InteractSwapLayer, *layer.EmptyLayer:
			end--
		default:
			goto done
		}
	}
done:
	return &LayerCircuit{Layers: append([]layer.Layer(nil), lc.Layers[:end]...)}
}

// WithRotationsMergedEarlier walks every rotation layer and tries to slide
// its per-qubit rotations left, merging into the nearest earlier rotation
// layer that also touches the qubit, stopping at the first earlier layer
// (rotation or not) that touches it.
func (lc *LayerCircuit) WithRotationsMergedEarlier() *LayerCircuit {
	layers := make([]layer.Layer, len(lc.Layers))
	for i, l := range lc.Layers {
		layers[i] = l.Copy()
	}
	for i := 0; i < len(layers); i++ {
		r, ok := layers[i].(*layer.RotationLayer)
		if !ok {
			continue
		}
		for q := range r.Targets {
			if r.QubitIsIdentity(q) {
				continue
			}
			for j := i - 1; j >= 0; j-- {
				if !layers[j].Touched().Contains(q) {
					continue
				}
				if dest, ok := layers[j].(*layer.RotationLayer); ok {
					dest.AdoptQubitRotation(q, r)
				}
				break
			}
		}
	}
	return &LayerCircuit{Layers: layers}
}

// WithClearableRotationLayersCleared removes a whole RotationLayer when
// every one of its per-qubit rotations can instead be scheduled into some
// other RotationLayer reachable by walking outward (without crossing a
// layer that touches that qubit) — leftward preferred, rightward as a
// fallback. It only fires when *all* of the layer's rotations can move.
func (lc *LayerCircuit) WithClearableRotationLayersCleared() *LayerCircuit {
	layers := make([]layer.Layer, len(lc.Layers))
	for i, l := range lc.Layers {
		layers[i] = l.Copy()
	}
	for i := 0; i < len(layers); i++ {
		r, ok := layers[i].(*layer.RotationLayer)
		if !ok || r.IsVacuous() {
			continue
		}
		type dest struct {
			layer *layer.RotationLayer
			left  bool
		}
		dests := map[int]dest{}
		clearable := true
		for q := range r.Targets {
			if r.QubitIsIdentity(q) {
				continue
			}
			found := false
			for j := i - 1; j >= 0; j-- {
				if !layers[j].Touched().Contains(q) {
					continue
				}
				if d, ok := layers[j].(*layer.RotationLayer); ok {
					dests[q] = dest{layer: d, left: true}
					found = true
				}
				break
			}
			if !found {
				for j := i + 1; j < len(layers); j++ {
					if !layers[j].Touched().Contains(q) {
						continue
					}
					if d, ok := layers[j].(*layer.RotationLayer); ok {
						dests[q] = dest{layer: d, left: false}
						found = true
					}
					break
				}
			}
			if !found {
				clearable = false
				break
			}
		}
		if !clearable {
			continue
		}
		for q, d := range dests {
			if d.left {
				d.layer.AdoptQubitRotation(q, r)
			} else {
				d.layer.AdoptQubitRotationBefore(q, r)
			}
		}
		layers = append(layers[:i], layers[i+1:]...)
		i--
	}
	return &LayerCircuit{Layers: layers}
}

// slideLayerEarlier bubbles the layer at position i leftward past any
// earlier layer it is disjoint from (in touched qubits), stopping at (and,
// if sameKind holds, merging into) the first earlier layer it intersects.
func slideLayerEarlier(layers []layer.Layer, i int, sameKind func(dst, moving layer.Layer) bool, merge func(dst, moving layer.Layer)) []layer.Layer {
	moving := layers[i]
	touched := moving.Touched()
	pos := i
	for pos > 0 {
		prev := layers[pos-1]
		if qubitset.Set(prev.Touched()).Disjoint(touched) {
			layers[pos], layers[pos-1] = layers[pos-1], layers[pos]
			pos--
			continue
		}
		break
	}
	if pos > 0 && sameKind(layers[pos-1], moving) {
		merge(layers[pos-1], moving)
		layers = append(layers[:pos], layers[pos+1:]...)
	}
	return layers
}

// WithWholeRotationLayersSlidEarlier scans right-to-left, carrying each
// rotation layer backward past layers it doesn't touch and merging it into
// the nearest earlier rotation layer it collides with, if any.
func (lc *LayerCircuit) WithWholeRotationLayersSlidEarlier() *LayerCircuit {
	layers := make([]layer.Layer, len(lc.Layers))
	for i, l := range lc.Layers {
		layers[i] = l.Copy()
	}
	sameKind := func(dst, moving layer.Layer) bool {
		_, a := dst.(*layer.RotationLayer)
		_, b := moving.(*layer.RotationLayer)
		return a && b
	}
	merge := func(dst, moving layer.Layer) {
		d, m := dst.(*layer.RotationLayer), moving.(*layer.RotationLayer)
		for q := range m.Targets {
			d.AdoptQubitRotation(q, m)
		}
	}
	for i := len(layers) - 1; i >= 0; i-- {
		if _, ok := layers[i].(*layer.RotationLayer); !ok {
			continue
		}
		layers = slideLayerEarlier(layers, i, sameKind, merge)
	}
	return &LayerCircuit{Layers: layers}
}

// WithWholeMeasurementLayersSlidEarlier mirrors
// WithWholeRotationLayersSlidEarlier for MeasureLayer: it only merges into
// an earlier measure layer whose target qubits are disjoint (a true fusion,
// not an overwrite), and adjusts record back-references in any
// DetObsAnnotationLayer it passes over by the growing measurement count.
//
// Simplification: the record-offset adjustment assumes a passed-over
// annotation's rec references name measurements that occurred strictly
// before the sliding layer's original position, which holds for the
// common case of detectors built incrementally alongside the circuit but
// is not proven in general for arbitrary hand-built rec arithmetic.
func (lc *LayerCircuit) WithWholeMeasurementLayersSlidEarlier() *LayerCircuit {
	layers := make([]layer.Layer, len(lc.Layers))
	for i, l := range lc.Layers {
		layers[i] = l.Copy()
	}
	for i := len(layers) - 1; i >= 0; i-- {
		m, ok := layers[i].(*layer.MeasureLayer)
		if !ok {
			continue
		}
		touched := m.Touched()
		pos := i
		for pos > 0 {
			prev := layers[pos-1]
			if d, ok := prev.(*layer.DetObsAnnotationLayer); ok {
				d.ShiftRecOffsets(-len(m.Targets))
				layers[pos], layers[pos-1] = layers[pos-1], layers[pos]
				pos--
				continue
			}
			if _, ok := prev.(*layer.MeasureLayer); ok {
				break
			}
			if qubitset.Set(prev.Touched()).Disjoint(touched) {
				layers[pos], layers[pos-1] = layers[pos-1], layers[pos]
				pos--
				continue
			}
			break
		}
		if pos > 0 {
			if dst, ok := layers[pos-1].(*layer.MeasureLayer); ok && qubitset.Set(dst.Touched()).Disjoint(touched) {
				for k, q := range m.Targets {
					dst.Append(m.Bases[k], q, m.FlipResult[k])
				}
				layers = append(layers[:pos-1+1], layers[pos+1:]...)
			}
		}
	}
	return &LayerCircuit{Layers: layers}
}

// WithLocallyMergedMeasureLayers fuses two MeasureLayers separated only by
// DetObs/ShiftCoord annotations, when their target sets are disjoint,
// shifting rec offsets in the intervening annotations to account for the
// absorbed measurements.
func (lc *LayerCircuit) WithLocallyMergedMeasureLayers() *LayerCircuit {
	layers := make([]layer.Layer, len(lc.Layers))
	for i, l := range lc.Layers {
		layers[i] = l.Copy()
	}
	for i := 0; i < len(layers); {
		first, ok := layers[i].(*layer.MeasureLayer)
		if !ok {
			i++
			continue
		}
		j := i + 1
		for j < len(layers) {
			switch layers[j].(type) {
			case *layer.DetObsAnnotationLayer, *layer.ShiftCoordAnnotationLayer:
				j++
				continue
			}
			break
		}
		if j >= len(layers) || j == i+1 {
			i++
			continue
		}
		second, ok := layers[j].(*layer.MeasureLayer)
		if !ok || !qubitset.Set(first.Touched()).Disjoint(second.Touched()) {
			i++
			continue
		}
		for k := i + 1; k < j; k++ {
			if d, ok := layers[k].(*layer.DetObsAnnotationLayer); ok {
				d.ShiftRecOffsets(-len(second.Targets))
			}
		}
		for k, q := range second.Targets {
			first.Append(second.Bases[k], q, second.FlipResult[k])
		}
		layers = append(layers[:j], layers[j+1:]...)
	}
	return &LayerCircuit{Layers: layers}
}

// WithWholeLayersSlidAsToMergeWithPreviousLayerOfSameType slides each
// RotationLayer and InteractLayer leftward past disjoint layers and merges
// it with the first earlier layer it collides with when that layer has the
// same type (rotations compose per qubit, interactions append their
// pairs). Layers of other kinds are not moved.
func (lc *LayerCircuit) WithWholeLayersSlidAsToMergeWithPreviousLayerOfSameType() *LayerCircuit {
	layers := make([]layer.Layer, len(lc.Layers))
	for i, l := range lc.Layers {
		layers[i] = l.Copy()
	}
	sameKind := func(dst, moving layer.Layer) bool {
		switch d := dst.(type) {
		case *layer.RotationLayer:
			_, ok := moving.(*layer.RotationLayer)
			return ok && d != nil
		case *layer.InteractLayer:
			_, ok := moving.(*layer.InteractLayer)
			return ok
		default:
			return false
		}
	}
	merge := func(dst, moving layer.Layer) {
		switch d := dst.(type) {
		case *layer.RotationLayer:
			m := moving.(*layer.RotationLayer)
			for q := range m.Targets {
				d.AdoptQubitRotation(q, m)
			}
		case *layer.InteractLayer:
			m := moving.(*layer.InteractLayer)
			for k := range m.Targets1 {
				d.Append(m.Bases1[k], m.Targets1[k], m.Bases2[k], m.Targets2[k])
			}
		}
	}
	for i := len(layers) - 1; i >= 0; i-- {
		switch layers[i].(type) {
		case *layer.RotationLayer, *layer.InteractLayer:
			layers = slideLayerEarlier(layers, i, sameKind, merge)
		}
	}
	return &LayerCircuit{Layers: layers}
}

// WithWholeLayersSlidAsEarlyAsPossibleForMergeWithSameLayer repeats
// WithWholeLayersSlidAsToMergeWithPreviousLayerOfSameType until a pass
// merges nothing (the layer count stops shrinking).
func (lc *LayerCircuit) WithWholeLayersSlidAsEarlyAsPossibleForMergeWithSameLayer() *LayerCircuit {
	cur := lc
	for {
		next := cur.WithWholeLayersSlidAsToMergeWithPreviousLayerOfSameType()
		if len(next.Layers) == len(cur.Layers) {
			return next
		}
		cur = next
	}
}

// WithEjectedLoopIterations peels one iteration from each end of every loop
// whose repetition count is at least 3 (degrading to full inlining at
// count 1 or 2, and dropping the loop body entirely at count 0), so the
// peeled copies can be merged with their neighbors by other passes.
func (lc *LayerCircuit) WithEjectedLoopIterations() *LayerCircuit {
	out := &LayerCircuit{}
	for _, l := range lc.Layers {
		loop, ok := l.(*layer.LoopLayer)
		if !ok {
			out.Layers = append(out.Layers, l)
			continue
		}
		switch {
		case loop.Repetitions == 0:
			// dropped
		case loop.Repetitions == 1:
			for _, b := range loop.Body {
				out.Layers = append(out.Layers, b.Copy())
			}
		case loop.Repetitions == 2:
			for _, b := range loop.Body {
				out.Layers = append(out.Layers, b.Copy())
			}
			for _, b := range loop.Body {
				out.Layers = append(out.Layers, b.Copy())
			}
		default:
			var head, tail []layer.Layer
			for _, b := range loop.Body {
				head = append(head, b.Copy())
				tail = append(tail, b.Copy())
			}
			out.Layers = append(out.Layers, head...)
			out.Layers = append(out.Layers, layer.NewLoopLayer(copyLayers(loop.Body), loop.Repetitions-2))
			out.Layers = append(out.Layers, tail...)
		}
	}
	return out
}

func copyLayers(in []layer.Layer) []layer.Layer {
	out := make([]layer.Layer, len(in))
	for i, l := range in {
		out[i] = l.Copy()
	}
	return out
}

// WithCleanedUpLoopIterations absorbs a prefix or suffix run of layers that
// exactly match the loop body immediately adjacent to it into the loop,
// incrementing its repetition count — the converse of
// WithEjectedLoopIterations.
func (lc *LayerCircuit) WithCleanedUpLoopIterations() *LayerCircuit {
	out := &LayerCircuit{}
	i := 0
	for i < len(lc.Layers) {
		loop, ok := lc.Layers[i].(*layer.LoopLayer)
		if !ok || len(loop.Body) == 0 {
			out.Layers = append(out.Layers, lc.Layers[i])
			i++
			continue
		}
		n := len(loop.Body)
		reps := loop.Repetitions
		// absorb a trailing run in out that matches the body, most-recent-first
		for len(out.Layers) >= n && layersEqualRun(out.Layers[len(out.Layers)-n:], loop.Body) {
			out.Layers = out.Layers[:len(out.Layers)-n]
			reps++
		}
		j := i + 1
		for j+n <= len(lc.Layers) && layersEqualRun(lc.Layers[j:j+n], loop.Body) {
			j += n
			reps++
		}
		out.Layers = append(out.Layers, layer.NewLoopLayer(copyLayers(loop.Body), reps))
		i = j
	}
	return out
}

// layersEqualRun is a best-effort structural comparison used only to spot
// loop-body repeats worth folding back in; it compares serialized form
// rather than deep layer equality.
func layersEqualRun(a, b []layer.Layer) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ca, cb := (&LayerCircuit{Layers: []layer.Layer{a[i]}}).ToCircuit(), (&LayerCircuit{Layers: []layer.Layer{b[i]}}).ToCircuit()
		if fmt.Sprint(ca) != fmt.Sprint(cb) {
			return false
		}
	}
	return true
}

// Optimize runs the full named rewrite sequence to a fixed point: locally
// optimize, clear dead rotations, merge and slide rotations and
// measurements, merge same-type neighbors, tidy loop iterations, and strip
// empties and dead tail layers.
func (lc *LayerCircuit) Optimize() (*LayerCircuit, error) {
	cur, err := lc.WithQubitCoordsAtStart()
	if err != nil {
		return nil, err
	}
	// Capped rather than a bare fixed-point loop: these heuristic passes
	// are believed convergent on well-formed input, but a cap keeps a
	// pathological input from looping forever instead of returning.
	const maxRounds = 64
	for round := 0; round < maxRounds; round++ {
		next := cur.
			WithRotationsRolledFromEndOfLoopToStartOfLoop().
			WithLocallyOptimizedLayers().
			WithRotationsBeforeResetsRemoved().
			WithRotationsMergedEarlier().
			WithClearableRotationLayersCleared().
			WithWholeRotationLayersSlidEarlier().
			WithWholeMeasurementLayersSlidEarlier().
			WithLocallyMergedMeasureLayers().
			WithWholeLayersSlidAsEarlyAsPossibleForMergeWithSameLayer().
			WithEjectedLoopIterations().
			WithCleanedUpLoopIterations().
			WithoutEmptyLayers().
			WithIrrelevantTailLayersRemoved()
		if layersEqualRun(next.Layers, cur.Layers) {
			return next, nil
		}
		cur = next
	}
	return cur, nil
}
