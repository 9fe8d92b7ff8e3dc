package layercircuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kegliz/qplay/qc/circuit"
	"github.com/kegliz/qplay/qc/gate"
	"github.com/kegliz/qplay/qc/layer"
)

func mustBuild(t *testing.T, c circuit.Circuit) *LayerCircuit {
	t.Helper()
	lc, err := FromCircuit(c, gate.DefaultOracle())
	require.NoError(t, err)
	return lc
}

func TestWithLocallyOptimizedLayers_CancelsBackToBackH(t *testing.T) {
	var c circuit.Circuit
	c = c.Append("R", []circuit.GateTarget{circuit.Qubit(0)})
	c = c.Append("TICK", nil)
	c = c.Append("H", []circuit.GateTarget{circuit.Qubit(0)})
	c = c.Append("TICK", nil)
	c = c.Append("H", []circuit.GateTarget{circuit.Qubit(0)})
	c = c.Append("TICK", nil)
	c = c.Append("M", []circuit.GateTarget{circuit.Qubit(0)})

	lc := mustBuild(t, c)
	opt := lc.WithLocallyOptimizedLayers().WithIrrelevantTailLayersRemoved()

	var kinds []string
	for _, l := range opt.Layers {
		switch l.(type) {
		case *layer.ResetLayer:
			kinds = append(kinds, "reset")
		case *layer.MeasureLayer:
			kinds = append(kinds, "measure")
		case *layer.EmptyLayer:
			kinds = append(kinds, "empty")
		case *layer.RotationLayer:
			if !l.IsVacuous() {
				kinds = append(kinds, "rotation")
			}
		}
	}
	assert.NotContains(t, kinds, "rotation", "the two H layers should have cancelled")
	assert.Contains(t, kinds, "reset")
	assert.Contains(t, kinds, "measure")
}

func TestWithoutEmptyLayers_DropsTicks(t *testing.T) {
	lc := &LayerCircuit{Layers: []layer.Layer{layer.NewEmptyLayer(), layer.NewResetLayer()}}
	out := lc.WithoutEmptyLayers()
	require.Len(t, out.Layers, 1)
	_, ok := out.Layers[0].(*layer.ResetLayer)
	assert.True(t, ok)
}

func TestWithIrrelevantTailLayersRemoved_DropsTrailingRotation(t *testing.T) {
	m := layer.NewMeasureLayer()
	m.Append('Z', 0, 0)
	r := layer.NewRotationLayer()
	r.AppendNamedRotation("H", 1)
	lc := &LayerCircuit{Layers: []layer.Layer{m, r}}
	out := lc.WithIrrelevantTailLayersRemoved()
	require.Len(t, out.Layers, 1)
	_, ok := out.Layers[0].(*layer.MeasureLayer)
	assert.True(t, ok)
}

func TestWithRotationsBeforeResetsRemoved_DropsDeadRotation(t *testing.T) {
	r := layer.NewRotationLayer()
	r.AppendNamedRotation("H", 0)
	reset := layer.NewResetLayer()
	reset.Targets[0] = 'Z'
	lc := &LayerCircuit{Layers: []layer.Layer{r, reset}}
	out := lc.WithRotationsBeforeResetsRemoved()
	rot := out.Layers[0].(*layer.RotationLayer)
	assert.True(t, rot.QubitIsIdentity(0))
}

func TestWithQubitCoordsAtStart_HoistsToFront(t *testing.T) {
	var c circuit.Circuit
	c = c.Append("R", []circuit.GateTarget{circuit.Qubit(0)})
	c = c.Append("QUBIT_COORDS", []circuit.GateTarget{circuit.Qubit(0)}, 1, 2)

	lc := mustBuild(t, c)
	out, err := lc.WithQubitCoordsAtStart()
	require.NoError(t, err)
	require.True(t, len(out.Layers) >= 1)
	_, ok := out.Layers[0].(*layer.QubitCoordAnnotationLayer)
	assert.True(t, ok)
}

func TestWithQubitCoordsAtStart_RejectsDuplicateCoords(t *testing.T) {
	q1 := layer.NewQubitCoordAnnotationLayer()
	q1.Coords[0] = []float64{1, 2}
	q2 := layer.NewQubitCoordAnnotationLayer()
	q2.Coords[0] = []float64{3, 4}
	lc := &LayerCircuit{Layers: []layer.Layer{q1, q2}}
	_, err := lc.WithQubitCoordsAtStart()
	assert.Error(t, err)
}

func TestWithEjectedLoopIterations_PeelsBothEnds(t *testing.T) {
	body := []layer.Layer{layer.NewResetLayer()}
	body[0].(*layer.ResetLayer).Targets[0] = 'Z'
	loop := layer.NewLoopLayer(body, 5)
	lc := &LayerCircuit{Layers: []layer.Layer{loop}}
	out := lc.WithEjectedLoopIterations()
	require.Len(t, out.Layers, 3)
	_, ok := out.Layers[0].(*layer.ResetLayer)
	assert.True(t, ok)
	inner, ok := out.Layers[1].(*layer.LoopLayer)
	require.True(t, ok)
	assert.EqualValues(t, 3, inner.Repetitions)
	_, ok = out.Layers[2].(*layer.ResetLayer)
	assert.True(t, ok)
}

func TestWithCleanedUpLoopIterations_ReabsorbsEjectedIterations(t *testing.T) {
	body := []layer.Layer{layer.NewResetLayer()}
	body[0].(*layer.ResetLayer).Targets[0] = 'Z'
	loop := layer.NewLoopLayer(body, 3)
	ejected := (&LayerCircuit{Layers: []layer.Layer{loop}}).WithEjectedLoopIterations()
	cleaned := ejected.WithCleanedUpLoopIterations()
	require.Len(t, cleaned.Layers, 1)
	inner, ok := cleaned.Layers[0].(*layer.LoopLayer)
	require.True(t, ok)
	assert.EqualValues(t, 3, inner.Repetitions)
}

func TestOptimize_EndToEndHCancellationScenario(t *testing.T) {
	var c circuit.Circuit
	c = c.Append("R", []circuit.GateTarget{circuit.Qubit(0)})
	c = c.Append("TICK", nil)
	c = c.Append("H", []circuit.GateTarget{circuit.Qubit(0)})
	c = c.Append("TICK", nil)
	c = c.Append("H", []circuit.GateTarget{circuit.Qubit(0)})
	c = c.Append("TICK", nil)
	c = c.Append("M", []circuit.GateTarget{circuit.Qubit(0)})

	lc := mustBuild(t, c)
	opt, err := lc.Optimize()
	require.NoError(t, err)
	out := opt.ToCircuit()
	var names []string
	for _, e := range out {
		if in, ok := e.(circuit.Instruction); ok {
			names = append(names, in.Name)
		}
	}
	assert.NotContains(t, names, "H")
	assert.Contains(t, names, "R")
	assert.Contains(t, names, "M")
}
