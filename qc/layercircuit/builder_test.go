package layercircuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kegliz/qplay/qc/circuit"
	"github.com/kegliz/qplay/qc/gate"
	"github.com/kegliz/qplay/qc/layer"
)

func buildCircuit(t *testing.T, ops ...circuit.Instruction) circuit.Circuit {
	t.Helper()
	var c circuit.Circuit
	for _, op := range ops {
		c = append(c, op)
	}
	return c
}

func TestFromCircuit_ResetThenMeasure(t *testing.T) {
	c := buildCircuit(t,
		circuit.NewInstruction("R", []circuit.GateTarget{circuit.Qubit(0)}),
		circuit.NewInstruction("TICK", nil),
		circuit.NewInstruction("M", []circuit.GateTarget{circuit.Qubit(0)}),
	)
	lc, err := FromCircuit(c, gate.DefaultOracle())
	require.NoError(t, err)
	require.Len(t, lc.Layers, 2)
	r, ok := lc.Layers[0].(*layer.ResetLayer)
	require.True(t, ok)
	assert.Equal(t, byte('Z'), r.Targets[0])
	_, ok = lc.Layers[1].(*layer.EmptyLayer)
	assert.False(t, ok, "the TICK's empty placeholder is replaced by the next fed layer")
	m, ok := lc.Layers[1].(*layer.MeasureLayer)
	require.True(t, ok)
	assert.Equal(t, []int{0}, m.Targets)
}

func TestFromCircuit_MRSynthesizesMeasureThenReset(t *testing.T) {
	c := buildCircuit(t, circuit.NewInstruction("MR", []circuit.GateTarget{circuit.Qubit(0)}))
	lc, err := FromCircuit(c, gate.DefaultOracle())
	require.NoError(t, err)
	require.Len(t, lc.Layers, 2)
	_, ok := lc.Layers[0].(*layer.MeasureLayer)
	assert.True(t, ok)
	_, ok = lc.Layers[1].(*layer.ResetLayer)
	assert.True(t, ok)
}

func TestFromCircuit_CXIsInteractByDefault(t *testing.T) {
	c := buildCircuit(t, circuit.NewInstruction("CX", []circuit.GateTarget{circuit.Qubit(0), circuit.Qubit(1)}))
	lc, err := FromCircuit(c, gate.DefaultOracle())
	require.NoError(t, err)
	require.Len(t, lc.Layers, 1)
	i, ok := lc.Layers[0].(*layer.InteractLayer)
	require.True(t, ok)
	assert.Equal(t, []int{0}, i.Targets1)
	assert.Equal(t, []int{1}, i.Targets2)
}

func TestFromCircuit_CXWithRecTargetBecomesFeedback(t *testing.T) {
	c := buildCircuit(t, circuit.NewInstruction("CX", []circuit.GateTarget{circuit.RecTarget(-1), circuit.Qubit(1)}))
	lc, err := FromCircuit(c, gate.DefaultOracle())
	require.NoError(t, err)
	require.Len(t, lc.Layers, 1)
	f, ok := lc.Layers[0].(*layer.FeedbackLayer)
	require.True(t, ok)
	assert.Equal(t, []int{1}, f.Targets)
}

func TestFromCircuit_HBecomesRotation(t *testing.T) {
	c := buildCircuit(t, circuit.NewInstruction("H", []circuit.GateTarget{circuit.Qubit(0)}))
	lc, err := FromCircuit(c, gate.DefaultOracle())
	require.NoError(t, err)
	require.Len(t, lc.Layers, 1)
	_, ok := lc.Layers[0].(*layer.RotationLayer)
	assert.True(t, ok)
}

func TestFromCircuit_RepeatBlockBecomesLoopLayer(t *testing.T) {
	body := buildCircuit(t, circuit.NewInstruction("H", []circuit.GateTarget{circuit.Qubit(0)}))
	var c circuit.Circuit
	c = c.AppendRepeat(body, 5)
	lc, err := FromCircuit(c, gate.DefaultOracle())
	require.NoError(t, err)
	require.Len(t, lc.Layers, 1)
	l, ok := lc.Layers[0].(*layer.LoopLayer)
	require.True(t, ok)
	assert.EqualValues(t, 5, l.Repetitions)
}

func TestFromCircuit_MPPSplitsIntoProducts(t *testing.T) {
	c := buildCircuit(t, circuit.NewInstruction("MPP", []circuit.GateTarget{
		circuit.PauliTarget('X', 0), circuit.Combiner(), circuit.PauliTarget('X', 1),
		circuit.PauliTarget('Z', 2),
	}))
	lc, err := FromCircuit(c, gate.DefaultOracle())
	require.NoError(t, err)
	require.Len(t, lc.Layers, 1)
	m, ok := lc.Layers[0].(*layer.MppLayer)
	require.True(t, ok)
	require.Len(t, m.Products, 2)
	assert.Len(t, m.Products[0], 2)
	assert.Len(t, m.Products[1], 1)
}

func TestFromCircuit_NoiseInstructionsPassThrough(t *testing.T) {
	c := buildCircuit(t, circuit.NewInstruction("DEPOLARIZE1", []circuit.GateTarget{circuit.Qubit(0)}, 0.01))
	lc, err := FromCircuit(c, gate.DefaultOracle())
	require.NoError(t, err)
	require.Len(t, lc.Layers, 1)
	n, ok := lc.Layers[0].(*layer.NoiseLayer)
	require.True(t, ok)
	require.Len(t, n.Ops, 1)
}

func TestFromCircuit_UnknownGateErrors(t *testing.T) {
	c := buildCircuit(t, circuit.NewInstruction("NOT_A_GATE", []circuit.GateTarget{circuit.Qubit(0)}))
	_, err := FromCircuit(c, gate.DefaultOracle())
	assert.Error(t, err)
}

func TestToCircuit_RoundTripsThroughTicks(t *testing.T) {
	c := buildCircuit(t,
		circuit.NewInstruction("R", []circuit.GateTarget{circuit.Qubit(0)}),
		circuit.NewInstruction("TICK", nil),
		circuit.NewInstruction("M", []circuit.GateTarget{circuit.Qubit(0)}),
	)
	lc, err := FromCircuit(c, gate.DefaultOracle())
	require.NoError(t, err)
	out := lc.ToCircuit()
	require.Len(t, out, 3)
	assert.Equal(t, "R", out[0].(circuit.Instruction).Name)
	assert.Equal(t, "TICK", out[1].(circuit.Instruction).Name)
	assert.Equal(t, "M", out[2].(circuit.Instruction).Name)
}
