package moment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kegliz/qplay/qc/circuit"
	"github.com/kegliz/qplay/qc/gate"
	"github.com/kegliz/qplay/qc/qubitset"
)

func TestSplit_AnnotationsPassThroughUnsplit(t *testing.T) {
	c := circuit.Circuit{}.
		Append("QUBIT_COORDS", []circuit.GateTarget{circuit.Qubit(0)}, 0, 0).
		Append("H", []circuit.GateTarget{circuit.Qubit(0)})

	items := Split(c, gate.DefaultOracle(), nil)
	require.Len(t, items, 1)
	require.Len(t, items[0].Ops, 2)
	assert.Equal(t, "QUBIT_COORDS", items[0].Ops[0].Name)
}

func TestSplit_TicksBoundMoments(t *testing.T) {
	c := circuit.Circuit{}.
		Append("H", []circuit.GateTarget{circuit.Qubit(0)}).
		Append("TICK", nil).
		Append("H", []circuit.GateTarget{circuit.Qubit(1)})

	items := Split(c, gate.DefaultOracle(), nil)
	require.Len(t, items, 2)
	assert.Len(t, items[0].Ops, 1)
	assert.Len(t, items[1].Ops, 1)
}

func TestSplit_RepeatBlockPassesThroughAsOwnItem(t *testing.T) {
	body := circuit.Circuit{}.Append("H", []circuit.GateTarget{circuit.Qubit(0)})
	c := circuit.Circuit{}.
		Append("H", []circuit.GateTarget{circuit.Qubit(0)}).
		AppendRepeat(body, 5)

	items := Split(c, gate.DefaultOracle(), nil)
	require.Len(t, items, 2)
	assert.False(t, items[0].IsRepeat())
	assert.True(t, items[1].IsRepeat())
	assert.Equal(t, uint64(5), items[1].Repeat.Repetitions)
}

func TestSplit_MPP_SplitsIntoOneInstructionPerFactor(t *testing.T) {
	c := circuit.Circuit{}.Append("MPP", []circuit.GateTarget{
		circuit.PauliTarget('X', 0), circuit.Combiner(), circuit.PauliTarget('X', 1),
		circuit.PauliTarget('Z', 2),
	})

	items := Split(c, gate.DefaultOracle(), nil)
	require.Len(t, items, 1)
	ops := items[0].Ops
	require.Len(t, ops, 2)
	assert.Equal(t, []int{0, 1}, ops[0].QubitTargets())
	assert.Equal(t, []int{2}, ops[1].QubitTargets())
}

func TestSplit_TwoQubitUnitary_NotSplitByDefault(t *testing.T) {
	c := circuit.Circuit{}.Append("CX", []circuit.GateTarget{circuit.Qubit(0), circuit.Qubit(1), circuit.Qubit(2), circuit.Qubit(3)})
	items := Split(c, gate.DefaultOracle(), nil)
	require.Len(t, items[0].Ops, 1)
	assert.Len(t, items[0].Ops[0].Targets, 4)
}

func TestSplit_TwoQubitUnitary_SplitByImmuneQubits(t *testing.T) {
	c := circuit.Circuit{}.Append("CX", []circuit.GateTarget{circuit.Qubit(0), circuit.Qubit(1), circuit.Qubit(2), circuit.Qubit(3)})
	items := Split(c, gate.DefaultOracle(), qubitset.New(1))
	require.Len(t, items[0].Ops, 2)
	assert.Equal(t, []int{0, 1}, items[0].Ops[0].QubitTargets())
	assert.Equal(t, []int{2, 3}, items[0].Ops[1].QubitTargets())
}

func TestSplit_TwoQubitUnitary_SplitByClassicalTarget(t *testing.T) {
	c := circuit.Circuit{}.Append("CX", []circuit.GateTarget{circuit.RecTarget(-1), circuit.Qubit(1), circuit.Qubit(2), circuit.Qubit(3)})
	items := Split(c, gate.DefaultOracle(), nil)
	require.Len(t, items[0].Ops, 2)
}

func TestSplit_NoisyNonMeasurementGate_PassesThroughWhole(t *testing.T) {
	c := circuit.Circuit{}.Append("DEPOLARIZE1", []circuit.GateTarget{circuit.Qubit(0), circuit.Qubit(1)}, 0.01)
	items := Split(c, gate.DefaultOracle(), qubitset.New(0))
	require.Len(t, items[0].Ops, 1)
	assert.Len(t, items[0].Ops[0].Targets, 2)
}

func TestSplit_SingleQubitGate_SplitByImmuneQubits(t *testing.T) {
	c := circuit.Circuit{}.Append("H", []circuit.GateTarget{circuit.Qubit(0), circuit.Qubit(1)})
	items := Split(c, gate.DefaultOracle(), qubitset.New(1))
	require.Len(t, items[0].Ops, 2)
}

func TestOccursInClassicalControlSystem(t *testing.T) {
	oracle := gate.DefaultOracle()

	annotation := circuit.NewInstruction("TICK", nil)
	assert.True(t, OccursInClassicalControlSystem(annotation, oracle))

	allClassical := circuit.NewInstruction("CX", []circuit.GateTarget{circuit.RecTarget(-1), circuit.Qubit(0)})
	assert.True(t, OccursInClassicalControlSystem(allClassical, oracle))

	mixed := circuit.NewInstruction("CX", []circuit.GateTarget{
		circuit.RecTarget(-1), circuit.Qubit(0),
		circuit.Qubit(2), circuit.Qubit(3),
	})
	assert.False(t, OccursInClassicalControlSystem(mixed, oracle))

	plainQuantum := circuit.NewInstruction("CX", []circuit.GateTarget{circuit.Qubit(0), circuit.Qubit(1)})
	assert.False(t, OccursInClassicalControlSystem(plainQuantum, oracle))

	singleQubit := circuit.NewInstruction("H", []circuit.GateTarget{circuit.Qubit(0)})
	assert.False(t, OccursInClassicalControlSystem(singleQubit, oracle))
}

func TestIsAnnotation(t *testing.T) {
	assert.True(t, IsAnnotation("DETECTOR"))
	assert.True(t, IsAnnotation("OBSERVABLE_INCLUDE"))
	assert.False(t, IsAnnotation("H"))
}
