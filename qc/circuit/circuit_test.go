package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGateTarget_Accessors(t *testing.T) {
	assert := assert.New(t)

	q := Qubit(3)
	assert.True(q.IsQubitTarget())
	assert.Equal(3, q.QubitValue())

	x := PauliTarget('X', 5)
	assert.True(x.IsXTarget())
	assert.True(x.IsPauliTarget())
	assert.Equal(5, x.QubitValue())
	assert.Equal(byte('X'), x.PauliBasis())

	rec := RecTarget(-1)
	assert.True(rec.IsMeasurementRecordTarget())
	assert.True(rec.IsClassicalTarget())

	sw := SweepBitTarget(2)
	assert.True(sw.IsSweepBitTarget())
	assert.True(sw.IsClassicalTarget())

	assert.True(Combiner().IsCombiner())
}

func TestGateTarget_RecTargetPanicsOnNonNegative(t *testing.T) {
	assert.Panics(t, func() { RecTarget(0) })
}

func TestCircuit_NumQubits(t *testing.T) {
	c := Circuit{}.
		Append("H", []GateTarget{Qubit(0)}).
		Append("CX", []GateTarget{Qubit(0), Qubit(2)})
	assert.Equal(t, 3, c.NumQubits())
}

func TestCircuit_NumQubits_RecursesIntoRepeatBlocks(t *testing.T) {
	body := Circuit{}.Append("H", []GateTarget{Qubit(4)})
	c := Circuit{}.AppendRepeat(body, 3)
	assert.Equal(t, 5, c.NumQubits())
}

func TestCircuit_Copy_IsIndependent(t *testing.T) {
	assert := assert.New(t)
	orig := Circuit{}.Append("H", []GateTarget{Qubit(0)})
	clone := orig.Copy()

	origInstr := orig[0].(Instruction)
	origInstr.Targets[0] = Qubit(99)

	cloneInstr := clone[0].(Instruction)
	assert.Equal(0, cloneInstr.Targets[0].Value)
}

func TestInstruction_QubitTargets_SkipsClassicalAndCombiner(t *testing.T) {
	in := NewInstruction("MPP", []GateTarget{
		PauliTarget('X', 0), Combiner(), PauliTarget('Y', 1),
	})
	assert.Equal(t, []int{0, 1}, in.QubitTargets())

	in2 := NewInstruction("CX", []GateTarget{RecTarget(-1), Qubit(5)})
	assert.Equal(t, []int{5}, in2.QubitTargets())
}
