package noise

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kegliz/qplay/qc/circuit"
	"github.com/kegliz/qplay/qc/gate"
	"github.com/kegliz/qplay/qc/qubitset"
)

func TestNewNoiseRule_RejectsImpureChannel(t *testing.T) {
	oracle := gate.DefaultOracle()
	_, err := NewNoiseRule(oracle, nil, map[string]Probs{"M": P(0.1)}, 0)
	require.Error(t, err)
	assert.IsType(t, &NotPureNoiseChannelError{}, err)
}

func TestNewNoiseRule_RejectsOutOfRangeProbability(t *testing.T) {
	oracle := gate.DefaultOracle()
	_, err := NewNoiseRule(oracle, nil, map[string]Probs{"DEPOLARIZE1": P(1.5)}, 0)
	require.Error(t, err)
	assert.IsType(t, &InvalidProbabilityError{}, err)
}

func TestNewNoiseRule_RejectsPauliChannelWrongArgCount(t *testing.T) {
	oracle := gate.DefaultOracle()
	_, err := NewNoiseRule(oracle, nil, map[string]Probs{"PAULI_CHANNEL_1": {0.1, 0.1}}, 0)
	require.Error(t, err)
}

func TestWithTickNoise_RejectsFlipResult(t *testing.T) {
	oracle := gate.DefaultOracle()
	rule := flipResultRule(0.1)
	_, err := NewNoiseModel(oracle, WithTickNoise(rule))
	require.Error(t, err)
	assert.IsType(t, &TickNoiseFlipResultError{}, err)
}

func TestUniformDepolarizing_AddsNoiseAroundEveryGate(t *testing.T) {
	oracle := gate.DefaultOracle()
	model, err := UniformDepolarizing(oracle, 0.01, false)
	require.NoError(t, err)

	c := circuit.Circuit{}.
		Append("H", []circuit.GateTarget{circuit.Qubit(0)}).
		Append("TICK", nil).
		Append("M", []circuit.GateTarget{circuit.Qubit(0)})

	noisy, err := model.NoisyCircuit(c, qubitset.New(0), nil)
	require.NoError(t, err)
	require.NotEmpty(t, noisy)

	var names []string
	for _, e := range noisy {
		if instr, ok := e.(circuit.Instruction); ok {
			names = append(names, instr.Name)
		}
	}
	assert.Contains(t, names, "DEPOLARIZE1")
	assert.Contains(t, names, "H")
	assert.Contains(t, names, "M")
}

func TestSi1000_BuildsWithoutError(t *testing.T) {
	oracle := gate.DefaultOracle()
	model, err := Si1000(oracle, 0.001)
	require.NoError(t, err)
	require.NotNil(t, model)

	c := circuit.Circuit{}.
		Append("R", []circuit.GateTarget{circuit.Qubit(0)}).
		Append("TICK", nil).
		Append("H", []circuit.GateTarget{circuit.Qubit(0)}).
		Append("TICK", nil).
		Append("M", []circuit.GateTarget{circuit.Qubit(0)})

	noisy, err := model.NoisyCircuit(c, qubitset.New(0), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, noisy)
}

func TestNoisyCircuit_ImmuneQubitPassesThroughUnchanged(t *testing.T) {
	oracle := gate.DefaultOracle()
	model, err := UniformDepolarizing(oracle, 0.01, false)
	require.NoError(t, err)

	c := circuit.Circuit{}.Append("H", []circuit.GateTarget{circuit.Qubit(0), circuit.Qubit(1)})
	noisy, err := model.NoisyCircuit(c, qubitset.New(0, 1), qubitset.New(1))
	require.NoError(t, err)

	var sawNoiseOnQubit1 bool
	for _, e := range noisy {
		instr, ok := e.(circuit.Instruction)
		if !ok || instr.Name != "DEPOLARIZE1" {
			continue
		}
		for _, tgt := range instr.Targets {
			if tgt.QubitValue() == 1 {
				sawNoiseOnQubit1 = true
			}
		}
	}
	assert.False(t, sawNoiseOnQubit1)
}

func TestNoisyCircuit_RejectsQubitCollisionWithoutOverride(t *testing.T) {
	oracle := gate.DefaultOracle()
	model, err := UniformDepolarizing(oracle, 0.01, false)
	require.NoError(t, err)

	c := circuit.Circuit{}.Append("CX", []circuit.GateTarget{circuit.Qubit(0), circuit.Qubit(1), circuit.Qubit(1), circuit.Qubit(2)})
	_, err = model.NoisyCircuit(c, qubitset.New(0, 1, 2), nil)
	require.Error(t, err)
	assert.IsType(t, &QubitCollisionError{}, err)
}

func TestNoisyCircuit_AllowMultipleUsesOfAQubitInOneTick(t *testing.T) {
	oracle := gate.DefaultOracle()
	model, err := NewNoiseModel(oracle, WithAllowMultipleUsesOfAQubitInOneTick(), WithAnyClifford2QRule(&NoiseRule{}))
	require.NoError(t, err)

	c := circuit.Circuit{}.Append("CX", []circuit.GateTarget{circuit.Qubit(0), circuit.Qubit(1), circuit.Qubit(1), circuit.Qubit(2)})
	_, err = model.NoisyCircuit(c, qubitset.New(0, 1, 2), nil)
	require.NoError(t, err)
}

func TestNoisyCircuit_RecursesIntoRepeatBlocks(t *testing.T) {
	oracle := gate.DefaultOracle()
	model, err := UniformDepolarizing(oracle, 0.01, false)
	require.NoError(t, err)

	body := circuit.Circuit{}.Append("H", []circuit.GateTarget{circuit.Qubit(0)})
	c := circuit.Circuit{}.AppendRepeat(body, 3)

	noisy, err := model.NoisyCircuit(c, qubitset.New(0), nil)
	require.NoError(t, err)
	require.Len(t, noisy, 1)
	rb, ok := noisy[0].(*circuit.RepeatBlock)
	require.True(t, ok)
	assert.Equal(t, uint64(3), rb.Repetitions)
	assert.NotEmpty(t, rb.Body)
}

func TestNoisyCircuit_MeasureResetSynthesizesComboRule(t *testing.T) {
	oracle := gate.DefaultOracle()
	resetRule, err := NewNoiseRule(oracle, nil, map[string]Probs{"X_ERROR": P(0.02)}, 0)
	require.NoError(t, err)
	measureRule, err := NewNoiseRule(oracle, map[string]Probs{"X_ERROR": P(0.03)}, nil, 0.01)
	require.NoError(t, err)

	model, err := NewNoiseModel(oracle,
		WithGateRule("R", resetRule),
		WithGateRule("M", measureRule),
	)
	require.NoError(t, err)

	c := circuit.Circuit{}.Append("MR", []circuit.GateTarget{circuit.Qubit(0)})
	noisy, err := model.NoisyCircuit(c, qubitset.New(0), nil)
	require.NoError(t, err)

	var sawFlip, sawXErrorAfter bool
	for _, e := range noisy {
		instr, ok := e.(circuit.Instruction)
		if !ok {
			continue
		}
		if instr.Name == "MR" && len(instr.Args) == 1 && instr.Args[0] == 0.01 {
			sawFlip = true
		}
		if instr.Name == "X_ERROR" && len(instr.Args) == 1 && instr.Args[0] == 0.02 {
			sawXErrorAfter = true
		}
	}
	assert.True(t, sawFlip, "expected MR to carry the measure rule's flip_result")
	assert.True(t, sawXErrorAfter, "expected the reset rule's after-noise")
}

func TestNoiseModel_IsSafeForConcurrentNoisyCircuitCalls(t *testing.T) {
	oracle := gate.DefaultOracle()
	model, err := UniformDepolarizing(oracle, 0.01, false)
	require.NoError(t, err)

	c := circuit.Circuit{}.
		Append("H", []circuit.GateTarget{circuit.Qubit(0)}).
		Append("TICK", nil).
		Append("PAULI_CHANNEL_1", []circuit.GateTarget{circuit.Qubit(0)}, 0.1, 0.1, 0.1)

	var wg sync.WaitGroup
	errs := make([]error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = model.NoisyCircuit(c, qubitset.New(0), nil)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		assert.NoError(t, err)
	}
}

func TestNoisyCircuitSkippingMPPBoundaries_LeavesBoundaryMPPUntouched(t *testing.T) {
	oracle := gate.DefaultOracle()
	model, err := UniformDepolarizing(oracle, 0.01, false)
	require.NoError(t, err)

	c := circuit.Circuit{}.
		Append("MPP", []circuit.GateTarget{circuit.PauliTarget('Z', 0)}).
		Append("TICK", nil).
		Append("H", []circuit.GateTarget{circuit.Qubit(0)}).
		Append("TICK", nil).
		Append("MPP", []circuit.GateTarget{circuit.PauliTarget('Z', 0)})

	noisy, err := model.NoisyCircuitSkippingMPPBoundaries(c, qubitset.New(0), nil)
	require.NoError(t, err)

	require.IsType(t, circuit.Instruction{}, noisy[0])
	assert.Equal(t, "MPP", noisy[0].(circuit.Instruction).Name)
	last := noisy[len(noisy)-1].(circuit.Instruction)
	assert.Equal(t, "MPP", last.Name)

	var sawNoiseInMiddle bool
	for _, e := range noisy {
		if instr, ok := e.(circuit.Instruction); ok && instr.Name == "DEPOLARIZE1" {
			sawNoiseInMiddle = true
		}
	}
	assert.True(t, sawNoiseInMiddle, "the middle section should still be noise-instrumented")
}

func TestNoisyCircuitSkippingMPPBoundaries_FailsOnEmptyMiddle(t *testing.T) {
	oracle := gate.DefaultOracle()
	model, err := UniformDepolarizing(oracle, 0.01, false)
	require.NoError(t, err)

	c := circuit.Circuit{}.
		Append("MPP", []circuit.GateTarget{circuit.PauliTarget('Z', 0)}).
		Append("TICK", nil).
		Append("MPP", []circuit.GateTarget{circuit.PauliTarget('Z', 0)})

	_, err = model.NoisyCircuitSkippingMPPBoundaries(c, qubitset.New(0), nil)
	require.Error(t, err)
	assert.IsType(t, &EmptyMiddleError{}, err)
}
