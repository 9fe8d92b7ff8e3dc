package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOracle_KnownGates(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	oracle := DefaultOracle()

	h, err := oracle.Lookup("H")
	require.NoError(err)
	assert.True(h.IsUnitary)
	assert.True(h.IsSingleQubitGate)
	assert.False(h.IsTwoQubitGate)
	assert.False(h.ProducesMeasurements)
	assert.False(h.IsNoisyGate)

	cx, err := oracle.Lookup("CX")
	require.NoError(err)
	assert.True(cx.IsUnitary)
	assert.True(cx.IsTwoQubitGate)

	m, err := oracle.Lookup("M")
	require.NoError(err)
	assert.True(m.ProducesMeasurements)
	assert.True(m.IsNoisyGate)
	assert.True(m.NumParensArgumentsRange.Contains(0))
	assert.True(m.NumParensArgumentsRange.Contains(1))
	assert.False(m.NumParensArgumentsRange.Contains(2))

	r, err := oracle.Lookup("R")
	require.NoError(err)
	assert.True(r.IsReset)
	assert.False(r.ProducesMeasurements)

	mr, err := oracle.Lookup("MR")
	require.NoError(err)
	assert.True(mr.IsReset)
	assert.True(mr.ProducesMeasurements)

	dep1, err := oracle.Lookup("DEPOLARIZE1")
	require.NoError(err)
	assert.True(dep1.IsNoisyGate)
	assert.False(dep1.ProducesMeasurements)
	assert.False(dep1.IsUnitary)
}

func TestDefaultOracle_UnknownGate(t *testing.T) {
	_, err := DefaultOracle().Lookup("NOT_A_GATE")
	var unknown *UnknownGateError
	assert.ErrorAs(t, err, &unknown)
	assert.Equal(t, "NOT_A_GATE", unknown.Name)
}

func TestArgRange_Contains(t *testing.T) {
	r := ArgRange{1, 4}
	assert.False(t, r.Contains(0))
	assert.True(t, r.Contains(1))
	assert.True(t, r.Contains(3))
	assert.False(t, r.Contains(4))
}
