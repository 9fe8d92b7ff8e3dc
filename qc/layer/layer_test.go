package layer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kegliz/qplay/qc/circuit"
)

func TestRotationLayer_AppendNamedRotation_ComposesOntoExisting(t *testing.T) {
	r := NewRotationLayer()
	r.AppendNamedRotation("H", 0)
	r.AppendNamedRotation("H", 0)
	assert.True(t, isIdentityMap(r.Targets[0]), "H*H should be the identity rotation")
}

func TestRotationLayer_IsVacuous(t *testing.T) {
	r := NewRotationLayer()
	assert.True(t, r.IsVacuous())
	r.AppendNamedRotation("I", 0)
	assert.True(t, r.IsVacuous())
	r.AppendNamedRotation("H", 0)
	assert.False(t, r.IsVacuous())
}

func TestRotationLayer_FuseWithNext(t *testing.T) {
	a := NewRotationLayer()
	a.AppendNamedRotation("H", 0)
	b := NewRotationLayer()
	b.AppendNamedRotation("H", 0)

	fused, ok := a.FuseWithNext(b)
	require.True(t, ok)
	require.Len(t, fused, 0, "H followed by H cancels to nothing")
}

func TestRotationLayer_FuseWithNext_NonRotation(t *testing.T) {
	a := NewRotationLayer()
	a.AppendNamedRotation("H", 0)
	_, ok := a.FuseWithNext(NewResetLayer())
	assert.False(t, ok)
}

func TestDecomposeToNames_CoversEveryGenerator(t *testing.T) {
	for name, m := range generators {
		word := decomposeToNames(m)
		recomposed := identityMap()
		for _, n := range word {
			recomposed = composeMaps(recomposed, generators[n])
		}
		assert.Equal(t, signature(m), signature(recomposed), "round-trip decomposition failed for %s", name)
	}
}

func TestRotationLayer_AppendInto_EmitsGates(t *testing.T) {
	r := NewRotationLayer()
	r.AppendNamedRotation("H", 0)
	r.AppendNamedRotation("H", 1)
	var c circuit.Circuit
	r.AppendInto(&c)
	require.Len(t, c, 1)
	instr := c[0].(circuit.Instruction)
	assert.Equal(t, "H", instr.Name)
	assert.Equal(t, []int{0, 1}, instr.QubitTargets())
}

func TestResetLayer_ToZBasis(t *testing.T) {
	r := NewResetLayer()
	r.Targets[0] = 'X'
	converted := r.ToZBasis()
	require.Len(t, converted, 2)
	z := converted[0].(*ResetLayer)
	assert.Equal(t, byte('Z'), z.Targets[0])
	fix := converted[1].(*RotationLayer)
	assert.False(t, fix.IsVacuous())
}

func TestMeasureLayer_ToZBasis(t *testing.T) {
	m := NewMeasureLayer()
	m.Append('X', 0, 0)
	converted := m.ToZBasis()
	require.Len(t, converted, 2)
	fix := converted[0].(*RotationLayer)
	assert.False(t, fix.IsVacuous())
	z := converted[1].(*MeasureLayer)
	assert.Equal(t, byte('Z'), z.Bases[0])
}

func TestMeasureLayer_AppendInto_GroupsByBasisAndFlip(t *testing.T) {
	m := NewMeasureLayer()
	m.Append('Z', 0, 0)
	m.Append('Z', 1, 0)
	m.Append('X', 2, 0.01)
	var c circuit.Circuit
	m.AppendInto(&c)
	require.Len(t, c, 2)
}

func TestEmptyLayer_IsVacuousAndFuses(t *testing.T) {
	e := NewEmptyLayer()
	assert.True(t, e.IsVacuous())
	next := NewResetLayer()
	fused, ok := e.FuseWithNext(next)
	require.True(t, ok)
	require.Len(t, fused, 1)
	assert.Same(t, Layer(next), fused[0])
}

func TestInteractLayer_AppendInto(t *testing.T) {
	i := NewInteractLayer()
	i.Append('Z', 0, 'X', 1)
	var c circuit.Circuit
	i.AppendInto(&c)
	require.Len(t, c, 1)
	assert.Equal(t, "CX", c[0].(circuit.Instruction).Name)
}

func TestLoopLayer_IsVacuousWhenZeroRepetitions(t *testing.T) {
	body := []Layer{NewResetLayer()}
	l := NewLoopLayer(body, 0)
	assert.True(t, l.IsVacuous())
}

func TestQubitCoordAnnotationLayer_AppendInto(t *testing.T) {
	q := NewQubitCoordAnnotationLayer()
	q.Coords[3] = []float64{1, 2}
	var c circuit.Circuit
	q.AppendInto(&c)
	require.Len(t, c, 1)
	instr := c[0].(circuit.Instruction)
	assert.Equal(t, []float64{1, 2}, instr.Args)
}
