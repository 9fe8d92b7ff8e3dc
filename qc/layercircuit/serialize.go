package layercircuit

import "github.com/kegliz/qplay/qc/circuit"

// ToCircuit serializes the layer sequence back to a flat circuit, inserting
// TICKs wherever a layer boundary needs one: either because the layer just
// emitted implies an eventual tick after it, or because the next layer
// requires one before it.
func (lc *LayerCircuit) ToCircuit() circuit.Circuit {
	var c circuit.Circuit
	for i, l := range lc.Layers {
		if i > 0 && (lc.Layers[i-1].ImpliesEventualTickAfter() || l.RequiresTickBefore()) {
			c = c.Append("TICK", nil)
		}
		l.AppendInto(&c)
	}
	return c
}
