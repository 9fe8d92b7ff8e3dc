package layer

import (
	"github.com/kegliz/qplay/qc/circuit"
	"github.com/kegliz/qplay/qc/qubitset"
)

// LoopLayer wraps a repeated body of layers, mirroring a circuit.RepeatBlock
// one level up in the layer model.
type LoopLayer struct {
	Body        []Layer
	Repetitions uint64
}

func NewLoopLayer(body []Layer, repetitions uint64) *LoopLayer {
	return &LoopLayer{Body: body, Repetitions: repetitions}
}

func (*LoopLayer) isLayer() {}

func (l *LoopLayer) Touched() qubitset.Set {
	out := qubitset.Set{}
	for _, layer := range l.Body {
		out.AddAll(layer.Touched())
	}
	return out
}

func (l *LoopLayer) Copy() Layer {
	out := &LoopLayer{Repetitions: l.Repetitions}
	for _, layer := range l.Body {
		out.Body = append(out.Body, layer.Copy())
	}
	return out
}

// IsVacuous is true when the loop never runs or its body has no effect.
func (l *LoopLayer) IsVacuous() bool {
	if l.Repetitions == 0 {
		return true
	}
	for _, layer := range l.Body {
		if !layer.IsVacuous() {
			return false
		}
	}
	return true
}

func (*LoopLayer) RequiresTickBefore() bool       { return true }
func (*LoopLayer) ImpliesEventualTickAfter() bool { return true }

func (l *LoopLayer) ToZBasis() []Layer {
	out := &LoopLayer{Repetitions: l.Repetitions}
	for _, layer := range l.Body {
		out.Body = append(out.Body, layer.ToZBasis()...)
	}
	return []Layer{out}
}

func (l *LoopLayer) AppendInto(c *circuit.Circuit) {
	if l.Repetitions == 0 {
		return
	}
	var body circuit.Circuit
	for i, layer := range l.Body {
		if i > 0 && (l.Body[i-1].ImpliesEventualTickAfter() || layer.RequiresTickBefore()) {
			body = body.Append("TICK", nil)
		}
		layer.AppendInto(&body)
	}
	body = body.Append("TICK", nil)
	*c = c.AppendRepeat(body, l.Repetitions)
}
