package circuit

// Element is either an Instruction or a *RepeatBlock, matching spec §3's
// "ordered sequence whose elements are either instructions or repeat
// blocks". It is a closed, two-member set, so a type switch on it is
// exhaustive everywhere in this toolkit.
type Element interface {
	isElement()
}

// RepeatBlock is a REPEAT N { body } construct: body runs Repetitions times.
type RepeatBlock struct {
	Body        Circuit
	Repetitions uint64
}

func (*RepeatBlock) isElement() {}

// Copy returns a deep copy of the repeat block.
func (r *RepeatBlock) Copy() *RepeatBlock {
	return &RepeatBlock{Body: r.Body.Copy(), Repetitions: r.Repetitions}
}

// Circuit is the flat, ordered instruction/repeat-block stream.
type Circuit []Element

// Append returns a new circuit with an instruction appended.
func (c Circuit) Append(name string, targets []GateTarget, args ...Arg) Circuit {
	return append(c, NewInstruction(name, targets, args...))
}

// AppendRepeat returns a new circuit with a repeat block appended.
func (c Circuit) AppendRepeat(body Circuit, repetitions uint64) Circuit {
	return append(c, &RepeatBlock{Body: body, Repetitions: repetitions})
}

// Copy returns a deep copy of the circuit: every instruction and repeat
// block (recursively) is copied rather than shared.
func (c Circuit) Copy() Circuit {
	out := make(Circuit, len(c))
	for i, e := range c {
		switch v := e.(type) {
		case Instruction:
			out[i] = v.Copy()
		case *RepeatBlock:
			out[i] = v.Copy()
		}
	}
	return out
}

// NumQubits returns one past the largest qubit index referenced anywhere
// in the circuit, recursing into repeat blocks. This is the natural
// default for system_qubit_indices when a caller doesn't specify one.
func (c Circuit) NumQubits() int {
	max := -1
	var walk func(Circuit)
	walk = func(cc Circuit) {
		for _, e := range cc {
			switch v := e.(type) {
			case Instruction:
				for _, t := range v.Targets {
					if t.IsCombiner() || t.IsClassicalTarget() {
						continue
					}
					if q := t.QubitValue(); q > max {
						max = q
					}
				}
			case *RepeatBlock:
				walk(v.Body)
			}
		}
	}
	walk(c)
	return max + 1
}
