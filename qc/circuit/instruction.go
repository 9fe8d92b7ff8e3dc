package circuit

// Arg is a single real-valued parenthesized argument. Most gates take at
// most one, but PAULI_CHANNEL_1/2 take several disjoint probabilities,
// which an Instruction carries as several entries of its Args slice.
type Arg = float64

// Instruction is one gate application: a name, its ordered targets, and
// its ordered real-valued arguments.
type Instruction struct {
	Name    string
	Targets []GateTarget
	Args    []Arg
}

// NewInstruction builds an Instruction, copying targets and args so the
// caller's backing arrays can be reused safely.
func NewInstruction(name string, targets []GateTarget, args ...Arg) Instruction {
	return Instruction{
		Name:    name,
		Targets: append([]GateTarget(nil), targets...),
		Args:    append([]Arg(nil), args...),
	}
}

// Copy returns a deep copy of the instruction.
func (in Instruction) Copy() Instruction {
	return Instruction{
		Name:    in.Name,
		Targets: append([]GateTarget(nil), in.Targets...),
		Args:    append([]Arg(nil), in.Args...),
	}
}

// QubitTargets returns the qubit index carried by every non-combiner
// target, in order. Classical targets are skipped since they don't name a
// physical qubit.
func (in Instruction) QubitTargets() []int {
	var out []int
	for _, t := range in.Targets {
		if t.IsCombiner() || t.IsClassicalTarget() {
			continue
		}
		out = append(out, t.QubitValue())
	}
	return out
}

func (Instruction) isElement() {}
