// Package gate is the gate-data oracle: it answers questions about a named
// gate (unitarity, arity, whether it resets or measures, whether it is a
// noise channel, how many parenthesized arguments it accepts) without
// knowing anything about a specific circuit. The noise engine and the
// moment splitter are both built against this package rather than against
// a hard-coded gate list, so a new gate only needs an entry here.
package gate

import "fmt"

// ArgRange is a half-open interval [Min, Max) of legal parenthesized
// argument counts, mirroring a Python range object.
type ArgRange struct {
	Min, Max int
}

// Contains reports whether n falls inside the range.
func (r ArgRange) Contains(n int) bool { return n >= r.Min && n < r.Max }

// Data is everything the rest of the package depends on knowing about a
// gate by name.
type Data struct {
	Name                    string
	IsUnitary               bool
	IsSingleQubitGate       bool
	IsTwoQubitGate          bool
	IsReset                 bool
	ProducesMeasurements    bool
	IsNoisyGate             bool
	NumParensArgumentsRange ArgRange
}

// UnknownGateError is returned by an Oracle when asked about a name it has
// no data for. Per spec this is always a fatal, non-recoverable error.
type UnknownGateError struct{ Name string }

func (e *UnknownGateError) Error() string {
	return fmt.Sprintf("gate: no data known for gate %q", e.Name)
}

// Oracle answers gate-data queries by name.
type Oracle interface {
	Lookup(name string) (Data, error)
}

type mapOracle map[string]Data

func (o mapOracle) Lookup(name string) (Data, error) {
	d, ok := o[name]
	if !ok {
		return Data{}, &UnknownGateError{Name: name}
	}
	return d, nil
}
