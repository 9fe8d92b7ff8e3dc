package gate

// arg0 is the common case: no parenthesized arguments at all.
var arg0 = ArgRange{0, 1}

// arg01 covers gates that accept an optional single probability argument
// (e.g. a measurement's flip_result).
var arg01 = ArgRange{0, 2}

// arg1 covers the single-probability noise channels, which take exactly
// one parenthesized argument.
var arg1 = ArgRange{1, 2}

func unitary1q(name string) Data {
	return Data{
		Name:                    name,
		IsUnitary:               true,
		IsSingleQubitGate:       true,
		NumParensArgumentsRange: arg0,
	}
}

func unitary2q(name string) Data {
	return Data{
		Name:                    name,
		IsUnitary:               true,
		IsTwoQubitGate:          true,
		NumParensArgumentsRange: arg0,
	}
}

func reset1q(name string) Data {
	return Data{
		Name:                    name,
		IsReset:                 true,
		IsSingleQubitGate:       true,
		NumParensArgumentsRange: arg0,
	}
}

func measure1q(name string) Data {
	return Data{
		Name:                    name,
		ProducesMeasurements:    true,
		IsSingleQubitGate:       true,
		IsNoisyGate:             true,
		NumParensArgumentsRange: arg01,
	}
}

func measure2q(name string) Data {
	return Data{
		Name:                    name,
		ProducesMeasurements:    true,
		IsTwoQubitGate:          true,
		IsNoisyGate:             true,
		NumParensArgumentsRange: arg01,
	}
}

func measureReset1q(name string) Data {
	return Data{
		Name:                    name,
		ProducesMeasurements:    true,
		IsReset:                 true,
		IsSingleQubitGate:       true,
		IsNoisyGate:             true,
		NumParensArgumentsRange: arg01,
	}
}

func noise1q(name string, argRange ArgRange) Data {
	return Data{
		Name:                    name,
		IsNoisyGate:             true,
		IsSingleQubitGate:       true,
		NumParensArgumentsRange: argRange,
	}
}

func noise2q(name string, argRange ArgRange) Data {
	return Data{
		Name:                    name,
		IsNoisyGate:             true,
		IsTwoQubitGate:          true,
		NumParensArgumentsRange: argRange,
	}
}

// defaultData is the built-in registry, covering every gate name the
// noise engine, moment splitter and layer rewriter ever need to classify.
var defaultData = mapOracle{
	// single-qubit Clifford rotations
	"I":            unitary1q("I"),
	"X":            unitary1q("X"),
	"Y":            unitary1q("Y"),
	"Z":            unitary1q("Z"),
	"H":            unitary1q("H"),
	"S":            unitary1q("S"),
	"S_DAG":        unitary1q("S_DAG"),
	"SQRT_X":       unitary1q("SQRT_X"),
	"SQRT_X_DAG":   unitary1q("SQRT_X_DAG"),
	"SQRT_Y":       unitary1q("SQRT_Y"),
	"SQRT_Y_DAG":   unitary1q("SQRT_Y_DAG"),

	// two-qubit Clifford interactions
	"CX":           unitary2q("CX"),
	"CY":           unitary2q("CY"),
	"CZ":           unitary2q("CZ"),
	"XCX":          unitary2q("XCX"),
	"XCY":          unitary2q("XCY"),
	"XCZ":          unitary2q("XCZ"),
	"YCX":          unitary2q("YCX"),
	"YCY":          unitary2q("YCY"),
	"YCZ":          unitary2q("YCZ"),
	"SWAP":         unitary2q("SWAP"),
	"ISWAP":        unitary2q("ISWAP"),
	"ISWAP_DAG":    unitary2q("ISWAP_DAG"),
	"CXSWAP":       unitary2q("CXSWAP"),
	"SWAPCX":       unitary2q("SWAPCX"),
	"SQRT_XX":      unitary2q("SQRT_XX"),
	"SQRT_XX_DAG":  unitary2q("SQRT_XX_DAG"),
	"SQRT_YY":      unitary2q("SQRT_YY"),
	"SQRT_YY_DAG":  unitary2q("SQRT_YY_DAG"),
	"SQRT_ZZ":      unitary2q("SQRT_ZZ"),
	"SQRT_ZZ_DAG":  unitary2q("SQRT_ZZ_DAG"),

	// resets
	"R":  reset1q("R"),
	"RX": reset1q("RX"),
	"RY": reset1q("RY"),

	// measurements
	"M":   measure1q("M"),
	"MX":  measure1q("MX"),
	"MY":  measure1q("MY"),
	"MZ":  measure1q("MZ"),
	"MXX": measure2q("MXX"),
	"MYY": measure2q("MYY"),
	"MZZ": measure2q("MZZ"),
	"MPP": {
		Name:                    "MPP",
		ProducesMeasurements:    true,
		IsNoisyGate:             true,
		NumParensArgumentsRange: arg01,
	},

	// measure-and-reset composites
	"MR":   measureReset1q("MR"),
	"MRX":  measureReset1q("MRX"),
	"MRY":  measureReset1q("MRY"),

	// pure noise channels
	"DEPOLARIZE1":     noise1q("DEPOLARIZE1", arg1),
	"DEPOLARIZE2":      noise2q("DEPOLARIZE2", arg1),
	"X_ERROR":          noise1q("X_ERROR", arg1),
	"Y_ERROR":          noise1q("Y_ERROR", arg1),
	"Z_ERROR":          noise1q("Z_ERROR", arg1),
	"PAULI_CHANNEL_1":  noise1q("PAULI_CHANNEL_1", ArgRange{3, 4}),
	"PAULI_CHANNEL_2":  noise2q("PAULI_CHANNEL_2", ArgRange{15, 16}),
}

// DefaultOracle returns the built-in gate-data oracle used throughout the
// toolkit unless a caller supplies its own.
func DefaultOracle() Oracle { return defaultData }
