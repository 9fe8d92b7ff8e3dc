package layer

import "sort"

// signedPauli is a Pauli operator together with the sign picked up by
// conjugating it through a rotation.
type signedPauli struct {
	P    byte // 'X', 'Y', or 'Z'
	Sign int8 // +1 or -1
}

// pauliMap is the conjugation action of a single-qubit Clifford rotation:
// where X, Y and Z each end up, and with what sign. It is the internal
// representation a RotationLayer composes as named rotations accumulate on
// a qubit, rather than a hand-maintained 24-row table of named products.
type pauliMap map[byte]signedPauli

func identityMap() pauliMap {
	return pauliMap{'X': {'X', 1}, 'Y': {'Y', 1}, 'Z': {'Z', 1}}
}

// composeMaps returns the rotation equivalent to applying a first, then b.
func composeMaps(a, b pauliMap) pauliMap {
	out := make(pauliMap, 3)
	for _, p := range [3]byte{'X', 'Y', 'Z'} {
		mid := a[p]
		final := b[mid.P]
		out[p] = signedPauli{P: final.P, Sign: mid.Sign * final.Sign}
	}
	return out
}

func isIdentityMap(m pauliMap) bool {
	for _, p := range [3]byte{'X', 'Y', 'Z'} {
		if m[p] != (signedPauli{p, 1}) {
			return false
		}
	}
	return true
}

// generators is every named single-qubit rotation the circuit IR and the
// layer model can reference by name.
var generators = map[string]pauliMap{
	"I":          identityMap(),
	"X":          {'X': {'X', 1}, 'Y': {'Y', -1}, 'Z': {'Z', -1}},
	"Y":          {'X': {'X', -1}, 'Y': {'Y', 1}, 'Z': {'Z', -1}},
	"Z":          {'X': {'X', -1}, 'Y': {'Y', -1}, 'Z': {'Z', 1}},
	"H":          {'X': {'Z', 1}, 'Y': {'Y', -1}, 'Z': {'X', 1}},
	"S":          {'X': {'Y', 1}, 'Y': {'X', -1}, 'Z': {'Z', 1}},
	"S_DAG":      {'X': {'Y', -1}, 'Y': {'X', 1}, 'Z': {'Z', 1}},
	"SQRT_X":     {'X': {'X', 1}, 'Y': {'Z', 1}, 'Z': {'Y', -1}},
	"SQRT_X_DAG": {'X': {'X', 1}, 'Y': {'Z', -1}, 'Z': {'Y', 1}},
	"SQRT_Y":     {'X': {'Z', -1}, 'Y': {'Y', 1}, 'Z': {'X', 1}},
	"SQRT_Y_DAG": {'X': {'Z', 1}, 'Y': {'Y', 1}, 'Z': {'X', -1}},
}

func signature(m pauliMap) [6]int8 {
	var sig [6]int8
	order := map[byte]int{'X': 0, 'Y': 1, 'Z': 2}
	for _, p := range [3]byte{'X', 'Y', 'Z'} {
		sig[order[p]*2] = int8(order[m[p].P])
		sig[order[p]*2+1] = m[p].Sign
	}
	return sig
}

// decompositionTable maps each net rotation's signature to the shortest
// word of generator names whose composition yields it, discovered by a breadth-first closure over
// the generator set rather than hard-coded. The single-qubit Clifford
// group has 24 elements and is reached well within two generator hops.
var decompositionTable = buildDecompositionTable()

func buildDecompositionTable() map[[6]int8][]string {
	table := map[[6]int8][]string{}
	table[signature(identityMap())] = nil

	names := make([]string, 0, len(generators))
	for name := range generators {
		names = append(names, name)
	}
	sort.Strings(names)

	frontier := [][2]interface{}{{identityMap(), []string(nil)}}
	for depth := 0; depth < 2 && len(frontier) > 0; depth++ {
		var next [][2]interface{}
		for _, entry := range frontier {
			base := entry[0].(pauliMap)
			word := entry[1].([]string)
			for _, name := range names {
				if name == "I" {
					continue
				}
				composed := composeMaps(base, generators[name])
				sig := signature(composed)
				if _, ok := table[sig]; ok {
					continue
				}
				newWord := append(append([]string(nil), word...), name)
				table[sig] = newWord
				next = append(next, [2]interface{}{composed, newWord})
			}
		}
		frontier = next
	}
	return table
}

// decomposeToNames returns a word of named single-qubit rotations (0, 1 or
// 2 long) whose composition equals m. It always succeeds for a valid
// Clifford rotation, since decompositionTable is built to closure.
func decomposeToNames(m pauliMap) []string {
	if word, ok := decompositionTable[signature(m)]; ok {
		return word
	}
	// Defensive: a rotation outside the generated group can't occur given
	// the named-rotation-only construction path; if one did, the empty
	// (identity) word is returned and nothing is emitted for it.
	return nil
}
