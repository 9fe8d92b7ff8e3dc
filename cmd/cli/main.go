package main

import (
	"fmt"

	"github.com/kegliz/qplay/qc/circuit"
	"github.com/kegliz/qplay/qc/gate"
	"github.com/kegliz/qplay/qc/layercircuit"
	"github.com/kegliz/qplay/qc/noise"
)

func main() {
	fmt.Println("--- Bell state: noisify under SI1000(p=0.001) ---")
	noisifyBellState(0.001)
	fmt.Println("\n--- Repeated H-H circuit: optimize ---")
	optimizeRedundantRotations()
}

// bellStateCircuit builds a noiseless two-qubit Bell-state preparation
// followed by measurement, the same logical circuit the teacher's CLI
// simulated directly.
func bellStateCircuit() circuit.Circuit {
	var c circuit.Circuit
	c = c.Append("R", []circuit.GateTarget{circuit.Qubit(0), circuit.Qubit(1)})
	c = c.Append("TICK", nil)
	c = c.Append("H", []circuit.GateTarget{circuit.Qubit(0)})
	c = c.Append("TICK", nil)
	c = c.Append("CX", []circuit.GateTarget{circuit.Qubit(0), circuit.Qubit(1)})
	c = c.Append("TICK", nil)
	c = c.Append("M", []circuit.GateTarget{circuit.Qubit(0), circuit.Qubit(1)})
	return c
}

// noisifyBellState runs the Bell-state circuit through the SI1000 noise
// preset and prints the resulting instruction stream.
func noisifyBellState(p float64) {
	oracle := gate.DefaultOracle()
	model, err := noise.Si1000(oracle, p)
	if err != nil {
		fmt.Printf("building noise model failed: %v\n", err)
		return
	}

	c := bellStateCircuit()
	noisy, err := model.NoisyCircuit(c, nil, nil)
	if err != nil {
		fmt.Printf("noisify failed: %v\n", err)
		return
	}
	printCircuit(noisy)
}

// redundantRotationCircuit builds a circuit whose two back-to-back H
// layers on the same qubit are a textbook WithLocallyOptimizedLayers
// cancellation, wrapped in a REPEAT block so WithEjectedLoopIterations and
// WithCleanedUpLoopIterations also get exercised.
func redundantRotationCircuit() circuit.Circuit {
	var body circuit.Circuit
	body = body.Append("H", []circuit.GateTarget{circuit.Qubit(0)})
	body = body.Append("TICK", nil)
	body = body.Append("H", []circuit.GateTarget{circuit.Qubit(0)})
	body = body.Append("TICK", nil)
	body = body.Append("M", []circuit.GateTarget{circuit.Qubit(0)})
	body = body.Append("TICK", nil)
	body = body.Append("R", []circuit.GateTarget{circuit.Qubit(0)})

	var c circuit.Circuit
	c = c.Append("R", []circuit.GateTarget{circuit.Qubit(0)})
	c = c.AppendRepeat(body, 4)
	return c
}

// optimizeRedundantRotations builds a LayerCircuit from a circuit with
// redundant rotations, runs the rewrite passes to a fixed point, and
// prints the simplified circuit.
func optimizeRedundantRotations() {
	oracle := gate.DefaultOracle()
	c := redundantRotationCircuit()

	lc, err := layercircuit.FromCircuit(c, oracle)
	if err != nil {
		fmt.Printf("building layer circuit failed: %v\n", err)
		return
	}

	opt, err := lc.Optimize()
	if err != nil {
		fmt.Printf("optimize failed: %v\n", err)
		return
	}
	printCircuit(opt.ToCircuit())
}

func printCircuit(c circuit.Circuit) {
	for _, e := range c {
		switch v := e.(type) {
		case circuit.Instruction:
			fmt.Printf("%s %v %v\n", v.Name, v.Targets, v.Args)
		case *circuit.RepeatBlock:
			fmt.Printf("REPEAT %d {\n", v.Repetitions)
			printCircuit(v.Body)
			fmt.Println("}")
		}
	}
}
