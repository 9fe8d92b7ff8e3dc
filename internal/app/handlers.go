package app

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kegliz/qplay/qc/circuit"
	"github.com/kegliz/qplay/qc/gate"
	"github.com/kegliz/qplay/qc/layercircuit"
	"github.com/kegliz/qplay/qc/qubitset"
)

var internalServerErrorMsg = "Internal Server Error - please contact the administrator"

// wireTarget is the JSON wire form of a circuit.GateTarget.
type wireTarget struct {
	Kind  string `json:"kind"`
	Value int    `json:"value,omitempty"`
	Rec   int    `json:"rec,omitempty"`
}

func (t wireTarget) toGateTarget() (circuit.GateTarget, error) {
	switch t.Kind {
	case "qubit":
		return circuit.Qubit(t.Value), nil
	case "x":
		return circuit.PauliTarget('X', t.Value), nil
	case "y":
		return circuit.PauliTarget('Y', t.Value), nil
	case "z":
		return circuit.PauliTarget('Z', t.Value), nil
	case "rec":
		return circuit.RecTarget(t.Rec), nil
	case "sweep":
		return circuit.SweepBitTarget(t.Value), nil
	case "combiner":
		return circuit.Combiner(), nil
	default:
		return circuit.GateTarget{}, fmt.Errorf("unknown target kind %q", t.Kind)
	}
}

func fromGateTarget(t circuit.GateTarget) wireTarget {
	switch {
	case t.IsCombiner():
		return wireTarget{Kind: "combiner"}
	case t.IsXTarget():
		return wireTarget{Kind: "x", Value: t.Value}
	case t.IsYTarget():
		return wireTarget{Kind: "y", Value: t.Value}
	case t.IsZTarget():
		return wireTarget{Kind: "z", Value: t.Value}
	case t.IsMeasurementRecordTarget():
		return wireTarget{Kind: "rec", Rec: t.Rec}
	case t.IsSweepBitTarget():
		return wireTarget{Kind: "sweep", Value: t.Value}
	default:
		return wireTarget{Kind: "qubit", Value: t.Value}
	}
}

// wireInstruction is the JSON wire form of a circuit.Instruction.
type wireInstruction struct {
	Name    string       `json:"name"`
	Targets []wireTarget `json:"targets"`
	Args    []float64    `json:"args,omitempty"`
}

// wireRepeatBlock is the JSON wire form of a *circuit.RepeatBlock.
type wireRepeatBlock struct {
	Body        []wireElement `json:"body"`
	Repetitions uint64        `json:"repetitions"`
}

// wireElement is one entry of a JSON circuit: exactly one of Instruction
// or Repeat must be set.
type wireElement struct {
	Instruction *wireInstruction `json:"instruction,omitempty"`
	Repeat      *wireRepeatBlock `json:"repeat,omitempty"`
}

func wireElementsToCircuit(elems []wireElement) (circuit.Circuit, error) {
	var c circuit.Circuit
	for i, e := range elems {
		switch {
		case e.Instruction != nil:
			targets := make([]circuit.GateTarget, len(e.Instruction.Targets))
			for j, wt := range e.Instruction.Targets {
				gt, err := wt.toGateTarget()
				if err != nil {
					return nil, fmt.Errorf("element %d: %w", i, err)
				}
				targets[j] = gt
			}
			c = c.Append(e.Instruction.Name, targets, e.Instruction.Args...)
		case e.Repeat != nil:
			body, err := wireElementsToCircuit(e.Repeat.Body)
			if err != nil {
				return nil, fmt.Errorf("element %d: repeat body: %w", i, err)
			}
			c = c.AppendRepeat(body, e.Repeat.Repetitions)
		default:
			return nil, fmt.Errorf("element %d: neither instruction nor repeat set", i)
		}
	}
	return c, nil
}

func circuitToWireElements(c circuit.Circuit) []wireElement {
	out := make([]wireElement, 0, len(c))
	for _, el := range c {
		switch v := el.(type) {
		case circuit.Instruction:
			targets := make([]wireTarget, len(v.Targets))
			for j, t := range v.Targets {
				targets[j] = fromGateTarget(t)
			}
			out = append(out, wireElement{Instruction: &wireInstruction{
				Name:    v.Name,
				Targets: targets,
				Args:    v.Args,
			}})
		case *circuit.RepeatBlock:
			out = append(out, wireElement{Repeat: &wireRepeatBlock{
				Body:        circuitToWireElements(v.Body),
				Repetitions: v.Repetitions,
			}})
		}
	}
	return out
}

// HealthHandler is the handler for the /healthz endpoint.
func (a *appServer) HealthHandler(c *gin.Context) {
	l, err := a.getLoggerFromContext(c)
	if err != nil {
		panic("logger not found in context")
	}
	l.Debug().Msg("serving healthz endpoint")
	c.String(http.StatusOK, "OK")
}

// NoisifyRequest is the body of a POST /noisify call.
type NoisifyRequest struct {
	Circuit           []wireElement `json:"circuit"`
	SystemQubits      []int         `json:"system_qubits,omitempty"`
	ImmuneQubits      []int         `json:"immune_qubits,omitempty"`
	SkipMPPBoundaries bool          `json:"skip_mpp_boundaries,omitempty"`
}

// NoisifyResponse is the body returned by a successful POST /noisify call.
type NoisifyResponse struct {
	Circuit []wireElement `json:"circuit"`
}

// NoisifyHandler is the handler for the /noisify endpoint: it rewrites the
// posted circuit into a noisy circuit using the service's configured
// NoiseModel.
func (a *appServer) NoisifyHandler(c *gin.Context) {
	l, err := a.getLoggerFromContext(c)
	if err != nil {
		panic("logger not found in context")
	}
	l.Debug().Msg("serving noisify endpoint")

	var req NoisifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Error().Err(err).Msg("binding JSON failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	circ, err := wireElementsToCircuit(req.Circuit)
	if err != nil {
		l.Error().Err(err).Msg("decoding circuit failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid circuit: " + err.Error()})
		return
	}

	var systemQubits, immuneQubits qubitset.Set
	if req.SystemQubits != nil {
		systemQubits = qubitset.New(req.SystemQubits...)
	}
	if req.ImmuneQubits != nil {
		immuneQubits = qubitset.New(req.ImmuneQubits...)
	}

	var noisy circuit.Circuit
	if req.SkipMPPBoundaries {
		noisy, err = a.noiseModel.NoisyCircuitSkippingMPPBoundaries(circ, systemQubits, immuneQubits)
	} else {
		noisy, err = a.noiseModel.NoisyCircuit(circ, systemQubits, immuneQubits)
	}
	if err != nil {
		l.Error().Err(err).Msg("noisify failed")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, NoisifyResponse{Circuit: circuitToWireElements(noisy)})
}

// OptimizeRequest is the body of a POST /optimize call.
type OptimizeRequest struct {
	Circuit []wireElement `json:"circuit"`
}

// OptimizeResponse is the body returned by a successful POST /optimize call.
type OptimizeResponse struct {
	Circuit []wireElement `json:"circuit"`
}

// OptimizeHandler is the handler for the /optimize endpoint: it converts
// the posted circuit into a LayerCircuit, runs the rewrite passes to a
// fixed point, and serializes the result back to a circuit.
func (a *appServer) OptimizeHandler(c *gin.Context) {
	l, err := a.getLoggerFromContext(c)
	if err != nil {
		panic("logger not found in context")
	}
	l.Debug().Msg("serving optimize endpoint")

	var req OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Error().Err(err).Msg("binding JSON failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	circ, err := wireElementsToCircuit(req.Circuit)
	if err != nil {
		l.Error().Err(err).Msg("decoding circuit failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid circuit: " + err.Error()})
		return
	}

	lc, err := layercircuit.FromCircuit(circ, gate.DefaultOracle())
	if err != nil {
		l.Error().Err(err).Msg("building layer circuit failed")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	opt, err := lc.Optimize()
	if err != nil {
		l.Error().Err(err).Msg("optimize failed")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, OptimizeResponse{Circuit: circuitToWireElements(opt.ToCircuit())})
}
