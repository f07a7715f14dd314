// Package runner loads trained policy/critic checkpoints and exposes them
// as batch inference callables for the play loop.
package runner

import (
	"encoding/json"
	"os"

	bettererrors "github.com/xtuc/better-errors"
	"gonum.org/v1/gonum/mat"

	"github.com/superboySB/marladona-isaac-lab/common/utils"
)

// InferenceFn maps a batch of observation rows to a batch of output rows.
type InferenceFn func(batch *mat.Dense) *mat.Dense

type checkpointLayer struct {
	Weights    [][]float64 `json:"weights"`
	Bias       []float64   `json:"bias"`
	Activation string      `json:"activation"`
}

type checkpointNetwork struct {
	Layers []checkpointLayer `json:"layers"`
}

type checkpointFile struct {
	Iteration int               `json:"iteration"`
	Policy    checkpointNetwork `json:"policy"`
	Critic    checkpointNetwork `json:"critic"`
}

type Runner struct {
	policy    *Network
	critic    *Network
	iteration int
}

// Load restores a checkpoint from disk. Malformed or missing checkpoints
// are fatal startup errors; there is nothing to retry.
func Load(path string) (*Runner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, bettererrors.
			New("Could not read checkpoint").
			SetContext("path", path).
			With(bettererrors.NewFromErr(err))
	}

	var file checkpointFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, bettererrors.
			New("Checkpoint is not valid JSON").
			SetContext("path", path).
			With(bettererrors.NewFromErr(err))
	}

	policy, err := makeNetwork(file.Policy)
	if err != nil {
		return nil, bettererrors.
			New("Invalid policy network in checkpoint").
			SetContext("path", path).
			With(bettererrors.NewFromErr(err))
	}

	critic, err := makeNetwork(file.Critic)
	if err != nil {
		return nil, bettererrors.
			New("Invalid critic network in checkpoint").
			SetContext("path", path).
			With(bettererrors.NewFromErr(err))
	}

	utils.Debug("runner", "loaded checkpoint from "+path)

	return &Runner{
		policy:    policy,
		critic:    critic,
		iteration: file.Iteration,
	}, nil
}

func makeNetwork(desc checkpointNetwork) (*Network, error) {
	if len(desc.Layers) == 0 {
		return nil, bettererrors.New("network has no layers")
	}

	net := &Network{layers: make([]layer, len(desc.Layers))}
	for i, l := range desc.Layers {
		if len(l.Weights) == 0 || len(l.Weights) != len(l.Bias) {
			return nil, bettererrors.New("layer weights and bias disagree")
		}

		in := len(l.Weights[0])
		flat := make([]float64, 0, len(l.Weights)*in)
		for _, row := range l.Weights {
			if len(row) != in {
				return nil, bettererrors.New("ragged weight matrix")
			}
			flat = append(flat, row...)
		}

		activation, err := activationByName(l.Activation)
		if err != nil {
			return nil, err
		}

		net.layers[i] = layer{
			weights:    mat.NewDense(len(l.Weights), in, flat),
			bias:       append([]float64(nil), l.Bias...),
			activation: activation,
		}
	}

	return net, nil
}

func (r *Runner) Iteration() int {
	return r.iteration
}

func (r *Runner) Policy() *Network {
	return r.policy
}

func (r *Runner) Critic() *Network {
	return r.critic
}

// InferencePolicy returns the actor as a plain callable.
func (r *Runner) InferencePolicy() InferenceFn {
	return r.policy.Forward
}

// InferenceCritic returns the evaluator as a plain callable; one scalar
// value per input row.
func (r *Runner) InferenceCritic() InferenceFn {
	return r.critic.Forward
}
