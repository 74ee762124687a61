package inference

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
)

// Artifact file schemas. Both scaler and model are exported from training
// as JSON so the service carries no numeric-runtime dependency.

type scalerArtifact struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

type layerArtifact struct {
	Weights    [][]float64 `json:"weights"`
	Bias       []float64   `json:"bias"`
	Activation string      `json:"activation"`
}

type lstmArtifact struct {
	Units  int         `json:"units"`
	Kernel [][]float64 `json:"kernel"`
	Bias   []float64   `json:"bias"`
}

type modelArtifact struct {
	Architecture string          `json:"architecture"`
	Layers       []layerArtifact `json:"layers"`
	LSTM         *lstmArtifact   `json:"lstm"`
	Head         []layerArtifact `json:"head"`
}

// LoadScaler reads a fitted scaler artifact from disk.
func LoadScaler(path string) (*Scaler, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read scaler %s: %w", ErrBadArtifact, path, err)
	}
	var art scalerArtifact
	if err := json.Unmarshal(raw, &art); err != nil {
		return nil, fmt.Errorf("%w: parse scaler %s: %w", ErrBadArtifact, path, err)
	}
	return NewScaler(art.Mean, art.Scale)
}

// LoadNetwork reads a trained model artifact from disk. The architecture
// field selects between the dense and legacy recurrent formats.
func LoadNetwork(path string) (Network, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read model %s: %w", ErrBadArtifact, path, err)
	}
	var art modelArtifact
	if err := json.Unmarshal(raw, &art); err != nil {
		return nil, fmt.Errorf("%w: parse model %s: %w", ErrBadArtifact, path, err)
	}

	switch art.Architecture {
	case "dense":
		return NewDenseNetwork(denseLayers(art.Layers))
	case "lstm":
		if art.LSTM == nil {
			return nil, fmt.Errorf("%w: lstm model %s missing cell weights", ErrBadArtifact, path)
		}
		return NewRecurrentNetwork(art.LSTM.Units, art.LSTM.Kernel, art.LSTM.Bias, denseLayers(art.Head))
	default:
		return nil, fmt.Errorf("%w: unknown architecture %q in %s", ErrBadArtifact, art.Architecture, path)
	}
}

// Load builds a ready Model from scaler and model artifact paths.
func Load(scalerPath, modelPath string) (*Model, error) {
	scaler, err := LoadScaler(scalerPath)
	if err != nil {
		return nil, err
	}
	network, err := LoadNetwork(modelPath)
	if err != nil {
		return nil, err
	}
	return NewModel(scaler, network)
}

func denseLayers(arts []layerArtifact) []DenseLayer {
	layers := make([]DenseLayer, len(arts))
	for i, a := range arts {
		layers[i] = DenseLayer{Weights: a.Weights, Bias: a.Bias, Activation: a.Activation}
	}
	return layers
}
