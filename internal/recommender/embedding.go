package recommender

import (
	"encoding/json"
	"fmt"
	"os"
)

// EmbeddingClassifier is the pre-trained user/item embedding model: one
// embedding row per user and item, concatenated and passed through a small
// MLP (ReLU between layers, none after the last) to produce a logit. The
// artifact is exported to JSON by the training pipeline.
type EmbeddingClassifier struct {
	numUsers int
	numItems int
	embedDim int

	userEmb [][]float64
	itemEmb [][]float64
	layers  []denseLayer
}

type denseLayer struct {
	// Weights is row-major: Weights[out][in].
	Weights [][]float64 `json:"weights"`
	Biases  []float64   `json:"biases"`
}

type modelArtifact struct {
	NumUsers       int          `json:"num_users"`
	NumItems       int          `json:"num_items"`
	EmbedDim       int          `json:"embed_dim"`
	UserEmbeddings [][]float64  `json:"user_embeddings"`
	ItemEmbeddings [][]float64  `json:"item_embeddings"`
	Layers         []denseLayer `json:"layers"`
}

// LoadEmbeddingClassifier reads and validates a JSON model artifact.
func LoadEmbeddingClassifier(path string) (*EmbeddingClassifier, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}
	var art modelArtifact
	if err := json.Unmarshal(b, &art); err != nil {
		return nil, fmt.Errorf("decode model artifact: %w", err)
	}
	return NewEmbeddingClassifier(art.NumUsers, art.NumItems, art.EmbedDim,
		art.UserEmbeddings, art.ItemEmbeddings, art.Layers)
}

func NewEmbeddingClassifier(numUsers, numItems, embedDim int, userEmb, itemEmb [][]float64, layers []denseLayer) (*EmbeddingClassifier, error) {
	if numUsers <= 0 || numItems <= 0 || embedDim <= 0 {
		return nil, fmt.Errorf("invalid model dims: users=%d items=%d embed_dim=%d", numUsers, numItems, embedDim)
	}
	if len(userEmb) != numUsers {
		return nil, fmt.Errorf("user embedding rows %d != num_users %d", len(userEmb), numUsers)
	}
	if len(itemEmb) != numItems {
		return nil, fmt.Errorf("item embedding rows %d != num_items %d", len(itemEmb), numItems)
	}
	for i, row := range userEmb {
		if len(row) != embedDim {
			return nil, fmt.Errorf("user embedding row %d has dim %d, want %d", i, len(row), embedDim)
		}
	}
	for i, row := range itemEmb {
		if len(row) != embedDim {
			return nil, fmt.Errorf("item embedding row %d has dim %d, want %d", i, len(row), embedDim)
		}
	}
	if len(layers) == 0 {
		return nil, fmt.Errorf("model artifact has no layers")
	}
	in := embedDim * 2
	for li, layer := range layers {
		if len(layer.Weights) == 0 || len(layer.Biases) != len(layer.Weights) {
			return nil, fmt.Errorf("layer %d: %d weight rows vs %d biases", li, len(layer.Weights), len(layer.Biases))
		}
		for ri, row := range layer.Weights {
			if len(row) != in {
				return nil, fmt.Errorf("layer %d row %d has %d inputs, want %d", li, ri, len(row), in)
			}
		}
		in = len(layer.Weights)
	}
	if in != 1 {
		return nil, fmt.Errorf("final layer produces %d outputs, want 1", in)
	}
	return &EmbeddingClassifier{
		numUsers: numUsers,
		numItems: numItems,
		embedDim: embedDim,
		userEmb:  userEmb,
		itemEmb:  itemEmb,
		layers:   layers,
	}, nil
}

func (m *EmbeddingClassifier) NumUsers() int { return m.numUsers }
func (m *EmbeddingClassifier) NumItems() int { return m.numItems }

// ScoreBatch evaluates one user against a batch of items, returning one logit
// per item.
func (m *EmbeddingClassifier) ScoreBatch(userIdx int, itemIdxs []int) ([]float64, error) {
	if userIdx < 0 || userIdx >= m.numUsers {
		return nil, fmt.Errorf("user index %d out of range [0,%d)", userIdx, m.numUsers)
	}
	out := make([]float64, len(itemIdxs))
	u := m.userEmb[userIdx]
	for i, itemIdx := range itemIdxs {
		if itemIdx < 0 || itemIdx >= m.numItems {
			return nil, fmt.Errorf("item index %d out of range [0,%d)", itemIdx, m.numItems)
		}
		out[i] = m.forward(u, m.itemEmb[itemIdx])
	}
	return out, nil
}

func (m *EmbeddingClassifier) forward(u, it []float64) float64 {
	x := make([]float64, 0, len(u)+len(it))
	x = append(x, u...)
	x = append(x, it...)

	for li, layer := range m.layers {
		y := make([]float64, len(layer.Weights))
		for o, row := range layer.Weights {
			sum := layer.Biases[o]
			for j, w := range row {
				sum += w * x[j]
			}
			y[o] = sum
		}
		if li < len(m.layers)-1 {
			for o := range y {
				if y[o] < 0 {
					y[o] = 0
				}
			}
		}
		x = y
	}
	return x[0]
}
