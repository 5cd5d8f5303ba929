package nn

import (
	"math"
	"math/rand"
	"sync"

	"github.com/drift-ml/drift/internal/tensor"
)

// Weight initialization draws from a package-level source seeded with a
// fixed value, so freshly constructed models are reproducible by default.
// Call SeedInit to change the stream.
var (
	initMu  sync.Mutex
	initRNG = rand.New(rand.NewSource(1)) //nolint:gosec // G404: reproducible, not security-critical
)

// SeedInit reseeds the weight initialization source.
func SeedInit(seed int64) {
	initMu.Lock()
	defer initMu.Unlock()
	initRNG = rand.New(rand.NewSource(seed)) //nolint:gosec // G404: reproducible, not security-critical
}

// XavierUniform creates a tensor initialized with Xavier/Glorot uniform
// initialization: U(-limit, limit) with limit = sqrt(6 / (fanIn + fanOut)).
// Keeps activation variance stable across layers at the start of training.
func XavierUniform[B tensor.Backend](shape tensor.Shape, fanIn, fanOut int, b B) *tensor.Tensor[float32, B] {
	t := tensor.Zeros[float32](shape, b)
	limit := float32(math.Sqrt(6.0 / float64(fanIn+fanOut)))

	initMu.Lock()
	defer initMu.Unlock()
	data := t.Data()
	for i := range data {
		data[i] = (initRNG.Float32()*2 - 1) * limit
	}
	return t
}
