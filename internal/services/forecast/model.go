package forecast

import (
	"math/rand"
)

// Model is an opaque trainable function over [batch, lookback, width]
// feature tensors producing one scalar per sample.
type Model interface {
	// Forward runs inference on a batch and returns one prediction per
	// sample.
	Forward(batch [][][]float64) []float64
	// Update performs one optimizer step on a batch and returns the batch
	// mean squared error measured before the step.
	Update(batch [][][]float64, targets []float64) float64
	// SetTraining switches between training and inference mode.
	SetTraining(training bool)
}

// Regressor is a feedforward volatility regressor: the lookback window is
// flattened, passed through one ReLU hidden layer, and reduced to a single
// output. Weights update by mini-batch gradient descent.
type Regressor struct {
	inputSize  int
	hiddenSize int

	w1 [][]float64 // [input][hidden]
	b1 []float64
	w2 []float64 // [hidden]
	b2 float64

	lr       float64
	training bool
}

// NewRegressor creates a regressor for windows of lookback rows and width
// columns. Weights start at small random values from the seeded source so
// runs are reproducible.
func NewRegressor(lookback, width, hiddenSize int, learningRate float64, seed int64) *Regressor {
	inputSize := lookback * width
	rng := rand.New(rand.NewSource(seed))

	w1 := make([][]float64, inputSize)
	for i := range w1 {
		w1[i] = make([]float64, hiddenSize)
		for j := range w1[i] {
			w1[i][j] = (rng.Float64() - 0.5) * 0.1
		}
	}
	b1 := make([]float64, hiddenSize)
	for i := range b1 {
		b1[i] = (rng.Float64() - 0.5) * 0.1
	}
	w2 := make([]float64, hiddenSize)
	for i := range w2 {
		w2[i] = (rng.Float64() - 0.5) * 0.1
	}

	return &Regressor{
		inputSize:  inputSize,
		hiddenSize: hiddenSize,
		w1:         w1,
		b1:         b1,
		w2:         w2,
		b2:         (rng.Float64() - 0.5) * 0.1,
		lr:         learningRate,
		training:   true,
	}
}

// SetTraining switches training mode. The forward pass is identical in both
// modes; the flag exists so Update can refuse steps during inference.
func (r *Regressor) SetTraining(training bool) { r.training = training }

func flatten(sample [][]float64, size int) []float64 {
	flat := make([]float64, 0, size)
	for _, row := range sample {
		flat = append(flat, row...)
	}
	return flat
}

// forward computes one prediction and returns the hidden activations for
// reuse in backprop.
func (r *Regressor) forward(flat []float64) (float64, []float64) {
	hidden := make([]float64, r.hiddenSize)
	for j := 0; j < r.hiddenSize; j++ {
		sum := r.b1[j]
		for i, x := range flat {
			sum += x * r.w1[i][j]
		}
		if sum > 0 {
			hidden[j] = sum
		}
	}
	out := r.b2
	for j, h := range hidden {
		out += h * r.w2[j]
	}
	return out, hidden
}

// Forward implements Model.
func (r *Regressor) Forward(batch [][][]float64) []float64 {
	out := make([]float64, len(batch))
	for k, sample := range batch {
		out[k], _ = r.forward(flatten(sample, r.inputSize))
	}
	return out
}

// Update implements Model: one gradient-descent step on the batch against
// the squared error, gradients averaged across the batch.
func (r *Regressor) Update(batch [][][]float64, targets []float64) float64 {
	if !r.training || len(batch) == 0 || len(batch) != len(targets) {
		return 0.0
	}

	n := float64(len(batch))
	gw1 := make([][]float64, r.inputSize)
	for i := range gw1 {
		gw1[i] = make([]float64, r.hiddenSize)
	}
	gb1 := make([]float64, r.hiddenSize)
	gw2 := make([]float64, r.hiddenSize)
	gb2 := 0.0
	mse := 0.0

	for k, sample := range batch {
		flat := flatten(sample, r.inputSize)
		pred, hidden := r.forward(flat)
		diff := pred - targets[k]
		mse += diff * diff

		// d(mse)/d(pred) for one sample, batch-averaged below.
		dOut := 2.0 * diff
		for j, h := range hidden {
			gw2[j] += dOut * h
			if h > 0 { // ReLU gate
				dh := dOut * r.w2[j]
				gb1[j] += dh
				for i, x := range flat {
					gw1[i][j] += dh * x
				}
			}
		}
		gb2 += dOut
	}

	for i := range r.w1 {
		for j := range r.w1[i] {
			r.w1[i][j] -= r.lr * gw1[i][j] / n
		}
	}
	for j := range r.b1 {
		r.b1[j] -= r.lr * gb1[j] / n
		r.w2[j] -= r.lr * gw2[j] / n
	}
	r.b2 -= r.lr * gb2 / n

	return mse / n
}
