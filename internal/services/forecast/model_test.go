package forecast

import (
	"math"
	"testing"
)

func testBatch() ([][][]float64, []float64) {
	batch := make([][][]float64, 4)
	targets := make([]float64, 4)
	for k := range batch {
		rows := make([][]float64, 3)
		for t := range rows {
			rows[t] = []float64{0.1 * float64(k+1), 0.05, -0.02 * float64(t)}
		}
		batch[k] = rows
		targets[k] = 0.2 + 0.05*float64(k)
	}
	return batch, targets
}

func TestRegressorForwardShape(t *testing.T) {
	batch, _ := testBatch()
	model := NewRegressor(3, 3, 8, 1e-3, 42)
	out := model.Forward(batch)
	if len(out) != len(batch) {
		t.Fatalf("expected %d outputs, got %d", len(batch), len(out))
	}
	for i, v := range out {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("output[%d] is not finite: %v", i, v)
		}
	}
}

func TestRegressorDeterministicSeed(t *testing.T) {
	batch, _ := testBatch()
	a := NewRegressor(3, 3, 8, 1e-3, 7).Forward(batch)
	b := NewRegressor(3, 3, 8, 1e-3, 7).Forward(batch)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed must give identical outputs: %v vs %v", a[i], b[i])
		}
	}
}

func TestRegressorLossDecreases(t *testing.T) {
	batch, targets := testBatch()
	model := NewRegressor(3, 3, 8, 1e-2, 42)

	first := model.Update(batch, targets)
	var last float64
	for i := 0; i < 200; i++ {
		last = model.Update(batch, targets)
	}
	if !(last < first) {
		t.Fatalf("loss did not decrease: first=%v last=%v", first, last)
	}
}

func TestRegressorNoUpdateInInferenceMode(t *testing.T) {
	batch, targets := testBatch()
	model := NewRegressor(3, 3, 8, 1e-2, 42)
	before := model.Forward(batch)

	model.SetTraining(false)
	if loss := model.Update(batch, targets); loss != 0 {
		t.Fatalf("inference-mode update should be a no-op, got loss %v", loss)
	}
	after := model.Forward(batch)
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("weights changed in inference mode")
		}
	}
}
