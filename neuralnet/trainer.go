package neuralnet

import (
	"log"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

// Predictor is anything that maps a feature matrix to class scores.
type Predictor interface {
	Predict(x mat.Matrix) (*mat.Dense, error)
}

// Callback observes training progress.
type Callback interface {
	PostTrainingBatch(epoch, batch int, loss float64)
	PostTrainingEpoch(epoch int, loss float64)
}

// VerboseCallback logs the mean loss of every epoch, and of every batch
// when Batches is set.
type VerboseCallback struct {
	Logger  *log.Logger
	Epochs  int
	Batches bool
}

func (c *VerboseCallback) PostTrainingBatch(epoch, batch int, loss float64) {
	if c.Batches {
		c.Logger.Printf("epoch %d batch %d loss=%.4f", epoch+1, batch, loss)
	}
}

func (c *VerboseCallback) PostTrainingEpoch(epoch int, loss float64) {
	c.Logger.Printf("epoch %d/%d loss=%.4f", epoch+1, c.Epochs, loss)
}

// FitConfig controls the training loop.
type FitConfig struct {
	BatchSize int
	Epochs    int
	Callback  Callback
}

// Fit trains nn on the columns of x and y. Every epoch walks the columns
// in order in contiguous batches of BatchSize (the last may be short); each
// batch runs forward, loss, backward and one optimizer step before the next
// starts. Samples are not reshuffled between epochs. Fit returns the mean
// batch loss of every epoch.
func Fit(nn *NeuralNetwork, opt Optimizer, x, y *mat.Dense, cfg FitConfig) ([]float64, error) {
	if cfg.BatchSize <= 0 {
		return nil, errors.Errorf("invalid batch size %d", cfg.BatchSize)
	}
	if cfg.Epochs < 0 {
		return nil, errors.Errorf("invalid epoch count %d", cfg.Epochs)
	}
	xr, n := x.Dims()
	if err := checkShape("fit", x, nn.InputSize(), -1); err != nil {
		return nil, err
	}
	if err := checkShape("fit", y, nn.OutputSize(), n); err != nil {
		return nil, err
	}
	yr, _ := y.Dims()

	history := make([]float64, 0, cfg.Epochs)
	for e := 0; e < cfg.Epochs; e++ {
		losses := make([]float64, 0, (n+cfg.BatchSize-1)/cfg.BatchSize)
		for b, start := 0, 0; start < n; b, start = b+1, start+cfg.BatchSize {
			end := min(start+cfg.BatchSize, n)
			loss, err := trainBatch(nn, opt, x.Slice(0, xr, start, end), y.Slice(0, yr, start, end))
			if err != nil {
				return history, errors.Wrapf(err, "epoch %d batch %d", e, b)
			}
			losses = append(losses, loss)
			if cfg.Callback != nil {
				cfg.Callback.PostTrainingBatch(e, b, loss)
			}
		}
		mean := floats.Sum(losses) / float64(len(losses))
		history = append(history, mean)
		if cfg.Callback != nil {
			cfg.Callback.PostTrainingEpoch(e, mean)
		}
	}
	return history, nil
}

func trainBatch(nn *NeuralNetwork, opt Optimizer, x, y mat.Matrix) (float64, error) {
	pred, err := nn.Forward(x)
	if err != nil {
		return 0, err
	}
	loss, err := nn.Loss(pred, y)
	if err != nil {
		return 0, err
	}
	grads, err := nn.Backward(x, y, pred)
	if err != nil {
		return 0, err
	}
	if err := opt.Step(nn.Parameters(), grads.Flatten()); err != nil {
		return 0, err
	}
	return loss, nil
}

// Evaluate returns the fraction of columns where the argmax of p's
// prediction matches the argmax of the one-hot target. Ties go to the
// lowest class index.
func Evaluate(p Predictor, x, y mat.Matrix) (float64, error) {
	pred, err := p.Predict(x)
	if err != nil {
		return 0, err
	}
	r, c := y.Dims()
	if err := checkShape("evaluate", pred, r, c); err != nil {
		return 0, err
	}
	got, err := argmaxColumns(pred)
	if err != nil {
		return 0, err
	}
	want, err := argmaxColumns(y)
	if err != nil {
		return 0, err
	}
	correct := 0
	for i := range got {
		if got[i] == want[i] {
			correct++
		}
	}
	return float64(correct) / float64(c), nil
}

func argmaxColumns(m mat.Matrix) ([]int, error) {
	t := tensor.FromMat64(mat.DenseCopyOf(m))
	idx, err := t.Argmax(0)
	if err != nil {
		return nil, errors.Wrap(err, "argmax")
	}
	switch v := idx.Data().(type) {
	case []int:
		return v, nil
	case int:
		return []int{v}, nil
	}
	return nil, errors.Errorf("argmax: unexpected index type %T", idx.Data())
}
