package neuralnet

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Layer is a fully-connected layer computing Activation(Weights·x + Bias).
type Layer struct {
	Weights    *mat.Dense // out × in
	Bias       *mat.Dense // out × 1
	Activation Activation

	// pre-activation and output of the last training forward pass
	z, a *mat.Dense
}

// Dims returns the layer's input and output widths.
func (l *Layer) Dims() (in, out int) {
	out, in = l.Weights.Dims()
	return in, out
}

// NeuralNetwork is an ordered stack of fully-connected layers ending in a
// softmax output trained with cross-entropy.
type NeuralNetwork struct {
	layers []*Layer
	loss   LossFunction
	input  mat.Matrix
}

// NewNeuralNetwork builds ReLU hidden layers of the given widths and a
// softmax output layer. Parameters are zero until Init is called.
func NewNeuralNetwork(inputSize int, hidden []int, outputSize int) *NeuralNetwork {
	if inputSize <= 0 || outputSize <= 0 {
		panic(fmt.Sprintf("neuralnet: invalid network size %d -> %d", inputSize, outputSize))
	}
	nn := &NeuralNetwork{
		layers: make([]*Layer, 0, len(hidden)+1),
		loss:   CrossEntropy{},
	}
	in := inputSize
	for _, size := range hidden {
		if size <= 0 {
			panic(fmt.Sprintf("neuralnet: invalid hidden width %d", size))
		}
		nn.layers = append(nn.layers, newLayer(in, size, ReLU))
		in = size
	}
	nn.layers = append(nn.layers, newLayer(in, outputSize, Softmax))
	return nn
}

func newLayer(in, out int, act Activation) *Layer {
	return &Layer{
		Weights:    mat.NewDense(out, in, nil),
		Bias:       mat.NewDense(out, 1, nil),
		Activation: act,
	}
}

// InputSize is the number of rows Forward expects.
func (nn *NeuralNetwork) InputSize() int {
	in, _ := nn.layers[0].Dims()
	return in
}

// OutputSize is the number of rows Forward produces.
func (nn *NeuralNetwork) OutputSize() int {
	_, out := nn.layers[len(nn.layers)-1].Dims()
	return out
}

// Init draws every weight and bias uniformly from [-scale, scale). A
// non-positive scale uses the Xavier limit of each layer instead. The
// same seed always yields the same parameters.
func (nn *NeuralNetwork) Init(seed int64, scale float64) {
	rng := rand.New(rand.NewSource(seed))
	for _, l := range nn.layers {
		limit := scale
		if limit <= 0 {
			limit = xavierLimit(l.Dims())
		}
		for _, m := range []*mat.Dense{l.Weights, l.Bias} {
			raw := m.RawMatrix()
			for i := 0; i < raw.Rows; i++ {
				row := raw.Data[i*raw.Stride : i*raw.Stride+raw.Cols]
				for j := range row {
					row[j] = (2*rng.Float64() - 1) * limit
				}
			}
		}
	}
}

func xavierLimit(numInputs, numOutputs int) float64 {
	return math.Sqrt(6.0 / float64(numInputs+numOutputs))
}

// Parameters returns the learnable matrices in the order W0, b0, W1, b1, ...
// Optimizers update them in place.
func (nn *NeuralNetwork) Parameters() []*mat.Dense {
	params := make([]*mat.Dense, 0, 2*len(nn.layers))
	for _, l := range nn.layers {
		params = append(params, l.Weights, l.Bias)
	}
	return params
}

// Forward runs x (input × samples) through every layer and caches the
// intermediate activations Backward needs.
func (nn *NeuralNetwork) Forward(x mat.Matrix) (*mat.Dense, error) {
	return nn.forward("forward", x, true)
}

// Predict runs x through the network without touching any cached state.
func (nn *NeuralNetwork) Predict(x mat.Matrix) (*mat.Dense, error) {
	return nn.forward("predict", x, false)
}

func (nn *NeuralNetwork) forward(op string, x mat.Matrix, cache bool) (*mat.Dense, error) {
	if err := checkShape(op, x, nn.InputSize(), -1); err != nil {
		return nil, err
	}
	var in mat.Matrix = x
	var out *mat.Dense
	for _, l := range nn.layers {
		z := new(mat.Dense)
		z.Mul(l.Weights, in)
		z.Apply(func(i, _ int, v float64) float64 {
			return v + l.Bias.At(i, 0)
		}, z)
		out = l.Activation.Activate(z)
		if cache {
			l.z, l.a = z, out
		}
		in = out
	}
	if cache {
		nn.input = x
	}
	return out, nil
}

// Loss returns the mean loss of pred against the one-hot targets y.
func (nn *NeuralNetwork) Loss(pred, y mat.Matrix) (float64, error) {
	_, n := pred.Dims()
	if err := checkShape("loss", pred, nn.OutputSize(), -1); err != nil {
		return 0, err
	}
	if err := checkShape("loss", y, nn.OutputSize(), n); err != nil {
		return 0, err
	}
	return nn.loss.Compute(pred, y), nil
}

// Gradients holds ∂L/∂W and ∂L/∂b for every layer, shaped like the
// parameters they belong to.
type Gradients struct {
	WeightGradients []*mat.Dense
	BiasGradients   []*mat.Dense
}

// Flatten orders the gradients like NeuralNetwork.Parameters.
func (g *Gradients) Flatten() []*mat.Dense {
	out := make([]*mat.Dense, 0, 2*len(g.WeightGradients))
	for i := range g.WeightGradients {
		out = append(out, g.WeightGradients[i], g.BiasGradients[i])
	}
	return out
}

// Backward computes parameter gradients for the batch x with targets y and
// predictions pred, using the activations cached by the preceding Forward.
// x must be the same matrix value that Forward was given; a different
// *mat.Dense is rejected with ErrBatchMismatch even when its shape agrees.
// The cache is released afterwards.
func (nn *NeuralNetwork) Backward(x, y, pred mat.Matrix) (*Gradients, error) {
	if nn.input == nil {
		return nil, ErrNoForwardCache
	}
	_, n := x.Dims()
	if err := checkShape("backward", x, nn.InputSize(), -1); err != nil {
		return nil, err
	}
	cr, cc := nn.input.Dims()
	if err := checkShape("backward", x, cr, cc); err != nil {
		return nil, err
	}
	if !sameBatch(x, nn.input) {
		return nil, ErrBatchMismatch
	}
	if err := checkShape("backward", y, nn.OutputSize(), n); err != nil {
		return nil, err
	}
	if err := checkShape("backward", pred, nn.OutputSize(), n); err != nil {
		return nil, err
	}
	defer nn.release()

	g := &Gradients{
		WeightGradients: make([]*mat.Dense, len(nn.layers)),
		BiasGradients:   make([]*mat.Dense, len(nn.layers)),
	}
	// softmax + cross-entropy collapse to (pred - y) / n at the output
	delta := nn.loss.Gradient(pred, y)
	for i := len(nn.layers) - 1; i >= 0; i-- {
		l := nn.layers[i]
		prev := nn.input
		if i > 0 {
			prev = nn.layers[i-1].a
		}

		gw := new(mat.Dense)
		gw.Mul(delta, prev.T())
		g.WeightGradients[i] = gw

		rows, _ := delta.Dims()
		gb := mat.NewDense(rows, 1, nil)
		for r := 0; r < rows; r++ {
			gb.Set(r, 0, floats.Sum(delta.RawRowView(r)))
		}
		g.BiasGradients[i] = gb

		if i == 0 {
			break
		}
		below := nn.layers[i-1]
		next := new(mat.Dense)
		next.Mul(l.Weights.T(), delta)
		next.Apply(func(r, c int, v float64) float64 {
			return v * below.Activation.Derivative(below.z.At(r, c))
		}, next)
		delta = next
	}
	return g, nil
}

func sameBatch(a, b mat.Matrix) bool {
	da, ok := a.(*mat.Dense)
	if !ok {
		return true
	}
	db, ok := b.(*mat.Dense)
	return !ok || da == db
}

func (nn *NeuralNetwork) release() {
	nn.input = nil
	for _, l := range nn.layers {
		l.z, l.a = nil, nil
	}
}

func (l *Layer) String() string {
	in, out := l.Dims()
	return fmt.Sprintf("%d -> %d %s", in, out, l.Activation)
}

func (nn *NeuralNetwork) String() string {
	var sb strings.Builder
	for i, l := range nn.layers {
		sb.WriteString(fmt.Sprintf("Layer %d: %s\n", i, l))
	}
	return sb.String()
}
