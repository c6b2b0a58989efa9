package ml

import (
	"context"
	"fmt"
	"math"
	"perceptron/common"
)

// EpochStats is passed to the epoch hook after every completed epoch.
type EpochStats struct {
	Epoch   int // 1-based
	Epochs  int
	Updates int // samples that moved the weights
}

type EpochHook func(stats EpochStats)

// trained holds every learned parameter. A Perceptron either has all of
// them or none of them.
type trained struct {
	weights      []float64
	bias         float64
	labelToIndex map[string]int
	indexToLabel [2]string
}

// seed keeps parameters set on an untrained instance until the next
// initialization picks them up.
type seed struct {
	weights []float64
	bias    float64
	hasBias bool
}

// Perceptron is a two-class linear classifier trained online with the
// classical perceptron rule. It is not safe for concurrent use.
type Perceptron struct {
	learningRate float64
	model        *trained
	seed         *seed

	hook EpochHook
	log  common.Logger
}

func NewPerceptron(learningRate float64) (*Perceptron, error) {
	if err := checkLearningRate(learningRate); err != nil {
		return nil, err
	}
	return &Perceptron{learningRate: learningRate, log: common.NopLogger()}, nil
}

func checkLearningRate(lr float64) error {
	if math.IsNaN(lr) || math.IsInf(lr, 0) || lr <= 0 {
		return configErrorf("learning rate must be a positive finite number, got %v", lr)
	}
	return nil
}

// SetLogger sets where training progress is logged. Nothing is logged
// until a logger is set; a nil l silences the instance again.
func (p *Perceptron) SetLogger(l common.Logger) {
	if l == nil {
		l = common.NopLogger()
	}
	p.log = l
}

// SetEpochHook registers f to be called synchronously after each epoch.
// A nil f removes the hook.
func (p *Perceptron) SetEpochHook(f EpochHook) {
	p.hook = f
}

func (p *Perceptron) LearningRate() float64 {
	return p.learningRate
}

// SetLearningRate applies from the next sample update on.
func (p *Perceptron) SetLearningRate(lr float64) error {
	if err := checkLearningRate(lr); err != nil {
		return err
	}
	p.learningRate = lr
	return nil
}

func (p *Perceptron) Trained() bool {
	return p.model != nil
}

func (p *Perceptron) Weights() ([]float64, error) {
	if p.model == nil {
		return nil, notTrained("'weights' can be accessed")
	}
	w := make([]float64, len(p.model.weights))
	copy(w, p.model.weights)
	return w, nil
}

func (p *Perceptron) Bias() (float64, error) {
	if p.model == nil {
		return 0, notTrained("'bias' can be accessed")
	}
	return p.model.bias, nil
}

// Labels returns the label encoded as 0 followed by the label encoded as 1.
func (p *Perceptron) Labels() ([2]string, error) {
	if p.model == nil {
		return [2]string{}, notTrained("'labels' can be accessed")
	}
	return p.model.indexToLabel, nil
}

// SetWeights overrides the weights. On a trained instance the length must
// match the trained dimensionality. On an untrained instance the weights
// are used instead of the all-ones start by the next Train call.
func (p *Perceptron) SetWeights(w []float64) error {
	if len(w) == 0 {
		return configErrorf("weights must not be empty")
	}
	cp := make([]float64, len(w))
	copy(cp, w)
	if p.model != nil {
		if len(cp) != len(p.model.weights) {
			return configErrorf("weights have length %d, model has %d features", len(cp), len(p.model.weights))
		}
		p.model.weights = cp
		return nil
	}
	if p.seed == nil {
		p.seed = &seed{}
	}
	p.seed.weights = cp
	return nil
}

// SetBias overrides the bias, or seeds it for the next Train call when untrained.
func (p *Perceptron) SetBias(b float64) {
	if p.model != nil {
		p.model.bias = b
		return
	}
	if p.seed == nil {
		p.seed = &seed{}
	}
	p.seed.bias = b
	p.seed.hasBias = true
}

// Train validates samples, initializes parameters if reinitialize is set or
// the instance is untrained, then runs nEpochs passes over samples in order.
// ctx is checked before every epoch; on cancellation an *EarlyStopError is
// returned and the completed epochs are kept.
func (p *Perceptron) Train(ctx context.Context, samples []*Sample, nEpochs int, reinitialize bool) error {
	if err := p.checkTrainArgs(samples, nEpochs, reinitialize); err != nil {
		return err
	}
	if reinitialize || p.model == nil {
		p.initialize(samples, reinitialize)
	}
	p.log.Infof("train %d samples, %d features, %d epochs, learning rate %v",
		len(samples), len(p.model.weights), nEpochs, p.learningRate)

	for epoch := 0; epoch < nEpochs; epoch++ {
		if err := ctx.Err(); err != nil {
			p.log.Warnf("training interrupted after %d of %d epochs: %s", epoch, nEpochs, err)
			return &EarlyStopError{Completed: epoch, Requested: nEpochs, Cause: err}
		}
		updates := p.trainOneEpoch(samples)
		p.log.Debugf("epoch %d/%d: %d updates, bias %v", epoch+1, nEpochs, updates, p.model.bias)
		if p.hook != nil {
			p.hook(EpochStats{Epoch: epoch + 1, Epochs: nEpochs, Updates: updates})
		}
	}
	return nil
}

// Predict returns the label for sample using the current parameters.
func (p *Perceptron) Predict(sample *Sample) (string, error) {
	if p.model == nil {
		return "", notTrained("predicting")
	}
	if sample == nil {
		return "", configErrorf("cannot predict a nil sample")
	}
	if sample.FeatureCount() != len(p.model.weights) {
		return "", configErrorf("sample has %d features, model has %d", sample.FeatureCount(), len(p.model.weights))
	}
	return p.model.indexToLabel[p.predictIndex(sample)], nil
}

func (p *Perceptron) String() string {
	if p.model == nil {
		return fmt.Sprintf("Perceptron(learning_rate=%v, untrained)", p.learningRate)
	}
	return fmt.Sprintf("Perceptron(learning_rate=%v, weights=%v, bias=%v, labels=%q)",
		p.learningRate, p.model.weights, p.model.bias, p.model.indexToLabel[:])
}

// checkTrainArgs runs every check before Train mutates anything.
func (p *Perceptron) checkTrainArgs(samples []*Sample, nEpochs int, reinitialize bool) error {
	if nEpochs < 0 {
		return configErrorf("number of epochs must not be negative, got %d", nEpochs)
	}
	if err := CheckSamples(samples); err != nil {
		return err
	}
	n := samples[0].FeatureCount()
	if p.model != nil && !reinitialize {
		if n != len(p.model.weights) {
			return configErrorf("samples have %d features, model was trained on %d", n, len(p.model.weights))
		}
		for _, s := range samples {
			if _, ok := p.model.labelToIndex[s.label]; !ok {
				return configErrorf("label %q is not one of the trained labels %q", s.label, p.model.indexToLabel[:])
			}
		}
	}
	if p.model == nil && !reinitialize && p.seed != nil && p.seed.weights != nil && len(p.seed.weights) != n {
		return configErrorf("seeded weights have length %d, samples have %d features", len(p.seed.weights), n)
	}
	return nil
}

func (p *Perceptron) initialize(samples []*Sample, reinitialize bool) {
	m := &trained{
		weights:      make([]float64, samples[0].FeatureCount()),
		labelToIndex: make(map[string]int, 2),
	}
	for i := range m.weights {
		m.weights[i] = 1.0
	}
	if p.seed != nil && !reinitialize {
		if p.seed.weights != nil {
			copy(m.weights, p.seed.weights)
		}
		if p.seed.hasBias {
			m.bias = p.seed.bias
		}
	}
	for i, label := range distinctLabels(samples, 2) {
		m.labelToIndex[label] = i
		m.indexToLabel[i] = label
	}
	p.model = m
	p.seed = nil
	p.log.Debugf("initialized parameters, label encoding %q", m.indexToLabel[:])
}

func (p *Perceptron) trainOneEpoch(samples []*Sample) int {
	updates := 0
	for _, s := range samples {
		if p.update(s) {
			updates++
		}
	}
	return updates
}

// update applies the perceptron rule for one sample and reports whether
// the parameters changed.
func (p *Perceptron) update(s *Sample) bool {
	actual := p.model.labelToIndex[s.label]
	delta := float64(actual-p.predictIndex(s)) * p.learningRate
	if delta == 0 {
		return false
	}
	for i, x := range s.x {
		p.model.weights[i] += delta * x
	}
	p.model.bias += delta
	return true
}

// predictIndex is 0 when the activation is negative and 1 otherwise, so
// an activation of exactly zero falls to the second label.
func (p *Perceptron) predictIndex(s *Sample) int {
	z := Dot(p.model.weights, s.x) + p.model.bias
	if z < 0 {
		return 0
	}
	return 1
}
