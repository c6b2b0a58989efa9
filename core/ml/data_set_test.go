package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleCopiesInput(t *testing.T) {
	in := []float64{1, 2}
	s := NewSample(in, "a")
	in[0] = 100
	assert.Equal(t, []float64{1, 2}, s.Features())

	out := s.Features()
	out[1] = 100
	assert.Equal(t, []float64{1, 2}, s.Features())
	assert.Equal(t, 2, s.FeatureCount())
	assert.Equal(t, "a", s.Label())
}

func TestSampleString(t *testing.T) {
	s := NewSample([]float64{0.5, -1, 3}, "red")
	assert.Equal(t, `Sample([0.5 -1 3], "red")`, s.String())
}

func TestSampleSet(t *testing.T) {
	ss := NewSampleSet()
	require.Equal(t, 0, ss.Len())
	require.Equal(t, 0, ss.FeatureCount())

	ss.Add(NewSample([]float64{1, 1, 1}, "x"))
	ss.Add(NewSample([]float64{2, 2, 2}, "y"))
	ss.Add(NewSample([]float64{3, 3, 3}, "x"))
	ss.Add(NewSample([]float64{4, 4, 4}, "z"))

	assert.Equal(t, 4, ss.Len())
	assert.Equal(t, 3, ss.FeatureCount())
	assert.Equal(t, []string{"x", "y", "z"}, ss.Labels())
	assert.Equal(t, "z", ss.Samples()[3].Label())
}

func TestSampleSetSamplesIsACopy(t *testing.T) {
	ss := NewSampleSet(NewSample([]float64{1}, "a"), nil, NewSample([]float64{2}, "b"))
	require.Equal(t, 2, ss.Len())

	samples := ss.Samples()
	samples[0], samples[1] = samples[1], nil
	assert.Equal(t, "a", ss.Samples()[0].Label())
	assert.Equal(t, "b", ss.Samples()[1].Label())
}
