package ml

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckSamplesLabelCount(t *testing.T) {
	one := []*Sample{
		NewSample([]float64{1}, "a"),
		NewSample([]float64{2}, "a"),
	}
	require.ErrorIs(t, CheckSamples(one), ErrConfiguration)

	three := []*Sample{
		NewSample([]float64{1}, "a"),
		NewSample([]float64{2}, "b"),
		NewSample([]float64{3}, "c"),
	}
	require.ErrorIs(t, CheckSamples(three), ErrConfiguration)

	require.ErrorIs(t, CheckSamples(nil), ErrConfiguration)

	two := []*Sample{
		NewSample([]float64{1}, "a"),
		NewSample([]float64{2}, "b"),
		NewSample([]float64{3}, "a"),
	}
	require.NoError(t, CheckSamples(two))
}

func TestCheckSamplesFeatureCount(t *testing.T) {
	samples := []*Sample{
		NewSample([]float64{1, 2}, "a"),
		NewSample([]float64{2, 3}, "b"),
		NewSample([]float64{3}, "a"),
	}
	err := CheckSamples(samples)
	require.ErrorIs(t, err, ErrConfiguration)
	require.Contains(t, err.Error(), "sample 2 has 1")

	empty := []*Sample{
		NewSample(nil, "a"),
		NewSample(nil, "b"),
	}
	require.ErrorIs(t, CheckSamples(empty), ErrConfiguration)
}

func TestCheckSamplesReportsLabelsFirst(t *testing.T) {
	samples := []*Sample{
		NewSample([]float64{1, 2}, "a"),
		NewSample([]float64{2}, "a"),
	}
	err := CheckSamples(samples)
	require.ErrorIs(t, err, ErrConfiguration)
	require.Contains(t, err.Error(), "exactly two")
}

func TestCheckSamplesNil(t *testing.T) {
	samples := []*Sample{
		NewSample([]float64{1}, "a"),
		nil,
		NewSample([]float64{2}, "b"),
	}
	err := CheckSamples(samples)
	require.ErrorIs(t, err, ErrConfiguration)
	require.Contains(t, err.Error(), "sample 1 is nil")
}
