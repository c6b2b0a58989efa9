package ml

import (
	"fmt"
	"strconv"
	"strings"
)

// Sample is an immutable labeled feature vector.
type Sample struct {
	x     []float64
	label string
}

func NewSample(features []float64, label string) *Sample {
	x := make([]float64, len(features))
	copy(x, features)
	return &Sample{x: x, label: label}
}

// Features returns a copy of the feature vector.
func (s *Sample) Features() []float64 {
	x := make([]float64, len(s.x))
	copy(x, s.x)
	return x
}

func (s *Sample) Label() string {
	return s.label
}

func (s *Sample) FeatureCount() int {
	return len(s.x)
}

func (s *Sample) String() string {
	parts := make([]string, len(s.x))
	for i, v := range s.x {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return fmt.Sprintf("Sample([%s], %q)", strings.Join(parts, " "), s.label)
}

// SampleSet keeps samples in insertion order.
type SampleSet struct {
	data []*Sample
}

func NewSampleSet(samples ...*Sample) *SampleSet {
	ss := &SampleSet{}
	for _, s := range samples {
		ss.Add(s)
	}
	return ss
}

// Add appends s. A nil s is ignored.
func (ss *SampleSet) Add(s *Sample) {
	if s == nil {
		return
	}
	ss.data = append(ss.data, s)
}

func (ss *SampleSet) Len() int {
	return len(ss.data)
}

// Samples returns the samples in insertion order. The slice is a copy; the
// samples themselves are immutable and shared.
func (ss *SampleSet) Samples() []*Sample {
	out := make([]*Sample, len(ss.data))
	copy(out, ss.data)
	return out
}

// Labels returns the distinct labels in encounter order.
func (ss *SampleSet) Labels() []string {
	return distinctLabels(ss.data, 0)
}

// FeatureCount is the feature count of the first sample, or 0 for an empty set.
func (ss *SampleSet) FeatureCount() int {
	if len(ss.data) == 0 {
		return 0
	}
	return ss.data[0].FeatureCount()
}

// distinctLabels scans samples in order. limit > 0 stops the scan once that
// many distinct labels were seen.
func distinctLabels(samples []*Sample, limit int) []string {
	seen := make(map[string]struct{})
	var labels []string
	for _, s := range samples {
		if _, ok := seen[s.label]; ok {
			continue
		}
		seen[s.label] = struct{}{}
		labels = append(labels, s.label)
		if limit > 0 && len(labels) == limit {
			break
		}
	}
	return labels
}
