package ml

// CheckSamples reports a *ConfigError unless samples carry exactly two
// distinct labels and every sample has the feature count of the first one.
// A nil entry is rejected.
func CheckSamples(samples []*Sample) error {
	for i, s := range samples {
		if s == nil {
			return configErrorf("sample %d is nil", i)
		}
	}
	if err := checkLabels(samples); err != nil {
		return err
	}
	return checkFeatureCounts(samples)
}

func checkLabels(samples []*Sample) error {
	labels := distinctLabels(samples, 0)
	if len(labels) != 2 {
		return configErrorf("there must be exactly two values of 'label' across all samples, found %d", len(labels))
	}
	return nil
}

func checkFeatureCounts(samples []*Sample) error {
	n := samples[0].FeatureCount()
	if n == 0 {
		return configErrorf("samples must have at least one feature")
	}
	for i, s := range samples[1:] {
		if s.FeatureCount() != n {
			return configErrorf("all feature vectors must have the same length: sample %d has %d, sample 0 has %d",
				i+1, s.FeatureCount(), n)
		}
	}
	return nil
}
