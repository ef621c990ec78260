package models

import (
	"golang.org/x/exp/slices"
)

// Median of the samples; the mean of the two middle samples for an even count
func Median(samples []int64) float64 {
	if len(samples) == 0 {
		return 0
	}

	sorted := slices.Clone(samples)
	slices.Sort(sorted)

	middle := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[middle])
	}

	return (float64(sorted[middle-1]) + float64(sorted[middle])) / 2
}

func ComputeMedians(samples map[string][]int64) *MedianTimeDeltas {
	medians := NewMedianTimeDeltas()

	for key, keySamples := range samples {
		if len(keySamples) == 0 {
			continue
		}
		medians.Set(key, Median(keySamples))
	}

	return medians
}

func ComputeUsualPaths(frequencies map[PathGroup]*FrequencyTable) *UsualPaths {
	usualPaths := NewUsualPaths()

	for group, table := range frequencies {
		if pathKey, exists := table.Mode(); exists {
			usualPaths.Set(group.From, group.DestinationStation, pathKey)
		}
	}

	return usualPaths
}

func ComputeUsualDestinations(frequencies map[DestinationGroup]*FrequencyTable) *UsualDestinations {
	usualDestinations := NewUsualDestinations()

	for group, table := range frequencies {
		if destinationCode, exists := table.Mode(); exists {
			usualDestinations.set(group.Starting.Code(), group.Current.Code(), destinationCode)
		}
	}

	return usualDestinations
}

// Build reduces a training run's raw statistics into the three models
func Build(timeDeltas map[string][]int64, paths map[PathGroup]*FrequencyTable, destinations map[DestinationGroup]*FrequencyTable) *ModelSet {
	return &ModelSet{
		MedianTimeDeltas:  ComputeMedians(timeDeltas),
		UsualPaths:        ComputeUsualPaths(paths),
		UsualDestinations: ComputeUsualDestinations(destinations),
	}
}
