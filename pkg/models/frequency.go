package models

import "github.com/travigo/trainpredict/pkg/ctdf"

// PathGroup groups path samples by where they started and the station they ended at
type PathGroup struct {
	From               ctdf.Location
	DestinationStation string
}

// DestinationGroup groups destination samples by where the journey started and where the
// vehicle was at the time
type DestinationGroup struct {
	Starting ctdf.Location
	Current  ctdf.Location
}

// FrequencyTable counts values and remembers the order they were first added in
type FrequencyTable struct {
	order  []string
	counts map[string]int
}

func NewFrequencyTable() *FrequencyTable {
	return &FrequencyTable{counts: map[string]int{}}
}

func (f *FrequencyTable) Add(value string) {
	if _, exists := f.counts[value]; !exists {
		f.order = append(f.order, value)
	}
	f.counts[value]++
}

func (f *FrequencyTable) Count(value string) int {
	return f.counts[value]
}

func (f *FrequencyTable) Len() int {
	return len(f.order)
}

// Mode returns the most frequent value. On a tie the value that reached the maximum first wins.
func (f *FrequencyTable) Mode() (string, bool) {
	best := ""
	bestCount := 0

	for _, value := range f.order {
		if f.counts[value] > bestCount {
			best = value
			bestCount = f.counts[value]
		}
	}

	return best, bestCount > 0
}

func (f *FrequencyTable) Clone() *FrequencyTable {
	clone := &FrequencyTable{
		order:  append([]string(nil), f.order...),
		counts: make(map[string]int, len(f.counts)),
	}
	for value, count := range f.counts {
		clone.counts[value] = count
	}

	return clone
}
