package ctdf

// Journey is the working sequence of observations believed to belong to one continuous trip
type Journey struct {
	entries []Observation
}

func (j *Journey) Len() int {
	return len(j.entries)
}

func (j *Journey) IsEmpty() bool {
	return len(j.entries) == 0
}

func (j *Journey) At(i int) Observation {
	return j.entries[i]
}

func (j *Journey) First() Observation {
	return j.entries[0]
}

func (j *Journey) Last() Observation {
	return j.entries[len(j.entries)-1]
}

// Entries returns a copy of the observations in journey order
func (j *Journey) Entries() []Observation {
	entries := make([]Observation, len(j.entries))
	copy(entries, j.entries)

	return entries
}

func (j *Journey) Append(observation Observation) {
	j.entries = append(j.entries, observation)
}

// TruncateFrom drops every entry before index i
func (j *Journey) TruncateFrom(i int) {
	j.entries = append([]Observation(nil), j.entries[i:]...)
}

func (j *Journey) Reset() {
	j.entries = nil
}

// VisitedStationBefore reports whether any entry before index end is at the given station
func (j *Journey) VisitedStationBefore(station string, end int) bool {
	for _, entry := range j.entries[:end] {
		if entry.Location().Station == station {
			return true
		}
	}

	return false
}

// Locations returns the distinct locations of the journey in the order they were first seen
func (j *Journey) Locations() []Location {
	seen := map[Location]bool{}
	var locations []Location

	for _, entry := range j.entries {
		if !seen[entry.Location()] {
			seen[entry.Location()] = true
			locations = append(locations, entry.Location())
		}
	}

	return locations
}
