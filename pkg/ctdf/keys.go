package ctdf

import (
	"strings"

	"github.com/travigo/trainpredict/pkg/util"
)

// KeyDelimiter joins the parts of path and time delta keys. The persisted models depend on it.
const KeyDelimiter = "->"

func ObservationKey(state State, location Location) string {
	return string(state) + "-" + location.Code()
}

// PathKey encodes a directed route, collapsing consecutive repeats of a location
func PathKey(locations []Location) string {
	collapsed := util.CollapseConsecutive(locations)

	codes := make([]string, len(collapsed))
	for i, location := range collapsed {
		codes[i] = location.Code()
	}

	return strings.Join(codes, KeyDelimiter)
}

func ParsePathKey(pathKey string) []Location {
	if pathKey == "" {
		return nil
	}

	codes := strings.Split(pathKey, KeyDelimiter)
	locations := make([]Location, len(codes))
	for i, code := range codes {
		locations[i] = ParseLocation(code)
	}

	return locations
}

// TimeDeltaKey identifies the elapsed time from an observation following a path
func TimeDeltaKey(observationKey string, pathKey string) string {
	return observationKey + KeyDelimiter + pathKey
}
