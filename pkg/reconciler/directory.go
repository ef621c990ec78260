package reconciler

import "strings"

type StationResolver interface {
	Lookup(name string) (string, bool)
}

// StationDirectory maps station names, as they appear in the raw feeds, to station codes
type StationDirectory struct {
	codes    map[string]string
	stations int
}

func NewStationDirectory(namesToCodes map[string]string) *StationDirectory {
	directory := &StationDirectory{
		codes:    map[string]string{},
		stations: len(namesToCodes),
	}

	for name, code := range namesToCodes {
		code = strings.ToUpper(strings.TrimSpace(code))

		directory.codes[directoryKey(name)] = code
		directory.codes[directoryKey(code)] = code
	}

	return directory
}

// Lookup resolves a station name, or an already resolved station code, to its code
func (d *StationDirectory) Lookup(name string) (string, bool) {
	code, exists := d.codes[directoryKey(name)]

	return code, exists
}

// Len is the number of station names in the directory
func (d *StationDirectory) Len() int {
	return d.stations
}

func directoryKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
