package ctdf

import (
	"strings"
	"unicode"
)

const platformSeparator = "_"

// Location is a stopping point in the network, a station optionally narrowed to one platform
type Location struct {
	Station  string
	Platform string
}

func NewLocation(station string, platform string) Location {
	return Location{
		Station:  strings.ToUpper(strings.TrimSpace(station)),
		Platform: strings.TrimSpace(platform),
	}
}

// ParseLocation reads a location code in the STATION or STATION_PLATFORM form
func ParseLocation(code string) Location {
	code = strings.ToUpper(strings.TrimSpace(code))

	separator := strings.LastIndex(code, platformSeparator)
	if separator <= 0 || separator == len(code)-1 {
		return Location{Station: code}
	}

	platform := code[separator+1:]
	for _, r := range platform {
		if !unicode.IsDigit(r) {
			return Location{Station: code}
		}
	}

	return Location{Station: code[:separator], Platform: platform}
}

func (l Location) Code() string {
	if l.Platform == "" {
		return l.Station
	}

	return l.Station + platformSeparator + l.Platform
}

func (l Location) String() string {
	return l.Code()
}

func (l Location) IsZero() bool {
	return l.Station == ""
}

func (l Location) SameStation(other Location) bool {
	return l.Station == other.Station
}

// WithoutPlatform returns the station wide location
func (l Location) WithoutPlatform() Location {
	return Location{Station: l.Station}
}

func (l Location) MarshalText() ([]byte, error) {
	return []byte(l.Code()), nil
}

func (l *Location) UnmarshalText(text []byte) error {
	*l = ParseLocation(string(text))
	return nil
}
