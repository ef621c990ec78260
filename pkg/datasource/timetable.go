package datasource

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/travigo/trainpredict/pkg/ctdf"
)

// TimetableRecord is a timetable row as published, with times of day as HH:MM or HH:MM:SS.
// Times past midnight may be written as 24:10.
type TimetableRecord struct {
	Location    string `json:"location" csv:"location"`
	Destination string `json:"destination" csv:"destination"`
	Arrival     string `json:"arrival,omitempty" csv:"arrival"`
	Departure   string `json:"departure,omitempty" csv:"departure"`
}

// LoadTimetableCSV reads location,destination,arrival,departure rows with a header line
func LoadTimetableCSV(reader io.Reader) ([]ctdf.TimetableEntry, error) {
	var records []TimetableRecord

	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1
	csvReader.TrimLeadingSpace = true

	if err := gocsv.UnmarshalCSV(csvReader, &records); err != nil {
		return nil, err
	}

	return ConvertTimetable(records)
}

func ConvertTimetable(records []TimetableRecord) ([]ctdf.TimetableEntry, error) {
	entries := make([]ctdf.TimetableEntry, 0, len(records))

	for i, record := range records {
		if strings.TrimSpace(record.Location) == "" {
			return nil, fmt.Errorf("timetable row %d: missing location", i+1)
		}

		entry := ctdf.TimetableEntry{
			Location:    ctdf.ParseLocation(strings.TrimSpace(record.Location)),
			Destination: ctdf.ParseLocation(strings.TrimSpace(record.Destination)),
		}

		var err error
		if entry.Arrival, entry.HasArrival, err = parseTimeOfDay(record.Arrival); err != nil {
			return nil, fmt.Errorf("timetable row %d arrival: %w", i+1, err)
		}
		if entry.Departure, entry.HasDeparture, err = parseTimeOfDay(record.Departure); err != nil {
			return nil, fmt.Errorf("timetable row %d departure: %w", i+1, err)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

func parseTimeOfDay(value string) (time.Duration, bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false, nil
	}

	parts := strings.Split(value, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false, fmt.Errorf("invalid time of day %q", value)
	}

	units := []time.Duration{time.Hour, time.Minute, time.Second}
	limits := []int{48, 60, 60}

	var offset time.Duration
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n >= limits[i] {
			return 0, false, fmt.Errorf("invalid time of day %q", value)
		}
		offset += time.Duration(n) * units[i]
	}

	return offset % (24 * time.Hour), true, nil
}
