package util

import (
	"time"
)

const day = 24 * time.Hour

// SetTimeOfDay keeps the calendar date of date and replaces its clock with hour:minute
func SetTimeOfDay(date time.Time, hour int, minute int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location())
}

// TimeOfDay returns how far into its day t is
func TimeOfDay(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second
}

// TimeOfDayDistance is the shortest distance between two clock times, wrapping around midnight
func TimeOfDayDistance(a time.Duration, b time.Duration) time.Duration {
	difference := (a - b) % day
	if difference < 0 {
		difference = -difference
	}

	if difference > day/2 {
		difference = day - difference
	}

	return difference
}
