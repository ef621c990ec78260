package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCollapseConsecutive(t *testing.T) {
	assert.Equal(t, []string{"A", "B", "A", "C"}, CollapseConsecutive([]string{"A", "A", "B", "A", "C", "C"}))
	assert.Equal(t, []string{}, CollapseConsecutive([]string{}))
}

func TestInPlaceFilter(t *testing.T) {
	values := []int{1, 2, 3, 4, 5}
	InPlaceFilter(&values, func(v int) bool { return v%2 == 1 })

	assert.Equal(t, []int{1, 3, 5}, values)
}

func TestSetTimeOfDay(t *testing.T) {
	date := time.Date(2024, time.March, 3, 23, 59, 12, 500, time.UTC)

	assert.Equal(t, time.Date(2024, time.March, 3, 0, 5, 0, 0, time.UTC), SetTimeOfDay(date, 0, 5))
}

func TestTimeOfDayDistance(t *testing.T) {
	tests := []struct {
		a, b     time.Duration
		expected time.Duration
	}{
		{10 * time.Hour, 10*time.Hour + 5*time.Minute, 5 * time.Minute},
		{23*time.Hour + 55*time.Minute, 5 * time.Minute, 10 * time.Minute},
		{0, 12 * time.Hour, 12 * time.Hour},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, TimeOfDayDistance(test.a, test.b))
	}
}
