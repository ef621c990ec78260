package datasource

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/trainpredict/pkg/ctdf"
)

func TestLoadTimetableCSV(t *testing.T) {
	timetable, err := LoadTimetableCSV(strings.NewReader(`location,destination,arrival,departure
A,D,,09:02
B_2,D,09:05,09:06
D,D,24:15,
`))

	require.NoError(t, err)
	require.Len(t, timetable, 3)

	assert.False(t, timetable[0].HasArrival)
	assert.True(t, timetable[0].HasDeparture)
	assert.Equal(t, 9*time.Hour+2*time.Minute, timetable[0].Departure)

	assert.Equal(t, ctdf.NewLocation("B", "2"), timetable[1].Location)
	assert.Equal(t, 9*time.Hour+5*time.Minute, timetable[1].Arrival)

	assert.Equal(t, 15*time.Minute, timetable[2].Arrival)
	assert.False(t, timetable[2].HasDeparture)
}

func TestLoadTimetableCSVErrors(t *testing.T) {
	_, err := LoadTimetableCSV(strings.NewReader("location,destination,arrival,departure\nA,D,9am,\n"))
	assert.ErrorContains(t, err, "row 1 arrival")

	_, err = LoadTimetableCSV(strings.NewReader("location,destination,arrival,departure\n,D,09:00,\n"))
	assert.ErrorContains(t, err, "missing location")

	_, err = LoadTimetableCSV(strings.NewReader("location,destination,arrival,departure\nA,D,09:60,\n"))
	assert.Error(t, err)
}

func TestLoadNetworkFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "network.yaml")
	require.NoError(t, os.WriteFile(path, []byte("A: [B]\nB: [A, C]\nC: [B]\n"), 0o644))

	graph, err := LoadNetwork(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 3, graph.Size())
	assert.True(t, graph.IsAdjacent(ctdf.ParseLocation("B"), ctdf.ParseLocation("C")))

	_, err = LoadNetwork(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
