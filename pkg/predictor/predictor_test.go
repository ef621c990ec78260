package predictor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/trainpredict/pkg/ctdf"
	"github.com/travigo/trainpredict/pkg/models"
	"github.com/travigo/trainpredict/pkg/network"
)

var nine = time.Date(2024, time.April, 2, 9, 0, 0, 0, time.UTC)

func at(minutes float64) time.Time {
	return nine.Add(time.Duration(minutes * float64(time.Minute)))
}

func loc(code string) ctdf.Location {
	return ctdf.ParseLocation(code)
}

func locPtr(code string) *ctdf.Location {
	location := ctdf.ParseLocation(code)
	return &location
}

func minutes(m float64) float64 {
	return m * 60000
}

func linearNetwork(opts ...network.Option) *network.Graph {
	return network.NewGraph(map[string][]string{
		"A": {"B"},
		"B": {"A", "C"},
		"C": {"B", "D"},
		"D": {"C"},
	}, opts...)
}

func linearModels() *models.ModelSet {
	modelSet := models.NewModelSet()
	modelSet.UsualPaths.Set(loc("A"), "D", "B->C->D")
	modelSet.MedianTimeDeltas.Set("Departed-A->B", minutes(5))
	modelSet.MedianTimeDeltas.Set("Departed-A->B->C", minutes(10))
	modelSet.MedianTimeDeltas.Set("Departed-A->B->C->D", minutes(15))
	return modelSet
}

func TestPredictWalksUsualPath(t *testing.T) {
	p := New(linearModels(), linearNetwork())

	predictions, err := p.Predict(nine, ctdf.NewObservation(ctdf.StateDeparted, loc("A"), nine), nil, locPtr("D"), nil)

	require.NoError(t, err)
	assert.Equal(t, []ctdf.Prediction{
		{Location: loc("B"), Time: at(5)},
		{Location: loc("C"), Time: at(10)},
		{Location: loc("D"), Time: at(15)},
	}, predictions)
}

func TestPredictClampsToHeartbeat(t *testing.T) {
	modelSet := linearModels()
	modelSet.MedianTimeDeltas.Set("Departed-A->B->C", minutes(13))

	heartbeat := at(10)
	p := New(modelSet, linearNetwork())

	predictions, err := p.Predict(heartbeat, ctdf.NewObservation(ctdf.StateDeparted, loc("A"), nine), nil, locPtr("D"), nil)

	require.NoError(t, err)
	require.Len(t, predictions, 3)
	assert.Equal(t, heartbeat, predictions[0].Time)
	assert.Equal(t, heartbeat.Add(8*time.Minute), predictions[1].Time)
	assert.Equal(t, heartbeat.Add(10*time.Minute), predictions[2].Time)
}

func TestPredictStopsAtWindow(t *testing.T) {
	modelSet := linearModels()
	modelSet.MedianTimeDeltas.Set("Departed-A->B", minutes(60))
	modelSet.MedianTimeDeltas.Set("Departed-A->B->C", minutes(120)+1000)
	modelSet.MedianTimeDeltas.Set("Departed-A->B->C->D", minutes(110))

	p := New(modelSet, linearNetwork())

	predictions, err := p.Predict(nine, ctdf.NewObservation(ctdf.StateDeparted, loc("A"), nine), nil, locPtr("D"), nil)

	require.NoError(t, err)
	assert.Equal(t, []ctdf.Prediction{{Location: loc("B"), Time: at(60)}}, predictions)
}

func TestPredictIncludesLegExactlyAtWindow(t *testing.T) {
	modelSet := linearModels()
	modelSet.MedianTimeDeltas.Set("Departed-A->B", minutes(120))

	predictions, err := New(modelSet, linearNetwork()).Predict(nine, ctdf.NewObservation(ctdf.StateDeparted, loc("A"), nine), nil, locPtr("D"), nil)

	require.NoError(t, err)
	require.Len(t, predictions, 1)
	assert.Equal(t, at(120), predictions[0].Time)
}

func TestPredictFallsBackToArrivedAnchor(t *testing.T) {
	modelSet := models.NewModelSet()
	modelSet.UsualPaths.Set(loc("A"), "D", "B->C->D")
	modelSet.MedianTimeDeltas.Set("Departed-A->B", minutes(5))
	modelSet.MedianTimeDeltas.Set("Arrived-B->C", minutes(6))
	modelSet.MedianTimeDeltas.Set("Arrived-C->D", minutes(4))

	predictions, err := New(modelSet, linearNetwork()).Predict(nine, ctdf.NewObservation(ctdf.StateDeparted, loc("A"), nine), nil, locPtr("D"), nil)

	require.NoError(t, err)
	assert.Equal(t, []ctdf.Prediction{
		{Location: loc("B"), Time: at(5)},
		{Location: loc("C"), Time: at(11)},
		{Location: loc("D"), Time: at(15)},
	}, predictions)
}

func TestPredictStopsWithoutData(t *testing.T) {
	modelSet := linearModels()
	modelSet.MedianTimeDeltas = models.NewMedianTimeDeltas()
	modelSet.MedianTimeDeltas.Set("Departed-A->B", minutes(5))
	modelSet.MedianTimeDeltas.Set("Departed-A->B->C", minutes(10))

	predictions, err := New(modelSet, linearNetwork()).Predict(nine, ctdf.NewObservation(ctdf.StateDeparted, loc("A"), nine), nil, locPtr("D"), nil)

	require.NoError(t, err)
	assert.Len(t, predictions, 2)
}

func TestPredictFallsBackToShortestPath(t *testing.T) {
	modelSet := linearModels()
	modelSet.UsualPaths = models.NewUsualPaths()

	predictions, err := New(modelSet, linearNetwork()).Predict(nine, ctdf.NewObservation(ctdf.StateDeparted, loc("A"), nine), nil, locPtr("D"), nil)

	require.NoError(t, err)
	assert.Len(t, predictions, 3)
}

func TestPredictDestinationFromTimetable(t *testing.T) {
	timetable := []ctdf.TimetableEntry{
		{Location: loc("A"), Destination: loc("C"), Departure: 8*time.Hour + 40*time.Minute, HasDeparture: true},
		{Location: loc("A"), Destination: loc("D"), Departure: 9*time.Hour + 2*time.Minute, HasDeparture: true},
		{Location: loc("B"), Destination: loc("B"), Arrival: 9 * time.Hour, HasArrival: true},
	}

	predictions, err := New(linearModels(), linearNetwork()).Predict(nine, ctdf.NewObservation(ctdf.StateDeparted, loc("A"), nine), nil, nil, timetable)

	require.NoError(t, err)
	require.Len(t, predictions, 3)
	assert.Equal(t, loc("D"), predictions[2].Location)
}

func TestPredictTimetableUsesArrivalWhenApproaching(t *testing.T) {
	modelSet := linearModels()
	modelSet.MedianTimeDeltas.Set("Approaching-A->B", minutes(6))

	timetable := []ctdf.TimetableEntry{
		{
			Location:     loc("A"),
			Destination:  loc("B"),
			Arrival:      8*time.Hour + 58*time.Minute,
			HasArrival:   true,
			Departure:    9*time.Hour + 30*time.Minute,
			HasDeparture: true,
		},
	}

	predictions, err := New(modelSet, linearNetwork()).Predict(nine, ctdf.NewObservation(ctdf.StateApproaching, loc("A"), nine), nil, nil, timetable)
	require.NoError(t, err)
	assert.Equal(t, []ctdf.Prediction{{Location: loc("B"), Time: at(6)}}, predictions)

	_, err = New(modelSet, linearNetwork()).Predict(nine, ctdf.NewObservation(ctdf.StateDeparted, loc("A"), nine), nil, nil, timetable)
	assert.ErrorIs(t, err, ErrNoDestinationFound)
}

func TestPredictTimetableThreshold(t *testing.T) {
	timetable := []ctdf.TimetableEntry{
		{Location: loc("A"), Destination: loc("D"), Departure: 9*time.Hour + 15*time.Minute, HasDeparture: true},
	}

	_, err := New(linearModels(), linearNetwork()).Predict(nine, ctdf.NewObservation(ctdf.StateDeparted, loc("A"), nine), nil, nil, timetable)
	assert.ErrorIs(t, err, ErrNoDestinationFound)

	predictions, err := New(linearModels(), linearNetwork(), WithTimetableThreshold(20*time.Minute)).
		Predict(nine, ctdf.NewObservation(ctdf.StateDeparted, loc("A"), nine), nil, nil, timetable)
	require.NoError(t, err)
	assert.Len(t, predictions, 3)
}

func TestPredictTimetableDestinationIsCanonicalised(t *testing.T) {
	graph := network.NewGraph(map[string][]string{
		"A":    {"B"},
		"B":    {"A", "TM_1"},
		"TM_1": {"B"},
	}, network.WithEquivalents(map[string]string{"TM_1": "TM", "TM_2": "TM"}))

	modelSet := models.NewModelSet()
	modelSet.MedianTimeDeltas.Set("Departed-A->B", minutes(3))
	modelSet.MedianTimeDeltas.Set("Departed-A->B->TM_1", minutes(7))

	timetable := []ctdf.TimetableEntry{
		{Location: loc("A"), Destination: loc("TM_2"), Departure: 9 * time.Hour, HasDeparture: true},
	}

	predictions, err := New(modelSet, graph).Predict(nine, ctdf.NewObservation(ctdf.StateDeparted, loc("A"), nine), nil, nil, timetable)

	require.NoError(t, err)
	assert.Equal(t, []ctdf.Prediction{
		{Location: loc("B"), Time: at(3)},
		{Location: loc("TM_1"), Time: at(7)},
	}, predictions)
}

func TestPredictDestinationFromUsualDestinations(t *testing.T) {
	modelSet := linearModels()
	modelSet.UsualDestinations.Set(loc("A"), loc("A"), loc("D"))

	predictions, err := New(modelSet, linearNetwork()).Predict(nine, ctdf.NewObservation(ctdf.StateDeparted, loc("A"), nine), locPtr("A"), nil, nil)

	require.NoError(t, err)
	assert.Len(t, predictions, 3)
}

func TestPredictErrors(t *testing.T) {
	p := New(linearModels(), linearNetwork())

	_, err := p.Predict(nine, ctdf.NewObservation(ctdf.StateDeparted, loc("A"), nine), nil, nil, nil)
	assert.ErrorIs(t, err, ErrNoDestinationFound)

	_, err = p.Predict(nine, ctdf.NewObservation(ctdf.StateDeparted, loc("A"), nine), nil, locPtr("Z"), nil)
	assert.ErrorIs(t, err, ErrNoPathFound)
}

func TestPredictChainsNextLeg(t *testing.T) {
	modelSet := models.NewModelSet()
	modelSet.UsualPaths.Set(loc("A"), "B", "B")
	modelSet.MedianTimeDeltas.Set("Departed-A->B", minutes(5))
	modelSet.UsualDestinations.Set(loc("B"), loc("B"), loc("C"))
	modelSet.MedianTimeDeltas.Set("Arrived-B->C", minutes(5))

	predictions, err := New(modelSet, linearNetwork()).Predict(nine, ctdf.NewObservation(ctdf.StateDeparted, loc("A"), nine), nil, locPtr("B"), nil)

	require.NoError(t, err)
	assert.Equal(t, []ctdf.Prediction{
		{Location: loc("B"), Time: at(5)},
		{Location: loc("C"), Time: at(10)},
	}, predictions)
}

func TestPredictHopLimit(t *testing.T) {
	graph := network.NewGraph(map[string][]string{
		"A": {"B"},
		"B": {"A"},
	})

	modelSet := models.NewModelSet()
	modelSet.UsualDestinations.Set(loc("A"), loc("A"), loc("B"))
	modelSet.UsualDestinations.Set(loc("B"), loc("B"), loc("A"))
	modelSet.MedianTimeDeltas.Set("Arrived-A->B", minutes(1))
	modelSet.MedianTimeDeltas.Set("Arrived-B->A", minutes(1))

	current := ctdf.NewObservation(ctdf.StateArrived, loc("A"), nine)

	predictions, err := New(modelSet, graph).Predict(nine, current, nil, nil, nil)
	require.NoError(t, err)
	assert.Len(t, predictions, 2)

	predictions, err = New(modelSet, graph, WithMaxHops(5)).Predict(nine, current, nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, predictions, 5)
	assert.Equal(t, at(5), predictions[4].Time)
	assert.Equal(t, loc("B"), predictions[4].Location)
}

func TestOptionalLocation(t *testing.T) {
	graph := network.NewGraph(map[string][]string{
		"HBR": {"TM"},
		"TM":  {"HBR"},
	}, network.WithPlatformInsensitive("HBR"))

	assert.Nil(t, optionalLocation(graph, ""))
	assert.Equal(t, locPtr("HBR"), optionalLocation(graph, "HBR_1"))
	assert.Equal(t, locPtr("HBR"), optionalLocation(graph, "hbr_1"))
	assert.Equal(t, locPtr("TM_2"), optionalLocation(graph, "tm_2"))
}
