package predictor_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/trainpredict/pkg/ctdf"
	"github.com/travigo/trainpredict/pkg/network"
	"github.com/travigo/trainpredict/pkg/predictor"
	"github.com/travigo/trainpredict/pkg/trainer"
)

func TestTrainThenPredict(t *testing.T) {
	graph := network.NewGraph(map[string][]string{
		"A": {"B"},
		"B": {"A", "C"},
		"C": {"B", "D"},
		"D": {"C"},
	})
	nine := time.Date(2024, time.April, 2, 9, 0, 0, 0, time.UTC)
	a := ctdf.ParseLocation("A")
	d := ctdf.ParseLocation("D")

	accumulators := trainer.NewAccumulators()
	segmenter := trainer.NewSegmenter(graph, accumulators)
	segmenter.Add(ctdf.NewObservation(ctdf.StateDeparted, a, nine))
	segmenter.Add(ctdf.NewObservation(ctdf.StateArrived, ctdf.ParseLocation("B"), nine.Add(5*time.Minute)))
	segmenter.Add(ctdf.NewObservation(ctdf.StateArrived, ctdf.ParseLocation("C"), nine.Add(10*time.Minute)))
	segmenter.Add(ctdf.NewObservation(ctdf.StateArrived, d, nine.Add(15*time.Minute)))

	modelSet := accumulators.Build()

	pathKey, exists := modelSet.UsualPaths.PathKey(a, "D")
	require.True(t, exists)
	assert.Equal(t, "B->C->D", pathKey)

	delta, exists := modelSet.MedianTimeDeltas.Get("Departed-A->B")
	require.True(t, exists)
	assert.Equal(t, 5*time.Minute, delta)

	predictions, err := predictor.New(modelSet, graph).Predict(nine, ctdf.NewObservation(ctdf.StateDeparted, a, nine), nil, &d, nil)

	require.NoError(t, err)
	assert.Equal(t, []ctdf.Prediction{
		{Location: ctdf.ParseLocation("B"), Time: nine.Add(5 * time.Minute)},
		{Location: ctdf.ParseLocation("C"), Time: nine.Add(10 * time.Minute)},
		{Location: d, Time: nine.Add(15 * time.Minute)},
	}, predictions)
}
