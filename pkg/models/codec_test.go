package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/trainpredict/pkg/ctdf"
)

func TestMedianTimeDeltasRoundTrip(t *testing.T) {
	medians := NewMedianTimeDeltas()
	medians.Set("Departed-A->B", 300000)
	medians.Set("Departed-A->B->C", 601500.5)

	data, err := json.Marshal(medians)
	require.NoError(t, err)

	decoded, err := DecodeMedianTimeDeltas(data)
	require.NoError(t, err)
	assert.Equal(t, medians, decoded)

	delta, exists := decoded.Get("Departed-A->B")
	assert.True(t, exists)
	assert.Equal(t, 5*time.Minute, delta)
}

func TestUsualPathsRoundTrip(t *testing.T) {
	paths := NewUsualPaths()
	paths.Set(ctdf.ParseLocation("A_1"), "D", "B->C->D_2")
	paths.Set(ctdf.ParseLocation("A_1"), "C", "B->C")

	data, err := json.Marshal(paths)
	require.NoError(t, err)

	var decoded UsualPaths
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, paths, &decoded)
	assert.Equal(t, 2, decoded.Len())
}

func TestUsualDestinationsRoundTrip(t *testing.T) {
	destinations := NewUsualDestinations()
	destinations.Set(ctdf.ParseLocation("A"), ctdf.ParseLocation("B"), ctdf.ParseLocation("D_1"))

	data, err := json.Marshal(destinations)
	require.NoError(t, err)

	decoded, err := DecodeUsualDestinations(data)
	require.NoError(t, err)
	assert.Equal(t, destinations, decoded)
}

func TestDecodeRejectsMalformedDocuments(t *testing.T) {
	tests := []struct {
		name     string
		decode   func([]byte) error
		document string
		message  string
	}{
		{
			name:     "median null root",
			decode:   func(b []byte) error { _, err := DecodeMedianTimeDeltas(b); return err },
			document: `null`,
			message:  `medianPathTimes: expected object, got null`,
		},
		{
			name:     "median array root",
			decode:   func(b []byte) error { _, err := DecodeMedianTimeDeltas(b); return err },
			document: `[1, 2]`,
			message:  `medianPathTimes: expected object, got array`,
		},
		{
			name:     "median string value",
			decode:   func(b []byte) error { _, err := DecodeMedianTimeDeltas(b); return err },
			document: `{"Departed-A->B": "300000"}`,
			message:  `medianPathTimes["Departed-A->B"]: expected number, got string`,
		},
		{
			name:     "paths array root",
			decode:   func(b []byte) error { _, err := DecodeUsualPaths(b); return err },
			document: `[]`,
			message:  `usualPaths: expected object, got array`,
		},
		{
			name:     "paths null inner object",
			decode:   func(b []byte) error { _, err := DecodeUsualPaths(b); return err },
			document: `{"A": null}`,
			message:  `usualPaths["A"]: expected object, got null`,
		},
		{
			name:     "paths number leaf",
			decode:   func(b []byte) error { _, err := DecodeUsualPaths(b); return err },
			document: `{"A": {"D": 4}}`,
			message:  `usualPaths["A"]["D"]: expected string, got number`,
		},
		{
			name:     "destinations array inner",
			decode:   func(b []byte) error { _, err := DecodeUsualDestinations(b); return err },
			document: `{"A": ["B"]}`,
			message:  `usualDestinations["A"]: expected object, got array`,
		},
		{
			name:     "destinations object leaf",
			decode:   func(b []byte) error { _, err := DecodeUsualDestinations(b); return err },
			document: `{"A": {"B": {"C": "D"}}}`,
			message:  `usualDestinations["A"]["B"]: expected string, got object`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.decode([]byte(test.document))

			require.Error(t, err)
			assert.Equal(t, test.message, err.Error())

			var decodeError *DecodeError
			assert.True(t, errors.As(err, &decodeError))
		})
	}
}

func TestDecodeRejectsInvalidJSON(t *testing.T) {
	_, err := DecodeUsualPaths([]byte(`{"A":`))
	assert.ErrorContains(t, err, "usualPaths")

	_, err = DecodeMedianTimeDeltas([]byte(`{} {}`))
	assert.Error(t, err)
}
