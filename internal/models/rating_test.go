package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRating(t *testing.T) {
	tests := map[string]Rating{
		"":         RatingUnset,
		"none":     RatingUnset,
		"okay":     RatingOkay,
		"OK":       RatingOkay,
		"not_okay": RatingNotOkay,
		"Not-Okay": RatingNotOkay,
		"notokay":  RatingNotOkay,
	}
	for input, want := range tests {
		got, err := ParseRating(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseRating("great")
	assert.ErrorIs(t, err, ErrInvalidRating)
}

func TestRatingValue(t *testing.T) {
	v, err := RatingUnset.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = RatingNotOkay.Value()
	require.NoError(t, err)
	assert.Equal(t, "not_okay", v)

	_, err = Rating("maybe").Value()
	assert.ErrorIs(t, err, ErrInvalidRating)
}

func TestRatingScan(t *testing.T) {
	var r Rating
	require.NoError(t, r.Scan("okay"))
	assert.Equal(t, RatingOkay, r)
	require.NoError(t, r.Scan([]byte("not_okay")))
	assert.Equal(t, RatingNotOkay, r)
	require.NoError(t, r.Scan(nil))
	assert.Equal(t, RatingUnset, r)
	assert.Error(t, r.Scan(42))
}

func TestRatingNext(t *testing.T) {
	assert.Equal(t, RatingOkay, RatingUnset.Next())
	assert.Equal(t, RatingNotOkay, RatingOkay.Next())
	assert.Equal(t, RatingUnset, RatingNotOkay.Next())
}

func TestInteractionTimeLabel(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 1, 0, time.UTC)
	assert.Equal(t, "2024-01-01T00:00:01Z", Interaction{InteractionTimestamp: &ts}.TimeLabel())
	assert.Equal(t, "t=1500 ms", Interaction{OffsetMS: 1500}.TimeLabel())
}
