package extract

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCoordinatesParsesLatLon(t *testing.T) {
	t.Parallel()

	lat, lon := Coordinates("https://www.google.com/maps/place/Some+Biz/@34.05,-118.24,15z/data=!3m1")
	require.NotNil(t, lat)
	require.NotNil(t, lon)
	require.InDelta(t, 34.05, *lat, 1e-9)
	require.InDelta(t, -118.24, *lon, 1e-9)
}

func TestCoordinatesWithoutTrailingSegment(t *testing.T) {
	t.Parallel()

	lat, lon := Coordinates("https://www.google.com/maps/place/Some+Biz/@41.0082,28.9784,14z")
	require.NotNil(t, lat)
	require.NotNil(t, lon)
	require.InDelta(t, 41.0082, *lat, 1e-9)
	require.InDelta(t, 28.9784, *lon, 1e-9)
}

func TestCoordinatesMissingSegment(t *testing.T) {
	t.Parallel()

	lat, lon := Coordinates("https://www.google.com/maps/place/Some+Biz")
	require.Nil(t, lat)
	require.Nil(t, lon)
}

func TestCoordinatesMalformed(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{
		"https://x.example/@",
		"https://x.example/@only-one-part/",
		"https://x.example/@abc,def,15z",
		"https://x.example/@12.5",
		"",
	} {
		lat, lon := Coordinates(raw)
		require.Nil(t, lat, raw)
		require.Nil(t, lon, raw)
	}
}

func TestCoordinatesUsesLastAtSegment(t *testing.T) {
	t.Parallel()

	lat, lon := Coordinates("https://x.example/@1,2,3z/more/@9.5,8.5,10z")
	require.NotNil(t, lat)
	require.InDelta(t, 9.5, *lat, 1e-9)
	require.InDelta(t, 8.5, *lon, 1e-9)
}
