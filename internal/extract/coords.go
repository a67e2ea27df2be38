package extract

import (
	"strconv"
	"strings"
)

// Coordinates parses latitude and longitude from a maps URL containing a
// "/@lat,lon,zoom" segment, e.g.
// https://www.google.com/maps/place/biz/@34.05,-118.24,15z.
// It returns (nil, nil) when the segment is absent or malformed and never
// panics.
func Coordinates(rawURL string) (lat, lon *float64) {
	idx := strings.LastIndex(rawURL, "/@")
	if idx < 0 {
		return nil, nil
	}
	segment := rawURL[idx+2:]
	if end := strings.IndexByte(segment, '/'); end >= 0 {
		segment = segment[:end]
	}
	parts := strings.Split(segment, ",")
	if len(parts) < 2 {
		return nil, nil
	}
	latV, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return nil, nil
	}
	lonV, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return nil, nil
	}
	return &latV, &lonV
}
