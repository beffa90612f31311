package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoxAround(t *testing.T) {
	tests := []struct {
		name         string
		latitude     float64
		longitude    float64
		radiusMeters float64
		contains     [][2]float64
		excludes     [][2]float64
	}{
		{
			name:         "center is always inside",
			latitude:     55.75,
			longitude:    37.61,
			radiusMeters: 1000,
			contains:     [][2]float64{{55.75, 37.61}},
		},
		{
			name:         "1km box around moscow includes nearby point",
			latitude:     55.75,
			longitude:    37.61,
			radiusMeters: 1000,
			contains:     [][2]float64{{55.755, 37.615}},
			excludes:     [][2]float64{{55.85, 37.61}, {55.75, 38.61}},
		},
		{
			name:         "1m box excludes building 10km away",
			latitude:     55.75,
			longitude:    37.61,
			radiusMeters: 1,
			contains:     [][2]float64{{55.75, 37.61}},
			excludes:     [][2]float64{{55.84, 37.61}},
		},
		{
			name:         "equator has no longitude correction",
			latitude:     0,
			longitude:    10,
			radiusMeters: 111000,
			contains:     [][2]float64{{0, 9.0}, {0, 11.0}, {1.0, 10}},
			excludes:     [][2]float64{{0, 8.9}, {1.1, 10}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box := BoxAround(tt.latitude, tt.longitude, tt.radiusMeters)

			for _, p := range tt.contains {
				assert.True(t, box.Contains(p[0], p[1]), "expected (%f, %f) inside box %+v", p[0], p[1], box)
			}
			for _, p := range tt.excludes {
				assert.False(t, box.Contains(p[0], p[1]), "expected (%f, %f) outside box %+v", p[0], p[1], box)
			}
		})
	}
}

func TestBoxAround_LatitudeBounds(t *testing.T) {
	box := BoxAround(55.75, 37.61, 1000)

	radiusDegrees := 1000.0 / MetersPerDegree
	assert.InDelta(t, 55.75-radiusDegrees, box.LatMin, 1e-9)
	assert.InDelta(t, 55.75+radiusDegrees, box.LatMax, 1e-9)

	// longitude span is widened by 1/cos(lat)
	lonRadius := radiusDegrees / math.Cos(55.75*math.Pi/180)
	assert.InDelta(t, 37.61-lonRadius, box.LonMin, 1e-9)
	assert.InDelta(t, 37.61+lonRadius, box.LonMax, 1e-9)
	assert.Greater(t, box.LonMax-box.LonMin, box.LatMax-box.LatMin)
}

func TestBoundingBox_ContainsInclusiveBounds(t *testing.T) {
	box := BoxAround(55.0, 37.0, 1110)

	assert.True(t, box.Contains(box.LatMin, 37.0))
	assert.True(t, box.Contains(box.LatMax, 37.0))
	assert.True(t, box.Contains(55.0, box.LonMin))
	assert.True(t, box.Contains(55.0, box.LonMax))
}
