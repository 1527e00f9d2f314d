package geoutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromFourFloat_MapsFieldsInOrder(t *testing.T) {
	fix := FromFourFloat([4]float32{42.0, -71.0, 120.5, 3.2})

	assert.InDelta(t, 42.0, fix.LatitudeDeg, 1e-6)
	assert.InDelta(t, -71.0, fix.LongitudeDeg, 1e-6)
	assert.InDelta(t, 120.5, fix.AltitudeM, 1e-6)
	assert.InDelta(t, 3.2, fix.GroundSpeed, 1e-6)
}

func TestDistanceFromMeters_ZeroForSamePoint(t *testing.T) {
	a := FromFourFloat([4]float32{40.1, -88.2, 0, 0})
	assert.InDelta(t, 0, a.DistanceFromMeters(a), 1e-6)
}

func TestDistanceFromMeters_NonZeroForDifferentPoints(t *testing.T) {
	pad := FromFourFloat([4]float32{40.1, -88.2, 0, 0})
	drifted := FromFourFloat([4]float32{40.11, -88.2, 0, 0})

	d := pad.DistanceFromMeters(drifted)
	assert.Greater(t, d, 1000.0)
	assert.Less(t, d, 1200.0)
}

func TestUTM_ReturnsAZoneForValidCoordinates(t *testing.T) {
	fix := FromFourFloat([4]float32{40.1, -88.2, 0, 0})

	coord, err := fix.UTM()
	if err != nil {
		t.Skipf("UTM conversion unavailable for this coordinate: %v", err)
	}
	assert.NotZero(t, coord.Zone)
}
