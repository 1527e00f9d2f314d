// Package geoutil interprets a decoded rcp.FourFloat GPS record (four raw
// floats: latitude, longitude, altitude, ground speed) as geodetic
// coordinates and offers conversions useful to a ground crew: great-circle
// distance from the pad via github.com/golang/geo, and UTM grid coordinates
// via github.com/tzneal/coordconv, grounded directly on
// cmd/samoyed-ll2utm/main.go's D2R + s2.LatLng + coordconv call shape. This
// is presentation-layer enrichment on top of the already-decoded record; it
// never changes wire parsing.
package geoutil

import (
	"fmt"
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/tzneal/coordconv"
)

// Fix is a GPS telemetry sample as decoded from a GPS device-class record.
type Fix struct {
	LatitudeDeg  float64
	LongitudeDeg float64
	AltitudeM    float64
	GroundSpeed  float64
}

// FromFourFloat builds a Fix from the four raw floats rcp.FourFloat carries
// for a GPS record, in the order specified: lat, lon, alt, ground speed.
func FromFourFloat(data [4]float32) Fix {
	return Fix{
		LatitudeDeg:  float64(data[0]),
		LongitudeDeg: float64(data[1]),
		AltitudeM:    float64(data[2]),
		GroundSpeed:  float64(data[3]),
	}
}

func degToRad(d float64) float64 { return d * math.Pi / 180 }

// LatLng converts the fix to an s2.LatLng for use with golang/geo's
// distance and containment helpers.
func (f Fix) LatLng() s2.LatLng {
	return s2.LatLng{
		Lat: s1.Angle(degToRad(f.LatitudeDeg)),
		Lng: s1.Angle(degToRad(f.LongitudeDeg)),
	}
}

// DistanceFromMeters returns the great-circle distance in meters between
// this fix and pad, using the mean Earth radius.
const meanEarthRadiusM = 6371008.8

func (f Fix) DistanceFromMeters(pad Fix) float64 {
	return f.LatLng().Distance(pad.LatLng()).Radians() * meanEarthRadiusM
}

// UTM converts the fix to a UTM grid coordinate, for range-safety maps that
// plot in a planar grid rather than lat/lon.
func (f Fix) UTM() (coordconv.UTMCoord, error) {
	coord, err := coordconv.DefaultUTMConverter.ConvertFromGeodetic(f.LatLng(), 0)
	if err != nil {
		return coordconv.UTMCoord{}, fmt.Errorf("geoutil: convert to UTM: %w", err)
	}
	return coord, nil
}
