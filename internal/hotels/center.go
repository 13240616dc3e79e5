package hotels

import (
	"fmt"

	"github.com/i474232898/hotel-weather-analysis/internal/geospatial"
)

const (
	// centerEpsilonM floors the distance weight so an estimate sitting on a
	// hotel does not divide by zero.
	centerEpsilonM = 1.0

	// centerToleranceM stops the iteration once successive estimates move
	// less than this many meters.
	centerToleranceM = 0.5

	// centerMaxIterations caps the relaxation on degenerate inputs, e.g. all
	// hotels colinear. The last estimate is used as-is when the cap is hit.
	centerMaxIterations = 100
)

// LocateCenter computes a representative coordinate for the city's hotels:
// the geometric median found by Weiszfeld iteration, which resists skew from
// outlier hotels far outside the urban core. Distances use haversine so the
// iteration and any downstream distance checks agree on the metric. The
// result always lies within the bounding box of the city's hotel coordinates.
func LocateCenter(city City) (CityCenter, error) {
	if len(city.Hotels) == 0 {
		return CityCenter{}, fmt.Errorf("%w: %s", ErrDegenerateCity, city.Key())
	}

	// Start at the coordinate-wise mean.
	var lat, lon float64
	for _, h := range city.Hotels {
		lat += h.Latitude
		lon += h.Longitude
	}
	lat /= float64(len(city.Hotels))
	lon /= float64(len(city.Hotels))

	for i := 0; i < centerMaxIterations; i++ {
		var sumW, sumLat, sumLon float64
		for _, h := range city.Hotels {
			d := geospatial.Haversine(lat, lon, h.Latitude, h.Longitude)
			if d < centerEpsilonM {
				d = centerEpsilonM
			}
			w := 1 / d
			sumW += w
			sumLat += w * h.Latitude
			sumLon += w * h.Longitude
		}

		nextLat := sumLat / sumW
		nextLon := sumLon / sumW
		moved := geospatial.Haversine(lat, lon, nextLat, nextLon)
		lat, lon = nextLat, nextLon

		if moved < centerToleranceM {
			break
		}
	}

	return CityCenter{City: city, Latitude: lat, Longitude: lon}, nil
}
