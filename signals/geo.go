package signals

import (
	"fmt"

	"github.com/tidwall/geodesic"
)

const (
	// DefaultThresholdKm is the distance (~200m) within which the East
	// signal turns green for an approaching ambulance.
	DefaultThresholdKm = 0.2
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", c.Lat, c.Lon)
}

// Distance returns the geodesic distance between two points on the WGS-84
// ellipsoid, in kilometres.
func Distance(coord1, coord2 Coordinate) float64 {
	var metres float64
	geodesic.WGS84.Inverse(coord1.Lat, coord1.Lon, coord2.Lat, coord2.Lon, &metres, nil, nil)
	return metres / 1000
}

// IsNear reports whether the ambulance is within thresholdKm of the signal.
func IsNear(ambulance, signal Coordinate, thresholdKm float64) bool {
	return Distance(ambulance, signal) <= thresholdKm
}

// PathLength sums the leg distances of a route, in kilometres.
func PathLength(route []Coordinate) float64 {
	total := 0.0
	for i := 1; i < len(route); i++ {
		total += Distance(route[i-1], route[i])
	}
	return total
}
