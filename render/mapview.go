package render

import (
	"fmt"

	"ambulance-signal-server/signals"
	"ambulance-signal-server/simulation"
)

const (
	DEFAULT_ZOOM     = 17
	ROAD_HALF_LENGTH = 0.002 // degrees either side of the intersection
)

type Polyline struct {
	Points  []signals.Coordinate `json:"points"`
	Color   string               `json:"color"`
	Weight  int                  `json:"weight"`
	Opacity float64              `json:"opacity"`
}

type Marker struct {
	Location signals.Coordinate `json:"location"`
	Popup    string             `json:"popup"`
	Color    string             `json:"color"`
	Icon     string             `json:"icon"`
}

// MapView is everything a map widget needs to draw one frame.
type MapView struct {
	Center    signals.Coordinate `json:"center"`
	Zoom      int                `json:"zoom"`
	Roads     []Polyline         `json:"roads"`
	Route     Polyline           `json:"route"`
	Ambulance Marker             `json:"ambulance"`
	Signals   []Marker           `json:"signals"`
}

// BuildMapView lays out the intersection, the route, the ambulance and the
// four signals for a frame, centred on the ambulance.
func BuildMapView(scenario simulation.Scenario, frame simulation.Frame) MapView {
	c := scenario.Intersection

	view := MapView{
		Center: frame.Ambulance,
		Zoom:   DEFAULT_ZOOM,
		Roads: []Polyline{
			road(signals.Coordinate{Lat: c.Lat + ROAD_HALF_LENGTH, Lon: c.Lon}, signals.Coordinate{Lat: c.Lat - ROAD_HALF_LENGTH, Lon: c.Lon}),
			road(signals.Coordinate{Lat: c.Lat, Lon: c.Lon + ROAD_HALF_LENGTH}, signals.Coordinate{Lat: c.Lat, Lon: c.Lon - ROAD_HALF_LENGTH}),
		},
		Route: Polyline{
			Points:  scenario.Route,
			Color:   "blue",
			Weight:  5,
			Opacity: 0.7,
		},
		Ambulance: Marker{
			Location: frame.Ambulance,
			Popup:    "Ambulance",
			Color:    "blue",
			Icon:     "ambulance",
		},
		Signals: make([]Marker, 0, len(frame.Lights)),
	}

	for _, light := range frame.Lights {
		view.Signals = append(view.Signals, Marker{
			Location: light.Location,
			Popup:    fmt.Sprintf("%s Signal: %s", light.Direction, light.Status),
			Color:    statusColor(light.Status),
			Icon:     "traffic-light",
		})
	}

	return view
}

func road(from, to signals.Coordinate) Polyline {
	return Polyline{
		Points:  []signals.Coordinate{from, to},
		Color:   "gray",
		Weight:  4,
		Opacity: 0.5,
	}
}

func statusColor(s signals.Status) string {
	if s == signals.Green {
		return "green"
	}
	return "red"
}
