package signals

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Direction int

const (
	North Direction = iota
	South
	East
	West
)

// Directions lists the approaches in the order the updater visits them.
var Directions = [4]Direction{North, South, East, West}

func (d Direction) String() string {
	switch d {
	case North:
		return "North"
	case South:
		return "South"
	case East:
		return "East"
	case West:
		return "West"
	default:
		return "Unknown"
	}
}

func (d Direction) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Direction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for _, dir := range Directions {
		if strings.EqualFold(dir.String(), s) {
			*d = dir
			return nil
		}
	}
	return fmt.Errorf("unknown direction %q", s)
}

type Status int

const (
	Red Status = iota
	Green
)

func (s Status) String() string {
	if s == Green {
		return "Green"
	}
	return "Red"
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch strings.ToLower(v) {
	case "red":
		*s = Red
	case "green":
		*s = Green
	default:
		return fmt.Errorf("unknown status %q", v)
	}
	return nil
}

// Signal is one traffic light at the intersection.
type Signal struct {
	Direction Direction  `json:"direction"`
	Location  Coordinate `json:"location"`
	Status    Status     `json:"status"`
}

// Lights holds the four signals of the intersection, indexed by Direction.
// It is a value: copies are independent.
type Lights [4]Signal

// DefaultSignalOffsetDeg is how far each signal sits from the intersection centre.
const DefaultSignalOffsetDeg = 0.001

// NewLights places one signal on each approach, offsetDeg away from the
// intersection centre. All start Red.
func NewLights(intersection Coordinate, offsetDeg float64) Lights {
	return Lights{
		North: {Direction: North, Location: Coordinate{Lat: intersection.Lat + offsetDeg, Lon: intersection.Lon}},
		South: {Direction: South, Location: Coordinate{Lat: intersection.Lat - offsetDeg, Lon: intersection.Lon}},
		East:  {Direction: East, Location: Coordinate{Lat: intersection.Lat, Lon: intersection.Lon + offsetDeg}},
		West:  {Direction: West, Location: Coordinate{Lat: intersection.Lat, Lon: intersection.Lon - offsetDeg}},
	}
}

func (l Lights) Get(d Direction) Signal {
	return l[d]
}

// Green returns the signals currently showing green.
func (l Lights) Green() []Signal {
	var green []Signal
	for _, s := range l {
		if s.Status == Green {
			green = append(green, s)
		}
	}
	return green
}
