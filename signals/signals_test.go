package signals

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var intersection = Coordinate{Lat: 13.0837, Lon: 80.2727}

func TestDistance(t *testing.T) {
	assert.Equal(t, 0.0, Distance(intersection, intersection))

	// One thousandth of a degree of latitude is ~110.6m at this latitude.
	d := Distance(intersection, Coordinate{Lat: intersection.Lat + 0.001, Lon: intersection.Lon})
	assert.InDelta(t, 0.1106, d, 0.0005)

	// Symmetric.
	a := Coordinate{Lat: 13.0837, Lon: 80.2760}
	assert.InDelta(t, Distance(a, intersection), Distance(intersection, a), 1e-12)
}

func TestIsNear(t *testing.T) {
	east := Coordinate{Lat: 13.0837, Lon: 80.2737}

	assert.True(t, IsNear(Coordinate{Lat: 13.0837, Lon: 80.2730}, east, DefaultThresholdKm))
	assert.False(t, IsNear(Coordinate{Lat: 13.0837, Lon: 80.2760}, east, DefaultThresholdKm))
	assert.True(t, IsNear(east, east, 0), "zero distance is within a zero threshold")
}

func TestIsNear_EllipsoidBoundary(t *testing.T) {
	east := Coordinate{Lat: 13.0837, Lon: 80.2737}
	// ~199.94m on a 6371km sphere but ~200.2m on the WGS-84 ellipsoid.
	ambulance := Coordinate{Lat: 13.0837, Lon: 80.275546}

	assert.InDelta(t, 0.2002, Distance(ambulance, east), 0.0001)
	assert.False(t, IsNear(ambulance, east, DefaultThresholdKm))

	lights, logs := Update(NewLights(intersection, DefaultSignalOffsetDeg), ambulance, false, DefaultThresholdKm)
	assert.Equal(t, Red, lights.Get(East).Status)
	assert.Contains(t, logs, "East signal is RED (ambulance still far).")
}

func TestNewLights(t *testing.T) {
	lights := NewLights(intersection, DefaultSignalOffsetDeg)

	for i, d := range Directions {
		assert.Equal(t, d, lights[i].Direction)
		assert.Equal(t, Red, lights[i].Status)
	}
	assert.InDelta(t, 13.0847, lights.Get(North).Location.Lat, 1e-9)
	assert.InDelta(t, 13.0827, lights.Get(South).Location.Lat, 1e-9)
	assert.InDelta(t, 80.2737, lights.Get(East).Location.Lon, 1e-9)
	assert.InDelta(t, 80.2717, lights.Get(West).Location.Lon, 1e-9)
}

func TestUpdate_EastGreenWhenNear(t *testing.T) {
	lights := NewLights(intersection, DefaultSignalOffsetDeg)

	updated, logs := Update(lights, Coordinate{Lat: 13.0837, Lon: 80.2730}, false, DefaultThresholdKm)

	assert.Equal(t, Green, updated.Get(East).Status)
	assert.Equal(t, []string{
		"North signal set to RED.",
		"South signal set to RED.",
		"East signal set to GREEN (ambulance approaching).",
		"West signal set to RED.",
	}, logs)
}

func TestUpdate_EastRedWhenFar(t *testing.T) {
	lights := NewLights(intersection, DefaultSignalOffsetDeg)

	updated, logs := Update(lights, Coordinate{Lat: 13.0837, Lon: 80.2760}, false, DefaultThresholdKm)

	assert.Equal(t, Red, updated.Get(East).Status)
	assert.Contains(t, logs, "East signal is RED (ambulance still far).")
	assert.Len(t, logs, 4)
}

func TestUpdate_EastRedAfterCrossing(t *testing.T) {
	lights := NewLights(intersection, DefaultSignalOffsetDeg)
	east := lights.Get(East).Location

	updated, logs := Update(lights, east, true, DefaultThresholdKm)

	assert.Equal(t, Red, updated.Get(East).Status)
	assert.Equal(t, []string{
		"North signal set to RED.",
		"South signal set to RED.",
		"West signal set to RED.",
	}, logs)
}

func TestUpdate_OtherDirectionsAlwaysRed(t *testing.T) {
	lights := NewLights(intersection, DefaultSignalOffsetDeg)
	// Force a stale green on every light to check nothing carries over.
	for i := range lights {
		lights[i].Status = Green
	}

	positions := []Coordinate{
		intersection,
		lights.Get(North).Location,
		lights.Get(South).Location,
		lights.Get(West).Location,
		{Lat: 0, Lon: 0},
	}
	for _, pos := range positions {
		for _, crossed := range []bool{false, true} {
			updated, _ := Update(lights, pos, crossed, DefaultThresholdKm)
			for _, d := range []Direction{North, South, West} {
				assert.Equal(t, Red, updated.Get(d).Status, "%s at %s crossed=%v", d, pos, crossed)
			}
			assert.LessOrEqual(t, len(updated.Green()), 1)
		}
	}
}

func TestUpdate_DoesNotModifyInput(t *testing.T) {
	lights := NewLights(intersection, DefaultSignalOffsetDeg)

	updated, _ := Update(lights, Coordinate{Lat: 13.0837, Lon: 80.2737}, false, DefaultThresholdKm)

	assert.Equal(t, Green, updated.Get(East).Status)
	assert.Equal(t, Red, lights.Get(East).Status)
}

func TestSignalJSON(t *testing.T) {
	s := Signal{Direction: East, Location: Coordinate{Lat: 1, Lon: 2}, Status: Green}

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"direction":"East","location":{"lat":1,"lon":2},"status":"Green"}`, string(data))

	var decoded Signal
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, s, decoded)

	assert.Error(t, json.Unmarshal([]byte(`{"direction":"Up"}`), &decoded))
}
