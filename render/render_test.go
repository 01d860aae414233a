package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ambulance-signal-server/signals"
	"ambulance-signal-server/simulation"
)

func TestBuildMapView(t *testing.T) {
	s := simulation.DefaultScenario()
	frames := simulation.Simulate(s, true)

	view := BuildMapView(s, frames[2])

	assert.Equal(t, frames[2].Ambulance, view.Center)
	assert.Equal(t, DEFAULT_ZOOM, view.Zoom)
	require.Len(t, view.Roads, 2)
	assert.Equal(t, "gray", view.Roads[0].Color)
	assert.InDelta(t, 13.0857, view.Roads[0].Points[0].Lat, 1e-9)
	assert.InDelta(t, 80.2707, view.Roads[1].Points[1].Lon, 1e-9)
	assert.Equal(t, s.Route, view.Route.Points)
	assert.Equal(t, "Ambulance", view.Ambulance.Popup)

	require.Len(t, view.Signals, 4)
	east := view.Signals[signals.East]
	assert.Equal(t, "green", east.Color)
	assert.Equal(t, "East Signal: Green", east.Popup)
	assert.Equal(t, "traffic-light", east.Icon)
	assert.Equal(t, "North Signal: Red", view.Signals[signals.North].Popup)
	assert.Equal(t, "red", view.Signals[signals.North].Color)
}

func TestTemplate(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Template.ExecuteTemplate(&buf, "index", PageData{Title: "Ambulance <demo>", AutoRun: true, WSPath: "/ws/simulate"}))

	out := buf.String()
	assert.Contains(t, out, "AI Agent Dashboard")
	assert.Contains(t, out, "Ambulance &lt;demo&gt;")
	assert.Contains(t, out, "checked")

	buf.Reset()
	require.NoError(t, Template.ExecuteTemplate(&buf, "index", PageData{Title: "x", AutoRun: false, WSPath: "/ws"}))
	assert.NotContains(t, buf.String(), "checked>")
}
