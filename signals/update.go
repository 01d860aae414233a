package signals

import "fmt"

// Update recomputes every signal for the given ambulance position and
// returns the new lights together with one reasoning line per decision.
//
// Only East, the approach the ambulance travels on, can turn green, and only
// while the ambulance has not yet crossed the intersection. East after the
// crossing is forced red without a log line.
func Update(lights Lights, ambulance Coordinate, hasCrossed bool, thresholdKm float64) (Lights, []string) {
	logs := make([]string, 0, len(lights))

	for i, light := range lights {
		if light.Direction == East && !hasCrossed {
			if IsNear(ambulance, light.Location, thresholdKm) {
				lights[i].Status = Green
				logs = append(logs, "East signal set to GREEN (ambulance approaching).")
			} else {
				lights[i].Status = Red
				logs = append(logs, "East signal is RED (ambulance still far).")
			}
			continue
		}

		lights[i].Status = Red
		if light.Direction != East {
			logs = append(logs, fmt.Sprintf("%s signal set to RED.", light.Direction))
		}
	}

	return lights, logs
}
