// Package routefile reads ambulance routes from CSV files.
//
// The first row is a header naming at least a latitude column (lat or
// latitude) and a longitude column (lon, lng or longitude). Other columns
// are ignored. Lines starting with # are skipped.
package routefile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"ambulance-signal-server/signals"
)

var ErrTooFewPoints = errors.New("route needs at least two points")

var (
	latColumns = []string{"lat", "latitude"}
	lonColumns = []string{"lon", "lng", "longitude"}
)

func Load(path string) ([]signals.Coordinate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open route file: %w", err)
	}
	defer f.Close()

	route, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return route, nil
}

func Parse(src io.Reader) ([]signals.Coordinate, error) {
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1
	r.Comment = '#'
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, ErrTooFewPoints
	}
	if err != nil {
		return nil, fmt.Errorf("read route header: %w", err)
	}
	h := headerIndex(header)

	latIdx, ok := findColumn(h, latColumns)
	if !ok {
		return nil, fmt.Errorf("route header has no latitude column (want one of %v)", latColumns)
	}
	lonIdx, ok := findColumn(h, lonColumns)
	if !ok {
		return nil, fmt.Errorf("route header has no longitude column (want one of %v)", lonColumns)
	}

	var route []signals.Coordinate
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read route row: %w", err)
		}
		line, _ := r.FieldPos(0)

		if latIdx >= len(row) || lonIdx >= len(row) {
			return nil, fmt.Errorf("line %d: expected at least %d fields, got %d", line, max(latIdx, lonIdx)+1, len(row))
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(row[latIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad latitude %q", line, row[latIdx])
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(row[lonIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad longitude %q", line, row[lonIdx])
		}

		route = append(route, signals.Coordinate{Lat: lat, Lon: lon})
	}

	if len(route) < 2 {
		return nil, ErrTooFewPoints
	}
	return route, nil
}

func headerIndex(hdr []string) map[string]int {
	m := make(map[string]int, len(hdr))
	for i, k := range hdr {
		m[strings.ToLower(strings.TrimSpace(k))] = i
	}
	return m
}

func findColumn(h map[string]int, names []string) (int, bool) {
	for _, n := range names {
		if i, ok := h[n]; ok {
			return i, true
		}
	}
	return 0, false
}
