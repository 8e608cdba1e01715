package datasets

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"pkg.jsn.cam/synthgen/pkg/field"
	"pkg.jsn.cam/synthgen/pkg/sample"
)

// Well is a drilled well, fixed for the whole run.
type Well struct {
	ID         string
	Latitude   float64
	Longitude  float64
	TotalDepth int64
}

// NewWells returns n wells numbered from WELL-1000, clustered around the Gulf
// Coast with total depths between 1500 and 8000 m.
func NewWells(r *rand.Rand, n int) []Well {
	wells := make([]Well, n)
	for i := range wells {
		wells[i] = Well{
			ID:         fmt.Sprintf("WELL-%d", 1000+i),
			Latitude:   field.Round(29.0+sample.Uniform(r, -1, 1), 6),
			Longitude:  field.Round(-95.0+sample.Uniform(r, -1, 1), 6),
			TotalDepth: sample.IntBetween(r, 1500, 8000),
		}
	}
	return wells
}

// SQLWellIDs returns the identifiers "WELL 1" through "WELL n-1".
func SQLWellIDs(n int) []string {
	if n <= 1 {
		return nil
	}
	ids := make([]string, 0, n-1)
	for i := 1; i < n; i++ {
		ids = append(ids, fmt.Sprintf("WELL %d", i))
	}
	return ids
}

// SeismicLine is a surveyed acquisition line.
type SeismicLine struct {
	ID string
}

// NewSeismicLines returns LINE-1 through LINE-n.
func NewSeismicLines(n int) []SeismicLine {
	lines := make([]SeismicLine, n)
	for i := range lines {
		lines[i] = SeismicLine{ID: fmt.Sprintf("LINE-%d", i+1)}
	}
	return lines
}

// Vehicle is the car a telemetry stream reports for.
type Vehicle struct {
	Model string
}

// Place is a city hosting wells.
type Place struct {
	City    string
	Country string
}

// Code is the upper-cased three letter prefix used in well identifiers.
func (p Place) Code() string {
	code := p.City
	if len(code) > 3 {
		code = code[:3]
	}
	return strings.ToUpper(code)
}

// Places returns the oil and gas hubs of the location-tagged dataset.
func Places() []Place {
	return []Place{
		{City: "Houston", Country: "USA"},
		{City: "Calgary", Country: "Canada"},
		{City: "Aberdeen", Country: "UK"},
		{City: "Dubai", Country: "UAE"},
		{City: "Luanda", Country: "Angola"},
		{City: "Perth", Country: "Australia"},
		{City: "Stavanger", Country: "Norway"},
		{City: "Rio de Janeiro", Country: "Brazil"},
		{City: "Doha", Country: "Qatar"},
		{City: "Jakarta", Country: "Indonesia"},
	}
}
