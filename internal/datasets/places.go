package datasets

import (
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"pkg.jsn.cam/synthgen/pkg/defect"
	"pkg.jsn.cam/synthgen/pkg/field"
	"pkg.jsn.cam/synthgen/pkg/record"
	"pkg.jsn.cam/synthgen/pkg/sample"
	"pkg.jsn.cam/synthgen/pkg/sink"
)

// polluted declares a categorical column whose choice set is polluted by
// tokens, each as likely as any genuine choice.
func polluted(name string, choices []string, tokens ...string) record.Column {
	rate := float64(len(tokens)) / float64(len(choices)+len(tokens))
	return record.Col(field.OneOf(name, choices...), "TEXT", defect.Single(rate, defect.Categorical{Tokens: tokens}))
}

var placesDateDefect = defect.MalformedDate{Forms: []defect.DateForm{
	defect.FormMonthFirst,
	defect.FormDayFirst,
	defect.FormLiteral,
	defect.FormNullToken,
}}

// PlacesWells tags wells with the city and country they are drilled in.
type PlacesWells struct {
	base
	places []Place
	wells  []int // per place
	place  int
	well   int
	total  int64
}

func NewPlacesWells() Generator { return &PlacesWells{} }

func PlacesSchema(p PlacesParams) (*record.Schema, error) {
	dated := func(name string, from, to int) record.Column {
		d := field.DateRange(name, field.Day(from, time.January, 1), field.Day(to, time.December, 31))
		return record.Col(d, "DATE", defect.Single(p.DateErrorRate, placesDateDefect))
	}

	pressure := field.IntRange("PRESSURE_PSI", 1000, 15000)
	pressure.Unit = " PSI"
	pressureDefect := defect.OneOf{Strategies: []defect.Strategy{
		defect.WrongType{Tokens: []string{"NULL"}},
		defect.WrongType{Tokens: []string{"ERROR"}},
		defect.WrongType{Tokens: []string{"N/A"}},
		defect.HardRange{Low: 99999, High: 9999999},
	}}

	return record.NewSchema("places",
		plain(field.Text("CITY")),
		plain(field.Text("COUNTRY")),
		plain(field.Text("WELL_ID")),
		plain(field.IntRange("DEPTH_FT", 100, 15000)),
		record.Col(pressure, "TEXT", defect.Single(p.PressureErrorRate, pressureDefect)),
		plain(field.IntRange("TEMPERATURE_F", 50, 350)),
		dated("DATE_LOGGED", 2015, 2023),
		polluted("STATUS", []string{"Active", "Inactive", "Maintenance", "Abandoned"}, "NULL", "ERROR"),
		plain(field.FloatRange("LATITUDE", -90, 90, 6)),
		plain(field.FloatRange("LONGITUDE", -180, 180, 6)),
		polluted("OPERATOR", []string{"Schlumberger", "Halliburton", "Baker Hughes", "Weatherford"}, "UNKNOWN", "ERROR"),
		polluted("FORMATION", []string{"Sandstone", "Shale", "Limestone", "Dolomite", "Granite"}, "UNKNOWN"),
		plain(field.FloatRange("POROSITY", 0.05, 0.3, 5)),
		plain(field.FloatRange("PERMEABILITY", 0.01, 1000, 6)),
		polluted("MUD_WEIGHT_PPG", []string{"8.5", "9.0", "10.0"}, "ERROR", "N/A", "NULL"),
		plain(field.FloatRange("CASING_SIZE_IN", 4.5, 20.0, 2)),
		polluted("CEMENT_TYPE", []string{"Type I", "Type II", "Type III", "Type IV"}, "UNKNOWN"),
		dated("SPUD_DATE", 2000, 2015),
		dated("COMPLETION_DATE", 2015, 2023),
		dated("LAST_INSPECTION", 2020, 2023),
		plain(field.IntRange("PRODUCTION_RATE_BBL", 0, 5000)),
		plain(field.IntRange("WATER_CUT_PERCENT", 0, 100)),
	)
}

// Init draws how many wells each place hosts.
func (g *PlacesWells) Init(r *rand.Rand, p Params) error {
	s, err := PlacesSchema(p.Places)
	if err != nil {
		return err
	}
	g.init(r, s)
	g.places = Places()
	g.wells = make([]int, len(g.places))
	g.place, g.well, g.total = 0, 0, 0
	for i := range g.places {
		n := sample.IntBetween(r, int64(p.Places.MinWellsPerPlace), int64(p.Places.MaxWellsPerPlace))
		g.wells[i] = int(n)
		g.total += n
	}
	return nil
}

func (g *PlacesWells) Next() (*record.Record, error) {
	if err := g.ready(); err != nil {
		return nil, err
	}
	for g.place < len(g.places) && g.well >= g.wells[g.place] {
		g.place++
		g.well = 0
	}
	if g.place >= len(g.places) {
		return nil, io.EOF
	}
	place := g.places[g.place]
	g.well++

	id := fmt.Sprintf("WELL-%d-%s", sample.IntBetween(g.asm.Rand(), 1000, 9999), place.Code())
	return g.asm.Start().
		Put("CITY", field.String(place.City)).
		Put("COUNTRY", field.String(place.Country)).
		Put("WELL_ID", field.String(id)).
		SampleRest().
		Finish()
}

func (g *PlacesWells) Count() int64        { return g.total }
func (g *PlacesWells) Description() string { return "Wellbore records tagged with city and country" }
func (g *PlacesWells) Format() sink.Format { return sink.FormatCSV }
func (g *PlacesWells) FileName() string    { return "wellbore_data_with_places.csv" }
