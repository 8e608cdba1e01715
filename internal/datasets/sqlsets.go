package datasets

import (
	"io"
	"math/rand/v2"
	"time"

	"pkg.jsn.cam/synthgen/pkg/defect"
	"pkg.jsn.cam/synthgen/pkg/field"
	"pkg.jsn.cam/synthgen/pkg/record"
	"pkg.jsn.cam/synthgen/pkg/sink"
)

// sqlValueDefect is the value damage of the SQL datasets: a NULL, an N/A
// token, or an eight digit integer regardless of the column's scale.
var sqlValueDefect = defect.OneOf{Strategies: []defect.Strategy{
	defect.Missing{},
	defect.WrongType{Tokens: []string{"N/A"}},
	defect.HardRange{Low: 9999999, High: 99999999},
}}

// sqlDateDefect is the date damage of the SQL datasets.
var sqlDateDefect = defect.MalformedDate{Forms: []defect.DateForm{
	defect.FormNullToken,
	defect.FormInvalidToken,
	defect.FormYearDayMonth,
	defect.FormLoose,
}}

var sqlStart = field.Day(2010, time.January, 1)

type sqlColumns struct {
	rate float64
}

func (c sqlColumns) decimal(name string, low, high float64) record.Column {
	return record.Col(field.FloatRange(name, low, high, 2), "FLOAT", defect.Single(c.rate, sqlValueDefect))
}

func (c sqlColumns) integer(name string, low, high int64) record.Column {
	return record.Col(field.IntRange(name, low, high), "INT", defect.Single(c.rate, sqlValueDefect))
}

func (c sqlColumns) text(name string, choices []string, tokens ...string) record.Column {
	return polluted(name, choices, tokens...)
}

// nullable is text whose only pollution is SQL NULL.
func (c sqlColumns) nullable(name string, choices ...string) record.Column {
	rate := 1 / float64(len(choices)+1)
	return record.Col(field.OneOf(name, choices...), "TEXT", defect.Single(rate, defect.Missing{}))
}

// sqlBatch is the shared state of the SQL datasets: every well id times a
// fixed number of records.
type sqlBatch struct {
	base
	ids  []string
	grid grid
}

func (b *sqlBatch) setup(r *rand.Rand, p Params, s *record.Schema) {
	b.init(r, s)
	b.ids = SQLWellIDs(p.SQL.Wells)
	b.grid = newGrid(len(b.ids), p.SQL.RecordsPerWell)
}

func (b *sqlBatch) nextID() (string, bool) {
	w, _, ok := b.grid.next()
	if !ok {
		return "", false
	}
	return b.ids[w], true
}

func (b *sqlBatch) Count() int64        { return b.grid.total() }
func (b *sqlBatch) Format() sink.Format { return sink.FormatSQL }

// WellboreSQL is the wellbore_data insert file.
type WellboreSQL struct {
	sqlBatch
}

func NewWellboreSQL() Generator { return &WellboreSQL{} }

func WellboreSQLSchema(p SQLParams) (*record.Schema, error) {
	c := sqlColumns{rate: p.ErrorRate}
	return record.NewSchema("wellbore_data",
		record.Col(field.Text("well_id"), "TEXT", defect.None()),
		record.Col(field.DateRange("date", sqlStart, sqlStart.AddDate(0, 0, 365)), "DATE", defect.Single(p.ErrorRate, sqlDateDefect)),
		c.decimal("measured_depth_m", 100, 5000),
		c.decimal("mud_weight_ppg", 8.5, 12.0),
		c.decimal("rop_m_per_hr", 5, 30),
		c.decimal("borehole_diameter_in", 8.5, 12.25),
		c.text("bit_type", []string{"PDC", "Roller Cone", "Diamond"}, "ERROR"),
		c.decimal("pump_pressure_psi", 500, 5000),
		c.integer("rpm", 50, 200),
		c.decimal("torque_ft_lbs", 100, 10000),
		c.decimal("standpipe_pressure", 500, 5000),
		c.decimal("fluid_loss_rate", 0, 50),
		c.decimal("direction_azimuth_deg", 0, 360),
		c.decimal("inclination_deg", 0, 90),
		c.decimal("formation_pressure_psi", 1000, 5000),
		c.decimal("wellhead_temperature", 20, 120),
		c.decimal("bit_wear_index", 0, 1),
		c.decimal("drill_time_hours", 0, 100),
		c.decimal("block_height_m", 0, 50),
		c.nullable("well_status", "Active", "Inactive", "Under Maintenance"),
		c.nullable("well_location", "Dubai", "Texas", "Nigeria", "Calgary", "Mzarabani"),
	)
}

func (g *WellboreSQL) Init(r *rand.Rand, p Params) error {
	s, err := WellboreSQLSchema(p.SQL)
	if err != nil {
		return err
	}
	g.setup(r, p, s)
	return nil
}

func (g *WellboreSQL) Next() (*record.Record, error) {
	if err := g.ready(); err != nil {
		return nil, err
	}
	id, ok := g.nextID()
	if !ok {
		return nil, io.EOF
	}
	return g.asm.Start().Put("well_id", field.String(id)).SampleRest().Finish()
}

func (g *WellboreSQL) Description() string { return "Wellbore CREATE TABLE and INSERT statements" }
func (g *WellboreSQL) FileName() string    { return "wellbore_data.sql" }

// GeophysicalSQL is the geophysical_logs insert file.
type GeophysicalSQL struct {
	sqlBatch
}

func NewGeophysicalSQL() Generator { return &GeophysicalSQL{} }

func GeophysicalSQLSchema(p SQLParams) (*record.Schema, error) {
	c := sqlColumns{rate: p.ErrorRate}
	return record.NewSchema("geophysical_logs",
		record.Col(field.Text("well_id"), "TEXT", defect.None()),
		c.decimal("depth_m", 0, 5000),
		c.decimal("gamma_ray_api", 20, 150),
		c.decimal("resistivity_ohm_m", 0.5, 200),
		c.decimal("sonic_dt_us_ft", 50, 120),
		c.decimal("density_g_cc", 1.9, 2.7),
		c.decimal("caliper_in", 8.5, 16),
		c.decimal("neutron_porosity", 0.05, 0.35),
		c.decimal("bulk_modulus_gpa", 10, 50),
		c.decimal("shear_modulus_gpa", 5, 30),
		c.decimal("poisson_ratio", 0.1, 0.4),
		c.decimal("velocity_m_s", 1000, 5000),
		c.decimal("shale_volume", 0.1, 0.8),
		c.decimal("clay_content", 0.1, 0.5),
		c.decimal("water_saturation", 0.2, 1.0),
		c.decimal("hydrocarbon_saturation", 0.2, 0.8),
		c.decimal("permeability_md", 0.1, 1000),
		c.text("lithology", []string{"Sandstone", "Shale", "Limestone", "Dolomite"}, "INVALID"),
		c.text("wavelet_type", []string{"Ricker", "Ormsby", "Klauder"}, "INVALID"),
		c.text("survey_name", []string{"SurveyA", "SurveyB", "SurveyC"}, "ERROR"),
	)
}

func (g *GeophysicalSQL) Init(r *rand.Rand, p Params) error {
	s, err := GeophysicalSQLSchema(p.SQL)
	if err != nil {
		return err
	}
	g.setup(r, p, s)
	return nil
}

func (g *GeophysicalSQL) Next() (*record.Record, error) {
	if err := g.ready(); err != nil {
		return nil, err
	}
	id, ok := g.nextID()
	if !ok {
		return nil, io.EOF
	}
	return g.asm.Start().Put("well_id", field.String(id)).SampleRest().Finish()
}

func (g *GeophysicalSQL) Description() string { return "Geophysical log CREATE TABLE and INSERT statements" }
func (g *GeophysicalSQL) FileName() string    { return "geophysical_logs.sql" }
