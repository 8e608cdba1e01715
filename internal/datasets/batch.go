package datasets

import (
	"io"
	"math/rand/v2"
	"time"

	"pkg.jsn.cam/synthgen/pkg/defect"
	"pkg.jsn.cam/synthgen/pkg/field"
	"pkg.jsn.cam/synthgen/pkg/record"
	"pkg.jsn.cam/synthgen/pkg/sample"
	"pkg.jsn.cam/synthgen/pkg/sink"
)

// WellConsumer is implemented by generators that emit records per well. A
// catalog handed over before Init is used instead of a freshly drawn one, so
// several datasets of a run can describe the same wells.
type WellConsumer interface {
	UseWells(wells []Well)
}

// batchPolicies is the priority chain of the CSV batches: a value goes
// missing, or else turns into a type error, or else becomes an outlier.
// Non-numeric values can only go missing.
type batchPolicies struct {
	numeric defect.Policy
	text    defect.Policy
}

func newBatchPolicies(p BatchParams) batchPolicies {
	return batchPolicies{
		numeric: defect.FirstHit(
			defect.At(p.MissingRate, defect.Missing{}),
			defect.At(p.WrongTypeRate, defect.WrongType{}),
			defect.At(p.OutlierRate, defect.DefaultScale),
		),
		text: defect.FirstHit(
			defect.At(p.MissingRate, defect.Missing{}),
		),
	}
}

func (bp batchPolicies) num(d field.Descriptor) record.Column { return record.Col(d, "", bp.numeric) }
func (bp batchPolicies) str(d field.Descriptor) record.Column { return record.Col(d, "", bp.text) }

func plain(d field.Descriptor) record.Column { return record.Col(d, "", defect.None()) }

// wellBatch is the shared state of the per-well CSV datasets.
type wellBatch struct {
	base
	wells []Well
	grid  grid
}

func (b *wellBatch) UseWells(wells []Well) { b.wells = wells }

func (b *wellBatch) setup(r *rand.Rand, p Params, s *record.Schema) {
	if b.wells == nil {
		b.wells = NewWells(r, p.Batch.Wells)
	}
	b.init(r, s)
	b.grid = newGrid(len(b.wells), p.Batch.RecordsPerWell)
}

func (b *wellBatch) Count() int64        { return b.grid.total() }
func (b *wellBatch) Format() sink.Format { return sink.FormatCSV }

// day returns start advanced by n days.
func day(start time.Time, n int) field.Value {
	return field.Date(start.AddDate(0, 0, n), field.DateLayout)
}

// Wellbore is the daily drilling report of each well.
type Wellbore struct {
	wellBatch
	depth int64
}

func NewWellbore() Generator { return &Wellbore{} }

var wellboreStart = field.Day(2010, time.January, 1)

func WellboreSchema(p BatchParams) (*record.Schema, error) {
	bp := newBatchPolicies(p)
	return record.NewSchema("wellbore",
		plain(field.Text("well_id")),
		plain(field.DateRange("date", wellboreStart, time.Time{})),
		bp.num(field.IntRange("measured_depth_m", 0, 8000)),
		bp.num(field.FloatRange("mud_weight_ppg", 8.5, 12.0, 2)),
		bp.num(field.FloatRange("rop_m_per_hr", 5, 30, 2)),
		bp.num(field.FloatRange("borehole_diameter_in", 8.5, 12.25, 2)),
		bp.num(field.FloatRange("fluid_loss_rate_ml_per_min", 0, 50, 2)),
		bp.num(field.FloatRange("pump_pressure_psi", 500, 5000, 2)),
		bp.str(field.OneOf("bit_type", "PDC", "Roller Cone", "Diamond Impregnated")),
		bp.str(field.OneOf("operator_name", "Schlumberger", "Halliburton", "Baker Hughes", "Nabors", "Weatherford")),
		bp.str(field.OneOf("rig_id", "RIG-1", "RIG-2", "RIG-3", "RIG-4", "RIG-5")),
		bp.str(field.OneOf("drilling_fluid_type", "OBM", "WBM", "SOBM")),
		bp.num(field.FloatRange("wellhead_pressure_psi", 1000, 3000, 2)),
		bp.num(field.FloatRange("formation_pressure_psi", 2000, 6000, 2)),
		bp.num(field.FloatRange("wob_kN", 10, 200, 2)),
		bp.num(field.FloatRange("rpm", 50, 200, 2)),
		bp.num(field.FloatRange("torque_ft_lbs", 100, 10000, 2)),
		bp.num(field.FloatRange("standpipe_pressure_psi", 500, 5000, 2)),
		bp.num(field.FloatRange("direction_azimuth_deg", 0, 360, 2)),
		bp.num(field.FloatRange("inclination_deg", 0, 90, 2)),
	)
}

func (g *Wellbore) Init(r *rand.Rand, p Params) error {
	s, err := WellboreSchema(p.Batch)
	if err != nil {
		return err
	}
	g.setup(r, p, s)
	return nil
}

// Next drills 5 to 20 m further each day until the well's total depth.
func (g *Wellbore) Next() (*record.Record, error) {
	if err := g.ready(); err != nil {
		return nil, err
	}
	w, i, ok := g.grid.next()
	if !ok {
		return nil, io.EOF
	}
	well := g.wells[w]
	if i == 0 {
		g.depth = 0
	}
	g.depth = min(g.depth+sample.IntBetween(g.asm.Rand(), 5, 20), well.TotalDepth)

	return g.asm.Start().
		Put("well_id", field.String(well.ID)).
		Put("date", day(wellboreStart, i)).
		Put("measured_depth_m", field.Int(g.depth)).
		SampleRest().
		Finish()
}

func (g *Wellbore) Description() string { return "Daily drilling reports per well" }
func (g *Wellbore) FileName() string    { return "wellbore_data.csv" }

// Geophysical is a well log sampled at evenly spaced depths down each well.
type Geophysical struct {
	wellBatch
	records int
}

func NewGeophysical() Generator { return &Geophysical{} }

func GeophysicalSchema(p BatchParams) (*record.Schema, error) {
	bp := newBatchPolicies(p)
	return record.NewSchema("geophysical",
		plain(field.Text("well_id")),
		bp.num(field.FloatRange("measured_depth_m", 0, 8000, 2)),
		bp.num(field.FloatRange("gamma_ray_api", 20, 150, 2)),
		bp.num(field.FloatRange("resistivity_ohm_m", 0.5, 200, 2)),
		bp.num(field.FloatRange("sonic_dt_us_ft", 50, 120, 2)),
		bp.num(field.FloatRange("density_g_cc", 1.9, 2.7, 3)),
		bp.num(field.FloatRange("neutron_porosity", 0.05, 0.35, 3)),
		bp.num(field.FloatRange("caliper_in", 8.5, 16, 2)),
		bp.num(field.FloatRange("photoelectric_factor", 1, 5, 2)),
		bp.num(field.FloatRange("shale_volume", 0.1, 0.8, 3)),
		bp.num(field.FloatRange("clay_content", 0.1, 0.5, 3)),
		bp.num(field.FloatRange("water_saturation", 0.2, 1.0, 3)),
		bp.num(field.FloatRange("hydrocarbon_saturation", 0.2, 0.8, 3)),
		bp.num(field.FloatRange("permeability_md", 0.1, 1000, 2)),
		bp.num(field.FloatRange("velocity_m_s", 2000, 5000, 2)),
		bp.num(field.FloatRange("acoustic_impedance", 5e6, 25e6, 2)),
		bp.num(field.FloatRange("formation_factor", 1, 5, 2)),
		bp.num(field.FloatRange("bulk_modulus_GPa", 10, 50, 2)),
		bp.num(field.FloatRange("shear_modulus_GPa", 5, 30, 2)),
		bp.num(field.FloatRange("poisson_ratio", 0.1, 0.4, 3)),
	)
}

func (g *Geophysical) Init(r *rand.Rand, p Params) error {
	s, err := GeophysicalSchema(p.Batch)
	if err != nil {
		return err
	}
	g.setup(r, p, s)
	g.records = p.Batch.RecordsPerWell
	return nil
}

// Next places the i-th sample at a random depth inside the i-th of equal
// intervals spanning the well.
func (g *Geophysical) Next() (*record.Record, error) {
	if err := g.ready(); err != nil {
		return nil, err
	}
	w, i, ok := g.grid.next()
	if !ok {
		return nil, io.EOF
	}
	well := g.wells[w]
	interval := float64(well.TotalDepth) / float64(g.records)
	depth := float64(i)*interval + sample.Uniform(g.asm.Rand(), 0, interval)

	return g.asm.Start().
		Put("well_id", field.String(well.ID)).
		Put("measured_depth_m", field.Float(depth, 2)).
		SampleRest().
		Finish()
}

func (g *Geophysical) Description() string { return "Geophysical well logs by depth" }
func (g *Geophysical) FileName() string    { return "geophysical_logs.csv" }

var (
	formations  = []string{"Sandstone_A", "Shale_B", "Limestone_C", "Dolomite_D"}
	lithologies = []string{"Sandstone", "Shale", "Limestone", "Dolomite"}
)

// Characterization describes the formations a well crosses.
type Characterization struct {
	wellBatch
}

func NewCharacterization() Generator { return &Characterization{} }

func CharacterizationSchema(p BatchParams) (*record.Schema, error) {
	bp := newBatchPolicies(p)
	return record.NewSchema("characterization",
		plain(field.Text("well_id")),
		bp.str(field.OneOf("formation_name", formations...)),
		bp.num(field.FloatRange("porosity_frac", 0.05, 0.25, 3)),
		bp.num(field.FloatRange("permeability_md", 0.1, 1000, 2)),
		bp.str(field.OneOf("lithology", lithologies...)),
		bp.num(field.FloatRange("grain_density_g_cc", 2.0, 2.7, 3)),
		bp.num(field.FloatRange("clay_volume_frac", 0.1, 0.5, 3)),
		bp.num(field.FloatRange("quartz_volume_frac", 0.2, 0.8, 3)),
		bp.num(field.FloatRange("calcite_volume_frac", 0.0, 0.6, 3)),
		bp.num(field.FloatRange("dolomite_volume_frac", 0.0, 0.4, 3)),
		bp.num(field.FloatRange("formation_thickness_m", 10, 100, 2)),
		bp.num(field.FloatRange("net_pay_m", 5, 50, 2)),
		bp.num(field.FloatRange("capillary_pressure_psi", 100, 3000, 2)),
		bp.num(field.FloatRange("fluid_contact_depth_m", 1500, 3500, 2)),
		bp.num(field.FloatRange("reservoir_temperature_C", 50, 150, 2)),
		bp.num(field.FloatRange("reservoir_pressure_psi", 2000, 6000, 2)),
		bp.num(field.FloatRange("oil_saturation_frac", 0.2, 0.8, 3)),
		bp.num(field.FloatRange("gas_saturation_frac", 0.0, 0.5, 3)),
		bp.num(field.FloatRange("water_saturation_frac", 0.2, 1.0, 3)),
		bp.num(field.FloatRange("fracture_density", 0, 10, 2)),
	)
}

func (g *Characterization) Init(r *rand.Rand, p Params) error {
	s, err := CharacterizationSchema(p.Batch)
	if err != nil {
		return err
	}
	g.setup(r, p, s)
	return nil
}

// Next derives the lithology from the sampled formation.
func (g *Characterization) Next() (*record.Record, error) {
	if err := g.ready(); err != nil {
		return nil, err
	}
	w, _, ok := g.grid.next()
	if !ok {
		return nil, io.EOF
	}
	k := g.asm.Rand().IntN(len(formations))

	return g.asm.Start().
		Put("well_id", field.String(g.wells[w].ID)).
		Put("formation_name", field.String(formations[k])).
		Sample("porosity_frac", "permeability_md").
		Put("lithology", field.String(lithologies[k])).
		SampleRest().
		Finish()
}

func (g *Characterization) Description() string { return "Reservoir characterization per formation" }
func (g *Characterization) FileName() string    { return "well_characterization.csv" }

// Seismic records shot points along survey lines.
type Seismic struct {
	base
	lines []SeismicLine
	grid  grid
}

func NewSeismic() Generator { return &Seismic{} }

func SeismicSchema(p BatchParams) (*record.Schema, error) {
	bp := newBatchPolicies(p)
	return record.NewSchema("seismic",
		bp.str(field.Text("seismic_line_id")),
		bp.num(field.IntRange("shot_point", 1, int64(max(p.RecordsPerWell, 1)))),
		bp.num(field.FloatRange("twt_ms", 1000, 5000, 2)),
		bp.num(field.FloatRange("amplitude", -1000, 1000, 2)),
		bp.num(field.FloatRange("frequency_hz", 10, 60, 2)),
		bp.num(field.FloatRange("reflection_coefficient", -1, 1, 4)),
		bp.num(field.FloatRange("acoustic_impedance", 5e6, 25e6, 2)),
		bp.num(field.FloatRange("velocity_m_s", 1500, 5000, 2)),
		bp.num(field.FloatRange("quality_factor", 10, 100, 2)),
		bp.num(field.FloatRange("offset_m", 100, 10000, 2)),
		bp.num(field.FloatRange("azimuth_deg", 0, 360, 2)),
		bp.num(field.FloatRange("inclination_deg", 0, 30, 2)),
		bp.str(field.OneOf("wavelet_type", "Ricker", "Ormsby", "Klauder")),
		bp.num(field.FloatRange("gain_db", -10, 10, 2)),
		bp.num(field.FloatRange("noise_level_db", -20, 20, 2)),
		bp.str(field.OneOf("processing_version", "v1", "v2", "v3")),
		bp.str(field.OneOf("survey_name", "Survey_A", "Survey_B", "Survey_C")),
		bp.num(field.IntRange("inline_number", 1000, 2000)),
		bp.num(field.IntRange("crossline_number", 2000, 3000)),
		bp.num(field.FloatRange("pol_frequency_hz", 10, 50, 2)),
	)
}

// Init lays out one survey line per configured well.
func (g *Seismic) Init(r *rand.Rand, p Params) error {
	s, err := SeismicSchema(p.Batch)
	if err != nil {
		return err
	}
	g.init(r, s)
	g.lines = NewSeismicLines(p.Batch.Wells)
	g.grid = newGrid(len(g.lines), p.Batch.RecordsPerWell)
	return nil
}

func (g *Seismic) Next() (*record.Record, error) {
	if err := g.ready(); err != nil {
		return nil, err
	}
	l, i, ok := g.grid.next()
	if !ok {
		return nil, io.EOF
	}
	return g.asm.Start().
		Put("seismic_line_id", field.String(g.lines[l].ID)).
		Put("shot_point", field.Int(int64(i+1))).
		SampleRest().
		Finish()
}

func (g *Seismic) Count() int64        { return g.grid.total() }
func (g *Seismic) Description() string { return "Seismic shot points per survey line" }
func (g *Seismic) Format() sink.Format { return sink.FormatCSV }
func (g *Seismic) FileName() string    { return "seismic_data.csv" }

// Production is the daily production report of each well.
type Production struct {
	wellBatch
}

func NewProduction() Generator { return &Production{} }

var productionStart = field.Day(2021, time.January, 1)

func ProductionSchema(p BatchParams) (*record.Schema, error) {
	bp := newBatchPolicies(p)
	return record.NewSchema("production",
		plain(field.Text("well_id")),
		bp.str(field.DateRange("date", productionStart, time.Time{})),
		bp.num(field.FloatRange("oil_rate_bopd", 500, 3000, 1)),
		bp.num(field.FloatRange("gas_rate_mscfd", 1000, 10000, 1)),
		bp.num(field.FloatRange("water_cut_frac", 0.1, 0.5, 2)),
		bp.num(field.FloatRange("tubing_pressure_psi", 1000, 5000, 2)),
		bp.num(field.FloatRange("casing_pressure_psi", 500, 3000, 2)),
		bp.num(field.FloatRange("choke_size_64ths", 8, 64, 1)),
		bp.num(field.FloatRange("gorp_factor", 0.5, 2.0, 3)),
		bp.num(field.FloatRange("oil_gravity_api", 20, 40, 1)),
		bp.num(field.FloatRange("produced_water_salinity_ppm", 10000, 50000, 1)),
		bp.num(field.FloatRange("downhole_temperature_C", 50, 120, 2)),
		bp.num(field.FloatRange("downhole_pressure_psi", 2000, 6000, 2)),
		bp.num(field.FloatRange("CO2_fraction", 0.0, 0.05, 3)),
		bp.num(field.FloatRange("H2S_fraction", 0.0, 0.01, 3)),
		bp.num(field.FloatRange("sand_production_rate_lbs_day", 0, 100, 2)),
		bp.num(field.FloatRange("ESP_current_amp", 5, 100, 2)),
		bp.num(field.FloatRange("ESP_voltage_volts", 100, 600, 2)),
		bp.num(field.FloatRange("pump_efficiency_frac", 0.5, 1.0, 3)),
		bp.num(field.FloatRange("downtime_hours", 0, 24, 2)),
	)
}

func (g *Production) Init(r *rand.Rand, p Params) error {
	s, err := ProductionSchema(p.Batch)
	if err != nil {
		return err
	}
	g.setup(r, p, s)
	return nil
}

func (g *Production) Next() (*record.Record, error) {
	if err := g.ready(); err != nil {
		return nil, err
	}
	w, i, ok := g.grid.next()
	if !ok {
		return nil, io.EOF
	}
	return g.asm.Start().
		Put("well_id", field.String(g.wells[w].ID)).
		Put("date", day(productionStart, i)).
		SampleRest().
		Finish()
}

func (g *Production) Description() string { return "Daily production per well" }
func (g *Production) FileName() string    { return "production_data.csv" }
