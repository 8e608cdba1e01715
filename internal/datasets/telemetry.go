package datasets

import (
	"math/rand/v2"
	"time"

	"pkg.jsn.cam/synthgen/pkg/defect"
	"pkg.jsn.cam/synthgen/pkg/field"
	"pkg.jsn.cam/synthgen/pkg/record"
	"pkg.jsn.cam/synthgen/pkg/sink"
)

// TimestampLayout renders telemetry timestamps in UTC with microseconds.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// Telemetry is the unbounded vehicle sensor stream.
type Telemetry struct {
	base
	vehicle Vehicle

	// Clock stamps records. Defaults to time.Now.
	Clock func() time.Time
}

func NewTelemetry() Generator {
	return &Telemetry{}
}

// TelemetrySchema declares the telemetry record. Tire pressures and location
// nest under their common prefix when written as JSON.
func TelemetrySchema(errorRate float64) (*record.Schema, error) {
	none := defect.None()
	return record.NewSchema("telemetry",
		record.Col(field.Text("timestamp"), "TEXT", none),
		record.Col(field.Text("vehicle_model"), "TEXT", none),
		record.Col(field.IntRange("speed_kmh", 0, 250), "INT", defect.Single(errorRate, defect.LargeOffset{Precision: 2})),
		record.Col(field.IntRange("rpm", 600, 8000), "INT", defect.Single(errorRate, defect.DefaultHardRange)),
		record.Col(field.FloatRange("throttle_position_percent", 0, 100, 2), "FLOAT", defect.Single(errorRate, defect.LargeOffset{Precision: 2})),
		record.Col(field.FloatRange("brake_pedal_pressure_percent", 0, 100, 2), "FLOAT", none),
		record.Col(field.FloatRange("steering_angle_degrees", -90, 90, 2), "FLOAT", none),
		record.Col(field.Flag("seatbelt_fastened"), "BOOLEAN", none),
		record.Col(field.FloatRange("engine_temperature_celsius", 70, 120, 2), "FLOAT", none),
		record.Col(field.FloatRange("oil_level_liters", 2.5, 5.0, 2), "FLOAT", none),
		record.Col(field.FloatRange("tire_pressure_psi.front_left", 28, 35, 2), "FLOAT", none),
		record.Col(field.FloatRange("tire_pressure_psi.front_right", 28, 35, 2), "FLOAT", none),
		record.Col(field.FloatRange("tire_pressure_psi.rear_left", 28, 35, 2), "FLOAT", none),
		record.Col(field.FloatRange("tire_pressure_psi.rear_right", 28, 35, 2), "FLOAT", none),
		record.Col(field.FloatRange("battery_voltage", 12.0, 14.5, 2), "FLOAT", none),
		record.Col(field.FloatRange("fuel_level_percent", 0, 100, 2), "FLOAT", none),
		record.Col(field.FloatRange("location.latitude", -90, 90, 6), "FLOAT", none),
		record.Col(field.FloatRange("location.longitude", -180, 180, 6), "FLOAT", none),
		record.Col(field.OneOf("gear_position", "P", "R", "N", "D", "S"), "TEXT", none),
		record.Col(field.FloatRange("ambient_temperature_celsius", -10, 40, 2), "FLOAT", none),
		record.Col(field.IntRange("odometer_km", 0, 300000), "INT", none),
	)
}

func (t *Telemetry) Init(r *rand.Rand, p Params) error {
	schema, err := TelemetrySchema(p.Telemetry.ErrorRate)
	if err != nil {
		return err
	}
	t.init(r, schema)
	t.vehicle = Vehicle{Model: p.Telemetry.Model}
	if t.Clock == nil {
		t.Clock = time.Now
	}
	return nil
}

func (t *Telemetry) Next() (*record.Record, error) {
	if err := t.ready(); err != nil {
		return nil, err
	}
	return t.asm.Start().
		Put("timestamp", field.String(t.Clock().UTC().Format(TimestampLayout))).
		Put("vehicle_model", field.String(t.vehicle.Model)).
		SampleRest().
		Finish()
}

func (t *Telemetry) Count() int64        { return Unbounded }
func (t *Telemetry) Description() string { return "Vehicle telemetry stream, one JSON object per second" }
func (t *Telemetry) Format() sink.Format { return sink.FormatJSON }
func (t *Telemetry) FileName() string    { return "" }
