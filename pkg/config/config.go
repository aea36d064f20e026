package config

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	LogLevel          string  // sets the log level (zap log level values)
	LogFormat         string  // text vs json
	LogConfig         string  // path to log config file (yaml), level changes are applied at runtime
	LogFilter         string  // zapfilter rules, e.g. "info,warn,error:* debug:world"
	LogFile           string  // write log output to this file instead of stderr
	EnableTelemetry   bool    // enable telemetry
	TelemetryEndpoint string  // endpoint for telemetry, "stdout" writes to stdout
	NatsURL           string  // URL of the NATS server, empty disables score publishing
	WaitForServices   string  // duration to wait for other services to be ready
	RaceKey           string  // identifies the race in published messages
	TrackFile         string  // path to track definition (json), empty uses the built-in oval
	Laps              int     // overrides the lap count of the track if > 0
	Racers            int     // number of AI racers
	BonusSpots        int     // number of bonus spots placed on the track
	TickRate          int     // ticks per simulated second
	MaxDuration       string  // stop the simulation after this simulated duration
	Realtime          bool    // pace the simulation with the wall clock
	TUI               bool    // show the race in the terminal
	Audio             bool    // play a chime on score indicators
	HealthDecay       float64 // health lost per second by every racer
)

// Config holds the configuration values of a simulation run
type Config struct {
	Human      bool // if true, the first racer is driven with the keyboard (TUI only)
	PlayerName string
}
