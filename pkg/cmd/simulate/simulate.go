package simulate

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	otlpruntime "go.opentelemetry.io/contrib/instrumentation/runtime"

	"github.com/mpapenbr/racesim/log"
	"github.com/mpapenbr/racesim/pkg/config"
)

var appConfig config.Config // holds processed config values

//nolint:funlen // by design
func NewSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "runs a race",
		Long: `Runs a race of AI racers on a track until every racer has finished or
was eliminated. With --tui the race is shown in the terminal and --human
adds a racer driven with the arrow keys.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return startSimulation(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&config.TrackFile,
		"track",
		"t",
		"",
		"track definition file (json), default is the built-in oval")
	cmd.Flags().IntVar(&config.Laps,
		"laps",
		0,
		"number of laps, overrides the value of the track if > 0")
	cmd.Flags().IntVarP(&config.Racers,
		"racers",
		"n",
		4,
		"number of AI racers")
	cmd.Flags().IntVar(&config.BonusSpots,
		"bonus-spots",
		3,
		"number of bonus spots on the track")
	cmd.Flags().IntVar(&config.TickRate,
		"tick-rate",
		20,
		"simulation ticks per second")
	cmd.Flags().StringVar(&config.MaxDuration,
		"max-duration",
		"10m",
		"stop the race after this simulated duration")
	cmd.Flags().BoolVar(&config.Realtime,
		"realtime",
		false,
		"pace the simulation with the wall clock (always on with --tui)")
	cmd.Flags().Float64Var(&config.HealthDecay,
		"health-decay",
		0,
		"health lost per second by every racer")
	cmd.Flags().BoolVar(&config.TUI,
		"tui",
		false,
		"show the race in the terminal")
	cmd.Flags().BoolVar(&appConfig.Human,
		"human",
		false,
		"add a racer driven with the arrow keys (requires --tui)")
	cmd.Flags().StringVar(&appConfig.PlayerName,
		"name",
		"player",
		"name of the human racer")
	cmd.Flags().BoolVar(&config.Audio,
		"audio",
		false,
		"play a chime when a bonus is picked")
	cmd.Flags().StringVar(&config.NatsURL,
		"nats-url",
		"",
		"publish score indicators to this NATS server")
	cmd.Flags().StringVar(&config.RaceKey,
		"race-key",
		"",
		"key of the race used in NATS subjects (default: random)")
	cmd.Flags().BoolVar(&config.EnableTelemetry,
		"enable-telemetry",
		false,
		"enables telemetry")
	cmd.Flags().StringVar(&config.TelemetryEndpoint,
		"telemetry-endpoint",
		"localhost:4317",
		"Endpoint that receives open telemetry data (use 'stdout' for console output)")
	return cmd
}

func startSimulation(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var telemetry *config.Telemetry
	if config.EnableTelemetry {
		log.Info("Enabling telemetry")
		var err error
		if telemetry, err = config.SetupTelemetry(ctx); err != nil {
			log.Warn("Could not setup telemetry", log.ErrorField(err))
		}
		err = otlpruntime.Start(otlpruntime.WithMinimumReadMemStatsInterval(time.Second))
		if err != nil {
			log.Warn("Could not start runtime metrics", log.ErrorField(err))
		}
	}
	if telemetry != nil {
		defer telemetry.Shutdown()
	}

	setup, err := newRaceSetup(ctx)
	if err != nil {
		log.Error("could not setup race", log.ErrorField(err))
		return err
	}
	defer setup.Close()

	if config.TUI {
		err = runTUI(ctx, setup)
	} else {
		_, err = runHeadless(ctx, setup)
	}
	if err != nil {
		return err
	}
	printStandings(os.Stdout, setup.world.Standings())
	return nil
}
