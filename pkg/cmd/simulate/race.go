package simulate

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mpapenbr/racesim/log"
	"github.com/mpapenbr/racesim/pkg/config"
	"github.com/mpapenbr/racesim/pkg/notify"
	"github.com/mpapenbr/racesim/pkg/pilot"
	"github.com/mpapenbr/racesim/pkg/racer"
	"github.com/mpapenbr/racesim/pkg/track"
	"github.com/mpapenbr/racesim/pkg/vehicle"
	"github.com/mpapenbr/racesim/pkg/world"
)

var tracer = otel.Tracer("rsim")

type raceSetup struct {
	raceKey     string
	mapInfo     *track.MapInfo
	world       *world.World
	dt          float64
	maxDuration time.Duration
	realtime    bool
	keys        *pilot.KeyState // nil without human racer
	human       *racer.Racer
	conn        *nats.Conn
	audio       *notify.AudioSink
	scores      *notify.Broadcast // score popups of the TUI
	l           *log.Logger
}

// loadTrack returns the track of file, or the built-in oval if file is empty.
func loadTrack(file string, laps int) (*track.MapInfo, error) {
	var m *track.MapInfo
	if file == "" {
		m = track.Oval()
	} else {
		info, err := track.LoadFile(file)
		if err != nil {
			return nil, err
		}
		if m, err = track.Build(info); err != nil {
			return nil, err
		}
	}
	if laps > 0 {
		m.TotalLaps = laps
	}
	return m, nil
}

//nolint:funlen,cyclop // by design
func newRaceSetup(ctx context.Context) (*raceSetup, error) {
	l := log.GetFromContext(ctx).Named("race")
	m, err := loadTrack(config.TrackFile, config.Laps)
	if err != nil {
		return nil, err
	}
	if config.TickRate <= 0 {
		return nil, fmt.Errorf("tick rate must be positive, got %d", config.TickRate)
	}
	maxDuration, err := time.ParseDuration(config.MaxDuration)
	if err != nil {
		return nil, fmt.Errorf("invalid max duration: %w", err)
	}
	ret := &raceSetup{
		raceKey:     config.RaceKey,
		mapInfo:     m,
		dt:          1 / float64(config.TickRate),
		maxDuration: maxDuration,
		realtime:    config.Realtime || config.TUI,
		l:           l,
	}
	if ret.raceKey == "" {
		ret.raceKey = uuid.Must(uuid.NewV4()).String()[:8]
	}

	sinks := notify.Multi{notify.NewLogSink(log.Default().Named("score"))}
	if config.NatsURL != "" {
		timeout, err := time.ParseDuration(config.WaitForServices)
		if err != nil {
			l.Warn("Invalid duration value. Setting default 15s", log.ErrorField(err))
			timeout = 15 * time.Second
		}
		if ret.conn, err = notify.Connect(config.NatsURL, timeout); err != nil {
			return nil, err
		}
		sinks = append(sinks, notify.NewNatsSink(ret.conn, ret.raceKey))
		l.Info("publishing score indicators",
			log.String("subject", notify.ScoreSubject(ret.raceKey)))
	}
	if config.Audio {
		audio := notify.NewAudioSink()
		if err := audio.Initialize(); err != nil {
			l.Warn("audio not available", log.ErrorField(err))
		} else {
			ret.audio = audio
			sinks = append(sinks, audio)
		}
	}

	if config.TUI {
		ret.scores = notify.NewBroadcast("tui")
		sinks = append(sinks, ret.scores)
	}

	ret.world = world.New(m,
		world.WithSink(sinks),
		world.WithBonusSpots(world.BonusSpotsOnTrack(m, config.BonusSpots)...),
		world.WithLogger(log.Default().Named("world")),
	)
	racerOpts := []racer.Option{}
	if config.HealthDecay > 0 {
		racerOpts = append(racerOpts, racer.WithHealthDecay(config.HealthDecay))
	}
	if appConfig.Human && config.TUI {
		ret.keys = pilot.NewKeyState()
		ret.human = ret.world.Spawn(appConfig.PlayerName,
			func(v *vehicle.Vehicle) racer.Pilot { return pilot.NewInput(v, ret.keys) },
			racerOpts...)
	}
	for i := range config.Racers {
		name := fmt.Sprintf("ai-%d", i+1)
		ret.world.Spawn(name,
			func(v *vehicle.Vehicle) racer.Pilot { return pilot.NewAI(name, v, m) },
			racerOpts...)
	}
	l.Info("race prepared",
		log.String("race", ret.raceKey),
		log.String("track", m.Name),
		log.Int("laps", m.TotalLaps),
		log.Int("racers", len(ret.world.Racers())))
	return ret, nil
}

func (s *raceSetup) Close() {
	if s.conn != nil {
		if err := s.conn.Drain(); err != nil {
			s.l.Warn("could not drain nats connection", log.ErrorField(err))
		}
	}
	if s.audio != nil {
		s.audio.Close()
	}
	if s.scores != nil {
		s.scores.Close()
	}
}

// done reports whether the race is over
func (s *raceSetup) done() bool {
	return s.world.Done() || s.world.Elapsed() >= s.maxDuration
}

// runHeadless runs the race without output until it is over or ctx is done.
// It returns the number of ticks.
func runHeadless(ctx context.Context, s *raceSetup) (int, error) {
	ctx, span := tracer.Start(ctx, "race")
	defer span.End()
	span.SetAttributes(
		attribute.String("race", s.raceKey),
		attribute.String("track", s.mapInfo.Name),
		attribute.Int("racers", len(s.world.Racers())))

	var ticker *time.Ticker
	if s.realtime {
		ticker = time.NewTicker(time.Duration(s.dt * float64(time.Second)))
		defer ticker.Stop()
	}
	ticks := 0
	for !s.done() {
		if ticker != nil {
			select {
			case <-ctx.Done():
				return ticks, ctx.Err()
			case <-ticker.C:
			}
		} else if err := ctx.Err(); err != nil {
			return ticks, err
		}
		s.world.Act(ctx, s.dt)
		ticks++
	}
	span.SetAttributes(attribute.Int("ticks", ticks))
	s.l.Info("race over",
		log.Int("ticks", ticks),
		log.Duration("elapsed", s.world.Elapsed()))
	return ticks, nil
}

func printStandings(w io.Writer, standings []world.Standing) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Pos\tName\tLaps\tDistance\tScore\tHealth\tState")
	for _, s := range standings {
		state := "racing"
		switch {
		case s.Finished:
			state = "finished"
		case s.Retired:
			state = "retired"
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%d\t%s%%\t%s\n",
			s.Pos, s.Name, s.Laps, s.LapDistance.StringFixed(2), s.Score,
			s.Health.StringFixed(1), state)
	}
	tw.Flush()
}
