package simulate

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/golden"

	"github.com/mpapenbr/racesim/log"
	"github.com/mpapenbr/racesim/pkg/config"
	"github.com/mpapenbr/racesim/pkg/notify"
	"github.com/mpapenbr/racesim/pkg/world"
	"github.com/mpapenbr/racesim/testsupport/basedata"
)

// withConfig sets the simulation defaults for a test and restores the
// previous values afterwards.
func withConfig(t *testing.T) {
	t.Helper()
	track, maxDuration, nats := config.TrackFile, config.MaxDuration, config.NatsURL
	laps, racers, spots, tickRate := config.Laps, config.Racers, config.BonusSpots, config.TickRate
	realtime, tui, audio := config.Realtime, config.TUI, config.Audio
	decay, app, prev := config.HealthDecay, appConfig, log.Default()
	t.Cleanup(func() {
		config.TrackFile, config.MaxDuration, config.NatsURL = track, maxDuration, nats
		config.Laps, config.Racers, config.BonusSpots, config.TickRate = laps, racers, spots, tickRate
		config.Realtime, config.TUI, config.Audio = realtime, tui, audio
		config.HealthDecay, appConfig = decay, app
		log.ResetDefault(prev)
	})

	config.TrackFile, config.MaxDuration, config.NatsURL = "", "10m", ""
	config.Laps, config.Racers, config.BonusSpots, config.TickRate = 0, 2, 2, 20
	config.Realtime, config.TUI, config.Audio = false, false, false
	config.HealthDecay, appConfig = 0, config.Config{}
	log.ResetDefault(log.New(io.Discard, log.DebugLevel))
}

func TestLoadTrack(t *testing.T) {
	m, err := loadTrack("", 0)
	require.NoError(t, err)
	assert.Equal(t, "oval", m.Name)

	m, err = loadTrack(basedata.WriteSampleTrack(t), 5)
	require.NoError(t, err)
	assert.Equal(t, "testtrack", m.Name)
	assert.Equal(t, 5, m.TotalLaps)

	_, err = loadTrack("does-not-exist.json", 0)
	assert.Error(t, err)
}

func TestNewRaceSetupInvalid(t *testing.T) {
	withConfig(t)
	config.TickRate = 0
	_, err := newRaceSetup(context.Background())
	assert.Error(t, err)

	config.TickRate = 20
	config.MaxDuration = "soon"
	_, err = newRaceSetup(context.Background())
	assert.Error(t, err)
}

func TestHeadlessRaceOnOval(t *testing.T) {
	withConfig(t)
	s, err := newRaceSetup(context.Background())
	require.NoError(t, err)
	defer s.Close()
	assert.Nil(t, s.keys)
	assert.Nil(t, s.human)
	assert.Len(t, s.world.Racers(), 2)
	assert.Len(t, s.world.Spots(), 2)
	assert.Len(t, s.raceKey, 8)

	ticks, err := runHeadless(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, s.world.Done())
	assert.Equal(t, time.Duration(ticks)*50*time.Millisecond, s.world.Elapsed())

	standings := s.world.Standings()
	require.Len(t, standings, 2)
	for i, st := range standings {
		assert.Equal(t, i+1, st.Pos)
		assert.True(t, st.Finished, st.Name)
		assert.Equal(t, 3, st.Laps, st.Name)
	}
}

func TestHeadlessRaceStopsAtMaxDuration(t *testing.T) {
	withConfig(t)
	config.TrackFile = basedata.WriteSampleTrack(t)
	config.MaxDuration = "5s"
	config.HealthDecay = 1
	s, err := newRaceSetup(context.Background())
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, 2, s.mapInfo.TotalLaps)

	ticks, err := runHeadless(context.Background(), s)
	require.NoError(t, err)
	assert.LessOrEqual(t, ticks, 100)
	assert.LessOrEqual(t, s.world.Elapsed(), 5*time.Second)
	assert.Len(t, s.world.Standings(), 2)
}

func TestHeadlessRaceCanceled(t *testing.T) {
	withConfig(t)
	s, err := newRaceSetup(context.Background())
	require.NoError(t, err)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ticks, err := runHeadless(ctx, s)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, ticks)
}

func TestHumanRacerNeedsTUI(t *testing.T) {
	withConfig(t)
	appConfig.Human = true
	appConfig.PlayerName = "me"
	s, err := newRaceSetup(context.Background())
	require.NoError(t, err)
	assert.Nil(t, s.human)

	config.TUI = true
	s, err = newRaceSetup(context.Background())
	require.NoError(t, err)
	defer s.Close()
	require.NotNil(t, s.human)
	require.NotNil(t, s.scores)
	require.NotNil(t, s.keys)
	assert.Equal(t, "me", s.human.Name())
	assert.Len(t, s.world.Racers(), 3)
	assert.True(t, s.realtime)
}

func TestPrintStandings(t *testing.T) {
	standings := []world.Standing{
		{
			Pos: 1, Name: "ai-2", Laps: 3, LapDistance: decimal.RequireFromString("12.5"),
			Score: 200, Health: decimal.NewFromInt(100), Finished: true,
		},
		{
			Pos: 2, Name: "ai-1", Laps: 2, LapDistance: decimal.RequireFromString("40.25"),
			Health: decimal.RequireFromString("87.5"),
		},
		{
			Pos: 3, Name: "player", Laps: 1, LapDistance: decimal.Zero,
			Health: decimal.Zero, Retired: true,
		},
	}
	buf := bytes.Buffer{}
	printStandings(&buf, standings)
	golden.Assert(t, buf.String(), "standings.golden")
}

func TestTUIKeys(t *testing.T) {
	withConfig(t)
	appConfig.Human = true
	config.TUI = true
	s, err := newRaceSetup(context.Background())
	require.NoError(t, err)
	defer s.Close()

	screen := tcell.NewSimulationScreen("")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	v := &tuiView{screen: screen, setup: s, pressed: map[tcell.Key]time.Time{}}

	now := basedata.TestTime()
	assert.True(t, v.handleEvent(tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), now))
	assert.True(t, v.handleEvent(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), now))
	c := s.keys.Controls()
	assert.True(t, c.Accelerate)
	assert.InDelta(t, -1.0, c.Direction, 1e-9)

	v.releaseKeys(now.Add(keyHold / 2))
	assert.True(t, s.keys.Controls().Accelerate)
	v.releaseKeys(now.Add(2 * keyHold))
	c = s.keys.Controls()
	assert.False(t, c.Accelerate)
	assert.Zero(t, c.Direction)

	assert.False(t, v.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), now))
	assert.False(t, v.handleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), now))
}

func TestTUIDraw(t *testing.T) {
	withConfig(t)
	s, err := newRaceSetup(context.Background())
	require.NoError(t, err)

	screen := tcell.NewSimulationScreen("")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(120, 40)
	v := &tuiView{screen: screen, setup: s, pressed: map[tcell.Key]time.Time{}}
	v.draw()

	line := func(y int) string {
		sb := strings.Builder{}
		for x := 120 - sidebarWidth; x < 120; x++ {
			r, _, _, _ := screen.GetContent(x, y)
			sb.WriteRune(r)
		}
		return sb.String()
	}
	assert.Contains(t, line(0), "oval")
	rows := line(3) + line(4)
	assert.Contains(t, rows, "ai-1")
	assert.Contains(t, rows, "ai-2")
}

func TestTUIPopups(t *testing.T) {
	withConfig(t)
	s, err := newRaceSetup(context.Background())
	require.NoError(t, err)

	screen := tcell.NewSimulationScreen("")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(120, 40)
	v := &tuiView{screen: screen, setup: s, pressed: map[tcell.Key]time.Time{}}

	now := basedata.TestTime()
	v.addPopup(notify.Indicator{Amount: 100, X: 20, Y: 12.5}, now)
	v.addPopup(notify.Indicator{Amount: 100, X: 10, Y: 10}, now.Add(popupTime))
	v.expirePopups(now.Add(popupTime / 2))
	assert.Len(t, v.popups, 2)
	v.expirePopups(now.Add(popupTime * 3 / 2))
	require.Len(t, v.popups, 1)
	assert.InDelta(t, 10.0, v.popups[0].X, 1e-9)

	v.draw()
	cx, cy, ok := v.canvas().ToCell(10, 10)
	require.True(t, ok)
	r, _, _, _ := screen.GetContent(cx, cy-2)
	assert.Equal(t, '+', r)
}

func TestPollEventsForwards(t *testing.T) {
	screen := tcell.NewSimulationScreen("")
	require.NoError(t, screen.Init())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan tcell.Event, 10)
	done := make(chan struct{})
	go func() {
		defer close(done)
		pollEvents(ctx, screen, events)
	}()

	screen.InjectKey(tcell.KeyUp, 0, tcell.ModNone)
	timeout := time.After(time.Second)
	for key := false; !key; {
		select {
		case ev := <-events:
			_, key = ev.(*tcell.EventKey)
		case <-timeout:
			t.Fatal("key event not forwarded")
		}
	}

	// finalizing the screen ends the polling
	screen.Fini()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("polling did not stop after Fini")
	}
}

func TestPollEventsStopsWhenNobodyReads(t *testing.T) {
	screen := tcell.NewSimulationScreen("")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	ctx, cancel := context.WithCancel(context.Background())

	// nobody reads from the channel, as after runTUI returned
	events := make(chan tcell.Event)
	done := make(chan struct{})
	go func() {
		defer close(done)
		pollEvents(ctx, screen, events)
	}()

	screen.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("polling still blocked after cancel")
	}
}
