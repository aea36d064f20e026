package simulate

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mpapenbr/racesim/pkg/model"
	"github.com/mpapenbr/racesim/pkg/notify"
	"github.com/mpapenbr/racesim/pkg/pilot"
	"github.com/mpapenbr/racesim/pkg/render"
	"github.com/mpapenbr/racesim/pkg/world"
)

const (
	sidebarWidth = 34
	// terminals send no key release, a key counts as held this long after
	// its last repeat
	keyHold = 250 * time.Millisecond
	// how long a score popup stays visible
	popupTime = time.Second
)

var materialCells = map[model.Material]struct {
	r     rune
	style tcell.Style
}{
	model.MaterialRoad: {' ', tcell.StyleDefault.Background(tcell.ColorDarkSlateGray)},
	model.MaterialSand: {'░', tcell.StyleDefault.Foreground(tcell.ColorKhaki)},
	model.MaterialLava: {'▒', tcell.StyleDefault.Foreground(tcell.ColorOrangeRed)},
	model.MaterialHole: {' ', tcell.StyleDefault},
}

type (
	tuiView struct {
		screen  tcell.Screen
		setup   *raceSetup
		pressed map[tcell.Key]time.Time
		popups  []popup
	}
	popup struct {
		notify.Indicator
		until time.Time
	}
)

func runTUI(ctx context.Context, s *raceSetup) error {
	ctx, span := tracer.Start(ctx, "race")
	defer span.End()
	span.SetAttributes(
		attribute.String("race", s.raceKey),
		attribute.String("track", s.mapInfo.Name),
		attribute.Bool("tui", true))
	// stops the event polling when the user quits
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	v := &tuiView{screen: screen, setup: s, pressed: map[tcell.Key]time.Time{}}
	events := make(chan tcell.Event, 100)
	go pollEvents(ctx, screen, events)

	var scores <-chan notify.Indicator
	if s.scores != nil {
		scores = s.scores.Subscribe()
		defer s.scores.CancelSubscription(scores)
	}

	ticker := time.NewTicker(time.Duration(s.dt * float64(time.Second)))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ind, ok := <-scores:
			if !ok {
				scores = nil
				continue
			}
			v.addPopup(ind, time.Now())
		case ev := <-events:
			if !v.handleEvent(ev, time.Now()) {
				return nil
			}
		case now := <-ticker.C:
			if s.done() {
				v.draw()
				continue
			}
			v.releaseKeys(now)
			s.world.Act(ctx, s.dt)
			v.expirePopups(now)
			v.draw()
		}
	}
}

// pollEvents forwards screen events until the screen is finalized or ctx is
// done.
func pollEvents(ctx context.Context, screen tcell.Screen, events chan<- tcell.Event) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// handleEvent returns false if the user wants to quit.
func (v *tuiView) handleEvent(ev tcell.Event, now time.Time) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			if ev.Rune() == 'q' {
				return false
			}
		case tcell.KeyUp, tcell.KeyDown, tcell.KeyLeft, tcell.KeyRight:
			v.pressed[ev.Key()] = now
			v.updateKeys()
		}
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

func (v *tuiView) releaseKeys(now time.Time) {
	changed := false
	for k, t := range v.pressed {
		if now.Sub(t) > keyHold {
			delete(v.pressed, k)
			changed = true
		}
	}
	if changed {
		v.updateKeys()
	}
}

func (v *tuiView) updateKeys() {
	if v.setup.keys == nil {
		return
	}
	_, up := v.pressed[tcell.KeyUp]
	_, down := v.pressed[tcell.KeyDown]
	_, left := v.pressed[tcell.KeyLeft]
	_, right := v.pressed[tcell.KeyRight]
	v.setup.keys.Update(func(c *pilot.Controls) {
		c.Accelerate = up
		c.Brake = down
		c.Direction = 0
		if left {
			c.Direction--
		}
		if right {
			c.Direction++
		}
	})
}

func (v *tuiView) addPopup(ind notify.Indicator, now time.Time) {
	v.popups = append(v.popups, popup{Indicator: ind, until: now.Add(popupTime)})
}

func (v *tuiView) expirePopups(now time.Time) {
	v.popups = slices.DeleteFunc(v.popups, func(p popup) bool {
		return now.After(p.until)
	})
}

func (v *tuiView) canvas() render.Canvas {
	sw, sh := v.screen.Size()
	tw, th := v.setup.mapInfo.Size()
	return render.Canvas{
		Surface: v.screen,
		ScaleX:  float64(max(sw-sidebarWidth, 1)) / tw,
		ScaleY:  float64(max(sh, 1)) / th,
	}
}

func (v *tuiView) draw() {
	v.screen.Clear()
	c := v.canvas()
	v.drawTrack(c)
	v.drawSpots(c)
	racers := v.setup.world.Racers()
	for _, layer := range []int{render.LayerBody, render.LayerHUD} {
		for _, r := range racers {
			r.Draw(c, layer)
		}
	}
	v.drawPopups(c)
	v.drawSidebar(v.setup.world.Standings())
	v.screen.Show()
}

func (v *tuiView) drawTrack(c render.Canvas) {
	sw, sh := v.screen.Size()
	for cy := range sh {
		for cx := range max(sw-sidebarWidth, 0) {
			x := (float64(cx) + 0.5) / c.ScaleX
			y := (float64(cy) + 0.5) / c.ScaleY
			cell := materialCells[v.setup.mapInfo.MaterialAt(x, y)]
			v.screen.SetContent(cx, cy, cell.r, nil, cell.style)
		}
	}
}

func (v *tuiView) drawSpots(c render.Canvas) {
	style := tcell.StyleDefault.Foreground(tcell.ColorGold).Bold(true)
	for _, s := range v.setup.world.Spots() {
		if !s.Active() {
			continue
		}
		if cx, cy, ok := c.ToCell(s.X(), s.Y()); ok {
			v.screen.SetContent(cx, cy, '$', nil, style)
		}
	}
}

func (v *tuiView) drawPopups(c render.Canvas) {
	style := tcell.StyleDefault.Foreground(tcell.ColorGold).Bold(true)
	for _, p := range v.popups {
		if cx, cy, ok := c.ToCell(p.X, p.Y); ok && cy > 1 {
			v.print(cx, cy-2, style, fmt.Sprintf("+%d", p.Amount))
		}
	}
}

func (v *tuiView) drawSidebar(standings []world.Standing) {
	sw, _ := v.screen.Size()
	x := max(sw-sidebarWidth, 0) + 1
	s := v.setup
	v.print(x, 0, tcell.StyleDefault.Bold(true),
		fmt.Sprintf("%s  %d laps", s.mapInfo.Name, s.mapInfo.TotalLaps))
	v.print(x, 1, tcell.StyleDefault,
		fmt.Sprintf("time %s", s.world.Elapsed().Truncate(100*time.Millisecond)))
	for i, st := range standings {
		style := tcell.StyleDefault
		switch {
		case st.Finished:
			style = style.Foreground(tcell.ColorGreen)
		case st.Retired:
			style = style.Foreground(tcell.ColorGray)
		}
		v.print(x, 3+i, style, fmt.Sprintf("%2d %-10.10s L%d %5s %4d",
			st.Pos, st.Name, st.Laps, st.Health.StringFixed(0), st.Score))
	}
	if s.done() {
		v.print(x, 4+len(standings), tcell.StyleDefault.Bold(true), "race over, q to quit")
	}
}

func (v *tuiView) print(x, y int, style tcell.Style, text string) {
	for _, r := range text {
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
