package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/hive/camera"
	"github.com/pthm-cable/hive/components"
	"github.com/pthm-cable/hive/config"
	"github.com/pthm-cable/hive/game"
)

// Screen layout
const (
	originX = 1 // left margin
	originY = 2 // below the status lines
	gap     = 3 // columns between the hive and the world
	follow  = 4 // cells kept between the wasp and the viewport edge
)

var (
	styleDefault = tcell.StyleDefault
	styleGrass   = tcell.StyleDefault.Foreground(tcell.ColorDarkGreen)
	styleTree    = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleWater   = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleHouse   = tcell.StyleDefault.Foreground(tcell.ColorMaroon)
	styleFlower  = tcell.StyleDefault.Foreground(tcell.ColorFuchsia)
	styleGolden  = tcell.StyleDefault.Foreground(tcell.ColorGold).Bold(true)
	styleBee     = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleLoaded  = tcell.StyleDefault.Foreground(tcell.ColorOrange).Bold(true)
	styleWasp    = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleComb    = tcell.StyleDefault.Foreground(tcell.ColorOlive)
	styleFull    = tcell.StyleDefault.Foreground(tcell.ColorGold).Reverse(true)
	stylePortal  = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleStatus  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleBanner  = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorGold)
)

// viewer draws the game and routes keys to the manual wasp.
type viewer struct {
	screen tcell.Screen
	game   *game.Game
	delay  time.Duration
	sound  stingSound

	hiveCam  *camera.Camera
	worldCam *camera.Camera

	paused  bool
	kills   int
	message string
}

func newViewer(g *game.Game, delay time.Duration, audio bool) (*viewer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	topo := g.Topology()
	v := &viewer{
		screen:   screen,
		game:     g,
		delay:    delay,
		hiveCam:  camera.New(1, 1, topo.Hive.Bounds.Cols, topo.Hive.Bounds.Rows, true),
		worldCam: camera.New(1, 1, topo.World.Bounds.Cols, topo.World.Bounds.Rows, true),
	}
	v.layout()
	if audio {
		if err := v.sound.init(); err != nil {
			// Non-fatal, the viewer runs without sound
			slog.Warn("audio initialization failed", "error", err)
		}
	}
	return v, nil
}

func (v *viewer) cleanup() {
	v.sound.close()
	v.screen.Fini()
}

func (v *viewer) run() {
	ticker := time.NewTicker(v.delay)
	defer ticker.Stop()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	v.draw()
	for {
		select {
		case ev := <-events:
			if !v.handleEvent(ev) {
				return
			}
			v.draw()

		case <-ticker.C:
			v.step()
			v.game.RecordFrame()
			v.draw()
		}
	}
}

// step advances the simulation unless paused or finished.
func (v *viewer) step() {
	if v.paused || v.game.Done() {
		return
	}
	if err := v.game.Step(); err != nil {
		v.message = err.Error()
		v.paused = true
		return
	}
	if v.game.AllCombsFull() {
		v.message = fmt.Sprintf("Mission complete: every comb is full after %d steps", v.game.Tick())
	} else if v.game.Done() {
		v.message = fmt.Sprintf("Out of steps: %d loads stored", v.game.Stats().Nectar)
	}
}

// handleEvent reports false when the viewer should exit.
func (v *viewer) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyUp:
			// Row 0 is drawn at the bottom, so up is +1 row.
			v.moveWasp(1, 0)
		case tcell.KeyDown:
			v.moveWasp(-1, 0)
		case tcell.KeyLeft:
			v.moveWasp(0, -1)
		case tcell.KeyRight:
			v.moveWasp(0, 1)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				v.paused = !v.paused
			}
		}

	case *tcell.EventResize:
		v.layout()
		v.screen.Sync()
	}
	return true
}

// layout sizes both viewports to the terminal, leaving a line for the
// message banner.
func (v *viewer) layout() {
	w, h := v.screen.Size()
	height := max(1, h-originY-1)
	v.hiveCam.Resize(v.hiveCam.WorldW, min(height, v.hiveCam.WorldH))
	v.hiveCam.Reset()
	v.worldCam.Resize(max(1, w-v.worldX()-originX), min(height, v.worldCam.WorldH))
}

func (v *viewer) viewHeight() int {
	return max(v.hiveCam.ViewportH, v.worldCam.ViewportH)
}

func (v *viewer) worldX() int {
	return originX + v.hiveCam.WorldW + gap
}

func (v *viewer) moveWasp(dr, dc int) {
	if v.game.Done() {
		return
	}
	kills := v.game.MoveWasp(0, dr, dc)
	if kills > 0 {
		v.kills += kills
		v.sound.play(kills)
	}
}

func (v *viewer) draw() {
	v.screen.Clear()
	view := v.game.View()
	topo := v.game.Topology()

	for _, w := range view.Wasps {
		if w.Alive {
			v.worldCam.Follow(w.Pos, follow)
			break
		}
	}

	// Both grids share a bottom baseline.
	base := originY + v.viewHeight()
	hiveY := base - v.hiveCam.ViewportH
	worldY := base - v.worldCam.ViewportH
	worldX := v.worldX()
	hiveAt := func(c components.Cell) (int, int, bool) {
		x, y, ok := v.hiveCam.WorldToScreen(c)
		return originX + x, hiveY + y, ok
	}
	worldAt := func(c components.Cell) (int, int, bool) {
		x, y, ok := v.worldCam.WorldToScreen(c)
		return worldX + x, worldY + y, ok
	}
	put := func(x, y int, ok bool, r rune, style tcell.Style) {
		if ok {
			v.screen.SetContent(x, y, r, nil, style)
		}
	}

	v.drawTerrain(worldAt)
	for r := 0; r < topo.Hive.Bounds.Rows; r++ {
		for c := 0; c < topo.Hive.Bounds.Cols; c++ {
			x, y, ok := hiveAt(components.Cell{Row: r, Col: c})
			put(x, y, ok, '·', styleDefault)
		}
	}

	x, y, ok := hiveAt(topo.Portals.HiveExit)
	put(x, y, ok, 'x', stylePortal)
	x, y, ok = hiveAt(topo.Portals.HiveEntrance)
	put(x, y, ok, 'e', stylePortal)
	x, y, ok = worldAt(topo.Portals.WorldEntrance)
	put(x, y, ok, 'E', stylePortal)

	for _, c := range view.Combs {
		x, y, ok := hiveAt(c.Pos)
		if c.Full {
			put(x, y, ok, '#', styleFull)
		} else {
			put(x, y, ok, rune('0'+c.Level), styleComb)
		}
	}
	for _, f := range view.Flowers {
		x, y, ok := worldAt(f.Pos)
		switch {
		case f.Golden:
			put(x, y, ok, '$', styleGolden)
		case f.Quantity > 0:
			put(x, y, ok, '*', styleFlower)
		default:
			put(x, y, ok, ',', styleFlower)
		}
	}
	if view.Queen.Alive {
		x, y, ok := hiveAt(view.Queen.Pos)
		put(x, y, ok, 'Q', styleStatus)
	}
	for _, f := range view.Foragers {
		if !f.Alive {
			continue
		}
		at := worldAt
		if f.InHive {
			at = hiveAt
		}
		x, y, ok := at(f.Pos)
		if f.Carrying {
			put(x, y, ok, 'B', styleLoaded)
		} else {
			put(x, y, ok, 'b', styleBee)
		}
	}
	for _, w := range view.Wasps {
		if w.Alive {
			x, y, ok := worldAt(w.Pos)
			put(x, y, ok, 'W', styleWasp)
		}
	}

	stats := v.game.Stats()
	state := "running"
	if v.paused {
		state = "paused"
	}
	v.text(originX, 0, styleStatus, fmt.Sprintf(
		"step %d  nectar %d  bees %d  stung %d  flowers %d  combs full %d/%d  [%s]",
		view.Tick, stats.Nectar, stats.BeesAlive, v.kills, stats.Flowers, stats.CombsFull, len(view.Combs), state))
	v.text(originX, 1, styleDefault, "arrows: move wasp   space: pause   q: quit")
	if v.message != "" {
		v.text(originX, originY+v.viewHeight(), styleBanner, " "+v.message+" ")
	}

	v.screen.Show()
}

// drawTerrain paints the visible world tiles.
func (v *viewer) drawTerrain(at func(components.Cell) (int, int, bool)) {
	terrain := v.game.Terrain()
	rows, cols := terrain.Dims()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cell := components.Cell{Row: r, Col: c}
			x, y, ok := at(cell)
			if !ok {
				continue
			}
			switch terrain.Code(cell) {
			case config.TileWater:
				v.screen.SetContent(x, y, '~', nil, styleWater)
			case config.TileTree:
				v.screen.SetContent(x, y, '♣', nil, styleTree)
			case config.TileHouse:
				v.screen.SetContent(x, y, '▒', nil, styleHouse)
			default:
				v.screen.SetContent(x, y, '.', nil, styleGrass)
			}
		}
	}
}

func (v *viewer) text(x, y int, style tcell.Style, s string) {
	for i, r := range []rune(s) {
		v.screen.SetContent(x+i, y, r, nil, style)
	}
}
