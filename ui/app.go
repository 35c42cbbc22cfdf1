package ui

import (
	"math"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/agievo/camera"
	"github.com/pthm-cable/agievo/config"
	"github.com/pthm-cable/agievo/effects"
	"github.com/pthm-cable/agievo/rng"
	"github.com/pthm-cable/agievo/sim"
)

const (
	sidebarWidth = 200
	edgeHitSlop  = 4
	dragSlop     = 3
	keyPanSpeed  = 8
	maxParticles = 500
	controlsHelp = "Click: select/connect | Drag: move | Right-drag: pan | Wheel: zoom | Space: start/pause | C: connect | Home: reset view"
)

// App is the graphical viewer for the free-form simulation.
type App struct {
	cfg       *config.Config
	sim       *sim.Simulation
	scheduler *sim.Scheduler

	camera    *camera.Camera
	overlays  *OverlayRegistry
	canvas    *Canvas
	hud       *HUD
	controls  *ControlsPanel
	inspector *Inspector
	logPanel  *LogPanel
	perfPanel *PerfPanel
	effects   *effects.System
	particles *EffectsRenderer

	screenWidth, screenHeight float32

	pressing  bool
	dragging  string
	dragStart rl.Vector2
	dragMoved bool
}

// NewApp builds the viewer. The raylib window must already be open.
func NewApp(cfg *config.Config, s *sim.Simulation, sc *sim.Scheduler) *App {
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())

	cam := camera.New(w, h, float32(cfg.World.Width)/2, float32(cfg.World.Height)/2)
	cam.Pan(-sidebarWidth/2, -50)
	cam.HomeX, cam.HomeY = cam.X, cam.Y

	overlays := NewOverlayRegistry()
	return &App{
		cfg:          cfg,
		sim:          s,
		scheduler:    sc,
		camera:       cam,
		overlays:     overlays,
		canvas:       NewCanvas(cam, overlays),
		hud:          NewHUD(sidebarWidth + 10),
		controls:     NewControlsPanel(0, 0, sidebarWidth),
		inspector:    NewInspector(int32(w)-240, 100, 240),
		logPanel:     NewLogPanel(int32(w)-420, int32(h)-200, 420, 10),
		perfPanel:    NewPerfPanel(sidebarWidth+10, 100),
		effects:      effects.New(rng.New(time.Now().UnixNano()), maxParticles),
		particles:    NewEffectsRenderer(cam),
		screenWidth:  w,
		screenHeight: h,
	}
}

// Run drives the window until it is closed.
func (a *App) Run() {
	for !rl.WindowShouldClose() {
		a.Frame()
	}
}

// Frame handles input and draws one frame.
func (a *App) Frame() {
	a.handleResize()

	// Manual signals must animate while paused too.
	a.sim.Advance()
	a.sim.RecordFrame()

	snap := a.sim.Snapshot()
	a.effects.Observe(snap.Entities)
	a.effects.Update()
	a.handleKeys()
	a.handleCamera()
	a.handleMouse(&snap)

	rl.BeginDrawing()
	rl.ClearBackground(a.controls.renderer.Theme.Background)

	a.canvas.Draw(&snap, rl.Rectangle{Width: float32(a.cfg.World.Width), Height: float32(a.cfg.World.Height)})
	if a.overlays.IsEnabled(OverlayEffects) {
		a.particles.Draw(a.effects.Particles)
	}
	a.hud.Draw(HUDDataFrom(&snap, a.scheduler.State()))
	a.hud.DrawControls(int32(a.screenHeight), controlsHelp)
	rl.DrawText(a.overlays.Legend(), sidebarWidth+10, int32(a.screenHeight)-45, 12, rl.DarkGray)

	var selected *sim.EntityView
	if e, ok := snap.Entity(snap.Selected); ok {
		selected = &e
		a.inspector.Draw(selected)
	}
	if a.overlays.IsEnabled(OverlayLog) {
		a.logPanel.Draw(snap.Log)
	}
	if a.overlays.IsEnabled(OverlayPerf) {
		a.perfPanel.Draw(a.sim.Perf())
	}

	action, speed := a.controls.Draw(ControlsState{
		Scheduler: a.scheduler.State(),
		Connect:   snap.Connect,
		Selected:  selected,
		Speed:     snap.Speed,
	})
	rl.EndDrawing()

	if math.Abs(speed-snap.Speed) > 1e-3 {
		// The slider range is always positive.
		_ = a.scheduler.SetSpeed(speed)
	}
	a.apply(action, snap.Selected)
}

// apply runs a panel action. Rule failures are reported through the event
// log, so returned errors are only informational here.
func (a *App) apply(action Action, selected string) {
	switch action {
	case ActionStart:
		a.scheduler.Start()
	case ActionPause:
		a.scheduler.Pause()
	case ActionReset:
		a.scheduler.Reset()
		a.effects.Forget()
	case ActionAddAlgorithm:
		_, _ = a.sim.AddAlgorithm()
	case ActionAddCheckpoint:
		a.sim.AddCheckpoint()
	case ActionToggleConnect:
		a.sim.ToggleConnectMode()
	case ActionTrainAll:
		a.sim.TrainAll()
	case ActionTrain:
		_, _ = a.sim.Train(selected)
	case ActionSelfImprove:
		_, _ = a.sim.SelfImprove(selected)
	case ActionCreateChild:
		_, _ = a.sim.CreateChild(selected)
	case ActionFindConnections:
		_, _ = a.sim.FindConnections(selected)
	case ActionBoostKnowledge:
		_, _ = a.sim.BoostKnowledge(selected)
	case ActionDelete:
		_ = a.sim.Delete(selected)
	}
}

func (a *App) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == a.screenWidth && h == a.screenHeight {
		return
	}
	a.screenWidth, a.screenHeight = w, h
	a.camera.Resize(w, h)
	a.inspector.SetPosition(int32(w)-240, 100)
	a.logPanel.SetPosition(int32(w)-420, int32(h)-200)
}

func (a *App) handleKeys() {
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		if a.scheduler.State() == sim.Running {
			a.scheduler.Pause()
		} else {
			a.scheduler.Start()
		}
	}
	if rl.IsKeyPressed(rl.KeyC) {
		a.sim.ToggleConnectMode()
	}
	a.overlays.HandleKeys()
}

func (a *App) handleCamera() {
	if rl.IsKeyDown(rl.KeyRight) {
		a.camera.Pan(keyPanSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		a.camera.Pan(-keyPanSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		a.camera.Pan(0, keyPanSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		a.camera.Pan(0, -keyPanSpeed)
	}

	mouse := rl.GetMousePosition()
	if wheel := rl.GetMouseWheelMove(); wheel != 0 && mouse.X > sidebarWidth {
		a.camera.Step(wheel, mouse.X, mouse.Y)
	}
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		a.camera.Pan(-d.X, -d.Y)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		a.camera.Reset()
	}
}

// handleMouse turns left-button input into clicks and drags. A press on a
// node that moves beyond the slop becomes a drag; a release without moving
// is a click on the node, or on an edge when no node is under the cursor.
func (a *App) handleMouse(snap *sim.Snapshot) {
	mouse := rl.GetMousePosition()
	wx, wy := a.camera.ScreenToWorld(mouse.X, mouse.Y)

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		// Presses on the sidebar belong to the controls panel.
		a.pressing = mouse.X > sidebarWidth
		if !a.pressing {
			return
		}
		a.dragStart = mouse
		a.dragMoved = false
		a.dragging, _ = snap.NodeAt(float64(wx), float64(wy))
	}

	if rl.IsMouseButtonDown(rl.MouseButtonLeft) && a.dragging != "" {
		if rl.Vector2Distance(mouse, a.dragStart) > dragSlop {
			a.dragMoved = true
		}
		if a.dragMoved {
			_ = a.sim.Move(a.dragging, float64(wx), float64(wy))
		}
	}

	if !a.pressing || !rl.IsMouseButtonReleased(rl.MouseButtonLeft) {
		return
	}
	id := a.dragging
	a.dragging = ""
	a.pressing = false

	if id != "" && a.dragMoved {
		a.sim.EndDrag(id)
		return
	}
	if id != "" {
		_ = a.sim.Click(id)
		return
	}
	if edge, ok := snap.EdgeAt(float64(wx), float64(wy), edgeHitSlop/float64(a.camera.Zoom)); ok {
		_ = a.sim.ClickEdge(edge)
		return
	}
	a.sim.ClearSelection()
}
