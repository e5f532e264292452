package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/lra-cloth/audio"
	"github.com/lixenwraith/lra-cloth/cloth"
	"github.com/lixenwraith/lra-cloth/config"
	"github.com/lixenwraith/lra-cloth/input"
	"github.com/lixenwraith/lra-cloth/parameter"
	"github.com/lixenwraith/lra-cloth/render"
)

// Sandbox is the interactive terminal host: one cloth step per frame
type Sandbox struct {
	screen   tcell.Screen
	renderer *render.TerminalRenderer
	world    *cloth.World
	keys     *input.KeyTable
	sound    *audio.SoundManager

	paused bool

	// Mouse drag state
	dragButtons tcell.ButtonMask
	lastMouseX  int
	lastMouseY  int
}

func newSandbox(screen tcell.Screen, cfg *config.Config, keys *input.KeyTable, sound *audio.SoundManager) *Sandbox {
	return &Sandbox{
		screen:   screen,
		renderer: render.NewTerminalRenderer(screen),
		world:    cloth.NewWorld(cfg.ClothParams(), cfg.WorldOptions()...),
		keys:     keys,
		sound:    sound,
	}
}

// handleEvent applies one terminal event; returns false on quit
func (s *Sandbox) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		action, ok := s.keys.Lookup(ev)
		if !ok {
			return true
		}
		return s.handleAction(action)

	case *tcell.EventMouse:
		s.handleMouse(ev)

	case *tcell.EventResize:
		w, h := s.screen.Size()
		s.renderer.Resize(w, h)
		s.screen.Sync()
	}
	return true
}

func (s *Sandbox) handleAction(action input.Action) bool {
	if input.Apply(action, s.world) {
		log.Printf("action %s: %s", action, s.world.Status())
		switch action {
		case input.ActionToggleLRA:
			s.sound.PlayToggle(s.world.UseLRA())
		case input.ActionReset:
			s.sound.PlayReset()
		}
		return true
	}

	cam := &s.renderer.Camera
	panStep := parameter.CameraPanStep * cam.Dist

	switch action {
	case input.ActionQuit:
		return false
	case input.ActionPause:
		s.paused = !s.paused
	case input.ActionStepOnce:
		if s.paused {
			s.step()
		}
	case input.ActionToggleAttachments:
		s.renderer.ShowAttachments = !s.renderer.ShowAttachments
	case input.ActionToggleMute:
		s.sound.ToggleMute()
	case input.ActionOrbitLeft:
		cam.Orbit(-parameter.CameraOrbitStep, 0)
	case input.ActionOrbitRight:
		cam.Orbit(parameter.CameraOrbitStep, 0)
	case input.ActionOrbitUp:
		cam.Orbit(0, -parameter.CameraOrbitStep)
	case input.ActionOrbitDown:
		cam.Orbit(0, parameter.CameraOrbitStep)
	case input.ActionPanLeft:
		cam.Pan(-panStep, 0)
	case input.ActionPanRight:
		cam.Pan(panStep, 0)
	case input.ActionPanUp:
		cam.Pan(0, panStep)
	case input.ActionPanDown:
		cam.Pan(0, -panStep)
	case input.ActionZoomIn:
		cam.Zoom(-parameter.CameraZoomStep)
	case input.ActionZoomOut:
		cam.Zoom(parameter.CameraZoomStep)
	}
	return true
}

// handleMouse orbits on left drag and pans on right drag
func (s *Sandbox) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()
	cam := &s.renderer.Camera

	switch {
	case buttons&tcell.WheelUp != 0:
		cam.Zoom(-parameter.CameraZoomStep)
		return
	case buttons&tcell.WheelDown != 0:
		cam.Zoom(parameter.CameraZoomStep)
		return
	}

	if buttons&(tcell.Button1|tcell.Button2) != 0 && s.dragButtons == buttons {
		dx := float64(x - s.lastMouseX)
		dy := float64(y - s.lastMouseY)
		if buttons&tcell.Button1 != 0 {
			cam.Orbit(dx*parameter.MouseOrbitPerCell, dy*parameter.MouseOrbitPerCell*parameter.CellAspect)
		} else {
			k := parameter.MousePanPerCell * cam.Dist
			cam.Pan(dx*k, -dy*k*parameter.CellAspect)
		}
	}

	s.dragButtons = buttons
	s.lastMouseX = x
	s.lastMouseY = y
}

func (s *Sandbox) step() {
	s.world.Step()
	s.sound.SetTension(s.world.MaxLRAExcess())
}

// tick advances one fixed step unless paused, then redraws
func (s *Sandbox) tick() {
	if !s.paused {
		s.step()
	}
	hud := []string{
		render.StatusLine(s.world, s.paused, s.sound.Muted()),
		render.HintLine,
	}
	s.renderer.Draw(s.world, hud)
}

func (s *Sandbox) run() {
	ticker := time.NewTicker(parameter.FrameUpdateInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, parameter.InputQueueSize)
	goSafe(func() {
		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				close(eventChan)
				return
			}
			eventChan <- ev
		}
	})

	for {
		select {
		case ev, ok := <-eventChan:
			if !ok || !s.handleEvent(ev) {
				return
			}
		case <-ticker.C:
			s.tick()
		}
	}
}

func main() {
	configPath := flag.String("config", "cloth.toml", "path to TOML configuration")
	debugFlag := flag.Bool("debug", false, "write logs to logs/cloth-sandbox.log")
	noAudio := flag.Bool("no-audio", false, "disable sound cues")
	flag.Parse()

	if logFile := setupLogging(*debugFlag); logFile != nil {
		defer logFile.Close()
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	keys := input.DefaultKeyTable()
	if len(cfg.Keys) > 0 || len(cfg.SpecialKeys) > 0 {
		override, err := input.KeyTableFromMaps(cfg.Keys, cfg.SpecialKeys)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid key bindings: %v\n", err)
			os.Exit(1)
		}
		keys = input.MergeKeyTable(keys, override)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize screen: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse()
	screen.HideCursor()

	sound := audio.NewSoundManager(cfg.Audio.Volume)
	if cfg.Audio.Enabled && !*noAudio {
		if err := sound.Initialize(); err != nil {
			// Non-fatal, the sandbox runs silently
			log.Printf("Audio initialization failed: %v", err)
		}
	}

	setCrashScreen(screen)
	onCrash(sound.Cleanup)
	defer func() {
		if r := recover(); r != nil {
			handleCrash(r)
		}
	}()

	sandbox := newSandbox(screen, cfg, keys, sound)
	sandbox.run()

	sound.Cleanup()
	screen.Fini()
}
