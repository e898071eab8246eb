package game

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"xmastree/internal/chime"
	"xmastree/internal/config"
	"xmastree/internal/spiral"
	"xmastree/internal/view"
)

// Scene owns everything one running tree needs. Build it with NewScene and
// release it with Close.
type Scene struct {
	cfg config.Config
	log *slog.Logger

	window *glfw.Window
	rend   *Renderer
	tree   *spiral.Composer
	chime  *chime.Chime
	cam    view.Camera
	clock  *view.FrameClock

	release []func() // run in reverse by Close
}

// NewScene opens the window, GL pipeline, strands and audio. If any step
// fails, everything acquired so far is released before returning.
func NewScene(cfg config.Config, log *slog.Logger) (_ *Scene, err error) {
	s := &Scene{cfg: cfg, log: log}
	defer func() {
		if err != nil {
			s.Close()
		}
	}()

	// Strands first: a bad template should fail before a window flashes up.
	tree, err := spiral.NewComposer(cfg.Tree.Spirals, cfg.Tree.Template(), cfg.Tree.SpiralColors(), cfg.Tree.ComposerOptions()...)
	if err != nil {
		return nil, fmt.Errorf("tree: %w", err)
	}
	s.tree = tree
	s.onClose(tree.Close)

	window, err := initWindow(cfg.Window)
	if err != nil {
		return nil, err
	}
	s.window = window
	s.onClose(glfw.Terminate)
	s.onClose(window.Destroy)

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gl init: %w", err)
	}
	log.Debug("gl ready", "version", gl.GoStr(gl.GetString(gl.VERSION)))

	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	bg := cfg.Window.Background
	gl.ClearColor(bg[0], bg[1], bg[2], 1.0)

	rend, err := NewRenderer(cfg.Tree.Slices, cfg.Window.PointSize)
	if err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}
	s.rend = rend
	s.onClose(rend.Destroy)

	var player chime.Player
	if cfg.Audio.Enabled {
		p, err := newOtoPlayer()
		if err != nil {
			log.Warn("audio init failed, continuing without sound", "err", err)
		} else {
			player = p
		}
	}
	s.chime = chime.New(player, cfg.Audio.Volume, cfg.Audio.MinIntervalMs)

	s.cam = view.NewCamera(cfg.Window.FovDegrees, cfg.Window.SpinPeriodS)
	s.clock = view.NewFrameClock(glfw.GetTime, view.MaxFrameDeltaMs)

	log.Info("scene ready",
		"spirals", tree.Len(),
		"slices", cfg.Tree.Slices,
		"cycle_ms", cfg.Tree.CycleMs,
		"apex", cfg.Tree.Template().Apex(),
		"audio", player != nil)
	return s, nil
}

func (s *Scene) onClose(fn func()) { s.release = append(s.release, fn) }

// Close releases everything in reverse acquisition order. Safe to call twice.
func (s *Scene) Close() {
	for i := len(s.release) - 1; i >= 0; i-- {
		s.release[i]()
	}
	s.release = nil
}

// Step advances the tree by one frame and draws it.
func (s *Scene) Step() {
	dt := s.clock.Tick()
	s.tree.Update(dt)
	if s.chime.Tick(dt, s.tree.Wrapped()) {
		s.log.Debug("chime", "wrapped", s.tree.Wrapped())
	}
	s.cam.Update(dt)

	fbW, fbH := s.window.GetFramebufferSize()
	if fbW <= 0 || fbH <= 0 {
		return
	}
	s.rend.BeginFrame(s.cam.Projection(fbW, fbH), s.cam.ModelView(), fbW, fbH)
	s.tree.Render(s.rend)
	s.rend.EndFrame()
}

// Run drives frames until the window is closed or Escape is pressed.
func (s *Scene) Run() {
	frames := 0
	start := glfw.GetTime()
	for !s.window.ShouldClose() {
		glfw.PollEvents()
		if s.window.GetKey(glfw.KeyEscape) == glfw.Press {
			s.window.SetShouldClose(true)
			continue
		}
		s.Step()
		s.window.SwapBuffers()
		frames++
	}
	if secs := glfw.GetTime() - start; secs > 0 {
		s.log.Info("shutdown", "frames", frames, "fps", float64(frames)/secs)
	}
}
