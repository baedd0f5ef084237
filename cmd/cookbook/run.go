package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Carmen-Shannon/oxy-shade/engine"
	"github.com/Carmen-Shannon/oxy-shade/engine/config"
	"github.com/Carmen-Shannon/oxy-shade/engine/profiler"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/wgpudevice"
	"github.com/Carmen-Shannon/oxy-shade/engine/scene"
	"github.com/Carmen-Shannon/oxy-shade/engine/window"
	"github.com/Carmen-Shannon/oxy-shade/scenes"
	"github.com/Carmen-Shannon/oxy-shade/scenes/shaders"
)

type runOptions struct {
	profile  bool
	fpsLimit float64
}

func newRunCommand(a *app) *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run <scene>",
		Short: "Open a window and render a scene on the WebGPU device",
		Long: "Open a window and render a scene on the WebGPU device.\n\n" +
			"Space pauses rendering, P toggles the profiler, R resets its statistics and Escape quits.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(args[0], opts)
		},
	}
	cmd.Flags().BoolVar(&opts.profile, "profile", false, "log frame and pass timings every second")
	cmd.Flags().Float64Var(&opts.fpsLimit, "fps-limit", 0, "cap the render rate (0 = uncapped)")
	return cmd
}

func (a *app) run(name string, opts runOptions) error {
	if a.cfg.Render.Backend != config.BackendWGPU {
		return fmt.Errorf("run: backend %q cannot present to a window; use render instead", a.cfg.Render.Backend)
	}
	sc, err := scenes.Lookup(name)
	if err != nil {
		return err
	}

	// ── Window ──────────────────────────────────────────────────────────
	win, err := window.NewWindow(
		window.WithTitle(fmt.Sprintf("%s - %s", a.cfg.Window.Title, name)),
		window.WithSize(a.cfg.Window.Width, a.cfg.Window.Height),
		window.WithResizable(a.cfg.Window.Resizable),
	)
	if err != nil {
		return err
	}

	// ── Device ──────────────────────────────────────────────────────────
	dev, err := wgpudevice.NewDevice(
		wgpudevice.WithSurface(win.SurfaceDescriptor()),
		wgpudevice.WithDisplaySize(win.Width(), win.Height()),
		wgpudevice.WithVSync(a.cfg.Window.VSync),
	)
	if err != nil {
		_ = win.Close()
		return err
	}
	defer dev.Release()

	// ── Runner ──────────────────────────────────────────────────────────
	prof := profiler.NewProfiler()
	r := scene.NewRunner(dev, wgpudevice.NewLibrary(dev, shaders.WGSL()), sc, scene.WithPassObserver(prof.ObservePass))
	if err := r.Init(win.Width(), win.Height()); err != nil {
		_ = win.Close()
		return err
	}

	// ── Engine ──────────────────────────────────────────────────────────
	eng := engine.NewEngine(r,
		engine.WithWindow(win),
		engine.WithProfiler(prof),
		engine.WithProfiling(opts.profile),
		engine.WithRenderFrameLimit(opts.fpsLimit),
	)
	eng.Run()
	return nil
}
