// cubist - software 3D engine for the terminal.
//
// Commands:
//
//	cubist play [scene]             Run a demo scene in the terminal
//	cubist render [scene] -o a.png  Render frames headless to PNG
//	cubist view <model.obj|.glb>    Spin a model in the terminal
//
// Controls (play):
//
//	W/A/S/D     - Move
//	Q/E         - Down/up (free camera)
//	Space       - Jump (first person)
//	Arrows      - Look
//	Mouse drag  - Look
//	M           - Cycle render mode
//	C           - Toggle collider outlines
//	N           - Next level
//	P           - Save a screenshot
//	?           - Toggle HUD overlay
//	Esc         - Quit
//
// Controls (view):
//
//	Mouse drag  - Spin the model
//	W/S/A/D/Q/E - Pitch, yaw and roll
//	Space       - Random spin
//	R           - Reset
//	T           - Toggle the UV grid texture
//	X           - Toggle wireframe
//	+/-, Scroll - Zoom
package main

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taigrr/cubist/internal/config"
	"github.com/taigrr/cubist/internal/logger"
)

var version = "dev"

// flags holds the command line overrides. Only flags the user set are
// applied over the config file.
type flags struct {
	configPath string
	width      int
	height     int
	fov        float64
	mode       string
	background string
	sampling   string
	noCull     bool
	colliders  bool
	fps        int
	logLevel   string
	logFile    string
}

func main() {
	if err := fang.Execute(context.Background(), newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:   "cubist",
		Short: "Software 3D engine for the terminal",
		Long: "cubist rasterizes textured meshes on the CPU and shows them in the terminal\n" +
			"with half-block characters, or writes the frames to PNG.",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "config file (default ./cubist.yaml, then the user config dir)")
	pf.IntVar(&f.width, "width", 0, "render width in pixels")
	pf.IntVar(&f.height, "height", 0, "render height in pixels")
	pf.Float64Var(&f.fov, "fov", 0, "vertical field of view in degrees")
	pf.StringVar(&f.mode, "mode", "", "render mode: texture, uv, wireframe, states")
	pf.StringVar(&f.background, "background", "", "background: solid, skybox")
	pf.StringVar(&f.sampling, "sampling", "", "texture sampling: corrected, legacy")
	pf.BoolVar(&f.noCull, "no-cull", false, "disable backface culling")
	pf.BoolVar(&f.colliders, "colliders", false, "outline colliders and triggers")
	pf.IntVar(&f.fps, "fps", 0, "target frames per second")
	pf.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&f.logFile, "log-file", "", "write logs to this file")

	root.AddCommand(newPlayCmd(f), newRenderCmd(f), newViewCmd(f))
	return root
}

// load reads the config and applies the flags the user set.
func (f *flags) load(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}

	set := cmd.Flags().Changed
	if set("width") {
		cfg.Render.Width = f.width
	}
	if set("height") {
		cfg.Render.Height = f.height
	}
	if set("fov") {
		cfg.Render.FOV = f.fov
	}
	if set("mode") {
		cfg.Render.Mode = f.mode
	}
	if set("background") {
		cfg.Render.Background = f.background
	}
	if set("sampling") {
		cfg.Render.Sampling = f.sampling
	}
	if set("no-cull") {
		cfg.Render.BackfaceCulling = !f.noCull
	}
	if set("colliders") {
		cfg.Render.ShowColliders = f.colliders
	}
	if set("fps") {
		cfg.Display.FPS = f.fps
	}
	if set("log-level") {
		cfg.Logging.Level = f.logLevel
	}
	if set("log-file") {
		cfg.Logging.LogFile = f.logFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the logger for a command. The terminal viewer passes a
// nil console because it owns the screen.
func newLogger(cfg *config.Config, console io.Writer) *zap.Logger {
	var file logger.FileConfig
	if cfg.Logging.LogFile != "" {
		file = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	return logger.New(cfg.Logging.Level, console, file)
}

func sceneArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return defaultScene
}

func newPlayCmd(f *flags) *cobra.Command {
	var fit bool
	cmd := &cobra.Command{
		Use:   "play [scene]",
		Short: "Run a demo scene in the terminal",
		Long:  "Run a demo scene in the terminal. Scenes: " + sceneNames() + ".",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.load(cmd)
			if err != nil {
				return err
			}
			log := newLogger(cfg, nil)
			defer func() { _ = log.Sync() }()

			e, err := newEngine(cfg, log)
			if err != nil {
				return err
			}
			name := sceneArg(args)
			if err := buildScene(name, e, cfg); err != nil {
				return err
			}
			return runTerminal(cmd.Context(), e, cfg, terminalOptions{title: name, fit: fit})
		},
	}
	cmd.Flags().BoolVar(&fit, "fit", false, "render at the terminal's resolution instead of the configured size")
	return cmd
}

func newRenderCmd(f *flags) *cobra.Command {
	var (
		out    string
		frames int
	)
	cmd := &cobra.Command{
		Use:   "render [scene]",
		Short: "Render a scene headless to PNG",
		Long: "Render a scene headless with a fixed time step and save the last frame.\n" +
			"An output path containing a verb such as %03d saves every frame.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.load(cmd)
			if err != nil {
				return err
			}
			log := newLogger(cfg, os.Stderr)
			defer func() { _ = log.Sync() }()

			e, err := newEngine(cfg, log)
			if err != nil {
				return err
			}
			name := sceneArg(args)
			if err := buildScene(name, e, cfg); err != nil {
				return err
			}
			return renderHeadless(e, cfg, out, frames)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "frame.png", "output PNG path")
	cmd.Flags().IntVar(&frames, "frames", 1, "number of frames to simulate")
	return cmd
}

func newViewCmd(f *flags) *cobra.Command {
	var texture string
	cmd := &cobra.Command{
		Use:   "view <model.obj|model.glb>",
		Short: "Spin a model in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.load(cmd)
			if err != nil {
				return err
			}
			log := newLogger(cfg, nil)
			defer func() { _ = log.Sync() }()

			e, err := newEngine(cfg, log)
			if err != nil {
				return err
			}
			v, err := setupViewer(e, cfg, args[0], texture)
			if err != nil {
				return err
			}
			return runTerminal(cmd.Context(), e, cfg, terminalOptions{
				title: v.title,
				keys:  v.handleKey,
				wheel: v.zoom,
			})
		},
	}
	cmd.Flags().StringVar(&texture, "texture", "", "texture image (PNG/JPG) overriding any embedded one")
	return cmd
}
