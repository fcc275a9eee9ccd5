// Package main provides the CLI entry point for vidcomp.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/ideamans/go-l10n"

	"github.com/user/vidcomp/pkg/adapters/ffmpegsource"
	"github.com/user/vidcomp/pkg/adapters/filesink"
	"github.com/user/vidcomp/pkg/adapters/ggrenderer"
	"github.com/user/vidcomp/pkg/adapters/logger"
	"github.com/user/vidcomp/pkg/adapters/mp4probe"
	"github.com/user/vidcomp/pkg/adapters/nullsink"
	"github.com/user/vidcomp/pkg/adapters/osfilesystem"
	"github.com/user/vidcomp/pkg/adapters/webpresenter"
	"github.com/user/vidcomp/pkg/compare"
	"github.com/user/vidcomp/pkg/config"
	"github.com/user/vidcomp/pkg/player"
	"github.com/user/vidcomp/pkg/ports"
)

// CLI defines the command-line interface with subcommands.
type CLI struct {
	Compare  CompareCmd  `cmd:"" default:"withargs" help:"Compare two videos interactively in the browser."`
	Snapshot SnapshotCmd `cmd:"" help:"Export a single composited frame to an image file."`
	Probe    ProbeCmd    `cmd:"" help:"Print stream metadata for a video file."`
	Version  VersionCmd  `cmd:"" help:"Show version information."`
}

// compareFlags holds the options shared by compare and snapshot.
type compareFlags struct {
	VideoA string `arg:"" help:"First video file (reference)."`
	VideoB string `arg:"" help:"Second video file (comparison)."`

	Config string `short:"C" help:"YAML configuration file."`

	Mode        string   `short:"m" default:"side-by-side" enum:"side-by-side,overlay,difference,diff,toggle" help:"Comparison mode."`
	FrameOffset int      `short:"f" help:"Frame offset applied to the second video (may be negative)."`
	Opacity     float64  `default:"0.5" help:"Overlay opacity (0 = only A, 1 = only B)."`
	Split       float64  `default:"0.5" help:"Side-by-side split position as a fraction of width."`
	NoLabels    bool     `help:"Hide filename labels on the composite."`
	Width       *int     `short:"W" help:"Canvas width (default: larger of the two inputs)."`
	Height      *int     `short:"H" help:"Canvas height (default: larger of the two inputs)."`
	FPS         *float64 `help:"Playback rate (default: mean of the two native rates)."`

	FFmpegPath  string `help:"Path to ffmpeg executable."`
	FFprobePath string `help:"Path to ffprobe executable."`

	Debug    bool   `short:"d" help:"Enable debug output."`
	DebugDir string `default:"./debug" help:"Directory for debug output."`

	LogLevel string `short:"l" default:"info" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)."`
	Quiet    bool   `short:"Q" help:"Suppress all log output."`
}

// CompareCmd runs the interactive comparison server.
type CompareCmd struct {
	compareFlags

	Listen      string `default:"127.0.0.1:8793" help:"Address for the preview server."`
	JPEGQuality int    `default:"85" help:"JPEG quality for streamed preview frames."`
	SnapshotDir string `default:"." help:"Directory for snapshots taken from the preview page."`
}

// SnapshotCmd exports one composited frame and exits.
type SnapshotCmd struct {
	compareFlags

	Frame  int    `short:"n" help:"Master frame index to export."`
	Output string `short:"o" required:"" help:"Output image path (.png, .jpg)."`
}

// ProbeCmd prints stream metadata.
type ProbeCmd struct {
	Video string `arg:"" help:"Video file to probe."`

	FFmpegPath  string `help:"Path to ffmpeg executable."`
	FFprobePath string `help:"Path to ffprobe executable."`
}

// VersionCmd shows version information.
type VersionCmd struct{}

var version = "dev"

func main() {
	cli := CLI{}

	ctx := kong.Parse(&cli,
		kong.Name("vidcomp"),
		kong.Description("Compare two video files frame by frame."),
		kong.UsageOnError(),
	)

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

// buildConfig merges the optional config file with CLI overrides.
func (f *compareFlags) buildConfig() (config.Config, error) {
	cfg := config.Defaults()
	if f.Config != "" {
		loaded, err := config.LoadFromFile(osfilesystem.New(), f.Config)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	cfg.VideoA = f.VideoA
	cfg.VideoB = f.VideoB
	cfg.Mode = f.Mode
	cfg.FrameOffset = f.FrameOffset
	cfg.Opacity = f.Opacity
	cfg.Split = f.Split
	if f.NoLabels {
		cfg.ShowLabels = false
	}
	if f.Width != nil {
		cfg.TargetWidth = *f.Width
	}
	if f.Height != nil {
		cfg.TargetHeight = *f.Height
	}
	if f.FPS != nil {
		cfg.FPS = *f.FPS
	}
	if f.FFmpegPath != "" {
		cfg.FFmpegPath = f.FFmpegPath
	}
	if f.FFprobePath != "" {
		cfg.FFprobePath = f.FFprobePath
	}
	cfg.Debug = f.Debug
	cfg.DebugDir = f.DebugDir
	return cfg, nil
}

func (f *compareFlags) buildLogger() ports.Logger {
	if f.Quiet {
		return logger.NewNoop()
	}
	return logger.NewConsole(ports.ParseLogLevel(f.LogLevel))
}

// buildEngine assembles the adapters and the player engine, and opens
// both streams.
func buildEngine(cfg config.Config, log ports.Logger) (*player.Engine, *webpresenter.Server, error) {
	fs := osfilesystem.New()
	renderer := ggrenderer.New()

	source := ffmpegsource.New(renderer, log, ffmpegsource.Options{
		FFmpegPath:  cfg.FFmpegPath,
		FFprobePath: cfg.FFprobePath,
	})
	if err := ffmpegsource.CheckInstalled(ffmpegsource.Options{FFmpegPath: cfg.FFmpegPath}); err != nil {
		return nil, nil, err
	}

	var sink ports.DebugSink
	if cfg.Debug {
		if err := fs.MkdirAll(cfg.DebugDir); err != nil {
			return nil, nil, fmt.Errorf("create debug directory: %w", err)
		}
		sink = filesink.New(cfg.DebugDir, fs, renderer)
	} else {
		sink = nullsink.New()
	}

	presenter := webpresenter.New(cfg.ListenAddr, renderer, log, cfg.JPEGQuality)

	compositor := compare.NewCompositor(renderer, compare.Options{
		TargetWidth:  cfg.TargetWidth,
		TargetHeight: cfg.TargetHeight,
		ShowLabels:   cfg.ShowLabels,
		Theme: compare.Theme{
			SeparatorColor: config.ParseColor(cfg.Theme.SeparatorColor),
			LabelColor:     config.ParseColor(cfg.Theme.LabelColor),
			ShadowColor:    config.ParseColor(cfg.Theme.ShadowColor),
			Background:     config.ParseColor(cfg.Theme.BackgroundColor),
		},
	})

	engine := player.New(source, compositor, presenter, renderer, fs, sink, log, player.Options{
		FetchTimeout: time.Duration(cfg.FetchTimeoutMs) * time.Millisecond,
		FPS:          cfg.FPS,
		SnapshotDir:  cfg.SnapshotDir,
		JPEGQuality:  cfg.JPEGQuality,
		Mode:         compare.ParseMode(cfg.Mode),
		Params: compare.Params{
			Split:   cfg.Split,
			Opacity: cfg.Opacity,
			ShowA:   true,
		},
		Offset: cfg.FrameOffset,
	})

	if err := engine.Open(cfg.VideoA, cfg.VideoB); err != nil {
		return nil, nil, err
	}
	compositor.SetLabels(engine.Streams())
	presenter.SetController(engine)

	return engine, presenter, nil
}

// Run executes the compare command.
func (cmd *CompareCmd) Run() error {
	cfg, err := cmd.buildConfig()
	if err != nil {
		return err
	}
	cfg.ListenAddr = cmd.Listen
	cfg.JPEGQuality = cmd.JPEGQuality
	cfg.SnapshotDir = cmd.SnapshotDir

	log := cmd.buildLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn(l10n.T("Interrupted, shutting down..."))
		cancel()
	}()

	engine, presenter, err := buildEngine(cfg, log)
	if err != nil {
		return err
	}
	defer engine.Close()

	// Run the preview server next to the playback loop; the first
	// failure or signal stops both.
	errCh := make(chan error, 2)
	go func() { errCh <- presenter.Start(ctx) }()
	go func() { errCh <- engine.Run(ctx) }()

	err = <-errCh
	cancel()
	<-errCh

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Run executes the snapshot command.
func (cmd *SnapshotCmd) Run() error {
	cfg, err := cmd.buildConfig()
	if err != nil {
		return err
	}

	log := cmd.buildLogger()

	engine, _, err := buildEngine(cfg, log)
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	path, err := engine.ExportFrame(ctx, cmd.Frame, cmd.Output)
	if err != nil {
		return err
	}
	fmt.Println(l10n.F("Snapshot saved to %s", path))
	return nil
}

// Run executes the probe command.
func (cmd *ProbeCmd) Run() error {
	log := logger.NewConsole(ports.LevelWarn)
	source := ffmpegsource.New(ggrenderer.New(), log, ffmpegsource.Options{
		FFmpegPath:  cmd.FFmpegPath,
		FFprobePath: cmd.FFprobePath,
	})

	stream, err := source.Open(cmd.Video)
	if err != nil {
		// Without ffprobe an MP4 can still be probed from its boxes.
		if info, mp4Err := mp4probe.ProbeFile(cmd.Video); mp4Err == nil {
			fmt.Println(l10n.F("%s: %dx%d, %d frames, %.2f fps",
				cmd.Video, info.Width, info.Height, info.FrameCount, info.FrameRate))
			return nil
		}
		return err
	}
	defer source.Close(stream)

	fmt.Println(l10n.F("%s: %dx%d, %d frames, %.2f fps",
		stream.Path, stream.Width, stream.Height, stream.FrameCount, stream.FrameRate))
	return nil
}

// Run executes the version command.
func (cmd *VersionCmd) Run() error {
	fmt.Println(l10n.F("vidcomp version %s", version))
	return nil
}
