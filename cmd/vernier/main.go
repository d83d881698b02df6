package main

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"codeberg.org/mutker/vernier/internal/app"
	"codeberg.org/mutker/vernier/internal/config"
	"codeberg.org/mutker/vernier/internal/errors"
	"codeberg.org/mutker/vernier/internal/journal"
	"codeberg.org/mutker/vernier/internal/logger"
	"codeberg.org/mutker/vernier/internal/pid"
	"codeberg.org/mutker/vernier/internal/precision"
	"github.com/gdamore/tcell/v2"
	"github.com/spf13/pflag"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "vernier: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func errorCode(err error) string {
	if code, ok := errors.CodeOf(err); ok {
		return string(code)
	}
	return string(errors.ErrInternal)
}

// exitCode separates usage errors (2) and a second instance (3) from
// runtime failures (1).
func exitCode(err error) int {
	code, ok := errors.CodeOf(err)
	switch {
	case !ok:
		return 1
	case code == errors.ErrAlreadyRunning:
		return 3
	case code == errors.ErrBindFlags, code == errors.ErrInvalidConfig, code == errors.ErrReadConfig,
		code == errors.ErrInvalidLogLevel:
		return 2
	default:
		return 1
	}
}

func run() (err error) {
	cfg, err := config.Load()
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	interactive := cfg.Render == "" && cfg.History <= 0
	closeLog, err := initLogger(cfg, interactive)
	if err != nil {
		return err
	}
	defer closeLog()
	defer func() {
		if err != nil {
			logger.Error().Err(err).Str("error_code", errorCode(err)).Msg("Exiting with error")
		}
	}()

	log := logger.Default()
	log.Debug().Msg("Config loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	if cfg.Render != "" {
		return render(cfg, log)
	}

	jcfg := journalConfig(cfg)
	if cfg.History > 0 {
		// reading history needs the database even if recording is off
		jcfg.Enabled = true
	}
	rec, err := journal.NewService(jcfg, log.With("journal"))
	if err != nil {
		return err
	}
	defer func() {
		if err := rec.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close journal")
		}
	}()

	if cfg.History > 0 {
		return printHistory(ctx, cfg, rec)
	}

	if rec.Enabled() {
		lock := pid.PathFor(jcfg.DBPath)
		if err := pid.Write(lock); err != nil {
			return err
		}
		defer func() {
			if err := pid.Remove(lock); err != nil {
				log.Error().Err(err).Msg("Failed to remove PID file")
			}
		}()
	}

	return interact(ctx, cfg, rec, log)
}

func initLogger(cfg *config.Config, interactive bool) (func(), error) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	var out io.Writer
	closeFn := func() {}
	switch {
	case cfg.LogFile != "":
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, errors.New().Wrap(errors.ErrInitFailed, err)
		}
		out = f
		closeFn = func() { f.Close() }
	case interactive:
		// the screen owns the terminal
		out = io.Discard
	}

	logger.Init(level, logger.IsService(), out)
	return closeFn, nil
}

func journalConfig(cfg *config.Config) journal.Config {
	return journal.Config{
		DBPath:       cfg.Journal.Path,
		BatchSize:    cfg.Journal.BatchSize,
		BatchTimeout: cfg.Journal.BatchTimeout,
		Enabled:      cfg.Journal.Enabled,
	}
}

func interact(ctx context.Context, cfg *config.Config, rec journal.Recorder, log logger.Logger) error {
	errFactory := errors.New()

	p, err := app.Build(cfg, log)
	if err != nil {
		return err
	}
	p.Controller.OnChange(journal.Subscriber(ctx, rec, log.With("journal")))

	screen, err := tcell.NewScreen()
	if err != nil {
		return errFactory.Wrap(errors.ErrInitTerm, err)
	}
	if err := screen.Init(); err != nil {
		return errFactory.Wrap(errors.ErrInitTerm, err)
	}

	runErr := app.Run(ctx, screen, p.Controller, p.Surface, p.Label)
	screen.Fini()
	if runErr != nil {
		return errFactory.Wrap(errors.ErrMainLoop, runErr)
	}

	text, ok := p.Controller.Formatted()
	if !ok {
		text = strconv.FormatFloat(p.Controller.Value(), 'g', -1, 64)
	}
	fmt.Println(text)

	log.Info().Float64("value", p.Controller.Value()).Msg("Exiting...")
	return nil
}

func render(cfg *config.Config, log logger.Logger) error {
	errFactory := errors.New()

	p, err := app.Build(cfg, log)
	if err != nil {
		return err
	}

	img, err := p.Controller.TickBar(cfg.RenderHeight)
	if err != nil {
		return err
	}

	f, err := os.Create(cfg.Render)
	if err != nil {
		return errFactory.Wrap(errors.ErrWriteFile, err)
	}

	if err := encode(f, cfg.Render, img); err != nil {
		f.Close()
		return errFactory.Wrap(errors.ErrWriteFile, err)
	}
	if err := f.Close(); err != nil {
		return errFactory.Wrap(errors.ErrWriteFile, err)
	}

	b := img.Bounds()
	log.Info().
		Str("path", cfg.Render).
		Int("width", b.Dx()).
		Int("height", b.Dy()).
		Msg("Tick bar rendered")

	return nil
}

// encode picks the image format from the file extension, PNG by default.
func encode(w io.Writer, path string, img image.Image) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		return bmp.Encode(w, img)
	case ".tif", ".tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return png.Encode(w, img)
	}
}

func printHistory(ctx context.Context, cfg *config.Config, rec journal.Recorder) error {
	entries, err := rec.Entries(ctx, cfg.History)
	if err != nil {
		return err
	}

	format := precision.ForRange(cfg.Min, cfg.Max)
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, e := range entries {
		text, ok := format.Format(e.Value)
		if !ok {
			text = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Timestamp.Format(time.RFC3339), text, e.Origin)
	}
	return tw.Flush()
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}
