//go:build !tinygo

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	"touchlamp/app"
	"touchlamp/hal"
	"touchlamp/internal/buildinfo"
)

var (
	backend  = "sim"
	headless = false
	hz       = 100
	ticks    uint64
	scale    = 2
	listen   = ":8080"
	logLevel = "info"

	cfg = app.DefaultConfig()
)

func init() {
	pflag.StringVar(&backend, "backend", backend, "board: sim or periph")
	pflag.BoolVar(&headless, "headless", headless, "run the emulated board without a window")
	pflag.IntVar(&hz, "hz", hz, "loop rate")
	pflag.Uint64Var(&ticks, "ticks", ticks, "stop after N ticks in headless mode (0 = run forever)")
	pflag.IntVar(&scale, "scale", scale, "window scale")
	pflag.StringVar(&listen, "listen", listen, "command channel address (empty disables it)")
	pflag.StringVar(&logLevel, "log-level", logLevel, "debug, info, warn or error")

	pflag.StringVar(&cfg.Title, "title", cfg.Title, "screen and status page title")
	pflag.StringVar(&cfg.Greeting, "greeting", cfg.Greeting, "screen greeting")
	pflag.IntVar(&cfg.Calibration.XMin, "cal-x-min", cfg.Calibration.XMin, "raw touch reading at the left edge")
	pflag.IntVar(&cfg.Calibration.XMax, "cal-x-max", cfg.Calibration.XMax, "raw touch reading at the right edge")
	pflag.IntVar(&cfg.Calibration.YMin, "cal-y-min", cfg.Calibration.YMin, "raw touch reading at the top edge")
	pflag.IntVar(&cfg.Calibration.YMax, "cal-y-max", cfg.Calibration.YMax, "raw touch reading at the bottom edge")
	pflag.BoolVar(&cfg.InvertX, "invert-x", cfg.InvertX, "mirror the touch x axis")
	pflag.BoolVar(&cfg.InvertY, "invert-y", cfg.InvertY, "mirror the touch y axis")
	pflag.IntVar(&cfg.Threshold, "threshold", cfg.Threshold, "minimum touch pressure")
}

func main() {
	log.SetFlags(0)
	pflag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		log.Fatalf("invalid --log-level: %v", err)
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}))
	slog.SetDefault(logger)
	logger.Info("touchlamp", "version", buildinfo.Short(), "backend", backend)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("touchlamp stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	newApp := func(h hal.HAL) func() error {
		return app.New(h, cfg)
	}
	host := hal.HostConfig{
		Listen:  listen,
		InvertX: cfg.InvertX,
		InvertY: cfg.InvertY,
		Logger:  logger,
	}

	switch backend {
	case "sim":
		if headless {
			return hal.RunHeadless(ctx, newApp, hal.HeadlessConfig{
				Enabled: true,
				Hz:      hz,
				Ticks:   ticks,
				Host:    host,
			})
		}
		return hal.RunWindow(newApp, hal.WindowConfig{Host: host, Scale: scale, Hz: hz})
	case "periph":
		h, closeBoard, err := openPeriph(logger)
		if err != nil {
			return err
		}
		defer closeBoard()
		return hal.RunHeadless(ctx, newApp, hal.HeadlessConfig{
			Enabled: true,
			Hz:      hz,
			Ticks:   ticks,
			HAL:     h,
		})
	default:
		return fmt.Errorf("unknown --backend %q", backend)
	}
}
