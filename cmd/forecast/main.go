// Command forecast runs one forecast and prints the report as JSON.
//
//	forecast -scenario Hiver -nurses 18 -masks 7 -simulate
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pitie-urgences/forecast/internal/pipeline"
	"github.com/pitie-urgences/forecast/internal/shared/config"
	apperrors "github.com/pitie-urgences/forecast/internal/shared/errors"
	"github.com/pitie-urgences/forecast/internal/shared/logger"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("forecast", flag.ContinueOnError)
	scenarioName := fs.String("scenario", "Normal", "scenario name")
	temperature := fs.Int("temperature", 0, "outdoor temperature (°C)")
	flu := fs.Int("flu", 0, "seasonal flu intensity (0-100)")
	prior := fs.Int("prior", 0, "prior-day admissions")
	occupancy := fs.Int("occupancy", 0, "prior-day critical-care occupancy (%)")
	nurses := fs.Int("nurses", 0, "available nurses")
	masks := fs.Int("masks", 0, "mask stock (days)")
	date := fs.String("date", "", "forecast date (YYYY-MM-DD), today when empty")
	simulate := fs.Bool("simulate", false, "use the heuristic even when a model is available")
	verbose := fs.Bool("v", false, "log to stderr")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}

	log := logger.Nop()
	if *verbose {
		if log, err = logger.New(cfg.Log.Mode); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
			return 1
		}
		defer log.Sync()
	}

	req := pipeline.Request{Scenario: *scenarioName, ForceSimulation: *simulate}

	// Only flags given on the command line override scenario defaults
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "temperature":
			req.Temperature = temperature
		case "flu":
			req.FluIntensity = flu
		case "prior":
			req.PriorAdmissions = prior
		case "occupancy":
			req.PriorOccupancy = occupancy
		case "nurses":
			req.AvailableNurses = nurses
		case "masks":
			req.MaskStockDays = masks
		}
	})

	if *date != "" {
		d, err := time.ParseInLocation("2006-01-02", *date, time.Local)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid date %q: %v\n", *date, err)
			return 2
		}
		req.Date = &d
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	engine := pipeline.NewFromConfig(ctx, cfg, log)
	report, err := engine.Run(ctx, req)
	if err != nil {
		var appErr *apperrors.AppError
		if apperrors.As(err, &appErr) && apperrors.Is(err, apperrors.ErrInvalidInput) {
			for field, reason := range appErr.Details {
				fmt.Fprintf(os.Stderr, "%s: %s\n", field, reason)
			}
			return 2
		}
		fmt.Fprintf(os.Stderr, "forecast failed: %v\n", err)
		return 1
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write report: %v\n", err)
		return 1
	}
	return 0
}
