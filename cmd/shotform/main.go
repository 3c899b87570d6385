// Command shotform analyzes an offline pose capture (JSONL) and prints the
// resulting report as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/hooplab/shotform/internal/analysis"
	"github.com/hooplab/shotform/internal/charts"
	"github.com/hooplab/shotform/internal/config"
	"github.com/hooplab/shotform/internal/metrics"
	"github.com/hooplab/shotform/internal/monitoring"
	"github.com/hooplab/shotform/internal/pose"
)

var (
	capturePath = flag.String("capture", "", "Path to a JSONL pose capture (required)")
	fps         = flag.Float64("fps", 30, "Frame rate of the source video")
	shooting    = flag.String("shooting", "right", "Shooting hand: left or right")
	configPath  = flag.String("config", "", "Ideal-shot config path (built-in defaults when empty)")
	shoulderOn  = flag.Bool("shoulder-alignment", false, "Enable the shoulder-alignment detector")
	plotDir     = flag.String("plot-dir", "", "Write metric-series PNG plots to this directory")
	timeout     = flag.Duration("timeout", 2*time.Minute, "Overall processing time cap")
	verbose     = flag.Bool("v", false, "Verbose logging")
)

func main() {
	flag.Parse()
	if *capturePath == "" {
		flag.Usage()
		log.Fatal("-capture is required")
	}
	monitoring.SetDebug(*verbose)

	side := pose.SideRight
	switch *shooting {
	case "right":
	case "left":
		side = pose.SideLeft
	default:
		log.Fatalf("invalid -shooting %q: want left or right", *shooting)
	}

	frames, err := pose.ReadJSONLFile(*capturePath)
	if err != nil {
		log.Fatalf("read capture: %v", err)
	}

	flags := config.DefaultDetectorFlags()
	flags.ShoulderAlignment = *shoulderOn
	ideals := config.LoadOrDefault(*configPath)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	report, err := analysis.New(ideals, flags).Analyze(ctx, analysis.Input{
		Frames:   frames,
		FPS:      *fps,
		Shooting: side,
	})
	if err != nil {
		log.Fatalf("analyze: %v", err)
	}

	if *plotDir != "" {
		writePlots(frames, side, *plotDir)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		log.Fatalf("write report: %v", err)
	}
}

func writePlots(frames []pose.Frame, side pose.Side, dir string) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Fatalf("create plot dir: %v", err)
	}
	series := metrics.NewExtractor(side, *fps).ExtractAll(frames)
	if err := charts.MetricSeriesPNG(series, filepath.Join(dir, "angles.png")); err != nil {
		log.Printf("angle plot: %v", err)
	}
	if err := charts.VelocitySeriesPNG(series, filepath.Join(dir, "velocity.png")); err != nil {
		log.Printf("velocity plot: %v", err)
	}
}
