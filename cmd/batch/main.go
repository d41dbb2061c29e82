package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	cli "github.com/urfave/cli/v3"

	"playtrack/internal/batch"
	"playtrack/internal/export"
	"playtrack/internal/project"
	"playtrack/internal/track"
)

func main() {
	_ = godotenv.Load()

	app := &cli.Command{
		Name:  "playtrack-batch",
		Usage: "Track marked subjects and export rendered videos for every clip in a marks file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "marks",
				Aliases: []string{"m"},
				Usage:   "JSON file describing videos and their marked targets",
				Value:   "marks.json",
			},
			&cli.StringFlag{
				Name:    "output-dir",
				Aliases: []string{"o"},
				Usage:   "Directory where exported videos will be written",
				Value:   "exports",
			},
			&cli.Float64Flag{
				Name:  "max-duration",
				Usage: "Maximum accepted clip length in seconds",
				Value: project.DefaultMaxDurationSeconds,
			},
			&cli.StringFlag{
				Name:  "tracker",
				Usage: "Tracker implementation: csrt or kcf",
				Value: string(track.KindCSRT),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			maxDuration := cmd.Float64("max-duration")
			if maxDuration <= 0 {
				return cli.Exit("max-duration must be greater than zero", 2)
			}

			kind := track.Kind(cmd.String("tracker"))
			if kind != track.KindCSRT && kind != track.KindKCF {
				return cli.Exit("tracker must be csrt or kcf", 2)
			}

			return runBatch(ctx, cmd.String("marks"), cmd.String("output-dir"), maxDuration, kind)
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func runBatch(ctx context.Context, marksPath, outputDir string, maxDuration float64, kind track.Kind) error {
	marks, err := project.LoadMarks(marksPath)
	if err != nil {
		return err
	}

	manager := project.NewManager(nil)
	manager.MaxDurationSeconds = maxDuration
	loaded, err := manager.ApplyMarks(marks)
	if err != nil {
		return err
	}
	log.Printf("Loaded %d of %d videos from %s", len(loaded), len(marks.Videos), marksPath)

	cfg := track.DefaultConfig()
	cfg.Tracker = kind

	runner := batch.NewRunner(track.NewEngine(cfg), export.NewExporter(), outputDir)
	runner.Hooks = batch.Hooks{
		ProjectStarted: func(index, total int, p *project.Project) {
			log.Printf("[%d/%d] %s", index+1, total, p.DisplayName())
		},
		Progress: func(p *project.Project, phase string, done, total int) {
			if total > 0 && done%100 == 0 {
				log.Printf("  %s %d/%d frames", phase, done, total)
			}
		},
		ProjectFinished: func(p *project.Project, err error) {
			switch {
			case err != nil:
				log.Printf("  failed: %v", err)
			case p.Status == project.StatusSkipped:
				log.Printf("  skipped: %s", p.LastError)
			default:
				log.Printf("  exported to %s", p.OutputPath)
			}
		},
	}

	preSkipped := manager.SkipUnmarked()
	if preSkipped > 0 {
		log.Printf("Skipping %d videos with no marked targets", preSkipped)
	}
	queue := manager.ExportQueue()
	if len(queue) == 0 && preSkipped == 0 {
		return cli.Exit("no videos ready for export", 1)
	}

	sum, runErr := runner.Run(ctx, queue)
	sum.Total += preSkipped
	sum.Skipped += preSkipped
	log.Printf("Batch finished: %d exported, %d failed, %d skipped of %d",
		sum.Succeeded, sum.Failed, sum.Skipped, sum.Total)
	if runErr != nil {
		return fmt.Errorf("batch interrupted: %w", runErr)
	}
	if sum.Failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d videos failed", sum.Failed, sum.Total), 1)
	}
	return nil
}
