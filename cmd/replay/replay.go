package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/2beens/physiotrack/internal/config"
	"github.com/2beens/physiotrack/internal/exercise"
	"github.com/2beens/physiotrack/internal/logging"
	"github.com/2beens/physiotrack/internal/pose"
	"github.com/2beens/physiotrack/internal/session"
	"github.com/2beens/physiotrack/pkg"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func runReplay(cmd *cobra.Command, _ []string) error {
	logging.Setup(logging.LoggerSetupParams{LogLevel: logLevel})

	plan, err := loadPlan(planPath)
	if err != nil {
		return err
	}
	frames, err := loadFrames(framesPath)
	if err != nil {
		return err
	}
	defaults, err := engineDefaults(env, configPath)
	if err != nil {
		return err
	}

	log.Debugf("replaying %d frames through plan %q", len(frames), plan.Name)
	result, err := session.Replay(cmd.Context(), plan, defaults, frames)
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), result)
	}
	return writeText(cmd.OutOrStdout(), result)
}

func loadPlan(path string) (session.Plan, error) {
	if err := requireFile(path); err != nil {
		return session.Plan{}, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return session.Plan{}, fmt.Errorf("read plan: %w", err)
	}
	var plan session.Plan
	if err := yaml.Unmarshal(raw, &plan); err != nil {
		return session.Plan{}, fmt.Errorf("decode plan %s: %w", path, err)
	}
	return plan, nil
}

func loadFrames(path string) ([]pose.Observation, error) {
	if err := requireFile(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open frames: %w", err)
	}
	defer f.Close()

	frames, err := pose.ReadStream(f)
	if err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("no observations in %s", path)
	}
	return frames, nil
}

func engineDefaults(env, path string) (exercise.Timing, error) {
	if path == "" {
		return exercise.DefaultTiming(), nil
	}
	cfg, err := config.Load(env, path)
	if err != nil {
		return exercise.Timing{}, fmt.Errorf("load config: %w", err)
	}
	return cfg.Engine.Timing(), nil
}

func requireFile(path string) error {
	exists, err := pkg.PathExists(path, false)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("file %s does not exist", path)
	}
	return nil
}

func writeJSON(w io.Writer, result session.ReplayResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func writeText(w io.Writer, result session.ReplayResult) error {
	r := result.Report
	status := "unfinished"
	if r.Finished {
		status = "finished"
	}
	if _, err := fmt.Fprintf(w, "plan %q: %s, %d/%d reps\n", r.Plan, status, r.FinishedReps, r.TotalReps); err != nil {
		return err
	}
	for _, sum := range r.Exercises {
		outcome := "done"
		if sum.Abandoned {
			outcome = "abandoned"
		}
		_, err := fmt.Fprintf(w, "  %-20s %-6s sets %d/%d  reps %d/%d  bad %d  give-ups %d  %s\n",
			sum.Exercise, sum.Side, sum.CompletedSets, sum.TotalSets,
			sum.FinishedReps, sum.PlannedReps, sum.BadReps, sum.GiveUps, outcome)
		if err != nil {
			return err
		}
	}
	for _, ev := range result.Repetitions {
		_, err := fmt.Fprintf(w, "  rep %s %s set %d #%d good=%t give_up=%t in %s\n",
			ev.Exercise, ev.Side, ev.Set, ev.Rep, ev.Good, ev.GiveUp, ev.Duration)
		if err != nil {
			return err
		}
	}
	return nil
}
