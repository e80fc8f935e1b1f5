// Package main implements physio-replay, which runs a recorded pose stream
// through an exercise plan offline and prints the resulting session report.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	planPath   string
	framesPath string
	configPath string
	env        string
	jsonOutput bool
	logLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "physio-replay",
	Short: "Replay a recorded pose stream through an exercise plan",
	Long: `physio-replay feeds newline delimited pose observations through the
exercise engine on virtual time, so buffers and rest timers follow the frame
timestamps instead of the wall clock.

Examples:
  # Replay a recording against a plan
  physio-replay --plan plan.yaml --frames session.jsonl

  # Use the engine defaults of the production config and print JSON
  physio-replay --plan plan.yaml --frames session.jsonl --config config.toml --env prod --json`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE:          runReplay,
}

func init() {
	rootCmd.Flags().StringVar(&planPath, "plan", "", "path of the YAML exercise plan")
	rootCmd.Flags().StringVar(&framesPath, "frames", "", "path of the recorded observations (JSON lines)")
	rootCmd.Flags().StringVar(&configPath, "config", "", "optional TOML config to take engine defaults from")
	rootCmd.Flags().StringVar(&env, "env", "development", "config environment [prod | production | dev | development]")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the full result as JSON")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "warn", "log level")
	_ = rootCmd.MarkFlagRequired("plan")
	_ = rootCmd.MarkFlagRequired("frames")
}
