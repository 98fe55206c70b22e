// Command chaossec runs the chaos and compliance loop from the terminal.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/chaossec"
	"github.com/zero-day-ai/chaossec/config"
	"github.com/zero-day-ai/chaossec/decision"
	"github.com/zero-day-ai/chaossec/evidence"
	"github.com/zero-day-ai/chaossec/history"
	"github.com/zero-day-ai/chaossec/llm"
	"github.com/zero-day-ai/chaossec/twin"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "chaossec",
		Short:         "Chaos engineering with compliance evidence",
		Long:          "chaossec injects controlled security faults, checks that compliance controls detect them, and packages the results as audit evidence.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to chaossec.yaml")

	root.AddCommand(newRunCmd(&configPath))
	root.AddCommand(newHistoryCmd(&configPath))
	return root
}

func newRunCmd(configPath *string) *cobra.Command {
	var iterations int
	var projectRoot string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute chaos and compliance iterations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if iterations > 0 {
				cfg.Iterations = iterations
			}
			if projectRoot != "" {
				cfg.ProjectRoot = projectRoot
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

			loop, err := buildLoop(cfg, logger)
			if err != nil {
				return err
			}

			summary := loop.Run(cmd.Context())

			out := json.NewEncoder(cmd.OutOrStdout())
			out.SetIndent("", "  ")
			if err := out.Encode(summary); err != nil {
				return err
			}
			if summary.Status == chaossec.RunErrored {
				return fmt.Errorf("run %s errored: %s", summary.RunID, summary.Error)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&iterations, "iterations", "n", 0, "number of iterations (overrides config)")
	cmd.Flags().StringVar(&projectRoot, "project-root", "", "directory to scan (overrides config)")
	return cmd
}

func newHistoryCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Summarize the execution history",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			store := history.NewStore(cfg.HistoryPath)
			out := json.NewEncoder(cmd.OutOrStdout())
			out.SetIndent("", "  ")
			return out.Encode(store.Analyze())
		},
	}
}

// buildLoop wires the loop's collaborators from the configuration.
func buildLoop(cfg *config.Config, logger *slog.Logger) (*chaossec.Loop, error) {
	client := llm.NewOpenAIClient(cfg.Model.Name, cfg.Model.APIKey,
		llm.WithBaseURL(cfg.Model.BaseURL))
	brain := decision.NewBrain(client, decision.WithLogger(logger))

	opts := []chaossec.Option{
		chaossec.WithLogger(logger),
		chaossec.WithDecider(brain),
	}

	sinks := []evidence.Sink{evidence.NewLocalSink(cfg.Evidence.Dir)}
	if cfg.Evidence.RedisURL != "" {
		redisSink, err := evidence.NewRedisSink(evidence.RedisOptions{URL: cfg.Evidence.RedisURL})
		if err != nil {
			return nil, fmt.Errorf("redis evidence sink: %w", err)
		}
		sinks = append(sinks, redisSink)
	}
	opts = append(opts, chaossec.WithSinks(sinks...))

	if cfg.Twin.Enabled {
		opts = append(opts, chaossec.WithTwinMirror(
			twin.NewClient(cfg.Twin.BaseURL, cfg.Twin.Token, twin.WithLogger(logger))))
	}

	return chaossec.NewLoop(cfg, opts...)
}
