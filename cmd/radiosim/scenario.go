package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// scenarioStep is one scheduled REPL command line, recovered from the
// prototype's scripted-demo pattern of scheduling commands ahead of time
// instead of typing them interactively.
type scenarioStep struct {
	AtMs    int    `yaml:"at_ms"`
	Command string `yaml:"command"`
}

type scenarioDoc struct {
	Steps []scenarioStep `yaml:"steps"`
}

func newScenarioCommand() *cobra.Command {
	var scenarioPath string
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Run a scripted sequence of commands against a fresh simulation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(scenarioPath)
		},
	}
	cmd.Flags().StringVar(&scenarioPath, "file", "", "path to the scenario YAML file (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runScenario(scenarioPath string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := newLogger(cfg.LogLevel)

	data, err := os.ReadFile(scenarioPath)
	if err != nil {
		return fmt.Errorf("read scenario %s: %w", scenarioPath, err)
	}
	var doc scenarioDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse scenario %s: %w", scenarioPath, err)
	}
	sort.SliceStable(doc.Steps, func(i, j int) bool { return doc.Steps[i].AtMs < doc.Steps[j].AtMs })

	_, registry, err := buildSystem(cfg.ConfigPath, cfg.RandomSeed, log)
	if err != nil {
		return err
	}
	proc := newCommandProcessor(registry)

	elapsedMs := 0
	for _, step := range doc.Steps {
		if gap := step.AtMs - elapsedMs; gap > 0 {
			registry.Tick(float64(gap) / 1000.0)
			elapsedMs = step.AtMs
		}
		fmt.Printf("[t=%dms] %s\n", step.AtMs, step.Command)
		proc.execute(step.Command)
	}

	for _, id := range registry.ZoneIDs() {
		zc, _ := registry.Zone(id)
		qs := zc.QueueStatus()
		fmt.Printf("zone %d final: now=%.3f active_calls=%d pending_events=%d queued_calls=%d\n",
			id, qs.Now, len(zc.ActiveCalls()), len(qs.NextEvents), len(qs.NextQueuedCalls))
	}
	return nil
}
