package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/uxscan/uxscan/internal/rulebook"
)

var rulesRulebookPath string

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Print the active design-system rulebook",
		Long: `Print the rulebook the audit commands would use, as YAML.

Useful as a starting point for a rulebook overlay: dump the built-in rules,
edit the parts that differ for your design system, and pass the result back
with --rulebook.

Examples:
  # Dump the built-in rulebook
  uxscan rules

  # Show the effective rules after applying an overlay
  uxscan rules --rulebook design-rules.yaml > effective.yaml`,
		RunE: runRules,
	}

	cmd.Flags().StringVar(&rulesRulebookPath, "rulebook", "",
		"Path to a YAML rulebook overlay")

	return cmd
}

func runRules(cmd *cobra.Command, args []string) error {
	rb := rulebook.Default()
	if rulesRulebookPath != "" {
		loaded, err := rulebook.LoadFromFile(rulesRulebookPath)
		if err != nil {
			return fmt.Errorf("failed to load rulebook: %w", err)
		}
		rb = loaded
	}

	data, err := yaml.Marshal(rb)
	if err != nil {
		return fmt.Errorf("failed to marshal rulebook: %w", err)
	}

	_, err = os.Stdout.Write(data)
	return err
}
