package main

import (
	"fmt"

	"github.com/aescanero/dago-node-classifier/internal/config"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a tree configuration file",
	Long: `Load a tree configuration file, build every tree and report its depth.

Examples:
  tree-classify validate --config trees.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	file, registry, err := config.LoadTrees(cfgFile)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d tree(s), %d rule(s)\n", cfgFile, registry.Len(), len(file.Rules))
	for _, t := range registry.Trees() {
		fmt.Fprintf(out, "  %s (depth %d)\n", t.Name, t.Depth())
	}

	return nil
}
