package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aescanero/dago-node-classifier/internal/classifier"
	"github.com/aescanero/dago-node-classifier/internal/config"
	"github.com/aescanero/dago-node-classifier/internal/eval/template"
	"github.com/aescanero/dago-node-classifier/internal/responder"
	"github.com/aescanero/dago-node-classifier/internal/tree"
	"github.com/caarlos0/env/v10"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var classifyFlags struct {
	tree      string
	text      string
	responder string
	model     string
	all       bool
	format    string
}

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify text with a decision tree",
	Long: `Classify text by walking a decision tree from its root to a label.

The text is read from --text, or from stdin when --text is not set. The
tree, responder and model default to the TREE_NAME, RESPONDER and LLM_*
environment variables used by the worker.

Examples:
  # Classify with the only tree in the file
  tree-classify classify --config trees.yaml --text "I love it"

  # Pick a tree and answer questions with the configured rules only
  tree-classify classify -c trees.yaml --tree sentiment --responder rules --text "great"

  # Run every tree and print JSON
  tree-classify classify -c trees.yaml --all --format json < review.txt`,
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().StringVar(&classifyFlags.tree, "tree", "", "tree to use (defaults to TREE_NAME; required when the file defines several)")
	classifyCmd.Flags().StringVar(&classifyFlags.text, "text", "", "text to classify (reads stdin when empty)")
	classifyCmd.Flags().StringVar(&classifyFlags.responder, "responder", "", "responder: llm, ollama, openai, rules, first")
	classifyCmd.Flags().StringVar(&classifyFlags.model, "model", "", "model name for model-backed responders")
	classifyCmd.Flags().BoolVar(&classifyFlags.all, "all", false, "classify with every tree")
	classifyCmd.Flags().StringVar(&classifyFlags.format, "format", "text", "output format: text, json")
}

func runClassify(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	text, err := readText(classifyFlags.text, cmd.InOrStdin())
	if err != nil {
		return err
	}

	cfg, err := cliConfig()
	if err != nil {
		return err
	}

	c, err := buildClassifier(cfg, logger)
	if err != nil {
		return err
	}

	var results []*tree.Result
	if classifyFlags.all {
		results, err = c.ClassifyAll(cmd.Context(), text)
	} else {
		var result *tree.Result
		result, err = c.Classify(cmd.Context(), text, classifyFlags.tree)
		results = []*tree.Result{result}
	}
	if err != nil {
		return err
	}

	return printResults(cmd.OutOrStdout(), results, classifyFlags.format)
}

// readText returns the text flag, or all of stdin when the flag is empty.
func readText(flag string, stdin io.Reader) (string, error) {
	text := flag
	if text == "" && stdin != nil {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(data)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("no text provided: use --text or pipe text on stdin")
	}
	return text, nil
}

// cliConfig reads the responder settings from the environment and applies the
// command-line overrides. Worker-only settings are not validated.
func cliConfig() (*config.Config, error) {
	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.TreesFile = cfgFile
	if classifyFlags.responder != "" {
		cfg.Responder = classifyFlags.responder
	}
	if classifyFlags.model != "" {
		cfg.LLMModel = classifyFlags.model
	}

	return cfg, nil
}

func buildClassifier(cfg *config.Config, logger *zap.Logger) (*classifier.Classifier, error) {
	file, registry, err := config.LoadTrees(cfg.TreesFile)
	if err != nil {
		return nil, err
	}

	prompter, err := template.ParsePrompter(template.NewEngine(), cfg.PromptTemplate)
	if err != nil {
		return nil, err
	}

	r, err := responder.New(cfg, file.Rules, logger)
	if err != nil {
		return nil, err
	}

	opts := []classifier.Option{classifier.WithPrompter(prompter)}
	if cfg.TreeName != "" {
		opts = append(opts, classifier.WithDefaultTree(cfg.TreeName))
	}

	return classifier.New(registry, r, logger, opts...)
}

func printResults(w io.Writer, results []*tree.Result, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if len(results) == 1 {
			return encoder.Encode(results[0])
		}
		return encoder.Encode(results)

	case "text":
		for i, result := range results {
			if i > 0 {
				fmt.Fprintln(w)
			}
			if len(results) > 1 {
				fmt.Fprintf(w, "Tree:  %s\n", result.Tree)
			}
			fmt.Fprintf(w, "Label: %s\n", result.Label)
			fmt.Fprintln(w, "Path:")
			for _, step := range result.Steps {
				marker := ""
				if step.Fallback {
					marker = fmt.Sprintf(" (answer %q did not match)", step.Answer)
				}
				fmt.Fprintf(w, "  %s -> %s%s\n", step.Question, step.Branch, marker)
			}
		}
		return nil
	}

	return fmt.Errorf("unsupported format: %s", format)
}
