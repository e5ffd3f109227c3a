// Package responder implements the decision backends consulted at each tree question.
//
// Every type here satisfies tree.Responder:
//   - LLM: asks a language model through a CompleteFunc and maps the raw answer onto
//     the option set. Completions exist for dago-adapters clients, Ollama (schema
//     constrained to the options) and OpenAI-compatible endpoints.
//   - Rules: deterministic answers from CEL conditions over the prompt.
//   - Hybrid: rules first, another responder when no rule applies.
//   - Retry: exponential backoff around a failing backend.
//   - First, Fixed, Sequence: static answers for dry runs and tests.
//
// Example usage:
//
//	cfg, _ := config.Load()
//	file, registry, _ := config.LoadTrees(cfg.TreesFile)
//
//	r, err := responder.New(cfg, file.Rules, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	label, err := t.Classify(ctx, text, r)
//
// Backend failures are returned as *tree.BackendError. Retries belong here, not
// in the tree: the traversal engine never retries.
package responder
