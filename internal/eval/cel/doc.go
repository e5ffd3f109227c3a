// Package cel provides a CEL (Common Expression Language) evaluator for rule-based answers.
//
// CEL is a non-Turing complete expression language that provides fast, safe evaluation
// of conditions. The rules responder uses it to answer tree questions without a model.
//
// Example usage:
//
//	evaluator := cel.NewEvaluator()
//
//	vars := map[string]interface{}{
//	    "prompt":  "Question: Is this a refund request?",
//	    "options": []string{"yes", "no"},
//	}
//
//	matched, err := evaluator.EvaluateBool(ctx, "prompt.contains('refund')", vars)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Supported operations:
//   - Comparisons: ==, !=, <, <=, >, >=
//   - Boolean logic: &&, ||, !
//   - String operations: contains, startsWith, endsWith, matches
//   - String extensions: lowerAscii, upperAscii, trim, split, replace, indexOf
//   - List operations: in, size
package cel
