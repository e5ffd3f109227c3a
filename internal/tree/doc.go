// Package tree implements decision trees whose questions are answered by a
// Responder instead of by code.
//
// A tree is built once from configuration and never changes. Question nodes hold
// an ordered list of branches; terminal nodes hold a label. Classification starts
// at the root, asks the responder to pick one of the branch values, follows the
// matching branch and stops at the first terminal node.
//
// Example usage:
//
//	registry, err := tree.NewRegistry([]tree.TreeConfig{{
//	    Name: "sentiment",
//	    Root: tree.Question("Is the text positive?",
//	        tree.Option("yes", tree.Label("positive")),
//	        tree.Option("no", tree.Label("negative")),
//	    ),
//	}})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	t, err := registry.Select("sentiment")
//	label, err := t.Classify(ctx, "I love it", responder)
//
// An answer that is not one of the options follows the first branch and is
// reported as a fallback through the engine logger and Hooks.OnFallback.
// Responder errors are returned to the caller unchanged.
package tree
