// Package classifier ties a tree registry, a responder and a default tree together.
//
// Example usage:
//
//	file, registry, err := config.LoadTrees("trees.yaml")
//	r, err := responder.New(cfg, file.Rules, logger)
//
//	c, err := classifier.New(registry, r, logger, classifier.WithDefaultTree("sentiment"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := c.Classify(ctx, "I love this product", "")
//	fmt.Println(result.Label)
//
// ClassifyAll runs every tree of the registry against the same text.
package classifier
