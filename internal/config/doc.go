// Package config provides configuration management for the classifier.
//
// Runtime configuration is loaded from environment variables and validated on startup.
// All configuration options have sensible defaults for development.
//
// Trees and answer rules live in a YAML file named by TREES_FILE:
//
//	trees:
//	  - name: sentiment
//	    root:
//	      question: Is the text positive?
//	      options:
//	        - value: "yes"
//	          next: {label: positive}
//	        - value: "no"
//	          next: {label: negative}
//	rules:
//	  - when: "prompt.contains('refund')"
//	    answer: "no"
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	file, registry, err := config.LoadTrees(cfg.TreesFile)
package config
