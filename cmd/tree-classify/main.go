// tree-classify classifies text with LLM-guided decision trees.
//
// Usage:
//
//	# Classify a sentence with the only tree in the file
//	tree-classify classify --config trees.yaml --text "I love this product"
//
//	# Classify stdin with a named tree and a local model
//	echo "The server is down" | tree-classify classify -c trees.yaml --tree topic --responder ollama --model llama3
//
//	# Check a tree file
//	tree-classify validate --config trees.yaml
package main

func main() {
	Execute()
}
