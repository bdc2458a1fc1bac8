package main

import (
	"os"

	"github.com/soundprediction/medgraph/cmd/medgraph"
)

func main() {
	if err := medgraph.Execute(); err != nil {
		os.Exit(1)
	}
}
