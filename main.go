package main

import (
	"os"

	"github.com/stemlab/exploratorium/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
