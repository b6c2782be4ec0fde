package main

import (
	"os"

	"codeberg.org/rileyq/kaleido/cmd/kaleido/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
