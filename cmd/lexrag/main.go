package main

import (
	"os"

	"github.com/blugen-labs/lexrag/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
