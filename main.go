package main

import (
	"os"

	"github.com/sitetoc/sitetoc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
