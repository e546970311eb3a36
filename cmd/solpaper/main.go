package main

import (
	"os"

	"github.com/letbuildnow/solPaper/cmd/solpaper/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
