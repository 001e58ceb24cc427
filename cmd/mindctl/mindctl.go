package main

import (
	"os"

	"github.com/minimind-ai/minimind/internal/mindctl/cmd"
)

func main() {
	command := cmd.NewDefaultMindCtlCommand()
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}
