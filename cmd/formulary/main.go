package main

import (
	"os"

	"github.com/teranos/formulary/cmd/formulary/commands"
	"github.com/teranos/formulary/logger"
)

func main() {
	err := commands.RootCmd.Execute()
	logger.Cleanup()
	if err != nil {
		commands.ReportError(os.Stderr, err)
		os.Exit(1)
	}
}
