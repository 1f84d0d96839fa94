/*
Copyright © 2026 Reliefline Authors <license@reliefline.org>
*/
package main

import (
	"os"

	"github.com/reliefline/sos-inbox/cmd"
	"github.com/reliefline/sos-inbox/internal/colors"
	"github.com/reliefline/sos-inbox/internal/logging"
)

func main() {
	os.Exit(run(os.Args[1:], cmd.Execute))
}

// run executes the CLI with args and returns the process exit code.
func run(args []string, execute func() error) int {
	cmd.RootCmd.SetArgs(args)
	err := execute()

	logger := logging.GetGlobal()
	if cerr := inboxClient.Close(); cerr != nil {
		logger.Warn("closing storage", "error", cerr)
	}
	code := 0
	if err != nil {
		colors.Error(err.Error())
		code = 1
	} else {
		logger.Debug("command completed", "args", args)
	}
	_ = logging.ShutdownGlobal()
	return code
}
