package main

import (
	"fmt"
	"os"

	"github.com/awnumar/memguard"

	"github.com/schubergphilis/lastpassreportingcli/cmd/lastpass-report/commands"
	"github.com/schubergphilis/lastpassreportingcli/internal/config"
	lperrors "github.com/schubergphilis/lastpassreportingcli/internal/errors"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Wipe enclave material on interrupt and before any exit path.
	memguard.CatchInterrupt()
	defer memguard.Purge()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", lperrors.SimplifyError(err))
		memguard.SafeExit(1)
	}
}

func run() error {
	cfg := &config.Config{}
	root := commands.NewRootCommand(cfg, fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date))
	return root.Execute()
}
