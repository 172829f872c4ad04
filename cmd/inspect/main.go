package main

import (
	"errors"
	"os"

	"github.com/mnafees/chopper/v2/internal/cli"
	"github.com/mnafees/chopper/v2/internal/config"
	"github.com/mnafees/chopper/v2/pkg/inspector"
	"github.com/retroenv/retrogolib/app"
)

func main() {
	ctx := app.Context()

	opts, err := cli.ParseFlags("chopper-inspect", os.Args[1:])
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			usageErr.ShowUsage()
		} else {
			logger.Fatal(err.Error())
		}
		os.Exit(1)
	}

	// the terminal belongs to the user interface, only report fatal problems
	logger := config.CreateLogger(false, true)

	machine, err := config.NewMachine(logger, opts)
	if err != nil {
		logger.Fatal(err.Error())
	}

	if err := inspector.New(logger, machine, opts).Run(ctx); err != nil {
		logger.Fatal(err.Error())
	}
}
