package main

import (
	"errors"
	"os"

	"github.com/mnafees/chopper/v2/internal/cli"
	"github.com/mnafees/chopper/v2/internal/config"
	"github.com/mnafees/chopper/v2/pkg/ebiten"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	opts, err := cli.ParseFlags("chopper-ebiten", os.Args[1:])
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

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	cli.PrintBanner(logger, "chopper-ebiten", opts, version, commit, date)

	machine, err := config.NewMachine(logger, opts)
	if err != nil {
		logger.Fatal(err.Error())
	}

	game, err := ebiten.NewGame(logger, machine, opts)
	if err != nil {
		logger.Fatal(err.Error())
	}
	if err := game.Run(ctx); err != nil {
		logger.Error("Emulation stopped", log.Err(err))
		os.Exit(1)
	}
}
