package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mnafees/chopper/v2/internal/cli"
	"github.com/mnafees/chopper/v2/internal/config"
	"github.com/mnafees/chopper/v2/internal/headless"
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

	opts, err := cli.ParseFlags("chopper-headless", os.Args[1:])
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
	cli.PrintBanner(logger, "chopper-headless", opts, version, commit, date)

	machine, err := config.NewMachine(logger, opts)
	if err != nil {
		logger.Fatal(err.Error())
	}

	res, err := headless.Run(ctx, logger, machine, opts)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			return
		}
		logger.Error("Emulation stopped", log.Err(err))
	}

	if !opts.Quiet {
		fmt.Print(res.Screen)
	}
	fmt.Printf("fb_crc32=%08x\n", res.CRC)

	if opts.Expect != "" {
		if err := headless.Verify(res.CRC, opts.Expect); err != nil {
			logger.Fatal(err.Error())
		}
	}
}
