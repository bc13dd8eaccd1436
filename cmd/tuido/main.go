package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/idilsaglam/tuido/internal/api"
	"github.com/idilsaglam/tuido/internal/cli"
	"github.com/idilsaglam/tuido/internal/config"
	"github.com/idilsaglam/tuido/internal/logging"
	"github.com/idilsaglam/tuido/internal/ui"
)

func main() {
	// Root flags (apply to every subcommand)
	groupPending := flag.Bool("group", false, "group show output by pending/done")
	apiURL := flag.String("api", "", "override the backend base URL")
	theme := flag.String("theme", "", "override the UI theme (classic|neon|mono)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		ui.Fail("config: " + err.Error())
		os.Exit(1)
	}
	if *apiURL != "" {
		cfg.API.BaseURL = *apiURL
	}
	if *theme != "" {
		cfg.UI.Theme = *theme
	}
	ui.SetTheme(cfg.UI.Theme)

	opts := logging.DefaultOptions()
	opts.Level = logging.ParseLevel(cfg.Log.Level)
	logger, closeLog, err := logging.New(cfg.Log.File, opts)
	if err != nil {
		ui.Fail("logging: " + err.Error())
		os.Exit(1)
	}
	client := api.New(cfg.API.BaseURL, time.Duration(cfg.API.Timeout)*time.Second, logger)

	code := cli.Run(flag.Args(), cli.Options{
		Group:  *groupPending,
		Client: client,
		Logger: logger,
	})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	closeLog()
	os.Exit(code)
}
