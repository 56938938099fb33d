// Command tvnav-page prints the catalog page that tvnav navigates, for
// checking layout and selectors in a browser.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"tvnav/internal/catalog"
	"tvnav/internal/config"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "tvnav-page: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("tvnav-page", pflag.ContinueOnError)
	configPath := fs.StringP("config", "c", "", "Path to the config file (default: user config dir)")
	file := fs.StringP("catalog", "f", "", "Titles file (default: from config)")
	columns := fs.Int("columns", 0, "Number of tile columns (default: from config)")
	tilesOnly := fs.Bool("tiles", false, "Print only the tile markup")
	samples := fs.Bool("samples", false, "Use the built-in sample titles")
	if err := fs.Parse(args); err != nil {
		return err
	}

	configSvc := config.NewConfigService()
	if *configPath != "" {
		configSvc = config.NewConfigServiceAt(*configPath)
	}
	cfg, err := configSvc.Load()
	if err != nil {
		return err
	}
	if *file != "" {
		cfg.Catalog.File = *file
	}
	if *columns > 0 {
		cfg.Catalog.Columns = *columns
	}

	titles := catalog.SampleTitles()
	if !*samples {
		if titles, err = catalog.LoadTitles(cfg.Catalog.File); err != nil {
			return err
		}
	}

	layout := catalog.LayoutFromConfig(cfg.Catalog)
	if *tilesOnly {
		markup, err := catalog.RenderTiles(titles, layout)
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, markup)
		return err
	}
	return catalog.RenderPage(out, titles, layout)
}
