package config

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"
)

// Options are the command line settings. Only flags given explicitly
// override values from the config file.
type Options struct {
	ConfigPath  string
	CatalogFile string
	Columns     int
	LogFile     string
	LogLevel    string
	MetricsAddr string
	NoWatch     bool

	changed map[string]bool
}

// ParseArgs parses command line arguments (without the program name)
func ParseArgs(args []string, output io.Writer) (Options, error) {
	var opts Options
	fs := pflag.NewFlagSet("tvnav", pflag.ContinueOnError)
	if output != nil {
		fs.SetOutput(output)
	}

	fs.StringVarP(&opts.ConfigPath, "config", "c", "", "Path to the config file (default: user config dir)")
	fs.StringVarP(&opts.CatalogFile, "catalog", "f", "", "Titles file to show")
	fs.IntVar(&opts.Columns, "columns", 0, "Number of tile columns")
	fs.StringVar(&opts.LogFile, "log-file", "", "Log file path")
	fs.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.MetricsAddr, "metrics-addr", "", "Serve prometheus metrics on this address")
	fs.BoolVar(&opts.NoWatch, "no-watch", false, "Do not reload the titles file when it changes")

	if err := fs.Parse(args); err != nil {
		return Options{}, fmt.Errorf("failed to parse flags: %w", err)
	}
	if fs.NArg() > 0 && opts.CatalogFile == "" {
		opts.CatalogFile = fs.Arg(0)
		fs.Lookup("catalog").Changed = true
	}

	opts.changed = make(map[string]bool)
	fs.Visit(func(f *pflag.Flag) {
		opts.changed[f.Name] = true
	})
	return opts, nil
}

// Changed reports whether a flag was given
func (o Options) Changed(name string) bool {
	return o.changed[name]
}

// Apply overrides cfg with every flag that was given
func (o Options) Apply(cfg *Config) {
	if o.Changed("catalog") {
		cfg.Catalog.File = o.CatalogFile
	}
	if o.Changed("columns") {
		cfg.Catalog.Columns = o.Columns
	}
	if o.Changed("log-file") {
		cfg.Logging.File = o.LogFile
	}
	if o.Changed("log-level") {
		cfg.Logging.Level = o.LogLevel
	}
	if o.Changed("metrics-addr") {
		cfg.Metrics.Addr = o.MetricsAddr
	}
	if o.Changed("no-watch") {
		cfg.Catalog.Watch = !o.NoWatch
	}
}
