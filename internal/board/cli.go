package board

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"tarediiran-industries.com/departure-board/internal/common"
	"tarediiran-industries.com/departure-board/internal/config"
)

type Options struct {
	Version    bool
	ConfigPath string
	Config     config.Config
}

// ParseArgs layers the configuration: defaults, then the config file, then
// the environment, then any flag given on the command line.
func ParseArgs(programName string, args []string, errOut io.Writer) (Options, error) {
	var opts Options
	var railCode, metroCode string
	var refresh int

	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errOut)

	fs.Usage = func() {
		fmt.Fprintf(errOut, "Usage: %s [options]\n\n", programName)
		fmt.Fprintln(errOut, "Options")
		fs.PrintDefaults()
	}

	fs.BoolVar(&opts.Version, "version", false, "Prints CLI version")
	fs.StringVar(&opts.ConfigPath, "toml", "", "Configuration file (.toml, .yaml or .yml)")
	fs.StringVar(&railCode, "rail-code", "", "Rail station pair as two stop IDs, e.g. 12018-12015")
	fs.StringVar(&metroCode, "metro-code", "", "Metro station code, e.g. E09")
	fs.IntVar(&refresh, "refresh", 0, "Seconds between refreshes, 0 renders once and exits")

	if err := fs.Parse(args); err != nil {
		return Options{}, err
	}

	if opts.Version {
		fmt.Fprintf(errOut, "%s: version %s (%s)\n", programName, common.Version, common.GitCommit)
		return opts, flag.ErrHelp
	}

	if fs.NArg() > 0 {
		return Options{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	opts.Config = config.Default()
	if opts.ConfigPath != "" {
		if err := config.LoadFile(opts.ConfigPath, &opts.Config); err != nil {
			return Options{}, fmt.Errorf("load config %s: %w", opts.ConfigPath, err)
		}
	}
	opts.Config.ApplyEnvironment()

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "rail-code":
			opts.Config.RailCode = railCode
		case "metro-code":
			opts.Config.MetroCode = metroCode
		case "refresh":
			opts.Config.RefreshSeconds = refresh
		}
	})

	if err := opts.Config.Validate(); err != nil {
		return Options{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return opts, nil
}

func Main(programName string, args []string, out, errOut io.Writer) int {
	opts, err := ParseArgs(programName, args, errOut)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(errOut, "Error:", err)
		return -1
	}

	return Run(opts.Config)
}
