package cli

import (
	"flag"
	"io"
)

const versionString = "0.1.0"
const defaultConfigPath = "./stylepass.toml"

type cliOptions struct {
	configPath   string
	once         bool
	stdout       bool
	history      bool
	historyLimit int
	verbose      bool
	version      bool
	args         []string
}

func parseOptions(args []string, output io.Writer) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("stylepass", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&opts.configPath, "config", defaultConfigPath, "Path to config file")
	fs.BoolVar(&opts.once, "once", false, "Run a single pass and exit instead of watching")
	fs.BoolVar(&opts.stdout, "stdout", false, "Print rewritten files to stdout instead of writing them (implies -once)")
	fs.BoolVar(&opts.history, "history", false, "Print recent runs from the history database and exit")
	fs.IntVar(&opts.historyLimit, "history-limit", 20, "Number of runs shown by -history")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}

	opts.args = fs.Args()
	if opts.stdout {
		opts.once = true
	}
	return opts, nil
}
