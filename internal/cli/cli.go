package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/voxkit/voxdoc/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("voxdoc", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
voxdoc - a knowledge-base extractor for voice-command packages.

Usage:
  voxdoc [options] [PACKAGE_PATH]

Arguments:
  PACKAGE_PATH
    Path to the root of a voice-command package (.lua declaration files
    and .voice binding files).

Options:
`)
		flagSet.PrintDefaults()
	}

	packageFlag := flagSet.String("package", "", "Path to the package root.")
	pFlag := flagSet.String("p", "", "Path to the package root (shorthand).")
	nameFlag := flagSet.String("name", "user", "Namespace prefix for the package's files.")
	cacheFlag := flagSet.String("cache", "", "Path to extra serialised declarations to load before analysis.")
	outputFlag := flagSet.String("output", "", "Write the knowledge base to this path instead of stdout.")
	findFlag := flagSet.String("find", "", "Print the commands matching this spoken phrase instead of exporting.")
	fullmatchFlag := flagSet.Bool("fullmatch", false, "Require -find phrases to match whole rules, not just prefixes.")
	strictFlag := flagSet.Bool("strict", false, "Abort on the first recoverable analysis problem.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *packageFlag != "" {
		path = *packageFlag
	} else if *pFlag != "" {
		path = *pFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Package path determined.", "path", path)

	if path == "" {
		slog.Debug("No package path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		PackagePath: path,
		PackageName: *nameFlag,
		CachePath:   *cacheFlag,
		Output:      *outputFlag,
		Find:        *findFlag,
		FullMatch:   *fullmatchFlag,
		Strict:      *strictFlag,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.")
	return config, false, nil
}
