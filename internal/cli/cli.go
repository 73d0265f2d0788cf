package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/confboot/internal/app"
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
	flagSet := flag.NewFlagSet("confboot", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
ConfBoot - layered configuration resolution and conditional module selection.

Usage:
  confboot [options]

Options:
`)
		flagSet.PrintDefaults()
	}

	locationFlag := flagSet.String("location", "", "Comma-separated config locations, overriding the default search path.")
	profilesFlag := flagSet.String("profiles", "", "Comma-separated additional profiles to activate.")
	registryFlag := flagSet.String("registry", "", "Path to the module candidates registry file.")
	metadataFlag := flagSet.String("metadata", "", "Path to the precomputed condition metadata index.")
	typesFlag := flagSet.String("types", "", "Path to the present-types manifest.")
	entryPointFlag := flagSet.String("entry-point", "", "Registry key selecting the candidate list.")
	ignoreNotFoundFlag := flagSet.Bool("ignore-not-found", false, "Warn instead of failing when a required config location is missing.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

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

	if *metadataFlag != "" && *registryFlag == "" {
		return nil, false, &ExitError{Code: 2, Message: "-metadata requires -registry"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		Locations:      splitList(*locationFlag),
		Profiles:       splitList(*profilesFlag),
		RegistryPath:   *registryFlag,
		MetadataPath:   *metadataFlag,
		TypesPath:      *typesFlag,
		EntryPointKey:  *entryPointFlag,
		IgnoreNotFound: *ignoreNotFoundFlag,
		LogFormat:      logFormat,
		LogLevel:       logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

// splitList splits a comma-separated flag value, dropping empty elements.
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
