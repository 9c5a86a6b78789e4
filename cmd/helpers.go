package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/PolarWolf314/lumen/internal/configs"
	logger "github.com/PolarWolf314/lumen/internal/logging"
	"github.com/PolarWolf314/lumen/internal/ui"
)

// ErrReported is returned after a command has already printed why it failed.
// main exits non-zero without printing it again.
var ErrReported = errors.New("command failed")

var (
	verbose    bool
	debug      bool
	configPath string
	Logger     logger.Logger
)

// addCommonFlags registers the flags every command group shares and sets up
// the logger before any subcommand runs.
func addCommonFlags(group *cobra.Command) {
	group.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	group.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	group.PersistentFlags().StringVar(&configPath, "config", "", "path to config.toml (default: user config dir)")
	group.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		Logger = logger.Logger{
			Verbose: verbose,
			Debug:   debug,
			Scope:   cmd.CommandPath(),
		}
		Logger.Debugf("Initializing with verbose=%t, debug=%t", verbose, debug)
	}
}

// loadConfig reads config.toml from --config or the default location.
func loadConfig() (*configs.Config, error) {
	path := configPath
	if path == "" {
		path = configs.ConfigFilePath()
	}
	Logger.Debugf("Loading config from %s", path)
	cfg, err := configs.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	Logger.Debugf("Wallet backend %s, record %s", cfg.Wallet.Backend, cfg.Wallet.Record)
	return cfg, nil
}

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a function that should be deferred to clean up.
//
// IMPORTANT: spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// automatically calls ui.EnsureNewline() on the final message before printing it.
func startSpinner(message string) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	quiet := !verbose && !debug
	if quiet {
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		if quiet {
			log.SetOutput(os.Stderr)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if quiet {
			s.Stop()
		}

		// Print final message to stdout (for tests to capture).
		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// fail sets the spinner's final message from err and returns ErrReported, or
// returns err wrapped for debugging when it is not a known condition.
func fail(s *spinner.Spinner, err error) error {
	if msg, ok := describeError(err); ok {
		Logger.Debugf("Reported error: %v", err)
		s.FinalMSG = msg
		return ErrReported
	}
	return Logger.ErrorfAndReturn("%v", err)
}

// resetFlags clears flag values and their Changed markers so tests can run
// commands repeatedly.
func resetFlags(cmds ...*cobra.Command) {
	for _, c := range cmds {
		for _, fs := range []*pflag.FlagSet{c.Flags(), c.PersistentFlags()} {
			fs.VisitAll(func(flag *pflag.Flag) {
				if sv, ok := flag.Value.(pflag.SliceValue); ok {
					_ = sv.Replace(nil)
				} else {
					_ = flag.Value.Set(flag.DefValue)
				}
				flag.Changed = false
			})
		}
		resetFlags(c.Commands()...)
	}
}

// reportError prints a known failure directly, for errors hit before any
// spinner is running.
func reportError(err error) error {
	if msg, ok := describeError(err); ok {
		Logger.Debugf("Reported error: %v", err)
		fmt.Println(msg)
		return ErrReported
	}
	return Logger.ErrorfAndReturn("%v", err)
}
