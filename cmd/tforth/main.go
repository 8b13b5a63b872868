package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/timbarnes/tforth/forth"
	"github.com/timbarnes/tforth/internal/forthio"
)

var (
	libraryPath string
	noLibrary   bool
	debugLevel  string
)

var rootCmd = &cobra.Command{
	Use:   "tforth [file]",
	Short: "An interactive Forth interpreter/compiler",
	Long: `tforth reads a stream of whitespace-delimited tokens, immediately
executing them or compiling them into named word definitions. Run with
no arguments for an interactive REPL, or name a source file to load it
before dropping into the REPL.`,
	Args: cobra.MaximumNArgs(1),
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVar(&libraryPath, "lib", "lib/core.fs", "core-library source file loaded at startup")
	rootCmd.Flags().BoolVar(&noLibrary, "nolib", false, "skip loading the core library")
	rootCmd.Flags().StringVar(&debugLevel, "debug", "warning", "diagnostic verbosity floor: debug, info, warning, error")
}

func levelFromFlag(s string) (forthio.Level, error) {
	switch s {
	case "debug":
		return forthio.LevelDebug, nil
	case "info":
		return forthio.LevelInfo, nil
	case "warning":
		return forthio.LevelWarning, nil
	case "error":
		return forthio.LevelError, nil
	default:
		return 0, errors.Errorf("unknown debug level %q", s)
	}
}

func run(_ *cobra.Command, args []string) error {
	level, err := levelFromFlag(debugLevel)
	if err != nil {
		return err
	}
	sink := newStderrSink(os.Stderr, level)
	src := forthio.NewConsoleLineSource(os.Stdin, os.Stdout)

	cfg := forth.Config{
		LibraryPath: libraryPath,
		NoLibrary:   noLibrary,
		DebugLevel:  level,
	}
	if len(args) == 1 {
		cfg.UserFile = args[0]
	}

	e, err := forth.New(
		forth.Stdout(os.Stdout),
		forth.Sink(sink),
		forth.Source(src),
		forth.FromConfig(cfg),
	)
	if err != nil {
		return errors.Wrap(err, "initializing interpreter")
	}
	if err := e.Boot(); err != nil {
		return errors.Wrap(err, "booting interpreter")
	}
	return e.REPL()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "tforth: %v\n", err)
		os.Exit(1)
	}
}
