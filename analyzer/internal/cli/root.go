package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X .../cli.Version=...".
var Version = "dev"

// app carries flag values and I/O shared by the subcommands.
type app struct {
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time

	logFormat string
	logLevel  string
}

// NewRootCommand returns the analyzer command tree wired to the process streams.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWithIO(os.Stdout, os.Stderr)
}

// NewRootCommandWithIO returns the analyzer command tree writing to out and errOut.
func NewRootCommandWithIO(out, errOut io.Writer) *cobra.Command {
	a := &app{stdout: out, stderr: errOut, now: time.Now}

	cmd := &cobra.Command{
		Use:           "analyzer",
		Short:         "Count temperature drift, vibration and voltage drop anomalies in sensor test data",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			logger, err := newLogger(a.stderr, a.logFormat, a.logLevel)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			return nil
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	cmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "text", "log format: text | json")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "log level: debug | info | warn | error")

	cmd.AddCommand(newAnalyzeCmd(a), newVersionCmd(a))
	return cmd
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the analyzer version",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			_, err := fmt.Fprintln(a.stdout, Version)
			return err
		},
	}
}

// newLogger builds the slog logger for the chosen format and level.
func newLogger(w io.Writer, format, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q", level)
	}

	switch strings.ToLower(format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})), nil
	case "text", "":
		return slog.New(tint.NewHandler(w, &tint.Options{Level: lvl, TimeFormat: time.TimeOnly})), nil
	default:
		return nil, fmt.Errorf("invalid --log-format %q", format)
	}
}
