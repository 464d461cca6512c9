package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/viant/posts"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Config   string
	LogLevel string
	Format   string // "json" | "text"
}

// ValidFormats defines the allowed log formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the posts CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "posts",
		Short:         "In-memory post collection",
		Long:          "Serves an append-only, in-memory post collection with skip/limit pagination.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.Config, "config", "c", "", "config URL (file, mem, any afs scheme)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level override (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "log format (json|text)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// newLogger builds the process logger from config, honouring the --log-level override.
func newLogger(opts *RootOptions, config *posts.Config) (*slog.Logger, error) {
	logConfig := config.Log
	if opts.LogLevel != "" {
		logConfig.Level = opts.LogLevel
	}
	level, err := logConfig.SlogLevel()
	if err != nil {
		return nil, err
	}
	handlerOptions := &slog.HandlerOptions{Level: level}
	if opts.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, handlerOptions)), nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, handlerOptions)), nil
}

// NewVersionCommand prints the service version.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", posts.Name, posts.Version)
			return err
		},
	}
}
