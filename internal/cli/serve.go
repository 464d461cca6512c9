package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/viant/afs"
	"github.com/viant/posts"
	"github.com/viant/posts/model"
	"github.com/viant/posts/service/api"
	"github.com/viant/posts/service/event"
)

const shutdownTimeout = 10 * time.Second

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr     string
	ExportTo string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the posts HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address override")
	cmd.Flags().StringVar(&opts.ExportTo, "export-to", "", "URL receiving a JSON snapshot of the collection on shutdown")

	return cmd
}

func loadConfig(ctx context.Context, opts *RootOptions) (*posts.Config, error) {
	if opts.Config == "" {
		return posts.DefaultConfig(), nil
	}
	return posts.LoadConfig(ctx, afs.New(), opts.Config)
}

func runServe(ctx context.Context, opts *ServeOptions) error {
	config, err := loadConfig(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	if opts.Addr != "" {
		config.HTTP.Addr = opts.Addr
	}
	logger, err := newLogger(opts.RootOptions, config)
	if err != nil {
		return err
	}

	srv := posts.New(
		posts.WithConfig(config),
		posts.WithLogger(logger),
		posts.WithEventHandler(func(e *event.Event[model.Post]) error {
			logger.Debug("event", "type", e.Type(), "id", e.Data.ID)
			return nil
		}),
	)
	defer srv.Close()

	server := &http.Server{
		Addr:              config.HTTP.Addr,
		Handler:           api.NewHandler(srv, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", server.Addr)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err = <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err = server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
	}

	if opts.ExportTo != "" {
		return srv.Export(context.Background(), opts.ExportTo)
	}
	return nil
}
