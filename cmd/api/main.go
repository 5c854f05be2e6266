// Command api runs the REST API server and its database migrations.
//
// Usage:
//
//	api serve     start the HTTP server
//	api migrate   apply pending database migrations and exit
//
// Configuration comes from environment variables (APP_ prefix); a .env
// file in the working directory is loaded automatically.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/migherize/go-api-boilerplate/internal/config"
	"github.com/migherize/go-api-boilerplate/internal/database"
	"github.com/migherize/go-api-boilerplate/internal/handler"
	"github.com/migherize/go-api-boilerplate/internal/lib/email"
	"github.com/migherize/go-api-boilerplate/internal/lib/utils"
	"github.com/migherize/go-api-boilerplate/internal/logger"
	"github.com/migherize/go-api-boilerplate/internal/middleware"
	"github.com/migherize/go-api-boilerplate/internal/repository"
	"github.com/migherize/go-api-boilerplate/internal/router"
	"github.com/migherize/go-api-boilerplate/internal/server"
	"github.com/migherize/go-api-boilerplate/internal/service"
)

const shutdownTimeout = 30 * time.Second

func main() {
	root := &cobra.Command{
		Use:           "api",
		Short:         "REST API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(serveCmd(), migrateCmd(), previewEmailCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var skipMigrations bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(skipMigrations)
		},
	}

	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false,
		"do not apply database migrations before serving")

	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			log, loggerService, err := logger.New(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer loggerService.Shutdown(5 * time.Second)

			return database.Migrate(cmd.Context(), log, cfg)
		},
	}
}

func previewEmailCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preview-email <template>",
		Short: "Render an email template with sample data and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			data, ok := email.PreviewData[name]
			if !ok {
				return fmt.Errorf("no preview data for template %q", name)
			}

			utils.PrintJSON(data)

			html, err := email.Render(email.Template(name), data)
			if err != nil {
				return err
			}

			fmt.Println(html)
			return nil
		},
	}
}

func runServe(skipMigrations bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, loggerService, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer loggerService.Shutdown(5 * time.Second)

	if !skipMigrations {
		if err := database.Migrate(context.Background(), log, cfg); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	s, err := server.New(cfg, log, loggerService)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	// Wire the layers bottom-up: repositories - services - handlers -
	// middleware - router.
	repos := repository.NewRepositories(s)
	services := service.NewServices(s, repos)
	handlers := handler.NewHandlers(s, services)
	middlewares := middleware.NewMiddlewares(s)

	s.SetupHTTPServer(router.New(s, handlers, middlewares))

	// Serve in the background so the main goroutine can wait for
	// termination signals.
	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown gracefully: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}
