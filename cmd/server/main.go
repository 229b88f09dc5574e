package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joshdurbin/url-shortener-dashboard/internal/app"
	"github.com/joshdurbin/url-shortener-dashboard/internal/config"
	"github.com/joshdurbin/url-shortener-dashboard/internal/logging"
	"github.com/joshdurbin/url-shortener-dashboard/internal/transport/client"
)

// tokenEnv supplies the session token to client commands when --token is unset
const tokenEnv = "DASHBOARD_TOKEN"

var rootCmd = &cobra.Command{
	Use:   "url-shortener-dashboard",
	Short: "A web dashboard for a URL shortening service",
	Long:  "A backend-for-frontend that serves the URL shortener dashboard and proxies authenticated actions to the shortener API",
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the dashboard server",
	RunE:  runServer,
}

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Run dashboard actions against the shortener API from the command line",
}

var loginCmd = &cobra.Command{
	Use:   "login [EMAIL] [PASSWORD]",
	Short: "Log in and print the session token",
	Args:  cobra.ExactArgs(2),
	RunE: withCommands(func(ctx context.Context, c *client.Commands, token string, args []string) error {
		return c.Login(ctx, args[0], args[1])
	}),
}

var signupCmd = &cobra.Command{
	Use:   "signup [EMAIL] [PASSWORD]",
	Short: "Create an account",
	Args:  cobra.ExactArgs(2),
	RunE: withCommands(func(ctx context.Context, c *client.Commands, token string, args []string) error {
		return c.Signup(ctx, args[0], args[1])
	}),
}

var createCmd = &cobra.Command{
	Use:   "create [URL]",
	Short: "Create a short URL",
	Args:  cobra.ExactArgs(1),
	RunE: withCommands(func(ctx context.Context, c *client.Commands, token string, args []string) error {
		return c.Create(ctx, token, args[0])
	}),
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your short URLs",
	Args:  cobra.NoArgs,
	RunE: withCommands(func(ctx context.Context, c *client.Commands, token string, args []string) error {
		return c.List(ctx, token)
	}),
}

var deleteCmd = &cobra.Command{
	Use:   "delete [CODE]",
	Short: "Delete a short URL",
	Args:  cobra.ExactArgs(1),
	RunE: withCommands(func(ctx context.Context, c *client.Commands, token string, args []string) error {
		return c.Delete(ctx, token, args[0])
	}),
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show clicks per domain",
	Args:  cobra.NoArgs,
	RunE: withCommands(func(ctx context.Context, c *client.Commands, token string, args []string) error {
		return c.Metrics(ctx, token)
	}),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session on the backend",
	Args:  cobra.NoArgs,
	RunE: withCommands(func(ctx context.Context, c *client.Commands, token string, args []string) error {
		return c.Logout(ctx, token)
	}),
}

func init() {
	defaults := config.Default()

	// Server command flags
	serverCmd.Flags().StringP("port", "p", defaults.Server.Port, "Server port")
	serverCmd.Flags().String("api-url", defaults.Backend.BaseURL, "Shortener API base URL")
	serverCmd.Flags().String("short-link-url", "", "Base URL for short links when the API omits them (defaults to --api-url)")
	serverCmd.Flags().String("cookie-name", defaults.Session.CookieName, "Session cookie name")
	serverCmd.Flags().Duration("session-max-age", defaults.Session.MaxAge, "Session cookie lifetime")
	serverCmd.Flags().Duration("backend-timeout", defaults.Backend.Timeout, "Timeout for each call to the shortener API")
	serverCmd.Flags().String("metrics-path", defaults.Metrics.Path, "Prometheus exposition path")
	serverCmd.Flags().String("env", defaults.Environment, "Environment (development, production, testing)")

	// Logging configuration flags
	serverCmd.Flags().BoolP("verbose", "v", false, "Enable verbose logging (HTTP requests/responses and error details)")
	serverCmd.Flags().String("log-level", defaults.Logging.Level, "Log level (debug, info, warn, error)")

	// Client command flags
	clientCmd.PersistentFlags().StringP("api-url", "u", defaults.Backend.BaseURL, "Shortener API base URL")
	clientCmd.PersistentFlags().StringP("token", "t", "", "Session token (defaults to $"+tokenEnv+")")
	clientCmd.PersistentFlags().Duration("timeout", defaults.Backend.Timeout, "Request timeout")
	clientCmd.PersistentFlags().BoolP("verbose", "v", false, "Log action failures")

	// Add subcommands
	clientCmd.AddCommand(loginCmd, signupCmd, createCmd, listCmd, deleteCmd, metricsCmd, logoutCmd)
	rootCmd.AddCommand(serverCmd, clientCmd)
}

// serverConfig layers explicitly set flags over the environment
func serverConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.FromEnv()
	flags := cmd.Flags()

	if flags.Changed("port") {
		cfg.Server.Port, _ = flags.GetString("port")
	}
	if flags.Changed("api-url") {
		cfg.Backend.BaseURL, _ = flags.GetString("api-url")
	}
	if flags.Changed("short-link-url") {
		cfg.Backend.ShortLinkBaseURL, _ = flags.GetString("short-link-url")
	}
	if flags.Changed("cookie-name") {
		cfg.Session.CookieName, _ = flags.GetString("cookie-name")
	}
	if flags.Changed("session-max-age") {
		cfg.Session.MaxAge, _ = flags.GetDuration("session-max-age")
	}
	if flags.Changed("backend-timeout") {
		cfg.Backend.Timeout, _ = flags.GetDuration("backend-timeout")
	}
	if flags.Changed("metrics-path") {
		cfg.Metrics.Path, _ = flags.GetString("metrics-path")
	}
	if flags.Changed("env") {
		cfg.Environment, _ = flags.GetString("env")
	}
	if flags.Changed("verbose") {
		cfg.Logging.Verbose, _ = flags.GetBool("verbose")
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := serverConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to create configuration: %w", err)
	}

	logger, err := logging.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("starting dashboard server",
		zap.String("port", cfg.Server.Port),
		zap.String("api_url", cfg.Backend.BaseURL),
		zap.Bool("token_verification", cfg.Session.JWTSecret != ""),
	)

	application := app.New(cfg, logger)

	startCtx, startCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer startCancel()
	if err := application.Start(startCtx); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	// Set up graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal or a server error
	exitCode := 0
	select {
	case sig := <-sigChan:
		logger.Info("received signal, shutting down gracefully", zap.String("signal", sig.String()))
	case shutdown := <-application.Wait():
		exitCode = shutdown.ExitCode
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer stopCancel()
	if err := application.Stop(stopCtx); err != nil {
		logger.Error("error during server shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
	if exitCode != 0 {
		return fmt.Errorf("server exited with code %d", exitCode)
	}
	return nil
}

// withCommands builds the proxy actions from the client flags and runs fn with a
// request-scoped context.
func withCommands(fn func(ctx context.Context, c *client.Commands, token string, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()

		cfg := config.FromEnv()
		if flags.Changed("api-url") || os.Getenv("API_BASE_URL") == "" {
			cfg.Backend.BaseURL, _ = flags.GetString("api-url")
		}
		cfg.Backend.Timeout, _ = flags.GetDuration("timeout")
		cfg.Logging.Level = "error"
		if verbose, _ := flags.GetBool("verbose"); verbose {
			cfg.Logging.Level = "debug"
		}
		if err := cfg.Finalize(); err != nil {
			return fmt.Errorf("failed to create configuration: %w", err)
		}

		logger, err := logging.New(cfg)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer logger.Sync()

		dashboard, err := app.NewDashboard(cfg, logger)
		if err != nil {
			return err
		}

		token, _ := flags.GetString("token")
		if token == "" {
			token = os.Getenv(tokenEnv)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Backend.Timeout)
		defer cancel()

		cmd.SilenceUsage = true
		return fn(ctx, client.NewCommands(dashboard, cmd.OutOrStdout()), token, args)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
