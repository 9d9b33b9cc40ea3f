package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/revijouer/core/internal/adapters/repository"
	"github.com/revijouer/core/internal/adapters/session"
	"github.com/revijouer/core/internal/application/services"
	"github.com/revijouer/core/internal/infrastructure/config"
	"github.com/revijouer/core/internal/infrastructure/logger"
	"github.com/revijouer/core/internal/infrastructure/server"
)

// Version information, set with -ldflags at build time
var (
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "development"
)

type serveOptions struct {
	debug bool
	open  bool
}

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	var opts serveOptions
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Révijouer web server",
		Long:  "Start the Révijouer web server with the quiz pages, the question editor and the Anki bridge",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Log at debug level in console format")
	cmd.Flags().BoolVarP(&opts.open, "open", "o", false, "Open the app in the default browser once the server listens")
	return cmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print Révijouer version",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Révijouer %s\n", Version)
			fmt.Fprintf(out, "Build Date: %s\n", BuildDate)
			fmt.Fprintf(out, "Git Commit: %s\n", GitCommit)
		},
	}
}

func runServer(ctx context.Context, opts serveOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	opts.apply(cfg)

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Close()

	srv, err := server.New(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Errorw("Failed to initialize server", "error", err)
		return err
	}

	appLogger.Infow("Starting Révijouer server",
		"address", cfg.Server.GetAddr(),
		"environment", cfg.App.Environment,
		"data_root", cfg.Data.Root,
		"session_backend", cfg.Session.Backend,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(cfg.Server.GetAddr())
	}()

	if opts.open {
		go func() {
			url := appURL(cfg.Server)
			if err := waitForListener(ctx, cfg.Server.GetAddr(), 5*time.Second); err != nil {
				appLogger.Warnw("Server not reachable, browser not opened", "error", err)
				return
			}
			if err := openBrowser(url); err != nil {
				appLogger.Warnw("Failed to open browser", "url", url, "error", err)
				return
			}
			appLogger.Infow("Browser opened", "url", url)
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			appLogger.Errorw("Server failed", "error", err)
		}
		return err
	case sig := <-quit:
		appLogger.Infow("Received signal", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

func (o serveOptions) apply(cfg *config.Config) {
	if o.debug {
		cfg.Logger.Level = "debug"
		cfg.Logger.Format = "console"
	}
}

// appURL is the address a local browser should use for the server
func appURL(cfg config.ServerConfig) string {
	host := cfg.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s", net.JoinHostPort(host, fmt.Sprint(cfg.Port)))
}

func waitForListener(ctx context.Context, addr string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		conn, err := net.DialTimeout("tcp", addr, 200*time.Millisecond)
		if err == nil {
			return conn.Close()
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%s not listening after %s: %w", addr, timeout, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
}

var openBrowser = func(url string) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("xdg-open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		return exec.Command("open", url).Start()
	default:
		return fmt.Errorf("unsupported platform %s", runtime.GOOS)
	}
}

// app bundles the services the offline commands need
type app struct {
	cfg       *config.Config
	logger    *logger.Logger
	scores    *services.ScoreService
	questions *services.QuestionService
}

func loadApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Commands print their own output; only warnings reach the log
	logCfg := cfg.Logger
	logCfg.Level = "warn"
	logCfg.Output = "stderr"
	appLogger, err := logger.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	fillInBlankRoot := cfg.Data.FillInBlankPath()
	imageMatchingRoot := cfg.Data.ImageMatchingPath()
	questionRepo := repository.NewQuestionRepository(fillInBlankRoot, imageMatchingRoot, appLogger)
	questionFiles := repository.NewTreeRepository(fillInBlankRoot, imageMatchingRoot, appLogger)
	scoreRepo := repository.NewScoreRepository(cfg.Data.ScoresPath(), appLogger)

	return &app{
		cfg:       cfg,
		logger:    appLogger,
		scores:    services.NewScoreService(scoreRepo, session.NewMemoryStore(0), appLogger),
		questions: services.NewQuestionService(questionRepo, questionFiles, appLogger),
	}, nil
}
