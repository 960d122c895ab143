package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/taskmaster/dashboard/internal/adapters/repository"
	"github.com/taskmaster/dashboard/internal/application/services"
	"github.com/taskmaster/dashboard/internal/domain/entities"
	"github.com/taskmaster/dashboard/internal/infrastructure/config"
	"github.com/taskmaster/dashboard/internal/infrastructure/logger"
	"github.com/taskmaster/dashboard/internal/infrastructure/metrics"
	"github.com/taskmaster/dashboard/internal/infrastructure/seed"
	"github.com/taskmaster/dashboard/internal/infrastructure/server"
	"github.com/taskmaster/dashboard/internal/ports"
)

// Build information, set with -ldflags "-X .../commands.Version=..."
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// NewRootCommand creates the dashboard command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "dashboard",
		Short:         "Project dashboard server and tools",
		Long:          `Project dashboard keeps tasks, meetings, projects and the team directory in memory and serves them over a JSON API.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().String("today", "", "Pretend the current date is this yyyy-MM-dd date")

	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewBoardCommand())
	rootCmd.AddCommand(NewRemindersCommand())
	rootCmd.AddCommand(NewAnalyticsCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard API server",
		Long:  "Start the dashboard API server with all configured routes and middleware",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd)
		},
	}
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print dashboard version",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Project Dashboard %s\n", Version)
			fmt.Fprintf(out, "Build Date: %s\n", BuildDate)
			fmt.Fprintf(out, "Git Commit: %s\n", Commit)
		},
	}
}

// app is the state every command starts from
type app struct {
	cfg    *config.Config
	logger *logger.Logger
	dash   *services.Dashboard
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	clock, err := clockFor(cmd, cfg)
	if err != nil {
		return nil, err
	}

	dash := services.NewDashboard(repository.NewRepositories(), services.Options{
		Clock:                clock,
		Logger:               appLogger,
		ReminderWindowDays:   cfg.Reminders.WindowDays,
		ReminderDisplay:      cfg.Reminders.DisplayDuration,
		NotificationCapacity: cfg.Notifications.Capacity,
	})

	return &app{cfg: cfg, logger: appLogger, dash: dash}, nil
}

// load seeds the dashboard from the configured fixtures
func (a *app) load(ctx context.Context) error {
	if !a.cfg.Dashboard.SeedSampleData {
		return nil
	}

	var (
		fx  services.Fixtures
		err error
	)
	if a.cfg.Dashboard.FixturesFile != "" {
		fx, err = seed.LoadFile(a.cfg.Dashboard.FixturesFile)
	} else {
		fx, err = seed.Sample()
	}
	if err != nil {
		return err
	}
	return a.dash.Load(ctx, fx)
}

func (a *app) close() {
	a.dash.Close()
	_ = a.logger.Close()
}

func clockFor(cmd *cobra.Command, cfg *config.Config) (ports.Clock, error) {
	loc, err := cfg.Dashboard.Location()
	if err != nil {
		return nil, err
	}

	today, _ := cmd.Flags().GetString("today")
	if today == "" {
		return ports.SystemClock{Location: loc}, nil
	}

	date, err := entities.ParseDate(today)
	if err != nil {
		return nil, fmt.Errorf("invalid --today: %w", err)
	}
	return ports.ClockFunc(func() time.Time {
		now := time.Now().In(loc)
		return time.Date(date.Year, date.Month, date.Day, now.Hour(), now.Minute(), now.Second(), 0, loc)
	}), nil
}

func runServer(cmd *cobra.Command) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	var m *metrics.Metrics
	if a.cfg.Metrics.Enabled {
		m = metrics.New()
		detach := m.Attach(a.dash.Bus)
		defer detach()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.load(ctx); err != nil {
		return err
	}

	srv, err := server.New(a.cfg, a.dash, m, a.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	a.logger.Infow("Starting dashboard API server",
		"address", a.cfg.Server.Address(),
		"environment", a.cfg.App.Environment,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(a.cfg.Server.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		a.logger.Errorw("Server stopped with error", "error", err)
		return err
	}
	a.logger.Infow("Server stopped")
	return nil
}
