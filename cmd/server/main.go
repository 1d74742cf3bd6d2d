package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mathisescriva/crmdesk/internal/aggregate"
	"github.com/mathisescriva/crmdesk/internal/config"
	"github.com/mathisescriva/crmdesk/internal/directory"
	"github.com/mathisescriva/crmdesk/internal/domain/activity"
	"github.com/mathisescriva/crmdesk/internal/domain/project"
	"github.com/mathisescriva/crmdesk/internal/domain/task"
	"github.com/mathisescriva/crmdesk/internal/domain/template"
	"github.com/mathisescriva/crmdesk/internal/eventbus"
	"github.com/mathisescriva/crmdesk/internal/gateway"
	"github.com/mathisescriva/crmdesk/internal/httpapi"
	"github.com/mathisescriva/crmdesk/internal/remote"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	// One probe per session; the selected store is latched in the backend
	// and never re-evaluated.
	backend, err := gateway.Select(context.Background(), gateway.Options{
		Remote: remote.Options{
			BaseURL: cfg.Remote.BaseURL,
			APIKey:  cfg.Remote.APIKey,
			Bearer:  cfg.Remote.Bearer,
		},
		ProbeTimeout:   cfg.Remote.ProbeTimeout,
		LocalPath:      cfg.Local.Path,
		LocalCompanies: cfg.LocalCompanies(),
	}, logger)
	if err != nil {
		logger.Error("failed to select workspace store", "error", err)
		os.Exit(1)
	}
	defer backend.Close()

	roster := directory.NewRoster(cfg.Roster)
	bus := eventbus.New()

	activitySvc := activity.NewService(backend.Activity, bus, logger)
	taskSvc := task.NewService(backend.Tasks, backend.TaskComments, backend.Companies, roster, activitySvc, bus, logger)
	projectSvc := project.NewService(backend.Projects, backend.ProjectNotes, backend.Companies, roster, activitySvc, bus, logger)
	templateSvc := template.NewService(backend.Templates, bus, logger)

	engine := aggregate.NewEngine(taskSvc, projectSvc, activitySvc, roster, backend.Companies,
		cfg.Views.StaleAfter, cfg.Views.ActivityWindow, logger)

	api := httpapi.NewServer(httpapi.Services{
		Tasks:     taskSvc,
		Projects:  projectSvc,
		Templates: templateSvc,
		Activity:  activitySvc,
		Engine:    engine,
		Calendar:  directory.NewStaticCalendar(nil),
	}, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: api.Router(),
	}

	go func() {
		logger.Info("server listening", "addr", addr, "store", backend.Mode)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
