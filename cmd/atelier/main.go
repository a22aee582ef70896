package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/atelier/internal/cli"
	"github.com/alexanderramin/atelier/internal/config"
	"github.com/alexanderramin/atelier/internal/db"
	"github.com/alexanderramin/atelier/internal/domain"
	"github.com/alexanderramin/atelier/internal/logging"
	"github.com/alexanderramin/atelier/internal/repository"
	"github.com/alexanderramin/atelier/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return err
	}

	logger, logCloser := logging.Open(cfg.LogFile, cfg.LogLevel)
	defer logCloser.Close()
	observer := service.NewLogUseCaseObserver(logger)

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	projectRepo := repository.NewSQLiteProjectRepo(database)
	taskRepo := repository.NewSQLiteTaskRepo(database)
	returnRepo := repository.NewSQLiteReturnRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	category, err := domain.ParseTaskCategory(cfg.Returns.TaskCategory)
	if err != nil {
		return err
	}
	sweepPolicy := service.SweepPolicy{
		Thresholds:   cfg.Returns.Thresholds(),
		TaskCategory: category,
	}

	app := &cli.App{
		Projects:      service.NewProjectService(projectRepo, taskRepo, uow, observer),
		Tasks:         service.NewTaskService(taskRepo, uow, observer),
		Returns:       service.NewReturnService(returnRepo, uow, sweepPolicy, observer),
		Status:        service.NewStatusService(projectRepo, taskRepo, returnRepo),
		Import:        service.NewImportService(uow, observer),
		SweepInterval: cfg.Returns.SweepInterval.Duration,
	}

	// Prompts only make sense when a person is at the keyboard.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
