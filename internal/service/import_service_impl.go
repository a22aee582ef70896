package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/atelier/internal/app"
	"github.com/alexanderramin/atelier/internal/db"
	"github.com/alexanderramin/atelier/internal/importer"
	"github.com/alexanderramin/atelier/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *importService) ImportFile(ctx context.Context, filePath string) (*app.ImportResult, error) {
	schema, err := importer.LoadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.Import(ctx, schema)
}

// Import writes every project, task and return in the schema in a single
// transaction. Nothing is written if any row fails.
func (s *importService) Import(ctx context.Context, schema *importer.ImportSchema) (result *app.ImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"projects": len(schema.Projects)}
	defer func() { observe(ctx, s.observer, "import-studio", startedAt, fields, nil, &err) }()

	if errs := importer.Validate(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	generated, err := importer.Convert(schema)
	if err != nil {
		return nil, fmt.Errorf("converting import schema: %w", err)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txReturns := repository.NewSQLiteReturnRepo(tx)

		for _, p := range generated.Projects {
			if err := txProjects.Create(ctx, p); err != nil {
				return fmt.Errorf("creating project %s: %w", p.ShortID, err)
			}
		}
		for _, t := range generated.Tasks {
			if err := txTasks.Create(ctx, t); err != nil {
				return fmt.Errorf("creating task %q: %w", t.Title, err)
			}
		}
		for _, r := range generated.Returns {
			if err := txReturns.Create(ctx, r); err != nil {
				return fmt.Errorf("creating return %q: %w", r.Item, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields["tasks"] = len(generated.Tasks)
	fields["returns"] = len(generated.Returns)
	return &app.ImportResult{
		Projects:    generated.Projects,
		TaskCount:   len(generated.Tasks),
		ReturnCount: len(generated.Returns),
	}, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
