package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/atelier/internal/domain"
	"github.com/alexanderramin/atelier/internal/repository"
	"github.com/alexanderramin/atelier/internal/service"
	"github.com/alexanderramin/atelier/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cliNow = time.Date(2025, 3, 20, 9, 30, 0, 0, time.UTC)

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)

	projRepo := repository.NewSQLiteProjectRepo(database)
	taskRepo := repository.NewSQLiteTaskRepo(database)
	retRepo := repository.NewSQLiteReturnRepo(database)

	return &App{
		Projects:      service.NewProjectService(projRepo, taskRepo, uow),
		Tasks:         service.NewTaskService(taskRepo, uow),
		Returns:       service.NewReturnService(retRepo, uow, service.DefaultSweepPolicy()),
		Status:        service.NewStatusService(projRepo, taskRepo, retRepo),
		Import:        service.NewImportService(uow),
		SweepInterval: time.Hour,
		Now:           func() time.Time { return cliNow },
	}
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	return executeCmdContext(t, context.Background(), app, args...)
}

func executeCmdContext(t *testing.T, ctx context.Context, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return buf.String(), err
}

func seedProject(t *testing.T, app *App, shortID string, stage domain.PipelineStage) *domain.Project {
	t.Helper()
	p := testutil.NewTestProject(shortID+" Residence", testutil.WithShortID(shortID), testutil.WithStage(stage))
	require.NoError(t, app.Projects.Create(context.Background(), p))
	return p
}

func projectTasks(t *testing.T, app *App, projectID string) []*domain.Task {
	t.Helper()
	tasks, err := app.Tasks.ListByProject(context.Background(), projectID)
	require.NoError(t, err)
	return tasks
}

func reloadProject(t *testing.T, app *App, id string) *domain.Project {
	t.Helper()
	p, err := app.Projects.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p
}

// --- root ---

func TestRootCmd_NoArgs_ShowsHelp(t *testing.T) {
	app := testApp(t)

	output, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.Contains(t, output, "atelier")
	assert.Contains(t, output, "project")
	assert.Contains(t, output, "return")
}

// --- project ---

func TestProjectAdd(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "project", "add", "--id", "smith01", "--name", "Smith Loft", "--client", "Jane Smith", "--stage", "ordering")
	require.NoError(t, err)
	assert.Contains(t, out, "Created")
	assert.Contains(t, out, "SMITH01")
	assert.Contains(t, out, "40%")

	projects, err := app.Projects.List(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Jane Smith", projects[0].ClientName)
	assert.Equal(t, domain.StageOrdering, projects[0].Status)
	assert.Equal(t, 40, projects[0].Progress)
}

func TestProjectAdd_DefaultsToConsultation(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "project", "add", "--id", "NEW01", "--name", "New Job")
	require.NoError(t, err)

	projects, err := app.Projects.List(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, domain.StageConsultation, projects[0].Status)
	assert.Equal(t, 0, projects[0].Progress)
}

func TestProjectAdd_MissingFieldsWhenNotInteractive(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "project", "add", "--name", "No ID")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--id and --name are required")
}

func TestProjectAdd_InvalidStageFlag(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "project", "add", "--id", "BAD01", "--name", "Bad", "--stage", "demolition")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vision_board")
}

func TestProjectAdd_InvalidShortID(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "project", "add", "--id", "X1", "--name", "Bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3-6 uppercase letters")
}

func TestProjectList(t *testing.T) {
	app := testApp(t)
	seedProject(t, app, "SMITH01", domain.StageOrdering)
	archived := seedProject(t, app, "OLD01", domain.StageComplete)
	require.NoError(t, app.Projects.Archive(context.Background(), archived.ID))

	out, err := executeCmd(t, app, "project", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "SMITH01")
	assert.NotContains(t, out, "OLD01")

	out, err = executeCmd(t, app, "project", "list", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "OLD01")
	assert.Contains(t, out, "(archived)")
}

func TestProjectShow(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app, "SMITH01", domain.StageOrdering)
	require.NoError(t, app.Tasks.Create(context.Background(),
		testutil.NewTestTask(p.ID, "Order sofa", testutil.WithCategory(domain.CategoryOrdering))))

	out, err := executeCmd(t, app, "project", "show", "smith01")
	require.NoError(t, err)
	assert.Contains(t, out, "SMITH01 Residence")
	assert.Contains(t, out, "Ordering & Procurement")
	assert.Contains(t, out, "Order sofa")
}

func TestProjectShow_ByUUIDPrefix(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app, "SMITH01", domain.StageOrdering)

	out, err := executeCmd(t, app, "project", "show", p.ID[:8])
	require.NoError(t, err)
	assert.Contains(t, out, "SMITH01")
}

func TestProjectShow_NotFound(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "project", "show", "NOPE99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project not found")
}

func TestProjectStage(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app, "SMITH01", domain.StageOrdering)

	out, err := executeCmd(t, app, "project", "stage", "SMITH01", "vision-board")
	require.NoError(t, err)
	assert.Contains(t, out, "Moved")

	got := reloadProject(t, app, p.ID)
	assert.Equal(t, domain.StageVisionBoard, got.Status)
	assert.Equal(t, 20, got.Progress)

	_, err = executeCmd(t, app, "project", "stage", "SMITH01", "nowhere")
	assert.ErrorIs(t, err, domain.ErrInvalidStage)
}

func TestProjectAdvance(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app, "SMITH01", domain.StageStyling)

	_, err := executeCmd(t, app, "project", "advance", "SMITH01")
	require.NoError(t, err)
	got := reloadProject(t, app, p.ID)
	assert.Equal(t, domain.StageComplete, got.Status)
	assert.Equal(t, 100, got.Progress)

	_, err = executeCmd(t, app, "project", "advance", "SMITH01")
	assert.ErrorIs(t, err, domain.ErrStageTerminal)
}

func TestProjectRename(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app, "SMITH01", domain.StageOrdering)

	_, err := executeCmd(t, app, "project", "rename", "SMITH01", "--name", "Smith Loft", "--client", "J. Smith")
	require.NoError(t, err)
	got := reloadProject(t, app, p.ID)
	assert.Equal(t, "Smith Loft", got.Name)
	assert.Equal(t, "J. Smith", got.ClientName)

	_, err = executeCmd(t, app, "project", "rename", "SMITH01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to change")
}

func TestProjectArchiveAndRemove(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app, "SMITH01", domain.StageOrdering)

	_, err := executeCmd(t, app, "project", "remove", "SMITH01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be archived")

	_, err = executeCmd(t, app, "project", "archive", "SMITH01")
	require.NoError(t, err)
	assert.True(t, reloadProject(t, app, p.ID).IsArchived())

	_, err = executeCmd(t, app, "project", "unarchive", "SMITH01")
	require.NoError(t, err)
	assert.False(t, reloadProject(t, app, p.ID).IsArchived())

	out, err := executeCmd(t, app, "project", "remove", "SMITH01", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed project SMITH01")

	_, err = app.Projects.GetByID(context.Background(), p.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectRecompute(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app, "SMITH01", domain.StageOrdering)

	out, err := executeCmd(t, app, "project", "recompute", "SMITH01")
	require.NoError(t, err)
	assert.Contains(t, out, "Recomputed")
	assert.Equal(t, 40, reloadProject(t, app, p.ID).Progress)
}

// --- task ---

func TestTaskAdd_RecomputesProgress(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app, "SMITH01", domain.StageOrdering)

	out, err := executeCmd(t, app, "task", "add", "SMITH01",
		"--title", "Order sofa", "--category", "ordering", "--priority", "high", "--due", "2025-04-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Added")
	assert.Contains(t, out, "Order sofa")

	tasks := projectTasks(t, app, p.ID)
	require.Len(t, tasks, 1)
	assert.Equal(t, domain.CategoryOrdering, tasks[0].Category)
	assert.Equal(t, domain.PriorityHigh, tasks[0].Priority)
	require.NotNil(t, tasks[0].DueDate)
	assert.Equal(t, "2025-04-01", tasks[0].DueDate.Format(dateLayout))
	assert.Equal(t, 40, reloadProject(t, app, p.ID).Progress)
}

func TestTaskAdd_Validation(t *testing.T) {
	app := testApp(t)
	seedProject(t, app, "SMITH01", domain.StageOrdering)

	_, err := executeCmd(t, app, "task", "add", "SMITH01", "--category", "ordering")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--title is required")

	_, err = executeCmd(t, app, "task", "add", "SMITH01", "--title", "x", "--category", "plumbing")
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)

	_, err = executeCmd(t, app, "task", "add", "SMITH01", "--title", "x", "--due", "next week")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
}

func TestTaskLifecycle(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app, "SMITH01", domain.StageOrdering)
	sofa := testutil.NewTestTask(p.ID, "Order sofa", testutil.WithCategory(domain.CategoryOrdering))
	rug := testutil.NewTestTask(p.ID, "Order rug", testutil.WithCategory(domain.CategoryOrdering))
	require.NoError(t, app.Tasks.Create(context.Background(), sofa))
	require.NoError(t, app.Tasks.Create(context.Background(), rug))

	out, err := executeCmd(t, app, "task", "start", sofa.ID[:8])
	require.NoError(t, err)
	assert.Contains(t, out, "Started")

	out, err = executeCmd(t, app, "task", "done", sofa.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Completed")
	assert.Contains(t, out, "50%")
	assert.Equal(t, 50, reloadProject(t, app, p.ID).Progress)

	_, err = executeCmd(t, app, "task", "start", sofa.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = executeCmd(t, app, "task", "status", sofa.ID, "pending")
	require.NoError(t, err)
	assert.Equal(t, 40, reloadProject(t, app, p.ID).Progress)

	_, err = executeCmd(t, app, "task", "status", rug.ID, "completed")
	require.NoError(t, err)
	_, err = executeCmd(t, app, "task", "reopen", rug.ID)
	require.NoError(t, err)
	for _, task := range projectTasks(t, app, p.ID) {
		assert.Equal(t, domain.TaskPending, task.Status)
		assert.Nil(t, task.CompletedAt)
	}
}

func TestTaskListAndRemove(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app, "SMITH01", domain.StageOrdering)
	done := testutil.NewTestTask(p.ID, "Order sofa", testutil.WithCategory(domain.CategoryOrdering), testutil.WithTaskStatus(domain.TaskCompleted))
	open := testutil.NewTestTask(p.ID, "Order rug", testutil.WithCategory(domain.CategoryOrdering))
	require.NoError(t, app.Tasks.Create(context.Background(), done))
	require.NoError(t, app.Tasks.Create(context.Background(), open))

	out, err := executeCmd(t, app, "task", "list", "SMITH01")
	require.NoError(t, err)
	assert.Contains(t, out, "Order sofa")
	assert.Contains(t, out, "Order rug")

	out, err = executeCmd(t, app, "task", "list", "SMITH01", "--open")
	require.NoError(t, err)
	assert.NotContains(t, out, "Order sofa")
	assert.Contains(t, out, "Order rug")

	out, err = executeCmd(t, app, "task", "remove", done.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed task Order sofa")
	assert.Len(t, projectTasks(t, app, p.ID), 1)
	assert.Equal(t, 40, reloadProject(t, app, p.ID).Progress)

	_, err = executeCmd(t, app, "task", "remove", "zzzzzzzz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task not found")
}

// --- return ---

func TestReturnAddListResolve(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app, "SMITH01", domain.StageOrdering)

	out, err := executeCmd(t, app, "return", "add", "SMITH01",
		"--item", "Lamp", "--vendor", "Lumens", "--amount", "129.99", "--due", "2025-03-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Recorded return")
	assert.Contains(t, out, "$129.99")

	returns, err := app.Returns.List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, returns, 1)
	assert.Equal(t, int64(12999), returns[0].AmountCents)
	assert.Equal(t, p.ID, returns[0].ProjectID)

	out, err = executeCmd(t, app, "return", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "SMITH01")
	assert.Contains(t, out, "Lamp")

	out, err = executeCmd(t, app, "return", "resolve", returns[0].ID[:8], "refunded")
	require.NoError(t, err)
	assert.Contains(t, out, "Refunded")

	out, err = executeCmd(t, app, "return", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No returns.")

	out, err = executeCmd(t, app, "return", "list", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "Lamp")
}

func TestReturnAdd_RequiresDue(t *testing.T) {
	app := testApp(t)
	seedProject(t, app, "SMITH01", domain.StageOrdering)

	_, err := executeCmd(t, app, "return", "add", "SMITH01", "--item", "Lamp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--due is required")
}

func TestReturnResolve_RejectsOpen(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app, "SMITH01", domain.StageOrdering)
	r := testutil.NewTestReturn(p.ID, "Lamp")
	require.NoError(t, app.Returns.Create(context.Background(), r))

	_, err := executeCmd(t, app, "return", "resolve", r.ID, "open")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closing status")
}

func TestReturnSweep(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app, "SMITH01", domain.StageOrdering)
	r := testutil.NewTestReturn(p.ID, "Lamp",
		testutil.WithVendor("Lumens"),
		testutil.WithReturnDue(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, app.Returns.Create(context.Background(), r))

	out, err := executeCmd(t, app, "return", "sweep", "--as-of", "2025-03-20", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "would be promoted")
	assert.Contains(t, out, "19d overdue")
	assert.Empty(t, projectTasks(t, app, p.ID))

	out, err = executeCmd(t, app, "return", "sweep", "--as-of", "2025-03-20")
	require.NoError(t, err)
	assert.Contains(t, out, "Promoted 1")
	assert.Contains(t, out, "URGENT")

	tasks := projectTasks(t, app, p.ID)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Chase return: Lamp (Lumens)", tasks[0].Title)
	assert.Equal(t, domain.PriorityUrgent, tasks[0].Priority)

	out, err = executeCmd(t, app, "return", "sweep", "--as-of", "2025-03-21")
	require.NoError(t, err)
	assert.Contains(t, out, "No overdue returns")
	assert.Len(t, projectTasks(t, app, p.ID), 1)
}

func TestReturnSweep_EveryRejectsAsOf(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "return", "sweep", "--every", "1m", "--as-of", "2025-03-20")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--as-of cannot be combined")
}

func TestReturnSweep_EveryStopsOnCancel(t *testing.T) {
	app := testApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := executeCmdContext(t, ctx, app, "return", "sweep", "--every", "1h")
	assert.NoError(t, err)
}

// --- status ---

func TestStatusCmd(t *testing.T) {
	app := testApp(t)
	seedProject(t, app, "SMITH01", domain.StageOrdering)
	seedProject(t, app, "JONES02", domain.StageStyling)

	out, err := executeCmd(t, app, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "STATUS")
	assert.Contains(t, out, "SMITH01")
	assert.Contains(t, out, "JONES02")
	assert.Contains(t, out, "2 project(s)")

	out, err = executeCmd(t, app, "status", "--project", "SMITH01")
	require.NoError(t, err)
	assert.Contains(t, out, "SMITH01")
	assert.NotContains(t, out, "JONES02")
}

func TestStatusCmd_UnknownScope(t *testing.T) {
	app := testApp(t)
	seedProject(t, app, "SMITH01", domain.StageOrdering)

	_, err := executeCmd(t, app, "status", "--project", "NOPE99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_SCOPE")
}

// --- import ---

const importYAML = `projects:
  - short_id: SMITH01
    name: Smith Residence
    client: Jane Smith
    stage: ordering
    tasks:
      - title: Order sofa
        category: ordering
        status: completed
      - title: Order rug
        category: ordering
    returns:
      - item: Lamp
        vendor: Lumens
        due_date: 2025-03-01
        amount: 129.99
`

func TestImportCmd(t *testing.T) {
	app := testApp(t)
	path := filepath.Join(t.TempDir(), "studio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(importYAML), 0o644))

	out, err := executeCmd(t, app, "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 project(s), 2 task(s), 1 return(s)")

	projects, err := app.Projects.List(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, 50, projects[0].Progress)
}

func TestImportCmd_MissingFile(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "import", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading import file")
}

func TestTaskList_CanonicalOrder(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app, "SMITH01", domain.StageOrdering)
	ctx := context.Background()
	require.NoError(t, app.Tasks.Create(ctx, testutil.NewTestTask(p.ID, "Book movers", testutil.WithCategory(domain.CategoryInstallation))))
	require.NoError(t, app.Tasks.Create(ctx, testutil.NewTestTask(p.ID, "Chase lamp", testutil.WithCategory(domain.CategoryOrdering), testutil.WithPriority(domain.PriorityUrgent))))
	require.NoError(t, app.Tasks.Create(ctx, testutil.NewTestTask(p.ID, "Order sofa", testutil.WithCategory(domain.CategoryOrdering), testutil.WithTaskStatus(domain.TaskCompleted))))

	out, err := executeCmd(t, app, "task", "list", "SMITH01")
	require.NoError(t, err)
	chase := strings.Index(out, "Chase lamp")
	movers := strings.Index(out, "Book movers")
	sofa := strings.Index(out, "Order sofa")
	require.True(t, chase >= 0 && movers >= 0 && sofa >= 0)
	assert.Less(t, chase, movers, "urgent first")
	assert.Less(t, movers, sofa, "completed last")
}
