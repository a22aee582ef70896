package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alexanderramin/atelier/internal/domain"
	"github.com/alexanderramin/atelier/internal/repository"
	"github.com/alexanderramin/atelier/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskService_Create_RecomputesProgress(t *testing.T) {
	projects, tasks, _, uow := setupRepos(t)
	ctx := context.Background()
	obs := &recordingObserver{}
	svc := NewTaskService(tasks, uow, obs)

	p := testutil.NewTestProject("Smith", testutil.WithStage(domain.StageOrdering), testutil.WithProgress(40))
	require.NoError(t, projects.Create(ctx, p))

	done := &domain.Task{ProjectID: p.ID, Title: "Order sofa", Category: domain.CategoryOrdering, Status: domain.TaskCompleted}
	require.NoError(t, svc.Create(ctx, done))
	assert.NotEmpty(t, done.ID)
	assert.NotNil(t, done.CompletedAt, "completed tasks get a completion time")
	_, pct := storedProgress(t, projects, p.ID)
	assert.Equal(t, 60, pct)

	pending := &domain.Task{ProjectID: p.ID, Title: "Order rug", Category: domain.CategoryOrdering}
	require.NoError(t, svc.Create(ctx, pending))
	assert.Equal(t, domain.TaskPending, pending.Status, "status defaults to pending")
	_, pct = storedProgress(t, projects, p.ID)
	assert.Equal(t, 50, pct)

	// A task for another stage does not move the headline number.
	other := &domain.Task{ProjectID: p.ID, Title: "Install lights", Category: domain.CategoryInstallation}
	require.NoError(t, svc.Create(ctx, other))
	_, pct = storedProgress(t, projects, p.ID)
	assert.Equal(t, 50, pct)

	assert.Equal(t, []string{"create-task", "create-task", "create-task"}, obs.names())
	assert.Equal(t, 50, obs.last().Fields["progress"])
}

func TestTaskService_Create_Invalid(t *testing.T) {
	projects, tasks, _, uow := setupRepos(t)
	ctx := context.Background()
	svc := NewTaskService(tasks, uow)

	p := testutil.NewTestProject("Smith")
	require.NoError(t, projects.Create(ctx, p))

	err := svc.Create(ctx, &domain.Task{ProjectID: p.ID, Title: "X", Category: "plumbing"})
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)

	err = svc.Create(ctx, &domain.Task{ProjectID: p.ID, Title: "", Category: domain.CategoryDesign})
	assert.Error(t, err)

	err = svc.Create(ctx, &domain.Task{ProjectID: p.ID, Title: "X", Category: domain.CategoryDesign, Status: "blocked"})
	assert.ErrorIs(t, err, domain.ErrInvalidTaskStatus)

	err = svc.Create(ctx, &domain.Task{ProjectID: "missing", Title: "X", Category: domain.CategoryDesign})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	list, err := svc.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTaskService_UpdateStatus_Transitions(t *testing.T) {
	projects, tasks, _, uow := setupRepos(t)
	ctx := context.Background()
	svc := NewTaskService(tasks, uow)

	p := testutil.NewTestProject("Smith", testutil.WithStage(domain.StageVisionBoard), testutil.WithProgress(20))
	require.NoError(t, projects.Create(ctx, p))
	task := &domain.Task{ProjectID: p.ID, Title: "Moodboard", Category: domain.CategoryDesign}
	require.NoError(t, svc.Create(ctx, task))

	started, err := svc.UpdateStatus(ctx, task.ID, domain.TaskInProgress)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskInProgress, started.Status)
	_, pct := storedProgress(t, projects, p.ID)
	assert.Equal(t, 20, pct, "in-progress tasks do not count as completed")

	done, err := svc.UpdateStatus(ctx, task.ID, domain.TaskCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)
	_, pct = storedProgress(t, projects, p.ID)
	assert.Equal(t, 40, pct)

	_, err = svc.UpdateStatus(ctx, task.ID, domain.TaskPending)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	reopened, err := svc.Reopen(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskPending, reopened.Status)
	assert.Nil(t, reopened.CompletedAt)
	_, pct = storedProgress(t, projects, p.ID)
	assert.Equal(t, 20, pct)
}

func TestTaskService_UpdateStatus_SameStatusIsNoop(t *testing.T) {
	projects, tasks, _, uow := setupRepos(t)
	ctx := context.Background()
	svc := NewTaskService(tasks, uow)

	p := testutil.NewTestProject("Smith")
	require.NoError(t, projects.Create(ctx, p))
	task := &domain.Task{ProjectID: p.ID, Title: "Call", Category: domain.CategoryConsultation, Status: domain.TaskCompleted}
	require.NoError(t, svc.Create(ctx, task))
	first := *task.CompletedAt

	again, err := svc.UpdateStatus(ctx, task.ID, domain.TaskCompleted)
	require.NoError(t, err)
	require.NotNil(t, again.CompletedAt)
	assert.True(t, first.Truncate(time.Second).Equal(*again.CompletedAt), "completion time is kept")
}

func TestTaskService_Update_CategoryChangeRecomputes(t *testing.T) {
	projects, tasks, _, uow := setupRepos(t)
	ctx := context.Background()
	svc := NewTaskService(tasks, uow)

	p := testutil.NewTestProject("Smith", testutil.WithStage(domain.StageOrdering), testutil.WithProgress(40))
	require.NoError(t, projects.Create(ctx, p))
	task := &domain.Task{ProjectID: p.ID, Title: "Sofa", Category: domain.CategoryDesign, Status: domain.TaskCompleted}
	require.NoError(t, svc.Create(ctx, task))
	_, pct := storedProgress(t, projects, p.ID)
	assert.Equal(t, 40, pct)

	edit := *task
	edit.Category = domain.CategoryOrdering
	edit.Title = "Order sofa"
	edit.Status = domain.TaskPending // ignored by Update
	require.NoError(t, svc.Update(ctx, &edit))
	assert.Equal(t, domain.TaskCompleted, edit.Status)

	_, pct = storedProgress(t, projects, p.ID)
	assert.Equal(t, 60, pct)
}

func TestTaskService_Delete_RecomputesProgress(t *testing.T) {
	projects, tasks, _, uow := setupRepos(t)
	ctx := context.Background()
	svc := NewTaskService(tasks, uow)

	p := testutil.NewTestProject("Smith", testutil.WithStage(domain.StageInstallation), testutil.WithProgress(60))
	require.NoError(t, projects.Create(ctx, p))
	done := &domain.Task{ProjectID: p.ID, Title: "Hang art", Category: domain.CategoryInstallation, Status: domain.TaskCompleted}
	open := &domain.Task{ProjectID: p.ID, Title: "Mount TV", Category: domain.CategoryInstallation}
	require.NoError(t, svc.Create(ctx, done))
	require.NoError(t, svc.Create(ctx, open))
	_, pct := storedProgress(t, projects, p.ID)
	assert.Equal(t, 70, pct)

	require.NoError(t, svc.Delete(ctx, open.ID))
	_, pct = storedProgress(t, projects, p.ID)
	assert.Equal(t, 80, pct)

	assert.ErrorIs(t, svc.Delete(ctx, open.ID), repository.ErrNotFound)
}

func TestTaskService_Create_RollbackOnProgressWriteFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	projects := repository.NewSQLiteProjectRepo(database)
	tasks := repository.NewSQLiteTaskRepo(database)
	ctx := context.Background()

	p := testutil.NewTestProject("Rollback", testutil.WithStage(domain.StageOrdering), testutil.WithProgress(40))
	require.NoError(t, projects.Create(ctx, p))

	// ExecContext #1 = tasks.Create, #2 = projects.UpdateProgress
	failUoW := &testutil.FailOnNthExecUoW{
		DB:     database,
		FailOn: 2,
		Err:    fmt.Errorf("injected progress write failure"),
	}
	svc := NewTaskService(tasks, failUoW)

	task := &domain.Task{ProjectID: p.ID, Title: "Order sofa", Category: domain.CategoryOrdering, Status: domain.TaskCompleted}
	err := svc.Create(ctx, task)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected progress write failure")

	list, err := tasks.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, list, "task insert should be rolled back with the progress write")
	_, pct := storedProgress(t, projects, p.ID)
	assert.Equal(t, 40, pct)
}

func TestTaskService_UpdateStatus_RollbackOnProgressWriteFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	projects := repository.NewSQLiteProjectRepo(database)
	tasks := repository.NewSQLiteTaskRepo(database)
	ctx := context.Background()

	p := testutil.NewTestProject("Rollback", testutil.WithStage(domain.StageOrdering), testutil.WithProgress(40))
	require.NoError(t, projects.Create(ctx, p))
	task := testutil.NewTestTask(p.ID, "Order sofa", testutil.WithCategory(domain.CategoryOrdering))
	require.NoError(t, tasks.Create(ctx, task))

	// ExecContext #1 = tasks.Update, #2 = projects.UpdateProgress
	failUoW := &testutil.FailOnNthExecUoW{
		DB:     database,
		FailOn: 2,
		Err:    fmt.Errorf("injected progress write failure"),
	}
	svc := NewTaskService(tasks, failUoW)

	_, err := svc.UpdateStatus(ctx, task.ID, domain.TaskCompleted)
	require.Error(t, err)

	fetched, err := tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskPending, fetched.Status, "status should be unchanged after rollback")
	_, pct := storedProgress(t, projects, p.ID)
	assert.Equal(t, 40, pct)
}
