package service_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zcrum/internal/auth"
	"zcrum/internal/board"
	"zcrum/internal/models"
	"zcrum/internal/service"
	"zcrum/internal/storage"
)

const testOrg = "org_test"

func newTestService(t *testing.T) (*service.Service, *storage.Store) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{Level: slog.LevelError}))
	store, err := storage.Open("sqlite", ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return service.New(store, logger), store
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func newActor(t *testing.T, store *storage.Store, externalID, role string) auth.Actor {
	t.Helper()
	user, err := store.EnsureUser(context.Background(), models.User{
		ExternalID: externalID,
		Email:      externalID + "@example.com",
		Name:       externalID,
	})
	require.NoError(t, err)
	return auth.Actor{
		Identity: auth.Identity{UserID: externalID, OrgID: testOrg, OrgRole: role},
		User:     user,
	}
}

func createProject(t *testing.T, svc *service.Service, admin auth.Actor, key string) models.Project {
	t.Helper()
	project, err := svc.CreateProject(context.Background(), admin, service.ProjectInput{
		Name: "Project " + key,
		Key:  key,
	})
	require.NoError(t, err)
	return project
}

func activeSprint(t *testing.T, svc *service.Service, actor auth.Actor, projectID string) models.Sprint {
	t.Helper()
	ctx := context.Background()
	sprint, err := svc.CreateSprint(ctx, actor, projectID, service.SprintInput{
		StartDate: time.Now().Add(-time.Hour),
		EndDate:   time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	sprint, err = svc.UpdateSprintStatus(ctx, actor, sprint.ID, models.SprintActive)
	require.NoError(t, err)
	return sprint
}

func createIssue(t *testing.T, svc *service.Service, actor auth.Actor, projectID, sprintID, title string, status models.IssueStatus) models.Issue {
	t.Helper()
	issue, err := svc.CreateIssue(context.Background(), actor, projectID, service.IssueInput{
		Title:    title,
		Status:   status,
		Priority: models.PriorityMedium,
		SprintID: sprintID,
	})
	require.NoError(t, err)
	return issue
}

func TestProjectPermissions(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	admin := newActor(t, store, "admin_1", auth.RoleAdmin)
	member := newActor(t, store, "member_1", auth.RoleMember)

	_, err := svc.CreateProject(ctx, member, service.ProjectInput{Name: "Nope", Key: "NP"})
	assert.ErrorIs(t, err, models.ErrForbidden)

	project, err := svc.CreateProject(ctx, admin, service.ProjectInput{Name: "Apollo", Key: "apl"})
	require.NoError(t, err)
	assert.Equal(t, "APL", project.Key, "keys are stored uppercase")
	assert.Equal(t, testOrg, project.OrganizationID)

	_, err = svc.UpdateProject(ctx, member, project.ID, service.ProjectInput{Name: "Renamed"})
	assert.ErrorIs(t, err, models.ErrForbidden)

	updated, err := svc.UpdateProject(ctx, admin, project.ID, service.ProjectInput{Name: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)

	assert.ErrorIs(t, svc.DeleteProject(ctx, member, project.ID), models.ErrForbidden)
	require.NoError(t, svc.DeleteProject(ctx, admin, project.ID))

	_, err = svc.GetProject(ctx, admin, project.ID)
	assert.ErrorIs(t, err, models.ErrProjectNotFound)
}

func TestProjectValidation(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	admin := newActor(t, store, "admin_1", auth.RoleAdmin)

	cases := []service.ProjectInput{
		{Name: "", Key: "AB"},
		{Name: "ok", Key: "A"},
		{Name: "ok", Key: "WAYTOOLONGKEY"},
		{Name: "ok", Key: "1AB"},
	}
	for _, in := range cases {
		_, err := svc.CreateProject(ctx, admin, in)
		assert.ErrorIs(t, err, models.ErrValidation, "input %+v", in)
	}
}

func TestIssueOrderAssignment(t *testing.T) {
	svc, store := newTestService(t)
	admin := newActor(t, store, "admin_1", auth.RoleAdmin)
	project := createProject(t, svc, admin, "ORD")
	sprint := activeSprint(t, svc, admin, project.ID)

	a := createIssue(t, svc, admin, project.ID, sprint.ID, "a", models.StatusTodo)
	b := createIssue(t, svc, admin, project.ID, sprint.ID, "b", models.StatusTodo)
	c := createIssue(t, svc, admin, project.ID, sprint.ID, "c", models.StatusTodo)
	assert.Equal(t, 0, a.Order)
	assert.Equal(t, 1, b.Order)
	assert.Equal(t, 2, c.Order)

	d := createIssue(t, svc, admin, project.ID, sprint.ID, "d", models.StatusDone)
	assert.Equal(t, 0, d.Order, "empty partition starts at zero")

	// Deleting does not compact the partition; the next order continues
	// from the maximum.
	require.NoError(t, svc.DeleteIssue(context.Background(), admin, a.ID))
	e := createIssue(t, svc, admin, project.ID, sprint.ID, "e", models.StatusTodo)
	assert.Equal(t, 3, e.Order)
}

func TestSprintNamingSequence(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	admin := newActor(t, store, "admin_1", auth.RoleAdmin)
	project := createProject(t, svc, admin, "ABC")

	window := service.SprintInput{
		StartDate: time.Now(),
		EndDate:   time.Now().Add(7 * 24 * time.Hour),
	}

	s1, err := svc.CreateSprint(ctx, admin, project.ID, window)
	require.NoError(t, err)
	s2, err := svc.CreateSprint(ctx, admin, project.ID, window)
	require.NoError(t, err)
	s3, err := svc.CreateSprint(ctx, admin, project.ID, window)
	require.NoError(t, err)
	assert.Equal(t, []string{"ABC-1", "ABC-2", "ABC-3"}, []string{s1.Name, s2.Name, s3.Name})

	// Deleting ABC-2 must not free its number.
	require.NoError(t, svc.DeleteSprint(ctx, admin, s2.ID))
	s4, err := svc.CreateSprint(ctx, admin, project.ID, window)
	require.NoError(t, err)
	assert.Equal(t, "ABC-4", s4.Name)
}

func TestSprintLifecycle(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	admin := newActor(t, store, "admin_1", auth.RoleAdmin)
	project := createProject(t, svc, admin, "LIF")

	future, err := svc.CreateSprint(ctx, admin, project.ID, service.SprintInput{
		StartDate: time.Now().Add(48 * time.Hour),
		EndDate:   time.Now().Add(96 * time.Hour),
	})
	require.NoError(t, err)

	_, err = svc.UpdateSprintStatus(ctx, admin, future.ID, models.SprintActive)
	assert.ErrorIs(t, err, models.ErrSprintDateRange)

	_, err = svc.UpdateSprintStatus(ctx, admin, future.ID, models.SprintCompleted)
	assert.ErrorIs(t, err, models.ErrSprintNotActive)

	current, err := svc.CreateSprint(ctx, admin, project.ID, service.SprintInput{
		StartDate: time.Now().Add(-time.Hour),
		EndDate:   time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	started, err := svc.UpdateSprintStatus(ctx, admin, current.ID, models.SprintActive)
	require.NoError(t, err)
	assert.Equal(t, models.SprintActive, started.Status)

	assert.ErrorIs(t, svc.DeleteSprint(ctx, admin, current.ID), models.ErrSprintNotPlanned)

	completed, err := svc.UpdateSprintStatus(ctx, admin, current.ID, models.SprintCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.SprintCompleted, completed.Status)

	_, err = svc.UpdateSprintStatus(ctx, admin, current.ID, models.SprintActive)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestSprintValidation(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	admin := newActor(t, store, "admin_1", auth.RoleAdmin)
	project := createProject(t, svc, admin, "VAL")

	_, err := svc.CreateSprint(ctx, admin, project.ID, service.SprintInput{
		StartDate: time.Now(),
		EndDate:   time.Now().Add(-time.Hour),
	})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestBoardMoveGuards(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	admin := newActor(t, store, "admin_1", auth.RoleAdmin)
	project := createProject(t, svc, admin, "GRD")

	planned, err := svc.CreateSprint(ctx, admin, project.ID, service.SprintInput{
		StartDate: time.Now().Add(-time.Hour),
		EndDate:   time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	a := createIssue(t, svc, admin, project.ID, planned.ID, "a", models.StatusTodo)
	b := createIssue(t, svc, admin, project.ID, planned.ID, "b", models.StatusTodo)

	mv := board.Move{
		Source:      board.Position{Status: models.StatusTodo, Index: 0},
		Destination: &board.Position{Status: models.StatusTodo, Index: 1},
	}

	_, err = svc.MoveIssue(ctx, admin, planned.ID, mv)
	assert.ErrorIs(t, err, models.ErrBoardNotStarted)

	// Nothing was persisted.
	issues, err := svc.SprintIssues(ctx, admin, planned.ID)
	require.NoError(t, err)
	require.Len(t, issues, 2)
	assert.Equal(t, a.ID, issues[0].ID)
	assert.Equal(t, 0, issues[0].Order)
	assert.Equal(t, b.ID, issues[1].ID)
	assert.Equal(t, 1, issues[1].Order)

	_, err = svc.UpdateSprintStatus(ctx, admin, planned.ID, models.SprintActive)
	require.NoError(t, err)
	_, err = svc.UpdateSprintStatus(ctx, admin, planned.ID, models.SprintCompleted)
	require.NoError(t, err)

	_, err = svc.MoveIssue(ctx, admin, planned.ID, mv)
	assert.ErrorIs(t, err, models.ErrBoardCompleted)
}

func TestBoardMovePersistsAndLogs(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	admin := newActor(t, store, "admin_1", auth.RoleAdmin)
	project := createProject(t, svc, admin, "XBM")
	sprint := activeSprint(t, svc, admin, project.ID)

	a := createIssue(t, svc, admin, project.ID, sprint.ID, "A", models.StatusTodo)
	b := createIssue(t, svc, admin, project.ID, sprint.ID, "B", models.StatusTodo)
	c := createIssue(t, svc, admin, project.ID, sprint.ID, "C", models.StatusDone)

	moved, err := svc.MoveIssue(ctx, admin, sprint.ID, board.Move{
		Source:      board.Position{Status: models.StatusTodo, Index: 1},
		Destination: &board.Position{Status: models.StatusDone, Index: 0},
	})
	require.NoError(t, err)
	require.Len(t, moved, 3)

	// Re-read from the store: the batch must have committed atomically.
	persisted, err := svc.SprintIssues(ctx, admin, sprint.ID)
	require.NoError(t, err)

	byID := map[string]models.Issue{}
	for _, is := range persisted {
		byID[is.ID] = is
	}
	assert.Equal(t, models.StatusTodo, byID[a.ID].Status)
	assert.Equal(t, 0, byID[a.ID].Order)
	assert.Equal(t, models.StatusDone, byID[b.ID].Status)
	assert.Equal(t, 0, byID[b.ID].Order)
	assert.Equal(t, models.StatusDone, byID[c.ID].Status)
	assert.Equal(t, 1, byID[c.ID].Order)

	// One MOVED entry per touched issue (B and C), recorded after commit.
	logs, err := svc.ActivityFeed(ctx, admin)
	require.NoError(t, err)
	var movedLogs []models.ActivityLog
	for _, entry := range logs {
		if entry.Type == models.ActivityMoved {
			movedLogs = append(movedLogs, entry)
		}
	}
	assert.Len(t, movedLogs, 2)
}

func TestUpdateIssueAppendsToNewPartition(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	admin := newActor(t, store, "admin_1", auth.RoleAdmin)
	project := createProject(t, svc, admin, "UPD")
	sprint := activeSprint(t, svc, admin, project.ID)

	createIssue(t, svc, admin, project.ID, sprint.ID, "done0", models.StatusDone)
	createIssue(t, svc, admin, project.ID, sprint.ID, "done1", models.StatusDone)
	todo := createIssue(t, svc, admin, project.ID, sprint.ID, "todo", models.StatusTodo)

	updated, err := svc.UpdateIssue(ctx, admin, todo.ID, service.IssueUpdate{
		Status:   models.StatusDone,
		Priority: models.PriorityHigh,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusDone, updated.Status)
	assert.Equal(t, models.PriorityHigh, updated.Priority)
	assert.Equal(t, 2, updated.Order, "a status edit appends to the tail of the new column")
}

func TestDeleteIssuePermissions(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	admin := newActor(t, store, "admin_1", auth.RoleAdmin)
	reporter := newActor(t, store, "reporter_1", auth.RoleMember)
	bystander := newActor(t, store, "bystander_1", auth.RoleMember)

	project := createProject(t, svc, admin, "DEL")
	sprint := activeSprint(t, svc, admin, project.ID)

	mine := createIssue(t, svc, reporter, project.ID, sprint.ID, "mine", models.StatusTodo)

	assert.ErrorIs(t, svc.DeleteIssue(ctx, bystander, mine.ID), models.ErrForbidden)
	require.NoError(t, svc.DeleteIssue(ctx, reporter, mine.ID))

	other := createIssue(t, svc, reporter, project.ID, sprint.ID, "other", models.StatusTodo)
	require.NoError(t, svc.DeleteIssue(ctx, admin, other.ID), "org admin may delete any issue")
}

func TestActivityFeedIsHistorical(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	admin := newActor(t, store, "admin_1", auth.RoleAdmin)
	project := createProject(t, svc, admin, "HIS")
	sprint := activeSprint(t, svc, admin, project.ID)

	issue := createIssue(t, svc, admin, project.ID, sprint.ID, "ephemeral", models.StatusTodo)
	require.NoError(t, svc.DeleteIssue(ctx, admin, issue.ID))

	logs, err := svc.ActivityFeed(ctx, admin)
	require.NoError(t, err)

	var kinds []models.ActivityType
	for _, entry := range logs {
		if entry.IssueID != nil && *entry.IssueID == issue.ID {
			kinds = append(kinds, entry.Type)
		}
	}
	// Logs survive the deletion of the issue they reference, newest first.
	assert.Equal(t, []models.ActivityType{models.ActivityDeleted, models.ActivityCreated}, kinds)
}

func TestUserIssues(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	admin := newActor(t, store, "admin_1", auth.RoleAdmin)
	reporter := newActor(t, store, "reporter_1", auth.RoleMember)

	project := createProject(t, svc, admin, "MIN")
	sprint := activeSprint(t, svc, admin, project.ID)

	createIssue(t, svc, reporter, project.ID, sprint.ID, "reported", models.StatusTodo)

	assigned, err := svc.CreateIssue(ctx, admin, project.ID, service.IssueInput{
		Title:      "assigned",
		Status:     models.StatusTodo,
		Priority:   models.PriorityLow,
		SprintID:   sprint.ID,
		AssigneeID: reporter.User.ID,
	})
	require.NoError(t, err)

	mine, err := svc.UserIssues(ctx, reporter)
	require.NoError(t, err)
	require.Len(t, mine, 2)

	ids := []string{mine[0].ID, mine[1].ID}
	assert.Contains(t, ids, assigned.ID)
}
