package app

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/todolist/internal/auth"
	"github.com/mmynk/todolist/internal/models"
	"github.com/mmynk/todolist/internal/session"
	"github.com/mmynk/todolist/internal/storage"
	"github.com/mmynk/todolist/internal/storage/sqlite"
	"github.com/mmynk/todolist/internal/tasks"
)

type fixture struct {
	ctrl     *Controller
	sessions *session.Manager
	store    *session.FileStore
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	return newFixtureWithLogger(t, nil)
}

func newFixtureWithLogger(t *testing.T, logger *slog.Logger) fixture {
	t.Helper()
	dir := t.TempDir()

	db, err := sqlite.New(filepath.Join(dir, "todo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := session.NewFileStore(filepath.Join(dir, "session.json"))
	sessions, err := session.Open(context.Background(), store)
	require.NoError(t, err)

	ctrl := NewController(
		LocalAccounts(auth.NewPasswordAuthenticator(db)),
		tasks.NewManager(db, nil),
		sessions,
		logger,
	)
	return fixture{ctrl: ctrl, sessions: sessions, store: store}
}

func aliceForm() auth.SignUpForm {
	return auth.SignUpForm{
		Username:        "alice",
		Email:           "alice@example.com",
		Password:        "Passw0rd!",
		ConfirmPassword: "Passw0rd!",
		Name:            "Alice",
		Phone:           "555-0100",
		Address:         "1 Main St",
		AcceptedTerms:   true,
	}
}

// triple drops the store ID so tasks compare by content.
func triple(t models.Task) models.Task {
	t.ID = ""
	return t
}

func TestInitialScreen(t *testing.T) {
	assert.Equal(t, ScreenLogin, InitialScreen(session.Session{}))
	assert.Equal(t, ScreenTodo, InitialScreen(session.LoggedIn("alice", "")))
}

func TestFullFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	st, err := f.ctrl.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, ScreenLogin, st.Screen)

	st = f.ctrl.GoToSignUp(st)
	assert.Equal(t, ScreenSignUp, st.Screen)

	st, err = f.ctrl.SignUp(ctx, st, aliceForm())
	require.NoError(t, err)
	assert.Equal(t, ScreenTodo, st.Screen)
	assert.Equal(t, NoticeSignedUp, st.Notice)
	assert.Empty(t, st.Tasks)

	st, err = f.ctrl.Logout(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, ScreenLogin, st.Screen)
	assert.False(t, f.sessions.Current().IsLoggedIn)

	st = f.ctrl.GoToSignUp(st)
	st = f.ctrl.GoToLogin(st)
	assert.Equal(t, ScreenLogin, st.Screen)

	st, err = f.ctrl.Login(ctx, st, "alice", "Passw0rd!")
	require.NoError(t, err)
	assert.Equal(t, ScreenTodo, st.Screen)
	assert.Equal(t, "alice", f.sessions.Current().Email)

	task := models.Task{Label: "Home", Item: "Milk", FullDescription: "2%"}
	st, err = f.ctrl.AddTask(ctx, st, task)
	require.NoError(t, err)
	assert.Equal(t, NoticeItemAdded, st.Notice)
	require.Len(t, st.Tasks, 1)
	assert.Equal(t, task, triple(st.Tasks[0]))

	edited := models.Task{Label: "Home", Item: "Oat milk", FullDescription: "1L"}
	st, err = f.ctrl.EditTask(ctx, st, task, edited)
	require.NoError(t, err)
	assert.Equal(t, NoticeItemUpdated, st.Notice)
	require.Len(t, st.Tasks, 1)
	assert.Equal(t, edited, triple(st.Tasks[0]))

	st, err = f.ctrl.DeleteTask(ctx, st, edited)
	require.NoError(t, err)
	assert.Equal(t, NoticeItemDeleted, st.Notice)
	assert.Empty(t, st.Tasks)
}

func TestRestartResumesSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	st, err := f.ctrl.SignUp(ctx, State{Screen: ScreenSignUp}, aliceForm())
	require.NoError(t, err)
	_, err = f.ctrl.AddTask(ctx, st, models.Task{Item: "Milk"})
	require.NoError(t, err)

	reopened, err := session.Open(ctx, f.store)
	require.NoError(t, err)
	f.ctrl.sessions = reopened

	st, err = f.ctrl.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, ScreenTodo, st.Screen)
	assert.Len(t, st.Tasks, 1)
}

func TestLoginFailureLeavesSessionUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ctrl.SignUp(ctx, State{Screen: ScreenSignUp}, aliceForm())
	require.NoError(t, err)
	st, err := f.ctrl.Logout(ctx, State{})
	require.NoError(t, err)
	before := f.sessions.Current()

	tests := []struct {
		name     string
		username string
		password string
		notice   string
	}{
		{"wrong password", "alice", "nope", "username or password are not correct"},
		{"unknown user", "bob", "Passw0rd!", "username or password are not correct"},
		{"empty username", "", "Passw0rd!", "Username is required"},
		{"empty password", "alice", "", "Password is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := f.ctrl.Login(ctx, st, tt.username, tt.password)
			require.Error(t, err)
			assert.Equal(t, tt.notice, next.Notice)
			assert.Equal(t, ScreenLogin, next.Screen)
			assert.Equal(t, before, f.sessions.Current())
		})
	}
}

func TestSignUpValidationNotice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	form := aliceForm()
	form.ConfirmPassword = "Different1!"
	st, err := f.ctrl.SignUp(ctx, State{Screen: ScreenSignUp}, form)
	require.Error(t, err)
	assert.True(t, auth.IsValidation(err))
	assert.Equal(t, ScreenSignUp, st.Screen)
	assert.NotEmpty(t, st.Notice)
	assert.False(t, f.sessions.Current().IsLoggedIn)

	_, err = f.ctrl.SignUp(ctx, st, aliceForm())
	require.NoError(t, err)
	_, err = f.ctrl.SignUp(ctx, st, aliceForm())
	require.ErrorIs(t, err, auth.ErrDuplicateUsername)
}

func TestTaskActionsRequireLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	st, err := f.ctrl.AddTask(ctx, State{Screen: ScreenTodo}, models.Task{Item: "Milk"})
	require.ErrorIs(t, err, ErrNotLoggedIn)
	assert.Equal(t, NoticeLoginFirst, st.Notice)
}

func TestEmptyItemKeepsList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	st, err := f.ctrl.SignUp(ctx, State{Screen: ScreenSignUp}, aliceForm())
	require.NoError(t, err)
	st, err = f.ctrl.AddTask(ctx, st, models.Task{Item: "Milk"})
	require.NoError(t, err)

	next, err := f.ctrl.AddTask(ctx, st, models.Task{Label: "x"})
	require.Error(t, err)
	assert.Equal(t, "Item cannot be empty", next.Notice)
	assert.Equal(t, st.Tasks, next.Tasks)
}

func TestGoToLoginClearsNotice(t *testing.T) {
	f := newFixture(t)

	st := f.ctrl.GoToLogin(State{Screen: ScreenSignUp, Notice: "Username is required"})
	assert.Equal(t, ScreenLogin, st.Screen)
	assert.Empty(t, st.Notice)
}

func TestValidationFailuresLogAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	f := newFixtureWithLogger(t, logger)
	ctx := context.Background()

	st, err := f.ctrl.SignUp(ctx, State{Screen: ScreenSignUp}, aliceForm())
	require.NoError(t, err)

	_, err = f.ctrl.AddTask(ctx, st, models.Task{Label: "x"})
	require.Error(t, err)
	_, err = f.ctrl.Login(ctx, State{Screen: ScreenLogin}, "", "Passw0rd!")
	require.Error(t, err)
	assert.NotContains(t, buf.String(), "Task operation failed")
	assert.NotContains(t, buf.String(), "Login failed")

	_, err = f.ctrl.Login(ctx, State{Screen: ScreenLogin}, "alice", "wrong")
	require.Error(t, err)
	assert.Contains(t, buf.String(), "Login failed")
}

// brokenTasks fails every call the way an unreachable store does.
type brokenTasks struct{}

var errUnreachable = errors.New("connection refused")

func (brokenTasks) List(context.Context, string) ([]models.Task, error) {
	return nil, storage.Remote("list tasks", errUnreachable)
}

func (brokenTasks) Add(context.Context, string, models.Task) error {
	return storage.Remote("add task", errUnreachable)
}

func (brokenTasks) Update(context.Context, string, models.Task, models.Task) (int, error) {
	return 0, storage.Remote("update task", errUnreachable)
}

func (brokenTasks) Delete(context.Context, string, models.Task) (int, error) {
	return 0, storage.Remote("delete task", errUnreachable)
}

func TestSignUpKeepsLoadFailureNotice(t *testing.T) {
	f := newFixture(t)
	f.ctrl.tasks = brokenTasks{}
	ctx := context.Background()

	st, err := f.ctrl.SignUp(ctx, State{Screen: ScreenSignUp}, aliceForm())
	require.NoError(t, err)
	assert.Equal(t, ScreenTodo, st.Screen)
	assert.Equal(t, NoticeGenericError, st.Notice)
	assert.Empty(t, st.Tasks)
	assert.True(t, f.sessions.Current().IsLoggedIn)
}
