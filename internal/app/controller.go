package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mmynk/todolist/internal/auth"
	"github.com/mmynk/todolist/internal/models"
	"github.com/mmynk/todolist/internal/session"
	"github.com/mmynk/todolist/internal/tasks"
)

// ErrNotLoggedIn is returned by task actions when the session is logged out.
var ErrNotLoggedIn = errors.New("not logged in")

// User-facing notices.
const (
	NoticeSignedUp     = "Sign up successful!"
	NoticeItemAdded    = "Item added"
	NoticeItemUpdated  = "Item updated"
	NoticeItemDeleted  = "Item deleted"
	NoticeLoginFirst   = "Please log in"
	NoticeNoAccount    = "Account not found"
	NoticeGenericError = "Something went wrong, please try again"
)

// Controller drives the screens against an account backend, a task backend
// and the session context.
type Controller struct {
	accounts Accounts
	tasks    Tasks
	sessions *session.Manager
	logger   *slog.Logger
}

// NewController wires a controller.
func NewController(accounts Accounts, tasks Tasks, sessions *session.Manager, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		accounts: accounts,
		tasks:    tasks,
		sessions: sessions,
		logger:   logger,
	}
}

// Start builds the first state from the stored session. A logged-in session
// opens the task list and loads it.
func (c *Controller) Start(ctx context.Context) (State, error) {
	current := c.sessions.Current()
	st := State{
		Screen:  InitialScreen(current),
		Session: current,
	}
	if st.Screen != ScreenTodo {
		return st, nil
	}
	return c.Refresh(ctx, st)
}

// GoToSignUp switches to the sign-up screen.
func (c *Controller) GoToSignUp(st State) State {
	st = st.withNotice("")
	st.Screen = ScreenSignUp
	return st
}

// GoToLogin switches to the login screen.
func (c *Controller) GoToLogin(st State) State {
	st = st.withNotice("")
	st.Screen = ScreenLogin
	return st
}

// SignUp registers the account and, on success, logs the user in.
func (c *Controller) SignUp(ctx context.Context, st State, form auth.SignUpForm) (State, error) {
	grant, err := c.accounts.SignUp(ctx, form)
	if err != nil {
		c.logFailure(ctx, slog.LevelWarn, "Sign up failed", form.Username, err)
		return st.withNotice(noticeFor(err)), err
	}

	next, err := c.enter(ctx, st, grant)
	if err != nil {
		return next, err
	}
	// A failed first load keeps its own notice.
	if next.Notice == "" {
		next.Notice = NoticeSignedUp
	}
	return next, nil
}

// Login checks the credentials and, on success, writes the session and opens
// the task list. On failure the session is untouched.
func (c *Controller) Login(ctx context.Context, st State, username, password string) (State, error) {
	grant, err := c.accounts.Login(ctx, username, password)
	if err != nil {
		c.logFailure(ctx, slog.LevelWarn, "Login failed", username, err)
		return st.withNotice(noticeFor(err)), err
	}
	return c.enter(ctx, st, grant)
}

// enter persists a logged-in session for grant and loads the task list.
func (c *Controller) enter(ctx context.Context, st State, grant auth.Grant) (State, error) {
	if grant.User == nil {
		return st.withNotice(NoticeGenericError), errors.New("login returned no user")
	}
	s := session.LoggedIn(grant.User.Username, grant.Token)
	if err := c.sessions.Write(ctx, s); err != nil {
		c.logger.Error("Failed to write session", "error", err)
		return st.withNotice(NoticeGenericError), err
	}

	// A failed load still counts as logged in; the list stays empty.
	loaded, _ := c.Refresh(ctx, State{Screen: ScreenTodo, Session: s})
	return loaded, nil
}

// Logout clears the session and returns to the login screen.
func (c *Controller) Logout(ctx context.Context, st State) (State, error) {
	if err := c.sessions.Clear(ctx); err != nil {
		c.logger.Error("Failed to clear session", "error", err)
		return st.withNotice(NoticeGenericError), err
	}
	return State{Screen: ScreenLogin}, nil
}

// Refresh reloads the task list.
func (c *Controller) Refresh(ctx context.Context, st State) (State, error) {
	if !st.Session.IsLoggedIn {
		return st.withNotice(NoticeLoginFirst), ErrNotLoggedIn
	}

	list, err := c.tasks.List(c.withSession(ctx, st), st.Session.Email)
	if err != nil {
		c.logger.Error("Failed to load tasks", "username", st.Session.Email, "error", err)
		return st.withNotice(noticeFor(err)), err
	}

	next := st.withNotice(st.Notice)
	next.Tasks = list
	return next, nil
}

// AddTask adds a task and reloads the list.
func (c *Controller) AddTask(ctx context.Context, st State, task models.Task) (State, error) {
	return c.mutate(ctx, st, NoticeItemAdded, func(ctx context.Context, username string) error {
		return c.tasks.Add(ctx, username, task)
	})
}

// EditTask replaces every task matching old with fields and reloads the list.
func (c *Controller) EditTask(ctx context.Context, st State, old, fields models.Task) (State, error) {
	return c.mutate(ctx, st, NoticeItemUpdated, func(ctx context.Context, username string) error {
		_, err := c.tasks.Update(ctx, username, old, fields)
		return err
	})
}

// DeleteTask deletes every task matching task and reloads the list.
func (c *Controller) DeleteTask(ctx context.Context, st State, task models.Task) (State, error) {
	return c.mutate(ctx, st, NoticeItemDeleted, func(ctx context.Context, username string) error {
		_, err := c.tasks.Delete(ctx, username, task)
		return err
	})
}

// mutate runs op for the logged-in user, then reloads. A failed op leaves
// the task list as it was.
func (c *Controller) mutate(ctx context.Context, st State, notice string, op func(context.Context, string) error) (State, error) {
	if !st.Session.IsLoggedIn {
		return st.withNotice(NoticeLoginFirst), ErrNotLoggedIn
	}

	if err := op(c.withSession(ctx, st), st.Session.Email); err != nil {
		c.logFailure(ctx, slog.LevelError, "Task operation failed", st.Session.Email, err)
		return st.withNotice(noticeFor(err)), err
	}

	return c.Refresh(ctx, st.withNotice(notice))
}

// logFailure logs input problems at debug and everything else at level.
func (c *Controller) logFailure(ctx context.Context, level slog.Level, msg, username string, err error) {
	if auth.IsValidation(err) {
		level = slog.LevelDebug
	}
	c.logger.Log(ctx, level, msg, "username", username, "error", err)
}

func (c *Controller) withSession(ctx context.Context, st State) context.Context {
	return session.NewContext(ctx, st.Session)
}

// noticeFor maps an error to the message shown to the user.
func noticeFor(err error) string {
	var ve *auth.ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Message
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "username or password are not correct"
	case errors.Is(err, auth.ErrDuplicateUsername):
		return "Username already exists"
	case errors.Is(err, tasks.ErrUserNotFound), errors.Is(err, tasks.ErrAmbiguousUser):
		return NoticeNoAccount
	case errors.Is(err, ErrNotLoggedIn),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken):
		return NoticeLoginFirst
	default:
		return NoticeGenericError
	}
}
