// Package app models the three screens (login, sign-up, task list) as an
// explicit State value and the controller functions that move between states.
//
// Every controller method takes the current State and returns the next one.
// Inputs are never mutated. On failure the returned State is the input with
// Notice set to the user-facing message, and the error is returned alongside.
package app

import (
	"context"

	"github.com/mmynk/todolist/internal/auth"
	"github.com/mmynk/todolist/internal/models"
	"github.com/mmynk/todolist/internal/session"
)

// Screen identifies which screen is shown.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenSignUp
	ScreenTodo
)

func (s Screen) String() string {
	switch s {
	case ScreenLogin:
		return "login"
	case ScreenSignUp:
		return "signup"
	case ScreenTodo:
		return "todo"
	default:
		return "unknown"
	}
}

// InitialScreen picks the start screen from the stored session.
func InitialScreen(s session.Session) Screen {
	if s.IsLoggedIn {
		return ScreenTodo
	}
	return ScreenLogin
}

// State is everything the UI renders.
type State struct {
	Screen  Screen
	Session session.Session
	Tasks   []models.Task
	Notice  string
}

// withNotice returns a copy of st with the given notice.
func (st State) withNotice(notice string) State {
	st.Tasks = cloneTasks(st.Tasks)
	st.Notice = notice
	return st
}

func cloneTasks(tasks []models.Task) []models.Task {
	if tasks == nil {
		return nil
	}
	out := make([]models.Task, len(tasks))
	copy(out, tasks)
	return out
}

// Accounts is the account backend seen by the screens.
type Accounts interface {
	SignUp(ctx context.Context, form auth.SignUpForm) (auth.Grant, error)
	Login(ctx context.Context, username, password string) (auth.Grant, error)
}

// Tasks is the task backend seen by the screens. The context carries the
// current session (see session.NewContext).
type Tasks interface {
	List(ctx context.Context, username string) ([]models.Task, error)
	Add(ctx context.Context, username string, task models.Task) error
	Update(ctx context.Context, username string, old, fields models.Task) (int, error)
	Delete(ctx context.Context, username string, task models.Task) (int, error)
}

// LocalAccounts adapts an in-process Authenticator to Accounts.
// Grants carry no token.
func LocalAccounts(a auth.Authenticator) Accounts {
	return localAccounts{auth: a}
}

type localAccounts struct {
	auth auth.Authenticator
}

func (l localAccounts) SignUp(ctx context.Context, form auth.SignUpForm) (auth.Grant, error) {
	user, err := l.auth.SignUp(ctx, form)
	if err != nil {
		return auth.Grant{}, err
	}
	return auth.Grant{User: user}, nil
}

func (l localAccounts) Login(ctx context.Context, username, password string) (auth.Grant, error) {
	user, err := l.auth.Login(ctx, username, password)
	if err != nil {
		return auth.Grant{}, err
	}
	return auth.Grant{User: user}, nil
}
