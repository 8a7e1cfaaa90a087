package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/todolist/internal/auth"
	"github.com/mmynk/todolist/internal/middleware"
	"github.com/mmynk/todolist/internal/service"
	"github.com/mmynk/todolist/internal/storage/sqlite"
	"github.com/mmynk/todolist/internal/tasks"
)

func startServer(t *testing.T) string {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "cli.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	mux := http.NewServeMux()
	mux.Handle(service.NewAccountServiceHandler(
		service.NewAccountService(auth.NewPasswordAuthenticator(store), jwtManager, nil),
	))
	mux.Handle(service.NewTaskServiceHandler(
		service.NewTaskService(tasks.NewManager(store, nil), nil),
		connect.WithInterceptors(middleware.RequireAuth(jwtManager)),
	))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server.URL
}

func TestCLI(t *testing.T) {
	t.Chdir(t.TempDir())
	serverURL := startServer(t)
	sessionPath := filepath.Join(t.TempDir(), "session.json")

	run := func(args ...string) (string, error) {
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetErr(&out)
		rootCmd.SetArgs(append(args, "--server", serverURL, "--session", sessionPath))
		err := rootCmd.ExecuteContext(context.Background())
		return out.String(), err
	}

	out, err := run("status")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")
	assert.Contains(t, out, sessionPath)

	_, err = run("list")
	require.Error(t, err)

	out, err = run("signup",
		"--username", "alice", "--email", "alice@example.com",
		"--password", "Passw0rd!", "--confirm-password", "Passw0rd!",
		"--name", "Alice", "--phone", "555-0100", "--address", "1 Main St",
		"--accept-terms")
	require.NoError(t, err)
	assert.Contains(t, out, "Sign up successful!")

	out, err = run("add", "--label", "home", "--item", "Milk", "--description", "2%")
	require.NoError(t, err)
	assert.Contains(t, out, "Item added")
	assert.Contains(t, out, "Milk")

	out, err = run("edit", "--label", "home", "--item", "Milk", "--description", "2%", "--new-item", "Oat milk")
	require.NoError(t, err)
	assert.Contains(t, out, "Item updated")
	assert.Contains(t, out, "Oat milk")

	out, err = run("delete", "--label", "home", "--item", "Oat milk", "--description", "2%")
	require.NoError(t, err)
	assert.Contains(t, out, "Item deleted")
	assert.Contains(t, out, "No tasks")

	_, err = run("add", "--label", "home", "--item", "", "--description", "")
	require.EqualError(t, err, "Item cannot be empty")

	out, err = run("logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")

	_, err = run("login", "alice", "wrong")
	require.EqualError(t, err, "username or password are not correct")

	out, err = run("login", "alice", "Passw0rd!")
	require.NoError(t, err)
	assert.Contains(t, out, "No tasks")

	out, err = run("status")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as alice")
}
