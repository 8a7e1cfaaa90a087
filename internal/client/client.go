// Package client talks to the todolist Connect gateway. Client satisfies the
// same account and task contracts as the in-process services, so the app
// controller can drive either one.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/todolist/internal/auth"
	"github.com/mmynk/todolist/internal/models"
	"github.com/mmynk/todolist/internal/session"
	"github.com/mmynk/todolist/internal/storage"
	"github.com/mmynk/todolist/internal/tasks"
	"github.com/mmynk/todolist/pkg/api"
)

// Client is a typed Connect client for the account and task services.
// Task calls authenticate with the token of the session carried in the
// context (see session.NewContext).
type Client struct {
	signUp     *connect.Client[api.SignUpRequest, api.AuthResponse]
	login      *connect.Client[api.LoginRequest, api.AuthResponse]
	listTasks  *connect.Client[api.ListTasksRequest, api.ListTasksResponse]
	addTask    *connect.Client[api.AddTaskRequest, api.AddTaskResponse]
	updateTask *connect.Client[api.UpdateTaskRequest, api.UpdateTaskResponse]
	deleteTask *connect.Client[api.DeleteTaskRequest, api.DeleteTaskResponse]
}

// New creates a client for the gateway at baseURL. A nil httpClient uses
// http.DefaultClient.
func New(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{api.WithCodec()}, opts...)

	return &Client{
		signUp: connect.NewClient[api.SignUpRequest, api.AuthResponse](
			httpClient, baseURL+api.AccountServiceSignUpProcedure, opts...),
		login: connect.NewClient[api.LoginRequest, api.AuthResponse](
			httpClient, baseURL+api.AccountServiceLoginProcedure, opts...),
		listTasks: connect.NewClient[api.ListTasksRequest, api.ListTasksResponse](
			httpClient, baseURL+api.TaskServiceListTasksProcedure, opts...),
		addTask: connect.NewClient[api.AddTaskRequest, api.AddTaskResponse](
			httpClient, baseURL+api.TaskServiceAddTaskProcedure, opts...),
		updateTask: connect.NewClient[api.UpdateTaskRequest, api.UpdateTaskResponse](
			httpClient, baseURL+api.TaskServiceUpdateTaskProcedure, opts...),
		deleteTask: connect.NewClient[api.DeleteTaskRequest, api.DeleteTaskResponse](
			httpClient, baseURL+api.TaskServiceDeleteTaskProcedure, opts...),
	}
}

// SignUp registers an account and returns the user with a token.
func (c *Client) SignUp(ctx context.Context, form auth.SignUpForm) (auth.Grant, error) {
	resp, err := c.signUp.CallUnary(ctx, connect.NewRequest(&api.SignUpRequest{
		Username:        form.Username,
		Email:           form.Email,
		Password:        form.Password,
		ConfirmPassword: form.ConfirmPassword,
		Name:            form.Name,
		Phone:           form.Phone,
		Address:         form.Address,
		AcceptedTerms:   form.AcceptedTerms,
	}))
	if err != nil {
		return auth.Grant{}, fromConnectError("sign up", err)
	}
	return toGrant(resp.Msg), nil
}

// Login authenticates and returns the user with a token.
func (c *Client) Login(ctx context.Context, username, password string) (auth.Grant, error) {
	resp, err := c.login.CallUnary(ctx, connect.NewRequest(&api.LoginRequest{
		Username: username,
		Password: password,
	}))
	if err != nil {
		return auth.Grant{}, fromConnectError("login", err)
	}
	return toGrant(resp.Msg), nil
}

// List returns the tasks of the session user. The gateway identifies the
// user by token, so username is not sent.
func (c *Client) List(ctx context.Context, username string) ([]models.Task, error) {
	req := connect.NewRequest(&api.ListTasksRequest{})
	if err := authorize(ctx, req.Header()); err != nil {
		return nil, err
	}

	resp, err := c.listTasks.CallUnary(ctx, req)
	if err != nil {
		return nil, fromConnectError("list tasks", err)
	}

	list := make([]models.Task, 0, len(resp.Msg.Tasks))
	for _, t := range resp.Msg.Tasks {
		list = append(list, toTask(t))
	}
	return list, nil
}

// Add adds one task for the session user.
func (c *Client) Add(ctx context.Context, username string, task models.Task) error {
	req := connect.NewRequest(&api.AddTaskRequest{Task: fromTask(task)})
	if err := authorize(ctx, req.Header()); err != nil {
		return err
	}

	if _, err := c.addTask.CallUnary(ctx, req); err != nil {
		return fromConnectError("add task", err)
	}
	return nil
}

// Update replaces every task equal to old and returns how many were updated.
func (c *Client) Update(ctx context.Context, username string, old, fields models.Task) (int, error) {
	req := connect.NewRequest(&api.UpdateTaskRequest{Old: fromTask(old), Fields: fromTask(fields)})
	if err := authorize(ctx, req.Header()); err != nil {
		return 0, err
	}

	resp, err := c.updateTask.CallUnary(ctx, req)
	if err != nil {
		return 0, fromConnectError("update task", err)
	}
	return int(resp.Msg.Updated), nil
}

// Delete deletes every task equal to task and returns how many were deleted.
func (c *Client) Delete(ctx context.Context, username string, task models.Task) (int, error) {
	req := connect.NewRequest(&api.DeleteTaskRequest{Task: fromTask(task)})
	if err := authorize(ctx, req.Header()); err != nil {
		return 0, err
	}

	resp, err := c.deleteTask.CallUnary(ctx, req)
	if err != nil {
		return 0, fromConnectError("delete task", err)
	}
	return int(resp.Msg.Deleted), nil
}

func authorize(ctx context.Context, header http.Header) error {
	s, ok := session.FromContext(ctx)
	if !ok || s.Token == "" {
		return auth.ErrMissingToken
	}
	header.Set("Authorization", "Bearer "+s.Token)
	return nil
}

// fromConnectError maps a Connect error back to the domain error the
// in-process services would have returned.
func fromConnectError(op string, err error) error {
	var cerr *connect.Error
	if !errors.As(err, &cerr) {
		return storage.Remote(op, err)
	}

	switch cerr.Code() {
	case connect.CodeInvalidArgument:
		return &auth.ValidationError{
			Field:   cerr.Meta().Get(api.MetaValidationField),
			Message: cerr.Message(),
			Reason:  auth.ReasonByName(cerr.Meta().Get(api.MetaValidationReason)),
		}
	case connect.CodeAlreadyExists:
		return auth.ErrDuplicateUsername
	case connect.CodeUnauthenticated:
		if op == "login" {
			return auth.ErrInvalidCredentials
		}
		return fmt.Errorf("%w: %s", auth.ErrInvalidToken, cerr.Message())
	case connect.CodeNotFound:
		return tasks.ErrUserNotFound
	case connect.CodeFailedPrecondition:
		return tasks.ErrAmbiguousUser
	case connect.CodeUnavailable:
		return storage.Remote(op, cerr)
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}

func toGrant(resp *api.AuthResponse) auth.Grant {
	grant := auth.Grant{Token: resp.Token}
	if u := resp.User; u != nil {
		grant.User = &models.User{
			ID:        u.ID,
			Username:  u.Username,
			Email:     u.Email,
			Name:      u.Name,
			Phone:     u.Phone,
			Address:   u.Address,
			CreatedAt: u.CreatedAt,
		}
	}
	return grant
}

func toTask(t *api.Task) models.Task {
	if t == nil {
		return models.Task{}
	}
	return models.Task{
		ID:              t.ID,
		Label:           t.Label,
		Item:            t.Item,
		FullDescription: t.FullDescription,
	}
}

func fromTask(t models.Task) *api.Task {
	return &api.Task{
		ID:              t.ID,
		Label:           t.Label,
		Item:            t.Item,
		FullDescription: t.FullDescription,
	}
}
