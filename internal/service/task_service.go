package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/todolist/internal/auth"
	"github.com/mmynk/todolist/internal/middleware"
	"github.com/mmynk/todolist/internal/models"
	"github.com/mmynk/todolist/pkg/api"
)

// TaskManager is the task backend the service delegates to.
type TaskManager interface {
	List(ctx context.Context, username string) ([]models.Task, error)
	Add(ctx context.Context, username string, task models.Task) error
	Update(ctx context.Context, username string, old, fields models.Task) (int, error)
	Delete(ctx context.Context, username string, task models.Task) (int, error)
}

// TaskService implements the TaskService RPC interface. Every procedure acts
// on behalf of the user authenticated by middleware.RequireAuth.
type TaskService struct {
	tasks  TaskManager
	logger *slog.Logger
}

// NewTaskService creates a new task service.
func NewTaskService(tasks TaskManager, logger *slog.Logger) *TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskService{tasks: tasks, logger: logger}
}

func (s *TaskService) username(ctx context.Context) (string, error) {
	username := middleware.GetUsername(ctx)
	if username == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return username, nil
}

// ListTasks returns every task of the caller.
func (s *TaskService) ListTasks(ctx context.Context, req *connect.Request[api.ListTasksRequest]) (*connect.Response[api.ListTasksResponse], error) {
	username, err := s.username(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.tasks.List(ctx, username)
	if err != nil {
		s.logger.Error("ListTasks failed", "username", username, "user_id", middleware.GetUserID(ctx), "error", err)
		return nil, toConnectError(err)
	}

	resp := &api.ListTasksResponse{Tasks: make([]*api.Task, 0, len(list))}
	for _, task := range list {
		resp.Tasks = append(resp.Tasks, toAPITask(task))
	}
	return connect.NewResponse(resp), nil
}

// AddTask adds one task for the caller.
func (s *TaskService) AddTask(ctx context.Context, req *connect.Request[api.AddTaskRequest]) (*connect.Response[api.AddTaskResponse], error) {
	username, err := s.username(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.Add(ctx, username, fromAPITask(req.Msg.Task)); err != nil {
		s.logger.Warn("AddTask failed", "username", username, "user_id", middleware.GetUserID(ctx), "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.AddTaskResponse{}), nil
}

// UpdateTask replaces every matching task of the caller.
func (s *TaskService) UpdateTask(ctx context.Context, req *connect.Request[api.UpdateTaskRequest]) (*connect.Response[api.UpdateTaskResponse], error) {
	username, err := s.username(ctx)
	if err != nil {
		return nil, err
	}

	n, err := s.tasks.Update(ctx, username, fromAPITask(req.Msg.Old), fromAPITask(req.Msg.Fields))
	if err != nil {
		s.logger.Warn("UpdateTask failed", "username", username, "user_id", middleware.GetUserID(ctx), "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.UpdateTaskResponse{Updated: int32(n)}), nil
}

// DeleteTask deletes every matching task of the caller.
func (s *TaskService) DeleteTask(ctx context.Context, req *connect.Request[api.DeleteTaskRequest]) (*connect.Response[api.DeleteTaskResponse], error) {
	username, err := s.username(ctx)
	if err != nil {
		return nil, err
	}

	n, err := s.tasks.Delete(ctx, username, fromAPITask(req.Msg.Task))
	if err != nil {
		s.logger.Warn("DeleteTask failed", "username", username, "user_id", middleware.GetUserID(ctx), "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.DeleteTaskResponse{Deleted: int32(n)}), nil
}

func toAPITask(t models.Task) *api.Task {
	return &api.Task{
		ID:              t.ID,
		Label:           t.Label,
		Item:            t.Item,
		FullDescription: t.FullDescription,
	}
}

// fromAPITask treats a missing task as the empty triple.
func fromAPITask(t *api.Task) models.Task {
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
