package service

import (
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/todolist/pkg/api"
)

// NewAccountServiceHandler builds an HTTP handler for the AccountService.
// It returns the path on which to mount the handler and the handler itself.
func NewAccountServiceHandler(svc *AccountService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{api.WithCodec()}, opts...)

	mux := http.NewServeMux()
	mux.Handle(api.AccountServiceSignUpProcedure, connect.NewUnaryHandler(
		api.AccountServiceSignUpProcedure, svc.SignUp, opts...,
	))
	mux.Handle(api.AccountServiceLoginProcedure, connect.NewUnaryHandler(
		api.AccountServiceLoginProcedure, svc.Login, opts...,
	))
	return "/" + api.AccountServiceName + "/", mux
}

// NewTaskServiceHandler builds an HTTP handler for the TaskService. Pass
// middleware.RequireAuth in opts; the service rejects calls without a user.
func NewTaskServiceHandler(svc *TaskService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{api.WithCodec()}, opts...)

	mux := http.NewServeMux()
	mux.Handle(api.TaskServiceListTasksProcedure, connect.NewUnaryHandler(
		api.TaskServiceListTasksProcedure, svc.ListTasks, opts...,
	))
	mux.Handle(api.TaskServiceAddTaskProcedure, connect.NewUnaryHandler(
		api.TaskServiceAddTaskProcedure, svc.AddTask, opts...,
	))
	mux.Handle(api.TaskServiceUpdateTaskProcedure, connect.NewUnaryHandler(
		api.TaskServiceUpdateTaskProcedure, svc.UpdateTask, opts...,
	))
	mux.Handle(api.TaskServiceDeleteTaskProcedure, connect.NewUnaryHandler(
		api.TaskServiceDeleteTaskProcedure, svc.DeleteTask, opts...,
	))
	return "/" + api.TaskServiceName + "/", mux
}
