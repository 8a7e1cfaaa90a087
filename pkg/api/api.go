// Package api defines the todolist.v1 wire contract shared by the Connect
// gateway and its clients: procedure paths, request/response messages and
// the JSON codec they are exchanged with.
package api

const (
	AccountServiceName = "todolist.v1.AccountService"
	TaskServiceName    = "todolist.v1.TaskService"
)

// Procedure paths.
const (
	AccountServiceSignUpProcedure = "/" + AccountServiceName + "/SignUp"
	AccountServiceLoginProcedure  = "/" + AccountServiceName + "/Login"

	TaskServiceListTasksProcedure  = "/" + TaskServiceName + "/ListTasks"
	TaskServiceAddTaskProcedure    = "/" + TaskServiceName + "/AddTask"
	TaskServiceUpdateTaskProcedure = "/" + TaskServiceName + "/UpdateTask"
	TaskServiceDeleteTaskProcedure = "/" + TaskServiceName + "/DeleteTask"
)

// Error metadata carrying validation details on InvalidArgument errors.
// Connect sends error metadata as response headers on unary calls.
const (
	MetaValidationField  = "Todo-Validation-Field"
	MetaValidationReason = "Todo-Validation-Reason"
)

// User is the public view of an account. The password never leaves the server.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	CreatedAt int64  `json:"createdAt"`
}

type Task struct {
	ID              string `json:"id,omitempty"`
	Label           string `json:"label"`
	Item            string `json:"item"`
	FullDescription string `json:"fullDescription"`
}

type SignUpRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
	AcceptedTerms   bool   `json:"acceptedTerms"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is returned by SignUp and Login.
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type ListTasksRequest struct{}

type ListTasksResponse struct {
	Tasks []*Task `json:"tasks"`
}

type AddTaskRequest struct {
	Task *Task `json:"task"`
}

type AddTaskResponse struct{}

// UpdateTaskRequest replaces every task equal to Old (by label, item and
// full description) with Fields.
type UpdateTaskRequest struct {
	Old    *Task `json:"old"`
	Fields *Task `json:"fields"`
}

type UpdateTaskResponse struct {
	Updated int32 `json:"updated"`
}

// DeleteTaskRequest deletes every task equal to Task.
type DeleteTaskRequest struct {
	Task *Task `json:"task"`
}

type DeleteTaskResponse struct {
	Deleted int32 `json:"deleted"`
}
