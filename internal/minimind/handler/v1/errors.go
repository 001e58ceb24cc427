package v1

import (
	"net/http"

	"github.com/minimind-ai/minimind/pkg/errorx"
)

// Minimind handler error codes.
// Code format: 1XXYYZ
//   - 1:  module prefix (minimind handler)
//   - XX: resource group (00=common, 01=user, 02=task, 03=memory)
//   - YY: sequential error number
//   - Z:  reserved (0)

const (
	// Common request errors (100xxx).
	ErrBind       = 100001
	ErrValidation = 100002

	// User errors (1001xx).
	ErrUserNotFound  = 100101
	ErrUserCreate    = 100102
	ErrUsernameTaken = 100103
	ErrUserUpdate    = 100104

	// Task errors (1002xx).
	ErrTaskNotFound = 100201
	ErrTaskCreate   = 100202
	ErrTaskList     = 100203
	ErrTaskDetail   = 100204

	// Memory errors (1003xx).
	ErrMemoryStore = 100301
	ErrMemoryList  = 100302
)

func init() {
	// Common.
	errorx.MustRegister(newCoder(ErrBind, http.StatusBadRequest, "Request body binding failed"))
	errorx.MustRegister(newCoder(ErrValidation, http.StatusBadRequest, "Request validation failed"))

	// User.
	errorx.MustRegister(newCoder(ErrUserNotFound, http.StatusNotFound, "User not found"))
	errorx.MustRegister(newCoder(ErrUserCreate, http.StatusInternalServerError, "Failed to create user"))
	errorx.MustRegister(newCoder(ErrUsernameTaken, http.StatusBadRequest, "Username already registered"))
	errorx.MustRegister(newCoder(ErrUserUpdate, http.StatusInternalServerError, "Failed to update user"))

	// Task.
	errorx.MustRegister(newCoder(ErrTaskNotFound, http.StatusNotFound, "Task not found"))
	errorx.MustRegister(newCoder(ErrTaskCreate, http.StatusInternalServerError, "Failed to create task"))
	errorx.MustRegister(newCoder(ErrTaskList, http.StatusInternalServerError, "Failed to list tasks"))
	errorx.MustRegister(newCoder(ErrTaskDetail, http.StatusInternalServerError, "Failed to load task detail"))

	// Memory.
	errorx.MustRegister(newCoder(ErrMemoryStore, http.StatusInternalServerError, "Failed to store memory"))
	errorx.MustRegister(newCoder(ErrMemoryList, http.StatusInternalServerError, "Failed to list memories"))
}

type coder struct {
	code int
	http int
	msg  string
}

func newCoder(code, httpStatus int, msg string) *coder {
	return &coder{code: code, http: httpStatus, msg: msg}
}

func (c *coder) Code() int         { return c.code }
func (c *coder) HTTPStatus() int   { return c.http }
func (c *coder) String() string    { return c.msg }
func (c *coder) Reference() string { return "" }
