package mcpctx

import (
	"errors"

	"github.com/neboloop/mindsort/internal/model"
	"github.com/neboloop/mindsort/internal/svc"
)

// ToolContext carries the owner and services for all MCP tools.
type ToolContext struct {
	svc       *svc.ServiceContext
	ownerID   string
	requestID string
	sessionID string
}

// NewToolContext creates an owner-scoped tool context.
func NewToolContext(svc *svc.ServiceContext, ownerID, requestID, sessionID string) *ToolContext {
	return &ToolContext{
		svc:       svc,
		ownerID:   ownerID,
		requestID: requestID,
		sessionID: sessionID,
	}
}

// OwnerID returns the authenticated owner.
func (t *ToolContext) OwnerID() string {
	return t.ownerID
}

// SessionID returns the MCP session ID, if the client sent one.
func (t *ToolContext) SessionID() string {
	return t.sessionID
}

// RequestID returns the request ID for tracing.
func (t *ToolContext) RequestID() string {
	return t.requestID
}

// Svc returns the service context.
func (t *ToolContext) Svc() *svc.ServiceContext {
	return t.svc
}

// ToolError represents a structured error for MCP tool responses.
type ToolError struct {
	Code    string `json:"code"` // "not_found", "validation", "forbidden", "unauthorized"
	Message string `json:"message"`
	Field   string `json:"field"`
}

func (e *ToolError) Error() string {
	if e.Field != "" {
		return e.Code + ": " + e.Message + " (field: " + e.Field + ")"
	}
	return e.Code + ": " + e.Message
}

// NewValidationError creates a validation error for a specific field.
func NewValidationError(message, field string) *ToolError {
	return &ToolError{Code: "validation", Message: message, Field: field}
}

// NewNotFoundError creates a not found error.
func NewNotFoundError(message string) *ToolError {
	return &ToolError{Code: "not_found", Message: message}
}

// NewUnauthorizedError creates an unauthorized error.
func NewUnauthorizedError(message string) *ToolError {
	return &ToolError{Code: "unauthorized", Message: message}
}

// FromError maps domain sentinels onto tool errors. Unknown errors collapse
// into a generic message so storage details never reach the client.
func FromError(err error) *ToolError {
	switch {
	case errors.Is(err, model.ErrUnauthenticated):
		return NewUnauthorizedError("authentication required")
	case errors.Is(err, model.ErrForbidden):
		return &ToolError{Code: "forbidden", Message: "task belongs to another user"}
	case errors.Is(err, model.ErrNotFound):
		return NewNotFoundError(err.Error())
	case errors.Is(err, model.ErrInvalidInput):
		return NewValidationError(err.Error(), "")
	default:
		return &ToolError{Code: "internal", Message: "something went wrong, please try again"}
	}
}
