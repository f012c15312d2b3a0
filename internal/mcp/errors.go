package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/medchron/internal/dashboard"
	"github.com/rpggio/medchron/internal/domain/activity"
	"github.com/rpggio/medchron/internal/domain/document"
	"github.com/rpggio/medchron/internal/domain/project"
	"github.com/rpggio/medchron/internal/domain/session"
	"github.com/rpggio/medchron/internal/view"
)

var (
	// ErrUnknownMethod indicates a tool or method name the handler doesn't serve.
	ErrUnknownMethod = errors.New("unknown method")
	// ErrInvalidParams indicates arguments that could not be decoded.
	ErrInvalidParams = errors.New("invalid params")
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. It returns nil for errors
// without a code.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	switch {
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Call list_projects for valid ids"}
	case errors.Is(err, project.ErrInvalidTransition):
		return &APIError{Code: "INVALID_TRANSITION", Message: "invalid status transition", RecoveryHint: "Follow not_initiated -> pending -> in_progress -> completed"}
	case errors.Is(err, project.ErrInvalidStatus):
		return &APIError{Code: "INVALID_STATUS", Message: "invalid status", Details: err.Error(), RecoveryHint: "Check kind and progress counts"}
	case errors.Is(err, document.ErrNoDocumentsIncluded):
		return &APIError{Code: "NO_DOCUMENTS_INCLUDED", Message: "no documents included", RecoveryHint: "Include at least one document before run_project"}
	case errors.Is(err, document.ErrDocumentNotFound):
		return &APIError{Code: "DOCUMENT_NOT_FOUND", Message: "document not found", RecoveryHint: "Call get_document_tree for valid ids"}
	case errors.Is(err, view.ErrInvalidConfig):
		return &APIError{Code: "INVALID_VIEW_CONFIG", Message: "invalid view config", Details: err.Error(), RecoveryHint: "Use sort_by name|initiated_at|status and sort_direction asc|desc"}
	case errors.Is(err, dashboard.ErrRefreshThrottled):
		return &APIError{Code: "REFRESH_THROTTLED", Message: "refresh throttled", RecoveryHint: "Wait before refreshing again"}
	case errors.Is(err, session.ErrSessionNotFound):
		return &APIError{Code: "SESSION_NOT_FOUND", Message: "session not found", RecoveryHint: "Start a new session"}
	case errors.Is(err, session.ErrInvalidInput), errors.Is(err, activity.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: "invalid input", Details: err.Error()}
	case errors.Is(err, ErrInvalidParams):
		return &APIError{Code: "INVALID_PARAMS", Message: "invalid params", Details: err.Error()}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
