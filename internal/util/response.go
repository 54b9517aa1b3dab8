package util

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/fadilmartias/careerhub/internal/apperror"
	"github.com/fadilmartias/careerhub/internal/config"
	"github.com/fadilmartias/careerhub/internal/response"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type SuccessResponseFormat struct {
	Code       int
	Message    string
	Data       any
	Pagination *response.Pagination
	Meta       any
}

type OrderedSuccessResponse struct {
	Success    bool                 `json:"success"`
	Message    string               `json:"message"`
	Meta       any                  `json:"meta,omitempty"`
	Pagination *response.Pagination `json:"pagination,omitempty"`
	Data       any                  `json:"data,omitempty"`
}

type ErrorResponseFormat struct {
	Code       int
	Message    string
	DevMessage string
	Details    any
	Trace      string
}

type OrderedErrorResponse struct {
	Success    bool   `json:"success"`
	Error      string `json:"error"`
	DevMessage string `json:"dev_message,omitempty"`
	Details    any    `json:"details,omitempty"`
	Trace      string `json:"trace,omitempty"`
}

type FormError struct {
	Errors  map[string]string
	Message string
}

func (e *FormError) Error() string {
	return fmt.Sprintf("form error: %s", e.Message)
}

func NewFormError(message string, fields map[string]string) *FormError {
	return &FormError{
		Message: message,
		Errors:  fields,
	}
}

// SuccessResponse writes the standard success envelope.
func SuccessResponse(c *fiber.Ctx, params SuccessResponseFormat) error {
	response := OrderedSuccessResponse{
		Success:    true,
		Message:    params.Message,
		Data:       params.Data,
		Pagination: params.Pagination,
		Meta:       params.Meta,
	}
	code := params.Code
	if code == 0 {
		code = fiber.StatusOK
	}
	return c.Status(code).JSON(response)
}

// ErrorResponse writes the standard error envelope. Dev fields are only
// included outside production.
func ErrorResponse(c *fiber.Ctx, params ErrorResponseFormat, errs ...error) error {
	response := OrderedErrorResponse{
		Success: false,
		Error:   params.Message,
	}
	if params.Details != nil {
		response.Details = params.Details
	}
	if !config.LoadAppConfig().IsProduction() {
		if len(errs) > 0 && errs[0] != nil {
			response.DevMessage = errs[0].Error()
			response.Trace = string(debug.Stack())
			if de, ok := apperror.As(errs[0]); ok {
				response.Trace = string(de.StackTrace())
			}
		}

		if params.DevMessage != "" {
			response.DevMessage = params.DevMessage
		}
		if params.Trace != "" {
			response.Trace = params.Trace
		}
	}

	errorCode := params.Code
	if params.Code == 0 {
		errorCode = fiber.StatusInternalServerError
	}
	return c.Status(errorCode).JSON(response)
}

// HandleError answers with the status and message carried by err.
// Anything that is not a DomainError is logged and reported as a 500.
func HandleError(c *fiber.Ctx, err error) error {
	var fe *FormError
	if de, ok := apperror.As(err); ok {
		if de.Type == apperror.ErrTypeInternal {
			zap.L().Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		}
		return ErrorResponse(c, ErrorResponseFormat{
			Code:    apperror.HTTPStatus(de),
			Message: de.Message,
			Details: de.Details,
		}, err)
	}
	if errors.As(err, &fe) {
		return ErrorResponse(c, ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: fe.Message,
			Details: fe.Errors,
		}, err)
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return ErrorResponse(c, ErrorResponseFormat{
			Code:    fiberErr.Code,
			Message: fiberErr.Message,
		}, err)
	}

	zap.L().Error("unexpected error", zap.String("path", c.Path()), zap.Error(err))
	return ErrorResponse(c, ErrorResponseFormat{
		Code:    fiber.StatusInternalServerError,
		Message: "internal server error",
	}, err)
}
