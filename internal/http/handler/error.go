package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"reviewapi/internal/http/middleware"
	"reviewapi/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// messagePayload is the body of successful delete operations.
type messagePayload struct {
	Message string `json:"message"`
}

// writeError writes the error envelope. message must be safe for clients.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: middleware.RequestIDFromCtx(c),
		Error:     errorEnvelope{Code: code, Message: message},
	})
}

type errorKind struct {
	target error
	status int
	code   string
	// fixed replaces the error text; empty means the service message is client-safe.
	fixed string
}

var serviceErrorKinds = []errorKind{
	{target: service.ErrInvalidArgument, status: fiber.StatusBadRequest, code: "INVALID_ARGUMENT"},
	{target: service.ErrUnauthenticated, status: fiber.StatusUnauthorized, code: "UNAUTHENTICATED", fixed: "authentication required"},
	{target: service.ErrPermissionDenied, status: fiber.StatusForbidden, code: "PERMISSION_DENIED"},
	{target: service.ErrNotFound, status: fiber.StatusNotFound, code: "NOT_FOUND"},
	{target: service.ErrResourceExhausted, status: fiber.StatusTooManyRequests, code: "LIMIT_REACHED"},
	{target: service.ErrUpstream, status: fiber.StatusBadGateway, code: "UPSTREAM_FAILURE", fixed: "media store unavailable"},
}

// writeServiceError maps a service error kind to its HTTP status and code.
// Unknown errors never leak their text.
func writeServiceError(c *fiber.Ctx, err error) error {
	for _, k := range serviceErrorKinds {
		if !errors.Is(err, k.target) {
			continue
		}
		msg := k.fixed
		if msg == "" {
			msg = err.Error()
		}
		return writeError(c, k.status, k.code, msg)
	}
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

type statusText struct {
	code    string
	message string
}

var fiberStatusTexts = map[int]statusText{
	fiber.StatusBadRequest:            {"BAD_REQUEST", "bad request"},
	fiber.StatusUnauthorized:          {"UNAUTHENTICATED", "authentication required"},
	fiber.StatusForbidden:             {"PERMISSION_DENIED", "permission denied"},
	fiber.StatusNotFound:              {"NOT_FOUND", "resource not found"},
	fiber.StatusMethodNotAllowed:      {"METHOD_NOT_ALLOWED", "method not allowed"},
	fiber.StatusRequestEntityTooLarge: {"PAYLOAD_TOO_LARGE", "request body too large"},
}

// ErrorHandler is the fiber global error handler. It covers errors that escape
// handlers: routing misses, auth rejections and body limits.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			if t, ok := fiberStatusTexts[fe.Code]; ok {
				return writeError(c, fe.Code, t.code, t.message)
			}
			if fe.Code < fiber.StatusInternalServerError {
				return writeError(c, fe.Code, "REQUEST_ERROR", "request could not be processed")
			}
		}
		status := fiber.StatusInternalServerError
		if fe != nil {
			status = fe.Code
		}
		return writeError(c, status, "INTERNAL_ERROR", "internal server error")
	}
}
