package service

import (
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Error kinds returned by every service. Callers match them with errors.Is;
// the wrapped message carries the detail.
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrNotFound          = errors.New("not found")
	ErrResourceExhausted = errors.New("limit reached")
	ErrUpstream          = errors.New("upstream failure")
)

var tracer = otel.Tracer("reviewapi/service")

// endSpan records a non-nil *err on span and ends it.
func endSpan(span trace.Span, err *error) {
	if *err != nil {
		span.RecordError(*err)
		span.SetStatus(codes.Error, (*err).Error())
	}
	span.End()
}
