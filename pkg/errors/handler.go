package errors

import (
	"errors"

	"go.uber.org/zap"
)

// Exit codes returned by ErrorHandler.ExitCode
const (
	ExitOK        = 0
	ExitInternal  = 1
	ExitInvalid   = 2
	ExitNotFound  = 3
	ExitIntegrity = 4
)

// ErrorHandler logs errors with structured fields and maps them to process
// exit codes for command line entry points.
type ErrorHandler struct {
	logger *zap.Logger
	debug  bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *zap.Logger, debug bool) *ErrorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorHandler{
		logger: logger,
		debug:  debug,
	}
}

// Handle logs err at a level chosen from its kind and returns its exit code
func (h *ErrorHandler) Handle(err error) int {
	if err == nil {
		return ExitOK
	}

	if domainErr := GetDomainError(err); domainErr != nil {
		fields := []zap.Field{
			zap.String("error_type", string(domainErr.Type)),
			zap.String("error_code", domainErr.Code),
		}
		if len(domainErr.Details) > 0 {
			fields = append(fields, zap.Any("details", domainErr.Details))
		}
		if domainErr.Cause != nil {
			fields = append(fields, zap.NamedError("cause", domainErr.Cause))
		}
		h.logger.Error(err.Error(), fields...)
		return h.ExitCode(err)
	}

	if appErr := GetAppError(err); appErr != nil {
		h.logAppError(appErr)
		return h.ExitCode(err)
	}

	h.logger.Error("Unhandled error", zap.Error(err))
	return h.ExitCode(err)
}

// ExitCode maps an error to a process exit code
func (h *ErrorHandler) ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case IsIdentity(err), IsIntegrity(err), IsReference(err):
		return ExitIntegrity
	case IsDomainType(err, DomainValidationError), IsValidation(err), isValidationErrors(err):
		return ExitInvalid
	case IsNotFound(err):
		return ExitNotFound
	default:
		return ExitInternal
	}
}

// logAppError logs an application error with appropriate level
func (h *ErrorHandler) logAppError(err *AppError) {
	fields := []zap.Field{
		zap.String("error_type", string(err.Type)),
	}

	if err.Code != "" {
		fields = append(fields, zap.String("error_code", err.Code))
	}

	if err.Cause != nil {
		fields = append(fields, zap.Error(err.Cause))
	}

	if err.Details != nil {
		fields = append(fields, zap.Any("details", err.Details))
	}

	if h.debug && err.StackTrace != "" {
		fields = append(fields, zap.String("stack_trace", err.StackTrace))
	}

	switch err.Type {
	case ErrorTypeInternal, ErrorTypeFilesystem:
		h.logger.Error(err.Message, fields...)
	default:
		h.logger.Warn(err.Message, fields...)
	}
}

func isValidationErrors(err error) bool {
	var verrs *ValidationErrors
	return errors.As(err, &verrs)
}
