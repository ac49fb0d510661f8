package handlers

import (
	"errors"
	"net/http"

	"github.com/lfapurpose/ghost-gateway/services"
	"github.com/lfapurpose/ghost-gateway/utils"
	"go.uber.org/zap"
)

// HandleServiceError maps domain errors to HTTP responses
func HandleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	HandleServiceErrorWithDetails(w, err, logger, nil)
}

// HandleServiceErrorWithDetails is HandleServiceError with extra entries for
// the envelope's details object, such as work done before the failure
func HandleServiceErrorWithDetails(w http.ResponseWriter, err error, logger *zap.Logger, extra map[string]interface{}) {
	if err == nil {
		return
	}

	message := publicMessage(err)

	var writeErr error
	switch {
	case services.IsValidationError(err):
		writeErr = utils.WriteBadRequest(w, message, mergeDetails(services.GetErrorDetails(err), extra))

	case services.IsNotFoundError(err):
		if len(extra) > 0 {
			writeErr = utils.WriteError(w, http.StatusNotFound, message, extra)
		} else {
			writeErr = utils.WriteNotFound(w, message)
		}

	case services.IsUpstreamError(err):
		upstream := services.UpstreamStatus(err)
		status := upstream
		if status < http.StatusBadRequest {
			status = http.StatusInternalServerError
		}
		logger.Warn("ghost request failed",
			zap.Int("upstream_status", upstream),
			zap.Error(err))
		writeErr = utils.WriteUpstreamError(w, status, message, upstream, services.UpstreamBody(err), extra)

	case services.IsConfigurationError(err):
		logger.Error("ghost not configured", zap.Error(err))
		writeErr = utils.WriteInternalServerError(w, message, extra)

	case services.IsSerializationError(err):
		logger.Error("ghost payload could not be processed", zap.Error(err))
		writeErr = utils.WriteInternalServerError(w, message, extra)

	case services.IsInternalError(err):
		// Log internal errors but return generic message
		logger.Error("internal server error", zap.Error(err))
		writeErr = utils.WriteInternalServerError(w, "An internal error occurred", extra)

	default:
		logger.Error("unhandled error type",
			zap.Error(err),
			zap.String("error_type", string(services.GetErrorType(err))))
		writeErr = utils.WriteInternalServerError(w, "An unexpected error occurred", extra)
	}

	if writeErr != nil {
		logger.Error("failed to write error response", zap.Error(writeErr))
	}
}

// HandleValidationError handles validation errors from request parsing
func HandleValidationError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if utils.IsValidationError(err) {
		fields := utils.GetValidationFields(err)
		details := make(map[string]interface{})
		for k, v := range fields {
			details[k] = v
		}
		if err := utils.WriteBadRequest(w, "Validation failed", details); err != nil {
			logger.Error("failed to write validation error response", zap.Error(err))
		}
		return
	}

	// Generic validation error
	if err := utils.WriteBadRequest(w, err.Error(), nil); err != nil {
		logger.Error("failed to write validation error response", zap.Error(err))
	}
}

// mergeDetails returns a copy of base with extra's entries added
func mergeDetails(base, extra map[string]interface{}) map[string]interface{} {
	if len(extra) == 0 {
		return base
	}
	merged := make(map[string]interface{}, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

// publicMessage returns the domain message without the wrapped cause, which
// may carry transport or key details
func publicMessage(err error) string {
	var domainErr *services.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return err.Error()
}
