// internal/common/errors/handler.go
package errors

import (
	"time"
)

// Reporter normalizes raw errors into StandardError and logs degraded
// provider calls. The pipeline is best-effort: a degraded call is logged
// and collected, never fatal.
type Reporter struct {
	logger Logger
}

type Logger interface {
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

func NewReporter(logger Logger) *Reporter {
	return &Reporter{logger: logger}
}

// ReportDegraded normalizes err, logs it with its classification, and
// returns the normalized error for accumulation in the run report.
func (r *Reporter) ReportDegraded(area, operation string, err error) *StandardError {
	stdErr := r.Normalize(err)
	r.logger.Warn("Provider call degraded", map[string]interface{}{
		"area":          area,
		"operation":     operation,
		"errorCode":     string(stdErr.Code),
		"errorCategory": GetErrorCategory(stdErr.Code),
		"retryable":     stdErr.Retryable,
		"details":       stdErr.Details,
	})
	return stdErr
}

// ReportFatal logs an error that ends the run (config, profile, export).
func (r *Reporter) ReportFatal(stage string, err error) *StandardError {
	stdErr := r.Normalize(err)
	r.logger.Error("Run failed", map[string]interface{}{
		"stage":         stage,
		"errorCode":     string(stdErr.Code),
		"errorCategory": GetErrorCategory(stdErr.Code),
		"details":       stdErr.Details,
	})
	return stdErr
}

// Normalize ensures we always have a StandardError.
func (r *Reporter) Normalize(err error) *StandardError {
	if stdErr, ok := AsStandardError(err); ok {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
