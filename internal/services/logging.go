package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// ServiceLogger provides structured logging for service layer operations
type ServiceLogger struct {
	logger *slog.Logger
}

func NewServiceLogger(logger *slog.Logger, service string) *ServiceLogger {
	return &ServiceLogger{
		logger: logger.With("service", service),
	}
}

// Logger exposes the scoped slog logger
func (l *ServiceLogger) Logger() *slog.Logger {
	return l.logger
}

// ===== OPERATION LOGGING =====

func (l *ServiceLogger) LogOperation(ctx context.Context, operation, resourceID, resourceType string, duration time.Duration, err error) {
	level := slog.LevelInfo
	status := "success"

	if err != nil {
		level = slog.LevelError
		status = "error"

		// Adjust log level based on error type
		switch {
		case IsValidation(err):
			level = slog.LevelWarn
			status = "validation_error"
		case IsUnauthorized(err):
			level = slog.LevelWarn
			status = "unauthorized"
		case IsConflict(err):
			level = slog.LevelWarn
			status = "conflict"
		case IsNotFound(err):
			level = slog.LevelInfo
			status = "not_found"
		}
	}

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("resource_id", resourceID),
		slog.String("resource_type", resourceType),
		slog.String("status", status),
		slog.Duration("duration", duration),
	}

	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		if validationErr, ok := err.(ValidationErrors); ok {
			attrs = append(attrs, slog.Int("validation_errors_count", len(validationErr)))
		} else if storageErr, ok := err.(*StorageError); ok {
			attrs = append(attrs, slog.String("storage_op", storageErr.Op))
		}
	}

	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		attrs = append(attrs, slog.String("request_id", requestID))
	}

	l.logger.LogAttrs(ctx, level, fmt.Sprintf("%s operation %s", operation, status), attrs...)
}

// ===== AUDIT LOGGING =====

type AuditEventType string

const (
	AuditEventCreate  AuditEventType = "create"
	AuditEventUpdate  AuditEventType = "update"
	AuditEventDelete  AuditEventType = "delete"
	AuditEventRescore AuditEventType = "rescore"
	AuditEventExport  AuditEventType = "export"
)

func (l *ServiceLogger) LogAudit(ctx context.Context, eventType AuditEventType, resourceType, resourceID string, metadata map[string]interface{}) {
	attrs := []slog.Attr{
		slog.String("event_type", string(eventType)),
		slog.String("resource_type", resourceType),
		slog.String("resource_id", resourceID),
		slog.Time("timestamp", time.Now().UTC()),
	}
	for key, value := range metadata {
		attrs = append(attrs, slog.Any(fmt.Sprintf("meta_%s", key), value))
	}

	l.logger.LogAttrs(ctx, slog.LevelInfo, fmt.Sprintf("Audit: %s %s", eventType, resourceType), attrs...)
}

// ===== MIDDLEWARE AND HELPERS =====

type contextKey string

// RequestIDKey is the context key the HTTP layer stores the request id under
const RequestIDKey contextKey = "request_id"

// OperationLogger times a single operation and logs its outcome
type OperationLogger struct {
	logger    *ServiceLogger
	ctx       context.Context
	operation string
	startTime time.Time
}

func (l *ServiceLogger) WithOperation(ctx context.Context, operation string) *OperationLogger {
	return &OperationLogger{
		logger:    l,
		ctx:       ctx,
		operation: operation,
		startTime: time.Now(),
	}
}

func (ol *OperationLogger) LogResult(resourceType, resourceID string, err error) {
	ol.logger.LogOperation(ol.ctx, ol.operation, resourceID, resourceType, time.Since(ol.startTime), err)
}
