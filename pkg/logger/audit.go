package logger

import (
	"context"
	"log/slog"
)

// AuditEvent describes one authentication attempt for the audit trail.
type AuditEvent struct {
	EventType     string
	UserID        int64
	IPAddress     string
	Success       bool
	FailureReason string
}

// AuditLogger emits the security audit trail as structured log records.
// Records carry audit_type so they can be filtered out of the general
// application log downstream.
type AuditLogger struct {
	logger *slog.Logger
}

func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return &AuditLogger{logger: logger}
}

// LogAuthAttempt records a login or token verification attempt. Failures
// log at warn level so lockout probing stands out.
func (al *AuditLogger) LogAuthAttempt(event AuditEvent) {
	attrs := []slog.Attr{
		slog.String("audit_type", "auth"),
		slog.String("event_type", event.EventType),
		slog.Bool("success", event.Success),
	}

	if event.UserID != 0 {
		attrs = append(attrs, slog.Int64("user_id", event.UserID))
	}
	if event.IPAddress != "" {
		attrs = append(attrs, slog.String("ip_address", event.IPAddress))
	}
	if event.FailureReason != "" {
		attrs = append(attrs, slog.String("failure_reason", event.FailureReason))
	}

	level := slog.LevelInfo
	if !event.Success {
		level = slog.LevelWarn
	}
	al.logger.LogAttrs(context.Background(), level, "audit", attrs...)
}

// LogAccountAction records account lifecycle and admin management events
// (registration, activation, status changes, code minting).
func (al *AuditLogger) LogAccountAction(eventType string, userID int64, ipAddress string, metadata map[string]string) {
	attrs := []slog.Attr{
		slog.String("audit_type", "account"),
		slog.String("event_type", eventType),
		slog.Int64("user_id", userID),
	}

	if ipAddress != "" {
		attrs = append(attrs, slog.String("ip_address", ipAddress))
	}
	for key, val := range metadata {
		attrs = append(attrs, slog.String(key, val))
	}

	al.logger.LogAttrs(context.Background(), slog.LevelInfo, "audit", attrs...)
}
