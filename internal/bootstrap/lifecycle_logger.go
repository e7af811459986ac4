package bootstrap

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// LifecycleEvent records a process start or stop. It is operational
// logging only, business changes are not recorded here.
type LifecycleEvent struct {
	Action  string
	Message string
	Meta    map[string]any
}

type LifecycleLogger interface {
	Log(ctx context.Context, event LifecycleEvent)
}

type zapLifecycleLogger struct {
	logger *zap.Logger
	now    func() time.Time
}

func NewLifecycleLogger(logger *zap.Logger) LifecycleLogger {
	return &zapLifecycleLogger{logger: logger.Named("lifecycle"), now: time.Now}
}

func (l *zapLifecycleLogger) Log(ctx context.Context, event LifecycleEvent) {
	l.logger.Info("lifecycle event",
		zap.String("timestamp", l.now().UTC().Format(time.RFC3339)),
		zap.String("action", event.Action),
		zap.String("message", event.Message),
		zap.Any("meta", event.Meta),
	)
}
