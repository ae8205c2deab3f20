package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	appLogger "github.com/noirparfum/noir-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// queryLogger sends gorm output through the application logger.
// Failed statements log at error, slow ones at warn; not-found is expected and stays quiet.
type queryLogger struct {
	level     logger.LogLevel
	slowQuery time.Duration
}

func newQueryLogger(slowQuery time.Duration) *queryLogger {
	return &queryLogger{level: logger.Warn, slowQuery: slowQuery}
}

func (l *queryLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *queryLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Info {
		appLogger.Info(fmt.Sprintf(msg, args...))
	}
}

func (l *queryLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Warn {
		appLogger.Warn(fmt.Sprintf(msg, args...))
	}
}

func (l *queryLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Error {
		appLogger.Error(fmt.Sprintf(msg, args...), nil)
	}
}

func (l *queryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= logger.Error:
		sql, rows := fc()
		appLogger.Error("Query failed", err, map[string]interface{}{
			"sql":         sql,
			"rows":        rows,
			"duration_ms": elapsed.Milliseconds(),
		})
	case l.slowQuery > 0 && elapsed > l.slowQuery && l.level >= logger.Warn:
		sql, rows := fc()
		appLogger.Warn("Slow query", map[string]interface{}{
			"sql":         sql,
			"rows":        rows,
			"duration_ms": elapsed.Milliseconds(),
			"threshold":   l.slowQuery.String(),
		})
	case l.level >= logger.Info:
		sql, rows := fc()
		appLogger.Debug("Query", map[string]interface{}{
			"sql":         sql,
			"rows":        rows,
			"duration_ms": elapsed.Milliseconds(),
		})
	}
}
