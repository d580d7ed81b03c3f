package ambaralog

import "github.com/kataras/golog"

// GologLogger adapts a *golog.Logger to the Logger interface, for
// callers who want kataras/golog's structured/colored output instead of
// the plain DefaultLogger.
type GologLogger struct {
	logger *golog.Logger
	level  Level
}

var _ Logger = (*GologLogger)(nil)

// NewGologLogger wraps an existing golog.Logger at LevelInfo.
func NewGologLogger(logger *golog.Logger) *GologLogger {
	return &GologLogger{logger: logger, level: LevelInfo}
}

func (l *GologLogger) Debug(format string, v ...any) {
	if l.level <= LevelDebug {
		l.logger.Debugf(format, v...)
	}
}

func (l *GologLogger) Info(format string, v ...any) {
	if l.level <= LevelInfo {
		l.logger.Infof(format, v...)
	}
}

func (l *GologLogger) Warn(format string, v ...any) {
	if l.level <= LevelWarn {
		l.logger.Warnf(format, v...)
	}
}

func (l *GologLogger) Error(format string, v ...any) {
	if l.level <= LevelError {
		l.logger.Errorf(format, v...)
	}
}

// SetLevel sets the adapter's own level gate and mirrors it onto the
// underlying golog.Logger's level.
func (l *GologLogger) SetLevel(level Level) {
	l.level = level

	gologLevel := "info"
	switch level {
	case LevelDebug:
		gologLevel = "debug"
	case LevelWarn:
		gologLevel = "warn"
	case LevelError:
		gologLevel = "error"
	case LevelNone:
		gologLevel = "disable"
	}
	l.logger.SetLevel(gologLevel)
}

// GetLevel returns the adapter's current level.
func (l *GologLogger) GetLevel() Level { return l.level }
