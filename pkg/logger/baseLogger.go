package logger

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// BaseLogger пишет в консоль и, если задан, в дополнительный writer.
type BaseLogger struct {
	mu     sync.Mutex
	prefix string
	sugar  *zap.SugaredLogger
}

// defaultLevel общий для всех логгеров, созданных через NewLogger.
var defaultLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)

// SetLevel меняет уровень всех логгеров из NewLogger, включая уже созданные.
func SetLevel(level string) error {
	return defaultLevel.UnmarshalText([]byte(level))
}

func NewLogger(writer io.Writer, prefix string) *BaseLogger {
	return &BaseLogger{
		prefix: prefix,
		sugar:  newSugar(writer, defaultLevel),
	}
}

func newSugar(writer io.Writer, lvl zap.AtomicLevel) *zap.SugaredLogger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewConsoleEncoder(encCfg)

	cores := []zapcore.Core{zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), lvl)}
	if writer != nil && writer != io.Discard {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(writer), lvl))
	}
	return zap.New(zapcore.NewTee(cores...)).Sugar()
}

func (l *BaseLogger) format(format string) (string, *zap.SugaredLogger) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.prefix == "" {
		return format, l.sugar
	}
	return l.prefix + " " + format, l.sugar
}

func (l *BaseLogger) Log(format string, v ...interface{}) {
	f, sugar := l.format(format)
	sugar.Infof(f, v...)
}

func (l *BaseLogger) Debug(format string, v ...interface{}) {
	f, sugar := l.format(format)
	sugar.Debugf(f, v...)
}

func (l *BaseLogger) Error(format string, v ...interface{}) {
	f, sugar := l.format(format)
	sugar.Errorf(f, v...)
}

func (l *BaseLogger) SetPrefix(prefix string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prefix = prefix
}

// Sync сбрасывает буферы zap; вызывается перед выходом из процесса.
func (l *BaseLogger) Sync() error {
	return l.sugar.Sync()
}
