// Package logging builds the process logger and carries request-scoped loggers in contexts.
package logging

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Sanjeetkumar61/FormBuilder/internal/gelf"
)

const serviceName = "formbuilder"

// New returns a JSON logger on stderr at the given level. When gelfAddr is set, entries
// are also shipped to that GELF UDP endpoint. The returned func releases the sink.
func New(level, gelfAddr string) (*zap.Logger, func(), error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	encCfg := zap.NewProductionEncoderConfig()
	encoder := zapcore.NewJSONEncoder(encCfg)
	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), lvl),
	}
	cleanup := func() {}

	var gelfErr error
	if gelfAddr != "" {
		w, err := gelf.New(gelfAddr, serviceName)
		if err != nil {
			gelfErr = err
		} else {
			cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), w, lvl))
			cleanup = func() { w.Close() }
		}
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)).
		With(zap.String("service", serviceName))
	if gelfErr != nil {
		logger.Warn("GELF init failed", zap.String("addr", gelfAddr), zap.Error(gelfErr))
	} else if gelfAddr != "" {
		logger.Info("GELF logging enabled", zap.String("addr", gelfAddr))
	}
	return logger, cleanup, nil
}

type ctxKey struct{}

// WithLogger stores a logger in ctx.
func WithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger stored in ctx, or a no-op logger.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok && l != nil {
		return l
	}
	return zap.NewNop()
}
