package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/go-logr/logr"
	"go.uber.org/zap/zapcore"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
)

// Options configure the process logger
type Options struct {
	Level       string // debug, info, warn or error
	Development bool   // console encoder instead of JSON
	Output      io.Writer
}

// New builds a zap-backed logr.Logger. Timestamps are ISO8601 in UTC.
func New(opts Options) (logr.Logger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		lvl, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return logr.Discard(), fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = lvl
	}

	zapOpts := zap.Options{
		Development:     opts.Development,
		Level:           level,
		StacktraceLevel: zapcore.FatalLevel,
		TimeEncoder:     utcTimeEncoder,
	}
	if opts.Output != nil {
		zapOpts.DestWriter = opts.Output
	}

	return zap.New(zap.UseFlagOptions(&zapOpts)), nil
}

func utcTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	zapcore.ISO8601TimeEncoder(t.UTC(), enc)
}
