// Package logger provides the zap-backed logr logger used across keytips.
//
// The terminal grid owns stdout and stderr while it runs, so the sink is
// configurable: the CLI points it at --log-file or discards it before the
// first call to Get.
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/oakwood-commons/keytips/pkg/settings"
)

// Structured field names shared by every entry.
const (
	RootCommandKey = "root_command"
	SubCommandKey  = "sub_command"
	CommitKey      = "commit"
	VersionKey     = "version"
	GoVersionKey   = "go_version"
	PlatformKey    = "platform"
	TimeStampKey   = "timestamp"
	MessageKey     = "message"
)

type loggerContextKey struct{}

// state is the process-wide logger. The zap logger is built lazily and
// dropped whenever the sink changes, so the next Get picks up the new sink.
type state struct {
	mu     sync.Mutex
	out    zapcore.WriteSyncer
	closer io.Closer
	level  zap.AtomicLevel
	zl     *zap.Logger
	lr     *logr.Logger
}

var (
	std     = &state{out: zapcore.Lock(os.Stderr), level: zap.NewAtomicLevelAt(zapcore.InfoLevel)}
	discard = logr.Discard()
)

// SetOutputPath appends log output to the file at path. "" or "-" selects
// stderr.
func SetOutputPath(path string) error {
	if path == "" || path == "-" {
		std.setSink(zapcore.Lock(os.Stderr), nil)
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	std.setSink(zapcore.Lock(f), f)
	return nil
}

// SetOutput sends log output to w.
func SetOutput(w io.Writer) {
	std.setSink(zapcore.Lock(zapcore.AddSync(w)), nil)
}

func (s *state) setSink(out zapcore.WriteSyncer, closer io.Closer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closer != nil {
		_ = s.closer.Close()
	}
	s.out, s.closer = out, closer
	s.zl, s.lr = nil, nil
}

// Get returns the global logger at the given zap level (-1 debug, 0 info,
// 1 warn...). The level applies to every logger handed out so far.
func Get(logLevel int8) *logr.Logger {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.level.SetLevel(zapcore.Level(logLevel))
	if std.lr == nil {
		std.build()
	}
	return std.lr
}

// build assembles a JSON core with build metadata. Callers hold s.mu.
func (s *state) build() {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.TimeKey = TimeStampKey
	encoderCfg.MessageKey = MessageKey

	info, _ := debug.ReadBuildInfo()
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), s.out, s.level).With([]zapcore.Field{
		zap.String(CommitKey, settings.VersionInformation.Commit),
		zap.String(VersionKey, settings.VersionInformation.BuildVersion),
		zap.String(GoVersionKey, goVersion(info)),
		zap.String(PlatformKey, runtime.GOOS+"/"+runtime.GOARCH),
	})
	s.zl = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
	lr := zapr.NewLogger(s.zl)
	s.lr = &lr
}

// current returns the built logger or a discarding one.
func (s *state) current() *logr.Logger {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lr == nil {
		return &discard
	}
	return s.lr
}

func goVersion(info *debug.BuildInfo) string {
	if info == nil || info.GoVersion == "" {
		return runtime.Version()
	}
	return info.GoVersion
}

// WithLogger attaches log to ctx.
func WithLogger(ctx context.Context, log *logr.Logger) context.Context {
	if prev, ok := ctx.Value(loggerContextKey{}).(*logr.Logger); ok && prev == log {
		return ctx
	}
	return context.WithValue(ctx, loggerContextKey{}, log)
}

// FromContext returns the logger attached to ctx, else the global logger,
// else a logger that discards everything.
func FromContext(ctx context.Context) *logr.Logger {
	if log, ok := ctx.Value(loggerContextKey{}).(*logr.Logger); ok && log != nil {
		return log
	}
	return std.current()
}

// Sync flushes buffered entries and closes a log file opened by
// SetOutputPath. Call it once before exit.
func Sync() {
	std.mu.Lock()
	defer std.mu.Unlock()
	if std.zl != nil {
		if err := std.zl.Sync(); err != nil && !isIgnorableSyncError(err) {
			fmt.Fprintf(os.Stderr, "WARNING: failed to sync logger: %v\n", err)
		}
	}
	if std.closer != nil {
		_ = std.closer.Close()
		std.closer = nil
	}
}

// isIgnorableSyncError reports the errors fsync returns for terminals and
// pipes. Windows consoles report an invalid handle wrapped in *os.PathError.
func isIgnorableSyncError(err error) bool {
	for _, errno := range []syscall.Errno{syscall.ENOTTY, syscall.EINVAL, syscall.EIO, syscall.EBADF} {
		if errors.Is(err, errno) {
			return true
		}
	}
	return strings.Contains(err.Error(), "The handle is invalid")
}

// WithValues returns a copy of lgr carrying keysAndValues. A nil lgr uses
// the global logger.
func WithValues(lgr *logr.Logger, keysAndValues ...any) *logr.Logger {
	if lgr == nil {
		lgr = std.current()
	}
	out := lgr.WithValues(keysAndValues...)
	return &out
}
