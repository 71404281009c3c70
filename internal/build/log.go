// Package build centralizes logger construction for vidlens. Every package
// obtains its subsystem logger from here so that log levels and output
// destinations can be flipped in one place at daemon startup.
package build

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/btcsuite/btclog"
	btclogv2 "github.com/btcsuite/btclog/v2"
)

// defaultLogLevel is the level applied before SetLogLevel is called.
const defaultLogLevel = btclog.LevelInfo

var (
	// rootHandler is the handler all subsystem loggers derive from.
	rootHandler btclogv2.Handler

	// subHandlers tracks every handler handed out via NewSubLogger.
	// Subsystem loggers are typically created in package init blocks,
	// before main has parsed flags, so Setup and SetLogLevel reach back
	// through this list to retarget them.
	subHandlers []*subHandler

	// currentLevel is the level applied to new and existing handlers.
	currentLevel = defaultLogLevel

	// fileWriter is the rotating log file writer, if file logging was
	// enabled via SetupFileLogging.
	fileWriter *rotatingLogWriter

	// mu guards all of the above.
	mu sync.Mutex
)

func init() {
	rootHandler = btclogv2.NewDefaultHandler(os.Stdout)
	rootHandler.SetLevel(defaultLogLevel)
}

// subHandler forwards to a handler derived from the current root, and can be
// re-derived when the root changes.
type subHandler struct {
	tag string

	mu    sync.RWMutex
	inner btclogv2.Handler
}

func (s *subHandler) handler() btclogv2.Handler {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.inner
}

// rederive points the handler at a fresh derivation from root. The caller
// holds the package mutex.
func (s *subHandler) rederive(root btclogv2.Handler, level btclog.Level) {
	h := root.SubSystem(s.tag)
	h.SetLevel(level)

	s.mu.Lock()
	s.inner = h
	s.mu.Unlock()
}

func (s *subHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return s.handler().Enabled(ctx, level)
}

func (s *subHandler) Handle(ctx context.Context, record slog.Record) error {
	return s.handler().Handle(ctx, record)
}

func (s *subHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return s.handler().WithAttrs(attrs)
}

func (s *subHandler) WithGroup(name string) slog.Handler {
	return s.handler().WithGroup(name)
}

func (s *subHandler) SubSystem(tag string) btclogv2.Handler {
	return s.handler().SubSystem(tag)
}

func (s *subHandler) WithPrefix(prefix string) btclogv2.Handler {
	return s.handler().WithPrefix(prefix)
}

func (s *subHandler) SetLevel(level btclog.Level) {
	s.handler().SetLevel(level)
}

func (s *subHandler) Level() btclog.Level {
	return s.handler().Level()
}

var _ btclogv2.Handler = (*subHandler)(nil)

// Setup replaces the root log writer. Existing subsystem loggers are
// retargeted at the new destination.
func Setup(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	rootHandler = btclogv2.NewDefaultHandler(w)
	rootHandler.SetLevel(currentLevel)
	rederiveAll()
}

// SetupFileLogging mirrors all log output to a rotating file under logDir
// while keeping the console stream.
func SetupFileLogging(logDir string) error {
	writer, err := newRotatingLogWriter(logDir)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()

	fileWriter = writer
	rootHandler = newHandlerSet(
		btclogv2.NewDefaultHandler(os.Stdout),
		btclogv2.NewDefaultHandler(writer),
	)
	rootHandler.SetLevel(currentLevel)
	rederiveAll()

	return nil
}

// CloseFileLogging flushes and stops the rotating file writer, if one was
// set up. Call it on daemon shutdown.
func CloseFileLogging() error {
	mu.Lock()
	defer mu.Unlock()

	if fileWriter == nil {
		return nil
	}

	err := fileWriter.Close()
	fileWriter = nil

	return err
}

// NewSubLogger returns a structured logger tagged with the given subsystem.
func NewSubLogger(tag string) btclogv2.Logger {
	mu.Lock()
	defer mu.Unlock()

	inner := rootHandler.SubSystem(tag)
	inner.SetLevel(currentLevel)

	sub := &subHandler{tag: tag, inner: inner}
	subHandlers = append(subHandlers, sub)

	return btclogv2.NewSLogger(sub)
}

// SetLogLevel retunes the level of every logger created so far. Unknown
// level strings fall back to info.
func SetLogLevel(level string) {
	parsed, ok := btclog.LevelFromString(level)
	if !ok {
		parsed = defaultLogLevel
	}

	mu.Lock()
	defer mu.Unlock()

	currentLevel = parsed
	rootHandler.SetLevel(parsed)
	for _, sub := range subHandlers {
		sub.SetLevel(parsed)
	}
}

// rederiveAll re-derives every subsystem handler from the current root. The
// caller holds mu.
func rederiveAll() {
	for _, sub := range subHandlers {
		sub.rederive(rootHandler, currentLevel)
	}
}
