// Package notify is the fire-and-forget toast surface. Flows push
// success or error messages; whatever hosts the client decides how to
// show them.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Level is a toast's severity.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Toast is one user-visible message.
type Toast struct {
	ID      uuid.UUID
	Level   Level
	Message string
	At      time.Time
}

// Notifier receives toasts. Implementations must not block.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// Recorder keeps toasts in memory, for tests and for hosts that render
// them later.
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Success(message string) { r.add(LevelSuccess, message) }
func (r *Recorder) Error(message string)   { r.add(LevelError, message) }

func (r *Recorder) add(level Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, Toast{
		ID:      uuid.New(),
		Level:   level,
		Message: message,
		At:      time.Now(),
	})
}

// Toasts returns a copy of everything recorded so far.
func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Toast(nil), r.toasts...)
}

// Logging writes toasts to a zap logger; the CLI uses it as its toast
// surface.
type Logging struct {
	logger *zap.Logger
}

// NewLogging creates a logging notifier.
func NewLogging(logger *zap.Logger) *Logging {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Logging{logger: logger}
}

func (l *Logging) Success(message string) {
	l.logger.Info(message, zap.String("toast", string(LevelSuccess)))
}

func (l *Logging) Error(message string) {
	l.logger.Warn(message, zap.String("toast", string(LevelError)))
}
