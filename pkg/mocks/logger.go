package mocks

import (
	"fmt"
	"sync"

	"github.com/user/framegrab/pkg/ports"
)

// Logger is a mock ports.Logger that records formatted messages by level.
type Logger struct {
	mu      sync.Mutex
	entries map[ports.LogLevel][]string
}

// NewLogger creates a new recording Logger.
func NewLogger() *Logger {
	return &Logger{entries: make(map[ports.LogLevel][]string)}
}

func (m *Logger) record(level ports.LogLevel, msg string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[level] = append(m.entries[level], fmt.Sprintf(msg, args...))
}

func (m *Logger) Debug(msg string, args ...interface{}) { m.record(ports.LevelDebug, msg, args...) }
func (m *Logger) Info(msg string, args ...interface{})  { m.record(ports.LevelInfo, msg, args...) }
func (m *Logger) Warn(msg string, args ...interface{})  { m.record(ports.LevelWarn, msg, args...) }
func (m *Logger) Error(msg string, args ...interface{}) { m.record(ports.LevelError, msg, args...) }

// WithComponent returns the same recorder so component output stays visible.
func (m *Logger) WithComponent(component string) ports.Logger {
	return m
}

// Messages returns the recorded messages at level.
func (m *Logger) Messages(level ports.LogLevel) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.entries[level]...)
}

var _ ports.Logger = (*Logger)(nil)
