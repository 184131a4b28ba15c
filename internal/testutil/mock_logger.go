// Package testutil provides shared test doubles for PatQuery-Bridge.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/turtacn/PatQuery-Bridge/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatQuery-Bridge/pkg/errors"
)

// MockLogger implements logging.Logger and records every entry so tests can
// assert on logging behavior.
type MockLogger struct {
	mu       sync.Mutex
	name     string
	fields   []logging.Field
	messages *[]LogMessage
}

// LogMessage is a single log entry captured by MockLogger.
type LogMessage struct {
	Level   string
	Logger  string
	Message string
	Fields  []logging.Field
}

// NewMockLogger creates an empty MockLogger.
func NewMockLogger() *MockLogger {
	msgs := make([]LogMessage, 0)
	return &MockLogger{messages: &msgs}
}

func (m *MockLogger) log(level, msg string, fields []logging.Field) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := append(append([]logging.Field{}, m.fields...), fields...)
	*m.messages = append(*m.messages, LogMessage{
		Level:   level,
		Logger:  m.name,
		Message: msg,
		Fields:  all,
	})
}

func (m *MockLogger) Debug(msg string, fields ...logging.Field) { m.log("debug", msg, fields) }
func (m *MockLogger) Info(msg string, fields ...logging.Field)  { m.log("info", msg, fields) }
func (m *MockLogger) Warn(msg string, fields ...logging.Field)  { m.log("warn", msg, fields) }
func (m *MockLogger) Error(msg string, fields ...logging.Field) { m.log("error", msg, fields) }
func (m *MockLogger) Fatal(msg string, fields ...logging.Field) { m.log("fatal", msg, fields) }

// With returns a child that shares the parent's message log.
func (m *MockLogger) With(fields ...logging.Field) logging.Logger {
	return &MockLogger{
		name:     m.name,
		fields:   append(append([]logging.Field{}, m.fields...), fields...),
		messages: m.messages,
	}
}

// Named returns a child with the dot-joined name, sharing the message log.
func (m *MockLogger) Named(name string) logging.Logger {
	full := name
	if m.name != "" {
		full = m.name + "." + name
	}
	return &MockLogger{
		name:     full,
		fields:   append([]logging.Field{}, m.fields...),
		messages: m.messages,
	}
}

// Messages returns a copy of all recorded entries.
func (m *MockLogger) Messages() []LogMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]LogMessage, len(*m.messages))
	copy(result, *m.messages)
	return result
}

// Clear discards all recorded entries.
func (m *MockLogger) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	*m.messages = (*m.messages)[:0]
}

// HasMessage reports whether an entry with the given level and message exists.
func (m *MockLogger) HasMessage(level, msg string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, logged := range *m.messages {
		if logged.Level == level && logged.Message == msg {
			return true
		}
	}
	return false
}

// ─────────────────────────────────────────────────────────────────────────────
// Query service doubles
// ─────────────────────────────────────────────────────────────────────────────

// NopServiceLogger satisfies the query service's logging surface and discards
// everything.
type NopServiceLogger struct{}

func (NopServiceLogger) Debug(_ context.Context, _ string, _ ...interface{}) {}
func (NopServiceLogger) Info(_ context.Context, _ string, _ ...interface{})  {}
func (NopServiceLogger) Warn(_ context.Context, _ string, _ ...interface{})  {}
func (NopServiceLogger) Error(_ context.Context, _ string, _ ...interface{}) {}

// NopMetrics satisfies the query service's metrics surface and discards
// everything.
type NopMetrics struct{}

func (NopMetrics) IncCounter(_ string, _ map[string]string)                 {}
func (NopMetrics) ObserveHistogram(_ string, _ float64, _ map[string]string) {}

// NopCache misses every Get and swallows every Set, forcing the code under
// test down the compute path.
type NopCache struct{}

func (NopCache) Get(_ context.Context, _ string, _ interface{}) error {
	return errors.NotFound("cache miss")
}

func (NopCache) Set(_ context.Context, _ string, _ interface{}, _ time.Duration) error {
	return nil
}

//Personal.AI order the ending
