// Package journal records every simulation transition as a structured log
// line. It subscribes to traffic events and writes them through a rotating
// file sink; each new simulation run starts with a fresh file.
package journal

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/viant/tarmac/model/traffic"
	"github.com/viant/tarmac/service/event"
)

// Service implements the simulation journal.
type Service struct {
	config Config
	out    io.Writer
	mu     sync.Mutex
	sink   *lumberjack.Logger
	logger *slog.Logger
}

// Option customises the journal.
type Option func(s *Service)

// WithConfig sets the journal configuration.
func WithConfig(config Config) Option {
	return func(s *Service) { s.config = config }
}

// WithWriter replaces the file sink with an arbitrary writer, used by tests.
func WithWriter(w io.Writer) Option {
	return func(s *Service) { s.out = w }
}

// New creates a journal. The handler is built after all options apply, so
// option order never changes the effective level.
func New(options ...Option) *Service {
	ret := &Service{config: DefaultConfig()}
	for _, option := range options {
		option(ret)
	}
	out := ret.out
	if out == nil {
		out = ret.writer()
	}
	ret.logger = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: parseLevel(ret.config.Level)}))
	return ret
}

func (s *Service) writer() io.Writer {
	var writers []io.Writer
	if s.config.Path != "" {
		s.sink = &lumberjack.Logger{
			Filename:   s.config.Path,
			MaxSize:    s.config.MaxSizeMB,
			MaxBackups: s.config.MaxBackups,
			MaxAge:     s.config.MaxAgeDays,
		}
		writers = append(writers, s.sink)
	}
	if s.config.Console {
		writers = append(writers, os.Stderr)
	}
	switch len(writers) {
	case 0:
		return io.Discard
	case 1:
		return writers[0]
	}
	return io.MultiWriter(writers...)
}

// Attach subscribes the journal to the traffic events of the given service.
func (s *Service) Attach(events *event.Service) {
	event.SetListenerOf(events, func(evt *event.Event[traffic.Event]) {
		s.Record(evt.Data)
	})
}

// Record writes one transition. Attribute order is stable so journal lines
// diff cleanly between runs.
func (s *Service) Record(evt traffic.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	attrs := []any{slog.Int("tick", evt.Tick)}
	if evt.FlightID != "" {
		attrs = append(attrs, slog.String("flight", evt.FlightID))
	}
	if evt.RunwayID != "" {
		attrs = append(attrs, slog.String("runway", evt.RunwayID))
	}
	keys := make([]string, 0, len(evt.Extra))
	for key := range evt.Extra {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		attrs = append(attrs, slog.String(key, evt.Extra[key]))
	}
	s.logger.Info(string(evt.Kind), attrs...)
}

// Reset truncates the journal so the next run starts clean. It is a no-op
// without a file sink.
func (s *Service) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sink == nil {
		return nil
	}
	if err := s.sink.Close(); err != nil {
		return fmt.Errorf("journal: failed to close %s: %w", s.sink.Filename, err)
	}
	if err := os.Remove(s.sink.Filename); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("journal: failed to truncate %s: %w", s.sink.Filename, err)
	}
	return nil
}

// Close flushes and closes the file sink.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sink == nil {
		return nil
	}
	return s.sink.Close()
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
