package tarmac

import (
	"github.com/viant/afs/storage"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/viant/tarmac/progress"
	"github.com/viant/tarmac/service/event"
	"github.com/viant/tarmac/service/journal"
	"github.com/viant/tarmac/tracing"
)

// Option customises the tower service.
type Option func(s *Service)

// WithConfig sets the full configuration.
func WithConfig(config *Config) Option {
	return func(s *Service) {
		if config != nil {
			s.config = config
		}
	}
}

// WithEventService sets the event service.
func WithEventService(service *event.Service) Option {
	return func(s *Service) {
		s.events = service
	}
}

// WithTracker sets the live progress tracker.
func WithTracker(tracker *progress.Tracker) Option {
	return func(s *Service) {
		s.tracker = tracker
	}
}

// WithJournal sets the journal service.
func WithJournal(j *journal.Service) Option {
	return func(s *Service) {
		s.journal = j
	}
}

// WithDataFsOptions sets storage options passed to the loader, such as an
// *embed.FS for embed:// data locations.
func WithDataFsOptions(options ...storage.Option) Option {
	return func(s *Service) {
		s.dataFsOptions = options
	}
}

// WithTracing configures OpenTelemetry tracing for the service. If outputFile
// is empty the stdout exporter is used; otherwise traces are written to the
// supplied file path. Safe to call multiple times; the first successful
// initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom
// SpanExporter, for example OTLP, Jaeger or Zipkin.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
