package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/admission_workflow_app/internal/middleware"
	"github.com/SscSPs/admission_workflow_app/internal/platform/metrics"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/SscSPs/admission_workflow_app/internal/core/services"

// BaseService provides common functionality for all services
type BaseService struct {
	guard    *ApplicationGuard
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	clock    func() time.Time
	newID    func() string
	newAppNo func(time.Time) string
}

// ServiceOption is a functional option for configuring a service
type ServiceOption func(*BaseService)

// WithGuard shares a per-application guard between services that mutate applications.
func WithGuard(g *ApplicationGuard) ServiceOption {
	return func(s *BaseService) {
		s.guard = g
	}
}

// WithMetrics adds the metrics dependency
func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *BaseService) {
		s.metrics = m
	}
}

// WithTracer overrides the global tracer
func WithTracer(t trace.Tracer) ServiceOption {
	return func(s *BaseService) {
		s.tracer = t
	}
}

// WithClock overrides time.Now
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *BaseService) {
		s.clock = clock
	}
}

// WithIDGenerator overrides uuid.NewString for new application and event ids
func WithIDGenerator(gen func() string) ServiceOption {
	return func(s *BaseService) {
		s.newID = gen
	}
}

// WithApplicationCodeGenerator overrides how application codes are drawn
func WithApplicationCodeGenerator(gen func(time.Time) string) ServiceOption {
	return func(s *BaseService) {
		s.newAppNo = gen
	}
}

func newBaseService(options ...ServiceOption) BaseService {
	b := BaseService{
		clock:    time.Now,
		newID:    uuid.NewString,
		newAppNo: NewApplicationCode,
	}
	for _, option := range options {
		option(&b)
	}
	if b.guard == nil {
		b.guard = NewApplicationGuard()
	}
	if b.tracer == nil {
		b.tracer = otel.Tracer(tracerName)
	}
	return b
}

func (s *BaseService) now() time.Time {
	return s.clock().UTC()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs a caller error with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Warn(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}
