package logging

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

type ctxKey struct{}

var log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "severity",
			logrus.FieldKeyMsg:   "message",
		},
	})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// Init sets the level of the shared logger. Unknown levels keep info.
func Init(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		log.WithField("level", level).Warn("unknown log level, using info")
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
}

// Logger exposes the shared logger, e.g. as a gorm logger writer.
func Logger() *logrus.Logger {
	return log
}

// ContextWithRequestID stores the request id so WithContext can attach it.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

// RequestIDFromContext returns the request id stored by ContextWithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// WithContext returns an entry carrying the request id and trace correlation
// fields (trace_id, span_id) when present.
func WithContext(ctx context.Context) *logrus.Entry {
	fields := logrus.Fields{}
	if id := RequestIDFromContext(ctx); id != "" {
		fields["request_id"] = id
	}

	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.IsValid() {
		fields["trace_id"] = spanCtx.TraceID().String()
		fields["span_id"] = spanCtx.SpanID().String()
	}

	return log.WithFields(fields)
}

func Info(ctx context.Context, msg string) {
	WithContext(ctx).Info(msg)
}

func Infof(ctx context.Context, format string, args ...interface{}) {
	WithContext(ctx).Infof(format, args...)
}

func Warnf(ctx context.Context, format string, args ...interface{}) {
	WithContext(ctx).Warnf(format, args...)
}

func Errorf(ctx context.Context, format string, args ...interface{}) {
	WithContext(ctx).Errorf(format, args...)
}

// WithFields returns a logger entry with additional custom fields
func WithFields(ctx context.Context, fields map[string]interface{}) *logrus.Entry {
	return WithContext(ctx).WithFields(fields)
}

// WarnWriter adapts the shared logger to Printf-style sinks such as gorm's
// logger. Every line is emitted at warn level.
type WarnWriter struct {
	entry *logrus.Entry
}

func NewWarnWriter(component string) WarnWriter {
	return WarnWriter{entry: log.WithField("component", component)}
}

func (w WarnWriter) Printf(format string, args ...interface{}) {
	w.entry.Warnf(format, args...)
}
