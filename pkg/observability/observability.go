// Package observability wires structured logging and OpenTelemetry
// instrumentation for citadelkit. Only the otel API surface is used here;
// hosts that want export attach their own SDK providers, everything else
// gets the global no-op.
package observability

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/mycitadel/citadelkit/pkg/model"
	"github.com/mycitadel/citadelkit/pkg/status"
)

// NewLogger builds the kit's slog logger at the given level, writing
// JSON lines to stderr.
func NewLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		lvl = slog.LevelDebug
	case "WARN":
		lvl = slog.LevelWarn
	case "ERROR":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// Metrics records classification outcomes and foreign-call latencies.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	classifications metric.Int64Counter
	foreignCalls    metric.Float64Histogram
}

// NewMetrics registers the kit's instruments on the given meter; when
// meter is nil the global meter provider is used (no-op unless a host
// installed an SDK).
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		meter = otel.Meter("citadelkit")
	}
	classifications, err := meter.Int64Counter(
		"citadel.classifications",
		metric.WithDescription("Classification results by status and kind"),
	)
	if err != nil {
		return nil, err
	}
	foreignCalls, err := meter.Float64Histogram(
		"citadel.foreign_call.duration",
		metric.WithDescription("Foreign call duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}
	return &Metrics{classifications: classifications, foreignCalls: foreignCalls}, nil
}

// RecordClassification counts one classification outcome.
func (m *Metrics) RecordClassification(ctx context.Context, st status.ParseStatus, kind model.Kind) {
	if m == nil {
		return
	}
	m.classifications.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("status", st.String()),
			attribute.String("kind", string(kind)),
		))
}

// RecordForeignCall observes one foreign-call round trip.
func (m *Metrics) RecordForeignCall(ctx context.Context, entry string, d time.Duration, ok bool) {
	if m == nil {
		return
	}
	m.foreignCalls.Record(ctx, d.Seconds(),
		metric.WithAttributes(
			attribute.String("entry", entry),
			attribute.Bool("ok", ok),
		))
}
