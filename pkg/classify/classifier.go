package classify

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mycitadel/citadelkit/pkg/bridge"
	"github.com/mycitadel/citadelkit/pkg/decode"
	"github.com/mycitadel/citadelkit/pkg/ffi"
	"github.com/mycitadel/citadelkit/pkg/model"
	"github.com/mycitadel/citadelkit/pkg/observability"
	"github.com/mycitadel/citadelkit/pkg/status"
)

// Classifier runs the ordered probe chain over opaque input text. The
// chain is fixed — address probe first, generic encoding probe second —
// and first success wins with no backtracking; the decoder registry
// behind the second stage is open to extension without reordering.
//
// A Classifier is bound to one call context and inherits its single-owner
// discipline: no two classifications through the same Classifier may run
// concurrently without external synchronization.
type Classifier struct {
	cc       *ffi.CallContext
	decoders map[string]decode.Decoder
	logger   *slog.Logger
	metrics  *observability.Metrics
	tracer   trace.Tracer
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithMetrics attaches a metrics recorder.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Classifier) { c.metrics = m }
}

// WithLogger overrides the call context's logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Classifier) { c.logger = l }
}

// New builds a classifier over cc with the built-in decoder set
// registered.
func New(cc *ffi.CallContext, opts ...Option) (*Classifier, error) {
	c := &Classifier{
		cc:       cc,
		decoders: make(map[string]decode.Decoder),
		logger:   cc.Logger(),
		tracer:   otel.Tracer("citadelkit/classify"),
	}
	for _, opt := range opts {
		opt(c)
	}
	for _, d := range decode.Defaults() {
		if err := c.Register(d); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Register adds a decoder under its category tag. Registration never
// reorders the probe chain; a duplicate tag is rejected so an existing
// category cannot be silently shadowed.
func (c *Classifier) Register(d decode.Decoder) error {
	tag := d.Tag()
	if _, exists := c.decoders[tag]; exists {
		return fmt.Errorf("classify: decoder already registered for tag %q", tag)
	}
	c.decoders[tag] = d
	return nil
}

// Classify resolves input to exactly one Result. It always returns
// normally: every stage failure, including a panicking decoder, is
// captured into the result's status and report.
func (c *Classifier) Classify(ctx context.Context, input string) (res Result) {
	ctx, span := c.tracer.Start(ctx, "citadelkit.classify")
	defer span.End()
	defer func() {
		if r := recover(); r != nil {
			res = Result{
				Status: status.InvalidStructuredData,
				Report: fmt.Sprintf("classification aborted: %v", r),
				Data:   model.Unknown{},
			}
		}
		span.SetAttributes(
			attribute.Int("citadel.status", int(res.Status)),
			attribute.String("citadel.kind", string(res.Data.Kind())),
		)
		c.metrics.RecordClassification(ctx, res.Status, res.Data.Kind())
	}()

	return c.run(ctx, input)
}

func (c *Classifier) run(ctx context.Context, input string) Result {
	// Stage 1: address probe. Addresses and generic encodings share
	// prefix space; address-first keeps ambiguous inputs deterministic
	// and skips the category-tag round trip for the common case. The
	// probe's own failure detail is discarded, not surfaced.
	if data, ok := c.probeAddress(ctx, input); ok {
		return Result{Status: status.Ok, Data: data}
	}

	// Stage 2: generic encoding probe.
	enc, err := c.cc.ParseEncoding(ctx, input)
	if err != nil {
		// The probe itself could not run: soft fallback, not a fault.
		return Result{
			Status: status.InvalidStructuredData,
			Report: fmt.Sprintf("encoding probe could not run: %v", err),
			Data:   model.Unknown{},
		}
	}
	if st := status.FromCode(enc.Status); st != status.Ok {
		report := ""
		if enc.Details != nil {
			if msg, terr := enc.Details.TakeString(); terr == nil {
				report = msg
			}
		}
		return Result{Status: st, Report: report, Data: model.Unknown{}}
	}

	var payload []byte
	if enc.Details != nil {
		payload, err = enc.Details.TakeBytes()
		if err != nil {
			return Result{
				Status: status.InvalidStructuredData,
				Report: fmt.Sprintf("encoding payload unavailable: %v", err),
				Data:   model.Unknown{},
			}
		}
	}

	dec, found := c.decoders[enc.Tag]
	if !found {
		// Soft terminal state: the encoding is fine, we just have no
		// decoder for this category yet.
		c.logger.Debug("unrecognized category tag", slog.String("tag", enc.Tag))
		return Result{
			Status: status.Ok,
			Report: fmt.Sprintf("category tag %q is not recognized", enc.Tag),
			Data:   model.Unknown{},
		}
	}

	data, derr := dec.Decode(payload)
	if derr != nil {
		// The runtime validated the encoding but not the structure:
		// reclassified as a local structural-decode failure regardless
		// of the sub-case the decoder reports.
		return Result{
			Status: status.InvalidStructuredData,
			Report: derr.Error(),
			Data:   model.Unknown{},
		}
	}
	return Result{Status: status.Ok, Data: data}
}

// probeAddress attempts the first-stage address interpretation. Any
// failure — a call that cannot run, a bridging error, a structural decode
// miss — is a probe miss; the chain moves on and the detail is dropped.
func (c *Classifier) probeAddress(ctx context.Context, input string) (model.Data, bool) {
	res, err := c.cc.ParseAddress(ctx, input)
	if err != nil {
		c.logger.Debug("address probe unavailable", slog.String("error", err.Error()))
		return nil, false
	}
	payload, err := bridge.Bytes(ctx, c.cc, res)
	if err != nil {
		return nil, false
	}
	info, err := decode.Address(payload)
	if err != nil {
		return nil, false
	}
	return model.Address{Info: info}, true
}
