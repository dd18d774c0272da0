package telemetry

import (
	"context"
	"errors"

	"github.com/GrinlexGH/deps/internal/core/ports"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// jobKindKey marks a span as a job. Phase spans such as cache hydration lack it.
const jobKindKey attribute.Key = "job.kind"

// errJobFailed is reported when a job span failed without a description.
var errJobFailed = errors.New("job failed")

// Bridge is a span processor that turns job spans into renderer tasks.
// Spans without a job kind are traced but never shown.
type Bridge struct {
	renderer ports.Renderer
}

var _ sdktrace.SpanProcessor = (*Bridge)(nil)

// NewBridge returns a processor reporting to renderer. A nil renderer makes it inert.
func NewBridge(renderer ports.Renderer) *Bridge {
	return &Bridge{renderer: renderer}
}

// jobSpanID returns the id a job span is rendered under, or "" for other spans.
func (b *Bridge) jobSpanID(s sdktrace.ReadOnlySpan) string {
	if b.renderer == nil || !s.SpanContext().IsValid() {
		return ""
	}
	for _, kv := range s.Attributes() {
		if kv.Key == jobKindKey {
			return s.SpanContext().SpanID().String()
		}
	}
	return ""
}

// OnStart implements sdktrace.SpanProcessor. Jobs are rendered flat, so the
// parent id is left empty.
func (b *Bridge) OnStart(_ context.Context, s sdktrace.ReadWriteSpan) {
	if id := b.jobSpanID(s); id != "" {
		b.renderer.OnTaskStart(id, "", s.Name(), s.StartTime())
	}
}

// OnEnd implements sdktrace.SpanProcessor.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	id := b.jobSpanID(s)
	if id == "" {
		return
	}
	b.renderer.OnTaskComplete(id, s.EndTime(), jobError(s.Status()))
}

func jobError(status sdktrace.Status) error {
	if status.Code != codes.Error {
		return nil
	}
	if status.Description == "" {
		return errJobFailed
	}
	return errors.New(status.Description)
}

// ForceFlush implements sdktrace.SpanProcessor by writing partial output lines.
func (b *Bridge) ForceFlush(context.Context) error {
	if b.renderer == nil {
		return nil
	}
	return b.renderer.Flush()
}

// Shutdown implements sdktrace.SpanProcessor.
func (b *Bridge) Shutdown(ctx context.Context) error {
	return b.ForceFlush(ctx)
}
