package telemetry

import (
	"context"

	"github.com/GrinlexGH/deps/internal/core/ports"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Provider owns the SDK tracer provider that feeds the renderer.
type Provider struct {
	tp *sdktrace.TracerProvider
}

// NewProvider installs a tracer provider whose spans are rendered by renderer.
func NewProvider(renderer ports.Renderer) *Provider {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(NewBridge(renderer)))
	otel.SetTracerProvider(tp)
	return &Provider{tp: tp}
}

// Shutdown ends the provider and flushes the renderer.
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.tp.Shutdown(ctx)
}
