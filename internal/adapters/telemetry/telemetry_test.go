package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/GrinlexGH/deps/internal/adapters/telemetry"
	"github.com/GrinlexGH/deps/internal/core/ports"
	"github.com/GrinlexGH/deps/internal/core/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/mock/gomock"
)

func setupRecorder(t *testing.T, processors ...sdktrace.SpanProcessor) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	opts := []sdktrace.TracerProviderOption{sdktrace.WithSpanProcessor(sr)}
	for _, p := range processors {
		opts = append(opts, sdktrace.WithSpanProcessor(p))
	}
	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return sr
}

func TestInterfaceSatisfaction(_ *testing.T) {
	var _ ports.Tracer = (*telemetry.OTelTracer)(nil)
	var _ ports.Span = (*telemetry.OTelSpan)(nil)
	var _ ports.Tracer = (*telemetry.NoOpTracer)(nil)
	var _ ports.Span = (*telemetry.NoOpSpan)(nil)
	var _ sdktrace.SpanProcessor = (*telemetry.Bridge)(nil)
}

func TestOTelTracer_SpanLifecycleReachesRenderer(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	renderer.EXPECT().Flush().Return(nil).AnyTimes()
	sr := setupRecorder(t, telemetry.NewBridge(renderer))

	var spanID string
	gomock.InOrder(
		renderer.EXPECT().OnTaskStart(gomock.Any(), "", "SDL", gomock.Any()).
			Do(func(id, _, _ string, _ any) { spanID = id }),
		renderer.EXPECT().OnTaskLog(gomock.Any(), []byte("-- Build files written\n")).
			Do(func(id string, _ []byte) { assert.Equal(t, spanID, id) }),
		renderer.EXPECT().OnTaskComplete(gomock.Any(), gomock.Any(), nil).
			Do(func(id string, _, _ any) { assert.Equal(t, spanID, id) }),
	)

	tracer := telemetry.NewOTelTracer("test", renderer)
	_, span := tracer.Start(context.Background(), "SDL", ports.WithJobKind("cmake"))
	_, err := span.Write([]byte("-- Build files written\n"))
	require.NoError(t, err)
	span.SetAttribute("job.status", "built")
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	attrs := spans[0].Attributes()
	assert.Contains(t, attrs, attribute.String("job.kind", "cmake"))
	assert.Contains(t, attrs, attribute.String("job.status", "built"))
}

func TestOTelTracer_RecordErrorFailsTask(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	renderer.EXPECT().Flush().Return(nil).AnyTimes()
	setupRecorder(t, telemetry.NewBridge(renderer))

	renderer.EXPECT().OnTaskStart(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any())
	renderer.EXPECT().OnTaskComplete(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ string, _ any, err error) {
			require.Error(t, err)
			assert.Equal(t, "cmake step failed", err.Error())
		})

	tracer := telemetry.NewOTelTracer("test", renderer)
	_, span := tracer.Start(context.Background(), "SDL", ports.WithJobKind("cmake"))
	span.RecordError(errors.New("cmake step failed"))
	span.End()
}

func TestBridge_PhaseSpansAreNotRendered(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	renderer.EXPECT().Flush().Return(nil).AnyTimes()
	sr := setupRecorder(t, telemetry.NewBridge(renderer))

	renderer.EXPECT().OnTaskStart(gomock.Any(), "", "glm", gomock.Any())
	renderer.EXPECT().OnTaskComplete(gomock.Any(), gomock.Any(), nil)

	tracer := telemetry.NewOTelTracer("test", renderer)
	ctx, phase := tracer.Start(context.Background(), "Planning installs")
	_, job := tracer.Start(ctx, "glm", ports.WithJobKind("header-only"))
	job.End()
	phase.End()

	assert.Len(t, sr.Ended(), 2)
}

func TestOTelTracer_EmitPlan(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	sr := setupRecorder(t)

	renderer.EXPECT().OnPlanEmit([]string{"SDL", "glm"}).Times(2)

	tracer := telemetry.NewOTelTracer("test", renderer)

	// Without a current span only the renderer is told.
	tracer.EmitPlan(context.Background(), []string{"SDL", "glm"})
	assert.Empty(t, sr.Ended())

	ctx, root := otel.Tracer("test").Start(context.Background(), "run")
	tracer.EmitPlan(ctx, []string{"SDL", "glm"})
	root.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	events := spans[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "plan_emitted", events[0].Name)
}

func TestOTelSpan_WriteWithoutRenderer(t *testing.T) {
	sr := setupRecorder(t)

	tracer := telemetry.NewOTelTracer("test", nil)
	_, span := tracer.Start(context.Background(), "glm")
	n, err := span.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "log", spans[0].Events()[0].Name)
}

func TestBridge_OnEndWithEmptyDescription(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	bridge := telemetry.NewBridge(renderer)

	renderer.EXPECT().OnTaskComplete(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ string, _ any, err error) {
			assert.EqualError(t, err, "job failed")
		})

	tp := sdktrace.NewTracerProvider()
	_, span := tp.Tracer("test").Start(context.Background(), "SDL",
		trace.WithAttributes(attribute.String("job.kind", "cmake")))
	span.SetStatus(codes.Error, "")
	span.End()

	if roSpan, ok := span.(sdktrace.ReadOnlySpan); ok {
		bridge.OnEnd(roSpan)
	}
}

func TestBridge_NilRenderer(t *testing.T) {
	bridge := telemetry.NewBridge(nil)

	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "SDL")
	span.End()

	if rwSpan, ok := span.(sdktrace.ReadWriteSpan); ok {
		bridge.OnStart(ctx, rwSpan)
		bridge.OnEnd(rwSpan)
	}
	assert.NoError(t, bridge.ForceFlush(ctx))
}

func TestBridge_ShutdownFlushesRenderer(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	renderer.EXPECT().Flush().Return(nil)

	provider := telemetry.NewProvider(renderer)
	require.NoError(t, provider.Shutdown(context.Background()))
}

func TestNoOpTracer(t *testing.T) {
	tracer := telemetry.NewNoOpTracer()
	ctx, span := tracer.Start(context.Background(), "SDL")
	assert.NotNil(t, ctx)

	n, err := span.Write([]byte("discarded"))
	require.NoError(t, err)
	assert.Equal(t, 9, n)

	span.SetAttribute("k", 1)
	span.RecordError(errors.New("ignored"))
	span.End()
	tracer.EmitPlan(ctx, []string{"SDL"})
}
