package mq

import (
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("internal/storage/mq")

// tracingHooks traces produced and consumed records. It reads the global
// provider at call time, so clients must be built after telemetry is set up.
func tracingHooks() kgo.Opt {
	return kgo.WithHooks(kotel.NewTracer(
		kotel.TracerProvider(otel.GetTracerProvider()),
		kotel.TracerPropagator(otel.GetTextMapPropagator()),
	))
}
