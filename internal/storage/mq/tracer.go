package mq

import (
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"
)

var (
	tracer = otel.Tracer("productstack/internal/storage/mq")
	// kTracer propagates trace context through record headers on both sides.
	kTracer = kotel.NewTracer()
)
