// SPDX-License-Identifier: MIT

package decoder

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/depdecode/parts"
)

// TracerName is the instrumentation scope of the decoder spans.
const TracerName = "github.com/katalvlaran/depdecode/decoder"

// defaultTracer follows the global provider, including one installed after
// the decoder was created.
func defaultTracer() trace.Tracer { return otel.Tracer(TracerName) }

// startSpan opens the span of one decode call. Decoding is synchronous and
// takes no context, so every span is a root.
func (d *DependencyDecoder) startSpan(name, mode string, p *parts.Parts) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("depdecode.mode", mode),
		attribute.Bool("depdecode.labeled", d.opts.Labeled),
		attribute.Bool("depdecode.projective", d.opts.Projective),
	}
	if p != nil {
		attrs = append(attrs,
			attribute.Int("depdecode.nodes", p.Length()),
			attribute.Int("depdecode.parts", p.Len()))
	}

	return d.opts.Tracer.Start(context.Background(), name, trace.WithAttributes(attrs...))
}

// finish records err on span, sets its status and ends it.
func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode failed")
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
