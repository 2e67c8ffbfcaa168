package decoder_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/katalvlaran/depdecode/decoder"
	"github.com/katalvlaran/depdecode/factorgraph"
	"github.com/katalvlaran/depdecode/parts"
)

// recorder keeps every span it starts.
type recorder struct {
	noop.Tracer
	spans []*span
}

func (r *recorder) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	s := &span{name: name, attrs: map[attribute.Key]attribute.Value{}}
	for _, kv := range cfg.Attributes() {
		s.attrs[kv.Key] = kv.Value
	}
	r.spans = append(r.spans, s)

	return trace.ContextWithSpan(ctx, s), s
}

type span struct {
	noop.Span
	name   string
	attrs  map[attribute.Key]attribute.Value
	status codes.Code
	events []string
	errs   []error
	ended  bool
}

func (s *span) SetStatus(c codes.Code, _ string) { s.status = c }

func (s *span) SetAttributes(kv ...attribute.KeyValue) {
	for _, a := range kv {
		s.attrs[a.Key] = a.Value
	}
}

func (s *span) AddEvent(name string, _ ...trace.EventOption) { s.events = append(s.events, name) }

func (s *span) RecordError(err error, _ ...trace.EventOption) { s.errs = append(s.errs, err) }

func (s *span) End(...trace.SpanEndOption) { s.ended = true }

func TestTracing_Decode(t *testing.T) {
	rec := &recorder{}
	p, scores := threeNode(t)
	_, err := decoder.New(decoder.WithTracer(rec)).Decode(p, scores)
	require.NoError(t, err)

	require.Len(t, rec.spans, 1)
	s := rec.spans[0]
	assert.Equal(t, "decoder.Decode", s.name)
	assert.True(t, s.ended)
	assert.Equal(t, codes.Ok, s.status)
	assert.Equal(t, int64(3), s.attrs["depdecode.nodes"].AsInt64())
	assert.Equal(t, int64(4), s.attrs["depdecode.parts"].AsInt64())
	assert.Empty(t, s.errs)
}

func TestTracing_Errors(t *testing.T) {
	rec := &recorder{}
	d := decoder.New(decoder.WithTracer(rec))
	p, scores := threeNode(t)

	_, err := d.Decode(p, scores[:2])
	require.ErrorIs(t, err, decoder.ErrLengthMismatch)
	_, _, _, err = d.DecodeCostAugmentedMarginals(p, scores, scores)
	require.ErrorIs(t, err, decoder.ErrNotImplemented)

	require.Len(t, rec.spans, 2)
	for _, s := range rec.spans {
		assert.True(t, s.ended, s.name)
		assert.Equal(t, codes.Error, s.status, s.name)
		assert.Len(t, s.errs, 1, s.name)
	}
}

func TestTracing_TrainingCalls(t *testing.T) {
	rec := &recorder{}
	d := decoder.New(decoder.WithTracer(rec))
	p, scores := threeNode(t)
	gold := []float64{1, 0, 1, 0}

	_, cost, _, err := d.DecodeCostAugmented(p, scores, gold)
	require.NoError(t, err)
	_, entropy, _, err := d.DecodeMarginals(p, scores, gold)
	require.NoError(t, err)

	require.Len(t, rec.spans, 2)
	assert.Equal(t, "decoder.DecodeCostAugmented", rec.spans[0].name)
	assert.Equal(t, cost, rec.spans[0].attrs["depdecode.cost"].AsFloat64())
	assert.Equal(t, "decoder.DecodeMarginals", rec.spans[1].name)
	assert.Equal(t, entropy, rec.spans[1].attrs["depdecode.entropy"].AsFloat64())
}

func TestTracing_FactorGraphEvent(t *testing.T) {
	rec := &recorder{}
	p, scores := collect(t, 3, []scored{
		{parts.Arc(0, 1), 2}, {parts.Arc(0, 2), -1}, {parts.Arc(1, 2), 2},
		{parts.NextSibling(1, 1, 2), 1},
	})
	d := decoder.New(decoder.WithTracer(rec),
		decoder.WithFactorGraphOptions(factorgraph.WithMaxIterations(5000)))
	_, err := d.Decode(p, scores)
	require.NoError(t, err)

	require.Len(t, rec.spans, 1)
	assert.Contains(t, rec.spans[0].events, "factor_graph_solved")
}
