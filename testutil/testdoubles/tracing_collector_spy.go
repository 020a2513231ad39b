package testdoubles

import (
	"context"
	"maps"
	"sync"

	"github.com/AntonStoeckl/library-lending-go/eventstore"
)

// SpanRecord is one finished span as seen by TracingCollectorSpy.
type SpanRecord struct {
	Name       string
	Status     string
	Attributes map[string]string
}

// SpySpanContext is the span handed out by TracingCollectorSpy.
type SpySpanContext struct {
	name       string
	status     string
	attributes map[string]string
	mu         sync.Mutex
}

func (s *SpySpanContext) SetStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = status
}

func (s *SpySpanContext) AddAttribute(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attributes[key] = value
}

// TracingCollectorSpy records finished spans.
type TracingCollectorSpy struct {
	finished []SpanRecord
	started  int
	mu       sync.Mutex
}

func NewTracingCollectorSpy() *TracingCollectorSpy {
	return &TracingCollectorSpy{}
}

func (t *TracingCollectorSpy) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, eventstore.SpanContext) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.started++

	span := &SpySpanContext{name: name, attributes: make(map[string]string, len(attrs))}
	maps.Copy(span.attributes, attrs)

	return ctx, span
}

func (t *TracingCollectorSpy) FinishSpan(spanCtx eventstore.SpanContext, status string, attrs map[string]string) {
	span, ok := spanCtx.(*SpySpanContext)
	if !ok {
		return
	}

	span.mu.Lock()
	record := SpanRecord{Name: span.name, Status: status, Attributes: maps.Clone(span.attributes)}
	span.mu.Unlock()

	maps.Copy(record.Attributes, attrs)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.finished = append(t.finished, record)
}

// Finished returns a copy of all finished spans.
func (t *TracingCollectorSpy) Finished() []SpanRecord {
	t.mu.Lock()
	defer t.mu.Unlock()

	return append([]SpanRecord(nil), t.finished...)
}

// Unfinished counts spans that were started but never finished.
func (t *TracingCollectorSpy) Unfinished() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.started - len(t.finished)
}
