package instrument

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Context keys
type ctxKey int

const (
	traceIDKey ctxKey = iota
	parentSpanIDKey
	instrumenterKey
	userIDKey
)

// Instrumenter is the tracing API used by the engine components.
type Instrumenter interface {
	StartSpan(ctx context.Context, source, component, action string) (context.Context, Span)
	EmitBusinessEvent(ctx context.Context, action, entity, recordID string, metadata map[string]any)
}

// Span represents a timed operation span.
type Span interface {
	End()
	SetStatus(status string)
	SetMetadata(key string, value any)
	SetEntity(entity, recordID string)
	TraceID() string
	SpanID() string
}

// Event is one recorded span or business event.
type Event struct {
	TraceID      string         `json:"trace_id"`
	SpanID       string         `json:"span_id"`
	ParentSpanID string         `json:"parent_span_id,omitempty"`
	EventType    string         `json:"event_type"`
	Source       string         `json:"source"`
	Component    string         `json:"component"`
	Action       string         `json:"action"`
	Entity       string         `json:"entity,omitempty"`
	RecordID     string         `json:"record_id,omitempty"`
	UserID       string         `json:"user_id,omitempty"`
	DurationMs   float64        `json:"duration_ms"`
	Status       string         `json:"status,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Sink receives finished events.
type Sink interface {
	Enqueue(Event)
}

// Context helpers

// WithTraceID sets the trace ID in the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// GetTraceID returns the trace ID from the context.
func GetTraceID(ctx context.Context) string {
	if v, ok := ctx.Value(traceIDKey).(string); ok {
		return v
	}
	return ""
}

// WithParentSpanID sets the parent span ID in the context.
func WithParentSpanID(ctx context.Context, spanID string) context.Context {
	return context.WithValue(ctx, parentSpanIDKey, spanID)
}

func getParentSpanID(ctx context.Context) string {
	if v, ok := ctx.Value(parentSpanIDKey).(string); ok {
		return v
	}
	return ""
}

// WithInstrumenter sets the instrumenter in the context.
func WithInstrumenter(ctx context.Context, inst Instrumenter) context.Context {
	return context.WithValue(ctx, instrumenterKey, inst)
}

// GetInstrumenter returns the instrumenter from the context,
// or a NoopInstrumenter if none is set.
func GetInstrumenter(ctx context.Context) Instrumenter {
	if v, ok := ctx.Value(instrumenterKey).(Instrumenter); ok {
		return v
	}
	return &NoopInstrumenter{}
}

// WithUserID sets the user ID in the context for instrumentation.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func getUserID(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

// InstrumenterImpl is the real instrumenter; finished spans go to the sink.
type InstrumenterImpl struct {
	sink Sink
}

// NewInstrumenter creates an InstrumenterImpl backed by the given sink.
func NewInstrumenter(sink Sink) *InstrumenterImpl {
	return &InstrumenterImpl{sink: sink}
}

// StartSpan creates a new span and returns the updated context so child
// spans reference this span as parent.
func (i *InstrumenterImpl) StartSpan(ctx context.Context, source, component, action string) (context.Context, Span) {
	span := &SpanImpl{
		traceID:      GetTraceID(ctx),
		spanID:       uuid.New().String(),
		parentSpanID: getParentSpanID(ctx),
		source:       source,
		component:    component,
		action:       action,
		startTime:    time.Now(),
		metadata:     make(map[string]any),
		sink:         i.sink,
		userID:       getUserID(ctx),
	}
	ctx = WithParentSpanID(ctx, span.spanID)
	return ctx, span
}

// EmitBusinessEvent emits a one-shot business event (no duration tracking).
func (i *InstrumenterImpl) EmitBusinessEvent(ctx context.Context, action, entity, recordID string, metadata map[string]any) {
	i.sink.Enqueue(Event{
		TraceID:      GetTraceID(ctx),
		SpanID:       uuid.New().String(),
		ParentSpanID: getParentSpanID(ctx),
		EventType:    "business",
		Source:       "business",
		Component:    "api",
		Action:       action,
		Entity:       entity,
		RecordID:     recordID,
		UserID:       getUserID(ctx),
		Metadata:     metadata,
		CreatedAt:    time.Now(),
	})
}

// SpanImpl implements Span with timing and metadata.
type SpanImpl struct {
	traceID      string
	spanID       string
	parentSpanID string
	source       string
	component    string
	action       string
	entity       string
	recordID     string
	userID       string
	status       string
	startTime    time.Time
	metadata     map[string]any
	sink         Sink
	mu           sync.Mutex
	ended        bool
}

func (s *SpanImpl) TraceID() string { return s.traceID }
func (s *SpanImpl) SpanID() string  { return s.spanID }

func (s *SpanImpl) SetStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

func (s *SpanImpl) SetMetadata(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.metadata == nil {
		s.metadata = make(map[string]any)
	}
	s.metadata[key] = value
}

func (s *SpanImpl) SetEntity(entity, recordID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entity = entity
	s.recordID = recordID
}

func (s *SpanImpl) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	s.ended = true

	s.sink.Enqueue(Event{
		TraceID:      s.traceID,
		SpanID:       s.spanID,
		ParentSpanID: s.parentSpanID,
		EventType:    "system",
		Source:       s.source,
		Component:    s.component,
		Action:       s.action,
		Entity:       s.entity,
		RecordID:     s.recordID,
		UserID:       s.userID,
		DurationMs:   float64(time.Since(s.startTime).Microseconds()) / 1000.0,
		Status:       s.status,
		Metadata:     s.metadata,
		CreatedAt:    time.Now(),
	})
}
