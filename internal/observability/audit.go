package observability

import (
	"fmt"
	"log/slog"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"go.opentelemetry.io/otel/trace"
)

// Audit emits a structured record for a privileged admin action. Events are
// dot-separated, e.g. "admin.resource.created" or "storage.file.deleted".
// The record carries the request id and, when a span is active, the trace
// and span ids so log backends can correlate it with the request trace.
func Audit(r *http.Request, event string, attrs ...any) {
	ctx := r.Context()
	msg := "audit"
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		msg = fmt.Sprintf("audit trace_id=%s span_id=%s", sc.TraceID(), sc.SpanID())
	}
	record := make([]any, 0, 8+len(attrs))
	record = append(record,
		"event", event,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", chimiddleware.GetReqID(ctx),
	)
	record = append(record, attrs...)
	slog.InfoContext(ctx, msg, record...)
}
