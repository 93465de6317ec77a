package ctxutil

import "context"

type TraceData struct {
	TraceID   string
	RequestID string
}

type traceDataKey struct{}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(Default(ctx), traceDataKey{}, td)
}

// GetTraceData returns the request trace ids, or nil outside a request.
func GetTraceData(ctx context.Context) *TraceData {
	if ctx == nil {
		return nil
	}
	td, _ := ctx.Value(traceDataKey{}).(*TraceData)
	return td
}
