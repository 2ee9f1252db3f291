package consts

type ContextKey string

const (
	// TraceKey 请求上下文中存放 TraceID 的键
	TraceKey ContextKey = "traceId"
	// TraceHeaderName 跨服务透传 TraceID 的请求头
	TraceHeaderName = "X-Trace-Id"
)
