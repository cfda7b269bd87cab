package core

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	proxycore "github.com/awslabs/aws-lambda-go-api-proxy/core"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
)

// LambdaHandler adapts an http.Handler to API Gateway HTTP API (payload
// format 2.0) events so the same chi router serves local HTTP and Lambda.
type LambdaHandler struct {
	adapter *httpadapter.HandlerAdapterV2
}

// NewLambdaHandler wraps h. Requests reach h with RemoteAddr set to the
// caller's source IP as seen by API Gateway and X-Request-Id defaulted to
// the API Gateway request ID.
func NewLambdaHandler(h http.Handler) *LambdaHandler {
	return &LambdaHandler{adapter: httpadapter.NewV2(withGatewayContext(h))}
}

// Handle is the function passed to lambda.Start.
func (l *LambdaHandler) Handle(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return l.adapter.ProxyWithContext(ctx, event)
}

func withGatewayContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gw, ok := proxycore.GetAPIGatewayV2ContextFromContext(r.Context()); ok {
			if gw.HTTP.SourceIP != "" {
				r.RemoteAddr = gw.HTTP.SourceIP
			}
			if r.Header.Get("X-Request-Id") == "" && gw.RequestID != "" {
				r.Header.Set("X-Request-Id", gw.RequestID)
			}
		}
		next.ServeHTTP(w, r)
	})
}
