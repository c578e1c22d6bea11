// Package local serves the Lambda handlers over plain HTTP the way an API
// Gateway REST API with proxy integrations would, for development against
// DynamoDB Local.
package local

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler is the signature every proxy-integration Lambda in this repo has.
type Handler func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// Routes maps the resource methods to handlers. Nil handlers are not mounted.
type Routes struct {
	GetAll    Handler
	Create    Handler
	GetOne    Handler
	UpdateOne Handler
	DeleteOne Handler
	Health    Handler
}

// preflight matches the mock OPTIONS integration on each API resource.
var preflight = map[string]string{
	"Access-Control-Allow-Headers":     "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token,X-Amz-User-Agent",
	"Access-Control-Allow-Origin":      "*",
	"Access-Control-Allow-Credentials": "false",
	"Access-Control-Allow-Methods":     "OPTIONS,GET,PUT,POST,DELETE",
}

// NewRouter mounts routes under /<resource> and /<resource>/{id}.
func NewRouter(resource string, routes Routes) http.Handler {
	resource = "/" + strings.Trim(resource, "/")

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	mount := func(method, pattern string, h Handler) {
		if h == nil {
			return
		}
		r.Method(method, pattern, proxy(pattern, h))
	}

	if routes.Health != nil {
		r.Method(http.MethodGet, "/health", proxy("/health", routes.Health))
	}

	mount(http.MethodGet, resource, routes.GetAll)
	mount(http.MethodPost, resource, routes.Create)
	r.Options(resource, preflightHandler)

	item := resource + "/{id}"
	mount(http.MethodGet, item, routes.GetOne)
	mount(http.MethodPatch, item, routes.UpdateOne)
	mount(http.MethodDelete, item, routes.DeleteOne)
	r.Options(item, preflightHandler)

	return r
}

func preflightHandler(w http.ResponseWriter, _ *http.Request) {
	for k, v := range preflight {
		w.Header().Set(k, v)
	}
	w.WriteHeader(http.StatusOK)
}

// proxy adapts a Lambda handler to net/http. A non-nil handler error is
// answered with 502, as API Gateway does for a failed invocation.
func proxy(resource string, h Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := toEvent(resource, r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		resp, err := h(r.Context(), req)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, `{"message": "Internal server error"}`)
			return
		}
		writeResponse(w, resp)
	}
}

func toEvent(resource string, r *http.Request) (events.APIGatewayProxyRequest, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return events.APIGatewayProxyRequest{}, err
	}

	req := events.APIGatewayProxyRequest{
		Resource:   resource,
		Path:       r.URL.Path,
		HTTPMethod: r.Method,
		Body:       string(body),
		RequestContext: events.APIGatewayProxyRequestContext{
			RequestID:    middleware.GetReqID(r.Context()),
			HTTPMethod:   r.Method,
			Path:         r.URL.Path,
			ResourcePath: resource,
		},
	}

	if len(r.Header) > 0 {
		req.Headers = make(map[string]string, len(r.Header))
		req.MultiValueHeaders = make(map[string][]string, len(r.Header))
		for k, vs := range r.Header {
			req.Headers[k] = vs[len(vs)-1]
			req.MultiValueHeaders[k] = vs
		}
	}

	if q := r.URL.Query(); len(q) > 0 {
		req.QueryStringParameters = make(map[string]string, len(q))
		req.MultiValueQueryStringParameters = make(map[string][]string, len(q))
		for k, vs := range q {
			req.QueryStringParameters[k] = vs[len(vs)-1]
			req.MultiValueQueryStringParameters[k] = vs
		}
	}

	if rctx := chi.RouteContext(r.Context()); rctx != nil && len(rctx.URLParams.Keys) > 0 {
		req.PathParameters = make(map[string]string, len(rctx.URLParams.Keys))
		for i, k := range rctx.URLParams.Keys {
			req.PathParameters[k] = rctx.URLParams.Values[i]
		}
	}
	return req, nil
}

func writeResponse(w http.ResponseWriter, resp events.APIGatewayProxyResponse) {
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	for k, vs := range resp.MultiValueHeaders {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = io.WriteString(w, resp.Body)
}
