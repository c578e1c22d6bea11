package handlers

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

type HealthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
}

// Health answers liveness probes for the named service.
func Health(service string) func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		resp, err := successJSON(HealthResponse{
			OK:      true,
			Service: service,
		})
		if resp.StatusCode == http.StatusOK {
			resp.Headers["Content-Type"] = "application/json"
		}
		return resp, err
	}
}
