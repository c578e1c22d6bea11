package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/smithy-go"
)

const (
	msgMissingID         = "Error: You are missing the path parameter id"
	msgMissingBody       = "invalid request, you are missing the parameter body"
	msgBodyNotObject     = "invalid request, body must be a JSON object"
	msgUpdateMissingID   = "invalid request, you are missing the path parameter id"
	msgNoArguments       = "invalid request, no arguments provided"
	msgPrimaryKeyChanged = "invalid request, the primary key cannot be updated"

	msgReservedKeyword = "Error: You're using AWS reserved keywords as attributes"
	msgRedacted        = "internal server error"
)

func corsHeaders() map[string]string {
	return map[string]string{
		"Access-Control-Allow-Headers": "Content-Type",
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "OPTIONS,POST,GET",
	}
}

// success responses always carry the CORS headers
func success(status int, body string) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    corsHeaders(),
		Body:       body,
	}
}

func successJSON(v any) (events.APIGatewayProxyResponse, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return plain(http.StatusInternalServerError, errorJSON(errorBody{Message: err.Error()})), nil
	}
	return success(http.StatusOK, string(b)), nil
}

func plain(status int, body string) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Body:       body,
	}
}

// errorBody mirrors what an SDK error looks like once serialized: message
// always, the rest only when the error carries it.
type errorBody struct {
	Message    string `json:"message"`
	Code       string `json:"code,omitempty"`
	StatusCode int    `json:"statusCode,omitempty"`
	RequestID  string `json:"requestId,omitempty"`
}

func describeError(err error) errorBody {
	body := errorBody{Message: err.Error()}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		body.Code = apiErr.ErrorCode()
		if m := apiErr.ErrorMessage(); m != "" {
			body.Message = m
		}
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		body.StatusCode = respErr.HTTPStatusCode()
		body.RequestID = respErr.ServiceRequestID()
	}
	return body
}

func errorJSON(body errorBody) string {
	b, _ := json.Marshal(body)
	return string(b)
}

func isReservedKeyword(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.ErrorCode() == "ValidationException" &&
		strings.Contains(apiErr.ErrorMessage(), "reserved keyword")
}
