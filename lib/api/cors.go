package api

import (
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

// HeaderValue looks name up case-insensitively, API Gateway keeps the client's casing
func HeaderValue(headers map[string]string, name string) string {
	for key, value := range headers {
		if strings.EqualFold(key, name) {
			return value
		}
	}
	return ""
}

// OriginAllowed reports whether origin is listed, "*" allowing any origin
func OriginAllowed(allowedOrigins []string, origin string) bool {
	for _, allowedOrigin := range allowedOrigins {
		if allowedOrigin == "*" || allowedOrigin == origin {
			return true
		}
	}
	return false
}

// PreflightResponse answers an OPTIONS request. A missing origin yields 400 and an
// origin outside allowedOrigins yields 403 without CORS headers.
func PreflightResponse(allowedOrigins []string, request events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	requestOrigin := HeaderValue(request.Headers, "origin")
	if requestOrigin == "" {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusBadRequest}
	}
	if !OriginAllowed(allowedOrigins, requestOrigin) {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusForbidden}
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Access-Control-Allow-Origin":   requestOrigin,
			"Access-Control-Allow-Headers":  allowHeaders,
			"Access-Control-Allow-Methods":  allowMethods,
			"Access-Control-Expose-Headers": "Content-Disposition,X-Laudo-Pdf-Url",
			"Access-Control-Max-Age":        "600",
			"Vary":                          "Origin",
		},
	}
}
