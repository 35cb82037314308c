package util

import (
	"encoding/base64"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
)

// CreateFileResponse creates a base64-encoded download response for API Gateway
func CreateFileResponse(statusCode int, contentType, fileName string, content []byte, headers map[string]string) events.APIGatewayProxyResponse {
	responseHeaders := map[string]string{
		"Content-Type":                  contentType,
		"Content-Disposition":           fmt.Sprintf("attachment; filename=%q", fileName),
		"Access-Control-Allow-Origin":   "*",
		"Access-Control-Expose-Headers": "Content-Disposition,X-Laudo-Pdf-Url",
	}
	for key, value := range headers {
		responseHeaders[key] = value
	}

	return events.APIGatewayProxyResponse{
		StatusCode:      statusCode,
		Body:            base64.StdEncoding.EncodeToString(content),
		IsBase64Encoded: true,
		Headers:         responseHeaders,
	}
}
