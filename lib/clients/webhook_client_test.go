package clients

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_PostJSON_Success(t *testing.T) {
	//Arrange
	var received map[string]interface{}
	var contentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()
	client := NewWebhookClient(server.URL, time.Second)

	//Act
	err := client.PostJSON(context.Background(), map[string]string{"laudo_id": "QH-20250615-0001"})

	//Assert
	require.NoError(t, err)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, "QH-20250615-0001", received["laudo_id"])
}

func Test_PostJSON_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(" workflow offline \n"))
	}))
	defer server.Close()

	err := NewWebhookClient(server.URL, time.Second).PostJSON(context.Background(), map[string]string{})

	assert.EqualError(t, err, "webhook returned status=500 body=workflow offline")
}

func Test_PostJSON_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	err := NewWebhookClient(url, time.Second).PostJSON(context.Background(), map[string]string{})

	assert.ErrorContains(t, err, "webhook request failed")
}

func Test_PostJSON_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	err := NewWebhookClient(server.URL, 50*time.Millisecond).PostJSON(context.Background(), map[string]string{})

	assert.Error(t, err)
}
